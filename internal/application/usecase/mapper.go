package usecase

import (
	"github.com/elie009/utlityhub360-sub005/internal/application/dto"
	"github.com/elie009/utlityhub360-sub005/internal/domain/model"
)

func toLoanResponse(loan model.Loan, withSchedule bool) dto.LoanResponse {
	resp := dto.LoanResponse{
		ID:               loan.ID(),
		BorrowerID:       loan.BorrowerID(),
		Principal:        loan.Terms().Principal.Decimal(),
		Currency:         loan.Currency().Code(),
		AnnualRatePct:    loan.Terms().AnnualRatePct,
		TermMonths:       loan.Terms().TermMonths,
		Method:           loan.Terms().Method.String(),
		Frequency:        loan.Terms().Frequency.String(),
		Status:           loan.Status().String(),
		Outstanding:      loan.OutstandingTotal().Decimal(),
		RefinancedFromID: loan.RefinancedFromID(),
		RefinancedIntoID: loan.RefinancedIntoID(),
		CreatedAt:        loan.CreatedAt(),
		UpdatedAt:        loan.UpdatedAt(),
	}
	if withSchedule {
		for _, e := range loan.Schedule() {
			resp.Schedule = append(resp.Schedule, dto.ScheduleEntryResponse{
				Number:    e.Number,
				DueDate:   e.DueDate,
				Principal: e.Principal.Decimal(),
				Interest:  e.Interest.Decimal(),
				Total:     e.Total.Decimal(),
				Status:    e.Status.String(),
				Settled:   e.Settled.Decimal(),
				PaidAt:    e.PaidAt,
			})
		}
	}
	return resp
}

func toJournalEntryResponse(entry model.JournalEntry) dto.JournalEntryResponse {
	resp := dto.JournalEntryResponse{
		ID:            entry.ID(),
		Kind:          string(entry.Kind()),
		Status:        string(entry.Status()),
		EffectiveDate: entry.EffectiveDate(),
		Description:   entry.Description(),
		Reference:     entry.Reference(),
	}
	for _, l := range entry.Lines() {
		resp.Lines = append(resp.Lines, dto.JournalLineResponse{
			Account: l.Account,
			Type:    l.Type.String(),
			Side:    l.Side.String(),
			Amount:  l.Amount.Decimal(),
		})
	}
	return resp
}
