package service

import (
	"fmt"

	"github.com/elie009/utlityhub360-sub005/internal/domain/model"
	"github.com/elie009/utlityhub360-sub005/internal/domain/port"
	"github.com/elie009/utlityhub360-sub005/internal/domain/valueobject"
	"github.com/elie009/utlityhub360-sub005/pkg/money"
)

// EntrySettlement records how much of one payment landed on one schedule
// entry, split the way the ledger posting needs it.
type EntrySettlement struct {
	EntryNumber int
	Penalty     money.Money
	Interest    money.Money
	Principal   money.Money
	EntryPaid   bool
}

// AllocationResult is the outcome of applying one payment to a loan.
type AllocationResult struct {
	Payment     model.Payment
	Loan        model.Loan
	Penalties   []model.Penalty
	Settlements []EntrySettlement
	// Remainder is the overpayment left after every outstanding entry and
	// penalty is covered. The caller decides its disposition; the allocator
	// never silently discards or negative-balances.
	Remainder money.Money
}

// PaymentAllocator applies payments to a loan's outstanding schedule.
type PaymentAllocator struct {
	policy port.PolicyProvider
}

// NewPaymentAllocator wires the overpayment policy.
func NewPaymentAllocator(policy port.PolicyProvider) *PaymentAllocator {
	return &PaymentAllocator{policy: policy}
}

// Allocate applies the payment to the loan's unpaid entries, oldest due date
// first. Within an entry the order is penalty, then interest, then principal.
// An explicit entry target is settled first, clamped to its outstanding
// amount; the excess cascades to the next oldest unpaid entry. Anything left
// beyond all outstanding debt is returned as the remainder, or rejected when
// the policy demands it.
func (a *PaymentAllocator) Allocate(
	loan model.Loan,
	penalties []model.Penalty,
	payment model.Payment,
) (AllocationResult, error) {
	if !loan.Status().Equal(valueobject.LoanStatusActive) {
		return AllocationResult{}, fmt.Errorf("allocate payment: loan %s is %s, payments require an active loan",
			loan.ID(), loan.Status())
	}
	if payment.LoanID != loan.ID() {
		return AllocationResult{}, fmt.Errorf("allocate payment: payment %s targets loan %s, not %s",
			payment.ID, payment.LoanID, loan.ID())
	}

	ordered := loan.UnpaidEntriesDueOrder()
	if payment.EntryNumber != nil {
		target, ok := loan.Entry(*payment.EntryNumber)
		if !ok {
			return AllocationResult{}, fmt.Errorf("allocate payment: loan %s has no schedule entry %d",
				loan.ID(), *payment.EntryNumber)
		}
		ordered = promoteEntry(ordered, target)
	}

	updatedPenalties := append([]model.Penalty(nil), penalties...)
	remaining := payment.Amount
	var settlements []EntrySettlement

	for _, entry := range ordered {
		if remaining.IsZero() {
			break
		}

		settlement := EntrySettlement{
			EntryNumber: entry.Number,
			Penalty:     money.Zero(remaining.Currency()),
			Interest:    money.Zero(remaining.Currency()),
			Principal:   money.Zero(remaining.Currency()),
		}

		// Outstanding penalty on the entry is consumed before the entry
		// amounts themselves.
		for i, p := range updatedPenalties {
			if p.LoanID != loan.ID() || p.EntryNumber != entry.Number || p.IsPaid() {
				continue
			}
			pay := remaining.Min(p.Outstanding())
			if !pay.IsPositive() {
				continue
			}
			settled, err := p.Settle(pay)
			if err != nil {
				return AllocationResult{}, fmt.Errorf("allocate payment: %w", err)
			}
			updatedPenalties[i] = settled
			settlement.Penalty, _ = settlement.Penalty.Add(pay)
			remaining, _ = remaining.Subtract(pay)
			if remaining.IsZero() {
				break
			}
		}
		if remaining.IsZero() {
			if settlement.Penalty.IsPositive() {
				settlements = append(settlements, settlement)
			}
			break
		}

		before, _ := loan.Entry(entry.Number)
		pay := remaining.Min(before.Outstanding())
		if pay.IsPositive() {
			var err error
			loan, err = loan.SettleEntry(entry.Number, pay, payment.PaidAt)
			if err != nil {
				return AllocationResult{}, fmt.Errorf("allocate payment: %w", err)
			}
			after, _ := loan.Entry(entry.Number)

			settlement.Interest, _ = after.SettledInterest().Subtract(before.SettledInterest())
			settlement.Principal, _ = after.SettledPrincipal().Subtract(before.SettledPrincipal())
			settlement.EntryPaid = after.IsPaid()
			remaining, _ = remaining.Subtract(pay)
		}

		if settlement.Penalty.IsPositive() || settlement.Interest.IsPositive() || settlement.Principal.IsPositive() {
			settlements = append(settlements, settlement)
		}
	}

	if remaining.IsPositive() && a.policy.RejectOverpayment() {
		return AllocationResult{}, fmt.Errorf("allocate payment %s: remainder %s: %w",
			payment.Reference, remaining, model.ErrPaymentExceedsOutstanding)
	}

	loan = loan.RecordPaymentAllocated(payment.ID, payment.Amount, remaining, payment.PaidAt)

	return AllocationResult{
		Payment:     payment,
		Loan:        loan,
		Penalties:   updatedPenalties,
		Settlements: settlements,
		Remainder:   remaining,
	}, nil
}

// promoteEntry moves the explicit target to the front, keeping the rest in
// due-date order so excess cascades to the next oldest unpaid entry.
func promoteEntry(ordered []model.ScheduleEntry, target model.ScheduleEntry) []model.ScheduleEntry {
	out := make([]model.ScheduleEntry, 0, len(ordered)+1)
	out = append(out, target)
	for _, e := range ordered {
		if e.Number != target.Number {
			out = append(out, e)
		}
	}
	return out
}
