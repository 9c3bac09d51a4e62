package usecase

import (
	"context"
	"fmt"

	"github.com/elie009/utlityhub360-sub005/internal/application/dto"
	"github.com/elie009/utlityhub360-sub005/internal/domain/model"
	"github.com/elie009/utlityhub360-sub005/internal/domain/port"
	"github.com/elie009/utlityhub360-sub005/internal/domain/valueobject"
	"github.com/elie009/utlityhub360-sub005/pkg/money"
)

// CreateLoanUseCase opens a new loan in PENDING status with its full
// repayment schedule generated up front.
type CreateLoanUseCase struct {
	loanRepo  port.LoanRepository
	publisher port.EventPublisher
	clock     port.Clock
}

// NewCreateLoanUseCase wires dependencies.
func NewCreateLoanUseCase(
	loanRepo port.LoanRepository,
	publisher port.EventPublisher,
	clock port.Clock,
) *CreateLoanUseCase {
	return &CreateLoanUseCase{
		loanRepo:  loanRepo,
		publisher: publisher,
		clock:     clock,
	}
}

// Execute validates the terms, generates the schedule and persists the loan.
func (uc *CreateLoanUseCase) Execute(
	ctx context.Context,
	req dto.CreateLoanRequest,
) (dto.LoanResponse, error) {
	now := uc.clock.Now()

	terms, err := termsFromRequest(req)
	if err != nil {
		return dto.LoanResponse{}, err
	}

	// 1. Build the aggregate; terms validation and schedule generation
	//    happen inside.
	loan, err := model.NewLoan(req.BorrowerID, terms, now)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("create loan: %w", err)
	}

	// 2. Persist.
	if err := uc.loanRepo.Save(ctx, loan); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("save loan: %w", err)
	}

	// 3. Publish events.
	if err := uc.publisher.Publish(ctx, loan.DomainEvents()...); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return toLoanResponse(loan, true), nil
}

func termsFromRequest(req dto.CreateLoanRequest) (model.LoanTerms, error) {
	currency, err := money.NewCurrency(req.Currency)
	if err != nil {
		return model.LoanTerms{}, fmt.Errorf("create loan: %w", err)
	}
	method, err := valueobject.NewAmortizationMethod(req.Method)
	if err != nil {
		return model.LoanTerms{}, fmt.Errorf("create loan: %w", err)
	}
	frequency, err := valueobject.NewPaymentFrequency(req.Frequency)
	if err != nil {
		return model.LoanTerms{}, fmt.Errorf("create loan: %w", err)
	}

	return model.LoanTerms{
		Principal:     money.FromDecimal(req.Principal, currency),
		AnnualRatePct: req.AnnualRatePct,
		TermMonths:    req.TermMonths,
		Method:        method,
		Frequency:     frequency,
		StartDate:     req.StartDate,
		DownPayment:   money.FromDecimal(req.DownPayment, currency),
		ProcessingFee: money.FromDecimal(req.ProcessingFee, currency),
	}, nil
}
