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

// RefinanceLoanUseCase closes a loan into a successor carrying the
// predecessor's outstanding total as principal on new terms. The chain is
// forward-only: a loan refinances into at most one successor.
type RefinanceLoanUseCase struct {
	loanRepo  port.LoanRepository
	publisher port.EventPublisher
	clock     port.Clock
}

// NewRefinanceLoanUseCase wires dependencies.
func NewRefinanceLoanUseCase(
	loanRepo port.LoanRepository,
	publisher port.EventPublisher,
	clock port.Clock,
) *RefinanceLoanUseCase {
	return &RefinanceLoanUseCase{
		loanRepo:  loanRepo,
		publisher: publisher,
		clock:     clock,
	}
}

// Execute creates the successor, closes the predecessor into it and persists
// both. An already-refinanced loan fails with ErrAlreadyRefinanced.
func (uc *RefinanceLoanUseCase) Execute(
	ctx context.Context,
	req dto.RefinanceLoanRequest,
) (dto.RefinanceResponse, error) {
	now := uc.clock.Now()

	// 1. Retrieve the predecessor.
	predecessor, err := uc.loanRepo.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.RefinanceResponse{}, fmt.Errorf("find loan: %w", err)
	}

	outstanding := predecessor.OutstandingTotal()
	if !outstanding.IsPositive() {
		return dto.RefinanceResponse{}, fmt.Errorf("refinance loan %s: nothing outstanding", predecessor.ID())
	}

	method, err := valueobject.NewAmortizationMethod(req.Method)
	if err != nil {
		return dto.RefinanceResponse{}, fmt.Errorf("refinance loan: %w", err)
	}
	frequency, err := valueobject.NewPaymentFrequency(req.Frequency)
	if err != nil {
		return dto.RefinanceResponse{}, fmt.Errorf("refinance loan: %w", err)
	}

	// 2. Open the successor on the outstanding amount.
	terms := model.LoanTerms{
		Principal:     outstanding,
		AnnualRatePct: req.AnnualRatePct,
		TermMonths:    req.TermMonths,
		Method:        method,
		Frequency:     frequency,
		StartDate:     req.StartDate,
		DownPayment:   money.Zero(outstanding.Currency()),
		ProcessingFee: money.Zero(outstanding.Currency()),
	}
	successor, err := model.NewRefinanceLoan(predecessor.BorrowerID(), terms, predecessor.ID(), now)
	if err != nil {
		return dto.RefinanceResponse{}, fmt.Errorf("create successor: %w", err)
	}

	// 3. Close the predecessor into it.
	predecessor, err = predecessor.CloseIntoRefinance(successor.ID(), now)
	if err != nil {
		return dto.RefinanceResponse{}, fmt.Errorf("close predecessor: %w", err)
	}

	// 4. Persist both sides.
	if err := uc.loanRepo.Save(ctx, successor); err != nil {
		return dto.RefinanceResponse{}, fmt.Errorf("save successor: %w", err)
	}
	if err := uc.loanRepo.Save(ctx, predecessor); err != nil {
		return dto.RefinanceResponse{}, fmt.Errorf("save predecessor: %w", err)
	}

	// 5. Publish events.
	events := append(predecessor.DomainEvents(), successor.DomainEvents()...)
	if err := uc.publisher.Publish(ctx, events...); err != nil {
		return dto.RefinanceResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return dto.RefinanceResponse{
		PredecessorID: predecessor.ID(),
		SuccessorID:   successor.ID(),
		Principal:     outstanding.Decimal(),
		Successor:     toLoanResponse(successor, true),
	}, nil
}
