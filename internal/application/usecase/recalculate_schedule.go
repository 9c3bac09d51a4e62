package usecase

import (
	"context"
	"fmt"

	"github.com/elie009/utlityhub360-sub005/internal/application/dto"
	"github.com/elie009/utlityhub360-sub005/internal/domain/port"
)

// RecalculateScheduleUseCase regenerates a loan's schedule under a new rate.
// It is only permitted before repayment starts; after that, refinancing is
// the path to new terms.
type RecalculateScheduleUseCase struct {
	loanRepo  port.LoanRepository
	publisher port.EventPublisher
	clock     port.Clock
}

// NewRecalculateScheduleUseCase wires dependencies.
func NewRecalculateScheduleUseCase(
	loanRepo port.LoanRepository,
	publisher port.EventPublisher,
	clock port.Clock,
) *RecalculateScheduleUseCase {
	return &RecalculateScheduleUseCase{
		loanRepo:  loanRepo,
		publisher: publisher,
		clock:     clock,
	}
}

// Execute regenerates the schedule, failing with ErrScheduleLocked when any
// entry has already been paid.
func (uc *RecalculateScheduleUseCase) Execute(
	ctx context.Context,
	req dto.RecalculateScheduleRequest,
) (dto.LoanResponse, error) {
	now := uc.clock.Now()

	loan, err := uc.loanRepo.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find loan: %w", err)
	}

	loan, err = loan.RecalculateSchedule(req.AnnualRatePct, now)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("recalculate schedule: %w", err)
	}

	if err := uc.loanRepo.Save(ctx, loan); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("save loan: %w", err)
	}
	if err := uc.publisher.Publish(ctx, loan.DomainEvents()...); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return toLoanResponse(loan, true), nil
}
