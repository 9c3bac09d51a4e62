package usecase

import (
	"context"
	"fmt"

	"github.com/elie009/utlityhub360-sub005/internal/application/dto"
	"github.com/elie009/utlityhub360-sub005/internal/domain/port"
	"github.com/elie009/utlityhub360-sub005/internal/domain/service"
)

// EvaluatePenaltiesUseCase sweeps all active loans for overdue entries. It is
// idempotent per overdue spell and safe to run from a periodic batch.
type EvaluatePenaltiesUseCase struct {
	loanRepo    port.LoanRepository
	penaltyRepo port.PenaltyRepository
	calculator  *service.PenaltyCalculator
	publisher   port.EventPublisher
	clock       port.Clock
}

// NewEvaluatePenaltiesUseCase wires dependencies.
func NewEvaluatePenaltiesUseCase(
	loanRepo port.LoanRepository,
	penaltyRepo port.PenaltyRepository,
	calculator *service.PenaltyCalculator,
	publisher port.EventPublisher,
	clock port.Clock,
) *EvaluatePenaltiesUseCase {
	return &EvaluatePenaltiesUseCase{
		loanRepo:    loanRepo,
		penaltyRepo: penaltyRepo,
		calculator:  calculator,
		publisher:   publisher,
		clock:       clock,
	}
}

// Execute evaluates every active loan. A loan that fails mid-batch aborts the
// run so a retry re-covers it; earlier loans were already idempotent.
func (uc *EvaluatePenaltiesUseCase) Execute(ctx context.Context) (dto.PenaltyBatchResponse, error) {
	now := uc.clock.Now()

	loans, err := uc.loanRepo.FindActive(ctx)
	if err != nil {
		return dto.PenaltyBatchResponse{}, fmt.Errorf("find active loans: %w", err)
	}

	resp := dto.PenaltyBatchResponse{}
	for _, loan := range loans {
		existing, err := uc.penaltyRepo.FindByLoan(ctx, loan.ID())
		if err != nil {
			return resp, fmt.Errorf("find penalties for loan %s: %w", loan.ID(), err)
		}

		eval, err := uc.calculator.EvaluateOverdue(loan, existing, now)
		if err != nil {
			return resp, fmt.Errorf("evaluate loan %s: %w", loan.ID(), err)
		}
		resp.LoansEvaluated++
		if len(eval.NewPenalties) == 0 {
			continue
		}

		if err := uc.penaltyRepo.SaveAll(ctx, eval.NewPenalties); err != nil {
			return resp, fmt.Errorf("save penalties for loan %s: %w", loan.ID(), err)
		}
		if err := uc.loanRepo.Save(ctx, eval.Loan); err != nil {
			return resp, fmt.Errorf("save loan %s: %w", loan.ID(), err)
		}
		if err := uc.publisher.Publish(ctx, eval.Events...); err != nil {
			return resp, fmt.Errorf("publish events for loan %s: %w", loan.ID(), err)
		}

		resp.PenaltiesCreated += len(eval.NewPenalties)
		for _, p := range eval.NewPenalties {
			resp.TotalCharged = resp.TotalCharged.Add(p.Amount.Decimal())
		}
	}
	return resp, nil
}
