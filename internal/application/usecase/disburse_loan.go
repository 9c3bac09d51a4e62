package usecase

import (
	"context"
	"fmt"

	"github.com/elie009/utlityhub360-sub005/internal/application/dto"
	"github.com/elie009/utlityhub360-sub005/internal/domain/port"
	"github.com/elie009/utlityhub360-sub005/internal/domain/service"
)

// DisburseLoanUseCase releases funds on a pending loan and posts the
// disbursement to the ledger.
type DisburseLoanUseCase struct {
	loanRepo  port.LoanRepository
	ledger    port.LedgerRepository
	poster    *service.LedgerPoster
	publisher port.EventPublisher
	clock     port.Clock
}

// NewDisburseLoanUseCase wires dependencies.
func NewDisburseLoanUseCase(
	loanRepo port.LoanRepository,
	ledger port.LedgerRepository,
	poster *service.LedgerPoster,
	publisher port.EventPublisher,
	clock port.Clock,
) *DisburseLoanUseCase {
	return &DisburseLoanUseCase{
		loanRepo:  loanRepo,
		ledger:    ledger,
		poster:    poster,
		publisher: publisher,
		clock:     clock,
	}
}

// Execute disburses the loan: PENDING -> ACTIVE plus one balanced journal
// entry for the funds released.
func (uc *DisburseLoanUseCase) Execute(
	ctx context.Context,
	req dto.DisburseLoanRequest,
) (dto.LoanResponse, error) {
	now := uc.clock.Now()

	// 1. Retrieve the loan.
	loan, err := uc.loanRepo.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find loan: %w", err)
	}

	// 2. Transition to ACTIVE.
	loan, err = loan.Disburse(now)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("disburse loan: %w", err)
	}

	// 3. Persist the loan. The version check serializes the transition, so
	// a concurrent disbursement fails here before anything reaches the
	// journal.
	if err := uc.loanRepo.Save(ctx, loan); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("save loan: %w", err)
	}

	// 4. Post the disbursement entry. Disburse rejects a second transition
	// on the reloaded loan, so a retry cannot post twice.
	entry, err := uc.poster.DisbursementEntry(loan, now, now)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("build disbursement entry: %w", err)
	}
	if err := uc.ledger.AppendAtomic(ctx, entry); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("append journal entry: %w", err)
	}

	// 5. Publish events from both aggregates.
	events := append(loan.DomainEvents(), entry.DomainEvents()...)
	if err := uc.publisher.Publish(ctx, events...); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return toLoanResponse(loan, false), nil
}
