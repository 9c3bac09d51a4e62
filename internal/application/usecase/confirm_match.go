package usecase

import (
	"context"
	"fmt"

	"github.com/elie009/utlityhub360-sub005/internal/application/dto"
	"github.com/elie009/utlityhub360-sub005/internal/domain/port"
	"github.com/elie009/utlityhub360-sub005/internal/domain/valueobject"
)

// ConfirmMatchUseCase manually binds a system transaction to a statement item.
type ConfirmMatchUseCase struct {
	reconciliationRepo port.ReconciliationRepository
	statementRepo      port.StatementRepository
	publisher          port.EventPublisher
	clock              port.Clock
}

// NewConfirmMatchUseCase wires dependencies.
func NewConfirmMatchUseCase(
	reconciliationRepo port.ReconciliationRepository,
	statementRepo port.StatementRepository,
	publisher port.EventPublisher,
	clock port.Clock,
) *ConfirmMatchUseCase {
	return &ConfirmMatchUseCase{
		reconciliationRepo: reconciliationRepo,
		statementRepo:      statementRepo,
		publisher:          publisher,
		clock:              clock,
	}
}

// Execute records a MANUAL match. Either side already holding an active match
// fails with ErrAlreadyMatched.
func (uc *ConfirmMatchUseCase) Execute(
	ctx context.Context,
	req dto.ConfirmMatchRequest,
) (dto.MatchResponse, error) {
	now := uc.clock.Now()

	session, err := uc.reconciliationRepo.FindByID(ctx, req.ReconciliationID)
	if err != nil {
		return dto.MatchResponse{}, fmt.Errorf("find reconciliation: %w", err)
	}
	statement, err := uc.statementRepo.FindByID(ctx, session.StatementID())
	if err != nil {
		return dto.MatchResponse{}, fmt.Errorf("find statement: %w", err)
	}
	if _, ok := statement.Item(req.StatementItemID); !ok {
		return dto.MatchResponse{}, fmt.Errorf("statement %s has no item %s", statement.ID, req.StatementItemID)
	}

	session, match, err := session.ConfirmMatch(
		req.TransactionID, req.StatementItemID,
		valueobject.MatchTypeManual, 0, req.Reason, now,
	)
	if err != nil {
		return dto.MatchResponse{}, fmt.Errorf("confirm match: %w", err)
	}
	statement, err = statement.SetItemMatched(req.StatementItemID, true)
	if err != nil {
		return dto.MatchResponse{}, fmt.Errorf("mark item matched: %w", err)
	}

	if err := uc.reconciliationRepo.Save(ctx, session); err != nil {
		return dto.MatchResponse{}, fmt.Errorf("save reconciliation: %w", err)
	}
	if err := uc.statementRepo.Save(ctx, statement); err != nil {
		return dto.MatchResponse{}, fmt.Errorf("save statement: %w", err)
	}
	if err := uc.publisher.Publish(ctx, session.DomainEvents()...); err != nil {
		return dto.MatchResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return dto.MatchResponse{
		MatchID:          match.ID,
		ReconciliationID: session.ID(),
		TransactionID:    match.TransactionID,
		StatementItemID:  match.StatementItemID,
		Type:             match.Type.String(),
		Status:           match.Status.String(),
		Score:            match.Score,
	}, nil
}
