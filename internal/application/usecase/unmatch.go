package usecase

import (
	"context"
	"fmt"

	"github.com/elie009/utlityhub360-sub005/internal/application/dto"
	"github.com/elie009/utlityhub360-sub005/internal/domain/port"
)

// UnmatchUseCase releases a confirmed match so both sides can be re-matched.
type UnmatchUseCase struct {
	reconciliationRepo port.ReconciliationRepository
	statementRepo      port.StatementRepository
	publisher          port.EventPublisher
	clock              port.Clock
}

// NewUnmatchUseCase wires dependencies.
func NewUnmatchUseCase(
	reconciliationRepo port.ReconciliationRepository,
	statementRepo port.StatementRepository,
	publisher port.EventPublisher,
	clock port.Clock,
) *UnmatchUseCase {
	return &UnmatchUseCase{
		reconciliationRepo: reconciliationRepo,
		statementRepo:      statementRepo,
		publisher:          publisher,
		clock:              clock,
	}
}

// Execute releases the match and frees the statement item.
func (uc *UnmatchUseCase) Execute(
	ctx context.Context,
	req dto.UnmatchRequest,
) (dto.MatchResponse, error) {
	now := uc.clock.Now()

	session, err := uc.reconciliationRepo.FindByID(ctx, req.ReconciliationID)
	if err != nil {
		return dto.MatchResponse{}, fmt.Errorf("find reconciliation: %w", err)
	}

	session, match, err := session.Unmatch(req.MatchID, now)
	if err != nil {
		return dto.MatchResponse{}, fmt.Errorf("unmatch: %w", err)
	}

	// Free the statement item for re-matching.
	if match.StatementItemID != nil {
		statement, err := uc.statementRepo.FindByID(ctx, session.StatementID())
		if err != nil {
			return dto.MatchResponse{}, fmt.Errorf("find statement: %w", err)
		}
		statement, err = statement.SetItemMatched(*match.StatementItemID, false)
		if err != nil {
			return dto.MatchResponse{}, fmt.Errorf("release item: %w", err)
		}
		if err := uc.statementRepo.Save(ctx, statement); err != nil {
			return dto.MatchResponse{}, fmt.Errorf("save statement: %w", err)
		}
	}

	if err := uc.reconciliationRepo.Save(ctx, session); err != nil {
		return dto.MatchResponse{}, fmt.Errorf("save reconciliation: %w", err)
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
