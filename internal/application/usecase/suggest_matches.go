package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/elie009/utlityhub360-sub005/internal/application/dto"
	"github.com/elie009/utlityhub360-sub005/internal/domain/model"
	"github.com/elie009/utlityhub360-sub005/internal/domain/port"
	"github.com/elie009/utlityhub360-sub005/internal/domain/service"
	"github.com/elie009/utlityhub360-sub005/internal/domain/valueobject"
)

// SuggestMatchesUseCase runs the matcher over one reconciliation session.
// AUTO-grade suggestions are confirmed immediately; the rest are returned for
// manual review.
type SuggestMatchesUseCase struct {
	reconciliationRepo port.ReconciliationRepository
	statementRepo      port.StatementRepository
	matcher            *service.ReconciliationMatcher
	publisher          port.EventPublisher
	clock              port.Clock
}

// NewSuggestMatchesUseCase wires dependencies.
func NewSuggestMatchesUseCase(
	reconciliationRepo port.ReconciliationRepository,
	statementRepo port.StatementRepository,
	matcher *service.ReconciliationMatcher,
	publisher port.EventPublisher,
	clock port.Clock,
) *SuggestMatchesUseCase {
	return &SuggestMatchesUseCase{
		reconciliationRepo: reconciliationRepo,
		statementRepo:      statementRepo,
		matcher:            matcher,
		publisher:          publisher,
		clock:              clock,
	}
}

// Execute scores the session's open transactions against its unmatched items.
func (uc *SuggestMatchesUseCase) Execute(
	ctx context.Context,
	req dto.SuggestMatchesRequest,
) (dto.SuggestMatchesResponse, error) {
	now := uc.clock.Now()

	// 1. Load the session and its statement.
	session, err := uc.reconciliationRepo.FindByID(ctx, req.ReconciliationID)
	if err != nil {
		return dto.SuggestMatchesResponse{}, fmt.Errorf("find reconciliation: %w", err)
	}
	statement, err := uc.statementRepo.FindByID(ctx, session.StatementID())
	if err != nil {
		return dto.SuggestMatchesResponse{}, fmt.Errorf("find statement: %w", err)
	}

	// 2. Load the system side, dropping transactions already bound.
	transactions, err := uc.reconciliationRepo.ListSystemTransactions(ctx, session.PeriodStart(), session.PeriodEnd())
	if err != nil {
		return dto.SuggestMatchesResponse{}, fmt.Errorf("list system transactions: %w", err)
	}
	open := openTransactions(transactions, session)

	// 3. Score.
	suggestions := uc.matcher.SuggestMatches(open, statement.Items)

	// 4. Auto-confirm the AUTO grade, claiming the statement item.
	resp := dto.SuggestMatchesResponse{ReconciliationID: session.ID()}
	for _, s := range suggestions {
		auto := s.Type.Equal(valueobject.MatchTypeAuto)
		if auto {
			session, _, err = session.ConfirmMatch(s.TransactionID, s.StatementItemID, s.Type, s.Score, s.Reason, now)
			if err != nil {
				return dto.SuggestMatchesResponse{}, fmt.Errorf("confirm auto match: %w", err)
			}
			statement, err = statement.SetItemMatched(s.StatementItemID, true)
			if err != nil {
				return dto.SuggestMatchesResponse{}, fmt.Errorf("mark item matched: %w", err)
			}
		}
		resp.Suggestions = append(resp.Suggestions, dto.MatchSuggestionResponse{
			TransactionID:   s.TransactionID,
			StatementItemID: s.StatementItemID,
			Score:           s.Score,
			Type:            s.Type.String(),
			Reason:          s.Reason,
			AutoConfirmed:   auto,
		})
	}

	// 5. Persist and publish.
	if err := uc.reconciliationRepo.Save(ctx, session); err != nil {
		return dto.SuggestMatchesResponse{}, fmt.Errorf("save reconciliation: %w", err)
	}
	if err := uc.statementRepo.Save(ctx, statement); err != nil {
		return dto.SuggestMatchesResponse{}, fmt.Errorf("save statement: %w", err)
	}
	if err := uc.publisher.Publish(ctx, session.DomainEvents()...); err != nil {
		return dto.SuggestMatchesResponse{}, fmt.Errorf("publish events: %w", err)
	}

	resp.MatchedCount = session.MatchedCount()
	resp.UnmatchedCount = session.UnmatchedCount()
	return resp, nil
}

// openTransactions filters out transactions that already hold an active match
// in the session.
func openTransactions(transactions []model.SystemTransaction, session model.Reconciliation) []model.SystemTransaction {
	bound := make(map[uuid.UUID]bool)
	for _, m := range session.Matches() {
		if m.Status.Active() {
			bound[m.TransactionID] = true
		}
	}
	var open []model.SystemTransaction
	for _, t := range transactions {
		if !bound[t.ID] {
			open = append(open, t)
		}
	}
	return open
}
