package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elie009/utlityhub360-sub005/internal/application/dto"
	"github.com/elie009/utlityhub360-sub005/internal/application/usecase"
	"github.com/elie009/utlityhub360-sub005/internal/domain/model"
)

func TestConfirmMatch_Execute(t *testing.T) {
	t.Run("binds a transaction to an item manually", func(t *testing.T) {
		fx := newReconciliationFixture(t)
		reconciliationRepo := &mockReconciliationRepository{
			findByIDFunc: func(ctx context.Context, id uuid.UUID) (model.Reconciliation, error) {
				return fx.session, nil
			},
		}
		statementRepo := &mockStatementRepository{
			findByIDFunc: func(ctx context.Context, id uuid.UUID) (model.BankStatement, error) {
				return fx.statement, nil
			},
		}
		publisher := &mockEventPublisher{}

		uc := usecase.NewConfirmMatchUseCase(reconciliationRepo, statementRepo, publisher, testClock())

		req := dto.ConfirmMatchRequest{
			ReconciliationID: fx.session.ID(),
			TransactionID:    fx.transactions[0].ID,
			StatementItemID:  fx.statement.Items[0].ID,
			Reason:           "operator confirmed",
		}
		resp, err := uc.Execute(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, "MANUAL", resp.Type)
		assert.Equal(t, "MATCHED", resp.Status)

		require.Len(t, statementRepo.savedStatements, 1)
		item, ok := statementRepo.savedStatements[0].Item(fx.statement.Items[0].ID)
		require.True(t, ok)
		assert.True(t, item.Matched)
		assert.NotEmpty(t, publisher.publishedEvents)
	})

	t.Run("rejects an unknown statement item", func(t *testing.T) {
		fx := newReconciliationFixture(t)
		reconciliationRepo := &mockReconciliationRepository{
			findByIDFunc: func(ctx context.Context, id uuid.UUID) (model.Reconciliation, error) {
				return fx.session, nil
			},
		}
		statementRepo := &mockStatementRepository{
			findByIDFunc: func(ctx context.Context, id uuid.UUID) (model.BankStatement, error) {
				return fx.statement, nil
			},
		}

		uc := usecase.NewConfirmMatchUseCase(reconciliationRepo, statementRepo, &mockEventPublisher{}, testClock())

		req := dto.ConfirmMatchRequest{
			ReconciliationID: fx.session.ID(),
			TransactionID:    fx.transactions[0].ID,
			StatementItemID:  uuid.New(),
		}
		_, err := uc.Execute(context.Background(), req)
		require.Error(t, err)
	})

	t.Run("rejects a second match on a bound side", func(t *testing.T) {
		fx := newReconciliationFixture(t)
		session, _, err := fx.session.ConfirmMatch(
			fx.transactions[0].ID, fx.statement.Items[0].ID,
			mustMatchType(t, "MANUAL"), 0, "", testNow,
		)
		require.NoError(t, err)
		fx.session = session.ClearEvents()

		reconciliationRepo := &mockReconciliationRepository{
			findByIDFunc: func(ctx context.Context, id uuid.UUID) (model.Reconciliation, error) {
				return fx.session, nil
			},
		}
		statementRepo := &mockStatementRepository{
			findByIDFunc: func(ctx context.Context, id uuid.UUID) (model.BankStatement, error) {
				return fx.statement, nil
			},
		}

		uc := usecase.NewConfirmMatchUseCase(reconciliationRepo, statementRepo, &mockEventPublisher{}, testClock())

		req := dto.ConfirmMatchRequest{
			ReconciliationID: fx.session.ID(),
			TransactionID:    fx.transactions[0].ID,
			StatementItemID:  fx.statement.Items[1].ID,
		}
		_, err = uc.Execute(context.Background(), req)
		require.ErrorIs(t, err, model.ErrAlreadyMatched)
	})
}

func TestUnmatch_Execute(t *testing.T) {
	t.Run("releases the match and frees the item", func(t *testing.T) {
		fx := newReconciliationFixture(t)
		session, match, err := fx.session.ConfirmMatch(
			fx.transactions[0].ID, fx.statement.Items[0].ID,
			mustMatchType(t, "AUTO"), 100, "amount+date+description", testNow,
		)
		require.NoError(t, err)
		fx.session = session.ClearEvents()
		fx.statement, err = fx.statement.SetItemMatched(fx.statement.Items[0].ID, true)
		require.NoError(t, err)

		reconciliationRepo := &mockReconciliationRepository{
			findByIDFunc: func(ctx context.Context, id uuid.UUID) (model.Reconciliation, error) {
				return fx.session, nil
			},
		}
		statementRepo := &mockStatementRepository{
			findByIDFunc: func(ctx context.Context, id uuid.UUID) (model.BankStatement, error) {
				return fx.statement, nil
			},
		}
		publisher := &mockEventPublisher{}

		uc := usecase.NewUnmatchUseCase(reconciliationRepo, statementRepo, publisher, testClock())

		resp, err := uc.Execute(context.Background(), dto.UnmatchRequest{
			ReconciliationID: fx.session.ID(),
			MatchID:          match.ID,
		})

		require.NoError(t, err)
		assert.Equal(t, "UNMATCHED", resp.Status)

		require.Len(t, statementRepo.savedStatements, 1)
		item, ok := statementRepo.savedStatements[0].Item(fx.statement.Items[0].ID)
		require.True(t, ok)
		assert.False(t, item.Matched)

		require.Len(t, reconciliationRepo.savedSessions, 1)
		assert.Equal(t, 0, reconciliationRepo.savedSessions[0].MatchedCount())
	})

	t.Run("fails on an unknown match", func(t *testing.T) {
		fx := newReconciliationFixture(t)
		reconciliationRepo := &mockReconciliationRepository{
			findByIDFunc: func(ctx context.Context, id uuid.UUID) (model.Reconciliation, error) {
				return fx.session, nil
			},
		}

		uc := usecase.NewUnmatchUseCase(reconciliationRepo, &mockStatementRepository{}, &mockEventPublisher{}, testClock())

		_, err := uc.Execute(context.Background(), dto.UnmatchRequest{
			ReconciliationID: fx.session.ID(),
			MatchID:          uuid.New(),
		})
		require.Error(t, err)
	})
}
