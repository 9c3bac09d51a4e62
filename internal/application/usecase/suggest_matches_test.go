package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elie009/utlityhub360-sub005/internal/application/dto"
	"github.com/elie009/utlityhub360-sub005/internal/application/usecase"
	"github.com/elie009/utlityhub360-sub005/internal/domain/model"
	"github.com/elie009/utlityhub360-sub005/internal/domain/service"
)

type reconciliationFixture struct {
	session      model.Reconciliation
	statement    model.BankStatement
	transactions []model.SystemTransaction
}

// newReconciliationFixture builds a session over one statement with a perfect
// candidate (same day, same amount, shared token) and a fee item nothing
// matches.
func newReconciliationFixture(t *testing.T) reconciliationFixture {
	t.Helper()

	items := []model.StatementItem{
		{Date: periodStart.AddDate(0, 0, 9), Amount: usd("42.00"), Type: model.StatementItemCredit, Description: "GCASH TRANSFER"},
		{Date: periodStart.AddDate(0, 0, 12), Amount: usd("99.00"), Type: model.StatementItemDebit, Description: "BANK FEE"},
	}
	statement, err := model.NewBankStatement("Operating", periodStart, periodEnd, items, testNow)
	require.NoError(t, err)

	transactions := []model.SystemTransaction{
		{
			ID:          uuid.New(),
			Date:        periodStart.AddDate(0, 0, 9),
			Amount:      usd("42.00"),
			Description: "GCASH loan payment",
		},
	}

	session, err := model.NewReconciliation(statement.ID, periodStart, periodEnd, len(transactions), testNow)
	require.NoError(t, err)

	return reconciliationFixture{session: session, statement: statement, transactions: transactions}
}

func newSuggestMatchesUseCase(
	fx *reconciliationFixture,
	reconciliationRepo *mockReconciliationRepository,
	statementRepo *mockStatementRepository,
	publisher *mockEventPublisher,
) *usecase.SuggestMatchesUseCase {
	reconciliationRepo.findByIDFunc = func(ctx context.Context, id uuid.UUID) (model.Reconciliation, error) {
		return fx.session, nil
	}
	reconciliationRepo.listTxnsFunc = func(ctx context.Context, from, to time.Time) ([]model.SystemTransaction, error) {
		return fx.transactions, nil
	}
	statementRepo.findByIDFunc = func(ctx context.Context, id uuid.UUID) (model.BankStatement, error) {
		return fx.statement, nil
	}
	return usecase.NewSuggestMatchesUseCase(
		reconciliationRepo, statementRepo,
		service.NewReconciliationMatcher(defaultPolicy()),
		publisher, testClock(),
	)
}

func TestSuggestMatches_Execute(t *testing.T) {
	t.Run("auto-confirms the perfect candidate", func(t *testing.T) {
		fx := newReconciliationFixture(t)
		reconciliationRepo := &mockReconciliationRepository{}
		statementRepo := &mockStatementRepository{}
		publisher := &mockEventPublisher{}

		uc := newSuggestMatchesUseCase(&fx, reconciliationRepo, statementRepo, publisher)

		resp, err := uc.Execute(context.Background(), dto.SuggestMatchesRequest{ReconciliationID: fx.session.ID()})

		require.NoError(t, err)
		require.Len(t, resp.Suggestions, 1)
		s := resp.Suggestions[0]
		assert.Equal(t, 100, s.Score)
		assert.Equal(t, "AUTO", s.Type)
		assert.True(t, s.AutoConfirmed)
		assert.Equal(t, 1, resp.MatchedCount)
		assert.Equal(t, 0, resp.UnmatchedCount)

		// The claimed item is flagged on the saved statement.
		require.Len(t, statementRepo.savedStatements, 1)
		item, ok := statementRepo.savedStatements[0].Item(s.StatementItemID)
		require.True(t, ok)
		assert.True(t, item.Matched)

		require.Len(t, reconciliationRepo.savedSessions, 1)
		assert.Equal(t, 1, reconciliationRepo.savedSessions[0].MatchedCount())
		assert.NotEmpty(t, publisher.publishedEvents)
	})

	t.Run("weak candidates stay suggestions", func(t *testing.T) {
		fx := newReconciliationFixture(t)
		// Push the transaction two days off and kill the token overlap.
		fx.transactions[0].Date = fx.transactions[0].Date.AddDate(0, 0, 2)
		fx.transactions[0].Description = "internal entry"

		reconciliationRepo := &mockReconciliationRepository{}
		statementRepo := &mockStatementRepository{}

		uc := newSuggestMatchesUseCase(&fx, reconciliationRepo, statementRepo, &mockEventPublisher{})

		resp, err := uc.Execute(context.Background(), dto.SuggestMatchesRequest{ReconciliationID: fx.session.ID()})

		require.NoError(t, err)
		require.Len(t, resp.Suggestions, 1)
		assert.Equal(t, "SUGGESTED", resp.Suggestions[0].Type)
		assert.False(t, resp.Suggestions[0].AutoConfirmed)
		assert.Equal(t, 0, resp.MatchedCount)
		assert.Equal(t, 1, resp.UnmatchedCount)
	})

	t.Run("already matched transactions are skipped", func(t *testing.T) {
		fx := newReconciliationFixture(t)
		session, _, err := fx.session.ConfirmMatch(
			fx.transactions[0].ID, fx.statement.Items[0].ID,
			mustMatchType(t, "MANUAL"), 0, "", testNow,
		)
		require.NoError(t, err)
		fx.session = session.ClearEvents()

		reconciliationRepo := &mockReconciliationRepository{}
		statementRepo := &mockStatementRepository{}

		uc := newSuggestMatchesUseCase(&fx, reconciliationRepo, statementRepo, &mockEventPublisher{})

		resp, err := uc.Execute(context.Background(), dto.SuggestMatchesRequest{ReconciliationID: fx.session.ID()})

		require.NoError(t, err)
		assert.Empty(t, resp.Suggestions)
		assert.Equal(t, 1, resp.MatchedCount)
	})
}
