package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elie009/utlityhub360-sub005/internal/application/dto"
	"github.com/elie009/utlityhub360-sub005/internal/application/usecase"
	"github.com/elie009/utlityhub360-sub005/internal/domain/model"
	"github.com/elie009/utlityhub360-sub005/internal/domain/service"
)

func TestPostTransfer_Execute(t *testing.T) {
	t.Run("posts a bill payment", func(t *testing.T) {
		ledger := &mockLedgerRepository{}
		publisher := &mockEventPublisher{}

		uc := usecase.NewPostTransferUseCase(ledger, service.NewLedgerPoster(), publisher, testClock())

		req := dto.PostTransferRequest{
			Kind:        "BILL_PAYMENT",
			FromAccount: "Cash",
			FromType:    "ASSET",
			ToAccount:   "Utilities Expense",
			ToType:      "EXPENSE",
			Amount:      decimal.RequireFromString("75.00"),
			Currency:    "USD",
			Description: "Electric bill",
			Reference:   "bill-42",
		}
		resp, err := uc.Execute(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, "BILL_PAYMENT", resp.Kind)
		require.Len(t, resp.Lines, 2)
		require.Len(t, ledger.appendedEntries, 1)
		entry := ledger.appendedEntries[0]
		assert.Equal(t, entry.TotalDebits(), entry.TotalCredits())
		assert.NotEmpty(t, publisher.publishedEvents)
	})

	t.Run("rejects a non-transfer kind", func(t *testing.T) {
		uc := usecase.NewPostTransferUseCase(&mockLedgerRepository{}, service.NewLedgerPoster(), &mockEventPublisher{}, testClock())

		req := dto.PostTransferRequest{
			Kind:        "PAYMENT",
			FromAccount: "Cash",
			FromType:    "ASSET",
			ToAccount:   "Savings",
			ToType:      "ASSET",
			Amount:      decimal.RequireFromString("75.00"),
			Currency:    "USD",
		}
		_, err := uc.Execute(context.Background(), req)
		require.Error(t, err)
	})

	t.Run("rejects an unknown account type", func(t *testing.T) {
		uc := usecase.NewPostTransferUseCase(&mockLedgerRepository{}, service.NewLedgerPoster(), &mockEventPublisher{}, testClock())

		req := dto.PostTransferRequest{
			Kind:        "SAVINGS_TRANSFER",
			FromAccount: "Cash",
			FromType:    "CASHBOX",
			ToAccount:   "Savings",
			ToType:      "ASSET",
			Amount:      decimal.RequireFromString("75.00"),
			Currency:    "USD",
		}
		_, err := uc.Execute(context.Background(), req)
		require.Error(t, err)
	})
}

func TestReverseEntry_Execute(t *testing.T) {
	postedEntry := func(t *testing.T) model.JournalEntry {
		t.Helper()
		poster := service.NewLedgerPoster()
		entry, err := poster.TransferEntry(
			model.EntryKindBillPayment,
			service.AccountCash,
			service.LedgerAccount{Name: "Utilities Expense", Type: service.AccountCash.Type},
			usd("75.00"), testNow, testNow, "Electric bill", "bill-42",
		)
		require.NoError(t, err)
		return entry.ClearEvents()
	}

	t.Run("reverses a posted entry", func(t *testing.T) {
		entry := postedEntry(t)
		ledger := &mockLedgerRepository{
			findByIDFunc: func(ctx context.Context, id uuid.UUID) (model.JournalEntry, error) {
				return entry, nil
			},
		}
		publisher := &mockEventPublisher{}

		uc := usecase.NewReverseEntryUseCase(ledger, publisher, testClock())

		resp, err := uc.Execute(context.Background(), dto.ReverseEntryRequest{
			EntryID: entry.ID(),
			Reason:  "posted twice",
		})

		require.NoError(t, err)
		assert.Equal(t, "REVERSED", resp.Original.Status)
		assert.Equal(t, "REVERSAL", resp.Reversal.Kind)
		assert.Equal(t, entry.ID().String(), resp.Reversal.Reference)
		require.Len(t, ledger.appendedEntries, 1)
		assert.NotEmpty(t, publisher.publishedEvents)
	})

	t.Run("fails on an already reversed entry", func(t *testing.T) {
		entry := postedEntry(t)
		reversed, _, err := entry.Reverse(testNow, "first")
		require.NoError(t, err)

		ledger := &mockLedgerRepository{
			findByIDFunc: func(ctx context.Context, id uuid.UUID) (model.JournalEntry, error) {
				return reversed.ClearEvents(), nil
			},
		}

		uc := usecase.NewReverseEntryUseCase(ledger, &mockEventPublisher{}, testClock())

		_, err = uc.Execute(context.Background(), dto.ReverseEntryRequest{EntryID: entry.ID(), Reason: "again"})
		require.Error(t, err)
	})
}
