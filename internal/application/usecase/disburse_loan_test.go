package usecase_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elie009/utlityhub360-sub005/internal/application/dto"
	"github.com/elie009/utlityhub360-sub005/internal/application/usecase"
	"github.com/elie009/utlityhub360-sub005/internal/domain/model"
	"github.com/elie009/utlityhub360-sub005/internal/domain/service"
)

func TestDisburseLoan_Execute(t *testing.T) {
	t.Run("activates the loan and posts the disbursement", func(t *testing.T) {
		loan := pendingLoan(t)
		loanRepo := &mockLoanRepository{
			findByIDFunc: func(ctx context.Context, id uuid.UUID) (model.Loan, error) {
				return loan, nil
			},
		}
		ledger := &mockLedgerRepository{}
		publisher := &mockEventPublisher{}

		uc := usecase.NewDisburseLoanUseCase(loanRepo, ledger, service.NewLedgerPoster(), publisher, testClock())

		resp, err := uc.Execute(context.Background(), dto.DisburseLoanRequest{LoanID: loan.ID()})

		require.NoError(t, err)
		assert.Equal(t, "ACTIVE", resp.Status)

		require.Len(t, ledger.appendedEntries, 1)
		entry := ledger.appendedEntries[0]
		assert.Equal(t, model.EntryKindDisbursement, entry.Kind())
		assert.Equal(t, usd("1200.00"), entry.TotalDebits())
		assert.Equal(t, entry.TotalDebits(), entry.TotalCredits())

		require.Len(t, loanRepo.savedLoans, 1)
		assert.NotEmpty(t, publisher.publishedEvents)
	})

	t.Run("fails on an already active loan", func(t *testing.T) {
		loan := activeLoan(t)
		loanRepo := &mockLoanRepository{
			findByIDFunc: func(ctx context.Context, id uuid.UUID) (model.Loan, error) {
				return loan, nil
			},
		}

		uc := usecase.NewDisburseLoanUseCase(loanRepo, &mockLedgerRepository{}, service.NewLedgerPoster(), &mockEventPublisher{}, testClock())

		_, err := uc.Execute(context.Background(), dto.DisburseLoanRequest{LoanID: loan.ID()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disburse loan")
	})

	t.Run("fails when ledger append fails", func(t *testing.T) {
		loan := pendingLoan(t)
		loanRepo := &mockLoanRepository{
			findByIDFunc: func(ctx context.Context, id uuid.UUID) (model.Loan, error) {
				return loan, nil
			},
		}
		ledger := &mockLedgerRepository{
			appendFunc: func(ctx context.Context, entry model.JournalEntry) error {
				return fmt.Errorf("database unavailable")
			},
		}

		uc := usecase.NewDisburseLoanUseCase(loanRepo, ledger, service.NewLedgerPoster(), &mockEventPublisher{}, testClock())

		_, err := uc.Execute(context.Background(), dto.DisburseLoanRequest{LoanID: loan.ID()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "append journal entry")
		// The ACTIVE loan was already saved, so a retry fails the
		// Disburse transition instead of posting a second entry.
		assert.Len(t, loanRepo.savedLoans, 1)
	})

	t.Run("loan save conflict posts nothing", func(t *testing.T) {
		loan := pendingLoan(t)
		loanRepo := &mockLoanRepository{
			findByIDFunc: func(ctx context.Context, id uuid.UUID) (model.Loan, error) {
				return loan, nil
			},
			saveFunc: func(ctx context.Context, l model.Loan) error {
				return fmt.Errorf("optimistic locking conflict on loan")
			},
		}
		ledger := &mockLedgerRepository{}

		uc := usecase.NewDisburseLoanUseCase(loanRepo, ledger, service.NewLedgerPoster(), &mockEventPublisher{}, testClock())

		_, err := uc.Execute(context.Background(), dto.DisburseLoanRequest{LoanID: loan.ID()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "save loan")
		assert.Empty(t, ledger.appendedEntries)
	})
}
