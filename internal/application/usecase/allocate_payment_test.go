package usecase_test

import (
	"context"
	"fmt"
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

func newAllocatePaymentUseCase(
	loanRepo *mockLoanRepository,
	paymentRepo *mockPaymentRepository,
	penaltyRepo *mockPenaltyRepository,
	ledger *mockLedgerRepository,
	publisher *mockEventPublisher,
) *usecase.AllocatePaymentUseCase {
	policy := defaultPolicy()
	return usecase.NewAllocatePaymentUseCase(
		loanRepo, paymentRepo, penaltyRepo, ledger,
		service.NewPaymentAllocator(policy),
		service.NewLedgerPoster(),
		publisher, testClock(),
	)
}

func TestAllocatePayment_Execute(t *testing.T) {
	t.Run("applies payment and posts a balanced entry", func(t *testing.T) {
		loan := activeLoan(t)
		loanRepo := &mockLoanRepository{
			findByIDFunc: func(ctx context.Context, id uuid.UUID) (model.Loan, error) {
				return loan, nil
			},
		}
		paymentRepo := &mockPaymentRepository{}
		penaltyRepo := &mockPenaltyRepository{}
		ledger := &mockLedgerRepository{}
		publisher := &mockEventPublisher{}

		uc := newAllocatePaymentUseCase(loanRepo, paymentRepo, penaltyRepo, ledger, publisher)

		req := dto.AllocatePaymentRequest{
			LoanID:    loan.ID(),
			Reference: "gcash-001",
			Amount:    decimal.RequireFromString("106.62"),
			Currency:  "USD",
		}
		resp, err := uc.Execute(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, loan.ID(), resp.LoanID)
		assert.True(t, resp.Remainder.IsZero())
		require.Len(t, resp.Settlements, 1)
		assert.True(t, resp.Settlements[0].EntryPaid)

		require.Len(t, ledger.appendedEntries, 1)
		entry := ledger.appendedEntries[0]
		assert.Equal(t, entry.TotalDebits(), entry.TotalCredits())

		require.Len(t, paymentRepo.savedPayments, 1)
		assert.Equal(t, "gcash-001", paymentRepo.savedPayments[0].Reference)
		require.Len(t, loanRepo.savedLoans, 1)
		assert.NotEmpty(t, publisher.publishedEvents)
	})

	t.Run("rejects duplicate reference", func(t *testing.T) {
		loan := activeLoan(t)
		loanRepo := &mockLoanRepository{
			findByIDFunc: func(ctx context.Context, id uuid.UUID) (model.Loan, error) {
				return loan, nil
			},
		}
		paymentRepo := &mockPaymentRepository{
			existsFunc: func(ctx context.Context, loanID uuid.UUID, reference string) (bool, error) {
				return true, nil
			},
		}
		ledger := &mockLedgerRepository{}

		uc := newAllocatePaymentUseCase(loanRepo, paymentRepo, &mockPenaltyRepository{}, ledger, &mockEventPublisher{})

		req := dto.AllocatePaymentRequest{
			LoanID:    loan.ID(),
			Reference: "gcash-001",
			Amount:    decimal.RequireFromString("106.62"),
			Currency:  "USD",
		}
		_, err := uc.Execute(context.Background(), req)

		require.ErrorIs(t, err, model.ErrDuplicatePayment)
		assert.Empty(t, ledger.appendedEntries)
		assert.Empty(t, loanRepo.savedLoans)
	})

	t.Run("returns overpayment remainder", func(t *testing.T) {
		loan := activeLoan(t)
		loanRepo := &mockLoanRepository{
			findByIDFunc: func(ctx context.Context, id uuid.UUID) (model.Loan, error) {
				return loan, nil
			},
		}

		uc := newAllocatePaymentUseCase(loanRepo, &mockPaymentRepository{}, &mockPenaltyRepository{}, &mockLedgerRepository{}, &mockEventPublisher{})

		over := loan.OutstandingTotal().Decimal().Add(decimal.RequireFromString("25.00"))
		req := dto.AllocatePaymentRequest{
			LoanID:    loan.ID(),
			Reference: "gcash-002",
			Amount:    over,
			Currency:  "USD",
		}
		resp, err := uc.Execute(context.Background(), req)

		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("25.00").Equal(resp.Remainder))
		assert.Equal(t, "COMPLETED", resp.LoanStatus)
	})

	t.Run("settles penalty before the entry", func(t *testing.T) {
		loan := activeLoan(t)
		penalty, err := model.NewPenalty(loan.ID(), 1, usd("5.00"), testNow)
		require.NoError(t, err)

		loanRepo := &mockLoanRepository{
			findByIDFunc: func(ctx context.Context, id uuid.UUID) (model.Loan, error) {
				return loan, nil
			},
		}
		penaltyRepo := &mockPenaltyRepository{
			findByLoanFunc: func(ctx context.Context, loanID uuid.UUID) ([]model.Penalty, error) {
				return []model.Penalty{penalty}, nil
			},
		}

		uc := newAllocatePaymentUseCase(loanRepo, &mockPaymentRepository{}, penaltyRepo, &mockLedgerRepository{}, &mockEventPublisher{})

		req := dto.AllocatePaymentRequest{
			LoanID:    loan.ID(),
			Reference: "gcash-003",
			Amount:    decimal.RequireFromString("10.00"),
			Currency:  "USD",
		}
		resp, err := uc.Execute(context.Background(), req)

		require.NoError(t, err)
		require.Len(t, resp.Settlements, 1)
		assert.True(t, decimal.RequireFromString("5.00").Equal(resp.Settlements[0].Penalty))
		require.Len(t, penaltyRepo.savedPenalties, 1)
		assert.True(t, penaltyRepo.savedPenalties[0].IsPaid())
	})

	t.Run("fails when loan not found", func(t *testing.T) {
		uc := newAllocatePaymentUseCase(&mockLoanRepository{}, &mockPaymentRepository{}, &mockPenaltyRepository{}, &mockLedgerRepository{}, &mockEventPublisher{})

		req := dto.AllocatePaymentRequest{
			LoanID:    uuid.New(),
			Reference: "gcash-004",
			Amount:    decimal.RequireFromString("10.00"),
			Currency:  "USD",
		}
		_, err := uc.Execute(context.Background(), req)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "find loan")
	})

	t.Run("fails when ledger append fails", func(t *testing.T) {
		loan := activeLoan(t)
		loanRepo := &mockLoanRepository{
			findByIDFunc: func(ctx context.Context, id uuid.UUID) (model.Loan, error) {
				return loan, nil
			},
		}
		paymentRepo := &mockPaymentRepository{}
		ledger := &mockLedgerRepository{
			appendFunc: func(ctx context.Context, entry model.JournalEntry) error {
				return fmt.Errorf("database unavailable")
			},
		}

		uc := newAllocatePaymentUseCase(loanRepo, paymentRepo, &mockPenaltyRepository{}, ledger, &mockEventPublisher{})

		req := dto.AllocatePaymentRequest{
			LoanID:    loan.ID(),
			Reference: "gcash-005",
			Amount:    decimal.RequireFromString("10.00"),
			Currency:  "USD",
		}
		_, err := uc.Execute(context.Background(), req)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "append journal entry")
		// The payment row is already pinned, so a retry dedupes instead
		// of applying the amount twice.
		assert.Len(t, paymentRepo.savedPayments, 1)
	})

	t.Run("loan save conflict leaves the journal untouched", func(t *testing.T) {
		loan := activeLoan(t)
		loanRepo := &mockLoanRepository{
			findByIDFunc: func(ctx context.Context, id uuid.UUID) (model.Loan, error) {
				return loan, nil
			},
			saveFunc: func(ctx context.Context, l model.Loan) error {
				return fmt.Errorf("optimistic locking conflict on loan")
			},
		}
		paymentRepo := &mockPaymentRepository{}
		paymentRepo.existsFunc = func(ctx context.Context, loanID uuid.UUID, reference string) (bool, error) {
			for _, p := range paymentRepo.savedPayments {
				if p.Reference == reference {
					return true, nil
				}
			}
			return false, nil
		}
		ledger := &mockLedgerRepository{}

		uc := newAllocatePaymentUseCase(loanRepo, paymentRepo, &mockPenaltyRepository{}, ledger, &mockEventPublisher{})

		req := dto.AllocatePaymentRequest{
			LoanID:    loan.ID(),
			Reference: "gcash-777",
			Amount:    decimal.RequireFromString("10.00"),
			Currency:  "USD",
		}
		_, err := uc.Execute(context.Background(), req)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "save loan")
		assert.Empty(t, ledger.appendedEntries)

		// The retry finds the pinned reference and dedupes, so the
		// failed attempt can never double-post.
		_, err = uc.Execute(context.Background(), req)
		require.ErrorIs(t, err, model.ErrDuplicatePayment)
		assert.Empty(t, ledger.appendedEntries)
	})
}
