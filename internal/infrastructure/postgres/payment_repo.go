package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/elie009/utlityhub360-sub005/internal/domain/model"
	"github.com/elie009/utlityhub360-sub005/internal/domain/port"
)

// PaymentRepo implements port.PaymentRepository.
type PaymentRepo struct {
	pool *pgxpool.Pool
}

var _ port.PaymentRepository = (*PaymentRepo)(nil)

// NewPaymentRepo creates a new PostgreSQL-backed payment repository.
func NewPaymentRepo(pool *pgxpool.Pool) *PaymentRepo {
	return &PaymentRepo{pool: pool}
}

// Save persists a payment record. The unique (loan_id, reference) constraint
// backs the duplicate check at the database level as well.
func (r *PaymentRepo) Save(ctx context.Context, payment model.Payment) error {
	query := `
		INSERT INTO payments (id, loan_id, reference, amount, currency, paid_at, entry_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		payment.ID, payment.LoanID, payment.Reference,
		payment.Amount.Units(), payment.Amount.Currency().Code(),
		payment.PaidAt, payment.EntryNumber,
	)
	if err != nil {
		return fmt.Errorf("save payment: %w", err)
	}
	return nil
}

// ExistsByReference reports whether a reference was already applied to a loan.
func (r *PaymentRepo) ExistsByReference(ctx context.Context, loanID uuid.UUID, reference string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM payments WHERE loan_id = $1 AND reference = $2)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, loanID, reference).Scan(&exists); err != nil {
		return false, fmt.Errorf("check payment reference: %w", err)
	}
	return exists, nil
}
