package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/elie009/utlityhub360-sub005/internal/domain/model"
	"github.com/elie009/utlityhub360-sub005/internal/domain/port"
	pgpkg "github.com/elie009/utlityhub360-sub005/pkg/postgres"
)

// PenaltyRepo implements port.PenaltyRepository.
type PenaltyRepo struct {
	pool *pgxpool.Pool
}

var _ port.PenaltyRepository = (*PenaltyRepo)(nil)

// NewPenaltyRepo creates a new PostgreSQL-backed penalty repository.
func NewPenaltyRepo(pool *pgxpool.Pool) *PenaltyRepo {
	return &PenaltyRepo{pool: pool}
}

// SaveAll upserts a batch of penalties in one transaction. The settled amount
// is the only field that changes after creation.
func (r *PenaltyRepo) SaveAll(ctx context.Context, penalties []model.Penalty) error {
	if len(penalties) == 0 {
		return nil
	}

	query := `
		INSERT INTO penalties (id, loan_id, entry_number, amount, settled, currency, applied_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET settled = EXCLUDED.settled
	`
	return pgpkg.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		for _, p := range penalties {
			_, err := tx.Exec(ctx, query,
				p.ID, p.LoanID, p.EntryNumber,
				p.Amount.Units(), p.Settled.Units(), p.Amount.Currency().Code(),
				p.AppliedAt,
			)
			if err != nil {
				return fmt.Errorf("save penalty %s: %w", p.ID, err)
			}
		}
		return nil
	})
}

// FindByLoan retrieves all penalties for a loan in application order.
func (r *PenaltyRepo) FindByLoan(ctx context.Context, loanID uuid.UUID) ([]model.Penalty, error) {
	query := `
		SELECT id, loan_id, entry_number, amount, settled, currency, applied_at
		FROM penalties
		WHERE loan_id = $1
		ORDER BY applied_at, entry_number
	`
	rows, err := r.pool.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("query penalties: %w", err)
	}
	defer rows.Close()

	var penalties []model.Penalty
	for rows.Next() {
		var (
			p                          model.Penalty
			amountUnits, settledUnits int64
			currencyCode               string
			appliedAt                  time.Time
		)
		if err := rows.Scan(&p.ID, &p.LoanID, &p.EntryNumber, &amountUnits, &settledUnits, &currencyCode, &appliedAt); err != nil {
			return nil, fmt.Errorf("scan penalty: %w", err)
		}
		if p.Amount, err = moneyFrom(amountUnits, currencyCode); err != nil {
			return nil, err
		}
		if p.Settled, err = moneyFrom(settledUnits, currencyCode); err != nil {
			return nil, err
		}
		p.AppliedAt = appliedAt
		penalties = append(penalties, p)
	}
	return penalties, rows.Err()
}
