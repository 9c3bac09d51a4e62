package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/elie009/utlityhub360-sub005/internal/domain/model"
	"github.com/elie009/utlityhub360-sub005/internal/domain/port"
	"github.com/elie009/utlityhub360-sub005/internal/domain/valueobject"
	pgpkg "github.com/elie009/utlityhub360-sub005/pkg/postgres"
)

// ReconciliationRepo implements port.ReconciliationRepository.
type ReconciliationRepo struct {
	pool *pgxpool.Pool
}

var _ port.ReconciliationRepository = (*ReconciliationRepo)(nil)

// NewReconciliationRepo creates a new PostgreSQL-backed reconciliation repository.
func NewReconciliationRepo(pool *pgxpool.Pool) *ReconciliationRepo {
	return &ReconciliationRepo{pool: pool}
}

// Save persists the session and its matches, with the same version check the
// loan repository uses.
func (r *ReconciliationRepo) Save(ctx context.Context, reconciliation model.Reconciliation) error {
	query := `
		INSERT INTO reconciliations (
			id, statement_id, period_start, period_end,
			total_transactions, matched_count, version, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO UPDATE SET
			matched_count = EXCLUDED.matched_count,
			version       = reconciliations.version + 1,
			updated_at    = EXCLUDED.updated_at
		WHERE reconciliations.version = $7
	`
	return pgpkg.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, query,
			reconciliation.ID(), reconciliation.StatementID(),
			reconciliation.PeriodStart(), reconciliation.PeriodEnd(),
			reconciliation.TotalTransactions(), reconciliation.MatchedCount(),
			reconciliation.Version(), reconciliation.CreatedAt(), reconciliation.UpdatedAt(),
		)
		if err != nil {
			return fmt.Errorf("save reconciliation: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return errors.New("optimistic locking conflict on reconciliation")
		}

		if _, err := tx.Exec(ctx, `DELETE FROM reconciliation_matches WHERE reconciliation_id = $1`, reconciliation.ID()); err != nil {
			return fmt.Errorf("clear matches: %w", err)
		}
		for _, m := range reconciliation.Matches() {
			_, err := tx.Exec(ctx, `
				INSERT INTO reconciliation_matches (
					id, reconciliation_id, transaction_id, statement_item_id,
					type, status, score, reason, created_at
				) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
			`,
				m.ID, reconciliation.ID(), m.TransactionID, m.StatementItemID,
				m.Type.String(), m.Status.String(), m.Score, m.Reason, m.CreatedAt,
			)
			if err != nil {
				return fmt.Errorf("save match %s: %w", m.ID, err)
			}
		}
		return nil
	})
}

// FindByID retrieves a session with its matches.
func (r *ReconciliationRepo) FindByID(ctx context.Context, id uuid.UUID) (model.Reconciliation, error) {
	query := `
		SELECT id, statement_id, period_start, period_end,
		       total_transactions, matched_count, version, created_at, updated_at
		FROM reconciliations
		WHERE id = $1
	`
	var (
		sessionID, statementID          uuid.UUID
		periodStart, periodEnd          time.Time
		totalTransactions, matchedCount int
		version                         int
		createdAt, updatedAt            time.Time
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&sessionID, &statementID, &periodStart, &periodEnd,
		&totalTransactions, &matchedCount, &version, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Reconciliation{}, fmt.Errorf("reconciliation %s not found", id)
		}
		return model.Reconciliation{}, fmt.Errorf("scan reconciliation: %w", err)
	}

	matches, err := r.loadMatches(ctx, sessionID)
	if err != nil {
		return model.Reconciliation{}, err
	}

	return model.ReconstructReconciliation(
		sessionID, statementID, periodStart, periodEnd,
		totalTransactions, matchedCount, matches,
		version, createdAt, updatedAt,
	), nil
}

// ListSystemTransactions projects the period's cash movements out of the
// journal: one candidate per POSTED entry with a Cash line, carrying that
// line's amount. Reversed entries never reach the matcher.
func (r *ReconciliationRepo) ListSystemTransactions(ctx context.Context, from, to time.Time) ([]model.SystemTransaction, error) {
	query := `
		SELECT e.id, e.effective_date, l.amount, l.currency, e.description, e.reference
		FROM journal_entries e
		JOIN journal_lines l ON l.entry_id = e.id
		WHERE e.status = 'POSTED'
		  AND l.account = 'Cash'
		  AND e.effective_date >= $1 AND e.effective_date <= $2
		ORDER BY e.effective_date, e.id
	`
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("query system transactions: %w", err)
	}
	defer rows.Close()

	var txns []model.SystemTransaction
	for rows.Next() {
		var (
			txn          model.SystemTransaction
			amountUnits  int64
			currencyCode string
		)
		err := rows.Scan(&txn.ID, &txn.Date, &amountUnits, &currencyCode, &txn.Description, &txn.Reference)
		if err != nil {
			return nil, fmt.Errorf("scan system transaction: %w", err)
		}
		if txn.Amount, err = moneyFrom(amountUnits, currencyCode); err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}
	return txns, rows.Err()
}

func (r *ReconciliationRepo) loadMatches(ctx context.Context, reconciliationID uuid.UUID) ([]model.ReconciliationMatch, error) {
	query := `
		SELECT id, transaction_id, statement_item_id, type, status, score, reason, created_at
		FROM reconciliation_matches
		WHERE reconciliation_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.pool.Query(ctx, query, reconciliationID)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	var matches []model.ReconciliationMatch
	for rows.Next() {
		var (
			m                   model.ReconciliationMatch
			typeStr, statusStr string
		)
		err := rows.Scan(&m.ID, &m.TransactionID, &m.StatementItemID, &typeStr, &statusStr, &m.Score, &m.Reason, &m.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		if m.Type, err = valueobject.NewMatchType(typeStr); err != nil {
			return nil, fmt.Errorf("parse match type: %w", err)
		}
		if m.Status, err = valueobject.NewMatchStatus(statusStr); err != nil {
			return nil, fmt.Errorf("parse match status: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
