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

// JournalRepo implements port.LedgerRepository. The journal is append-only:
// entries are inserted once and only the status column ever changes, and only
// through a reversal.
type JournalRepo struct {
	pool *pgxpool.Pool
}

var _ port.LedgerRepository = (*JournalRepo)(nil)

// NewJournalRepo creates a new PostgreSQL-backed journal repository.
func NewJournalRepo(pool *pgxpool.Pool) *JournalRepo {
	return &JournalRepo{pool: pool}
}

// AppendAtomic writes the entry header, its lines and its outbox events in a
// single transaction. A partial entry can never become visible.
func (r *JournalRepo) AppendAtomic(ctx context.Context, entry model.JournalEntry) error {
	return pgpkg.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if err := insertEntry(ctx, tx, entry); err != nil {
			return err
		}
		return insertOutbox(ctx, tx, entry.DomainEvents())
	})
}

// ReverseAtomic flips the original entry to REVERSED and appends the
// offsetting entry in the same transaction, so the ledger never shows one
// without the other.
func (r *JournalRepo) ReverseAtomic(ctx context.Context, reversed, reversal model.JournalEntry) error {
	return pgpkg.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE journal_entries
			SET status = $1, version = version + 1
			WHERE id = $2 AND status = 'POSTED'
		`, string(reversed.Status()), reversed.ID())
		if err != nil {
			return fmt.Errorf("mark entry reversed: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("entry %s is not in POSTED status", reversed.ID())
		}

		if err := insertEntry(ctx, tx, reversal); err != nil {
			return err
		}
		if err := insertOutbox(ctx, tx, reversed.DomainEvents()); err != nil {
			return err
		}
		return insertOutbox(ctx, tx, reversal.DomainEvents())
	})
}

// FindByID retrieves a journal entry with its lines.
func (r *JournalRepo) FindByID(ctx context.Context, id uuid.UUID) (model.JournalEntry, error) {
	query := `
		SELECT id, kind, effective_date, status, description, reference, version, created_at
		FROM journal_entries
		WHERE id = $1
	`
	entry, err := r.scanEntry(ctx, r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.JournalEntry{}, fmt.Errorf("journal entry %s not found", id)
		}
		return model.JournalEntry{}, err
	}
	return entry, nil
}

// ListByPeriod retrieves the entries whose effective date falls in [from, to],
// oldest first.
func (r *JournalRepo) ListByPeriod(ctx context.Context, from, to time.Time) ([]model.JournalEntry, error) {
	query := `
		SELECT id, kind, effective_date, status, description, reference, version, created_at
		FROM journal_entries
		WHERE effective_date >= $1 AND effective_date <= $2
		ORDER BY effective_date, created_at
	`
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("query journal entries: %w", err)
	}
	defer rows.Close()

	var entries []model.JournalEntry
	for rows.Next() {
		entry, err := r.scanEntry(ctx, rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func insertEntry(ctx context.Context, tx pgx.Tx, entry model.JournalEntry) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO journal_entries (id, kind, effective_date, status, description, reference, version, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		entry.ID(), string(entry.Kind()), entry.EffectiveDate(), string(entry.Status()),
		entry.Description(), entry.Reference(), entry.Version(), entry.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("insert journal entry: %w", err)
	}

	for i, line := range entry.Lines() {
		_, err := tx.Exec(ctx, `
			INSERT INTO journal_lines (entry_id, seq_num, account, account_type, side, amount, currency)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`,
			entry.ID(), i+1, line.Account, line.Type.String(), line.Side.String(),
			line.Amount.Units(), line.Amount.Currency().Code(),
		)
		if err != nil {
			return fmt.Errorf("insert journal line %d: %w", i+1, err)
		}
	}
	return nil
}

func (r *JournalRepo) scanEntry(ctx context.Context, s scannable) (model.JournalEntry, error) {
	var (
		id                     uuid.UUID
		kind, status           string
		effectiveDate          time.Time
		description, reference string
		version                int
		createdAt              time.Time
	)
	err := s.Scan(&id, &kind, &effectiveDate, &status, &description, &reference, &version, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.JournalEntry{}, err
		}
		return model.JournalEntry{}, fmt.Errorf("scan journal entry: %w", err)
	}

	lines, err := loadLines(ctx, r.pool, id)
	if err != nil {
		return model.JournalEntry{}, err
	}

	return model.ReconstructJournalEntry(
		id, model.EntryKind(kind), effectiveDate, lines,
		model.EntryStatus(status), description, reference,
		version, createdAt,
	), nil
}

func loadLines(ctx context.Context, q pgpkg.Querier, entryID uuid.UUID) ([]model.JournalLine, error) {
	query := `
		SELECT account, account_type, side, amount, currency
		FROM journal_lines
		WHERE entry_id = $1
		ORDER BY seq_num
	`
	rows, err := q.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("query journal lines: %w", err)
	}
	defer rows.Close()

	var lines []model.JournalLine
	for rows.Next() {
		var (
			account, accountType, side string
			amountUnits                int64
			currencyCode               string
		)
		if err := rows.Scan(&account, &accountType, &side, &amountUnits, &currencyCode); err != nil {
			return nil, fmt.Errorf("scan journal line: %w", err)
		}

		line := model.JournalLine{Account: account}
		if line.Type, err = valueobject.NewAccountType(accountType); err != nil {
			return nil, fmt.Errorf("parse account type: %w", err)
		}
		if line.Side, err = valueobject.NewEntrySide(side); err != nil {
			return nil, fmt.Errorf("parse entry side: %w", err)
		}
		if line.Amount, err = moneyFrom(amountUnits, currencyCode); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}
