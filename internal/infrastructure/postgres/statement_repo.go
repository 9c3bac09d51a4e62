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
	pgpkg "github.com/elie009/utlityhub360-sub005/pkg/postgres"
)

// StatementRepo implements port.StatementRepository.
type StatementRepo struct {
	pool *pgxpool.Pool
}

var _ port.StatementRepository = (*StatementRepo)(nil)

// NewStatementRepo creates a new PostgreSQL-backed statement repository.
func NewStatementRepo(pool *pgxpool.Pool) *StatementRepo {
	return &StatementRepo{pool: pool}
}

// Save persists the statement snapshot. The imported fields never change, but
// the matched flag on items does, so items are rewritten on every save.
func (r *StatementRepo) Save(ctx context.Context, statement model.BankStatement) error {
	return pgpkg.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO bank_statements (id, account_name, period_start, period_end, imported_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO NOTHING
		`, statement.ID, statement.AccountName, statement.PeriodStart, statement.PeriodEnd, statement.ImportedAt)
		if err != nil {
			return fmt.Errorf("save statement: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM bank_statement_items WHERE statement_id = $1`, statement.ID); err != nil {
			return fmt.Errorf("clear statement items: %w", err)
		}
		for i, item := range statement.Items {
			_, err := tx.Exec(ctx, `
				INSERT INTO bank_statement_items (id, statement_id, seq_num, item_date, amount, currency, type, description, matched)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			`,
				item.ID, statement.ID, i+1, item.Date,
				item.Amount.Units(), item.Amount.Currency().Code(),
				string(item.Type), item.Description, item.Matched,
			)
			if err != nil {
				return fmt.Errorf("save statement item %d: %w", i+1, err)
			}
		}
		return nil
	})
}

// FindByID retrieves a statement with its items in import order.
func (r *StatementRepo) FindByID(ctx context.Context, id uuid.UUID) (model.BankStatement, error) {
	query := `
		SELECT id, account_name, period_start, period_end, imported_at
		FROM bank_statements
		WHERE id = $1
	`
	var statement model.BankStatement
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&statement.ID, &statement.AccountName,
		&statement.PeriodStart, &statement.PeriodEnd, &statement.ImportedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.BankStatement{}, fmt.Errorf("bank statement %s not found", id)
		}
		return model.BankStatement{}, fmt.Errorf("scan statement: %w", err)
	}

	statement.Items, err = r.loadItems(ctx, id)
	if err != nil {
		return model.BankStatement{}, err
	}
	return statement, nil
}

func (r *StatementRepo) loadItems(ctx context.Context, statementID uuid.UUID) ([]model.StatementItem, error) {
	query := `
		SELECT id, item_date, amount, currency, type, description, matched
		FROM bank_statement_items
		WHERE statement_id = $1
		ORDER BY seq_num
	`
	rows, err := r.pool.Query(ctx, query, statementID)
	if err != nil {
		return nil, fmt.Errorf("query statement items: %w", err)
	}
	defer rows.Close()

	var items []model.StatementItem
	for rows.Next() {
		var (
			item         model.StatementItem
			itemDate     time.Time
			amountUnits  int64
			currencyCode string
			itemType     string
		)
		err := rows.Scan(&item.ID, &itemDate, &amountUnits, &currencyCode, &itemType, &item.Description, &item.Matched)
		if err != nil {
			return nil, fmt.Errorf("scan statement item: %w", err)
		}
		item.Date = itemDate
		item.Type = model.StatementItemType(itemType)
		if item.Amount, err = moneyFrom(amountUnits, currencyCode); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
