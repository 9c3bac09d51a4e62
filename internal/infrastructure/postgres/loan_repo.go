package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/elie009/utlityhub360-sub005/internal/domain/model"
	"github.com/elie009/utlityhub360-sub005/internal/domain/port"
	"github.com/elie009/utlityhub360-sub005/internal/domain/valueobject"
	pgpkg "github.com/elie009/utlityhub360-sub005/pkg/postgres"
)

// LoanRepo implements port.LoanRepository.
type LoanRepo struct {
	pool *pgxpool.Pool
}

var _ port.LoanRepository = (*LoanRepo)(nil)

// NewLoanRepo creates a new PostgreSQL-backed loan repository.
func NewLoanRepo(pool *pgxpool.Pool) *LoanRepo {
	return &LoanRepo{pool: pool}
}

// Save persists a loan and its schedule. The version check serializes
// concurrent mutations: a stale aggregate fails instead of overwriting.
func (r *LoanRepo) Save(ctx context.Context, loan model.Loan) error {
	return pgpkg.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		return r.save(ctx, tx, loan)
	})
}

func (r *LoanRepo) save(ctx context.Context, tx pgx.Tx, loan model.Loan) error {
	terms := loan.Terms()
	loanQuery := `
		INSERT INTO loans (
			id, borrower_id,
			principal, currency, annual_rate_pct, term_months,
			method, frequency, start_date, down_payment, processing_fee,
			status, refinanced_from_id, refinanced_into_id,
			version, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
		ON CONFLICT (id) DO UPDATE SET
			annual_rate_pct    = EXCLUDED.annual_rate_pct,
			status             = EXCLUDED.status,
			refinanced_into_id = EXCLUDED.refinanced_into_id,
			version            = loans.version + 1,
			updated_at         = EXCLUDED.updated_at
		WHERE loans.version = $15
	`
	tag, err := tx.Exec(ctx, loanQuery,
		loan.ID(), loan.BorrowerID(),
		terms.Principal.Units(), terms.Principal.Currency().Code(), terms.AnnualRatePct, terms.TermMonths,
		terms.Method.String(), terms.Frequency.String(), terms.StartDate, terms.DownPayment.Units(), terms.ProcessingFee.Units(),
		loan.Status().String(), loan.RefinancedFromID(), loan.RefinancedIntoID(),
		loan.Version(), loan.CreatedAt(), loan.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("save loan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.New("optimistic locking conflict on loan")
	}

	// Settlement state lives on the entries, so they are rewritten on every
	// save rather than only on first insert.
	if _, err := tx.Exec(ctx, `DELETE FROM schedule_entries WHERE loan_id = $1`, loan.ID()); err != nil {
		return fmt.Errorf("clear schedule entries: %w", err)
	}
	for _, entry := range loan.Schedule() {
		entryQuery := `
			INSERT INTO schedule_entries (
				loan_id, number, due_date, principal, interest, total,
				status, settled, paid_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		`
		_, err := tx.Exec(ctx, entryQuery,
			loan.ID(), entry.Number, entry.DueDate,
			entry.Principal.Units(), entry.Interest.Units(), entry.Total.Units(),
			entry.Status.String(), entry.Settled.Units(), entry.PaidAt,
		)
		if err != nil {
			return fmt.Errorf("save schedule entry %d: %w", entry.Number, err)
		}
	}

	return nil
}

// FindByID retrieves a loan and its schedule by ID.
func (r *LoanRepo) FindByID(ctx context.Context, id uuid.UUID) (model.Loan, error) {
	query := loanSelect + ` WHERE id = $1`
	row := r.pool.QueryRow(ctx, query, id)
	loan, err := r.scanLoanWithSchedule(ctx, row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Loan{}, fmt.Errorf("loan %s not found", id)
		}
		return model.Loan{}, err
	}
	return loan, nil
}

// FindActive retrieves all loans in ACTIVE status.
func (r *LoanRepo) FindActive(ctx context.Context) ([]model.Loan, error) {
	query := loanSelect + ` WHERE status = 'ACTIVE' ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query active loans: %w", err)
	}
	defer rows.Close()

	var loans []model.Loan
	for rows.Next() {
		loan, err := r.scanLoanWithSchedule(ctx, rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}
	return loans, rows.Err()
}

const loanSelect = `
	SELECT id, borrower_id,
	       principal, currency, annual_rate_pct, term_months,
	       method, frequency, start_date, down_payment, processing_fee,
	       status, refinanced_from_id, refinanced_into_id,
	       version, created_at, updated_at
	FROM loans`

func (r *LoanRepo) scanLoanWithSchedule(ctx context.Context, s scannable) (model.Loan, error) {
	var (
		id, borrowerID                       uuid.UUID
		principalUnits                       int64
		currencyCode                         string
		annualRatePct                        decimal.Decimal
		termMonths                           int
		methodStr, frequencyStr              string
		startDate                            time.Time
		downPaymentUnits, processingFeeUnits int64
		statusStr                            string
		refinancedFromID, refinancedIntoID   *uuid.UUID
		version                              int
		createdAt, updatedAt                 time.Time
	)

	err := s.Scan(
		&id, &borrowerID,
		&principalUnits, &currencyCode, &annualRatePct, &termMonths,
		&methodStr, &frequencyStr, &startDate, &downPaymentUnits, &processingFeeUnits,
		&statusStr, &refinancedFromID, &refinancedIntoID,
		&version, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Loan{}, err
		}
		return model.Loan{}, fmt.Errorf("scan loan: %w", err)
	}

	principal, err := moneyFrom(principalUnits, currencyCode)
	if err != nil {
		return model.Loan{}, err
	}
	downPayment, err := moneyFrom(downPaymentUnits, currencyCode)
	if err != nil {
		return model.Loan{}, err
	}
	processingFee, err := moneyFrom(processingFeeUnits, currencyCode)
	if err != nil {
		return model.Loan{}, err
	}
	method, err := valueobject.NewAmortizationMethod(methodStr)
	if err != nil {
		return model.Loan{}, fmt.Errorf("parse amortization method: %w", err)
	}
	frequency, err := valueobject.NewPaymentFrequency(frequencyStr)
	if err != nil {
		return model.Loan{}, fmt.Errorf("parse payment frequency: %w", err)
	}
	status, err := valueobject.NewLoanStatus(statusStr)
	if err != nil {
		return model.Loan{}, fmt.Errorf("parse loan status: %w", err)
	}

	schedule, err := loadSchedule(ctx, r.pool, id, currencyCode)
	if err != nil {
		return model.Loan{}, err
	}

	terms := model.LoanTerms{
		Principal:     principal,
		AnnualRatePct: annualRatePct,
		TermMonths:    termMonths,
		Method:        method,
		Frequency:     frequency,
		StartDate:     startDate,
		DownPayment:   downPayment,
		ProcessingFee: processingFee,
	}
	return model.ReconstructLoan(
		id, borrowerID, terms, status, schedule,
		refinancedFromID, refinancedIntoID,
		version, createdAt, updatedAt,
	), nil
}

func loadSchedule(ctx context.Context, q pgpkg.Querier, loanID uuid.UUID, currencyCode string) ([]model.ScheduleEntry, error) {
	query := `
		SELECT number, due_date, principal, interest, total, status, settled, paid_at
		FROM schedule_entries
		WHERE loan_id = $1
		ORDER BY number
	`
	rows, err := q.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("query schedule: %w", err)
	}
	defer rows.Close()

	var schedule []model.ScheduleEntry
	for rows.Next() {
		var (
			number                                  int
			dueDate                                 time.Time
			principalUnits, interestUnits, totalUnits int64
			statusStr                               string
			settledUnits                            int64
			paidAt                                  *time.Time
		)
		err := rows.Scan(&number, &dueDate, &principalUnits, &interestUnits, &totalUnits, &statusStr, &settledUnits, &paidAt)
		if err != nil {
			return nil, fmt.Errorf("scan schedule entry: %w", err)
		}

		entry := model.ScheduleEntry{Number: number, DueDate: dueDate, PaidAt: paidAt}
		if entry.Principal, err = moneyFrom(principalUnits, currencyCode); err != nil {
			return nil, err
		}
		if entry.Interest, err = moneyFrom(interestUnits, currencyCode); err != nil {
			return nil, err
		}
		if entry.Total, err = moneyFrom(totalUnits, currencyCode); err != nil {
			return nil, err
		}
		if entry.Settled, err = moneyFrom(settledUnits, currencyCode); err != nil {
			return nil, err
		}
		if entry.Status, err = valueobject.NewScheduleEntryStatus(statusStr); err != nil {
			return nil, fmt.Errorf("parse schedule entry status: %w", err)
		}
		schedule = append(schedule, entry)
	}
	return schedule, rows.Err()
}
