package port

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/elie009/utlityhub360-sub005/internal/domain/event"
	"github.com/elie009/utlityhub360-sub005/internal/domain/model"
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// LoanRepository persists and retrieves loans with their schedules. Save must
// implement a save-if-unchanged version check so concurrent mutations against
// the same loan are serialized.
type LoanRepository interface {
	Save(ctx context.Context, loan model.Loan) error
	FindByID(ctx context.Context, id uuid.UUID) (model.Loan, error)
	FindActive(ctx context.Context) ([]model.Loan, error)
}

// PaymentRepository persists payment records and answers reference lookups
// for duplicate detection.
type PaymentRepository interface {
	Save(ctx context.Context, payment model.Payment) error
	ExistsByReference(ctx context.Context, loanID uuid.UUID, reference string) (bool, error)
}

// PenaltyRepository persists penalties per loan.
type PenaltyRepository interface {
	SaveAll(ctx context.Context, penalties []model.Penalty) error
	FindByLoan(ctx context.Context, loanID uuid.UUID) ([]model.Penalty, error)
}

// LedgerRepository is the append-only store for journal entries. AppendAtomic
// writes the header and all lines in one transaction; a partial write is a
// correctness violation, not a retryable failure.
type LedgerRepository interface {
	AppendAtomic(ctx context.Context, entry model.JournalEntry) error
	// ReverseAtomic flips the original to REVERSED and appends the offsetting
	// entry in the same transaction.
	ReverseAtomic(ctx context.Context, reversed, reversal model.JournalEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (model.JournalEntry, error)
	ListByPeriod(ctx context.Context, from, to time.Time) ([]model.JournalEntry, error)
}

// StatementRepository persists imported bank-statement snapshots.
type StatementRepository interface {
	Save(ctx context.Context, statement model.BankStatement) error
	FindByID(ctx context.Context, id uuid.UUID) (model.BankStatement, error)
}

// ReconciliationRepository persists reconciliation sessions and supplies the
// system-transaction snapshots the matcher consumes.
type ReconciliationRepository interface {
	Save(ctx context.Context, reconciliation model.Reconciliation) error
	FindByID(ctx context.Context, id uuid.UUID) (model.Reconciliation, error)
	ListSystemTransactions(ctx context.Context, from, to time.Time) ([]model.SystemTransaction, error)
}

// ---------------------------------------------------------------------------
// External service ports
// ---------------------------------------------------------------------------

// StatementImportSource supplies parsed statement items for a period. How the
// bank's CSV/PDF is extracted is the adapter's business.
type StatementImportSource interface {
	Fetch(ctx context.Context, accountName string, from, to time.Time) ([]model.StatementItem, error)
}

// Clock supplies "now" so due-date comparisons and penalty evaluation are
// testable.
type Clock interface {
	Now() time.Time
}

// PolicyProvider supplies the configurable knobs of the ledger core.
type PolicyProvider interface {
	// PenaltyRatePct is the percentage of an overdue entry's outstanding
	// amount charged per overdue spell.
	PenaltyRatePct() decimal.Decimal
	// RejectOverpayment makes the allocator fail payments larger than the
	// loan's outstanding total instead of returning a remainder.
	RejectOverpayment() bool
	// MatchDateWindowDays is the maximum day distance for match candidates.
	MatchDateWindowDays() int
	// MatchAmountToleranceMinor is the allowed amount difference for match
	// candidates, in minor units. Zero means exact match.
	MatchAmountToleranceMinor() int64
	// AutoMatchThreshold is the minimum score for automatic confirmation.
	AutoMatchThreshold() int
}

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}
