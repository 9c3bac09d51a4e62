package model

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/elie009/utlityhub360-sub005/internal/domain/event"
	"github.com/elie009/utlityhub360-sub005/internal/domain/valueobject"
	"github.com/elie009/utlityhub360-sub005/pkg/money"
)

// ---------------------------------------------------------------------------
// Loan aggregate root
// ---------------------------------------------------------------------------

// Loan is an immutable aggregate. Mutations return a new copy. The version
// field supports optimistic concurrency at the repository boundary so that
// concurrent payments against the same loan cannot double-settle an entry.
type Loan struct {
	id               uuid.UUID
	borrowerID       uuid.UUID
	terms            LoanTerms
	status           valueobject.LoanStatus
	schedule         []ScheduleEntry
	refinancedFromID *uuid.UUID
	refinancedIntoID *uuid.UUID
	version          int
	createdAt        time.Time
	updatedAt        time.Time
	domainEvents     []event.DomainEvent
}

// NewLoan validates the terms, generates the repayment schedule and returns a
// loan in PENDING status. Funds are not owed until Disburse.
func NewLoan(borrowerID uuid.UUID, terms LoanTerms, now time.Time) (Loan, error) {
	if borrowerID == uuid.Nil {
		return Loan{}, fmt.Errorf("borrower ID is required")
	}

	schedule, err := GenerateSchedule(terms)
	if err != nil {
		return Loan{}, err
	}

	id := uuid.New()
	loan := Loan{
		id:         id,
		borrowerID: borrowerID,
		terms:      terms,
		status:     valueobject.LoanStatusPending,
		schedule:   schedule,
		version:    1,
		createdAt:  now,
		updatedAt:  now,
	}
	loan.domainEvents = append(loan.domainEvents, event.NewLoanCreated(
		id, borrowerID, terms.Principal, terms.AnnualRatePct, terms.TermMonths,
		terms.Method.String(), terms.Frequency.String(),
	))
	return loan, nil
}

// NewRefinanceLoan creates a successor loan that a predecessor closes into.
func NewRefinanceLoan(borrowerID uuid.UUID, terms LoanTerms, predecessorID uuid.UUID, now time.Time) (Loan, error) {
	loan, err := NewLoan(borrowerID, terms, now)
	if err != nil {
		return Loan{}, err
	}
	pred := predecessorID
	loan.refinancedFromID = &pred
	return loan, nil
}

// ReconstructLoan rebuilds a Loan aggregate from persistence.
func ReconstructLoan(
	id, borrowerID uuid.UUID,
	terms LoanTerms,
	status valueobject.LoanStatus,
	schedule []ScheduleEntry,
	refinancedFromID, refinancedIntoID *uuid.UUID,
	version int,
	createdAt, updatedAt time.Time,
) Loan {
	return Loan{
		id:               id,
		borrowerID:       borrowerID,
		terms:            terms,
		status:           status,
		schedule:         schedule,
		refinancedFromID: refinancedFromID,
		refinancedIntoID: refinancedIntoID,
		version:          version,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

// ---------------------------------------------------------------------------
// State transitions
// ---------------------------------------------------------------------------

// Disburse transitions PENDING -> ACTIVE and emits LoanDisbursed. The ledger
// posting for the disbursement is built by the poster from this event's data.
func (l Loan) Disburse(now time.Time) (Loan, error) {
	if !l.status.Equal(valueobject.LoanStatusPending) {
		return l, fmt.Errorf("disburse: %w: loan is %s", valueobject.ErrInvalidStatusTransition, l.status)
	}
	next := l.copy()
	next.status = valueobject.LoanStatusActive
	next.updatedAt = now
	next.domainEvents = append(next.domainEvents, event.NewLoanDisbursed(
		l.id, l.borrowerID, l.terms.FinancedAmount(), l.terms.ProcessingFee, now,
	))
	return next, nil
}

// RecalculateSchedule regenerates the schedule from the original principal,
// term and frequency with a new annual rate. It never mutates the existing
// schedule in place and is rejected once any entry has been paid; refinancing
// is the explicit path to new terms after repayment starts.
func (l Loan) RecalculateSchedule(newAnnualRatePct decimal.Decimal, now time.Time) (Loan, error) {
	for _, e := range l.schedule {
		if e.IsPaid() {
			return l, ErrScheduleLocked
		}
	}

	terms := l.terms
	terms.AnnualRatePct = newAnnualRatePct
	schedule, err := GenerateSchedule(terms)
	if err != nil {
		return l, err
	}

	next := l.copy()
	next.terms = terms
	next.schedule = schedule
	next.updatedAt = now
	next.domainEvents = append(next.domainEvents, event.NewScheduleRecalculated(l.id, newAnnualRatePct))
	return next, nil
}

// SettleEntry applies an amount against one schedule entry's outstanding
// total. The entry's original portions are never mutated; settlement is
// tracked separately. The entry flips to PAID when fully covered, and the
// loan completes when every entry is paid.
func (l Loan) SettleEntry(number int, amount money.Money, now time.Time) (Loan, error) {
	idx := -1
	for i, e := range l.schedule {
		if e.Number == number {
			idx = i
			break
		}
	}
	if idx < 0 {
		return l, fmt.Errorf("settle entry: no schedule entry %d", number)
	}

	entry := l.schedule[idx]
	if amount.GreaterThan(entry.Outstanding()) {
		return l, fmt.Errorf("settle entry %d: amount %s exceeds outstanding %s", number, amount, entry.Outstanding())
	}

	next := l.copy()
	settled, err := entry.Settled.Add(amount)
	if err != nil {
		return l, fmt.Errorf("settle entry %d: %w", number, err)
	}
	entry.Settled = settled
	if entry.Outstanding().IsZero() {
		entry.Status = valueobject.ScheduleEntryStatusPaid
		paidAt := now
		entry.PaidAt = &paidAt
	}
	next.schedule[idx] = entry
	next.updatedAt = now

	if next.OutstandingTotal().IsZero() && next.status.Equal(valueobject.LoanStatusActive) {
		next.status = valueobject.LoanStatusCompleted
		next.domainEvents = append(next.domainEvents, event.NewLoanCompleted(l.id, now))
	}
	return next, nil
}

// MarkEntryOverdue flips an unpaid entry to OVERDUE. Paid entries are left alone.
func (l Loan) MarkEntryOverdue(number int, now time.Time) Loan {
	next := l.copy()
	for i, e := range next.schedule {
		if e.Number == number && !e.IsPaid() {
			e.Status = valueobject.ScheduleEntryStatusOverdue
			next.schedule[i] = e
			next.updatedAt = now
		}
	}
	return next
}

// MarkDefaulted transitions ACTIVE -> DEFAULTED on terminal delinquency.
func (l Loan) MarkDefaulted(now time.Time) (Loan, error) {
	if !l.status.Equal(valueobject.LoanStatusActive) {
		return l, fmt.Errorf("default: %w: loan is %s", valueobject.ErrInvalidStatusTransition, l.status)
	}
	next := l.copy()
	next.status = valueobject.LoanStatusDefaulted
	next.updatedAt = now
	next.domainEvents = append(next.domainEvents, event.NewLoanDefaulted(l.id, now))
	return next, nil
}

// CloseIntoRefinance marks the loan as closed into a successor. A loan holds
// at most one successor; the chain is forward-only and acyclic.
func (l Loan) CloseIntoRefinance(successorID uuid.UUID, now time.Time) (Loan, error) {
	if l.refinancedIntoID != nil {
		return l, ErrAlreadyRefinanced
	}
	if successorID == uuid.Nil || successorID == l.id {
		return l, fmt.Errorf("refinance: invalid successor loan ID")
	}
	next := l.copy()
	succ := successorID
	next.refinancedIntoID = &succ
	next.status = valueobject.LoanStatusCompleted
	next.updatedAt = now
	next.domainEvents = append(next.domainEvents, event.NewLoanRefinanced(l.id, successorID, now))
	return next, nil
}

// RecordPaymentAllocated collects the allocation event after the allocator has
// settled entries against this loan.
func (l Loan) RecordPaymentAllocated(paymentID uuid.UUID, amount, remainder money.Money, now time.Time) Loan {
	next := l.copy()
	next.domainEvents = append(next.domainEvents, event.NewPaymentAllocated(l.id, paymentID, amount, remainder, now))
	return next
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// OutstandingTotal sums the outstanding amount across all schedule entries.
func (l Loan) OutstandingTotal() money.Money {
	total := money.Zero(l.terms.Principal.Currency())
	for _, e := range l.schedule {
		total, _ = total.Add(e.Outstanding())
	}
	return total
}

// UnpaidEntriesDueOrder returns the unpaid entries ordered by due date
// ascending (oldest debt first), then by entry number for equal dates.
func (l Loan) UnpaidEntriesDueOrder() []ScheduleEntry {
	var unpaid []ScheduleEntry
	for _, e := range l.schedule {
		if !e.IsPaid() {
			unpaid = append(unpaid, e)
		}
	}
	sort.SliceStable(unpaid, func(i, j int) bool {
		if unpaid[i].DueDate.Equal(unpaid[j].DueDate) {
			return unpaid[i].Number < unpaid[j].Number
		}
		return unpaid[i].DueDate.Before(unpaid[j].DueDate)
	})
	return unpaid
}

// Entry returns the schedule entry with the given number.
func (l Loan) Entry(number int) (ScheduleEntry, bool) {
	for _, e := range l.schedule {
		if e.Number == number {
			return e, true
		}
	}
	return ScheduleEntry{}, false
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (l Loan) ID() uuid.UUID                    { return l.id }
func (l Loan) BorrowerID() uuid.UUID            { return l.borrowerID }
func (l Loan) Terms() LoanTerms                 { return l.terms }
func (l Loan) Currency() money.Currency         { return l.terms.Principal.Currency() }
func (l Loan) Status() valueobject.LoanStatus   { return l.status }
func (l Loan) RefinancedFromID() *uuid.UUID     { return l.refinancedFromID }
func (l Loan) RefinancedIntoID() *uuid.UUID     { return l.refinancedIntoID }
func (l Loan) Version() int                     { return l.version }
func (l Loan) CreatedAt() time.Time             { return l.createdAt }
func (l Loan) UpdatedAt() time.Time             { return l.updatedAt }
func (l Loan) DomainEvents() []event.DomainEvent { return l.domainEvents }

// Schedule returns a defensive copy of the repayment schedule.
func (l Loan) Schedule() []ScheduleEntry {
	if l.schedule == nil {
		return nil
	}
	out := make([]ScheduleEntry, len(l.schedule))
	copy(out, l.schedule)
	return out
}

// ClearEvents returns a copy with an empty event list.
func (l Loan) ClearEvents() Loan {
	next := l
	next.domainEvents = nil
	return next
}

// copy duplicates the aggregate including its schedule and event slices so
// mutations never alias the receiver.
func (l Loan) copy() Loan {
	next := l
	next.schedule = l.Schedule()
	next.domainEvents = append([]event.DomainEvent(nil), l.domainEvents...)
	return next
}
