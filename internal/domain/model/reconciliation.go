package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/elie009/utlityhub360-sub005/internal/domain/event"
	"github.com/elie009/utlityhub360-sub005/internal/domain/valueobject"
	"github.com/elie009/utlityhub360-sub005/pkg/money"
)

// SystemTransaction is a snapshot of an internally-recorded transaction
// (payment, disbursement, transfer) offered to the matcher. It is read-only
// input; match state lives on the Reconciliation aggregate.
type SystemTransaction struct {
	ID          uuid.UUID
	Date        time.Time
	Amount      money.Money
	Description string
	Reference   string
}

// ReconciliationMatch binds one system transaction to at most one statement
// item.
type ReconciliationMatch struct {
	ID              uuid.UUID
	TransactionID   uuid.UUID
	StatementItemID *uuid.UUID
	Type            valueobject.MatchType
	Status          valueobject.MatchStatus
	Score           int
	Reason          string
	CreatedAt       time.Time
}

// Reconciliation is a session binding a set of system transactions to the
// items of one imported statement.
type Reconciliation struct {
	id                uuid.UUID
	statementID       uuid.UUID
	periodStart       time.Time
	periodEnd         time.Time
	totalTransactions int
	matchedCount      int
	matches           []ReconciliationMatch
	version           int
	createdAt         time.Time
	updatedAt         time.Time
	domainEvents      []event.DomainEvent
}

// NewReconciliation opens a session over one statement and a known number of
// system transactions.
func NewReconciliation(statementID uuid.UUID, periodStart, periodEnd time.Time, totalTransactions int, now time.Time) (Reconciliation, error) {
	if statementID == uuid.Nil {
		return Reconciliation{}, fmt.Errorf("statement ID is required")
	}
	if totalTransactions < 0 {
		return Reconciliation{}, fmt.Errorf("total transactions must not be negative, got %d", totalTransactions)
	}
	return Reconciliation{
		id:                uuid.New(),
		statementID:       statementID,
		periodStart:       periodStart,
		periodEnd:         periodEnd,
		totalTransactions: totalTransactions,
		version:           1,
		createdAt:         now,
		updatedAt:         now,
	}, nil
}

// ReconstructReconciliation rebuilds the aggregate from persistence.
func ReconstructReconciliation(
	id, statementID uuid.UUID,
	periodStart, periodEnd time.Time,
	totalTransactions, matchedCount int,
	matches []ReconciliationMatch,
	version int,
	createdAt, updatedAt time.Time,
) Reconciliation {
	return Reconciliation{
		id:                id,
		statementID:       statementID,
		periodStart:       periodStart,
		periodEnd:         periodEnd,
		totalTransactions: totalTransactions,
		matchedCount:      matchedCount,
		matches:           matches,
		version:           version,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
	}
}

// ConfirmMatch binds a system transaction to a statement item. Either side
// holding an active (non-disputed, non-unmatched) match fails with
// ErrAlreadyMatched; the prior match must be explicitly unmatched first.
func (r Reconciliation) ConfirmMatch(
	transactionID, statementItemID uuid.UUID,
	matchType valueobject.MatchType,
	score int,
	reason string,
	now time.Time,
) (Reconciliation, ReconciliationMatch, error) {
	if transactionID == uuid.Nil {
		return r, ReconciliationMatch{}, fmt.Errorf("transaction ID is required")
	}
	if statementItemID == uuid.Nil {
		return r, ReconciliationMatch{}, fmt.Errorf("statement item ID is required")
	}
	if r.hasActiveMatchForTransaction(transactionID) {
		return r, ReconciliationMatch{}, fmt.Errorf("confirm match for transaction %s: %w", transactionID, ErrAlreadyMatched)
	}
	if r.hasActiveMatchForItem(statementItemID) {
		return r, ReconciliationMatch{}, fmt.Errorf("confirm match for statement item %s: %w", statementItemID, ErrAlreadyMatched)
	}

	itemID := statementItemID
	match := ReconciliationMatch{
		ID:              uuid.New(),
		TransactionID:   transactionID,
		StatementItemID: &itemID,
		Type:            matchType,
		Status:          valueobject.MatchStatusMatched,
		Score:           score,
		Reason:          reason,
		CreatedAt:       now,
	}

	next := r.copy()
	next.matches = append(next.matches, match)
	next.matchedCount++
	next.updatedAt = now
	next.domainEvents = append(next.domainEvents, event.NewMatchConfirmed(
		r.id, match.ID, transactionID, statementItemID, matchType.String(), score,
	))
	return next, match, nil
}

// Unmatch releases a confirmed match so both sides can be re-matched.
func (r Reconciliation) Unmatch(matchID uuid.UUID, now time.Time) (Reconciliation, ReconciliationMatch, error) {
	idx := -1
	for i, m := range r.matches {
		if m.ID == matchID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return r, ReconciliationMatch{}, fmt.Errorf("reconciliation %s has no match %s", r.id, matchID)
	}
	if !r.matches[idx].Status.Active() {
		return r, ReconciliationMatch{}, fmt.Errorf("match %s is not active, status %s", matchID, r.matches[idx].Status)
	}

	next := r.copy()
	next.matches[idx].Status = valueobject.MatchStatusUnmatched
	next.matchedCount--
	next.updatedAt = now
	next.domainEvents = append(next.domainEvents, event.NewMatchUnmatched(r.id, matchID))
	return next, next.matches[idx], nil
}

// Dispute flags a match as contested, releasing both sides without deleting
// the record.
func (r Reconciliation) Dispute(matchID uuid.UUID, now time.Time) (Reconciliation, error) {
	idx := -1
	for i, m := range r.matches {
		if m.ID == matchID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return r, fmt.Errorf("reconciliation %s has no match %s", r.id, matchID)
	}

	next := r.copy()
	if next.matches[idx].Status.Active() {
		next.matchedCount--
	}
	next.matches[idx].Status = valueobject.MatchStatusDisputed
	next.updatedAt = now
	return next, nil
}

func (r Reconciliation) hasActiveMatchForTransaction(transactionID uuid.UUID) bool {
	for _, m := range r.matches {
		if m.TransactionID == transactionID && m.Status.Active() {
			return true
		}
	}
	return false
}

func (r Reconciliation) hasActiveMatchForItem(itemID uuid.UUID) bool {
	for _, m := range r.matches {
		if m.StatementItemID != nil && *m.StatementItemID == itemID && m.Status.Active() {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (r Reconciliation) ID() uuid.UUID          { return r.id }
func (r Reconciliation) StatementID() uuid.UUID { return r.statementID }
func (r Reconciliation) PeriodStart() time.Time { return r.periodStart }
func (r Reconciliation) PeriodEnd() time.Time   { return r.periodEnd }
func (r Reconciliation) TotalTransactions() int { return r.totalTransactions }
func (r Reconciliation) MatchedCount() int      { return r.matchedCount }

// UnmatchedCount is the number of system transactions without an active match.
func (r Reconciliation) UnmatchedCount() int {
	return r.totalTransactions - r.matchedCount
}

func (r Reconciliation) Version() int                     { return r.version }
func (r Reconciliation) CreatedAt() time.Time             { return r.createdAt }
func (r Reconciliation) UpdatedAt() time.Time             { return r.updatedAt }
func (r Reconciliation) DomainEvents() []event.DomainEvent { return r.domainEvents }

// Matches returns a defensive copy of the session's matches.
func (r Reconciliation) Matches() []ReconciliationMatch {
	out := make([]ReconciliationMatch, len(r.matches))
	copy(out, r.matches)
	return out
}

// ClearEvents returns a copy with an empty event list.
func (r Reconciliation) ClearEvents() Reconciliation {
	next := r
	next.domainEvents = nil
	return next
}

func (r Reconciliation) copy() Reconciliation {
	next := r
	next.matches = r.Matches()
	next.domainEvents = append([]event.DomainEvent(nil), r.domainEvents...)
	return next
}
