package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/elie009/utlityhub360-sub005/internal/domain/event"
	"github.com/elie009/utlityhub360-sub005/internal/domain/valueobject"
	"github.com/elie009/utlityhub360-sub005/pkg/money"
)

// EntryKind classifies the financial event a journal entry records.
type EntryKind string

const (
	EntryKindDisbursement    EntryKind = "DISBURSEMENT"
	EntryKindPayment         EntryKind = "PAYMENT"
	EntryKindBillPayment     EntryKind = "BILL_PAYMENT"
	EntryKindSavingsTransfer EntryKind = "SAVINGS_TRANSFER"
	EntryKindReversal        EntryKind = "REVERSAL"
)

// EntryStatus represents the lifecycle state of a journal entry.
type EntryStatus string

const (
	EntryStatusPosted   EntryStatus = "POSTED"
	EntryStatusReversed EntryStatus = "REVERSED"
)

// JournalLine is one side of a double-entry posting.
type JournalLine struct {
	Account string
	Type    valueobject.AccountType
	Side    valueobject.EntrySide
	Amount  money.Money
}

// NewJournalLine validates and creates a journal line.
func NewJournalLine(account string, accountType valueobject.AccountType, side valueobject.EntrySide, amount money.Money) (JournalLine, error) {
	if account == "" {
		return JournalLine{}, fmt.Errorf("account name is required")
	}
	if accountType.IsZero() {
		return JournalLine{}, fmt.Errorf("account type is required")
	}
	if side.IsZero() {
		return JournalLine{}, fmt.Errorf("entry side is required")
	}
	if !amount.IsPositive() {
		return JournalLine{}, fmt.Errorf("line amount must be positive, got %s", amount)
	}
	return JournalLine{Account: account, Type: accountType, Side: side, Amount: amount}, nil
}

// JournalEntry is the root aggregate of the ledger. It groups two or more
// lines whose debits and credits balance exactly. Entries are append-only:
// corrections are made with reversing entries, never by editing.
type JournalEntry struct {
	id            uuid.UUID
	kind          EntryKind
	effectiveDate time.Time
	lines         []JournalLine
	status        EntryStatus
	description   string
	reference     string
	version       int
	createdAt     time.Time
	domainEvents  []event.DomainEvent
}

// NewJournalEntry creates a POSTED journal entry after checking the one hard
// invariant of the ledger: the debit and credit lines sum to the same amount.
// An unbalanced set of lines fails with ErrUnbalancedEntry and nothing is
// created.
func NewJournalEntry(
	kind EntryKind,
	effectiveDate time.Time,
	description, reference string,
	lines []JournalLine,
	now time.Time,
) (JournalEntry, error) {
	if kind == "" {
		return JournalEntry{}, fmt.Errorf("entry kind is required")
	}
	if effectiveDate.IsZero() {
		return JournalEntry{}, fmt.Errorf("effective date is required")
	}
	if len(lines) < 2 {
		return JournalEntry{}, fmt.Errorf("at least two lines are required, got %d", len(lines))
	}

	currency := lines[0].Amount.Currency()
	debits := money.Zero(currency)
	credits := money.Zero(currency)
	for i, l := range lines {
		if l.Amount.Currency() != currency {
			return JournalEntry{}, fmt.Errorf("line %d: currency %s differs from entry currency %s",
				i+1, l.Amount.Currency(), currency)
		}
		var err error
		if l.Side.IsDebit() {
			debits, err = debits.Add(l.Amount)
		} else {
			credits, err = credits.Add(l.Amount)
		}
		if err != nil {
			return JournalEntry{}, err
		}
	}
	if !debits.Equal(credits) {
		return JournalEntry{}, fmt.Errorf("%w: debits %s, credits %s", ErrUnbalancedEntry, debits, credits)
	}

	id := uuid.New()
	entry := JournalEntry{
		id:            id,
		kind:          kind,
		effectiveDate: effectiveDate,
		lines:         append([]JournalLine(nil), lines...),
		status:        EntryStatusPosted,
		description:   description,
		reference:     reference,
		version:       1,
		createdAt:     now,
	}
	entry.domainEvents = append(entry.domainEvents, event.NewEntryPosted(id, string(kind), effectiveDate))
	return entry, nil
}

// ReconstructJournalEntry rebuilds an entry from persistence without
// validation or events.
func ReconstructJournalEntry(
	id uuid.UUID,
	kind EntryKind,
	effectiveDate time.Time,
	lines []JournalLine,
	status EntryStatus,
	description, reference string,
	version int,
	createdAt time.Time,
) JournalEntry {
	return JournalEntry{
		id:            id,
		kind:          kind,
		effectiveDate: effectiveDate,
		lines:         lines,
		status:        status,
		description:   description,
		reference:     reference,
		version:       version,
		createdAt:     createdAt,
	}
}

// Reverse marks the entry REVERSED and produces an offsetting entry with the
// debit and credit sides swapped on every line. The original is never edited
// beyond its status; the reversal is a new POSTED entry referencing it.
func (je JournalEntry) Reverse(now time.Time, reason string) (reversed JournalEntry, reversal JournalEntry, err error) {
	if je.status != EntryStatusPosted {
		return JournalEntry{}, JournalEntry{}, fmt.Errorf("can only reverse entries in POSTED status, current: %s", je.status)
	}

	reversalLines := make([]JournalLine, 0, len(je.lines))
	for _, l := range je.lines {
		reversalLines = append(reversalLines, JournalLine{
			Account: l.Account,
			Type:    l.Type,
			Side:    l.Side.Opposite(),
			Amount:  l.Amount,
		})
	}

	reversal, err = NewJournalEntry(
		EntryKindReversal,
		now,
		fmt.Sprintf("Reversal of %s: %s", je.id, reason),
		je.id.String(),
		reversalLines,
		now,
	)
	if err != nil {
		return JournalEntry{}, JournalEntry{}, err
	}

	reversed = je
	reversed.status = EntryStatusReversed
	reversed.version++
	reversed.domainEvents = append([]event.DomainEvent(nil), je.domainEvents...)
	reversed.domainEvents = append(reversed.domainEvents, event.NewEntryReversed(je.id, reversal.id))

	return reversed, reversal, nil
}

// TotalDebits sums the debit lines.
func (je JournalEntry) TotalDebits() money.Money {
	return je.sumSide(true)
}

// TotalCredits sums the credit lines.
func (je JournalEntry) TotalCredits() money.Money {
	return je.sumSide(false)
}

func (je JournalEntry) sumSide(debit bool) money.Money {
	currency := money.USD
	if len(je.lines) > 0 {
		currency = je.lines[0].Amount.Currency()
	}
	total := money.Zero(currency)
	for _, l := range je.lines {
		if l.Side.IsDebit() == debit {
			total, _ = total.Add(l.Amount)
		}
	}
	return total
}

// Accessors
func (je JournalEntry) ID() uuid.UUID            { return je.id }
func (je JournalEntry) Kind() EntryKind          { return je.kind }
func (je JournalEntry) EffectiveDate() time.Time { return je.effectiveDate }
func (je JournalEntry) Status() EntryStatus      { return je.status }
func (je JournalEntry) Description() string      { return je.description }
func (je JournalEntry) Reference() string        { return je.reference }
func (je JournalEntry) Version() int             { return je.version }
func (je JournalEntry) CreatedAt() time.Time     { return je.createdAt }

// Lines returns a defensive copy of the entry's lines.
func (je JournalEntry) Lines() []JournalLine {
	out := make([]JournalLine, len(je.lines))
	copy(out, je.lines)
	return out
}

// DomainEvents returns the events collected on this aggregate.
func (je JournalEntry) DomainEvents() []event.DomainEvent { return je.domainEvents }

// ClearEvents returns a copy with an empty event list.
func (je JournalEntry) ClearEvents() JournalEntry {
	next := je
	next.domainEvents = nil
	return next
}
