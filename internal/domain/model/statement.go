package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/elie009/utlityhub360-sub005/pkg/money"
)

// StatementItemType is the direction of a statement line as the bank reports it.
type StatementItemType string

const (
	StatementItemDebit  StatementItemType = "DEBIT"
	StatementItemCredit StatementItemType = "CREDIT"
)

// StatementItem is one externally-reported transaction line. The imported
// fields are a read-only snapshot; only the matched flag changes as
// reconciliation progresses.
type StatementItem struct {
	ID          uuid.UUID
	Date        time.Time
	Amount      money.Money
	Type        StatementItemType
	Description string
	Matched     bool
}

// BankStatement is an imported snapshot of externally-reported transactions
// for a period.
type BankStatement struct {
	ID          uuid.UUID
	AccountName string
	PeriodStart time.Time
	PeriodEnd   time.Time
	ImportedAt  time.Time
	Items       []StatementItem
}

// NewBankStatement creates a statement snapshot from parsed items. Item IDs
// are assigned here; item order is preserved as the import order.
func NewBankStatement(accountName string, periodStart, periodEnd time.Time, items []StatementItem, importedAt time.Time) (BankStatement, error) {
	if accountName == "" {
		return BankStatement{}, fmt.Errorf("account name is required")
	}
	if periodEnd.Before(periodStart) {
		return BankStatement{}, fmt.Errorf("statement period end %s precedes start %s", periodEnd, periodStart)
	}

	stored := make([]StatementItem, len(items))
	for i, item := range items {
		item.ID = uuid.New()
		item.Matched = false
		stored[i] = item
	}
	return BankStatement{
		ID:          uuid.New(),
		AccountName: accountName,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		ImportedAt:  importedAt,
		Items:       stored,
	}, nil
}

// Item returns the statement item with the given ID.
func (s BankStatement) Item(id uuid.UUID) (StatementItem, bool) {
	for _, item := range s.Items {
		if item.ID == id {
			return item, true
		}
	}
	return StatementItem{}, false
}

// SetItemMatched flips the matched flag on one item, returning a new copy.
func (s BankStatement) SetItemMatched(id uuid.UUID, matched bool) (BankStatement, error) {
	next := s
	next.Items = make([]StatementItem, len(s.Items))
	copy(next.Items, s.Items)
	for i, item := range next.Items {
		if item.ID == id {
			next.Items[i].Matched = matched
			return next, nil
		}
	}
	return s, fmt.Errorf("statement %s has no item %s", s.ID, id)
}

// UnmatchedItems returns the items not yet bound to a match, in import order.
func (s BankStatement) UnmatchedItems() []StatementItem {
	var out []StatementItem
	for _, item := range s.Items {
		if !item.Matched {
			out = append(out, item)
		}
	}
	return out
}
