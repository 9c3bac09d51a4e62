package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/elie009/utlityhub360-sub005/pkg/money"
)

// Penalty is an overdue charge tied to exactly one schedule entry. At most
// one unpaid penalty exists per entry per overdue spell; the calculator keys
// idempotency on that.
type Penalty struct {
	ID          uuid.UUID
	LoanID      uuid.UUID
	EntryNumber int
	Amount      money.Money
	Settled     money.Money
	AppliedAt   time.Time
}

// NewPenalty creates a penalty against an overdue entry.
func NewPenalty(loanID uuid.UUID, entryNumber int, amount money.Money, appliedAt time.Time) (Penalty, error) {
	if loanID == uuid.Nil {
		return Penalty{}, fmt.Errorf("loan ID is required")
	}
	if entryNumber < 1 {
		return Penalty{}, fmt.Errorf("entry number must be positive, got %d", entryNumber)
	}
	if !amount.IsPositive() {
		return Penalty{}, fmt.Errorf("penalty amount must be positive, got %s", amount)
	}
	return Penalty{
		ID:          uuid.New(),
		LoanID:      loanID,
		EntryNumber: entryNumber,
		Amount:      amount,
		Settled:     money.Zero(amount.Currency()),
		AppliedAt:   appliedAt,
	}, nil
}

// Outstanding returns the unpaid portion of the penalty.
func (p Penalty) Outstanding() money.Money {
	out, _ := p.Amount.Subtract(p.Settled)
	if out.IsNegative() {
		return money.Zero(p.Amount.Currency())
	}
	return out
}

// IsPaid reports whether the penalty has been fully settled.
func (p Penalty) IsPaid() bool {
	return p.Outstanding().IsZero()
}

// Settle applies an amount against the penalty, clamped by the caller to the
// outstanding portion.
func (p Penalty) Settle(amount money.Money) (Penalty, error) {
	if amount.GreaterThan(p.Outstanding()) {
		return p, fmt.Errorf("settle penalty %s: amount %s exceeds outstanding %s", p.ID, amount, p.Outstanding())
	}
	settled, err := p.Settled.Add(amount)
	if err != nil {
		return p, err
	}
	next := p
	next.Settled = settled
	return next, nil
}
