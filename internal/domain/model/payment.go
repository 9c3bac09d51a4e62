package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/elie009/utlityhub360-sub005/pkg/money"
)

// Payment is an amount applied against a loan. The reference is the caller's
// idempotency key: a reference is applied exactly once and re-application is
// rejected with ErrDuplicatePayment at the use-case boundary.
type Payment struct {
	ID          uuid.UUID
	LoanID      uuid.UUID
	Reference   string
	Amount      money.Money
	PaidAt      time.Time
	EntryNumber *int // explicit schedule entry target, nil lets the allocator choose
}

// NewPayment validates and creates a payment record.
func NewPayment(loanID uuid.UUID, reference string, amount money.Money, paidAt time.Time, entryNumber *int) (Payment, error) {
	if loanID == uuid.Nil {
		return Payment{}, fmt.Errorf("loan ID is required")
	}
	if reference == "" {
		return Payment{}, fmt.Errorf("payment reference is required")
	}
	if !amount.IsPositive() {
		return Payment{}, fmt.Errorf("payment amount must be positive, got %s", amount)
	}
	if entryNumber != nil && *entryNumber < 1 {
		return Payment{}, fmt.Errorf("entry number must be positive, got %d", *entryNumber)
	}
	return Payment{
		ID:          uuid.New(),
		LoanID:      loanID,
		Reference:   reference,
		Amount:      amount,
		PaidAt:      paidAt,
		EntryNumber: entryNumber,
	}, nil
}
