package valueobject

import (
	"errors"
	"fmt"
)

// ErrInvalidStatusTransition is returned when a lifecycle transition is not
// allowed from the current status.
var ErrInvalidStatusTransition = errors.New("invalid status transition")

// ---------------------------------------------------------------------------
// LoanStatus – immutable value object
// ---------------------------------------------------------------------------

// LoanStatus represents the lifecycle stage of a loan.
type LoanStatus struct {
	value string
}

const (
	loanStatusPending   = "PENDING"
	loanStatusActive    = "ACTIVE"
	loanStatusCompleted = "COMPLETED"
	loanStatusDefaulted = "DEFAULTED"
)

var (
	LoanStatusPending   = LoanStatus{value: loanStatusPending}
	LoanStatusActive    = LoanStatus{value: loanStatusActive}
	LoanStatusCompleted = LoanStatus{value: loanStatusCompleted}
	LoanStatusDefaulted = LoanStatus{value: loanStatusDefaulted}
)

var validLoanStatuses = map[string]LoanStatus{
	loanStatusPending:   LoanStatusPending,
	loanStatusActive:    LoanStatusActive,
	loanStatusCompleted: LoanStatusCompleted,
	loanStatusDefaulted: LoanStatusDefaulted,
}

// NewLoanStatus creates a LoanStatus from a raw string.
func NewLoanStatus(s string) (LoanStatus, error) {
	v, ok := validLoanStatuses[s]
	if !ok {
		return LoanStatus{}, fmt.Errorf("invalid loan status: %q", s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s LoanStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s LoanStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s LoanStatus) Equal(other LoanStatus) bool {
	return s.value == other.value
}

// ---------------------------------------------------------------------------
// ScheduleEntryStatus – immutable value object
// ---------------------------------------------------------------------------

// ScheduleEntryStatus represents the settlement state of one schedule entry.
type ScheduleEntryStatus struct {
	value string
}

const (
	entryStatusPending = "PENDING"
	entryStatusPaid    = "PAID"
	entryStatusOverdue = "OVERDUE"
)

var (
	ScheduleEntryStatusPending = ScheduleEntryStatus{value: entryStatusPending}
	ScheduleEntryStatusPaid    = ScheduleEntryStatus{value: entryStatusPaid}
	ScheduleEntryStatusOverdue = ScheduleEntryStatus{value: entryStatusOverdue}
)

var validEntryStatuses = map[string]ScheduleEntryStatus{
	entryStatusPending: ScheduleEntryStatusPending,
	entryStatusPaid:    ScheduleEntryStatusPaid,
	entryStatusOverdue: ScheduleEntryStatusOverdue,
}

// NewScheduleEntryStatus creates a ScheduleEntryStatus from a raw string.
func NewScheduleEntryStatus(s string) (ScheduleEntryStatus, error) {
	v, ok := validEntryStatuses[s]
	if !ok {
		return ScheduleEntryStatus{}, fmt.Errorf("invalid schedule entry status: %q", s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s ScheduleEntryStatus) String() string { return s.value }

// Equal returns true when both statuses carry the same value.
func (s ScheduleEntryStatus) Equal(other ScheduleEntryStatus) bool {
	return s.value == other.value
}
