package model

import "errors"

// Typed failures returned by the ledger core. Callers branch on these with
// errors.Is; the core never retries or swallows them.
var (
	// ErrInvalidTerms is returned when loan parameters cannot produce a
	// schedule (non-positive financed amount, negative rate, term < 1).
	ErrInvalidTerms = errors.New("invalid loan terms")

	// ErrScheduleLocked is returned when a schedule recalculation is
	// attempted after an entry has been paid. Refinancing is the only path
	// to new terms once repayment has started.
	ErrScheduleLocked = errors.New("schedule locked: entries already paid")

	// ErrPaymentExceedsOutstanding is returned when the overpayment policy
	// rejects a payment larger than the loan's outstanding total.
	ErrPaymentExceedsOutstanding = errors.New("payment exceeds outstanding amount")

	// ErrDuplicatePayment is returned when a payment reference has already
	// been applied.
	ErrDuplicatePayment = errors.New("payment already applied")

	// ErrUnbalancedEntry is returned when journal debits and credits do not
	// sum to the same amount. The posting is aborted with no partial state.
	ErrUnbalancedEntry = errors.New("journal entry debits and credits are not balanced")

	// ErrAlreadyMatched is returned when a reconciliation match is confirmed
	// against a side that already holds an active match.
	ErrAlreadyMatched = errors.New("transaction or statement item already matched")

	// ErrAlreadyRefinanced is returned when a loan that already closed into a
	// successor is refinanced again.
	ErrAlreadyRefinanced = errors.New("loan already refinanced")
)
