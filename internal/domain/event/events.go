package event

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/elie009/utlityhub360-sub005/pkg/events"
	"github.com/elie009/utlityhub360-sub005/pkg/money"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

// ---------------------------------------------------------------------------
// Loan events
// ---------------------------------------------------------------------------

// LoanCreated is raised when a loan and its schedule are generated.
type LoanCreated struct {
	events.BaseEvent
	BorrowerID    string          `json:"borrower_id"`
	Principal     decimal.Decimal `json:"principal"`
	Currency      string          `json:"currency"`
	AnnualRatePct decimal.Decimal `json:"annual_rate_pct"`
	TermMonths    int             `json:"term_months"`
	Method        string          `json:"method"`
	Frequency     string          `json:"frequency"`
}

func NewLoanCreated(
	loanID, borrowerID uuid.UUID,
	principal money.Money, annualRatePct decimal.Decimal,
	termMonths int, method, frequency string,
) LoanCreated {
	return LoanCreated{
		BaseEvent:     events.NewBaseEvent("ledger.loan.created", loanID.String(), "Loan", nil),
		BorrowerID:    borrowerID.String(),
		Principal:     principal.Decimal(),
		Currency:      principal.Currency().Code(),
		AnnualRatePct: annualRatePct,
		TermMonths:    termMonths,
		Method:        method,
		Frequency:     frequency,
	}
}

// LoanDisbursed is raised when funds are released to the borrower.
type LoanDisbursed struct {
	events.BaseEvent
	BorrowerID     string          `json:"borrower_id"`
	FinancedAmount decimal.Decimal `json:"financed_amount"`
	ProcessingFee  decimal.Decimal `json:"processing_fee"`
	Currency       string          `json:"currency"`
	DisbursedAt    time.Time       `json:"disbursed_at"`
}

func NewLoanDisbursed(loanID, borrowerID uuid.UUID, financed, fee money.Money, disbursedAt time.Time) LoanDisbursed {
	return LoanDisbursed{
		BaseEvent:      events.NewBaseEvent("ledger.loan.disbursed", loanID.String(), "Loan", nil),
		BorrowerID:     borrowerID.String(),
		FinancedAmount: financed.Decimal(),
		ProcessingFee:  fee.Decimal(),
		Currency:       financed.Currency().Code(),
		DisbursedAt:    disbursedAt,
	}
}

// ScheduleRecalculated is raised when a schedule is regenerated with a new rate.
type ScheduleRecalculated struct {
	events.BaseEvent
	NewAnnualRatePct decimal.Decimal `json:"new_annual_rate_pct"`
}

func NewScheduleRecalculated(loanID uuid.UUID, newRatePct decimal.Decimal) ScheduleRecalculated {
	return ScheduleRecalculated{
		BaseEvent:        events.NewBaseEvent("ledger.loan.schedule_recalculated", loanID.String(), "Loan", nil),
		NewAnnualRatePct: newRatePct,
	}
}

// PaymentAllocated is raised after a payment has been applied to a schedule.
type PaymentAllocated struct {
	events.BaseEvent
	PaymentID string          `json:"payment_id"`
	Amount    decimal.Decimal `json:"amount"`
	Remainder decimal.Decimal `json:"remainder"`
	Currency  string          `json:"currency"`
	PaidAt    time.Time       `json:"paid_at"`
}

func NewPaymentAllocated(loanID, paymentID uuid.UUID, amount, remainder money.Money, paidAt time.Time) PaymentAllocated {
	return PaymentAllocated{
		BaseEvent: events.NewBaseEvent("ledger.loan.payment_allocated", loanID.String(), "Loan", nil),
		PaymentID: paymentID.String(),
		Amount:    amount.Decimal(),
		Remainder: remainder.Decimal(),
		Currency:  amount.Currency().Code(),
		PaidAt:    paidAt,
	}
}

// LoanCompleted is raised when the outstanding balance reaches zero.
type LoanCompleted struct {
	events.BaseEvent
	CompletedAt time.Time `json:"completed_at"`
}

func NewLoanCompleted(loanID uuid.UUID, completedAt time.Time) LoanCompleted {
	return LoanCompleted{
		BaseEvent:   events.NewBaseEvent("ledger.loan.completed", loanID.String(), "Loan", nil),
		CompletedAt: completedAt,
	}
}

// LoanDefaulted is raised on terminal delinquency.
type LoanDefaulted struct {
	events.BaseEvent
	DefaultedAt time.Time `json:"defaulted_at"`
}

func NewLoanDefaulted(loanID uuid.UUID, defaultedAt time.Time) LoanDefaulted {
	return LoanDefaulted{
		BaseEvent:   events.NewBaseEvent("ledger.loan.defaulted", loanID.String(), "Loan", nil),
		DefaultedAt: defaultedAt,
	}
}

// LoanRefinanced is raised when a loan closes into a successor loan.
type LoanRefinanced struct {
	events.BaseEvent
	SuccessorLoanID string    `json:"successor_loan_id"`
	RefinancedAt    time.Time `json:"refinanced_at"`
}

func NewLoanRefinanced(loanID, successorID uuid.UUID, refinancedAt time.Time) LoanRefinanced {
	return LoanRefinanced{
		BaseEvent:       events.NewBaseEvent("ledger.loan.refinanced", loanID.String(), "Loan", nil),
		SuccessorLoanID: successorID.String(),
		RefinancedAt:    refinancedAt,
	}
}

// ---------------------------------------------------------------------------
// Penalty events
// ---------------------------------------------------------------------------

// PenaltyAssessed is raised when an overdue entry accrues a penalty.
type PenaltyAssessed struct {
	events.BaseEvent
	PenaltyID   string          `json:"penalty_id"`
	EntryNumber int             `json:"entry_number"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	AsOf        time.Time       `json:"as_of"`
}

func NewPenaltyAssessed(loanID, penaltyID uuid.UUID, entryNumber int, amount money.Money, asOf time.Time) PenaltyAssessed {
	return PenaltyAssessed{
		BaseEvent:   events.NewBaseEvent("ledger.loan.penalty_assessed", loanID.String(), "Loan", nil),
		PenaltyID:   penaltyID.String(),
		EntryNumber: entryNumber,
		Amount:      amount.Decimal(),
		Currency:    amount.Currency().Code(),
		AsOf:        asOf,
	}
}

// ---------------------------------------------------------------------------
// Journal events
// ---------------------------------------------------------------------------

// EntryPosted is raised when a balanced journal entry is created.
type EntryPosted struct {
	events.BaseEvent
	Kind          string    `json:"kind"`
	EffectiveDate time.Time `json:"effective_date"`
}

func NewEntryPosted(entryID uuid.UUID, kind string, effectiveDate time.Time) EntryPosted {
	return EntryPosted{
		BaseEvent:     events.NewBaseEvent("ledger.journal.entry_posted", entryID.String(), "JournalEntry", nil),
		Kind:          kind,
		EffectiveDate: effectiveDate,
	}
}

// EntryReversed is raised when a posted entry is offset by a reversal.
type EntryReversed struct {
	events.BaseEvent
	ReversalEntryID string `json:"reversal_entry_id"`
}

func NewEntryReversed(entryID, reversalID uuid.UUID) EntryReversed {
	return EntryReversed{
		BaseEvent:       events.NewBaseEvent("ledger.journal.entry_reversed", entryID.String(), "JournalEntry", nil),
		ReversalEntryID: reversalID.String(),
	}
}

// ---------------------------------------------------------------------------
// Reconciliation events
// ---------------------------------------------------------------------------

// StatementImported is raised when an external statement snapshot is stored.
type StatementImported struct {
	events.BaseEvent
	ItemCount int `json:"item_count"`
}

func NewStatementImported(statementID uuid.UUID, itemCount int) StatementImported {
	return StatementImported{
		BaseEvent: events.NewBaseEvent("ledger.statement.imported", statementID.String(), "BankStatement", nil),
		ItemCount: itemCount,
	}
}

// MatchConfirmed is raised when a reconciliation match is confirmed.
type MatchConfirmed struct {
	events.BaseEvent
	MatchID         string `json:"match_id"`
	TransactionID   string `json:"transaction_id"`
	StatementItemID string `json:"statement_item_id"`
	MatchType       string `json:"match_type"`
	Score           int    `json:"score"`
}

func NewMatchConfirmed(reconciliationID, matchID, transactionID, statementItemID uuid.UUID, matchType string, score int) MatchConfirmed {
	return MatchConfirmed{
		BaseEvent:       events.NewBaseEvent("ledger.reconciliation.match_confirmed", reconciliationID.String(), "Reconciliation", nil),
		MatchID:         matchID.String(),
		TransactionID:   transactionID.String(),
		StatementItemID: statementItemID.String(),
		MatchType:       matchType,
		Score:           score,
	}
}

// MatchUnmatched is raised when a confirmed match is released.
type MatchUnmatched struct {
	events.BaseEvent
	MatchID string `json:"match_id"`
}

func NewMatchUnmatched(reconciliationID, matchID uuid.UUID) MatchUnmatched {
	return MatchUnmatched{
		BaseEvent: events.NewBaseEvent("ledger.reconciliation.match_unmatched", reconciliationID.String(), "Reconciliation", nil),
		MatchID:   matchID.String(),
	}
}
