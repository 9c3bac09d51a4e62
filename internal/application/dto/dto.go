package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// CreateLoanRequest carries the data needed to open a new loan.
type CreateLoanRequest struct {
	BorrowerID    uuid.UUID       `json:"borrower_id"`
	Principal     decimal.Decimal `json:"principal"`
	Currency      string          `json:"currency"`
	AnnualRatePct decimal.Decimal `json:"annual_rate_pct"`
	TermMonths    int             `json:"term_months"`
	Method        string          `json:"method"`
	Frequency     string          `json:"frequency"`
	StartDate     time.Time       `json:"start_date"`
	DownPayment   decimal.Decimal `json:"down_payment"`
	ProcessingFee decimal.Decimal `json:"processing_fee"`
}

// DisburseLoanRequest identifies a pending loan to disburse.
type DisburseLoanRequest struct {
	LoanID uuid.UUID `json:"loan_id"`
}

// AllocatePaymentRequest carries one inbound payment. Reference is the
// caller's idempotency key. EntryNumber optionally targets one schedule entry.
type AllocatePaymentRequest struct {
	LoanID      uuid.UUID       `json:"loan_id"`
	Reference   string          `json:"reference"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	EntryNumber *int            `json:"entry_number,omitempty"`
}

// RecalculateScheduleRequest carries a rate change for an unpaid loan.
type RecalculateScheduleRequest struct {
	LoanID        uuid.UUID       `json:"loan_id"`
	AnnualRatePct decimal.Decimal `json:"annual_rate_pct"`
}

// RefinanceLoanRequest closes a loan into a successor on new terms. The
// successor's principal is the predecessor's outstanding total.
type RefinanceLoanRequest struct {
	LoanID        uuid.UUID       `json:"loan_id"`
	AnnualRatePct decimal.Decimal `json:"annual_rate_pct"`
	TermMonths    int             `json:"term_months"`
	Method        string          `json:"method"`
	Frequency     string          `json:"frequency"`
	StartDate     time.Time       `json:"start_date"`
}

// PostTransferRequest records a bill payment or savings transfer posting.
type PostTransferRequest struct {
	Kind        string          `json:"kind"`
	FromAccount string          `json:"from_account"`
	FromType    string          `json:"from_type"`
	ToAccount   string          `json:"to_account"`
	ToType      string          `json:"to_type"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Reference   string          `json:"reference"`
}

// ReverseEntryRequest reverses a posted journal entry.
type ReverseEntryRequest struct {
	EntryID uuid.UUID `json:"entry_id"`
	Reason  string    `json:"reason"`
}

// ImportStatementRequest pulls one statement period from the import source.
type ImportStatementRequest struct {
	AccountName string    `json:"account_name"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
}

// SuggestMatchesRequest runs the matcher over one reconciliation session.
type SuggestMatchesRequest struct {
	ReconciliationID uuid.UUID `json:"reconciliation_id"`
}

// ConfirmMatchRequest manually binds a system transaction to a statement item.
type ConfirmMatchRequest struct {
	ReconciliationID uuid.UUID `json:"reconciliation_id"`
	TransactionID    uuid.UUID `json:"transaction_id"`
	StatementItemID  uuid.UUID `json:"statement_item_id"`
	Reason           string    `json:"reason"`
}

// UnmatchRequest releases a confirmed match.
type UnmatchRequest struct {
	ReconciliationID uuid.UUID `json:"reconciliation_id"`
	MatchID          uuid.UUID `json:"match_id"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// ScheduleEntryResponse is the external representation of one schedule period.
type ScheduleEntryResponse struct {
	Number    int             `json:"number"`
	DueDate   time.Time       `json:"due_date"`
	Principal decimal.Decimal `json:"principal"`
	Interest  decimal.Decimal `json:"interest"`
	Total     decimal.Decimal `json:"total"`
	Status    string          `json:"status"`
	Settled   decimal.Decimal `json:"settled"`
	PaidAt    *time.Time      `json:"paid_at,omitempty"`
}

// LoanResponse is the external representation of a loan.
type LoanResponse struct {
	ID               uuid.UUID               `json:"id"`
	BorrowerID       uuid.UUID               `json:"borrower_id"`
	Principal        decimal.Decimal         `json:"principal"`
	Currency         string                  `json:"currency"`
	AnnualRatePct    decimal.Decimal         `json:"annual_rate_pct"`
	TermMonths       int                     `json:"term_months"`
	Method           string                  `json:"method"`
	Frequency        string                  `json:"frequency"`
	Status           string                  `json:"status"`
	Outstanding      decimal.Decimal         `json:"outstanding"`
	RefinancedFromID *uuid.UUID              `json:"refinanced_from_id,omitempty"`
	RefinancedIntoID *uuid.UUID              `json:"refinanced_into_id,omitempty"`
	Schedule         []ScheduleEntryResponse `json:"schedule,omitempty"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
}

// AllocationResponse is the outcome of applying one payment.
type AllocationResponse struct {
	PaymentID   uuid.UUID                 `json:"payment_id"`
	LoanID      uuid.UUID                 `json:"loan_id"`
	LoanStatus  string                    `json:"loan_status"`
	Outstanding decimal.Decimal           `json:"outstanding"`
	Remainder   decimal.Decimal           `json:"remainder"`
	JournalID   uuid.UUID                 `json:"journal_entry_id"`
	Settlements []EntrySettlementResponse `json:"settlements"`
}

// EntrySettlementResponse shows how one payment portion landed on one entry.
type EntrySettlementResponse struct {
	EntryNumber int             `json:"entry_number"`
	Penalty     decimal.Decimal `json:"penalty"`
	Interest    decimal.Decimal `json:"interest"`
	Principal   decimal.Decimal `json:"principal"`
	EntryPaid   bool            `json:"entry_paid"`
}

// RefinanceResponse links the closed predecessor and its successor.
type RefinanceResponse struct {
	PredecessorID uuid.UUID       `json:"predecessor_id"`
	SuccessorID   uuid.UUID       `json:"successor_id"`
	Principal     decimal.Decimal `json:"principal"`
	Successor     LoanResponse    `json:"successor"`
}

// PenaltyBatchResponse summarizes one overdue sweep.
type PenaltyBatchResponse struct {
	LoansEvaluated   int             `json:"loans_evaluated"`
	PenaltiesCreated int             `json:"penalties_created"`
	TotalCharged     decimal.Decimal `json:"total_charged"`
}

// JournalEntryResponse is the external representation of a posting.
type JournalEntryResponse struct {
	ID            uuid.UUID             `json:"id"`
	Kind          string                `json:"kind"`
	Status        string                `json:"status"`
	EffectiveDate time.Time             `json:"effective_date"`
	Description   string                `json:"description"`
	Reference     string                `json:"reference"`
	Lines         []JournalLineResponse `json:"lines"`
}

// JournalLineResponse is one side of a posting.
type JournalLineResponse struct {
	Account string          `json:"account"`
	Type    string          `json:"type"`
	Side    string          `json:"side"`
	Amount  decimal.Decimal `json:"amount"`
}

// ReverseEntryResponse returns both halves of a reversal.
type ReverseEntryResponse struct {
	Original JournalEntryResponse `json:"original"`
	Reversal JournalEntryResponse `json:"reversal"`
}

// ImportStatementResponse describes the imported snapshot and its session.
type ImportStatementResponse struct {
	StatementID      uuid.UUID `json:"statement_id"`
	ReconciliationID uuid.UUID `json:"reconciliation_id"`
	ItemCount        int       `json:"item_count"`
	TransactionCount int       `json:"transaction_count"`
}

// MatchSuggestionResponse is one scored match proposal.
type MatchSuggestionResponse struct {
	TransactionID   uuid.UUID `json:"transaction_id"`
	StatementItemID uuid.UUID `json:"statement_item_id"`
	Score           int       `json:"score"`
	Type            string    `json:"type"`
	Reason          string    `json:"reason"`
	AutoConfirmed   bool      `json:"auto_confirmed"`
}

// SuggestMatchesResponse summarizes one matcher run.
type SuggestMatchesResponse struct {
	ReconciliationID uuid.UUID                 `json:"reconciliation_id"`
	MatchedCount     int                       `json:"matched_count"`
	UnmatchedCount   int                       `json:"unmatched_count"`
	Suggestions      []MatchSuggestionResponse `json:"suggestions"`
}

// MatchResponse is the external representation of one match record.
type MatchResponse struct {
	MatchID          uuid.UUID  `json:"match_id"`
	ReconciliationID uuid.UUID  `json:"reconciliation_id"`
	TransactionID    uuid.UUID  `json:"transaction_id"`
	StatementItemID  *uuid.UUID `json:"statement_item_id,omitempty"`
	Type             string     `json:"type"`
	Status           string     `json:"status"`
	Score            int        `json:"score"`
}
