package service

import (
	"fmt"
	"time"

	"github.com/elie009/utlityhub360-sub005/internal/domain/model"
	"github.com/elie009/utlityhub360-sub005/internal/domain/valueobject"
	"github.com/elie009/utlityhub360-sub005/pkg/money"
)

// LedgerAccount pairs an account name with its accounting classification.
type LedgerAccount struct {
	Name string
	Type valueobject.AccountType
}

// Chart of accounts used by the canonical postings.
var (
	AccountCash            = LedgerAccount{Name: "Cash", Type: valueobject.AccountTypeAsset}
	AccountLoanReceivable  = LedgerAccount{Name: "Loan Receivable", Type: valueobject.AccountTypeAsset}
	AccountInterestRevenue = LedgerAccount{Name: "Interest Revenue", Type: valueobject.AccountTypeRevenue}
	AccountPenaltyRevenue  = LedgerAccount{Name: "Penalty Revenue", Type: valueobject.AccountTypeRevenue}
	AccountFeeRevenue      = LedgerAccount{Name: "Fee Revenue", Type: valueobject.AccountTypeRevenue}
)

// LedgerPoster converts financial events into balanced journal entries. The
// balance invariant itself lives in model.NewJournalEntry; the poster owns
// the canonical account choreography per event type.
type LedgerPoster struct{}

// NewLedgerPoster creates a poster.
func NewLedgerPoster() *LedgerPoster {
	return &LedgerPoster{}
}

// Post builds a journal entry from explicit lines, enforcing the balance
// invariant before anything can be written.
func (p *LedgerPoster) Post(
	kind model.EntryKind,
	effectiveDate time.Time,
	description, reference string,
	lines []model.JournalLine,
	now time.Time,
) (model.JournalEntry, error) {
	return model.NewJournalEntry(kind, effectiveDate, description, reference, lines, now)
}

// DisbursementEntry records funds leaving cash into the loan receivable, plus
// the processing-fee pair when a fee was charged.
func (p *LedgerPoster) DisbursementEntry(loan model.Loan, date, now time.Time) (model.JournalEntry, error) {
	financed := loan.Terms().FinancedAmount()
	fee := loan.Terms().ProcessingFee

	lines, err := linePairs(
		linePair{debit: AccountLoanReceivable, credit: AccountCash, amount: financed},
		linePair{debit: AccountCash, credit: AccountFeeRevenue, amount: fee},
	)
	if err != nil {
		return model.JournalEntry{}, fmt.Errorf("disbursement entry: %w", err)
	}

	return model.NewJournalEntry(
		model.EntryKindDisbursement,
		date,
		fmt.Sprintf("Loan disbursement %s", loan.ID()),
		loan.ID().String(),
		lines,
		now,
	)
}

// PaymentEntry records one payment event as a single multi-line entry: cash
// in against receivable, interest revenue and penalty revenue for the
// portions the allocation settled.
func (p *LedgerPoster) PaymentEntry(alloc AllocationResult, date, now time.Time) (model.JournalEntry, error) {
	currency := alloc.Payment.Amount.Currency()
	principal := money.Zero(currency)
	interest := money.Zero(currency)
	penalty := money.Zero(currency)
	for _, s := range alloc.Settlements {
		principal, _ = principal.Add(s.Principal)
		interest, _ = interest.Add(s.Interest)
		penalty, _ = penalty.Add(s.Penalty)
	}

	applied, _ := principal.Add(interest)
	applied, _ = applied.Add(penalty)
	if !applied.IsPositive() {
		return model.JournalEntry{}, fmt.Errorf("payment entry: allocation %s settled nothing", alloc.Payment.ID)
	}

	lines := make([]model.JournalLine, 0, 4)
	cash, err := model.NewJournalLine(AccountCash.Name, AccountCash.Type, valueobject.SideDebit, applied)
	if err != nil {
		return model.JournalEntry{}, fmt.Errorf("payment entry: %w", err)
	}
	lines = append(lines, cash)

	for _, credit := range []struct {
		account LedgerAccount
		amount  money.Money
	}{
		{AccountLoanReceivable, principal},
		{AccountInterestRevenue, interest},
		{AccountPenaltyRevenue, penalty},
	} {
		if !credit.amount.IsPositive() {
			continue
		}
		line, err := model.NewJournalLine(credit.account.Name, credit.account.Type, valueobject.SideCredit, credit.amount)
		if err != nil {
			return model.JournalEntry{}, fmt.Errorf("payment entry: %w", err)
		}
		lines = append(lines, line)
	}

	return model.NewJournalEntry(
		model.EntryKindPayment,
		date,
		fmt.Sprintf("Payment %s on loan %s", alloc.Payment.Reference, alloc.Payment.LoanID),
		alloc.Payment.ID.String(),
		lines,
		now,
	)
}

// TransferEntry records a bill payment or savings transfer: debit the
// destination, credit the source, per the same balance rule as everything
// else.
func (p *LedgerPoster) TransferEntry(
	kind model.EntryKind,
	from, to LedgerAccount,
	amount money.Money,
	date, now time.Time,
	description, reference string,
) (model.JournalEntry, error) {
	if kind != model.EntryKindBillPayment && kind != model.EntryKindSavingsTransfer {
		return model.JournalEntry{}, fmt.Errorf("transfer entry: unsupported kind %s", kind)
	}

	lines, err := linePairs(linePair{debit: to, credit: from, amount: amount})
	if err != nil {
		return model.JournalEntry{}, fmt.Errorf("transfer entry: %w", err)
	}
	return model.NewJournalEntry(kind, date, description, reference, lines, now)
}

type linePair struct {
	debit  LedgerAccount
	credit LedgerAccount
	amount money.Money
}

// linePairs expands balanced debit/credit pairs into lines, skipping pairs
// with a zero amount (e.g. no processing fee).
func linePairs(pairs ...linePair) ([]model.JournalLine, error) {
	var lines []model.JournalLine
	for _, pair := range pairs {
		if pair.amount.IsZero() {
			continue
		}
		debit, err := model.NewJournalLine(pair.debit.Name, pair.debit.Type, valueobject.SideDebit, pair.amount)
		if err != nil {
			return nil, err
		}
		credit, err := model.NewJournalLine(pair.credit.Name, pair.credit.Type, valueobject.SideCredit, pair.amount)
		if err != nil {
			return nil, err
		}
		lines = append(lines, debit, credit)
	}
	return lines, nil
}
