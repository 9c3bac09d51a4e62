package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elie009/utlityhub360-sub005/internal/domain/model"
	"github.com/elie009/utlityhub360-sub005/internal/domain/valueobject"
)

func lineFor(t *testing.T, entry model.JournalEntry, account string, side valueobject.EntrySide) model.JournalLine {
	t.Helper()
	for _, l := range entry.Lines() {
		if l.Account == account && l.Side.Equal(side) {
			return l
		}
	}
	t.Fatalf("no %s line for account %q", side, account)
	return model.JournalLine{}
}

func TestDisbursementEntry(t *testing.T) {
	poster := NewLedgerPoster()
	loan := activeTestLoan(t)

	entry, err := poster.DisbursementEntry(loan, testNow, testNow)
	require.NoError(t, err)

	assert.Equal(t, model.EntryKindDisbursement, entry.Kind())
	assert.Equal(t, usd("1200.00"), entry.TotalDebits())
	assert.Equal(t, entry.TotalDebits(), entry.TotalCredits())
	require.Len(t, entry.Lines(), 2)
	assert.Equal(t, usd("1200.00"), lineFor(t, entry, "Loan Receivable", valueobject.SideDebit).Amount)
	assert.Equal(t, usd("1200.00"), lineFor(t, entry, "Cash", valueobject.SideCredit).Amount)
	assert.Equal(t, loan.ID().String(), entry.Reference())
}

func TestDisbursementEntry_WithFee(t *testing.T) {
	poster := NewLedgerPoster()
	terms := activeTestLoan(t).Terms()
	terms.ProcessingFee = usd("15.00")
	loan, err := model.NewLoan(activeTestLoan(t).BorrowerID(), terms, testNow)
	require.NoError(t, err)

	entry, err := poster.DisbursementEntry(loan, testNow, testNow)
	require.NoError(t, err)

	require.Len(t, entry.Lines(), 4)
	assert.Equal(t, usd("15.00"), lineFor(t, entry, "Fee Revenue", valueobject.SideCredit).Amount)
	assert.Equal(t, usd("1215.00"), entry.TotalDebits())
	assert.Equal(t, entry.TotalDebits(), entry.TotalCredits())
}

func TestPaymentEntry(t *testing.T) {
	poster := NewLedgerPoster()
	allocator := NewPaymentAllocator(defaultPolicy())
	loan := activeTestLoan(t)
	penalty, err := model.NewPenalty(loan.ID(), 1, usd("5.00"), testNow)
	require.NoError(t, err)

	alloc, err := allocator.Allocate(loan, []model.Penalty{penalty}, testPayment(t, loan.ID(), "111.62", nil))
	require.NoError(t, err)

	entry, err := poster.PaymentEntry(alloc, testNow, testNow)
	require.NoError(t, err)

	assert.Equal(t, model.EntryKindPayment, entry.Kind())
	assert.Equal(t, usd("111.62"), lineFor(t, entry, "Cash", valueobject.SideDebit).Amount)
	assert.Equal(t, usd("94.62"), lineFor(t, entry, "Loan Receivable", valueobject.SideCredit).Amount)
	assert.Equal(t, usd("12.00"), lineFor(t, entry, "Interest Revenue", valueobject.SideCredit).Amount)
	assert.Equal(t, usd("5.00"), lineFor(t, entry, "Penalty Revenue", valueobject.SideCredit).Amount)
	assert.Equal(t, entry.TotalDebits(), entry.TotalCredits())
}

func TestPaymentEntry_OmitsZeroPortions(t *testing.T) {
	poster := NewLedgerPoster()
	allocator := NewPaymentAllocator(defaultPolicy())
	loan := activeTestLoan(t)

	// 10.00 covers interest only.
	alloc, err := allocator.Allocate(loan, nil, testPayment(t, loan.ID(), "10.00", nil))
	require.NoError(t, err)

	entry, err := poster.PaymentEntry(alloc, testNow, testNow)
	require.NoError(t, err)
	require.Len(t, entry.Lines(), 2)
	assert.Equal(t, usd("10.00"), lineFor(t, entry, "Interest Revenue", valueobject.SideCredit).Amount)
}

func TestPaymentEntry_NothingSettled(t *testing.T) {
	poster := NewLedgerPoster()
	payment := testPayment(t, activeTestLoan(t).ID(), "10.00", nil)

	_, err := poster.PaymentEntry(AllocationResult{Payment: payment}, testNow, testNow)
	assert.Error(t, err)
}

func TestTransferEntry(t *testing.T) {
	poster := NewLedgerPoster()
	expense := LedgerAccount{Name: "Utilities Expense", Type: valueobject.AccountTypeExpense}

	entry, err := poster.TransferEntry(
		model.EntryKindBillPayment, AccountCash, expense,
		usd("75.00"), testNow, testNow, "Electric bill", "bill-42",
	)
	require.NoError(t, err)

	assert.Equal(t, model.EntryKindBillPayment, entry.Kind())
	assert.Equal(t, usd("75.00"), lineFor(t, entry, "Utilities Expense", valueobject.SideDebit).Amount)
	assert.Equal(t, usd("75.00"), lineFor(t, entry, "Cash", valueobject.SideCredit).Amount)
}

func TestTransferEntry_RejectsOtherKinds(t *testing.T) {
	poster := NewLedgerPoster()
	_, err := poster.TransferEntry(
		model.EntryKindPayment, AccountCash, AccountFeeRevenue,
		usd("75.00"), testNow, testNow, "", "",
	)
	assert.Error(t, err)
}

func TestPost_DelegatesBalanceCheck(t *testing.T) {
	poster := NewLedgerPoster()
	debit, err := model.NewJournalLine("Cash", valueobject.AccountTypeAsset, valueobject.SideDebit, usd("10.00"))
	require.NoError(t, err)
	credit, err := model.NewJournalLine("Fee Revenue", valueobject.AccountTypeRevenue, valueobject.SideCredit, usd("9.00"))
	require.NoError(t, err)

	_, err = poster.Post(model.EntryKindPayment, testNow, "", "", []model.JournalLine{debit, credit}, testNow)
	assert.ErrorIs(t, err, model.ErrUnbalancedEntry)
}
