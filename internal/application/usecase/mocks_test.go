package usecase_test

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/elie009/utlityhub360-sub005/internal/domain/event"
	"github.com/elie009/utlityhub360-sub005/internal/domain/model"
)

// ---------------------------------------------------------------------------
// Repository mocks
// ---------------------------------------------------------------------------

type mockLoanRepository struct {
	saveFunc       func(ctx context.Context, loan model.Loan) error
	findByIDFunc   func(ctx context.Context, id uuid.UUID) (model.Loan, error)
	findActiveFunc func(ctx context.Context) ([]model.Loan, error)
	savedLoans     []model.Loan
}

func (m *mockLoanRepository) Save(ctx context.Context, loan model.Loan) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, loan)
	}
	m.savedLoans = append(m.savedLoans, loan)
	return nil
}

func (m *mockLoanRepository) FindByID(ctx context.Context, id uuid.UUID) (model.Loan, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.Loan{}, fmt.Errorf("loan not found")
}

func (m *mockLoanRepository) FindActive(ctx context.Context) ([]model.Loan, error) {
	if m.findActiveFunc != nil {
		return m.findActiveFunc(ctx)
	}
	return nil, nil
}

type mockPaymentRepository struct {
	saveFunc        func(ctx context.Context, payment model.Payment) error
	existsFunc      func(ctx context.Context, loanID uuid.UUID, reference string) (bool, error)
	savedPayments   []model.Payment
}

func (m *mockPaymentRepository) Save(ctx context.Context, payment model.Payment) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, payment)
	}
	m.savedPayments = append(m.savedPayments, payment)
	return nil
}

func (m *mockPaymentRepository) ExistsByReference(ctx context.Context, loanID uuid.UUID, reference string) (bool, error) {
	if m.existsFunc != nil {
		return m.existsFunc(ctx, loanID, reference)
	}
	return false, nil
}

type mockPenaltyRepository struct {
	saveAllFunc    func(ctx context.Context, penalties []model.Penalty) error
	findByLoanFunc func(ctx context.Context, loanID uuid.UUID) ([]model.Penalty, error)
	savedPenalties []model.Penalty
}

func (m *mockPenaltyRepository) SaveAll(ctx context.Context, penalties []model.Penalty) error {
	if m.saveAllFunc != nil {
		return m.saveAllFunc(ctx, penalties)
	}
	m.savedPenalties = append(m.savedPenalties, penalties...)
	return nil
}

func (m *mockPenaltyRepository) FindByLoan(ctx context.Context, loanID uuid.UUID) ([]model.Penalty, error) {
	if m.findByLoanFunc != nil {
		return m.findByLoanFunc(ctx, loanID)
	}
	return nil, nil
}

type mockLedgerRepository struct {
	appendFunc      func(ctx context.Context, entry model.JournalEntry) error
	reverseFunc     func(ctx context.Context, reversed, reversal model.JournalEntry) error
	findByIDFunc    func(ctx context.Context, id uuid.UUID) (model.JournalEntry, error)
	appendedEntries []model.JournalEntry
}

func (m *mockLedgerRepository) AppendAtomic(ctx context.Context, entry model.JournalEntry) error {
	if m.appendFunc != nil {
		return m.appendFunc(ctx, entry)
	}
	m.appendedEntries = append(m.appendedEntries, entry)
	return nil
}

func (m *mockLedgerRepository) ReverseAtomic(ctx context.Context, reversed, reversal model.JournalEntry) error {
	if m.reverseFunc != nil {
		return m.reverseFunc(ctx, reversed, reversal)
	}
	m.appendedEntries = append(m.appendedEntries, reversal)
	return nil
}

func (m *mockLedgerRepository) FindByID(ctx context.Context, id uuid.UUID) (model.JournalEntry, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.JournalEntry{}, fmt.Errorf("journal entry not found")
}

func (m *mockLedgerRepository) ListByPeriod(ctx context.Context, from, to time.Time) ([]model.JournalEntry, error) {
	return nil, nil
}

type mockStatementRepository struct {
	saveFunc        func(ctx context.Context, statement model.BankStatement) error
	findByIDFunc    func(ctx context.Context, id uuid.UUID) (model.BankStatement, error)
	savedStatements []model.BankStatement
}

func (m *mockStatementRepository) Save(ctx context.Context, statement model.BankStatement) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, statement)
	}
	m.savedStatements = append(m.savedStatements, statement)
	return nil
}

func (m *mockStatementRepository) FindByID(ctx context.Context, id uuid.UUID) (model.BankStatement, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.BankStatement{}, fmt.Errorf("statement not found")
}

type mockReconciliationRepository struct {
	saveFunc      func(ctx context.Context, reconciliation model.Reconciliation) error
	findByIDFunc  func(ctx context.Context, id uuid.UUID) (model.Reconciliation, error)
	listTxnsFunc  func(ctx context.Context, from, to time.Time) ([]model.SystemTransaction, error)
	savedSessions []model.Reconciliation
}

func (m *mockReconciliationRepository) Save(ctx context.Context, reconciliation model.Reconciliation) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, reconciliation)
	}
	m.savedSessions = append(m.savedSessions, reconciliation)
	return nil
}

func (m *mockReconciliationRepository) FindByID(ctx context.Context, id uuid.UUID) (model.Reconciliation, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.Reconciliation{}, fmt.Errorf("reconciliation not found")
}

func (m *mockReconciliationRepository) ListSystemTransactions(ctx context.Context, from, to time.Time) ([]model.SystemTransaction, error) {
	if m.listTxnsFunc != nil {
		return m.listTxnsFunc(ctx, from, to)
	}
	return nil, nil
}

// ---------------------------------------------------------------------------
// External service mocks
// ---------------------------------------------------------------------------

type mockImportSource struct {
	fetchFunc func(ctx context.Context, accountName string, from, to time.Time) ([]model.StatementItem, error)
}

func (m *mockImportSource) Fetch(ctx context.Context, accountName string, from, to time.Time) ([]model.StatementItem, error) {
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, accountName, from, to)
	}
	return nil, nil
}

type mockEventPublisher struct {
	publishFunc     func(ctx context.Context, events ...event.DomainEvent) error
	publishedEvents []event.DomainEvent
}

func (m *mockEventPublisher) Publish(ctx context.Context, events ...event.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, events...)
	}
	m.publishedEvents = append(m.publishedEvents, events...)
	return nil
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type stubPolicy struct {
	penaltyRatePct     decimal.Decimal
	rejectOverpayment  bool
	dateWindowDays     int
	amountTolerance    int64
	autoMatchThreshold int
}

func (p stubPolicy) PenaltyRatePct() decimal.Decimal  { return p.penaltyRatePct }
func (p stubPolicy) RejectOverpayment() bool          { return p.rejectOverpayment }
func (p stubPolicy) MatchDateWindowDays() int         { return p.dateWindowDays }
func (p stubPolicy) MatchAmountToleranceMinor() int64 { return p.amountTolerance }
func (p stubPolicy) AutoMatchThreshold() int          { return p.autoMatchThreshold }
