package usecase

import (
	"context"
	"fmt"

	"github.com/elie009/utlityhub360-sub005/internal/application/dto"
	"github.com/elie009/utlityhub360-sub005/internal/domain/model"
	"github.com/elie009/utlityhub360-sub005/internal/domain/port"
	"github.com/elie009/utlityhub360-sub005/internal/domain/service"
	"github.com/elie009/utlityhub360-sub005/pkg/money"
)

// AllocatePaymentUseCase applies one inbound payment to a loan and posts the
// resulting multi-line journal entry.
type AllocatePaymentUseCase struct {
	loanRepo    port.LoanRepository
	paymentRepo port.PaymentRepository
	penaltyRepo port.PenaltyRepository
	ledger      port.LedgerRepository
	allocator   *service.PaymentAllocator
	poster      *service.LedgerPoster
	publisher   port.EventPublisher
	clock       port.Clock
}

// NewAllocatePaymentUseCase wires dependencies.
func NewAllocatePaymentUseCase(
	loanRepo port.LoanRepository,
	paymentRepo port.PaymentRepository,
	penaltyRepo port.PenaltyRepository,
	ledger port.LedgerRepository,
	allocator *service.PaymentAllocator,
	poster *service.LedgerPoster,
	publisher port.EventPublisher,
	clock port.Clock,
) *AllocatePaymentUseCase {
	return &AllocatePaymentUseCase{
		loanRepo:    loanRepo,
		paymentRepo: paymentRepo,
		penaltyRepo: penaltyRepo,
		ledger:      ledger,
		allocator:   allocator,
		poster:      poster,
		publisher:   publisher,
		clock:       clock,
	}
}

// Execute applies the payment. A reference that was already applied to the
// loan fails with ErrDuplicatePayment and changes nothing.
func (uc *AllocatePaymentUseCase) Execute(
	ctx context.Context,
	req dto.AllocatePaymentRequest,
) (dto.AllocationResponse, error) {
	now := uc.clock.Now()

	// 1. Reference dedupe.
	exists, err := uc.paymentRepo.ExistsByReference(ctx, req.LoanID, req.Reference)
	if err != nil {
		return dto.AllocationResponse{}, fmt.Errorf("check payment reference: %w", err)
	}
	if exists {
		return dto.AllocationResponse{}, fmt.Errorf("payment reference %q: %w", req.Reference, model.ErrDuplicatePayment)
	}

	// 2. Load the loan and its penalties.
	loan, err := uc.loanRepo.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.AllocationResponse{}, fmt.Errorf("find loan: %w", err)
	}
	penalties, err := uc.penaltyRepo.FindByLoan(ctx, req.LoanID)
	if err != nil {
		return dto.AllocationResponse{}, fmt.Errorf("find penalties: %w", err)
	}

	currency, err := money.NewCurrency(req.Currency)
	if err != nil {
		return dto.AllocationResponse{}, fmt.Errorf("allocate payment: %w", err)
	}
	payment, err := model.NewPayment(req.LoanID, req.Reference, money.FromDecimal(req.Amount, currency), now, req.EntryNumber)
	if err != nil {
		return dto.AllocationResponse{}, fmt.Errorf("allocate payment: %w", err)
	}

	// 3. Allocate.
	result, err := uc.allocator.Allocate(loan, penalties, payment)
	if err != nil {
		return dto.AllocationResponse{}, fmt.Errorf("allocate payment: %w", err)
	}

	// 4. Persist payment, penalties and loan. The payment row pins the
	// reference so a retry after any later failure dedupes instead of
	// posting twice, and the version-checked loan save serializes the
	// mutation before anything reaches the journal.
	if err := uc.paymentRepo.Save(ctx, result.Payment); err != nil {
		return dto.AllocationResponse{}, fmt.Errorf("save payment: %w", err)
	}
	if err := uc.penaltyRepo.SaveAll(ctx, result.Penalties); err != nil {
		return dto.AllocationResponse{}, fmt.Errorf("save penalties: %w", err)
	}
	if err := uc.loanRepo.Save(ctx, result.Loan); err != nil {
		return dto.AllocationResponse{}, fmt.Errorf("save loan: %w", err)
	}

	// 5. Post one journal entry for the payment event.
	entry, err := uc.poster.PaymentEntry(result, now, now)
	if err != nil {
		return dto.AllocationResponse{}, fmt.Errorf("build payment entry: %w", err)
	}
	if err := uc.ledger.AppendAtomic(ctx, entry); err != nil {
		return dto.AllocationResponse{}, fmt.Errorf("append journal entry: %w", err)
	}

	// 6. Publish events.
	events := append(result.Loan.DomainEvents(), entry.DomainEvents()...)
	if err := uc.publisher.Publish(ctx, events...); err != nil {
		return dto.AllocationResponse{}, fmt.Errorf("publish events: %w", err)
	}

	resp := dto.AllocationResponse{
		PaymentID:   result.Payment.ID,
		LoanID:      result.Loan.ID(),
		LoanStatus:  result.Loan.Status().String(),
		Outstanding: result.Loan.OutstandingTotal().Decimal(),
		Remainder:   result.Remainder.Decimal(),
		JournalID:   entry.ID(),
	}
	for _, s := range result.Settlements {
		resp.Settlements = append(resp.Settlements, dto.EntrySettlementResponse{
			EntryNumber: s.EntryNumber,
			Penalty:     s.Penalty.Decimal(),
			Interest:    s.Interest.Decimal(),
			Principal:   s.Principal.Decimal(),
			EntryPaid:   s.EntryPaid,
		})
	}
	return resp, nil
}
