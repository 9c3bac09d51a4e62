package usecase

import (
	"context"
	"fmt"

	"github.com/elie009/utlityhub360-sub005/internal/application/dto"
	"github.com/elie009/utlityhub360-sub005/internal/domain/model"
	"github.com/elie009/utlityhub360-sub005/internal/domain/port"
	"github.com/elie009/utlityhub360-sub005/internal/domain/service"
	"github.com/elie009/utlityhub360-sub005/internal/domain/valueobject"
	"github.com/elie009/utlityhub360-sub005/pkg/money"
)

// PostTransferUseCase records a bill payment or savings transfer as a
// balanced journal entry.
type PostTransferUseCase struct {
	ledger    port.LedgerRepository
	poster    *service.LedgerPoster
	publisher port.EventPublisher
	clock     port.Clock
}

// NewPostTransferUseCase wires dependencies.
func NewPostTransferUseCase(
	ledger port.LedgerRepository,
	poster *service.LedgerPoster,
	publisher port.EventPublisher,
	clock port.Clock,
) *PostTransferUseCase {
	return &PostTransferUseCase{
		ledger:    ledger,
		poster:    poster,
		publisher: publisher,
		clock:     clock,
	}
}

// Execute posts the transfer: debit the destination, credit the source.
func (uc *PostTransferUseCase) Execute(
	ctx context.Context,
	req dto.PostTransferRequest,
) (dto.JournalEntryResponse, error) {
	now := uc.clock.Now()

	fromType, err := valueobject.NewAccountType(req.FromType)
	if err != nil {
		return dto.JournalEntryResponse{}, fmt.Errorf("post transfer: %w", err)
	}
	toType, err := valueobject.NewAccountType(req.ToType)
	if err != nil {
		return dto.JournalEntryResponse{}, fmt.Errorf("post transfer: %w", err)
	}
	currency, err := money.NewCurrency(req.Currency)
	if err != nil {
		return dto.JournalEntryResponse{}, fmt.Errorf("post transfer: %w", err)
	}

	date := req.Date
	if date.IsZero() {
		date = now
	}

	entry, err := uc.poster.TransferEntry(
		model.EntryKind(req.Kind),
		service.LedgerAccount{Name: req.FromAccount, Type: fromType},
		service.LedgerAccount{Name: req.ToAccount, Type: toType},
		money.FromDecimal(req.Amount, currency),
		date, now,
		req.Description, req.Reference,
	)
	if err != nil {
		return dto.JournalEntryResponse{}, fmt.Errorf("build transfer entry: %w", err)
	}

	if err := uc.ledger.AppendAtomic(ctx, entry); err != nil {
		return dto.JournalEntryResponse{}, fmt.Errorf("append journal entry: %w", err)
	}
	if err := uc.publisher.Publish(ctx, entry.DomainEvents()...); err != nil {
		return dto.JournalEntryResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return toJournalEntryResponse(entry), nil
}
