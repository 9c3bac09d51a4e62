package usecase

import (
	"context"
	"fmt"

	"github.com/elie009/utlityhub360-sub005/internal/application/dto"
	"github.com/elie009/utlityhub360-sub005/internal/domain/port"
)

// ReverseEntryUseCase corrects a posted journal entry the only way the ledger
// allows: by appending an offsetting entry, never by editing.
type ReverseEntryUseCase struct {
	ledger    port.LedgerRepository
	publisher port.EventPublisher
	clock     port.Clock
}

// NewReverseEntryUseCase wires dependencies.
func NewReverseEntryUseCase(
	ledger port.LedgerRepository,
	publisher port.EventPublisher,
	clock port.Clock,
) *ReverseEntryUseCase {
	return &ReverseEntryUseCase{
		ledger:    ledger,
		publisher: publisher,
		clock:     clock,
	}
}

// Execute reverses the entry and appends the offsetting posting atomically.
func (uc *ReverseEntryUseCase) Execute(
	ctx context.Context,
	req dto.ReverseEntryRequest,
) (dto.ReverseEntryResponse, error) {
	now := uc.clock.Now()

	entry, err := uc.ledger.FindByID(ctx, req.EntryID)
	if err != nil {
		return dto.ReverseEntryResponse{}, fmt.Errorf("find journal entry: %w", err)
	}

	reversed, reversal, err := entry.Reverse(now, req.Reason)
	if err != nil {
		return dto.ReverseEntryResponse{}, fmt.Errorf("reverse entry: %w", err)
	}

	if err := uc.ledger.ReverseAtomic(ctx, reversed, reversal); err != nil {
		return dto.ReverseEntryResponse{}, fmt.Errorf("persist reversal: %w", err)
	}

	events := append(reversed.DomainEvents(), reversal.DomainEvents()...)
	if err := uc.publisher.Publish(ctx, events...); err != nil {
		return dto.ReverseEntryResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return dto.ReverseEntryResponse{
		Original: toJournalEntryResponse(reversed),
		Reversal: toJournalEntryResponse(reversal),
	}, nil
}
