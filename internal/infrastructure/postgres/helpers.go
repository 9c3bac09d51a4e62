package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/elie009/utlityhub360-sub005/internal/domain/event"
	"github.com/elie009/utlityhub360-sub005/pkg/events"
	"github.com/elie009/utlityhub360-sub005/pkg/money"
)

// scannable abstracts pgx.Row and pgx.Rows so scan helpers work with both.
type scannable interface {
	Scan(dest ...any) error
}

// moneyFrom rebuilds a Money value from its persisted minor units and code.
func moneyFrom(units int64, code string) (money.Money, error) {
	currency, err := money.NewCurrency(code)
	if err != nil {
		return money.Money{}, fmt.Errorf("parse currency: %w", err)
	}
	return money.FromMinorUnits(units, currency), nil
}

// insertOutbox writes domain events into the transactional outbox so the
// relay can publish them after commit.
func insertOutbox(ctx context.Context, tx pgx.Tx, domainEvents []event.DomainEvent) error {
	for _, evt := range domainEvents {
		// The whole event struct is the payload, not the raw bytes the
		// event was constructed with.
		payload, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", evt.EventType(), err)
		}
		entry := events.NewOutboxEntry(evt)
		entry.Payload = payload

		_, err = tx.Exec(ctx, `
			INSERT INTO outbox (id, aggregate_id, aggregate_type, event_type, payload, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, entry.ID, entry.AggregateID, entry.AggregateType, entry.EventType, entry.Payload, entry.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert outbox entry %s: %w", evt.EventType(), err)
		}
	}
	return nil
}
