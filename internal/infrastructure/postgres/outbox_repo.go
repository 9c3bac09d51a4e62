package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/elie009/utlityhub360-sub005/pkg/events"
)

// OutboxRepo implements events.OutboxRepository on the outbox table the
// aggregate repositories write into.
type OutboxRepo struct {
	pool *pgxpool.Pool
}

var _ events.OutboxRepository = (*OutboxRepo)(nil)

// NewOutboxRepo creates a new PostgreSQL-backed outbox repository.
func NewOutboxRepo(pool *pgxpool.Pool) *OutboxRepo {
	return &OutboxRepo{pool: pool}
}

// Store persists outbox entries outside an aggregate transaction.
func (r *OutboxRepo) Store(ctx context.Context, entries []events.OutboxEntry) error {
	for _, entry := range entries {
		_, err := r.pool.Exec(ctx, `
			INSERT INTO outbox (id, aggregate_id, aggregate_type, event_type, payload, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, entry.ID, entry.AggregateID, entry.AggregateType, entry.EventType, entry.Payload, entry.CreatedAt)
		if err != nil {
			return fmt.Errorf("store outbox entry %s: %w", entry.EventType, err)
		}
	}
	return nil
}

// FetchUnpublished returns the oldest entries that have not been published yet.
func (r *OutboxRepo) FetchUnpublished(ctx context.Context, batchSize int) ([]events.OutboxEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, aggregate_id, aggregate_type, event_type, payload, created_at, published_at
		FROM outbox
		WHERE published_at IS NULL
		ORDER BY created_at
		LIMIT $1
	`, batchSize)
	if err != nil {
		return nil, fmt.Errorf("query unpublished outbox entries: %w", err)
	}
	defer rows.Close()

	var entries []events.OutboxEntry
	for rows.Next() {
		var entry events.OutboxEntry
		err := rows.Scan(
			&entry.ID, &entry.AggregateID, &entry.AggregateType,
			&entry.EventType, &entry.Payload, &entry.CreatedAt, &entry.PublishedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan outbox entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// MarkPublished stamps the given entries so they are not fetched again.
func (r *OutboxRepo) MarkPublished(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx, `
		UPDATE outbox SET published_at = now() WHERE id = ANY($1::uuid[])
	`, ids)
	if err != nil {
		return fmt.Errorf("mark outbox entries published: %w", err)
	}
	return nil
}
