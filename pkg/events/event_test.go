package events

import (
	"testing"
	"time"
)

func TestNewBaseEvent(t *testing.T) {
	aggregateID := "loan-123"

	before := time.Now().UTC()
	event := NewBaseEvent("LoanDisbursed", aggregateID, "Loan", []byte(`{"amount":"100.00"}`))
	after := time.Now().UTC()

	if event.EventID() == "" {
		t.Error("expected non-empty event ID")
	}

	if event.EventType() != "LoanDisbursed" {
		t.Errorf("expected event type %q, got %q", "LoanDisbursed", event.EventType())
	}

	if event.AggregateID() != aggregateID {
		t.Errorf("expected aggregate ID %v, got %v", aggregateID, event.AggregateID())
	}

	if event.AggregateType() != "Loan" {
		t.Errorf("expected aggregate type %q, got %q", "Loan", event.AggregateType())
	}

	if event.OccurredAt().Before(before) || event.OccurredAt().After(after) {
		t.Errorf("expected occurredAt between %v and %v, got %v", before, after, event.OccurredAt())
	}
}

func TestBaseEventImplementsDomainEvent(t *testing.T) {
	var _ DomainEvent = BaseEvent{}
}

func TestNewOutboxEntry(t *testing.T) {
	event := NewBaseEvent("PaymentAllocated", "loan-789", "Loan", []byte(`{}`))

	entry := NewOutboxEntry(event)

	if entry.ID != event.EventID() {
		t.Errorf("expected outbox ID %v, got %v", event.EventID(), entry.ID)
	}

	if entry.AggregateID != "loan-789" {
		t.Errorf("expected aggregate ID %v, got %v", "loan-789", entry.AggregateID)
	}

	if entry.AggregateType != "Loan" {
		t.Errorf("expected aggregate type %q, got %q", "Loan", entry.AggregateType)
	}

	if entry.EventType != "PaymentAllocated" {
		t.Errorf("expected event type %q, got %q", "PaymentAllocated", entry.EventType)
	}

	if len(entry.Payload) == 0 {
		t.Error("expected non-empty payload")
	}

	if entry.CreatedAt != event.OccurredAt() {
		t.Errorf("expected created at %v, got %v", event.OccurredAt(), entry.CreatedAt)
	}

	if entry.PublishedAt != nil {
		t.Error("expected published at to be nil")
	}
}
