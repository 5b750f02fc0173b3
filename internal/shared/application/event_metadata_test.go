package application

import (
	"context"
	"testing"
	"time"

	"github.com/Elangosridhar/Smarttask-analysis/internal/shared/domain"
	"github.com/Elangosridhar/Smarttask-analysis/pkg/observability"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewEventMetadata(t *testing.T) {
	t.Run("uses correlation ID from context", func(t *testing.T) {
		ctx := observability.WithCorrelationID(context.Background(), "corr-123")

		metadata := NewEventMetadata(ctx, "api")

		assert.Equal(t, "corr-123", metadata.CorrelationID)
		assert.Equal(t, "api", metadata.Source)
		assert.NotEqual(t, uuid.Nil, metadata.CausationID)
	})

	t.Run("generates correlation ID when missing", func(t *testing.T) {
		metadata1 := NewEventMetadata(context.Background(), "cli")
		metadata2 := NewEventMetadata(context.Background(), "cli")

		assert.NotEmpty(t, metadata1.CorrelationID)
		assert.NotEqual(t, metadata1.CorrelationID, metadata2.CorrelationID)
		assert.NotEqual(t, metadata1.CausationID, metadata2.CausationID)
	})
}

type testEvent struct {
	domain.BaseEvent
}

type nonSetterEvent struct {
	eventID uuid.UUID
}

func (e nonSetterEvent) EventID() uuid.UUID             { return e.eventID }
func (e nonSetterEvent) AggregateID() uuid.UUID         { return uuid.Nil }
func (e nonSetterEvent) AggregateType() string          { return "test" }
func (e nonSetterEvent) RoutingKey() string             { return "test.event" }
func (e nonSetterEvent) OccurredAt() time.Time          { return time.Time{} }
func (e nonSetterEvent) Metadata() domain.EventMetadata { return domain.EventMetadata{} }

func TestApplyEventMetadata(t *testing.T) {
	setter := &testEvent{BaseEvent: domain.NewBaseEvent(uuid.New(), "test", "test.event")}
	plain := nonSetterEvent{eventID: uuid.New()}
	metadata := NewEventMetadata(context.Background(), "worker")

	ApplyEventMetadata([]domain.DomainEvent{setter, plain}, metadata)

	assert.Equal(t, metadata, setter.Metadata())
	assert.Equal(t, domain.EventMetadata{}, plain.Metadata())
}
