package domain_test

import (
	"testing"
	"time"

	"github.com/Elangosridhar/Smarttask-analysis/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type testAggregate struct {
	domain.BaseAggregateRoot
	Name string
}

func newTestAggregate(name string) *testAggregate {
	return &testAggregate{
		BaseAggregateRoot: domain.NewBaseAggregateRoot(),
		Name:              name,
	}
}

type testAggregateEvent struct {
	domain.BaseEvent
}

func newTestAggregateEvent(aggregateID uuid.UUID) *testAggregateEvent {
	return &testAggregateEvent{
		BaseEvent: domain.NewBaseEvent(aggregateID, "TestAggregate", "test.aggregate.created"),
	}
}

func TestNewBaseAggregateRoot(t *testing.T) {
	agg := newTestAggregate("Test")

	assert.NotEqual(t, uuid.Nil, agg.ID())
	assert.False(t, agg.CreatedAt().IsZero())
	assert.Empty(t, agg.DomainEvents())
}

func TestBaseAggregateRoot_Events(t *testing.T) {
	agg := newTestAggregate("Test")
	event := newTestAggregateEvent(agg.ID())

	agg.AddDomainEvent(event)
	agg.AddDomainEvent(newTestAggregateEvent(agg.ID()))

	events := agg.DomainEvents()
	assert.Len(t, events, 2)
	assert.Equal(t, event.EventID(), events[0].EventID())

	agg.ClearDomainEvents()
	assert.Empty(t, agg.DomainEvents())
}

func TestRehydrateBaseAggregateRoot(t *testing.T) {
	id := uuid.New()
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.FixedZone("CET", 3600))

	agg := domain.RehydrateBaseAggregateRoot(id, created)

	assert.Equal(t, id, agg.ID())
	assert.Equal(t, time.UTC, agg.CreatedAt().Location())
	assert.True(t, created.Equal(agg.CreatedAt()))
	assert.Empty(t, agg.DomainEvents())
}
