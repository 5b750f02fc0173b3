package domain_test

import (
	"testing"

	"github.com/Elangosridhar/Smarttask-analysis/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewBaseEvent(t *testing.T) {
	aggregateID := uuid.New()

	event := domain.NewBaseEvent(aggregateID, "AnalysisRun", "analysis.completed")

	assert.NotEqual(t, uuid.Nil, event.EventID())
	assert.Equal(t, aggregateID, event.AggregateID())
	assert.Equal(t, "AnalysisRun", event.AggregateType())
	assert.Equal(t, "analysis.completed", event.RoutingKey())
	assert.False(t, event.OccurredAt().IsZero())
	assert.Empty(t, event.Metadata().CorrelationID)
}

func TestBaseEvent_SetMetadata(t *testing.T) {
	event := domain.NewBaseEvent(uuid.New(), "AnalysisRun", "analysis.completed")
	meta := domain.EventMetadata{
		CorrelationID: "corr-1",
		CausationID:   uuid.New(),
		Source:        "api",
	}

	event.SetMetadata(meta)

	assert.Equal(t, meta, event.Metadata())
}
