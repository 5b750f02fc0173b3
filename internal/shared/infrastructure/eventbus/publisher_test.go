package eventbus

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopPublisher(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	publisher := NewNoopPublisher(logger)

	require.NoError(t, publisher.Publish(context.Background(), "analysis.completed", []byte(`{}`)))
	require.NoError(t, publisher.Close())

	assert.Contains(t, buf.String(), "routing_key=analysis.completed")
}

func TestNewRabbitMQPublisher_InvalidURL(t *testing.T) {
	_, err := NewRabbitMQPublisher("not-a-url", "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to RabbitMQ")
}
