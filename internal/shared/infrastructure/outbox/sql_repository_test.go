package outbox_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Elangosridhar/Smarttask-analysis/internal/shared/domain"
	"github.com/Elangosridhar/Smarttask-analysis/internal/shared/infrastructure/database"
	_ "github.com/Elangosridhar/Smarttask-analysis/internal/shared/infrastructure/database/sqlite"
	"github.com/Elangosridhar/Smarttask-analysis/internal/shared/infrastructure/migrations"
	"github.com/Elangosridhar/Smarttask-analysis/internal/shared/infrastructure/outbox"
)

type runEvent struct {
	domain.BaseEvent
	Strategy string `json:"strategy"`
}

func newSQLiteRepo(t *testing.T) (*outbox.SQLRepository, database.Connection) {
	t.Helper()
	ctx := context.Background()
	conn, err := database.NewConnection(ctx, database.Config{URL: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, migrations.Run(ctx, conn))
	return outbox.NewSQLRepository(conn), conn
}

func newRunMessage(t *testing.T) *outbox.Message {
	t.Helper()
	msg, err := outbox.NewMessage(&runEvent{
		BaseEvent: domain.NewBaseEvent(uuid.New(), "AnalysisRun", "analysis.completed"),
		Strategy:  "smart_balance",
	})
	require.NoError(t, err)
	return msg
}

func TestSQLRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo, _ := newSQLiteRepo(t)

	first := newRunMessage(t)
	second := newRunMessage(t)
	require.NoError(t, repo.SaveBatch(ctx, []*outbox.Message{first, second}))
	assert.NotZero(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)

	pending, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first.EventID, pending[0].EventID)
	assert.Equal(t, "analysis.completed", pending[0].RoutingKey)
	assert.JSONEq(t, string(first.Payload), string(pending[0].Payload))

	require.NoError(t, repo.MarkPublished(ctx, first.ID))
	require.NoError(t, repo.MarkFailed(ctx, second.ID, "broker down", time.Now().Add(time.Hour)))

	pending, err = repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending, "failed message waits for its retry time")

	require.NoError(t, repo.MarkDead(ctx, second.ID, "gave up"))

	deleted, err := repo.DeleteOld(ctx, -1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestSQLRepository_SaveBatchJoinsTransaction(t *testing.T) {
	ctx := context.Background()
	repo, conn := newSQLiteRepo(t)
	uow := database.NewUnitOfWork(conn)

	txCtx, err := uow.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.SaveBatch(txCtx, []*outbox.Message{newRunMessage(t)}))
	require.NoError(t, uow.Rollback(txCtx))

	pending, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
