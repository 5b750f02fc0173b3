package serve

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Elangosridhar/Smarttask-analysis/adapter/api"
	"github.com/Elangosridhar/Smarttask-analysis/internal/app"
	"github.com/Elangosridhar/Smarttask-analysis/pkg/config"
	"github.com/Elangosridhar/Smarttask-analysis/pkg/observability"
)

func newLocalContainer(t *testing.T) *app.Container {
	t.Helper()
	cfg := &config.Config{
		AppEnv:             "test",
		LocalMode:          true,
		DatabaseURL:        ":memory:",
		CacheEnabled:       true,
		CacheTTL:           time.Minute,
		DefaultStrategy:    "smart_balance",
		DefaultTopN:        3,
		OutboxPollInterval: 10 * time.Millisecond,
		OutboxBatchSize:    10,
		OutboxMaxRetries:   3,
	}
	c, err := app.New(context.Background(), cfg, observability.Discard())
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestNewHandler_ServesAnalysis(t *testing.T) {
	c := newLocalContainer(t)
	server := api.NewServer(api.DefaultServerConfig(), NewHandler(c), c.Health, c.Logger)

	body := `{"tasks":[{"title":"Write report","due_date":"2030-01-01","estimated_hours":2,"importance":8}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/tasks/analyze/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"strategy":"smart_balance"`)
	assert.Contains(t, rec.Body.String(), `"run_id"`)

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRun_StopsOnCancel(t *testing.T) {
	c := newLocalContainer(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, c, "127.0.0.1:0")
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRun_RequiresContainer(t *testing.T) {
	err := Run(context.Background(), nil, "")
	require.Error(t, err)
}
