package strategyfile

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Elangosridhar/Smarttask-analysis/pkg/observability"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := writeFile(t, focusFile)

	var reloads atomic.Int32
	w := NewWatcher(path, func(context.Context) error {
		reloads.Add(1)
		return nil
	}, observability.Discard()).WithDebounce(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// give the watcher time to register
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(focusFile+"\n"), 0o600))

	assert.Eventually(t, func() bool { return reloads.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_FailedReloadKeepsRunning(t *testing.T) {
	path := writeFile(t, focusFile)

	var calls atomic.Int32
	w := NewWatcher(path, func(context.Context) error {
		calls.Add(1)
		return errors.New("bad weights")
	}, observability.Discard()).WithDebounce(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("x = 1"), 0o600))
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("y = 2"), 0o600))
	assert.Eventually(t, func() bool { return calls.Load() == 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w := NewWatcher("/definitely/not/here/strategies.toml", func(context.Context) error { return nil }, nil)
	assert.Error(t, w.Run(context.Background()))
}
