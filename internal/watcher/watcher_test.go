package watcher

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_DebouncesBurstIntoOneSync(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "roster.csv")
	require.NoError(t, os.WriteFile(path, []byte("Nome\n"), 0o644))

	var syncs atomic.Int32
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	w, err := New(path, 100*time.Millisecond, func(context.Context) {
		syncs.Add(1)
	}, logger)
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	// Several writes in quick succession count as one export.
	for range 5 {
		require.NoError(t, os.WriteFile(path, []byte("Nome\nMaria\n"), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	assert.Eventually(t, func() bool {
		return syncs.Load() == 1
	}, 2*time.Second, 20*time.Millisecond)

	// No further syncs after the burst settles.
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), syncs.Load())
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "roster.csv")
	require.NoError(t, os.WriteFile(path, []byte("Nome\n"), 0o644))

	var syncs atomic.Int32
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	w, err := New(path, 50*time.Millisecond, func(context.Context) {
		syncs.Add(1)
	}, logger)
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "other.txt"), []byte("x"), 0o644))

	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(0), syncs.Load())
}

func TestWatcher_StopWaitsForRunningSync(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "roster.csv")
	require.NoError(t, os.WriteFile(path, []byte("Nome\n"), 0o644))

	started := make(chan struct{})
	var finished atomic.Bool
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	w, err := New(path, 20*time.Millisecond, func(context.Context) {
		close(started)
		time.Sleep(200 * time.Millisecond)
		finished.Store(true)
	}, logger)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	require.NoError(t, os.WriteFile(path, []byte("Nome\nMaria\n"), 0o644))

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("sync never started")
	}

	w.Stop()
	assert.True(t, finished.Load(), "a sync in flight must complete before Stop returns")
}

func TestWatcher_MissingDirectory(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := New("/nonexistent/dir/roster.csv", time.Second, func(context.Context) {}, logger)
	assert.Error(t, err)
}
