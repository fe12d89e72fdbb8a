package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Watcher:
// - A write to an allow-listed file fires the callback after debounce
// - Non-allow-listed extensions never fire
// - Ignored subtrees never fire
// - Cancelling the context stops Start

func startWatcher(t *testing.T, root string, ignore func(string) bool) (<-chan struct{}, context.CancelFunc) {
	t.Helper()

	w, err := New(root, []string{".py"}, ignore)
	require.NoError(t, err)
	w.debounce = 50 * time.Millisecond

	fired := make(chan struct{}, 8)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		_ = w.Start(ctx, func() { fired <- struct{}{} })
	}()
	t.Cleanup(cancel)

	// Give the watch goroutine a moment to come up.
	time.Sleep(100 * time.Millisecond)
	return fired, cancel
}

func TestWatcher_FiresOnRelevantWrite(t *testing.T) {
	root := t.TempDir()
	fired, _ := startWatcher(t, root, nil)

	require.NoError(t, os.WriteFile(filepath.Join(root, "a.py"), []byte("x = 1\n"), 0o644))

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("expected change callback")
	}
}

func TestWatcher_IgnoresOtherExtensions(t *testing.T) {
	root := t.TempDir()
	fired, _ := startWatcher(t, root, nil)

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("hi\n"), 0o644))

	select {
	case <-fired:
		t.Fatal("unexpected callback for .txt file")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_IgnoresFilteredSubtrees(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "skipme"), 0o755))

	fired, _ := startWatcher(t, root, func(relPath string) bool {
		return relPath == "skipme" || len(relPath) > 7 && relPath[:7] == "skipme/"
	})

	require.NoError(t, os.WriteFile(filepath.Join(root, "skipme", "x.py"), []byte("x = 1\n"), 0o644))

	select {
	case <-fired:
		t.Fatal("unexpected callback for ignored subtree")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_StopsOnCancel(t *testing.T) {
	root := t.TempDir()

	w, err := New(root, []string{".py"}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx, func() {}) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
