package watch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startWatcher(t *testing.T, w *Watcher) (cancel func(), done <-chan error) {
	t.Helper()
	ctx, cancelFn := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- w.Run(ctx) }()
	// give the watcher time to register the directory
	time.Sleep(50 * time.Millisecond)
	return cancelFn, errc
}

func TestWatcher_RunsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.prisma")
	require.NoError(t, os.WriteFile(path, []byte("model A {}\n"), 0o644))

	var calls atomic.Int32
	w := &Watcher{
		Path:     path,
		Debounce: 20 * time.Millisecond,
		Logger:   discard(),
		OnChange: func() error {
			calls.Add(1)
			return nil
		},
	}
	cancel, done := startWatcher(t, w)

	require.NoError(t, os.WriteFile(path, []byte("model B {}\n"), 0o644))
	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestWatcher_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.prisma")
	require.NoError(t, os.WriteFile(path, []byte("model A {}\n"), 0o644))

	var calls atomic.Int32
	w := &Watcher{
		Path:     path,
		Debounce: 10 * time.Millisecond,
		Logger:   discard(),
		OnChange: func() error {
			calls.Add(1)
			return nil
		},
	}
	cancel, done := startWatcher(t, w)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))
	time.Sleep(150 * time.Millisecond)
	require.Zero(t, calls.Load())

	cancel()
	require.NoError(t, <-done)
}

func TestWatcher_CallbackErrorKeepsWatching(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dmmf.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	var calls atomic.Int32
	w := &Watcher{
		Path:     path,
		Debounce: 10 * time.Millisecond,
		Logger:   discard(),
		OnChange: func() error {
			calls.Add(1)
			return errors.New("bad schema")
		},
	}
	cancel, done := startWatcher(t, w)

	require.NoError(t, os.WriteFile(path, []byte("{ }"), 0o644))
	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("{  }"), 0o644))
	require.Eventually(t, func() bool { return calls.Load() == 2 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestWatcher_MissingDir(t *testing.T) {
	w := &Watcher{
		Path:     filepath.Join(t.TempDir(), "missing", "schema.prisma"),
		Logger:   discard(),
		OnChange: func() error { return nil },
	}
	err := w.Run(context.Background())
	require.Error(t, err)
}
