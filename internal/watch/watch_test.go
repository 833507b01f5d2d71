package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/tlgen/errors"
)

func startWatcher(t *testing.T, fn Func, debounce time.Duration, paths ...string) *Watcher {
	t.Helper()
	w, err := New(fn, debounce, paths...)
	require.NoError(t, err)
	w.runs = make(chan error, 16)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("Run did not return after cancel")
		}
	})
	return w
}

func waitRun(t *testing.T, w *Watcher) error {
	t.Helper()
	select {
	case err := <-w.runs:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("watched function did not run")
		return nil
	}
}

func TestWatcher_RunsOnChange(t *testing.T) {
	dir := t.TempDir()
	schema := filepath.Join(dir, "td_api.tl")
	require.NoError(t, os.WriteFile(schema, []byte("ok = Ok;\n"), 0o644))

	var calls atomic.Int32
	w := startWatcher(t, func(context.Context) error {
		calls.Add(1)
		return nil
	}, 20*time.Millisecond, schema)

	require.NoError(t, os.WriteFile(schema, []byte("ok = Ok;\nuser id:int53 = User;\n"), 0o644))
	assert.NoError(t, waitRun(t, w))
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	schema := filepath.Join(dir, "td_api.tl")
	require.NoError(t, os.WriteFile(schema, nil, 0o644))

	var calls atomic.Int32
	w := startWatcher(t, func(context.Context) error {
		calls.Add(1)
		return nil
	}, 200*time.Millisecond, schema)

	for i := range 5 {
		require.NoError(t, os.WriteFile(schema, []byte{byte('a' + i)}, 0o644))
		time.Sleep(10 * time.Millisecond)
	}
	require.NoError(t, waitRun(t, w))

	select {
	case <-w.runs:
		t.Fatal("burst produced more than one run")
	case <-time.After(400 * time.Millisecond):
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	schema := filepath.Join(dir, "td_api.tl")
	require.NoError(t, os.WriteFile(schema, nil, 0o644))

	w := startWatcher(t, func(context.Context) error { return nil }, 10*time.Millisecond, schema)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	select {
	case <-w.runs:
		t.Fatal("unrelated file triggered a run")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_ErrorsKeepWatching(t *testing.T) {
	dir := t.TempDir()
	schema := filepath.Join(dir, "td_api.tl")
	require.NoError(t, os.WriteFile(schema, nil, 0o644))

	boom := errors.New("boom")
	w := startWatcher(t, func(context.Context) error { return boom }, 10*time.Millisecond, schema)

	require.NoError(t, os.WriteFile(schema, []byte("a"), 0o644))
	assert.ErrorIs(t, waitRun(t, w), boom)

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(schema, []byte("b"), 0o644))
	assert.ErrorIs(t, waitRun(t, w), boom)
}

func TestNew_Errors(t *testing.T) {
	_, err := New(func(context.Context) error { return nil }, 0)
	assert.Error(t, err)

	_, err = New(func(context.Context) error { return nil }, 0, filepath.Join(t.TempDir(), "missing", "td_api.tl"))
	require.Error(t, err)
	assert.NotEmpty(t, errors.GetAllHints(err))
}
