package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/vidspot/internal/domain/ports"
)

func writeScript(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newScript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.yaml")
	writeScript(t, path, content)
	return path
}

func nextEvent(t *testing.T, events <-chan ports.FileChangeEvent) ports.FileChangeEvent {
	t.Helper()
	select {
	case event, ok := <-events:
		require.True(t, ok, "event channel closed")
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
		return ports.FileChangeEvent{}
	}
}

func TestPollingWatcher(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		w := NewPollingWatcher(0, -time.Second, nil)
		assert.Equal(t, 500*time.Millisecond, w.interval)
		assert.Equal(t, time.Duration(0), w.debounce)
	})

	t.Run("reports modification", func(t *testing.T) {
		path := newScript(t, "steps: [play]\n")
		w := NewPollingWatcher(20*time.Millisecond, 0, nil)
		defer func() { _ = w.Stop() }()

		events, err := w.Watch(context.Background(), path)
		require.NoError(t, err)

		writeScript(t, path, "steps: [play, pause]\n")

		event := nextEvent(t, events)
		assert.Equal(t, ports.Modified, event.Type)
		assert.True(t, filepath.IsAbs(event.Path))
		assert.WithinDuration(t, time.Now(), event.Timestamp, 2*time.Second)
	})

	t.Run("burst of writes is one event", func(t *testing.T) {
		path := newScript(t, "a")
		w := NewPollingWatcher(20*time.Millisecond, 200*time.Millisecond, nil)
		defer func() { _ = w.Stop() }()

		events, err := w.Watch(context.Background(), path)
		require.NoError(t, err)

		for _, content := range []string{"ab", "abc", "abcd"} {
			writeScript(t, path, content)
			time.Sleep(30 * time.Millisecond)
		}

		assert.Equal(t, ports.Modified, nextEvent(t, events).Type)
		select {
		case event := <-events:
			t.Fatalf("unexpected second event: %v", event.Type)
		case <-time.After(400 * time.Millisecond):
		}
	})

	t.Run("deletion and recreation", func(t *testing.T) {
		path := newScript(t, "steps: [play]\n")
		w := NewPollingWatcher(20*time.Millisecond, 0, nil)
		defer func() { _ = w.Stop() }()

		events, err := w.Watch(context.Background(), path)
		require.NoError(t, err)

		require.NoError(t, os.Remove(path))
		assert.Equal(t, ports.Deleted, nextEvent(t, events).Type)

		writeScript(t, path, "steps: [pause]\n")
		assert.Equal(t, ports.Created, nextEvent(t, events).Type)
	})

	t.Run("unchanged file is quiet", func(t *testing.T) {
		path := newScript(t, "steps: [play]\n")
		w := NewPollingWatcher(20*time.Millisecond, 0, nil)
		defer func() { _ = w.Stop() }()

		events, err := w.Watch(context.Background(), path)
		require.NoError(t, err)

		select {
		case event := <-events:
			t.Fatalf("unexpected event: %v", event.Type)
		case <-time.After(150 * time.Millisecond):
		}
	})

	t.Run("stop closes the channel", func(t *testing.T) {
		w := NewPollingWatcher(20*time.Millisecond, 0, nil)
		events, err := w.Watch(context.Background(), newScript(t, "x"))
		require.NoError(t, err)

		require.NoError(t, w.Stop())
		require.NoError(t, w.Stop())

		_, ok := <-events
		assert.False(t, ok)
	})

	t.Run("context cancellation closes the channel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		w := NewPollingWatcher(20*time.Millisecond, 0, nil)
		events, err := w.Watch(ctx, newScript(t, "x"))
		require.NoError(t, err)

		cancel()

		select {
		case _, ok := <-events:
			assert.False(t, ok)
		case <-time.After(2 * time.Second):
			t.Fatal("channel not closed")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		w := NewPollingWatcher(20*time.Millisecond, 0, nil)
		_, err := w.Watch(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("second watch is rejected", func(t *testing.T) {
		path := newScript(t, "x")
		w := NewPollingWatcher(20*time.Millisecond, 0, nil)
		defer func() { _ = w.Stop() }()

		_, err := w.Watch(context.Background(), path)
		require.NoError(t, err)
		_, err = w.Watch(context.Background(), path)
		assert.ErrorIs(t, err, ErrAlreadyWatching)
	})
}

func TestChangeTypeString(t *testing.T) {
	assert.Equal(t, "modified", ports.Modified.String())
	assert.Equal(t, "created", ports.Created.String())
	assert.Equal(t, "deleted", ports.Deleted.String())
	assert.Equal(t, "unknown", ports.ChangeType(42).String())
}

func TestFingerprint(t *testing.T) {
	path := newScript(t, "hello")

	first, err := takeFingerprint(path, fingerprint{})
	require.NoError(t, err)
	assert.False(t, first.missing)
	assert.Equal(t, int64(5), first.size)
	assert.Len(t, first.checksum, 64)

	again, err := takeFingerprint(path, first)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	require.NoError(t, os.Remove(path))
	gone, err := takeFingerprint(path, first)
	require.NoError(t, err)
	assert.True(t, gone.missing)
}
