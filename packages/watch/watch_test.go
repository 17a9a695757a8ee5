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
)

func TestNew_NoFiles(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestWatcher_FiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	body := filepath.Join(dir, "body.json")
	other := filepath.Join(dir, "other.txt")
	require.NoError(t, os.WriteFile(body, []byte(`{}`), 0644))

	w, err := New([]string{body}, WithDebounce(20*time.Millisecond), WithMinInterval(0))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fired := make(chan string, 10)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(path string) { fired <- path })
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0644))
	require.NoError(t, os.WriteFile(body, []byte(`{"a":1}`), 0644))

	select {
	case path := <-fired:
		assert.Equal(t, body, path)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher never fired")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	body := filepath.Join(dir, "body.txt")
	require.NoError(t, os.WriteFile(body, []byte("0"), 0644))

	w, err := New([]string{body}, WithDebounce(200*time.Millisecond), WithMinInterval(0))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var count atomic.Int32
	go func() {
		_ = w.Run(ctx, func(string) { count.Add(1) })
	}()

	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(body, []byte{byte('1' + i)}, 0644))
		time.Sleep(10 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return count.Load() >= 1 }, 5*time.Second, 20*time.Millisecond)
	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, int32(1), count.Load())
}

func TestWatcher_NeverOverlapsSlowRuns(t *testing.T) {
	dir := t.TempDir()
	body := filepath.Join(dir, "body.txt")
	require.NoError(t, os.WriteFile(body, []byte("0"), 0644))

	w, err := New([]string{body}, WithDebounce(10*time.Millisecond), WithMinInterval(50*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var running, maxRunning, calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(string) {
			n := running.Add(1)
			for {
				m := maxRunning.Load()
				if n <= m || maxRunning.CompareAndSwap(m, n) {
					break
				}
			}
			time.Sleep(500 * time.Millisecond)
			running.Add(-1)
			calls.Add(1)
		})
	}()

	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 4; i++ {
		require.NoError(t, os.WriteFile(body, []byte{byte('1' + i)}, 0644))
		time.Sleep(120 * time.Millisecond)
	}

	// The first run is in progress while the later writes settle, so they
	// fold into a single queued run.
	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, int32(1), maxRunning.Load())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
	assert.Equal(t, int32(0), running.Load())
}
