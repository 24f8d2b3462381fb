package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, path string) <-chan *DemoConfig {
	t.Helper()
	reloads := make(chan *DemoConfig, 4)
	w, err := NewWatcher(path, nil, 10*time.Millisecond, func(cfg *DemoConfig) { reloads <- cfg })
	if err != nil {
		t.Skip("fsnotify not supported: ", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return reloads
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "demo.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"count": 128}`), 0644))

	reloads := startWatcher(t, path)

	require.NoError(t, os.WriteFile(path, []byte(`{"count": 512, "radius": 4}`), 0644))

	select {
	case cfg := <-reloads:
		assert.Equal(t, 512, cfg.GetCount())
		assert.Equal(t, 4.0, cfg.GetRadius())
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for reload")
	}
}

func TestWatcher_SkipsInvalidAndOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "demo.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0644))

	reloads := startWatcher(t, path)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte(`{"count": 1}`), 0644))
	require.NoError(t, os.WriteFile(path, []byte(`{"count": -4}`), 0644))

	select {
	case cfg := <-reloads:
		t.Fatalf("unexpected reload: %+v", cfg)
	case <-time.After(200 * time.Millisecond):
	}

	require.NoError(t, os.WriteFile(path, []byte(`{"geometry": "scatter"}`), 0644))
	select {
	case cfg := <-reloads:
		assert.Equal(t, "scatter", cfg.GetGeometry())
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for reload")
	}
}

func TestNewWatcher_MissingDirectory(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "nope", "demo.json"), nil, 0, func(*DemoConfig) {})
	assert.Error(t, err)
}
