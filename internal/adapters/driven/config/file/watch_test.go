package file

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsConfigEvent(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	tests := []struct {
		name string
		file string
		op   fsnotify.Op
		want bool
	}{
		{"write", "config.toml", fsnotify.Write, true},
		{"create", "config.toml", fsnotify.Create, true},
		{"rename", "config.toml", fsnotify.Rename, true},
		{"remove", "config.toml", fsnotify.Remove, true},
		{"chmod only", "config.toml", fsnotify.Chmod, false},
		{"write and chmod", "config.toml", fsnotify.Write | fsnotify.Chmod, true},
		{"other file", "ad.db", fsnotify.Write, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := fsnotify.Event{Name: filepath.Join(tmpDir, tt.file), Op: tt.op}
			assert.Equal(t, tt.want, store.isConfigEvent(event))
		})
	}
}

func TestWatch_ReloadsOnExternalEdit(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set("users.page_size", int64(6)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var changes atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- store.Watch(ctx, func() { changes.Add(1) })
	}()

	// Give the watcher time to register before editing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(store.Path(), []byte("[users]\npage_size = 12\n"), 0600))

	assert.Eventually(t, func() bool {
		return store.GetInt("users.page_size") == 12 && changes.Load() > 0
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
