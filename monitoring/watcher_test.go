package monitoring

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestArtifactWatcherReportsTargetChanges(t *testing.T) {
	dir := t.TempDir()
	model := filepath.Join(dir, "model.json")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(model, []byte(`{}`), 0o600))

	changes := make(chan string, 8)
	w, err := NewArtifactWatcher([]string{model}, func(path string, op fsnotify.Op) {
		changes <- path
	}, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, os.WriteFile(other, []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(model, []byte(`{"features": []}`), 0o600))

	select {
	case path := <-changes:
		abs, _ := filepath.Abs(model)
		require.Equal(t, abs, path)
	case <-time.After(5 * time.Second):
		t.Fatal("expected a change notification for the model file")
	}
}

func TestNewArtifactWatcherMissingDir(t *testing.T) {
	_, err := NewArtifactWatcher([]string{filepath.Join(t.TempDir(), "gone", "model.json")}, nil, nil)
	require.Error(t, err)
}
