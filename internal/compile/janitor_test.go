package compile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJanitor_Sweep(t *testing.T) {
	root := t.TempDir()
	old := time.Now().Add(-2 * time.Hour)

	stale := filepath.Join(root, "noteforge-latex-stale")
	fresh := filepath.Join(root, "noteforge-latex-fresh")
	other := filepath.Join(root, "someone-else")
	for _, dir := range []string{stale, fresh, other} {
		require.NoError(t, os.Mkdir(dir, 0o755))
	}
	require.NoError(t, os.Chtimes(stale, old, old))
	require.NoError(t, os.Chtimes(other, old, old))

	j := NewJanitor(root, time.Minute, time.Hour, nil)
	n, err := j.Sweep()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.NoDirExists(t, stale)
	assert.DirExists(t, fresh)
	assert.DirExists(t, other)
}

func TestJanitor_RunStopsOnCancel(t *testing.T) {
	root := t.TempDir()
	j := NewJanitor(root, 5*time.Millisecond, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- j.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}
