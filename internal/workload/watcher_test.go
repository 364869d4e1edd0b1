package workload

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const watcherWorkload = `
bindings:
  b: Hash()
ops:
  - name: op1
    fields:
      v: "{b}"
`

func TestWatcherReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "workload.yaml")
	require.NoError(t, os.WriteFile(path, []byte(watcherWorkload), 0o644))

	var reloads atomic.Int64
	var lastErr atomic.Value

	w, err := Watch(path, 50*time.Millisecond, func(doc *Document, err error) {
		if err != nil {
			lastErr.Store(err)
			return
		}
		reloads.Add(1)
	})
	require.NoError(t, err)
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte(watcherWorkload), 0o644))

	require.Eventually(t, func() bool {
		return reloads.Load() >= 1
	}, 5*time.Second, 20*time.Millisecond, "watcher did not observe the write")
	assert.Nil(t, lastErr.Load())
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "workload.yaml")
	require.NoError(t, os.WriteFile(path, []byte(watcherWorkload), 0o644))

	w, err := Watch(path, 0, func(*Document, error) {})
	require.NoError(t, err)

	w.Stop()
	w.Stop()
}
