package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWatcher_ReloadsOnChange(t *testing.T) {
	src, err := os.ReadFile(filepath.Join("testdata", "catalog.yaml"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, src, 0644))

	changes := make(chan *Catalog, 4)
	w := NewFileWatcher(path, 10*time.Millisecond, func(c *Catalog) { changes <- c })
	w.Start()
	defer w.Stop()

	edited := append([]byte{}, src...)
	edited = append(edited, []byte("\n# edited\n")...)
	require.NoError(t, os.WriteFile(path, edited, 0644))
	future := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, future, future))

	select {
	case c := <-changes:
		assert.Equal(t, 370, c.MaxScore)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not report the change")
	}
}

func TestFileWatcher_IgnoresInvalidEdits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("categories: []\n"), 0644))

	called := make(chan struct{}, 1)
	w := NewFileWatcher(path, 10*time.Millisecond, func(*Catalog) { called <- struct{}{} })
	w.Start()

	require.NoError(t, os.WriteFile(path, []byte("categories: {broken"), 0644))
	future := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, future, future))

	select {
	case <-called:
		t.Fatal("invalid catalog must not be delivered")
	case <-time.After(100 * time.Millisecond):
	}

	w.Stop()
	w.Stop()
}
