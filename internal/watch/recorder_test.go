package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = 5 * time.Second
	tick    = 20 * time.Millisecond
)

func startRecorder(t *testing.T) (*Recorder, string) {
	t.Helper()
	root := t.TempDir()
	for _, dir := range []string{".git", "A/B", "A/C", "A/D"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, filepath.FromSlash(dir)), 0o750))
	}
	for _, file := range []string{"iota", "A/mu", "A/B/lambda", "A/D/gamma"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, filepath.FromSlash(file)), []byte(file+"\n"), 0o600))
	}

	r := NewRecorder(t.Logf)
	require.NoError(t, r.Start(root))
	t.Cleanup(func() { _ = r.Stop() })
	return r, root
}

func hasAll(r *Recorder, want ...string) func() bool {
	return func() bool {
		got := map[string]bool{}
		for _, p := range r.Changed() {
			got[p] = true
		}
		for _, w := range want {
			if !got[w] {
				return false
			}
		}
		return true
	}
}

func TestRecorderRecordsWrites(t *testing.T) {
	r, root := startRecorder(t)

	require.NoError(t, os.WriteFile(filepath.Join(root, "A", "mu"), []byte("edited\n"), 0o600))
	require.NoError(t, os.Remove(filepath.Join(root, "A", "D", "gamma")))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".git", "index"), []byte("x"), 0o600))

	require.Eventually(t, hasAll(r, "A/mu", "A/D/gamma"), waitFor, tick)
	assert.NotContains(t, r.Changed(), ".git/index")
	assert.Empty(t, r.Outside("A"))
	assert.Equal(t, []string{"A/D/gamma"}, r.Outside("A/mu"))
}

func TestRecorderWatchesNewDirectories(t *testing.T) {
	r, root := startRecorder(t)

	newDir := filepath.Join(root, "A", "C", "new")
	require.NoError(t, os.MkdirAll(newDir, 0o750))
	require.Eventually(t, hasAll(r, "A/C/new"), waitFor, tick)

	require.NoError(t, os.WriteFile(filepath.Join(newDir, "file"), []byte("x"), 0o600))
	require.Eventually(t, hasAll(r, "A/C/new/file"), waitFor, tick)
}

func TestRecorderResetAndStop(t *testing.T) {
	r, root := startRecorder(t)

	require.NoError(t, os.WriteFile(filepath.Join(root, "iota"), []byte("edited\n"), 0o600))
	require.Eventually(t, hasAll(r, "iota"), waitFor, tick)

	r.Reset()
	assert.Empty(t, r.Changed())

	require.NoError(t, os.WriteFile(filepath.Join(root, "A", "B", "lambda"), []byte("edited\n"), 0o600))
	require.Eventually(t, hasAll(r, "A/B/lambda"), waitFor, tick)
	assert.NotContains(t, r.Changed(), "iota")

	require.NoError(t, r.Stop())
	require.NoError(t, r.Stop())
	assert.Contains(t, r.Changed(), "A/B/lambda")
}

func TestRecorderStartTwice(t *testing.T) {
	r, root := startRecorder(t)
	require.Error(t, r.Start(root))
}

func TestWithin(t *testing.T) {
	assert.True(t, within("A/B", []string{"A"}))
	assert.True(t, within("A", []string{"A"}))
	assert.False(t, within("AB", []string{"A"}))
	assert.True(t, within("x", []string{""}))
	assert.False(t, within("x", nil))
}
