package verifytest

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/chmouel/wcexpect/internal/models"
	"github.com/chmouel/wcexpect/internal/wc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder captures failures instead of failing the surrounding test.
type recorder struct {
	errors []string
	failed bool
}

func (r *recorder) Errorf(format string, args ...any) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func (r *recorder) FailNow() { r.failed = true }

func TestRequireStatus(t *testing.T) {
	m := wc.New()
	m.AddDir("")
	m.AddFile("f", "hello")
	root := t.TempDir()
	require.NoError(t, m.Materialize(root))

	records := []models.Status{
		{Path: root, Kind: models.NodeDir, TextStatus: models.StatusNormal},
		{Path: filepath.Join(root, "f"), Kind: models.NodeFile, TextStatus: models.StatusNormal},
	}
	RequireStatus(t, m, records, root)
	assert.True(t, AssertStatus(t, m, records, root))

	r := &recorder{}
	RequireStatus(r, m, records[:1], root)
	assert.True(t, r.failed)
	require.Len(t, r.errors, 1)
	assert.Contains(t, r.errors[0], `status: "f": item in working copy not reported`)
}

func TestRequireListing(t *testing.T) {
	m := wc.New()
	m.AddDir("")
	m.AddDir("A")
	m.AddFile("A/mu", "x")

	RequireListing(t, m, []models.DirEntry{{Path: "A", Kind: models.NodeDir}}, "", false)
	RequireSingleEntry(t, m, []models.DirEntry{{Path: "mu", Kind: models.NodeFile}}, "A/mu")

	r := &recorder{}
	RequireListing(r, m, []models.DirEntry{{Path: "A", Kind: models.NodeDir}}, "", true)
	assert.True(t, r.failed)

	r = &recorder{}
	RequireSingleEntry(r, m, nil, "A/mu")
	assert.True(t, r.failed)
	assert.Contains(t, r.errors[0], "entry count mismatch: expected 1, got 0")
}
