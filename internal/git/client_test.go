package git

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/chmouel/wcexpect/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextStatusFromXY(t *testing.T) {
	tests := []struct {
		xy   string
		want models.StatusKind
	}{
		{"..", models.StatusNormal},
		{".M", models.StatusModified},
		{"M.", models.StatusModified},
		{"MM", models.StatusModified},
		{".T", models.StatusModified},
		{"A.", models.StatusAdded},
		{"AM", models.StatusAdded},
		{".A", models.StatusAdded},
		{"D.", models.StatusDeleted},
		{".D", models.StatusMissing},
		{"MD", models.StatusMissing},
		{"R.", models.StatusReplaced},
		{"C.", models.StatusAdded},
		{"x", models.StatusNormal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, textStatusFromXY(tt.xy), tt.xy)
	}
}

func TestBuildStatus(t *testing.T) {
	tracked := []string{"iota", "A/mu", "A/B/lambda", "with space/f"}
	porcelain := []string{
		"# branch.oid abc",
		"1 .M N... 100644 100644 100644 aaa bbb A/mu",
		"1 D. N... 100644 000000 000000 aaa 000 gone/file",
		"2 R. N... 100644 100644 100644 aaa bbb R100 renamed",
		"iota",
		"u UU N... 100644 100644 100644 100644 a b c with space/f",
		"? newdir/",
		"? stray file",
		"! build/",
	}

	entries, err := buildStatus(tracked, porcelain)
	require.NoError(t, err)

	want := map[string]statusEntry{
		"":             {kind: models.NodeDir, text: models.StatusNormal},
		"A":            {kind: models.NodeDir, text: models.StatusNormal},
		"A/B":          {kind: models.NodeDir, text: models.StatusNormal},
		"A/B/lambda":   {kind: models.NodeFile, text: models.StatusNormal},
		"A/mu":         {kind: models.NodeFile, text: models.StatusModified},
		"gone":         {kind: models.NodeDir, text: models.StatusNormal},
		"gone/file":    {kind: models.NodeFile, text: models.StatusDeleted},
		"renamed":      {kind: models.NodeFile, text: models.StatusAdded},
		"iota":         {kind: models.NodeFile, text: models.StatusDeleted},
		"with space":   {kind: models.NodeDir, text: models.StatusNormal},
		"with space/f": {kind: models.NodeFile, text: models.StatusConflicted},
		"newdir":       {kind: models.NodeDir, text: models.StatusUnversioned},
		"stray file":   {kind: models.NodeFile, text: models.StatusUnversioned},
		"build":        {kind: models.NodeDir, text: models.StatusIgnored},
	}
	got := make(map[string]statusEntry, len(entries))
	for p, e := range entries {
		got[p] = *e
	}
	assert.Equal(t, want, got)
}

func TestBuildStatusMalformed(t *testing.T) {
	tests := []struct {
		name string
		recs []string
	}{
		{name: "short ordinary", recs: []string{"1 .M N..."}},
		{name: "rename without origin", recs: []string{"2 R. N... 100644 100644 100644 a b R100 new"}},
		{name: "short unmerged", recs: []string{"u UU N..."}},
		{name: "short untracked", recs: []string{"?"}},
		{name: "unknown type", recs: []string{"z what"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildStatus(nil, tt.recs)
			require.Error(t, err)
		})
	}
}

func TestToRecords(t *testing.T) {
	entries := map[string]*statusEntry{
		"":    {kind: models.NodeDir, text: models.StatusNormal},
		"a/b": {kind: models.NodeFile, text: models.StatusAdded},
	}
	records := toRecords("/wc", entries)

	require.Len(t, records, 2)
	assert.Equal(t, filepath.Clean("/wc"), records[0].Path)
	assert.Equal(t, filepath.Join("/wc", "a", "b"), records[1].Path)
	assert.Equal(t, models.StatusAdded, records[1].TextStatus)
	assert.Equal(t, models.StatusNone, records[1].PropStatus)
	assert.Equal(t, models.InvalidRevision, records[1].Revision)
}

func TestParseLsTree(t *testing.T) {
	entries, err := parseLsTree([]string{
		"100644 blob e69de29bb2d1d6434b8b29ae775ad8c2e48c5391       0\tA/empty file",
		"040000 tree 4b825dc642cb6eb9a060e54bf8d69288fbee4904       -\tA/B",
		"160000 commit 1234567890123456789012345678901234567890       -\tvendor/sub",
		"120000 blob abc      12\tlink",
	})
	require.NoError(t, err)
	require.Len(t, entries, 4)

	assert.Equal(t, models.DirEntry{Path: "A/empty file", Kind: models.NodeFile, LastChanged: models.InvalidRevision}, entries[0])
	assert.Equal(t, models.NodeDir, entries[1].Kind)
	assert.Equal(t, models.NodeDir, entries[2].Kind)
	assert.Equal(t, int64(12), entries[3].Size)

	_, err = parseLsTree([]string{"100644 blob abc 1 no-tab"})
	require.Error(t, err)
	_, err = parseLsTree([]string{"100644 blob abc\tshort"})
	require.Error(t, err)
	_, err = parseLsTree([]string{"100644 blob abc x\tbad-size"})
	require.Error(t, err)
}

func TestRunWithoutGit(t *testing.T) {
	orig := LookupPath
	LookupPath = func(string) (string, error) { return "", exec.ErrNotFound }
	t.Cleanup(func() { LookupPath = orig })

	c := NewClient("", nil)
	assert.False(t, c.Available())
	_, err := c.Status(context.Background(), t.TempDir())
	require.True(t, errors.Is(err, ErrGitUnavailable))
}

func TestFormatEnv(t *testing.T) {
	assert.Nil(t, formatEnv(nil))
	assert.Equal(t, []string{"A=1", "B=2"}, formatEnv(map[string]string{"B": "2", "A": "1"}))
}
