package git

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chmouel/wcexpect/internal/models"
)

// Status reports every tracked, changed, unversioned and ignored entry of the
// working tree at root, which must be the top of the tree. Directories are
// derived from tracked file paths; the root itself is always reported.
//
// Git has no per-item revision, lock or switch state: revisions are
// models.InvalidRevision and both flags are false.
func (c *Client) Status(ctx context.Context, root string) ([]models.Status, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", root, err)
	}

	tracked, err := c.run(ctx, absRoot, "ls-files", "-z", "--cached")
	if err != nil {
		return nil, err
	}
	porcelain, err := c.run(ctx, absRoot, "status", "--porcelain=v2", "-z", "--ignored", "--untracked-files=normal")
	if err != nil {
		return nil, err
	}

	entries, err := buildStatus(splitNUL(tracked), splitNUL(porcelain))
	if err != nil {
		return nil, err
	}
	return toRecords(absRoot, entries), nil
}

type statusEntry struct {
	kind models.NodeKind
	text models.StatusKind
}

// buildStatus merges the tracked file list with porcelain v2 records, keyed
// by slash-separated path relative to the root.
func buildStatus(tracked, porcelain []string) (map[string]*statusEntry, error) {
	entries := map[string]*statusEntry{
		"": {kind: models.NodeDir, text: models.StatusNormal},
	}
	addParents := func(p string) {
		for dir := path.Dir(p); dir != "." && dir != "/"; dir = path.Dir(dir) {
			if _, ok := entries[dir]; ok {
				continue
			}
			entries[dir] = &statusEntry{kind: models.NodeDir, text: models.StatusNormal}
		}
	}
	set := func(p string, kind models.NodeKind, text models.StatusKind) {
		addParents(p)
		entries[p] = &statusEntry{kind: kind, text: text}
	}

	for _, p := range tracked {
		if p != "" {
			set(p, models.NodeFile, models.StatusNormal)
		}
	}

	for i := 0; i < len(porcelain); i++ {
		rec := porcelain[i]
		if rec == "" || strings.HasPrefix(rec, "#") {
			continue
		}
		switch rec[0] {
		case '1': // 1 <XY> <sub> <mH> <mI> <mW> <hH> <hI> <path>
			parts := strings.SplitN(rec, " ", 9)
			if len(parts) < 9 {
				return nil, fmt.Errorf("malformed status record %q", rec)
			}
			set(parts[8], kindForMode(parts[5]), textStatusFromXY(parts[1]))
		case '2': // 2 <XY> <sub> <mH> <mI> <mW> <hH> <hI> <X><score> <path>, then <origPath>
			parts := strings.SplitN(rec, " ", 10)
			if len(parts) < 10 || i+1 >= len(porcelain) {
				return nil, fmt.Errorf("malformed rename record %q", rec)
			}
			i++
			orig := porcelain[i]
			set(parts[9], kindForMode(parts[5]), models.StatusAdded)
			set(orig, models.NodeFile, models.StatusDeleted)
		case 'u': // u <XY> <sub> <m1> <m2> <m3> <mW> <h1> <h2> <h3> <path>
			parts := strings.SplitN(rec, " ", 11)
			if len(parts) < 11 {
				return nil, fmt.Errorf("malformed unmerged record %q", rec)
			}
			set(parts[10], models.NodeFile, models.StatusConflicted)
		case '?', '!':
			if len(rec) < 3 {
				return nil, fmt.Errorf("malformed status record %q", rec)
			}
			p, kind := rec[2:], models.NodeFile
			if strings.HasSuffix(p, "/") {
				p, kind = strings.TrimSuffix(p, "/"), models.NodeDir
			}
			text := models.StatusUnversioned
			if rec[0] == '!' {
				text = models.StatusIgnored
			}
			set(p, kind, text)
		default:
			return nil, fmt.Errorf("unknown status record %q", rec)
		}
	}
	return entries, nil
}

// textStatusFromXY maps a porcelain XY code to a text status.
func textStatusFromXY(xy string) models.StatusKind {
	if len(xy) != 2 {
		return models.StatusNormal
	}
	x, y := xy[0], xy[1]
	switch {
	case x == 'A' || y == 'A' || x == 'C':
		return models.StatusAdded
	case x == 'D':
		return models.StatusDeleted
	case y == 'D':
		return models.StatusMissing
	case x == 'R':
		return models.StatusReplaced
	case x == 'M' || y == 'M' || x == 'T' || y == 'T':
		return models.StatusModified
	}
	return models.StatusNormal
}

// kindForMode maps a git file mode to a node kind; submodules are directories.
func kindForMode(mode string) models.NodeKind {
	if mode == "160000" {
		return models.NodeDir
	}
	return models.NodeFile
}

func toRecords(absRoot string, entries map[string]*statusEntry) []models.Status {
	paths := make([]string, 0, len(entries))
	for p := range entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	records := make([]models.Status, 0, len(paths))
	for _, p := range paths {
		e := entries[p]
		records = append(records, models.Status{
			Path:       filepath.Join(absRoot, filepath.FromSlash(p)),
			Kind:       e.kind,
			TextStatus: e.text,
			PropStatus: models.StatusNone,
			Revision:   models.InvalidRevision,
		})
	}
	return records
}
