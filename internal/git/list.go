package git

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chmouel/wcexpect/internal/models"
)

// List lists the committed tree at target (slash separated, relative to
// root; empty for the root) as of HEAD. Listing a directory reports the
// directory itself with an empty path followed by its children, relative to
// target; recursive listings descend into subdirectories. Listing a file
// reports exactly one entry named after the file.
func (c *Client) List(ctx context.Context, root, target string, recursive bool) ([]models.DirEntry, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", root, err)
	}
	target = strings.Trim(target, "/")

	if target != "" {
		out, err := c.run(ctx, absRoot, "ls-tree", "-z", "-l", "--full-tree", "HEAD", "--", target)
		if err != nil {
			return nil, err
		}
		self, err := parseLsTree(splitNUL(out))
		if err != nil {
			return nil, err
		}
		if len(self) == 0 {
			return nil, fmt.Errorf("%s: not found in HEAD", target)
		}
		if self[0].Kind != models.NodeDir {
			self[0].Path = path.Base(self[0].Path)
			return self[:1], nil
		}
	}

	args := []string{"ls-tree", "-z", "-l", "--full-tree"}
	if recursive {
		args = append(args, "-r", "-t")
	}
	args = append(args, "HEAD")
	if target != "" {
		args = append(args, "--", target+"/")
	}
	out, err := c.run(ctx, absRoot, args...)
	if err != nil {
		return nil, err
	}
	children, err := parseLsTree(splitNUL(out))
	if err != nil {
		return nil, err
	}

	entries := make([]models.DirEntry, 0, len(children)+1)
	entries = append(entries, models.DirEntry{Path: "", Kind: models.NodeDir, LastChanged: models.InvalidRevision})
	prefix := ""
	if target != "" {
		prefix = target + "/"
	}
	for _, e := range children {
		if e.Path == target || !strings.HasPrefix(e.Path, prefix) {
			continue
		}
		e.Path = strings.TrimPrefix(e.Path, prefix)
		entries = append(entries, e)
	}
	return entries, nil
}

// parseLsTree parses "git ls-tree -l -z" records:
// <mode> SP <type> SP <object> SP <size> TAB <path>
func parseLsTree(records []string) ([]models.DirEntry, error) {
	entries := make([]models.DirEntry, 0, len(records))
	for _, rec := range records {
		meta, p, ok := strings.Cut(rec, "\t")
		if !ok {
			return nil, fmt.Errorf("malformed ls-tree record %q", rec)
		}
		fields := strings.Fields(meta)
		if len(fields) != 4 {
			return nil, fmt.Errorf("malformed ls-tree record %q", rec)
		}

		e := models.DirEntry{Path: p, LastChanged: models.InvalidRevision}
		switch fields[1] {
		case "blob":
			e.Kind = models.NodeFile
		case "tree", "commit":
			e.Kind = models.NodeDir
		default:
			e.Kind = models.NodeUnknown
		}
		if fields[3] != "-" {
			size, err := strconv.ParseInt(fields[3], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("malformed size in ls-tree record %q: %w", rec, err)
			}
			e.Size = size
		}
		entries = append(entries, e)
	}
	return entries, nil
}
