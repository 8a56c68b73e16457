// Package verify checks listing and status query results against an expected
// working-copy model.
//
// Each check either returns nil or a *Failure naming the offending path and
// field. By default a check stops at the first failure; the Collect option
// reports all of them joined into one error.
package verify

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	log "github.com/chmouel/wcexpect/internal/log"
	"github.com/chmouel/wcexpect/internal/models"
	"github.com/chmouel/wcexpect/internal/wc"
)

const (
	opSingle  = "single entry"
	opListing = "listing"
	opStatus  = "status"

	// DefaultMaxDiff is the default size cap of content diffs in failures.
	DefaultMaxDiff = 4000
)

// Option tunes a check.
type Option func(*checker)

// Collect keeps checking after a failure and returns every failure.
func Collect() Option {
	return func(c *checker) { c.collect = true }
}

// WithMaxDiff caps the size of content diffs attached to failures. Zero
// disables diffs.
func WithMaxDiff(n int) Option {
	return func(c *checker) {
		if n < 0 {
			n = 0
		}
		c.maxDiff = n
	}
}

type checker struct {
	op      string
	collect bool
	maxDiff int
	errs    []error
}

func newChecker(op string, opts []Option) *checker {
	c := &checker{op: op, maxDiff: DefaultMaxDiff}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// fail records f. It returns f when the check must stop.
func (c *checker) fail(f *Failure) error {
	f.Op = c.op
	log.Printf("verify: %v", f)
	if !c.collect {
		return f
	}
	c.errs = append(c.errs, f)
	return nil
}

func (c *checker) mismatch(path, field string, expected, actual any) error {
	return c.fail(&Failure{Path: path, Field: field, Expected: expected, Actual: actual, Err: ErrMismatch})
}

func (c *checker) result() error {
	return errors.Join(c.errs...)
}

// SingleEntry checks a listing scoped to exactly one file.
func SingleEntry(m *wc.Model, entries []models.DirEntry, path string) error {
	c := newChecker(opSingle, nil)
	if len(entries) != 1 {
		return c.fail(&Failure{Path: path, Field: "entry count", Expected: 1, Actual: len(entries), Err: ErrCount})
	}
	item := m.Get(path)
	if item == nil {
		return c.fail(&Failure{Path: path, Err: ErrNotFound})
	}
	if !item.IsFile() {
		return c.mismatch(path, "model node kind", models.NodeFile, models.NodeDir)
	}
	if entries[0].Kind != item.Kind() {
		return c.mismatch(path, "node kind", item.Kind(), entries[0].Kind)
	}
	return nil
}

// Listing checks a directory listing rooted at basePath. A recursive listing
// must report every item below basePath. A non-recursive one may omit items
// lying below a directory it did report.
func Listing(m *wc.Model, entries []models.DirEntry, basePath string, recursive bool, opts ...Option) error {
	c := newChecker(opListing, opts)
	prefix := basePath
	if prefix != "" {
		prefix += "/"
	}
	log.Printf("verify: listing %q (recursive=%t, %d entries)", basePath, recursive, len(entries))

	matched := make(map[string]struct{}, len(entries))
	var dirs []string
	for _, e := range entries {
		full := prefix + e.Path
		if e.Path == "" {
			full = basePath
		}
		item := m.Get(full)
		if item == nil {
			if err := c.fail(&Failure{Path: full, Err: ErrNotFound}); err != nil {
				return err
			}
			continue
		}
		if _, seen := matched[full]; seen {
			if err := c.fail(&Failure{Path: full, Err: ErrDuplicate}); err != nil {
				return err
			}
			continue
		}
		matched[full] = struct{}{}
		if e.Kind != item.Kind() {
			if err := c.mismatch(full, "node kind", item.Kind(), e.Kind); err != nil {
				return err
			}
		}
		if e.Kind == models.NodeDir && e.Path != "" {
			dirs = append(dirs, full+"/")
		}
	}

	for _, p := range m.Paths() {
		if _, ok := matched[p]; ok {
			continue
		}
		if p == basePath || !strings.HasPrefix(p, prefix) {
			continue
		}
		if !recursive && coveredBy(p, dirs) {
			continue
		}
		if err := c.fail(&Failure{Path: p, Err: ErrUnreported, Detail: "not found in dir entries"}); err != nil {
			return err
		}
	}
	return c.result()
}

func coveredBy(path string, dirs []string) bool {
	for _, d := range dirs {
		if strings.HasPrefix(path, d) {
			return true
		}
	}
	return false
}

// Status checks a status report against the model. Every item must be
// reported exactly once and every reported field must match. Files whose
// reported text status is normal, or whose item requests it, also have their
// on-disk content compared.
func Status(m *wc.Model, statuses []models.Status, root string, opts ...Option) error {
	c := newChecker(opStatus, opts)
	rootPrefix := strings.TrimSuffix(filepath.ToSlash(filepath.Clean(root)), "/")
	log.Printf("verify: status of %s (%d records)", root, len(statuses))

	matched := make(map[string]struct{}, len(statuses))
	for _, s := range statuses {
		rel, ok := relativeTo(filepath.ToSlash(s.Path), rootPrefix)
		if !ok {
			if err := c.fail(&Failure{Path: s.Path, Err: ErrOutsideRoot}); err != nil {
				return err
			}
			continue
		}
		item := m.Get(rel)
		if item == nil {
			if err := c.fail(&Failure{Path: rel, Err: ErrNotFound}); err != nil {
				return err
			}
			continue
		}
		if _, seen := matched[rel]; seen {
			if err := c.fail(&Failure{Path: rel, Err: ErrDuplicate}); err != nil {
				return err
			}
			continue
		}
		matched[rel] = struct{}{}

		if err := c.compareStatus(item, s); err != nil {
			return err
		}
		if !item.IsFile() || (s.TextStatus != models.StatusNormal && !item.CheckContent) {
			continue
		}
		if err := c.compareContent(item, root); err != nil {
			return err
		}
	}

	for _, p := range m.Paths() {
		if _, ok := matched[p]; ok {
			continue
		}
		if err := c.fail(&Failure{Path: p, Err: ErrUnreported, Detail: "item in working copy not found in status"}); err != nil {
			return err
		}
	}
	return c.result()
}

// relativeTo strips root and the following separator from path.
func relativeTo(path, root string) (string, bool) {
	if !strings.HasPrefix(path, root) {
		return "", false
	}
	if path == root || path == root+"/" {
		return "", true
	}
	if path[len(root)] != '/' {
		return "", false
	}
	return path[len(root)+1:], true
}

func (c *checker) compareStatus(item *wc.Item, s models.Status) error {
	path := item.Path()
	type field struct {
		name          string
		want, got     any
		skip, matches bool
	}
	fields := []field{
		{name: "text status", want: item.TextStatus, got: s.TextStatus, matches: item.TextStatus == s.TextStatus},
		{name: "prop status", want: item.PropStatus, got: s.PropStatus, matches: item.PropStatus == s.PropStatus},
		{name: "locked", want: item.Locked, got: s.Locked, matches: item.Locked == s.Locked},
		{name: "switched", want: item.Switched, got: s.Switched, matches: item.Switched == s.Switched},
		{
			name: "revision", want: item.Revision, got: s.Revision,
			skip: item.Revision == models.InvalidRevision, matches: item.Revision == s.Revision,
		},
		{name: "node kind", want: item.Kind(), got: s.Kind, matches: item.Kind() == s.Kind},
	}
	for _, f := range fields {
		if f.skip || f.matches {
			continue
		}
		if err := c.mismatch(path, f.name, f.want, f.got); err != nil {
			return err
		}
	}
	return nil
}

func (c *checker) compareContent(item *wc.Item, root string) error {
	want, _ := item.Content()
	file := filepath.Join(root, filepath.FromSlash(item.Path()))
	got, err := os.ReadFile(file) //nolint:gosec
	if err != nil {
		return c.fail(&Failure{
			Path: item.Path(), Err: fmt.Errorf("%w: content unreadable: %w", ErrMismatch, err),
		})
	}
	if bytes.Equal(got, []byte(want)) {
		return nil
	}
	return c.fail(&Failure{
		Path:     item.Path(),
		Field:    "content",
		Expected: want,
		Actual:   string(got),
		Detail:   c.diff(item.Path(), want, string(got)),
		Err:      ErrMismatch,
	})
}

func (c *checker) diff(path, want, got string) string {
	if c.maxDiff == 0 {
		return ""
	}
	d := udiff.Unified("expected/"+path, "actual/"+path, want, got)
	if len(d) > c.maxDiff {
		d = d[:c.maxDiff] + "\n... diff truncated"
	}
	return d
}
