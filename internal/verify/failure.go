package verify

import (
	"errors"
	"fmt"
	"strings"

	"github.com/muesli/reflow/truncate"
)

// Failure classes, matched with errors.Is.
var (
	ErrCount       = errors.New("unexpected number of entries")
	ErrNotFound    = errors.New("not found in working copy")
	ErrUnreported  = errors.New("item in working copy not reported")
	ErrOutsideRoot = errors.New("path outside working copy root")
	ErrDuplicate   = errors.New("reported more than once")
	ErrMismatch    = errors.New("mismatch")
)

// maxValueWidth caps how much of an expected or actual value is printed.
const maxValueWidth = 72

// Failure describes one verification failure.
type Failure struct {
	Op       string // "single entry", "listing" or "status"
	Path     string // working-copy relative path, or the reported path when unresolved
	Field    string // compared field for mismatches
	Expected any
	Actual   any
	Detail   string // extra context such as a content diff
	Err      error
}

func (f *Failure) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %q: ", f.Op, f.Path)
	if f.Field != "" {
		fmt.Fprintf(&b, "%s mismatch: expected %s, got %s", f.Field, render(f.Expected), render(f.Actual))
	} else {
		b.WriteString(f.Err.Error())
	}
	if f.Detail != "" {
		b.WriteString("\n")
		b.WriteString(f.Detail)
	}
	return b.String()
}

func (f *Failure) Unwrap() error { return f.Err }

func render(v any) string {
	var s string
	switch v := v.(type) {
	case string:
		s = fmt.Sprintf("%q", v)
	case fmt.Stringer:
		s = v.String()
	default:
		s = fmt.Sprintf("%v", v)
	}
	return truncate.StringWithTail(s, maxValueWidth, "...")
}
