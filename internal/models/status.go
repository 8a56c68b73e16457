package models

import (
	"fmt"
	"strings"
)

// StatusKind is a text or property status code.
type StatusKind int

const (
	StatusNone StatusKind = iota
	StatusNormal
	StatusAdded
	StatusMissing
	StatusIncomplete
	StatusDeleted
	StatusReplaced
	StatusModified
	StatusMerged
	StatusConflicted
	StatusObstructed
	StatusIgnored
	StatusExternal
	StatusUnversioned
)

var statusNames = [...]string{
	StatusNone:        "none",
	StatusNormal:      "normal",
	StatusAdded:       "added",
	StatusMissing:     "missing",
	StatusIncomplete:  "incomplete",
	StatusDeleted:     "deleted",
	StatusReplaced:    "replaced",
	StatusModified:    "modified",
	StatusMerged:      "merged",
	StatusConflicted:  "conflicted",
	StatusObstructed:  "obstructed",
	StatusIgnored:     "ignored",
	StatusExternal:    "external",
	StatusUnversioned: "unversioned",
}

func (s StatusKind) String() string {
	if s >= 0 && int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("StatusKind(%d)", int(s))
}

// ParseStatusKind converts a status name back into a StatusKind.
func ParseStatusKind(s string) (StatusKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range statusNames {
		if n == name {
			return StatusKind(i), nil
		}
	}
	return StatusNone, fmt.Errorf("unknown status %q", s)
}

// Status is one record of a status report. Path is absolute.
type Status struct {
	Path       string
	Kind       NodeKind
	TextStatus StatusKind
	PropStatus StatusKind
	Revision   int64
	Locked     bool
	Switched   bool
}
