// Package models defines the records returned by a version-control client
// that the verifier consumes.
package models

import (
	"fmt"
	"strings"
	"time"
)

// InvalidRevision marks a revision that is unknown or must not be checked.
const InvalidRevision int64 = -1

// NodeKind is the kind of node reported by a listing or status query.
type NodeKind int

const (
	NodeNone NodeKind = iota
	NodeFile
	NodeDir
	NodeUnknown
)

func (k NodeKind) String() string {
	switch k {
	case NodeNone:
		return "none"
	case NodeFile:
		return "file"
	case NodeDir:
		return "dir"
	case NodeUnknown:
		return "unknown"
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// ParseNodeKind converts a kind name back into a NodeKind.
func ParseNodeKind(s string) (NodeKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return NodeNone, nil
	case "file":
		return NodeFile, nil
	case "dir", "directory":
		return NodeDir, nil
	case "unknown":
		return NodeUnknown, nil
	}
	return NodeNone, fmt.Errorf("unknown node kind %q", s)
}

// DirEntry is one record of a directory listing. Path is relative to the
// listing root.
type DirEntry struct {
	Path        string
	Kind        NodeKind
	Size        int64
	HasProps    bool
	LastChanged int64 // revision of the last change, InvalidRevision if unknown
	LastAuthor  string
	LastDate    time.Time
}
