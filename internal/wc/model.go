// Package wc models the expected state of a version-controlled working copy.
//
// A Model maps working-copy relative paths to Items. Each Item describes one
// file or directory together with the version-control metadata a status or
// listing query is expected to report for it.
package wc

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	log "github.com/chmouel/wcexpect/internal/log"
	"github.com/chmouel/wcexpect/internal/models"
)

// Node is the on-disk shape of an Item: either a File or a Directory.
type Node interface {
	kind() models.NodeKind
}

// File is a regular file with its full content.
type File struct {
	Content string
}

// Directory is a directory node.
type Directory struct{}

func (File) kind() models.NodeKind      { return models.NodeFile }
func (Directory) kind() models.NodeKind { return models.NodeDir }

// UsageError is the panic value raised when the model is misused by test code.
type UsageError struct {
	Op   string
	Path string
	Msg  string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("wc: %s %q: %s", e.Op, e.Path, e.Msg)
}

func usage(op, path, msg string) {
	panic(&UsageError{Op: op, Path: path, Msg: msg})
}

// Item is the expected state of one working-copy entry.
type Item struct {
	path string

	Node         Node
	TextStatus   models.StatusKind
	PropStatus   models.StatusKind
	Revision     int64 // models.InvalidRevision means "do not check"
	KindOverride models.NodeKind
	Locked       bool
	Switched     bool
	CheckContent bool // compare content even when the text status is not normal
}

// Path returns the item's path relative to the working-copy root.
func (i *Item) Path() string { return i.path }

// IsFile reports whether the item is modeled as a file.
func (i *Item) IsFile() bool {
	_, ok := i.Node.(File)
	return ok
}

// Content returns the file content and whether the item is a file.
func (i *Item) Content() (string, bool) {
	f, ok := i.Node.(File)
	return f.Content, ok
}

// Kind returns the node kind a query is expected to report for the item:
// the override when set, otherwise the kind of its Node.
func (i *Item) Kind() models.NodeKind {
	if i.KindOverride != models.NodeNone {
		return i.KindOverride
	}
	return i.Node.kind()
}

func (i *Item) clone() *Item {
	c := *i
	return &c
}

// Model maps relative paths to expected Items. It is not safe for concurrent
// use.
type Model struct {
	items map[string]*Item
}

// New returns an empty Model.
func New() *Model {
	return &Model{items: make(map[string]*Item)}
}

// Add creates an Item for path and inserts it. Adding an existing path panics.
func (m *Model) Add(path string, node Node) *Item {
	if node == nil {
		usage("add", path, "nil node")
	}
	if _, ok := m.items[path]; ok {
		usage("add", path, "path already present")
	}
	item := &Item{
		path:       path,
		Node:       node,
		TextStatus: models.StatusNormal,
		PropStatus: models.StatusNone,
		Revision:   models.InvalidRevision,
	}
	m.items[path] = item
	return item
}

// AddFile adds a file item with the given content.
func (m *Model) AddFile(path, content string) *Item {
	return m.Add(path, File{Content: content})
}

// AddDir adds a directory item.
func (m *Model) AddDir(path string) *Item {
	return m.Add(path, Directory{})
}

// Get returns the item at path, or nil.
func (m *Model) Get(path string) *Item {
	return m.items[path]
}

// Remove deletes the item at path if present.
func (m *Model) Remove(path string) {
	delete(m.items, path)
}

// RemoveTree deletes the item at path and every item below it.
func (m *Model) RemoveTree(path string) {
	prefix := path + "/"
	for p := range m.items {
		if p == path || path == "" || strings.HasPrefix(p, prefix) {
			delete(m.items, p)
		}
	}
}

// Len returns the number of items.
func (m *Model) Len() int { return len(m.items) }

// Paths returns every path in sorted order.
func (m *Model) Paths() []string {
	paths := make([]string, 0, len(m.items))
	for p := range m.items {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Items returns every item ordered by path.
func (m *Model) Items() []*Item {
	paths := m.Paths()
	items := make([]*Item, len(paths))
	for i, p := range paths {
		items[i] = m.items[p]
	}
	return items
}

func (m *Model) mustGet(op, path string) *Item {
	item, ok := m.items[path]
	if !ok {
		usage(op, path, "no such item")
	}
	return item
}

// SetTextStatus sets the expected text status of path.
func (m *Model) SetTextStatus(path string, status models.StatusKind) {
	m.mustGet("set text status", path).TextStatus = status
}

// SetPropStatus sets the expected property status of path.
func (m *Model) SetPropStatus(path string, status models.StatusKind) {
	m.mustGet("set prop status", path).PropStatus = status
}

// SetStatus sets both the text and property status of path.
func (m *Model) SetStatus(path string, text, prop models.StatusKind) {
	item := m.mustGet("set status", path)
	item.TextStatus = text
	item.PropStatus = prop
}

// SetRevision sets the expected working revision of path.
func (m *Model) SetRevision(path string, rev int64) {
	m.mustGet("set revision", path).Revision = rev
}

// SetContent replaces the content of the file at path. It panics when the
// item is a directory.
func (m *Model) SetContent(path, content string) {
	item := m.mustGet("set content", path)
	if !item.IsFile() {
		usage("set content", path, "item is a directory")
	}
	item.Node = File{Content: content}
}

// SetContentPtr is SetContent for callers holding optional content; a nil
// content panics since it would turn the file into a directory.
func (m *Model) SetContentPtr(path string, content *string) {
	if content == nil {
		usage("set content", path, "nil content")
	}
	m.SetContent(path, *content)
}

// SetCheckContent forces a content comparison regardless of text status.
func (m *Model) SetCheckContent(path string, check bool) {
	m.mustGet("set check content", path).CheckContent = check
}

// SetNodeKind overrides the node kind expected from queries.
func (m *Model) SetNodeKind(path string, kind models.NodeKind) {
	m.mustGet("set node kind", path).KindOverride = kind
}

// SetLocked sets the expected lock flag of path.
func (m *Model) SetLocked(path string, locked bool) {
	m.mustGet("set locked", path).Locked = locked
}

// SetSwitched sets the expected switched flag of path.
func (m *Model) SetSwitched(path string, switched bool) {
	m.mustGet("set switched", path).Switched = switched
}

// Copy returns a deep copy owning its own items.
func (m *Model) Copy() *Model {
	c := &Model{items: make(map[string]*Item, len(m.items))}
	for p, item := range m.items {
		c.items[p] = item.clone()
	}
	return c
}

// Materialize writes the modeled tree below root. Directories are created
// first so that every file's parent exists when it is written.
func (m *Model) Materialize(root string) error {
	items := m.Items()
	for _, item := range items {
		if item.IsFile() {
			continue
		}
		dir := filepath.Join(root, filepath.FromSlash(item.path))
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", item.path, err)
		}
	}
	for _, item := range items {
		content, ok := item.Content()
		if !ok {
			continue
		}
		file := filepath.Join(root, filepath.FromSlash(item.path))
		if err := os.WriteFile(file, []byte(content), 0o600); err != nil {
			return fmt.Errorf("failed to write file %s: %w", item.path, err)
		}
	}
	log.Printf("wc: materialized %d items under %s", len(items), root)
	return nil
}
