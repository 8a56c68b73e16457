// Package watch records which paths of a materialized working copy change
// while a test runs.
package watch

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Recorder collects root-relative, slash-separated paths that were created,
// written, removed or renamed below a root. The .git directory is ignored.
type Recorder struct {
	root    string
	watcher *fsnotify.Watcher
	done    chan struct{}
	stopped chan struct{}
	logf    func(string, ...any)

	mu      sync.Mutex
	changed map[string]struct{}
	watched map[string]struct{}
}

// NewRecorder returns an idle Recorder. logf may be nil.
func NewRecorder(logf func(string, ...any)) *Recorder {
	return &Recorder{logf: logf}
}

// Start begins watching every directory below root.
func (r *Recorder) Start(root string) error {
	if r.watcher != nil {
		return errors.New("recorder already started")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	r.root = abs
	r.watcher = watcher
	r.done = make(chan struct{})
	r.stopped = make(chan struct{})
	r.changed = make(map[string]struct{})
	r.watched = make(map[string]struct{})
	r.addTree(abs, false)

	go r.run()
	return nil
}

// Stop stops watching. Recorded paths remain available.
func (r *Recorder) Stop() error {
	if r.watcher == nil {
		return nil
	}
	close(r.done)
	err := r.watcher.Close()
	<-r.stopped
	r.watcher = nil
	return err
}

// Changed returns the recorded paths in sorted order.
func (r *Recorder) Changed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	paths := make([]string, 0, len(r.changed))
	for p := range r.changed {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Outside returns the recorded paths that are neither one of allowed nor
// below one of them.
func (r *Recorder) Outside(allowed ...string) []string {
	var out []string
	for _, p := range r.Changed() {
		if !within(p, allowed) {
			out = append(out, p)
		}
	}
	return out
}

func within(p string, allowed []string) bool {
	for _, a := range allowed {
		if a == "" || p == a || strings.HasPrefix(p, a+"/") {
			return true
		}
	}
	return false
}

// Reset forgets every recorded path.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changed = make(map[string]struct{})
}

func (r *Recorder) run() {
	defer close(r.stopped)
	for {
		select {
		case <-r.done:
			return
		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			r.record(event.Name)
			if event.Op&fsnotify.Create != 0 {
				r.maybeWatchNewDir(event.Name)
			}
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			r.debugf("watch error: %v", err)
		}
	}
}

// relative converts an absolute event path; ok is false for paths to skip.
func (r *Recorder) relative(path string) (string, bool) {
	rel, err := filepath.Rel(r.root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if rel == ".git" || strings.HasPrefix(rel, ".git/") {
		return "", false
	}
	return rel, true
}

func (r *Recorder) record(path string) {
	rel, ok := r.relative(path)
	if !ok {
		return
	}
	r.mu.Lock()
	r.changed[rel] = struct{}{}
	r.mu.Unlock()
}

// maybeWatchNewDir watches a newly created directory and records what was
// already written inside it before the watch was in place.
func (r *Recorder) maybeWatchNewDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	r.addTree(path, true)
}

func (r *Recorder) addTree(root string, record bool) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() && d.Name() == ".git" {
			return filepath.SkipDir
		}
		if record && path != root {
			r.record(path)
		}
		if d.IsDir() {
			r.addWatchDir(path)
		}
		return nil
	})
}

func (r *Recorder) addWatchDir(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.watched[path]; ok {
		return
	}
	if err := r.watcher.Add(path); err != nil {
		r.debugf("watch add failed for %s: %v", path, err)
		return
	}
	r.watched[path] = struct{}{}
}

func (r *Recorder) debugf(format string, args ...any) {
	if r.logf == nil {
		return
	}
	r.logf(format, args...)
}
