// Package harness builds working-copy test scenarios on top of the wc model.
package harness

import (
	"fmt"
	"sync"
)

// Sequence hands out unique scenario names. Each test suite owns its own
// Sequence instead of sharing a process-wide counter.
type Sequence struct {
	mu     sync.Mutex
	prefix string
	next   int
}

// NewSequence returns a Sequence producing names "<prefix>-1", "<prefix>-2"...
func NewSequence(prefix string) *Sequence {
	if prefix == "" {
		prefix = "test"
	}
	return &Sequence{prefix: prefix}
}

// Next returns the next unused name.
func (s *Sequence) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return fmt.Sprintf("%s-%d", s.prefix, s.next)
}
