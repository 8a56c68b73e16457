// Package log provides the trace logger shared by wcexpect packages.
//
// Messages are buffered until a destination is chosen with SetFile or
// SetOutput, so traces emitted while a harness is still being configured are
// not lost.
package log

import (
	"io"
	"log"
	"os"
	"sync"
)

// maxBuffered bounds the pending buffer when no destination is ever set.
const maxBuffered = 1 << 20

// DebugLogger is the io.Writer behind the package logger.
type DebugLogger struct {
	mu      sync.Mutex
	out     io.Writer
	file    *os.File
	buffer  []byte
	discard bool
}

var (
	globalDebugLogger = &DebugLogger{}
	stdLogger         = log.New(globalDebugLogger, "", log.LstdFlags|log.Lmicroseconds)
)

// Write implements io.Writer.
func (l *DebugLogger) Write(p []byte) (n int, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch {
	case l.discard:
		return len(p), nil
	case l.out != nil:
		n, err = l.out.Write(p)
		if l.file != nil {
			_ = l.file.Sync()
		}
		return n, err
	}

	if len(l.buffer)+len(p) > maxBuffered {
		// Oldest lines go first.
		drop := len(l.buffer) + len(p) - maxBuffered
		if drop > len(l.buffer) {
			drop = len(l.buffer)
		}
		l.buffer = l.buffer[drop:]
	}
	l.buffer = append(l.buffer, p...)
	return len(p), nil
}

// attach closes any open file, installs w and flushes pending output to it.
// Callers hold l.mu.
func (l *DebugLogger) attach(w io.Writer, f *os.File) {
	if l.file != nil {
		_ = l.file.Close()
	}
	l.out = w
	l.file = f
	l.discard = w == nil
	if w != nil && len(l.buffer) > 0 {
		_, _ = w.Write(l.buffer)
	}
	l.buffer = nil
}

// SetFile routes traces to path, appending to it. An empty path discards all
// pending and future traces.
func SetFile(path string) error {
	globalDebugLogger.mu.Lock()
	defer globalDebugLogger.mu.Unlock()

	if path == "" {
		globalDebugLogger.attach(nil, nil)
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec
	if err != nil {
		globalDebugLogger.attach(nil, nil)
		return err
	}
	globalDebugLogger.attach(f, f)
	return nil
}

// SetOutput routes traces to w. A nil writer discards them.
func SetOutput(w io.Writer) {
	globalDebugLogger.mu.Lock()
	defer globalDebugLogger.mu.Unlock()
	globalDebugLogger.attach(w, nil)
}

// Printf writes a formatted trace line.
func Printf(format string, args ...any) {
	stdLogger.Printf(format, args...)
}

// Println writes a trace line.
func Println(v ...any) {
	stdLogger.Println(v...)
}

// Logf returns a printf-style function prefixing every line with component.
func Logf(component string) func(string, ...any) {
	return func(format string, args ...any) {
		stdLogger.Printf(component+": "+format, args...)
	}
}

// Close closes the trace file if one is open.
func Close() error {
	globalDebugLogger.mu.Lock()
	defer globalDebugLogger.mu.Unlock()

	if globalDebugLogger.file == nil {
		return nil
	}
	err := globalDebugLogger.file.Close()
	globalDebugLogger.file = nil
	globalDebugLogger.out = nil
	return err
}
