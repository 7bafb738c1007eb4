// Package log provides the lazydiff debug log. Nothing is ever written to
// the terminal: messages are buffered until a log file is configured, or
// dropped when logging is disabled.
package log

import (
	"fmt"
	"log"
	"os"
	"sync"
)

// sink buffers log output until a destination is chosen.
type sink struct {
	mu      sync.Mutex
	file    *os.File
	pending []byte
	discard bool
}

var (
	debugSink = &sink{}
	stdLogger = log.New(debugSink, "", log.LstdFlags|log.Lmicroseconds)
)

// Write implements io.Writer.
func (s *sink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.discard:
		return len(p), nil
	case s.file != nil:
		n, err := s.file.Write(p)
		_ = s.file.Sync()
		return n, err
	default:
		// p may be reused by the caller.
		s.pending = append(s.pending, p...)
		return len(p), nil
	}
}

// SetFile directs the log to path, flushing anything buffered so far.
// An empty path disables logging and drops the buffer.
func SetFile(path string) error {
	debugSink.mu.Lock()
	defer debugSink.mu.Unlock()

	if debugSink.file != nil {
		_ = debugSink.file.Close()
		debugSink.file = nil
	}

	if path == "" {
		debugSink.discard = true
		debugSink.pending = nil
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec
	if err != nil {
		debugSink.discard = true
		debugSink.pending = nil
		return fmt.Errorf("open debug log: %w", err)
	}

	debugSink.file = f
	debugSink.discard = false
	if len(debugSink.pending) > 0 {
		_, _ = f.Write(debugSink.pending)
		_ = f.Sync()
		debugSink.pending = nil
	}
	return nil
}

// Printf writes a formatted debug message.
func Printf(format string, args ...any) {
	stdLogger.Printf(format, args...)
}

// Println writes a debug message.
func Println(v ...any) {
	stdLogger.Println(v...)
}

// Scoped returns a printf-style logger that prefixes every message with
// the component name.
func Scoped(component string) func(string, ...any) {
	prefix := component + ": "
	return func(format string, args ...any) {
		stdLogger.Printf(prefix+format, args...)
	}
}

// Close closes the log file if one is open.
func Close() error {
	debugSink.mu.Lock()
	defer debugSink.mu.Unlock()

	if debugSink.file == nil {
		return nil
	}
	err := debugSink.file.Close()
	debugSink.file = nil
	return err
}
