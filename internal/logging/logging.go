// Package logging routes the standard logger according to configuration
// and adds a minimal level gate on top of it.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
)

// Level orders log severities.
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var current atomic.Int32

func init() {
	current.Store(int32(LevelInfo))
}

// ParseLevel accepts debug, info, warn or error.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// SetLevel changes the minimum level that is written.
func SetLevel(l Level) {
	current.Store(int32(l))
}

// Enabled reports whether messages at l are written.
func Enabled(l Level) bool {
	return l >= Level(current.Load())
}

// Setup points the standard logger at stdout, a file, or both, and sets the
// level. The returned closer releases the log file, if any.
func Setup(level, output, filename string) (io.Closer, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	SetLevel(lvl)

	var file *os.File
	if output == "file" || output == "both" {
		if dir := filepath.Dir(filename); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create log directory: %w", err)
			}
		}
		file, err = os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
	}

	switch output {
	case "file":
		log.SetOutput(file)
	case "both":
		log.SetOutput(io.MultiWriter(os.Stdout, file))
	default:
		log.SetOutput(os.Stdout)
	}

	if file == nil {
		return nopCloser{}, nil
	}
	return file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Debugf logs at debug level.
func Debugf(format string, args ...any) {
	logf(LevelDebug, "[debug] ", format, args...)
}

// Infof logs at info level.
func Infof(format string, args ...any) {
	logf(LevelInfo, "", format, args...)
}

// Warnf logs at warn level.
func Warnf(format string, args ...any) {
	logf(LevelWarn, "Warning: ", format, args...)
}

// Errorf logs at error level.
func Errorf(format string, args ...any) {
	logf(LevelError, "Error: ", format, args...)
}

func logf(l Level, prefix, format string, args ...any) {
	if !Enabled(l) {
		return
	}
	log.Output(3, prefix+fmt.Sprintf(format, args...))
}
