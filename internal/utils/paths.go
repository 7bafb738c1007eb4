// Package utils holds small helpers shared by the CLI and the TUI.
package utils

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DefaultDirPerms is used for directories created by exports.
	DefaultDirPerms = 0o750
	// DefaultFilePerms is used for written export files.
	DefaultFilePerms = 0o600
)

// TimestampLayout is the layout used in generated export names.
const TimestampLayout = "20060102_150405"

// Timestamp formats t for use in generated file names.
func Timestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// ExpandPath expands a leading ~ and environment variables.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}
	return os.ExpandEnv(path), nil
}

// SingleLine removes every line break from s.
func SingleLine(s string) string {
	return strings.NewReplacer("\r\n", "", "\n", "", "\r", "").Replace(s)
}
