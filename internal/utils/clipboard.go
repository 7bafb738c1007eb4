package utils

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// ReadClipboard returns the system clipboard contents.
func ReadClipboard() (string, error) {
	if clipboard.Unsupported {
		return "", fmt.Errorf("clipboard not supported on this system")
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("read clipboard: %w", err)
	}
	return text, nil
}

// WriteClipboard replaces the system clipboard contents.
func WriteClipboard(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard not supported on this system")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}
