package services

import (
	"github.com/chmouel/lazydiff/internal/utils"
	"github.com/rivo/uniseg"
)

// PathBuffer is a single-line text buffer with a cursor. The cursor is a
// byte offset in [0, len(Value)] and moves by grapheme clusters.
type PathBuffer struct {
	value  string
	cursor int
}

// Value returns the buffer contents.
func (b *PathBuffer) Value() string {
	return b.value
}

// Cursor returns the cursor byte offset.
func (b *PathBuffer) Cursor() int {
	return b.cursor
}

// Insert puts text at the cursor and moves the cursor past it.
func (b *PathBuffer) Insert(text string) {
	if text == "" {
		return
	}
	b.clampCursor()
	b.value = b.value[:b.cursor] + text + b.value[b.cursor:]
	b.cursor += len(text)
}

// Paste inserts text with every line break removed and returns the
// number of bytes inserted.
func (b *PathBuffer) Paste(text string) int {
	line := utils.SingleLine(text)
	b.Insert(line)
	return len(line)
}

// Backspace deletes the grapheme cluster before the cursor.
func (b *PathBuffer) Backspace() {
	b.clampCursor()
	if b.cursor == 0 {
		return
	}
	prev := b.prevBoundary()
	b.value = b.value[:prev] + b.value[b.cursor:]
	b.cursor = prev
}

// Left moves the cursor one grapheme cluster back.
func (b *PathBuffer) Left() {
	b.clampCursor()
	b.cursor = b.prevBoundary()
}

// Right moves the cursor one grapheme cluster forward.
func (b *PathBuffer) Right() {
	b.clampCursor()
	b.cursor = b.nextBoundary()
}

// Home moves the cursor to the start.
func (b *PathBuffer) Home() {
	b.cursor = 0
}

// End moves the cursor past the last character.
func (b *PathBuffer) End() {
	b.cursor = len(b.value)
}

// Clear empties the buffer.
func (b *PathBuffer) Clear() {
	b.value = ""
	b.cursor = 0
}

// Split returns the text before and after the cursor.
func (b *PathBuffer) Split() (string, string) {
	b.clampCursor()
	return b.value[:b.cursor], b.value[b.cursor:]
}

func (b *PathBuffer) clampCursor() {
	b.cursor = min(max(b.cursor, 0), len(b.value))
}

func (b *PathBuffer) prevBoundary() int {
	prev := 0
	offset := 0
	state := -1
	rest := b.value
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.StepString(rest, state)
		if offset+len(cluster) >= b.cursor {
			return prev
		}
		offset += len(cluster)
		prev = offset
	}
	return prev
}

func (b *PathBuffer) nextBoundary() int {
	offset := 0
	state := -1
	rest := b.value
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.StepString(rest, state)
		offset += len(cluster)
		if offset > b.cursor {
			return offset
		}
	}
	return len(b.value)
}
