package state

import "strings"

// Preview is the text shown in the diff pane. Key names the file or
// commit the text belongs to; a fetch result is only applied when its key
// still matches.
type Preview struct {
	Key       string
	Raw       string
	Lines     []string
	Loading   bool
	Truncated bool
}

// TruncationMarker ends preview text cut at the configured limit.
const TruncationMarker = "[diff truncated]"

// Request marks the preview as waiting for key.
func (p *Preview) Request(key string) {
	p.Key = key
	p.Loading = true
}

// Set stores text for the current key, cutting it to limit bytes when
// limit is positive. Raw keeps the full text.
func (p *Preview) Set(text string, limit int) {
	p.Raw = text
	p.Loading = false
	p.Truncated = false
	shown := text
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
		if i := strings.LastIndexByte(shown, '\n'); i > 0 {
			shown = shown[:i]
		}
		shown += "\n" + TruncationMarker
		p.Truncated = true
	}
	p.Lines = strings.Split(strings.TrimRight(shown, "\n"), "\n")
}

// Clear empties the preview.
func (p *Preview) Clear() {
	*p = Preview{}
}
