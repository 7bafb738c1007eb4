package services

// ClampScroll returns the scroll offset that keeps focus inside a viewport
// of height rows. The offset only moves when focus falls outside the
// current window.
func ClampScroll(focus, scrollTop, height, total int) int {
	if total <= 0 {
		return 0
	}
	if height < 1 {
		height = 1
	}
	switch {
	case focus < scrollTop:
		scrollTop = focus
	case focus >= scrollTop+height:
		scrollTop = focus - height + 1
	}
	if scrollTop < 0 {
		scrollTop = 0
	}
	return scrollTop
}

// ScrollWindow is the focus and scroll offset of one list pane.
type ScrollWindow struct {
	Focus int
	Top   int
}

// Reclamp brings focus back inside [0, total) and then fixes the scroll
// offset. It runs after every rebuild, resize and navigation.
func (w *ScrollWindow) Reclamp(height, total int) {
	if total <= 0 {
		w.Focus, w.Top = 0, 0
		return
	}
	if w.Focus >= total {
		w.Focus = max(0, total-1)
	}
	if w.Focus < 0 {
		w.Focus = 0
	}
	w.Top = ClampScroll(w.Focus, w.Top, height, total)
}

// Move shifts focus by delta rows.
func (w *ScrollWindow) Move(delta, height, total int) {
	w.Focus += delta
	w.Reclamp(height, total)
}

// SetFocus jumps to index.
func (w *ScrollWindow) SetFocus(index, height, total int) {
	w.Focus = index
	w.Reclamp(height, total)
}

// Reset returns to the first row.
func (w *ScrollWindow) Reset() {
	w.Focus, w.Top = 0, 0
}

// Visible returns the [start, end) slice bounds of the rows on screen.
func (w ScrollWindow) Visible(height, total int) (int, int) {
	if total <= 0 || height <= 0 {
		return 0, 0
	}
	start := min(max(w.Top, 0), total)
	end := min(start+height, total)
	return start, end
}

// ScrollText moves a text viewport offset by delta lines, keeping the last
// page filled where possible.
func ScrollText(top, delta, height, lines int) int {
	if height < 1 {
		height = 1
	}
	maxTop := max(0, lines-height)
	return min(max(top+delta, 0), maxTop)
}

// PageStep is the number of lines a page-up or page-down moves.
func PageStep(height int) int {
	return max(1, height-1)
}
