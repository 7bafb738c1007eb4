package app

import "github.com/chmouel/lazydiff/internal/app/state"

const (
	defaultWindowWidth  = 120
	defaultWindowHeight = 40

	minLeftPaneWidth  = 30
	minRightPaneWidth = 20
	minPaneHeight     = 4
	paneTitleHeight   = 1
)

// layoutDims holds computed layout dimensions for the UI. Outer sizes
// include the pane border; inner sizes are what the content may use.
type layoutDims struct {
	width        int
	height       int
	headerHeight int
	footerHeight int
	bodyHeight   int
	gapX         int

	leftWidth      int
	rightWidth     int
	leftInnerWidth int
	diffInnerWidth int

	filesHeight        int
	commitsHeight      int
	filesInnerHeight   int
	commitsInnerHeight int
	diffInnerHeight    int
}

// setWindowSize records the terminal size and re-applies the scroll rule,
// since the number of visible rows per pane changed.
func (m *Model) setWindowSize(width, height int) {
	m.view.WindowWidth = width
	m.view.WindowHeight = height
	m.reclamp()
}

// computeLayout splits the body into the files and commits panes on the
// left and the diff pane on the right.
func (m *Model) computeLayout() layoutDims {
	width := m.view.WindowWidth
	height := m.view.WindowHeight
	if width <= 0 {
		width = defaultWindowWidth
	}
	if height <= 0 {
		height = defaultWindowHeight
	}

	headerHeight := 1
	footerHeight := 1
	gapX := 1
	bodyHeight := max(height-headerHeight-footerHeight, 2*minPaneHeight)

	leftWidth := max(minLeftPaneWidth, int(float64(width-gapX)*0.40))
	rightWidth := width - leftWidth - gapX
	if rightWidth < minRightPaneWidth {
		rightWidth = minRightPaneWidth
		leftWidth = max(1, width-rightWidth-gapX)
	}

	filesHeight := max(minPaneHeight, int(float64(bodyHeight)*0.60))
	commitsHeight := bodyHeight - filesHeight
	if commitsHeight < minPaneHeight {
		commitsHeight = minPaneHeight
		filesHeight = max(minPaneHeight, bodyHeight-commitsHeight)
	}

	frame := m.basePaneStyle()
	frameX := frame.GetHorizontalFrameSize()
	frameY := frame.GetVerticalFrameSize()

	return layoutDims{
		width:        width,
		height:       height,
		headerHeight: headerHeight,
		footerHeight: footerHeight,
		bodyHeight:   bodyHeight,
		gapX:         gapX,

		leftWidth:      leftWidth,
		rightWidth:     rightWidth,
		leftInnerWidth: max(1, leftWidth-frameX),
		diffInnerWidth: max(1, rightWidth-frameX),

		filesHeight:        filesHeight,
		commitsHeight:      commitsHeight,
		filesInnerHeight:   max(1, filesHeight-frameY),
		commitsInnerHeight: max(1, commitsHeight-frameY),
		diffInnerHeight:    max(1, bodyHeight-frameY),
	}
}

// paneRows is the number of list rows visible in pane p.
func (m *Model) paneRows(p state.Pane) int {
	layout := m.computeLayout()
	inner := layout.filesInnerHeight
	if p == state.PaneCommits {
		inner = layout.commitsInnerHeight
	}
	return max(1, inner-paneTitleHeight)
}

// diffRows is the number of diff lines visible at once.
func (m *Model) diffRows() int {
	return max(1, m.computeLayout().diffInnerHeight-paneTitleHeight)
}
