package screen

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chmouel/lazydiff/internal/app/services"
	"github.com/chmouel/lazydiff/internal/export"
	"github.com/chmouel/lazydiff/internal/theme"
)

// PasteMsg carries the result of a clipboard read. Target is the prompt
// that asked for it; the read may finish after that prompt is gone.
type PasteMsg struct {
	Text   string
	Err    error
	Target *PathEntryScreen
}

// PathEntryScreen edits the destination of an export. Confirming hands
// the trimmed buffer to OnSubmit; an empty value lets the exporter pick
// its generated name.
type PathEntryScreen struct {
	Title  string
	Kind   export.Kind
	Hint   string // generated name shown when the buffer is empty
	Thm    *theme.Theme
	Buffer services.PathBuffer

	// Layout is only offered for the code dump.
	LayoutEnabled bool
	Layout        export.DumpLayout

	ReadClipboard func() (string, error)
	OnSubmit      func(path string, layout export.DumpLayout) tea.Cmd
	OnCancel      func() tea.Cmd

	boxWidth int
}

// NewPathEntryScreen creates a path prompt for an export kind.
func NewPathEntryScreen(title string, kind export.Kind, hint string, thm *theme.Theme) *PathEntryScreen {
	return &PathEntryScreen{
		Title:    title,
		Kind:     kind,
		Hint:     hint,
		Thm:      thm,
		boxWidth: 64,
	}
}

// EnableLayoutToggle offers the combined/paired switch on ctrl+t.
func (s *PathEntryScreen) EnableLayoutToggle(initial export.DumpLayout) {
	s.LayoutEnabled = true
	s.Layout = initial
}

// Type returns the screen type.
func (s *PathEntryScreen) Type() Type {
	return TypePathEntry
}

// Update edits the buffer or leaves the screen.
func (s *PathEntryScreen) Update(msg tea.KeyMsg) (Screen, tea.Cmd) {
	switch msg.String() {
	case keyEnter:
		value := strings.TrimSpace(s.Buffer.Value())
		s.Buffer.Clear()
		if s.OnSubmit != nil {
			return nil, s.OnSubmit(value, s.Layout)
		}
		return nil, nil
	case keyEsc, keyCtrlC:
		s.Buffer.Clear()
		if s.OnCancel != nil {
			return nil, s.OnCancel()
		}
		return nil, nil
	case keyBackspace:
		s.Buffer.Backspace()
	case keyLeft:
		s.Buffer.Left()
	case keyRight:
		s.Buffer.Right()
	case keyHome, keyCtrlA:
		s.Buffer.Home()
	case keyEnd, keyCtrlE:
		s.Buffer.End()
	case keyCtrlU:
		s.Buffer.Clear()
	case keyCtrlT:
		if s.LayoutEnabled {
			s.Layout = s.Layout.Toggle()
		}
	case keyCtrlV:
		return s, s.requestPaste()
	default:
		switch msg.Type {
		case tea.KeyRunes:
			if msg.Paste {
				s.Buffer.Paste(string(msg.Runes))
			} else {
				s.Buffer.Insert(string(msg.Runes))
			}
		case tea.KeySpace:
			s.Buffer.Insert(" ")
		}
	}
	return s, nil
}

func (s *PathEntryScreen) requestPaste() tea.Cmd {
	read := s.ReadClipboard
	if read == nil {
		return nil
	}
	return func() tea.Msg {
		text, err := read()
		return PasteMsg{Text: text, Err: err, Target: s}
	}
}

// ApplyPaste inserts clipboard text at the cursor. A failed read leaves
// the buffer untouched and returns the error for the status line.
func (s *PathEntryScreen) ApplyPaste(msg PasteMsg) error {
	if msg.Err != nil {
		return msg.Err
	}
	s.Buffer.Paste(msg.Text)
	return nil
}

// View renders the prompt.
func (s *PathEntryScreen) View() string {
	width := s.boxWidth

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.Thm.Accent).
		Padding(1, 2).
		Width(width)

	titleStyle := lipgloss.NewStyle().
		Foreground(s.Thm.Accent).
		Bold(true).
		Width(width - 6).
		Align(lipgloss.Center)

	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(s.Thm.Border).
		Padding(0, 1).
		Width(width - 6)

	mutedStyle := lipgloss.NewStyle().
		Foreground(s.Thm.MutedFg).
		Width(width - 6).
		Align(lipgloss.Center)

	lines := []string{titleStyle.Render(s.Title)}
	if s.LayoutEnabled {
		layoutStyle := lipgloss.NewStyle().Foreground(s.Thm.SelectedFg).Width(width - 6)
		lines = append(lines, layoutStyle.Render("Layout: "+s.Layout.String()+"  (ctrl+t to switch)"))
	}
	lines = append(lines, inputStyle.Render(s.renderBuffer()))

	footer := "Enter confirm • Esc cancel • ctrl+v paste • ctrl+u clear"
	if s.Hint != "" {
		footer = "Empty for " + s.Hint + "\n" + footer
	}
	lines = append(lines, mutedStyle.Render(footer))

	return boxStyle.Render(strings.Join(lines, "\n\n"))
}

func (s *PathEntryScreen) renderBuffer() string {
	before, after := s.Buffer.Split()
	cursorStyle := lipgloss.NewStyle().Reverse(true)
	textStyle := lipgloss.NewStyle().Foreground(s.Thm.TextFg)

	if before == "" && after == "" {
		placeholder := lipgloss.NewStyle().Foreground(s.Thm.MutedFg)
		return cursorStyle.Render(" ") + placeholder.Render("path or directory")
	}

	cursor := " "
	if after != "" {
		r := []rune(after)
		cursor = string(r[0])
		after = string(r[1:])
	}
	return textStyle.Render(before) + cursorStyle.Render(cursor) + textStyle.Render(after)
}
