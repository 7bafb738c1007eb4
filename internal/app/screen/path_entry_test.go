package screen

import (
	"errors"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/chmouel/lazydiff/internal/export"
	"github.com/chmouel/lazydiff/internal/theme"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newEntry() *PathEntryScreen {
	return NewPathEntryScreen("Export selected files", export.MultiFile, "diff_<timestamp>.txt", theme.GetTheme(theme.DraculaName))
}

func typeInto(s *PathEntryScreen, text string) {
	for _, r := range text {
		s.Update(runes(string(r)))
	}
}

func TestPathEntryEditing(t *testing.T) {
	s := newEntry()
	typeInto(s, "out.txt")
	assert.Equal(t, "out.txt", s.Buffer.Value())
	assert.Equal(t, 7, s.Buffer.Cursor())

	s.Update(tea.KeyMsg{Type: tea.KeyHome})
	typeInto(s, "d/")
	assert.Equal(t, "d/out.txt", s.Buffer.Value())
	assert.Equal(t, 2, s.Buffer.Cursor())

	s.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "dout.txt", s.Buffer.Value())

	s.Update(tea.KeyMsg{Type: tea.KeyRight})
	s.Update(tea.KeyMsg{Type: tea.KeySpace})
	assert.Equal(t, "do ut.txt", s.Buffer.Value())

	s.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	assert.Equal(t, len("do ut.txt"), s.Buffer.Cursor())
	s.Update(tea.KeyMsg{Type: tea.KeyCtrlA})
	assert.Equal(t, 0, s.Buffer.Cursor())
	s.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "do ut.txt", s.Buffer.Value(), "backspace at 0 is a no-op")

	s.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
	assert.Empty(t, s.Buffer.Value())
	assert.Equal(t, 0, s.Buffer.Cursor())
}

func TestPathEntryConfirm(t *testing.T) {
	s := newEntry()
	var gotPath string
	s.OnSubmit = func(path string, _ export.DumpLayout) tea.Cmd {
		gotPath = path
		return func() tea.Msg { return "submitted" }
	}
	typeInto(s, "  exports/  ")

	next, cmd := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, next, "confirm closes the screen")
	require.NotNil(t, cmd)
	assert.Equal(t, "submitted", cmd())
	assert.Equal(t, "exports/", gotPath)
	assert.Empty(t, s.Buffer.Value())
	assert.Equal(t, 0, s.Buffer.Cursor())
}

func TestPathEntryConfirmEmpty(t *testing.T) {
	s := newEntry()
	called := false
	s.OnSubmit = func(path string, _ export.DumpLayout) tea.Cmd {
		called = true
		assert.Empty(t, path)
		return nil
	}
	next, _ := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, next)
	assert.True(t, called)
}

func TestPathEntryCancel(t *testing.T) {
	s := newEntry()
	submitted := false
	s.OnSubmit = func(string, export.DumpLayout) tea.Cmd {
		submitted = true
		return nil
	}
	typeInto(s, "abc")
	next, _ := s.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, next)
	assert.False(t, submitted)
	assert.Empty(t, s.Buffer.Value())
}

func TestPathEntryLayoutToggle(t *testing.T) {
	s := newEntry()
	s.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Equal(t, export.DumpCombined, s.Layout, "toggle ignored without layout support")

	s.EnableLayoutToggle(export.DumpCombined)
	typeInto(s, "dir")
	s.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Equal(t, export.DumpPaired, s.Layout)
	assert.Equal(t, "dir", s.Buffer.Value(), "toggle leaves the buffer alone")
	assert.Equal(t, 3, s.Buffer.Cursor())

	var layout export.DumpLayout
	s.OnSubmit = func(_ string, l export.DumpLayout) tea.Cmd {
		layout = l
		return nil
	}
	s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, export.DumpPaired, layout)
}

func TestPathEntryPaste(t *testing.T) {
	s := newEntry()
	s.ReadClipboard = func() (string, error) { return "/tmp/a\nb\r\n", nil }
	typeInto(s, "x")
	s.Update(tea.KeyMsg{Type: tea.KeyHome})

	next, cmd := s.Update(tea.KeyMsg{Type: tea.KeyCtrlV})
	assert.Equal(t, s, next)
	require.NotNil(t, cmd)
	msg, ok := cmd().(PasteMsg)
	require.True(t, ok)
	assert.Same(t, s, msg.Target)

	require.NoError(t, s.ApplyPaste(msg))
	assert.Equal(t, "/tmp/abx", s.Buffer.Value())
	assert.Equal(t, len("/tmp/ab"), s.Buffer.Cursor())
}

func TestPathEntryPasteFailure(t *testing.T) {
	s := newEntry()
	s.ReadClipboard = func() (string, error) { return "", errors.New("no clipboard") }
	typeInto(s, "keep")

	_, cmd := s.Update(tea.KeyMsg{Type: tea.KeyCtrlV})
	require.NotNil(t, cmd)
	err := s.ApplyPaste(cmd().(PasteMsg))
	require.EqualError(t, err, "no clipboard")
	assert.Equal(t, "keep", s.Buffer.Value())
	assert.Equal(t, 4, s.Buffer.Cursor())
}

func TestPathEntryBracketedPaste(t *testing.T) {
	s := newEntry()
	s.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a/b\nc"), Paste: true})
	assert.Equal(t, "a/bc", s.Buffer.Value())
}

func TestPathEntryView(t *testing.T) {
	s := newEntry()
	assert.Contains(t, s.View(), "Export selected files")
	assert.Contains(t, s.View(), "diff_<timestamp>.txt")

	s.EnableLayoutToggle(export.DumpPaired)
	assert.Contains(t, s.View(), "Layout: paired")
}

// Arbitrary key sequences keep the cursor inside the buffer.
func TestPathEntryCursorStaysInBounds(t *testing.T) {
	keys := []tea.KeyMsg{
		runes("a"), runes("é"), runes("/"), runes("日本"),
		{Type: tea.KeySpace},
		{Type: tea.KeyBackspace},
		{Type: tea.KeyLeft},
		{Type: tea.KeyRight},
		{Type: tea.KeyHome},
		{Type: tea.KeyEnd},
		{Type: tea.KeyCtrlU},
		{Type: tea.KeyCtrlT},
		{Type: tea.KeyRunes, Runes: []rune("x\ny"), Paste: true},
	}
	rapid.Check(t, func(rt *rapid.T) {
		s := newEntry()
		s.EnableLayoutToggle(export.DumpCombined)
		seq := rapid.SliceOfN(rapid.IntRange(0, len(keys)-1), 0, 60).Draw(rt, "keys")
		for _, i := range seq {
			s.Update(keys[i])
			if c := s.Buffer.Cursor(); c < 0 || c > len(s.Buffer.Value()) {
				rt.Fatalf("cursor %d outside [0, %d] after key %q", c, len(s.Buffer.Value()), keys[i].String())
			}
		}
	})
}

func TestHelpScreenView(t *testing.T) {
	km := testKeys{
		a: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select group")),
		b: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle view")),
	}
	s := NewHelpScreen(km, 100, 40, theme.GetTheme(theme.NordName))
	view := s.View()
	assert.Contains(t, view, "select group")
	assert.Contains(t, view, "toggle view")

	next, _ := s.Update(runes("?"))
	assert.Nil(t, next)
}

type testKeys struct{ a, b key.Binding }

func (k testKeys) ShortHelp() []key.Binding  { return []key.Binding{k.a} }
func (k testKeys) FullHelp() [][]key.Binding { return [][]key.Binding{{k.a}, {k.b}} }
