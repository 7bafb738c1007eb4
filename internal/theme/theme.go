// Package theme provides the colour themes of the TUI.
package theme

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Theme maps UI roles to colours.
type Theme struct {
	Background  lipgloss.Color
	Accent      lipgloss.Color
	AccentFg    lipgloss.Color // text drawn on Accent
	AccentDim   lipgloss.Color // focused row background
	Border      lipgloss.Color
	BorderDim   lipgloss.Color
	MutedFg     lipgloss.Color
	TextFg      lipgloss.Color
	AddedFg     lipgloss.Color
	ModifiedFg  lipgloss.Color
	DeletedFg   lipgloss.Color
	UntrackedFg lipgloss.Color
	SelectedFg  lipgloss.Color // selection markers
	HeaderFg    lipgloss.Color // group headers
}

// Theme names.
const (
	DraculaName         = "dracula"
	DraculaLightName    = "dracula-light"
	NarnaName           = "narna"
	NordName            = "nord"
	GruvboxDarkName     = "gruvbox-dark"
	GruvboxLightName    = "gruvbox-light"
	MonokaiName         = "monokai"
	CatppuccinMochaName = "catppuccin-mocha"
)

// palette lists colours in Theme field order.
type palette [14]string

func (p palette) theme() *Theme {
	c := func(i int) lipgloss.Color { return lipgloss.Color(p[i]) }
	return &Theme{
		Background:  c(0),
		Accent:      c(1),
		AccentFg:    c(2),
		AccentDim:   c(3),
		Border:      c(4),
		BorderDim:   c(5),
		MutedFg:     c(6),
		TextFg:      c(7),
		AddedFg:     c(8),
		ModifiedFg:  c(9),
		DeletedFg:   c(10),
		UntrackedFg: c(11),
		SelectedFg:  c(12),
		HeaderFg:    c(13),
	}
}

var palettes = map[string]palette{
	DraculaName: {
		"#282A36", "#BD93F9", "#282A36", "#44475A", "#6272A4", "#44475A", "#6272A4",
		"#F8F8F2", "#50FA7B", "#FFB86C", "#FF5555", "#8BE9FD", "#FF79C6", "#F1FA8C",
	},
	DraculaLightName: {
		"#FFFFFF", "#C6DBE5", "#24292F", "#F3E8FF", "#D0D7DE", "#E8E8E8", "#6E7781",
		"#24292F", "#059669", "#D97706", "#DC2626", "#0891B2", "#DB2777", "#CA8A04",
	},
	NarnaName: {
		"#0D1117", "#41ADFF", "#0D1117", "#1A2230", "#30363D", "#20252D", "#8B949E",
		"#E6EDF3", "#3FB950", "#E3B341", "#F47067", "#7CE0F3", "#D2A8FF", "#F2CC60",
	},
	NordName: {
		"#2E3440", "#88C0D0", "#2E3440", "#3B4252", "#4C566A", "#434C5E", "#81A1C1",
		"#E5E9F0", "#A3BE8C", "#EBCB8B", "#BF616A", "#88C0D0", "#B48EAD", "#EBCB8B",
	},
	GruvboxDarkName: {
		"#282828", "#FABD2F", "#282828", "#3C3836", "#504945", "#3C3836", "#928374",
		"#EBDBB2", "#B8BB26", "#FABD2F", "#FB4934", "#83A598", "#D3869B", "#FABD2F",
	},
	GruvboxLightName: {
		"#FBF1C7", "#D79921", "#FBF1C7", "#E0CFA9", "#D5C4A1", "#C0B58A", "#7C6F64",
		"#3C3836", "#79740E", "#D79921", "#9D0006", "#427B58", "#B16286", "#D79921",
	},
	MonokaiName: {
		"#272822", "#A6E22E", "#272822", "#3E3D32", "#75715E", "#3E3D32", "#75715E",
		"#F8F8F2", "#A6E22E", "#FD971F", "#F92672", "#66D9EF", "#F92672", "#E6DB74",
	},
	CatppuccinMochaName: {
		"#1E1E2E", "#B4BEFE", "#1E1E2E", "#313244", "#45475A", "#313244", "#6C7086",
		"#CDD6F4", "#A6E3A1", "#F9E2AF", "#F38BA8", "#89DCEB", "#F5C2E7", "#F9E2AF",
	},
}

// GetTheme returns a theme by name, or Dracula if not found.
func GetTheme(name string) *Theme {
	if p, ok := palettes[name]; ok {
		return p.theme()
	}
	return palettes[DraculaName].theme()
}

// IsLight returns true if the theme is a light theme.
func IsLight(name string) bool {
	return name == DraculaLightName || name == GruvboxLightName
}

// AvailableThemes returns the theme names in alphabetical order.
func AvailableThemes() []string {
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StatusColor picks the colour of a normalised status label.
func (t *Theme) StatusColor(label string) lipgloss.Color {
	switch label {
	case "A":
		return t.AddedFg
	case "D":
		return t.DeletedFg
	case "??":
		return t.UntrackedFg
	case "U":
		return t.DeletedFg
	default:
		return t.ModifiedFg
	}
}
