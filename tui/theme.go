// ABOUTME: Colour themes for the player screen
// ABOUTME: Light, Dark and LightGrey palettes built as lipgloss styles

package tui

import (
	"github.com/charmbracelet/lipgloss"

	"mediaplayer/config"
)

// theme holds every style the view uses
type theme struct {
	name string

	title   lipgloss.Style
	header  lipgloss.Style
	row     lipgloss.Style
	cursor  lipgloss.Style
	playing lipgloss.Style
	art     lipgloss.Style
	clock   lipgloss.Style
	mode    lipgloss.Style
	prompt  lipgloss.Style
	status  lipgloss.Style
	help    lipgloss.Style

	barFrom string // Progress bar gradient
	barTo   string
}

// palette is the handful of colours a theme is derived from
type palette struct {
	fg, muted, accent, highlight, cursorBg, cursorFg, statusBg, statusFg string
	barFrom, barTo                                                        string
}

var palettes = map[string]palette{
	config.ThemeDark: {
		fg: "252", muted: "241", accent: "12", highlight: "10",
		cursorBg: "240", cursorFg: "15", statusBg: "236", statusFg: "15",
		barFrom: "#5A56E0", barTo: "#EE6FF8",
	},
	config.ThemeLight: {
		fg: "235", muted: "245", accent: "26", highlight: "28",
		cursorBg: "153", cursorFg: "232", statusBg: "254", statusFg: "232",
		barFrom: "#1E88E5", barTo: "#43A047",
	},
	config.ThemeLightGrey: {
		fg: "237", muted: "243", accent: "24", highlight: "30",
		cursorBg: "250", cursorFg: "232", statusBg: "248", statusFg: "232",
		barFrom: "#607D8B", barTo: "#90A4AE",
	},
}

// themeFor builds the named theme, falling back to the default for unknown names
func themeFor(name string) theme {
	p, ok := palettes[name]
	if !ok {
		name = config.ThemeLight
		p = palettes[name]
	}

	return theme{
		name: name,

		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.accent)),
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.highlight)),
		row: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.fg)),
		cursor: lipgloss.NewStyle().
			Background(lipgloss.Color(p.cursorBg)).
			Foreground(lipgloss.Color(p.cursorFg)).
			Bold(true),
		playing: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.highlight)),
		art: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.muted)).
			Foreground(lipgloss.Color(p.accent)).
			Align(lipgloss.Center, lipgloss.Center),
		clock: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.fg)),
		mode: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.muted)),
		prompt: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.accent)),
		status: lipgloss.NewStyle().
			Background(lipgloss.Color(p.statusBg)).
			Foreground(lipgloss.Color(p.statusFg)).
			Padding(0, 1),
		help: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.muted)),

		barFrom: p.barFrom,
		barTo:   p.barTo,
	}
}
