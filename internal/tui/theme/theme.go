// Package theme holds the colour palettes and lipgloss styles of the TUI.
// Views receive a Theme value and never pick colours themselves.
package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette is the set of colours a theme is built from.
type Palette struct {
	Primary   lipgloss.Color // titles
	Secondary lipgloss.Color // subtitles, labels in focus
	Accent    lipgloss.Color // selection, progress
	Muted     lipgloss.Color // help, placeholders
	Success   lipgloss.Color // valid, verified
	Danger    lipgloss.Color // invalid, errors
	Text      lipgloss.Color
	Label     lipgloss.Color
	Bg        lipgloss.Color
	BgAlt     lipgloss.Color
	Border    lipgloss.Color
}

// DarkPalette is the default palette.
var DarkPalette = Palette{
	Primary:   lipgloss.Color("#FF6B6B"),
	Secondary: lipgloss.Color("#4ecdc4"),
	Accent:    lipgloss.Color("#ffe66d"),
	Muted:     lipgloss.Color("#666666"),
	Success:   lipgloss.Color("#a8e6cf"),
	Danger:    lipgloss.Color("#ff6b6b"),
	Text:      lipgloss.Color("#f1faee"),
	Label:     lipgloss.Color("#a8dadc"),
	Bg:        lipgloss.Color("#1a1a2e"),
	BgAlt:     lipgloss.Color("#2d3436"),
	Border:    lipgloss.Color("#3d5a80"),
}

// LightPalette suits light terminal backgrounds.
var LightPalette = Palette{
	Primary:   lipgloss.Color("#c0392b"),
	Secondary: lipgloss.Color("#16807a"),
	Accent:    lipgloss.Color("#b7791f"),
	Muted:     lipgloss.Color("#8a8a8a"),
	Success:   lipgloss.Color("#2f855a"),
	Danger:    lipgloss.Color("#c53030"),
	Text:      lipgloss.Color("#1a202c"),
	Label:     lipgloss.Color("#2c5282"),
	Bg:        lipgloss.Color("#f7fafc"),
	BgAlt:     lipgloss.Color("#e2e8f0"),
	Border:    lipgloss.Color("#a0aec0"),
}

// Theme is a palette plus the styles derived from it.
type Theme struct {
	Name    string
	Palette Palette

	// Sidebar
	Sidebar           lipgloss.Style
	SidebarTitle      lipgloss.Style
	SidebarItem       lipgloss.Style
	SidebarItemActive lipgloss.Style
	SidebarItemCurr   lipgloss.Style
	SidebarHelp       lipgloss.Style

	// Text
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Section  lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Muted    lipgloss.Style
	Help     lipgloss.Style

	// Status
	Positive lipgloss.Style
	Negative lipgloss.Style
	Error    lipgloss.Style
	Loading  lipgloss.Style
	Copied   lipgloss.Style

	// Containers
	Box      lipgloss.Style
	Editor   lipgloss.Style
	Divider  lipgloss.Style
	Selected lipgloss.Style
	Content  lipgloss.Style

	// Tables
	TableBorder lipgloss.Style
	TableHeader lipgloss.Style
	TableCell   lipgloss.Style
}

// New derives all styles from p.
func New(name string, p Palette) Theme {
	return Theme{
		Name:    name,
		Palette: p,

		Sidebar: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderRight(true).
			BorderForeground(p.Border).
			Padding(1, 1),
		SidebarTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Primary).
			Background(p.Bg).
			Padding(0, 1).
			MarginBottom(1),
		SidebarItem: lipgloss.NewStyle().
			Foreground(p.Muted).
			Padding(0, 1),
		SidebarItemActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent).
			Background(p.BgAlt).
			Padding(0, 1),
		SidebarItemCurr: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Secondary).
			Padding(0, 1),
		SidebarHelp: lipgloss.NewStyle().
			Foreground(p.Muted).
			MarginTop(1).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Primary).
			Background(p.Bg).
			Padding(0, 1),
		Subtitle: lipgloss.NewStyle().
			Foreground(p.Secondary),
		Section: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Secondary).
			MarginTop(1),
		Label: lipgloss.NewStyle().
			Foreground(p.Label).
			Bold(true),
		Value: lipgloss.NewStyle().
			Foreground(p.Text),
		Muted: lipgloss.NewStyle().
			Foreground(p.Muted).
			Italic(true),
		Help: lipgloss.NewStyle().
			Foreground(p.Muted),

		Positive: lipgloss.NewStyle().
			Foreground(p.Success).
			Bold(true),
		Negative: lipgloss.NewStyle().
			Foreground(p.Danger).
			Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(p.Danger).
			Bold(true),
		Loading: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true).
			Italic(true),
		Copied: lipgloss.NewStyle().
			Foreground(p.Success).
			Bold(true),

		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(1, 2),
		Editor: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Accent).
			Padding(0, 1),
		Divider: lipgloss.NewStyle().
			Foreground(p.Border),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent).
			Background(p.BgAlt),
		Content: lipgloss.NewStyle().
			Padding(1, 2),

		TableBorder: lipgloss.NewStyle().
			Foreground(p.Border),
		TableHeader: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Label).
			Padding(0, 1),
		TableCell: lipgloss.NewStyle().
			Foreground(p.Text).
			Padding(0, 1),
	}
}

// Dark returns the default theme.
func Dark() Theme { return New("dark", DarkPalette) }

// Light returns the theme for light backgrounds.
func Light() Theme { return New("light", LightPalette) }

// ByName returns the named theme, falling back to Dark.
func ByName(name string) Theme {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "light":
		return Light()
	default:
		return Dark()
	}
}
