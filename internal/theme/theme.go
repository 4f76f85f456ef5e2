// Package theme derives the TUI colours from the user's terminal
// configuration (Alacritty, Foot) with environment variable overrides.
package theme

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/litescript/nyaa-tui/internal/nyaa"
)

// Palette holds the color scheme for the TUI
type Palette struct {
	BG       string // background
	FG       string // foreground (primary text)
	Muted    string // timestamps, secondary info
	Accent   string // highlights, key hints
	AccentBg string // selection background
	Error    string

	// Row colours mirror the site's own green/red marking.
	Trusted string
	Remake  string
}

// DefaultPalette returns the fallback amber-on-dark theme
func DefaultPalette() Palette {
	return Palette{
		BG:       "#0a0a0a",
		FG:       "#d4a017",
		Muted:    "#6b6b4f",
		Accent:   "#8bc34a",
		AccentBg: "#1a1a14",
		Error:    "#ff6b6b",
		Trusted:  "#8bc34a",
		Remake:   "#ff6b6b",
	}
}

// Styles holds all lipgloss styles derived from a palette
type Styles struct {
	Header        lipgloss.Style
	Title         lipgloss.Style
	StatusBar     lipgloss.Style
	SearchPrompt  lipgloss.Style
	TableHeader   lipgloss.Style
	TableRow      lipgloss.Style
	TableSelected lipgloss.Style
	Trusted       lipgloss.Style
	Remake        lipgloss.Style
	Seeders       lipgloss.Style
	Leechers      lipgloss.Style
	Muted         lipgloss.Style
	Error         lipgloss.Style
	HelpKey       lipgloss.Style
	HelpDesc      lipgloss.Style
	Panel         lipgloss.Style
	PanelTitle    lipgloss.Style
	Badge         lipgloss.Style
}

// NewStyles creates styles from a palette
func NewStyles(p Palette) Styles {
	fg := lipgloss.Color(p.FG)
	muted := lipgloss.Color(p.Muted)

	return Styles{
		Header:        lipgloss.NewStyle().Foreground(fg).Bold(true).Padding(0, 1),
		Title:         lipgloss.NewStyle().Foreground(fg).Bold(true),
		StatusBar:     lipgloss.NewStyle().Foreground(muted).Padding(0, 1),
		SearchPrompt:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.Accent)),
		TableRow:      lipgloss.NewStyle().Foreground(fg),
		TableSelected: lipgloss.NewStyle().Foreground(fg).Background(lipgloss.Color(p.AccentBg)).Bold(true),
		TableHeader: lipgloss.NewStyle().
			Foreground(muted).
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(muted),

		Trusted:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.Trusted)),
		Remake:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.Remake)),
		Seeders:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.Trusted)),
		Leechers: lipgloss.NewStyle().Foreground(lipgloss.Color(p.Remake)),

		Muted:    lipgloss.NewStyle().Foreground(muted),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color(p.Error)).Bold(true),
		HelpKey:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.Accent)),
		HelpDesc: lipgloss.NewStyle().Foreground(muted),

		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1),
		PanelTitle: lipgloss.NewStyle().Foreground(fg).Bold(true),
		Badge: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.BG)).
			Background(lipgloss.Color(p.Accent)).
			Padding(0, 1),
	}
}

// ForType returns the row style for a torrent type.
func (s Styles) ForType(t nyaa.TorrentType) lipgloss.Style {
	switch t {
	case nyaa.TorrentTrusted:
		return s.Trusted
	case nyaa.TorrentRemake:
		return s.Remake
	}
	return s.TableRow
}

var (
	mu      sync.RWMutex
	current Styles
	palette Palette
)

func init() {
	Refresh()
}

// Current returns the active styles.
func Current() Styles {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// CurrentPalette returns the active palette.
func CurrentPalette() Palette {
	mu.RLock()
	defer mu.RUnlock()
	return palette
}

// Refresh re-reads the terminal configs and rebuilds the styles.
func Refresh() {
	p := Detect()
	s := NewStyles(p)

	mu.Lock()
	palette, current = p, s
	mu.Unlock()
}
