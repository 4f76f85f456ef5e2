package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/litescript/nyaa-tui/internal/nyaa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDetectDefaults(t *testing.T) {
	assert.Equal(t, DefaultPalette(), detectIn(t.TempDir()))
}

func TestDetectAlacritty(t *testing.T) {
	home := t.TempDir()
	writeFile(t, filepath.Join(home, ".config", "alacritty", "alacritty.toml"), `
[colors.primary]
background = "0x000000"
foreground = "#FFFFFF"

[colors.normal]
red = "#cc0000"
green = "#00cc00"
`)

	p := detectIn(home)
	assert.Equal(t, "#000000", p.BG)
	assert.Equal(t, "#ffffff", p.FG)
	assert.Equal(t, "#00cc00", p.Trusted)
	assert.Equal(t, "#cc0000", p.Remake)
	assert.NotEqual(t, DefaultPalette().Muted, p.Muted)
}

func TestDetectFoot(t *testing.T) {
	home := t.TempDir()
	writeFile(t, filepath.Join(home, ".config", "foot", "foot.ini"), `
[colors]
background=1e1e2e
foreground=cdd6f4
selection-background=585b70
regular1=f38ba8
`)

	p := detectIn(home)
	assert.Equal(t, "#1e1e2e", p.BG)
	assert.Equal(t, "#cdd6f4", p.FG)
	assert.Equal(t, "#585b70", p.AccentBg)
	assert.Equal(t, "#f38ba8", p.Remake)
	assert.Equal(t, DefaultPalette().Trusted, p.Trusted)
}

func TestDetectIncompleteConfigFallsThrough(t *testing.T) {
	home := t.TempDir()
	writeFile(t, filepath.Join(home, ".config", "alacritty", "alacritty.toml"), "[colors.primary]\nbackground = \"#000000\"\n")

	assert.Equal(t, DefaultPalette(), detectIn(home))
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("NYAA_TUI_ACCENT", "abc")
	t.Setenv("NYAA_TUI_FG", "not-a-colour")

	p := detectIn(t.TempDir())
	assert.Equal(t, "#aabbcc", p.Accent)
	assert.Equal(t, DefaultPalette().FG, p.FG)
}

func TestForType(t *testing.T) {
	s := NewStyles(DefaultPalette())
	assert.Equal(t, s.Trusted, s.ForType(nyaa.TorrentTrusted))
	assert.Equal(t, s.Remake, s.ForType(nyaa.TorrentRemake))
	assert.Equal(t, s.TableRow, s.ForType(nyaa.TorrentNormal))
}
