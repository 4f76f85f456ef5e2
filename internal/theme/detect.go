package theme

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/ini.v1"
)

// detector reads a palette from one terminal's config under home.
type detector func(home string) (Palette, bool)

// detectors in priority order.
var detectors = []detector{
	detectAlacritty,
	detectFoot,
}

// Detect attempts to load theme from various sources in priority order,
// then applies NYAA_TUI_* overrides.
func Detect() Palette {
	return detectIn(os.Getenv("HOME"))
}

func detectIn(home string) Palette {
	if home == "" {
		return applyEnvOverrides(DefaultPalette())
	}
	for _, d := range detectors {
		if p, ok := d(home); ok {
			return applyEnvOverrides(p)
		}
	}
	return applyEnvOverrides(DefaultPalette())
}

// alacrittyConfig represents the relevant parts of alacritty.toml
type alacrittyConfig struct {
	Colors struct {
		Primary struct {
			Background string `toml:"background"`
			Foreground string `toml:"foreground"`
		} `toml:"primary"`
		Selection struct {
			Background string `toml:"background"`
		} `toml:"selection"`
		Normal struct {
			Red   string `toml:"red"`
			Green string `toml:"green"`
		} `toml:"normal"`
	} `toml:"colors"`
}

func detectAlacritty(home string) (Palette, bool) {
	for _, path := range []string{
		filepath.Join(home, ".config", "alacritty", "alacritty.toml"),
		filepath.Join(home, ".alacritty.toml"),
	} {
		var cfg alacrittyConfig
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			continue
		}
		c := cfg.Colors
		p, ok := fromPrimary(c.Primary.Background, c.Primary.Foreground, c.Selection.Background)
		if !ok {
			continue
		}
		p.Trusted = pick(c.Normal.Green, p.Trusted)
		p.Remake = pick(c.Normal.Red, p.Remake)
		return p, true
	}
	return Palette{}, false
}

// detectFoot reads the [colors] section of ~/.config/foot/foot.ini, where
// regular1 is red and regular2 green.
func detectFoot(home string) (Palette, bool) {
	cfg, err := ini.Load(filepath.Join(home, ".config", "foot", "foot.ini"))
	if err != nil {
		return Palette{}, false
	}
	colors := cfg.Section("colors")
	p, ok := fromPrimary(
		colors.Key("background").String(),
		colors.Key("foreground").String(),
		colors.Key("selection-background").String(),
	)
	if !ok {
		return Palette{}, false
	}
	p.Trusted = pick(colors.Key("regular2").String(), p.Trusted)
	p.Remake = pick(colors.Key("regular1").String(), p.Remake)
	return p, true
}

// fromPrimary builds a palette from the terminal's main colours. Both bg
// and fg are required; the rest is derived.
func fromPrimary(bg, fg, selection string) (Palette, bool) {
	bgc, err := parseColor(bg)
	if err != nil {
		return Palette{}, false
	}
	fgc, err := parseColor(fg)
	if err != nil {
		return Palette{}, false
	}

	p := DefaultPalette()
	p.BG = bgc.Hex()
	p.FG = fgc.Hex()
	p.Muted = bgc.BlendRgb(fgc, 0.5).Clamped().Hex()
	p.AccentBg = pick(selection, bgc.BlendRgb(fgc, 0.15).Clamped().Hex())
	return p, true
}

func applyEnvOverrides(p Palette) Palette {
	for env, field := range map[string]*string{
		"NYAA_TUI_BG":      &p.BG,
		"NYAA_TUI_FG":      &p.FG,
		"NYAA_TUI_MUTED":   &p.Muted,
		"NYAA_TUI_ACCENT":  &p.Accent,
		"NYAA_TUI_TRUSTED": &p.Trusted,
		"NYAA_TUI_REMAKE":  &p.Remake,
	} {
		*field = pick(os.Getenv(env), *field)
	}
	return p
}

// pick returns the normalized value, or fallback when value is not a colour.
func pick(value, fallback string) string {
	c, err := parseColor(value)
	if err != nil {
		return fallback
	}
	return c.Hex()
}

// parseColor accepts "#rrggbb", "rrggbb", "0xrrggbb" and "#rgb".
func parseColor(s string) (colorful.Color, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	return colorful.Hex(s)
}
