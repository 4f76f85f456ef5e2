package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/litescript/nyaa-tui/internal/nyaa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[nyaa]
site = "sukebei"
timeout_seconds = 5
filter = "trusted-only"
use_magnet = true

[qbittorrent]
port = 9090
`), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, nyaa.SiteFap, cfg.Nyaa.Site)
	assert.Equal(t, 5*time.Second, cfg.Nyaa.Timeout())
	assert.True(t, cfg.Nyaa.UseMagnet)
	assert.Equal(t, 9090, cfg.QBittorrent.Port)
	// Untouched keys keep their defaults.
	assert.Equal(t, "localhost", cfg.QBittorrent.Host)
	assert.Equal(t, nyaa.DefaultUserAgent, cfg.Nyaa.UserAgent)

	filter, err := cfg.Nyaa.QualityFilter()
	require.NoError(t, err)
	assert.Equal(t, nyaa.TrustedOnly, filter)
}

func TestLoadRejectsUnknownSite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[nyaa]\nsite = \"example.org\"\n"), 0o644))

	cfg, err := LoadFrom(path)
	assert.ErrorIs(t, err, nyaa.ErrUnsupportedSite)
	assert.Equal(t, Default(), cfg)
}

func TestLoadRejectsBadFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[nyaa]\nfilter = \"best\"\n"), 0o644))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Nyaa.Site = nyaa.SiteFap
	cfg.Nyaa.BaseURL = "http://mirror.local"
	cfg.Log.Level = "debug"

	require.NoError(t, SaveTo(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `site = "fap"`)

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestTimeoutFallback(t *testing.T) {
	assert.Equal(t, nyaa.DefaultTimeout, NyaaConfig{}.Timeout())
}

func TestClientOptions(t *testing.T) {
	c := NyaaConfig{Site: nyaa.SiteFap, BaseURL: "http://mirror.local/"}
	client := nyaa.NewClient(c.ClientOptions()...)
	assert.Equal(t, nyaa.SiteFap, client.Site())
	assert.Equal(t, "http://mirror.local", client.BaseURL())
}

func TestValidatePort(t *testing.T) {
	cfg := Default()
	cfg.QBittorrent.Port = 0
	assert.Error(t, cfg.Validate())

	cfg.QBittorrent.Enabled = false
	assert.NoError(t, cfg.Validate())
}

func TestEnsureDownloadDir(t *testing.T) {
	cfg := Default()
	cfg.Downloads.Path = filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, EnsureDownloadDir(cfg))
	assert.DirExists(t, cfg.Downloads.Path)
}
