// Package config handles application configuration via TOML files.
// Configuration is stored at ~/.config/nyaa-tui/config.toml and includes
// settings for the nyaa client, qBittorrent, downloads, and logging.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/litescript/nyaa-tui/internal/nyaa"
)

// Config holds application configuration
type Config struct {
	Nyaa        NyaaConfig        `toml:"nyaa"`
	QBittorrent QBittorrentConfig `toml:"qbittorrent"`
	Downloads   DownloadsConfig   `toml:"downloads"`
	Log         LogConfig         `toml:"log"`
}

// NyaaConfig holds the scraper client settings
type NyaaConfig struct {
	// Site is "fun" (nyaa.si) or "fap" (sukebei.nyaa.si).
	Site nyaa.Site `toml:"site"`

	// BaseURL overrides the site's address, for mirrors.
	BaseURL string `toml:"base_url"`

	TimeoutSeconds int    `toml:"timeout_seconds"`
	UserAgent      string `toml:"user_agent"`

	// Filter is "no-filter", "no-remakes" or "trusted-only".
	Filter string `toml:"filter"`

	// UseMagnet makes downloads and feeds use magnet links instead of
	// .torrent URLs.
	UseMagnet bool `toml:"use_magnet"`
}

// QBittorrentConfig holds qBittorrent Web API settings
type QBittorrentConfig struct {
	Enabled  bool   `toml:"enabled"`
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// DownloadsConfig holds download settings
type DownloadsConfig struct {
	Path string `toml:"path"`
}

// LogConfig controls the log file
type LogConfig struct {
	Level string `toml:"level"`

	// File defaults to nyaa-tui.log in the user cache directory.
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// Default returns the default configuration
func Default() Config {
	home, _ := os.UserHomeDir()

	return Config{
		Nyaa: NyaaConfig{
			Site:           nyaa.SiteFun,
			TimeoutSeconds: int(nyaa.DefaultTimeout / time.Second),
			UserAgent:      nyaa.DefaultUserAgent,
			Filter:         nyaa.NoFilter.String(),
		},
		QBittorrent: QBittorrentConfig{
			Enabled:  true,
			Host:     "localhost",
			Port:     8080,
			Username: "admin",
			Password: "adminadmin",
		},
		Downloads: DownloadsConfig{
			Path: filepath.Join(home, "Downloads", "torrents"),
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Timeout returns the request timeout, falling back to the client default.
func (c NyaaConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return nyaa.DefaultTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// QualityFilter parses Filter. An empty value means no filter.
func (c NyaaConfig) QualityFilter() (nyaa.QualityFilter, error) {
	if c.Filter == "" {
		return nyaa.NoFilter, nil
	}
	return nyaa.ParseQualityFilter(c.Filter)
}

// ClientOptions translates the section into nyaa client options.
func (c NyaaConfig) ClientOptions() []nyaa.Option {
	return []nyaa.Option{
		nyaa.WithSite(c.Site),
		nyaa.WithBaseURL(c.BaseURL),
		nyaa.WithTimeout(c.Timeout()),
		nyaa.WithUserAgent(c.UserAgent),
	}
}

// Validate reports settings that would make the client unusable.
func (c Config) Validate() error {
	if !c.Nyaa.Site.Valid() {
		return fmt.Errorf("nyaa.site: %w", nyaa.ErrUnsupportedSite)
	}
	if _, err := c.Nyaa.QualityFilter(); err != nil {
		return fmt.Errorf("nyaa.filter: %w", err)
	}
	if c.QBittorrent.Enabled && (c.QBittorrent.Port <= 0 || c.QBittorrent.Port > 65535) {
		return fmt.Errorf("qbittorrent.port: %d out of range", c.QBittorrent.Port)
	}
	return nil
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "nyaa-tui", "config.toml")
}

// Load reads config from disk or returns defaults
func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the config at path. A missing file yields the defaults.
func LoadFrom(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("invalid %s: %w", path, err)
	}
	return cfg, nil
}

// SaveTo writes cfg to path, creating the directory if needed.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, cfg); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write encodes cfg as TOML.
func Write(w io.Writer, cfg Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}

// EnsureDownloadDir creates the download directory if it doesn't exist
func EnsureDownloadDir(cfg Config) error {
	return os.MkdirAll(cfg.Downloads.Path, 0755)
}
