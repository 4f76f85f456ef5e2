package main

import (
	"fmt"
	"io"

	"github.com/litescript/nyaa-tui/internal/config"
	"github.com/litescript/nyaa-tui/internal/logging"
	"github.com/litescript/nyaa-tui/internal/nyaa"
	"github.com/rs/zerolog"
)

// app carries the flags and the objects built from them.
type app struct {
	configPath string
	site       string
	baseURL    string
	verbose    bool

	cfg    config.Config
	log    zerolog.Logger
	closer io.Closer
	client *nyaa.Client

	// stderr overrides os.Stderr for console logging.
	stderr io.Writer
}

// setup loads the config, applies flag overrides, and builds the logger
// and client. console selects stderr logging when --verbose is set.
func (a *app) setup(console bool) error {
	cfg, err := config.LoadFrom(a.configPath)
	if err != nil {
		return err
	}
	if a.site != "" {
		site, err := nyaa.ParseSite(a.site)
		if err != nil {
			return fmt.Errorf("--site: %w", err)
		}
		cfg.Nyaa.Site = site
	}
	if a.baseURL != "" {
		cfg.Nyaa.BaseURL = a.baseURL
	}
	logCfg := cfg.Log
	if a.verbose {
		logCfg.Level = "debug"
	}

	log, closer, err := logging.New(logCfg, logging.Options{
		Console: console && a.verbose,
		Stderr:  a.stderr,
	})
	if err != nil {
		return err
	}
	if console && !a.verbose {
		// Subcommands without --verbose only report through their exit status.
		log = log.Level(zerolog.WarnLevel)
	}

	a.cfg = cfg
	a.log = log
	a.closer = closer
	a.client = nyaa.NewClient(append(cfg.Nyaa.ClientOptions(), nyaa.WithLogger(log))...)
	return nil
}

func (a *app) close() {
	if a.closer != nil {
		_ = a.closer.Close()
	}
}
