// nyaa browses nyaa.si and sukebei.nyaa.si from the terminal. Without a
// subcommand it starts the interactive browser; the subcommands print
// listings, detail pages, feeds and category tables for scripting.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/litescript/nyaa-tui/internal/config"
	"github.com/litescript/nyaa-tui/internal/qbit"
	"github.com/litescript/nyaa-tui/internal/tui"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(&app{}).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "nyaa",
		Short:         "Search and download from nyaa in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// The TUI owns the terminal, so it always logs to the file.
			return a.setup(cmd.Name() != "nyaa")
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.close()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTUI()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", config.ConfigPath(), "config file")
	flags.StringVar(&a.site, "site", "", `site to use: "fun" (nyaa.si) or "fap" (sukebei.nyaa.si)`)
	flags.StringVar(&a.baseURL, "base-url", "", "override the site address (mirrors)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log requests to stderr")

	root.AddCommand(
		newSearchCmd(a),
		newViewCmd(a),
		newFeedCmd(a),
		newCategoriesCmd(a),
		newConfigCmd(a),
		newVersionCmd(a),
	)
	return root
}

func (a *app) runTUI() error {
	if err := config.EnsureDownloadDir(a.cfg); err != nil {
		a.log.Warn().Err(err).Str("path", a.cfg.Downloads.Path).Msg("failed to create download dir")
	}

	var downloader tui.Downloader
	if qb := a.cfg.QBittorrent; qb.Enabled {
		c := qbit.NewClient(qb.Host, qb.Port, qb.Username, qb.Password)
		c.SetLogger(a.log)
		downloader = c
	}

	model := tui.NewModel(a.cfg, a.client, downloader, a.log)
	p := tea.NewProgram(model, tea.WithAltScreen())

	watcher, err := config.Watch(a.configPath, func(cfg config.Config, err error) {
		p.Send(tui.ConfigReloaded(cfg, err))
	})
	if err != nil {
		a.log.Warn().Err(err).Msg("config watcher not started")
	} else {
		defer watcher.Stop()
	}

	_, err = p.Run()
	return err
}
