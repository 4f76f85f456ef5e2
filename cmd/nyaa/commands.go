package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/litescript/nyaa-tui/internal/config"
	"github.com/litescript/nyaa-tui/internal/nyaa"
	"github.com/litescript/nyaa-tui/internal/version"
	"github.com/spf13/cobra"
)

// queryFlags are shared by search and feed.
type queryFlags struct {
	user     string
	filter   string
	category string
	json     bool
}

func (q *queryFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&q.user, "user", "u", "", "limit to one uploader")
	f.StringVarP(&q.filter, "filter", "f", "", "no-filter, no-remakes or trusted-only (default from config)")
	f.StringVarP(&q.category, "category", "c", "", `category key or id, see "nyaa categories"`)
	f.BoolVar(&q.json, "json", false, "print JSON")
}

func (q *queryFlags) resolve(a *app) (nyaa.QualityFilter, *nyaa.Category, error) {
	raw := q.filter
	if raw == "" {
		raw = a.cfg.Nyaa.Filter
	}
	filter, err := nyaa.ParseQualityFilter(raw)
	if err != nil {
		return 0, nil, err
	}
	if q.category == "" {
		return filter, nil, nil
	}
	c, err := nyaa.LookupCategoryByKey(a.client.Site(), q.category)
	if err != nil {
		return 0, nil, err
	}
	return filter, &c, nil
}

func newSearchCmd(a *app) *cobra.Command {
	var (
		q     queryFlags
		sort  string
		order string
		page  int
	)
	cmd := &cobra.Command{
		Use:   "search [terms...]",
		Short: "Print one page of search results",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, category, err := q.resolve(a)
			if err != nil {
				return err
			}
			sortBy, err := nyaa.ParseSortBy(sort)
			if err != nil {
				return err
			}
			sortOrder, err := nyaa.ParseSortOrder(order)
			if err != nil {
				return err
			}

			result, err := a.client.Search(cmd.Context(), nyaa.SearchOptions{
				Term:      strings.Join(args, " "),
				Username:  q.user,
				Filter:    filter,
				Category:  category,
				SortBy:    sortBy,
				SortOrder: sortOrder,
				Page:      page,
			})
			if err != nil {
				return err
			}
			if q.json {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			return writeSearchResult(cmd.OutOrStdout(), result)
		},
	}
	q.register(cmd)
	cmd.Flags().StringVarP(&sort, "sort", "s", "", "comments, size, date, seeders, leechers or downloads")
	cmd.Flags().StringVarP(&order, "order", "o", "", "asc or desc")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	return cmd
}

func newViewCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "view <id>",
		Short: "Print a torrent's detail page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := viewID(args[0])
			if err != nil {
				return err
			}
			info, err := a.client.TorrentInfo(cmd.Context(), id)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), info)
			}
			return writeTorrentInfo(cmd.OutOrStdout(), info)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

// viewID accepts a bare id or a view URL.
func viewID(arg string) (int, error) {
	if _, rest, ok := strings.Cut(arg, "/view/"); ok {
		arg = rest
	}
	arg = strings.TrimRight(arg, "/")
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid torrent id %q", arg)
	}
	return id, nil
}

func newFeedCmd(a *app) *cobra.Command {
	var (
		q      queryFlags
		magnet bool
	)
	cmd := &cobra.Command{
		Use:   "feed [terms...]",
		Short: "Print the RSS feed for a query",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, category, err := q.resolve(a)
			if err != nil {
				return err
			}
			useMagnet := a.cfg.Nyaa.UseMagnet
			if cmd.Flags().Changed("magnet") {
				useMagnet = magnet
			}
			feed, err := a.client.Feed(cmd.Context(), nyaa.FeedOptions{
				Term:      strings.Join(args, " "),
				Username:  q.user,
				Filter:    filter,
				Category:  category,
				UseMagnet: useMagnet,
			})
			if err != nil {
				return err
			}
			if q.json {
				return writeJSON(cmd.OutOrStdout(), feed)
			}
			return writeFeed(cmd.OutOrStdout(), feed)
		},
	}
	q.register(cmd)
	cmd.Flags().BoolVar(&magnet, "magnet", false, "request magnet links instead of .torrent URLs (default from config)")
	return cmd
}

func newCategoriesCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List the categories of the selected site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cats := nyaa.Categories(a.client.Site())
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), cats)
			}
			return writeCategories(cmd.OutOrStdout(), cats)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newConfigCmd(a *app) *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: "Print the configuration after --site and --base-url are applied.\n" +
			"With --write it is saved to the --config path instead.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !write {
				return config.Write(cmd.OutOrStdout(), a.cfg)
			}
			if err := config.SaveTo(a.configPath, a.cfg); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", a.configPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&write, "write", false, "save to the config file")
	return cmd
}

func newVersionCmd(a *app) *cobra.Command {
	var (
		check   bool
		apiBase string
	)
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "nyaa v%s\n", version.Version)
			if !check {
				return nil
			}
			info, err := version.CheckForUpdate(cmd.Context(), apiBase)
			if err != nil {
				return err
			}
			if info.UpdateAvailable {
				fmt.Fprintf(out, "Update available: v%s (run: %s)\n", info.LatestVersion, version.InstallCommand())
			} else {
				fmt.Fprintln(out, "You're on the latest version")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "check GitHub for a newer release")
	cmd.Flags().StringVar(&apiBase, "github-api", version.GitHubAPI, "GitHub API root")
	_ = cmd.Flags().MarkHidden("github-api")
	return cmd
}
