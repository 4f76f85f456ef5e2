package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/litescript/nyaa-tui/internal/nyaa"
)

const dateLayout = "2006-01-02 15:04"

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func writeSearchResult(w io.Writer, r *nyaa.SearchResult) error {
	if len(r.Torrents) == 0 {
		_, err := fmt.Fprintln(w, "No results")
		return err
	}

	t := newTable("ID", "TYPE", "NAME", "CATEGORY", "SIZE", "DATE", "SE", "LE", "DL")
	for _, row := range r.Torrents {
		t.Row(
			strconv.Itoa(row.ViewID),
			string(row.Type),
			row.Name,
			row.Category.Title,
			row.Size,
			row.Timestamp.Format(dateLayout),
			strconv.Itoa(row.Seeders),
			strconv.Itoa(row.Leechers),
			strconv.Itoa(row.Completed),
		)
	}
	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}

	var footer []string
	if r.TotalResults > 0 {
		footer = append(footer, fmt.Sprintf("results %d-%d of %d", r.DisplayingFrom, r.DisplayingTo, r.TotalResults))
	}
	if r.CurrentPage > 0 {
		footer = append(footer, fmt.Sprintf("page %d", r.CurrentPage))
	}
	if r.HasNext() {
		footer = append(footer, fmt.Sprintf("next: --page %d", r.NextPage))
	}
	if len(footer) > 0 {
		_, err := fmt.Fprintln(w, strings.Join(footer, ", "))
		return err
	}
	return nil
}

func writeTorrentInfo(w io.Writer, info *nyaa.TorrentInfo) error {
	submitter := "Anonymous"
	if info.Submitter != nil {
		submitter = info.Submitter.Username
		if info.Submitter.Level != "" {
			submitter += " (" + string(info.Submitter.Level) + ")"
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", info.Name)
	for _, f := range [][2]string{
		{"Type", string(info.Type)},
		{"Category", info.Category.Title},
		{"Date", info.Timestamp.Format(dateLayout)},
		{"Submitter", submitter},
		{"Information", info.Information},
		{"Size", info.Size},
		{"Seeders", strconv.Itoa(info.Seeders)},
		{"Leechers", strconv.Itoa(info.Leechers)},
		{"Completed", strconv.Itoa(info.Completed)},
		{"Info hash", info.InfoHash},
		{"Torrent", info.TorrentURL},
		{"Magnet", info.MagnetLink},
	} {
		fmt.Fprintf(&b, "%-12s %s\n", f[0]+":", f[1])
	}

	if info.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", info.Description)
	}

	fmt.Fprintf(&b, "\nFiles (%d):\n", nyaa.CountFiles(info.Files))
	nyaa.Walk(info.Files, func(e nyaa.Entry, depth int) {
		indent := strings.Repeat("  ", depth+1)
		switch e := e.(type) {
		case *nyaa.Folder:
			fmt.Fprintf(&b, "%s%s/\n", indent, e.Name)
		case *nyaa.File:
			fmt.Fprintf(&b, "%s%s (%s)\n", indent, e.Name, e.Size)
		}
	})

	fmt.Fprintf(&b, "\nComments (%d):\n", info.TotalComments)
	for _, c := range info.Comments {
		who := c.User.Username
		if c.IsUploader {
			who += " (uploader)"
		}
		fmt.Fprintf(&b, "  %s, %s\n    %s\n", who, c.Timestamp.Format(dateLayout), strings.ReplaceAll(c.Text, "\n", "\n    "))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeFeed(w io.Writer, feed *nyaa.RSSFeed) error {
	if _, err := fmt.Fprintln(w, feed.Title); err != nil {
		return err
	}
	t := newTable("ID", "TYPE", "NAME", "SIZE", "PUBLISHED", "SE", "LE", "LINK")
	for _, item := range feed.Torrents {
		t.Row(
			strconv.Itoa(item.ViewID),
			string(item.Type),
			item.Name,
			item.Size,
			item.PublishedAt.Format(dateLayout),
			strconv.Itoa(item.Seeders),
			strconv.Itoa(item.Leechers),
			item.Link(),
		)
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func writeCategories(w io.Writer, cats []nyaa.Category) error {
	t := newTable("ID", "KEY", "TITLE")
	for _, c := range cats {
		t.Row(c.ID, c.Key, c.Title)
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}
