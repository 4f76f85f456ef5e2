package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/litescript/nyaa-tui/internal/nyaa"
)

const timeLayout = "2006-01-02 15:04"

// View renders the UI
func (m Model) View() string {
	styles := GetStyles()

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	contentHeight := max(m.height-6, 5)

	switch m.mode {
	case viewSearch:
		b.WriteString(styles.SearchPrompt.Render("> "))
		b.WriteString(m.searchInput.View())
		b.WriteString("\n\n")
		if m.result != nil {
			b.WriteString(m.renderResults(contentHeight - 2))
		}
	case viewResults:
		b.WriteString(m.renderResults(contentHeight))
	case viewFeed:
		b.WriteString(m.renderFeed(contentHeight))
	case viewDetails:
		b.WriteString(m.details.View())
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m Model) renderHeader() string {
	styles := GetStyles()

	left := styles.Header.Render("nyaa") + styles.Muted.Render(m.client.BaseURL())
	if m.query != "" {
		left += styles.Muted.Render("  q: ") + styles.Title.Render(m.query)
	}
	right := styles.Badge.Render(m.filter.String())
	if m.loading {
		right = m.spinner.View() + " " + right
	}

	pad := max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-1, 1)
	return left + strings.Repeat(" ", pad) + right
}

type column struct {
	title string
	width int
	left  bool
}

// tableColumns sizes the name column to whatever the fixed ones leave.
func (m Model) tableColumns() []column {
	cols := []column{
		{"NAME", 0, true},
		{"CATEGORY", 18, true},
		{"SIZE", 10, false},
		{"DATE", 16, false},
		{"SE", 5, false},
		{"LE", 5, false},
		{"DL", 6, false},
		{"", 6, true},
	}
	used := 2
	for _, c := range cols[1:] {
		used += c.width + 1
	}
	cols[0].width = max(m.width-used-1, 20)
	return cols
}

func (m Model) renderTable(height int, rows [][]string, types []nyaa.TorrentType, ids []int) string {
	styles := GetStyles()
	cols := m.tableColumns()

	var header []string
	for _, c := range cols {
		if c.left {
			header = append(header, PadRight(c.title, c.width))
		} else {
			header = append(header, PadLeft(c.title, c.width))
		}
	}
	var b strings.Builder
	b.WriteString(styles.TableHeader.Render("  " + strings.Join(header, " ")))
	b.WriteString("\n")

	visible := max(height-3, 1)
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := min(start+visible, len(rows))

	for i := start; i < end; i++ {
		var cells []string
		for j, c := range cols {
			if c.left {
				cells = append(cells, PadRight(rows[i][j], c.width))
			} else {
				cells = append(cells, PadLeft(rows[i][j], c.width))
			}
		}
		line := strings.Join(cells, " ")

		prefix := "  "
		if m.downloaded[ids[i]] {
			prefix = "✓ "
		}
		if i == m.cursor {
			b.WriteString(styles.TableSelected.Render(prefix + line))
		} else {
			b.WriteString(styles.ForType(types[i]).Render(prefix + line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderResults(height int) string {
	styles := GetStyles()
	if m.result == nil || len(m.result.Torrents) == 0 {
		return styles.Muted.Render("No results")
	}

	rows := make([][]string, len(m.result.Torrents))
	types := make([]nyaa.TorrentType, len(rows))
	ids := make([]int, len(rows))
	for i, t := range m.result.Torrents {
		rows[i] = []string{
			t.Name,
			t.Category.Title,
			t.Size,
			t.Timestamp.Local().Format(timeLayout),
			strconv.Itoa(t.Seeders),
			strconv.Itoa(t.Leechers),
			strconv.Itoa(t.Completed),
			commentBadge(t.TotalComments),
		}
		types[i] = t.Type
		ids[i] = t.ViewID
	}

	out := m.renderTable(height-1, rows, types, ids)
	return out + styles.Muted.Render(pagerLine(m.result))
}

func (m Model) renderFeed(height int) string {
	styles := GetStyles()
	if m.feed == nil || len(m.feed.Torrents) == 0 {
		return styles.Muted.Render("Feed is empty")
	}

	rows := make([][]string, len(m.feed.Torrents))
	types := make([]nyaa.TorrentType, len(rows))
	ids := make([]int, len(rows))
	for i, t := range m.feed.Torrents {
		date := t.Published
		if !t.PublishedAt.IsZero() {
			date = t.PublishedAt.Local().Format(timeLayout)
		}
		rows[i] = []string{
			t.Name,
			t.Category.Title,
			t.Size,
			date,
			strconv.Itoa(t.Seeders),
			strconv.Itoa(t.Leechers),
			strconv.Itoa(t.Completed),
			commentBadge(t.TotalComments),
		}
		types[i] = t.Type
		ids[i] = t.ViewID
	}
	return styles.PanelTitle.Render(m.feed.Title) + "\n" + m.renderTable(height-1, rows, types, ids)
}

func commentBadge(n int) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("💬%d", n)
}

// pagerLine describes the page position and which of n/p are available.
func pagerLine(r *nyaa.SearchResult) string {
	var parts []string
	if r.HasPrevious() {
		parts = append(parts, fmt.Sprintf("[p] page %d", r.PreviousPage))
	}
	if r.CurrentPage > 0 {
		cur := fmt.Sprintf("page %d", r.CurrentPage)
		if r.AvailablePages > 0 {
			cur += fmt.Sprintf(" of %d+", r.AvailablePages)
		}
		parts = append(parts, cur)
	}
	if r.HasNext() {
		parts = append(parts, fmt.Sprintf("[n] page %d", r.NextPage))
	}
	return strings.Join(parts, "  ")
}

// renderDetail formats a detail page for the viewport.
func renderDetail(info *nyaa.TorrentInfo, width int) string {
	styles := GetStyles()
	width = max(width, 40)

	var b strings.Builder
	b.WriteString(styles.ForType(info.Type).Bold(true).Render(info.Name))
	b.WriteString("\n\n")

	submitter := "Anonymous"
	if info.Submitter != nil {
		submitter = userLabel(*info.Submitter)
	}
	fields := [][2]string{
		{"Category", info.Category.Title},
		{"Date", info.Timestamp.Local().Format(timeLayout)},
		{"Submitter", submitter},
		{"Information", info.Information},
		{"Size", info.Size},
		{"Peers", fmt.Sprintf("%s seeders, %s leechers, %d completed",
			styles.Seeders.Render(strconv.Itoa(info.Seeders)),
			styles.Leechers.Render(strconv.Itoa(info.Leechers)),
			info.Completed)},
		{"Health", HealthBar(info.Seeders, info.Leechers, 10)},
		{"Info hash", info.InfoHash},
		{"Torrent", info.TorrentURL},
	}
	for _, f := range fields {
		b.WriteString(styles.Muted.Render(PadRight(f[0]+":", 13)))
		b.WriteString(f[1])
		b.WriteString("\n")
	}

	if info.Description != "" {
		b.WriteString("\n")
		b.WriteString(styles.PanelTitle.Render("Description"))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(width - 2).Render(info.Description))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.PanelTitle.Render(fmt.Sprintf("Files (%d)", nyaa.CountFiles(info.Files))))
	b.WriteString("\n")
	b.WriteString(renderFileTree(info.Files))

	b.WriteString("\n")
	b.WriteString(styles.PanelTitle.Render(fmt.Sprintf("Comments (%d)", info.TotalComments)))
	b.WriteString("\n")
	for _, c := range info.Comments {
		who := userLabel(c.User)
		if c.IsUploader {
			who += styles.Trusted.Render(" (uploader)")
		}
		b.WriteString(who + styles.Muted.Render("  "+c.Timestamp.Local().Format(timeLayout)))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(width - 4).PaddingLeft(2).Render(c.Text))
		b.WriteString("\n\n")
	}
	return b.String()
}

// renderFileTree indents entries by depth, folders first as in the page.
func renderFileTree(entries []nyaa.Entry) string {
	styles := GetStyles()
	var b strings.Builder
	nyaa.Walk(entries, func(e nyaa.Entry, depth int) {
		indent := strings.Repeat("  ", depth+1)
		switch e := e.(type) {
		case *nyaa.Folder:
			b.WriteString(indent + styles.Title.Render("▸ "+e.Name+"/"))
		case *nyaa.File:
			b.WriteString(indent + e.Name + styles.Muted.Render("  "+e.Size))
		}
		b.WriteString("\n")
	})
	return b.String()
}

func userLabel(u nyaa.User) string {
	styles := GetStyles()
	label := u.Username
	switch u.Level {
	case nyaa.UserTrusted:
		label = styles.Trusted.Render(label)
	case nyaa.UserModerator, nyaa.UserAdministrator:
		label = styles.HelpKey.Render(label) + styles.Muted.Render(" ["+string(u.Level)+"]")
	}
	if u.Banned {
		label += styles.Error.Render(" BANNED")
	}
	return label
}

func (m Model) renderStatusBar() string {
	styles := GetStyles()

	var qbitStr string
	switch {
	case m.qbit == nil:
		qbitStr = styles.Muted.Render("qBit off")
	case m.qbitOnline:
		qbitStr = styles.Seeders.Render("● qBit " + m.qbitVersion)
	default:
		qbitStr = styles.Leechers.Render("● qBit")
	}

	var help string
	switch {
	case m.searchInput.Focused():
		help = "[esc]Back [ctrl+u]Clear [enter]Search"
	case m.mode == viewDetails:
		help = "[↑↓]Scroll [enter]Download [o]URL [esc]Back [q]Quit"
	case m.mode == viewFeed:
		help = "[enter]Download [d]Details [f]Filter [t]Site [esc]Results [q]Quit"
	default:
		help = "[/]Search [enter]Download [d]Details [n/p]Page [f]Filter [t]Site [r]RSS [q]Quit"
	}

	left := m.statusMsg
	pad := max(m.width-lipgloss.Width(left)-lipgloss.Width(qbitStr)-2, 1)
	line1 := styles.StatusBar.Render(left) + strings.Repeat(" ", pad) + qbitStr

	return line1 + "\n" + styles.HelpKey.Render(help)
}
