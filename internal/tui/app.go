// Package tui implements the terminal browser for nyaa: search with paging,
// a detail view with file tree and comments, the RSS feed, and hand-off of
// torrents to qBittorrent.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/litescript/nyaa-tui/internal/config"
	"github.com/litescript/nyaa-tui/internal/nyaa"
	"github.com/litescript/nyaa-tui/internal/theme"
	"github.com/rs/zerolog"
)

// View modes
type viewMode int

const (
	viewSearch viewMode = iota
	viewResults
	viewDetails
	viewFeed
)

// Downloader receives torrent links. *qbit.Client implements it.
type Downloader interface {
	AddURL(ctx context.Context, link, savePath string) error
	Version(ctx context.Context) (string, error)
}

// Model is the main application model
type Model struct {
	cfg    config.Config
	client *nyaa.Client
	qbit   Downloader
	log    zerolog.Logger

	// UI components
	searchInput textinput.Model
	spinner     spinner.Model
	details     viewport.Model

	// State
	mode      viewMode
	prevMode  viewMode
	cursor    int
	loading   bool
	statusMsg string
	filter    nyaa.QualityFilter
	query     string

	result *nyaa.SearchResult
	page   int
	info   *nyaa.TorrentInfo
	feed   *nyaa.RSSFeed

	qbitOnline  bool
	qbitVersion string
	downloaded  map[int]bool // by view id

	width  int
	height int
}

// Messages
type searchResultMsg struct {
	result *nyaa.SearchResult
	query  string
	page   int
	err    error
}

type detailMsg struct {
	info *nyaa.TorrentInfo
	err  error
}

type feedMsg struct {
	feed *nyaa.RSSFeed
	err  error
}

type torrentAddedMsg struct {
	viewID int
	name   string
	err    error
}

type qbitStatusMsg struct {
	version string
	err     error
}

type configReloadedMsg struct {
	cfg config.Config
	err error
}

// ConfigReloaded wraps a config watcher callback for tea.Program.Send.
func ConfigReloaded(cfg config.Config, err error) tea.Msg {
	return configReloadedMsg{cfg: cfg, err: err}
}

// NewModel creates the initial model. qb may be nil when qBittorrent
// integration is disabled.
func NewModel(cfg config.Config, client *nyaa.Client, qb Downloader, log zerolog.Logger) Model {
	ti := textinput.New()
	ti.Placeholder = "Search " + client.BaseURL() + "..."
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 50

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.CurrentPalette().Accent))

	filter, err := cfg.Nyaa.QualityFilter()
	if err != nil {
		filter = nyaa.NoFilter
	}

	return Model{
		cfg:         cfg,
		client:      client,
		qbit:        qb,
		log:         log,
		searchInput: ti,
		spinner:     sp,
		details:     viewport.New(80, 20),
		mode:        viewSearch,
		filter:      filter,
		page:        1,
		downloaded:  make(map[int]bool),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.checkQbitStatus(),
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		newModel, cmd := m.handleKeyPress(msg)
		if cmd != nil {
			return newModel, cmd
		}
		m = newModel.(Model)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.searchInput.Width = max(msg.Width-20, 10)
		m.details.Width = msg.Width
		m.details.Height = max(msg.Height-6, 3)
		if m.info != nil {
			m.details.SetContent(renderDetail(m.info, msg.Width))
		}

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case searchResultMsg:
		m.loading = false
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Search failed: %v", msg.err)
			break
		}
		m.result = msg.result
		m.query = msg.query
		m.page = msg.page
		m.cursor = 0
		m.mode = viewResults
		m.searchInput.Blur()
		if len(msg.result.Torrents) == 0 {
			m.statusMsg = "No results found"
		} else {
			m.statusMsg = pageSummary(msg.result)
		}

	case detailMsg:
		m.loading = false
		if msg.err != nil {
			if errors.Is(msg.err, nyaa.ErrTorrentNotFound) {
				m.statusMsg = "Torrent no longer exists"
			} else {
				m.statusMsg = fmt.Sprintf("Details failed: %v", msg.err)
			}
			break
		}
		m.info = msg.info
		m.prevMode = m.mode
		m.mode = viewDetails
		m.details.SetContent(renderDetail(msg.info, m.width))
		m.details.GotoTop()
		m.statusMsg = fmt.Sprintf("%d files, %d comments", nyaa.CountFiles(msg.info.Files), msg.info.TotalComments)

	case feedMsg:
		m.loading = false
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Feed failed: %v", msg.err)
			break
		}
		m.feed = msg.feed
		m.cursor = 0
		m.mode = viewFeed
		m.searchInput.Blur()
		m.statusMsg = fmt.Sprintf("%d feed items", len(msg.feed.Torrents))

	case torrentAddedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.statusMsg = fmt.Sprintf("Added: %s", TruncateString(msg.name, 40))
			m.downloaded[msg.viewID] = true
		}

	case qbitStatusMsg:
		m.qbitOnline = msg.err == nil
		m.qbitVersion = msg.version
		if msg.err != nil {
			m.log.Debug().Err(msg.err).Msg("qbittorrent unreachable")
		}

	case configReloadedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Config not reloaded: %v", msg.err)
			break
		}
		m = m.applyConfig(msg.cfg)
		theme.Refresh()
		m.statusMsg = fmt.Sprintf("Config reloaded (%s)", m.client.Site())
	}

	if m.searchInput.Focused() {
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// applyConfig swaps the client when site or connection settings changed.
// Results already on screen stay; the next request uses the new client.
func (m Model) applyConfig(cfg config.Config) Model {
	m.cfg = cfg
	opts := append(cfg.Nyaa.ClientOptions(), nyaa.WithLogger(m.log))
	m.client = nyaa.NewClient(opts...)
	if f, err := cfg.Nyaa.QualityFilter(); err == nil {
		m.filter = f
	}
	m.searchInput.Placeholder = "Search " + m.client.BaseURL() + "..."
	return m
}

// handled returns a no-op command to signal the key was handled
func handled() tea.Cmd {
	return func() tea.Msg { return nil }
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return m, tea.Quit
	}

	// Text input owns the keyboard while focused.
	if m.searchInput.Focused() {
		switch key {
		case "enter":
			query := m.searchInput.Value()
			return m.startLoading(m.doSearch(query, 1))
		case "esc":
			m.searchInput.Blur()
			if m.result != nil {
				m.mode = viewResults
			}
			return m, handled()
		case "ctrl+u":
			m.searchInput.SetValue("")
			return m, handled()
		}
		return m, nil
	}

	if m.mode == viewDetails {
		switch key {
		case "esc", "backspace", "h":
			m.mode = m.prevMode
			return m, handled()
		case "enter":
			if m.info != nil {
				return m, m.download(m.info.ViewID, m.info.Name, m.info.TorrentURL, m.info.MagnetLink)
			}
			return m, handled()
		case "o":
			m.statusMsg = m.client.ViewURL(m.info.ViewID)
			return m, handled()
		case "q":
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.details, cmd = m.details.Update(msg)
		if cmd == nil {
			cmd = handled()
		}
		return m, cmd
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "/", "i":
		m.mode = viewSearch
		return m, m.searchInput.Focus()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < m.rowCount()-1 {
			m.cursor++
		}
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = max(m.rowCount()-1, 0)
	case "n":
		if m.mode == viewResults && m.result != nil && m.result.HasNext() {
			return m.startLoading(m.doSearch(m.query, m.result.NextPage))
		}
	case "p":
		if m.mode == viewResults && m.result != nil && m.result.HasPrevious() {
			return m.startLoading(m.doSearch(m.query, m.result.PreviousPage))
		}
	case "d", "l", "right":
		if id := m.selectedViewID(); id > 0 {
			return m.startLoading(m.fetchDetail(id))
		}
	case "enter":
		return m, m.downloadSelected()
	case "f":
		m.filter = (m.filter + 1) % 3
		m.statusMsg = "Filter: " + m.filter.String()
		if m.mode == viewResults {
			return m.startLoading(m.doSearch(m.query, 1))
		}
	case "t":
		other := nyaa.SiteFap
		if m.client.Site() == nyaa.SiteFap {
			other = nyaa.SiteFun
		}
		m.client = m.client.ForSite(other)
		m.searchInput.Placeholder = "Search " + m.client.BaseURL() + "..."
		m.statusMsg = "Site: " + m.client.BaseURL()
		if m.mode == viewResults {
			return m.startLoading(m.doSearch(m.query, 1))
		}
	case "r":
		return m.startLoading(m.fetchFeed(m.query))
	case "esc":
		if m.mode == viewFeed && m.result != nil {
			m.mode = viewResults
			m.cursor = 0
		}
	}
	return m, handled()
}

func (m Model) startLoading(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.loading = true
	m.statusMsg = ""
	return m, tea.Batch(cmd, m.spinner.Tick)
}

func (m Model) rowCount() int {
	switch m.mode {
	case viewResults:
		if m.result != nil {
			return len(m.result.Torrents)
		}
	case viewFeed:
		if m.feed != nil {
			return len(m.feed.Torrents)
		}
	}
	return 0
}

func (m Model) selectedViewID() int {
	if m.cursor >= m.rowCount() {
		return 0
	}
	if m.mode == viewFeed {
		return m.feed.Torrents[m.cursor].ViewID
	}
	return m.result.Torrents[m.cursor].ViewID
}

func (m Model) downloadSelected() tea.Cmd {
	if m.cursor >= m.rowCount() {
		return handled()
	}
	if m.mode == viewFeed {
		t := m.feed.Torrents[m.cursor]
		return m.download(t.ViewID, t.Name, t.TorrentURL, t.MagnetLink)
	}
	t := m.result.Torrents[m.cursor]
	return m.download(t.ViewID, t.Name, t.TorrentURL, t.MagnetLink)
}

// Commands
func (m Model) doSearch(query string, page int) tea.Cmd {
	client := m.client
	opts := nyaa.SearchOptions{
		Term:   query,
		Filter: m.filter,
		Page:   page,
	}
	return func() tea.Msg {
		result, err := client.Search(context.Background(), opts)
		return searchResultMsg{result: result, query: query, page: page, err: err}
	}
}

func (m Model) fetchDetail(viewID int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		info, err := client.TorrentInfo(context.Background(), viewID)
		return detailMsg{info: info, err: err}
	}
}

func (m Model) fetchFeed(query string) tea.Cmd {
	client := m.client
	opts := nyaa.FeedOptions{
		Term:      query,
		Filter:    m.filter,
		UseMagnet: m.cfg.Nyaa.UseMagnet,
	}
	return func() tea.Msg {
		feed, err := client.Feed(context.Background(), opts)
		return feedMsg{feed: feed, err: err}
	}
}

func (m Model) checkQbitStatus() tea.Cmd {
	qb := m.qbit
	if qb == nil {
		return nil
	}
	return func() tea.Msg {
		v, err := qb.Version(context.Background())
		return qbitStatusMsg{version: v, err: err}
	}
}

// download hands the preferred link to qBittorrent: the magnet when
// use_magnet is set and the row has one, the .torrent URL otherwise. Rows
// from a magnet feed carry no .torrent URL, so it is built from the view id.
func (m Model) download(viewID int, name, torrentURL, magnet string) tea.Cmd {
	if m.qbit == nil {
		return func() tea.Msg {
			return torrentAddedMsg{err: errors.New("qBittorrent integration is disabled")}
		}
	}
	link := torrentURL
	if link == "" {
		link = m.client.DownloadURL(viewID)
	}
	if m.cfg.Nyaa.UseMagnet && magnet != "" {
		link = magnet
	}
	qb := m.qbit
	savePath := m.cfg.Downloads.Path
	log := m.log
	return func() tea.Msg {
		err := qb.AddURL(context.Background(), link, savePath)
		if err != nil {
			log.Error().Err(err).Int("view_id", viewID).Msg("add torrent failed")
		}
		return torrentAddedMsg{viewID: viewID, name: name, err: err}
	}
}

func pageSummary(r *nyaa.SearchResult) string {
	s := fmt.Sprintf("%d results", len(r.Torrents))
	if r.TotalResults > 0 {
		s = fmt.Sprintf("%d-%d of %d", r.DisplayingFrom, r.DisplayingTo, r.TotalResults)
	}
	if r.CurrentPage > 0 {
		s += fmt.Sprintf(" | page %d", r.CurrentPage)
		if r.AvailablePages > 0 {
			s += fmt.Sprintf("/%d", r.AvailablePages)
		}
	}
	return s
}
