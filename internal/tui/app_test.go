package tui

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/litescript/nyaa-tui/internal/config"
	"github.com/litescript/nyaa-tui/internal/nyaa"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDownloader struct {
	mu    sync.Mutex
	links []string
	err   error
}

func (f *fakeDownloader) AddURL(_ context.Context, link, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.links = append(f.links, link)
	return f.err
}

func (f *fakeDownloader) Version(context.Context) (string, error) {
	return "v4.6.2", nil
}

// fixtureServer answers listings, detail pages and the feed from the nyaa
// package's test documents.
func fixtureServer(t *testing.T) *httptest.Server {
	t.Helper()
	read := func(name string) []byte {
		data, err := os.ReadFile(filepath.Join("..", "nyaa", "testdata", name))
		require.NoError(t, err)
		return data
	}
	listing, view, feed := read("listing.html"), read("view.html"), read("feed.xml")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Query().Get("page") == "rss":
			_, _ = w.Write(feed)
		case strings.HasPrefix(r.URL.Path, "/view/1690001"):
			_, _ = w.Write(view)
		case strings.HasPrefix(r.URL.Path, "/view/"):
			http.NotFound(w, r)
		default:
			_, _ = w.Write(listing)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestModel(t *testing.T, qb Downloader) Model {
	t.Helper()
	srv := fixtureServer(t)
	cfg := config.Default()
	cfg.Nyaa.BaseURL = srv.URL
	client := nyaa.NewClient(cfg.Nyaa.ClientOptions()...)
	m := NewModel(cfg, client, qb, zerolog.Nop())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 160, Height: 40})
	return updated.(Model)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func searched(t *testing.T, m Model) Model {
	t.Helper()
	msg := m.doSearch("frieren", 1)()
	m, _ = update(t, m, msg)
	require.Equal(t, viewResults, m.mode)
	return m
}

func TestSearchResults(t *testing.T) {
	m := newTestModel(t, nil)

	msg := m.doSearch("frieren", 2)()
	res, ok := msg.(searchResultMsg)
	require.True(t, ok)
	require.NoError(t, res.err)

	m, _ = update(t, m, msg)
	assert.Equal(t, viewResults, m.mode)
	assert.False(t, m.searchInput.Focused())
	assert.Equal(t, "frieren", m.query)
	assert.Len(t, m.result.Torrents, 3)
	assert.Equal(t, "76-150 of 287 | page 2/4", m.statusMsg)

	view := m.View()
	assert.Contains(t, view, "Frieren")
	assert.Contains(t, view, "[n] page 3")
}

func TestCursorMovement(t *testing.T) {
	m := searched(t, newTestModel(t, nil))

	m, _ = update(t, m, key("j"))
	m, _ = update(t, m, key("j"))
	m, _ = update(t, m, key("j"))
	assert.Equal(t, 2, m.cursor)

	m, _ = update(t, m, key("k"))
	assert.Equal(t, 1, m.cursor)

	m, _ = update(t, m, key("g"))
	assert.Equal(t, 0, m.cursor)
}

func TestDetailView(t *testing.T) {
	m := searched(t, newTestModel(t, nil))

	msg := m.fetchDetail(1690001)()
	m, _ = update(t, m, msg)
	require.Equal(t, viewDetails, m.mode)
	assert.Equal(t, "3 files, 2 comments", m.statusMsg)

	content := renderDetail(m.info, 120)
	assert.Contains(t, content, "Frieren S01/")
	assert.Contains(t, content, "NCOP.mkv")
	assert.Contains(t, content, "Batch coming next week.")
	assert.Contains(t, content, "BANNED")

	m, _ = update(t, m, key("esc"))
	assert.Equal(t, viewResults, m.mode)
}

func TestDetailNotFound(t *testing.T) {
	m := searched(t, newTestModel(t, nil))

	m, _ = update(t, m, m.fetchDetail(404)())
	assert.Equal(t, viewResults, m.mode)
	assert.Equal(t, "Torrent no longer exists", m.statusMsg)
}

func TestFeedView(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = update(t, m, m.fetchFeed("frieren")())
	require.Equal(t, viewFeed, m.mode)
	assert.Len(t, m.feed.Torrents, 3)
	assert.Contains(t, m.View(), "Torrent File RSS")
}

func TestDownloadPrefersTorrentURL(t *testing.T) {
	qb := &fakeDownloader{}
	m := searched(t, newTestModel(t, qb))

	_, cmd := update(t, m, key("enter"))
	require.NotNil(t, cmd)
	added, ok := cmd().(torrentAddedMsg)
	require.True(t, ok)
	require.NoError(t, added.err)
	assert.Equal(t, 1690001, added.viewID)
	assert.Equal(t, []string{m.client.BaseURL() + "/download/1690001.torrent"}, qb.links)

	m, _ = update(t, m, added)
	assert.True(t, m.downloaded[1690001])
	assert.Contains(t, m.statusMsg, "Added:")
}

func TestDownloadUseMagnet(t *testing.T) {
	qb := &fakeDownloader{}
	m := searched(t, newTestModel(t, qb))
	m.cfg.Nyaa.UseMagnet = true

	_, cmd := update(t, m, key("enter"))
	cmd()
	require.Len(t, qb.links, 1)
	assert.True(t, strings.HasPrefix(qb.links[0], "magnet:?"))
}

func TestDownloadBuildsTorrentURLForMagnetRows(t *testing.T) {
	qb := &fakeDownloader{}
	m := newTestModel(t, qb)

	added := m.download(1690003, "Remade OST", "", "magnet:?xt=urn:btih:cccc")().(torrentAddedMsg)
	require.NoError(t, added.err)
	assert.Equal(t, []string{m.client.BaseURL() + "/download/1690003.torrent"}, qb.links)

	m.cfg.Nyaa.UseMagnet = true
	m.download(1690003, "Remade OST", "", "magnet:?xt=urn:btih:cccc")()
	assert.Equal(t, "magnet:?xt=urn:btih:cccc", qb.links[1])
}

func TestDownloadFailure(t *testing.T) {
	qb := &fakeDownloader{err: errors.New("refused")}
	m := searched(t, newTestModel(t, qb))

	_, cmd := update(t, m, key("enter"))
	m, _ = update(t, m, cmd())
	assert.Equal(t, "Error: refused", m.statusMsg)
	assert.Empty(t, m.downloaded)
}

func TestDownloadDisabled(t *testing.T) {
	m := searched(t, newTestModel(t, nil))

	_, cmd := update(t, m, key("enter"))
	added := cmd().(torrentAddedMsg)
	assert.Error(t, added.err)
}

func TestSiteToggle(t *testing.T) {
	m := newTestModel(t, nil)
	m.searchInput.Blur()
	m.mode = viewFeed

	m, _ = update(t, m, key("t"))
	assert.Equal(t, nyaa.SiteFap, m.client.Site())
	m, _ = update(t, m, key("t"))
	assert.Equal(t, nyaa.SiteFun, m.client.Site())
}

func TestFilterCycle(t *testing.T) {
	m := newTestModel(t, nil)
	m.searchInput.Blur()
	m.mode = viewFeed

	m, _ = update(t, m, key("f"))
	assert.Equal(t, nyaa.NoRemakes, m.filter)
	m, _ = update(t, m, key("f"))
	assert.Equal(t, nyaa.TrustedOnly, m.filter)
	m, _ = update(t, m, key("f"))
	assert.Equal(t, nyaa.NoFilter, m.filter)
}

func TestPagingKeys(t *testing.T) {
	m := searched(t, newTestModel(t, nil))

	m, cmd := update(t, m, key("n"))
	require.NotNil(t, cmd)
	assert.True(t, m.loading)
}

func TestConfigReloaded(t *testing.T) {
	m := newTestModel(t, nil)

	cfg := m.cfg
	cfg.Nyaa.Site = nyaa.SiteFap
	cfg.Nyaa.BaseURL = ""
	cfg.Nyaa.Filter = "trusted-only"

	m, _ = update(t, m, ConfigReloaded(cfg, nil))
	assert.Equal(t, nyaa.SiteFap, m.client.Site())
	assert.Equal(t, "https://sukebei.nyaa.si", m.client.BaseURL())
	assert.Equal(t, nyaa.TrustedOnly, m.filter)

	m, _ = update(t, m, ConfigReloaded(config.Config{}, errors.New("bad toml")))
	assert.Equal(t, nyaa.SiteFap, m.client.Site())
	assert.Contains(t, m.statusMsg, "bad toml")
}

func TestQbitStatus(t *testing.T) {
	m := newTestModel(t, &fakeDownloader{})
	m, _ = update(t, m, m.checkQbitStatus()())
	assert.True(t, m.qbitOnline)
	assert.Equal(t, "v4.6.2", m.qbitVersion)

	assert.Nil(t, newTestModel(t, nil).checkQbitStatus())
}
