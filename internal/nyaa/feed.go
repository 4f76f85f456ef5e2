package nyaa

import (
	"fmt"
	"io"
	"strings"

	"github.com/mmcdole/gofeed"
)

// nyaaNamespace is the prefix the site declares for its item extensions
// (seeders, infoHash, categoryId, trusted, ...).
const nyaaNamespace = "nyaa"

// ParseFeed decodes an RSS document. useMagnet must match the "magnets"
// parameter the feed was requested with: it decides whether each item's
// link is stored as MagnetLink or TorrentURL.
func ParseFeed(r io.Reader, site Site, useMagnet bool) (*RSSFeed, error) {
	parsed, err := gofeed.NewParser().Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	feed := &RSSFeed{
		Title:       parsed.Title,
		Description: parsed.Description,
		Torrents:    make([]RSSTorrent, 0, len(parsed.Items)),
	}
	for i, item := range parsed.Items {
		t, err := parseFeedItem(item, site, useMagnet)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		feed.Torrents = append(feed.Torrents, t)
	}
	return feed, nil
}

func parseFeedItem(item *gofeed.Item, site Site, useMagnet bool) (RSSTorrent, error) {
	t := RSSTorrent{
		Type:        TorrentNormal,
		Name:        item.Title,
		Size:        nyaaExt(item, "size"),
		Published:   item.Published,
		InfoHash:    nyaaExt(item, "infoHash"),
		Description: item.Description,
	}
	var err error

	// trusted wins over remake when both are set.
	if strings.EqualFold(nyaaExt(item, "trusted"), "yes") {
		t.Type = TorrentTrusted
	} else if strings.EqualFold(nyaaExt(item, "remake"), "yes") {
		t.Type = TorrentRemake
	}

	guid := item.GUID
	if guid == "" {
		return t, missing("guid")
	}
	parts := strings.Split(guid, "/view/")
	if t.ViewID, err = atoi(parts[len(parts)-1], "view_id"); err != nil {
		return t, err
	}
	if t.ViewID == 0 {
		return t, missing("view_id")
	}

	if t.Category, err = LookupCategory(site, nyaaExt(item, "categoryId")); err != nil {
		return t, err
	}
	if item.PublishedParsed != nil {
		t.PublishedAt = item.PublishedParsed.UTC()
	}

	if item.Link == "" {
		return t, missing("link")
	}
	if useMagnet {
		t.MagnetLink = item.Link
	} else {
		t.TorrentURL = item.Link
	}

	if t.Seeders, err = atoi(nyaaExt(item, "seeders"), "seeders"); err != nil {
		return t, err
	}
	if t.Leechers, err = atoi(nyaaExt(item, "leechers"), "leechers"); err != nil {
		return t, err
	}
	if t.Completed, err = atoi(nyaaExt(item, "downloads"), "downloads"); err != nil {
		return t, err
	}
	if t.TotalComments, err = atoi(nyaaExt(item, "comments"), "comments"); err != nil {
		return t, err
	}
	if t.InfoHash == "" {
		return t, missing("info_hash")
	}
	return t, nil
}

// nyaaExt returns the text of the first nyaa:<name> element of item.
func nyaaExt(item *gofeed.Item, name string) string {
	values := item.Extensions[nyaaNamespace][name]
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0].Value)
}
