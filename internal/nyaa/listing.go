package nyaa

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseSearchResult extracts the torrent rows and pagination of a listing
// page. Any malformed row fails the whole page.
func ParseSearchResult(doc *goquery.Document, site Site, baseURL string) (*SearchResult, error) {
	result := &SearchResult{Torrents: []SearchResultTorrent{}}

	var rowErr error
	doc.Find("table.torrent-list tbody tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		t, err := parseListingRow(row, site, baseURL)
		if err != nil {
			rowErr = fmt.Errorf("row %d: %w", i, err)
			return false
		}
		result.Torrents = append(result.Torrents, t)
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}

	parsePageInfo(doc.Selection, result)
	if err := parsePagination(doc.Selection, result); err != nil {
		return nil, err
	}
	return result, nil
}

func parseListingRow(row *goquery.Selection, site Site, baseURL string) (SearchResultTorrent, error) {
	var t SearchResultTorrent
	var err error

	if t.Type, err = TorrentTypeFromColor(colorClass(row)); err != nil {
		return t, err
	}

	if t.Category, err = categoryFromLink(row.Find("a[href^='/?c=']").First(), site); err != nil {
		return t, err
	}
	icon, err := requiredAttr(row.Find("img.category-icon"), "src", "category_icon")
	if err != nil {
		return t, err
	}
	t.CategoryIconURL = absURL(baseURL, icon)

	// The name cell holds an optional comment badge followed by the title
	// link; both point at /view/<id>, the last one is the title.
	nameCell := row.Find("td[colspan='2']").First()
	if comments := nameCell.Find("a.comments").First(); comments.Length() > 0 {
		if t.TotalComments, err = intText(comments, "total_comments"); err != nil {
			return t, err
		}
	}
	title := nameCell.Find("a[href^='/view/']").Last()
	href, err := requiredAttr(title, "href", "view_id")
	if err != nil {
		return t, err
	}
	if t.ViewID, err = viewIDFromHref(href); err != nil {
		return t, err
	}
	t.Name, _ = title.Attr("title")
	if t.Name == "" {
		t.Name = strings.TrimSpace(title.Text())
	}
	if t.Name == "" {
		return t, missing("name")
	}

	cells := row.Find("td.text-center")
	if cells.Length() < 6 {
		return t, missing("stats")
	}

	links := cells.Eq(0)
	torrent, err := requiredAttr(links.Find("a[href^='/download/']"), "href", "torrent_url")
	if err != nil {
		return t, err
	}
	t.TorrentURL = absURL(baseURL, torrent)
	if t.MagnetLink, err = requiredAttr(links.Find("a[href^='magnet:']"), "href", "magnet_link"); err != nil {
		return t, err
	}

	t.Size = strings.TrimSpace(cells.Eq(1).Text())
	if t.Timestamp, err = timestampAttr(cells.Eq(2), "timestamp"); err != nil {
		return t, err
	}
	if t.Seeders, err = intText(cells.Eq(3), "seeders"); err != nil {
		return t, err
	}
	if t.Leechers, err = intText(cells.Eq(4), "leechers"); err != nil {
		return t, err
	}
	if t.Completed, err = intText(cells.Eq(5), "completed"); err != nil {
		return t, err
	}
	return t, nil
}

var pageInfoRe = regexp.MustCompile(`Displaying results (\d+)-(\d+) out of (\d+) results`)

// parsePageInfo reads the "Displaying results A-B out of N results." line.
// The line is absent when nothing matched.
func parsePageInfo(doc *goquery.Selection, result *SearchResult) {
	info := doc.Find("div.pagination-page-info").First()
	if info.Length() == 0 {
		return
	}
	m := pageInfoRe.FindStringSubmatch(info.Text())
	if m == nil {
		return
	}
	result.DisplayingFrom, _ = strconv.Atoi(m[1])
	result.DisplayingTo, _ = strconv.Atoi(m[2])
	result.TotalResults, _ = strconv.Atoi(m[3])
}

var digitsRe = regexp.MustCompile(`\d+`)

// parsePagination fills the page numbers. A listing with a single page of
// results renders no pagination control at all.
func parsePagination(doc *goquery.Selection, result *SearchResult) error {
	pagination := doc.Find("ul.pagination").First()
	if pagination.Length() == 0 {
		if len(result.Torrents) > 0 {
			result.CurrentPage = 1
			result.AvailablePages = 1
		}
		return nil
	}

	prev := pagination.Find("li.previous:not(.disabled):not(.unavailable) a[href]").First()
	if prev.Length() == 0 {
		prev = pagination.Find("li:not(.disabled):not(.unavailable) a[rel='prev']").First()
	}
	if prev.Length() > 0 {
		// The link back to the first page usually omits p.
		page, err := pageFromLink(prev, "previous_page")
		if err != nil {
			return err
		}
		if page == 0 {
			page = 1
		}
		result.PreviousPage = page
	}

	next := pagination.Find("li.next:not(.disabled):not(.unavailable) a[href]").First()
	if next.Length() == 0 {
		next = pagination.Find("li:not(.disabled):not(.unavailable) a[rel='next']").First()
	}
	if next.Length() > 0 {
		page, err := pageFromLink(next, "next_page")
		if err != nil {
			return err
		}
		result.NextPage = page
	}

	if active := pagination.Find("li.active a").First(); active.Length() > 0 {
		if m := digitsRe.FindString(active.Text()); m != "" {
			result.CurrentPage, _ = strconv.Atoi(m)
		}
	}

	// The last entry is the "next" arrow, so the one before it is the
	// highest page number the control links to. This follows the current
	// markup and is a hint, not a page count.
	// On the last page that entry is the active one, whose "(current)"
	// label sits in a nested span and is skipped by ownText.
	items := pagination.Find("li")
	if n := items.Length(); n >= 2 {
		text := ownText(items.Eq(n - 2).Find("a").First())
		if m := digitsRe.FindString(text); m != "" && m == text {
			result.AvailablePages, _ = strconv.Atoi(m)
		}
	}
	return nil
}

// pageFromLink returns the p query parameter of a navigation link, or 0
// when the link carries none.
func pageFromLink(link *goquery.Selection, field string) (int, error) {
	href, _ := link.Attr("href")
	u, err := url.Parse(href)
	if err != nil {
		return 0, malformed(field, err)
	}
	p := u.Query().Get("p")
	if p == "" {
		return 0, nil
	}
	return atoi(p, field)
}
