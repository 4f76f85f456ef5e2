package nyaa

import (
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Helpers shared by the listing and detail extractors.

// requiredAttr returns attribute name of the first node in sel.
func requiredAttr(sel *goquery.Selection, name, field string) (string, error) {
	if sel.Length() == 0 {
		return "", missing(field)
	}
	v, ok := sel.First().Attr(name)
	if !ok {
		return "", missing(field)
	}
	return v, nil
}

// intText parses the trimmed text of sel as a non-negative integer.
func intText(sel *goquery.Selection, field string) (int, error) {
	if sel.Length() == 0 {
		return 0, missing(field)
	}
	return atoi(sel.First().Text(), field)
}

func atoi(s, field string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, missing(field)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, malformed(field, err)
	}
	if n < 0 {
		return 0, malformed(field, strconv.ErrRange)
	}
	return n, nil
}

// timestampAttr reads a data-timestamp attribute (epoch seconds) from sel
// or its first descendant carrying one. The displayed date is locale
// formatted and never parsed.
func timestampAttr(sel *goquery.Selection, field string) (time.Time, error) {
	if _, ok := sel.Attr("data-timestamp"); !ok {
		sel = sel.Find("[data-timestamp]")
	}
	raw, err := requiredAttr(sel, "data-timestamp", field)
	if err != nil {
		return time.Time{}, err
	}
	secs, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return time.Time{}, malformed(field, err)
	}
	return time.Unix(secs, 0).UTC(), nil
}

// viewIDFromHref extracts the id from "/view/123" or "/view/123#comments".
func viewIDFromHref(href string) (int, error) {
	_, rest, ok := strings.Cut(href, "/view/")
	if !ok {
		return 0, missing("view_id")
	}
	if i := strings.IndexAny(rest, "#?/"); i >= 0 {
		rest = rest[:i]
	}
	id, err := atoi(rest, "view_id")
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, malformed("view_id", strconv.ErrRange)
	}
	return id, nil
}

// categoryFromLink resolves an anchor pointing at "/?c=<id>".
func categoryFromLink(link *goquery.Selection, site Site) (Category, error) {
	href, err := requiredAttr(link, "href", "category")
	if err != nil {
		return Category{}, err
	}
	id := strings.TrimPrefix(href, "/?c=")
	if i := strings.IndexByte(id, '&'); i >= 0 {
		id = id[:i]
	}
	return LookupCategory(site, id)
}

// absURL prefixes site-relative paths with baseURL and leaves absolute
// URLs (gravatar, CDN) untouched.
func absURL(baseURL, ref string) string {
	if strings.HasPrefix(ref, "/") && !strings.HasPrefix(ref, "//") {
		return baseURL + ref
	}
	return ref
}

// ownText joins the trimmed text nodes that are direct children of sel
// with single spaces, skipping text inside nested elements.
func ownText(sel *goquery.Selection) string {
	var parts []string
	sel.Contents().Each(func(_ int, c *goquery.Selection) {
		if goquery.NodeName(c) != "#text" {
			return
		}
		if text := strings.TrimSpace(c.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, " ")
}

// colorClass returns the bootstrap colour of sel, either the bare first
// class of a listing row ("success") or the suffix of a "panel-<color>"
// class on a detail panel.
func colorClass(sel *goquery.Selection) string {
	class, _ := sel.Attr("class")
	fields := strings.Fields(class)
	for _, f := range fields {
		if color, ok := strings.CutPrefix(f, "panel-"); ok {
			return color
		}
	}
	if len(fields) > 0 {
		return fields[0]
	}
	return ""
}
