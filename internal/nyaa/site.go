// Package nyaa scrapes torrent listings, detail pages and RSS feeds from
// nyaa.si and sukebei.nyaa.si and returns them as typed records.
//
// The extractors (ParseSearchResult, ParseTorrentInfo, ParseFeed) are pure
// functions over an already fetched document. Client wraps them with one
// HTTP request per call.
package nyaa

import (
	"fmt"
	"strings"
)

// Site selects one of the two upstream variants. Each variant has its own
// base URL and its own category table.
type Site int

const (
	SiteFun Site = iota // nyaa.si
	SiteFap             // sukebei.nyaa.si
)

var siteBaseURLs = map[Site]string{
	SiteFun: "https://nyaa.si",
	SiteFap: "https://sukebei.nyaa.si",
}

// BaseURL returns the site's root URL without a trailing slash.
func (s Site) BaseURL() string {
	return siteBaseURLs[s]
}

// String returns the short name used in config files and CLI flags.
func (s Site) String() string {
	switch s {
	case SiteFun:
		return "fun"
	case SiteFap:
		return "fap"
	default:
		return fmt.Sprintf("site(%d)", int(s))
	}
}

// Valid reports whether s is a known site.
func (s Site) Valid() bool {
	_, ok := siteBaseURLs[s]
	return ok
}

// ParseSite accepts a short name ("fun", "fap") or a host name.
func ParseSite(name string) (Site, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "fun", "nyaa", "nyaa.si", "https://nyaa.si":
		return SiteFun, nil
	case "fap", "sukebei", "sukebei.nyaa.si", "https://sukebei.nyaa.si":
		return SiteFap, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedSite, name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Site) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedSite, int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Site) UnmarshalText(text []byte) error {
	site, err := ParseSite(string(text))
	if err != nil {
		return err
	}
	*s = site
	return nil
}
