package nyaa

import "time"

// SearchResultTorrent is one row of a listing page.
type SearchResultTorrent struct {
	Type            TorrentType `json:"type"`
	ViewID          int         `json:"view_id"`
	Name            string      `json:"name"`
	Category        Category    `json:"category"`
	CategoryIconURL string      `json:"category_icon_url"`
	TorrentURL      string      `json:"torrent_url"`
	MagnetLink      string      `json:"magnet_link"`
	Size            string      `json:"size"`
	Timestamp       time.Time   `json:"timestamp"`
	Seeders         int         `json:"seeders"`
	Leechers        int         `json:"leechers"`
	Completed       int         `json:"completed"`
	TotalComments   int         `json:"total_comments"`
}

// SearchResult is a parsed listing page. Page numbers are 0 when the page
// does not provide them.
//
// AvailablePages is read from the pagination control and only reflects the
// pages the site currently links to; more pages may exist past it.
type SearchResult struct {
	Torrents       []SearchResultTorrent `json:"torrents"`
	DisplayingFrom int                   `json:"displaying_from"`
	DisplayingTo   int                   `json:"displaying_to"`
	TotalResults   int                   `json:"total_results"`
	CurrentPage    int                   `json:"current_page,omitempty"`
	PreviousPage   int                   `json:"previous_page,omitempty"`
	NextPage       int                   `json:"next_page,omitempty"`
	AvailablePages int                   `json:"available_pages,omitempty"`
}

// HasNext reports whether the listing links to a following page.
func (r *SearchResult) HasNext() bool {
	return r.NextPage > 0
}

// HasPrevious reports whether the listing links to a preceding page.
func (r *SearchResult) HasPrevious() bool {
	return r.PreviousPage > 0
}

// User is a site account as rendered next to a torrent or comment.
type User struct {
	Username   string    `json:"username"`
	ProfileURL string    `json:"profile_url"`
	PhotoURL   string    `json:"photo_url,omitempty"`
	Level      UserLevel `json:"level,omitempty"`
	Banned     bool      `json:"banned,omitempty"`
}

// Entry is a node of a torrent's file tree: a *File or a *Folder.
type Entry interface {
	EntryName() string
	isEntry()
}

// File is a leaf of the file tree. Size is kept as displayed ("1.2 GiB").
type File struct {
	Name string `json:"name"`
	Size string `json:"size"`
}

func (f *File) EntryName() string { return f.Name }
func (*File) isEntry()            {}

// Folder owns its children in document order.
type Folder struct {
	Name  string  `json:"name"`
	Files []Entry `json:"files"`
}

func (f *Folder) EntryName() string { return f.Name }
func (*Folder) isEntry()            {}

// Walk visits entries depth-first in document order. depth starts at 0.
func Walk(entries []Entry, fn func(e Entry, depth int)) {
	walk(entries, 0, fn)
}

func walk(entries []Entry, depth int, fn func(Entry, int)) {
	for _, e := range entries {
		fn(e, depth)
		if folder, ok := e.(*Folder); ok {
			walk(folder.Files, depth+1, fn)
		}
	}
}

// CountFiles returns the number of files (not folders) in the tree.
func CountFiles(entries []Entry) int {
	n := 0
	Walk(entries, func(e Entry, _ int) {
		if _, ok := e.(*File); ok {
			n++
		}
	})
	return n
}

// Comment is one entry of a detail page's comment panel.
type Comment struct {
	ID         int       `json:"id"`
	User       User      `json:"user"`
	IsUploader bool      `json:"is_uploader"`
	Timestamp  time.Time `json:"timestamp"`
	Text       string    `json:"text"`
}

// TorrentInfo is a parsed detail page. Submitter is nil for anonymous
// uploads.
type TorrentInfo struct {
	ViewID        int         `json:"view_id"`
	Type          TorrentType `json:"type"`
	Name          string      `json:"name"`
	Category      Category    `json:"category"`
	TorrentURL    string      `json:"torrent_url"`
	MagnetLink    string      `json:"magnet_link"`
	Size          string      `json:"size"`
	Timestamp     time.Time   `json:"timestamp"`
	Seeders       int         `json:"seeders"`
	Leechers      int         `json:"leechers"`
	Completed     int         `json:"completed"`
	InfoHash      string      `json:"info_hash"`
	Submitter     *User       `json:"submitter"`
	Information   string      `json:"information"`
	Description   string      `json:"description"`
	Files         []Entry     `json:"files"`
	TotalComments int         `json:"total_comments"`
	Comments      []Comment   `json:"comments"`
}

// RSSTorrent is one feed item. Exactly one of TorrentURL and MagnetLink is
// set, depending on whether the feed was requested with magnets.
type RSSTorrent struct {
	Type          TorrentType `json:"type"`
	ViewID        int         `json:"view_id"`
	Name          string      `json:"name"`
	Category      Category    `json:"category"`
	Size          string      `json:"size"`
	Published     string      `json:"published"`
	PublishedAt   time.Time   `json:"published_at"`
	TorrentURL    string      `json:"torrent_url,omitempty"`
	MagnetLink    string      `json:"magnet_link,omitempty"`
	Seeders       int         `json:"seeders"`
	Leechers      int         `json:"leechers"`
	Completed     int         `json:"completed"`
	InfoHash      string      `json:"info_hash"`
	Description   string      `json:"description"`
	TotalComments int         `json:"total_comments"`
}

// Link returns whichever download link the item carries.
func (t RSSTorrent) Link() string {
	if t.MagnetLink != "" {
		return t.MagnetLink
	}
	return t.TorrentURL
}

// RSSFeed is a parsed RSS document.
type RSSFeed struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Torrents    []RSSTorrent `json:"torrents"`
}
