package nyaa

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const (
	// DefaultTimeout bounds a whole request including the body read.
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:120.0) Gecko/20100101 Firefox/120.0"
)

// Client issues one request per call and parses the response. It holds no
// mutable state and is safe for concurrent use.
type Client struct {
	site       Site
	baseURL    string
	customBase bool
	timeout    time.Duration
	userAgent  string
	httpClient *http.Client
	log        zerolog.Logger
	rest       *resty.Client
}

// Option configures a Client.
type Option func(*Client)

// WithSite selects the site variant. Defaults to SiteFun.
func WithSite(site Site) Option {
	return func(c *Client) { c.site = site }
}

// WithBaseURL points the client at a mirror or a test server. Category
// ids are still resolved against the configured site.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL = strings.TrimRight(baseURL, "/"); baseURL != "" {
			c.baseURL = baseURL
			c.customBase = true
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithHTTPClient replaces the underlying transport (proxies, custom TLS).
// The client is copied, so the configured timeout applies to the copy and
// hc itself is left unchanged.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// NewClient creates a client for nyaa.si unless WithSite says otherwise.
func NewClient(opts ...Option) *Client {
	c := &Client{
		site:      SiteFun,
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if !c.customBase {
		c.baseURL = c.site.BaseURL()
	}

	if c.httpClient != nil {
		hc := *c.httpClient
		c.rest = resty.NewWithClient(&hc)
	} else {
		c.rest = resty.New()
	}
	c.rest.
		SetTimeout(c.timeout).
		SetHeader("User-Agent", c.userAgent)
	return c
}

// Site returns the site the client resolves categories against.
func (c *Client) Site() Site {
	return c.site
}

// BaseURL returns the root URL requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ForSite returns a copy of c bound to another site. Base URL and category
// table change together; c itself is left untouched.
func (c *Client) ForSite(site Site) *Client {
	cp := *c
	cp.site = site
	if !c.customBase {
		cp.baseURL = site.BaseURL()
	}
	return &cp
}

// ViewURL returns the detail page URL of a torrent.
func (c *Client) ViewURL(viewID int) string {
	return fmt.Sprintf("%s/view/%d", c.baseURL, viewID)
}

// DownloadURL returns the .torrent URL of a torrent.
func (c *Client) DownloadURL(viewID int) string {
	return fmt.Sprintf("%s/download/%d.torrent", c.baseURL, viewID)
}

// SearchOptions are the listing query parameters. Zero values are left out
// of the request, except Filter, Category and Page which always go out with
// their defaults.
type SearchOptions struct {
	Term      string
	Username  string
	Filter    QualityFilter
	Category  *Category // nil or zero selects all categories
	SortBy    SortBy
	SortOrder SortOrder
	Page      int // < 1 means the first page
}

// Search fetches one listing page. With Username set the user's own
// listing is searched.
func (c *Client) Search(ctx context.Context, opts SearchOptions) (*SearchResult, error) {
	category, err := c.resolveCategory(opts.Category)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	if opts.Term != "" {
		params.Set("q", opts.Term)
	}
	params.Set("f", strconv.Itoa(int(opts.Filter)))
	params.Set("c", category.ID)
	page := opts.Page
	if page < 1 {
		page = 1
	}
	params.Set("p", strconv.Itoa(page))
	if opts.SortBy != "" {
		params.Set("s", string(opts.SortBy))
	}
	if opts.SortOrder != "" {
		params.Set("o", string(opts.SortOrder))
	}

	path := "/"
	if opts.Username != "" {
		path = "/user/" + url.PathEscape(opts.Username)
	}

	resp, err := c.get(ctx, path, params)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, c.statusError(resp)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("parse listing: %w", err)
	}
	result, err := ParseSearchResult(doc, c.site, c.baseURL)
	if err != nil {
		c.log.Warn().Err(err).Str("url", requestURL(resp)).Msg("listing extraction failed")
		return nil, fmt.Errorf("parse listing: %w", err)
	}
	return result, nil
}

// TorrentInfo fetches a detail page. A 404 answer is reported as
// ErrTorrentNotFound, any other failure as a *TransportError.
func (c *Client) TorrentInfo(ctx context.Context, viewID int) (*TorrentInfo, error) {
	if viewID <= 0 {
		return nil, fmt.Errorf("invalid view id %d", viewID)
	}

	resp, err := c.get(ctx, "/view/"+strconv.Itoa(viewID), nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %d", ErrTorrentNotFound, viewID)
	}
	if !resp.IsSuccess() {
		return nil, c.statusError(resp)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("parse torrent %d: %w", viewID, err)
	}
	info, err := ParseTorrentInfo(doc, c.site, c.baseURL, viewID)
	if err != nil {
		c.log.Warn().Err(err).Int("view_id", viewID).Msg("detail extraction failed")
		return nil, fmt.Errorf("parse torrent %d: %w", viewID, err)
	}
	return info, nil
}

// FeedOptions are the RSS query parameters.
type FeedOptions struct {
	Term      string
	Username  string
	Filter    QualityFilter
	Category  *Category // nil or zero selects all categories
	UseMagnet bool      // item links are magnets instead of .torrent URLs
}

// Feed fetches the RSS feed for the given query.
func (c *Client) Feed(ctx context.Context, opts FeedOptions) (*RSSFeed, error) {
	category, err := c.resolveCategory(opts.Category)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("page", "rss")
	if opts.Term != "" {
		params.Set("q", opts.Term)
	}
	if opts.Username != "" {
		params.Set("u", opts.Username)
	}
	params.Set("f", strconv.Itoa(int(opts.Filter)))
	params.Set("c", category.ID)
	if opts.UseMagnet {
		params.Set("magnets", "true")
	}

	resp, err := c.get(ctx, "/", params)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, c.statusError(resp)
	}

	feed, err := ParseFeed(bytes.NewReader(resp.Body()), c.site, opts.UseMagnet)
	if err != nil {
		c.log.Warn().Err(err).Str("url", requestURL(resp)).Msg("feed extraction failed")
		return nil, err
	}
	return feed, nil
}

// resolveCategory defaults to "all categories" and rejects a category
// taken from the other site's table.
func (c *Client) resolveCategory(category *Category) (Category, error) {
	if category == nil || category.IsZero() {
		return AllCategories(c.site)
	}
	if category.Site != c.site {
		return Category{}, fmt.Errorf("%w: %q belongs to %s, client uses %s",
			ErrCategoryNotFound, category.ID, category.Site, c.site)
	}
	return LookupCategory(c.site, category.ID)
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (*resty.Response, error) {
	start := time.Now()
	req := c.rest.R().SetContext(ctx)
	if len(params) > 0 {
		req.SetQueryParamsFromValues(params)
	}

	resp, err := req.Get(c.baseURL + path)
	if err != nil {
		c.log.Debug().Err(err).Str("url", c.baseURL+path).Msg("request failed")
		return nil, &TransportError{URL: c.baseURL + path, Err: err}
	}

	c.log.Debug().
		Str("method", http.MethodGet).
		Str("url", requestURL(resp)).
		Int("status", resp.StatusCode()).
		Dur("took", time.Since(start)).
		Msg("request")
	return resp, nil
}

func (c *Client) statusError(resp *resty.Response) error {
	return &TransportError{URL: requestURL(resp), StatusCode: resp.StatusCode()}
}

func requestURL(resp *resty.Response) string {
	if resp.Request != nil && resp.Request.RawRequest != nil {
		return resp.Request.RawRequest.URL.String()
	}
	if resp.Request != nil {
		return resp.Request.URL
	}
	return ""
}
