// Package qbit provides a client for the qBittorrent Web API.
// It handles authentication and hands torrent URLs or magnet links over to
// qBittorrent for download.
package qbit

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// ErrLoginFailed is returned when qBittorrent rejects the credentials.
var ErrLoginFailed = errors.New("qbittorrent login failed")

// Client interfaces with qBittorrent Web API
type Client struct {
	baseURL  string
	username string
	password string
	rest     *resty.Client
	log      zerolog.Logger

	mu       sync.Mutex
	loggedIn bool
}

// NewClient creates a new qBittorrent API client
func NewClient(host string, port int, username, password string) *Client {
	return NewClientURL(fmt.Sprintf("http://%s:%d", host, port), username, password)
}

// NewClientURL creates a client for a Web UI reachable at baseURL.
func NewClientURL(baseURL, username, password string) *Client {
	// resty keeps a cookie jar, which carries the SID session cookie.
	rest := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(30 * time.Second).
		// qBittorrent rejects requests whose Referer/Origin does not match.
		SetHeader("Referer", strings.TrimRight(baseURL, "/"))

	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		password: password,
		rest:     rest,
		log:      zerolog.Nop(),
	}
}

// SetLogger attaches a logger for request tracing.
func (c *Client) SetLogger(log zerolog.Logger) {
	c.log = log
}

// Login authenticates with the qBittorrent API
func (c *Client) Login(ctx context.Context) error {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"username": c.username,
			"password": c.password,
		}).
		Post("/api/v2/auth/login")
	if err != nil {
		return fmt.Errorf("failed to connect to qBittorrent: %w", err)
	}

	body := strings.TrimSpace(resp.String())
	if resp.StatusCode() != http.StatusOK || body != "Ok." {
		c.log.Warn().Int("status", resp.StatusCode()).Str("body", body).Msg("qbittorrent login rejected")
		return fmt.Errorf("%w: %s", ErrLoginFailed, body)
	}

	c.mu.Lock()
	c.loggedIn = true
	c.mu.Unlock()
	return nil
}

// Version returns the qBittorrent version, logging in first if needed.
func (c *Client) Version(ctx context.Context) (string, error) {
	resp, err := c.authed(ctx, func() (*resty.Response, error) {
		return c.rest.R().SetContext(ctx).Get("/api/v2/app/version")
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.String()), nil
}

// AddURL adds a torrent by .torrent URL or magnet link. An empty savePath
// leaves the choice to qBittorrent.
func (c *Client) AddURL(ctx context.Context, link, savePath string) error {
	if link == "" {
		return errors.New("empty torrent link")
	}
	fields := map[string]string{"urls": link}
	if savePath != "" {
		fields["savepath"] = savePath
	}

	_, err := c.authed(ctx, func() (*resty.Response, error) {
		return c.rest.R().
			SetContext(ctx).
			SetMultipartFormData(fields).
			Post("/api/v2/torrents/add")
	})
	if err != nil {
		return fmt.Errorf("failed to add torrent: %w", err)
	}
	c.log.Info().Str("link", link).Str("save_path", savePath).Msg("torrent added")
	return nil
}

// authed runs do after making sure a session exists. An expired session
// (403) triggers one fresh login and a retry.
func (c *Client) authed(ctx context.Context, do func() (*resty.Response, error)) (*resty.Response, error) {
	c.mu.Lock()
	loggedIn := c.loggedIn
	c.mu.Unlock()

	if !loggedIn {
		if err := c.Login(ctx); err != nil {
			return nil, err
		}
	}

	resp, err := do()
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == http.StatusForbidden {
		if err := c.Login(ctx); err != nil {
			return nil, err
		}
		if resp, err = do(); err != nil {
			return nil, err
		}
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%s: HTTP %d: %s", resp.Request.URL, resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	return resp, nil
}
