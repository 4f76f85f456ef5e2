package qbit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeQbit mimics the handful of Web API endpoints the client uses.
type fakeQbit struct {
	mu       sync.Mutex
	password string
	sid      string
	logins   int
	added    []map[string]string
}

func (f *fakeQbit) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.URL.Path {
	case "/api/v2/auth/login":
		f.logins++
		if r.FormValue("username") != "admin" || r.FormValue("password") != f.password {
			_, _ = w.Write([]byte("Fails."))
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "SID", Value: f.sid, Path: "/"})
		_, _ = w.Write([]byte("Ok."))
		return
	}

	if c, err := r.Cookie("SID"); err != nil || c.Value != f.sid {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("Forbidden"))
		return
	}

	switch r.URL.Path {
	case "/api/v2/app/version":
		_, _ = w.Write([]byte("v4.6.2"))
	case "/api/v2/torrents/add":
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.added = append(f.added, map[string]string{
			"urls":     r.FormValue("urls"),
			"savepath": r.FormValue("savepath"),
		})
		_, _ = w.Write([]byte("Ok."))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newFake(t *testing.T) (*fakeQbit, *Client) {
	t.Helper()
	fake := &fakeQbit{password: "adminadmin", sid: "abc"}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	return fake, NewClientURL(srv.URL, "admin", "adminadmin")
}

func TestLogin(t *testing.T) {
	_, c := newFake(t)
	require.NoError(t, c.Login(context.Background()))

	v, err := c.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v4.6.2", v)
}

func TestLoginRejected(t *testing.T) {
	fake, c := newFake(t)
	fake.password = "other"

	err := c.Login(context.Background())
	assert.ErrorIs(t, err, ErrLoginFailed)
}

func TestAddURLLogsInLazily(t *testing.T) {
	fake, c := newFake(t)

	magnet := "magnet:?xt=urn:btih:0123456789abcdef0123456789abcdef01234567&dn=Frieren"
	require.NoError(t, c.AddURL(context.Background(), magnet, "/data/anime"))
	require.NoError(t, c.AddURL(context.Background(), "https://nyaa.si/download/1.torrent", ""))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Equal(t, 1, fake.logins)
	assert.Equal(t, []map[string]string{
		{"urls": magnet, "savepath": "/data/anime"},
		{"urls": "https://nyaa.si/download/1.torrent", "savepath": ""},
	}, fake.added)
}

func TestAddURLRefreshesExpiredSession(t *testing.T) {
	fake, c := newFake(t)
	require.NoError(t, c.Login(context.Background()))

	fake.mu.Lock()
	fake.sid = "rotated"
	fake.mu.Unlock()

	require.NoError(t, c.AddURL(context.Background(), "magnet:?xt=urn:btih:aa", ""))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Equal(t, 2, fake.logins)
	assert.Len(t, fake.added, 1)
}

func TestAddURLEmpty(t *testing.T) {
	_, c := newFake(t)
	assert.Error(t, c.AddURL(context.Background(), "", ""))
}

func TestUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClientURL(url, "admin", "adminadmin")
	_, err := c.Version(context.Background())
	assert.Error(t, err)
}
