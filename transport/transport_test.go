package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClientGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NotEmpty(t, r.Header.Get("User-Agent"))
		require.Contains(t, r.Header.Get("Accept-Language"), "en-US")
		w.Write([]byte("hello"))
	}))
	defer srv.Close()

	c, err := New(Config{})
	require.NoError(t, err)

	body, status, err := c.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "hello", string(body))
}

func TestClientCookiePersistence(t *testing.T) {
	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("CONSENT"); err == nil {
			seen = c.Value
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c, err := New(Config{})
	require.NoError(t, err)

	u, _ := url.Parse(srv.URL)
	c.SetCookies(u, []*http.Cookie{{Name: "CONSENT", Value: "YES+token", Path: "/"}})

	_, _, err = c.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, "YES+token", seen)
}

func TestProxyFuncPerScheme(t *testing.T) {
	fn := proxyFunc(Config{HTTPProxy: "http://plain:1", HTTPSProxy: "http://secure:2"})

	httpsReq := &http.Request{URL: &url.URL{Scheme: "https", Host: "www.youtube.com"}}
	u, err := fn(httpsReq)
	require.NoError(t, err)
	require.Equal(t, "secure:2", u.Host)

	httpReq := &http.Request{URL: &url.URL{Scheme: "http", Host: "www.youtube.com"}}
	u, err = fn(httpReq)
	require.NoError(t, err)
	require.Equal(t, "plain:1", u.Host)
}
