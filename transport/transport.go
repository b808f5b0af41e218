// Package transport provides the HTTP clients used for transcript
// retrieval: a plain net/http client and a browser-impersonating tls-client
// variant. Both keep a session cookie jar and can route through a forward
// proxy.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	stealth "github.com/anatolykoptev/go-stealth"
)

// maxBodySize caps watch-page and caption-document reads. Watch pages run
// well over a megabyte of inline JSON.
const maxBodySize = 6 * 1024 * 1024

// Config holds transport construction parameters.
type Config struct {
	// Jar is the session cookie jar. A fresh in-memory jar is created when
	// nil; pass a pre-populated jar to reuse authentication cookies.
	Jar http.CookieJar

	// HTTPProxy and HTTPSProxy are forward-proxy URLs per target scheme.
	// Empty values fall back to the process environment.
	HTTPProxy  string
	HTTPSProxy string

	// DisableKeepAlives forces a new connection per request, required for
	// rotating proxies to hand out a fresh IP each time.
	DisableKeepAlives bool

	Timeout time.Duration
}

func (c Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return 30 * time.Second
}

func (c Config) jar() (http.CookieJar, error) {
	if c.Jar != nil {
		return c.Jar, nil
	}
	return cookiejar.New(nil)
}

// Client wraps net/http with scrape-friendly defaults: randomized Chrome
// User-Agent, en-US Accept-Language, bounded retries on transient failures,
// and a shared cookie jar.
type Client struct {
	client *http.Client
}

// New builds a Client from cfg.
func New(cfg Config) (*Client, error) {
	jar, err := cfg.jar()
	if err != nil {
		return nil, fmt.Errorf("cookie jar init: %w", err)
	}
	return &Client{
		client: &http.Client{
			Timeout: cfg.timeout(),
			Jar:     jar,
			Transport: &http.Transport{
				Proxy:               proxyFunc(cfg),
				DisableKeepAlives:   cfg.DisableKeepAlives,
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 5,
				IdleConnTimeout:     30 * time.Second,
				TLSHandshakeTimeout: 15 * time.Second,
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return errors.New("stopped after 10 redirects")
				}
				return nil
			},
		},
	}, nil
}

// proxyFunc selects a proxy URL by target scheme, falling back to the
// process environment when none is configured.
func proxyFunc(cfg Config) func(*http.Request) (*url.URL, error) {
	if cfg.HTTPProxy == "" && cfg.HTTPSProxy == "" {
		return http.ProxyFromEnvironment
	}
	return func(req *http.Request) (*url.URL, error) {
		raw := cfg.HTTPProxy
		if req.URL.Scheme == "https" && cfg.HTTPSProxy != "" {
			raw = cfg.HTTPSProxy
		}
		if raw == "" {
			return nil, nil
		}
		return url.Parse(raw)
	}
}

// Get fetches url and returns the response body and status code. Transient
// failures (connection errors, 429, 5xx) are retried with backoff.
func (c *Client) Get(ctx context.Context, rawurl string) ([]byte, int, error) {
	resp, err := stealth.RetryHTTP(ctx, stealth.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawurl, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", stealth.RandomUserAgent())
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		return c.client.Do(req)
	})
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	return body, resp.StatusCode, nil
}

// SetCookies adds cookies for u to the session jar.
func (c *Client) SetCookies(u *url.URL, cs []*http.Cookie) {
	c.client.Jar.SetCookies(u, cs)
}
