// Package proxies describes forward-proxy configurations for transcript
// retrieval. A Config is built once and read-only afterwards; the transport
// layer translates it into per-scheme proxy URLs.
package proxies

import (
	"fmt"
	"strings"
)

const (
	webshareDomain = "p.webshare.io"
	websharePort   = 80

	// Webshare rotating residential proxies hand out a fresh IP per request,
	// which is what makes retrying blocked requests worthwhile.
	webshareDefaultRetries = 10
)

// Config is the proxy surface the transport and fetcher layers consume.
type Config interface {
	// HTTPURL returns the proxy URL used for plain HTTP requests, or "".
	HTTPURL() string
	// HTTPSURL returns the proxy URL used for HTTPS requests, or "".
	HTTPSURL() string
	// PreventKeepingConnectionsAlive reports whether the transport should
	// disable keep-alives so each request can leave through a different IP.
	PreventKeepingConnectionsAlive() bool
	// RetriesWhenBlocked is the budget for re-running transcript discovery
	// after YouTube blocks a request.
	RetriesWhenBlocked() int
}

// GenericConfig routes requests through caller-supplied proxy URLs.
// It keeps connections alive and never retries blocked requests, since a
// static proxy would be blocked again on the very next attempt.
type GenericConfig struct {
	HTTP  string
	HTTPS string
}

func (c *GenericConfig) HTTPURL() string { return c.HTTP }

func (c *GenericConfig) HTTPSURL() string {
	if c.HTTPS != "" {
		return c.HTTPS
	}
	return c.HTTP
}

func (c *GenericConfig) PreventKeepingConnectionsAlive() bool { return false }

func (c *GenericConfig) RetriesWhenBlocked() int { return 0 }

// WebshareConfig routes requests through Webshare rotating residential
// proxies using the "-rotate" credential convention. Construct it with
// NewWebshare.
type WebshareConfig struct {
	Username string
	Password string

	// FilterIPLocations limits rotation to the given ISO country codes,
	// e.g. ["de", "us"].
	FilterIPLocations []string

	domain  string
	port    int
	retries int
}

// WebshareOption customizes a WebshareConfig.
type WebshareOption func(*WebshareConfig)

// WithRetriesWhenBlocked overrides the default blocked-retry budget.
func WithRetriesWhenBlocked(n int) WebshareOption {
	return func(c *WebshareConfig) { c.retries = n }
}

// WithFilterIPLocations limits proxy rotation to the given country codes.
func WithFilterIPLocations(locations ...string) WebshareOption {
	return func(c *WebshareConfig) { c.FilterIPLocations = locations }
}

// NewWebshare builds a rotating residential proxy configuration from
// Webshare credentials.
func NewWebshare(username, password string, opts ...WebshareOption) *WebshareConfig {
	c := &WebshareConfig{
		Username: username,
		Password: password,
		domain:   webshareDomain,
		port:     websharePort,
		retries:  webshareDefaultRetries,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *WebshareConfig) url() string {
	var locations string
	if len(c.FilterIPLocations) > 0 {
		locations = "-" + strings.Join(c.FilterIPLocations, "-")
	}
	return fmt.Sprintf("http://%s-rotate%s:%s@%s:%d/", c.Username, locations, c.Password, c.domain, c.port)
}

func (c *WebshareConfig) HTTPURL() string  { return c.url() }
func (c *WebshareConfig) HTTPSURL() string { return c.url() }

func (c *WebshareConfig) PreventKeepingConnectionsAlive() bool { return true }

func (c *WebshareConfig) RetriesWhenBlocked() int { return c.retries }
