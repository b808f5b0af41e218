package transcript

import (
	"context"

	"github.com/anatolykoptev/go-transcript/cookies"
	"github.com/anatolykoptev/go-transcript/proxies"
	"github.com/anatolykoptev/go-transcript/transport"
)

// Client is the entry point of the library. Its transport configuration
// (cookie jar, proxy) is fixed at construction; build a new Client to
// change it.
type Client struct {
	http  HTTPClient
	proxy proxies.Config
}

type options struct {
	httpClient HTTPClient
	proxy      proxies.Config
	cookieFile string
	browser    bool
}

// Option configures a Client.
type Option func(*options)

// WithHTTPClient injects a custom transport. Proxy and cookie-file options
// are ignored for the injected client; it is expected to be configured
// already.
func WithHTTPClient(c HTTPClient) Option {
	return func(o *options) { o.httpClient = c }
}

// WithProxyConfig routes all requests through the given proxy
// configuration and adopts its blocked-retry budget.
func WithProxyConfig(p proxies.Config) Option {
	return func(o *options) { o.proxy = p }
}

// WithCookieFile pre-populates the session jar from a Netscape-format
// cookie file, enabling age-restricted content for verified accounts.
func WithCookieFile(path string) Option {
	return func(o *options) { o.cookieFile = path }
}

// WithBrowserTransport uses the Chrome-impersonating tls-client transport
// instead of plain net/http.
func WithBrowserTransport() Option {
	return func(o *options) { o.browser = true }
}

// New builds a Client.
func New(opts ...Option) (*Client, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if o.httpClient != nil {
		return &Client{http: o.httpClient, proxy: o.proxy}, nil
	}

	var cfg transport.Config
	if o.proxy != nil {
		cfg.HTTPProxy = o.proxy.HTTPURL()
		cfg.HTTPSProxy = o.proxy.HTTPSURL()
		cfg.DisableKeepAlives = o.proxy.PreventKeepingConnectionsAlive()
	}
	if o.cookieFile != "" {
		jar, err := cookies.LoadNetscapeFile(o.cookieFile)
		if err != nil {
			return nil, err
		}
		cfg.Jar = jar
	}

	var client HTTPClient
	var err error
	if o.browser {
		client, err = transport.NewBrowser(cfg)
	} else {
		client, err = transport.New(cfg)
	}
	if err != nil {
		return nil, err
	}
	return &Client{http: client, proxy: o.proxy}, nil
}

func (c *Client) fetcher() *fetcher {
	return &fetcher{client: c.http, proxy: c.proxy}
}

// ListTranscripts retrieves the index of caption tracks available for a
// video, partitioned into manually created and auto-generated tracks.
func (c *Client) ListTranscripts(ctx context.Context, videoID string) (*TranscriptList, error) {
	return c.fetcher().fetchTranscriptList(ctx, videoID)
}

// FetchTranscript lists the video's tracks, picks the first one matching
// languageCodes (manual tracks beat generated ones within a code) and
// fetches its snippets.
func (c *Client) FetchTranscript(ctx context.Context, videoID string, languageCodes []string, preserveFormatting bool) (*FetchedTranscript, error) {
	list, err := c.ListTranscripts(ctx, videoID)
	if err != nil {
		return nil, err
	}
	t, err := list.FindTranscript(languageCodes)
	if err != nil {
		return nil, err
	}
	return t.Fetch(ctx, preserveFormatting)
}
