package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	stealth "github.com/anatolykoptev/go-stealth"
	fhttp "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/cenkalti/backoff/v5"
)

// Browser wraps tls-client with a Chrome TLS fingerprint so watch-page
// requests survive TLS fingerprinting (JA3 hash). Useful when the default
// client keeps getting flagged as a bot.
type Browser struct {
	client tls_client.HttpClient
	jar    tls_client.CookieJar
}

// NewBrowser creates a client that impersonates Chrome 131.
func NewBrowser(cfg Config) (*Browser, error) {
	jar := tls_client.NewCookieJar()
	opts := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(int(cfg.timeout().Seconds())),
		tls_client.WithClientProfile(profiles.Chrome_131),
		tls_client.WithCookieJar(jar),
	}
	if proxy := cfg.HTTPSProxy; proxy != "" {
		opts = append(opts, tls_client.WithProxyUrl(proxy))
	} else if cfg.HTTPProxy != "" {
		opts = append(opts, tls_client.WithProxyUrl(cfg.HTTPProxy))
	}
	client, err := tls_client.NewHttpClient(nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("tls-client init: %w", err)
	}
	return &Browser{client: client, jar: jar}, nil
}

type statusError struct {
	code int
}

func (e *statusError) Error() string { return fmt.Sprintf("status %d", e.code) }

// Get fetches url with Chrome-like headers, retrying transient statuses
// with exponential backoff.
func (b *Browser) Get(ctx context.Context, rawurl string) ([]byte, int, error) {
	operation := func() (*fhttp.Response, error) {
		req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodGet, rawurl, nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}

		for k, v := range stealth.ChromeHeaders() {
			req.Header.Set(k, v)
		}
		req.Header.Set("accept-language", "en-US,en;q=0.9")

		// Chrome-like header order matters for fingerprinting
		req.Header[fhttp.HeaderOrderKey] = []string{
			"accept",
			"accept-language",
			"accept-encoding",
			"referer",
			"cookie",
			"user-agent",
		}

		resp, err := b.client.Do(req)
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("tls request: %w", err))
		}
		if stealth.IsRetryableStatus(resp.StatusCode) {
			resp.Body.Close()
			return nil, &statusError{code: resp.StatusCode}
		}
		return resp, nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 1 * time.Second
	bo.MaxInterval = 10 * time.Second

	resp, err := backoff.Retry(ctx, operation, backoff.WithBackOff(bo), backoff.WithMaxTries(3))
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

// SetCookies adds cookies for u to the tls-client session jar.
func (b *Browser) SetCookies(u *url.URL, cs []*http.Cookie) {
	converted := make([]*fhttp.Cookie, 0, len(cs))
	for _, c := range cs {
		converted = append(converted, &fhttp.Cookie{
			Name:    c.Name,
			Value:   c.Value,
			Domain:  c.Domain,
			Path:    c.Path,
			Expires: c.Expires,
			Secure:  c.Secure,
		})
	}
	b.jar.SetCookies(u, converted)
}
