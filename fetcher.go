package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"golang.org/x/net/html"

	"github.com/anatolykoptev/go-transcript/proxies"
)

const (
	watchPageURL = "https://www.youtube.com/watch?v="

	// consentFormAction marks the interstitial YouTube serves in regions
	// that require cookie consent before the watch page.
	consentFormAction = `action="https://consent.youtube.com/s"`

	// captchaMarker shows up instead of the player response when YouTube
	// has hard-blocked the requesting IP.
	captchaMarker = `class="g-recaptcha"`
)

// HTTPClient is the transport surface the pipeline consumes: fetch a URL,
// and persist session cookies across calls. transport.Client and
// transport.Browser both satisfy it.
type HTTPClient interface {
	Get(ctx context.Context, url string) (body []byte, statusCode int, err error)
	SetCookies(u *url.URL, cookies []*http.Cookie)
}

// fetcher drives transcript discovery for single videos: one watch-page
// fetch (with a single consent-cookie retry) and a bounded re-run loop when
// YouTube blocks the request.
type fetcher struct {
	client HTTPClient
	proxy  proxies.Config // nil when no proxy is configured
}

// fetchTranscriptList runs the full discovery sequence for videoID. When a
// blocked-kind failure occurs and the proxy configuration grants retries,
// the whole sequence is re-run from the watch-page fetch; any other failure
// propagates immediately. The final blocked failure is annotated with the
// active proxy configuration.
func (f *fetcher) fetchTranscriptList(ctx context.Context, videoID string) (*TranscriptList, error) {
	retries := 0
	if f.proxy != nil {
		retries = f.proxy.RetriesWhenBlocked()
	}

	for attempt := 0; ; attempt++ {
		list, err := f.fetchOnce(ctx, videoID)
		if err == nil {
			return list, nil
		}
		if !isBlocked(err) || attempt >= retries {
			return nil, f.annotateProxy(err)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		slog.Debug("request blocked, retrying discovery",
			slog.String("video_id", videoID),
			slog.Int("attempt", attempt+1),
			slog.Int("budget", retries),
		)
	}
}

func (f *fetcher) fetchOnce(ctx context.Context, videoID string) (*TranscriptList, error) {
	body, err := f.fetchWatchPage(ctx, videoID)
	if err != nil {
		return nil, err
	}

	raw, err := extractVar(body, playerResponseVar, videoID)
	if err != nil {
		// A CAPTCHA challenge page has no player response at all; report
		// the block instead of an extraction failure.
		if bytes.Contains(body, []byte(captchaMarker)) {
			return nil, &IPBlockedError{VideoID: videoID}
		}
		return nil, err
	}

	var response playerResponse
	if err := json.Unmarshal(raw, &response); err != nil {
		return nil, &DataUnparsableError{VideoID: videoID, Err: err}
	}

	if err := checkPlayability(response.PlayabilityStatus, videoID); err != nil {
		return nil, err
	}

	var renderer *captionsRenderer
	if response.Captions != nil {
		renderer = response.Captions.Renderer
	}
	return buildTranscriptList(f, videoID, renderer)
}

// fetchWatchPage retrieves the watch page, transparently answering the
// consent interstitial once. A persisting interstitial is a hard failure.
func (f *fetcher) fetchWatchPage(ctx context.Context, videoID string) ([]byte, error) {
	body, err := f.get(ctx, videoID, watchPageURL+url.QueryEscape(videoID))
	if err != nil {
		return nil, err
	}
	if !bytes.Contains(body, []byte(consentFormAction)) {
		return body, nil
	}

	if err := f.createConsentCookie(body, videoID); err != nil {
		return nil, err
	}
	slog.Warn("consent interstitial received, refetching with consent cookie",
		slog.String("video_id", videoID))

	body, err = f.get(ctx, videoID, watchPageURL+url.QueryEscape(videoID))
	if err != nil {
		return nil, err
	}
	if bytes.Contains(body, []byte(consentFormAction)) {
		return nil, &FailedToCreateConsentCookieError{VideoID: videoID}
	}
	return body, nil
}

func (f *fetcher) get(ctx context.Context, videoID, rawurl string) ([]byte, error) {
	body, status, err := f.client.Get(ctx, rawurl)
	if err != nil {
		return nil, &RequestFailedError{VideoID: videoID, Err: err}
	}
	if status >= http.StatusBadRequest {
		return nil, &RequestFailedError{VideoID: videoID, Err: errors.New(http.StatusText(status))}
	}
	return body, nil
}

// fetchCaptionDocument retrieves one caption-track document. Per-track
// failures propagate directly; the blocked-retry loop covers list discovery
// only.
func (f *fetcher) fetchCaptionDocument(ctx context.Context, videoID, rawurl string) ([]byte, error) {
	return f.get(ctx, videoID, rawurl)
}

// createConsentCookie extracts the consent token from the interstitial and
// stores it on the session jar, the same cookie the "accept" form submit
// would set.
func (f *fetcher) createConsentCookie(body []byte, videoID string) error {
	token, ok := consentToken(body)
	if !ok {
		return &FailedToCreateConsentCookieError{VideoID: videoID}
	}
	u, _ := url.Parse("https://www.youtube.com/")
	f.client.SetCookies(u, []*http.Cookie{{
		Name:   "CONSENT",
		Value:  "YES+" + token,
		Domain: ".youtube.com",
		Path:   "/",
	}})
	return nil
}

// consentToken pulls the value of the hidden form input named "v" from the
// consent interstitial markup.
func consentToken(body []byte) (string, bool) {
	tokenizer := html.NewTokenizer(bytes.NewReader(body))
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			return "", false
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		token := tokenizer.Token()
		if token.Data != "input" {
			continue
		}
		var name, value string
		for _, attr := range token.Attr {
			switch attr.Key {
			case "name":
				name = attr.Val
			case "value":
				value = attr.Val
			}
		}
		if name == "v" && value != "" {
			return value, true
		}
	}
}

func isBlocked(err error) bool {
	var blocked *RequestBlockedError
	var ipBlocked *IPBlockedError
	return errors.As(err, &blocked) || errors.As(err, &ipBlocked)
}

// annotateProxy attaches the active proxy configuration to blocked-kind
// errors so their messages can explain proxy-specific remediation.
func (f *fetcher) annotateProxy(err error) error {
	if f.proxy == nil {
		return err
	}
	var blocked *RequestBlockedError
	if errors.As(err, &blocked) {
		blocked.Proxy = f.proxy
	}
	var ipBlocked *IPBlockedError
	if errors.As(err, &ipBlocked) {
		ipBlocked.Proxy = f.proxy
	}
	return err
}
