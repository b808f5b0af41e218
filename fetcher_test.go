package transcript

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go-transcript/proxies"
)

// fakeClient replays a scripted sequence of responses and records the
// cookies it was handed.
type fakeClient struct {
	responses []fakeResponse
	calls     int
	cookies   []*http.Cookie
}

type fakeResponse struct {
	body   string
	status int
	err    error
}

func (f *fakeClient) Get(_ context.Context, _ string) ([]byte, int, error) {
	if f.calls >= len(f.responses) {
		return nil, 0, fmt.Errorf("unexpected request %d, only %d scripted", f.calls+1, len(f.responses))
	}
	r := f.responses[f.calls]
	f.calls++
	status := r.status
	if status == 0 {
		status = http.StatusOK
	}
	return []byte(r.body), status, r.err
}

func (f *fakeClient) SetCookies(_ *url.URL, cs []*http.Cookie) {
	f.cookies = append(f.cookies, cs...)
}

func watchPage(playerResponse string) string {
	return fmt.Sprintf(`<html><body><script>var ytInitialPlayerResponse = %s;</script></body></html>`, playerResponse)
}

const okPlayerResponse = `{
	"playabilityStatus": {"status": "OK"},
	"captions": {"playerCaptionsTracklistRenderer": {
		"captionTracks": [
			{"baseUrl": "https://www.youtube.com/api/timedtext?v=abc&lang=en", "name": {"simpleText": "English"}, "languageCode": "en", "isTranslatable": true}
		],
		"translationLanguages": [{"languageName": {"simpleText": "German"}, "languageCode": "de"}]
	}}
}`

const blockedPlayerResponse = `{"playabilityStatus": {"status": "LOGIN_REQUIRED", "reason": "Sign in to confirm you’re not a bot"}}`

const consentPage = `<html><body>
<form action="https://consent.youtube.com/s" method="POST">
	<input type="hidden" name="gl" value="DE">
	<input type="hidden" name="v" value="cb.20240101-00-p0.en+FX+000">
</form>
</body></html>`

func TestFetchTranscriptList(t *testing.T) {
	client := &fakeClient{responses: []fakeResponse{{body: watchPage(okPlayerResponse)}}}
	f := &fetcher{client: client}

	list, err := f.fetchTranscriptList(context.Background(), "abc")
	require.NoError(t, err)

	tr, err := list.FindTranscript([]string{"en"})
	require.NoError(t, err)
	assert.Equal(t, "English", tr.Language)
	assert.True(t, tr.IsTranslatable())
	assert.Equal(t, 1, client.calls)
}

func TestFetchConsentCookieFlow(t *testing.T) {
	client := &fakeClient{responses: []fakeResponse{
		{body: consentPage},
		{body: watchPage(okPlayerResponse)},
	}}
	f := &fetcher{client: client}

	_, err := f.fetchTranscriptList(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, 2, client.calls)

	require.Len(t, client.cookies, 1)
	cookie := client.cookies[0]
	assert.Equal(t, "CONSENT", cookie.Name)
	assert.Equal(t, "YES+cb.20240101-00-p0.en+FX+000", cookie.Value)
	assert.Equal(t, ".youtube.com", cookie.Domain)
}

func TestFetchConsentCookieFails(t *testing.T) {
	// The interstitial persists after setting the cookie.
	client := &fakeClient{responses: []fakeResponse{
		{body: consentPage},
		{body: consentPage},
	}}
	f := &fetcher{client: client}

	_, err := f.fetchTranscriptList(context.Background(), "abc")
	var consentErr *FailedToCreateConsentCookieError
	require.ErrorAs(t, err, &consentErr)
}

func TestFetchConsentTokenMissing(t *testing.T) {
	client := &fakeClient{responses: []fakeResponse{
		{body: `<html><form action="https://consent.youtube.com/s"></form></html>`},
	}}
	f := &fetcher{client: client}

	_, err := f.fetchTranscriptList(context.Background(), "abc")
	var consentErr *FailedToCreateConsentCookieError
	require.ErrorAs(t, err, &consentErr)
}

func TestFetchCaptchaBecomesIPBlocked(t *testing.T) {
	client := &fakeClient{responses: []fakeResponse{
		{body: `<html><div class="g-recaptcha"></div></html>`},
	}}
	f := &fetcher{client: client}

	_, err := f.fetchTranscriptList(context.Background(), "abc")
	var blocked *IPBlockedError
	require.ErrorAs(t, err, &blocked)
}

func TestFetchUnparsableWithoutCaptcha(t *testing.T) {
	client := &fakeClient{responses: []fakeResponse{
		{body: `<html>no player response here</html>`},
	}}
	f := &fetcher{client: client}

	_, err := f.fetchTranscriptList(context.Background(), "abc")
	var unparsable *DataUnparsableError
	require.ErrorAs(t, err, &unparsable)
}

func TestBlockedNotRetriedWithoutProxy(t *testing.T) {
	client := &fakeClient{responses: []fakeResponse{
		{body: watchPage(blockedPlayerResponse)},
	}}
	f := &fetcher{client: client}

	_, err := f.fetchTranscriptList(context.Background(), "abc")
	var blocked *RequestBlockedError
	require.ErrorAs(t, err, &blocked)
	assert.Equal(t, 1, client.calls)
	assert.Nil(t, blocked.Proxy)
}

func TestBlockedRetriedUpToBudget(t *testing.T) {
	proxy := proxies.NewWebshare("user", "pass", proxies.WithRetriesWhenBlocked(2))
	responses := []fakeResponse{
		{body: watchPage(blockedPlayerResponse)},
		{body: watchPage(blockedPlayerResponse)},
		{body: watchPage(blockedPlayerResponse)},
	}
	client := &fakeClient{responses: responses}
	f := &fetcher{client: client, proxy: proxy}

	_, err := f.fetchTranscriptList(context.Background(), "abc")
	var blocked *RequestBlockedError
	require.ErrorAs(t, err, &blocked)

	// Initial attempt plus the configured retries.
	assert.Equal(t, 3, client.calls)
	assert.Same(t, proxy, blocked.Proxy)
	assert.Contains(t, err.Error(), "Webshare")
}

func TestBlockedRetrySucceedsMidway(t *testing.T) {
	proxy := proxies.NewWebshare("user", "pass", proxies.WithRetriesWhenBlocked(5))
	client := &fakeClient{responses: []fakeResponse{
		{body: watchPage(blockedPlayerResponse)},
		{body: watchPage(okPlayerResponse)},
	}}
	f := &fetcher{client: client, proxy: proxy}

	list, err := f.fetchTranscriptList(context.Background(), "abc")
	require.NoError(t, err)
	require.NotNil(t, list)
	assert.Equal(t, 2, client.calls)
}

func TestNonBlockingFailureNeverRetried(t *testing.T) {
	proxy := proxies.NewWebshare("user", "pass")
	client := &fakeClient{responses: []fakeResponse{
		{body: watchPage(`{"playabilityStatus": {"status": "ERROR", "reason": "Video unavailable"}}`)},
	}}
	f := &fetcher{client: client, proxy: proxy}

	_, err := f.fetchTranscriptList(context.Background(), "abc")
	var unavailable *VideoUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, 1, client.calls)
}

func TestRequestErrorWrapped(t *testing.T) {
	cause := errors.New("connection reset")
	client := &fakeClient{responses: []fakeResponse{{err: cause}}}
	f := &fetcher{client: client}

	_, err := f.fetchTranscriptList(context.Background(), "abc")
	var failed *RequestFailedError
	require.ErrorAs(t, err, &failed)
	assert.ErrorIs(t, err, cause)
}

func TestHTTPErrorStatus(t *testing.T) {
	client := &fakeClient{responses: []fakeResponse{{body: "not found", status: http.StatusNotFound}}}
	f := &fetcher{client: client}

	_, err := f.fetchTranscriptList(context.Background(), "abc")
	var failed *RequestFailedError
	require.ErrorAs(t, err, &failed)
}

func TestTranscriptFetchThroughList(t *testing.T) {
	captionXML := `<transcript><text start="0" dur="2">Hey there</text><text start="3" dur="2">how are you</text></transcript>`
	client := &fakeClient{responses: []fakeResponse{
		{body: watchPage(okPlayerResponse)},
		{body: captionXML},
	}}
	f := &fetcher{client: client}

	list, err := f.fetchTranscriptList(context.Background(), "abc")
	require.NoError(t, err)
	tr, err := list.FindTranscript([]string{"en"})
	require.NoError(t, err)

	fetched, err := tr.Fetch(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, "abc", fetched.VideoID)
	assert.Equal(t, "en", fetched.LanguageCode)
	require.Len(t, fetched.Snippets, 2)
	assert.Equal(t, Snippet{Text: "Hey there", Start: 0, Duration: 2}, fetched.Snippets[0])
}
