package transcript

import (
	"fmt"
	"strings"

	"github.com/anatolykoptev/go-transcript/proxies"
)

// Every retrieval failure renders as "could not retrieve a transcript for
// the video <url>!" followed by a per-kind cause built at Error() time, so
// constructing an error stays allocation-cheap and carries structured data
// only.
func retrievalMessage(videoID, cause string) string {
	msg := fmt.Sprintf("could not retrieve a transcript for the video %s%s!", watchPageURL, videoID)
	if cause != "" {
		msg += " This is most likely caused by: " + cause
	}
	return msg
}

// VideoUnavailableError reports a video that no longer exists or is private.
type VideoUnavailableError struct {
	VideoID string
}

func (e *VideoUnavailableError) Error() string {
	return retrievalMessage(e.VideoID, "the video is no longer available")
}

// InvalidVideoIDError reports a video id that is actually a URL.
type InvalidVideoIDError struct {
	VideoID string
}

func (e *InvalidVideoIDError) Error() string {
	return retrievalMessage(e.VideoID,
		"you provided an invalid video id. Make sure you are using the video id and NOT the url!\n\n"+
			`Do NOT run: client.ListTranscripts(ctx, "https://www.youtube.com/watch?v=1234")`+"\n"+
			`Instead run: client.ListTranscripts(ctx, "1234")`)
}

// VideoUnplayableError reports any playability status the classifier could
// not map to a more specific failure.
type VideoUnplayableError struct {
	VideoID    string
	Reason     string
	SubReasons []string
}

func (e *VideoUnplayableError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "no reason specified!"
	}
	var sub string
	if len(e.SubReasons) > 0 {
		sub = "\n\nAdditional Details:\n - " + strings.Join(e.SubReasons, "\n - ")
	}
	return retrievalMessage(e.VideoID, fmt.Sprintf("the video is unplayable for the following reason: %s%s", reason, sub))
}

// AgeRestrictedError reports a video that requires an age-verified session.
type AgeRestrictedError struct {
	VideoID string
}

func (e *AgeRestrictedError) Error() string {
	return retrievalMessage(e.VideoID,
		"this video is age-restricted. Provide a cookie file of an age-verified account to access it")
}

// TranscriptsDisabledError reports a video with subtitles turned off.
type TranscriptsDisabledError struct {
	VideoID string
}

func (e *TranscriptsDisabledError) Error() string {
	return retrievalMessage(e.VideoID, "subtitles are disabled for this video")
}

// NoTranscriptFoundError reports that none of the requested language codes
// matched an available track. It carries the whole list so the message can
// show what is available.
type NoTranscriptFoundError struct {
	VideoID        string
	RequestedCodes []string
	List           *TranscriptList
}

func (e *NoTranscriptFoundError) Error() string {
	return retrievalMessage(e.VideoID, fmt.Sprintf(
		"no transcripts were found for any of the requested language codes: %v\n\n%s",
		e.RequestedCodes, e.List))
}

// NotTranslatableError reports a translate request on a non-translatable track.
type NotTranslatableError struct {
	VideoID string
}

func (e *NotTranslatableError) Error() string {
	return retrievalMessage(e.VideoID, "the requested language is not translatable")
}

// TranslationLanguageNotAvailableError reports a translation target YouTube
// does not offer for this track.
type TranslationLanguageNotAvailableError struct {
	VideoID      string
	LanguageCode string
}

func (e *TranslationLanguageNotAvailableError) Error() string {
	return retrievalMessage(e.VideoID,
		fmt.Sprintf("the requested translation language %q is not available", e.LanguageCode))
}

// FailedToCreateConsentCookieError reports a consent interstitial that
// persisted after the consent cookie was set.
type FailedToCreateConsentCookieError struct {
	VideoID string
}

func (e *FailedToCreateConsentCookieError) Error() string {
	return retrievalMessage(e.VideoID, "failed to automatically give consent to saving cookies")
}

// DataUnparsableError reports watch-page or caption markup the pipeline
// could not make sense of.
type DataUnparsableError struct {
	VideoID string
	Err     error
}

func (e *DataUnparsableError) Error() string {
	return retrievalMessage(e.VideoID,
		"the data required to fetch the transcript is not parsable. This should "+
			"not happen, please open an issue (make sure to include the video id)!")
}

func (e *DataUnparsableError) Unwrap() error { return e.Err }

// RequestFailedError reports a plain HTTP failure while talking to YouTube.
type RequestFailedError struct {
	VideoID string
	Err     error
}

func (e *RequestFailedError) Error() string {
	return retrievalMessage(e.VideoID, fmt.Sprintf("a request to YouTube failed: %v", e.Err))
}

func (e *RequestFailedError) Unwrap() error { return e.Err }

// RequestBlockedError reports that YouTube flagged the request as automated
// and refused to serve it. Proxy is set by the fetcher when a proxy
// configuration was active, so the message can give proxy-specific advice.
type RequestBlockedError struct {
	VideoID string
	Proxy   proxies.Config
}

func (e *RequestBlockedError) Error() string {
	return retrievalMessage(e.VideoID, blockedCause(e.Proxy))
}

// IPBlockedError reports a hard IP ban (YouTube serves a CAPTCHA challenge
// instead of the watch page).
type IPBlockedError struct {
	VideoID string
	Proxy   proxies.Config
}

func (e *IPBlockedError) Error() string {
	return retrievalMessage(e.VideoID, "YouTube is blocking your IP and requires solving a captcha to continue. "+blockedCause(e.Proxy))
}

func blockedCause(proxy proxies.Config) string {
	switch proxy.(type) {
	case *proxies.WebshareConfig:
		return "YouTube is blocking your requests, despite you using Webshare proxies. " +
			"Make sure your account is set up to use rotating residential proxies, as " +
			"other proxy types tend to get blocked quickly"
	case nil:
		return "YouTube is blocking requests from your IP. Using a proxy or a cookie " +
			"file of a logged-in account may work around this"
	default:
		return "YouTube is blocking your requests, despite you using proxies. A proxy " +
			"only hides your IP behind the proxy's own IP, and there is no guarantee " +
			"that one is not blocked as well. Rotating residential proxies tend to work best"
	}
}
