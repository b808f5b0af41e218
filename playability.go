package transcript

import "strings"

const (
	statusOK            = "OK"
	statusLoginRequired = "LOGIN_REQUIRED"
	statusError         = "ERROR"

	reasonAgeRestricted    = "Sign in to confirm your age"
	reasonVideoUnavailable = "Video unavailable"
)

// YouTube renders the apostrophe in the bot-check reason either as U+2019
// or as a plain quote depending on the serving frontend.
var botCheckReasons = []string{
	"Sign in to confirm you’re not a bot",
	"Sign in to confirm you're not a bot",
}

// checkPlayability maps the player response's playability status onto the
// error taxonomy. A nil status and status OK both pass through. The
// bot-detection and age-restriction checks run before the generic
// unplayable fallback; any other non-OK status becomes VideoUnplayableError
// rather than being ignored.
func checkPlayability(status *playabilityStatus, videoID string) error {
	if status == nil || status.Status == "" || status.Status == statusOK {
		return nil
	}

	switch status.Status {
	case statusLoginRequired:
		for _, botReason := range botCheckReasons {
			if strings.Contains(status.Reason, botReason) {
				return &RequestBlockedError{VideoID: videoID}
			}
		}
		if strings.HasPrefix(status.Reason, reasonAgeRestricted) {
			return &AgeRestrictedError{VideoID: videoID}
		}
	case statusError:
		if status.Reason == reasonVideoUnavailable {
			if strings.HasPrefix(videoID, "http://") || strings.HasPrefix(videoID, "https://") {
				return &InvalidVideoIDError{VideoID: videoID}
			}
			return &VideoUnavailableError{VideoID: videoID}
		}
	}

	return &VideoUnplayableError{
		VideoID:    videoID,
		Reason:     status.Reason,
		SubReasons: status.subReasons(),
	}
}
