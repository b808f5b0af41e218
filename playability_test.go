package transcript

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestCheckPlayabilityPassThrough(t *testing.T) {
	if err := checkPlayability(nil, "abc"); err != nil {
		t.Errorf("nil status should pass, got %v", err)
	}
	if err := checkPlayability(&playabilityStatus{Status: "OK"}, "abc"); err != nil {
		t.Errorf("OK status should pass, got %v", err)
	}
	if err := checkPlayability(&playabilityStatus{}, "abc"); err != nil {
		t.Errorf("empty status should pass, got %v", err)
	}
}

func TestCheckPlayability(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		reason  string
		videoID string
		want    any
	}{
		{
			name:    "bot check with curly apostrophe",
			status:  "LOGIN_REQUIRED",
			reason:  "Sign in to confirm you’re not a bot",
			videoID: "abc",
			want:    &RequestBlockedError{},
		},
		{
			name:    "bot check with plain apostrophe",
			status:  "LOGIN_REQUIRED",
			reason:  "Sign in to confirm you're not a bot",
			videoID: "abc",
			want:    &RequestBlockedError{},
		},
		{
			name:    "age restricted",
			status:  "LOGIN_REQUIRED",
			reason:  "Sign in to confirm your age. This video may be inappropriate for some users.",
			videoID: "abc",
			want:    &AgeRestrictedError{},
		},
		{
			name:    "unavailable with plain id",
			status:  "ERROR",
			reason:  "Video unavailable",
			videoID: "abc",
			want:    &VideoUnavailableError{},
		},
		{
			name:    "unavailable with url-shaped id",
			status:  "ERROR",
			reason:  "Video unavailable",
			videoID: "https://www.youtube.com/watch?v=abc",
			want:    &InvalidVideoIDError{},
		},
		{
			name:    "login required without known reason",
			status:  "LOGIN_REQUIRED",
			reason:  "This video is private",
			videoID: "abc",
			want:    &VideoUnplayableError{},
		},
		{
			name:    "unknown status falls through",
			status:  "CONTENT_CHECK_REQUIRED",
			reason:  "who knows",
			videoID: "abc",
			want:    &VideoUnplayableError{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkPlayability(&playabilityStatus{Status: tt.status, Reason: tt.reason}, tt.videoID)
			if err == nil {
				t.Fatal("expected an error")
			}
			switch want := tt.want.(type) {
			case *RequestBlockedError:
				if !errors.As(err, &want) {
					t.Errorf("got %T, want *RequestBlockedError", err)
				}
			case *AgeRestrictedError:
				if !errors.As(err, &want) {
					t.Errorf("got %T, want *AgeRestrictedError", err)
				}
			case *VideoUnavailableError:
				if !errors.As(err, &want) {
					t.Errorf("got %T, want *VideoUnavailableError", err)
				}
			case *InvalidVideoIDError:
				if !errors.As(err, &want) {
					t.Errorf("got %T, want *InvalidVideoIDError", err)
				}
			case *VideoUnplayableError:
				if !errors.As(err, &want) {
					t.Errorf("got %T, want *VideoUnplayableError", err)
				}
			}
		})
	}
}

func TestCheckPlayabilitySubReasons(t *testing.T) {
	raw := `{
		"status": "UNPLAYABLE",
		"reason": "This video is unavailable on this device",
		"errorScreen": {
			"playerErrorMessageRenderer": {
				"subreason": {"runs": [{"text": "first detail"}, {"text": "second detail"}]}
			}
		}
	}`
	var status playabilityStatus
	if err := json.Unmarshal([]byte(raw), &status); err != nil {
		t.Fatal(err)
	}

	err := checkPlayability(&status, "abc")
	var unplayable *VideoUnplayableError
	if !errors.As(err, &unplayable) {
		t.Fatalf("expected *VideoUnplayableError, got %v", err)
	}
	if unplayable.Reason != "This video is unavailable on this device" {
		t.Errorf("Reason = %q", unplayable.Reason)
	}
	if len(unplayable.SubReasons) != 2 || unplayable.SubReasons[1] != "second detail" {
		t.Errorf("SubReasons = %v", unplayable.SubReasons)
	}
}

func TestCheckPlayabilitySubReasonsAbsent(t *testing.T) {
	err := checkPlayability(&playabilityStatus{Status: "UNPLAYABLE"}, "abc")
	var unplayable *VideoUnplayableError
	if !errors.As(err, &unplayable) {
		t.Fatalf("expected *VideoUnplayableError, got %v", err)
	}
	if len(unplayable.SubReasons) != 0 {
		t.Errorf("SubReasons should be empty, got %v", unplayable.SubReasons)
	}
}
