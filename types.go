package transcript

// Watch-page player response shapes. Only the fields the pipeline reads are
// declared; everything else in the multi-megabyte blob is ignored.

type playerResponse struct {
	PlayabilityStatus *playabilityStatus `json:"playabilityStatus"`
	Captions          *struct {
		Renderer *captionsRenderer `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

type playabilityStatus struct {
	Status      string `json:"status"`
	Reason      string `json:"reason"`
	ErrorScreen *struct {
		PlayerErrorMessageRenderer *struct {
			Subreason *textRuns `json:"subreason"`
		} `json:"playerErrorMessageRenderer"`
	} `json:"errorScreen"`
}

// subReasons collects the text of each message run on the error screen.
func (s *playabilityStatus) subReasons() []string {
	if s.ErrorScreen == nil || s.ErrorScreen.PlayerErrorMessageRenderer == nil {
		return nil
	}
	sub := s.ErrorScreen.PlayerErrorMessageRenderer.Subreason
	if sub == nil {
		return nil
	}
	reasons := make([]string, 0, len(sub.Runs))
	for _, run := range sub.Runs {
		reasons = append(reasons, run.Text)
	}
	return reasons
}

type captionsRenderer struct {
	CaptionTracks        []captionTrack    `json:"captionTracks"`
	TranslationLanguages []translationLang `json:"translationLanguages"`
}

type captionTrack struct {
	BaseURL        string   `json:"baseUrl"`
	Name           textRuns `json:"name"`
	LanguageCode   string   `json:"languageCode"`
	Kind           string   `json:"kind"` // "asr" = auto-generated
	IsTranslatable bool     `json:"isTranslatable"`
}

type translationLang struct {
	LanguageName textRuns `json:"languageName"`
	LanguageCode string   `json:"languageCode"`
}

// textRuns models YouTube's two ways of embedding display text.
type textRuns struct {
	SimpleText string `json:"simpleText"`
	Runs       []struct {
		Text string `json:"text"`
	} `json:"runs"`
}

func (t textRuns) text() string {
	if t.SimpleText != "" {
		return t.SimpleText
	}
	if len(t.Runs) > 0 {
		return t.Runs[0].Text
	}
	return ""
}
