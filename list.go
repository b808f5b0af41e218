package transcript

import (
	"fmt"
	"strings"
)

// asrKind marks auto-generated caption tracks in the player response.
const asrKind = "asr"

// TranscriptList indexes the caption tracks of one video, partitioned into
// manually created and auto-generated tracks keyed by language code. Built
// once per list call and immutable afterwards.
type TranscriptList struct {
	VideoID string

	manual    map[string]*Transcript
	generated map[string]*Transcript

	// Track insertion order so renderings match the watch page.
	manualCodes    []string
	generatedCodes []string

	translationLanguages []TranslationLanguage
}

// buildTranscriptList indexes the caption tracks of a validated player
// response. A missing captions container or empty track list means the
// uploader disabled subtitles.
func buildTranscriptList(f *fetcher, videoID string, renderer *captionsRenderer) (*TranscriptList, error) {
	if renderer == nil || len(renderer.CaptionTracks) == 0 {
		return nil, &TranscriptsDisabledError{VideoID: videoID}
	}

	translationLanguages := make([]TranslationLanguage, 0, len(renderer.TranslationLanguages))
	for _, tl := range renderer.TranslationLanguages {
		translationLanguages = append(translationLanguages, TranslationLanguage{
			Language:     tl.LanguageName.text(),
			LanguageCode: tl.LanguageCode,
		})
	}

	list := &TranscriptList{
		VideoID:              videoID,
		manual:               make(map[string]*Transcript),
		generated:            make(map[string]*Transcript),
		translationLanguages: translationLanguages,
	}

	for _, track := range renderer.CaptionTracks {
		t := &Transcript{
			VideoID:      videoID,
			Language:     track.Name.text(),
			LanguageCode: track.LanguageCode,
			IsGenerated:  track.Kind == asrKind,
			f:            f,
			url:          track.BaseURL,
		}
		// The global translation list applies only to tracks YouTube marks
		// translatable.
		if track.IsTranslatable {
			t.TranslationLanguages = translationLanguages
		}
		if t.IsGenerated {
			if _, seen := list.generated[t.LanguageCode]; !seen {
				list.generatedCodes = append(list.generatedCodes, t.LanguageCode)
			}
			list.generated[t.LanguageCode] = t
		} else {
			if _, seen := list.manual[t.LanguageCode]; !seen {
				list.manualCodes = append(list.manualCodes, t.LanguageCode)
			}
			list.manual[t.LanguageCode] = t
		}
	}
	return list, nil
}

// FindTranscript returns the first track matching the caller's language
// preference list. Earlier-listed codes win; within one code a manually
// created track beats an auto-generated one.
func (tl *TranscriptList) FindTranscript(languageCodes []string) (*Transcript, error) {
	return tl.find(languageCodes, tl.manual, tl.generated)
}

// FindManuallyCreatedTranscript searches manually created tracks only.
func (tl *TranscriptList) FindManuallyCreatedTranscript(languageCodes []string) (*Transcript, error) {
	return tl.find(languageCodes, tl.manual)
}

// FindGeneratedTranscript searches auto-generated tracks only.
func (tl *TranscriptList) FindGeneratedTranscript(languageCodes []string) (*Transcript, error) {
	return tl.find(languageCodes, tl.generated)
}

func (tl *TranscriptList) find(languageCodes []string, mappings ...map[string]*Transcript) (*Transcript, error) {
	for _, code := range languageCodes {
		for _, mapping := range mappings {
			if t, ok := mapping[code]; ok {
				return t, nil
			}
		}
	}
	return nil, &NoTranscriptFoundError{
		VideoID:        tl.VideoID,
		RequestedCodes: languageCodes,
		List:           tl,
	}
}

// Transcripts returns all tracks, manually created first, in watch-page order.
func (tl *TranscriptList) Transcripts() []*Transcript {
	all := make([]*Transcript, 0, len(tl.manual)+len(tl.generated))
	for _, code := range tl.manualCodes {
		all = append(all, tl.manual[code])
	}
	for _, code := range tl.generatedCodes {
		all = append(all, tl.generated[code])
	}
	return all
}

// TranslationLanguages returns the video's machine-translation targets.
func (tl *TranscriptList) TranslationLanguages() []TranslationLanguage {
	out := make([]TranslationLanguage, len(tl.translationLanguages))
	copy(out, tl.translationLanguages)
	return out
}

func (tl *TranscriptList) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "For this video (%s) transcripts are available in the following languages:\n", tl.VideoID)

	b.WriteString("\n(MANUALLY CREATED)\n")
	writeTranscriptLines(&b, tl.manualCodes, tl.manual)

	b.WriteString("\n(GENERATED)\n")
	writeTranscriptLines(&b, tl.generatedCodes, tl.generated)

	b.WriteString("\n(TRANSLATION LANGUAGES)\n")
	if len(tl.translationLanguages) == 0 {
		b.WriteString("None\n")
	}
	for _, lang := range tl.translationLanguages {
		fmt.Fprintf(&b, " - %s (%q)\n", lang.LanguageCode, lang.Language)
	}
	return b.String()
}

func writeTranscriptLines(b *strings.Builder, codes []string, mapping map[string]*Transcript) {
	if len(codes) == 0 {
		b.WriteString("None\n")
		return
	}
	for _, code := range codes {
		fmt.Fprintf(b, " - %s\n", mapping[code])
	}
}
