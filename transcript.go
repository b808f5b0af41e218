// Package transcript retrieves subtitle data for YouTube videos by scraping
// the watch page's embedded player configuration — no browser automation,
// no official API key.
//
// The pipeline is split across this package by responsibility:
//
//	extract.go     — embedded ytInitialPlayerResponse extraction
//	playability.go — playability status → error taxonomy
//	list.go        — caption-track index (manual vs auto-generated)
//	snippets.go    — caption XML → timed snippets
//	fetcher.go     — watch-page fetch, consent cookies, blocked retries
//	client.go      — public entry points
package transcript

import (
	"context"
	"fmt"
	"net/url"
)

// TranslationLanguage is one language a caption track can be machine
// translated into.
type TranslationLanguage struct {
	Language     string `json:"language"`
	LanguageCode string `json:"language_code"`
}

// Transcript describes one available caption track. It is a descriptor: no
// snippet data has been fetched yet. Obtain one from a TranscriptList and
// call Fetch to retrieve the actual snippets.
type Transcript struct {
	VideoID      string
	Language     string
	LanguageCode string

	// IsGenerated marks auto-generated ("asr") tracks.
	IsGenerated bool

	// TranslationLanguages is empty for non-translatable tracks.
	TranslationLanguages []TranslationLanguage

	f   *fetcher
	url string
}

// IsTranslatable reports whether this track offers machine translations.
func (t *Transcript) IsTranslatable() bool { return len(t.TranslationLanguages) > 0 }

// Translate returns a new descriptor for this track machine-translated into
// languageCode. The receiver is left untouched; the returned track is
// marked generated and cannot be translated again.
func (t *Transcript) Translate(languageCode string) (*Transcript, error) {
	if !t.IsTranslatable() {
		return nil, &NotTranslatableError{VideoID: t.VideoID}
	}
	var language string
	for _, tl := range t.TranslationLanguages {
		if tl.LanguageCode == languageCode {
			language = tl.Language
			break
		}
	}
	if language == "" {
		return nil, &TranslationLanguageNotAvailableError{VideoID: t.VideoID, LanguageCode: languageCode}
	}
	return &Transcript{
		VideoID:      t.VideoID,
		Language:     language,
		LanguageCode: languageCode,
		IsGenerated:  true,
		f:            t.f,
		url:          t.url + "&tlang=" + url.QueryEscape(languageCode),
	}, nil
}

// Fetch retrieves the track's caption document and parses it into timed
// snippets. With preserveFormatting, inline formatting markup (bold,
// italics and friends) is kept; otherwise all markup is stripped.
func (t *Transcript) Fetch(ctx context.Context, preserveFormatting bool) (*FetchedTranscript, error) {
	body, err := t.f.fetchCaptionDocument(ctx, t.VideoID, t.url)
	if err != nil {
		return nil, err
	}
	snippets, err := parseSnippets(body, t.VideoID, preserveFormatting)
	if err != nil {
		return nil, err
	}
	return &FetchedTranscript{
		Snippets:     snippets,
		VideoID:      t.VideoID,
		Language:     t.Language,
		LanguageCode: t.LanguageCode,
		IsGenerated:  t.IsGenerated,
	}, nil
}

func (t *Transcript) String() string {
	translatable := ""
	if t.IsTranslatable() {
		translatable = "[TRANSLATABLE]"
	}
	return fmt.Sprintf("%s (%q)%s", t.LanguageCode, t.Language, translatable)
}

// FetchedTranscript owns the ordered snippets of one fetched caption track
// plus its provenance. It is immutable after construction.
type FetchedTranscript struct {
	Snippets     []Snippet `json:"snippets"`
	VideoID      string    `json:"video_id"`
	Language     string    `json:"language"`
	LanguageCode string    `json:"language_code"`
	IsGenerated  bool      `json:"is_generated"`
}

// ToRawData returns the snippets as plain {text, start, duration} records,
// the interchange shape consumed by formatters and JSON serialization.
func (ft *FetchedTranscript) ToRawData() []Snippet {
	raw := make([]Snippet, len(ft.Snippets))
	copy(raw, ft.Snippets)
	return raw
}

// Text returns the transcript's full text with snippets joined by newlines.
func (ft *FetchedTranscript) Text() string {
	var b []byte
	for i, s := range ft.Snippets {
		if i > 0 {
			b = append(b, '\n')
		}
		b = append(b, s.Text...)
	}
	return string(b)
}
