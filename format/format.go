// Package format renders fetched transcripts into output documents: pretty
// and compact JSON, plain text, SRT and WebVTT subtitle files.
package format

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	transcript "github.com/anatolykoptev/go-transcript"
)

// Formatter renders one or many fetched transcripts into a single string.
type Formatter interface {
	FormatTranscript(t *transcript.FetchedTranscript) (string, error)
	FormatTranscripts(ts []*transcript.FetchedTranscript) (string, error)
}

// New returns the formatter registered under name. Known names are
// "pretty", "json", "text", "srt" and "webvtt".
func New(name string) (Formatter, error) {
	switch name {
	case "pretty":
		return Pretty{}, nil
	case "json":
		return JSON{}, nil
	case "text":
		return Text{}, nil
	case "srt":
		return SRT{}, nil
	case "webvtt":
		return WebVTT{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q (want pretty, json, text, srt or webvtt)", name)
	}
}

// JSON renders the raw {text, start, duration} records as compact JSON. A
// batch becomes a JSON array of those arrays.
type JSON struct{}

func (JSON) FormatTranscript(t *transcript.FetchedTranscript) (string, error) {
	return marshal(t.ToRawData(), false)
}

func (JSON) FormatTranscripts(ts []*transcript.FetchedTranscript) (string, error) {
	return marshal(rawBatch(ts), false)
}

// Pretty is JSON with indentation, for eyeballing.
type Pretty struct{}

func (Pretty) FormatTranscript(t *transcript.FetchedTranscript) (string, error) {
	return marshal(t.ToRawData(), true)
}

func (Pretty) FormatTranscripts(ts []*transcript.FetchedTranscript) (string, error) {
	return marshal(rawBatch(ts), true)
}

func marshal(v any, indent bool) (string, error) {
	var (
		data []byte
		err  error
	)
	if indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return "", fmt.Errorf("marshal transcript: %w", err)
	}
	return string(data), nil
}

func rawBatch(ts []*transcript.FetchedTranscript) [][]transcript.Snippet {
	raw := make([][]transcript.Snippet, len(ts))
	for i, t := range ts {
		raw[i] = t.ToRawData()
	}
	return raw
}

// Text renders snippet texts joined by newlines, no timing information.
type Text struct{}

func (Text) FormatTranscript(t *transcript.FetchedTranscript) (string, error) {
	return t.Text(), nil
}

func (Text) FormatTranscripts(ts []*transcript.FetchedTranscript) (string, error) {
	return joinBatch(Text{}, ts)
}

// SRT renders a SubRip document: 1-based sequence numbers and
// HH:MM:SS,mmm cue ranges ending at start+duration.
type SRT struct{}

func (SRT) FormatTranscript(t *transcript.FetchedTranscript) (string, error) {
	var b strings.Builder
	for i, s := range t.Snippets {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s",
			i+1, timestamp(s.Start, ','), timestamp(s.Start+s.Duration, ','), s.Text)
	}
	return b.String(), nil
}

func (SRT) FormatTranscripts(ts []*transcript.FetchedTranscript) (string, error) {
	return joinBatch(SRT{}, ts)
}

// WebVTT renders a WEBVTT document: no sequence numbers, HH:MM:SS.mmm cues.
type WebVTT struct{}

func (WebVTT) FormatTranscript(t *transcript.FetchedTranscript) (string, error) {
	var b strings.Builder
	b.WriteString("WEBVTT\n")
	for _, s := range t.Snippets {
		fmt.Fprintf(&b, "\n%s --> %s\n%s\n",
			timestamp(s.Start, '.'), timestamp(s.Start+s.Duration, '.'), s.Text)
	}
	return b.String(), nil
}

func (WebVTT) FormatTranscripts(ts []*transcript.FetchedTranscript) (string, error) {
	return joinBatch(WebVTT{}, ts)
}

func joinBatch(f Formatter, ts []*transcript.FetchedTranscript) (string, error) {
	parts := make([]string, len(ts))
	for i, t := range ts {
		part, err := f.FormatTranscript(t)
		if err != nil {
			return "", err
		}
		parts[i] = part
	}
	return strings.Join(parts, "\n\n\n"), nil
}

// timestamp renders seconds as HH:MM:SS<sep>mmm.
func timestamp(seconds float64, sep byte) string {
	ms := int64(math.Round(seconds * 1000))
	if ms < 0 {
		ms = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d%c%03d",
		ms/3600000, ms/60000%60, ms/1000%60, sep, ms%1000)
}
