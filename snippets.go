package transcript

import (
	"encoding/xml"
	"html"
	"regexp"
	"strconv"
	"strings"
)

// Snippet is one timed text fragment of a caption track.
type Snippet struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// Inline formatting tags kept when formatting preservation is requested;
// everything else is always stripped.
var formattingTags = map[string]bool{
	"strong": true, // important
	"em":     true, // emphasized
	"b":      true, // bold
	"i":      true, // italic
	"mark":   true, // marked
	"small":  true, // smaller
	"del":    true, // deleted
	"ins":    true, // inserted
	"sub":    true, // subscript
	"sup":    true, // superscript
}

var (
	htmlTagRe = regexp.MustCompile(`<[^>]*>`)
	tagNameRe = regexp.MustCompile(`^</?\s*([a-zA-Z0-9]+)`)
)

// stripTags removes markup from caption text. With preserveFormatting the
// inline formatting allow-list is left intact; RE2 has no negative
// lookahead, so each tag is inspected individually instead.
func stripTags(s string, preserveFormatting bool) string {
	if !preserveFormatting {
		return htmlTagRe.ReplaceAllString(s, "")
	}
	return htmlTagRe.ReplaceAllStringFunc(s, func(tag string) string {
		m := tagNameRe.FindStringSubmatch(tag)
		if m != nil && formattingTags[strings.ToLower(m[1])] {
			return tag
		}
		return ""
	})
}

type captionDocument struct {
	Texts []captionText `xml:"text"`
}

type captionText struct {
	Start string `xml:"start,attr"`
	Dur   string `xml:"dur,attr"`
	Body  string `xml:",chardata"`
}

// parseSnippets converts a caption-track XML document into ordered
// snippets. Nodes without text are dropped; start/duration attributes
// default to zero when absent or unparsable. Document order is preserved as
// is — overlapping or out-of-order timestamps are the source's business.
func parseSnippets(data []byte, videoID string, preserveFormatting bool) ([]Snippet, error) {
	var doc captionDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, &DataUnparsableError{VideoID: videoID, Err: err}
	}

	snippets := make([]Snippet, 0, len(doc.Texts))
	for _, node := range doc.Texts {
		if node.Body == "" {
			continue
		}
		// Markup arrives HTML-escaped inside the XML text, so unescape
		// before stripping.
		text := stripTags(html.UnescapeString(node.Body), preserveFormatting)
		snippets = append(snippets, Snippet{
			Text:     text,
			Start:    parseSeconds(node.Start),
			Duration: parseSeconds(node.Dur),
		})
	}
	return snippets, nil
}

func parseSeconds(attr string) float64 {
	v, err := strconv.ParseFloat(attr, 64)
	if err != nil {
		return 0
	}
	return v
}
