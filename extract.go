package transcript

import (
	"bytes"
	"encoding/json"
)

// playerResponseVar is the page-global holding the player configuration on
// every watch page.
const playerResponseVar = "ytInitialPlayerResponse"

// extractVar returns the JSON object assigned to `var name = {...}` inside
// raw page markup. A generic HTML parser cannot delimit the object, so this
// scans forward from the first `{` tracking brace depth; braces inside
// quoted strings are ignored and escaped quotes do not terminate a string.
func extractVar(body []byte, name, videoID string) ([]byte, error) {
	idx := bytes.Index(body, []byte("var "+name))
	if idx < 0 {
		return nil, &DataUnparsableError{VideoID: videoID}
	}
	offset := bytes.IndexByte(body[idx:], '{')
	if offset < 0 {
		return nil, &DataUnparsableError{VideoID: videoID}
	}
	start := idx + offset

	depth := 0
	inStr := false
	escaped := false
	for i := start; i < len(body); i++ {
		c := body[i]
		if inStr {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				raw := body[start : i+1]
				if !json.Valid(raw) {
					return nil, &DataUnparsableError{VideoID: videoID}
				}
				return raw, nil
			}
		}
	}
	return nil, &DataUnparsableError{VideoID: videoID}
}
