package util

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// ExcerptText extracts the plain text of an HTML fragment and truncates
// it, for list previews and notification bodies.
func ExcerptText(fragment string, maxLen int) string {

	var buf strings.Builder
	var tokenizer = html.NewTokenizer(strings.NewReader(fragment))

	for {
		if tokenizer.Next() == html.ErrorToken {
			break // io.EOF or malformed input, either way we keep what we got
		}
		if token := tokenizer.Token(); token.Type == html.TextToken {
			if text := strings.TrimSpace(token.Data); text != "" {
				if buf.Len() > 0 {
					buf.WriteString(" ")
				}
				buf.WriteString(text)
			}
		}
		if buf.Len() > 4*maxLen { // enough
			break
		}
	}

	var text = buf.String()
	if utf8.RuneCountInString(text) <= maxLen {
		return text
	}

	var runes = []rune(text)
	return strings.TrimSpace(string(runes[:maxLen])) + "…"
}
