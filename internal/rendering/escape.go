package rendering

import (
	"encoding/json"
	"regexp"
	"strings"
)

var styleCloser = regexp.MustCompile(`(?i)</(style)`)

// EscapeStyle keeps component CSS from closing its <style> element early.
func EscapeStyle(css string) string {
	if css == "" {
		return ""
	}
	return styleCloser.ReplaceAllString(css, `<\/$1`)
}

// JSString encodes s as a JavaScript string literal that is safe inside a
// <script> element: <, > and & are emitted as \u escapes.
func JSString(s string) string {
	encoded, err := json.Marshal(s)
	if err != nil {
		// strings always marshal
		return `""`
	}
	return string(encoded)
}

// Excerpt returns at most limit runes of text, marking truncation with "...".
func Excerpt(text string, limit int) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
