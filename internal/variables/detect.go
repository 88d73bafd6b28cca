// Package variables detects template placeholders and substitutes bindings into them.
package variables

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/jonathan/framecraft/internal/types"
)

var (
	placeholderPattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

	// Content props commonly passed to framework components.
	sourcePropPattern = regexp.MustCompile(`(?i)\b(title|heading|description|text|label|buttonText|subtitle|name)\b`)
)

// DefaultSourceVariables is returned by DetectSource when no content prop is found.
var DefaultSourceVariables = types.Variables{
	{Name: "title", Label: "Title"},
	{Name: "description", Label: "Description"},
}

// Detect extracts {{identifier}} placeholders from template text in
// first-occurrence order. Identifiers are trimmed; duplicates are dropped.
func Detect(html string) types.Variables {
	result := types.Variables{}
	for _, match := range placeholderPattern.FindAllStringSubmatch(html, -1) {
		name := strings.TrimSpace(match[1])
		if name == "" {
			continue
		}
		if _, seen := result.Get(name); seen {
			continue
		}
		result.Set(name, Humanize(name))
	}
	return result
}

// DetectSource scans raw component source for well-known content prop names.
// Matches are lower-cased. It never returns an empty set.
func DetectSource(source string) types.Variables {
	result := types.Variables{}
	for _, match := range sourcePropPattern.FindAllString(source, -1) {
		name := strings.ToLower(match)
		if _, seen := result.Get(name); seen {
			continue
		}
		result.Set(name, Humanize(name))
	}
	if len(result) == 0 {
		return append(types.Variables{}, DefaultSourceVariables...)
	}
	return result
}

// Humanize turns an identifier into a display label:
// "heroTitle" -> "Hero title", "cta_text" -> "Cta text".
func Humanize(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	label := strings.ReplaceAll(b.String(), "_", " ")
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return ""
	}
	runes := []rune(label)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// Placeholders returns every placeholder key occurring in html, trimmed,
// including repeats.
func Placeholders(html string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(html, -1)
	keys := make([]string, 0, len(matches))
	for _, match := range matches {
		keys = append(keys, strings.TrimSpace(match[1]))
	}
	return keys
}

// Unbound lists the distinct placeholder keys in html with no binding.
func Unbound(html string, bindings types.Bindings) []string {
	var missing []string
	seen := make(map[string]bool)
	for _, key := range Placeholders(html) {
		if seen[key] {
			continue
		}
		seen[key] = true
		if _, ok := bindings[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}
