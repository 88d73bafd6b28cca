package parsing

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FallbackMarkup replaces conversions that produced nothing usable.
const FallbackMarkup = `<div class="component-preview"><p>Component preview unavailable - use manual editing</p></div>`

// MinMarkupLength is the shortest conversion accepted as plausible.
const MinMarkupLength = 20

// Formatted sources close the block on its own line; the compact form is the
// fallback. A bare JSX return must end with ";" or a line break before "}".
// Each pattern is anchored at a return keyword.
var returnBlockPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^return\s*\(\s*([\s\S]*?)\s*\n\s*\);?\s*}`),
	regexp.MustCompile(`^return\s*\(\s*([\s\S]*?)\s*\);?\s*}`),
	regexp.MustCompile(`^return\s*(<[\s\S]*?>)\s*(?:;\s*|\n\s*)}`),
}

var returnKeyword = regexp.MustCompile(`\breturn\b`)

// voidElements never take a closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true, "hr": true,
	"img": true, "input": true, "link": true, "meta": true, "source": true,
	"track": true, "wbr": true,
}

// RewriteRule is one lexical rewrite of component markup.
type RewriteRule struct {
	Name        string
	Pattern     *regexp.Regexp
	Replacement string
	// Rewrite, when set, computes the replacement for one match from the
	// input and the match's submatch indices.
	Rewrite func(input string, m []int) string
}

// Apply runs the rule over input.
func (r RewriteRule) Apply(input string) string {
	if r.Rewrite == nil {
		return r.Pattern.ReplaceAllString(input, r.Replacement)
	}
	var b strings.Builder
	last := 0
	for _, m := range r.Pattern.FindAllStringSubmatchIndex(input, -1) {
		b.WriteString(input[last:m[0]])
		b.WriteString(r.Rewrite(input, m))
		last = m[1]
	}
	b.WriteString(input[last:])
	return b.String()
}

// ConversionRules are applied in order by Convert.
var ConversionRules = []RewriteRule{
	{Name: "comments", Pattern: regexp.MustCompile(`\{/\*[\s\S]*?\*/\}`)},
	{Name: "class-attribute", Pattern: regexp.MustCompile(`\bclassName=`), Replacement: "class="},
	{Name: "label-target", Pattern: regexp.MustCompile(`\bhtmlFor=`), Replacement: "for="},
	{Name: "motion-open", Pattern: regexp.MustCompile(`<motion\.(\w+)`), Replacement: "<$1"},
	{Name: "motion-close", Pattern: regexp.MustCompile(`</motion\.(\w+)\s*>`), Replacement: "</$1>"},
	{Name: "presence-open", Pattern: regexp.MustCompile(`<AnimatePresence[^>]*>`)},
	{Name: "presence-close", Pattern: regexp.MustCompile(`</AnimatePresence\s*>`)},
	{Name: "fragments", Pattern: regexp.MustCompile(`</?>`)},
	{Name: "template-literal", Pattern: regexp.MustCompile("\\{`([^`]*)`\\}"), Replacement: `"$1"`},
	{Name: "double-quoted-literal", Pattern: regexp.MustCompile(`\{"([^"]*)"\}`), Replacement: `"$1"`},
	{Name: "single-quoted-literal", Pattern: regexp.MustCompile(`\{'([^']*)'\}`), Replacement: `"$1"`},
	{Name: "event-handlers", Pattern: regexp.MustCompile(`\s+on[A-Z]\w*=\{[^}]*\}+`)},
	{Name: "refs", Pattern: regexp.MustCompile(`\s+ref=\{[^}]*\}`)},
	{Name: "object-props", Pattern: regexp.MustCompile(`\s+[a-zA-Z][\w-]*=\{\{[^}]*\}\}`)},
	{
		Name:    "self-closing",
		Pattern: regexp.MustCompile(`<([a-zA-Z][\w.-]*)((?:\s[^<>]*?)?)\s*/>`),
		Rewrite: func(input string, m []int) string {
			tag := input[m[2]:m[3]]
			attrs := ""
			if m[4] >= 0 {
				attrs = input[m[4]:m[5]]
			}
			if voidElements[strings.ToLower(tag)] {
				return "<" + tag + attrs + ">"
			}
			return "<" + tag + attrs + "></" + tag + ">"
		},
	},
	{
		Name:    "attribute-interpolation",
		Pattern: regexp.MustCompile(`=\{(\w+(?:\.\w+)*)\}`),
		Rewrite: func(input string, m []int) string {
			return `="{{` + strings.ReplaceAll(input[m[2]:m[3]], ".", "_") + `}}"`
		},
	},
	{
		Name:    "interpolation",
		Pattern: regexp.MustCompile(`\{(\w+(?:\.\w+)*)\}`),
		Rewrite: func(input string, m []int) string {
			// already a {{placeholder}}
			if m[0] > 0 && input[m[0]-1] == '{' || m[1] < len(input) && input[m[1]] == '}' {
				return input[m[0]:m[1]]
			}
			return "{{" + strings.ReplaceAll(input[m[2]:m[3]], ".", "_") + "}}"
		},
	},
	{Name: "whitespace", Pattern: regexp.MustCompile(`\s+`), Replacement: " "},
}

// ExtractReturnBlock returns the markup of the component's return statement:
// the balanced return block at the shallowest brace depth, so returns inside
// callbacks such as list.map lose to the component's own.
func ExtractReturnBlock(source string) (string, bool) {
	var (
		best      string
		bestDepth = -1
	)
	for _, loc := range returnKeyword.FindAllStringIndex(source, -1) {
		depth := braceDepth(source[:loc[0]])
		if bestDepth >= 0 && depth >= bestDepth {
			continue
		}
		for _, pattern := range returnBlockPatterns {
			m := pattern.FindStringSubmatch(source[loc[0]:])
			if m == nil || !isSelfContained(m[1]) {
				continue
			}
			best, bestDepth = m[1], depth
			break
		}
	}
	return best, bestDepth >= 0
}

// braceDepth counts the curly braces left open in prefix.
func braceDepth(prefix string) int {
	return strings.Count(prefix, "{") - strings.Count(prefix, "}")
}

// isSelfContained reports whether block has balanced brackets and no
// return statement of its own.
func isSelfContained(block string) bool {
	if returnKeyword.MatchString(block) {
		return false
	}
	var parens, braces int
	for _, r := range block {
		switch r {
		case '(':
			parens++
		case ')':
			parens--
		case '{':
			braces++
		case '}':
			braces--
		}
		if parens < 0 || braces < 0 {
			return false
		}
	}
	return parens == 0 && braces == 0
}

// Convert approximates framework component source as template HTML. The
// result is best-effort; implausible output is replaced by FallbackMarkup.
func Convert(source string) string {
	block, ok := ExtractReturnBlock(source)
	if !ok {
		return FallbackMarkup
	}

	markup := block
	for _, rule := range ConversionRules {
		markup = rule.Apply(markup)
	}
	markup = strings.TrimSpace(markup)

	if len(markup) < MinMarkupLength || !hasElements(markup) {
		return FallbackMarkup
	}
	return markup
}

// hasElements reports whether markup parses to at least one body element.
func hasElements(markup string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return false
	}
	return doc.Find("body *").Length() > 0
}
