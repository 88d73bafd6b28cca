package variables

import (
	"strings"

	"github.com/jonathan/framecraft/internal/types"
)

// Substitute replaces every {{key}} in html with bindings[key]. Keys are
// trimmed before lookup. Placeholders without a binding are left verbatim,
// and substituted values are never re-scanned.
func Substitute(html string, bindings types.Bindings) string {
	if len(bindings) == 0 {
		return html
	}
	return placeholderPattern.ReplaceAllStringFunc(html, func(token string) string {
		key := strings.TrimSpace(token[2 : len(token)-2])
		if value, ok := bindings[key]; ok {
			return value
		}
		return token
	})
}
