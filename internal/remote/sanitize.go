package remote

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// plainText strips any markup from server-provided feedback so only the
// text reaches the terminal.
func plainText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(trimmed)))
}

// plainTexts sanitizes each entry and drops the ones that end up empty.
func plainTexts(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if clean := plainText(s); clean != "" {
			out = append(out, clean)
		}
	}
	return out
}
