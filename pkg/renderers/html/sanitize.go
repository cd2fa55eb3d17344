package html

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	markupPolicyOnce sync.Once
	markupPolicy     *bluemonday.Policy
)

// Sanitize keeps the small set of inline elements allowed in step and field
// descriptions and strips everything else.
func Sanitize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(policy().Sanitize(trimmed))
}

func policy() *bluemonday.Policy {
	markupPolicyOnce.Do(func() {
		p := bluemonday.StrictPolicy()
		p.AllowElements("strong", "em", "b", "i", "br", "code", "span")
		p.AllowAttrs("href").OnElements("a")
		p.AllowElements("a")
		p.RequireNoFollowOnLinks(true)
		p.AllowURLSchemes("https", "http", "mailto")
		markupPolicy = p
	})
	return markupPolicy
}
