package uischema

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	helpTextPolicyOnce sync.Once
	helpTextPolicy     *bluemonday.Policy
)

// SanitizeHelpText strips markup from help text except for inline emphasis
// and plain links, which renderers emit unescaped.
func SanitizeHelpText(input string) string {
	helpTextPolicyOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowElements("em", "strong", "code", "br")
		p.AllowStandardURLs()
		p.AllowAttrs("href").OnElements("a")
		p.RequireNoFollowOnLinks(true)
		p.AddTargetBlankToFullyQualifiedLinks(true)
		helpTextPolicy = p
	})
	return helpTextPolicy.Sanitize(input)
}
