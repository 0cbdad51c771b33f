package icons

import "regexp"

// Sanitizer strips active content from untrusted vector markup before it
// is stored or embedded in a rendered document. It is deliberately
// destructive: anything that smells like script is removed, not escaped.
type Sanitizer struct{}

func NewSanitizer() *Sanitizer {
	return &Sanitizer{}
}

var (
	scriptRe     = regexp.MustCompile(`(?is)<script\b.*?</script\s*>`)
	scriptTagRe  = regexp.MustCompile(`(?i)</?script[^>]*>`)
	foreignRe    = regexp.MustCompile(`(?is)<foreignObject\b.*?</foreignObject\s*>`)
	eventAttrRe  = regexp.MustCompile(`(?i)\s+on[a-z]+\s*=\s*(?:"[^"]*"|'[^']*'|[^\s>]+)`)
	scriptURLRe  = regexp.MustCompile(`(?i)\s+(?:xlink:)?href\s*=\s*(?:"\s*javascript:[^"]*"|'\s*javascript:[^']*')`)
	dataImportRe = regexp.MustCompile(`(?i)</?(?:iframe|embed|object)\b[^>]*>`)
)

// SanitizeMarkup removes script elements, inline event handlers,
// javascript: links, foreignObject subtrees, and embedded document
// elements. Everything else passes through untouched.
func (s *Sanitizer) SanitizeMarkup(markup string) string {
	markup = scriptRe.ReplaceAllString(markup, "")
	markup = scriptTagRe.ReplaceAllString(markup, "")
	markup = foreignRe.ReplaceAllString(markup, "")
	markup = eventAttrRe.ReplaceAllString(markup, "")
	markup = scriptURLRe.ReplaceAllString(markup, "")
	markup = dataImportRe.ReplaceAllString(markup, "")
	return markup
}
