// Package pages builds size-bounded display pages out of formatted records
// and field content. Every rendering path in the bot goes through it so that
// no single page ever exceeds the platform's display limits.
package pages

import "unicode/utf8"

// Platform display limits. Field-based pages are capped by MaxFields and
// MaxPageChars together; list pages built from formatted record blocks use
// the tighter MaxListChars budget.
const (
	MaxFieldName   = 256
	MaxFieldValue  = 1024
	MaxDescription = 4096
	MaxFields      = 25
	MaxPageChars   = 6000
	MaxListChars   = 4000
)

type Field struct {
	Name  string
	Value string
}

// Page is one bounded unit of displayed content.
type Page struct {
	Title       string
	Description string
	Fields      []Field
	Footer      string
	ImageURL    string
}

func (p *Page) empty() bool {
	return p.Description == "" && len(p.Fields) == 0 && p.ImageURL == ""
}

// truncate cuts s to at most max bytes without splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
