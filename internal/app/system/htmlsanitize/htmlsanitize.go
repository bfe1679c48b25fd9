// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize strips markup from text typed into the page editor.
// Every editable field of the home page is plain text rendered by the public
// site, so the policy is bluemonday's strict one: no element or attribute
// survives, and the contents of script and style elements are dropped.
package htmlsanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return policy
}

// maxPasses bounds the sanitize/unescape rounds for nested entity encoding.
const maxPasses = 8

// Text removes every tag from s and returns the remaining text unescaped, so
// "Mães & Filhas" is stored as typed rather than as "Mães &amp; Filhas".
// Markup typed as entities ("&lt;script&gt;") is decoded and sanitized
// again until the text stops changing.
func Text(s string) string {
	if s == "" || IsPlainText(s) && !strings.Contains(s, "&") {
		return s
	}
	p := getPolicy()
	for i := 0; i < maxPasses; i++ {
		next := html.UnescapeString(p.Sanitize(s))
		if next == s {
			return next
		}
		s = next
	}
	// Still changing: keep the escaped form, which cannot hold markup.
	return p.Sanitize(s)
}

// IsPlainText reports whether s looks free of markup (it does not contain
// both '<' and '>').
func IsPlainText(s string) bool {
	return !strings.Contains(s, "<") || !strings.Contains(s, ">")
}
