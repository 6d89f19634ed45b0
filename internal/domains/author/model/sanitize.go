package model

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// Sanitize strips markup and control characters from untrusted text.
// Tags, comments and doctypes are dropped; text between them is kept
// byte-for-byte, so entities and quotes are not re-encoded.
func Sanitize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(stripControl(b.String()))
		case html.TextToken:
			b.Write(z.Raw())
		}
	}
}

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
