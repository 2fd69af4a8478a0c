// Copyright (c) 2026 Bahari. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug folds free text into ASCII hyphenated keys.
//
// The sandbox catalogue uses it for product search, so "Pweza wa Kukaanga",
// "pweza-wa-kukaanga" and "PWEZA" all meet on the same key.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// From folds s to lower-case ASCII words joined by single hyphens.
// Accents are stripped and every other non-alphanumeric run becomes a separator.
func From(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, transform.RemoveFunc(isMark)), s)
	if err != nil {
		folded = s
	}

	words := strings.FieldsFunc(strings.ToLower(folded), func(r rune) bool {
		return r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r))
	})
	return strings.Join(words, "-")
}

// Matches reports whether the folded query occurs inside the folded text.
// An empty query matches everything.
func Matches(text, query string) bool {
	key := From(query)
	return key == "" || strings.Contains(From(text), key)
}

func isMark(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
