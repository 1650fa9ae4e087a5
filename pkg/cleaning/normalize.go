// Package cleaning normalizes and filters raw service-usage records before
// validation. Every operation is pure and logged, so a run can be traced
// end to end from the raw row counts to the cleaned set.
package cleaning

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var innerSpace = regexp.MustCompile(`\s+`)

// accentStripper decomposes to NFD, drops combining marks, recomposes.
var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var titleCaser = cases.Title(language.Und)

// RemoveAccents strips diacritical marks from a string ("García" -> "Garcia").
func RemoveAccents(s string) string {
	out, _, err := transform.String(accentStripper, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeText trims outer whitespace, collapses runs of inner whitespace
// to a single space, title-cases each word when titleCase is set, and strips
// accents when stripAccents is set.
func NormalizeText(s string, titleCase, stripAccents bool) string {
	out := strings.TrimSpace(s)
	out = innerSpace.ReplaceAllString(out, " ")
	if titleCase {
		out = titleCaser.String(out)
	}
	if stripAccents {
		out = RemoveAccents(out)
	}
	return out
}
