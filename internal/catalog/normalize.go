package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stopwords stripped by the fuzzy-matching name variant. The reduced set is
// the fallback when the full set would leave one token or fewer.
var (
	fullStopwords    = map[string]bool{"de": true, "do": true, "da": true, "del": true, "la": true, "fc": true, "sc": true, "cf": true, "ac": true, "ss": true, "club": true, "sporting": true}
	reducedStopwords = map[string]bool{"de": true, "do": true, "da": true, "del": true, "la": true}
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize produces the index form of a name: whitespace collapsed,
// diacritics stripped, lowercased.
func Normalize(name string) string {
	s := strings.Join(strings.Fields(name), " ")
	if out, _, err := transform.String(stripMarks, s); err == nil {
		s = out
	}
	return strings.ToLower(s)
}

// StripStopwords returns the fuzzy-matching variant of an already-normalized
// name. It removes the full stopword set, backing off to the reduced set
// when the result would keep one token or fewer, and to the input itself
// when even that empties the name.
func StripStopwords(normalized string) string {
	if s := removeStopwords(normalized, fullStopwords); tokenCount(s) >= 2 {
		return s
	}
	if s := removeStopwords(normalized, reducedStopwords); s != "" {
		return s
	}
	return normalized
}

func removeStopwords(s string, stop map[string]bool) string {
	fields := strings.Fields(s)
	kept := fields[:0:0]
	for _, f := range fields {
		if !stop[f] {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, " ")
}

func tokenCount(s string) int {
	return len(strings.Fields(s))
}
