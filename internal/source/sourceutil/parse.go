// Package sourceutil holds the parsing helpers shared by source adapters:
// odds arrive as locale-formatted strings and kickoff dates in whatever
// layout the upstream site emits.
package sourceutil

import (
	"strconv"
	"strings"
	"time"

	"github.com/falconstore/oddswatch/internal/domain"
)

// ParseOdd parses a decimal odd, accepting both "1.85" and the
// comma-decimal "1,85" many sites emit.
func ParseOdd(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, domain.ErrValidation("empty odd")
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, domain.ErrValidation("malformed odd " + strconv.Quote(raw))
	}
	return v, nil
}

// ParseOptionalOdd parses a nullable odd (draw column). Empty and "-"
// mean absent.
func ParseOptionalOdd(raw string) (*float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" || s == "-" {
		return nil, nil
	}
	v, err := ParseOdd(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// matchDateLayouts are tried in order. All parsed dates are returned in UTC.
var matchDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"02/01/2006 15:04",
}

// ParseMatchDate parses a kickoff timestamp. Layouts without a zone are
// interpreted as UTC.
func ParseMatchDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range matchDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, domain.ErrValidation("unrecognized match date " + strconv.Quote(raw))
}
