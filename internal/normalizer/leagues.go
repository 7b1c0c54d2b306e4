package normalizer

import (
	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/falconstore/oddswatch/internal/catalog"
	"github.com/falconstore/oddswatch/internal/domain"
)

// leagueFuzzyCutoff is the token-sort score a raw league name must reach
// when no exact match exists.
const leagueFuzzyCutoff = 80

// LeagueMatcher maps raw league strings onto configured leagues. Raw names
// for leagues that were never configured miss on purpose: those offers are
// dropped silently.
type LeagueMatcher struct {
	catalog *catalog.Catalog
}

func NewLeagueMatcher(cat *catalog.Catalog) *LeagueMatcher {
	return &LeagueMatcher{catalog: cat}
}

// Match resolves a raw league name, exact first, then token-sort fuzzy.
func (m *LeagueMatcher) Match(raw string) (domain.League, bool) {
	norm := catalog.Normalize(raw)
	if norm == "" {
		return domain.League{}, false
	}

	leagues := m.catalog.Leagues()
	for _, l := range leagues {
		if catalog.Normalize(l.Name) == norm {
			return l, true
		}
	}

	var best domain.League
	bestScore := 0
	for _, l := range leagues {
		if s := fuzzy.TokenSortRatio(norm, catalog.Normalize(l.Name)); s >= leagueFuzzyCutoff && s > bestScore {
			best, bestScore = l, s
		}
	}
	return best, bestScore > 0
}
