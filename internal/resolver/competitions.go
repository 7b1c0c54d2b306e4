package resolver

import "github.com/falconstore/oddswatch/internal/catalog"

// crossLeagueCompetitions are cups and continental tournaments whose
// participants come from different domestic leagues. Only these unlock the
// global fallback lookup.
var crossLeagueCompetitions = map[string]bool{}

func init() {
	for _, name := range []string{
		"FA Cup",
		"EFL Cup",
		"Carabao Cup",
		"Champions League",
		"UEFA Champions League",
		"Europa League",
		"UEFA Europa League",
		"Conference League",
		"UEFA Conference League",
		"Copa Libertadores",
		"Libertadores",
		"Copa Sudamericana",
		"Copa do Rei",
		"Copa del Rey",
		"Copa do Brasil",
		"Euro",
		"Eurocopa",
		"World Cup",
		"Copa do Mundo",
		"Nations League",
		"Coppa Italia",
		"DFB Pokal",
		"Coupe de France",
		"Supercopa",
	} {
		crossLeagueCompetitions[catalog.Normalize(name)] = true
	}
}

// IsCrossLeagueCompetition reports whether a league name belongs to the
// configured cup/continental set.
func IsCrossLeagueCompetition(leagueName string) bool {
	return crossLeagueCompetitions[catalog.Normalize(leagueName)]
}
