package domain

import "time"

// CycleSummary is the report every orchestrator cycle produces. A cycle
// never fails as a whole; partial failures land in Errors.
type CycleSummary struct {
	CycleID          string        `json:"cycle_id"`
	StartedAt        time.Time     `json:"started_at"`
	Duration         time.Duration `json:"duration"`
	OddsCollected    int           `json:"odds_collected"`
	FootballInserted int           `json:"football_inserted"`
	NBAInserted      int           `json:"nba_inserted"`
	AlertsCreated    int           `json:"alerts_created"`
	MatchesCleaned   int64         `json:"matches_cleaned"`
	JSONUploaded     bool          `json:"json_uploaded"`
	Errors           []string      `json:"errors"`
}

// AddError records a phase failure without failing the cycle.
func (s *CycleSummary) AddError(phase string, err error) {
	s.Errors = append(s.Errors, phase+": "+err.Error())
}
