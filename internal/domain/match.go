package domain

import "time"

// Sport selects between the two match stores.
type Sport string

const (
	SportFootball   Sport = "football"
	SportBasketball Sport = "basketball"
)

// Match status lifecycle.
const (
	MatchScheduled = "scheduled"
	MatchStarted   = "started"
	MatchFinished  = "finished"
)

// Match is a stored fixture. Inverted is set only by the basketball batch
// upsert when the caller's home/away pair is swapped relative to the stored
// record.
type Match struct {
	ID         int64
	LeagueID   int64
	HomeTeamID int64
	AwayTeamID int64
	MatchDate  time.Time
	Status     string
	Inverted   bool
}

// MatchKey identifies a fixture within a batch upsert request. The date is
// kept as unix seconds so the key is comparable and safe as a map key.
type MatchKey struct {
	LeagueID   int64
	HomeTeamID int64
	AwayTeamID int64
	DateUnix   int64
}

// NewMatchKey builds a key from a kickoff time, normalized to UTC seconds.
func NewMatchKey(leagueID, homeTeamID, awayTeamID int64, date time.Time) MatchKey {
	return MatchKey{
		LeagueID:   leagueID,
		HomeTeamID: homeTeamID,
		AwayTeamID: awayTeamID,
		DateUnix:   date.UTC().Unix(),
	}
}

// Date returns the kickoff as a UTC time.
func (k MatchKey) Date() time.Time {
	return time.Unix(k.DateUnix, 0).UTC()
}

// Swapped returns the key with home and away exchanged.
func (k MatchKey) Swapped() MatchKey {
	return MatchKey{
		LeagueID:   k.LeagueID,
		HomeTeamID: k.AwayTeamID,
		AwayTeamID: k.HomeTeamID,
		DateUnix:   k.DateUnix,
	}
}
