package domain

import "time"

// OddsType distinguishes the odds variants a source may emit for the same
// fixture: PA (early payout) and SO (boosted promotional odds).
type OddsType string

const (
	OddsTypePA OddsType = "PA"
	OddsTypeSO OddsType = "SO"
)

// ExtraData is an opaque key/value bag carried from source to store. The
// pipeline treats it as transparent passthrough, except for the
// teams_swapped flag set on inverted basketball matches.
type ExtraData map[string]any

// ExtraKeyTeamsSwapped marks an odds row whose source delivered the team
// pair inverted relative to the stored match.
const ExtraKeyTeamsSwapped = "teams_swapped"

// Clone returns a shallow copy, never nil.
func (e ExtraData) Clone() ExtraData {
	out := make(ExtraData, len(e)+1)
	for k, v := range e {
		out[k] = v
	}
	return out
}

// RawOffer is the in-memory record a source yields for one fixture/market.
type RawOffer struct {
	BookmakerName string
	HomeTeamRaw   string
	AwayTeamRaw   string
	LeagueRaw     string
	MatchDate     time.Time
	HomeOdd       float64
	DrawOdd       *float64
	AwayOdd       float64
	Sport         Sport
	MarketType    string
	OddsType      OddsType
	ScrapedAt     time.Time
	ExtraData     ExtraData
}

// Validate enforces the odds invariants: all present odds strictly above
// 1.0, and no draw odd on basketball offers.
func (o RawOffer) Validate() error {
	if o.BookmakerName == "" {
		return ErrValidation("bookmaker name is required")
	}
	if o.HomeTeamRaw == "" || o.AwayTeamRaw == "" {
		return ErrValidation("both team names are required")
	}
	if o.MatchDate.IsZero() {
		return ErrValidation("match date is required")
	}
	if o.HomeOdd <= 1.0 || o.AwayOdd <= 1.0 {
		return ErrValidation("home and away odds must be greater than 1.0")
	}
	if o.DrawOdd != nil && *o.DrawOdd <= 1.0 {
		return ErrValidation("draw odd must be greater than 1.0 when present")
	}
	if o.Sport == SportBasketball && o.DrawOdd != nil {
		return ErrValidation("basketball offers must not carry a draw odd")
	}
	return nil
}

// OddsEntry is a normalized, store-ready odds observation.
type OddsEntry struct {
	MatchID     int64
	BookmakerID int64
	MarketType  string
	HomeOdd     float64
	DrawOdd     *float64
	AwayOdd     float64
	OddsType    OddsType
	ScrapedAt   time.Time
	ExtraData   ExtraData
}

// ComparisonRow is one pre-joined row of a store comparison view: a single
// bookmaker's latest odds for a match, with derived margin and data age.
type ComparisonRow struct {
	MatchID       int64
	Sport         Sport
	MatchDate     time.Time
	MatchStatus   string
	LeagueName    string
	LeagueCountry string
	HomeTeam      string
	HomeTeamLogo  string
	AwayTeam      string
	AwayTeamLogo  string
	BookmakerID   int64
	BookmakerName string
	HomeOdd       float64
	DrawOdd       *float64
	AwayOdd       float64
	OddsType      OddsType
	MarginPct     float64
	DataAgeSecs   int64
	ScrapedAt     time.Time
	ExtraData     ExtraData
}
