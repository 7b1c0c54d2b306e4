package domain

// EntityStatus marks a bookmaker or league as usable by the pipeline.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Bookmaker is a configured odds source. Read-only for the pipeline.
type Bookmaker struct {
	ID     int64
	Name   string
	Status string
}

// League is a configured competition. Read-only for the pipeline.
type League struct {
	ID      int64
	Name    string
	Country string
	Status  string
}

// Team is a canonical team. StandardName is the display form; the pair
// (StandardName, LeagueID) is unique and LeagueID never changes.
type Team struct {
	ID           int64
	StandardName string
	LeagueID     int64
	LogoURL      string
}

// TeamAlias maps a bookmaker's raw spelling onto a canonical team.
// Unique on (lower(AliasName), lower(BookmakerSource)).
type TeamAlias struct {
	TeamID          int64
	AliasName       string
	BookmakerSource string
}

// UnmatchedTeam is a raw name the resolver could not map, recorded for the
// maintenance alias generator.
type UnmatchedTeam struct {
	RawName    string
	Bookmaker  string
	LeagueName string
	Primary    bool
}
