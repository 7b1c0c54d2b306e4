//go:build integration

package testutil

import (
	"context"
	"time"
)

// SeedBookmaker inserts a bookmaker and returns its ID.
func (e *TestEnv) SeedBookmaker(name string) int64 {
	e.t.Helper()
	var id int64
	err := e.Pool.QueryRow(context.Background(),
		`INSERT INTO bookmakers (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	if err != nil {
		e.t.Fatalf("seed bookmaker %s: %v", name, err)
	}
	return id
}

// SeedLeague inserts a league and returns its ID.
func (e *TestEnv) SeedLeague(name, country string) int64 {
	e.t.Helper()
	var id int64
	err := e.Pool.QueryRow(context.Background(),
		`INSERT INTO leagues (name, country) VALUES ($1, $2) RETURNING id`, name, country).Scan(&id)
	if err != nil {
		e.t.Fatalf("seed league %s: %v", name, err)
	}
	return id
}

// SeedTeam inserts a team and returns its ID.
func (e *TestEnv) SeedTeam(name string, leagueID int64) int64 {
	e.t.Helper()
	var id int64
	err := e.Pool.QueryRow(context.Background(),
		`INSERT INTO teams (standard_name, league_id) VALUES ($1, $2) RETURNING id`,
		name, leagueID).Scan(&id)
	if err != nil {
		e.t.Fatalf("seed team %s: %v", name, err)
	}
	return id
}

// CountRows returns the row count of a table.
func (e *TestEnv) CountRows(table string) int {
	e.t.Helper()
	var n int
	if err := e.Pool.QueryRow(context.Background(), "SELECT count(*) FROM "+table).Scan(&n); err != nil {
		e.t.Fatalf("count %s: %v", table, err)
	}
	return n
}

// Kickoff returns a deterministic future kickoff timestamp.
func Kickoff(hoursAhead int) time.Time {
	return time.Now().UTC().Truncate(time.Second).Add(time.Duration(hoursAhead) * time.Hour)
}
