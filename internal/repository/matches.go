package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/falconstore/oddswatch/internal/domain"
)

// matchWindowPad widens the batch's date range so a fixture rescheduled by
// a few hours, or reported with a slightly different kickoff, still maps
// onto the stored record.
const matchWindowPad = 24 * time.Hour

type teamTuple struct {
	leagueID   int64
	homeTeamID int64
	awayTeamID int64
}

// UpsertFootballMatchesBatch maps every key onto a stored football match,
// inserting the missing ones.
func (p *Postgres) UpsertFootballMatchesBatch(ctx context.Context, keys []domain.MatchKey) (map[domain.MatchKey]domain.Match, error) {
	return p.upsertMatchesBatch(ctx, "football_matches", keys, false)
}

// UpsertBasketballMatchesBatch behaves like the football variant but also
// recognizes the inverted team tuple, flagging those matches Inverted.
func (p *Postgres) UpsertBasketballMatchesBatch(ctx context.Context, keys []domain.MatchKey) (map[domain.MatchKey]domain.Match, error) {
	return p.upsertMatchesBatch(ctx, "basketball_matches", keys, true)
}

func (p *Postgres) upsertMatchesBatch(ctx context.Context, table string, keys []domain.MatchKey, detectInversion bool) (map[domain.MatchKey]domain.Match, error) {
	result := make(map[domain.MatchKey]domain.Match, len(keys))
	if len(keys) == 0 {
		return result, nil
	}

	from, to := batchWindow(keys)
	index, err := p.fetchWindow(ctx, table, from, to)
	if err != nil {
		return nil, err
	}

	for _, key := range keys {
		if _, done := result[key]; done {
			continue
		}
		tuple := teamTuple{key.LeagueID, key.HomeTeamID, key.AwayTeamID}
		if m, ok := index[tuple]; ok {
			result[key] = m
			continue
		}
		if detectInversion {
			if m, ok := index[teamTuple{key.LeagueID, key.AwayTeamID, key.HomeTeamID}]; ok {
				m.Inverted = true
				result[key] = m
				continue
			}
		}

		m, err := p.insertMatch(ctx, table, key)
		if err != nil {
			return nil, err
		}
		index[tuple] = m
		result[key] = m
	}
	return result, nil
}

func batchWindow(keys []domain.MatchKey) (time.Time, time.Time) {
	min, max := keys[0].Date(), keys[0].Date()
	for _, k := range keys[1:] {
		d := k.Date()
		if d.Before(min) {
			min = d
		}
		if d.After(max) {
			max = d
		}
	}
	return min.Add(-matchWindowPad), max.Add(matchWindowPad)
}

// fetchWindow loads all scheduled matches inside the window, indexed by
// league and team tuple. The first match seen per tuple wins.
func (p *Postgres) fetchWindow(ctx context.Context, table string, from, to time.Time) (map[teamTuple]domain.Match, error) {
	rows, err := p.db.Query(ctx, fmt.Sprintf(
		`SELECT id, league_id, home_team_id, away_team_id, match_date, status
		 FROM %s
		 WHERE match_date BETWEEN $1 AND $2 AND status = $3
		 ORDER BY id`, table),
		from, to, domain.MatchScheduled)
	if err != nil {
		return nil, domain.ErrStore("fetch match window", err)
	}
	defer rows.Close()

	index := make(map[teamTuple]domain.Match)
	for rows.Next() {
		var m domain.Match
		if err := rows.Scan(&m.ID, &m.LeagueID, &m.HomeTeamID, &m.AwayTeamID, &m.MatchDate, &m.Status); err != nil {
			return nil, domain.ErrStore("scan match", err)
		}
		tuple := teamTuple{m.LeagueID, m.HomeTeamID, m.AwayTeamID}
		if _, ok := index[tuple]; !ok {
			index[tuple] = m
		}
	}
	return index, rows.Err()
}

// insertMatch creates a match, falling back to a re-fetch when a concurrent
// writer inserted the same fixture first.
func (p *Postgres) insertMatch(ctx context.Context, table string, key domain.MatchKey) (domain.Match, error) {
	var m domain.Match
	err := p.db.QueryRow(ctx, fmt.Sprintf(
		`INSERT INTO %s (league_id, home_team_id, away_team_id, match_date, status)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (league_id, home_team_id, away_team_id, match_date) DO NOTHING
		 RETURNING id, league_id, home_team_id, away_team_id, match_date, status`, table),
		key.LeagueID, key.HomeTeamID, key.AwayTeamID, key.Date(), domain.MatchScheduled).
		Scan(&m.ID, &m.LeagueID, &m.HomeTeamID, &m.AwayTeamID, &m.MatchDate, &m.Status)
	if err == nil {
		return m, nil
	}
	if !isNoRows(err) {
		return domain.Match{}, domain.ErrStore("insert match", err)
	}

	err = p.db.QueryRow(ctx, fmt.Sprintf(
		`SELECT id, league_id, home_team_id, away_team_id, match_date, status
		 FROM %s
		 WHERE league_id = $1 AND home_team_id = $2 AND away_team_id = $3 AND match_date = $4`, table),
		key.LeagueID, key.HomeTeamID, key.AwayTeamID, key.Date()).
		Scan(&m.ID, &m.LeagueID, &m.HomeTeamID, &m.AwayTeamID, &m.MatchDate, &m.Status)
	if err != nil {
		return domain.Match{}, domain.ErrStore("refetch match after conflict", err)
	}
	return m, nil
}

// RetireStartedFootballMatches marks scheduled football matches whose
// kickoff has passed as started.
func (p *Postgres) RetireStartedFootballMatches(ctx context.Context) (int64, error) {
	return p.retireStarted(ctx, "football_matches")
}

// RetireStartedBasketballMatches marks scheduled basketball matches whose
// kickoff has passed as started.
func (p *Postgres) RetireStartedBasketballMatches(ctx context.Context) (int64, error) {
	return p.retireStarted(ctx, "basketball_matches")
}

func (p *Postgres) retireStarted(ctx context.Context, table string) (int64, error) {
	tag, err := p.db.Exec(ctx, fmt.Sprintf(
		`UPDATE %s SET status = $1, updated_at = now()
		 WHERE status = $2 AND match_date < now()`, table),
		domain.MatchStarted, domain.MatchScheduled)
	if err != nil {
		return 0, domain.ErrStore("retire started matches", err)
	}
	return tag.RowsAffected(), nil
}
