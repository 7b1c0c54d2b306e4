package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/falconstore/oddswatch/internal/domain"
)

// ReadFootballComparisonView returns the latest football odds per
// (match, bookmaker, odds type), pre-joined with names, margin and age.
func (p *Postgres) ReadFootballComparisonView(ctx context.Context) ([]domain.ComparisonRow, error) {
	return p.readComparisonView(ctx, "football_odds_comparison", domain.SportFootball, true)
}

// ReadBasketballComparisonView is the basketball variant; rows carry no
// draw odd.
func (p *Postgres) ReadBasketballComparisonView(ctx context.Context) ([]domain.ComparisonRow, error) {
	return p.readComparisonView(ctx, "basketball_odds_comparison", domain.SportBasketball, false)
}

func (p *Postgres) readComparisonView(ctx context.Context, view string, sport domain.Sport, withDraw bool) ([]domain.ComparisonRow, error) {
	drawCol := "NULL::numeric"
	if withDraw {
		drawCol = "draw_odd"
	}
	rows, err := p.db.Query(ctx, fmt.Sprintf(
		`SELECT match_id, match_date, match_status,
		        league_name, league_country,
		        home_team, home_team_logo, away_team, away_team_logo,
		        bookmaker_id, bookmaker_name,
		        home_odd, %s, away_odd, odds_type,
		        margin_percentage, data_age_seconds, scraped_at, extra_data
		 FROM %s`, drawCol, view))
	if err != nil {
		return nil, domain.ErrStore("read comparison view", err)
	}
	defer rows.Close()

	var out []domain.ComparisonRow
	for rows.Next() {
		var (
			r     domain.ComparisonRow
			extra []byte
		)
		r.Sport = sport
		err := rows.Scan(
			&r.MatchID, &r.MatchDate, &r.MatchStatus,
			&r.LeagueName, &r.LeagueCountry,
			&r.HomeTeam, &r.HomeTeamLogo, &r.AwayTeam, &r.AwayTeamLogo,
			&r.BookmakerID, &r.BookmakerName,
			&r.HomeOdd, &r.DrawOdd, &r.AwayOdd, &r.OddsType,
			&r.MarginPct, &r.DataAgeSecs, &r.ScrapedAt, &extra)
		if err != nil {
			return nil, domain.ErrStore("scan comparison row", err)
		}
		if len(extra) > 0 {
			if err := json.Unmarshal(extra, &r.ExtraData); err != nil {
				return nil, domain.ErrInternal("unmarshal extra_data", err)
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
