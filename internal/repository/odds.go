package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"

	"github.com/falconstore/oddswatch/internal/domain"
)

// InsertFootballOdds appends one cycle's football observations via COPY.
func (p *Postgres) InsertFootballOdds(ctx context.Context, entries []domain.OddsEntry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(entries))
	for _, e := range entries {
		extra, err := marshalExtra(e.ExtraData)
		if err != nil {
			return err
		}
		rows = append(rows, []any{
			e.MatchID, e.BookmakerID, e.MarketType,
			e.HomeOdd, e.DrawOdd, e.AwayOdd,
			string(e.OddsType), e.ScrapedAt, extra,
		})
	}
	_, err := p.db.CopyFrom(ctx,
		pgx.Identifier{"football_odds_history"},
		[]string{"match_id", "bookmaker_id", "market_type", "home_odd", "draw_odd", "away_odd", "odds_type", "scraped_at", "extra_data"},
		pgx.CopyFromRows(rows))
	if err != nil {
		return domain.ErrStore("insert football odds", err)
	}
	return nil
}

// InsertBasketballOdds appends one cycle's basketball observations via COPY.
// Basketball rows carry no draw odd.
func (p *Postgres) InsertBasketballOdds(ctx context.Context, entries []domain.OddsEntry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(entries))
	for _, e := range entries {
		extra, err := marshalExtra(e.ExtraData)
		if err != nil {
			return err
		}
		rows = append(rows, []any{
			e.MatchID, e.BookmakerID, e.MarketType,
			e.HomeOdd, e.AwayOdd,
			string(e.OddsType), e.ScrapedAt, extra,
		})
	}
	_, err := p.db.CopyFrom(ctx,
		pgx.Identifier{"basketball_odds_history"},
		[]string{"match_id", "bookmaker_id", "market_type", "home_odd", "away_odd", "odds_type", "scraped_at", "extra_data"},
		pgx.CopyFromRows(rows))
	if err != nil {
		return domain.ErrStore("insert basketball odds", err)
	}
	return nil
}

// marshalExtra renders the opaque bag as JSONB input; nil stays NULL.
func marshalExtra(extra domain.ExtraData) (any, error) {
	if extra == nil {
		return nil, nil
	}
	b, err := json.Marshal(extra)
	if err != nil {
		return nil, domain.ErrInternal("marshal extra_data", err)
	}
	return b, nil
}
