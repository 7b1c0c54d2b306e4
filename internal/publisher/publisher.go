package publisher

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/falconstore/oddswatch/internal/domain"
	"github.com/falconstore/oddswatch/internal/provider"
	"github.com/falconstore/oddswatch/internal/repository"
)

// staleCutoff is how far past kickoff a match stays in the artifact.
const staleCutoff = 5 * time.Minute

// Publisher reads the comparison views, folds them into one frontend-ready
// document and uploads it as a single JSON object, overwriting the previous
// artifact.
type Publisher struct {
	store  repository.ComparisonReader
	object provider.ObjectStore
	path   string
	logger *slog.Logger
}

func New(store repository.ComparisonReader, object provider.ObjectStore, path string, logger *slog.Logger) *Publisher {
	return &Publisher{store: store, object: object, path: path, logger: logger}
}

// BookmakerOdds is one bookmaker row inside a published match card.
type BookmakerOdds struct {
	BookmakerID    int64            `json:"bookmaker_id"`
	BookmakerName  string           `json:"bookmaker_name"`
	HomeOdd        float64          `json:"home_odd"`
	DrawOdd        *float64         `json:"draw_odd,omitempty"`
	AwayOdd        float64          `json:"away_odd"`
	OddsType       domain.OddsType  `json:"odds_type"`
	MarginPct      float64          `json:"margin_percentage"`
	DataAgeSeconds int64            `json:"data_age_seconds"`
	ScrapedAt      time.Time        `json:"scraped_at"`
	ExtraData      domain.ExtraData `json:"extra_data,omitempty"`
}

// MatchCard is one published fixture with all bookmaker odds and the
// best/worst envelope per outcome. worst_* stay 0 when no positive
// observation exists.
type MatchCard struct {
	MatchID       int64           `json:"match_id"`
	MatchDate     time.Time       `json:"match_date"`
	MatchStatus   string          `json:"match_status"`
	LeagueName    string          `json:"league_name"`
	LeagueCountry string          `json:"league_country"`
	SportType     domain.Sport    `json:"sport_type"`
	HomeTeam      string          `json:"home_team"`
	HomeTeamLogo  string          `json:"home_team_logo,omitempty"`
	AwayTeam      string          `json:"away_team"`
	AwayTeamLogo  string          `json:"away_team_logo,omitempty"`
	Odds          []BookmakerOdds `json:"odds"`
	BestHome      float64         `json:"best_home"`
	BestDraw      float64         `json:"best_draw"`
	BestAway      float64         `json:"best_away"`
	WorstHome     float64         `json:"worst_home"`
	WorstDraw     float64         `json:"worst_draw"`
	WorstAway     float64         `json:"worst_away"`
}

// Artifact is the published top-level document.
type Artifact struct {
	GeneratedAt  string      `json:"generated_at"`
	MatchesCount int         `json:"matches_count"`
	Matches      []MatchCard `json:"matches"`
}

// Publish builds and uploads the artifact. Returns the number of matches
// published.
func (p *Publisher) Publish(ctx context.Context) (int, error) {
	football, err := p.store.ReadFootballComparisonView(ctx)
	if err != nil {
		return 0, err
	}
	basketball, err := p.store.ReadBasketballComparisonView(ctx)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	cards := buildCards(append(football, basketball...), now)

	artifact := Artifact{
		GeneratedAt:  now.Format("2006-01-02T15:04:05.000Z"),
		MatchesCount: len(cards),
		Matches:      cards,
	}
	payload, err := json.Marshal(artifact)
	if err != nil {
		return 0, domain.ErrInternal("marshal artifact", err)
	}

	if err := p.object.Put(ctx, p.path, payload, "application/json"); err != nil {
		return 0, err
	}
	p.logger.Info("artifact published", "path", p.path, "matches", len(cards), "bytes", len(payload))
	return len(cards), nil
}

// buildCards groups rows by (home, away, date-only) so a fixture recreated
// under another match ID still publishes as one card, drops matches past
// the stale cutoff, and computes the per-outcome envelope.
func buildCards(rows []domain.ComparisonRow, now time.Time) []MatchCard {
	cutoff := now.Add(-staleCutoff)

	groups := make(map[string]*MatchCard)
	var order []string
	for _, row := range rows {
		if row.MatchDate.Before(cutoff) {
			continue
		}
		key := groupKey(row)
		card, ok := groups[key]
		if !ok {
			card = &MatchCard{
				MatchID:       row.MatchID,
				MatchDate:     row.MatchDate,
				MatchStatus:   row.MatchStatus,
				LeagueName:    row.LeagueName,
				LeagueCountry: row.LeagueCountry,
				SportType:     row.Sport,
				HomeTeam:      row.HomeTeam,
				HomeTeamLogo:  row.HomeTeamLogo,
				AwayTeam:      row.AwayTeam,
				AwayTeamLogo:  row.AwayTeamLogo,
			}
			groups[key] = card
			order = append(order, key)
		}
		card.Odds = append(card.Odds, BookmakerOdds{
			BookmakerID:    row.BookmakerID,
			BookmakerName:  row.BookmakerName,
			HomeOdd:        row.HomeOdd,
			DrawOdd:        row.DrawOdd,
			AwayOdd:        row.AwayOdd,
			OddsType:       row.OddsType,
			MarginPct:      row.MarginPct,
			DataAgeSeconds: row.DataAgeSecs,
			ScrapedAt:      row.ScrapedAt,
			ExtraData:      row.ExtraData,
		})
		applyEnvelope(card, row)
	}

	cards := make([]MatchCard, 0, len(order))
	for _, key := range order {
		cards = append(cards, *groups[key])
	}
	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].MatchDate.Before(cards[j].MatchDate)
	})
	return cards
}

func groupKey(row domain.ComparisonRow) string {
	return strings.ToLower(row.HomeTeam) + "|" +
		strings.ToLower(row.AwayTeam) + "|" +
		row.MatchDate.UTC().Format("2006-01-02")
}

// applyEnvelope folds one row into the card's best (max) and worst
// (min of positive) odds per outcome.
func applyEnvelope(card *MatchCard, row domain.ComparisonRow) {
	card.BestHome = max(card.BestHome, row.HomeOdd)
	card.BestAway = max(card.BestAway, row.AwayOdd)
	card.WorstHome = minPositive(card.WorstHome, row.HomeOdd)
	card.WorstAway = minPositive(card.WorstAway, row.AwayOdd)
	if row.DrawOdd != nil {
		card.BestDraw = max(card.BestDraw, *row.DrawOdd)
		card.WorstDraw = minPositive(card.WorstDraw, *row.DrawOdd)
	}
}

// minPositive keeps the smallest positive value, ignoring non-positive
// candidates; 0 means no positive observation yet.
func minPositive(current, candidate float64) float64 {
	if candidate <= 0 {
		return current
	}
	if current == 0 || candidate < current {
		return candidate
	}
	return current
}
