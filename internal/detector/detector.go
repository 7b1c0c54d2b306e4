package detector

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/falconstore/oddswatch/internal/catalog"
	"github.com/falconstore/oddswatch/internal/domain"
	"github.com/falconstore/oddswatch/internal/repository"
)

// Detector derives cross-bookmaker alerts from the football odds inserted
// in the current cycle. Basketball is excluded: two-outcome markets with a
// single store produce too many false windows.
type Detector struct {
	catalog  *catalog.Catalog
	store    repository.AlertStore
	arbMin   float64
	valueMin float64
	logger   *slog.Logger
}

// New builds a detector. arbThreshold is the minimum guaranteed profit
// percentage for an arbitrage alert; valueThreshold the minimum edge
// percentage over the market average for a value bet.
func New(cat *catalog.Catalog, store repository.AlertStore, arbThreshold, valueThreshold float64, logger *slog.Logger) *Detector {
	return &Detector{
		catalog:  cat,
		store:    store,
		arbMin:   arbThreshold,
		valueMin: valueThreshold,
		logger:   logger,
	}
}

// quote is one bookmaker's latest odds for a match within the cycle.
type quote struct {
	bookmakerID int64
	homeOdd     float64
	drawOdd     *float64
	awayOdd     float64
}

// Run groups the cycle's football entries by match, derives alerts for
// every match quoted by at least two bookmakers, and persists them in one
// batch. matches supplies team IDs for alert titles. Returns the number of
// alerts created.
func (d *Detector) Run(ctx context.Context, entries []domain.OddsEntry, matches map[int64]domain.Match) (int, error) {
	byMatch := make(map[int64][]quote)
	for _, e := range entries {
		byMatch[e.MatchID] = append(byMatch[e.MatchID], quote{
			bookmakerID: e.BookmakerID,
			homeOdd:     e.HomeOdd,
			drawOdd:     e.DrawOdd,
			awayOdd:     e.AwayOdd,
		})
	}

	now := time.Now().UTC()
	var alerts []domain.Alert
	for matchID, quotes := range byMatch {
		quotes = latestPerBookmaker(quotes)
		if len(quotes) < 2 {
			continue
		}
		title := d.matchTitle(matchID, matches)
		if a, ok := d.checkArbitrage(matchID, title, quotes, now); ok {
			alerts = append(alerts, a)
		}
		alerts = append(alerts, d.checkValueBets(matchID, title, quotes, now)...)
	}

	if len(alerts) == 0 {
		return 0, nil
	}
	if err := d.store.InsertAlertsBatch(ctx, alerts); err != nil {
		return 0, err
	}
	d.logger.Info("alerts created", "count", len(alerts))
	return len(alerts), nil
}

// latestPerBookmaker keeps one quote per bookmaker, the last seen winning.
func latestPerBookmaker(quotes []quote) []quote {
	seen := make(map[int64]int, len(quotes))
	out := make([]quote, 0, len(quotes))
	for _, q := range quotes {
		if i, ok := seen[q.bookmakerID]; ok {
			out[i] = q
			continue
		}
		seen[q.bookmakerID] = len(out)
		out = append(out, q)
	}
	return out
}

// checkArbitrage picks the best odd per outcome across bookmakers. Markets
// without a draw sum only home and away. Profit is
// (1 - sum of inverse best odds) * 100.
func (d *Detector) checkArbitrage(matchID int64, title string, quotes []quote, now time.Time) (domain.Alert, bool) {
	legs := []domain.ArbitrageLeg{
		d.bestLeg("home", quotes, func(q quote) (float64, bool) { return q.homeOdd, true }),
		d.bestLeg("away", quotes, func(q quote) (float64, bool) { return q.awayOdd, true }),
	}
	if draw := d.bestLeg("draw", quotes, func(q quote) (float64, bool) {
		if q.drawOdd == nil {
			return 0, false
		}
		return *q.drawOdd, true
	}); draw.Odd > 0 {
		legs = append(legs, draw)
	}

	sum := 0.0
	for _, leg := range legs {
		if leg.Odd <= 1.0 {
			return domain.Alert{}, false
		}
		sum += 1.0 / leg.Odd
	}
	profit := (1.0 - sum) * 100.0
	if profit <= d.arbMin {
		return domain.Alert{}, false
	}

	sort.Slice(legs, func(i, j int) bool { return legs[i].Outcome < legs[j].Outcome })
	return domain.Alert{
		MatchID:   matchID,
		Type:      domain.AlertArbitrage,
		Title:     fmt.Sprintf("Arbitragem %.2f%%: %s", profit, title),
		Details:   domain.ArbitrageDetails{ProfitPercentage: round2(profit), Legs: legs},
		CreatedAt: now,
	}, true
}

func (d *Detector) bestLeg(outcome string, quotes []quote, pick func(quote) (float64, bool)) domain.ArbitrageLeg {
	best := domain.ArbitrageLeg{Outcome: outcome}
	for _, q := range quotes {
		if odd, ok := pick(q); ok && odd > best.Odd {
			best.Odd = odd
			best.Bookmaker = d.bookmakerName(q.bookmakerID)
		}
	}
	return best
}

// checkValueBets flags any odd whose edge over the group's arithmetic mean
// for the same outcome reaches the threshold.
func (d *Detector) checkValueBets(matchID int64, title string, quotes []quote, now time.Time) []domain.Alert {
	var alerts []domain.Alert
	outcomes := []struct {
		name string
		pick func(quote) (float64, bool)
	}{
		{"home", func(q quote) (float64, bool) { return q.homeOdd, true }},
		{"draw", func(q quote) (float64, bool) {
			if q.drawOdd == nil {
				return 0, false
			}
			return *q.drawOdd, true
		}},
		{"away", func(q quote) (float64, bool) { return q.awayOdd, true }},
	}

	for _, oc := range outcomes {
		type offered struct {
			odd         float64
			bookmakerID int64
		}
		var offers []offered
		for _, q := range quotes {
			if odd, ok := oc.pick(q); ok && odd > 1.0 {
				offers = append(offers, offered{odd, q.bookmakerID})
			}
		}
		if len(offers) < 2 {
			continue
		}
		sum := 0.0
		for _, of := range offers {
			sum += of.odd
		}
		avg := sum / float64(len(offers))
		for _, of := range offers {
			edge := (of.odd - avg) / avg * 100.0
			if edge < d.valueMin {
				continue
			}
			bk := d.bookmakerName(of.bookmakerID)
			alerts = append(alerts, domain.Alert{
				MatchID: matchID,
				Type:    domain.AlertValueBet,
				Title:   fmt.Sprintf("Value bet %s (%s) @ %.2f: %s", oc.name, bk, of.odd, title),
				Details: domain.ValueBetDetails{
					Outcome:        oc.name,
					Odd:            of.odd,
					AverageOdd:     round2(avg),
					EdgePercentage: round2(edge),
					Bookmaker:      bk,
				},
				CreatedAt: now,
			})
		}
	}
	return alerts
}

func (d *Detector) matchTitle(matchID int64, matches map[int64]domain.Match) string {
	m, ok := matches[matchID]
	if !ok {
		return fmt.Sprintf("match %d", matchID)
	}
	home, hok := d.catalog.TeamName(m.HomeTeamID)
	away, aok := d.catalog.TeamName(m.AwayTeamID)
	if !hok || !aok {
		return fmt.Sprintf("match %d", matchID)
	}
	return home + " x " + away
}

func (d *Detector) bookmakerName(id int64) string {
	if name, ok := d.catalog.BookmakerName(id); ok {
		return name
	}
	return fmt.Sprintf("bookmaker %d", id)
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
