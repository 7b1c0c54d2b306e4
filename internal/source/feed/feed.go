// Package feed implements a generic JSON feed source: one HTTP GET per
// cycle against a bookmaker-specific endpoint that returns a flat offer
// array. Site-specific scrapers live out of process and publish into
// these feeds.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/falconstore/oddswatch/internal/domain"
	"github.com/falconstore/oddswatch/internal/source/sourceutil"
)

// wireOffer is the feed's wire format. Odds come as strings because several
// upstream publishers emit comma decimals.
type wireOffer struct {
	HomeTeam   string           `json:"home_team"`
	AwayTeam   string           `json:"away_team"`
	League     string           `json:"league"`
	MatchDate  string           `json:"match_date"`
	HomeOdd    string           `json:"home_odd"`
	DrawOdd    string           `json:"draw_odd"`
	AwayOdd    string           `json:"away_odd"`
	Sport      string           `json:"sport"`
	MarketType string           `json:"market_type"`
	OddsType   string           `json:"odds_type"`
	ExtraData  domain.ExtraData `json:"extra_data"`
}

// Source pulls one bookmaker's feed.
type Source struct {
	name   string
	url    string
	client *http.Client
	logger *slog.Logger
}

func New(name, url string, logger *slog.Logger) *Source {
	return &Source{
		name:   name,
		url:    url,
		client: &http.Client{Timeout: 20 * time.Second},
		logger: logger.With("source", name),
	}
}

func (s *Source) Name() string { return s.name }

// Setup validates the endpoint once. Idempotent.
func (s *Source) Setup(ctx context.Context) error {
	if strings.TrimSpace(s.url) == "" {
		return domain.ErrConfig("feed source " + s.name + " has no url")
	}
	return nil
}

func (s *Source) Teardown(ctx context.Context) error {
	s.client.CloseIdleConnections()
	return nil
}

// Collect fetches and parses the feed. Malformed rows are skipped with a
// log line; one bad row never discards the batch.
func (s *Source) Collect(ctx context.Context) ([]domain.RawOffer, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, domain.ErrInternal("build feed request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, domain.ErrUpstream(s.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, domain.ErrUpstream(s.name,
			fmt.Errorf("feed returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var wire []wireOffer
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, domain.ErrUpstream(s.name, fmt.Errorf("decode feed: %w", err))
	}

	scrapedAt := time.Now().UTC()
	offers := make([]domain.RawOffer, 0, len(wire))
	for i, w := range wire {
		offer, err := s.toOffer(w, scrapedAt)
		if err != nil {
			s.logger.Debug("skipping feed row", "index", i, "error", err)
			continue
		}
		offers = append(offers, offer)
	}
	return offers, nil
}

func (s *Source) toOffer(w wireOffer, scrapedAt time.Time) (domain.RawOffer, error) {
	matchDate, err := sourceutil.ParseMatchDate(w.MatchDate)
	if err != nil {
		return domain.RawOffer{}, err
	}
	homeOdd, err := sourceutil.ParseOdd(w.HomeOdd)
	if err != nil {
		return domain.RawOffer{}, err
	}
	awayOdd, err := sourceutil.ParseOdd(w.AwayOdd)
	if err != nil {
		return domain.RawOffer{}, err
	}
	drawOdd, err := sourceutil.ParseOptionalOdd(w.DrawOdd)
	if err != nil {
		return domain.RawOffer{}, err
	}

	sport := domain.SportFootball
	if strings.EqualFold(w.Sport, string(domain.SportBasketball)) {
		sport = domain.SportBasketball
		drawOdd = nil
	}

	marketType := w.MarketType
	if marketType == "" {
		if sport == domain.SportBasketball {
			marketType = "moneyline"
		} else {
			marketType = "1x2"
		}
	}
	oddsType := domain.OddsType(strings.ToUpper(strings.TrimSpace(w.OddsType)))
	if oddsType != domain.OddsTypeSO {
		oddsType = domain.OddsTypePA
	}

	return domain.RawOffer{
		BookmakerName: s.name,
		HomeTeamRaw:   strings.TrimSpace(w.HomeTeam),
		AwayTeamRaw:   strings.TrimSpace(w.AwayTeam),
		LeagueRaw:     strings.TrimSpace(w.League),
		MatchDate:     matchDate,
		HomeOdd:       homeOdd,
		DrawOdd:       drawOdd,
		AwayOdd:       awayOdd,
		Sport:         sport,
		MarketType:    marketType,
		OddsType:      oddsType,
		ScrapedAt:     scrapedAt,
		ExtraData:     w.ExtraData,
	}, nil
}
