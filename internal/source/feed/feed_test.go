package feed

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/falconstore/oddswatch/internal/domain"
)

func testLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func serveJSON(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
}

func TestCollect(t *testing.T) {
	srv := serveJSON(t, `[
		{"home_team": "Liverpool", "away_team": "Everton", "league": "Premier League",
		 "match_date": "2026-01-15T22:00:00Z",
		 "home_odd": "2,10", "draw_odd": "3,40", "away_odd": "3.80",
		 "sport": "football", "odds_type": "pa",
		 "extra_data": {"promo": true}},
		{"home_team": "Lakers", "away_team": "Heat", "league": "NBA",
		 "match_date": "2026-01-16 01:30",
		 "home_odd": "1.65", "away_odd": "2.30",
		 "sport": "basketball", "odds_type": "SO"}
	]`)
	defer srv.Close()

	s := New("betano", srv.URL, testLogger())
	require.NoError(t, s.Setup(context.Background()))

	offers, err := s.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, offers, 2)

	football := offers[0]
	assert.Equal(t, "betano", football.BookmakerName)
	assert.Equal(t, "Liverpool", football.HomeTeamRaw)
	assert.Equal(t, 2.10, football.HomeOdd)
	require.NotNil(t, football.DrawOdd)
	assert.Equal(t, 3.40, *football.DrawOdd)
	assert.Equal(t, 3.80, football.AwayOdd)
	assert.Equal(t, domain.SportFootball, football.Sport)
	assert.Equal(t, "1x2", football.MarketType)
	assert.Equal(t, domain.OddsTypePA, football.OddsType)
	assert.Equal(t, time.Date(2026, 1, 15, 22, 0, 0, 0, time.UTC), football.MatchDate)
	assert.Equal(t, domain.ExtraData{"promo": true}, football.ExtraData)
	assert.False(t, football.ScrapedAt.IsZero())

	basketball := offers[1]
	assert.Equal(t, domain.SportBasketball, basketball.Sport)
	assert.Nil(t, basketball.DrawOdd)
	assert.Equal(t, "moneyline", basketball.MarketType)
	assert.Equal(t, domain.OddsTypeSO, basketball.OddsType)
}

func TestCollect_SkipsMalformedRows(t *testing.T) {
	srv := serveJSON(t, `[
		{"home_team": "Liverpool", "away_team": "Everton", "league": "Premier League",
		 "match_date": "not a date", "home_odd": "2.10", "away_odd": "3.80"},
		{"home_team": "Arsenal", "away_team": "Chelsea", "league": "Premier League",
		 "match_date": "2026-01-15T20:00:00Z", "home_odd": "oops", "away_odd": "3.80"},
		{"home_team": "Spurs", "away_team": "West Ham", "league": "Premier League",
		 "match_date": "2026-01-15T20:00:00Z", "home_odd": "2.40", "away_odd": "2.90"}
	]`)
	defer srv.Close()

	s := New("betano", srv.URL, testLogger())
	offers, err := s.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, "Spurs", offers[0].HomeTeamRaw)
}

func TestCollect_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := New("betano", srv.URL, testLogger())
	_, err := s.Collect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestCollect_BadJSON(t *testing.T) {
	srv := serveJSON(t, `{"not": "an array"}`)
	defer srv.Close()

	s := New("betano", srv.URL, testLogger())
	_, err := s.Collect(context.Background())
	assert.Error(t, err)
}

func TestSetup_RequiresURL(t *testing.T) {
	s := New("betano", "  ", testLogger())
	assert.Error(t, s.Setup(context.Background()))
	assert.NoError(t, s.Teardown(context.Background()))
}
