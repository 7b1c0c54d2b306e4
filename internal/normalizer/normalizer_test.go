package normalizer

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/falconstore/oddswatch/internal/catalog"
	"github.com/falconstore/oddswatch/internal/domain"
	"github.com/falconstore/oddswatch/internal/resolver"
)

type fakeReader struct {
	teams      []domain.Team
	leagues    []domain.League
	bookmakers []domain.Bookmaker
}

func (f *fakeReader) FetchTeams(context.Context) ([]domain.Team, error)        { return f.teams, nil }
func (f *fakeReader) FetchAliases(context.Context) ([]domain.TeamAlias, error) { return nil, nil }
func (f *fakeReader) FetchLeagues(context.Context) ([]domain.League, error)    { return f.leagues, nil }
func (f *fakeReader) FetchBookmakers(context.Context) ([]domain.Bookmaker, error) {
	return f.bookmakers, nil
}

type fakeWriter struct{}

func (fakeWriter) CreateTeam(_ context.Context, name string, leagueID int64) (domain.Team, error) {
	return domain.Team{ID: 999, StandardName: name, LeagueID: leagueID}, nil
}
func (fakeWriter) CreateTeamAlias(context.Context, int64, string, string) error { return nil }
func (fakeWriter) LogUnmatchedTeam(context.Context, domain.UnmatchedTeam) error { return nil }

type fakeMatchStore struct {
	nextID          int64
	inverted        map[domain.MatchKey]bool
	footballOdds    []domain.OddsEntry
	basketballOdds  []domain.OddsEntry
	footballKeys    [][]domain.MatchKey
	basketballKeys  [][]domain.MatchKey
	footballOddsErr error
}

func (f *fakeMatchStore) upsert(keys []domain.MatchKey) map[domain.MatchKey]domain.Match {
	out := make(map[domain.MatchKey]domain.Match, len(keys))
	for _, k := range keys {
		f.nextID++
		out[k] = domain.Match{
			ID:         f.nextID,
			LeagueID:   k.LeagueID,
			HomeTeamID: k.HomeTeamID,
			AwayTeamID: k.AwayTeamID,
			MatchDate:  k.Date(),
			Status:     domain.MatchScheduled,
			Inverted:   f.inverted[k],
		}
	}
	return out
}

func (f *fakeMatchStore) UpsertFootballMatchesBatch(_ context.Context, keys []domain.MatchKey) (map[domain.MatchKey]domain.Match, error) {
	f.footballKeys = append(f.footballKeys, keys)
	return f.upsert(keys), nil
}

func (f *fakeMatchStore) UpsertBasketballMatchesBatch(_ context.Context, keys []domain.MatchKey) (map[domain.MatchKey]domain.Match, error) {
	f.basketballKeys = append(f.basketballKeys, keys)
	return f.upsert(keys), nil
}

func (f *fakeMatchStore) InsertFootballOdds(_ context.Context, entries []domain.OddsEntry) error {
	if f.footballOddsErr != nil {
		return f.footballOddsErr
	}
	f.footballOdds = append(f.footballOdds, entries...)
	return nil
}

func (f *fakeMatchStore) InsertBasketballOdds(_ context.Context, entries []domain.OddsEntry) error {
	f.basketballOdds = append(f.basketballOdds, entries...)
	return nil
}

func testSetup(t *testing.T, store *fakeMatchStore) *Normalizer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reader := &fakeReader{
		teams: []domain.Team{
			{ID: 1, StandardName: "Liverpool", LeagueID: 10},
			{ID: 2, StandardName: "Manchester United", LeagueID: 10},
			{ID: 3, StandardName: "Lakers", LeagueID: 90},
			{ID: 4, StandardName: "Heat", LeagueID: 90},
		},
		leagues: []domain.League{
			{ID: 10, Name: "Premier League", Status: domain.StatusActive},
			{ID: 90, Name: "NBA", Status: domain.StatusActive},
		},
		bookmakers: []domain.Bookmaker{
			{ID: 5, Name: "betano", Status: domain.StatusActive},
			{ID: 6, Name: "kto", Status: domain.StatusActive},
		},
	}
	cat := catalog.New(reader, logger)
	require.NoError(t, cat.Reload(context.Background()))
	res := resolver.New(cat, fakeWriter{}, "betano", logger)
	res.BeginCycle()
	return New(cat, res, NewLeagueMatcher(cat), store, "betano", logger)
}

func draw(v float64) *float64 { return &v }

var kickoff = time.Date(2026, 1, 15, 22, 0, 0, 0, time.UTC)

func footballOffer() domain.RawOffer {
	return domain.RawOffer{
		BookmakerName: "betano",
		HomeTeamRaw:   "Liverpool",
		AwayTeamRaw:   "Manchester United",
		LeagueRaw:     "Premier League",
		MatchDate:     kickoff,
		HomeOdd:       2.10,
		DrawOdd:       draw(3.50),
		AwayOdd:       3.40,
		Sport:         domain.SportFootball,
		MarketType:    "1x2",
		OddsType:      domain.OddsTypePA,
		ScrapedAt:     kickoff.Add(-time.Hour),
	}
}

func TestProcess_FootballHappyPath(t *testing.T) {
	store := &fakeMatchStore{}
	n := testSetup(t, store)

	res := n.Process(context.Background(), []domain.RawOffer{footballOffer()})

	assert.Empty(t, res.Errors)
	assert.Equal(t, 1, res.FootballInserted)
	assert.Equal(t, 0, res.BasketballInserted)
	require.Len(t, store.footballOdds, 1)

	entry := store.footballOdds[0]
	assert.Equal(t, int64(5), entry.BookmakerID)
	assert.Equal(t, 2.10, entry.HomeOdd)
	assert.Equal(t, 3.40, entry.AwayOdd)
	require.NotNil(t, entry.DrawOdd)
	assert.Equal(t, 3.50, *entry.DrawOdd)
	assert.Equal(t, kickoff.Add(-time.Hour), entry.ScrapedAt)

	require.Len(t, res.FootballMatches, 1)
	m, ok := res.FootballMatches[entry.MatchID]
	require.True(t, ok)
	assert.Equal(t, int64(1), m.HomeTeamID)
	assert.Equal(t, int64(2), m.AwayTeamID)
}

func TestProcess_NBAClassifiedAsBasketball(t *testing.T) {
	store := &fakeMatchStore{}
	n := testSetup(t, store)

	offer := domain.RawOffer{
		BookmakerName: "betano",
		HomeTeamRaw:   "Lakers",
		AwayTeamRaw:   "Heat",
		LeagueRaw:     "NBA",
		MatchDate:     kickoff,
		HomeOdd:       1.65,
		AwayOdd:       2.30,
		MarketType:    "moneyline",
		OddsType:      domain.OddsTypePA,
	}
	res := n.Process(context.Background(), []domain.RawOffer{offer})

	assert.Empty(t, res.Errors)
	assert.Equal(t, 1, res.BasketballInserted)
	assert.Equal(t, 0, res.FootballInserted)
	assert.Len(t, store.basketballOdds, 1)
	assert.Empty(t, store.footballOdds)
}

func TestProcess_BasketballInversionSwapsOdds(t *testing.T) {
	key := domain.NewMatchKey(90, 3, 4, kickoff)
	store := &fakeMatchStore{inverted: map[domain.MatchKey]bool{key: true}}
	n := testSetup(t, store)

	offer := domain.RawOffer{
		BookmakerName: "kto",
		HomeTeamRaw:   "Lakers",
		AwayTeamRaw:   "Heat",
		LeagueRaw:     "NBA",
		MatchDate:     kickoff,
		HomeOdd:       2.30,
		AwayOdd:       1.65,
		Sport:         domain.SportBasketball,
		MarketType:    "moneyline",
		OddsType:      domain.OddsTypePA,
	}
	res := n.Process(context.Background(), []domain.RawOffer{offer})

	assert.Empty(t, res.Errors)
	require.Len(t, store.basketballOdds, 1)
	entry := store.basketballOdds[0]
	assert.Equal(t, 1.65, entry.HomeOdd)
	assert.Equal(t, 2.30, entry.AwayOdd)
	assert.Equal(t, true, entry.ExtraData[domain.ExtraKeyTeamsSwapped])
}

func TestProcess_DropsUnknownBookmaker(t *testing.T) {
	store := &fakeMatchStore{}
	n := testSetup(t, store)

	offer := footballOffer()
	offer.BookmakerName = "nobody"
	res := n.Process(context.Background(), []domain.RawOffer{offer})

	assert.Zero(t, res.FootballInserted)
	assert.Empty(t, store.footballKeys)
}

func TestProcess_DropsUnconfiguredLeague(t *testing.T) {
	store := &fakeMatchStore{}
	n := testSetup(t, store)

	offer := footballOffer()
	offer.LeagueRaw = "Regionalliga Nordost"
	res := n.Process(context.Background(), []domain.RawOffer{offer})

	assert.Zero(t, res.FootballInserted)
	assert.Empty(t, store.footballKeys)
}

func TestProcess_DropsInvalidOdds(t *testing.T) {
	store := &fakeMatchStore{}
	n := testSetup(t, store)

	offer := footballOffer()
	offer.HomeOdd = 1.0
	res := n.Process(context.Background(), []domain.RawOffer{offer})

	assert.Zero(t, res.FootballInserted)
}

func TestProcess_DropsUnresolvedNonPrimaryTeam(t *testing.T) {
	store := &fakeMatchStore{}
	n := testSetup(t, store)

	offer := footballOffer()
	offer.BookmakerName = "kto"
	offer.HomeTeamRaw = "Complete Stranger"
	res := n.Process(context.Background(), []domain.RawOffer{offer})

	assert.Zero(t, res.FootballInserted)
	assert.Empty(t, store.footballKeys)
}

func TestProcess_SharedKeysBatchOnce(t *testing.T) {
	store := &fakeMatchStore{}
	n := testSetup(t, store)

	a := footballOffer()
	b := footballOffer()
	b.BookmakerName = "kto"
	b.HomeOdd = 2.20

	res := n.Process(context.Background(), []domain.RawOffer{a, b})

	assert.Equal(t, 2, res.FootballInserted)
	require.Len(t, store.footballKeys, 1, "one batch upsert per cycle")
	assert.Len(t, store.footballKeys[0], 1, "identical fixtures collapse to one key")
	// Both rows reference the same match.
	require.Len(t, store.footballOdds, 2)
	assert.Equal(t, store.footballOdds[0].MatchID, store.footballOdds[1].MatchID)
}

func TestProcess_BatchInsertFailureReported(t *testing.T) {
	store := &fakeMatchStore{footballOddsErr: assert.AnError}
	n := testSetup(t, store)

	res := n.Process(context.Background(), []domain.RawOffer{footballOffer()})

	assert.Zero(t, res.FootballInserted)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "football")
}

func TestProcess_ZeroScrapedAtDefaultsToNow(t *testing.T) {
	store := &fakeMatchStore{}
	n := testSetup(t, store)

	offer := footballOffer()
	offer.ScrapedAt = time.Time{}
	before := time.Now().UTC()
	n.Process(context.Background(), []domain.RawOffer{offer})

	require.Len(t, store.footballOdds, 1)
	assert.False(t, store.footballOdds[0].ScrapedAt.Before(before))
}
