package normalizer

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/falconstore/oddswatch/internal/catalog"
	"github.com/falconstore/oddswatch/internal/domain"
)

func leagueMatcher(t *testing.T) *LeagueMatcher {
	t.Helper()
	cat := catalog.New(&fakeReader{
		leagues: []domain.League{
			{ID: 10, Name: "Premier League", Status: domain.StatusActive},
			{ID: 20, Name: "Brasileirão Série A", Status: domain.StatusActive},
			{ID: 90, Name: "NBA", Status: domain.StatusActive},
		},
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, cat.Reload(context.Background()))
	return NewLeagueMatcher(cat)
}

func TestLeagueMatcher_Exact(t *testing.T) {
	m := leagueMatcher(t)

	l, ok := m.Match("premier league")
	require.True(t, ok)
	assert.Equal(t, int64(10), l.ID)

	// Diacritics differences still hit the exact path.
	l, ok = m.Match("Brasileirao Serie A")
	require.True(t, ok)
	assert.Equal(t, int64(20), l.ID)
}

func TestLeagueMatcher_Fuzzy(t *testing.T) {
	m := leagueMatcher(t)

	// Misspelled but close enough for token-sort.
	l, ok := m.Match("Premier Leage")
	require.True(t, ok)
	assert.Equal(t, int64(10), l.ID)
}

func TestLeagueMatcher_UnknownMisses(t *testing.T) {
	m := leagueMatcher(t)

	_, ok := m.Match("Regionalliga Nordost")
	assert.False(t, ok)

	_, ok = m.Match("")
	assert.False(t, ok)
}
