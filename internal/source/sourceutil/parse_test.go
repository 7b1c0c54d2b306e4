package sourceutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOdd(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{"dot decimal", "1.85", 1.85, false},
		{"comma decimal", "1,85", 1.85, false},
		{"integer", "2", 2, false},
		{"padded", "  3,40 ", 3.40, false},
		{"empty", "", 0, true},
		{"garbage", "abc", 0, true},
		{"double comma", "1,8,5", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOdd(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseOptionalOdd(t *testing.T) {
	v, err := ParseOptionalOdd("3,95")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, 3.95, *v)

	v, err = ParseOptionalOdd("")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = ParseOptionalOdd("-")
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = ParseOptionalOdd("x")
	assert.Error(t, err)
}

func TestParseMatchDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"rfc3339", "2026-01-15T22:00:00Z", time.Date(2026, 1, 15, 22, 0, 0, 0, time.UTC)},
		{"rfc3339 with offset", "2026-01-15T19:00:00-03:00", time.Date(2026, 1, 15, 22, 0, 0, 0, time.UTC)},
		{"no zone is utc", "2026-01-15T22:00:00", time.Date(2026, 1, 15, 22, 0, 0, 0, time.UTC)},
		{"space separator", "2026-01-15 22:00:00", time.Date(2026, 1, 15, 22, 0, 0, 0, time.UTC)},
		{"minutes only", "2026-01-15 22:00", time.Date(2026, 1, 15, 22, 0, 0, 0, time.UTC)},
		{"day first", "15/01/2026 22:00", time.Date(2026, 1, 15, 22, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMatchDate(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}

	_, err := ParseMatchDate("tomorrow at nine")
	assert.Error(t, err)
}
