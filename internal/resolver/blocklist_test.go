package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlocked(t *testing.T) {
	assert.True(t, Blocked("inter milan", "ac milan"))
	assert.True(t, Blocked("ac milan", "inter milan"), "blocklist is symmetric")
	assert.True(t, Blocked("brest", "nottingham forest"))
	assert.True(t, Blocked("manchester united", "manchester city"))
	assert.False(t, Blocked("liverpool", "everton"))
	assert.False(t, Blocked("inter milan", "inter milan"))
}

func TestIsCrossLeagueCompetition(t *testing.T) {
	assert.True(t, IsCrossLeagueCompetition("Champions League"))
	assert.True(t, IsCrossLeagueCompetition("UEFA CHAMPIONS LEAGUE"))
	assert.True(t, IsCrossLeagueCompetition("Copa do Brasil"))
	assert.True(t, IsCrossLeagueCompetition("fa cup"))
	assert.False(t, IsCrossLeagueCompetition("Premier League"))
	assert.False(t, IsCrossLeagueCompetition(""))
}
