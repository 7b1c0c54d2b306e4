package catalog

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/falconstore/oddswatch/internal/domain"
	"github.com/falconstore/oddswatch/internal/repository"
)

// aliasKey indexes aliases by normalized name and lowercase bookmaker.
type aliasKey struct {
	name      string
	bookmaker string
}

// Candidate is one team offered to the fuzzy matcher.
type Candidate struct {
	Name string // normalized standard name
	ID   int64
}

// snapshot holds one fully-built set of catalog indices.
type snapshot struct {
	teamsByID     map[int64]domain.Team
	aliasIndex    map[aliasKey]int64
	teamsByLeague map[int64]map[string]int64
	teamsGlobal   map[string]int64
	leaguesByID   map[int64]domain.League
	leagues       []domain.League
	bookmakers    map[string]domain.Bookmaker
}

// Catalog is the in-memory identity catalog: teams, aliases, leagues and
// bookmakers, reloaded at the top of each cycle. Reads see a committed
// snapshot; resolver auto-creates write through under the same lock so
// later lookups in the cycle observe them.
type Catalog struct {
	store  repository.CatalogReader
	logger *slog.Logger

	mu   sync.RWMutex
	snap *snapshot

	reloads singleflight.Group
}

func New(store repository.CatalogReader, logger *slog.Logger) *Catalog {
	return &Catalog{store: store, logger: logger}
}

// Ready reports whether at least one reload has succeeded.
func (c *Catalog) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap != nil
}

// Reload rebuilds all indices off-line and swaps them in atomically.
// Concurrent callers share a single rebuild. On failure the previous
// snapshot stays in place.
func (c *Catalog) Reload(ctx context.Context) error {
	_, err, _ := c.reloads.Do("reload", func() (any, error) {
		snap, err := c.build(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.snap = snap
		c.mu.Unlock()
		return nil, nil
	})
	return err
}

func (c *Catalog) build(ctx context.Context) (*snapshot, error) {
	teams, err := c.store.FetchTeams(ctx)
	if err != nil {
		return nil, domain.ErrStore("fetch teams", err)
	}
	aliases, err := c.store.FetchAliases(ctx)
	if err != nil {
		return nil, domain.ErrStore("fetch aliases", err)
	}
	leagues, err := c.store.FetchLeagues(ctx)
	if err != nil {
		return nil, domain.ErrStore("fetch leagues", err)
	}
	bookmakers, err := c.store.FetchBookmakers(ctx)
	if err != nil {
		return nil, domain.ErrStore("fetch bookmakers", err)
	}

	snap := &snapshot{
		teamsByID:     make(map[int64]domain.Team, len(teams)),
		aliasIndex:    make(map[aliasKey]int64, len(aliases)*2),
		teamsByLeague: make(map[int64]map[string]int64),
		teamsGlobal:   make(map[string]int64, len(teams)),
		leaguesByID:   make(map[int64]domain.League, len(leagues)),
		leagues:       leagues,
		bookmakers:    make(map[string]domain.Bookmaker, len(bookmakers)),
	}

	for _, l := range leagues {
		snap.leaguesByID[l.ID] = l
	}
	for _, b := range bookmakers {
		snap.bookmakers[strings.ToLower(b.Name)] = b
	}
	for _, t := range teams {
		snap.indexTeam(t, c.logger)
	}
	for _, a := range aliases {
		bk := strings.ToLower(a.BookmakerSource)
		snap.aliasIndex[aliasKey{strings.ToLower(a.AliasName), bk}] = a.TeamID
		snap.aliasIndex[aliasKey{Normalize(a.AliasName), bk}] = a.TeamID
	}

	c.logger.Info("catalog loaded",
		"teams", len(teams), "aliases", len(aliases),
		"leagues", len(leagues), "bookmakers", len(bookmakers))
	return snap, nil
}

// indexTeam inserts a team into all three team indices. The global index
// keeps the first team seen for a normalized name; later collisions are
// reported as merge-tool input.
func (s *snapshot) indexTeam(t domain.Team, logger *slog.Logger) {
	name := Normalize(t.StandardName)
	s.teamsByID[t.ID] = t

	league := s.teamsByLeague[t.LeagueID]
	if league == nil {
		league = make(map[string]int64)
		s.teamsByLeague[t.LeagueID] = league
	}
	league[name] = t.ID

	if existing, ok := s.teamsGlobal[name]; ok && existing != t.ID {
		logger.Warn("duplicate team name across leagues, keeping first",
			"name", t.StandardName, "kept_team_id", existing, "dropped_team_id", t.ID)
		return
	}
	s.teamsGlobal[name] = t.ID
}

// TeamName returns the canonical display name for a team ID.
func (c *Catalog) TeamName(id int64) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil {
		return "", false
	}
	t, ok := c.snap.teamsByID[id]
	return t.StandardName, ok
}

// BookmakerByName looks up a bookmaker case-insensitively.
func (c *Catalog) BookmakerByName(name string) (domain.Bookmaker, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil {
		return domain.Bookmaker{}, false
	}
	b, ok := c.snap.bookmakers[strings.ToLower(name)]
	return b, ok
}

// BookmakerName returns the display name for a bookmaker ID.
func (c *Catalog) BookmakerName(id int64) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil {
		return "", false
	}
	for _, b := range c.snap.bookmakers {
		if b.ID == id {
			return b.Name, true
		}
	}
	return "", false
}

// LeagueByID returns a league by its ID.
func (c *Catalog) LeagueByID(id int64) (domain.League, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil {
		return domain.League{}, false
	}
	l, ok := c.snap.leaguesByID[id]
	return l, ok
}

// Leagues returns a copy of all configured leagues.
func (c *Catalog) Leagues() []domain.League {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil {
		return nil
	}
	out := make([]domain.League, len(c.snap.leagues))
	copy(out, c.snap.leagues)
	return out
}

// LookupAlias resolves (alias, bookmaker) case-insensitively.
func (c *Catalog) LookupAlias(alias, bookmaker string) (int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil {
		return 0, false
	}
	id, ok := c.snap.aliasIndex[aliasKey{strings.ToLower(alias), strings.ToLower(bookmaker)}]
	return id, ok
}

// LookupLeagueTeam resolves a normalized name inside one league.
func (c *Catalog) LookupLeagueTeam(leagueID int64, normalized string) (int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil {
		return 0, false
	}
	id, ok := c.snap.teamsByLeague[leagueID][normalized]
	return id, ok
}

// LookupGlobal resolves a normalized name across all leagues (first-seen
// wins on duplicates).
func (c *Catalog) LookupGlobal(normalized string) (int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil {
		return 0, false
	}
	id, ok := c.snap.teamsGlobal[normalized]
	return id, ok
}

// LeagueCandidates returns a copy of one league's teams for fuzzy matching.
func (c *Catalog) LeagueCandidates(leagueID int64) []Candidate {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil {
		return nil
	}
	return candidateList(c.snap.teamsByLeague[leagueID])
}

// GlobalCandidates returns a copy of the global index for fuzzy matching.
func (c *Catalog) GlobalCandidates() []Candidate {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil {
		return nil
	}
	return candidateList(c.snap.teamsGlobal)
}

func candidateList(m map[string]int64) []Candidate {
	out := make([]Candidate, 0, len(m))
	for name, id := range m {
		out = append(out, Candidate{Name: name, ID: id})
	}
	return out
}

// AddTeam writes an auto-created team through the live snapshot so lookups
// later in the same cycle see it.
func (c *Catalog) AddTeam(t domain.Team) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snap == nil {
		return
	}
	c.snap.indexTeam(t, c.logger)
}

// AddAlias writes a learned alias through the live snapshot. Returns false
// when the pair was already present.
func (c *Catalog) AddAlias(alias, bookmaker string, teamID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snap == nil {
		return false
	}
	bk := strings.ToLower(bookmaker)
	key := aliasKey{Normalize(alias), bk}
	if _, ok := c.snap.aliasIndex[key]; ok {
		return false
	}
	c.snap.aliasIndex[key] = teamID
	c.snap.aliasIndex[aliasKey{strings.ToLower(alias), bk}] = teamID
	return true
}

// RemoveAlias drops a cached alias after a failed persist.
func (c *Catalog) RemoveAlias(alias, bookmaker string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snap == nil {
		return
	}
	bk := strings.ToLower(bookmaker)
	delete(c.snap.aliasIndex, aliasKey{Normalize(alias), bk})
	delete(c.snap.aliasIndex, aliasKey{strings.ToLower(alias), bk})
}
