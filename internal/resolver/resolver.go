package resolver

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/falconstore/oddswatch/internal/catalog"
	"github.com/falconstore/oddswatch/internal/domain"
	"github.com/falconstore/oddswatch/internal/repository"
)

// Fuzzy acceptance thresholds. Partial ratio runs higher to keep short
// substrings from matching unrelated clubs; the reuse threshold gates
// cross-league reuse before a team auto-create.
const (
	tokenThreshold   = 85
	partialThreshold = 92
	reuseThreshold   = 95
)

// Request carries one raw team name with its lookup context. LeagueID is
// zero when the league is unknown.
type Request struct {
	RawName    string
	Bookmaker  string
	LeagueID   int64
	LeagueName string
}

// Resolver maps raw team names onto canonical team IDs. It learns aliases
// from fuzzy hits and, for the primary bookmaker only, auto-creates teams.
// Resolution never fails hard: a miss is reported, logged once per cycle,
// and the offer is dropped by the caller.
type Resolver struct {
	catalog *catalog.Catalog
	store   repository.TeamWriter
	primary string
	logger  *slog.Logger

	mu        sync.Mutex
	unmatched map[string]struct{}

	writes sync.WaitGroup
}

func New(cat *catalog.Catalog, store repository.TeamWriter, primaryBookmaker string, logger *slog.Logger) *Resolver {
	return &Resolver{
		catalog:   cat,
		store:     store,
		primary:   strings.ToLower(strings.TrimSpace(primaryBookmaker)),
		logger:    logger,
		unmatched: make(map[string]struct{}),
	}
}

// BeginCycle resets the per-cycle unmatched de-dup set.
func (r *Resolver) BeginCycle() {
	r.mu.Lock()
	r.unmatched = make(map[string]struct{})
	r.mu.Unlock()
}

// Wait blocks until all scheduled async writes have settled.
func (r *Resolver) Wait() {
	r.writes.Wait()
}

// Resolve runs the full strategy chain with persistence enabled: learned
// aliases are written to the store and, for the primary bookmaker, unknown
// teams may be auto-created.
func (r *Resolver) Resolve(ctx context.Context, req Request) (int64, bool) {
	return r.resolve(ctx, req, true)
}

// ResolveCached runs the lookup strategies only; aliases learned from fuzzy
// hits stay in the in-memory cache and nothing is created in the store.
func (r *Resolver) ResolveCached(ctx context.Context, req Request) (int64, bool) {
	return r.resolve(ctx, req, false)
}

func (r *Resolver) resolve(ctx context.Context, req Request, persist bool) (int64, bool) {
	raw := strings.TrimSpace(req.RawName)
	if raw == "" {
		return 0, false
	}
	bk := strings.ToLower(strings.TrimSpace(req.Bookmaker))
	norm := catalog.Normalize(raw)

	// 1. Exact alias hit, raw and normalized spellings.
	if id, ok := r.catalog.LookupAlias(raw, bk); ok {
		return id, true
	}
	if id, ok := r.catalog.LookupAlias(norm, bk); ok {
		return id, true
	}

	stripped := catalog.StripStopwords(norm)

	// 2-3. League-scoped exact, then fuzzy.
	if req.LeagueID != 0 {
		if id, ok := r.catalog.LookupLeagueTeam(req.LeagueID, norm); ok {
			return id, true
		}
		if id, _, ok := r.bestFuzzy(norm, stripped, r.catalog.LeagueCandidates(req.LeagueID)); ok {
			r.learnAlias(ctx, id, raw, bk, persist)
			return id, true
		}
	}

	// 4. Cross-league fallback, cups and continental competitions only.
	crossLeague := IsCrossLeagueCompetition(req.LeagueName)
	if crossLeague {
		if id, ok := r.catalog.LookupGlobal(norm); ok {
			return id, true
		}
		if id, _, ok := r.bestFuzzy(norm, stripped, r.catalog.GlobalCandidates()); ok {
			r.learnAlias(ctx, id, raw, bk, persist)
			return id, true
		}
	}

	// 5. No league context: global exact only, never global fuzzy.
	if req.LeagueID == 0 {
		if id, ok := r.catalog.LookupGlobal(norm); ok {
			return id, true
		}
	}

	// 6. Team auto-create, primary bookmaker with a known league only.
	if persist && bk == r.primary && req.LeagueID != 0 {
		if id, ok := r.autoCreate(ctx, req, raw, norm, stripped, crossLeague); ok {
			return id, true
		}
	}

	r.logUnmatched(ctx, req, raw, bk)
	return 0, false
}

// bestFuzzy scores every candidate with token-sort, token-set and partial
// ratio, plus token-sort and token-set over the stopword-stripped variants,
// keeping the best score that clears its threshold. Blocklisted pairs are
// skipped outright.
func (r *Resolver) bestFuzzy(norm, stripped string, cands []catalog.Candidate) (int64, int, bool) {
	var bestID int64
	bestScore := 0
	for _, c := range cands {
		candStripped := catalog.StripStopwords(c.Name)
		if Blocked(norm, c.Name) || Blocked(stripped, candStripped) {
			continue
		}
		score := 0
		if s := fuzzy.TokenSortRatio(norm, c.Name); s >= tokenThreshold && s > score {
			score = s
		}
		if s := fuzzy.TokenSetRatio(norm, c.Name); s >= tokenThreshold && s > score {
			score = s
		}
		if s := fuzzy.PartialRatio(norm, c.Name); s >= partialThreshold && s > score {
			score = s
		}
		if s := fuzzy.TokenSortRatio(stripped, candStripped); s >= tokenThreshold && s > score {
			score = s
		}
		if s := fuzzy.TokenSetRatio(stripped, candStripped); s >= tokenThreshold && s > score {
			score = s
		}
		if score > bestScore {
			bestScore, bestID = score, c.ID
		}
	}
	return bestID, bestScore, bestScore > 0
}

// autoCreate makes a new team for the primary bookmaker. Cross-league
// competitions first try a very high-confidence global reuse so cup
// fixtures don't spawn duplicates of domestic teams.
func (r *Resolver) autoCreate(ctx context.Context, req Request, raw, norm, stripped string, crossLeague bool) (int64, bool) {
	if crossLeague {
		if id, score, ok := r.bestFuzzy(norm, stripped, r.catalog.GlobalCandidates()); ok && score >= reuseThreshold {
			return id, true
		}
	}

	team, err := r.store.CreateTeam(ctx, raw, req.LeagueID)
	if err != nil && !domain.IsDuplicate(err) {
		r.logger.Error("team auto-create failed",
			"name", raw, "league_id", req.LeagueID, "error", err)
		return 0, false
	}
	r.catalog.AddTeam(team)
	r.logger.Info("team auto-created",
		"team_id", team.ID, "name", raw, "league_id", req.LeagueID, "bookmaker", req.Bookmaker)
	return team.ID, true
}

// learnAlias caches a fuzzy hit immediately so repeat resolutions in the
// same cycle are exact, then persists it in the background. A duplicate-key
// rejection keeps the cache entry; any other failure evicts it.
func (r *Resolver) learnAlias(ctx context.Context, teamID int64, raw, bookmaker string, persist bool) {
	if !r.catalog.AddAlias(raw, bookmaker, teamID) {
		return
	}
	if !persist {
		return
	}
	r.writes.Add(1)
	go func() {
		defer r.writes.Done()
		err := r.store.CreateTeamAlias(context.WithoutCancel(ctx), teamID, raw, bookmaker)
		if err == nil || domain.IsDuplicate(err) {
			return
		}
		r.logger.Warn("alias persist failed, evicting from cache",
			"alias", raw, "bookmaker", bookmaker, "team_id", teamID, "error", err)
		r.catalog.RemoveAlias(raw, bookmaker)
	}()
}

// logUnmatched records an unresolved raw name at most once per cycle.
func (r *Resolver) logUnmatched(ctx context.Context, req Request, raw, bk string) {
	key := strings.ToLower(raw) + "|" + bk
	r.mu.Lock()
	if _, seen := r.unmatched[key]; seen {
		r.mu.Unlock()
		return
	}
	r.unmatched[key] = struct{}{}
	r.mu.Unlock()

	primary := bk == r.primary
	r.logger.Warn("unmatched team",
		"raw_name", raw, "bookmaker", req.Bookmaker,
		"league", req.LeagueName, "primary", primary)

	entry := domain.UnmatchedTeam{
		RawName:    raw,
		Bookmaker:  req.Bookmaker,
		LeagueName: req.LeagueName,
		Primary:    primary,
	}
	r.writes.Add(1)
	go func() {
		defer r.writes.Done()
		if err := r.store.LogUnmatchedTeam(context.WithoutCancel(ctx), entry); err != nil {
			r.logger.Debug("unmatched team log failed", "raw_name", raw, "error", err)
		}
	}()
}
