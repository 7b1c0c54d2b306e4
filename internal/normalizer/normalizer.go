package normalizer

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/falconstore/oddswatch/internal/catalog"
	"github.com/falconstore/oddswatch/internal/domain"
	"github.com/falconstore/oddswatch/internal/repository"
	"github.com/falconstore/oddswatch/internal/resolver"
)

// Normalizer turns raw offers into store-ready odds rows: it resolves
// bookmaker, league and team identities, batches match upserts per sport,
// and appends the cycle's odds in bulk. Offers that cannot be fully
// resolved are dropped, never stored with placeholder IDs.
type Normalizer struct {
	catalog  *catalog.Catalog
	resolver *resolver.Resolver
	leagues  *LeagueMatcher
	store    repository.MatchStore
	primary  string
	logger   *slog.Logger
}

// Result reports what one normalization pass inserted. FootballOdds and
// FootballMatches carry the inserted football rows and their fixtures
// onward to the alert detector.
type Result struct {
	FootballInserted   int
	BasketballInserted int
	FootballOdds       []domain.OddsEntry
	FootballMatches    map[int64]domain.Match
	Errors             []string
}

func New(cat *catalog.Catalog, res *resolver.Resolver, leagues *LeagueMatcher, store repository.MatchStore, primaryBookmaker string, logger *slog.Logger) *Normalizer {
	return &Normalizer{
		catalog:  cat,
		resolver: res,
		leagues:  leagues,
		store:    store,
		primary:  strings.ToLower(strings.TrimSpace(primaryBookmaker)),
		logger:   logger,
	}
}

// resolvedOffer is an offer whose identities all resolved.
type resolvedOffer struct {
	offer       domain.RawOffer
	key         domain.MatchKey
	bookmakerID int64
}

// Process resolves and persists one cycle's offers. Batch failures are
// recorded and the rest of the pass continues.
func (n *Normalizer) Process(ctx context.Context, offers []domain.RawOffer) Result {
	var res Result
	var football, basketball []resolvedOffer

	for _, offer := range offers {
		ro, ok := n.resolveOffer(ctx, offer)
		if !ok {
			continue
		}
		if classifySport(offer) == domain.SportBasketball {
			basketball = append(basketball, ro)
		} else {
			football = append(football, ro)
		}
	}

	if len(football) > 0 {
		entries, matches, err := n.persistSport(ctx, domain.SportFootball, football)
		if err != nil {
			n.logger.Error("football batch failed", "offers", len(football), "error", err)
			res.Errors = append(res.Errors, "football: "+err.Error())
		} else {
			res.FootballInserted = len(entries)
			res.FootballOdds = entries
			res.FootballMatches = matches
		}
	}
	if len(basketball) > 0 {
		entries, _, err := n.persistSport(ctx, domain.SportBasketball, basketball)
		if err != nil {
			n.logger.Error("basketball batch failed", "offers", len(basketball), "error", err)
			res.Errors = append(res.Errors, "basketball: "+err.Error())
		} else {
			res.BasketballInserted = len(entries)
		}
	}
	return res
}

// classifySport treats an explicit basketball flag or an NBA league string
// as basketball; everything else is football.
func classifySport(offer domain.RawOffer) domain.Sport {
	if offer.Sport == domain.SportBasketball || strings.EqualFold(strings.TrimSpace(offer.LeagueRaw), "NBA") {
		return domain.SportBasketball
	}
	return domain.SportFootball
}

func (n *Normalizer) resolveOffer(ctx context.Context, offer domain.RawOffer) (resolvedOffer, bool) {
	if err := offer.Validate(); err != nil {
		n.logger.Debug("dropping invalid offer",
			"bookmaker", offer.BookmakerName, "home", offer.HomeTeamRaw, "error", err)
		return resolvedOffer{}, false
	}

	bookmaker, ok := n.catalog.BookmakerByName(offer.BookmakerName)
	if !ok {
		n.logger.Debug("dropping offer from unknown bookmaker", "bookmaker", offer.BookmakerName)
		return resolvedOffer{}, false
	}

	league, ok := n.leagues.Match(offer.LeagueRaw)
	if !ok {
		// Unconfigured leagues are ignored on purpose.
		return resolvedOffer{}, false
	}

	homeID, ok := n.resolveTeam(ctx, offer, offer.HomeTeamRaw, league)
	if !ok {
		return resolvedOffer{}, false
	}
	awayID, ok := n.resolveTeam(ctx, offer, offer.AwayTeamRaw, league)
	if !ok {
		return resolvedOffer{}, false
	}

	return resolvedOffer{
		offer:       offer,
		key:         domain.NewMatchKey(league.ID, homeID, awayID, offer.MatchDate),
		bookmakerID: bookmaker.ID,
	}, true
}

// resolveTeam uses the full resolver (auto-create included) for the primary
// bookmaker and the cache-only path for everyone else.
func (n *Normalizer) resolveTeam(ctx context.Context, offer domain.RawOffer, rawName string, league domain.League) (int64, bool) {
	req := resolver.Request{
		RawName:    rawName,
		Bookmaker:  offer.BookmakerName,
		LeagueID:   league.ID,
		LeagueName: league.Name,
	}
	if strings.ToLower(offer.BookmakerName) == n.primary {
		return n.resolver.Resolve(ctx, req)
	}
	return n.resolver.ResolveCached(ctx, req)
}

// persistSport upserts the sport's matches in one batch and appends all of
// its odds rows. Basketball offers mapped to an inverted match get their
// odds swapped and the teams_swapped flag set.
func (n *Normalizer) persistSport(ctx context.Context, sport domain.Sport, offers []resolvedOffer) ([]domain.OddsEntry, map[int64]domain.Match, error) {
	keySet := make(map[domain.MatchKey]struct{}, len(offers))
	keys := make([]domain.MatchKey, 0, len(offers))
	for _, ro := range offers {
		if _, seen := keySet[ro.key]; seen {
			continue
		}
		keySet[ro.key] = struct{}{}
		keys = append(keys, ro.key)
	}

	var matches map[domain.MatchKey]domain.Match
	var err error
	if sport == domain.SportBasketball {
		matches, err = n.store.UpsertBasketballMatchesBatch(ctx, keys)
	} else {
		matches, err = n.store.UpsertFootballMatchesBatch(ctx, keys)
	}
	if err != nil {
		return nil, nil, err
	}

	entries := make([]domain.OddsEntry, 0, len(offers))
	byID := make(map[int64]domain.Match, len(matches))
	for _, ro := range offers {
		match, ok := matches[ro.key]
		if !ok {
			n.logger.Warn("match upsert returned no record for key",
				"sport", sport, "league_id", ro.key.LeagueID,
				"home_team_id", ro.key.HomeTeamID, "away_team_id", ro.key.AwayTeamID)
			continue
		}
		byID[match.ID] = match
		entries = append(entries, buildEntry(ro, match))
	}

	if sport == domain.SportBasketball {
		err = n.store.InsertBasketballOdds(ctx, entries)
	} else {
		err = n.store.InsertFootballOdds(ctx, entries)
	}
	if err != nil {
		return nil, nil, err
	}
	return entries, byID, nil
}

func buildEntry(ro resolvedOffer, match domain.Match) domain.OddsEntry {
	offer := ro.offer
	scrapedAt := offer.ScrapedAt
	if scrapedAt.IsZero() {
		scrapedAt = time.Now().UTC()
	}

	entry := domain.OddsEntry{
		MatchID:     match.ID,
		BookmakerID: ro.bookmakerID,
		MarketType:  offer.MarketType,
		HomeOdd:     offer.HomeOdd,
		DrawOdd:     offer.DrawOdd,
		AwayOdd:     offer.AwayOdd,
		OddsType:    offer.OddsType,
		ScrapedAt:   scrapedAt,
		ExtraData:   offer.ExtraData,
	}
	if match.Inverted {
		entry.HomeOdd, entry.AwayOdd = offer.AwayOdd, offer.HomeOdd
		extra := offer.ExtraData.Clone()
		extra[domain.ExtraKeyTeamsSwapped] = true
		entry.ExtraData = extra
	}
	return entry
}
