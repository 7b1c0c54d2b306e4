package repository

import (
	"context"

	"github.com/falconstore/oddswatch/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX abstracts pgx.Tx and pgxpool.Pool so the store works with both.
// CopyFrom backs the batched odds and alert inserts.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// CatalogReader loads the identity catalog tables.
type CatalogReader interface {
	FetchTeams(ctx context.Context) ([]domain.Team, error)
	FetchAliases(ctx context.Context) ([]domain.TeamAlias, error)
	FetchLeagues(ctx context.Context) ([]domain.League, error)
	FetchBookmakers(ctx context.Context) ([]domain.Bookmaker, error)
}

// TeamWriter is the narrow write surface handed to the resolver.
type TeamWriter interface {
	// CreateTeam inserts a team keyed on (standard_name, league_id). When the
	// pair already exists the existing row is returned together with a
	// DUPLICATE error, so callers can tell creation from reuse.
	CreateTeam(ctx context.Context, standardName string, leagueID int64) (domain.Team, error)

	// CreateTeamAlias inserts an alias unique on (lower(alias), lower(bookmaker)).
	// Returns a DUPLICATE error when the pair is already present.
	CreateTeamAlias(ctx context.Context, teamID int64, alias, bookmaker string) error

	// LogUnmatchedTeam records a raw name the resolver could not map. Best-effort.
	LogUnmatchedTeam(ctx context.Context, entry domain.UnmatchedTeam) error
}

// MatchStore upserts fixtures and appends odds observations in batches.
type MatchStore interface {
	// UpsertFootballMatchesBatch maps every requested key onto a stored match,
	// inserting the missing ones. Existing matches are looked up by team tuple
	// inside the window [min(date)-1d, max(date)+1d] over the batch.
	UpsertFootballMatchesBatch(ctx context.Context, keys []domain.MatchKey) (map[domain.MatchKey]domain.Match, error)

	// UpsertBasketballMatchesBatch behaves like the football variant but also
	// recognizes the inverted team tuple, returning those matches with the
	// Inverted flag set.
	UpsertBasketballMatchesBatch(ctx context.Context, keys []domain.MatchKey) (map[domain.MatchKey]domain.Match, error)

	InsertFootballOdds(ctx context.Context, entries []domain.OddsEntry) error
	InsertBasketballOdds(ctx context.Context, entries []domain.OddsEntry) error
}

// AlertStore persists derived signals.
type AlertStore interface {
	InsertAlertsBatch(ctx context.Context, alerts []domain.Alert) error
}

// Maintenance retires fixtures whose kickoff has passed.
type Maintenance interface {
	RetireStartedFootballMatches(ctx context.Context) (int64, error)
	RetireStartedBasketballMatches(ctx context.Context) (int64, error)
}

// ComparisonReader serves the pre-joined odds comparison views consumed by
// the publisher.
type ComparisonReader interface {
	ReadFootballComparisonView(ctx context.Context) ([]domain.ComparisonRow, error)
	ReadBasketballComparisonView(ctx context.Context) ([]domain.ComparisonRow, error)
}

// Store is the full persistence surface the pipeline consumes.
type Store interface {
	CatalogReader
	TeamWriter
	MatchStore
	AlertStore
	Maintenance
	ComparisonReader
}
