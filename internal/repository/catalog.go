package repository

import (
	"context"

	"github.com/falconstore/oddswatch/internal/domain"
)

// FetchTeams loads every canonical team.
func (p *Postgres) FetchTeams(ctx context.Context) ([]domain.Team, error) {
	rows, err := p.db.Query(ctx,
		`SELECT id, standard_name, league_id, COALESCE(logo_url, '')
		 FROM teams ORDER BY id`)
	if err != nil {
		return nil, domain.ErrStore("fetch teams", err)
	}
	defer rows.Close()

	var out []domain.Team
	for rows.Next() {
		var t domain.Team
		if err := rows.Scan(&t.ID, &t.StandardName, &t.LeagueID, &t.LogoURL); err != nil {
			return nil, domain.ErrStore("scan team", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// FetchAliases loads the alias table.
func (p *Postgres) FetchAliases(ctx context.Context) ([]domain.TeamAlias, error) {
	rows, err := p.db.Query(ctx,
		`SELECT team_id, alias_name, bookmaker_source FROM team_aliases`)
	if err != nil {
		return nil, domain.ErrStore("fetch aliases", err)
	}
	defer rows.Close()

	var out []domain.TeamAlias
	for rows.Next() {
		var a domain.TeamAlias
		if err := rows.Scan(&a.TeamID, &a.AliasName, &a.BookmakerSource); err != nil {
			return nil, domain.ErrStore("scan alias", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// FetchLeagues loads the active leagues.
func (p *Postgres) FetchLeagues(ctx context.Context) ([]domain.League, error) {
	rows, err := p.db.Query(ctx,
		`SELECT id, name, COALESCE(country, ''), status
		 FROM leagues WHERE status = $1 ORDER BY id`, domain.StatusActive)
	if err != nil {
		return nil, domain.ErrStore("fetch leagues", err)
	}
	defer rows.Close()

	var out []domain.League
	for rows.Next() {
		var l domain.League
		if err := rows.Scan(&l.ID, &l.Name, &l.Country, &l.Status); err != nil {
			return nil, domain.ErrStore("scan league", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// FetchBookmakers loads the active bookmakers.
func (p *Postgres) FetchBookmakers(ctx context.Context) ([]domain.Bookmaker, error) {
	rows, err := p.db.Query(ctx,
		`SELECT id, name, status FROM bookmakers WHERE status = $1 ORDER BY id`,
		domain.StatusActive)
	if err != nil {
		return nil, domain.ErrStore("fetch bookmakers", err)
	}
	defer rows.Close()

	var out []domain.Bookmaker
	for rows.Next() {
		var b domain.Bookmaker
		if err := rows.Scan(&b.ID, &b.Name, &b.Status); err != nil {
			return nil, domain.ErrStore("scan bookmaker", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// CreateTeam inserts a team unique on (standard_name, league_id). When the
// pair already exists the stored row is returned together with a DUPLICATE
// error so the caller can reuse the existing ID.
func (p *Postgres) CreateTeam(ctx context.Context, standardName string, leagueID int64) (domain.Team, error) {
	var team domain.Team
	err := p.db.QueryRow(ctx,
		`INSERT INTO teams (standard_name, league_id)
		 VALUES ($1, $2)
		 ON CONFLICT (standard_name, league_id) DO NOTHING
		 RETURNING id, standard_name, league_id, COALESCE(logo_url, '')`,
		standardName, leagueID).
		Scan(&team.ID, &team.StandardName, &team.LeagueID, &team.LogoURL)
	if err == nil {
		return team, nil
	}
	if !isNoRows(err) {
		return domain.Team{}, domain.ErrStore("create team", err)
	}

	// Conflict path: fetch the winner.
	err = p.db.QueryRow(ctx,
		`SELECT id, standard_name, league_id, COALESCE(logo_url, '')
		 FROM teams WHERE standard_name = $1 AND league_id = $2`,
		standardName, leagueID).
		Scan(&team.ID, &team.StandardName, &team.LeagueID, &team.LogoURL)
	if err != nil {
		return domain.Team{}, domain.ErrStore("fetch existing team", err)
	}
	return team, domain.ErrDuplicate("team " + standardName + " already exists")
}

// CreateTeamAlias inserts an alias unique on (lower(alias), lower(bookmaker)).
func (p *Postgres) CreateTeamAlias(ctx context.Context, teamID int64, alias, bookmaker string) error {
	_, err := p.db.Exec(ctx,
		`INSERT INTO team_aliases (team_id, alias_name, bookmaker_source)
		 VALUES ($1, $2, $3)`,
		teamID, alias, bookmaker)
	if isUniqueViolation(err) {
		return domain.ErrDuplicate("alias " + alias + " already exists for " + bookmaker)
	}
	if err != nil {
		return domain.ErrStore("create team alias", err)
	}
	return nil
}

// LogUnmatchedTeam records an unresolved raw name for the maintenance alias
// generator. Repeated sightings bump last_seen_at instead of piling rows.
func (p *Postgres) LogUnmatchedTeam(ctx context.Context, entry domain.UnmatchedTeam) error {
	_, err := p.db.Exec(ctx,
		`INSERT INTO unmatched_team_logs (raw_name, bookmaker, league_name, is_primary)
		 VALUES ($1, $2, NULLIF($3, ''), $4)
		 ON CONFLICT (lower(raw_name), lower(bookmaker))
		 DO UPDATE SET last_seen_at = now(), seen_count = unmatched_team_logs.seen_count + 1`,
		entry.RawName, entry.Bookmaker, entry.LeagueName, entry.Primary)
	if err != nil {
		return domain.ErrStore("log unmatched team", err)
	}
	return nil
}
