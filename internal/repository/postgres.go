package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres implements Store on top of a pgx pool or transaction.
type Postgres struct {
	db DBTX
}

var _ Store = (*Postgres)(nil)

// NewPostgres creates the pgx-backed store.
func NewPostgres(db DBTX) *Postgres {
	return &Postgres{db: db}
}

// isUniqueViolation reports a PostgreSQL duplicate-key error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
