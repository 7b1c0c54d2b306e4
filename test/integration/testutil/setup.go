//go:build integration

package testutil

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/falconstore/oddswatch/internal/infra"
	"github.com/falconstore/oddswatch/internal/repository"
)

const (
	TestDBHost = "localhost"
	TestDBPort = 5435
	TestDBUser = "oddswatch"
	TestDBPass = "oddswatch"
	TestDBName = "oddswatch_test"
)

// TestEnv holds all resources for an integration test.
type TestEnv struct {
	Pool   *pgxpool.Pool
	Store  *repository.Postgres
	Logger *slog.Logger
	t      *testing.T
}

var (
	sharedPool *pgxpool.Pool
	poolOnce   sync.Once
	poolErr    error
)

func testDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		TestDBUser, TestDBPass, TestDBHost, TestDBPort, TestDBName)
}

func bootstrapDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		TestDBUser, TestDBPass, TestDBHost, TestDBPort, TestDBUser)
}

func ensureTestDB() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	bPool, err := pgxpool.New(ctx, bootstrapDSN())
	if err != nil {
		return fmt.Errorf("connect bootstrap db: %w", err)
	}
	defer bPool.Close()

	var exists bool
	err = bPool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", TestDBName).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check db exists: %w", err)
	}
	if !exists {
		if _, err := bPool.Exec(ctx, fmt.Sprintf("CREATE DATABASE %s", TestDBName)); err != nil {
			return fmt.Errorf("create test db: %w", err)
		}
	}
	return nil
}

func getSharedPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	poolOnce.Do(func() {
		if err := ensureTestDB(); err != nil {
			poolErr = err
			return
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		if err := infra.RunMigrations(testDSN(), logger); err != nil {
			poolErr = fmt.Errorf("run migrations: %w", err)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		sharedPool, poolErr = pgxpool.New(ctx, testDSN())
	})
	if poolErr != nil {
		t.Fatalf("integration database unavailable: %v", poolErr)
	}
	return sharedPool
}

// Setup returns a test environment bound to the shared migrated database.
// Each test starts from truncated tables.
func Setup(t *testing.T) *TestEnv {
	t.Helper()
	pool := getSharedPool(t)

	env := &TestEnv{
		Pool:   pool,
		Store:  repository.NewPostgres(pool),
		Logger: slog.New(slog.NewTextHandler(os.Stderr, nil)),
		t:      t,
	}
	env.Truncate()
	return env
}

// Truncate clears all pipeline tables between tests.
func (e *TestEnv) Truncate() {
	e.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := e.Pool.Exec(ctx, `
		TRUNCATE unmatched_team_logs, alerts,
		         basketball_odds_history, football_odds_history,
		         basketball_matches, football_matches,
		         team_aliases, teams, leagues, bookmakers
		RESTART IDENTITY CASCADE`)
	if err != nil {
		e.t.Fatalf("truncate tables: %v", err)
	}
}
