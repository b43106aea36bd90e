// Package testutil starts throwaway Postgres instances for integration tests.
package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	database "github.com/sebuszqo/FinanceTracker/db"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Postgres is a migrated database running in a container.
type Postgres struct {
	DB               *sql.DB
	ConnectionString string
}

// NewPostgres starts Postgres, applies the migrations and registers cleanup on t.
// The test is skipped in -short mode or when no container runtime is available.
func NewPostgres(t testing.TB) *Postgres {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping Postgres integration test in short mode")
	}
	if tt, ok := t.(*testing.T); ok {
		testcontainers.SkipIfProviderIsNotHealthy(tt)
	}

	ctx := context.Background()
	ctr, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("finance"),
		postgres.WithUsername("finance"),
		postgres.WithPassword("finance"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := ctr.Terminate(context.Background()); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	connString, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, database.RunMigrations(connString))

	dbService, err := database.NewDBService(ctx, database.Options{
		ConnectionString: connString,
		MaxOpenConns:     10,
		MaxIdleConns:     5,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbService.Close() })

	return &Postgres{DB: dbService.DB, ConnectionString: connString}
}

// Reset removes every row while keeping the schema.
func (p *Postgres) Reset(t testing.TB) {
	t.Helper()
	_, err := p.DB.Exec(`TRUNCATE TABLE "transaction", category, auth_users CASCADE`)
	require.NoError(t, err)
}

// InsertUser adds a bare account row for tests that do not go through signup.
func (p *Postgres) InsertUser(t testing.TB, id, email string) {
	t.Helper()
	_, err := p.DB.Exec(
		`INSERT INTO auth_users (id, name, email, password, active) VALUES ($1, $2, $3, $4, TRUE)`,
		id, email, email, "not-a-real-hash",
	)
	require.NoError(t, err)
}
