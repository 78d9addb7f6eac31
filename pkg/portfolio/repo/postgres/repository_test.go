package postgres_test

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-portfolio/pkg/portfolio"
	"github.com/tendant/simple-portfolio/pkg/portfolio/repo/postgres"
	"github.com/tendant/simple-portfolio/pkg/portfolio/repo/repotest"
)

// newTestPool connects to TEST_DATABASE_URL and applies the schema.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, connString)
	require.NoError(t, err, "Failed to connect to test database")
	t.Cleanup(pool.Close)

	require.NoError(t, pool.Ping(ctx), "Failed to ping test database")
	require.NoError(t, postgres.Migrate(ctx, pool))
	// Running twice must be harmless.
	require.NoError(t, postgres.Migrate(ctx, pool))
	return pool
}

func TestPostgresRepository(t *testing.T) {
	pool := newTestPool(t)

	repotest.Run(t, func(t *testing.T) portfolio.Repository {
		_, err := pool.Exec(context.Background(),
			"TRUNCATE profile, skill, project, contact_message")
		require.NoError(t, err)
		return postgres.NewWithPool(pool)
	})
}
