package profile

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// Set BARQUEST_TEST_POSTGRES_DSN to a disposable database to run these.
func TestPostgresRepository(t *testing.T) {
	dsn := os.Getenv("BARQUEST_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("BARQUEST_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()

	repo, err := NewPostgres(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(repo.Close)
	require.NoError(t, RunMigrations(ctx, repo.Pool()))
	_, err = repo.Pool().Exec(ctx, `TRUNCATE hero_profiles`)
	require.NoError(t, err)

	exerciseRepository(t, repo)
}
