//go:build integration

package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/example/attendance-tracker/internal/persistence/sqlstore"
	"github.com/example/attendance-tracker/internal/persistence/sqlstore/storetest"
)

func TestRepositories(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("attendance"),
		tcpostgres.WithUsername("attendance"),
		tcpostgres.WithPassword("attendance"),
		tcpostgres.BasicWaitStrategies(),
	)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})
	require.NoError(t, err)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s := &storetest.RepositorySuite{}
	s.NewStore = func() *sqlstore.Store {
		store, err := Open(ctx, Config{DSN: dsn, MaxOpenConns: 4})
		require.NoError(s.T(), err)

		// Each test starts from an empty schema.
		_, err = store.DB().ExecContext(ctx,
			`DROP TABLE IF EXISTS attendance_records, employees, schema_migrations`)
		require.NoError(s.T(), err)
		require.NoError(s.T(), storetest.Migrate(ctx, store))
		return store
	}
	suite.Run(t, s)
}
