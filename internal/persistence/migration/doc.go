// Package migration applies versioned SQL schema changes to a database/sql
// connection.
//
// Migration files live in an fs.FS (normally an embed.FS owned by the store
// package) and follow the naming convention {version}_{description}.sql, for
// example "001_create_employees.sql". Versions must be numeric and contiguous.
//
// Applied versions are tracked in a schema_migrations table. Each migration and
// its tracking row are written in the same transaction, so a failed migration
// leaves neither partial schema nor a bogus version record behind.
//
// Example usage:
//
//	manager := migration.NewManager(
//		migration.NewScanner(migrationsFS, "migrations"),
//		migration.NewExecutor(db),
//		logger,
//	)
//	if err := manager.Run(ctx); err != nil {
//		return fmt.Errorf("migrate: %w", err)
//	}
package migration
