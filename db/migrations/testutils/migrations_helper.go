package migrationsutils

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/stretchr/testify/require"
	"github.com/xinsproject/servicecall/db"
	"github.com/xinsproject/servicecall/db/types"
	"github.com/xinsproject/servicecall/log"
)

// MigrationTester checks the effect of one migration of a set
type MigrationTester interface {
	// InsertDataBeforeMigrationUp runs with the schema previous to the tested migration
	InsertDataBeforeMigrationUp(*testing.T, *sql.DB)
	// RunAssertsAfterMigrationUp runs once the tested migration is applied
	RunAssertsAfterMigrationUp(*testing.T, *sql.DB)
	// RunAssertsAfterMigrationDown runs once the tested migration is reverted
	RunAssertsAfterMigrationDown(*testing.T, *sql.DB)
}

// TestMigration applies the migrations before migrationNumber (1-based), then
// applies and reverts migrationNumber, calling miter at every step
func TestMigration(t *testing.T, dbName string, migrationData []types.Migration,
	migrationNumber int, miter MigrationTester) {
	t.Helper()
	require.Positive(t, migrationNumber)
	require.LessOrEqual(t, migrationNumber, len(migrationData))

	logger := log.WithFields("module", "migration-test", "db", dbName, "migration", migrationNumber)
	dbPath := filepath.Join(t.TempDir(), fmt.Sprintf("%s-%03d.sqlite", dbName, migrationNumber))
	database, err := db.NewSQLiteDB(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	if migrationNumber > 1 {
		err := db.RunMigrationsDBExtended(logger, database, migrationData, migrate.Up, migrationNumber-1)
		require.NoError(t, err, "failed to run migrations up to %d", migrationNumber-1)
	}
	miter.InsertDataBeforeMigrationUp(t, database)

	err = db.RunMigrationsDBExtended(logger, database, migrationData, migrate.Up, 1)
	require.NoError(t, err, "failed to run migration up %d", migrationNumber)
	miter.RunAssertsAfterMigrationUp(t, database)

	err = db.RunMigrationsDBExtended(logger, database, migrationData, migrate.Down, 1)
	require.NoError(t, err, "failed to run migration down %d", migrationNumber)
	miter.RunAssertsAfterMigrationDown(t, database)
}

// GetTableColumnNames returns the columns of tableName, empty when it does not exist
func GetTableColumnNames(db *sql.DB, tableName string) ([]string, error) {
	rows, err := db.Query("SELECT name FROM pragma_table_info(?)", tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		columns = append(columns, name)
	}
	return columns, rows.Err()
}
