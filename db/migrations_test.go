package db

import (
	"path/filepath"
	"testing"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/stretchr/testify/require"
	"github.com/xinsproject/servicecall/db/types"
	"github.com/xinsproject/servicecall/log"
)

const prefixedMigration = `
-- +migrate Down
DROP TABLE IF EXISTS /*dbprefix*/item;
-- +migrate Up
CREATE TABLE /*dbprefix*/item (id INTEGER PRIMARY KEY);
`

func TestRunMigrationsPrefix(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrations.sqlite")
	ms := []types.Migration{{ID: "item0001", SQL: prefixedMigration, Prefix: "test_"}}
	require.NoError(t, RunMigrations(dbPath, ms))
	// applying twice is a no-op
	require.NoError(t, RunMigrations(dbPath, ms))

	database, err := NewSQLiteDB(dbPath)
	require.NoError(t, err)
	defer database.Close()
	_, err = database.Exec("INSERT INTO test_item (id) VALUES (1)")
	require.NoError(t, err)

	var applied int
	require.NoError(t, database.QueryRow(
		"SELECT COUNT(*) FROM gorp_migrations WHERE id IN ('test_item0001', 'basedb0001')").Scan(&applied))
	require.Equal(t, 2, applied)

	require.NoError(t, RunMigrationsDBExtended(log.GetDefaultLogger(), database, ms, migrate.Down, 1))
	_, err = database.Exec("INSERT INTO test_item (id) VALUES (2)")
	require.Error(t, err)
}

func TestRunMigrationsAppliesBaseAndOwnSets(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		baseFirst bool
	}{
		{name: "id sorting after the base set", id: "journal0001"},
		{name: "id sorting before the base set", id: "aaa0001"},
		{name: "database with only the base set", id: "journal0001", baseFirst: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dbPath := filepath.Join(t.TempDir(), "migrations.sqlite")
			ms := []types.Migration{{ID: tt.id, SQL: prefixedMigration}}
			if tt.baseFirst {
				require.NoError(t, RunMigrations(dbPath, nil))
			}
			require.NoError(t, RunMigrations(dbPath, ms))
			require.NoError(t, RunMigrations(dbPath, ms))

			database, err := NewSQLiteDB(dbPath)
			require.NoError(t, err)
			defer database.Close()
			_, err = database.Exec("INSERT INTO item (id) VALUES (1)")
			require.NoError(t, err)
			_, err = database.Exec(
				"INSERT INTO key_value (owner, key, value, updated_at) VALUES ('o', 'k', 'v', 0)")
			require.NoError(t, err)
		})
	}
}

func TestRunMigrationsWithoutSeparator(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrations.sqlite")
	err := RunMigrations(dbPath, []types.Migration{{ID: "broken", SQL: "CREATE TABLE x (id INTEGER);"}})
	require.ErrorContains(t, err, `migration broken has no "-- +migrate Up" separator`)
}
