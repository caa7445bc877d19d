package db

import (
	"database/sql"
	"fmt"
	"slices"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/xinsproject/servicecall/db/migrations"
	"github.com/xinsproject/servicecall/db/types"
	"github.com/xinsproject/servicecall/log"
)

const (
	UpDownSeparator   = "-- +migrate Up"
	dbPrefixReplacer  = "/*dbprefix*/"
	NoLimitMigrations = 0 // indicate that there is no limit on the number of migrations to run
)

// RunMigrations opens the database at dbPath, applies ms together with the base
// migrations and closes it again
func RunMigrations(dbPath string, ms []types.Migration) error {
	database, err := NewSQLiteDB(dbPath)
	if err != nil {
		return fmt.Errorf("error opening DB %s: %w", dbPath, err)
	}
	defer database.Close()
	return RunMigrationsDB(log.WithFields("module", "migrations"), database, ms)
}

// RunMigrationsDB applies every pending up migration of ms and of the base set.
// Both sets are planned as one source: sql-migrate only applies migrations that
// sort after the last applied id or fill a gap below it, so running them one set
// at a time skips whichever set sorts first.
func RunMigrationsDB(logger *log.Logger, db *sql.DB, ms []types.Migration) error {
	// every package keeps its migrations in the same table, ignore the ones of the others
	migrate.SetIgnoreUnknown(true)
	all := append(slices.Clone(ms), migrations.GetBaseMigrations()...)
	if err := RunMigrationsDBExtended(logger, db, all, migrate.Up, NoLimitMigrations); err != nil {
		return fmt.Errorf("error running migrations: %w", err)
	}
	return nil
}

// RunMigrationsDBExtended applies at most maxMigrations of ms in direction dir.
// NoLimitMigrations applies all of them.
func RunMigrationsDBExtended(logger *log.Logger,
	db *sql.DB,
	ms []types.Migration,
	dir migrate.MigrationDirection,
	maxMigrations int) error {
	if len(ms) == 0 {
		return nil
	}
	source, ids, err := memorySource(ms)
	if err != nil {
		return err
	}
	applied, err := migrate.ExecMax(db, "sqlite3", source, dir, maxMigrations)
	if err != nil {
		return fmt.Errorf("error executing migrations %s: %w", ids, err)
	}
	logger.Debugf("applied %d %s migration(s), known: %s", applied, directionName(dir), ids)
	return nil
}

func memorySource(ms []types.Migration) (*migrate.MemoryMigrationSource, []string, error) {
	source := &migrate.MemoryMigrationSource{Migrations: make([]*migrate.Migration, 0, len(ms))}
	ids := make([]string, 0, len(ms))
	for _, m := range ms {
		script := strings.ReplaceAll(m.SQL, dbPrefixReplacer, m.Prefix)
		down, up, found := strings.Cut(script, UpDownSeparator)
		if !found {
			return nil, nil, fmt.Errorf("migration %s has no %q separator", m.ID, UpDownSeparator)
		}
		id := m.Prefix + m.ID
		source.Migrations = append(source.Migrations, &migrate.Migration{
			Id:   id,
			Up:   []string{up},
			Down: []string{down},
		})
		ids = append(ids, id)
	}
	return source, ids, nil
}

func directionName(dir migrate.MigrationDirection) string {
	if dir == migrate.Down {
		return "down"
	}
	return "up"
}
