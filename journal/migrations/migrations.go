package migrations

import (
	_ "embed"

	"github.com/xinsproject/servicecall/db"
	"github.com/xinsproject/servicecall/db/types"
)

//go:embed journal0001.sql
var mig0001 string

var Migrations = []types.Migration{
	{
		ID:  "journal0001",
		SQL: mig0001,
	},
}

func RunMigrations(dbPath string) error {
	return db.RunMigrations(dbPath, Migrations)
}
