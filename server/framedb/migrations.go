package framedb

import (
	"github.com/BurntSushi/migration"
	"github.com/buscount/buscount/pkg/dbh"
	"github.com/cyclopcam/logs"
)

func Migrations(log logs.Log) []migration.Migrator {
	migs := []migration.Migrator{}
	idx := 0

	migs = append(migs, dbh.MakeMigrationFromSQL(log, &idx,
		`
		CREATE TABLE frame(
			id INTEGER PRIMARY KEY,
			frame_data BLOB NOT NULL,
			count_of_people INT NOT NULL,
			timestamp REAL NOT NULL
		);
		`))

	return migs
}
