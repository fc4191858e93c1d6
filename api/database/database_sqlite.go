package database

import (
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type Sqlite struct{}

func (*Sqlite) Load(url string) gorm.Dialector {
	if url == "" {
		url = "polls.db"
	}
	return sqlite.Open(url)
}

// sqlite has no row locks, so writers are serialised on one connection.
func (*Sqlite) MaxOpenConns() int {
	return 1
}

func init() {
	dialects["sqlite"] = &Sqlite{}
}
