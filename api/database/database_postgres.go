package database

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Postgres struct{}

func (*Postgres) Load(url string) gorm.Dialector {
	if url == "" {
		url = "host=localhost user=discord password=discord dbname=discord sslmode=disable"
	}
	return postgres.Open(url)
}

func (*Postgres) MaxOpenConns() int {
	return 10
}

func init() {
	dialects["postgres"] = &Postgres{}
}
