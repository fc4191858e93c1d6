package database

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/lordralex/absol/api/env"
	"github.com/lordralex/absol/api/logger"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Dialect opens a gorm connection for one database flavour.
type Dialect interface {
	Load(url string) gorm.Dialector
	// MaxOpenConns caps the pool; zero leaves the default.
	MaxOpenConns() int
}

var dialects = make(map[string]Dialect)

var databaseConn *gorm.DB
var locker sync.Mutex

// Get returns the process-wide connection, opening it on first use from
// database.dialect and database.url.
func Get() (*gorm.DB, error) {
	var err error

	locker.Lock()
	defer locker.Unlock()
	if databaseConn == nil {
		databaseConn, err = Open(env.GetOr("database.dialect", "mysql"), env.Get("database.url"))
	}

	return databaseConn, err
}

func Close() {
	locker.Lock()
	defer locker.Unlock()
	if databaseConn == nil {
		return
	}
	if sqlDb, err := databaseConn.DB(); err == nil {
		_ = sqlDb.Close()
	}
	databaseConn = nil
}

// Open connects with a registered dialect. An empty url falls back to the
// dialect's local default.
func Open(name, url string) (*gorm.DB, error) {
	dialect, ok := dialects[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown database dialect %q", name)
	}

	db, err := gorm.Open(dialect.Load(url), &gorm.Config{Logger: newLogger()})
	if err != nil {
		return nil, err
	}

	sqlDb, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDb.SetConnMaxLifetime(time.Minute * 5)
	if n := dialect.MaxOpenConns(); n > 0 {
		sqlDb.SetMaxOpenConns(n)
	} else {
		sqlDb.SetMaxOpenConns(10)
	}
	return db, nil
}

func newLogger() gormlogger.Interface {
	level := gormlogger.Warn
	if env.GetBool("database.debug") {
		level = gormlogger.Info
	}
	return gormlogger.New(logger.For("gorm"), gormlogger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}
