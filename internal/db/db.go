// Package db opens the relational database the db sink writes to.
package db

import (
	"time"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/GoPowerDNS-Admin/zone-importer/internal/config"
	"github.com/GoPowerDNS-Admin/zone-importer/internal/db/dsn"
	"github.com/GoPowerDNS-Admin/zone-importer/internal/logger/adapter/stdlogger"
)

const slowQueryThreshold = time.Second

// ErrOpen is returned when the database can not be opened.
var ErrOpen = errors.New("failed to connect database")

// Dialector returns the gorm dialector of the configured engine.
func Dialector(cfg config.DB) gorm.Dialector {
	source := dsn.Create(cfg)

	switch cfg.GormEngine {
	case config.EnginePostgres:
		return postgres.Open(source)
	case config.EngineSQLite:
		return sqlite.Open(source)
	default:
		return mysql.Open(source)
	}
}

// Open connects to the configured database. SQL statements are logged through zerolog.
func Open(cfg config.DB) (*gorm.DB, error) {
	level, printLevel := gormlogger.Warn, zerolog.WarnLevel
	if cfg.Debug {
		level, printLevel = gormlogger.Info, zerolog.DebugLevel
	}

	gl := gormlogger.New(
		&stdlogger.Logger{PrintLevel: printLevel, Component: "gorm"},
		gormlogger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(Dialector(cfg), &gorm.Config{Logger: gl})
	if err != nil {
		return nil, errors.Wrap(ErrOpen, err.Error())
	}

	return db, nil
}
