// Package runner assembles the sink and the importer of one run from the configuration.
package runner

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/zone-importer/internal/config"
	"github.com/GoPowerDNS-Admin/zone-importer/internal/db"
	"github.com/GoPowerDNS-Admin/zone-importer/internal/importer"
	"github.com/GoPowerDNS-Admin/zone-importer/internal/powerdns"
	"github.com/GoPowerDNS-Admin/zone-importer/internal/sink"
	"github.com/GoPowerDNS-Admin/zone-importer/internal/sink/api"
	"github.com/GoPowerDNS-Admin/zone-importer/internal/sink/dbsink"
	"github.com/GoPowerDNS-Admin/zone-importer/internal/sink/pdns"
)

// probeZone is looked up by Check against the api sink.
const probeZone = "zone-importer.invalid"

// Runner owns the sink connections of a run.
type Runner struct {
	cfg      *config.Config
	sink     sink.Sink
	importer *importer.Importer

	api    *api.Client
	gormDB *gorm.DB
	engine *powerdns.Engine
}

// New connects the configured sink and builds the importer. A dry run without skip-existing
// opens no connection at all.
func New(cfg *config.Config) (*Runner, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	r := &Runner{cfg: cfg}

	if !cfg.Import.DryRun || cfg.Import.SkipExisting {
		if err := r.connect(); err != nil {
			_ = r.Close()
			return nil, err
		}
	}

	im, err := importer.New(cfg.Import, r.sink)
	if err != nil {
		_ = r.Close()
		return nil, err //nolint:wrapcheck
	}

	r.importer = im

	return r, nil
}

func (r *Runner) connect() error {
	switch r.cfg.Import.Sink {
	case config.SinkDB:
		gdb, err := db.Open(r.cfg.DB)
		if err != nil {
			return err //nolint:wrapcheck
		}

		r.gormDB = gdb

		s, err := dbsink.New(gdb, r.cfg.Import.UserID, r.cfg.DB.AutoMigrate)
		if err != nil {
			return err //nolint:wrapcheck
		}

		r.sink = s
	case config.SinkPowerDNS:
		engine, err := powerdns.New(r.cfg.PowerDNS, nil)
		if err != nil {
			return err //nolint:wrapcheck
		}

		r.engine = engine

		s, err := pdns.New(engine)
		if err != nil {
			return err //nolint:wrapcheck
		}

		r.sink = s
	case config.SinkAPI:
		r.api = api.New(r.cfg.API, r.cfg.Import.UserID)
		r.sink = r.api
	default:
		return errors.Wrap(ErrUnknownSink, r.cfg.Import.Sink)
	}

	log.Debug().Str("sink", r.cfg.Import.Sink).Msg("sink connected")

	return nil
}

// Importer returns the importer of the run.
func (r *Runner) Importer() *importer.Importer {
	return r.importer
}

// Run imports the configured directory, logs the statistics and writes the metrics file when
// one is configured. ErrRunFailed is returned when any error was counted.
func (r *Runner) Run(ctx context.Context) (importer.Stats, error) {
	l := log.With().Str("dir", r.cfg.Import.Dir).Str("sink", r.cfg.Import.Sink).
		Bool("dry_run", r.cfg.Import.DryRun).Logger()
	l.Info().Msg("starting import")

	err := r.importer.ImportDirectory(ctx, r.cfg.Import.Dir)

	r.importer.LogStats()

	if path := r.cfg.Import.MetricsFile; path != "" {
		if werr := r.importer.WriteMetrics(path); werr != nil {
			l.Error().Err(werr).Str("path", path).Msg("failed to write metrics file")
		}
	}

	stats := r.importer.Stats()

	if err != nil {
		return stats, err //nolint:wrapcheck
	}

	if !stats.Success() {
		return stats, errors.Wrapf(ErrRunFailed, "%d errors", stats.Errors)
	}

	return stats, nil
}

// Check tests the connection of the configured sink.
func (r *Runner) Check(ctx context.Context) error {
	switch {
	case r.gormDB != nil:
		sqlDB, err := r.gormDB.DB()
		if err != nil {
			return errors.Wrap(err, "database handle")
		}

		if err := sqlDB.PingContext(ctx); err != nil {
			return errors.Wrap(err, "database ping")
		}

		log.Info().Str("engine", r.cfg.DB.GormEngine).Msg("database connection test successful")
	case r.engine != nil:
		return r.engine.Test(ctx) //nolint:wrapcheck
	case r.api != nil:
		if _, err := r.api.ZoneExists(ctx, probeZone); err != nil {
			return err //nolint:wrapcheck
		}

		log.Info().Str("url", r.cfg.API.URL).Msg("API connection test successful")
	default:
		return ErrNotConnected
	}

	return nil
}

// Close releases the database connection, if any.
func (r *Runner) Close() error {
	if r.gormDB == nil {
		return nil
	}

	sqlDB, err := r.gormDB.DB()
	if err != nil {
		return errors.Wrap(err, "database handle")
	}

	return sqlDB.Close() //nolint:wrapcheck
}
