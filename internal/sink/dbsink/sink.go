// Package dbsink writes an import straight into the zone management database.
//
// The live schema is introspected once. Model columns the database does not have are left out
// of every insert, so older schemas keep working.
package dbsink

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/zone-importer/internal/db/models"
	"github.com/GoPowerDNS-Admin/zone-importer/internal/zone"
)

const (
	includeTable = "zone_file_includes"

	columnParentID  = "parent_id"
	columnMasterID  = "master_id"
	columnIncludeID = "include_id"
	columnPosition  = "position"
	columnCreatedAt = "created_at"

	columnKSK = "dnssec_include_ksk"
	columnZSK = "dnssec_include_zsk"
)

// Sink is a sink.Sink backed by gorm.
type Sink struct {
	db     *gorm.DB
	userID int64

	zoneOmit   []string
	recordOmit []string

	edgeColumns map[string]bool
	edgeParent  string
	zoneColumns map[string]bool
}

// New inspects the schema behind db. With migrate set the tables are created or updated first.
func New(db *gorm.DB, userID int64, migrate bool) (*Sink, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if migrate {
		if err := db.AutoMigrate(models.All()...); err != nil {
			return nil, errors.Wrap(err, "auto migrate")
		}
	}

	s := &Sink{db: db, userID: userID}

	var err error

	if s.zoneColumns, err = columns(db, &models.ZoneFile{}); err != nil {
		return nil, err
	}

	if s.zoneOmit, err = omitted(db, &models.ZoneFile{}, s.zoneColumns); err != nil {
		return nil, err
	}

	recordColumns, err := columns(db, &models.DNSRecord{})
	if err != nil {
		return nil, err
	}

	if s.recordOmit, err = omitted(db, &models.DNSRecord{}, recordColumns); err != nil {
		return nil, err
	}

	if s.edgeColumns, err = columns(db, &models.ZoneFileInclude{}); err != nil {
		return nil, err
	}

	switch {
	case s.edgeColumns[columnParentID]:
		s.edgeParent = columnParentID
	case s.edgeColumns[columnMasterID]:
		s.edgeParent = columnMasterID
	default:
		return nil, ErrNoEdgeParentColumn
	}

	log.Debug().Strs("zone_omit", s.zoneOmit).Strs("record_omit", s.recordOmit).
		Str("edge_parent", s.edgeParent).Msg("database schema inspected")

	return s, nil
}

// columns returns the live column names of the table behind model.
func columns(db *gorm.DB, model any) (map[string]bool, error) {
	m := db.Migrator()

	if !m.HasTable(model) {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err == nil {
			return nil, errors.Wrap(ErrMissingTable, stmt.Schema.Table)
		}

		return nil, ErrMissingTable
	}

	types, err := m.ColumnTypes(model)
	if err != nil {
		return nil, errors.Wrap(err, "read column types")
	}

	cols := make(map[string]bool, len(types))
	for _, ct := range types {
		cols[ct.Name()] = true
	}

	return cols, nil
}

// omitted lists the model columns missing from live.
func omitted(db *gorm.DB, model any, live map[string]bool) ([]string, error) {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return nil, errors.Wrap(err, "parse model")
	}

	var omit []string

	for _, f := range stmt.Schema.Fields {
		if f.DBName != "" && !live[f.DBName] {
			omit = append(omit, f.DBName)
		}
	}

	return omit, nil
}

func (s *Sink) withOmit(ctx context.Context, omit []string) *gorm.DB {
	tx := s.db.WithContext(ctx)
	if len(omit) > 0 {
		tx = tx.Omit(omit...)
	}

	return tx
}

// CreateZone implements sink.Sink.
func (s *Sink) CreateZone(ctx context.Context, d *zone.Descriptor) (int64, error) {
	zf := models.NewZoneFile(d, s.userID)

	if err := s.withOmit(ctx, s.zoneOmit).Create(&zf).Error; err != nil {
		return 0, errors.Wrapf(err, "insert zone %s", d.Name)
	}

	log.Info().Str("zone", d.Name).Int64("id", zf.ID).Msg("zone created in database")

	return zf.ID, nil
}

// CreateRecord implements sink.Sink.
func (s *Sink) CreateRecord(ctx context.Context, zoneID int64, rec *zone.Record) error {
	r := models.NewDNSRecord(zoneID, rec, s.userID)

	if err := s.withOmit(ctx, s.recordOmit).Create(&r).Error; err != nil {
		return errors.Wrapf(err, "insert record %s %s", rec.Owner, rec.Type)
	}

	return nil
}

// CreateIncludeEdge implements sink.Sink. An edge that is already stored is left untouched.
func (s *Sink) CreateIncludeEdge(ctx context.Context, parentID, childID int64, position int) error {
	tx := s.db.WithContext(ctx)

	var n int64
	if err := tx.Table(includeTable).
		Where(s.edgeParent+" = ? AND "+columnIncludeID+" = ?", parentID, childID).
		Count(&n).Error; err != nil {
		return errors.Wrap(err, "look up include edge")
	}

	if n > 0 {
		return nil
	}

	row := map[string]any{
		s.edgeParent:    parentID,
		columnIncludeID: childID,
	}

	if s.edgeColumns[columnPosition] {
		row[columnPosition] = position
	}

	if s.edgeColumns[columnCreatedAt] {
		row[columnCreatedAt] = time.Now()
	}

	if err := tx.Table(includeTable).Create(row).Error; err != nil {
		return errors.Wrapf(err, "insert include edge %d -> %d", parentID, childID)
	}

	return nil
}

// ZoneExists implements sink.Sink.
func (s *Sink) ZoneExists(ctx context.Context, name string) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.ZoneFile{}).Where("name = ?", name).Count(&n).Error; err != nil {
		return false, errors.Wrapf(err, "look up zone %s", name)
	}

	return n > 0, nil
}

// SetKeyIncludes implements sink.KeyUpdater. Empty paths and missing columns are skipped.
func (s *Sink) SetKeyIncludes(ctx context.Context, zoneID int64, ksk, zsk string) error {
	updates := map[string]any{}

	if ksk != "" && s.zoneColumns[columnKSK] {
		updates[columnKSK] = ksk
	}

	if zsk != "" && s.zoneColumns[columnZSK] {
		updates[columnZSK] = zsk
	}

	if len(updates) == 0 {
		return nil
	}

	if err := s.db.WithContext(ctx).Model(&models.ZoneFile{}).Where("id = ?", zoneID).Updates(updates).Error; err != nil {
		return errors.Wrapf(err, "update key includes of zone %d", zoneID)
	}

	return nil
}
