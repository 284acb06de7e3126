package sink

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/GoPowerDNS-Admin/zone-importer/internal/zone"
)

// DryRun never writes. Zones get synthetic ids so the whole import pipeline runs unchanged.
// ZoneExists is answered by Lookup when set, otherwise every zone is new.
type DryRun struct {
	Lookup Sink

	next atomic.Int64
}

// NewDryRun returns a DryRun sink. lookup may be nil.
func NewDryRun(lookup Sink) *DryRun {
	return &DryRun{Lookup: lookup}
}

// CreateZone implements Sink.
func (d *DryRun) CreateZone(_ context.Context, desc *zone.Descriptor) (int64, error) {
	id := d.next.Add(1)

	log.Info().Str("zone", desc.Name).Str("kind", string(desc.Kind)).Int64("id", id).
		Msg("[dry-run] would create zone")

	return id, nil
}

// CreateRecord implements Sink.
func (d *DryRun) CreateRecord(_ context.Context, zoneID int64, rec *zone.Record) error {
	log.Debug().Int64("zone_id", zoneID).Str("owner", rec.Owner).Str("type", string(rec.Type)).
		Str("value", rec.Value).Msg("[dry-run] would create record")

	return nil
}

// CreateIncludeEdge implements Sink.
func (d *DryRun) CreateIncludeEdge(_ context.Context, parentID, childID int64, position int) error {
	log.Info().Int64("parent_id", parentID).Int64("child_id", childID).Int("position", position).
		Msg("[dry-run] would assign include")

	return nil
}

// ZoneExists implements Sink.
func (d *DryRun) ZoneExists(ctx context.Context, name string) (bool, error) {
	if d.Lookup == nil {
		return false, nil
	}

	return d.Lookup.ZoneExists(ctx, name)
}

// SetKeyIncludes implements KeyUpdater.
func (d *DryRun) SetKeyIncludes(_ context.Context, zoneID int64, ksk, zsk string) error {
	log.Info().Int64("zone_id", zoneID).Str("ksk", ksk).Str("zsk", zsk).Msg("[dry-run] would set key includes")

	return nil
}
