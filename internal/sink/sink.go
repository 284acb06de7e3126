// Package sink defines where imported zones, records and include edges are written.
package sink

import (
	"context"

	"github.com/GoPowerDNS-Admin/zone-importer/internal/zone"
)

// Sink receives the results of an import. Implementations block until the write has
// succeeded or failed.
type Sink interface {
	// CreateZone stores d and returns its id.
	CreateZone(ctx context.Context, d *zone.Descriptor) (int64, error)
	// CreateRecord stores rec under the zone with id zoneID.
	CreateRecord(ctx context.Context, zoneID int64, rec *zone.Record) error
	// CreateIncludeEdge links parent to child. Asserting an existing edge again is not an error.
	CreateIncludeEdge(ctx context.Context, parentID, childID int64, position int) error
	// ZoneExists reports whether a zone with the given name is already stored.
	ZoneExists(ctx context.Context, name string) (bool, error)
}

// KeyUpdater is implemented by sinks that can set the DNSSEC key include paths of a master
// zone after it was created.
type KeyUpdater interface {
	SetKeyIncludes(ctx context.Context, zoneID int64, ksk, zsk string) error
}
