package sink

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/GoPowerDNS-Admin/zone-importer/internal/zone"
)

// Memory keeps everything in process. It backs the example command and tests.
type Memory struct {
	mu      sync.Mutex
	zones   []zone.Descriptor
	records map[int64][]zone.Record
	edges   []zone.IncludeEdge
}

// NewMemory returns an empty Memory sink.
func NewMemory() *Memory {
	return &Memory{records: make(map[int64][]zone.Record)}
}

// CreateZone implements Sink.
func (m *Memory) CreateZone(_ context.Context, d *zone.Descriptor) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *d
	stored.ID = int64(len(m.zones) + 1)
	m.zones = append(m.zones, stored)

	return stored.ID, nil
}

// CreateRecord implements Sink.
func (m *Memory) CreateRecord(_ context.Context, zoneID int64, rec *zone.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if zoneID < 1 || zoneID > int64(len(m.zones)) {
		return errors.Wrapf(ErrUnknownZone, "%d", zoneID)
	}

	m.records[zoneID] = append(m.records[zoneID], *rec)

	return nil
}

// CreateIncludeEdge implements Sink.
func (m *Memory) CreateIncludeEdge(_ context.Context, parentID, childID int64, position int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.edges {
		if e.ParentID == parentID && e.ChildID == childID {
			return nil
		}
	}

	m.edges = append(m.edges, zone.IncludeEdge{ParentID: parentID, ChildID: childID, Position: position})

	return nil
}

// ZoneExists implements Sink.
func (m *Memory) ZoneExists(_ context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, z := range m.zones {
		if strings.EqualFold(z.Name, name) {
			return true, nil
		}
	}

	return false, nil
}

// SetKeyIncludes implements KeyUpdater.
func (m *Memory) SetKeyIncludes(_ context.Context, zoneID int64, ksk, zsk string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if zoneID < 1 || zoneID > int64(len(m.zones)) {
		return errors.Wrapf(ErrUnknownZone, "%d", zoneID)
	}

	m.zones[zoneID-1].KSKInclude = ksk
	m.zones[zoneID-1].ZSKInclude = zsk

	return nil
}

// Zones returns a copy of the stored zones in creation order.
func (m *Memory) Zones() []zone.Descriptor {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]zone.Descriptor(nil), m.zones...)
}

// Records returns a copy of the records stored under zoneID.
func (m *Memory) Records(zoneID int64) []zone.Record {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]zone.Record(nil), m.records[zoneID]...)
}

// Edges returns a copy of the include edges in creation order.
func (m *Memory) Edges() []zone.IncludeEdge {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]zone.IncludeEdge(nil), m.edges...)
}

// Zone returns the zone stored under id.
func (m *Memory) Zone(id int64) (zone.Descriptor, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id < 1 || id > int64(len(m.zones)) {
		return zone.Descriptor{}, false
	}

	return m.zones[id-1], true
}
