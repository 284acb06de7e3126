// Package pdns writes an import into a PowerDNS authoritative server through its HTTP API.
//
// Master files become Native zones. Include files have no zone of their own: their records land
// in the registered master zone closest to their origin. PowerDNS replaces whole RRsets, so records are collected per
// owner and type and the complete set is sent every time it grows.
package pdns

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"

	pdnsapi "github.com/joeig/go-powerdns/v3"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/GoPowerDNS-Admin/zone-importer/internal/powerdns"
	"github.com/GoPowerDNS-Admin/zone-importer/internal/sink"
	"github.com/GoPowerDNS-Admin/zone-importer/internal/zone"
)

type zoneRef struct {
	name       string // PowerDNS zone, FQDN
	origin     string
	defaultTTL uint32
}

type rrsetKey struct {
	zone string
	name string
	typ  zone.RecordType
}

type rrset struct {
	ttl     uint32
	content []string
}

// Sink is a sink.Sink backed by the PowerDNS API.
type Sink struct {
	engine *powerdns.Engine

	mu      sync.Mutex
	nextID  int64
	zones   map[int64]zoneRef
	masters []string // PowerDNS zones created by this sink
	sets    map[rrsetKey]*rrset
}

// New returns a sink writing through engine.
func New(engine *powerdns.Engine) (*Sink, error) {
	if engine == nil || engine.Client == nil {
		return nil, powerdns.ErrClientNotInitialized
	}

	return &Sink{
		engine: engine,
		zones:  make(map[int64]zoneRef),
		sets:   make(map[rrsetKey]*rrset),
	}, nil
}

// CreateZone implements sink.Sink.
func (s *Sink) CreateZone(ctx context.Context, d *zone.Descriptor) (int64, error) {
	ref := zoneRef{name: d.Origin, origin: d.Origin, defaultTTL: d.DefaultTTL}

	if d.IsMaster() {
		if _, err := s.engine.Zones.AddNative(
			ctx,
			d.Origin,
			false,      // dnssec
			"",         // nsec3Param
			false,      // nsec3Narrow
			"",         // soaEdit
			"",         // soaEditApi
			false,      // apiRectify
			[]string{}, // nameservers come with the NS records
		); err != nil {
			return 0, pkgerrors.Wrapf(err, "create zone %s", d.Origin)
		}

		if err := s.putSOA(ctx, d); err != nil {
			return 0, err
		}
	}

	s.mu.Lock()

	if d.IsMaster() {
		s.masters = append(s.masters, ref.name)
	} else if m := s.enclosingMaster(d.Origin); m != "" {
		ref.name = m
	}

	s.nextID++
	id := s.nextID
	s.zones[id] = ref
	s.mu.Unlock()

	log.Info().Str("zone", d.Name).Str("pdns_zone", ref.name).Int64("id", id).
		Str("kind", string(d.Kind)).Msg("zone registered in PowerDNS")

	return id, nil
}

// enclosingMaster returns the longest registered master zone containing origin, "" if none.
// Callers hold s.mu.
func (s *Sink) enclosingMaster(origin string) string {
	var best string

	for _, m := range s.masters {
		if zone.InOrigin(origin, m) && len(m) > len(best) {
			best = m
		}
	}

	return best
}

// putSOA replaces the SOA PowerDNS generated when the file carried one.
func (s *Sink) putSOA(ctx context.Context, d *zone.Descriptor) error {
	if d.SOA == nil || d.SOA.MName == "" || d.SOA.RName == "" {
		return nil
	}

	soa := d.SOA
	content := strings.Join([]string{
		zone.Absolute(soa.MName, d.Origin),
		zone.Absolute(soa.RName, d.Origin),
		strconv.FormatUint(uint64(soa.Serial), 10),
		strconv.FormatUint(uint64(soa.Refresh), 10),
		strconv.FormatUint(uint64(soa.Retry), 10),
		strconv.FormatUint(uint64(soa.Expire), 10),
		strconv.FormatUint(uint64(soa.Minimum), 10),
	}, " ")

	err := s.engine.Records.Change(ctx, d.Origin, d.Origin, pdnsapi.RRTypeSOA, d.DefaultTTL, []string{content})

	return pkgerrors.Wrapf(err, "set SOA of %s", d.Origin)
}

// CreateRecord implements sink.Sink.
func (s *Sink) CreateRecord(ctx context.Context, zoneID int64, rec *zone.Record) error {
	s.mu.Lock()

	ref, ok := s.zones[zoneID]
	if !ok {
		s.mu.Unlock()

		return pkgerrors.Wrapf(sink.ErrUnknownZone, "zone id %d", zoneID)
	}

	key := rrsetKey{zone: ref.name, name: rec.AbsoluteOwner(ref.origin), typ: rec.Type}

	if !zone.InOrigin(key.name, ref.name) {
		s.mu.Unlock()

		return pkgerrors.Wrapf(sink.ErrRecordSkipped, "%s %s is outside PowerDNS zone %s", key.name, key.typ, ref.name)
	}

	ttl := rec.TTLOr(ref.defaultTTL)

	set, ok := s.sets[key]
	if !ok {
		set = &rrset{ttl: ttl}
		s.sets[key] = set
	} else if rec.TTL != nil && set.ttl != ttl {
		log.Warn().Str("name", key.name).Str("type", string(key.typ)).Uint32("ttl", set.ttl).
			Uint32("record_ttl", ttl).Msg("RRset TTL differs, keeping the first")
	}

	set.content = append(set.content, rec.AbsoluteContent(ref.origin))
	content := append([]string(nil), set.content...)
	setTTL := set.ttl

	s.mu.Unlock()

	err := s.engine.Records.Change(ctx, key.zone, key.name, pdnsapi.RRType(key.typ), setTTL, content)
	if err != nil {
		return pkgerrors.Wrapf(err, "replace RRset %s %s", key.name, key.typ)
	}

	return nil
}

// CreateIncludeEdge implements sink.Sink. PowerDNS has no notion of includes.
func (s *Sink) CreateIncludeEdge(_ context.Context, parentID, childID int64, position int) error {
	log.Debug().Int64("parent_id", parentID).Int64("child_id", childID).Int("position", position).
		Msg("include edge not stored in PowerDNS")

	return nil
}

// ZoneExists implements sink.Sink.
func (s *Sink) ZoneExists(ctx context.Context, name string) (bool, error) {
	_, err := s.engine.Zones.Get(ctx, zone.NormalizeOrigin(name))
	if err == nil {
		return true, nil
	}

	if notFound(err) {
		return false, nil
	}

	return false, pkgerrors.Wrapf(err, "look up zone %s", name)
}

// notFound reports a 404, or the 422 older servers answer for unknown zones.
func notFound(err error) bool {
	var perr *pdnsapi.Error
	if !errors.As(err, &perr) {
		return false
	}

	return perr.StatusCode == http.StatusNotFound || perr.StatusCode == http.StatusUnprocessableEntity
}
