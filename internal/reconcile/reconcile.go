// Package reconcile joins the canonical records of a zone with the raw-text facts of its source.
//
// The canonical parser resolves every owner and target to one fully-qualified form and fills in
// inherited TTLs. Reconcile matches each canonical record back to the line it came from to decide
// how the owner and target were written and whether the TTL was explicit. RecoverOutOfOrigin
// picks up the lines the canonical parser drops because their owner lies outside the origin.
package reconcile

import (
	"net/netip"
	"strings"

	"github.com/pkg/errors"

	"github.com/GoPowerDNS-Admin/zone-importer/internal/oracle"
	"github.com/GoPowerDNS-Admin/zone-importer/internal/zone"
	"github.com/GoPowerDNS-Admin/zone-importer/internal/zonetext"
)

// Reconcile converts the records of z into stored records using the facts scanned from the same
// text. Records that fail conversion are reported in the error slice and left out.
func Reconcile(z *oracle.Zone, f *zonetext.Facts) ([]zone.Record, []error) {
	var (
		out     []zone.Record
		errs    []error
		claimed = make(map[int]bool)
	)

	for _, cr := range z.Records {
		idx := match(cr, f, claimed)

		var raw *zonetext.RawRecord
		if idx >= 0 {
			claimed[idx] = true
			raw = &f.Raw[idx]
		}

		rec := zone.Record{Owner: owner(cr, z.Origin, f, raw)}

		if raw != nil {
			rec.Line = raw.Line

			if f.HasExplicitTTL(raw.Owner, raw.Type, raw.Rdata) {
				ttl := cr.TTL
				rec.TTL = &ttl
			}
		}

		if err := fill(&rec, cr.RR, z.Origin, raw); err != nil {
			errs = append(errs, errors.Wrapf(err, "%s %s", cr.FQDN, cr.Type))
			continue
		}

		out = append(out, rec)
	}

	return out, errs
}

// owner decides the stored owner notation: "@" when the line wrote "@", the FQDN when the name
// was written fully qualified anywhere in the file, otherwise relative to the origin.
func owner(cr oracle.Record, origin string, f *zonetext.Facts, raw *zonetext.RawRecord) string {
	switch {
	case raw != nil && raw.Notation == zonetext.NotationAt:
		return zone.AtMarker
	case raw == nil && f.IsAtOwner(zone.Bare(cr.FQDN), cr.Type):
		return zone.AtMarker
	case f.IsFQDNOwner(cr.FQDN):
		return strings.ToLower(zone.NormalizeOrigin(cr.FQDN))
	default:
		return zone.Relativize(cr.FQDN, origin)
	}
}

// match returns the index of the raw line cr came from, or -1. Candidates share the normalized
// owner and type; with several, the first whose target equals the canonical target wins and
// otherwise the first unclaimed one in declaration order.
func match(cr oracle.Record, f *zonetext.Facts, claimed map[int]bool) int {
	bare := zone.Bare(cr.FQDN)

	var candidates []int

	for i := range f.Raw {
		if !claimed[i] && f.Raw[i].Owner == bare && f.Raw[i].Type == cr.Type {
			candidates = append(candidates, i)
		}
	}

	switch len(candidates) {
	case 0:
		return -1
	case 1:
		return candidates[0]
	}

	want := canonicalKey(cr)

	for _, i := range candidates {
		if sameTarget(cr.Type, want, rawKey(&f.Raw[i])) {
			return i
		}
	}

	return candidates[0]
}

// skipFields is the number of leading numeric fields before the compared part of the rdata.
func skipFields(typ string) int {
	switch zone.RecordType(typ) {
	case zone.TypeMX:
		return 1
	case zone.TypeSRV:
		return 3 //nolint:mnd
	}

	return 0
}

func canonicalKey(cr oracle.Record) string {
	if t, ok := rrTarget(cr.RR); ok {
		return zone.Bare(t)
	}

	return normalizeData(cr.Type, oracle.Rdata(cr.RR))
}

func rawKey(raw *zonetext.RawRecord) string {
	skip := skipFields(raw.Type)
	if len(raw.Tokens) <= skip {
		return ""
	}

	if zone.RecordType(raw.Type).HasTarget() {
		return zone.Bare(zone.Absolute(raw.Tokens[skip], raw.Origin))
	}

	return normalizeData(raw.Type, strings.Join(raw.Tokens[skip:], " "))
}

func normalizeData(typ, data string) string {
	data = strings.TrimSuffix(strings.Join(strings.Fields(data), " "), ".")

	switch zone.RecordType(typ) {
	case zone.TypeA, zone.TypeAAAA:
		if addr, err := netip.ParseAddr(data); err == nil {
			return addr.Unmap().String()
		}
	}

	return data
}

// sameTarget compares normalized targets. Data without a domain name target also matches on a
// prefix in either direction, so overlapping values such as two TXT strings where one starts
// with the other may pair up in declaration order.
func sameTarget(typ, canonical, raw string) bool {
	if canonical == "" || raw == "" {
		return false
	}

	if canonical == raw {
		return true
	}

	if zone.RecordType(typ).HasTarget() {
		return false
	}

	return strings.HasPrefix(canonical, raw) || strings.HasPrefix(raw, canonical)
}
