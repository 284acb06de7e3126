package reconcile

import (
	"strconv"
	"strings"

	"github.com/miekg/dns"
	"github.com/pkg/errors"

	"github.com/GoPowerDNS-Admin/zone-importer/internal/zone"
	"github.com/GoPowerDNS-Admin/zone-importer/internal/zonetext"
)

// recoverable are the record types RecoverOutOfOrigin emits.
var recoverable = map[zone.RecordType]bool{
	zone.TypeA: true, zone.TypeAAAA: true, zone.TypeCNAME: true, zone.TypeMX: true, zone.TypeNS: true,
	zone.TypePTR: true, zone.TypeTXT: true, zone.TypeSRV: true, zone.TypeCAA: true,
}

// Skipped is an out-of-origin line that was not recovered.
type Skipped struct {
	Line  int
	Owner string
	Type  string
	Err   error
}

// Error implements error.
func (s Skipped) Error() string {
	return "line " + strconv.Itoa(s.Line) + ": " + s.Owner + " " + s.Type + ": " + s.Err.Error()
}

// Unwrap returns the reason the line was skipped.
func (s Skipped) Unwrap() error {
	return s.Err
}

// RecoverOutOfOrigin emits the record lines of f whose owner is not at or below origin. The
// canonical parser drops those lines. Owners are stored fully qualified; the TTL is set only when
// the line carried one. Lines of an unsupported type or with malformed data are returned as
// Skipped.
func RecoverOutOfOrigin(f *zonetext.Facts, origin string) ([]zone.Record, []Skipped) {
	var (
		out     []zone.Record
		skipped []Skipped
	)

	for i := range f.Raw {
		raw := &f.Raw[i]

		if zone.InOrigin(raw.Owner, origin) {
			continue
		}

		rec, err := recoverLine(raw, origin)
		if err != nil {
			skipped = append(skipped, Skipped{Line: raw.Line, Owner: raw.Owner + ".", Type: raw.Type, Err: err})
			continue
		}

		out = append(out, rec)
	}

	return out, skipped
}

func recoverLine(raw *zonetext.RawRecord, origin string) (zone.Record, error) {
	rec := zone.Record{Owner: raw.Owner + ".", Line: raw.Line}

	if !recoverable[zone.RecordType(raw.Type)] {
		return rec, ErrUnsupportedType
	}

	var ttl uint32

	if raw.HasTTL {
		v, err := zonetext.ParseTTL(raw.TTL)
		if err != nil {
			return rec, errors.Wrap(ErrMalformed, err.Error())
		}

		ttl = v
		rec.TTL = &v
	}

	rr, err := parseLine(raw, ttl)
	if err != nil {
		return rec, err
	}

	if err := fill(&rec, rr, origin, raw); err != nil {
		return rec, errors.Wrap(ErrMalformed, err.Error())
	}

	return rec, nil
}

// parseLine parses the record data of raw on its own, under the origin in effect for the line.
func parseLine(raw *zonetext.RawRecord, ttl uint32) (dns.RR, error) {
	line := strings.Join([]string{
		raw.Owner + ".", strconv.FormatUint(uint64(ttl), 10), "IN", raw.Type, raw.Rdata,
	}, " ")

	origin := raw.Origin
	if origin == "" {
		origin = "."
	}

	zp := dns.NewZoneParser(strings.NewReader(line), origin, "")

	rr, ok := zp.Next()
	if err := zp.Err(); err != nil {
		return nil, errors.Wrap(ErrMalformed, err.Error())
	}

	if !ok || rr == nil {
		return nil, errors.Wrap(ErrMalformed, "no record data")
	}

	return rr, nil
}
