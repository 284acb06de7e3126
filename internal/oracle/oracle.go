// Package oracle turns zone text into a canonical, normalized zone using the miekg/dns zone parser.
//
// The result mirrors a relativizing parse: owner names are relative to the origin, every record
// has a resolved TTL and records whose owner lies outside the origin are dropped. The parser is
// the trusted interpretation of the record data; the raw-text facts collected by zonetext are
// reconciled against it afterwards.
package oracle

import (
	"strings"

	"github.com/miekg/dns"
	"github.com/pkg/errors"

	"github.com/GoPowerDNS-Admin/zone-importer/internal/zone"
)

var (
	// ErrParse is returned when the zone text cannot be parsed.
	ErrParse = errors.New("zone text could not be parsed")

	// ErrNoOrigin is returned when Parse is called without an origin.
	ErrNoOrigin = errors.New("origin is required")
)

// Record is one canonical resource record.
type Record struct {
	Name string // relative to the origin, "@" for the apex
	FQDN string // fully qualified owner with trailing dot
	Type string
	TTL  uint32
	RR   dns.RR
}

// Rdata returns the presentation format of the record data.
func (r Record) Rdata() string {
	return Rdata(r.RR)
}

// Zone is the canonical view of one zone file.
type Zone struct {
	Origin  string
	SOA     *dns.SOA
	Records []Record // in file order, SOA excluded
	Dropped int      // records outside the origin
}

// Get returns the records with the given relative name and type, like a getRdataset lookup.
func (z *Zone) Get(name, typ string) []Record {
	var out []Record

	for _, r := range z.Records {
		if strings.EqualFold(r.Name, name) && r.Type == typ {
			out = append(out, r)
		}
	}

	return out
}

// Rdata returns the presentation format of rr without its header.
func Rdata(rr dns.RR) string {
	return strings.TrimSpace(strings.TrimPrefix(rr.String(), rr.Header().String()))
}

// Parse parses text under origin. $INCLUDE directives are refused by the parser; callers strip
// them first.
func Parse(text, origin string) (*Zone, error) {
	if origin == "" {
		return nil, ErrNoOrigin
	}

	origin = dns.Fqdn(origin)

	z := &Zone{Origin: origin}

	zp := dns.NewZoneParser(strings.NewReader(text), origin, "")
	zp.SetIncludeAllowed(false)

	for rr, ok := zp.Next(); ok; rr, ok = zp.Next() {
		h := rr.Header()

		if soa, isSOA := rr.(*dns.SOA); isSOA {
			if z.SOA == nil && strings.EqualFold(h.Name, origin) {
				z.SOA = soa
			}

			continue
		}

		if !dns.IsSubDomain(origin, h.Name) {
			z.Dropped++
			continue
		}

		z.Records = append(z.Records, Record{
			Name: zone.Relativize(h.Name, origin),
			FQDN: h.Name,
			Type: dns.TypeToString[h.Rrtype],
			TTL:  h.Ttl,
			RR:   rr,
		})
	}

	if err := zp.Err(); err != nil {
		return nil, errors.Wrap(ErrParse, err.Error())
	}

	return z, nil
}
