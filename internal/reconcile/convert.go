package reconcile

import (
	"strconv"
	"strings"

	"github.com/miekg/dns"
	"github.com/pkg/errors"

	"github.com/GoPowerDNS-Admin/zone-importer/internal/oracle"
	"github.com/GoPowerDNS-Admin/zone-importer/internal/zone"
	"github.com/GoPowerDNS-Admin/zone-importer/internal/zonetext"
)

// rrTarget returns the domain name target of rr, if its type has one.
func rrTarget(rr dns.RR) (string, bool) {
	switch v := rr.(type) {
	case *dns.CNAME:
		return v.Target, true
	case *dns.NS:
		return v.Ns, true
	case *dns.PTR:
		return v.Ptr, true
	case *dns.MX:
		return v.Mx, true
	case *dns.SRV:
		return v.Target, true
	}

	return "", false
}

func hasAtToken(raw *zonetext.RawRecord) bool {
	if raw == nil {
		return false
	}

	for _, tok := range raw.Tokens {
		if tok == zone.AtMarker {
			return true
		}
	}

	return false
}

// fill sets the type, the typed fields and the value of rec from rr. Targets are stored relative
// to origin unless the matched raw line wrote them with "@", which is kept verbatim.
func fill(rec *zone.Record, rr dns.RR, origin string, raw *zonetext.RawRecord) error {
	rec.Type = zone.RecordType(dns.TypeToString[rr.Header().Rrtype])

	target := ""
	if t, ok := rrTarget(rr); ok {
		target = zone.Relativize(t, origin)
	}

	verbatim := hasAtToken(raw)
	if verbatim && target != "" {
		target = zone.AtMarker
	}

	switch v := rr.(type) {
	case *dns.A:
		rec.AddressIPv4 = v.A.String()
		rec.Value = rec.AddressIPv4
	case *dns.AAAA:
		rec.AddressIPv6 = v.AAAA.String()
		rec.Value = rec.AddressIPv6
	case *dns.CNAME, *dns.NS, *dns.PTR:
		rec.Target = target
		rec.Value = target
	case *dns.MX:
		pref := v.Preference
		rec.Priority = &pref
		rec.Target = target
		rec.Value = strconv.Itoa(int(pref)) + " " + target
	case *dns.SRV:
		prio, weight, port := v.Priority, v.Weight, v.Port
		rec.Priority, rec.Weight, rec.Port = &prio, &weight, &port
		rec.Target = target
		rec.Value = strings.Join([]string{
			strconv.Itoa(int(prio)), strconv.Itoa(int(weight)), strconv.Itoa(int(port)), target,
		}, " ")
	case *dns.TXT:
		rec.TXT = strings.Join(v.Txt, " ")
		rec.Value = oracle.Rdata(rr)
	case *dns.CAA:
		flag := v.Flag
		rec.CAAFlag = &flag
		rec.CAATag = v.Tag
		rec.CAAValue = v.Value
		rec.Value = oracle.Rdata(rr)
	case *dns.SOA:
		return errors.Wrap(ErrConversion, "SOA is not a record")
	default:
		rec.Value = oracle.Rdata(rr)
	}

	if verbatim {
		rec.Value = raw.Rdata
	}

	if err := rec.Validate(); err != nil {
		return errors.Wrap(ErrConversion, err.Error())
	}

	return nil
}
