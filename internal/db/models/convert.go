package models

import (
	"github.com/GoPowerDNS-Admin/zone-importer/internal/zone"
)

func ptr[T any](v T) *T {
	return &v
}

func optString(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

// NewZoneFile maps a descriptor onto a zone_files row created by userID.
func NewZoneFile(d *zone.Descriptor, userID int64) ZoneFile {
	zf := ZoneFile{
		Name:             d.Name,
		Filename:         d.Filename,
		FileType:         string(d.Kind),
		Status:           StatusActive,
		CreatedBy:        userID,
		Domain:           d.Domain(),
		Content:          d.Content,
		Directory:        d.Directory,
		DefaultTTL:       d.DefaultTTL,
		DNSSECIncludeKSK: optString(d.KSKInclude),
		DNSSECIncludeZSK: optString(d.ZSKInclude),
	}

	if d.SOA != nil {
		zf.SOARefresh = ptr(d.SOA.Refresh)
		zf.SOARetry = ptr(d.SOA.Retry)
		zf.SOAExpire = ptr(d.SOA.Expire)
		zf.SOAMinimum = ptr(d.SOA.Minimum)
		zf.SOARName = optString(d.SOA.RName)
		zf.MName = optString(d.SOA.MName)
		zf.SOASerial = ptr(d.SOA.Serial)
	}

	return zf
}

// NewDNSRecord maps a record onto a dns_records row. Only the typed columns of the record's
// type are set.
func NewDNSRecord(zoneID int64, rec *zone.Record, userID int64) DNSRecord {
	r := DNSRecord{
		ZoneFileID: zoneID,
		RecordType: string(rec.Type),
		Name:       rec.Owner,
		Value:      rec.Value,
		TTL:        rec.TTL,
		Status:     StatusActive,
		CreatedBy:  userID,
	}

	switch rec.Type {
	case zone.TypeA:
		r.AddressIPv4 = optString(rec.AddressIPv4)
	case zone.TypeAAAA:
		r.AddressIPv6 = optString(rec.AddressIPv6)
	case zone.TypeCNAME:
		r.CNAMETarget = optString(rec.Target)
	case zone.TypeMX:
		r.MXTarget = optString(rec.Target)
		r.Priority = rec.Priority
	case zone.TypeNS:
		r.NSTarget = optString(rec.Target)
	case zone.TypePTR:
		r.PTRDName = optString(rec.Target)
	case zone.TypeTXT:
		r.TXT = ptr(rec.TXT)
	case zone.TypeSRV:
		r.SRVTarget = optString(rec.Target)
		r.Priority = rec.Priority
		r.Weight = rec.Weight
		r.Port = rec.Port
	case zone.TypeCAA:
		r.CAAFlag = rec.CAAFlag
		r.CAATag = optString(rec.CAATag)
		r.CAAValue = optString(rec.CAAValue)
	}

	return r
}
