package zone

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// RecordType is the textual resource record type, e.g. "A" or "MX".
type RecordType string

// Record types with typed storage fields. Any other type is passed through with Value only.
const (
	TypeA     RecordType = "A"
	TypeAAAA  RecordType = "AAAA"
	TypeCNAME RecordType = "CNAME"
	TypeMX    RecordType = "MX"
	TypeNS    RecordType = "NS"
	TypePTR   RecordType = "PTR"
	TypeTXT   RecordType = "TXT"
	TypeSRV   RecordType = "SRV"
	TypeCAA   RecordType = "CAA"
	TypeSOA   RecordType = "SOA"
)

// ErrInvalidRecord is returned by Record.Validate.
var ErrInvalidRecord = errors.New("invalid record")

var validate = validator.New()

// Typed reports whether t has dedicated storage fields.
func (t RecordType) Typed() bool {
	switch t {
	case TypeA, TypeAAAA, TypeCNAME, TypeMX, TypeNS, TypePTR, TypeTXT, TypeSRV, TypeCAA:
		return true
	}

	return false
}

// HasTarget reports whether the record data carries a domain name target.
func (t RecordType) HasTarget() bool {
	switch t {
	case TypeCNAME, TypeMX, TypeNS, TypePTR, TypeSRV:
		return true
	}

	return false
}

// Record is one resource record owned by a zone descriptor.
type Record struct {
	Owner string
	Type  RecordType
	TTL   *uint32 // nil: inherit the owning zone's default TTL
	Value string  // human readable record data, always set

	AddressIPv4 string
	AddressIPv6 string
	Target      string // CNAME, NS, PTR, MX and SRV target
	Priority    *uint16
	Weight      *uint16
	Port        *uint16
	TXT         string
	CAAFlag     *uint8
	CAATag      string
	CAAValue    string

	Line int // source line, 0 if unknown
}

// TTLOr returns the explicit TTL or def when the record inherits.
func (r *Record) TTLOr(def uint32) uint32 {
	if r.TTL == nil {
		return def
	}

	return *r.TTL
}

// Validate performs the minimal shape checks applied before a record is stored.
func (r *Record) Validate() error {
	if r.Owner == "" {
		return errors.Wrap(ErrInvalidRecord, "empty owner")
	}

	if r.Value == "" {
		return errors.Wrapf(ErrInvalidRecord, "%s %s: empty value", r.Owner, r.Type)
	}

	var err error

	switch r.Type {
	case TypeA:
		err = validate.Var(r.AddressIPv4, "required,ipv4")
	case TypeAAAA:
		err = validate.Var(r.AddressIPv6, "required,ipv6")
	case TypeCNAME, TypeNS, TypePTR:
		err = validate.Var(r.Target, "required")
	case TypeMX:
		if err = validate.Var(r.Target, "required"); err == nil && r.Priority == nil {
			return errors.Wrapf(ErrInvalidRecord, "%s MX: missing preference", r.Owner)
		}
	case TypeSRV:
		if err = validate.Var(r.Target, "required"); err == nil && (r.Priority == nil || r.Weight == nil || r.Port == nil) {
			return errors.Wrapf(ErrInvalidRecord, "%s SRV: missing priority, weight or port", r.Owner)
		}
	case TypeCAA:
		err = validate.Var(r.CAATag, "required,alphanum")
	case TypeSOA:
		return errors.Wrap(ErrInvalidRecord, "SOA is stored on the zone descriptor")
	}

	if err != nil {
		return errors.Wrapf(ErrInvalidRecord, "%s %s: %v", r.Owner, r.Type, err)
	}

	return nil
}

// AbsoluteOwner expands the stored owner notation against origin.
func (r *Record) AbsoluteOwner(origin string) string {
	return Absolute(r.Owner, origin)
}

// AbsoluteContent renders the record data with every domain name fully qualified against origin.
// Backends that do not understand relative notation use it.
func (r *Record) AbsoluteContent(origin string) string {
	target := Absolute(r.Target, origin)

	switch r.Type {
	case TypeCNAME, TypeNS, TypePTR:
		return target
	case TypeMX:
		return strconv.Itoa(int(deref16(r.Priority))) + " " + target
	case TypeSRV:
		return strings.Join([]string{
			strconv.Itoa(int(deref16(r.Priority))),
			strconv.Itoa(int(deref16(r.Weight))),
			strconv.Itoa(int(deref16(r.Port))),
			target,
		}, " ")
	}

	return r.Value
}

func deref16(v *uint16) uint16 {
	if v == nil {
		return 0
	}

	return *v
}
