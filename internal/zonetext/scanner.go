package zonetext

import (
	"strconv"
	"strings"

	"github.com/GoPowerDNS-Admin/zone-importer/internal/zone"
)

// Notation is how an owner was written in the source text.
type Notation int

const (
	// NotationRelative is a name relative to the current origin, e.g. "www".
	NotationRelative Notation = iota
	// NotationAt is the literal "@".
	NotationAt
	// NotationAbsolute is a fully-qualified name with a trailing dot.
	NotationAbsolute
)

// String implements fmt.Stringer.
func (n Notation) String() string {
	switch n {
	case NotationAt:
		return "at"
	case NotationAbsolute:
		return "absolute"
	default:
		return "relative"
	}
}

// Include is a $INCLUDE directive: the file token, the optional origin argument and the line.
type Include struct {
	Token  string
	Origin string
	Line   int
}

// RawRecord is one record line as written in the source.
type RawRecord struct {
	Owner    string // normalized owner: lower case, no trailing dot
	Notation Notation
	Type     string
	Rdata    string // verbatim record data
	Tokens   []string
	TTL      string // TTL token as written
	HasTTL   bool
	Origin   string // origin in effect for this line, with trailing dot
	Line     int
}

// FactKey identifies a record line by normalized owner, type and record data.
type FactKey struct {
	Owner string
	Type  string
	Rdata string
}

// OwnerType identifies an owner/type pair.
type OwnerType struct {
	Owner string
	Type  string
}

// Facts are the lexical facts collected from one file.
type Facts struct {
	Origin   string // first $ORIGIN, with trailing dot, empty if the file has none
	TTL      uint32 // $TTL value
	HasTTL   bool
	Includes []Include

	ExplicitTTL map[FactKey]struct{}
	FQDNOwners  map[string]struct{} // lower case, trailing dot
	AtOwners    map[OwnerType]string
	Raw         []RawRecord

	Warnings []string
}

// HasExplicitTTL reports whether the record line identified by owner, type and rdata carried a TTL.
func (f *Facts) HasExplicitTTL(owner, typ, rdata string) bool {
	_, ok := f.ExplicitTTL[FactKey{Owner: owner, Type: typ, Rdata: collapseSpace(rdata)}]

	return ok
}

// IsFQDNOwner reports whether the owner was written fully qualified somewhere in the file.
func (f *Facts) IsFQDNOwner(fqdn string) bool {
	_, ok := f.FQDNOwners[strings.ToLower(zone.NormalizeOrigin(fqdn))]

	return ok
}

// IsAtOwner reports whether a record of type typ was written with the "@" owner.
func (f *Facts) IsAtOwner(owner, typ string) bool {
	_, ok := f.AtOwners[OwnerType{Owner: owner, Type: typ}]

	return ok
}

// NormalizeOwner turns an owner token into its key form under origin.
func NormalizeOwner(tok, origin string) (string, Notation) {
	switch {
	case tok == zone.AtMarker:
		return zone.Bare(origin), NotationAt
	case zone.IsAbsolute(tok):
		return zone.Bare(tok), NotationAbsolute
	default:
		return zone.Bare(zone.Absolute(tok, origin)), NotationRelative
	}
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Scan collects the lexical facts of text. origin is the origin in effect before the first
// $ORIGIN directive.
func Scan(text, origin string) *Facts {
	f := &Facts{
		ExplicitTTL: make(map[FactKey]struct{}),
		FQDNOwners:  make(map[string]struct{}),
		AtOwners:    make(map[OwnerType]string),
	}

	var (
		current   = zone.NormalizeOrigin(origin)
		lastOwner string
		lastNote  Notation
		haveOwner bool
	)

	for _, ll := range logicalLines(text) {
		if strings.HasPrefix(ll.text, "$") {
			current = f.directive(ll, current)

			continue
		}

		shape, ok := Shape(ll.text)
		if !ok {
			continue
		}

		owner, note := lastOwner, lastNote

		switch {
		case !shape.Inherited:
			owner, note = NormalizeOwner(shape.Owner, current)
			lastOwner, lastNote, haveOwner = owner, note, true
		case !haveOwner:
			f.Warnings = append(f.Warnings, "line "+strconv.Itoa(ll.num)+": record without owner")

			continue
		}

		if note == NotationAbsolute {
			f.FQDNOwners[owner+"."] = struct{}{}
		}

		// SOA spans several lines and is read structurally from the canonical parser
		if shape.Type == string(zone.TypeSOA) {
			continue
		}

		if note == NotationAt {
			f.AtOwners[OwnerType{Owner: owner, Type: shape.Type}] = zone.AtMarker
		}

		if shape.HasTTL {
			f.ExplicitTTL[FactKey{Owner: owner, Type: shape.Type, Rdata: collapseSpace(shape.Rdata)}] = struct{}{}
		}

		f.Raw = append(f.Raw, RawRecord{
			Owner:    owner,
			Notation: note,
			Type:     shape.Type,
			Rdata:    shape.Rdata,
			Tokens:   shape.Tokens,
			TTL:      shape.TTL,
			HasTTL:   shape.HasTTL,
			Origin:   current,
			Line:     ll.num,
		})
	}

	return f
}

// directive handles a $-line and returns the origin in effect afterwards.
func (f *Facts) directive(ll logicalLine, current string) string {
	parts := strings.Fields(ll.text)

	switch strings.ToUpper(parts[0]) {
	case "$ORIGIN":
		if len(parts) < 2 { //nolint:mnd
			f.Warnings = append(f.Warnings, "line "+strconv.Itoa(ll.num)+": $ORIGIN without a name")
			return current
		}

		next := zone.Absolute(parts[1], current)
		if f.Origin == "" {
			f.Origin = next
		}

		return next

	case "$TTL":
		if len(parts) < 2 { //nolint:mnd
			f.Warnings = append(f.Warnings, "line "+strconv.Itoa(ll.num)+": $TTL without a value")
			return current
		}

		ttl, err := ParseTTL(parts[1])
		if err != nil {
			f.Warnings = append(f.Warnings, "line "+strconv.Itoa(ll.num)+": "+err.Error())
			return current
		}

		f.TTL, f.HasTTL = ttl, true

	case "$INCLUDE":
		if len(parts) < 2 { //nolint:mnd
			f.Warnings = append(f.Warnings, "line "+strconv.Itoa(ll.num)+": $INCLUDE without a file")
			return current
		}

		inc := Include{Token: strings.Trim(parts[1], `"`), Line: ll.num}
		if len(parts) > 2 { //nolint:mnd
			inc.Origin = zone.Absolute(parts[2], current)
		}

		f.Includes = append(f.Includes, inc)
	}

	return current
}
