package zone

import "strings"

// FileKind tells whether a descriptor was created for a master zone file or an included file.
type FileKind string

const (
	// KindMaster is a zone file imported directly from the import directory.
	KindMaster FileKind = "master"

	// KindInclude is a file reached through a $INCLUDE directive.
	KindInclude FileKind = "include"
)

// Default SOA timers used when a master zone has no SOA record.
const (
	DefaultSOARefresh uint32 = 10800
	DefaultSOARetry   uint32 = 900
	DefaultSOAExpire  uint32 = 604800
	DefaultSOAMinimum uint32 = 3600
)

// SOA holds the start of authority fields of a master zone.
type SOA struct {
	MName   string
	RName   string
	Serial  uint32
	Refresh uint32
	Retry   uint32
	Expire  uint32
	Minimum uint32
}

// DefaultSOA returns an SOA with the default timers and empty names.
func DefaultSOA() SOA {
	return SOA{
		Refresh: DefaultSOARefresh,
		Retry:   DefaultSOARetry,
		Expire:  DefaultSOAExpire,
		Minimum: DefaultSOAMinimum,
	}
}

// Descriptor describes one master or include file.
type Descriptor struct {
	ID          int64
	Name        string
	Filename    string
	Path        string // absolute path of the source file
	Directory   string // directory relative to the import root, "" for the root itself
	Origin      string
	Kind        FileKind
	DefaultTTL  uint32
	SOA         *SOA   // master only
	KSKInclude  string // master only, resolved path of the *.ksk.key include
	ZSKInclude  string // master only, resolved path of the *.zsk.key include
	Content     string
	ContentHash string
}

// Domain returns the origin without its trailing dot.
func (d *Descriptor) Domain() string {
	return strings.TrimSuffix(d.Origin, ".")
}

// IsMaster reports whether the descriptor belongs to a master zone file.
func (d *Descriptor) IsMaster() bool {
	return d.Kind == KindMaster
}

// IncludeEdge links a parent descriptor to a child reached through $INCLUDE.
// Position is the 1-based ordinal of the directive inside the parent file.
type IncludeEdge struct {
	ParentID int64
	ChildID  int64
	Position int
}
