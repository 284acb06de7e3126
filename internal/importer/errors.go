package importer

import "errors"

var (
	// ErrDepthExceeded aborts an include branch nested deeper than the configured maximum.
	ErrDepthExceeded = errors.New("maximum include depth exceeded")
	// ErrCycle aborts an include branch that includes a file already on the current include path.
	ErrCycle = errors.New("include cycle detected")
	// ErrReadFile is returned when a zone or include file cannot be read.
	ErrReadFile = errors.New("zone file could not be read")
	// ErrCreateZone is returned when the sink rejects a zone.
	ErrCreateZone = errors.New("sink rejected zone")
	// ErrNoZoneFiles is returned when the import directory holds no zone file.
	ErrNoZoneFiles = errors.New("no zone files found")
	// ErrNotADirectory is returned when the import directory is missing or a file.
	ErrNotADirectory = errors.New("import directory not found")
)
