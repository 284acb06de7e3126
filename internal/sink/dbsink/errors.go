package dbsink

import "errors"

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrMissingTable is returned when a required table does not exist.
	ErrMissingTable = errors.New("required table is missing")
	// ErrNoEdgeParentColumn is returned when zone_file_includes has neither parent_id nor master_id.
	ErrNoEdgeParentColumn = errors.New("zone_file_includes has no parent column")
)
