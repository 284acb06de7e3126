package sink

import "github.com/pkg/errors"

var (
	// ErrUnknownZone is returned for a zone id the sink never handed out.
	ErrUnknownZone = errors.New("unknown zone id")

	// ErrRecordSkipped is returned when a sink cannot hold a record and left it out on purpose.
	ErrRecordSkipped = errors.New("record skipped by sink")

	// ErrSinkNil is returned when a wrapper is built around a nil sink.
	ErrSinkNil = errors.New("sink is nil")
)
