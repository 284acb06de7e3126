package runner

import "github.com/pkg/errors"

var (
	// ErrConfigNil is returned by New without a configuration.
	ErrConfigNil = errors.New("config is nil")

	// ErrUnknownSink is returned for a sink kind New does not know.
	ErrUnknownSink = errors.New("unknown sink")

	// ErrNotConnected is returned by Check when no sink connection was opened.
	ErrNotConnected = errors.New("no sink connection")

	// ErrRunFailed is returned by Run when errors were counted.
	ErrRunFailed = errors.New("import finished with errors")
)
