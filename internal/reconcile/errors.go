package reconcile

import "github.com/pkg/errors"

var (
	// ErrConversion is returned for a canonical record that could not be turned into a stored record.
	ErrConversion = errors.New("record conversion failed")

	// ErrUnsupportedType is reported for out-of-origin lines of a type that is not recovered.
	ErrUnsupportedType = errors.New("unsupported record type")

	// ErrMalformed is reported for out-of-origin lines whose record data does not parse.
	ErrMalformed = errors.New("malformed record data")
)
