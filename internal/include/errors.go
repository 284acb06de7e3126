package include

import (
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrSecurityDenied is the root of every include policy violation.
	ErrSecurityDenied = errors.New("include denied by security policy")

	// ErrAbsoluteIncludeDenied is returned for an absolute include path when absolute includes are not allowed.
	ErrAbsoluteIncludeDenied = errors.Wrap(ErrSecurityDenied, "absolute include paths are not allowed")

	// ErrOutsideImportRoot is returned when an absolute include path leaves the import root.
	ErrOutsideImportRoot = errors.Wrap(ErrSecurityDenied, "include path is outside the import root")

	// ErrNotFound is matched by NotFoundError.
	ErrNotFound = errors.New("include file not found")

	// ErrEmptyToken is returned for an $INCLUDE directive without a file name.
	ErrEmptyToken = errors.New("empty include path")
)

// NotFoundError lists every location tried for an include token.
type NotFoundError struct {
	Token     string
	Attempted []string
}

// Error implements error.
func (e *NotFoundError) Error() string {
	return "include file " + e.Token + " not found; tried: " + strings.Join(e.Attempted, ", ")
}

// Is reports ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
