package logger

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
)

var (
	// ErrAppNameIsEmpty is returned when log.appName is missing from the config.
	ErrAppNameIsEmpty = errors.New("toml config log.appName can not be empty")

	// ErrServiceNameIsEmpty is returned when log.serviceName is missing from the config.
	ErrServiceNameIsEmpty = errors.New("toml config log.serviceName can not be empty")

	// ErrLogDir is returned when the directory of the rolling log files can not be created.
	ErrLogDir = errors.New("can't create log directory")
)

// ErrorHandler reports events zerolog failed to write. Stderr is the only place left to say so.
func ErrorHandler(err error) {
	_, _ = fmt.Fprintf(os.Stderr, "zone-importer: dropped log event: %v\n", err)
}
