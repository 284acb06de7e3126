package powerdns

import (
	"errors"
)

var (
	// ErrClientNotInitialized is returned when the PowerDNS client is not initialized.
	ErrClientNotInitialized = errors.New("PowerDNS client not initialized")
	// ErrEmptyURL is returned when no API server URL is configured.
	ErrEmptyURL = errors.New("PowerDNS API server URL is empty")
)
