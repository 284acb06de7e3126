package api

import "errors"

var (
	// ErrStatus is returned when the API answers with an unexpected HTTP status.
	ErrStatus = errors.New("unexpected API status")

	// ErrNoZoneID is returned when a create_zone response carries no usable id.
	ErrNoZoneID = errors.New("API response carries no zone id")
)
