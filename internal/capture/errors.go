package capture

import "github.com/cockroachdb/errors"

var (
	// ErrBadURL is returned for URLs without a scheme and host.
	ErrBadURL = errors.New("invalid capture url")

	// ErrHAR is returned when a HAR file cannot be read or decoded.
	ErrHAR = errors.New("invalid har file")
)
