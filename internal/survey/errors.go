package survey

import "github.com/cockroachdb/errors"

var (
	// ErrNotFound is returned when the survey root is missing or not a
	// directory.
	ErrNotFound = errors.New("survey directory not found")

	// ErrNotRecords is returned for JSON that is not an array of objects.
	ErrNotRecords = errors.New("json is not an array of objects")
)
