package match

import "github.com/cockroachdb/errors"

var (
	// ErrMissingColumn is returned when a required column is absent.
	ErrMissingColumn = errors.New("required column missing")

	// ErrRejected marks a row that is not a genuine match record.
	ErrRejected = errors.New("row rejected")
)
