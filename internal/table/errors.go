package table

import "github.com/cockroachdb/errors"

// Sentinel error kinds for this package. These allow errors.Is from callers.
var (
	ErrNotFound  = errors.New("input file not found")
	ErrEncoding  = errors.New("could not determine encoding")
	ErrHeader    = errors.New("invalid header")
	ErrMalformed = errors.New("malformed delimited file")
	ErrWrite     = errors.New("writing output failed")
)
