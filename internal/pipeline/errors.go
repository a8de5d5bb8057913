package pipeline

import "github.com/cockroachdb/errors"

// Error kinds. Every error returned by Run carries exactly one of these
// marks next to the package error that caused it.
var (
	// ErrInputStructure covers missing files, undecodable encodings,
	// malformed tables and missing required columns.
	ErrInputStructure = errors.New("input structure error")

	// ErrDataQuality covers defects the row predicate cannot absorb, such
	// as duplicated data rows.
	ErrDataQuality = errors.New("data quality error")

	// ErrIdentity covers names that do not normalize, id collisions and
	// unresolved rewrites.
	ErrIdentity = errors.New("identity resolution error")

	// ErrOutput covers failures writing the cleaned dataset.
	ErrOutput = errors.New("output error")
)

var (
	// ErrNoInput is returned when the configuration names no input file.
	ErrNoInput = errors.New("no input file configured")

	// ErrDuplicateRows is returned when the input repeats a data row verbatim.
	ErrDuplicateRows = errors.New("duplicate data rows")
)
