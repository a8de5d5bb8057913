// Package table loads and writes delimited tabular files.
//
// Load detects the text encoding (utf-8, then windows-1252, then iso-8859-1),
// sniffs the delimiter, normalizes header names to snake_case and rejects
// malformed rows instead of skipping them. Measure counts rows of large files
// without loading them. WriteFiles commits a set of output CSV files together
// so a failed run never leaves a partial dataset behind.
package table
