// Package survey inspects a directory of raw source files.
//
// Walk sniffs each file's type with mimetype and reports its shape: rows,
// columns and missing cells for delimited text, JSON record arrays and the
// first sheet of .xlsx workbooks (via excelize), the kind alone for legacy
// .xls files and anything else. JSON record arrays can be
// exported to CSV. Names classifies the player names found across all
// delimited files as full, partial (initial plus surname) or single.
package survey
