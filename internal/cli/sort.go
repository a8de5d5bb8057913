package cli

import (
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/courtdata/matchprep/internal/survey"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByPath    SortOrder = "path"
	SortBySize    SortOrder = "size"
	SortByRows    SortOrder = "rows"
	SortByMissing SortOrder = "missing"
)

func parseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case SortByPath, SortBySize, SortByRows, SortByMissing:
		return o, nil
	case "":
		return SortByPath, nil
	}
	return "", errors.Mark(errors.Newf("invalid sort order: %s (must be path, size, rows or missing)", s), ErrUsage)
}

// sortFiles sorts surveyed files. Size, rows and missing sort largest
// first; ties fall back to path.
func sortFiles(files []*survey.FileStat, order SortOrder) {
	sort.SliceStable(files, func(i, j int) bool {
		a, b := files[i], files[j]
		switch order {
		case SortBySize:
			if a.Size != b.Size {
				return a.Size > b.Size
			}
		case SortByRows:
			if a.Rows != b.Rows {
				return a.Rows > b.Rows
			}
		case SortByMissing:
			if a.Missing != b.Missing {
				return a.Missing > b.Missing
			}
		}
		return a.Path < b.Path
	})
}
