package survey

import (
	"context"

	"github.com/courtdata/matchprep/internal/logger"
	"github.com/courtdata/matchprep/internal/match"
	"github.com/courtdata/matchprep/internal/names"
	"github.com/courtdata/matchprep/internal/table"
)

// NameReport tallies player name shapes across delimited files.
type NameReport struct {
	Root    string                   `json:"root"`
	Files   int                      `json:"files"`
	Skipped []string                 `json:"skipped,omitempty"`
	Empty   int                      `json:"empty"`
	Counts  map[names.Shape]int      `json:"counts"`
	Samples map[names.Shape][]string `json:"samples"`
}

// Names reads the player and partner columns of every delimited file under
// root and classifies each distinct name. Files without any of the
// columns, or that fail to load, are listed in Skipped.
func Names(ctx context.Context, root string, cols match.Columns, exts []string, samples int, log *logger.Logger) (*NameReport, error) {
	paths, err := find(ctx, root, exts)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Default()
	}

	c := names.NewCollector()
	rep := &NameReport{Root: root}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tbl, err := table.Load(path)
		if err != nil {
			log.Debug("Skipping file", logger.Fields{"path": path, "error": err.Error()})
			rep.Skipped = append(rep.Skipped, path)
			continue
		}

		var idx []int
		for _, name := range []string{cols.Player1, cols.Player2, cols.Partner1, cols.Partner2} {
			if i := tbl.Index(name); i >= 0 && name != "" {
				idx = append(idx, i)
			}
		}
		if len(idx) == 0 {
			rep.Skipped = append(rep.Skipped, path)
			continue
		}

		rep.Files++
		for _, row := range tbl.Rows {
			for _, i := range idx {
				if i < len(row) {
					c.Add(row[i])
				}
			}
		}
	}

	rep.Empty = c.Empty
	rep.Counts = make(map[names.Shape]int, 3)
	rep.Samples = make(map[names.Shape][]string, 3)
	for _, shape := range []names.Shape{names.ShapeFull, names.ShapePartial, names.ShapeSingle} {
		rep.Counts[shape] = c.Count(shape)
		rep.Samples[shape] = c.Samples(shape, samples)
	}
	return rep, nil
}
