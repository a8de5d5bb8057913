package pipeline

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/courtdata/matchprep/internal/logger"
	"github.com/courtdata/matchprep/internal/match"
	"github.com/courtdata/matchprep/internal/table"
)

// maxDuplicateLines caps how many duplicate line pairs an error lists.
const maxDuplicateLines = 5

// accept runs every row through the validity predicate. Rejections are
// logged and collected into res; identical data rows abort the run.
func (p *Pipeline) accept(tbl *table.Table, schema *match.Schema, res *Result) ([]match.Match, error) {
	v, err := match.NewValidator(p.cfg.Surfaces)
	if err != nil {
		return nil, err
	}

	if err := checkDuplicates(tbl); err != nil {
		return nil, errors.Mark(err, ErrDataQuality)
	}

	matches := make([]match.Match, 0, len(tbl.Rows))
	seenIDs := make(map[string]int)
	for i, record := range tbl.Rows {
		// Line 1 is the header.
		m, err := v.Validate(schema.Raw(i+2, record))
		if err != nil {
			var rej *match.Rejection
			if !errors.As(err, &rej) {
				return nil, errors.Mark(err, ErrDataQuality)
			}
			res.Rejections = append(res.Rejections, rej)
			p.rec.RowRejected(reasonField(rej))
			p.log.Warn("Rejected row", logger.Fields{
				"line":     rej.Line,
				"match_id": rej.MatchID,
				"reasons":  strings.Join(rej.Reasons, "; "),
			})
			continue
		}

		if m.RawDate != "" && m.Date.IsZero() {
			p.log.Debug("Unparsable date, leaving empty", logger.Fields{
				"line":     m.Line,
				"match_id": m.ID,
				"date":     m.RawDate,
			})
		}
		if first, ok := seenIDs[m.ID]; ok {
			if first > 0 {
				res.RepeatedIDs = append(res.RepeatedIDs, m.ID)
				p.log.Warn("Repeated match id", logger.Fields{
					"match_id":   m.ID,
					"first_line": first,
					"line":       m.Line,
				})
				seenIDs[m.ID] = -1
			}
		} else {
			seenIDs[m.ID] = m.Line
		}
		matches = append(matches, m)
	}

	p.log.Info("Validated rows", logger.Fields{
		"accepted": len(matches),
		"rejected": len(res.Rejections),
	})
	return matches, nil
}

// reasonField returns the field name of the first rejection reason.
func reasonField(rej *match.Rejection) string {
	if len(rej.Reasons) == 0 {
		return "unknown"
	}
	field, _, _ := strings.Cut(rej.Reasons[0], " ")
	return field
}

func checkDuplicates(tbl *table.Table) error {
	first := make(map[string]int, len(tbl.Rows))
	var pairs []string
	count := 0
	for i, record := range tbl.Rows {
		key := strings.Join(record, "\x1f")
		line := i + 2
		if prev, ok := first[key]; ok {
			count++
			if len(pairs) < maxDuplicateLines {
				pairs = append(pairs, lineRef(prev, line))
			}
			continue
		}
		first[key] = line
	}
	if count == 0 {
		return nil
	}
	return errors.Wrapf(ErrDuplicateRows, "%s: %d duplicated (lines %s)", tbl.Source, count, strings.Join(pairs, ", "))
}

func lineRef(a, b int) string {
	return fmt.Sprintf("%d=%d", a, b)
}
