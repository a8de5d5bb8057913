package registry

import (
	"github.com/cockroachdb/errors"

	"github.com/courtdata/matchprep/internal/match"
)

// Id column names of the cleaned match table.
const (
	ColPlayerID1  = "player_id_1"
	ColPlayerID2  = "player_id_2"
	ColPartnerID1 = "partner_id_1"
	ColPartnerID2 = "partner_id_2"
)

// Rewrite replaces the raw name columns of every match with player ids.
// The id columns come first; the remaining source columns follow in their
// original order, minus the name, handedness and partner columns. Names
// are normalized again here, so every id must resolve or the rewrite fails.
func (r *Registry) Rewrite(schema *match.Schema, matches []match.Match) ([]string, [][]string, error) {
	drop := schema.Replaced()
	partners := schema.HasPartners()

	columns := []string{ColPlayerID1, ColPlayerID2}
	if partners {
		columns = append(columns, ColPartnerID1, ColPartnerID2)
	}
	kept := make([]int, 0, len(schema.Header))
	for i, name := range schema.Header {
		if drop[i] {
			continue
		}
		kept = append(kept, i)
		columns = append(columns, name)
	}

	resolve := func(m *match.Match, raw string) (string, error) {
		id, ok := r.Lookup(raw)
		if !ok {
			return "", errors.Wrapf(ErrUnresolved, "line %d (%s): %q", m.Line, m.ID, raw)
		}
		return id, nil
	}

	rows := make([][]string, 0, len(matches))
	for i := range matches {
		m := &matches[i]
		row := make([]string, 0, len(columns))
		for _, side := range m.Sides {
			id, err := resolve(m, side.Name)
			if err != nil {
				return nil, nil, err
			}
			row = append(row, id)
		}
		if partners {
			for _, side := range m.Sides {
				if side.Partner == "" {
					row = append(row, "")
					continue
				}
				id, err := resolve(m, side.Partner)
				if err != nil {
					return nil, nil, err
				}
				row = append(row, id)
			}
		}
		for _, idx := range kept {
			v := ""
			if idx < len(m.Fields) {
				v = m.Fields[idx]
			}
			row = append(row, v)
		}
		rows = append(rows, row)
	}
	return columns, rows, nil
}
