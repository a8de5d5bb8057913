package match

import (
	"github.com/cockroachdb/errors"
)

// Columns names the source columns (after header normalization) that carry
// each match attribute. Optional columns may be absent from a given file.
type Columns struct {
	MatchID  string `koanf:"match_id" validate:"required"`
	Player1  string `koanf:"player_1" validate:"required"`
	Player2  string `koanf:"player_2" validate:"required"`
	Hand1    string `koanf:"hand_1"`
	Hand2    string `koanf:"hand_2"`
	Nation1  string `koanf:"nation_1"`
	Nation2  string `koanf:"nation_2"`
	Partner1 string `koanf:"partner_1"`
	Partner2 string `koanf:"partner_2"`
	Date     string `koanf:"date"`
	Surface  string `koanf:"surface"`
	Umpire   string `koanf:"umpire"`
}

// DefaultColumns matches the point-by-point charting exports
// ("match_id", "Player 1", "Pl 1 hand", "Date", "Surface", "Umpire") and the
// slam draw exports ("nation1", "partner1").
func DefaultColumns() Columns {
	return Columns{
		MatchID:  "match_id",
		Player1:  "player_1",
		Player2:  "player_2",
		Hand1:    "pl_1_hand",
		Hand2:    "pl_2_hand",
		Nation1:  "nation1",
		Nation2:  "nation2",
		Partner1: "partner1",
		Partner2: "partner2",
		Date:     "date",
		Surface:  "surface",
		Umpire:   "umpire",
	}
}

type sideIndex struct {
	name, hand, nation, partner int
}

// Schema binds Columns to the positions of one table header.
type Schema struct {
	Header  []string
	cols    Columns
	matchID int
	date    int
	surface int
	umpire  int
	sides   [2]sideIndex
}

// NewSchema resolves column positions. The match id and both player name
// columns are required; everything else is optional.
func NewSchema(header []string, cols Columns) (*Schema, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[h] = i
	}
	find := func(name string) int {
		if name == "" {
			return -1
		}
		if i, ok := pos[name]; ok {
			return i
		}
		return -1
	}

	s := &Schema{
		Header:  header,
		cols:    cols,
		matchID: find(cols.MatchID),
		date:    find(cols.Date),
		surface: find(cols.Surface),
		umpire:  find(cols.Umpire),
		sides: [2]sideIndex{
			{find(cols.Player1), find(cols.Hand1), find(cols.Nation1), find(cols.Partner1)},
			{find(cols.Player2), find(cols.Hand2), find(cols.Nation2), find(cols.Partner2)},
		},
	}

	var missing []string
	if s.matchID < 0 {
		missing = append(missing, cols.MatchID)
	}
	if s.sides[0].name < 0 {
		missing = append(missing, cols.Player1)
	}
	if s.sides[1].name < 0 {
		missing = append(missing, cols.Player2)
	}
	if len(missing) > 0 {
		return nil, errors.Wrapf(ErrMissingColumn, "%v (have %v)", missing, header)
	}
	return s, nil
}

// Columns returns the column names the schema was built from.
func (s *Schema) Columns() Columns { return s.cols }

// HasDate, HasSurface, HasUmpire and HasPartners report optional columns.
func (s *Schema) HasDate() bool    { return s.date >= 0 }
func (s *Schema) HasSurface() bool { return s.surface >= 0 }
func (s *Schema) HasUmpire() bool  { return s.umpire >= 0 }
func (s *Schema) HasPartners() bool {
	return s.sides[0].partner >= 0 || s.sides[1].partner >= 0
}

// Replaced returns the header positions a cleaned match table drops: both
// player name columns, their handedness columns, and partner name columns.
func (s *Schema) Replaced() map[int]bool {
	out := make(map[int]bool, 6)
	for _, side := range s.sides {
		for _, i := range []int{side.name, side.hand, side.partner} {
			if i >= 0 {
				out[i] = true
			}
		}
	}
	return out
}

func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return record[i]
}

// Raw projects one record through the schema. line is the 1-based line of
// the record in its source file.
func (s *Schema) Raw(line int, record []string) RawRow {
	row := RawRow{
		Line:   line,
		ID:     cell(record, s.matchID),
		Date:   cell(record, s.date),
		Fields: record,
	}
	if s.HasSurface() {
		v := cell(record, s.surface)
		row.Surface = &v
	}
	if s.HasUmpire() {
		row.Umpire = cell(record, s.umpire)
	}
	for i, idx := range s.sides {
		row.Sides[i] = RawSide{
			Name:    cell(record, idx.name),
			Hand:    cell(record, idx.hand),
			Nation:  cell(record, idx.nation),
			Partner: cell(record, idx.partner),
		}
	}
	return row
}
