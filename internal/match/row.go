package match

import (
	"fmt"
	"strings"
	"time"
)

// Gender tokens carried in position 1 of a "-" separated match id.
const (
	GenderMen   = "M"
	GenderWomen = "W"
)

// RawSide is one player slot exactly as it appears in the source row.
type RawSide struct {
	Name    string
	Hand    string
	Nation  string
	Partner string
}

// RawRow is an unvalidated source record. It becomes a Match only through
// Validator.Validate.
type RawRow struct {
	Line    int
	ID      string
	Sides   [2]RawSide
	Date    string
	Surface *string // nil when the file has no surface column
	Umpire  string
	Fields  []string
}

// Side is a validated player slot. Partner is empty in singles.
type Side struct {
	Name    string
	Hand    string
	Nation  string
	Partner string
}

// Match is a row that passed the validity predicate.
type Match struct {
	Line   int
	ID     string
	Gender string
	Sides  [2]Side
	// Date is the zero time when the row carries no usable date.
	Date time.Time
	// RawDate is the date cell as read, kept for diagnostics.
	RawDate string
	Fields  []string
}

// Rejection describes a row excluded by the validity predicate.
type Rejection struct {
	Line    int      `json:"line"`
	MatchID string   `json:"match_id"`
	Reasons []string `json:"reasons"`
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("line %d (%s): %s", r.Line, r.MatchID, strings.Join(r.Reasons, "; "))
}

// Unwrap lets callers test rejections with errors.Is(err, ErrRejected).
func (r *Rejection) Unwrap() error { return ErrRejected }

// GenderFromID returns the gender token of a match id such as
// "20251221-M-NextGen_Finals-F-A_B-C_D", or "" when the id has no
// recognizable token. Only the exact uppercase tokens count.
func GenderFromID(id string) string {
	parts := strings.Split(strings.TrimSpace(id), "-")
	if len(parts) < 2 {
		return ""
	}
	switch tok := parts[1]; tok {
	case GenderMen, GenderWomen:
		return tok
	default:
		return ""
	}
}
