package registry

import (
	"crypto/sha1"
	"fmt"
	"time"

	"github.com/courtdata/matchprep/internal/match"
	"github.com/courtdata/matchprep/internal/names"
)

// IDPrefix tags every player id produced by this package.
const IDPrefix = "p_"

// idHexLen is the number of sha1 hex digits kept in a player id.
const idHexLen = 8

// PlayerColumns is the header of the player registry output.
var PlayerColumns = []string{"player_id", "canonical_name", "display_name", "handedness", "gender", "first_seen", "last_seen"}

// Mention is one occurrence of a player name in one accepted match.
type Mention struct {
	DisplayName   string
	CanonicalName string
	Handedness    string
	Gender        string
	Date          time.Time
	MatchID       string
	Line          int
}

// Player is one deduplicated identity.
type Player struct {
	ID            string    `json:"player_id"`
	CanonicalName string    `json:"canonical_name"`
	DisplayName   string    `json:"display_name"`
	Handedness    string    `json:"handedness,omitempty"`
	Gender        string    `json:"gender,omitempty"`
	FirstSeen     time.Time `json:"first_seen"`
	LastSeen      time.Time `json:"last_seen"`
}

// PlayerID derives the stable identifier of a canonical name: IDPrefix
// followed by the first 8 hex digits of its sha1 digest.
func PlayerID(canonical string) string {
	h := sha1.New()
	h.Write([]byte(canonical))
	return IDPrefix + fmt.Sprintf("%x", h.Sum(nil))[:idHexLen]
}

// Record renders the player as a registry output row.
func (p *Player) Record() []string {
	return []string{
		p.ID,
		p.CanonicalName,
		p.DisplayName,
		p.Handedness,
		p.Gender,
		match.FormatDate(p.FirstSeen),
		match.FormatDate(p.LastSeen),
	}
}

// Mentions extracts the player mentions of the given matches in traversal
// order: row order, and within a row player 1, player 2, then partners.
// A name that normalizes to nothing is fatal.
func Mentions(matches []match.Match) ([]Mention, error) {
	out := make([]Mention, 0, len(matches)*2)
	add := func(m *match.Match, raw, hand string) error {
		canonical, ok := names.Normalize(raw)
		if !ok {
			return newUnnormalizable(m, raw)
		}
		out = append(out, Mention{
			DisplayName:   raw,
			CanonicalName: canonical,
			Handedness:    hand,
			Gender:        m.Gender,
			Date:          m.Date,
			MatchID:       m.ID,
			Line:          m.Line,
		})
		return nil
	}

	for i := range matches {
		m := &matches[i]
		for _, side := range m.Sides {
			if err := add(m, side.Name, side.Hand); err != nil {
				return nil, err
			}
		}
		for _, side := range m.Sides {
			if side.Partner == "" {
				continue
			}
			if err := add(m, side.Partner, ""); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}
