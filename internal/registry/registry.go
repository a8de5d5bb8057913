package registry

import (
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/courtdata/matchprep/internal/match"
	"github.com/courtdata/matchprep/internal/names"
)

// playerID is swapped in tests to force collisions.
var playerID = PlayerID

// GenderConflict records a player whose mentions carry more than one
// gender token. Kept is the value the player was assigned.
type GenderConflict struct {
	PlayerID      string   `json:"player_id"`
	CanonicalName string   `json:"canonical_name"`
	Kept          string   `json:"kept"`
	Seen          []string `json:"seen"`
}

// Registry is the set of canonical players built from one run.
type Registry struct {
	// Players sorted by canonical name.
	Players         []*Player
	GenderConflicts []GenderConflict
	// Mentions is the number of mentions the players were built from.
	Mentions int

	byName map[string]*Player
	byID   map[string]*Player
}

// Build groups the mentions of the given matches into players.
func Build(matches []match.Match) (*Registry, error) {
	mentions, err := Mentions(matches)
	if err != nil {
		return nil, err
	}
	return Group(mentions)
}

// Group collapses mentions by exact canonical name. Display name,
// handedness and gender come from the first mention that has a value;
// first and last seen are the bounds of the non-zero dates.
func Group(mentions []Mention) (*Registry, error) {
	r := &Registry{
		Mentions: len(mentions),
		byName:   make(map[string]*Player),
		byID:     make(map[string]*Player),
	}
	genders := make(map[string]map[string]bool)

	for _, m := range mentions {
		p, ok := r.byName[m.CanonicalName]
		if !ok {
			id := playerID(m.CanonicalName)
			if other, taken := r.byID[id]; taken {
				return nil, errors.Wrapf(ErrIDCollision, "%s is shared by %q and %q", id, other.CanonicalName, m.CanonicalName)
			}
			p = &Player{ID: id, CanonicalName: m.CanonicalName}
			r.byName[m.CanonicalName] = p
			r.byID[id] = p
			r.Players = append(r.Players, p)
			genders[m.CanonicalName] = make(map[string]bool)
		}

		if p.DisplayName == "" {
			p.DisplayName = m.DisplayName
		}
		if p.Handedness == "" {
			p.Handedness = m.Handedness
		}
		if m.Gender != "" {
			if p.Gender == "" {
				p.Gender = m.Gender
			}
			genders[m.CanonicalName][m.Gender] = true
		}
		if !m.Date.IsZero() {
			if p.FirstSeen.IsZero() || m.Date.Before(p.FirstSeen) {
				p.FirstSeen = m.Date
			}
			if p.LastSeen.IsZero() || m.Date.After(p.LastSeen) {
				p.LastSeen = m.Date
			}
		}
	}

	sort.Slice(r.Players, func(i, j int) bool {
		return r.Players[i].CanonicalName < r.Players[j].CanonicalName
	})

	for _, p := range r.Players {
		seen := genders[p.CanonicalName]
		if len(seen) < 2 {
			continue
		}
		c := GenderConflict{PlayerID: p.ID, CanonicalName: p.CanonicalName, Kept: p.Gender}
		for g := range seen {
			c.Seen = append(c.Seen, g)
		}
		sort.Strings(c.Seen)
		r.GenderConflicts = append(r.GenderConflicts, c)
	}
	return r, nil
}

// Len returns the number of players.
func (r *Registry) Len() int { return len(r.Players) }

// Lookup normalizes a raw name and returns its player id.
func (r *Registry) Lookup(raw string) (string, bool) {
	canonical, ok := names.Normalize(raw)
	if !ok {
		return "", false
	}
	p, ok := r.byName[canonical]
	if !ok {
		return "", false
	}
	return p.ID, true
}

// Player returns the player with the given id.
func (r *Registry) Player(id string) (*Player, bool) {
	p, ok := r.byID[id]
	return p, ok
}

// Records renders the registry as output rows in PlayerColumns order.
func (r *Registry) Records() [][]string {
	rows := make([][]string, len(r.Players))
	for i, p := range r.Players {
		rows[i] = p.Record()
	}
	return rows
}
