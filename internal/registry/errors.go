package registry

import (
	"github.com/cockroachdb/errors"

	"github.com/courtdata/matchprep/internal/match"
)

var (
	// ErrUnnormalizable means an accepted row carries a name with no usable
	// letters left after normalization.
	ErrUnnormalizable = errors.New("name does not normalize")

	// ErrIDCollision means two different canonical names share a player id.
	ErrIDCollision = errors.New("player id collision")

	// ErrUnresolved means a name seen while rewriting has no registry entry.
	ErrUnresolved = errors.New("name not in registry")
)

func newUnnormalizable(m *match.Match, raw string) error {
	return errors.Wrapf(ErrUnnormalizable, "line %d (%s): %q", m.Line, m.ID, raw)
}
