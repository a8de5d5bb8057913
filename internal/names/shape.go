package names

import (
	"regexp"
	"sort"
	"strings"
)

// Shape describes how complete a raw player name looks.
type Shape string

const (
	ShapeEmpty   Shape = "empty"
	ShapeSingle  Shape = "single"  // one token, e.g. "Nadal"
	ShapePartial Shape = "partial" // initial + surname, e.g. "G. Granollers"
	ShapeFull    Shape = "full"
)

// Matches "G. Granollers", "G Granollers", "M.Torro-Flor".
var initialForm = regexp.MustCompile(`^[A-Z]\.?\s*\S+`)

// Classify reports the shape of a raw name.
//
// Single-token names are checked before the initial form so "M.Torro-Flor"
// (one token) is single, matching how the name surveys were counted.
func Classify(raw string) Shape {
	name := strings.TrimSpace(raw)
	if name == "" {
		return ShapeEmpty
	}
	if TokenCount(name) < 2 {
		return ShapeSingle
	}
	if isInitialForm(name) {
		return ShapePartial
	}
	return ShapeFull
}

// isInitialForm is true for a leading capital initial. The pattern alone also
// accepts "Gael Monfils", so the initial must be followed by a period or space.
func isInitialForm(name string) bool {
	if !initialForm.MatchString(name) {
		return false
	}
	next := name[1]
	return next == '.' || next == ' ' || next == '\t'
}

// Collector tallies name shapes across many mentions.
type Collector struct {
	Empty int
	sets  map[Shape]map[string]struct{}
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{
		sets: map[Shape]map[string]struct{}{
			ShapeSingle:  {},
			ShapePartial: {},
			ShapeFull:    {},
		},
	}
}

// Add records one raw name.
func (c *Collector) Add(raw string) {
	shape := Classify(raw)
	if shape == ShapeEmpty {
		c.Empty++
		return
	}
	c.sets[shape][strings.TrimSpace(raw)] = struct{}{}
}

// Count returns the number of distinct names with the given shape.
func (c *Collector) Count(shape Shape) int {
	return len(c.sets[shape])
}

// Samples returns up to n distinct names of the given shape, sorted.
func (c *Collector) Samples(shape Shape, n int) []string {
	out := make([]string, 0, len(c.sets[shape]))
	for name := range c.sets[shape] {
		out = append(out, name)
	}
	sort.Strings(out)
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
