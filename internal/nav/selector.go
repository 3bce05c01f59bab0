package nav

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/banshee-data/gapnav/internal/sensors"
)

// SelectionPolicy decides which arc wins when several are visible.
type SelectionPolicy int

const (
	PolicyUnset SelectionPolicy = iota
	PolicyWidest
	PolicyNarrowest
)

func (p SelectionPolicy) String() string {
	switch p {
	case PolicyUnset:
		return "unset"
	case PolicyWidest:
		return "widest"
	case PolicyNarrowest:
		return "narrowest"
	default:
		return fmt.Sprintf("SelectionPolicy(%d)", int(p))
	}
}

// Selector chooses one arc per tick by range spread (max - min of the
// samples inside the arc). With several arcs it flips a coin once to prefer
// the widest or narrowest spread and keeps that choice until only one arc is
// seen, so the robot does not flip between two openings every tick.
type Selector struct {
	policy SelectionPolicy
	rng    *rand.Rand
}

// NewSelector creates a selector drawing its coin flip from src. A nil src
// is seeded from the clock.
func NewSelector(src rand.Source) *Selector {
	if src == nil {
		now := uint64(time.Now().UnixNano())
		src = rand.NewPCG(now, now>>32|1)
	}
	return &Selector{rng: rand.New(src)}
}

// Policy returns the current sticky policy.
func (s *Selector) Policy() SelectionPolicy {
	return s.policy
}

// Reset clears the sticky policy.
func (s *Selector) Reset() {
	s.policy = PolicyUnset
}

// Spread returns max(values) - min(values), or 0 for no values.
func Spread(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return floats.Max(values) - floats.Min(values)
}

// Select returns the chosen arc, or false when arcs is empty. Only a single
// arc resets the policy; an empty input leaves it untouched, so a policy
// rolled before a blind tick still applies when the same openings return.
// This follows the selection rule rather than the broader "reset whenever
// at most one arc is seen" reading of the data model.
func (s *Selector) Select(arcs []Arc, scan sensors.RangeScan) (Arc, bool) {
	if len(arcs) == 0 {
		return Arc{}, false
	}

	var widest, narrowest Arc
	maxSpread, minSpread := math.Inf(-1), math.Inf(1)
	for _, a := range arcs {
		spread := Spread(a.Values(scan))
		if spread > maxSpread {
			maxSpread, widest = spread, a
		}
		if spread < minSpread {
			minSpread, narrowest = spread, a
		}
	}

	if len(arcs) == 1 {
		s.policy = PolicyUnset
		return narrowest, true
	}

	if s.policy == PolicyUnset {
		if s.rng.IntN(2) == 0 {
			s.policy = PolicyWidest
		} else {
			s.policy = PolicyNarrowest
		}
	}
	if s.policy == PolicyWidest {
		return widest, true
	}
	return narrowest, true
}
