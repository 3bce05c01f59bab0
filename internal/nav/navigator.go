package nav

import (
	"math/rand/v2"
	"time"

	"github.com/banshee-data/gapnav/internal/monitoring"
	"github.com/banshee-data/gapnav/internal/sensors"
)

// Decision is the outcome of one tick, kept for tracing and the debug
// endpoints.
type Decision struct {
	Tick      uint64
	At        time.Time
	Source    Source
	Reason    Reason
	Command   Command
	Arcs      []Arc
	Chosen    Arc
	HasChosen bool
	Center    float64
	Policy    SelectionPolicy
	Stuck     bool
	Proximity sensors.ProximitySample
	ScanLen   int
}

// Navigator holds the pipeline stages and the state that persists between
// ticks (selection policy and recovery flag). It is not safe for concurrent
// use; Controller calls it from a single goroutine.
type Navigator struct {
	params   Params
	detector *ZoneDetector
	selector *Selector
	mapper   *HeadingMapper
	arbiter  *CollisionArbiter
}

// NewNavigator wires the stages from p. src feeds the selector's coin flip;
// when nil, p.Seed is used if set, otherwise the clock.
func NewNavigator(p Params, src rand.Source) *Navigator {
	if src == nil && p.Seed != 0 {
		src = rand.NewPCG(p.Seed, p.Seed^0x9e3779b97f4a7c15)
	}
	return &Navigator{
		params:   p,
		detector: NewZoneDetector(p),
		selector: NewSelector(src),
		mapper:   NewHeadingMapper(p),
		arbiter:  NewCollisionArbiter(p),
	}
}

// Params returns the tuning the navigator was built with.
func (n *Navigator) Params() Params { return n.params }

// Detector exposes the zone detector for tooling that only segments scans.
func (n *Navigator) Detector() *ZoneDetector { return n.detector }

// Decide runs one tick. Proximity takes priority whenever a channel is
// critical or recovery is active; otherwise the lidar pipeline steers, and
// when it finds no opening the arbiter decides (which, with nothing
// critical, drives forward).
func (n *Navigator) Decide(prox sensors.ProximitySample, scan sensors.RangeScan) Decision {
	d := Decision{Proximity: prox, ScanLen: len(scan)}

	// Recovery exits through the arbiter: the tick that clears it cruises forward.
	if n.arbiter.Stuck() || prox.AnyBelow(n.params.CriticalDistance) {
		d.Source = SourceProximity
		d.Command, d.Reason = n.arbiter.Evaluate(prox)
	} else {
		d.Arcs = n.detector.Detect(scan)
		if arc, ok := n.selector.Select(d.Arcs, scan); ok {
			d.Source = SourceLidar
			d.Chosen, d.HasChosen = arc, true
			d.Center = n.mapper.CenterIndex(arc, len(scan))
			d.Command, d.Reason = n.mapper.Steer(d.Center, len(scan))
		} else {
			d.Source = SourceFallback
			d.Command, d.Reason = n.arbiter.Evaluate(prox)
		}
	}

	d.Policy = n.selector.Policy()
	d.Stuck = n.arbiter.Stuck()
	n.trace(d)
	return d
}

func (n *Navigator) trace(d Decision) {
	if d.Source == SourceLidar {
		monitoring.Debugf("zones=%v chosen=%v policy=%s center=%.1f: %s (%s)",
			d.Arcs, d.Chosen, d.Policy, d.Center, d.Reason, d.Command)
		return
	}
	monitoring.Debugf("%s: %s (%s)", d.Source, d.Reason, d.Command)
}
