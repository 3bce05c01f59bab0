// Package monitor serves the navigator's debug pages: a JSON state dump, an
// interactive scan chart and a static scan plot.
package monitor

import (
	"math"
	"time"

	"github.com/banshee-data/gapnav/internal/nav"
	"github.com/banshee-data/gapnav/internal/sensors"
	"github.com/banshee-data/gapnav/internal/version"
)

// Source is the running controller as seen by the debug pages.
// *nav.Controller satisfies it.
type Source interface {
	SessionID() string
	Interval() time.Duration
	Ticks() uint64
	PublishErrors() uint64
	LastDecision() (nav.Decision, bool)
	Scans() *sensors.ScanBuffer
	Proximity() *sensors.ProximityState
}

// ProximityView holds one distance per channel. JSON cannot carry +Inf, so
// a channel with nothing in range is null.
type ProximityView struct {
	Left   *float64 `json:"left"`
	Center *float64 `json:"center"`
	Right  *float64 `json:"right"`
}

// DecisionView is the JSON form of nav.Decision.
type DecisionView struct {
	Tick      uint64        `json:"tick"`
	At        time.Time     `json:"at"`
	Source    string        `json:"source"`
	Reason    string        `json:"reason"`
	Command   nav.Command   `json:"command"`
	Arcs      []nav.Arc     `json:"arcs"`
	Chosen    *nav.Arc      `json:"chosen,omitempty"`
	Center    *float64      `json:"center,omitempty"`
	Policy    string        `json:"policy"`
	Stuck     bool          `json:"stuck"`
	Proximity ProximityView `json:"proximity"`
	ScanLen   int           `json:"scan_len"`
}

// StateView is the body of /debug/nav-state.
type StateView struct {
	Session          string        `json:"session"`
	Version          string        `json:"version"`
	TickRateHz       float64       `json:"tick_rate_hz"`
	Ticks            uint64        `json:"ticks"`
	PublishErrors    uint64        `json:"publish_errors"`
	ScanUpdates      uint64        `json:"scan_updates"`
	ProximityUpdates uint64        `json:"proximity_updates"`
	Proximity        ProximityView `json:"proximity"`
	Decision         *DecisionView `json:"decision,omitempty"`
}

func finite(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}

func proximityView(p sensors.ProximitySample) ProximityView {
	return ProximityView{
		Left:   finite(p.Get(sensors.Left)),
		Center: finite(p.Get(sensors.Center)),
		Right:  finite(p.Get(sensors.Right)),
	}
}

func decisionView(d nav.Decision) *DecisionView {
	v := &DecisionView{
		Tick:      d.Tick,
		At:        d.At,
		Source:    d.Source.String(),
		Reason:    string(d.Reason),
		Command:   d.Command,
		Arcs:      d.Arcs,
		Policy:    d.Policy.String(),
		Stuck:     d.Stuck,
		Proximity: proximityView(d.Proximity),
		ScanLen:   d.ScanLen,
	}
	if v.Arcs == nil {
		v.Arcs = []nav.Arc{}
	}
	if d.HasChosen {
		chosen, center := d.Chosen, d.Center
		v.Chosen, v.Center = &chosen, &center
	}
	return v
}

func tickRate(interval time.Duration) float64 {
	if interval <= 0 {
		return 0
	}
	return float64(time.Second) / float64(interval)
}

// Snapshot collects the current state of src.
func Snapshot(src Source) StateView {
	v := StateView{
		Session:          src.SessionID(),
		Version:          version.String(),
		TickRateHz:       tickRate(src.Interval()),
		Ticks:            src.Ticks(),
		PublishErrors:    src.PublishErrors(),
		ScanUpdates:      src.Scans().Updates(),
		ProximityUpdates: src.Proximity().Updates(),
		Proximity:        proximityView(src.Proximity().Snapshot()),
	}
	if d, ok := src.LastDecision(); ok {
		v.Decision = decisionView(d)
	}
	return v
}
