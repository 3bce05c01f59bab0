package nav

import (
	"github.com/banshee-data/gapnav/internal/monitoring"
	"github.com/banshee-data/gapnav/internal/sensors"
)

// CollisionArbiter turns proximity readings into an avoidance command and
// owns the stuck-recovery flag.
//
// When all three channels are below CriticalDistance the robot is stuck: it
// emits one zero command, then spins in place on every following evaluation
// until all three channels read above CriticalDistance again.
type CollisionArbiter struct {
	CriticalDistance float64
	CruiseSpeed      float64
	ReverseSpeed     float64
	AvoidTurnRate    float64
	SideTurnRate     float64
	SpinRate         float64

	stuck bool
}

// NewCollisionArbiter builds an arbiter from p.
func NewCollisionArbiter(p Params) *CollisionArbiter {
	return &CollisionArbiter{
		CriticalDistance: p.CriticalDistance,
		CruiseSpeed:      p.CruiseSpeed,
		ReverseSpeed:     p.ReverseSpeed,
		AvoidTurnRate:    p.AvoidTurnRate,
		SideTurnRate:     p.SideTurnRate,
		SpinRate:         p.SpinRate,
	}
}

// Stuck reports whether recovery is active.
func (a *CollisionArbiter) Stuck() bool {
	return a.stuck
}

// Evaluate returns the command for sample p.
func (a *CollisionArbiter) Evaluate(p sensors.ProximitySample) (Command, Reason) {
	crit := a.CriticalDistance

	if a.stuck {
		if !p.AllAbove(crit) {
			return Command{Turn: a.SpinRate}, ReasonSpin
		}
		a.stuck = false
		monitoring.Logf("proximity: recovery cleared")
	}

	left := p.Get(sensors.Left)
	center := p.Get(sensors.Center)
	right := p.Get(sensors.Right)

	switch {
	case p.AllBelow(crit):
		a.stuck = true
		monitoring.Logf("proximity: all channels below %.2fm, entering recovery", crit)
		return Stop, ReasonEnterRecovery
	case left < crit:
		turn := -a.AvoidTurnRate
		if center > right {
			turn = a.AvoidTurnRate
		}
		return Command{Forward: -a.ReverseSpeed, Turn: turn}, ReasonLeftBlocked
	case center < crit:
		return Command{Forward: -a.ReverseSpeed, Turn: -a.SideTurnRate}, ReasonCenterBlocked
	case right < crit:
		return Command{Forward: -a.ReverseSpeed, Turn: a.SideTurnRate}, ReasonRightBlocked
	default:
		return Command{Forward: a.CruiseSpeed}, ReasonClear
	}
}
