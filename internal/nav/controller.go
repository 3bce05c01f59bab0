package nav

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/gapnav/internal/monitoring"
	"github.com/banshee-data/gapnav/internal/sensors"
	"github.com/banshee-data/gapnav/internal/timeutil"
)

// Publisher hands a command to the actuation transport. Implementations
// must not block the control loop.
type Publisher interface {
	Publish(cmd Command) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(Command) error

// Publish calls f(cmd).
func (f PublisherFunc) Publish(cmd Command) error { return f(cmd) }

// ControllerConfig contains the collaborators of a Controller.
type ControllerConfig struct {
	Navigator *Navigator
	Scans     *sensors.ScanBuffer
	Proximity *sensors.ProximityState
	Publisher Publisher
	Clock     timeutil.Clock // defaults to RealClock
	Interval  time.Duration  // defaults to the navigator's TickInterval
}

// Controller runs the navigator at a fixed rate.
type Controller struct {
	nav       *Navigator
	scans     *sensors.ScanBuffer
	prox      *sensors.ProximityState
	pub       Publisher
	clock     timeutil.Clock
	interval  time.Duration
	sessionID string

	ticks         atomic.Uint64
	publishErrors atomic.Uint64
	last          atomic.Pointer[Decision]
}

// NewController creates a controller. Scans and Proximity default to empty
// holders so a controller without sensors still drives forward.
func NewController(cfg ControllerConfig) *Controller {
	c := &Controller{
		nav:       cfg.Navigator,
		scans:     cfg.Scans,
		prox:      cfg.Proximity,
		pub:       cfg.Publisher,
		clock:     cfg.Clock,
		interval:  cfg.Interval,
		sessionID: uuid.NewString(),
	}
	if c.nav == nil {
		c.nav = NewNavigator(DefaultParams(), nil)
	}
	if c.scans == nil {
		c.scans = sensors.NewScanBuffer(c.nav.Params().MaxDistance)
	}
	if c.prox == nil {
		c.prox = sensors.NewProximityState()
	}
	if c.clock == nil {
		c.clock = timeutil.RealClock{}
	}
	if c.interval <= 0 {
		c.interval = c.nav.Params().TickInterval
	}
	if c.interval <= 0 {
		c.interval = 100 * time.Millisecond
	}
	return c
}

// SessionID identifies this controller run in logs and debug output.
func (c *Controller) SessionID() string { return c.sessionID }

// Interval returns the tick period.
func (c *Controller) Interval() time.Duration { return c.interval }

// Ticks returns how many ticks have completed.
func (c *Controller) Ticks() uint64 { return c.ticks.Load() }

// PublishErrors returns how many publishes have failed.
func (c *Controller) PublishErrors() uint64 { return c.publishErrors.Load() }

// Scans returns the scan holder the controller reads.
func (c *Controller) Scans() *sensors.ScanBuffer { return c.scans }

// Proximity returns the proximity holder the controller reads.
func (c *Controller) Proximity() *sensors.ProximityState { return c.prox }

// LastDecision returns the most recent tick's decision, if any. Safe to
// call from any goroutine.
func (c *Controller) LastDecision() (Decision, bool) {
	d := c.last.Load()
	if d == nil {
		return Decision{}, false
	}
	return *d, true
}

// Step runs one tick: snapshot the sensors, decide, publish. It is the unit
// of work that cancellation never interrupts.
func (c *Controller) Step() Decision {
	d := c.nav.Decide(c.prox.Snapshot(), c.scans.Latest())
	d.Tick = c.ticks.Add(1)
	d.At = c.clock.Now()
	c.last.Store(&d)

	if c.pub != nil {
		if err := c.pub.Publish(d.Command); err != nil {
			n := c.publishErrors.Add(1)
			if n == 1 || n%100 == 0 {
				monitoring.Logf("publish failed (%d total): %v", n, err)
			}
		}
	}
	return d
}

// Run ticks until ctx is cancelled. Cancellation is only observed between
// ticks, so a started tick always publishes. Run returns ctx.Err().
func (c *Controller) Run(ctx context.Context) error {
	monitoring.Logf("navigator session %s started at %.1f Hz", c.sessionID, float64(time.Second)/float64(c.interval))

	ticker := c.clock.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			monitoring.Logf("navigator session %s stopped after %d ticks", c.sessionID, c.Ticks())
			return ctx.Err()
		case <-ticker.C():
			// Prefer shutdown when both are ready.
			if ctx.Err() != nil {
				continue
			}
			c.Step()
		}
	}
}
