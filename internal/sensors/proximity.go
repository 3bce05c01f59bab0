package sensors

import (
	"fmt"
	"math"
	"strings"
	"sync/atomic"
)

// Channel identifies one of the three forward-facing proximity sensors.
type Channel int

const (
	Left Channel = iota
	Center
	Right

	NumChannels = 3
)

// Channels lists every proximity channel in index order.
var Channels = [NumChannels]Channel{Left, Center, Right}

func (c Channel) String() string {
	switch c {
	case Left:
		return "left"
	case Center:
		return "center"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("Channel(%d)", int(c))
	}
}

// Valid reports whether c names one of the three channels.
func (c Channel) Valid() bool {
	return c >= Left && c <= Right
}

// ParseChannel accepts the short (L/C/R), long (left/center/right) and
// legacy front_0..front_2 channel names, case-insensitively.
func ParseChannel(s string) (Channel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l", "left", "front_0":
		return Left, nil
	case "c", "center", "centre", "front_1":
		return Center, nil
	case "r", "right", "front_2":
		return Right, nil
	}
	return 0, fmt.Errorf("unknown proximity channel %q", s)
}

// ProximitySample is a snapshot of all three channels.
type ProximitySample [NumChannels]float64

// NoObstacle is the sample reported before any channel has a reading.
func NoObstacle() ProximitySample {
	inf := math.Inf(1)
	return ProximitySample{inf, inf, inf}
}

// Get returns the distance on channel c.
func (p ProximitySample) Get(c Channel) float64 {
	return p[c]
}

// AnyBelow reports whether at least one channel is strictly below limit.
func (p ProximitySample) AnyBelow(limit float64) bool {
	for _, d := range p {
		if d < limit {
			return true
		}
	}
	return false
}

// AllBelow reports whether every channel is strictly below limit.
func (p ProximitySample) AllBelow(limit float64) bool {
	for _, d := range p {
		if !(d < limit) {
			return false
		}
	}
	return true
}

// AllAbove reports whether every channel is strictly above limit.
func (p ProximitySample) AllAbove(limit float64) bool {
	for _, d := range p {
		if !(d > limit) {
			return false
		}
	}
	return true
}

// ProximityState holds the latest distance per channel. Each channel is an
// independent atomic word so writers never contend with each other or with
// the control loop.
type ProximityState struct {
	bits    [NumChannels]atomic.Uint64
	updates atomic.Uint64
}

// NewProximityState returns a state with every channel at +Inf.
func NewProximityState() *ProximityState {
	s := &ProximityState{}
	for i := range s.bits {
		s.bits[i].Store(math.Float64bits(math.Inf(1)))
	}
	return s
}

// Set stores the latest reading for c. NaN is treated as no reading (+Inf)
// and negative distances as contact (0). Unknown channels are ignored.
func (s *ProximityState) Set(c Channel, distance float64) {
	if !c.Valid() {
		return
	}
	switch {
	case math.IsNaN(distance):
		distance = math.Inf(1)
	case distance < 0:
		distance = 0
	}
	s.bits[c].Store(math.Float64bits(distance))
	s.updates.Add(1)
}

// Get returns the latest reading for c.
func (s *ProximityState) Get(c Channel) float64 {
	if !c.Valid() {
		return math.Inf(1)
	}
	return math.Float64frombits(s.bits[c].Load())
}

// Snapshot reads all three channels. Channels are read independently, so
// the snapshot may mix readings from different writer updates.
func (s *ProximityState) Snapshot() ProximitySample {
	var p ProximitySample
	for i := range s.bits {
		p[i] = math.Float64frombits(s.bits[i].Load())
	}
	return p
}

// Updates returns the total number of readings stored.
func (s *ProximityState) Updates() uint64 {
	return s.updates.Load()
}

// Writer returns a handle that only updates channel c.
func (s *ProximityState) Writer(c Channel) ChannelWriter {
	return ChannelWriter{state: s, channel: c}
}

// ChannelWriter is a write-only handle for one proximity channel, handed to
// the transport that owns that sensor.
type ChannelWriter struct {
	state   *ProximityState
	channel Channel
}

// Write stores distance as the channel's latest reading.
func (w ChannelWriter) Write(distance float64) {
	w.state.Set(w.channel, distance)
}

// Channel returns the channel this handle writes.
func (w ChannelWriter) Channel() Channel {
	return w.channel
}
