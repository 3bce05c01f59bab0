package nav

import "fmt"

// Command is one velocity command: forward speed and turn rate.
// Positive Turn is counter-clockwise (left).
type Command struct {
	Forward float64 `json:"forward"`
	Turn    float64 `json:"turn"`
}

// Stop is the zero command.
var Stop = Command{}

func (c Command) String() string {
	return fmt.Sprintf("forward=%.2f turn=%+.2f", c.Forward, c.Turn)
}

// Source records which stage produced a tick's command.
type Source int

const (
	// SourceProximity: a channel was critical or recovery was active.
	SourceProximity Source = iota + 1
	// SourceLidar: an opening was chosen from the scan.
	SourceLidar
	// SourceFallback: no opening, so the arbiter decided with no channel critical.
	SourceFallback
)

func (s Source) String() string {
	switch s {
	case SourceProximity:
		return "proximity"
	case SourceLidar:
		return "lidar"
	case SourceFallback:
		return "fallback"
	default:
		return fmt.Sprintf("Source(%d)", int(s))
	}
}

// Reason names the rule that produced a command.
type Reason string

const (
	ReasonSpin           Reason = "spin in place"
	ReasonEnterRecovery  Reason = "all channels blocked, entering recovery"
	ReasonLeftBlocked    Reason = "left blocked"
	ReasonCenterBlocked  Reason = "center blocked"
	ReasonRightBlocked   Reason = "right blocked"
	ReasonClear          Reason = "clear ahead"
	ReasonLidarForward   Reason = "lidar: move forward"
	ReasonLidarTurnLeft  Reason = "lidar: left"
	ReasonLidarTurnRight Reason = "lidar: right"
)
