package nav

// HeadingMapper converts a chosen arc into a command. Steering is bang-bang:
// straight ahead at ForwardSpeed when the arc centre is within
// ForwardTolerance of index 0, otherwise TurnSpeed with a fixed TurnRate
// towards the side the centre lies on.
type HeadingMapper struct {
	ForwardTolerance int
	ForwardSpeed     float64
	TurnSpeed        float64
	TurnRate         float64
}

// NewHeadingMapper builds a mapper from p.
func NewHeadingMapper(p Params) *HeadingMapper {
	return &HeadingMapper{
		ForwardTolerance: p.ForwardTolerance,
		ForwardSpeed:     p.LidarForwardSpeed,
		TurnSpeed:        p.LidarTurnSpeed,
		TurnRate:         p.LidarTurnRate,
	}
}

// CenterIndex returns the arc centre in the scan's index frame. Arcs that
// straddle the forward axis are averaged across the seam, so the result
// may exceed n or fall below 0.
func (m *HeadingMapper) CenterIndex(a Arc, n int) float64 {
	s, e, fn := float64(a.Start), float64(a.End), float64(n)
	half := fn / 2

	switch {
	case (s < half && e < half) || (s > half && e > half):
		return (s + e) / 2
	case fn-s > e:
		return s + (e+(fn-s))/2
	default:
		return (s + e - fn) / 2
	}
}

// Map returns the command for arc a in a scan of length n.
func (m *HeadingMapper) Map(a Arc, n int) Command {
	cmd, _ := m.Steer(m.CenterIndex(a, n), n)
	return cmd
}

// Steer returns the command for a centre index. Centres at or past n/2
// turn right (negative), the rest turn left.
func (m *HeadingMapper) Steer(center float64, n int) (Command, Reason) {
	tol := float64(m.ForwardTolerance)
	if center <= tol || center >= float64(n-1)-tol {
		return Command{Forward: m.ForwardSpeed}, ReasonLidarForward
	}
	if center >= float64(n)/2 {
		return Command{Forward: m.TurnSpeed, Turn: -m.TurnRate}, ReasonLidarTurnRight
	}
	return Command{Forward: m.TurnSpeed, Turn: m.TurnRate}, ReasonLidarTurnLeft
}
