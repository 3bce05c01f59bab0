package nav

import (
	"fmt"

	"github.com/banshee-data/gapnav/internal/sensors"
)

// Arc is a contiguous interval of scan indices. When Start <= End it covers
// [Start, End]; when Start > End it wraps through index 0 and covers
// [Start, n-1] ∪ [0, End].
type Arc struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Wraps reports whether the arc crosses the 0-index seam.
func (a Arc) Wraps() bool {
	return a.Start > a.End
}

// Width returns the angular width in indices for a scan of length n.
func (a Arc) Width(n int) int {
	if a.Wraps() {
		return a.End + n - a.Start
	}
	return a.End - a.Start
}

// Valid reports whether both ends index into a scan of length n.
func (a Arc) Valid(n int) bool {
	return a.Start >= 0 && a.End >= 0 && a.Start < n && a.End < n
}

// Contains reports whether index i lies inside the arc.
func (a Arc) Contains(i int) bool {
	if a.Wraps() {
		return i >= a.Start || i <= a.End
	}
	return i >= a.Start && i <= a.End
}

// Values returns the samples the arc covers in walk order: for a wrapping
// arc the tail segment followed by the head segment. Invalid arcs yield nil.
func (a Arc) Values(scan sensors.RangeScan) []float64 {
	n := len(scan)
	if !a.Valid(n) {
		return nil
	}
	if !a.Wraps() {
		return scan[a.Start : a.End+1]
	}
	out := make([]float64, 0, a.Width(n)+1)
	out = append(out, scan[a.Start:]...)
	return append(out, scan[:a.End+1]...)
}

func (a Arc) String() string {
	return fmt.Sprintf("(%d,%d)", a.Start, a.End)
}
