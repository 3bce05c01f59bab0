package nav

import "github.com/banshee-data/gapnav/internal/sensors"

// ZoneDetector finds candidate openings in a range scan.
//
// An opening starts at a rise (the range jumps up by more than SafeDistance
// from the previous index) and ends at the next drop. Indices in the rear
// sector [RearStart, RearEnd) are skipped and discard any open arc. Because
// the scan is circular, an opening can begin near the end of the scan and
// close on a drop just after index 0; that drop is remembered while walking
// the front half and paired with the still-open arc after the walk.
type ZoneDetector struct {
	SafeDistance float64
	MinArcWidth  int
	RearStart    int
	RearEnd      int
}

// NewZoneDetector builds a detector from p.
func NewZoneDetector(p Params) *ZoneDetector {
	return &ZoneDetector{
		SafeDistance: p.SafeDistance,
		MinArcWidth:  p.MinArcWidth,
		RearStart:    p.RearStart,
		RearEnd:      p.RearEnd,
	}
}

func (d *ZoneDetector) inRear(i int) bool {
	return i >= d.RearStart && i < d.RearEnd
}

// Detect returns the openings in scan in the order they close. It does not
// retain or modify scan, so repeated calls on the same scan agree.
func (d *ZoneDetector) Detect(scan sensors.RangeScan) []Arc {
	n := len(scan)
	if n == 0 {
		return nil
	}

	var arcs []Arc
	open := -1
	frontZoneEnd := -1

	for i := 0; i < n; i++ {
		if d.inRear(i) {
			open = -1
			continue
		}

		prev := scan[(i+n-1)%n]
		rise := scan[i]-prev > d.SafeDistance
		drop := prev-scan[i] > d.SafeDistance

		// A drop before any rise in the front half can only close an
		// opening that started before index 0.
		if drop && len(arcs) == 0 && i < d.RearStart {
			frontZoneEnd = i
		}

		switch {
		case open < 0 && rise:
			open = i
		case open >= 0 && drop:
			if i-open > d.MinArcWidth {
				arcs = append(arcs, Arc{Start: open, End: i})
			}
			open = -1
		}
	}

	if open >= 0 && frontZoneEnd >= 0 {
		if a := (Arc{Start: open, End: frontZoneEnd}); a.Width(n) > d.MinArcWidth {
			arcs = append(arcs, a)
		}
	}
	return arcs
}
