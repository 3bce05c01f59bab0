package sensors

import (
	"math"
	"sync/atomic"
)

// RangeScan is one full rotation of range samples, one per angular bin.
// Index 0 is straight ahead and indices increase counter-clockwise.
type RangeScan []float64

// ClampScan copies raw into a new RangeScan with every sample limited to
// [0, maxDistance]. Infinite, NaN and over-range samples become maxDistance.
func ClampScan(raw []float64, maxDistance float64) RangeScan {
	out := make(RangeScan, len(raw))
	for i, r := range raw {
		out[i] = ClampSample(r, maxDistance)
	}
	return out
}

// ClampSample limits a single range sample to [0, maxDistance].
func ClampSample(r, maxDistance float64) float64 {
	switch {
	case math.IsNaN(r), math.IsInf(r, 0), r >= maxDistance:
		return maxDistance
	case r < 0:
		return 0
	default:
		return r
	}
}

// ScanBuffer holds the latest range scan. Replace and Latest are safe for
// concurrent use; a scan is never partially visible.
type ScanBuffer struct {
	maxDistance float64
	scan        atomic.Pointer[RangeScan]
	updates     atomic.Uint64
}

// NewScanBuffer creates an empty buffer clamping samples to maxDistance.
func NewScanBuffer(maxDistance float64) *ScanBuffer {
	return &ScanBuffer{maxDistance: maxDistance}
}

// Replace clamps raw and swaps it in as the latest scan.
func (b *ScanBuffer) Replace(raw []float64) {
	s := ClampScan(raw, b.maxDistance)
	b.scan.Store(&s)
	b.updates.Add(1)
}

// Latest returns the most recent scan, or nil before the first Replace.
// Callers must treat the returned slice as read-only.
func (b *ScanBuffer) Latest() RangeScan {
	p := b.scan.Load()
	if p == nil {
		return nil
	}
	return *p
}

// Updates returns how many scans have been stored.
func (b *ScanBuffer) Updates() uint64 {
	return b.updates.Load()
}

// MaxDistance returns the clamp ceiling.
func (b *ScanBuffer) MaxDistance() float64 {
	return b.maxDistance
}
