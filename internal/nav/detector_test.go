package nav

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/gapnav/internal/sensors"
	"github.com/banshee-data/gapnav/internal/testutil"
)

const scanLen = 300

func newTestDetector() *ZoneDetector {
	return NewZoneDetector(DefaultParams())
}

func clamp(raw []float64) sensors.RangeScan {
	return sensors.ClampScan(raw, 20)
}

func TestZoneDetector_Detect(t *testing.T) {
	t.Parallel()

	twoOpenings := testutil.ScanWithOpening(scanLen, 5, 20, 20, 40)
	testutil.SetRange(twoOpenings, 20, 250, 270)

	tests := []struct {
		name string
		scan []float64
		want []Arc
	}{
		{"empty scan", nil, nil},
		{"flat scan", testutil.FlatScan(scanLen, 20), nil},
		{"gentle slope", func() []float64 {
			s := make([]float64, scanLen)
			for i := range s {
				s[i] = 2 + float64(i%50)*0.04
			}
			return s
		}(), nil},
		{"front left opening", testutil.ScanWithOpening(scanLen, 5, 20, 40, 60), []Arc{{40, 61}}},
		{"front right opening", testutil.ScanWithOpening(scanLen, 5, 20, 240, 260), []Arc{{240, 261}}},
		{"too narrow", testutil.ScanWithOpening(scanLen, 5, 20, 40, 43), nil},
		{"exactly minimum width", testutil.ScanWithOpening(scanLen, 5, 20, 40, 44), nil},
		{"just wider than minimum", testutil.ScanWithOpening(scanLen, 5, 20, 40, 45), []Arc{{40, 46}}},
		{"wraps through zero", testutil.ScanWithOpening(scanLen, 5, 20, 280, 10), []Arc{{280, 11}}},
		{"opening inside rear sector", testutil.ScanWithOpening(scanLen, 5, 20, 140, 160), nil},
		{"opening cut by rear sector", testutil.ScanWithOpening(scanLen, 5, 20, 90, 120), nil},
		{"two openings", twoOpenings, []Arc{{20, 41}, {250, 271}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newTestDetector().Detect(clamp(tt.scan))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Detect() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// A dip in range (an obstacle, not an opening) produces a drop then a rise;
// the rise opens an arc that nothing closes before the rear sector.
func TestZoneDetector_ObstacleIsNotAnOpening(t *testing.T) {
	t.Parallel()

	scan := testutil.ScanWithOpening(scanLen, 20, 5, 40, 60)
	assert.Empty(t, newTestDetector().Detect(clamp(scan)))
}

func TestZoneDetector_WrapRespectsMinimumWidth(t *testing.T) {
	t.Parallel()

	// Opening 297..299 plus 0..1: five indices wide, three of which
	// precede the seam.
	scan := testutil.ScanWithOpening(scanLen, 5, 20, 297, 1)
	assert.Empty(t, newTestDetector().Detect(clamp(scan)))
}

func TestZoneDetector_ShortScanWithoutRearSector(t *testing.T) {
	t.Parallel()

	scan := testutil.ScanWithOpening(60, 5, 20, 10, 30)
	got := newTestDetector().Detect(clamp(scan))
	assert.Equal(t, []Arc{{10, 31}}, got)
}

func TestZoneDetector_Idempotent(t *testing.T) {
	t.Parallel()

	scan := clamp(testutil.ScanWithOpening(scanLen, 5, 20, 280, 10))
	testutil.SetRange(scan, 18, 30, 50)
	d := newTestDetector()

	first := d.Detect(scan)
	second := d.Detect(scan)
	require.NotEmpty(t, first)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Detect() not idempotent (-first +second):\n%s", diff)
	}
}

func TestZoneDetector_ArcsAlwaysWiderThanMinimum(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(7, 11))
	d := newTestDetector()
	for trial := 0; trial < 500; trial++ {
		scan := make([]float64, scanLen)
		level := rng.Float64() * 20
		for i := range scan {
			if rng.IntN(12) == 0 {
				level = rng.Float64() * 20
			}
			scan[i] = level
		}
		for _, a := range d.Detect(clamp(scan)) {
			require.Greater(t, a.Width(scanLen), d.MinArcWidth, "trial %d arc %v", trial, a)
			require.True(t, a.Valid(scanLen))
		}
	}
}

func TestZoneDetector_NoEdgesMeansNoArcs(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(3, 5))
	d := newTestDetector()
	for trial := 0; trial < 200; trial++ {
		// Whole periods keep the seam continuous; adjacent steps stay far
		// below SafeDistance.
		k := float64(1 + rng.IntN(5))
		amp := 0.5 + rng.Float64()
		scan := make([]float64, scanLen)
		for i := range scan {
			scan[i] = 5 + amp*math.Sin(2*math.Pi*k*float64(i)/scanLen) + rng.Float64()*0.01
		}
		assert.Empty(t, d.Detect(clamp(scan)))
	}
}
