package nav

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/gapnav/internal/config"
	"github.com/banshee-data/gapnav/internal/sensors"
	"github.com/banshee-data/gapnav/internal/testutil"
)

func newTestNavigator(src rand.Source) *Navigator {
	return NewNavigator(DefaultParams(), src)
}

func TestParamsFromConfig(t *testing.T) {
	t.Parallel()

	crit := 0.45
	seed := uint64(9)
	p := ParamsFromConfig(&config.NavConfig{CriticalDistance: &crit, SelectionSeed: &seed})
	assert.Equal(t, 0.45, p.CriticalDistance)
	assert.Equal(t, uint64(9), p.Seed)
	assert.Equal(t, 2.0, p.SafeDistance)
	assert.Equal(t, 100, p.RearStart)
	assert.Equal(t, 200, p.RearEnd)

	d := DefaultParams()
	assert.Equal(t, 0.3, d.CriticalDistance)
	assert.Equal(t, 20.0, d.MaxDistance)
	assert.Equal(t, 5, d.MinArcWidth)
}

func TestNavigator_ClearWithoutScanDrivesForward(t *testing.T) {
	t.Parallel()

	n := newTestNavigator(constSource(0))
	d := n.Decide(sensors.NoObstacle(), nil)
	assert.Equal(t, SourceFallback, d.Source)
	assert.Equal(t, Command{Forward: 0.8}, d.Command)
	assert.False(t, d.HasChosen)
}

func TestNavigator_FlatScanFallsBack(t *testing.T) {
	t.Parallel()

	n := newTestNavigator(constSource(0))
	d := n.Decide(sensors.NoObstacle(), clamp(testutil.FlatScan(scanLen, math.Inf(1))))
	assert.Equal(t, SourceFallback, d.Source)
	assert.Empty(t, d.Arcs)
	assert.Equal(t, Command{Forward: 0.8}, d.Command)
}

func TestNavigator_LidarSteers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		from   int
		to     int
		arc    Arc
		turn   float64
		reason Reason
	}{
		{"opening on the left", 40, 60, Arc{40, 61}, 0.8, ReasonLidarTurnLeft},
		{"opening on the right", 240, 260, Arc{240, 261}, -0.8, ReasonLidarTurnRight},
		{"opening straight ahead", 295, 3, Arc{295, 4}, 0, ReasonLidarForward},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := newTestNavigator(constSource(0))
			scan := clamp(testutil.ScanWithOpening(scanLen, 5, 20, tt.from, tt.to))
			d := n.Decide(sensors.NoObstacle(), scan)
			require.Equal(t, SourceLidar, d.Source)
			assert.Equal(t, []Arc{tt.arc}, d.Arcs)
			assert.Equal(t, tt.arc, d.Chosen)
			assert.True(t, d.HasChosen)
			assert.Equal(t, tt.turn, d.Command.Turn)
			assert.Equal(t, tt.reason, d.Reason)
			assert.Equal(t, PolicyUnset, d.Policy)
		})
	}
}

func TestNavigator_ProximityOverridesLidar(t *testing.T) {
	t.Parallel()

	n := newTestNavigator(constSource(0))
	scan := clamp(testutil.ScanWithOpening(scanLen, 5, 20, 40, 60))
	d := n.Decide(sample(5, 0.1, 5), scan)
	assert.Equal(t, SourceProximity, d.Source)
	assert.Equal(t, Command{Forward: -0.05, Turn: -0.4}, d.Command)
	assert.Empty(t, d.Arcs, "lidar pipeline does not run under proximity override")
}

// Scenario: every channel reads 0.1, then stays there, then jumps to 5.0.
func TestNavigator_StuckRecoveryScenario(t *testing.T) {
	t.Parallel()

	n := newTestNavigator(constSource(0))
	scan := clamp(testutil.ScanWithOpening(scanLen, 5, 20, 240, 260))
	blocked := sample(0.1, 0.1, 0.1)

	d := n.Decide(blocked, scan)
	assert.True(t, d.Stuck)
	assert.Equal(t, Stop, d.Command)

	d = n.Decide(blocked, scan)
	assert.True(t, d.Stuck)
	assert.Equal(t, Command{Forward: 0, Turn: 0.6}, d.Command)
	assert.Greater(t, d.Command.Turn, 0.0)

	d = n.Decide(sample(5, 5, 5), scan)
	assert.False(t, d.Stuck)
	assert.Equal(t, SourceProximity, d.Source, "recovery exit is decided by the arbiter")
	assert.Equal(t, Command{Forward: 0.8}, d.Command)

	// Once clear, lidar steering resumes.
	d = n.Decide(sample(5, 5, 5), scan)
	assert.Equal(t, SourceLidar, d.Source)
}

// Scenario: two openings of differing spread with an unset policy.
func TestNavigator_StickyPolicyScenario(t *testing.T) {
	t.Parallel()

	s := testutil.ScanWithOpening(scanLen, 5, 20, 20, 40)
	testutil.SetRange(s, 12, 250, 270)
	scan := clamp(s)

	for seed := uint64(1); seed <= 10; seed++ {
		n := newTestNavigator(rand.NewPCG(seed, ^seed))
		first := n.Decide(sensors.NoObstacle(), scan)
		require.Len(t, first.Arcs, 2)
		require.NotEqual(t, PolicyUnset, first.Policy)

		for i := 0; i < 5; i++ {
			d := n.Decide(sensors.NoObstacle(), scan)
			assert.Equal(t, first.Policy, d.Policy)
			assert.Equal(t, first.Chosen, d.Chosen)
		}

		// A single visible opening releases the policy.
		single := clamp(testutil.ScanWithOpening(scanLen, 5, 20, 40, 60))
		d := n.Decide(sensors.NoObstacle(), single)
		assert.Equal(t, PolicyUnset, d.Policy)
	}
}

// The literal end-to-end profile puts a raised band at 140..160, which lies
// in the ignored rear sector; the same band in front is found and steered to.
func TestNavigator_RearBandScenario(t *testing.T) {
	t.Parallel()

	n := newTestNavigator(constSource(0))
	low := 20 - 2*2.0

	literal := clamp(testutil.ScanWithOpening(scanLen, 20, low, 140, 160))
	d := n.Decide(sensors.NoObstacle(), literal)
	assert.Empty(t, d.Arcs)
	assert.Equal(t, SourceFallback, d.Source)

	front := clamp(testutil.ScanWithOpening(scanLen, low, 20, 240, 260))
	d = n.Decide(sensors.NoObstacle(), front)
	require.Equal(t, []Arc{{240, 261}}, d.Arcs)
	assert.InDelta(t, 250.5, d.Center, 1e-9)
	assert.Equal(t, Command{Forward: 0.5, Turn: -0.8}, d.Command)
}

func TestNavigator_SeedFromParams(t *testing.T) {
	t.Parallel()

	s := testutil.ScanWithOpening(scanLen, 5, 20, 20, 40)
	testutil.SetRange(s, 12, 250, 270)
	scan := clamp(s)

	p := DefaultParams()
	p.Seed = 1234
	a := NewNavigator(p, nil).Decide(sensors.NoObstacle(), scan)
	b := NewNavigator(p, nil).Decide(sensors.NoObstacle(), scan)
	assert.Equal(t, a.Policy, b.Policy)
	assert.Equal(t, a.Chosen, b.Chosen)
	assert.Equal(t, p, NewNavigator(p, nil).Params())
}
