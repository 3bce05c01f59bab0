package sensors

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampSample(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"in range", 3.5, 3.5},
		{"zero", 0, 0},
		{"negative", -1, 0},
		{"positive infinity", math.Inf(1), 20},
		{"negative infinity", math.Inf(-1), 20},
		{"nan", math.NaN(), 20},
		{"at max", 20, 20},
		{"over max", 35, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampSample(tt.in, 20))
		})
	}
}

func TestScanBuffer_ReplaceClampsAndCopies(t *testing.T) {
	t.Parallel()

	buf := NewScanBuffer(20)
	assert.Nil(t, buf.Latest())
	assert.Zero(t, buf.Updates())

	raw := []float64{1, math.Inf(1), 25, -2}
	buf.Replace(raw)
	raw[0] = 99

	got := buf.Latest()
	require.Len(t, got, 4)
	assert.Equal(t, RangeScan{1, 20, 20, 0}, got)
	assert.Equal(t, uint64(1), buf.Updates())
	assert.Equal(t, 20.0, buf.MaxDistance())
}

func TestScanBuffer_ConcurrentReplace(t *testing.T) {
	t.Parallel()

	buf := NewScanBuffer(20)
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(v float64) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				scan := make([]float64, 300)
				for j := range scan {
					scan[j] = v
				}
				buf.Replace(scan)
			}
		}(float64(w + 1))
	}
	for i := 0; i < 200; i++ {
		s := buf.Latest()
		if s == nil {
			continue
		}
		// A scan is never a mix of two writers.
		for _, v := range s {
			require.Equal(t, s[0], v)
		}
	}
	wg.Wait()
	assert.Equal(t, uint64(800), buf.Updates())
}

func TestParseChannel(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Channel{
		"L": Left, "left": Left, "front_0": Left,
		"c": Center, "Center": Center, "centre": Center, "front_1": Center,
		"R": Right, "right": Right, "front_2": Right,
	} {
		got, err := ParseChannel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseChannel("rear")
	assert.Error(t, err)
}

func TestChannel_String(t *testing.T) {
	assert.Equal(t, "left", Left.String())
	assert.Equal(t, "center", Center.String())
	assert.Equal(t, "right", Right.String())
	assert.Equal(t, "Channel(7)", Channel(7).String())
	assert.False(t, Channel(-1).Valid())
}

func TestProximityState_DefaultsToNoObstacle(t *testing.T) {
	t.Parallel()

	s := NewProximityState()
	assert.Equal(t, NoObstacle(), s.Snapshot())
	for _, c := range Channels {
		assert.True(t, math.IsInf(s.Get(c), 1))
	}
	assert.False(t, s.Snapshot().AnyBelow(0.3))
}

func TestProximityState_SetAndWriter(t *testing.T) {
	t.Parallel()

	s := NewProximityState()
	s.Writer(Center).Write(0.2)
	s.Set(Right, -1)
	s.Set(Left, math.NaN())
	s.Set(Channel(9), 0.1)

	snap := s.Snapshot()
	assert.True(t, math.IsInf(snap.Get(Left), 1))
	assert.Equal(t, 0.2, snap.Get(Center))
	assert.Equal(t, 0.0, snap.Get(Right))
	assert.Equal(t, uint64(3), s.Updates())
	assert.Equal(t, Center, s.Writer(Center).Channel())
	assert.True(t, math.IsInf(s.Get(Channel(9)), 1))
}

func TestProximitySample_Thresholds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                    string
		sample                  ProximitySample
		anyBelow, all, allAbove bool
	}{
		{"clear", NoObstacle(), false, false, true},
		{"all blocked", ProximitySample{0.1, 0.1, 0.1}, true, true, false},
		{"one blocked", ProximitySample{0.1, 5, 5}, true, false, false},
		{"at threshold", ProximitySample{0.3, 0.3, 0.3}, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.anyBelow, tt.sample.AnyBelow(0.3))
			assert.Equal(t, tt.all, tt.sample.AllBelow(0.3))
			assert.Equal(t, tt.allAbove, tt.sample.AllAbove(0.3))
		})
	}
}
