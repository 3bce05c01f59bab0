package nav

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/gapnav/internal/monitoring"
	"github.com/banshee-data/gapnav/internal/sensors"
	"github.com/banshee-data/gapnav/internal/testutil"
	"github.com/banshee-data/gapnav/internal/timeutil"
)

func TestMain(m *testing.M) {
	monitoring.SetLogger(nil)
	m.Run()
}

type recordingPublisher struct {
	ch  chan Command
	err error
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{ch: make(chan Command, 16)}
}

func (p *recordingPublisher) Publish(cmd Command) error {
	p.ch <- cmd
	return p.err
}

func TestNewController_Defaults(t *testing.T) {
	t.Parallel()

	c := NewController(ControllerConfig{})
	assert.Equal(t, 100*time.Millisecond, c.Interval())
	assert.NotNil(t, c.Scans())
	assert.NotNil(t, c.Proximity())
	_, err := uuid.Parse(c.SessionID())
	assert.NoError(t, err)

	_, ok := c.LastDecision()
	assert.False(t, ok)

	d := c.Step()
	assert.Equal(t, uint64(1), d.Tick)
	assert.Equal(t, Command{Forward: 0.8}, d.Command)
}

func TestController_StepReadsSensorsAndPublishes(t *testing.T) {
	t.Parallel()

	clock := timeutil.NewMockClock(time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC))
	scans := sensors.NewScanBuffer(20)
	prox := sensors.NewProximityState()
	pub := newRecordingPublisher()

	c := NewController(ControllerConfig{
		Navigator: newTestNavigator(constSource(0)),
		Scans:     scans,
		Proximity: prox,
		Publisher: pub,
		Clock:     clock,
	})

	scans.Replace(testutil.ScanWithOpening(scanLen, 5, 20, 40, 60))
	d := c.Step()
	assert.Equal(t, SourceLidar, d.Source)
	assert.Equal(t, Command{Forward: 0.5, Turn: 0.8}, <-pub.ch)
	assert.Equal(t, clock.Now(), d.At)

	prox.Set(sensors.Right, 0.1)
	d = c.Step()
	assert.Equal(t, SourceProximity, d.Source)
	assert.Equal(t, Command{Forward: -0.05, Turn: 0.4}, <-pub.ch)

	last, ok := c.LastDecision()
	require.True(t, ok)
	assert.Equal(t, uint64(2), last.Tick)
	assert.Equal(t, uint64(2), c.Ticks())
}

func TestController_PublishErrorsAreCounted(t *testing.T) {
	t.Parallel()

	pub := newRecordingPublisher()
	pub.err = errors.New("link down")
	c := NewController(ControllerConfig{Publisher: pub})

	for i := 0; i < 3; i++ {
		c.Step()
		<-pub.ch
	}
	assert.Equal(t, uint64(3), c.PublishErrors())
	assert.Equal(t, uint64(3), c.Ticks())
}

func TestController_RunTicksUntilCancelled(t *testing.T) {
	t.Parallel()

	clock := timeutil.NewMockClock(time.Unix(0, 0))
	pub := newRecordingPublisher()
	c := NewController(ControllerConfig{
		Navigator: newTestNavigator(constSource(0)),
		Publisher: pub,
		Clock:     clock,
		Interval:  50 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	require.Eventually(t, func() bool { return len(clock.Tickers()) == 1 }, time.Second, time.Millisecond)
	ticker := clock.Tickers()[0]
	assert.Equal(t, 50*time.Millisecond, ticker.Interval())

	for i := 0; i < 3; i++ {
		clock.Advance(50 * time.Millisecond)
		select {
		case cmd := <-pub.ch:
			assert.Equal(t, Command{Forward: 0.8}, cmd)
		case <-time.After(time.Second):
			t.Fatalf("tick %d not published", i)
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, uint64(3), c.Ticks())
	assert.True(t, ticker.Stopped())
}

func TestPublisherFunc(t *testing.T) {
	t.Parallel()

	var got Command
	var p Publisher = PublisherFunc(func(c Command) error {
		got = c
		return nil
	})
	require.NoError(t, p.Publish(Command{Forward: 1}))
	assert.Equal(t, Command{Forward: 1}, got)
	assert.Equal(t, "forward=1.00 turn=+0.00", got.String())
}

func TestSource_String(t *testing.T) {
	assert.Equal(t, "proximity", SourceProximity.String())
	assert.Equal(t, "lidar", SourceLidar.String())
	assert.Equal(t, "fallback", SourceFallback.String())
	assert.Equal(t, "Source(0)", Source(0).String())
}
