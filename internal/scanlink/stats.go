package scanlink

import (
	"fmt"
	"sync"
	"time"

	"github.com/banshee-data/gapnav/internal/monitoring"
)

// Stats tracks ingest counters with thread-safe operations.
type Stats struct {
	mu        sync.Mutex
	packets   int64
	bytes     int64
	frames    int64
	stale     int64
	errors    int64
	lastReset time.Time
}

// StatsSnapshot is a point-in-time copy of the counters.
type StatsSnapshot struct {
	Packets  int64
	Bytes    int64
	Frames   int64
	Stale    int64
	Errors   int64
	Duration time.Duration
}

// NewStats creates a Stats instance.
func NewStats() *Stats {
	return &Stats{lastReset: time.Now()}
}

// AddPacket counts a received datagram.
func (s *Stats) AddPacket(bytes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.packets++
	s.bytes += int64(bytes)
}

// AddFrame counts a decoded scan that reached the sink.
func (s *Stats) AddFrame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames++
}

// AddStale counts a frame discarded for arriving out of order.
func (s *Stats) AddStale() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stale++
}

// AddError counts a datagram that failed to decode.
func (s *Stats) AddError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors++
}

// Snapshot returns the counters without resetting them.
func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(time.Now())
}

// GetAndReset returns the counters and zeroes them.
func (s *Stats) GetAndReset() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	snap := s.snapshotLocked(now)
	s.packets, s.bytes, s.frames, s.stale, s.errors = 0, 0, 0, 0, 0
	s.lastReset = now
	return snap
}

func (s *Stats) snapshotLocked(now time.Time) StatsSnapshot {
	return StatsSnapshot{
		Packets:  s.packets,
		Bytes:    s.bytes,
		Frames:   s.frames,
		Stale:    s.stale,
		Errors:   s.errors,
		Duration: now.Sub(s.lastReset),
	}
}

// LogStats logs per-second rates since the previous call and resets.
func (s *Stats) LogStats() {
	snap := s.GetAndReset()
	if snap.Packets == 0 && snap.Errors == 0 {
		return
	}
	secs := snap.Duration.Seconds()
	if secs <= 0 {
		secs = 1
	}

	msg := fmt.Sprintf("Scan stats (/sec): %.1f packets, %.1f scans, %.1f KB",
		float64(snap.Packets)/secs, float64(snap.Frames)/secs, float64(snap.Bytes)/secs/1024)
	if snap.Stale > 0 {
		msg += fmt.Sprintf(", %d stale", snap.Stale)
	}
	if snap.Errors > 0 {
		msg += fmt.Sprintf(", %d undecodable", snap.Errors)
	}
	monitoring.Logf("%s", msg)
}
