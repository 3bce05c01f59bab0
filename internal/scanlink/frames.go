// Package scanlink feeds range scans into the navigator, either live from
// the lidar bridge over UDP or replayed from a packet capture.
package scanlink

import (
	"errors"
	"fmt"
	"sync"

	"github.com/banshee-data/gapnav/internal/wire"
)

// ErrEmptyScan is returned for a frame that carries no ranges.
var ErrEmptyScan = errors.New("scanlink: frame has no ranges")

// staleWindow bounds how far behind the newest sequence number a frame may
// be and still be treated as reordered. Larger gaps mean the bridge
// restarted and its sequence was reset.
const staleWindow = 64

// Sink receives decoded scans. *sensors.ScanBuffer satisfies it.
type Sink interface {
	Replace(raw []float64)
}

// frameHandler decodes ScanFrame payloads and hands them to a sink,
// discarding frames that arrive behind a newer one.
type frameHandler struct {
	sink  Sink
	stats *Stats

	mu      sync.Mutex
	lastSeq uint64
	seen    bool
}

func newFrameHandler(sink Sink, stats *Stats) *frameHandler {
	if stats == nil {
		stats = NewStats()
	}
	return &frameHandler{sink: sink, stats: stats}
}

// handle reports whether the payload reached the sink.
func (h *frameHandler) handle(payload []byte) (bool, error) {
	h.stats.AddPacket(len(payload))

	f, err := wire.ParseScanFrame(payload)
	if err != nil {
		h.stats.AddError()
		return false, fmt.Errorf("decode scan frame: %w", err)
	}
	if len(f.Ranges) == 0 {
		h.stats.AddError()
		return false, ErrEmptyScan
	}

	if h.isStale(f.Seq) {
		h.stats.AddStale()
		return false, nil
	}

	if h.sink != nil {
		h.sink.Replace(f.Ranges)
	}
	h.stats.AddFrame()
	return true, nil
}

func (h *frameHandler) isStale(seq uint64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.seen && seq <= h.lastSeq && h.lastSeq-seq < staleWindow {
		return true
	}
	h.lastSeq, h.seen = seq, true
	return false
}
