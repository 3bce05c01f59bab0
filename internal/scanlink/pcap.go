package scanlink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"github.com/banshee-data/gapnav/internal/monitoring"
	"github.com/banshee-data/gapnav/internal/timeutil"
)

// ReplayOptions configures ReplayPCAP.
type ReplayOptions struct {
	// Speed scales the gaps between capture timestamps: 1.0 is real time,
	// 2.0 twice as fast. Zero or negative replays as fast as possible.
	Speed float64

	// Clock paces the replay. Defaults to the real clock.
	Clock timeutil.Clock

	// Stats receives packet counters. A private instance is used if nil.
	Stats *Stats
}

// ReplayResult summarises a finished replay.
type ReplayResult struct {
	Packets int // UDP datagrams matching the port
	Frames  int // scans delivered to the sink
	Skipped int // non-UDP or other-port packets
}

// ReplayPCAP reads a libpcap capture from r and feeds every UDP payload sent
// to port (any port when 0) through the scan decoder into sink.
func ReplayPCAP(ctx context.Context, r io.Reader, port int, sink Sink, opts ReplayOptions) (ReplayResult, error) {
	var res ReplayResult

	reader, err := pcapgo.NewReader(r)
	if err != nil {
		return res, fmt.Errorf("failed to read pcap header: %w", err)
	}
	clock := opts.Clock
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	frames := newFrameHandler(sink, opts.Stats)

	monitoring.Logf("PCAP replay: link type %v, udp port %d, speed %.1fx", reader.LinkType(), port, opts.Speed)

	var lastCapture time.Time
	for {
		if err := ctx.Err(); err != nil {
			monitoring.Logf("PCAP replay stopping due to context cancellation (processed %d packets)", res.Packets)
			return res, err
		}

		data, ci, err := reader.ReadPacketData()
		if errors.Is(err, io.EOF) {
			monitoring.Logf("PCAP replay complete: %d packets, %d scans", res.Packets, res.Frames)
			return res, nil
		}
		if err != nil {
			return res, fmt.Errorf("failed to read pcap packet: %w", err)
		}

		packet := gopacket.NewPacket(data, reader.LinkType(), gopacket.DecodeOptions{Lazy: true, NoCopy: true})
		udp, ok := packet.Layer(layers.LayerTypeUDP).(*layers.UDP)
		if !ok || (port != 0 && int(udp.DstPort) != port) || len(udp.Payload) == 0 {
			res.Skipped++
			continue
		}
		res.Packets++

		if opts.Speed > 0 {
			if !lastCapture.IsZero() {
				gap := time.Duration(float64(ci.Timestamp.Sub(lastCapture)) / opts.Speed)
				if gap > 0 {
					select {
					case <-ctx.Done():
						return res, ctx.Err()
					case <-clock.After(gap):
					}
				}
			}
			lastCapture = ci.Timestamp
		}

		delivered, err := frames.handle(udp.Payload)
		if err != nil {
			monitoring.Logf("Error decoding PCAP packet %d: %v", res.Packets, err)
			continue
		}
		if delivered {
			res.Frames++
		}
	}
}
