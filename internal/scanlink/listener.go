package scanlink

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/banshee-data/gapnav/internal/monitoring"
)

// maxDatagram fits a 360-bin scan with headroom.
const maxDatagram = 8192

// ListenerConfig contains configuration options for the UDP listener.
type ListenerConfig struct {
	Address     string
	RcvBuf      int
	LogInterval time.Duration
	Sink        Sink
	Stats       *Stats
}

// Listener receives ScanFrame datagrams from the lidar bridge.
type Listener struct {
	address     string
	rcvBuf      int
	logInterval time.Duration
	stats       *Stats
	frames      *frameHandler

	mu   sync.Mutex
	conn *net.UDPConn
}

// NewListener creates a listener. It does not bind until Listen or Start.
func NewListener(cfg ListenerConfig) *Listener {
	stats := cfg.Stats
	if stats == nil {
		stats = NewStats()
	}
	logInterval := cfg.LogInterval
	if logInterval <= 0 {
		logInterval = time.Minute
	}
	return &Listener{
		address:     cfg.Address,
		rcvBuf:      cfg.RcvBuf,
		logInterval: logInterval,
		stats:       stats,
		frames:      newFrameHandler(cfg.Sink, stats),
	}
}

// Stats returns the listener's counters.
func (l *Listener) Stats() *Stats { return l.stats }

// Listen binds the UDP socket.
func (l *Listener) Listen() error {
	addr, err := net.ResolveUDPAddr("udp", l.address)
	if err != nil {
		return fmt.Errorf("failed to resolve UDP address: %w", err)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on UDP address: %w", err)
	}
	if l.rcvBuf > 0 {
		if err := conn.SetReadBuffer(l.rcvBuf); err != nil {
			monitoring.Logf("Warning: failed to set UDP receive buffer size to %d: %v", l.rcvBuf, err)
		}
	}

	l.mu.Lock()
	l.conn = conn
	l.mu.Unlock()
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (l *Listener) Addr() net.Addr {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.conn == nil {
		return nil
	}
	return l.conn.LocalAddr()
}

// Start binds the socket and serves until ctx is cancelled.
func (l *Listener) Start(ctx context.Context) error {
	if err := l.Listen(); err != nil {
		return err
	}
	return l.Serve(ctx)
}

// Serve reads datagrams until ctx is cancelled. Listen must have been called.
func (l *Listener) Serve(ctx context.Context) error {
	l.mu.Lock()
	conn := l.conn
	l.mu.Unlock()
	if conn == nil {
		return errors.New("scanlink: Serve called before Listen")
	}
	defer conn.Close()

	monitoring.Logf("Scan listener started on %s", conn.LocalAddr())
	go l.logStats(ctx)

	buffer := make([]byte, maxDatagram)
	for {
		select {
		case <-ctx.Done():
			monitoring.Logf("Scan listener stopping due to context cancellation")
			return ctx.Err()
		default:
		}

		// A short deadline lets the loop observe cancellation.
		conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))

		n, addr, err := conn.ReadFromUDP(buffer)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			monitoring.Logf("UDP read error: %v", err)
			continue
		}

		if _, err := l.frames.handle(buffer[:n]); err != nil {
			monitoring.Logf("Error handling scan from %v: %v", addr, err)
		}
	}
}

func (l *Listener) logStats(ctx context.Context) {
	ticker := time.NewTicker(l.logInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.stats.LogStats()
		}
	}
}

// Close closes the socket.
func (l *Listener) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.conn != nil {
		return l.conn.Close()
	}
	return nil
}
