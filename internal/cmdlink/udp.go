// Package cmdlink delivers velocity commands from the control loop to the
// motor controller.
package cmdlink

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/banshee-data/gapnav/internal/monitoring"
	"github.com/banshee-data/gapnav/internal/nav"
	"github.com/banshee-data/gapnav/internal/timeutil"
	"github.com/banshee-data/gapnav/internal/wire"
)

// ErrQueueFull is returned by Publish when the send queue is full and the
// command was dropped.
var ErrQueueFull = errors.New("cmdlink: send queue full")

// ErrClosed is returned by Publish after Close.
var ErrClosed = errors.New("cmdlink: publisher closed")

// UDPConfig configures a UDPPublisher.
type UDPConfig struct {
	Address     string
	QueueSize   int
	LogInterval time.Duration
	Clock       timeutil.Clock
}

// UDPPublisher encodes commands as VelocityCommand datagrams and sends them
// from a background goroutine. Publish never blocks.
type UDPPublisher struct {
	conn        *net.UDPConn
	queue       chan wire.VelocityCommand
	clock       timeutil.Clock
	logInterval time.Duration
	address     string

	// sendMu orders queued sends against the final stop in Close.
	sendMu sync.Mutex

	seq     atomic.Uint64
	sent    atomic.Uint64
	dropped atomic.Uint64
	failed  atomic.Uint64
	closed  atomic.Bool
}

// NewUDPPublisher dials the motor controller.
func NewUDPPublisher(cfg UDPConfig) (*UDPPublisher, error) {
	addr, err := net.ResolveUDPAddr("udp", cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve command address: %w", err)
	}
	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to create command connection: %w", err)
	}

	size := cfg.QueueSize
	if size <= 0 {
		size = 16
	}
	clock := cfg.Clock
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	logInterval := cfg.LogInterval
	if logInterval <= 0 {
		logInterval = 30 * time.Second
	}

	return &UDPPublisher{
		conn:        conn,
		queue:       make(chan wire.VelocityCommand, size),
		clock:       clock,
		logInterval: logInterval,
		address:     cfg.Address,
	}, nil
}

// Start runs the send loop until ctx is cancelled.
func (p *UDPPublisher) Start(ctx context.Context) {
	go func() {
		failedSinceLog := 0
		var lastError error
		ticker := time.NewTicker(p.logInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-p.queue:
				if err := p.sendQueued(msg); err != nil {
					failedSinceLog++
					lastError = err
				}
			case <-ticker.C:
				if failedSinceLog > 0 {
					monitoring.Logf("Failed to send %d commands (latest: %v)", failedSinceLog, lastError)
					failedSinceLog, lastError = 0, nil
				}
			}
		}
	}()

	monitoring.Logf("Sending commands to %s", p.address)
}

func (p *UDPPublisher) sendQueued(msg wire.VelocityCommand) error {
	p.sendMu.Lock()
	defer p.sendMu.Unlock()
	if p.closed.Load() {
		return nil
	}
	return p.send(msg)
}

func (p *UDPPublisher) send(msg wire.VelocityCommand) error {
	if _, err := p.conn.Write(wire.AppendCommand(nil, msg)); err != nil {
		p.failed.Add(1)
		return err
	}
	p.sent.Add(1)
	return nil
}

func (p *UDPPublisher) message(cmd nav.Command) wire.VelocityCommand {
	return wire.VelocityCommand{
		Seq:       p.seq.Add(1),
		Forward:   cmd.Forward,
		Turn:      cmd.Turn,
		UnixNanos: p.clock.Now().UnixNano(),
	}
}

// Publish queues cmd for sending.
func (p *UDPPublisher) Publish(cmd nav.Command) error {
	if p.closed.Load() {
		return ErrClosed
	}
	select {
	case p.queue <- p.message(cmd):
		return nil
	default:
		p.dropped.Add(1)
		return ErrQueueFull
	}
}

// Sent returns how many datagrams were written.
func (p *UDPPublisher) Sent() uint64 { return p.sent.Load() }

// Dropped returns how many commands were discarded on a full queue.
func (p *UDPPublisher) Dropped() uint64 { return p.dropped.Load() }

// Failed returns how many datagram writes failed.
func (p *UDPPublisher) Failed() uint64 { return p.failed.Load() }

// Close sends a final stop command directly, bypassing the queue, and
// closes the connection. Nothing is sent after the stop.
func (p *UDPPublisher) Close() error {
	p.sendMu.Lock()
	defer p.sendMu.Unlock()
	if p.closed.Swap(true) {
		return nil
	}
	if err := p.send(p.message(nav.Stop)); err != nil {
		monitoring.Logf("Failed to send stop command on close: %v", err)
	}
	return p.conn.Close()
}
