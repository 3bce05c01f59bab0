package cmdlink

import (
	"errors"
	"sync"

	"github.com/banshee-data/gapnav/internal/monitoring"
	"github.com/banshee-data/gapnav/internal/nav"
)

// LogPublisher logs commands instead of sending them. Only changes are
// logged, so a steady command produces one line.
type LogPublisher struct {
	mu      sync.Mutex
	last    nav.Command
	started bool
	repeats int
}

// NewLogPublisher creates a LogPublisher.
func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

// Publish logs cmd if it differs from the previous one.
func (p *LogPublisher) Publish(cmd nav.Command) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started && cmd == p.last {
		p.repeats++
		return nil
	}
	if p.repeats > 0 {
		monitoring.Logf("command: %v (previous %v held for %d more ticks)", cmd, p.last, p.repeats)
	} else {
		monitoring.Logf("command: %v", cmd)
	}
	p.last, p.started, p.repeats = cmd, true, 0
	return nil
}

// MultiPublisher fans a command out to every publisher.
type MultiPublisher []nav.Publisher

// Publish sends cmd to each publisher and joins their errors.
func (m MultiPublisher) Publish(cmd nav.Command) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(cmd); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
