package proxlink

import (
	"bytes"
	"errors"
	"io"
	"sync"
)

// MockPort implements SerialPorter for tests. Lines passed to Feed become
// readable; writes are captured.
type MockPort struct {
	r *io.PipeReader
	w *io.PipeWriter

	mu      sync.Mutex
	written bytes.Buffer
	closed  bool

	// WriteError is returned by the next Write call if set.
	WriteError error
	// ShortWrite makes Write report one byte fewer than requested.
	ShortWrite bool
}

// NewMockPort creates an open mock port.
func NewMockPort() *MockPort {
	r, w := io.Pipe()
	return &MockPort{r: r, w: w}
}

// Read returns fed data, blocking until some is available.
func (m *MockPort) Read(p []byte) (int, error) {
	return m.r.Read(p)
}

// Write captures p.
func (m *MockPort) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, errors.New("serial port closed")
	}
	if m.WriteError != nil {
		err := m.WriteError
		m.WriteError = nil
		return 0, err
	}
	m.written.Write(p)
	if m.ShortWrite && len(p) > 0 {
		return len(p) - 1, nil
	}
	return len(p), nil
}

// Close closes both ends; pending reads return EOF.
func (m *MockPort) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.w.Close()
	return nil
}

// Feed makes each line readable, newline-terminated. It blocks until the
// reader has consumed the data.
func (m *MockPort) Feed(lines ...string) error {
	for _, l := range lines {
		if _, err := io.WriteString(m.w, l+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// EndInput signals EOF to the reader without closing the write side.
func (m *MockPort) EndInput() {
	m.w.Close()
}

// Written returns everything written to the port so far.
func (m *MockPort) Written() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.written.String()
}
