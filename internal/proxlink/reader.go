// Package proxlink reads the three front infrared range sensors from the
// sensor board over a serial line and publishes each reading into the shared
// proximity state.
package proxlink

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"go.bug.st/serial"
	"tailscale.com/tsweb"

	"github.com/banshee-data/gapnav/internal/httputil"
	"github.com/banshee-data/gapnav/internal/monitoring"
	"github.com/banshee-data/gapnav/internal/sensors"
)

var ErrWriteFailed = errors.New("failed to write to serial port")

// SerialPorter is the minimal interface needed for a serial port.
type SerialPorter interface {
	io.ReadWriter
	io.Closer
}

// Reader owns the serial port and writes parsed readings into the
// proximity state, one ChannelWriter per sensor.
type Reader struct {
	port    SerialPorter
	writers [sensors.NumChannels]sensors.ChannelWriter

	commandMu sync.Mutex

	lines    atomic.Uint64
	rejected atomic.Uint64
	lastLine atomic.Pointer[string]
}

// NewReader wraps an open port.
func NewReader(port SerialPorter, state *sensors.ProximityState) *Reader {
	r := &Reader{port: port}
	for _, c := range sensors.Channels {
		r.writers[c] = state.Writer(c)
	}
	return r
}

// Open opens the serial device at path and wraps it in a Reader.
func Open(path string, opts PortOptions, state *sensors.ProximityState) (*Reader, error) {
	opts, err := opts.Normalize()
	if err != nil {
		return nil, err
	}
	mode, err := opts.SerialMode()
	if err != nil {
		return nil, err
	}
	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	monitoring.Logf("Opened proximity board %s (%s)", path, opts)
	return NewReader(port, state), nil
}

// Lines returns how many non-empty lines have been read.
func (r *Reader) Lines() uint64 { return r.lines.Load() }

// Rejected returns how many lines failed to parse.
func (r *Reader) Rejected() uint64 { return r.rejected.Load() }

// LastLine returns the most recent raw line, or "" before the first.
func (r *Reader) LastLine() string {
	if p := r.lastLine.Load(); p != nil {
		return *p
	}
	return ""
}

// HandleLine parses one line and stores its readings.
func (r *Reader) HandleLine(line string) error {
	readings, err := ParseLine(line)
	if err != nil {
		r.rejected.Add(1)
		return err
	}
	if len(readings) == 0 {
		return nil
	}
	r.lines.Add(1)
	r.lastLine.Store(&line)
	for _, rd := range readings {
		r.writers[rd.Channel].Write(rd.Distance)
	}
	return nil
}

// SendCommand writes a newline-terminated command to the board.
func (r *Reader) SendCommand(command string) error {
	r.commandMu.Lock()
	defer r.commandMu.Unlock()
	if !strings.HasSuffix(command, "\n") {
		command += "\n"
	}
	n, err := r.port.Write([]byte(command))
	if err != nil {
		return err
	}
	if n != len(command) {
		return ErrWriteFailed
	}
	return nil
}

// Monitor reads lines until ctx is cancelled or the port reaches EOF.
// Bad lines are logged and skipped. Cancelling ctx does not interrupt a
// blocked read; Close the reader to release it.
func (r *Reader) Monitor(ctx context.Context) error {
	scan := bufio.NewScanner(r.port)

	lineChan := make(chan string)
	scanErrChan := make(chan error, 1)

	go func() {
		defer close(lineChan)
		for scan.Scan() {
			select {
			case lineChan <- scan.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scan.Err(); err != nil {
			select {
			case scanErrChan <- err:
			case <-ctx.Done():
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-scanErrChan:
			return err

		case line, ok := <-lineChan:
			if !ok {
				select {
				case err := <-scanErrChan:
					return err
				default:
				}
				return nil
			}
			if err := r.HandleLine(line); err != nil {
				n := r.rejected.Load()
				if n == 1 || n%100 == 0 {
					monitoring.Logf("proximity: rejected line %q (%d so far): %v", line, n, err)
				}
			}
		}
	}
}

// Close closes the serial port.
func (r *Reader) Close() error {
	return r.port.Close()
}

// AttachAdminRoutes registers the proximity link's debug endpoints.
func (r *Reader) AttachAdminRoutes(mux *http.ServeMux) {
	debug := tsweb.Debugger(mux)

	debug.KVFunc("Proximity lines", func() any { return r.Lines() })
	debug.KVFunc("Proximity rejected", func() any { return r.Rejected() })

	debug.HandleSilentFunc("prox-last", func(w http.ResponseWriter, req *http.Request) {
		io.WriteString(w, r.LastLine()+"\n")
	})

	debug.HandleSilentFunc("prox-send", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			httputil.MethodNotAllowed(w)
			return
		}
		command := strings.TrimSpace(req.FormValue("command"))
		if command == "" {
			httputil.BadRequest(w, "missing command")
			return
		}
		if err := r.SendCommand(command); err != nil {
			httputil.InternalServerError(w, fmt.Sprintf("failed to write command: %v", err))
			return
		}
		fmt.Fprintf(w, "Wrote command %q to serial port", command)
	})
}
