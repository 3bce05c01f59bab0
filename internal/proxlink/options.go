package proxlink

import (
	"fmt"
	"strings"

	"go.bug.st/serial"
)

// Defaults for the proximity board's UART.
const (
	DefaultBaudRate = 115200
	DefaultDataBits = 8
	DefaultStopBits = 1
)

// PortOptions describes the serial connection to the proximity board. Zero
// values select the board defaults (115200 8N1).
type PortOptions struct {
	BaudRate int    `json:"baud_rate"`
	DataBits int    `json:"data_bits"`
	StopBits int    `json:"stop_bits"`
	Parity   string `json:"parity"`
}

// parityAliases maps accepted spellings onto the canonical N/E/O letter.
var parityAliases = map[string]string{
	"": "N", "N": "N", "NONE": "N",
	"E": "E", "EVEN": "E",
	"O": "O", "ODD": "O",
}

var parityModes = map[string]serial.Parity{
	"N": serial.NoParity,
	"E": serial.EvenParity,
	"O": serial.OddParity,
}

var stopBitModes = map[int]serial.StopBits{
	1: serial.OneStopBit,
	2: serial.TwoStopBits,
}

// Normalize fills in defaults and rejects framings the board cannot use.
func (o PortOptions) Normalize() (PortOptions, error) {
	if o.BaudRate <= 0 {
		o.BaudRate = DefaultBaudRate
	}
	if o.DataBits == 0 {
		o.DataBits = DefaultDataBits
	}
	if o.StopBits == 0 {
		o.StopBits = DefaultStopBits
	}

	if o.DataBits < 5 || o.DataBits > 8 {
		return o, fmt.Errorf("proxlink: data bits %d out of range 5-8", o.DataBits)
	}
	if _, ok := stopBitModes[o.StopBits]; !ok {
		return o, fmt.Errorf("proxlink: stop bits %d not 1 or 2", o.StopBits)
	}
	parity, ok := parityAliases[strings.ToUpper(strings.TrimSpace(o.Parity))]
	if !ok {
		return o, fmt.Errorf("proxlink: parity %q not one of N, E, O", o.Parity)
	}
	o.Parity = parity
	return o, nil
}

// SerialMode returns the go.bug.st/serial mode for the normalized options.
func (o PortOptions) SerialMode() (*serial.Mode, error) {
	n, err := o.Normalize()
	if err != nil {
		return nil, err
	}
	return &serial.Mode{
		BaudRate: n.BaudRate,
		DataBits: n.DataBits,
		Parity:   parityModes[n.Parity],
		StopBits: stopBitModes[n.StopBits],
	}, nil
}

func (o PortOptions) String() string {
	return fmt.Sprintf("%d %d%s%d", o.BaudRate, o.DataBits, o.Parity, o.StopBits)
}
