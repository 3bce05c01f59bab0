package proxlink

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/banshee-data/gapnav/internal/sensors"
)

var (
	// ErrUnknownChannel is returned for a key that names no sensor.
	ErrUnknownChannel = errors.New("proxlink: unknown channel")
	// ErrInvalidReading is returned for a negative, NaN or malformed value.
	ErrInvalidReading = errors.New("proxlink: invalid reading")
)

// Reading is one distance report for one channel, in metres.
type Reading struct {
	Channel  sensors.Channel
	Distance float64
}

// ParseLine parses one line from the board, e.g. "L=0.42 C=inf R=1.3".
// Keys may be L/C/R, left/center/right or front_0/front_1/front_2. A value
// of "inf" or "-" means nothing is in range. Blank lines and lines starting
// with '#' carry no readings. A line with any bad token is rejected whole.
func ParseLine(line string) ([]Reading, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, nil
	}

	fields := strings.Fields(line)
	out := make([]Reading, 0, len(fields))
	for _, tok := range fields {
		key, value, ok := strings.Cut(tok, "=")
		if !ok {
			return nil, fmt.Errorf("token %q: %w", tok, ErrInvalidReading)
		}
		ch, err := sensors.ParseChannel(key)
		if err != nil {
			return nil, fmt.Errorf("token %q: %w", tok, ErrUnknownChannel)
		}
		d, err := parseDistance(value)
		if err != nil {
			return nil, fmt.Errorf("token %q: %w", tok, err)
		}
		out = append(out, Reading{Channel: ch, Distance: d})
	}
	return out, nil
}

func parseDistance(s string) (float64, error) {
	switch strings.ToLower(s) {
	case "inf", "+inf", "-":
		return math.Inf(1), nil
	}
	d, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(d) || d < 0 {
		return 0, ErrInvalidReading
	}
	return d, nil
}
