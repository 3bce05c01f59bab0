// Package wire encodes the datagrams exchanged with the lidar bridge and the
// motor controller. Messages use the protobuf wire format so either side can
// be implemented with generated code:
//
//	message ScanFrame {
//	  uint64 seq = 1;
//	  repeated float ranges = 2 [packed = true];
//	}
//
//	message VelocityCommand {
//	  uint64 seq = 1;
//	  double forward = 2;
//	  double turn = 3;
//	  int64 unix_nanos = 4;
//	}
//
// Unknown fields are skipped on decode.
package wire

import (
	"errors"
	"fmt"
	"io"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers.
const (
	scanSeq    protowire.Number = 1
	scanRanges protowire.Number = 2

	cmdSeq       protowire.Number = 1
	cmdForward   protowire.Number = 2
	cmdTurn      protowire.Number = 3
	cmdUnixNanos protowire.Number = 4
)

// ErrTruncated is returned when a frame ends in the middle of a field.
var ErrTruncated = errors.New("wire: truncated frame")

// ScanFrame is one full range scan. +Inf marks a sample with no return.
type ScanFrame struct {
	Seq    uint64
	Ranges []float64
}

// VelocityCommand is one command for the motor controller.
type VelocityCommand struct {
	Seq       uint64
	Forward   float64
	Turn      float64
	UnixNanos int64
}

// AppendScanFrame appends the encoding of f to b.
func AppendScanFrame(b []byte, f ScanFrame) []byte {
	b = protowire.AppendTag(b, scanSeq, protowire.VarintType)
	b = protowire.AppendVarint(b, f.Seq)

	packed := make([]byte, 0, 4*len(f.Ranges))
	for _, r := range f.Ranges {
		packed = protowire.AppendFixed32(packed, math.Float32bits(float32(r)))
	}
	b = protowire.AppendTag(b, scanRanges, protowire.BytesType)
	return protowire.AppendBytes(b, packed)
}

// ParseScanFrame decodes a ScanFrame. Repeated ranges fields concatenate,
// and unpacked fixed32 entries are accepted too.
func ParseScanFrame(b []byte) (ScanFrame, error) {
	var f ScanFrame
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return f, fieldError("tag", n)
		}
		b = b[n:]

		switch {
		case num == scanSeq && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return f, fieldError("seq", n)
			}
			f.Seq = v
			b = b[n:]
		case num == scanRanges && typ == protowire.BytesType:
			packed, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return f, fieldError("ranges", n)
			}
			if len(packed)%4 != 0 {
				return f, fmt.Errorf("ranges: %d bytes is not a whole number of floats: %w", len(packed), ErrTruncated)
			}
			for len(packed) > 0 {
				v, m := protowire.ConsumeFixed32(packed)
				f.Ranges = append(f.Ranges, float64(math.Float32frombits(v)))
				packed = packed[m:]
			}
			b = b[n:]
		case num == scanRanges && typ == protowire.Fixed32Type:
			v, n := protowire.ConsumeFixed32(b)
			if n < 0 {
				return f, fieldError("ranges", n)
			}
			f.Ranges = append(f.Ranges, float64(math.Float32frombits(v)))
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return f, fieldError(fmt.Sprintf("field %d", num), n)
			}
			b = b[n:]
		}
	}
	return f, nil
}

// AppendCommand appends the encoding of c to b.
func AppendCommand(b []byte, c VelocityCommand) []byte {
	b = protowire.AppendTag(b, cmdSeq, protowire.VarintType)
	b = protowire.AppendVarint(b, c.Seq)
	b = protowire.AppendTag(b, cmdForward, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, math.Float64bits(c.Forward))
	b = protowire.AppendTag(b, cmdTurn, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, math.Float64bits(c.Turn))
	b = protowire.AppendTag(b, cmdUnixNanos, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(c.UnixNanos))
}

// ParseCommand decodes a VelocityCommand.
func ParseCommand(b []byte) (VelocityCommand, error) {
	var c VelocityCommand
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return c, fieldError("tag", n)
		}
		b = b[n:]

		switch {
		case num == cmdSeq && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return c, fieldError("seq", n)
			}
			c.Seq, b = v, b[n:]
		case num == cmdForward && typ == protowire.Fixed64Type:
			v, n := protowire.ConsumeFixed64(b)
			if n < 0 {
				return c, fieldError("forward", n)
			}
			c.Forward, b = math.Float64frombits(v), b[n:]
		case num == cmdTurn && typ == protowire.Fixed64Type:
			v, n := protowire.ConsumeFixed64(b)
			if n < 0 {
				return c, fieldError("turn", n)
			}
			c.Turn, b = math.Float64frombits(v), b[n:]
		case num == cmdUnixNanos && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return c, fieldError("unix_nanos", n)
			}
			c.UnixNanos, b = int64(v), b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return c, fieldError(fmt.Sprintf("field %d", num), n)
			}
			b = b[n:]
		}
	}
	return c, nil
}

func fieldError(field string, n int) error {
	err := protowire.ParseError(n)
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%s: %w: %w", field, ErrTruncated, err)
	}
	return fmt.Errorf("%s: %w", field, err)
}
