// Package lsb embeds and extracts bit streams in the low bits of
// selected RGB channels of a pixel buffer.
package lsb

import (
	"errors"
	"fmt"

	"pixelveil/pkg/bitstream"
	"pixelveil/pkg/pixels"
)

// PixelOrder selects the traversal direction over the image.
type PixelOrder int

const (
	RowMajor PixelOrder = iota
	ColumnMajor
)

// ParseOrder maps the CLI/config tokens onto a PixelOrder.
func ParseOrder(s string) (PixelOrder, error) {
	switch s {
	case "row":
		return RowMajor, nil
	case "column", "col":
		return ColumnMajor, nil
	}
	return 0, fmt.Errorf("%w: unknown pixel order %q", ErrInvalidConfig, s)
}

func (o PixelOrder) String() string {
	if o == ColumnMajor {
		return "column"
	}
	return "row"
}

// Config describes one embedding parameter set.
type Config struct {
	BitsPerChannel int
	UseR           bool
	UseG           bool
	UseB           bool
	Order          PixelOrder
	// FillWithZeros keeps writing zero bits through the full channel
	// capacity once the message is exhausted, instead of stopping
	// early and leaving the remaining pixels untouched.
	FillWithZeros bool
}

// ErrInvalidConfig reports a config rejected before any pixel access.
var ErrInvalidConfig = errors.New("invalid channel config")

// CapacityError reports a message that does not fit the image.
type CapacityError struct {
	RequiredBits  int
	AvailableBits int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("message exceeds capacity: need %d bits, have %d", e.RequiredBits, e.AvailableBits)
}

// Validate checks bounds and channel selection.
func (c Config) Validate() error {
	if c.BitsPerChannel < 1 || c.BitsPerChannel > 8 {
		return fmt.Errorf("%w: bits per channel must be 1..8, got %d", ErrInvalidConfig, c.BitsPerChannel)
	}
	if !c.UseR && !c.UseG && !c.UseB {
		return fmt.Errorf("%w: no channel selected", ErrInvalidConfig)
	}
	if c.Order != RowMajor && c.Order != ColumnMajor {
		return fmt.Errorf("%w: bad pixel order %d", ErrInvalidConfig, c.Order)
	}
	return nil
}

// Channels returns the number of selected channels.
func (c Config) Channels() int {
	n := 0
	if c.UseR {
		n++
	}
	if c.UseG {
		n++
	}
	if c.UseB {
		n++
	}
	return n
}

// ChannelString renders the selection as "RGB", "RG", "B", ...
func (c Config) ChannelString() string {
	s := ""
	if c.UseR {
		s += "R"
	}
	if c.UseG {
		s += "G"
	}
	if c.UseB {
		s += "B"
	}
	return s
}

// Capacity returns the number of payload bits the image can hold
// under this config.
func Capacity(width, height int, c Config) int {
	return width * height * c.Channels() * c.BitsPerChannel
}

// channelOffsets returns the Pix offsets of the selected channels,
// always in R, G, B order.
func (c Config) channelOffsets() []int {
	offs := make([]int, 0, 3)
	if c.UseR {
		offs = append(offs, 0)
	}
	if c.UseG {
		offs = append(offs, 1)
	}
	if c.UseB {
		offs = append(offs, 2)
	}
	return offs
}

// visit walks the pixel grid in the configured order, calling fn with
// each pixel's base offset. fn returns false to stop the walk.
func visit(buf *pixels.Buffer, order PixelOrder, fn func(base int) bool) {
	if order == ColumnMajor {
		for x := 0; x < buf.Width; x++ {
			for y := 0; y < buf.Height; y++ {
				if !fn(buf.Offset(x, y)) {
					return
				}
			}
		}
		return
	}
	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			if !fn(buf.Offset(x, y)) {
				return
			}
		}
	}
}

// Encode writes the message bits into a copy of buf and returns it.
// The source buffer is never modified. Under the stop-early policy
// (FillWithZeros false) pixels beyond the message keep their original
// low bits; under fill mode zero bits are written through the full
// capacity, so on decode the remainder reads back as zero bytes.
func Encode(buf *pixels.Buffer, message []byte, cfg Config) (*pixels.Buffer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	bits := bitstream.ToBits(message)
	capBits := Capacity(buf.Width, buf.Height, cfg)
	if len(bits) > capBits {
		return nil, &CapacityError{RequiredBits: len(bits), AvailableBits: capBits}
	}

	out := buf.Clone()
	offs := cfg.channelOffsets()
	mask := byte(0xff) << cfg.BitsPerChannel
	pos := 0

	visit(out, cfg.Order, func(base int) bool {
		for _, off := range offs {
			if pos >= len(bits) && !cfg.FillWithZeros {
				return false
			}
			var chunk byte
			for i := 0; i < cfg.BitsPerChannel; i++ {
				if pos < len(bits) {
					chunk |= bits[pos] << i
					pos++
				} else if cfg.FillWithZeros {
					pos++ // zero bit
				}
			}
			out.Pix[base+off] = out.Pix[base+off]&mask | chunk
		}
		return pos < len(bits) || cfg.FillWithZeros
	})

	return out, nil
}

// Decode reads every selected channel over the full image and packs
// the masked low bits back into bytes. It never fails; with wrong
// parameters the result is simply garbage, and judging that is the
// scoring layer's job.
func Decode(buf *pixels.Buffer, cfg Config) (bitstream.Payload, error) {
	if err := cfg.Validate(); err != nil {
		return bitstream.Payload{}, err
	}

	offs := cfg.channelOffsets()
	bits := make([]byte, 0, Capacity(buf.Width, buf.Height, cfg))

	visit(buf, cfg.Order, func(base int) bool {
		for _, off := range offs {
			v := buf.Pix[base+off]
			for i := 0; i < cfg.BitsPerChannel; i++ {
				bits = append(bits, (v>>i)&1)
			}
		}
		return true
	})

	return bitstream.FromBits(bits), nil
}
