package dct

import (
	"errors"
	"fmt"

	"pixelveil/pkg/bitstream"
	"pixelveil/pkg/lsb"
	"pixelveil/pkg/pixels"
)

// Wire format: [u16 magic LE][u16 length LE][length payload bytes],
// streamed LSB-first, one bit per 8x8 block in row-major block order.
const (
	magic      = 0x5153
	headerBits = 32
)

// Params controls the QIM embedding.
type Params struct {
	Step   float64 // quantization step
	CoeffU int     // coefficient row (vertical frequency)
	CoeffV int     // coefficient column
}

// DefaultParams matches the shipped encoder settings.
func DefaultParams() Params {
	return Params{Step: 50, CoeffU: 2, CoeffV: 1}
}

// ErrMessageTooLong means the payload length does not fit the 16-bit
// length field.
var ErrMessageTooLong = errors.New("message too long for 16-bit length field")

// Result is the outcome of a blind DCT decode. Found is false when the
// magic does not match or the advertised length cannot fit, which is
// the normal outcome on arbitrary or recompressed input.
type Result struct {
	Found   bool
	Message []byte
}

// BlockCapacity returns the number of embeddable bits (blocks).
func BlockCapacity(width, height int) int {
	return (width / blockSize) * (height / blockSize)
}

// Encode embeds message into a copy of buf, one framed bit per block.
func Encode(buf *pixels.Buffer, message []byte, p Params) (*pixels.Buffer, error) {
	if len(message) > 0xffff {
		return nil, fmt.Errorf("%w: %d bytes", ErrMessageTooLong, len(message))
	}

	frame := make([]byte, 0, 4+len(message))
	frame = append(frame, byte(magic&0xff), byte(magic>>8))
	frame = append(frame, byte(len(message)&0xff), byte(len(message)>>8))
	frame = append(frame, message...)

	bits := bitstream.ToBits(frame)
	capacity := BlockCapacity(buf.Width, buf.Height)
	if len(bits) > capacity {
		return nil, &lsb.CapacityError{RequiredBits: len(bits), AvailableBits: capacity}
	}

	out := buf.Clone()
	blocksX := buf.Width / blockSize
	for i, bit := range bits {
		bx, by := i%blocksX, i/blocksX
		embedBlock(out, bx, by, int(bit), p)
	}
	return out, nil
}

// embedBlock writes one bit into block (bx, by): transform, move the
// target coefficient to the wanted parity, inverse transform, and add
// the luminance delta to all three color channels.
func embedBlock(buf *pixels.Buffer, bx, by, bit int, p Params) {
	orig := luminance(buf, bx, by)
	coef := forwardDCT(&orig)
	coef[p.CoeffU][p.CoeffV] = embedCoeff(coef[p.CoeffU][p.CoeffV], p.Step, bit)
	next := inverseDCT(&coef)

	for y := 0; y < blockSize; y++ {
		for x := 0; x < blockSize; x++ {
			delta := next[y][x] - orig[y][x]
			i := buf.Offset(bx*blockSize+x, by*blockSize+y)
			for c := 0; c < 3; c++ {
				buf.Pix[i+c] = clampByte(float64(buf.Pix[i+c]) + delta)
			}
		}
	}
}

func clampByte(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v + 0.5)
}

// Decode reads one bit per block across the whole image and validates
// the frame. It never returns an error for malformed content.
func Decode(buf *pixels.Buffer, p Params) Result {
	capacity := BlockCapacity(buf.Width, buf.Height)
	if capacity < headerBits {
		return Result{}
	}

	blocksX := buf.Width / blockSize
	bits := make([]byte, capacity)
	for i := 0; i < capacity; i++ {
		bx, by := i%blocksX, i/blocksX
		block := luminance(buf, bx, by)
		coef := forwardDCT(&block)
		bits[i] = byte(coeffBit(coef[p.CoeffU][p.CoeffV], p.Step))
	}

	header := bitstream.FromBits(bits[:headerBits]).Bytes
	gotMagic := uint16(header[0]) | uint16(header[1])<<8
	if gotMagic != magic {
		return Result{}
	}
	length := int(header[2]) | int(header[3])<<8
	if headerBits+length*8 > capacity {
		return Result{}
	}

	payload := bitstream.FromBits(bits[headerBits : headerBits+length*8])
	return Result{Found: true, Message: payload.Bytes}
}
