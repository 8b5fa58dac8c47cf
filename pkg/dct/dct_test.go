package dct

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixelveil/pkg/lsb"
	"pixelveil/pkg/pixels"
)

// makeCover builds a mid-gray cover with gentle deterministic texture,
// far from the clamp boundaries.
func makeCover(w, h int) *pixels.Buffer {
	buf := pixels.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := buf.Offset(x, y)
			v := byte(110 + (x*5+y*3)%40)
			buf.Pix[i+0] = v
			buf.Pix[i+1] = v + 8
			buf.Pix[i+2] = v - 6
		}
	}
	return buf
}

func TestDCTInverse(t *testing.T) {
	var block [8][8]float64
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			block[y][x] = float64((x*19+y*7)%256) - 128
		}
	}

	coef := forwardDCT(&block)
	back := inverseDCT(&coef)

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if math.Abs(back[y][x]-block[y][x]) > 1e-9 {
				t.Fatalf("IDCT(DCT) at (%d,%d) = %f, want %f", x, y, back[y][x], block[y][x])
			}
		}
	}
}

func TestQIMParity(t *testing.T) {
	step := 50.0
	for _, tc := range []struct {
		coef float64
		bit  int
	}{
		{0, 0}, {0, 1},
		{37, 0}, {37, 1},
		{-121, 0}, {-121, 1},
		{275, 0}, {275, 1},
	} {
		v := embedCoeff(tc.coef, step, tc.bit)
		assert.Equal(t, tc.bit, coeffBit(v, step), "coef %f bit %d -> %f", tc.coef, tc.bit, v)
		// The embedded value never moves more than one full step.
		assert.LessOrEqual(t, math.Abs(v-tc.coef), step*1.5+1e-9)
	}
}

func TestEmbedTieIsDeterministic(t *testing.T) {
	// Equidistant neighbors on a parity mismatch: the upper lattice
	// point wins.
	v := embedCoeff(50, 50, 0)
	assert.Equal(t, 100.0, v)
}

func TestRoundTrip(t *testing.T) {
	msg := []byte("hidden msg")
	// 96x96 pixels = 144 blocks; the frame needs (10+4)*8 = 112 bits.
	cover := makeCover(96, 96)

	stego, err := Encode(cover, msg, DefaultParams())
	require.NoError(t, err)

	res := Decode(stego, DefaultParams())
	require.True(t, res.Found, "message should survive the round trip")
	assert.Equal(t, msg, res.Message)
}

func TestEncodeDoesNotMutateSource(t *testing.T) {
	cover := makeCover(96, 96)
	before := append([]byte(nil), cover.Pix...)

	_, err := Encode(cover, []byte("x"), DefaultParams())
	require.NoError(t, err)
	assert.True(t, bytes.Equal(before, cover.Pix))
}

func TestDecodeCleanImageNotFound(t *testing.T) {
	res := Decode(makeCover(96, 96), DefaultParams())
	assert.False(t, res.Found)
	assert.Nil(t, res.Message)
}

func TestDecodeTinyImage(t *testing.T) {
	// Fewer blocks than header bits: graceful not-found.
	res := Decode(makeCover(16, 16), DefaultParams())
	assert.False(t, res.Found)
}

func TestMessageTooLong(t *testing.T) {
	cover := makeCover(8, 8)
	_, err := Encode(cover, make([]byte, 0x10000), DefaultParams())
	assert.ErrorIs(t, err, ErrMessageTooLong)
}

func TestCapacityExceeded(t *testing.T) {
	// 16x16 = 4 blocks, nowhere near the 40-bit frame for 1 byte.
	cover := makeCover(16, 16)
	_, err := Encode(cover, []byte("a"), DefaultParams())

	var capErr *lsb.CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 40, capErr.RequiredBits)
	assert.Equal(t, 4, capErr.AvailableBits)
}

func TestBlockCapacity(t *testing.T) {
	assert.Equal(t, 144, BlockCapacity(96, 96))
	assert.Equal(t, 0, BlockCapacity(7, 64))
	assert.Equal(t, 36, BlockCapacity(100, 25)) // 12x3 whole blocks, partials dropped
}
