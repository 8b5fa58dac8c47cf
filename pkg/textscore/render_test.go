package textscore

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pixelveil/pkg/bitstream"
)

func payload(b []byte) bitstream.Payload {
	return bitstream.Payload{Bytes: b}
}

func TestRenderASCII(t *testing.T) {
	p := payload([]byte{'H', 'i', 0x00, '\t', 0x07, 0x80, '!'})
	r := Render(p, ModeASCII)
	// Zero byte vanishes, control and high bytes become dots.
	assert.Equal(t, "Hi\t..!", r.Text)
	assert.Zero(t, r.Replacements)
}

func TestRenderUTF8Valid(t *testing.T) {
	p := payload([]byte("caf\xc3\xa9 ok"))
	r := Render(p, ModeUTF8)
	assert.Equal(t, "café ok", r.Text)
	assert.Zero(t, r.Replacements)
}

func TestRenderUTF8Invalid(t *testing.T) {
	p := payload([]byte{'a', 0xff, 'b', 0x01})
	r := Render(p, ModeUTF8)
	assert.Equal(t, "a_b.", r.Text)
	assert.Equal(t, 1, r.Replacements)
	assert.Equal(t, 1, r.FirstReplacement)
}

func TestRenderUTF8RunsSplitByZeros(t *testing.T) {
	// A zero byte in the middle of what would be a multi-byte sequence
	// must split the runs, not merge across the gap.
	p := payload([]byte{'h', 'i', 0x00, 0x00, 'y', 'o'})
	r := Render(p, ModeUTF8)
	assert.Equal(t, "hiyo", r.Text)
	assert.Zero(t, r.TrailingZeros, "interior zeros are not trailing padding")
}

func TestRenderTailMarker(t *testing.T) {
	nonzero := bitstream.Payload{Bytes: []byte("ok"), HasTail: true, TailBits: 0x3, TailLen: 2}
	assert.Equal(t, "ok_", Render(nonzero, ModeUTF8).Text)
	assert.Equal(t, "ok_", Render(nonzero, ModeASCII).Text)

	zero := bitstream.Payload{Bytes: []byte("ok"), HasTail: true, TailBits: 0, TailLen: 2}
	assert.Equal(t, "ok", Render(zero, ModeUTF8).Text, "all-zero tail is harmless padding")
}

func TestRenderTrailingZeroCount(t *testing.T) {
	p := payload([]byte{'x', 0, 0, 0})
	r := Render(p, ModeUTF8)
	assert.Equal(t, 3, r.TrailingZeros)
	assert.Equal(t, "x", r.Text)
}

func TestStripPadMarker(t *testing.T) {
	assert.Equal(t, "msg", StripPadMarker("msg_"))
	assert.Equal(t, "msg", StripPadMarker("msg"))
}
