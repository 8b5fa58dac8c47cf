package bitstream

import (
	"bytes"
	"testing"
)

func TestToBitsLSBFirst(t *testing.T) {
	bits := ToBits([]byte{0x01, 0x80})
	want := []byte{
		1, 0, 0, 0, 0, 0, 0, 0, // 0x01, LSB first
		0, 0, 0, 0, 0, 0, 0, 1, // 0x80
	}
	if !bytes.Equal(bits, want) {
		t.Fatalf("ToBits = %v, want %v", bits, want)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, data := range [][]byte{
		nil,
		{0x00},
		{0xff},
		[]byte("Hello, World!"),
		{0xde, 0xad, 0xbe, 0xef, 0x00, 0x01},
	} {
		p := FromBits(ToBits(data))
		if !bytes.Equal(p.Bytes, data) {
			t.Errorf("round trip of %v = %v", data, p.Bytes)
		}
		if p.HasTail {
			t.Errorf("unexpected tail for %v", data)
		}
	}
}

func TestTail(t *testing.T) {
	// 12 bits: one full byte plus a 4-bit tail of value 0b0101.
	bits := append(ToBits([]byte{0xa5}), 1, 0, 1, 0)
	p := FromBits(bits)

	if len(p.Bytes) != 1 || p.Bytes[0] != 0xa5 {
		t.Fatalf("bytes = %v, want [0xa5]", p.Bytes)
	}
	if !p.HasTail {
		t.Fatal("expected a tail")
	}
	if p.TailBits != 0x05 || p.TailLen != 4 {
		t.Fatalf("tail = %#x len %d, want 0x5 len 4", p.TailBits, p.TailLen)
	}
}

func TestAllZeroTail(t *testing.T) {
	p := FromBits([]byte{0, 0, 0})
	if !p.HasTail || p.TailBits != 0 || len(p.Bytes) != 0 {
		t.Fatalf("got %+v, want empty bytes with zero 3-bit tail", p)
	}
}
