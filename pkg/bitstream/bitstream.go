// Package bitstream converts between byte sequences and ordered bit
// sequences. Bits are always emitted and consumed LSB-first within each
// byte, which is the order both image codecs write channel bits in.
package bitstream

// Payload is the result of packing a bit sequence back into bytes.
// When the stream length is not a multiple of eight, the leftover bits
// are zero-extended into TailBits and reported via HasTail; they are
// never appended to Bytes.
type Payload struct {
	Bytes    []byte
	HasTail  bool
	TailBits byte // partial final byte, valid only when HasTail
	TailLen  int  // number of bits in TailBits, 1..7
}

// ToBits expands data into a sequence of 0/1 bytes, least significant
// bit of each source byte first.
func ToBits(data []byte) []byte {
	bits := make([]byte, 0, len(data)*8)
	for _, b := range data {
		for i := 0; i < 8; i++ {
			bits = append(bits, (b>>i)&1)
		}
	}
	return bits
}

// FromBits consumes bits strictly FIFO in groups of eight and packs
// each group into a byte, first bit into the LSB. A final incomplete
// group becomes the payload tail.
func FromBits(bits []byte) Payload {
	var p Payload
	p.Bytes = make([]byte, 0, len(bits)/8)

	var cur byte
	n := 0
	for _, bit := range bits {
		if bit&1 == 1 {
			cur |= 1 << n
		}
		n++
		if n == 8 {
			p.Bytes = append(p.Bytes, cur)
			cur, n = 0, 0
		}
	}
	if n > 0 {
		p.HasTail = true
		p.TailBits = cur
		p.TailLen = n
	}
	return p
}
