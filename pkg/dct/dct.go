// Package dct implements a JPEG-resilient steganographic codec. Each
// 8x8 block of the image carries one payload bit, embedded by forcing
// the quantized value of one mid-frequency luminance DCT coefficient
// to a chosen parity (quantization index modulation).
package dct

import (
	"math"

	"pixelveil/pkg/pixels"
)

const blockSize = 8

// cosTable[u][i] = cos((2i+1) * u * pi / 16), shared by the forward
// and inverse transforms.
var cosTable [blockSize][blockSize]float64

// scale[u] is the orthonormal DCT-II basis scale: 1/sqrt(2) for the DC
// term, 1 otherwise (the common 1/4 factor is applied in the loops).
var scale [blockSize]float64

func init() {
	for u := 0; u < blockSize; u++ {
		for i := 0; i < blockSize; i++ {
			cosTable[u][i] = math.Cos(float64(2*i+1) * float64(u) * math.Pi / 16)
		}
		scale[u] = 1
	}
	scale[0] = 1 / math.Sqrt2
}

// forwardDCT transforms a level-shifted 8x8 luminance block into
// frequency coefficients. Accumulation is row-major so results are
// bit-identical across runs, which the round-trip tests rely on.
func forwardDCT(block *[blockSize][blockSize]float64) [blockSize][blockSize]float64 {
	var coef [blockSize][blockSize]float64
	for u := 0; u < blockSize; u++ {
		for v := 0; v < blockSize; v++ {
			sum := 0.0
			for y := 0; y < blockSize; y++ {
				for x := 0; x < blockSize; x++ {
					sum += block[y][x] * cosTable[u][y] * cosTable[v][x]
				}
			}
			coef[u][v] = 0.25 * scale[u] * scale[v] * sum
		}
	}
	return coef
}

// inverseDCT is the exact inverse of forwardDCT.
func inverseDCT(coef *[blockSize][blockSize]float64) [blockSize][blockSize]float64 {
	var block [blockSize][blockSize]float64
	for y := 0; y < blockSize; y++ {
		for x := 0; x < blockSize; x++ {
			sum := 0.0
			for u := 0; u < blockSize; u++ {
				for v := 0; v < blockSize; v++ {
					sum += scale[u] * scale[v] * coef[u][v] * cosTable[u][y] * cosTable[v][x]
				}
			}
			block[y][x] = 0.25 * sum
		}
	}
	return block
}

// luminance computes the block's Y values, level-shifted by -128.
func luminance(buf *pixels.Buffer, bx, by int) [blockSize][blockSize]float64 {
	var block [blockSize][blockSize]float64
	for y := 0; y < blockSize; y++ {
		for x := 0; x < blockSize; x++ {
			r, g, b := buf.RGB(bx*blockSize+x, by*blockSize+y)
			lum := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
			block[y][x] = lum - 128
		}
	}
	return block
}

// coeffBit derives the embedded bit from one coefficient: the parity
// of its quantization index, normalized to be non-negative.
func coeffBit(coef, step float64) int {
	q := int(math.Round(coef / step))
	return ((q % 2) + 2) % 2
}

// embedCoeff returns the coefficient value that carries bit b. On a
// parity match the value snaps to the quantized lattice point; on a
// mismatch the nearer neighboring lattice point wins, ties going up.
func embedCoeff(coef, step float64, b int) float64 {
	q := int(math.Round(coef / step))
	if ((q%2)+2)%2 == b {
		return float64(q) * step
	}
	up := float64(q+1) * step
	down := float64(q-1) * step
	if math.Abs(coef-down) < math.Abs(coef-up) {
		return down
	}
	return up
}
