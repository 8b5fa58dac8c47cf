// Package pixels provides the RGBA pixel buffer the codecs operate on,
// plus conversion to and from the standard library image types.
package pixels

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	// Registered decoders so image.Decode handles the common raster formats.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Buffer is a width x height RGBA image stored as row-major bytes,
// four interleaved channels per pixel.
type Buffer struct {
	Width  int
	Height int
	Pix    []byte // len == Width*Height*4
}

// New allocates an opaque black buffer of the given dimensions.
func New(width, height int) *Buffer {
	if width < 0 || height < 0 {
		return &Buffer{}
	}
	b := &Buffer{Width: width, Height: height, Pix: make([]byte, width*height*4)}
	for i := 3; i < len(b.Pix); i += 4 {
		b.Pix[i] = 0xff
	}
	return b
}

// Clone returns an independent copy. Codecs clone before writing so a
// caller's buffer is never mutated in place.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{Width: b.Width, Height: b.Height, Pix: make([]byte, len(b.Pix))}
	copy(out.Pix, b.Pix)
	return out
}

// Offset returns the index of pixel (x, y) in Pix.
func (b *Buffer) Offset(x, y int) int {
	return (y*b.Width + x) * 4
}

// RGB returns the color channels of pixel (x, y).
func (b *Buffer) RGB(x, y int) (r, g, bl byte) {
	i := b.Offset(x, y)
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2]
}

// FromImage flattens any image.Image into an RGBA buffer.
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	buf := &Buffer{Width: w, Height: h, Pix: make([]byte, w*h*4)}

	if src, ok := img.(*image.RGBA); ok && src.Stride == w*4 && bounds.Min == (image.Point{}) {
		copy(buf.Pix, src.Pix)
		return buf
	}

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	copy(buf.Pix, rgba.Pix)
	return buf
}

// ToImage converts the buffer back into a drawable image.
func (b *Buffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	copy(img.Pix, b.Pix)
	return img
}

// At implements a color lookup for debugging and tests.
func (b *Buffer) At(x, y int) color.RGBA {
	i := b.Offset(x, y)
	return color.RGBA{R: b.Pix[i], G: b.Pix[i+1], B: b.Pix[i+2], A: b.Pix[i+3]}
}

// Load reads an image file (png, jpeg, gif, bmp or tiff) into a buffer.
func Load(filename string) (*Buffer, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", filename, err)
	}
	return FromImage(img), nil
}

// SavePNG writes the buffer to a PNG file. PNG is lossless, which the
// LSB codec depends on.
func (b *Buffer) SavePNG(filename string) error {
	if b.Width == 0 || b.Height == 0 {
		return errors.New("empty buffer")
	}
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, b.ToImage())
}
