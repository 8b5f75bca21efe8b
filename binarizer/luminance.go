// Package binarizer turns grayscale frames into the 1-bit masks the rest of
// the pipeline works on. Two thresholding strategies are provided: a global
// two-peak histogram estimate and a block-local adaptive one that copes with
// illumination gradients across a camera frame.
package binarizer

import "image"

// Source supplies 8-bit luminance samples for one frame. Implementations
// must be safe for concurrent readers; the pipeline never writes through it.
type Source interface {
	// Row fills row (allocating if it is nil or too small) with the samples
	// of scanline y and returns it.
	Row(y int, row []byte) []byte

	// Matrix returns the full row-major sample buffer.
	Matrix() []byte

	Width() int
	Height() int
}

// Luminance is an immutable row-major 8-bit intensity grid. It is the frame
// handed to the decoder by whatever captures images; the decode core only
// ever reads it.
type Luminance struct {
	pix    []byte
	width  int
	height int
}

// NewLuminance wraps a row-major sample buffer. The buffer is not copied;
// the caller must not mutate it while a decode is in flight.
func NewLuminance(width, height int, pix []byte) *Luminance {
	if len(pix) < width*height {
		panic("binarizer: sample buffer smaller than width*height")
	}
	return &Luminance{pix: pix, width: width, height: height}
}

// FromImage converts any image to a luminance grid using the ITU-R 601-ish
// integer weights (306·R + 601·G + 117·B) >> 10. Fully transparent pixels
// become white so codes on transparent backgrounds stay readable.
func FromImage(img image.Image) *Luminance {
	if gray, ok := img.(*image.Gray); ok {
		return fromGray(gray)
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pix := make([]byte, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := img.At(bounds.Min.X+x, bounds.Min.Y+y)
			r, g, b, a := c.RGBA()
			if a == 0 {
				pix[y*w+x] = 0xFF
				continue
			}
			pix[y*w+x] = byte((306*(r>>8) + 601*(g>>8) + 117*(b>>8) + 0x200) >> 10)
		}
	}
	return &Luminance{pix: pix, width: w, height: h}
}

func fromGray(img *image.Gray) *Luminance {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pix := make([]byte, w*h)
	if img.Stride == w && bounds.Min == (image.Point{}) {
		copy(pix, img.Pix[:w*h])
	} else {
		for y := 0; y < h; y++ {
			off := (bounds.Min.Y+y)*img.Stride + bounds.Min.X
			copy(pix[y*w:(y+1)*w], img.Pix[off:off+w])
		}
	}
	return &Luminance{pix: pix, width: w, height: h}
}

// Row implements Source.
func (l *Luminance) Row(y int, row []byte) []byte {
	if y < 0 || y >= l.height {
		return nil
	}
	if len(row) < l.width {
		row = make([]byte, l.width)
	}
	copy(row, l.pix[y*l.width:(y+1)*l.width])
	return row
}

// Matrix implements Source. The returned buffer is a copy.
func (l *Luminance) Matrix() []byte {
	out := make([]byte, len(l.pix))
	copy(out, l.pix)
	return out
}

// Width returns the frame width in pixels.
func (l *Luminance) Width() int { return l.width }

// Height returns the frame height in pixels.
func (l *Luminance) Height() int { return l.height }

// Invert returns a new grid with every sample inverted, used to retry frames
// that carry light-on-dark symbols.
func (l *Luminance) Invert() *Luminance {
	pix := make([]byte, len(l.pix))
	for i, v := range l.pix {
		pix[i] = 0xFF - v
	}
	return &Luminance{pix: pix, width: l.width, height: l.height}
}
