// Package bitutil provides the bit-level primitives the decode pipeline is
// built on: a packed 2-D bit matrix and a most-significant-bit-first reader
// over a byte stream.
package bitutil

import "strings"

// BitMatrix is a 2-D grid of bits packed into 64-bit words, row by row.
// x addresses the column and y the row, with the origin at the top left.
type BitMatrix struct {
	width    int
	height   int
	rowWords int
	words    []uint64
}

// NewBitMatrix returns a square all-zero matrix of the given dimension.
func NewBitMatrix(dimension int) *BitMatrix {
	return NewBitMatrixWithSize(dimension, dimension)
}

// NewBitMatrixWithSize returns an all-zero matrix of the given width and height.
func NewBitMatrixWithSize(width, height int) *BitMatrix {
	if width < 1 || height < 1 {
		panic("bitutil: matrix dimensions must be positive")
	}
	rowWords := (width + 63) / 64
	return &BitMatrix{
		width:    width,
		height:   height,
		rowWords: rowWords,
		words:    make([]uint64, rowWords*height),
	}
}

// Get reports whether the bit at (x, y) is set.
func (m *BitMatrix) Get(x, y int) bool {
	return (m.words[y*m.rowWords+x>>6]>>(uint(x)&63))&1 != 0
}

// Set sets the bit at (x, y).
func (m *BitMatrix) Set(x, y int) {
	m.words[y*m.rowWords+x>>6] |= 1 << (uint(x) & 63)
}

// Unset clears the bit at (x, y).
func (m *BitMatrix) Unset(x, y int) {
	m.words[y*m.rowWords+x>>6] &^= 1 << (uint(x) & 63)
}

// Flip inverts the bit at (x, y).
func (m *BitMatrix) Flip(x, y int) {
	m.words[y*m.rowWords+x>>6] ^= 1 << (uint(x) & 63)
}

// SetRegion sets every bit in the rectangle of the given size whose top-left
// corner is at (left, top). The rectangle must lie inside the matrix.
func (m *BitMatrix) SetRegion(left, top, width, height int) {
	if left < 0 || top < 0 {
		panic("bitutil: region origin must be nonnegative")
	}
	if width < 1 || height < 1 {
		panic("bitutil: region size must be positive")
	}
	right := left + width
	bottom := top + height
	if right > m.width || bottom > m.height {
		panic("bitutil: region exceeds matrix bounds")
	}
	for y := top; y < bottom; y++ {
		row := y * m.rowWords
		for x := left; x < right; x++ {
			m.words[row+x>>6] |= 1 << (uint(x) & 63)
		}
	}
}

// Clear zeroes the whole matrix.
func (m *BitMatrix) Clear() {
	for i := range m.words {
		m.words[i] = 0
	}
}

// Width returns the matrix width in bits.
func (m *BitMatrix) Width() int { return m.width }

// Height returns the matrix height in bits.
func (m *BitMatrix) Height() int { return m.height }

// Clone returns an independent copy of the matrix.
func (m *BitMatrix) Clone() *BitMatrix {
	words := make([]uint64, len(m.words))
	copy(words, m.words)
	return &BitMatrix{width: m.width, height: m.height, rowWords: m.rowWords, words: words}
}

// Equal reports whether two matrices have the same dimensions and contents.
func (m *BitMatrix) Equal(other *BitMatrix) bool {
	if m.width != other.width || m.height != other.height {
		return false
	}
	for i, w := range m.words {
		if w != other.words[i] {
			return false
		}
	}
	return true
}

// Transpose mirrors the matrix across its main diagonal in place.
// The matrix must be square.
func (m *BitMatrix) Transpose() {
	if m.width != m.height {
		panic("bitutil: transpose requires a square matrix")
	}
	for x := 0; x < m.width; x++ {
		for y := x + 1; y < m.height; y++ {
			if m.Get(x, y) != m.Get(y, x) {
				m.Flip(x, y)
				m.Flip(y, x)
			}
		}
	}
}

// Rotate90 returns a copy of the matrix rotated a quarter turn clockwise.
func (m *BitMatrix) Rotate90() *BitMatrix {
	out := NewBitMatrixWithSize(m.height, m.width)
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			if m.Get(x, y) {
				out.Set(m.height-1-y, x)
			}
		}
	}
	return out
}

// String renders the matrix with "##" for set bits and "  " for clear ones.
func (m *BitMatrix) String() string {
	var sb strings.Builder
	sb.Grow(m.height * (2*m.width + 1))
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			if m.Get(x, y) {
				sb.WriteString("##")
			} else {
				sb.WriteString("  ")
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
