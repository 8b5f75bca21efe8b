package bitutil

import "errors"

// ErrOutOfBits is returned when a read asks for more bits than remain.
var ErrOutOfBits = errors.New("bitutil: read past end of bit stream")

// BitSource reads an arbitrary number of bits at a time from a byte slice.
// Within each byte, bits are consumed most-significant first.
type BitSource struct {
	data    []byte
	bytePos int
	bitPos  int
}

// NewBitSource returns a reader over data. The slice is not copied.
func NewBitSource(data []byte) *BitSource {
	return &BitSource{data: data}
}

// Available returns the number of bits that can still be read.
func (s *BitSource) Available() int {
	return 8*(len(s.data)-s.bytePos) - s.bitPos
}

// ReadBits reads n bits (1..32) and returns them as the low bits of an int.
func (s *BitSource) ReadBits(n int) (int, error) {
	if n < 1 || n > 32 || n > s.Available() {
		return 0, ErrOutOfBits
	}

	result := 0

	// Drain the partially consumed byte first.
	if s.bitPos > 0 {
		remaining := 8 - s.bitPos
		take := n
		if take > remaining {
			take = remaining
		}
		shift := uint(remaining - take)
		mask := byte(0xFF>>uint(8-take)) << shift
		result = int(s.data[s.bytePos]&mask) >> shift
		n -= take
		s.bitPos += take
		if s.bitPos == 8 {
			s.bitPos = 0
			s.bytePos++
		}
	}

	// Whole bytes.
	for n >= 8 {
		result = result<<8 | int(s.data[s.bytePos])
		s.bytePos++
		n -= 8
	}

	// Leading bits of the next byte.
	if n > 0 {
		shift := uint(8 - n)
		result = result<<uint(n) | int(s.data[s.bytePos]>>shift)
		s.bitPos = n
	}

	return result, nil
}
