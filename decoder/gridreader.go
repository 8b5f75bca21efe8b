package decoder

import "github.com/scanline/qr/bitutil"

// gridReader walks a sampled module grid, extracting the format field,
// the version field and the interleaved codewords. The optional unknown
// matrix marks modules whose sampled value is unreliable.
type gridReader struct {
	grid    *bitutil.BitMatrix
	unknown *bitutil.BitMatrix
	mirror  bool
}

func newGridReader(grid, unknown *bitutil.BitMatrix) (*gridReader, error) {
	dim := grid.Height()
	if dim < 21 || dim > 177 || dim&0x03 != 1 || grid.Width() != dim {
		return nil, ErrStructure
	}
	return &gridReader{grid: grid, unknown: unknown}, nil
}

func (r *gridReader) get(x, y int) bool {
	if r.mirror {
		x, y = y, x
	}
	return r.grid.Get(x, y)
}

func (r *gridReader) appendBit(x, y, acc int) int {
	if r.get(x, y) {
		return acc<<1 | 1
	}
	return acc << 1
}

// readFormat assembles both 15-bit format field copies and decodes
// them. The first copy wraps around the top left finder, the second
// splits between the top right and bottom left finders.
func (r *gridReader) readFormat() (FormatInfo, error) {
	raw1 := 0
	for x := 0; x < 6; x++ {
		raw1 = r.appendBit(x, 8, raw1)
	}
	raw1 = r.appendBit(7, 8, raw1)
	raw1 = r.appendBit(8, 8, raw1)
	raw1 = r.appendBit(8, 7, raw1)
	for y := 5; y >= 0; y-- {
		raw1 = r.appendBit(8, y, raw1)
	}

	dim := r.grid.Height()
	raw2 := 0
	for y := dim - 1; y >= dim-7; y-- {
		raw2 = r.appendBit(8, y, raw2)
	}
	for x := dim - 8; x < dim; x++ {
		raw2 = r.appendBit(x, 8, raw2)
	}

	return DecodeFormatBits(raw1, raw2)
}

// readVersion determines the symbol version. Small symbols carry no
// version field, so theirs follows from the dimension alone. Larger
// symbols are read from the top right copy first, falling back to the
// bottom left copy.
func (r *gridReader) readVersion() (*Version, error) {
	dim := r.grid.Height()
	if (dim-17)/4 <= 6 {
		return VersionForDimension(dim)
	}

	raw := 0
	for y := 5; y >= 0; y-- {
		for x := dim - 9; x >= dim-11; x-- {
			raw = r.appendBit(x, y, raw)
		}
	}
	if v := matchVersionBits(raw); v != nil && v.Dimension() == dim {
		return v, nil
	}

	raw = 0
	for x := 5; x >= 0; x-- {
		for y := dim - 9; y >= dim-11; y-- {
			raw = r.appendBit(x, y, raw)
		}
	}
	if v := matchVersionBits(raw); v != nil && v.Dimension() == dim {
		return v, nil
	}
	return nil, ErrVersionInfo
}

// readCodewords unmasks the data region and collects codewords in the
// two column wide zig-zag order, skipping function pattern modules. It
// also counts unreliable data modules for erasure reporting.
func (r *gridReader) readCodewords(version *Version, info FormatInfo) ([]byte, int, error) {
	dim := r.grid.Height()
	if version.Dimension() != dim {
		return nil, 0, ErrStructure
	}

	function := version.FunctionModules()
	Unmask(r.grid, info.Mask, function)
	defer Unmask(r.grid, info.Mask, function)

	result := make([]byte, version.TotalWords)
	offset := 0
	current := 0
	bitsRead := 0
	erasures := 0
	readingUp := true

	for right := dim - 1; right > 0; right -= 2 {
		if right == 6 {
			// The vertical timing track shifts the column pairs left.
			right--
		}
		for count := 0; count < dim; count++ {
			y := count
			if readingUp {
				y = dim - 1 - count
			}
			for col := 0; col < 2; col++ {
				x := right - col
				if function.Get(x, y) {
					continue
				}
				if r.unknown != nil && r.unknown.Get(x, y) {
					erasures++
				}
				bitsRead++
				current <<= 1
				if r.grid.Get(x, y) {
					current |= 1
				}
				if bitsRead == 8 {
					if offset == len(result) {
						return nil, 0, ErrStructure
					}
					result[offset] = byte(current)
					offset++
					bitsRead = 0
					current = 0
				}
			}
		}
		readingUp = !readingUp
	}

	if offset != version.TotalWords {
		return nil, 0, ErrStructure
	}
	return result, erasures, nil
}

// setMirror switches the format and version reads between direct and
// transposed module addressing.
func (r *gridReader) setMirror(mirror bool) {
	r.mirror = mirror
}

// transpose rewrites the grid in place so that mirrored symbols read in
// the standard orientation, then returns to direct addressing.
func (r *gridReader) transpose() {
	r.grid.Transpose()
	if r.unknown != nil {
		r.unknown.Transpose()
	}
	r.mirror = false
}
