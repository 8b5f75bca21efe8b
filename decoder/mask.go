package decoder

import "github.com/scanline/qr/bitutil"

// maskPredicates are the eight mask patterns. A module at row i, column
// j is flipped when the predicate holds.
var maskPredicates = [8]func(i, j int) bool{
	func(i, j int) bool { return (i+j)&1 == 0 },
	func(i, j int) bool { return i&1 == 0 },
	func(i, j int) bool { return j%3 == 0 },
	func(i, j int) bool { return (i+j)%3 == 0 },
	func(i, j int) bool { return ((i/2)+(j/3))&1 == 0 },
	func(i, j int) bool { return (i*j)%6 == 0 },
	func(i, j int) bool { return (i*j)%6 < 3 },
	func(i, j int) bool { return (i+j+(i*j)%3)&1 == 0 },
}

// Unmask removes mask pattern maskIndex from the data region of the
// grid. Modules set in function are left alone. Masking is an
// involution, so applying it twice restores the input.
func Unmask(grid *bitutil.BitMatrix, maskIndex byte, function *bitutil.BitMatrix) {
	mask := maskPredicates[maskIndex]
	dim := grid.Height()
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			if function.Get(j, i) {
				continue
			}
			if mask(i, j) {
				grid.Flip(j, i)
			}
		}
	}
}
