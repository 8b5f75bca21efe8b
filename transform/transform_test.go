package transform

import (
	"math"
	"testing"

	"github.com/scanline/qr/bitutil"
)

func TestQuadToQuadIdentityOnCorners(t *testing.T) {
	// Map the unit square onto a rotated, skewed quadrilateral and verify the
	// corners land exactly.
	dst := [4][2]float64{{10, 20}, {110, 30}, {120, 140}, {5, 120}}
	p := QuadToQuad(
		0, 0, 1, 0, 1, 1, 0, 1,
		dst[0][0], dst[0][1], dst[1][0], dst[1][1], dst[2][0], dst[2][1], dst[3][0], dst[3][1],
	)
	src := [4][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	for i, s := range src {
		x, y := p.Apply(s[0], s[1])
		if math.Abs(x-dst[i][0]) > 1e-6 || math.Abs(y-dst[i][1]) > 1e-6 {
			t.Errorf("corner %d mapped to (%v,%v), want (%v,%v)", i, x, y, dst[i][0], dst[i][1])
		}
	}
}

func TestAffineFastPath(t *testing.T) {
	// A parallelogram target exercises the affine branch.
	p := QuadToQuad(
		0, 0, 1, 0, 1, 1, 0, 1,
		2, 3, 12, 3, 14, 13, 4, 13,
	)
	x, y := p.Apply(0.5, 0.5)
	if math.Abs(x-8) > 1e-6 || math.Abs(y-8) > 1e-6 {
		t.Errorf("center mapped to (%v,%v), want (8,8)", x, y)
	}
}

func TestValidRejectsCollapsedQuad(t *testing.T) {
	// All four target corners on one line: zero area.
	p := QuadToQuad(
		0, 0, 10, 0, 10, 10, 0, 10,
		5, 5, 6, 6, 7, 7, 8, 8,
	)
	if p.Valid(10) {
		t.Error("collapsed mapping reported valid")
	}
}

func TestSampleGridReadsBackPattern(t *testing.T) {
	// Paint a 7x7 grid at 4 px/module with a diagonal of dark modules and
	// sample it back through a pure scale transform.
	const dim, scale = 7, 4
	mask := bitutil.NewBitMatrix(dim * scale)
	for i := 0; i < dim; i++ {
		mask.SetRegion(i*scale, i*scale, scale, scale)
	}
	p := QuadToQuad(
		0, 0, dim, 0, dim, dim, 0, dim,
		0, 0, dim*scale, 0, dim*scale, dim*scale, 0, dim*scale,
	)
	got, err := SampleGrid(mask, dim, p, 1)
	if err != nil {
		t.Fatalf("SampleGrid: %v", err)
	}
	for y := 0; y < dim; y++ {
		for x := 0; x < dim; x++ {
			if got.Bits.Get(x, y) != (x == y) {
				t.Errorf("module (%d,%d) = %v, want %v", x, y, got.Bits.Get(x, y), x == y)
			}
		}
	}
}

func TestSampleGridDegenerateTransform(t *testing.T) {
	mask := bitutil.NewBitMatrix(32)
	p := QuadToQuad(
		0, 0, 8, 0, 8, 8, 0, 8,
		1, 1, 2, 2, 3, 3, 4, 4,
	)
	if _, err := SampleGrid(mask, 8, p, 0); err != ErrDegenerate {
		t.Errorf("err = %v, want ErrDegenerate", err)
	}
}

func TestSampleGridOutOfImage(t *testing.T) {
	mask := bitutil.NewBitMatrix(16)
	// Shift the grid far past the right edge of the mask.
	p := QuadToQuad(
		0, 0, 4, 0, 4, 4, 0, 4,
		100, 0, 140, 0, 140, 40, 100, 40,
	)
	if _, err := SampleGrid(mask, 4, p, 0); err != ErrOutOfImage {
		t.Errorf("err = %v, want ErrOutOfImage", err)
	}
}

func TestSampleGridMarksAmbiguousModules(t *testing.T) {
	// A module whose window straddles a half-dark area votes 4:5 or 5:4 and
	// must be flagged unknown. Build a 3x3 module grid at 3 px/module with
	// one module painted only in its left half plus one center pixel.
	const dim, scale = 3, 3
	mask := bitutil.NewBitMatrix(dim * scale)
	// Module (1,1) occupies pixels [3,6)x[3,6): paint 5 of its 9 pixels.
	mask.SetRegion(3, 3, 1, 3)
	mask.SetRegion(4, 3, 1, 2)
	p := QuadToQuad(
		0, 0, dim, 0, dim, dim, 0, dim,
		0, 0, dim*scale, 0, dim*scale, dim*scale, 0, dim*scale,
	)
	got, err := SampleGrid(mask, dim, p, 1)
	if err != nil {
		t.Fatalf("SampleGrid: %v", err)
	}
	if !got.Bits.Get(1, 1) {
		t.Error("5/9 dark module should classify dark")
	}
	if !got.Unknown.Get(1, 1) {
		t.Error("5/9 dark module should be flagged unknown")
	}
	if got.Unknown.Get(0, 0) {
		t.Error("solid light module must not be unknown")
	}
}
