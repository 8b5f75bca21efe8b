// Package transform holds the projective geometry used to map the ideal
// module grid onto a located symbol, and the sampler that reads modules back
// through that mapping.
package transform

import (
	"errors"
	"math"
)

// ErrDegenerate is returned when the derived mapping collapses: a transform
// whose target quadrilateral has (near) zero area cannot be sampled through.
var ErrDegenerate = errors.New("transform: degenerate perspective mapping")

// ErrOutOfImage is returned when sampling requires pixels beyond the frame.
var ErrOutOfImage = errors.New("transform: sample grid leaves the image")

// Perspective is an immutable 2-D projective transform, eight degrees of
// freedom stored as a homogeneous 3x3 matrix. Values carry no reference to
// any image; the same transform may be applied concurrently.
type Perspective struct {
	a11, a12, a13 float64
	a21, a22, a23 float64
	a31, a32, a33 float64
}

// QuadToQuad returns the transform taking quadrilateral (x0,y0)..(x3,y3) to
// (x0p,y0p)..(x3p,y3p), built by composing quad→unit-square with
// unit-square→quad.
func QuadToQuad(
	x0, y0, x1, y1, x2, y2, x3, y3,
	x0p, y0p, x1p, y1p, x2p, y2p, x3p, y3p float64,
) *Perspective {
	return squareToQuad(x0p, y0p, x1p, y1p, x2p, y2p, x3p, y3p).
		times(squareToQuad(x0, y0, x1, y1, x2, y2, x3, y3).adjoint())
}

// Apply maps a single point through the transform.
func (p *Perspective) Apply(x, y float64) (float64, float64) {
	den := p.a13*x + p.a23*y + p.a33
	return (p.a11*x + p.a21*y + p.a31) / den,
		(p.a12*x + p.a22*y + p.a32) / den
}

// ApplyAll maps interleaved (x, y) pairs in place.
func (p *Perspective) ApplyAll(points []float64) {
	for i := 0; i+1 < len(points); i += 2 {
		points[i], points[i+1] = p.Apply(points[i], points[i+1])
	}
}

// Valid reports whether the transform can be sampled through over the square
// grid [0,extent]x[0,extent]: every corner must have a nonvanishing
// homogeneous denominator and the mapped quadrilateral must enclose a
// nontrivial area.
func (p *Perspective) Valid(extent float64) bool {
	corners := [4][2]float64{{0, 0}, {extent, 0}, {extent, extent}, {0, extent}}
	var mapped [4][2]float64
	for i, c := range corners {
		den := p.a13*c[0] + p.a23*c[1] + p.a33
		if math.Abs(den) < 1e-10 {
			return false
		}
		mx, my := p.Apply(c[0], c[1])
		if math.IsNaN(mx) || math.IsNaN(my) || math.IsInf(mx, 0) || math.IsInf(my, 0) {
			return false
		}
		mapped[i] = [2]float64{mx, my}
	}
	// Shoelace area of the mapped quadrilateral.
	area := 0.0
	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		area += mapped[i][0]*mapped[j][1] - mapped[j][0]*mapped[i][1]
	}
	return math.Abs(area/2) >= 1.0
}

// squareToQuad returns the transform from the unit square to the
// quadrilateral (x0,y0) (x1,y1) (x2,y2) (x3,y3).
func squareToQuad(x0, y0, x1, y1, x2, y2, x3, y3 float64) *Perspective {
	dx3 := x0 - x1 + x2 - x3
	dy3 := y0 - y1 + y2 - y3
	if dx3 == 0 && dy3 == 0 {
		// The quadrilateral is a parallelogram; the mapping is affine.
		return &Perspective{
			a11: x1 - x0, a21: x2 - x1, a31: x0,
			a12: y1 - y0, a22: y2 - y1, a32: y0,
			a33: 1,
		}
	}
	dx1 := x1 - x2
	dx2 := x3 - x2
	dy1 := y1 - y2
	dy2 := y3 - y2
	den := dx1*dy2 - dx2*dy1
	a13 := (dx3*dy2 - dx2*dy3) / den
	a23 := (dx1*dy3 - dx3*dy1) / den
	return &Perspective{
		a11: x1 - x0 + a13*x1, a21: x3 - x0 + a23*x3, a31: x0,
		a12: y1 - y0 + a13*y1, a22: y3 - y0 + a23*y3, a32: y0,
		a13: a13, a23: a23, a33: 1,
	}
}

// adjoint returns the adjugate matrix, which inverts the transform up to a
// scalar. Projective coordinates are homogeneous, so that is enough.
func (p *Perspective) adjoint() *Perspective {
	return &Perspective{
		a11: p.a22*p.a33 - p.a23*p.a32,
		a21: p.a23*p.a31 - p.a21*p.a33,
		a31: p.a21*p.a32 - p.a22*p.a31,
		a12: p.a13*p.a32 - p.a12*p.a33,
		a22: p.a11*p.a33 - p.a13*p.a31,
		a32: p.a12*p.a31 - p.a11*p.a32,
		a13: p.a12*p.a23 - p.a13*p.a22,
		a23: p.a13*p.a21 - p.a11*p.a23,
		a33: p.a11*p.a22 - p.a12*p.a21,
	}
}

func (p *Perspective) times(o *Perspective) *Perspective {
	return &Perspective{
		a11: p.a11*o.a11 + p.a21*o.a12 + p.a31*o.a13,
		a21: p.a11*o.a21 + p.a21*o.a22 + p.a31*o.a23,
		a31: p.a11*o.a31 + p.a21*o.a32 + p.a31*o.a33,
		a12: p.a12*o.a11 + p.a22*o.a12 + p.a32*o.a13,
		a22: p.a12*o.a21 + p.a22*o.a22 + p.a32*o.a23,
		a32: p.a12*o.a31 + p.a22*o.a32 + p.a32*o.a33,
		a13: p.a13*o.a11 + p.a23*o.a12 + p.a33*o.a13,
		a23: p.a13*o.a21 + p.a23*o.a22 + p.a33*o.a23,
		a33: p.a13*o.a31 + p.a23*o.a32 + p.a33*o.a33,
	}
}
