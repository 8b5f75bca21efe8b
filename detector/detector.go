// Package detector locates a QR symbol in a binarized image and
// samples its module grid.
package detector

import (
	"errors"
	"math"

	"github.com/scanline/qr/bitutil"
	"github.com/scanline/qr/decoder"
	"github.com/scanline/qr/transform"
)

// ErrNotFound indicates that no decodable symbol geometry was located.
var ErrNotFound = errors.New("detector: no symbol found")

// Point is an image coordinate of a located pattern center.
type Point struct {
	X, Y float64
}

// Result is a located and sampled symbol.
type Result struct {
	Grid *transform.Sampled

	// Points holds the located pattern centers: bottom left, top left,
	// top right, and the alignment pattern when one was found.
	Points []Point

	// ModuleSize is the estimated module pitch in pixels.
	ModuleSize float64
}

// Detector locates symbols in a binarized image.
type Detector struct {
	mask      *bitutil.BitMatrix
	tryHarder bool

	// SampleRadius overrides the automatic voting radius when positive.
	SampleRadius int
}

func New(mask *bitutil.BitMatrix, tryHarder bool) *Detector {
	return &Detector{mask: mask, tryHarder: tryHarder}
}

// Detect locates a symbol and samples its grid.
func (d *Detector) Detect() (*Result, error) {
	corners, err := d.locateFinders()
	if err != nil {
		return nil, err
	}
	return d.solve(corners)
}

// solve turns three finder centers into a sampled grid: estimate the
// module pitch and dimension, refine the fourth corner from the
// alignment pattern when the version has one, then project.
func (d *Detector) solve(c *corners) (*Result, error) {
	moduleSize := d.moduleSizeEstimate(c)
	if moduleSize < 1.0 {
		return nil, ErrNotFound
	}

	dimension, err := dimensionEstimate(c, moduleSize)
	if err != nil {
		return nil, err
	}
	version, err := decoder.VersionForDimension(dimension)
	if err != nil {
		return nil, ErrNotFound
	}

	var align *alignMark
	if len(version.AlignmentCenters()) > 0 {
		// Extrapolate the bottom right module three in from the
		// corner, then search outward with a growing allowance.
		brX := c.topRight.x - c.topLeft.x + c.bottomLeft.x
		brY := c.topRight.y - c.topLeft.y + c.bottomLeft.y
		pull := 1.0 - 3.0/float64(dimension-7)
		estX := int(c.topLeft.x + pull*(brX-c.topLeft.x))
		estY := int(c.topLeft.y + pull*(brY-c.topLeft.y))

		for factor := 4.0; factor <= 16; factor *= 2 {
			if align = d.searchAlignment(moduleSize, estX, estY, factor); align != nil {
				break
			}
		}
	}

	xform := gridTransform(c, align, dimension)

	radius := 0
	if d.SampleRadius > 0 {
		radius = d.SampleRadius
	} else if moduleSize >= 3 {
		radius = 1
	}
	grid, err := transform.SampleGrid(d.mask, dimension, xform, radius)
	if err != nil {
		return nil, err
	}

	points := []Point{
		{c.bottomLeft.x, c.bottomLeft.y},
		{c.topLeft.x, c.topLeft.y},
		{c.topRight.x, c.topRight.y},
	}
	if align != nil {
		points = append(points, Point{align.x, align.y})
	}

	return &Result{Grid: grid, Points: points, ModuleSize: moduleSize}, nil
}

// gridTransform maps module centers to image coordinates. Finder
// centers sit 3.5 modules in from their corners; the alignment pattern,
// when located, pins the bottom right at 6.5 modules in.
func gridTransform(c *corners, align *alignMark, dimension int) *transform.Perspective {
	far := float64(dimension) - 3.5
	var brX, brY, srcBRX, srcBRY float64
	if align != nil {
		brX, brY = align.x, align.y
		srcBRX = far - 3.0
		srcBRY = srcBRX
	} else {
		brX = c.topRight.x - c.topLeft.x + c.bottomLeft.x
		brY = c.topRight.y - c.topLeft.y + c.bottomLeft.y
		srcBRX, srcBRY = far, far
	}
	return transform.QuadToQuad(
		3.5, 3.5, far, 3.5, srcBRX, srcBRY, 3.5, far,
		c.topLeft.x, c.topLeft.y, c.topRight.x, c.topRight.y, brX, brY, c.bottomLeft.x, c.bottomLeft.y,
	)
}

// dimensionEstimate rounds the averaged center distances to the nearest
// valid dimension, rejecting estimates that land two modules off.
func dimensionEstimate(c *corners, moduleSize float64) (int, error) {
	w := dist(c.topLeft, c.topRight)
	h := dist(c.topLeft, c.bottomLeft)
	dimension := int(math.Round((w/moduleSize+h/moduleSize)/2.0)) + 7
	switch dimension % 4 {
	case 0:
		dimension++
	case 2:
		dimension--
	case 3:
		return 0, ErrNotFound
	}
	return dimension, nil
}

func dist(a, b candidate) float64 {
	return math.Hypot(a.x-b.x, a.y-b.y)
}

// moduleSizeEstimate averages the pitch along both finder separations.
func (d *Detector) moduleSizeEstimate(c *corners) float64 {
	return (d.pitchBetween(c.topLeft, c.topRight) +
		d.pitchBetween(c.topLeft, c.bottomLeft)) / 2.0
}

func (d *Detector) pitchBetween(a, b candidate) float64 {
	est1 := d.darkRunBothWays(int(a.x), int(a.y), int(b.x), int(b.y))
	est2 := d.darkRunBothWays(int(b.x), int(b.y), int(a.x), int(a.y))
	if math.IsNaN(est1) {
		return est2 / 7.0
	}
	if math.IsNaN(est2) {
		return est1 / 7.0
	}
	return (est1 + est2) / 14.0
}

// darkRunBothWays measures the dark-light-dark transition run from a
// finder center toward another, plus the mirrored run the other way,
// clipping the mirrored endpoint to the image.
func (d *Detector) darkRunBothWays(fromX, fromY, toX, toY int) float64 {
	result := d.darkRun(fromX, fromY, toX, toY)

	scale := 1.0
	otherToX := fromX - (toX - fromX)
	if otherToX < 0 {
		scale = float64(fromX) / float64(fromX-otherToX)
		otherToX = 0
	} else if otherToX >= d.mask.Width() {
		scale = float64(d.mask.Width()-1-fromX) / float64(otherToX-fromX)
		otherToX = d.mask.Width() - 1
	}
	otherToY := int(float64(fromY) - float64(toY-fromY)*scale)

	scale = 1.0
	if otherToY < 0 {
		scale = float64(fromY) / float64(fromY-otherToY)
		otherToY = 0
	} else if otherToY >= d.mask.Height() {
		scale = float64(d.mask.Height()-1-fromY) / float64(otherToY-fromY)
		otherToY = d.mask.Height() - 1
	}
	otherToX = int(float64(fromX) + float64(otherToX-fromX)*scale)

	return result + d.darkRun(fromX, fromY, otherToX, otherToY) - 1.0
}

// darkRun walks a Bresenham line counting the black-white-black
// transition distance, or NaN when the pattern never completes.
func (d *Detector) darkRun(fromX, fromY, toX, toY int) float64 {
	steep := iabs(toY-fromY) > iabs(toX-fromX)
	if steep {
		fromX, fromY = fromY, fromX
		toX, toY = toY, toX
	}
	dx := iabs(toX - fromX)
	dy := iabs(toY - fromY)

	xstep, ystep := 1, 1
	if fromX > toX {
		xstep = -1
	}
	if fromY > toY {
		ystep = -1
	}

	state := 0
	xLimit := toX + xstep
	e := -dx / 2
	for x, y := fromX, fromY; x != xLimit; x += xstep {
		realX, realY := x, y
		if steep {
			realX, realY = y, x
		}
		if realX < 0 || realX >= d.mask.Width() || realY < 0 || realY >= d.mask.Height() {
			break
		}

		if (state == 1) == d.mask.Get(realX, realY) {
			if state == 2 {
				return math.Hypot(float64(x-fromX), float64(y-fromY))
			}
			state++
		}
		e += dy
		if e > 0 {
			if y == toY {
				break
			}
			y += ystep
			e -= dx
		}
	}

	if state == 2 {
		return math.Hypot(float64(toX+xstep-fromX), float64(toY-fromY))
	}
	return math.NaN()
}

func iabs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
