package transform

import "github.com/scanline/qr/bitutil"

// Sampled is the tri-state module grid produced by sampling: Bits carries the
// dark/light classification for every module and Unknown marks the modules
// whose neighborhood vote was too close to call. Bits still holds the best
// guess for unknown modules; error correction absorbs the ones guessed wrong.
type Sampled struct {
	Bits    *bitutil.BitMatrix
	Unknown *bitutil.BitMatrix
}

// SampleGrid reads a dimension×dimension module grid out of the binary mask.
// Each module center (col+0.5, row+0.5) is mapped through t into image space
// and classified by majority vote over the (2·radius+1)² pixel window around
// the mapped point. Radius 0 samples a single pixel and marks nothing
// unknown.
//
// Returns ErrDegenerate for an unusable transform and ErrOutOfImage when a
// mapped module center lies more than a pixel outside the mask.
func SampleGrid(mask *bitutil.BitMatrix, dimension int, t *Perspective, radius int) (*Sampled, error) {
	if dimension <= 0 {
		return nil, ErrDegenerate
	}
	if !t.Valid(float64(dimension)) {
		return nil, ErrDegenerate
	}

	width := mask.Width()
	height := mask.Height()
	out := &Sampled{
		Bits:    bitutil.NewBitMatrix(dimension),
		Unknown: bitutil.NewBitMatrix(dimension),
	}

	points := make([]float64, 2*dimension)
	for row := 0; row < dimension; row++ {
		cy := float64(row) + 0.5
		for col := 0; col < dimension; col++ {
			points[2*col] = float64(col) + 0.5
			points[2*col+1] = cy
		}
		t.ApplyAll(points)
		if err := nudgeIntoImage(points, width, height); err != nil {
			return nil, err
		}

		for col := 0; col < dimension; col++ {
			px := int(points[2*col])
			py := int(points[2*col+1])
			if px < 0 || px >= width || py < 0 || py >= height {
				return nil, ErrOutOfImage
			}

			dark, total := 0, 0
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					x, y := px+dx, py+dy
					if x < 0 || x >= width || y < 0 || y >= height {
						continue
					}
					total++
					if mask.Get(x, y) {
						dark++
					}
				}
			}
			if 2*dark > total {
				out.Bits.Set(col, row)
			}
			// A one-vote margin is too close to trust; leave the guess in
			// Bits and record the module as unknown.
			if total > 1 && abs(2*dark-total) <= 1 {
				out.Unknown.Set(col, row)
			}
		}
	}
	return out, nil
}

// nudgeIntoImage tolerates module centers that land within one pixel outside
// the frame, which happens routinely for symbols running to the image edge.
// Anything further out is a real miss.
func nudgeIntoImage(points []float64, width, height int) error {
	for i := 0; i+1 < len(points); i += 2 {
		x := int(points[i])
		y := int(points[i+1])
		if x < -1 || x > width || y < -1 || y > height {
			return ErrOutOfImage
		}
		if x == -1 {
			points[i] = 0
		} else if x == width {
			points[i] = float64(width - 1)
		}
		if y == -1 {
			points[i+1] = 0
		} else if y == height {
			points[i+1] = float64(height - 1)
		}
	}
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
