package binarizer

import "github.com/scanline/qr/bitutil"

const (
	blockPower   = 3
	blockSide    = 1 << blockPower // threshold blocks are 8x8 pixels
	blockMask    = blockSide - 1
	minHybridDim = blockSide * 5
	minDynRange  = 24
)

// Hybrid thresholds each 8x8 pixel block against a black point averaged over
// the surrounding 5x5 grid of blocks, which keeps the mask stable under
// shadows and illumination gradients. Frames too small for the block grid
// fall back to the global histogram.
type Hybrid struct {
	source Source
}

// NewHybrid returns a locally adaptive binarizer over source.
func NewHybrid(source Source) *Hybrid {
	return &Hybrid{source: source}
}

// Source returns the underlying luminance source.
func (h *Hybrid) Source() Source { return h.source }

// BlackMatrix binarizes the frame with per-block adaptive thresholds.
func (h *Hybrid) BlackMatrix() (*bitutil.BitMatrix, error) {
	width := h.source.Width()
	height := h.source.Height()
	if width < minHybridDim || height < minHybridDim {
		return NewGlobalHistogram(h.source).BlackMatrix()
	}

	pix := h.source.Matrix()
	subWidth := (width + blockMask) >> blockPower
	subHeight := (height + blockMask) >> blockPower

	blackPoints := blockBlackPoints(pix, subWidth, subHeight, width, height)

	mask := bitutil.NewBitMatrixWithSize(width, height)
	maxXOff := width - blockSide
	maxYOff := height - blockSide
	for by := 0; by < subHeight; by++ {
		yoff := min(by<<blockPower, maxYOff)
		top := clampBlock(by, subHeight-3)
		for bx := 0; bx < subWidth; bx++ {
			xoff := min(bx<<blockPower, maxXOff)
			left := clampBlock(bx, subWidth-3)

			// Average the black points of the 5x5 block neighborhood.
			sum := 0
			for dy := -2; dy <= 2; dy++ {
				row := blackPoints[top+dy]
				sum += row[left-2] + row[left-1] + row[left] + row[left+1] + row[left+2]
			}
			threshold := sum / 25

			for y := 0; y < blockSide; y++ {
				off := (yoff+y)*width + xoff
				for x := 0; x < blockSide; x++ {
					if int(pix[off+x]) <= threshold {
						mask.Set(xoff+x, yoff+y)
					}
				}
			}
		}
	}
	return mask, nil
}

func clampBlock(v, max int) int {
	if v < 2 {
		return 2
	}
	if v > max {
		return max
	}
	return v
}

// blockBlackPoints computes a per-block luminance average. Blocks with too
// little dynamic range are treated as background: they inherit a threshold
// below their minimum (or from already-computed neighbors) so flat regions
// binarize all-white instead of speckling.
func blockBlackPoints(pix []byte, subWidth, subHeight, width, height int) [][]int {
	maxXOff := width - blockSide
	maxYOff := height - blockSide

	points := make([][]int, subHeight)
	for i := range points {
		points[i] = make([]int, subWidth)
	}

	for by := 0; by < subHeight; by++ {
		yoff := min(by<<blockPower, maxYOff)
		for bx := 0; bx < subWidth; bx++ {
			xoff := min(bx<<blockPower, maxXOff)

			sum := 0
			lo, hi := 0xFF, 0
			for y := 0; y < blockSide; y++ {
				off := (yoff+y)*width + xoff
				for x := 0; x < blockSide; x++ {
					p := int(pix[off+x])
					sum += p
					if p < lo {
						lo = p
					}
					if p > hi {
						hi = p
					}
				}
			}

			avg := sum >> (2 * blockPower)
			if hi-lo <= minDynRange {
				avg = lo / 2
				if by > 0 && bx > 0 {
					neighbor := (points[by-1][bx] + 2*points[by][bx-1] + points[by-1][bx-1]) / 4
					if lo < neighbor {
						avg = neighbor
					}
				}
			}
			points[by][bx] = avg
		}
	}
	return points
}
