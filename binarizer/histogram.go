package binarizer

import (
	"errors"

	"github.com/scanline/qr/bitutil"
)

// ErrNoContrast is returned when a frame has no usable dark/light separation,
// such as an all-white or all-black image. A flat frame can never contain a
// readable symbol, so this is a clean "nothing here" signal.
var ErrNoContrast = errors.New("binarizer: no contrast between dark and light peaks")

const (
	histBits    = 5
	histShift   = 8 - histBits
	histBuckets = 1 << histBits
)

// GlobalHistogram estimates one black point for the whole frame from a
// luminance histogram sampled on a few interior rows. Cheap, and accurate
// enough for evenly lit frames; Hybrid should be preferred for photographs.
type GlobalHistogram struct {
	source Source
}

// NewGlobalHistogram returns a global-threshold binarizer over source.
func NewGlobalHistogram(source Source) *GlobalHistogram {
	return &GlobalHistogram{source: source}
}

// Source returns the underlying luminance source.
func (g *GlobalHistogram) Source() Source { return g.source }

// BlackMatrix binarizes the frame against a single global threshold.
func (g *GlobalHistogram) BlackMatrix() (*bitutil.BitMatrix, error) {
	width := g.source.Width()
	height := g.source.Height()

	// Sample the middle fifth-rows rather than the full frame; the border of
	// a camera frame is often background.
	var buckets [histBuckets]int
	var row []byte
	for i := 1; i < 5; i++ {
		row = g.source.Row(height*i/5, row)
		right := width * 4 / 5
		for x := width / 5; x < right; x++ {
			buckets[row[x]>>histShift]++
		}
	}
	blackPoint, err := estimateBlackPoint(buckets[:])
	if err != nil {
		return nil, err
	}

	pix := g.source.Matrix()
	mask := bitutil.NewBitMatrixWithSize(width, height)
	for y := 0; y < height; y++ {
		off := y * width
		for x := 0; x < width; x++ {
			if int(pix[off+x]) < blackPoint {
				mask.Set(x, y)
			}
		}
	}
	return mask, nil
}

// estimateBlackPoint finds the valley between the two dominant histogram
// peaks. Fails when the peaks are too close together to separate.
func estimateBlackPoint(buckets []int) (int, error) {
	firstPeak := 0
	firstPeakSize := 0
	maxBucket := 0
	for x, count := range buckets {
		if count > firstPeakSize {
			firstPeak = x
			firstPeakSize = count
		}
		if count > maxBucket {
			maxBucket = count
		}
	}

	// Second peak: score by count weighted by squared distance from the first.
	secondPeak := 0
	secondScore := 0
	for x, count := range buckets {
		d := x - firstPeak
		if score := count * d * d; score > secondScore {
			secondPeak = x
			secondScore = score
		}
	}
	// A frame whose samples all fall in one bucket never scores a second
	// peak; it has no contrast to threshold.
	if secondScore == 0 {
		return 0, ErrNoContrast
	}
	if firstPeak > secondPeak {
		firstPeak, secondPeak = secondPeak, firstPeak
	}
	if secondPeak-firstPeak <= len(buckets)/16 {
		return 0, ErrNoContrast
	}

	bestValley := secondPeak - 1
	bestScore := -1
	for x := secondPeak - 1; x > firstPeak; x-- {
		fromFirst := x - firstPeak
		score := fromFirst * fromFirst * (secondPeak - x) * (maxBucket - buckets[x])
		if score > bestScore {
			bestValley = x
			bestScore = score
		}
	}
	return bestValley << histShift, nil
}
