// Package qr decodes QR symbols from images: binarization, symbol
// location, perspective correction, error correction and segment
// parsing behind a single call.
package qr

import (
	"errors"
	"image"

	"github.com/scanline/qr/binarizer"
	"github.com/scanline/qr/bitutil"
	"github.com/scanline/qr/decoder"
	"github.com/scanline/qr/detector"
	"github.com/scanline/qr/transform"
)

// Options configures decoding. The zero value is a sensible default.
type Options struct {
	// TryHarder trades speed for recall: every scan row is visited and
	// failed images are retried with a global threshold and inverted.
	TryHarder bool

	// CharacterSet names the assumed encoding for byte segments without
	// an ECI designator. Empty means guess.
	CharacterSet string

	// SampleRadius overrides the automatic majority voting radius when
	// positive.
	SampleRadius int
}

// Point is an image coordinate of a located pattern center.
type Point struct {
	X, Y float64
}

// Result is a successfully decoded symbol.
type Result struct {
	Text         string
	Bytes        []byte
	ByteSegments [][]byte

	Version int
	ECLevel string
	Mask    byte

	// Points holds the located pattern centers: bottom left, top left,
	// top right, and the alignment pattern when one was found. Empty
	// when the grid was supplied directly.
	Points []Point

	// ModuleSize is the estimated module pitch in pixels, or zero when
	// the grid was supplied directly.
	ModuleSize float64

	// ErrorsCorrected counts codewords repaired by error correction;
	// Erasures counts modules the sampler flagged as unreliable.
	ErrorsCorrected int
	Erasures        int

	// Structured append header, or -1 when the symbol stands alone.
	SASequence int
	SAParity   int

	FNC1First  bool
	FNC1Second bool

	// Mirrored reports that the symbol decoded only after a diagonal
	// flip.
	Mirrored bool
}

// Decode finds and decodes one QR symbol in an image.
func Decode(img image.Image, opts *Options) (*Result, error) {
	return DecodeLuminance(binarizer.FromImage(img), opts)
}

// DecodeLuminance decodes from an 8-bit luminance frame.
func DecodeLuminance(lum *binarizer.Luminance, opts *Options) (*Result, error) {
	if opts == nil {
		opts = &Options{}
	}

	result, firstErr := decodeLuminanceOnce(lum, opts, adaptiveThreshold)
	if firstErr == nil {
		return result, nil
	}
	if !opts.TryHarder {
		return nil, firstErr
	}

	// A busy background can defeat the block-local threshold; the
	// global histogram sometimes recovers it.
	if result, err := decodeLuminanceOnce(lum, opts, globalThreshold); err == nil {
		return result, nil
	}
	// Light-on-dark symbols binarize inverted.
	if result, err := decodeLuminanceOnce(lum.Invert(), opts, adaptiveThreshold); err == nil {
		return result, nil
	}
	return nil, firstErr
}

func adaptiveThreshold(lum *binarizer.Luminance) (*bitutil.BitMatrix, error) {
	return binarizer.NewHybrid(lum).BlackMatrix()
}

func globalThreshold(lum *binarizer.Luminance) (*bitutil.BitMatrix, error) {
	return binarizer.NewGlobalHistogram(lum).BlackMatrix()
}

func decodeLuminanceOnce(lum *binarizer.Luminance, opts *Options, threshold func(*binarizer.Luminance) (*bitutil.BitMatrix, error)) (*Result, error) {
	mask, err := threshold(lum)
	if err != nil {
		return nil, mapError(err)
	}

	det := detector.New(mask, opts.TryHarder)
	det.SampleRadius = opts.SampleRadius
	located, err := det.Detect()
	if err != nil {
		return nil, mapError(err)
	}

	decoded, err := decoder.Decode(located.Grid.Bits, located.Grid.Unknown, decoder.Options{
		CharacterSet: opts.CharacterSet,
	})
	if err != nil {
		return nil, mapError(err)
	}

	result := assemble(decoded)
	for _, p := range located.Points {
		result.Points = append(result.Points, Point{p.X, p.Y})
	}
	result.ModuleSize = located.ModuleSize
	return result, nil
}

// DecodeMatrix decodes an already extracted module grid, bypassing
// detection. The caller's grid is never modified.
func DecodeMatrix(grid *bitutil.BitMatrix, opts *Options) (*Result, error) {
	if opts == nil {
		opts = &Options{}
	}
	decoded, err := decoder.Decode(grid.Clone(), nil, decoder.Options{CharacterSet: opts.CharacterSet})
	if err != nil {
		return nil, mapError(err)
	}
	return assemble(decoded), nil
}

func assemble(d *decoder.Result) *Result {
	return &Result{
		Text:            d.Text,
		Bytes:           d.Bytes,
		ByteSegments:    d.ByteSegments,
		Version:         d.Version,
		ECLevel:         d.Level.String(),
		Mask:            d.Mask,
		ErrorsCorrected: d.ErrorsCorrected,
		Erasures:        d.Erasures,
		SASequence:      d.SASequence,
		SAParity:        d.SAParity,
		FNC1First:       d.FNC1First,
		FNC1Second:      d.FNC1Second,
		Mirrored:        d.Mirrored,
	}
}

// mapError tags a pipeline error with its stage and public kind.
func mapError(err error) error {
	switch {
	case errors.Is(err, binarizer.ErrNoContrast):
		return decodeError(StageBinarize, ErrNotFound, err)
	case errors.Is(err, detector.ErrNotFound):
		return decodeError(StageLocate, ErrNotFound, err)
	case errors.Is(err, transform.ErrDegenerate), errors.Is(err, transform.ErrOutOfImage):
		return decodeError(StageSample, ErrGeometry, err)
	case errors.Is(err, decoder.ErrFormatInfo):
		return decodeError(StageFormat, ErrFormatInfo, err)
	case errors.Is(err, decoder.ErrVersionInfo):
		return decodeError(StageVersion, ErrVersionInfo, err)
	case errors.Is(err, decoder.ErrStructure):
		return decodeError(StageExtract, ErrStructure, err)
	case errors.Is(err, decoder.ErrUncorrectable):
		return decodeError(StageCorrect, ErrUncorrectable, err)
	case errors.Is(err, decoder.ErrSegment):
		return decodeError(StageParse, ErrSegment, err)
	}
	return decodeError(StageLocate, ErrNotFound, err)
}
