package decoder

import (
	"github.com/scanline/qr/bitutil"
	"github.com/scanline/qr/reedsolomon"
)

// Result is the decoded content of one symbol.
type Result struct {
	Text         string
	Bytes        []byte
	ByteSegments [][]byte

	Version int
	Level   ECLevel
	Mask    byte

	// ErrorsCorrected counts codewords repaired by error correction;
	// Erasures counts data region modules the sampler flagged as
	// unreliable.
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

// Options configures decoding.
type Options struct {
	// CharacterSet names the assumed encoding for byte segments that
	// carry no ECI designator. Empty means guess.
	CharacterSet string
}

// Decode extracts the content of a sampled module grid. unknown may be
// nil; when present it marks modules whose sampled value is unreliable.
// An undecodable grid is retried once as a mirror image.
func Decode(grid, unknown *bitutil.BitMatrix, opts Options) (*Result, error) {
	reader, err := newGridReader(grid, unknown)
	if err != nil {
		return nil, err
	}

	result, err := decodeGrid(reader, opts)
	if err == nil {
		return result, nil
	}

	// The symbol may have been sampled through the back of a
	// transparent medium. Confirm the mirrored fields read before
	// committing to a transposed pass.
	reader.setMirror(true)
	if _, verr := reader.readVersion(); verr != nil {
		return nil, err
	}
	if _, ferr := reader.readFormat(); ferr != nil {
		return nil, err
	}
	reader.transpose()

	result, mirrorErr := decodeGrid(reader, opts)
	if mirrorErr != nil {
		return nil, err
	}
	result.Mirrored = true
	return result, nil
}

func decodeGrid(r *gridReader, opts Options) (*Result, error) {
	version, err := r.readVersion()
	if err != nil {
		return nil, err
	}
	info, err := r.readFormat()
	if err != nil {
		return nil, err
	}

	raw, erasures, err := r.readCodewords(version, info)
	if err != nil {
		return nil, err
	}

	blocks, err := deinterleave(raw, version, info.Level)
	if err != nil {
		return nil, err
	}

	totalData := 0
	for _, b := range blocks {
		totalData += b.dataWords
	}
	data := make([]byte, 0, totalData)

	corrected := 0
	for _, b := range blocks {
		n, err := correctBlock(b.words, b.dataWords)
		if err != nil {
			return nil, err
		}
		corrected += n
		data = append(data, b.words[:b.dataWords]...)
	}

	content, err := parseBitStream(data, version, opts.CharacterSet)
	if err != nil {
		return nil, err
	}

	return &Result{
		Text:            content.text,
		Bytes:           data,
		ByteSegments:    content.byteSegments,
		Version:         version.Number,
		Level:           info.Level,
		Mask:            info.Mask,
		ErrorsCorrected: corrected,
		Erasures:        erasures,
		SASequence:      content.saSequence,
		SAParity:        content.saParity,
		FNC1First:       content.fnc1First,
		FNC1Second:      content.fnc1Second,
	}, nil
}

// correctBlock runs error correction over one block in place and
// returns the number of repaired codewords.
func correctBlock(words []byte, dataWords int) (int, error) {
	ints := make([]int, len(words))
	for i, w := range words {
		ints[i] = int(w)
	}
	corrected, err := reedsolomon.Decode(ints, len(words)-dataWords)
	if err != nil {
		return 0, ErrUncorrectable
	}
	for i := 0; i < dataWords; i++ {
		words[i] = byte(ints[i])
	}
	return corrected, nil
}
