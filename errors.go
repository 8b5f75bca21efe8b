package qr

import (
	"errors"
	"fmt"
)

// Terminal failure kinds. Test with errors.Is against the error
// returned by Decode.
var (
	// ErrNotFound means no symbol geometry was located in the image.
	ErrNotFound = errors.New("qr: no symbol found")

	// ErrGeometry means finder patterns were located but no usable
	// projection onto a module grid exists.
	ErrGeometry = errors.New("qr: symbol geometry unsolvable")

	// ErrFormatInfo means the format field survived in neither copy.
	ErrFormatInfo = errors.New("qr: format information corrupt")

	// ErrVersionInfo means the version field survived in neither copy.
	ErrVersionInfo = errors.New("qr: version information corrupt")

	// ErrStructure means the sampled grid contradicts every known
	// symbol structure.
	ErrStructure = errors.New("qr: symbol structure mismatch")

	// ErrUncorrectable means a codeword block held more errors than its
	// correction budget.
	ErrUncorrectable = errors.New("qr: uncorrectable codeword block")

	// ErrSegment means a data segment in the bit stream is malformed.
	ErrSegment = errors.New("qr: malformed data segment")
)

// Stage identifies where in the pipeline decoding stopped.
type Stage int

const (
	StageBinarize Stage = iota
	StageLocate
	StageSample
	StageFormat
	StageVersion
	StageExtract
	StageCorrect
	StageParse
)

func (s Stage) String() string {
	switch s {
	case StageBinarize:
		return "binarize"
	case StageLocate:
		return "locate"
	case StageSample:
		return "sample"
	case StageFormat:
		return "format"
	case StageVersion:
		return "version"
	case StageExtract:
		return "extract"
	case StageCorrect:
		return "correct"
	case StageParse:
		return "parse"
	}
	return "unknown"
}

// DecodeError is the terminal error of a failed decode. Kind is one of
// the package sentinels and also the target Unwrap exposes, so
// errors.Is(err, qr.ErrNotFound) works on a wrapped error.
type DecodeError struct {
	Stage Stage
	Kind  error
	cause error
}

func (e *DecodeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%v (stage %s: %v)", e.Kind, e.Stage, e.cause)
	}
	return fmt.Sprintf("%v (stage %s)", e.Kind, e.Stage)
}

func (e *DecodeError) Unwrap() error { return e.Kind }

func decodeError(stage Stage, kind, cause error) *DecodeError {
	return &DecodeError{Stage: stage, Kind: kind, cause: cause}
}
