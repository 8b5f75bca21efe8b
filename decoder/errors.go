// Package decoder turns a sampled module grid into decoded symbol
// content: format and version fields, unmasking, codeword extraction,
// error correction and segment parsing.
package decoder

import "errors"

var (
	// ErrFormatInfo indicates that neither copy of the format field
	// could be corrected to a valid codeword.
	ErrFormatInfo = errors.New("decoder: format information unreadable")

	// ErrVersionInfo indicates that neither copy of the version field
	// could be corrected, or the decoded version contradicts the grid
	// dimension.
	ErrVersionInfo = errors.New("decoder: version information unreadable")

	// ErrStructure indicates a grid whose shape or codeword layout does
	// not match any symbol structure.
	ErrStructure = errors.New("decoder: symbol structure mismatch")

	// ErrUncorrectable indicates a codeword block with more errors than
	// its error correction budget.
	ErrUncorrectable = errors.New("decoder: uncorrectable codeword block")

	// ErrSegment indicates a malformed data segment in the bit stream.
	ErrSegment = errors.New("decoder: malformed data segment")
)
