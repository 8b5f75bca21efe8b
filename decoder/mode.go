package decoder

// Mode is a data segment encoding mode indicator.
type Mode int

const (
	ModeTerminator Mode = 0x0
	ModeNumeric    Mode = 0x1
	ModeAlphanum   Mode = 0x2
	ModeSAppend    Mode = 0x3
	ModeByte       Mode = 0x4
	ModeFNC1First  Mode = 0x5
	ModeECI        Mode = 0x7
	ModeKanji      Mode = 0x8
	ModeFNC1Second Mode = 0x9
	ModeHanzi      Mode = 0xD
)

// countBits holds character count field widths for the three version
// ranges 1-9, 10-26 and 27-40.
var countBits = map[Mode][3]int{
	ModeNumeric:  {10, 12, 14},
	ModeAlphanum: {9, 11, 13},
	ModeByte:     {8, 16, 16},
	ModeKanji:    {8, 10, 12},
	ModeHanzi:    {8, 10, 12},
}

// modeForBits validates a 4-bit mode indicator.
func modeForBits(bits int) (Mode, error) {
	switch m := Mode(bits); m {
	case ModeTerminator, ModeNumeric, ModeAlphanum, ModeSAppend, ModeByte,
		ModeFNC1First, ModeECI, ModeKanji, ModeFNC1Second, ModeHanzi:
		return m, nil
	}
	return 0, ErrSegment
}

// CharacterCountBits returns the width of the character count field for
// this mode in the given version.
func (m Mode) CharacterCountBits(v *Version) int {
	switch {
	case v.Number <= 9:
		return countBits[m][0]
	case v.Number <= 26:
		return countBits[m][1]
	default:
		return countBits[m][2]
	}
}
