package decoder

import "math/bits"

// FormatInfo carries the error correction level and mask pattern
// recovered from the format field.
type FormatInfo struct {
	Level ECLevel
	Mask  byte
}

// formatBitPatterns holds all 32 masked 15-bit format field codewords,
// indexed by the 5-bit payload (level bits then mask bits).
var formatBitPatterns = [32]int{
	0x5412, 0x5125, 0x5E7C, 0x5B4B, 0x45F9, 0x40CE, 0x4F97, 0x4AA0,
	0x77C4, 0x72F3, 0x7DAA, 0x789D, 0x662F, 0x6318, 0x6C41, 0x6976,
	0x1689, 0x13BE, 0x1CE7, 0x19D0, 0x0762, 0x0255, 0x0D0C, 0x083B,
	0x355F, 0x3068, 0x3F31, 0x3A06, 0x24B4, 0x2183, 0x2EDA, 0x2BED,
}

func formatInfoForPayload(payload int) FormatInfo {
	return FormatInfo{
		Level: eclForBits[(payload>>3)&0x03],
		Mask:  byte(payload & 0x07),
	}
}

// matchFormatBits corrects one raw 15-bit format field copy against the
// masked codeword table. It reports failure when the nearest codeword
// is more than three bits away.
func matchFormatBits(raw int) (payload int, ok bool) {
	bestDiff := 32
	best := 0
	for p, pattern := range formatBitPatterns {
		if pattern == raw {
			return p, true
		}
		if d := bits.OnesCount(uint(raw ^ pattern)); d < bestDiff {
			bestDiff = d
			best = p
		}
	}
	if bestDiff <= 3 {
		return best, true
	}
	return 0, false
}

// DecodeFormatBits recovers the format field from its two independently
// read copies. Each copy is corrected on its own; when both survive
// correction they must agree, and when only one survives it is
// accepted.
func DecodeFormatBits(raw1, raw2 int) (FormatInfo, error) {
	p1, ok1 := matchFormatBits(raw1)
	p2, ok2 := matchFormatBits(raw2)
	switch {
	case ok1 && ok2:
		if p1 != p2 {
			return FormatInfo{}, ErrFormatInfo
		}
		return formatInfoForPayload(p1), nil
	case ok1:
		return formatInfoForPayload(p1), nil
	case ok2:
		return formatInfoForPayload(p2), nil
	}
	return FormatInfo{}, ErrFormatInfo
}
