package decoder

import (
	"math/bits"
	"testing"
)

// farFromFormatPatterns finds a 15-bit value at least four bits away
// from every valid format codeword.
func farFromFormatPatterns(t *testing.T) int {
	t.Helper()
	for v := 0; v < 1<<15; v++ {
		minDiff := 32
		for _, p := range formatBitPatterns {
			if d := bits.OnesCount(uint(v ^ p)); d < minDiff {
				minDiff = d
			}
		}
		if minDiff >= 4 {
			return v
		}
	}
	t.Fatal("no value far from all format patterns")
	return 0
}

func TestDecodeFormatBitsExact(t *testing.T) {
	for payload, pattern := range formatBitPatterns {
		fi, err := DecodeFormatBits(pattern, pattern)
		if err != nil {
			t.Fatalf("payload %#02x: %v", payload, err)
		}
		if fi.Level != eclForBits[(payload>>3)&0x03] {
			t.Errorf("payload %#02x: level = %v", payload, fi.Level)
		}
		if fi.Mask != byte(payload&0x07) {
			t.Errorf("payload %#02x: mask = %d", payload, fi.Mask)
		}
	}
}

func TestDecodeFormatBitsDamagedCopy(t *testing.T) {
	pattern := formatBitPatterns[0x0B] // level L, mask 3
	garbage := farFromFormatPatterns(t)

	// Three flipped bits are within correction range.
	fi, err := DecodeFormatBits(pattern^0x0007, garbage)
	if err != nil {
		t.Fatalf("one good copy should decode: %v", err)
	}
	if fi.Level != ECLevelL || fi.Mask != 3 {
		t.Errorf("got level %v mask %d, want L 3", fi.Level, fi.Mask)
	}

	// Order of the copies must not matter.
	fi, err = DecodeFormatBits(garbage, pattern^0x0007)
	if err != nil {
		t.Fatalf("one good copy should decode: %v", err)
	}
	if fi.Level != ECLevelL || fi.Mask != 3 {
		t.Errorf("got level %v mask %d, want L 3", fi.Level, fi.Mask)
	}
}

func TestDecodeFormatBitsDisagreement(t *testing.T) {
	if _, err := DecodeFormatBits(formatBitPatterns[0x00], formatBitPatterns[0x1F]); err == nil {
		t.Error("two clean but different copies should fail")
	}
}

func TestDecodeFormatBitsUnreadable(t *testing.T) {
	garbage := farFromFormatPatterns(t)
	if _, err := DecodeFormatBits(garbage, garbage); err == nil {
		t.Error("expected failure when no copy is correctable")
	}
}
