package decoder

import (
	"math/bits"
	"testing"
)

func TestVersionByNumber(t *testing.T) {
	v, err := VersionByNumber(7)
	if err != nil {
		t.Fatal(err)
	}
	if v.Dimension() != 45 {
		t.Errorf("version 7 dimension = %d, want 45", v.Dimension())
	}
	if got := v.AlignmentCenters(); len(got) != 3 || got[2] != 38 {
		t.Errorf("version 7 alignment centers = %v", got)
	}

	for _, bad := range []int{0, 41, -3} {
		if _, err := VersionByNumber(bad); err == nil {
			t.Errorf("VersionByNumber(%d) should fail", bad)
		}
	}
}

func TestVersionForDimension(t *testing.T) {
	v, err := VersionForDimension(21)
	if err != nil || v.Number != 1 {
		t.Errorf("dimension 21: got %v, %v", v, err)
	}
	v, err = VersionForDimension(177)
	if err != nil || v.Number != 40 {
		t.Errorf("dimension 177: got %v, %v", v, err)
	}
	for _, bad := range []int{20, 24, 17, 181} {
		if _, err := VersionForDimension(bad); err == nil {
			t.Errorf("dimension %d should fail", bad)
		}
	}
}

func TestMatchVersionBits(t *testing.T) {
	// Exact patterns map straight to their versions.
	for i, pattern := range versionBitPatterns {
		v := matchVersionBits(pattern)
		if v == nil || v.Number != i+7 {
			t.Fatalf("pattern %#x: got %v, want version %d", pattern, v, i+7)
		}
	}

	// Up to three damaged bits correct to the original version.
	if v := matchVersionBits(versionBitPatterns[0] ^ 0x25); v == nil || v.Number != 7 {
		t.Errorf("3-bit damage: got %v, want version 7", v)
	}

	// A value at least four bits from every pattern must not decode.
	for raw := 0; raw < 1<<18; raw++ {
		minDiff := 32
		for _, p := range versionBitPatterns {
			if d := bits.OnesCount(uint(raw ^ p)); d < minDiff {
				minDiff = d
			}
		}
		if minDiff >= 4 {
			if v := matchVersionBits(raw); v != nil {
				t.Errorf("raw %#x decoded to version %d despite distance %d", raw, v.Number, minDiff)
			}
			break
		}
	}
}

func TestTotalWords(t *testing.T) {
	// Data plus EC codewords must fill the data region exactly.
	for n := 1; n <= 40; n++ {
		v, err := VersionByNumber(n)
		if err != nil {
			t.Fatal(err)
		}
		fn := v.FunctionModules()
		dim := v.Dimension()
		dataModules := 0
		for y := 0; y < dim; y++ {
			for x := 0; x < dim; x++ {
				if !fn.Get(x, y) {
					dataModules++
				}
			}
		}
		if got := dataModules / 8; got != v.TotalWords {
			t.Errorf("version %d: %d codewords fit, table says %d", n, got, v.TotalWords)
		}
	}
}

func TestECSpecConsistency(t *testing.T) {
	// Every level's blocks must add up to the version's total.
	for n := 1; n <= 40; n++ {
		v, _ := VersionByNumber(n)
		for _, level := range []ECLevel{ECLevelL, ECLevelM, ECLevelQ, ECLevelH} {
			spec := v.ECSpecFor(level)
			total := 0
			for _, r := range spec.Runs {
				total += r.Count * (r.DataWords + spec.WordsPerBlock)
			}
			if total != v.TotalWords {
				t.Errorf("version %d level %v: blocks total %d, want %d", n, level, total, v.TotalWords)
			}
		}
	}
}
