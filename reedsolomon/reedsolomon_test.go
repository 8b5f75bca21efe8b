package reedsolomon

import "testing"

func TestEncodeDecode(t *testing.T) {
	dataSize := 10
	ecSize := 7
	toEncode := make([]int, dataSize+ecSize)
	for i := 0; i < dataSize; i++ {
		toEncode[i] = i + 1
	}

	Encode(toEncode, ecSize)

	for i := 0; i < dataSize; i++ {
		if toEncode[i] != i+1 {
			t.Errorf("data[%d] = %d, want %d", i, toEncode[i], i+1)
		}
	}

	// Corrupt three codewords, exactly the correction capacity for
	// seven EC codewords.
	received := make([]int, len(toEncode))
	copy(received, toEncode)
	received[0] = 0
	received[3] = 200
	received[6] = 100

	corrected, err := Decode(received, ecSize)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if corrected != 3 {
		t.Errorf("corrected = %d, want 3", corrected)
	}

	for i := range toEncode {
		if received[i] != toEncode[i] {
			t.Errorf("after correction, codeword[%d] = %d, want %d", i, received[i], toEncode[i])
		}
	}
}

func TestDecodeNoErrors(t *testing.T) {
	dataSize := 5
	ecSize := 4
	toEncode := make([]int, dataSize+ecSize)
	for i := 0; i < dataSize; i++ {
		toEncode[i] = (i + 1) * 10
	}

	Encode(toEncode, ecSize)

	corrected, err := Decode(toEncode, ecSize)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if corrected != 0 {
		t.Errorf("corrected = %d, want 0 (no errors)", corrected)
	}
}

func TestDecodeTooManyErrors(t *testing.T) {
	dataSize := 5
	ecSize := 4
	toEncode := make([]int, dataSize+ecSize)
	for i := 0; i < dataSize; i++ {
		toEncode[i] = (i + 1) * 10
	}

	Encode(toEncode, ecSize)

	// 3 errors, capacity is ecSize/2 = 2.
	received := make([]int, len(toEncode))
	copy(received, toEncode)
	received[0] = 0
	received[1] = 0
	received[2] = 0

	if _, err := Decode(received, ecSize); err == nil {
		t.Error("expected error for too many errors")
	}
}

func TestGaloisFieldBasics(t *testing.T) {
	for a := 1; a < 256; a++ {
		if got := gfMul(a, gfInv(a)); got != 1 {
			t.Errorf("a=%d: a*inv(a) = %d, want 1", a, got)
		}
	}

	if gfMul(0, 100) != 0 || gfMul(100, 0) != 0 {
		t.Error("multiply by 0 should be 0")
	}

	// The exp table wraps with period 255.
	if gfExp(0) != 1 {
		t.Errorf("exp(0) = %d, want 1", gfExp(0))
	}
	for i := 1; i < 255; i++ {
		if gfExp(i) == 1 {
			t.Errorf("exp(%d) = 1 before full period", i)
		}
	}
}

func TestPoly(t *testing.T) {
	if !polyZero.isZero() {
		t.Error("zero should be zero")
	}
	if polyOne.isZero() || polyOne.degree() != 0 {
		t.Error("one should be a nonzero constant")
	}

	// p(x) = 2x + 3
	p := newPoly([]int{2, 3})
	if p.evalAt(0) != 3 {
		t.Errorf("p(0) = %d, want 3", p.evalAt(0))
	}
	// p(1) = 2 XOR 3 = 1
	if p.evalAt(1) != 1 {
		t.Errorf("p(1) = %d, want 1", p.evalAt(1))
	}

	if p.scale(1) != p {
		t.Error("scaling by 1 should return the same polynomial")
	}

	// Adding a polynomial to itself cancels every term.
	if !p.add(p).isZero() {
		t.Error("p + p should be zero")
	}

	// Leading zeros are trimmed.
	q := newPoly([]int{0, 0, 5})
	if q.degree() != 0 || q.coeff(0) != 5 {
		t.Errorf("normalization failed: degree %d, coeff %d", q.degree(), q.coeff(0))
	}
}
