package decoder

import (
	"bytes"
	"testing"
)

// bitWriter assembles test bit streams MSB first.
type bitWriter struct {
	data []byte
	used int // bits used in the last byte
}

func (w *bitWriter) write(value, n int) {
	for i := n - 1; i >= 0; i-- {
		if w.used == 0 {
			w.data = append(w.data, 0)
		}
		if value>>i&1 == 1 {
			w.data[len(w.data)-1] |= 0x80 >> w.used
		}
		w.used = (w.used + 1) % 8
	}
}

func v1(t *testing.T) *Version {
	t.Helper()
	v, err := VersionByNumber(1)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestParseNumericThenByte(t *testing.T) {
	var w bitWriter
	w.write(int(ModeNumeric), 4)
	w.write(3, 10)
	w.write(123, 10)
	w.write(int(ModeByte), 4)
	w.write(2, 8)
	w.write(0xDE, 8)
	w.write(0xAD, 8)
	w.write(int(ModeTerminator), 4)

	content, err := parseBitStream(w.data, v1(t), "ISO8859_1")
	if err != nil {
		t.Fatal(err)
	}
	if content.text != "123\xde\xad" {
		t.Errorf("text = %q, want %q", content.text, "123\xde\xad")
	}
	if len(content.byteSegments) != 1 || !bytes.Equal(content.byteSegments[0], []byte{0xDE, 0xAD}) {
		t.Errorf("byteSegments = %v", content.byteSegments)
	}
	if content.saSequence != -1 || content.saParity != -1 {
		t.Error("standalone symbol should carry no structured append header")
	}
}

func TestParseNumericRemainders(t *testing.T) {
	// "1234567" splits into 123, 456 and a trailing 7.
	var w bitWriter
	w.write(int(ModeNumeric), 4)
	w.write(7, 10)
	w.write(123, 10)
	w.write(456, 10)
	w.write(7, 4)
	w.write(int(ModeTerminator), 4)

	content, err := parseBitStream(w.data, v1(t), "")
	if err != nil {
		t.Fatal(err)
	}
	if content.text != "1234567" {
		t.Errorf("text = %q, want %q", content.text, "1234567")
	}
}

func TestParseNumericLeadingZeros(t *testing.T) {
	var w bitWriter
	w.write(int(ModeNumeric), 4)
	w.write(5, 10)
	w.write(7, 10)  // "007"
	w.write(42, 7)  // "42"
	w.write(int(ModeTerminator), 4)

	content, err := parseBitStream(w.data, v1(t), "")
	if err != nil {
		t.Fatal(err)
	}
	if content.text != "00742" {
		t.Errorf("text = %q, want %q", content.text, "00742")
	}
}

func TestParseNumericOverflow(t *testing.T) {
	var w bitWriter
	w.write(int(ModeNumeric), 4)
	w.write(3, 10)
	w.write(1000, 10) // not a valid digit triple

	if _, err := parseBitStream(w.data, v1(t), ""); err == nil {
		t.Error("digit triple 1000 should fail")
	}
}

func TestParseAlphanumeric(t *testing.T) {
	// "AC-42": pairs (A,C), (-,4), single 2.
	var w bitWriter
	w.write(int(ModeAlphanum), 4)
	w.write(5, 9)
	w.write(10*45+12, 11)
	w.write(41*45+4, 11)
	w.write(2, 6)
	w.write(int(ModeTerminator), 4)

	content, err := parseBitStream(w.data, v1(t), "")
	if err != nil {
		t.Fatal(err)
	}
	if content.text != "AC-42" {
		t.Errorf("text = %q, want %q", content.text, "AC-42")
	}
}

func TestParseKanji(t *testing.T) {
	// Shift_JIS 0x935F, offset encoding (0x935F-0x8140) packed base 0xC0.
	var w bitWriter
	w.write(int(ModeKanji), 4)
	w.write(1, 8)
	w.write(0x12*0xC0+0x1F, 13)
	w.write(int(ModeTerminator), 4)

	content, err := parseBitStream(w.data, v1(t), "")
	if err != nil {
		t.Fatal(err)
	}
	if content.text != "点" {
		t.Errorf("text = %q, want %q", content.text, "点")
	}
}

func TestParseECIOverridesGuess(t *testing.T) {
	// UTF-8 declared through ECI 26, then the two bytes of U+00E9.
	var w bitWriter
	w.write(int(ModeECI), 4)
	w.write(26, 8)
	w.write(int(ModeByte), 4)
	w.write(2, 8)
	w.write(0xC3, 8)
	w.write(0xA9, 8)
	w.write(int(ModeTerminator), 4)

	content, err := parseBitStream(w.data, v1(t), "ISO8859_1")
	if err != nil {
		t.Fatal(err)
	}
	if content.text != "é" {
		t.Errorf("text = %q, want %q", content.text, "é")
	}
}

func TestParseFNC1Escapes(t *testing.T) {
	// In FNC1 symbols "%" becomes the GS separator and "%%" a percent.
	var w bitWriter
	w.write(int(ModeFNC1First), 4)
	w.write(int(ModeAlphanum), 4)
	w.write(4, 9)
	w.write(10*45+38, 11) // "A%"
	w.write(38*45+11, 11) // "%B"
	w.write(int(ModeTerminator), 4)

	content, err := parseBitStream(w.data, v1(t), "")
	if err != nil {
		t.Fatal(err)
	}
	if content.text != "A%B" {
		t.Errorf("text = %q, want %q", content.text, "A%B")
	}
	if !content.fnc1First {
		t.Error("fnc1First not set")
	}

	// A lone percent turns into GS.
	w = bitWriter{}
	w.write(int(ModeFNC1First), 4)
	w.write(int(ModeAlphanum), 4)
	w.write(3, 9)
	w.write(10*45+38, 11) // "A%"
	w.write(11, 6)        // "B"
	w.write(int(ModeTerminator), 4)

	content, err = parseBitStream(w.data, v1(t), "")
	if err != nil {
		t.Fatal(err)
	}
	if content.text != "A\x1dB" {
		t.Errorf("text = %q, want %q", content.text, "A\x1dB")
	}
}

func TestParseStructuredAppend(t *testing.T) {
	var w bitWriter
	w.write(int(ModeSAppend), 4)
	w.write(0x23, 8) // symbol 2 of 4
	w.write(0x5A, 8)
	w.write(int(ModeNumeric), 4)
	w.write(1, 10)
	w.write(9, 4)
	w.write(int(ModeTerminator), 4)

	content, err := parseBitStream(w.data, v1(t), "")
	if err != nil {
		t.Fatal(err)
	}
	if content.saSequence != 0x23 || content.saParity != 0x5A {
		t.Errorf("structured append = %#x %#x, want 0x23 0x5a", content.saSequence, content.saParity)
	}
	if content.text != "9" {
		t.Errorf("text = %q, want %q", content.text, "9")
	}
}

func TestParseImplicitTerminator(t *testing.T) {
	// The stream may end without a terminator when the symbol is full.
	var w bitWriter
	w.write(int(ModeNumeric), 4)
	w.write(1, 10)
	w.write(5, 4)

	content, err := parseBitStream(w.data, v1(t), "")
	if err != nil {
		t.Fatal(err)
	}
	if content.text != "5" {
		t.Errorf("text = %q, want %q", content.text, "5")
	}
}

func TestParseTruncatedSegment(t *testing.T) {
	// A byte segment that promises more bytes than the stream holds.
	var w bitWriter
	w.write(int(ModeByte), 4)
	w.write(200, 8)
	w.write(0xAB, 8)

	if _, err := parseBitStream(w.data, v1(t), ""); err == nil {
		t.Error("truncated byte segment should fail")
	}
}
