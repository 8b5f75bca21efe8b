package decoder

import (
	"strconv"
	"strings"

	"github.com/scanline/qr/bitutil"
	"github.com/scanline/qr/charset"
)

const alphanumTable = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"

// gb2312Subset is the Hanzi mode subset indicator for GB2312.
const gb2312Subset = 1

// streamContent is the parsed payload of a symbol's data codewords.
type streamContent struct {
	text         string
	byteSegments [][]byte

	// Structured append header, or -1 when absent.
	saSequence int
	saParity   int

	fnc1First  bool
	fnc1Second bool
}

// parseBitStream walks the data codeword bit stream segment by
// segment until an explicit terminator or stream exhaustion. hint names
// the preferred encoding for byte segments without an ECI designator.
func parseBitStream(data []byte, version *Version, hint string) (*streamContent, error) {
	bs := bitutil.NewBitSource(data)
	var text strings.Builder
	out := &streamContent{saSequence: -1, saParity: -1}

	var eci *charset.Encoding
	fnc1 := false

	for {
		var mode Mode
		if bs.Available() < 4 {
			// Streams may omit the terminator when full.
			mode = ModeTerminator
		} else {
			modeBits, err := bs.ReadBits(4)
			if err != nil {
				return nil, ErrSegment
			}
			mode, err = modeForBits(modeBits)
			if err != nil {
				return nil, err
			}
		}

		switch mode {
		case ModeTerminator:
			out.text = text.String()
			return out, nil
		case ModeFNC1First:
			out.fnc1First = true
			fnc1 = true
		case ModeFNC1Second:
			out.fnc1Second = true
			fnc1 = true
		case ModeSAppend:
			if bs.Available() < 16 {
				return nil, ErrSegment
			}
			seq, _ := bs.ReadBits(8)
			par, _ := bs.ReadBits(8)
			out.saSequence = seq
			out.saParity = par
		case ModeECI:
			value, err := readECIDesignator(bs)
			if err != nil {
				return nil, err
			}
			e, err := charset.ByECI(value)
			if err != nil {
				return nil, ErrSegment
			}
			eci = e
		case ModeHanzi:
			subset, err := bs.ReadBits(4)
			if err != nil {
				return nil, ErrSegment
			}
			count, err := bs.ReadBits(mode.CharacterCountBits(version))
			if err != nil {
				return nil, ErrSegment
			}
			if subset == gb2312Subset {
				if err := parseHanzi(bs, &text, count); err != nil {
					return nil, err
				}
			}
		case ModeNumeric, ModeAlphanum, ModeByte, ModeKanji:
			count, err := bs.ReadBits(mode.CharacterCountBits(version))
			if err != nil {
				return nil, ErrSegment
			}
			switch mode {
			case ModeNumeric:
				err = parseNumeric(bs, &text, count)
			case ModeAlphanum:
				err = parseAlphanum(bs, &text, count, fnc1)
			case ModeByte:
				var seg []byte
				seg, err = parseBytes(bs, &text, count, eci, hint)
				if seg != nil {
					out.byteSegments = append(out.byteSegments, seg)
				}
			case ModeKanji:
				err = parseKanji(bs, &text, count)
			}
			if err != nil {
				return nil, err
			}
		}
	}
}

// readECIDesignator reads the variable width ECI designator: one, two
// or three bytes selected by the leading bits.
func readECIDesignator(bs *bitutil.BitSource) (int, error) {
	first, err := bs.ReadBits(8)
	if err != nil {
		return 0, ErrSegment
	}
	switch {
	case first&0x80 == 0:
		return first & 0x7F, nil
	case first&0xC0 == 0x80:
		second, err := bs.ReadBits(8)
		if err != nil {
			return 0, ErrSegment
		}
		return (first&0x3F)<<8 | second, nil
	case first&0xE0 == 0xC0:
		rest, err := bs.ReadBits(16)
		if err != nil {
			return 0, ErrSegment
		}
		return (first&0x1F)<<16 | rest, nil
	}
	return 0, ErrSegment
}

func parseNumeric(bs *bitutil.BitSource, text *strings.Builder, count int) error {
	for count >= 3 {
		triple, err := bs.ReadBits(10)
		if err != nil || triple >= 1000 {
			return ErrSegment
		}
		writePadded(text, triple, 3)
		count -= 3
	}
	switch count {
	case 2:
		pair, err := bs.ReadBits(7)
		if err != nil || pair >= 100 {
			return ErrSegment
		}
		writePadded(text, pair, 2)
	case 1:
		digit, err := bs.ReadBits(4)
		if err != nil || digit >= 10 {
			return ErrSegment
		}
		text.WriteByte('0' + byte(digit))
	}
	return nil
}

func writePadded(text *strings.Builder, value, width int) {
	s := strconv.Itoa(value)
	for i := len(s); i < width; i++ {
		text.WriteByte('0')
	}
	text.WriteString(s)
}

func alphanumChar(value int) (byte, error) {
	if value < 0 || value >= len(alphanumTable) {
		return 0, ErrSegment
	}
	return alphanumTable[value], nil
}

func parseAlphanum(bs *bitutil.BitSource, text *strings.Builder, count int, fnc1 bool) error {
	start := text.Len()
	for count > 1 {
		pair, err := bs.ReadBits(11)
		if err != nil {
			return ErrSegment
		}
		c1, err := alphanumChar(pair / 45)
		if err != nil {
			return err
		}
		c2, err := alphanumChar(pair % 45)
		if err != nil {
			return err
		}
		text.WriteByte(c1)
		text.WriteByte(c2)
		count -= 2
	}
	if count == 1 {
		v, err := bs.ReadBits(6)
		if err != nil {
			return ErrSegment
		}
		c, err := alphanumChar(v)
		if err != nil {
			return err
		}
		text.WriteByte(c)
	}
	if fnc1 {
		applyFNC1Escapes(text, start)
	}
	return nil
}

// applyFNC1Escapes rewrites the segment written since start: "%%"
// collapses to a literal percent and a lone "%" becomes the GS
// separator.
func applyFNC1Escapes(text *strings.Builder, start int) {
	s := text.String()
	var out strings.Builder
	out.Grow(len(s))
	out.WriteString(s[:start])
	for i := start; i < len(s); i++ {
		if s[i] == '%' {
			if i+1 < len(s) && s[i+1] == '%' {
				out.WriteByte('%')
				i++
			} else {
				out.WriteByte(0x1D)
			}
		} else {
			out.WriteByte(s[i])
		}
	}
	text.Reset()
	text.WriteString(out.String())
}

func parseBytes(bs *bitutil.BitSource, text *strings.Builder, count int, eci *charset.Encoding, hint string) ([]byte, error) {
	if 8*count > bs.Available() {
		return nil, ErrSegment
	}
	raw := make([]byte, count)
	for i := range raw {
		v, _ := bs.ReadBits(8)
		raw[i] = byte(v)
	}
	enc := eci
	if enc == nil {
		enc = charset.Guess(raw, hint)
	}
	text.WriteString(enc.Decode(raw))
	return raw, nil
}

func parseKanji(bs *bitutil.BitSource, text *strings.Builder, count int) error {
	if 13*count > bs.Available() {
		return ErrSegment
	}
	buf := make([]byte, 0, 2*count)
	for ; count > 0; count-- {
		v, err := bs.ReadBits(13)
		if err != nil {
			return ErrSegment
		}
		assembled := (v/0x0C0)<<8 | v%0x0C0
		if assembled < 0x01F00 {
			assembled += 0x08140
		} else {
			assembled += 0x0C140
		}
		buf = append(buf, byte(assembled>>8), byte(assembled))
	}
	text.WriteString(charset.ShiftJIS.Decode(buf))
	return nil
}

func parseHanzi(bs *bitutil.BitSource, text *strings.Builder, count int) error {
	if 13*count > bs.Available() {
		return ErrSegment
	}
	buf := make([]byte, 0, 2*count)
	for ; count > 0; count-- {
		v, err := bs.ReadBits(13)
		if err != nil {
			return ErrSegment
		}
		assembled := (v/0x060)<<8 | v%0x060
		if assembled < 0x00A00 {
			assembled += 0x0A1A1
		} else {
			assembled += 0x0A6A1
		}
		buf = append(buf, byte(assembled>>8), byte(assembled))
	}
	text.WriteString(charset.GB18030.Decode(buf))
	return nil
}
