package charset

// Guess picks the most plausible encoding for undeclared byte mode
// payloads. A non-empty hint names the caller's preferred default and
// wins outright when it resolves.
func Guess(data []byte, hint string) *Encoding {
	if hint != "" {
		if e := ByName(hint); e != nil {
			return e
		}
	}
	if len(data) > 2 &&
		((data[0] == 0xFE && data[1] == 0xFF) || (data[0] == 0xFF && data[1] == 0xFE)) {
		return UTF16BE
	}

	var s sniffer
	s.latin1, s.sjis, s.utf8 = true, true, true
	for _, b := range data {
		if !s.latin1 && !s.sjis && !s.utf8 {
			break
		}
		s.feed(b)
	}
	return s.verdict(data)
}

// sniffer accumulates per-candidate evidence while scanning a payload
// byte by byte. The heuristics mirror common scanner behavior: UTF-8
// continuation tracking, the ISO-8859-1 control gap, and Shift_JIS
// katakana and double byte run lengths.
type sniffer struct {
	latin1, sjis, utf8 bool

	utf8Pending  int // continuation bytes still owed
	utf8Multi    int // multi-byte sequences seen
	latin1High   int // printable high bytes

	sjisPending      int
	sjisKatakana     int
	kataRun, kataMax int
	dblRun, dblMax   int
}

func (s *sniffer) feed(b byte) {
	v := int(b)

	if s.utf8 {
		switch {
		case s.utf8Pending > 0:
			if v&0xC0 != 0x80 {
				s.utf8 = false
			} else {
				s.utf8Pending--
			}
		case v&0x80 == 0:
		case v&0xE0 == 0xC0:
			s.utf8Pending = 1
			s.utf8Multi++
		case v&0xF0 == 0xE0:
			s.utf8Pending = 2
			s.utf8Multi++
		case v&0xF8 == 0xF0:
			s.utf8Pending = 3
			s.utf8Multi++
		default:
			s.utf8 = false
		}
	}

	if s.latin1 {
		if v > 0x7F && v < 0xA0 {
			s.latin1 = false
		} else if v > 0x9F && (v < 0xC0 || v == 0xD7 || v == 0xF7) {
			s.latin1High++
		}
	}

	if s.sjis {
		switch {
		case s.sjisPending > 0:
			if v < 0x40 || v == 0x7F || v > 0xFC {
				s.sjis = false
			} else {
				s.sjisPending--
			}
		case v == 0x80 || v == 0xA0 || v > 0xEF:
			s.sjis = false
		case v > 0xA0 && v < 0xE0:
			s.sjisKatakana++
			s.dblRun = 0
			s.kataRun++
			s.kataMax = max(s.kataMax, s.kataRun)
		case v > 0x7F:
			s.sjisPending = 1
			s.kataRun = 0
			s.dblRun++
			s.dblMax = max(s.dblMax, s.dblRun)
		default:
			s.kataRun, s.dblRun = 0, 0
		}
	}
}

func (s *sniffer) verdict(data []byte) *Encoding {
	utf8 := s.utf8 && s.utf8Pending == 0
	sjis := s.sjis && s.sjisPending == 0

	bom := len(data) > 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF
	if utf8 && (bom || s.utf8Multi > 0) {
		return UTF8
	}
	if sjis && (s.kataMax >= 3 || s.dblMax >= 3) {
		return ShiftJIS
	}
	if s.latin1 && sjis {
		if (s.kataMax == 2 && s.sjisKatakana == 2) || s.latin1High*10 >= len(data) {
			return ShiftJIS
		}
		return Latin1
	}
	if s.latin1 {
		return Latin1
	}
	if sjis {
		return ShiftJIS
	}
	return UTF8
}
