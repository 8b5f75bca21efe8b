// Package charset maps Extended Channel Interpretation designators to
// text encodings and converts payload bytes to UTF-8.
package charset

import (
	"errors"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// ErrUnknownECI indicates an ECI designator outside the character set
// assignment range.
var ErrUnknownECI = errors.New("charset: invalid ECI designator")

// Encoding identifies a character set reachable through an ECI
// designator or a caller-supplied name.
type Encoding struct {
	ECI     int
	Name    string
	aliases []string
}

// Character set encodings with ECI assignments.
var (
	Cp437     = &Encoding{2, "Cp437", []string{"IBM437"}}
	Latin1    = &Encoding{3, "ISO8859_1", []string{"ISO-8859-1", "Latin1"}}
	Latin2    = &Encoding{4, "ISO8859_2", []string{"ISO-8859-2"}}
	Latin3    = &Encoding{5, "ISO8859_3", []string{"ISO-8859-3"}}
	Latin4    = &Encoding{6, "ISO8859_4", []string{"ISO-8859-4"}}
	Cyrillic  = &Encoding{7, "ISO8859_5", []string{"ISO-8859-5"}}
	Arabic    = &Encoding{8, "ISO8859_6", []string{"ISO-8859-6"}}
	Greek     = &Encoding{9, "ISO8859_7", []string{"ISO-8859-7"}}
	Hebrew    = &Encoding{10, "ISO8859_8", []string{"ISO-8859-8"}}
	Latin5    = &Encoding{11, "ISO8859_9", []string{"ISO-8859-9"}}
	Latin6    = &Encoding{12, "ISO8859_10", []string{"ISO-8859-10"}}
	Thai      = &Encoding{13, "ISO8859_11", []string{"ISO-8859-11"}}
	Latin7    = &Encoding{15, "ISO8859_13", []string{"ISO-8859-13"}}
	Latin8    = &Encoding{16, "ISO8859_14", []string{"ISO-8859-14"}}
	Latin9    = &Encoding{17, "ISO8859_15", []string{"ISO-8859-15"}}
	Latin10   = &Encoding{18, "ISO8859_16", []string{"ISO-8859-16"}}
	ShiftJIS  = &Encoding{20, "SJIS", []string{"Shift_JIS"}}
	Cp1250    = &Encoding{21, "Cp1250", []string{"windows-1250"}}
	Cp1251    = &Encoding{22, "Cp1251", []string{"windows-1251"}}
	Cp1252    = &Encoding{23, "Cp1252", []string{"windows-1252"}}
	Cp1256    = &Encoding{24, "Cp1256", []string{"windows-1256"}}
	UTF16BE   = &Encoding{25, "UnicodeBigUnmarked", []string{"UTF-16BE"}}
	UTF8      = &Encoding{26, "UTF8", []string{"UTF-8"}}
	ASCII     = &Encoding{27, "ASCII", []string{"US-ASCII"}}
	Big5      = &Encoding{28, "Big5", nil}
	GB18030   = &Encoding{29, "GB18030", []string{"GB2312", "GBK", "EUC_CN"}}
	EUCKR     = &Encoding{30, "EUC_KR", []string{"EUC-KR"}}
)

var all = []*Encoding{
	Cp437, Latin1, Latin2, Latin3, Latin4, Cyrillic, Arabic, Greek,
	Hebrew, Latin5, Latin6, Thai, Latin7, Latin8, Latin9, Latin10,
	ShiftJIS, Cp1250, Cp1251, Cp1252, Cp1256, UTF16BE, UTF8, ASCII,
	Big5, GB18030, EUCKR,
}

var (
	byECI  = map[int]*Encoding{}
	byName = map[string]*Encoding{}
)

func init() {
	for _, e := range all {
		byECI[e.ECI] = e
		byName[e.Name] = e
		for _, alias := range e.aliases {
			byName[alias] = e
		}
	}
	// Historical double assignments.
	byECI[0] = Cp437
	byECI[1] = Latin1
	byECI[170] = ASCII
}

// ByECI resolves an ECI designator to its encoding. Designators in the
// character set range with no assignment resolve to nil without error.
func ByECI(value int) (*Encoding, error) {
	if value < 0 || value >= 900 {
		return nil, ErrUnknownECI
	}
	return byECI[value], nil
}

// ByName resolves an encoding by name or alias, or nil.
func ByName(name string) *Encoding {
	return byName[name]
}

// Decode converts data from the encoding to a UTF-8 string. Encodings
// without a converter, including Latin-1, pass bytes through unchanged;
// conversion failures fall back to the raw bytes.
func (e *Encoding) Decode(data []byte) string {
	if e == nil {
		return string(data)
	}
	switch e {
	case ShiftJIS:
		if s, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), data); err == nil {
			return string(s)
		}
	case GB18030:
		if s, _, err := transform.Bytes(simplifiedchinese.GB18030.NewDecoder(), data); err == nil {
			return string(s)
		}
	}
	return string(data)
}
