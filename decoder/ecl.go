package decoder

// ECLevel is one of the four error correction levels.
type ECLevel int

const (
	ECLevelL ECLevel = iota // ~7% recovery
	ECLevelM                // ~15% recovery
	ECLevelQ                // ~25% recovery
	ECLevelH                // ~30% recovery
)

// eclForBits maps the 2-bit format field value to a level. The wire
// order is M, L, H, Q.
var eclForBits = [4]ECLevel{ECLevelM, ECLevelL, ECLevelH, ECLevelQ}

func (l ECLevel) String() string {
	switch l {
	case ECLevelL:
		return "L"
	case ECLevelM:
		return "M"
	case ECLevelQ:
		return "Q"
	case ECLevelH:
		return "H"
	}
	return "?"
}
