package decoder

import (
	"math/bits"

	"github.com/scanline/qr/bitutil"
)

// BlockRun is a run of identically sized error correction blocks.
type BlockRun struct {
	Count     int
	DataWords int
}

// ECSpec describes the block structure for one error correction level
// of one version.
type ECSpec struct {
	WordsPerBlock int // EC codewords per block
	Runs          []BlockRun
}

func (s *ECSpec) blockCount() int {
	n := 0
	for _, r := range s.Runs {
		n += r.Count
	}
	return n
}

// Version describes the geometry and codeword structure of one symbol
// version.
type Version struct {
	Number       int
	alignCenters []int
	ecSpecs      [4]ECSpec // indexed by ECLevel
	TotalWords   int
}

// Dimension returns the symbol's module width.
func (v *Version) Dimension() int {
	return 17 + 4*v.Number
}

// AlignmentCenters returns the row and column coordinates of alignment
// pattern centers.
func (v *Version) AlignmentCenters() []int {
	return v.alignCenters
}

// ECSpecFor returns the block structure for the given level.
func (v *Version) ECSpecFor(level ECLevel) *ECSpec {
	return &v.ecSpecs[level]
}

// FunctionModules returns a matrix with every function pattern module
// set: finders with separators and format areas, alignment patterns,
// timing tracks and version areas.
func (v *Version) FunctionModules() *bitutil.BitMatrix {
	dim := v.Dimension()
	fn := bitutil.NewBitMatrix(dim)

	// Finder patterns with their separators and the format field rows.
	fn.SetRegion(0, 0, 9, 9)
	fn.SetRegion(dim-8, 0, 8, 9)
	fn.SetRegion(0, dim-8, 9, 8)

	// Alignment patterns, skipping the three finder corners.
	n := len(v.alignCenters)
	for yi := 0; yi < n; yi++ {
		top := v.alignCenters[yi] - 2
		for xi := 0; xi < n; xi++ {
			if (yi == 0 && (xi == 0 || xi == n-1)) || (yi == n-1 && xi == 0) {
				continue
			}
			fn.SetRegion(v.alignCenters[xi]-2, top, 5, 5)
		}
	}

	// Timing tracks.
	fn.SetRegion(6, 9, 1, dim-17)
	fn.SetRegion(9, 6, dim-17, 1)

	if v.Number >= 7 {
		fn.SetRegion(dim-11, 0, 3, 6)
		fn.SetRegion(0, dim-11, 6, 3)
	}

	return fn
}

// VersionByNumber returns the version numbered 1 through 40.
func VersionByNumber(number int) (*Version, error) {
	if number < 1 || number > 40 {
		return nil, ErrVersionInfo
	}
	return &versionTable[number-1], nil
}

// VersionForDimension returns the version whose symbol is dimension
// modules wide.
func VersionForDimension(dimension int) (*Version, error) {
	if dimension < 21 || dimension > 177 || dimension%4 != 1 {
		return nil, ErrStructure
	}
	return VersionByNumber((dimension - 17) / 4)
}

// versionBitPatterns holds the 18-bit BCH-protected version field
// values for versions 7 through 40.
var versionBitPatterns = []int{
	0x07C94, 0x085BC, 0x09A99, 0x0A4D3, 0x0BBF6,
	0x0C762, 0x0D847, 0x0E60D, 0x0F928, 0x10B78,
	0x1145D, 0x12A17, 0x13532, 0x149A6, 0x15683,
	0x168C9, 0x177EC, 0x18EC4, 0x191E1, 0x1AFAB,
	0x1B08E, 0x1CC1A, 0x1D33F, 0x1ED75, 0x1F250,
	0x209D5, 0x216F0, 0x228BA, 0x2379F, 0x24B0B,
	0x2542E, 0x26A64, 0x27541, 0x28C69,
}

// matchVersionBits corrects a raw 18-bit version field against the
// known patterns and returns the version, or nil when the nearest
// pattern is more than three bits away.
func matchVersionBits(raw int) *Version {
	bestDiff := 32
	bestNumber := 0
	for i, pattern := range versionBitPatterns {
		if pattern == raw {
			return &versionTable[i+6]
		}
		if d := bits.OnesCount(uint(raw ^ pattern)); d < bestDiff {
			bestDiff = d
			bestNumber = i + 7
		}
	}
	if bestDiff <= 3 {
		return &versionTable[bestNumber-1]
	}
	return nil
}

func ver(number int, centers []int, l, m, q, h ECSpec) Version {
	v := Version{
		Number:       number,
		alignCenters: centers,
		ecSpecs:      [4]ECSpec{l, m, q, h},
	}
	for _, r := range l.Runs {
		v.TotalWords += r.Count * (r.DataWords + l.WordsPerBlock)
	}
	return v
}

func ec(wordsPerBlock int, runs ...BlockRun) ECSpec {
	return ECSpec{WordsPerBlock: wordsPerBlock, Runs: runs}
}

func rn(count, dataWords int) BlockRun {
	return BlockRun{Count: count, DataWords: dataWords}
}

var versionTable = [40]Version{
	ver(1, nil, ec(7, rn(1, 19)), ec(10, rn(1, 16)), ec(13, rn(1, 13)), ec(17, rn(1, 9))),
	ver(2, []int{6, 18}, ec(10, rn(1, 34)), ec(16, rn(1, 28)), ec(22, rn(1, 22)), ec(28, rn(1, 16))),
	ver(3, []int{6, 22}, ec(15, rn(1, 55)), ec(26, rn(1, 44)), ec(18, rn(2, 17)), ec(22, rn(2, 13))),
	ver(4, []int{6, 26}, ec(20, rn(1, 80)), ec(18, rn(2, 32)), ec(26, rn(2, 24)), ec(16, rn(4, 9))),
	ver(5, []int{6, 30}, ec(26, rn(1, 108)), ec(24, rn(2, 43)), ec(18, rn(2, 15), rn(2, 16)), ec(22, rn(2, 11), rn(2, 12))),
	ver(6, []int{6, 34}, ec(18, rn(2, 68)), ec(16, rn(4, 27)), ec(24, rn(4, 19)), ec(28, rn(4, 15))),
	ver(7, []int{6, 22, 38}, ec(20, rn(2, 78)), ec(18, rn(4, 31)), ec(18, rn(2, 14), rn(4, 15)), ec(26, rn(4, 13), rn(1, 14))),
	ver(8, []int{6, 24, 42}, ec(24, rn(2, 97)), ec(22, rn(2, 38), rn(2, 39)), ec(22, rn(4, 18), rn(2, 19)), ec(26, rn(4, 14), rn(2, 15))),
	ver(9, []int{6, 26, 46}, ec(30, rn(2, 116)), ec(22, rn(3, 36), rn(2, 37)), ec(20, rn(4, 16), rn(4, 17)), ec(24, rn(4, 12), rn(4, 13))),
	ver(10, []int{6, 28, 50}, ec(18, rn(2, 68), rn(2, 69)), ec(26, rn(4, 43), rn(1, 44)), ec(24, rn(6, 19), rn(2, 20)), ec(28, rn(6, 15), rn(2, 16))),
	ver(11, []int{6, 30, 54}, ec(20, rn(4, 81)), ec(30, rn(1, 50), rn(4, 51)), ec(28, rn(4, 22), rn(4, 23)), ec(24, rn(3, 12), rn(8, 13))),
	ver(12, []int{6, 32, 58}, ec(24, rn(2, 92), rn(2, 93)), ec(22, rn(6, 36), rn(2, 37)), ec(26, rn(4, 20), rn(6, 21)), ec(28, rn(7, 14), rn(4, 15))),
	ver(13, []int{6, 34, 62}, ec(26, rn(4, 107)), ec(22, rn(8, 37), rn(1, 38)), ec(24, rn(8, 20), rn(4, 21)), ec(22, rn(12, 11), rn(4, 12))),
	ver(14, []int{6, 26, 46, 66}, ec(30, rn(3, 115), rn(1, 116)), ec(24, rn(4, 40), rn(5, 41)), ec(20, rn(11, 16), rn(5, 17)), ec(24, rn(11, 12), rn(5, 13))),
	ver(15, []int{6, 26, 48, 70}, ec(22, rn(5, 87), rn(1, 88)), ec(24, rn(5, 41), rn(5, 42)), ec(30, rn(5, 24), rn(7, 25)), ec(24, rn(11, 12), rn(7, 13))),
	ver(16, []int{6, 26, 50, 74}, ec(24, rn(5, 98), rn(1, 99)), ec(28, rn(7, 45), rn(3, 46)), ec(24, rn(15, 19), rn(2, 20)), ec(30, rn(3, 15), rn(13, 16))),
	ver(17, []int{6, 30, 54, 78}, ec(28, rn(1, 107), rn(5, 108)), ec(28, rn(10, 46), rn(1, 47)), ec(28, rn(1, 22), rn(15, 23)), ec(28, rn(2, 14), rn(17, 15))),
	ver(18, []int{6, 30, 56, 82}, ec(30, rn(5, 120), rn(1, 121)), ec(26, rn(9, 43), rn(4, 44)), ec(28, rn(17, 22), rn(1, 23)), ec(28, rn(2, 14), rn(19, 15))),
	ver(19, []int{6, 30, 58, 86}, ec(28, rn(3, 113), rn(4, 114)), ec(26, rn(3, 44), rn(11, 45)), ec(26, rn(17, 21), rn(4, 22)), ec(26, rn(9, 13), rn(16, 14))),
	ver(20, []int{6, 34, 62, 90}, ec(28, rn(3, 107), rn(5, 108)), ec(26, rn(3, 41), rn(13, 42)), ec(30, rn(15, 24), rn(5, 25)), ec(28, rn(15, 15), rn(10, 16))),
	ver(21, []int{6, 28, 50, 72, 94}, ec(28, rn(4, 116), rn(4, 117)), ec(26, rn(17, 42)), ec(28, rn(17, 22), rn(6, 23)), ec(30, rn(19, 16), rn(6, 17))),
	ver(22, []int{6, 26, 50, 74, 98}, ec(28, rn(2, 111), rn(7, 112)), ec(28, rn(17, 46)), ec(30, rn(7, 24), rn(16, 25)), ec(24, rn(34, 13))),
	ver(23, []int{6, 30, 54, 78, 102}, ec(30, rn(4, 121), rn(5, 122)), ec(28, rn(4, 47), rn(14, 48)), ec(30, rn(11, 24), rn(14, 25)), ec(30, rn(16, 15), rn(14, 16))),
	ver(24, []int{6, 28, 54, 80, 106}, ec(30, rn(6, 117), rn(4, 118)), ec(28, rn(6, 45), rn(14, 46)), ec(30, rn(11, 24), rn(16, 25)), ec(30, rn(30, 16), rn(2, 17))),
	ver(25, []int{6, 32, 58, 84, 110}, ec(26, rn(8, 106), rn(4, 107)), ec(28, rn(8, 47), rn(13, 48)), ec(30, rn(7, 24), rn(22, 25)), ec(30, rn(22, 15), rn(13, 16))),
	ver(26, []int{6, 30, 58, 86, 114}, ec(28, rn(10, 114), rn(2, 115)), ec(28, rn(19, 46), rn(4, 47)), ec(28, rn(28, 22), rn(6, 23)), ec(30, rn(33, 16), rn(4, 17))),
	ver(27, []int{6, 34, 62, 90, 118}, ec(30, rn(8, 122), rn(4, 123)), ec(28, rn(22, 45), rn(3, 46)), ec(30, rn(8, 23), rn(26, 24)), ec(30, rn(12, 15), rn(28, 16))),
	ver(28, []int{6, 26, 50, 74, 98, 122}, ec(30, rn(3, 117), rn(10, 118)), ec(28, rn(3, 45), rn(23, 46)), ec(30, rn(4, 24), rn(31, 25)), ec(30, rn(11, 15), rn(31, 16))),
	ver(29, []int{6, 30, 54, 78, 102, 126}, ec(30, rn(7, 116), rn(7, 117)), ec(28, rn(21, 45), rn(7, 46)), ec(30, rn(1, 23), rn(37, 24)), ec(30, rn(19, 15), rn(26, 16))),
	ver(30, []int{6, 26, 52, 78, 104, 130}, ec(30, rn(5, 115), rn(10, 116)), ec(28, rn(19, 47), rn(10, 48)), ec(30, rn(15, 24), rn(25, 25)), ec(30, rn(23, 15), rn(25, 16))),
	ver(31, []int{6, 30, 56, 82, 108, 134}, ec(30, rn(13, 115), rn(3, 116)), ec(28, rn(2, 46), rn(29, 47)), ec(30, rn(42, 24), rn(1, 25)), ec(30, rn(23, 15), rn(28, 16))),
	ver(32, []int{6, 34, 60, 86, 112, 138}, ec(30, rn(17, 115)), ec(28, rn(10, 46), rn(23, 47)), ec(30, rn(10, 24), rn(35, 25)), ec(30, rn(19, 15), rn(35, 16))),
	ver(33, []int{6, 30, 58, 86, 114, 142}, ec(30, rn(17, 115), rn(1, 116)), ec(28, rn(14, 46), rn(21, 47)), ec(30, rn(29, 24), rn(19, 25)), ec(30, rn(11, 15), rn(46, 16))),
	ver(34, []int{6, 34, 62, 90, 118, 146}, ec(30, rn(13, 115), rn(6, 116)), ec(28, rn(14, 46), rn(23, 47)), ec(30, rn(44, 24), rn(7, 25)), ec(30, rn(59, 16), rn(1, 17))),
	ver(35, []int{6, 30, 54, 78, 102, 126, 150}, ec(30, rn(12, 121), rn(7, 122)), ec(28, rn(12, 47), rn(26, 48)), ec(30, rn(39, 24), rn(14, 25)), ec(30, rn(22, 15), rn(41, 16))),
	ver(36, []int{6, 24, 50, 76, 102, 128, 154}, ec(30, rn(6, 121), rn(14, 122)), ec(28, rn(6, 47), rn(34, 48)), ec(30, rn(46, 24), rn(10, 25)), ec(30, rn(2, 15), rn(64, 16))),
	ver(37, []int{6, 28, 54, 80, 106, 132, 158}, ec(30, rn(17, 122), rn(4, 123)), ec(28, rn(29, 46), rn(14, 47)), ec(30, rn(49, 24), rn(10, 25)), ec(30, rn(24, 15), rn(46, 16))),
	ver(38, []int{6, 32, 58, 84, 110, 136, 162}, ec(30, rn(4, 122), rn(18, 123)), ec(28, rn(13, 46), rn(32, 47)), ec(30, rn(48, 24), rn(14, 25)), ec(30, rn(42, 15), rn(32, 16))),
	ver(39, []int{6, 26, 54, 82, 110, 138, 166}, ec(30, rn(20, 117), rn(4, 118)), ec(28, rn(40, 47), rn(7, 48)), ec(30, rn(43, 24), rn(22, 25)), ec(30, rn(10, 15), rn(67, 16))),
	ver(40, []int{6, 30, 58, 86, 114, 142, 170}, ec(30, rn(19, 118), rn(6, 119)), ec(28, rn(18, 47), rn(31, 48)), ec(30, rn(34, 24), rn(34, 25)), ec(30, rn(20, 15), rn(61, 16))),
}
