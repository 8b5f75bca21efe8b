package reedsolomon

// Encode fills the last ecCount entries of block with error correction
// codewords computed over the preceding data codewords.
func Encode(block []int, ecCount int) {
	if ecCount == 0 {
		panic("reedsolomon: no error correction codewords")
	}
	dataCount := len(block) - ecCount
	if dataCount <= 0 {
		panic("reedsolomon: no data codewords")
	}

	generator := polyOne
	for d := 0; d < ecCount; d++ {
		generator = generator.mul(newPoly([]int{1, gfExp(d)}))
	}

	info := newPoly(block[:dataCount:dataCount])
	remainder := info.mulMonomial(ecCount, 1).mod(generator)

	pad := ecCount - (remainder.degree() + 1)
	for i := 0; i < pad; i++ {
		block[dataCount+i] = 0
	}
	for i := 0; i <= remainder.degree(); i++ {
		block[dataCount+pad+i] = remainder.coeffs[i]
	}
}
