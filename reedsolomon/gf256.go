// Package reedsolomon implements Reed-Solomon error correction over GF(256)
// with the QR code generator polynomial (primitive polynomial 0x11D,
// generator base 0). Decoding follows the classic syndrome / Euclidean
// algorithm / Chien search / Forney chain.
package reedsolomon

// QR codes use GF(2^8) modulo x^8 + x^4 + x^3 + x^2 + 1.
const primitivePoly = 0x11D

var (
	expTable [256]int
	logTable [256]int
)

func init() {
	x := 1
	for i := 0; i < 256; i++ {
		expTable[i] = x
		x <<= 1
		if x >= 256 {
			x = (x ^ primitivePoly) & 0xFF
		}
	}
	for i := 0; i < 255; i++ {
		logTable[expTable[i]] = i
	}
}

// gfExp returns alpha^power.
func gfExp(power int) int { return expTable[power] }

// gfLog returns the discrete log of a. a must be nonzero.
func gfLog(a int) int {
	if a == 0 {
		panic("reedsolomon: log of zero")
	}
	return logTable[a]
}

// gfMul multiplies two field elements.
func gfMul(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	return expTable[(logTable[a]+logTable[b])%255]
}

// gfInv returns the multiplicative inverse of a nonzero field element.
func gfInv(a int) int {
	if a == 0 {
		panic("reedsolomon: inverse of zero")
	}
	return expTable[255-logTable[a]]
}
