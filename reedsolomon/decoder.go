package reedsolomon

import "errors"

// ErrUncorrectable is returned when a block holds more errors than its
// error correction capacity can repair.
var ErrUncorrectable = errors.New("reedsolomon: too many errors to correct")

// Decode corrects errors in received in place. The last ecCount entries
// are error correction codewords. It returns the number of codewords
// that were changed, or ErrUncorrectable if the block cannot be
// repaired.
func Decode(received []int, ecCount int) (int, error) {
	p := newPoly(received)

	syndromes := make([]int, ecCount)
	clean := true
	for i := 0; i < ecCount; i++ {
		s := p.evalAt(gfExp(i))
		syndromes[ecCount-1-i] = s
		if s != 0 {
			clean = false
		}
	}
	if clean {
		return 0, nil
	}

	sigma, omega, err := euclidean(newPoly(syndromes), ecCount)
	if err != nil {
		return 0, err
	}
	locations, err := errorLocations(sigma)
	if err != nil {
		return 0, err
	}
	magnitudes := errorMagnitudes(omega, locations)

	corrected := 0
	for i, loc := range locations {
		pos := len(received) - 1 - gfLog(loc)
		if pos < 0 {
			return 0, ErrUncorrectable
		}
		if magnitudes[i] != 0 {
			received[pos] ^= magnitudes[i]
			corrected++
		}
	}
	return corrected, nil
}

// euclidean runs the extended Euclidean algorithm on x^R and the
// syndrome polynomial, yielding the error locator sigma and the error
// evaluator omega.
func euclidean(syndromes *poly, ecCount int) (sigma, omega *poly, err error) {
	a := monomial(ecCount, 1)
	b := syndromes
	if a.degree() < b.degree() {
		a, b = b, a
	}

	rLast, r := a, b
	tLast, t := polyZero, polyOne

	// Divide until the remainder degree drops below R/2.
	for 2*r.degree() >= ecCount {
		rLastLast, tLastLast := rLast, tLast
		rLast, tLast = r, t
		if rLast.isZero() {
			return nil, nil, ErrUncorrectable
		}

		r = rLastLast
		q := polyZero
		invLead := gfInv(rLast.coeff(rLast.degree()))
		for r.degree() >= rLast.degree() && !r.isZero() {
			diff := r.degree() - rLast.degree()
			scale := gfMul(r.coeff(r.degree()), invLead)
			q = q.add(monomial(diff, scale))
			r = r.add(rLast.mulMonomial(diff, scale))
		}
		t = q.mul(tLast).add(tLastLast)

		if r.degree() >= rLast.degree() {
			return nil, nil, ErrUncorrectable
		}
	}

	sigmaTilde := t.coeff(0)
	if sigmaTilde == 0 {
		return nil, nil, ErrUncorrectable
	}
	inv := gfInv(sigmaTilde)
	return t.scale(inv), r.scale(inv), nil
}

// errorLocations finds the roots of the error locator polynomial by
// Chien search and returns their inverses, the error locations.
func errorLocations(sigma *poly) ([]int, error) {
	count := sigma.degree()
	if count == 1 {
		return []int{sigma.coeff(1)}, nil
	}
	locations := make([]int, 0, count)
	for i := 1; i < 256 && len(locations) < count; i++ {
		if sigma.evalAt(i) == 0 {
			locations = append(locations, gfInv(i))
		}
	}
	if len(locations) != count {
		return nil, ErrUncorrectable
	}
	return locations, nil
}

// errorMagnitudes computes the error value at each location by the
// Forney formula.
func errorMagnitudes(omega *poly, locations []int) []int {
	magnitudes := make([]int, len(locations))
	for i, loc := range locations {
		xiInv := gfInv(loc)
		denominator := 1
		for j, other := range locations {
			if i == j {
				continue
			}
			denominator = gfMul(denominator, 1^gfMul(other, xiInv))
		}
		magnitudes[i] = gfMul(omega.evalAt(xiInv), gfInv(denominator))
	}
	return magnitudes
}
