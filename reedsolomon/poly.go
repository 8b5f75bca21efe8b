package reedsolomon

// poly is a polynomial over GF(256). Coefficients run from the highest
// degree term down to the constant. Values are immutable once built.
type poly struct {
	coeffs []int
}

var (
	polyZero = &poly{coeffs: []int{0}}
	polyOne  = &poly{coeffs: []int{1}}
)

// newPoly normalizes away leading zero coefficients.
func newPoly(coeffs []int) *poly {
	if len(coeffs) == 0 {
		panic("reedsolomon: polynomial needs coefficients")
	}
	lead := 0
	for lead < len(coeffs)-1 && coeffs[lead] == 0 {
		lead++
	}
	if lead == 0 {
		return &poly{coeffs: coeffs}
	}
	trimmed := make([]int, len(coeffs)-lead)
	copy(trimmed, coeffs[lead:])
	return &poly{coeffs: trimmed}
}

// monomial returns coefficient·x^degree.
func monomial(degree, coefficient int) *poly {
	if coefficient == 0 {
		return polyZero
	}
	coeffs := make([]int, degree+1)
	coeffs[0] = coefficient
	return &poly{coeffs: coeffs}
}

func (p *poly) degree() int { return len(p.coeffs) - 1 }

func (p *poly) isZero() bool { return p.coeffs[0] == 0 }

// coeff returns the coefficient of x^degree.
func (p *poly) coeff(degree int) int {
	return p.coeffs[len(p.coeffs)-1-degree]
}

// evalAt evaluates the polynomial at a by Horner's rule.
func (p *poly) evalAt(a int) int {
	if a == 0 {
		return p.coeff(0)
	}
	if a == 1 {
		sum := 0
		for _, c := range p.coeffs {
			sum ^= c
		}
		return sum
	}
	result := p.coeffs[0]
	for _, c := range p.coeffs[1:] {
		result = gfMul(a, result) ^ c
	}
	return result
}

// add returns p + q. Addition in GF(2^8) is XOR, so this is also p - q.
func (p *poly) add(q *poly) *poly {
	if p.isZero() {
		return q
	}
	if q.isZero() {
		return p
	}
	small, large := p.coeffs, q.coeffs
	if len(small) > len(large) {
		small, large = large, small
	}
	sum := make([]int, len(large))
	diff := len(large) - len(small)
	copy(sum, large[:diff])
	for i := diff; i < len(large); i++ {
		sum[i] = small[i-diff] ^ large[i]
	}
	return newPoly(sum)
}

// mul returns p · q.
func (p *poly) mul(q *poly) *poly {
	if p.isZero() || q.isZero() {
		return polyZero
	}
	product := make([]int, len(p.coeffs)+len(q.coeffs)-1)
	for i, pc := range p.coeffs {
		for j, qc := range q.coeffs {
			product[i+j] ^= gfMul(pc, qc)
		}
	}
	return newPoly(product)
}

// scale returns p multiplied by a scalar field element.
func (p *poly) scale(s int) *poly {
	if s == 0 {
		return polyZero
	}
	if s == 1 {
		return p
	}
	out := make([]int, len(p.coeffs))
	for i, c := range p.coeffs {
		out[i] = gfMul(c, s)
	}
	return &poly{coeffs: out}
}

// mulMonomial returns p · coefficient·x^degree.
func (p *poly) mulMonomial(degree, coefficient int) *poly {
	if coefficient == 0 {
		return polyZero
	}
	out := make([]int, len(p.coeffs)+degree)
	for i, c := range p.coeffs {
		out[i] = gfMul(c, coefficient)
	}
	return newPoly(out)
}

// mod returns the remainder of p divided by q.
func (p *poly) mod(q *poly) *poly {
	if q.isZero() {
		panic("reedsolomon: division by zero polynomial")
	}
	invLead := gfInv(q.coeff(q.degree()))
	remainder := p
	for remainder.degree() >= q.degree() && !remainder.isZero() {
		diff := remainder.degree() - q.degree()
		scale := gfMul(remainder.coeff(remainder.degree()), invLead)
		remainder = remainder.add(q.mulMonomial(diff, scale))
	}
	return remainder
}
