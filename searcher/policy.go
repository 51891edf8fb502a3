package searcher

import "math"

type uct struct {
	numerator float64
}

func newUCT(c float64, N float64) *uct {
	if N == 0 {
		panic("N cannot be 0")
	}
	return &uct{numerator: c * c * math.Log(N)}
}

// evaluate scores a visited child. u is the child's utility, which is from
// the perspective of the side moving at the child, so it is negated for the
// parent making the choice.
func (p uct) evaluate(u float64, n float64) float64 {
	if n == 0 {
		panic("n cannot be 0")
	}
	// UCB = -u/n + sqrt(c^2*ln(N)/n)
	return -u/n + math.Sqrt(p.numerator/n)
}
