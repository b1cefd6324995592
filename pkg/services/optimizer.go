package services

import "math"

const (
	// optimizerTol is the absolute tolerance on the argument; the search stops
	// once the bracket is narrower than this.
	optimizerTol = 1e-4
	// optimizerMaxIter caps the iteration count so a single evaluation can
	// never loop indefinitely. With golden-section shrinkage this is far more
	// than tolerance convergence needs for any practical bracket.
	optimizerMaxIter = 100
)

// MinimizeScalar finds a local minimizer of f on the closed interval
// [lower, upper] using golden-section search. f is evaluated only at points
// inside the interval, the result is deterministic for a deterministic f, and
// if the tolerance is not reached within the iteration cap the midpoint of the
// best bracket found so far is returned. The objective is not required to be
// convex; for a multi-modal f the result is a local optimum consistent with
// bracketing behavior.
func MinimizeScalar(f func(float64) float64, lower, upper float64) float64 {
	if upper < lower {
		lower, upper = upper, lower
	}
	invPhi := (math.Sqrt(5) - 1) / 2

	a, b := lower, upper
	c := b - (b-a)*invPhi
	d := a + (b-a)*invPhi
	fc := f(c)
	fd := f(d)

	for i := 0; i < optimizerMaxIter && (b-a) > optimizerTol; i++ {
		if fc < fd {
			// Minimum lies in [a, d]; reuse c as the new upper interior point.
			b = d
			d = c
			fd = fc
			c = b - (b-a)*invPhi
			fc = f(c)
		} else {
			// Minimum lies in [c, b]; reuse d as the new lower interior point.
			a = c
			c = d
			fc = fd
			d = a + (b-a)*invPhi
			fd = f(d)
		}
	}
	return (a + b) / 2
}
