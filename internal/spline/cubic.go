// Package spline implements the two interpolation contracts the path
// optimizer consumes as external collaborators (spec.md §6): an
// arc-length-parameterized CubicSpline and a uniform clamped BSpline used
// for Cartesian reconstruction.
//
// Neither the pack's gonum/interp (value-only, no derivative query) nor any
// other example repo provides both halves of this contract together, so
// these are narrowly scoped, hand-rolled numeric primitives, in the same
// spirit as the teacher's own sqrtFloat64/estimateCurvature helpers.
package spline

import "fmt"

// CubicSpline is a natural cubic spline interpolant over strictly increasing
// abscissae, supporting point evaluation and first-derivative queries
// anywhere within [x[0], x[len-1]].
type CubicSpline struct {
	x      []float64
	a      []float64 // y values at knots
	b      []float64 // first-derivative coefficients
	c      []float64 // second-derivative/2 coefficients
	d      []float64 // third-derivative/6 coefficients
}

// NewCubicSpline builds a natural cubic spline through the given samples.
// x must be strictly increasing and len(x) == len(y) >= 2.
func NewCubicSpline(x, y []float64) (*CubicSpline, error) {
	n := len(x)
	if n < 2 || len(y) != n {
		return nil, fmt.Errorf("spline: need >=2 matching samples, got x=%d y=%d", n, len(y))
	}
	for i := 1; i < n; i++ {
		if x[i] <= x[i-1] {
			return nil, fmt.Errorf("spline: abscissae must be strictly increasing at index %d", i)
		}
	}

	if n == 2 {
		// Degenerate case: a single linear segment.
		slope := (y[1] - y[0]) / (x[1] - x[0])
		return &CubicSpline{
			x: append([]float64{}, x...),
			a: append([]float64{}, y...),
			b: []float64{slope, slope},
			c: []float64{0, 0},
			d: []float64{0, 0},
		}, nil
	}

	h := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		h[i] = x[i+1] - x[i]
	}

	// Tridiagonal system for the second derivatives (natural boundary:
	// second derivative zero at both ends).
	alpha := make([]float64, n)
	for i := 1; i < n-1; i++ {
		alpha[i] = 3*(y[i+1]-y[i])/h[i] - 3*(y[i]-y[i-1])/h[i-1]
	}

	l := make([]float64, n)
	mu := make([]float64, n)
	z := make([]float64, n)
	l[0] = 1
	for i := 1; i < n-1; i++ {
		l[i] = 2*(x[i+1]-x[i-1]) - h[i-1]*mu[i-1]
		mu[i] = h[i] / l[i]
		z[i] = (alpha[i] - h[i-1]*z[i-1]) / l[i]
	}
	l[n-1] = 1

	c := make([]float64, n)
	b := make([]float64, n-1)
	d := make([]float64, n-1)
	for j := n - 2; j >= 0; j-- {
		c[j] = z[j] - mu[j]*c[j+1]
		b[j] = (y[j+1]-y[j])/h[j] - h[j]*(c[j+1]+2*c[j])/3
		d[j] = (c[j+1] - c[j]) / (3 * h[j])
	}

	return &CubicSpline{
		x: append([]float64{}, x...),
		a: append([]float64{}, y...),
		b: append(b, b[len(b)-1]),
		c: c,
		d: append(d, 0),
	}, nil
}

// segment returns the index of the spline segment containing s, clamped to
// the valid range.
func (sp *CubicSpline) segment(s float64) int {
	n := len(sp.x)
	if s <= sp.x[0] {
		return 0
	}
	if s >= sp.x[n-1] {
		return n - 2
	}
	lo, hi := 0, n-2
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if sp.x[mid] <= s {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// Eval returns the spline value at s.
func (sp *CubicSpline) Eval(s float64) float64 {
	i := sp.segment(s)
	dx := s - sp.x[i]
	return sp.a[i] + sp.b[i]*dx + sp.c[i]*dx*dx + sp.d[i]*dx*dx*dx
}

// Deriv returns a derivative of the spline at s: order 0 returns the value,
// order 1 the first derivative, and any other order the second derivative.
func (sp *CubicSpline) Deriv(order int, s float64) float64 {
	i := sp.segment(s)
	dx := s - sp.x[i]
	switch order {
	case 0:
		return sp.Eval(s)
	case 1:
		return sp.b[i] + 2*sp.c[i]*dx + 3*sp.d[i]*dx*dx
	default:
		return 2*sp.c[i] + 6*sp.d[i]*dx
	}
}
