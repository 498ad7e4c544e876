package spline

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// BSpline is a uniform clamped cubic B-spline curve defined by N control
// points, evaluated over the parameter range [0, 1]. It mirrors the role
// tinyspline::BSpline plays in the original source: taking the optimized
// Frenet offsets (converted to Cartesian control points) and producing a
// smooth, densely sampled Cartesian path.
type BSpline struct {
	degree int
	ctrl   []r2.Vec
	knots  []float64
}

// NewBSpline builds a degree-3 (cubic) clamped uniform B-spline with the
// given control points. At least 4 control points are required for a cubic
// curve; fewer points fall back to the maximum degree the point count
// supports (degree = n-1), matching tinyspline's behavior for short inputs.
func NewBSpline(controlPoints []r2.Vec) (*BSpline, error) {
	n := len(controlPoints)
	if n < 2 {
		return nil, fmt.Errorf("bspline: need >=2 control points, got %d", n)
	}
	degree := 3
	if n-1 < degree {
		degree = n - 1
	}

	knots := clampedUniformKnots(n, degree)

	return &BSpline{
		degree: degree,
		ctrl:   append([]r2.Vec{}, controlPoints...),
		knots:  knots,
	}, nil
}

// clampedUniformKnots builds a clamped uniform knot vector for n control
// points and the given degree: degree+1 repeated knots at each end, uniform
// interior knots.
func clampedUniformKnots(n, degree int) []float64 {
	m := n + degree + 1
	knots := make([]float64, m)
	interior := n - degree - 1
	for i := 0; i <= degree; i++ {
		knots[i] = 0
		knots[m-1-i] = 1
	}
	if interior > 0 {
		for i := 1; i <= interior; i++ {
			knots[degree+i] = float64(i) / float64(interior+1)
		}
	}
	return knots
}

// Eval evaluates the curve at parameter t in [0, 1] using de Boor's
// algorithm.
func (b *BSpline) Eval(t float64) r2.Vec {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	n := len(b.ctrl)
	degree := b.degree

	// Find knot span.
	span := degree
	for span < n-1 && b.knots[span+1] <= t {
		span++
	}

	d := make([]r2.Vec, degree+1)
	for i := 0; i <= degree; i++ {
		d[i] = b.ctrl[span-degree+i]
	}

	for r := 1; r <= degree; r++ {
		for i := degree; i >= r; i-- {
			idx := span - degree + i
			left := b.knots[idx]
			right := b.knots[idx+degree-r+1]
			var alpha float64
			if right-left > 1e-12 {
				alpha = (t - left) / (right - left)
			}
			d[i] = r2.Add(r2.Scale(1-alpha, d[i-1]), r2.Scale(alpha, d[i]))
		}
	}
	return d[degree]
}
