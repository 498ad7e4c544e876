// Package curvature implements the CurvatureEstimator (spec.md §4.2):
// per-sample signed curvature over a dense resampled reference, plus the
// running maximum magnitude and maximum consecutive change.
package curvature

import (
	"math"

	"github.com/apexvelocity/pathopt/internal/geom"
	"gonum.org/v1/gonum/spatial/r2"
)

// Result holds per-sample curvature and two scalar summaries: the peak
// curvature magnitude and the peak change between consecutive samples.
type Result struct {
	K              []float64
	MaxAbs         float64
	MaxAbsChange   float64
}

// Estimate computes signed curvature at each interior sample via the
// circumscribed-circle formula, copying the interior neighbor's value at
// both endpoints (spec.md §4.2).
func Estimate(x, y []float64) Result {
	n := len(x)
	k := make([]float64, n)
	if n < 3 {
		return Result{K: k}
	}

	for i := 1; i < n-1; i++ {
		p1 := r2.Vec{X: x[i-1], Y: y[i-1]}
		p2 := r2.Vec{X: x[i], Y: y[i]}
		p3 := r2.Vec{X: x[i+1], Y: y[i+1]}
		k[i] = geom.ThreePointCurvature(p1, p2, p3)
	}
	k[0] = k[1]
	k[n-1] = k[n-2]

	var maxAbs, maxChange float64
	for i := 0; i < n; i++ {
		if a := math.Abs(k[i]); a > maxAbs {
			maxAbs = a
		}
		if i != n-1 {
			if c := math.Abs(k[i] - k[i+1]); c > maxChange {
				maxChange = c
			}
		}
	}

	return Result{K: k, MaxAbs: maxAbs, MaxAbsChange: maxChange}
}
