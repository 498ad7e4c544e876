// Package stationing builds the optimization stations from the resampled
// reference (spec.md §4.4): fixed nominal spacing, finer spacing near the
// start when the initial heading mismatch is large, and the two heading
// preconditions checked before the NLP is built.
package stationing

import (
	"errors"
	"math"

	"github.com/apexvelocity/pathopt/internal/geom"
	"github.com/apexvelocity/pathopt/internal/reference"
)

// DeltaSM is the nominal station spacing, meters (spec.md §6).
const DeltaSM = 1.6

// EpsiAbortRad and EndPsiAbortRad are the start/end heading-mismatch abort
// thresholds and EpsiSlowModeRad the slow-mode threshold, radians (80, 90
// and 30 deg, spec.md §6).
var (
	EpsiAbortRad    = 80 * math.Pi / 180
	EpsiSlowModeRad = 30 * math.Pi / 180
	EndPsiAbortRad  = 90 * math.Pi / 180
)

// ErrHeadingMismatchStart and ErrHeadingMismatchEnd are the two
// precondition failures from spec.md §4.4/§7.
var (
	ErrHeadingMismatchStart = errors.New("stationing: start heading mismatch exceeds 80 degrees")
	ErrHeadingMismatchEnd   = errors.New("stationing: end heading mismatch exceeds 90 degrees")
)

// Station is a single optimization station derived from the reference
// splines at a given arc-length.
type Station struct {
	S     float64
	X, Y  float64
	Angle float64
	K     float64
}

// Result bundles the built stations plus the precomputed start/end heading
// errors, needed by FrenetNLP.
type Result struct {
	Stations        []Station
	SegS            []float64
	Epsi            float64
	EndPsi          float64
	LargeInitPsi    bool
}

// referenceTangentAngle returns atan2(y'(s), x'(s)), with the degenerate
// x'=0 case mapped to pi/2 (spec.md §4.1, §4.4).
func referenceTangentAngle(r *reference.Resampled, s float64) float64 {
	dx := r.XSpline.Deriv(1, s)
	dy := r.YSpline.Deriv(1, s)
	if dx == 0 {
		return math.Pi / 2
	}
	return math.Atan2(dy, dx)
}

// Build implements spec.md §4.4. kSpline supplies the per-station reference
// curvature (fit over the resampled samples and their curvature.Estimate
// output by the caller).
func Build(r *reference.Resampled, kSpline interface{ Eval(float64) float64 }, startZ, endZ float64) (*Result, error) {
	startRefAngle := referenceTangentAngle(r, 0)
	epsi := geom.NormalizeAngle(startZ - startRefAngle)
	if math.Abs(epsi) > EpsiAbortRad {
		return nil, ErrHeadingMismatchStart
	}

	endRefAngle := referenceTangentAngle(r, r.SMax)
	endPsi := geom.NormalizeAngle(endZ - endRefAngle)
	if math.Abs(endPsi) > EndPsiAbortRad {
		return nil, ErrHeadingMismatchEnd
	}

	largeInitPsi := epsi >= EpsiSlowModeRad

	n := int(r.SMax/DeltaSM) + 1
	if largeInitPsi {
		n += 4
	}

	segS := make([]float64, 0, n+1)
	segS = append(segS, 0)
	length := 0.0
	for i := 0; i < n-1; i++ {
		if largeInitPsi && i <= 5 {
			length += DeltaSM / 3
		} else {
			length += DeltaSM
		}
		segS = append(segS, length)
	}
	if r.SMax-length > DeltaSM*0.2 {
		segS = append(segS, r.SMax)
	}

	stations := make([]Station, len(segS))
	for i, s := range segS {
		stations[i] = Station{
			S:     s,
			X:     r.XSpline.Eval(s),
			Y:     r.YSpline.Eval(s),
			Angle: referenceTangentAngle(r, s),
			K:     kSpline.Eval(s),
		}
	}

	return &Result{
		Stations:     stations,
		SegS:         segS,
		Epsi:         epsi,
		EndPsi:       endPsi,
		LargeInitPsi: largeInitPsi,
	}, nil
}
