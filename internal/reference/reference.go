// Package reference implements the ReferenceResampler (spec.md §4.1): it
// trims the raw reference polyline to the point nearest the start state,
// fits arc-length-parameterized cubic splines through it, and resamples at
// a fixed spatial step.
package reference

import (
	"errors"
	"math"

	"github.com/apexvelocity/pathopt/internal/geom"
	"github.com/apexvelocity/pathopt/internal/spline"
	"gonum.org/v1/gonum/spatial/r2"
)

// ResampleStepM is the fixed spatial step between resampled reference
// points, meters (spec.md §6).
const ResampleStepM = 0.3

// earlyTerminateDistM is the "reference is locally smooth" threshold used to
// stop the nearest-point scan early once the running minimum drops below it
// and a sample exceeds it again.
const earlyTerminateDistM = 15.0

// coincidentTolM is the distance below which the start state is treated as
// coincident with the first reference point.
const coincidentTolM = 0.001

// ErrEmptyReference is returned when the raw reference has no points.
var ErrEmptyReference = errors.New("reference: empty input")

// ErrInsufficientReference is returned when at least one point was given but
// fewer than 2 remain after trimming to the start state, so no spline can be
// fit. Distinct from ErrEmptyReference: the caller gave input, trimming just
// consumed all but one sample.
var ErrInsufficientReference = errors.New("reference: fewer than 2 points remain after trimming to start")

// Resampled is the output of ReferenceResampler: arc-length parameterized
// splines over the trimmed reference, the resampled dense samples, and the
// initial cross-track error of the start state relative to the reference.
type Resampled struct {
	XSpline *spline.CubicSpline
	YSpline *spline.CubicSpline

	S []float64
	X []float64
	Y []float64

	SMax float64
	CTE  float64
}

// Resample implements spec.md §4.1. raw must contain at least 2 points:
// ErrEmptyReference when raw itself is empty, ErrInsufficientReference when
// trimming to the start state leaves fewer than 2 points to spline through.
func Resample(raw []geom.State, start geom.State) (*Resampled, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyReference
	}

	trimmed, cte := trimToStart(raw, start)
	if len(trimmed) < 2 {
		return nil, ErrInsufficientReference
	}

	s := make([]float64, len(trimmed))
	x := make([]float64, len(trimmed))
	y := make([]float64, len(trimmed))
	var cum float64
	for i, p := range trimmed {
		if i == 0 {
			cum = 0
		} else {
			cum += geom.Distance(trimmed[i-1], p)
		}
		s[i] = cum
		x[i] = p.X
		y[i] = p.Y
	}

	xSpline, err := spline.NewCubicSpline(s, x)
	if err != nil {
		return nil, err
	}
	ySpline, err := spline.NewCubicSpline(s, y)
	if err != nil {
		return nil, err
	}

	sMax := s[len(s)-1]

	var rs, rx, ry []float64
	for newS := 0.0; newS <= sMax; newS += ResampleStepM {
		rs = append(rs, newS)
		rx = append(rx, xSpline.Eval(newS))
		ry = append(ry, ySpline.Eval(newS))
	}

	return &Resampled{
		XSpline: xSpline,
		YSpline: ySpline,
		S:       rs,
		X:       rx,
		Y:       ry,
		SMax:    sMax,
		CTE:     cte,
	}, nil
}

// trimToStart implements the nearest-point trim and cross-track-error sign
// determination from spec.md §4.1.
func trimToStart(raw []geom.State, start geom.State) ([]geom.State, float64) {
	if geom.Distance(raw[0], start) < coincidentTolM {
		return raw, 0
	}

	minDistance := math.MaxFloat64
	minIndex := 0
	for i, p := range raw {
		d := geom.Distance(p, start)
		if d < minDistance {
			minDistance = d
			minIndex = i
		} else if d > earlyTerminateDistM && minDistance < earlyTerminateDistM {
			break
		}
	}

	trimmed := raw[minIndex:]

	// Matches the original source: the nearest reference point is
	// expressed in the start state's local frame, not the other way
	// around, and its sign (not the start's) decides which side of the
	// reference the vehicle sits on.
	_, localY := geom.GlobalToLocal(start, trimmed[0])
	var cte float64
	if localY < 0 {
		cte = minDistance
	} else {
		cte = -minDistance
	}
	return trimmed, cte
}

// R2Points returns the resampled x/y samples as r2 vectors, convenient for
// callers that want to build collision-check positions.
func (r *Resampled) R2Points() []r2.Vec {
	pts := make([]r2.Vec, len(r.X))
	for i := range r.X {
		pts[i] = r2.Vec{X: r.X[i], Y: r.Y[i]}
	}
	return pts
}
