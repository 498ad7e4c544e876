// Package vehicle defines the three-circle collision footprint used to
// approximate an Ackermann-steered vehicle during corridor search and path
// reconstruction.
package vehicle

import "math"

// Kind identifies the steering/reference-point convention of the vehicle.
// Ackermann is the only supported kind; the original source carried a
// back-up (reverse) TODO that was never implemented.
type Kind int

const (
	// Ackermann vehicles reference the rear axle and offset their
	// collision-circle center forward by RearAxleToCenterDis.
	Ackermann Kind = iota
)

// Geometry holds the physical dimensions used to build the three-circle
// footprint: rear-center, middle-center, and front-center circles placed
// along the vehicle's longitudinal axis.
type Geometry struct {
	Kind Kind

	WidthM  float64
	LengthM float64
	RearLM  float64 // distance from reference point to rear bumper
	FrontLM float64 // distance from reference point to front bumper

	// RearAxleToCenterDis shifts the probe/footprint center forward from
	// the rear axle for Ackermann vehicles.
	RearAxleToCenterDis float64

	// MaxCurvature bounds the decision curvature variables in the NLP,
	// 1/m.
	MaxCurvature float64
}

// DefaultGeometry returns the default vehicle dimensions from spec.md §3:
// width 2.4 m, length 5.0 m, rear/front reference length 2.5 m.
func DefaultGeometry() Geometry {
	return Geometry{
		Kind:                Ackermann,
		WidthM:              2.4,
		LengthM:             5.0,
		RearLM:              2.5,
		FrontLM:             2.5,
		RearAxleToCenterDis: 1.3,
		MaxCurvature:        0.2,
	}
}

// Footprint holds the derived three-circle parameters used by corridor
// probing and collision checking.
type Footprint struct {
	RearCenterDistance  float64
	FrontCenterDistance float64
	RearFrontRadius     float64
	MiddleRadius        float64
}

// BuildFootprint derives the three-circle footprint from vehicle geometry,
// following the original's getClearance car_geo construction exactly:
// rear/front circle distances are offset inward by half the vehicle width,
// and the middle circle radius is zero unless the vehicle is long relative
// to its width (length > 2*width).
func (g Geometry) BuildFootprint() Footprint {
	rearCircleDistance := g.RearLM - g.WidthM/2
	frontCircleDistance := g.FrontLM - g.WidthM/2

	rearFrontR := math.Sqrt(math.Pow(g.WidthM/2, 2) + math.Pow(g.WidthM/2, 2))

	var middleR float64
	if g.LengthM > 2*g.WidthM {
		longest := math.Max(g.RearLM, g.FrontLM)
		middleR = math.Sqrt(math.Pow(longest-g.WidthM, 2) + math.Pow(g.WidthM/2, 2))
	}

	return Footprint{
		RearCenterDistance:  rearCircleDistance,
		FrontCenterDistance: frontCircleDistance,
		RearFrontRadius:     rearFrontR,
		MiddleRadius:        middleR,
	}
}
