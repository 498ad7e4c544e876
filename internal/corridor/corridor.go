// Package corridor implements the CorridorBuilder (spec.md §4.3): per-station
// lateral free-space limits computed by probing the obstacle field's
// signed-distance field around the vehicle's three-circle footprint.
package corridor

import (
	"math"

	"github.com/apexvelocity/pathopt/internal/geom"
	"github.com/apexvelocity/pathopt/internal/obstacle"
	"github.com/apexvelocity/pathopt/internal/vehicle"
	"gonum.org/v1/gonum/spatial/r2"
)

// LateralProbeStepM and LateralProbeMaxM are the fixed marching-probe
// parameters from spec.md §6.
const (
	LateralProbeStepM = 0.1
	LateralProbeMaxM  = 5.0
)

// Segment is a per-station drivable lateral interval, right_limit <=
// left_limit always (spec.md §3).
type Segment struct {
	Left  float64
	Right float64
}

// Builder computes corridors against a fixed obstacle field and vehicle
// footprint. Corridors are computed once against the reference stations and
// must never be recomputed during optimization (spec.md §9).
type Builder struct {
	field     obstacle.Field
	footprint vehicle.Footprint
	geometry  vehicle.Geometry
}

// NewBuilder constructs a Builder for the given obstacle field and vehicle
// geometry.
func NewBuilder(field obstacle.Field, g vehicle.Geometry) *Builder {
	return &Builder{field: field, footprint: g.BuildFootprint(), geometry: g}
}

// centerState returns the three-circle footprint's center state for a
// station given its rear-axle position and heading, applying the Ackermann
// forward offset from spec.md §4.3.
func (b *Builder) centerState(station geom.State) geom.State {
	c := station
	if b.geometry.Kind == vehicle.Ackermann {
		c.X += b.geometry.RearAxleToCenterDis * math.Cos(station.Z)
		c.Y += b.geometry.RearAxleToCenterDis * math.Sin(station.Z)
	}
	return c
}

// circlePositions returns the rear, middle, front circle centers for a
// footprint-center state.
func (b *Builder) circlePositions(center geom.State) (rear, middle, front r2.Vec) {
	rear = r2.Vec{
		X: center.X - b.footprint.RearCenterDistance*math.Cos(center.Z),
		Y: center.Y - b.footprint.RearCenterDistance*math.Sin(center.Z),
	}
	middle = r2.Vec{X: center.X, Y: center.Y}
	front = r2.Vec{
		X: center.X + b.footprint.FrontCenterDistance*math.Cos(center.Z),
		Y: center.Y + b.footprint.FrontCenterDistance*math.Sin(center.Z),
	}
	return
}

// isFree reports whether the three-circle footprint centered at center is
// fully inside the map and collision-free.
func (b *Builder) isFree(center geom.State) bool {
	rear, middle, front := b.circlePositions(center)
	if !b.field.IsInside(rear) || !b.field.IsInside(middle) || !b.field.IsInside(front) {
		return false
	}
	rearD := b.field.DistanceToObstacle(rear)
	frontD := b.field.DistanceToObstacle(front)
	middleD := b.field.DistanceToObstacle(middle)
	return math.Min(rearD, frontD) > b.footprint.RearFrontRadius && middleD > b.footprint.MiddleRadius
}

// probe marches from center along lateralAngle in LateralProbeStepM steps,
// rigidly shifting the three-circle template, up to LateralProbeMaxM. It
// returns the last step at which the template was still free and fully
// inside the map, or 0 if the very first step is already blocked.
func (b *Builder) probe(center geom.State, lateralAngle float64) float64 {
	s := 0.0
	steps := int(LateralProbeMaxM / LateralProbeStepM)
	for i := 0; i < steps; i++ {
		s += LateralProbeStepM
		shifted := center
		shifted.X = center.X + s*math.Cos(lateralAngle)
		shifted.Y = center.Y + s*math.Sin(lateralAngle)
		if !b.isFree(shifted) {
			return s - LateralProbeStepM
		}
	}
	return s
}

// SegmentFor computes the drivable corridor at a reference station (spec.md
// §4.3). station.Z is the reference heading at that arc-length.
func (b *Builder) SegmentFor(station geom.State) Segment {
	center := b.centerState(station)

	if b.isFree(center) {
		left := b.probe(center, geom.NormalizeAngle(station.Z+math.Pi/2))
		right := -b.probe(center, geom.NormalizeAngle(station.Z-math.Pi/2))
		return Segment{Left: left, Right: right}
	}

	// Lateral search: try +pi/2 first.
	leftAngle := geom.NormalizeAngle(station.Z + math.Pi/2)
	if seg, ok := b.lateralSearch(center, leftAngle, false); ok {
		return seg
	}
	rightAngle := geom.NormalizeAngle(station.Z - math.Pi/2)
	if seg, ok := b.lateralSearch(center, rightAngle, true); ok {
		return seg
	}
	return Segment{Left: 0, Right: 0}
}

// lateralSearch marches along searchAngle looking for the first free
// position, then probes further along the same direction from there to
// establish the far limit. negated controls the sign convention for the
// -pi/2 branch, mirroring the original's getClearance asymmetric signs.
func (b *Builder) lateralSearch(center geom.State, searchAngle float64, negated bool) (Segment, bool) {
	s := 0.0
	steps := int(LateralProbeMaxM / LateralProbeStepM)
	for i := 0; i < steps; i++ {
		s += LateralProbeStepM
		shifted := center
		shifted.X = center.X + s*math.Cos(searchAngle)
		shifted.Y = center.Y + s*math.Sin(searchAngle)
		if b.isFree(shifted) {
			if !negated {
				rightLimit := s
				leftLimit := rightLimit + b.probe(shifted, searchAngle)
				return Segment{Left: leftLimit, Right: rightLimit}, true
			}
			leftLimit := -s
			rightLimit := leftLimit - b.probe(shifted, searchAngle)
			return Segment{Left: leftLimit, Right: rightLimit}, true
		}
	}
	return Segment{}, false
}

// ClampFinalStation clamps a final-station corridor to +-1.5 m (spec.md
// §4.3).
func ClampFinalStation(seg Segment) Segment {
	if seg.Left > 1.5 {
		seg.Left = 1.5
	}
	if seg.Right < -1.5 {
		seg.Right = -1.5
	}
	return seg
}
