// Package reconstruct implements the PathReconstructor (spec.md §4.6):
// converts solved Frenet offsets back to Cartesian control points, smooths
// them with a B-spline, samples densely, and gates the output on a
// three-circle collision check with long-tail truncation.
package reconstruct

import (
	"errors"
	"math"

	"github.com/apexvelocity/pathopt/internal/geom"
	"github.com/apexvelocity/pathopt/internal/obstacle"
	"github.com/apexvelocity/pathopt/internal/spline"
	"github.com/apexvelocity/pathopt/internal/vehicle"
	"gonum.org/v1/gonum/spatial/r2"
)

// CollisionAbortDistanceM is the arc-length past which a collision is
// treated as a successful long-tail truncation instead of a hard failure
// (spec.md §4.6, §7).
const CollisionAbortDistanceM = 30.0

// ErrNumericFailure is returned when NaN appears in the reconstructed
// Cartesian points.
var ErrNumericFailure = errors.New("reconstruct: NaN in reconstructed path")

// ErrCollision is returned when the reconstructed path collides before
// crossing CollisionAbortDistanceM.
var ErrCollision = errors.New("reconstruct: collision before 30m")

// Station is the minimal per-station reference geometry needed to rebuild
// Cartesian control points from Frenet offsets.
type Station struct {
	S, X, Y, Angle float64
}

// Result is the dense, collision-filtered Cartesian path.
type Result struct {
	Path []geom.State
}

// Build implements spec.md §4.6. q is the solved lateral offset per
// station, aligned with stations. startHeading seeds the first sample's
// heading (the rest are derived from finite differences).
func Build(stations []Station, q []float64, startHeading float64, field obstacle.Field, geo vehicle.Geometry) (Result, error) {
	n := len(stations)
	if n != len(q) {
		return Result{}, errors.New("reconstruct: stations/q length mismatch")
	}

	ctrl := make([]r2.Vec, n)
	for i, st := range stations {
		newAngle := geom.NormalizeAngle(st.Angle + math.Pi/2)
		x := st.X + q[i]*math.Cos(newAngle)
		y := st.Y + q[i]*math.Sin(newAngle)
		if math.IsNaN(x) || math.IsNaN(y) {
			return Result{}, ErrNumericFailure
		}
		ctrl[i] = r2.Vec{X: x, Y: y}
	}

	bs, err := spline.NewBSpline(ctrl)
	if err != nil {
		return Result{}, err
	}

	footprint := geo.BuildFootprint()
	samples := 3 * n
	if samples < 1 {
		samples = 1
	}
	stepT := 1.0 / float64(samples)

	var path []geom.State
	totalS := 0.0
	for i := 0; i < samples; i++ {
		t := float64(i) * stepT
		p := bs.Eval(t)

		var state geom.State
		state.X, state.Y = p.X, p.Y
		if i == 0 {
			state.Z = startHeading
			state.S = 0
		} else {
			prev := path[i-1]
			dx := p.X - prev.X
			dy := p.Y - prev.Y
			state.Z = math.Atan2(dy, dx)
			totalS += math.Hypot(dx, dy)
			state.S = totalS
		}

		if isFree(field, state, footprint, geo) {
			path = append(path, state)
			continue
		}
		if state.S > CollisionAbortDistanceM {
			break
		}
		return Result{}, ErrCollision
	}

	return Result{Path: path}, nil
}

func isFree(field obstacle.Field, state geom.State, fp vehicle.Footprint, geo vehicle.Geometry) bool {
	rear := r2.Vec{
		X: state.X - fp.RearCenterDistance*math.Cos(state.Z),
		Y: state.Y - fp.RearCenterDistance*math.Sin(state.Z),
	}
	middle := r2.Vec{X: state.X, Y: state.Y}
	front := r2.Vec{
		X: state.X + fp.FrontCenterDistance*math.Cos(state.Z),
		Y: state.Y + fp.FrontCenterDistance*math.Sin(state.Z),
	}
	if !field.IsInside(rear) || !field.IsInside(middle) || !field.IsInside(front) {
		return false
	}
	rearD := field.DistanceToObstacle(rear)
	frontD := field.DistanceToObstacle(front)
	middleD := field.DistanceToObstacle(middle)
	return math.Min(rearD, frontD) > fp.RearFrontRadius && middleD > fp.MiddleRadius
}
