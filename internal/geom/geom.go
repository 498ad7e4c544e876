// Package geom provides the planar geometry primitives shared by the path
// optimizer: angle normalization, Euclidean distance, and three-point
// discrete curvature.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// State is a planar pose with optional arc-length and curvature. Not every
// producer populates every field; see the package that builds a given State
// for which fields are meaningful.
type State struct {
	X, Y float64 // meters
	Z    float64 // heading, radians, normalized to (-pi, pi]
	S    float64 // arc-length, meters, >= 0
	K    float64 // curvature, 1/m
}

// Point returns the planar position of the state as a gonum r2.Vec.
func (s State) Point() r2.Vec {
	return r2.Vec{X: s.X, Y: s.Y}
}

// NormalizeAngle wraps an angle in radians into (-pi, pi].
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// Distance returns the planar Euclidean distance between two states'
// positions.
func Distance(a, b State) float64 {
	return r2.Norm(r2.Sub(a.Point(), b.Point()))
}

// PointDistance returns the Euclidean distance between two r2 points.
func PointDistance(a, b r2.Vec) float64 {
	return r2.Norm(r2.Sub(a, b))
}

// GlobalToLocal expresses point p in the local frame of origin (position and
// heading origin.Z), returning the local (x, y) coordinates. Used to
// determine which side of a reference line the start state falls on.
func GlobalToLocal(origin, p State) (localX, localY float64) {
	dx := p.X - origin.X
	dy := p.Y - origin.Y
	c := math.Cos(-origin.Z)
	s := math.Sin(-origin.Z)
	localX = dx*c - dy*s
	localY = dx*s + dy*c
	return
}

// ThreePointCurvature computes the signed curvature at p2 given its two
// neighbors, using the circumscribed-circle formula. Sign is negative for a
// clockwise turn (cross product of (p2-p1) and (p3-p2) is negative).
func ThreePointCurvature(p1, p2, p3 r2.Vec) float64 {
	a := r2.Norm(r2.Sub(p2, p1))
	b := r2.Norm(r2.Sub(p3, p2))
	c := r2.Norm(r2.Sub(p1, p3))

	sHalf := (a + b + c) / 2
	area := math.Sqrt(math.Abs(sHalf * (sHalf - a) * (sHalf - b) * (sHalf - c)))

	denom := a * b * c
	if denom < 1e-12 {
		return 0
	}
	k := 4 * area / denom

	cross := (p2.X-p1.X)*(p3.Y-p2.Y) - (p2.Y-p1.Y)*(p3.X-p2.X)
	if cross < 0 {
		k = -k
	}
	return k
}
