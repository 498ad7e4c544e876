package corridor

import (
	"testing"

	"github.com/apexvelocity/pathopt/internal/geom"
	"github.com/apexvelocity/pathopt/internal/obstacle"
	"github.com/apexvelocity/pathopt/internal/vehicle"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestSegmentFor_EmptyFieldGivesMaxCorridor(t *testing.T) {
	t.Parallel()
	b := NewBuilder(obstacle.Empty{}, vehicle.DefaultGeometry())
	station := geom.State{X: 0, Y: 0, Z: 0}

	seg := b.SegmentFor(station)
	assert.InDelta(t, LateralProbeMaxM, seg.Left, 1e-6)
	assert.InDelta(t, -LateralProbeMaxM, seg.Right, 1e-6)
}

func TestSegmentFor_ObstacleToLeftShrinksLeftLimit(t *testing.T) {
	t.Parallel()
	// A single circular obstacle 3 m to the left of the station, forcing
	// the left-probe march to stop short of LateralProbeMaxM.
	field := obstacle.NewCircleField(-50, -50, 50, 50,
		obstacle.Circle{Center: r2.Vec{X: 0, Y: 3}, Radius: 1},
	)
	b := NewBuilder(field, vehicle.DefaultGeometry())
	station := geom.State{X: 0, Y: 0, Z: 0}

	seg := b.SegmentFor(station)
	assert.Less(t, seg.Left, LateralProbeMaxM)
	assert.InDelta(t, -LateralProbeMaxM, seg.Right, 1e-6)
}

func TestClampFinalStation(t *testing.T) {
	t.Parallel()
	seg := ClampFinalStation(Segment{Left: 4, Right: -4})
	assert.Equal(t, 1.5, seg.Left)
	assert.Equal(t, -1.5, seg.Right)

	inside := ClampFinalStation(Segment{Left: 0.5, Right: -0.5})
	assert.Equal(t, 0.5, inside.Left)
	assert.Equal(t, -0.5, inside.Right)
}

func TestSegmentFor_StationStartingInsideObstacleSearchesLaterally(t *testing.T) {
	t.Parallel()
	field := obstacle.NewCircleField(-50, -50, 50, 50,
		obstacle.Circle{Center: r2.Vec{X: 0, Y: 0}, Radius: 3},
	)
	b := NewBuilder(field, vehicle.DefaultGeometry())
	station := geom.State{X: 0, Y: 0, Z: 0}

	seg := b.SegmentFor(station)
	assert.True(t, seg.Left != 0 || seg.Right != 0)
}
