package spline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestNewBSpline_RejectsTooFewPoints(t *testing.T) {
	t.Parallel()
	_, err := NewBSpline([]r2.Vec{{X: 0, Y: 0}})
	assert.Error(t, err)
}

func TestNewBSpline_EndpointInterpolation(t *testing.T) {
	t.Parallel()
	ctrl := []r2.Vec{
		{X: 0, Y: 0},
		{X: 1, Y: 2},
		{X: 2, Y: -1},
		{X: 3, Y: 3},
		{X: 4, Y: 0},
	}
	bs, err := NewBSpline(ctrl)
	require.NoError(t, err)

	start := bs.Eval(0)
	end := bs.Eval(1)
	assert.InDelta(t, ctrl[0].X, start.X, 1e-9)
	assert.InDelta(t, ctrl[0].Y, start.Y, 1e-9)
	assert.InDelta(t, ctrl[len(ctrl)-1].X, end.X, 1e-9)
	assert.InDelta(t, ctrl[len(ctrl)-1].Y, end.Y, 1e-9)
}

func TestNewBSpline_DegreeFallsBackForShortInput(t *testing.T) {
	t.Parallel()
	ctrl := []r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0}}
	bs, err := NewBSpline(ctrl)
	require.NoError(t, err)
	assert.Equal(t, 2, bs.degree)
}

func TestBSpline_CollinearControlPointsProduceStraightLine(t *testing.T) {
	t.Parallel()
	ctrl := []r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}}
	bs, err := NewBSpline(ctrl)
	require.NoError(t, err)

	for _, tParam := range []float64{0, 0.25, 0.5, 0.75, 1} {
		p := bs.Eval(tParam)
		assert.InDelta(t, p.X, p.Y, 1e-9)
	}
}

func TestBSpline_ClampsParameterRange(t *testing.T) {
	t.Parallel()
	ctrl := []r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0}, {X: 3, Y: 1}}
	bs, err := NewBSpline(ctrl)
	require.NoError(t, err)

	assert.Equal(t, bs.Eval(0), bs.Eval(-1))
	assert.Equal(t, bs.Eval(1), bs.Eval(2))
}
