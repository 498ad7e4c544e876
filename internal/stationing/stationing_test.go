package stationing

import (
	"math"
	"testing"

	"github.com/apexvelocity/pathopt/internal/geom"
	"github.com/apexvelocity/pathopt/internal/reference"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type constantCurvature struct{ k float64 }

func (c constantCurvature) Eval(float64) float64 { return c.k }

func straightReference(t *testing.T, length float64) *reference.Resampled {
	t.Helper()
	raw := []geom.State{{X: 0, Y: 0}, {X: length, Y: 0}}
	r, err := reference.Resample(raw, geom.State{X: 0, Y: 0})
	require.NoError(t, err)
	return r
}

func TestBuild_StraightReferenceAlignedHeadings(t *testing.T) {
	t.Parallel()
	r := straightReference(t, 20)

	res, err := Build(r, constantCurvature{}, 0, 0)
	require.NoError(t, err)

	assert.InDelta(t, 0, res.Epsi, 1e-9)
	assert.InDelta(t, 0, res.EndPsi, 1e-9)
	assert.False(t, res.LargeInitPsi)
	assert.True(t, len(res.Stations) >= 2)
	assert.InDelta(t, 0, res.SegS[0], 1e-9)
}

func TestBuild_StartHeadingMismatchAborts(t *testing.T) {
	t.Parallel()
	r := straightReference(t, 20)

	_, err := Build(r, constantCurvature{}, math.Pi, 0)
	assert.ErrorIs(t, err, ErrHeadingMismatchStart)
}

func TestBuild_EndHeadingMismatchAborts(t *testing.T) {
	t.Parallel()
	r := straightReference(t, 20)

	_, err := Build(r, constantCurvature{}, 0, math.Pi)
	assert.ErrorIs(t, err, ErrHeadingMismatchEnd)
}

func TestBuild_LargeInitPsiAddsExtraStationsAndFinerSpacing(t *testing.T) {
	t.Parallel()
	r := straightReference(t, 20)

	epsi := EpsiSlowModeRad + 0.05
	res, err := Build(r, constantCurvature{}, epsi, 0)
	require.NoError(t, err)
	assert.True(t, res.LargeInitPsi)

	for i := 1; i <= 5 && i < len(res.SegS); i++ {
		assert.InDelta(t, DeltaSM/3, res.SegS[i]-res.SegS[i-1], 1e-9)
	}
}

func TestBuild_FinalStationSnapsInWhenRemainderLargeEnough(t *testing.T) {
	t.Parallel()
	r := straightReference(t, 20)

	res, err := Build(r, constantCurvature{}, 0, 0)
	require.NoError(t, err)
	assert.InDelta(t, r.SMax, res.SegS[len(res.SegS)-1], 1e-9)
}
