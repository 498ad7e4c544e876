package pathopt

import (
	"math"
	"testing"

	"github.com/apexvelocity/pathopt/internal/geom"
	"github.com/apexvelocity/pathopt/internal/nlp"
	"github.com/apexvelocity/pathopt/internal/obstacle"
	"github.com/apexvelocity/pathopt/internal/vehicle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoSolver returns the NLP's initial guess as the solution. For a straight,
// unobstructed reference with an aligned start/end heading, that initial
// guess already satisfies every equality constraint exactly, so this stub
// exercises the full orchestration pipeline deterministically without
// depending on the iterative optimizer's convergence behavior.
type echoSolver struct{}

func (echoSolver) Solve(p nlp.Problem) (nlp.Solution, error) {
	return nlp.Solution{X: append([]float64{}, p.Vars...), Status: nlp.StatusSuccess}, nil
}

func straightReferenceStates(n int, step float64) []geom.State {
	states := make([]geom.State, n)
	for i := 0; i < n; i++ {
		states[i] = geom.State{X: float64(i) * step, Y: 0}
	}
	return states
}

func TestSolve_EmptyReferenceFails(t *testing.T) {
	t.Parallel()
	opt := New(DefaultOptions(), obstacle.Empty{})
	res := opt.Solve(nil, geom.State{}, geom.State{})
	assert.Equal(t, FailureEmptyReference, res.Failure)
	assert.Empty(t, res.FinalPath)
}

func TestSolve_StartHeadingMismatchFails(t *testing.T) {
	t.Parallel()
	opt := New(DefaultOptions(), obstacle.Empty{})
	raw := straightReferenceStates(20, 1.6)
	start := geom.State{X: 0, Y: 0, Z: math.Pi}
	end := geom.State{X: raw[len(raw)-1].X, Y: 0, Z: 0}

	res := opt.Solve(raw, start, end)
	assert.Equal(t, FailureHeadingMismatchStart, res.Failure)
}

func TestSolve_EndHeadingMismatchFails(t *testing.T) {
	t.Parallel()
	opt := New(DefaultOptions(), obstacle.Empty{})
	raw := straightReferenceStates(20, 1.6)
	start := geom.State{X: 0, Y: 0, Z: 0}
	end := geom.State{X: raw[len(raw)-1].X, Y: 0, Z: math.Pi}

	res := opt.Solve(raw, start, end)
	assert.Equal(t, FailureHeadingMismatchEnd, res.Failure)
}

func TestSolve_StraightCorridorSucceeds(t *testing.T) {
	t.Parallel()
	opts := DefaultOptions()
	opts.Solver = echoSolver{}
	opt := New(opts, obstacle.Empty{})

	raw := straightReferenceStates(20, 1.6)
	start := geom.State{X: 0, Y: 0, Z: 0}
	end := geom.State{X: raw[len(raw)-1].X, Y: 0, Z: 0}

	res := opt.Solve(raw, start, end)
	require.Empty(t, res.Failure)
	require.NotEmpty(t, res.FinalPath)

	for _, s := range res.FinalPath {
		assert.InDelta(t, 0, s.Y, 1e-3)
	}
}

func TestSolve_ShortReferenceStillProducesAPath(t *testing.T) {
	t.Parallel()
	opts := DefaultOptions()
	opts.Solver = echoSolver{}
	opt := New(opts, obstacle.Empty{})

	raw := []geom.State{{X: 0, Y: 0}, {X: 2, Y: 0}}
	start := geom.State{X: 0, Y: 0, Z: 0}
	end := geom.State{X: 2, Y: 0, Z: 0}

	res := opt.Solve(raw, start, end)
	require.Empty(t, res.Failure)
	assert.NotEmpty(t, res.FinalPath)
}

func TestGetSmoothedPath_ReturnsResampledReference(t *testing.T) {
	t.Parallel()
	opts := DefaultOptions()
	opts.Solver = echoSolver{}
	opt := New(opts, obstacle.Empty{})

	raw := straightReferenceStates(20, 1.6)
	start := geom.State{X: 0, Y: 0, Z: 0}
	end := geom.State{X: raw[len(raw)-1].X, Y: 0, Z: 0}

	res := opt.Solve(raw, start, end)
	require.Empty(t, res.Failure)

	smoothed := opt.GetSmoothedPath()
	assert.NotEmpty(t, smoothed)
	assert.InDelta(t, 0, smoothed[0].X, 1e-6)
}

func TestNew_AppliesDefaultsForZeroValueOptions(t *testing.T) {
	t.Parallel()
	opt := New(Options{}, nil)
	assert.NotNil(t, opt.opts.Solver)
	assert.NotNil(t, opt.opts.Logger)
	assert.Equal(t, vehicle.DefaultGeometry().MaxCurvature, opt.opts.Vehicle.MaxCurvature)
	assert.Equal(t, 0.02, opt.opts.MaxCPUTimeS)
	assert.Equal(t, 4.0, opt.opts.EndHeadingClearanceGateM)
	assert.NotNil(t, opt.field)
}
