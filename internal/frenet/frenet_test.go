package frenet

import (
	"testing"

	"github.com/apexvelocity/pathopt/internal/corridor"
	"github.com/apexvelocity/pathopt/internal/nlp"
	"github.com/apexvelocity/pathopt/internal/stationing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoSolver returns the initial guess unchanged, letting these tests assert
// on how Solve wires up bounds and the decision-vector layout without
// depending on a real optimization run.
type echoSolver struct{}

func (echoSolver) Solve(p nlp.Problem) (nlp.Solution, error) {
	return nlp.Solution{X: append([]float64{}, p.Vars...), Status: nlp.StatusSuccess}, nil
}

func stations(n int, step float64) ([]stationing.Station, []float64) {
	st := make([]stationing.Station, n)
	segS := make([]float64, n)
	for i := 0; i < n; i++ {
		s := float64(i) * step
		st[i] = stationing.Station{S: s, X: s, Y: 0, Angle: 0}
		segS[i] = s
	}
	return st, segS
}

func TestSolve_FixesLeadingVariables(t *testing.T) {
	t.Parallel()
	n := 6
	st, segS := stations(n, 1.6)
	segments := make([]corridor.Segment, n)
	for i := 2; i < n; i++ {
		segments[i] = corridor.Segment{Left: 2, Right: -2}
	}

	out, err := Solve(Input{
		Stations:     st,
		SegS:         segS,
		Segments:     segments,
		CTE:          0.3,
		Epsi:         0.1,
		EndPsi:       0.0,
		StartK:       0.01,
		MaxCurvature: 0.2,
		Weights:      DefaultWeights(),
		Solver:       echoSolver{},
		MaxCPUTimeS:  0.02,
	})
	require.NoError(t, err)
	require.True(t, out.Success)

	assert.InDelta(t, 0.3, out.Q[0], 1e-9)
	assert.InDelta(t, 0.01, out.Kappa[0], 1e-9)
}

func TestSolve_PinsEndHeadingWhenCorridorWide(t *testing.T) {
	t.Parallel()
	n := 6
	st, segS := stations(n, 1.6)
	segments := make([]corridor.Segment, n)
	for i := 2; i < n; i++ {
		segments[i] = corridor.Segment{Left: 5, Right: -5}
	}

	var seenPsiEnd float64
	solver := solverFunc(func(p nlp.Problem) (nlp.Solution, error) {
		psiEndIdx := n
		seenPsiEnd = p.VarBounds.Lower[psiEndIdx]
		assert.Equal(t, p.VarBounds.Lower[psiEndIdx], p.VarBounds.Upper[psiEndIdx])
		return nlp.Solution{X: append([]float64{}, p.Vars...), Status: nlp.StatusSuccess}, nil
	})

	_, err := Solve(Input{
		Stations:                 st,
		SegS:                     segS,
		Segments:                 segments,
		CTE:                      0,
		Epsi:                     0,
		EndPsi:                   0.25,
		MaxCurvature:             0.2,
		Weights:                  DefaultWeights(),
		Solver:                   solver,
		MaxCPUTimeS:              0.02,
		EndHeadingClearanceGateM: 4.0,
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.25, seenPsiEnd, 1e-9)
}

func TestSolve_LeavesEndHeadingFreeWhenCorridorNarrow(t *testing.T) {
	t.Parallel()
	n := 6
	st, segS := stations(n, 1.6)
	segments := make([]corridor.Segment, n)
	for i := 2; i < n; i++ {
		segments[i] = corridor.Segment{Left: 1, Right: -1}
	}

	solver := solverFunc(func(p nlp.Problem) (nlp.Solution, error) {
		psiEndIdx := n
		assert.NotEqual(t, p.VarBounds.Lower[psiEndIdx], p.VarBounds.Upper[psiEndIdx])
		return nlp.Solution{X: append([]float64{}, p.Vars...), Status: nlp.StatusSuccess}, nil
	})

	_, err := Solve(Input{
		Stations:                 st,
		SegS:                     segS,
		Segments:                 segments,
		CTE:                      0,
		Epsi:                     0,
		EndPsi:                   0.1,
		MaxCurvature:             0.2,
		Weights:                  DefaultWeights(),
		Solver:                   solver,
		MaxCPUTimeS:              0.02,
		EndHeadingClearanceGateM: 4.0,
	})
	require.NoError(t, err)
}

func TestSolve_PropagatesSolverFailure(t *testing.T) {
	t.Parallel()
	n := 4
	st, segS := stations(n, 1.6)
	segments := make([]corridor.Segment, n)

	solver := solverFunc(func(p nlp.Problem) (nlp.Solution, error) {
		return nlp.Solution{Status: nlp.StatusFailed}, nil
	})

	out, err := Solve(Input{
		Stations:     st,
		SegS:         segS,
		Segments:     segments,
		MaxCurvature: 0.2,
		Weights:      DefaultWeights(),
		Solver:       solver,
		MaxCPUTimeS:  0.02,
	})
	require.NoError(t, err)
	assert.False(t, out.Success)
}

type solverFunc func(nlp.Problem) (nlp.Solution, error)

func (f solverFunc) Solve(p nlp.Problem) (nlp.Solution, error) { return f(p) }
