// Package frenet builds the FrenetNLP optimization program (spec.md §4.5):
// the decision vector, its bounds, the equality constraints, and the cost,
// then hands it to an nlp.Solver.
//
// Decision vector layout (N = number of stations):
//
//	q[0..N-1]        lateral offset from the reference at station i
//	psiEnd           heading deviation at the final station
//	kappa[0..N-3]    curvature at interior stations 1..N-2
//
// Per spec.md §9's Open Question, the "p" slack variables from the original
// source are collapsed into this single kappa array (DESIGN.md records the
// decision).
package frenet

import (
	"math"
	"time"

	"github.com/apexvelocity/pathopt/internal/corridor"
	"github.com/apexvelocity/pathopt/internal/nlp"
	"github.com/apexvelocity/pathopt/internal/stationing"
	"gonum.org/v1/gonum/floats"
)

func durationFromSeconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Weights holds the four cost-term weights from spec.md §4.5/§6.
type Weights struct {
	Kappa     float64
	KappaRate float64
	Boundary  float64
	ArcLength float64
}

// DefaultWeights returns the weights specified in spec.md §4.5.
func DefaultWeights() Weights {
	return Weights{Kappa: 2, KappaRate: 30, Boundary: 0.01, ArcLength: 0.05}
}

// Input bundles everything FrenetNLP needs to build and solve the program.
type Input struct {
	Stations     []stationing.Station
	SegS         []float64
	Segments     []corridor.Segment // aligned with Stations; index 0,1 unused
	CTE          float64
	Epsi         float64
	EndPsi       float64
	StartK       float64
	MaxCurvature float64
	Weights      Weights
	Solver       nlp.Solver
	MaxCPUTimeS  float64
	// EndHeadingClearanceGateM: when the minimum corridor width
	// (Left - Right, before the final-station clamp) across stations
	// 2..N-1 exceeds this, psiEnd is pinned to EndPsi via
	// bounds (spec.md §9 Open Question, resolved in DESIGN.md).
	EndHeadingClearanceGateM float64
}

// Output is the solved decision vector, decomposed for the reconstruction
// stage.
type Output struct {
	Q       []float64
	Kappa   []float64
	PsiEnd  float64
	Success bool
}

// Solve builds and solves the Frenet NLP per spec.md §4.5.
func Solve(in Input) (Output, error) {
	n := len(in.Stations)
	nKappa := n - 2
	if nKappa < 0 {
		nKappa = 0
	}

	qBegin := 0
	psiEndIdx := n
	kappaBegin := n + 1
	nVars := n + 1 + nKappa

	vars := make([]float64, nVars)
	lower := make([]float64, nVars)
	upper := make([]float64, nVars)

	inf := math.Inf(1)
	for i := 0; i < n; i++ {
		lower[qBegin+i] = -inf
		upper[qBegin+i] = inf
	}
	lower[psiEndIdx] = -inf
	upper[psiEndIdx] = inf
	for i := 0; i < nKappa; i++ {
		lower[kappaBegin+i] = -in.MaxCurvature
		upper[kappaBegin+i] = in.MaxCurvature
	}

	// Fixed initial variables.
	secondQ := in.CTE
	if n > 1 {
		secondQ = in.CTE + in.SegS[1]*math.Tan(in.Epsi)
	}
	vars[qBegin] = in.CTE
	lower[qBegin], upper[qBegin] = in.CTE, in.CTE
	if n > 1 {
		vars[qBegin+1] = secondQ
		lower[qBegin+1], upper[qBegin+1] = secondQ, secondQ
	}
	if nKappa > 0 {
		vars[kappaBegin] = in.StartK
		lower[kappaBegin], upper[kappaBegin] = in.StartK, in.StartK
	}

	minClearance := math.MaxFloat64
	for i := 2; i < n; i++ {
		seg := in.Segments[i]
		if i == n-1 {
			seg = corridor.ClampFinalStation(seg)
		}
		lower[qBegin+i] = seg.Right
		upper[qBegin+i] = seg.Left
		vars[qBegin+i] = clampMid(seg)
		if c := in.Segments[i].Left - in.Segments[i].Right; c < minClearance {
			minClearance = c
		}
	}

	if in.EndHeadingClearanceGateM == 0 {
		in.EndHeadingClearanceGateM = 4.0
	}
	if minClearance > in.EndHeadingClearanceGateM {
		lower[psiEndIdx], upper[psiEndIdx] = in.EndPsi, in.EndPsi
	}

	nConstraints := 1 + nKappa
	if nKappa == 0 {
		nConstraints = 1
	}
	clower := make([]float64, nConstraints)
	cupper := make([]float64, nConstraints)

	evalFn := func(x []float64) (float64, []float64) {
		q := x[qBegin : qBegin+n]
		psiEnd := x[psiEndIdx]
		kappa := x[kappaBegin : kappaBegin+nKappa]

		psi := make([]float64, n)
		if n > 1 {
			psi[1] = in.Epsi
		}
		for i := 1; i <= nKappa; i++ {
			if i+1 < n {
				ds := in.SegS[i+1] - in.SegS[i]
				psi[i+1] = psi[i] + ds*kappa[i-1]
			}
		}

		f := in.Weights.Kappa * floats.Dot(kappa, kappa)

		if nKappa > 1 {
			kappaRates := make([]float64, nKappa-1)
			for i := range kappaRates {
				kappaRates[i] = kappa[i+1] - kappa[i]
			}
			f += in.Weights.KappaRate * floats.Dot(kappaRates, kappaRates)
		}
		for i := 2; i < n; i++ {
			seg := in.Segments[i]
			if i == n-1 {
				seg = corridor.ClampFinalStation(seg)
			}
			width := seg.Left - seg.Right
			if width < 0.1 {
				mid := (seg.Left + seg.Right) / 2
				f += in.Weights.Boundary * (q[i] - mid) * (q[i] - mid)
				continue
			}
			toLeft := seg.Left - q[i]
			toRight := q[i] - seg.Right
			if toLeft > 1e-6 {
				f += in.Weights.Boundary / toLeft
			}
			if toRight > 1e-6 {
				f += in.Weights.Boundary / toRight
			}
		}
		for i := 0; i+1 < n; i++ {
			ds := in.SegS[i+1] - in.SegS[i]
			dq := q[i+1] - q[i]
			length := math.Hypot(ds, dq)
			f += in.Weights.ArcLength * (length - ds) * (length - ds)
		}

		g := make([]float64, nConstraints)
		if n > 1 {
			g[0] = psiEnd - psi[n-1]
		}
		for i := 2; i < n; i++ {
			ds := in.SegS[i] - in.SegS[i-1]
			g[i-1] = q[i] - (q[i-1] + ds*math.Tan(psi[i-1]))
		}
		return f, g
	}

	problem := nlp.Problem{
		Vars:             vars,
		VarBounds:        nlp.Bounds{Lower: lower, Upper: upper},
		ConstraintBounds: nlp.Bounds{Lower: clower, Upper: cupper},
		Eval:             evalFn,
		MaxCPUTime:       durationFromSeconds(in.MaxCPUTimeS),
	}

	sol, err := in.Solver.Solve(problem)
	if err != nil {
		return Output{}, err
	}
	if sol.Status != nlp.StatusSuccess {
		return Output{Success: false}, nil
	}

	return Output{
		Q:       append([]float64{}, sol.X[qBegin:qBegin+n]...),
		Kappa:   append([]float64{}, sol.X[kappaBegin:kappaBegin+nKappa]...),
		PsiEnd:  sol.X[psiEndIdx],
		Success: true,
	}, nil
}

func clampMid(seg corridor.Segment) float64 {
	return (seg.Left + seg.Right) / 2
}
