package nlp

import (
	"math"
	"time"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/optimize"
)

// AugmentedLagrangianSolver is the default Solver: it reduces the equality-
// constrained problem to a sequence of unconstrained minimizations of the
// augmented Lagrangian via gonum/optimize's BFGS, with gradients supplied
// by gonum/diff/fd in place of the original's CppAD automatic
// differentiation (see DESIGN.md for why: the pack has no Go AD library).
// Box bounds on the decision variables are enforced by clamping after each
// outer iteration, a standard simplification for projected augmented
// Lagrangian methods.
type AugmentedLagrangianSolver struct {
	// OuterIterations bounds the number of multiplier updates. Defaults
	// to 8 when zero.
	OuterIterations int
	// Rho is the initial quadratic penalty weight. Defaults to 10 when
	// zero.
	Rho float64
	// RhoGrowth multiplies Rho after each outer iteration. Defaults to
	// 2 when zero.
	RhoGrowth float64
	// ConstraintTol is the worst-case |g| below which an outer iteration
	// accepts the solution as feasible. Once the outer iterations or the
	// time budget run out, a worst-case |g| below 10*ConstraintTol is
	// still reported as success. Defaults to 1e-4 when zero.
	ConstraintTol float64
}

func (s AugmentedLagrangianSolver) defaults() AugmentedLagrangianSolver {
	if s.OuterIterations == 0 {
		s.OuterIterations = 8
	}
	if s.Rho == 0 {
		s.Rho = 10
	}
	if s.RhoGrowth == 0 {
		s.RhoGrowth = 2
	}
	if s.ConstraintTol == 0 {
		s.ConstraintTol = 1e-4
	}
	return s
}

// Solve implements Solver.
func (s AugmentedLagrangianSolver) Solve(p Problem) (Solution, error) {
	s = s.defaults()

	deadline := time.Time{}
	if p.MaxCPUTime > 0 {
		deadline = time.Now().Add(p.MaxCPUTime)
	}

	m := len(p.ConstraintBounds.Lower)

	x := append([]float64{}, p.Vars...)
	lambda := make([]float64, m)
	rho := s.Rho

	clamp := func(x []float64) {
		for i := range x {
			lo, hi := p.VarBounds.Lower[i], p.VarBounds.Upper[i]
			if x[i] < lo {
				x[i] = lo
			}
			if x[i] > hi {
				x[i] = hi
			}
		}
	}
	clamp(x)

	constraintResidual := func(vars []float64) []float64 {
		_, g := p.Eval(vars)
		res := make([]float64, m)
		for i := range res {
			target := p.ConstraintBounds.Lower[i]
			res[i] = g[i] - target
		}
		return res
	}

	augmentedObjective := func(vars []float64) float64 {
		f, g := p.Eval(vars)
		for i := 0; i < m; i++ {
			target := p.ConstraintBounds.Lower[i]
			c := g[i] - target
			f += lambda[i]*c + 0.5*rho*c*c
		}
		return f
	}

	gradSettings := &fd.Settings{
		Formula: fd.Central,
	}

	for outer := 0; outer < s.OuterIterations; outer++ {
		if !deadline.IsZero() && time.Now().After(deadline) {
			break
		}

		problem := optimize.Problem{
			Func: augmentedObjective,
			Grad: func(grad, vars []float64) {
				fd.Gradient(grad, augmentedObjective, vars, gradSettings)
			},
		}

		settings := &optimize.Settings{}
		if !deadline.IsZero() {
			remaining := time.Until(deadline)
			if remaining < 0 {
				remaining = 0
			}
			settings.Runtime = remaining
		}

		result, err := optimize.Minimize(problem, x, settings, &optimize.BFGS{})
		if err != nil && result == nil {
			return Solution{X: x, Status: StatusFailed}, nil
		}
		if result != nil {
			x = append([]float64{}, result.X...)
		}
		clamp(x)

		res := constraintResidual(x)
		worst := 0.0
		for i, r := range res {
			lambda[i] += rho * r
			if a := math.Abs(r); a > worst {
				worst = a
			}
		}
		if worst < s.ConstraintTol {
			return Solution{X: x, Status: StatusSuccess}, nil
		}
		rho *= s.RhoGrowth
	}

	res := constraintResidual(x)
	worst := 0.0
	for _, r := range res {
		if a := math.Abs(r); a > worst {
			worst = a
		}
	}
	if worst < s.ConstraintTol*10 {
		return Solution{X: x, Status: StatusSuccess}, nil
	}
	return Solution{X: x, Status: StatusFailed}, nil
}
