// Package nlp specifies the nonlinear-program contract consumed by the
// Frenet path-optimization stage (spec.md §4.5, §6): decision variables,
// bounds, constraint bounds, and a callable producing [f, g_1, ..., g_m].
// The solver algorithm itself is an external collaborator; this package
// also ships a default implementation since no Go binding for IPOPT/CppAD
// exists in the retrieved example pack (see DESIGN.md).
package nlp

import "time"

// Bounds holds parallel lower/upper slices, one pair per variable or
// constraint. Use math.Inf(-1)/math.Inf(1) for unbounded entries.
type Bounds struct {
	Lower []float64
	Upper []float64
}

// FGEval evaluates the cost and constraint residuals at a candidate
// decision vector. f is the scalar cost; g holds one entry per constraint,
// compared against ConstraintBounds by the solver.
type FGEval func(vars []float64) (f float64, g []float64)

// Problem is the full nonlinear program: decision vector, its bounds, the
// constraint bounds, and the evaluator.
type Problem struct {
	Vars             []float64
	VarBounds        Bounds
	ConstraintBounds Bounds
	Eval             FGEval
	MaxCPUTime       time.Duration
}

// Status reports whether the solver converged within its budget.
type Status int

const (
	StatusSuccess Status = iota
	StatusFailed
)

// Solution is the solver's result: the optimized decision vector and
// whether it converged.
type Solution struct {
	X      []float64
	Status Status
}

// Solver is the NLPSolver contract from spec.md §6: accepts a Problem and
// returns a Solution or an error. Implementations must honor
// Problem.MaxCPUTime as a wall-time budget, not a hard deadline that panics
// or corrupts X.
type Solver interface {
	Solve(p Problem) (Solution, error)
}
