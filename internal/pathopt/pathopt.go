// Package pathopt implements the PathOptimizer façade (spec.md §2 item 7,
// §4.4, §6, §7): it orchestrates reference resampling, curvature
// estimation, corridor search, the Frenet NLP, and Cartesian
// reconstruction, enforcing preconditions and returning a dense state
// sequence or a typed failure.
package pathopt

import (
	"math"

	"github.com/apexvelocity/pathopt/internal/corridor"
	"github.com/apexvelocity/pathopt/internal/curvature"
	"github.com/apexvelocity/pathopt/internal/frenet"
	"github.com/apexvelocity/pathopt/internal/geom"
	"github.com/apexvelocity/pathopt/internal/nlp"
	"github.com/apexvelocity/pathopt/internal/obstacle"
	"github.com/apexvelocity/pathopt/internal/reconstruct"
	"github.com/apexvelocity/pathopt/internal/reference"
	"github.com/apexvelocity/pathopt/internal/spline"
	"github.com/apexvelocity/pathopt/internal/stationing"
	"github.com/apexvelocity/pathopt/internal/vehicle"
	"go.uber.org/zap"
)

// Options configures a PathOptimizer instance. New replaces zero-value
// fields with the same spec.md §6 defaults that DefaultOptions returns.
type Options struct {
	Vehicle                  vehicle.Geometry
	Weights                  frenet.Weights
	Solver                   nlp.Solver
	MaxCPUTimeS              float64
	EndHeadingClearanceGateM float64
	Logger                   *zap.Logger
}

// DefaultOptions returns the spec.md §6 defaults: default vehicle geometry,
// default cost weights, the augmented-Lagrangian default solver, a 0.02s
// solver time budget, and a 4m end-heading clearance gate.
func DefaultOptions() Options {
	return Options{
		Vehicle:                  vehicle.DefaultGeometry(),
		Weights:                  frenet.DefaultWeights(),
		Solver:                   nlp.AugmentedLagrangianSolver{},
		MaxCPUTimeS:              0.02,
		EndHeadingClearanceGateM: 4.0,
		Logger:                   zap.NewNop(),
	}
}

// Result is the outcome of a solve call: either a nonempty FinalPath with
// an empty Failure, or an empty FinalPath with Failure set.
type Result struct {
	FinalPath []geom.State
	Failure   FailureKind
}

// PathOptimizer is constructed per solve call in the original design; this
// implementation is safe to reuse across calls since it holds no mutable
// state beyond the last smoothed reference, exposed via GetSmoothedPath for
// visualization.
type PathOptimizer struct {
	opts  Options
	field obstacle.Field

	smoothed []geom.State
}

// New constructs a PathOptimizer against a borrowed, immutable obstacle
// field (spec.md §5). field must outlive any in-flight Solve call.
func New(opts Options, field obstacle.Field) *PathOptimizer {
	if opts.Solver == nil {
		opts.Solver = nlp.AugmentedLagrangianSolver{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Vehicle.MaxCurvature == 0 {
		opts.Vehicle = vehicle.DefaultGeometry()
	}
	if opts.Weights == (frenet.Weights{}) {
		opts.Weights = frenet.DefaultWeights()
	}
	if opts.MaxCPUTimeS == 0 {
		opts.MaxCPUTimeS = 0.02
	}
	if opts.EndHeadingClearanceGateM == 0 {
		opts.EndHeadingClearanceGateM = 4.0
	}
	if field == nil {
		field = obstacle.Empty{}
	}
	return &PathOptimizer{opts: opts, field: field}
}

// GetSmoothedPath returns the resampled reference (§4.1 output) built by
// the most recent Solve call, for visualization.
func (p *PathOptimizer) GetSmoothedPath() []geom.State {
	return p.smoothed
}

// Solve implements spec.md §6's solve operation: given a raw reference
// polyline, a start state, and a desired end state, it returns a dense
// Cartesian path or a typed Result.Failure.
func (p *PathOptimizer) Solve(rawReference []geom.State, start, end geom.State) Result {
	resampled, err := reference.Resample(rawReference, start)
	if err != nil {
		kind := FailureEmptyReference
		if err != reference.ErrEmptyReference {
			// Non-empty input that still couldn't be splined (e.g. all but
			// one sample trimmed away, or degenerate abscissae) is a
			// numeric failure of the resampling step, not "no input".
			kind = FailureNumericFailure
		}
		p.opts.Logger.Warn("solve_failed", zap.String("failure", string(kind)), zap.Error(err))
		return Result{Failure: kind}
	}

	p.smoothed = smoothedStates(resampled)

	p.opts.Logger.Info("reference_resampled",
		zap.Float64("ref_path_length_m", resampled.SMax),
		zap.Int("sample_count", len(resampled.S)),
	)

	curv := curvature.Estimate(resampled.X, resampled.Y)
	kSpline, err := spline.NewCubicSpline(resampled.S, curv.K)
	if err != nil {
		p.opts.Logger.Warn("solve_failed", zap.String("failure", string(FailureNumericFailure)), zap.Error(err))
		return Result{Failure: FailureNumericFailure}
	}

	stResult, err := stationing.Build(resampled, kSpline, start.Z, end.Z)
	if err != nil {
		kind := FailureHeadingMismatchStart
		if err == stationing.ErrHeadingMismatchEnd {
			kind = FailureHeadingMismatchEnd
		}
		p.opts.Logger.Warn("solve_failed", zap.String("failure", string(kind)))
		return Result{Failure: kind}
	}

	builder := corridor.NewBuilder(p.field, p.opts.Vehicle)
	n := len(stResult.Stations)
	segments := make([]corridor.Segment, n)
	for i := 2; i < n; i++ {
		st := stResult.Stations[i]
		segments[i] = builder.SegmentFor(geom.State{X: st.X, Y: st.Y, Z: st.Angle, S: st.S})
	}

	out, err := frenet.Solve(frenet.Input{
		Stations:                 stResult.Stations,
		SegS:                     stResult.SegS,
		Segments:                 segments,
		CTE:                      resampled.CTE,
		Epsi:                     stResult.Epsi,
		EndPsi:                   stResult.EndPsi,
		StartK:                   start.K,
		MaxCurvature:             p.opts.Vehicle.MaxCurvature,
		Weights:                  p.opts.Weights,
		Solver:                   p.opts.Solver,
		MaxCPUTimeS:              p.opts.MaxCPUTimeS,
		EndHeadingClearanceGateM: p.opts.EndHeadingClearanceGateM,
	})
	if err != nil || !out.Success {
		p.opts.Logger.Warn("solve_failed", zap.String("failure", string(FailureSolverFailed)))
		return Result{Failure: FailureSolverFailed}
	}

	rcStations := make([]reconstruct.Station, n)
	for i, st := range stResult.Stations {
		rcStations[i] = reconstruct.Station{S: st.S, X: st.X, Y: st.Y, Angle: st.Angle}
	}

	rcResult, err := reconstruct.Build(rcStations, out.Q, start.Z, p.field, p.opts.Vehicle)
	if err != nil {
		kind := FailureNumericFailure
		if err == reconstruct.ErrCollision {
			kind = FailureCollision
		}
		p.opts.Logger.Warn("solve_failed", zap.String("failure", string(kind)))
		return Result{Failure: kind}
	}

	p.opts.Logger.Info("solve_succeeded",
		zap.Int("path_points", len(rcResult.Path)),
		zap.Float64("path_length_m", lastArcLength(rcResult.Path)),
	)

	return Result{FinalPath: rcResult.Path}
}

func smoothedStates(r *reference.Resampled) []geom.State {
	states := make([]geom.State, len(r.S))
	for i := range r.S {
		z := 0.0
		if i > 0 {
			z = math.Atan2(r.Y[i]-r.Y[i-1], r.X[i]-r.X[i-1])
		} else if len(r.S) > 1 {
			z = math.Atan2(r.Y[1]-r.Y[0], r.X[1]-r.X[0])
		}
		states[i] = geom.State{X: r.X[i], Y: r.Y[i], S: r.S[i], Z: geom.NormalizeAngle(z)}
	}
	return states
}

func lastArcLength(path []geom.State) float64 {
	if len(path) == 0 {
		return 0
	}
	return path[len(path)-1].S
}
