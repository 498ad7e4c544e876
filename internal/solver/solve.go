package solver

import (
	"errors"

	"github.com/apexvelocity/pathopt/internal/geom"
	"github.com/apexvelocity/pathopt/internal/nlp"
	"github.com/apexvelocity/pathopt/internal/obstacle"
	"github.com/apexvelocity/pathopt/internal/pathopt"
	"github.com/apexvelocity/pathopt/internal/vehicle"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r2"
)

// Point is a reference path point in world coordinates.
type Point struct {
	X, Y float64
}

// StartState is the fixed start pose: position, heading (radians), and
// initial curvature (1/m).
type StartState struct {
	X, Y, HeadingRad, Curvature float64
}

// EndState is the desired end pose: position and heading.
type EndState struct {
	X, Y, HeadingRad float64
}

// CircleObstacle is a simple circular obstacle for the in-process
// ObstacleField implementation.
type CircleObstacle struct {
	X, Y, RadiusM float64
}

// PlanResult mirrors the teacher's SolveResult shape: a success flag, an
// error message on failure, and the dense output path on success.
type PlanResult struct {
	Success      bool
	ErrorMessage string
	Path         []geom.State
	SmoothedPath []geom.State
}

// Plan runs the path optimizer for one request. vehicleName selects a
// preset loaded via LoadVehiclePreset; "" or "default" uses
// GetDefaultVehicle. mapExtent/obstacles build an in-memory ObstacleField;
// pass zero mapExtent with no obstacles for an unbounded, obstacle-free
// field.
func Plan(vehicleName string, reference []Point, start StartState, end EndState,
	mapMinX, mapMinY, mapMaxX, mapMaxY float64, obstacles []CircleObstacle, logger *zap.Logger) (*PlanResult, error) {

	if len(reference) < 2 {
		return nil, errors.New("need at least 2 reference points")
	}

	var geo vehicle.Geometry
	if vehicleName == "" || vehicleName == "default" {
		geo = GetDefaultVehicle()
	} else {
		var err error
		geo, err = LoadVehiclePreset(vehicleName)
		if err != nil {
			return nil, err
		}
	}

	optCfg := CurrentOptimizerConfig()

	var field obstacle.Field
	if mapMaxX > mapMinX && mapMaxY > mapMinY {
		circles := make([]obstacle.Circle, len(obstacles))
		for i, o := range obstacles {
			circles[i] = obstacle.Circle{Center: r2.Vec{X: o.X, Y: o.Y}, Radius: o.RadiusM}
		}
		field = obstacle.NewCircleField(mapMinX, mapMinY, mapMaxX, mapMaxY, circles...)
	} else {
		field = obstacle.Empty{}
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	opt := pathopt.New(pathopt.Options{
		Vehicle:                  geo,
		Weights:                  optCfg.Weights,
		Solver:                   nlp.AugmentedLagrangianSolver{},
		MaxCPUTimeS:              optCfg.MaxCPUTimeS,
		EndHeadingClearanceGateM: optCfg.EndHeadingClearanceGateM,
		Logger:                   logger,
	}, field)

	refStates := make([]geom.State, len(reference))
	for i, p := range reference {
		refStates[i] = geom.State{X: p.X, Y: p.Y}
	}

	startState := geom.State{X: start.X, Y: start.Y, Z: geom.NormalizeAngle(start.HeadingRad), K: start.Curvature}
	endState := geom.State{X: end.X, Y: end.Y, Z: geom.NormalizeAngle(end.HeadingRad)}

	result := opt.Solve(refStates, startState, endState)
	if result.Failure != "" {
		return &PlanResult{Success: false, ErrorMessage: string(result.Failure)}, nil
	}

	return &PlanResult{
		Success:      true,
		Path:         result.FinalPath,
		SmoothedPath: opt.GetSmoothedPath(),
	}, nil
}
