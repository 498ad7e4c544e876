// Package solver adapts the path optimizer core (internal/pathopt) to the
// HTTP layer: vehicle presets, optimizer weight configuration, and the
// Plan entrypoint the API handlers call. It keeps the shape of the
// teacher's CGO bridge (InitConfig/ReloadConfig/LoadVehiclePreset/
// GetDefaultVehicle, with its Solve becoming Plan) but loads YAML files
// instead of crossing into C++.
package solver

import (
	"errors"
	"os"
	"sync"

	"github.com/apexvelocity/pathopt/internal/frenet"
	"github.com/apexvelocity/pathopt/internal/vehicle"
	"gopkg.in/yaml.v3"
)

// VehiclePreset mirrors vehicle.Geometry in YAML-friendly form.
type VehiclePreset struct {
	Name                string  `yaml:"name"`
	WidthM              float64 `yaml:"width_m"`
	LengthM             float64 `yaml:"length_m"`
	RearLM              float64 `yaml:"rear_l_m"`
	FrontLM             float64 `yaml:"front_l_m"`
	RearAxleToCenterDis float64 `yaml:"rear_axle_to_center_dis_m"`
	MaxCurvature        float64 `yaml:"max_curvature"`
}

// ToGeometry converts a VehiclePreset into vehicle.Geometry.
func (p VehiclePreset) ToGeometry() vehicle.Geometry {
	return vehicle.Geometry{
		Kind:                vehicle.Ackermann,
		WidthM:              p.WidthM,
		LengthM:             p.LengthM,
		RearLM:              p.RearLM,
		FrontLM:             p.FrontLM,
		RearAxleToCenterDis: p.RearAxleToCenterDis,
		MaxCurvature:        p.MaxCurvature,
	}
}

// OptimizerConfig holds the tunables a deployment may want to override
// without recompiling: solver time budget, cost weights, and the
// end-heading clearance gate.
type OptimizerConfig struct {
	MaxCPUTimeS              float64        `yaml:"max_cpu_time_s"`
	EndHeadingClearanceGateM float64        `yaml:"end_heading_clearance_gate_m"`
	Weights                  frenet.Weights `yaml:"-"`
	WeightsRaw               struct {
		Kappa     float64 `yaml:"kappa"`
		KappaRate float64 `yaml:"kappa_rate"`
		Boundary  float64 `yaml:"boundary"`
		ArcLength float64 `yaml:"arc_length"`
	} `yaml:"weights"`
}

type configFile struct {
	Vehicles  []VehiclePreset `yaml:"vehicles"`
	Optimizer OptimizerConfig `yaml:"optimizer"`
}

var (
	mu        sync.RWMutex
	presets   = map[string]VehiclePreset{}
	optConfig = defaultOptimizerConfig()
	configDir string
)

func defaultOptimizerConfig() OptimizerConfig {
	c := OptimizerConfig{MaxCPUTimeS: 0.02, EndHeadingClearanceGateM: 4.0}
	c.WeightsRaw.Kappa = 2
	c.WeightsRaw.KappaRate = 30
	c.WeightsRaw.Boundary = 0.01
	c.WeightsRaw.ArcLength = 0.05
	c.Weights = frenet.Weights{Kappa: 2, KappaRate: 30, Boundary: 0.01, ArcLength: 0.05}
	return c
}

// InitConfig loads vehicle presets and optimizer configuration from
// <configDir>/vehicles.yaml. Missing or invalid files leave the built-in
// defaults in place, matching the teacher's "warn, don't fail hard"
// contract in cmd/apex-server/main.go.
func InitConfig(dir string) error {
	configDir = dir
	return ReloadConfig()
}

// ReloadConfig re-reads the configuration files, implementing POST
// /v1/config/reload.
func ReloadConfig() error {
	mu.Lock()
	defer mu.Unlock()

	if configDir == "" {
		return errors.New("solver: config directory not set")
	}

	data, err := os.ReadFile(configDir + "/vehicles.yaml")
	if err != nil {
		return err
	}

	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return err
	}

	newPresets := make(map[string]VehiclePreset, len(cfg.Vehicles))
	for _, p := range cfg.Vehicles {
		newPresets[p.Name] = p
	}
	presets = newPresets

	cfg.Optimizer.Weights = frenet.Weights{
		Kappa:     cfg.Optimizer.WeightsRaw.Kappa,
		KappaRate: cfg.Optimizer.WeightsRaw.KappaRate,
		Boundary:  cfg.Optimizer.WeightsRaw.Boundary,
		ArcLength: cfg.Optimizer.WeightsRaw.ArcLength,
	}
	if cfg.Optimizer.MaxCPUTimeS == 0 {
		cfg.Optimizer.MaxCPUTimeS = 0.02
	}
	if cfg.Optimizer.EndHeadingClearanceGateM == 0 {
		cfg.Optimizer.EndHeadingClearanceGateM = 4.0
	}
	if cfg.Optimizer.Weights == (frenet.Weights{}) {
		cfg.Optimizer.Weights = frenet.DefaultWeights()
	}
	optConfig = cfg.Optimizer

	return nil
}

// LoadVehiclePreset looks up a named vehicle preset.
func LoadVehiclePreset(name string) (vehicle.Geometry, error) {
	mu.RLock()
	defer mu.RUnlock()
	p, ok := presets[name]
	if !ok {
		return vehicle.Geometry{}, errors.New("solver: vehicle preset not found: " + name)
	}
	return p.ToGeometry(), nil
}

// GetDefaultVehicle returns the built-in default vehicle geometry
// (spec.md §3).
func GetDefaultVehicle() vehicle.Geometry {
	return vehicle.DefaultGeometry()
}

// CurrentOptimizerConfig returns the active optimizer configuration.
func CurrentOptimizerConfig() OptimizerConfig {
	mu.RLock()
	defer mu.RUnlock()
	return optConfig
}
