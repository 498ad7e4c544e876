package solver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/apexvelocity/pathopt/internal/vehicle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVehiclesYAML = `
vehicles:
  - name: compact
    width_m: 1.8
    length_m: 3.6
    rear_l_m: 1.8
    front_l_m: 1.8
    rear_axle_to_center_dis_m: 0.9
    max_curvature: 0.28

optimizer:
  max_cpu_time_s: 0.05
  end_heading_clearance_gate_m: 5.0
  weights:
    kappa: 1.0
    kappa_rate: 10.0
    boundary: 0.02
    arc_length: 0.1
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "vehicles.yaml"), []byte(testVehiclesYAML), 0o644)
	require.NoError(t, err)
	return dir
}

func TestVehiclePreset_ToGeometry(t *testing.T) {
	t.Parallel()
	p := VehiclePreset{
		Name: "compact", WidthM: 1.8, LengthM: 3.6, RearLM: 1.8, FrontLM: 1.8,
		RearAxleToCenterDis: 0.9, MaxCurvature: 0.28,
	}
	g := p.ToGeometry()
	assert.Equal(t, vehicle.Ackermann, g.Kind)
	assert.Equal(t, 1.8, g.WidthM)
	assert.Equal(t, 0.28, g.MaxCurvature)
}

func TestInitConfig_LoadsPresetsAndOptimizerConfig(t *testing.T) {
	dir := writeTestConfig(t)
	require.NoError(t, InitConfig(dir))

	geo, err := LoadVehiclePreset("compact")
	require.NoError(t, err)
	assert.Equal(t, 1.8, geo.WidthM)
	assert.Equal(t, 0.28, geo.MaxCurvature)

	cfg := CurrentOptimizerConfig()
	assert.Equal(t, 0.05, cfg.MaxCPUTimeS)
	assert.Equal(t, 5.0, cfg.EndHeadingClearanceGateM)
	assert.Equal(t, 1.0, cfg.Weights.Kappa)
	assert.Equal(t, 10.0, cfg.Weights.KappaRate)
}

func TestLoadVehiclePreset_UnknownNameErrors(t *testing.T) {
	dir := writeTestConfig(t)
	require.NoError(t, InitConfig(dir))

	_, err := LoadVehiclePreset("does-not-exist")
	assert.Error(t, err)
}

func TestReloadConfig_MissingConfigDirErrors(t *testing.T) {
	saved := configDir
	configDir = ""
	defer func() { configDir = saved }()

	err := ReloadConfig()
	assert.Error(t, err)
}

func TestGetDefaultVehicle(t *testing.T) {
	t.Parallel()
	g := GetDefaultVehicle()
	assert.Equal(t, vehicle.DefaultGeometry(), g)
}
