//nolint:funlen // ok for tests
package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validVehicle() VehicleParams {
	v := DefaultVehicleParams()
	v.Powertrain.TorqueCurve = []TorquePoint{
		{RPM: 5000, Torque: 250},
		{RPM: 10000, Torque: 350},
		{RPM: 15000, Torque: 300},
	}
	v.Powertrain.GearRatios = []float64{3.0, 2.2, 1.7, 1.3, 1.0}
	return v
}

func TestValidateAcceptsDefaults(t *testing.T) {
	v := validVehicle()
	assert.NoError(t, v.Validate())
}

func TestValidateRejections(t *testing.T) {
	cases := map[string]func(*VehicleParams){
		"non-positive mass":     func(v *VehicleParams) { v.Mass.Mass = 0 },
		"negative cog height":   func(v *VehicleParams) { v.Mass.CogHeight = -0.1 },
		"non-positive wb":       func(v *VehicleParams) { v.Mass.Wheelbase = 0 },
		"weight dist range":     func(v *VehicleParams) { v.Mass.WeightDistribution = 1.2 },
		"non-positive area":     func(v *VehicleParams) { v.Aero.FrontalArea = -1 },
		"non-positive density":  func(v *VehicleParams) { v.Aero.AirDensity = 0 },
		"non-positive mu":       func(v *VehicleParams) { v.Tire.MuX = 0 },
		"non-positive radius":   func(v *VehicleParams) { v.Tire.TireRadius = 0 },
		"load sens range":       func(v *VehicleParams) { v.Tire.LoadSensitivity = 1.4 },
		"empty torque curve":    func(v *VehicleParams) { v.Powertrain.TorqueCurve = nil },
		"empty gears":           func(v *VehicleParams) { v.Powertrain.GearRatios = nil },
		"non-positive final":    func(v *VehicleParams) { v.Powertrain.FinalDrive = 0 },
		"efficiency range":      func(v *VehicleParams) { v.Powertrain.Efficiency = 1.1 },
		"zero efficiency":       func(v *VehicleParams) { v.Powertrain.Efficiency = 0 },
		"non-positive brake":    func(v *VehicleParams) { v.Brake.MaxBrakeForce = 0 },
		"brake bias range":      func(v *VehicleParams) { v.Brake.BrakeBias = -0.1 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			v := validVehicle()
			mutate(&v)
			err := v.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidVehicle)
		})
	}
}

func TestSortTorqueCurve(t *testing.T) {
	p := PowertrainParams{TorqueCurve: []TorquePoint{
		{RPM: 15000, Torque: 300},
		{RPM: 5000, Torque: 250},
		{RPM: 10000, Torque: 350},
	}}
	p.SortTorqueCurve()

	assert.InDelta(t, 5000.0, p.TorqueCurve[0].RPM, 1e-9)
	assert.InDelta(t, 10000.0, p.TorqueCurve[1].RPM, 1e-9)
	assert.InDelta(t, 15000.0, p.TorqueCurve[2].RPM, 1e-9)
}

func TestPowerToWeightRatio(t *testing.T) {
	v := validVehicle()

	// peak power is 300 Nm at 15000 rpm
	peakWatts := 300 * 15000 * 2 * math.Pi / 60
	expected := peakWatts / 745.7 / v.Mass.Mass
	assert.InDelta(t, expected, v.PowerToWeightRatio(), 1e-9)
}

func TestMaxTheoreticalSpeed(t *testing.T) {
	v := validVehicle()

	peakWatts := 300 * 15000 * 2 * math.Pi / 60 * v.Powertrain.Efficiency
	expected := math.Cbrt(2 * peakWatts /
		(v.Aero.AirDensity * v.Aero.Cd * v.Aero.FrontalArea))
	assert.InDelta(t, expected, v.MaxTheoreticalSpeed(), 1e-9)
	// sanity: this car tops out well above 80 m/s
	assert.Greater(t, v.MaxTheoreticalSpeed(), 80.0)
}

func TestUpdateGForces(t *testing.T) {
	s := SimulationState{Ax: Gravity, Ay: 2 * Gravity, Az: Gravity}
	s.UpdateGForces()

	assert.InDelta(t, 1.0, s.Gx, 1e-9)
	assert.InDelta(t, 2.0, s.Gy, 1e-9)
	assert.InDelta(t, 1.0, s.Gz, 1e-9)
	assert.InDelta(t, math.Sqrt(6), s.GTotal, 1e-9)
}

func TestSimulationStateString(t *testing.T) {
	s := SimulationState{VKmh: 212.4, Gear: 4, Throttle: 0.8}
	str := s.String()
	assert.Contains(t, str, "212.400 km/h")
	assert.Contains(t, str, "Gear: 4")
	assert.Contains(t, str, "Throttle: 80.0%")
}

func TestLapResultEmpty(t *testing.T) {
	var r LapResult
	assert.Zero(t, r.MaxSpeed())
	assert.Zero(t, r.AverageSpeed())
	gx, gy, gt := r.MaxGForces()
	assert.Zero(t, gx)
	assert.Zero(t, gy)
	assert.Zero(t, gt)
}

func TestLapResultClear(t *testing.T) {
	r := LapResult{LapTime: 10}
	r.AddState(SimulationState{V: 10})
	r.Clear()
	assert.Empty(t, r.States)
	assert.Zero(t, r.LapTime)
}
