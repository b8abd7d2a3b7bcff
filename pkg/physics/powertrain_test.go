//nolint:funlen // ok for tests
package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/lapsim-go/pkg/model"
)

const testTireRadius = 0.3

func testPowertrainParams() model.PowertrainParams {
	return model.PowertrainParams{
		TorqueCurve: []model.TorquePoint{
			{RPM: 5000, Torque: 250},
			{RPM: 10000, Torque: 350},
			{RPM: 15000, Torque: 300},
		},
		GearRatios: []float64{3.0, 2.2, 1.7, 1.3, 1.0},
		FinalDrive: 3.5,
		Efficiency: 0.95,
		MaxRPM:     15000,
		MinRPM:     4000,
		ShiftTime:  0.05,
	}
}

func TestRPMRoundTrip(t *testing.T) {
	params := testPowertrainParams()
	pt := NewPowertrainModel(params, testTireRadius)

	for gear := 1; gear <= len(params.GearRatios); gear++ {
		v := 40.0
		rpm := pt.RPM(v, gear)

		// invert: wheel speed from engine speed
		totalRatio := params.GearRatios[gear-1] * params.FinalDrive
		vBack := rpm * 2 * math.Pi / 60 / totalRatio * testTireRadius
		assert.InDelta(t, v, vBack, 1e-9, "gear %d", gear)
	}
}

func TestRPMInvalidGear(t *testing.T) {
	pt := NewPowertrainModel(testPowertrainParams(), testTireRadius)

	assert.Zero(t, pt.RPM(40, 0))
	assert.Zero(t, pt.RPM(40, 6))
}

func TestEngineTorqueInterpolation(t *testing.T) {
	pt := NewPowertrainModel(testPowertrainParams(), testTireRadius)

	// exact entries
	assert.InDelta(t, 250.0, pt.EngineTorque(5000), 1e-9)
	assert.InDelta(t, 350.0, pt.EngineTorque(10000), 1e-9)
	// midpoint
	assert.InDelta(t, 300.0, pt.EngineTorque(7500), 1e-9)
	// clamped outside the table
	assert.InDelta(t, 250.0, pt.EngineTorque(1000), 1e-9)
	assert.InDelta(t, 250.0, pt.EngineTorque(-50), 1e-9)
	assert.InDelta(t, 300.0, pt.EngineTorque(20000), 1e-9)
}

func TestEngineTorqueSingleEntry(t *testing.T) {
	params := testPowertrainParams()
	params.TorqueCurve = []model.TorquePoint{{RPM: 8000, Torque: 400}}
	pt := NewPowertrainModel(params, testTireRadius)

	assert.InDelta(t, 400.0, pt.EngineTorque(2000), 1e-9)
	assert.InDelta(t, 400.0, pt.EngineTorque(12000), 1e-9)
}

func TestWheelForceOutsideOperatingBand(t *testing.T) {
	pt := NewPowertrainModel(testPowertrainParams(), testTireRadius)

	// gear 1 at high speed exceeds the redline
	assert.Zero(t, pt.WheelForce(80, 1))
	// very low speed drops below idle in every gear
	assert.Zero(t, pt.WheelForce(1, 5))
	// invalid inputs
	assert.Zero(t, pt.WheelForce(-5, 1))
	assert.Zero(t, pt.WheelForce(0, 1))
}

func TestWheelForceInBand(t *testing.T) {
	params := testPowertrainParams()
	pt := NewPowertrainModel(params, testTireRadius)

	v := 50.0
	gear := 2
	rpm := pt.RPM(v, gear)
	assert.Greater(t, rpm, params.MinRPM)
	assert.Less(t, rpm, params.MaxRPM)

	expected := pt.EngineTorque(rpm) * params.GearRatios[gear-1] * params.FinalDrive *
		params.Efficiency / testTireRadius
	assert.InDelta(t, expected, pt.WheelForce(v, gear), 1e-9)
}

func TestMaxWheelForceTakesBestGear(t *testing.T) {
	pt := NewPowertrainModel(testPowertrainParams(), testTireRadius)

	v := 50.0
	best := pt.MaxWheelForce(v)
	for gear := 1; gear <= 5; gear++ {
		assert.GreaterOrEqual(t, best, pt.WheelForce(v, gear), "gear %d", gear)
	}
	assert.Positive(t, best)
}

func TestPeakPowerRPM(t *testing.T) {
	pt := NewPowertrainModel(testPowertrainParams(), testTireRadius)

	// 300 Nm at 15000 rpm beats 350 Nm at 10000 rpm on power
	assert.InDelta(t, 15000.0, pt.PeakPowerRPM(), 1e-9)
}

func TestOptimalGear(t *testing.T) {
	pt := NewPowertrainModel(testPowertrainParams(), testTireRadius)

	// at 50 m/s gear 2 is the highest gear above 70% of redline
	assert.Equal(t, 2, pt.OptimalGear(50))
	// at standstill always first gear
	assert.Equal(t, 1, pt.OptimalGear(0))
	assert.Equal(t, 1, pt.OptimalGear(-3))
}

func TestOptimalGearFallback(t *testing.T) {
	params := testPowertrainParams()
	pt := NewPowertrainModel(params, testTireRadius)

	// slow enough that no gear reaches 70% of redline, but first gear is in band
	v := 15.0
	gear := pt.OptimalGear(v)
	rpm := pt.RPM(v, gear)
	assert.GreaterOrEqual(t, rpm, params.MinRPM)
	assert.LessOrEqual(t, rpm, params.MaxRPM)
}

func TestWheelPower(t *testing.T) {
	pt := NewPowertrainModel(testPowertrainParams(), testTireRadius)
	assert.InDelta(t, pt.WheelForce(50, 2)*50, pt.WheelPower(50, 2), 1e-9)
}

func TestMaxPowerAppliesEfficiency(t *testing.T) {
	pt := NewPowertrainModel(testPowertrainParams(), testTireRadius)

	// peak: 300 Nm at 15000 rpm
	expected := 300 * 15000.0 * 2 * math.Pi / 60 * 0.95
	assert.InDelta(t, expected, pt.MaxPower(), 1e-6)
}
