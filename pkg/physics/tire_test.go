package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/lapsim-go/pkg/model"
)

func testTireParams() model.TireParams {
	return model.TireParams{MuX: 1.6, MuY: 1.8, LoadSensitivity: 0.9, TireRadius: 0.3}
}

func TestEffectiveMuAtReferenceLoad(t *testing.T) {
	tire := NewTireModel(testTireParams())

	// at the reference load the base coefficient applies unchanged
	assert.InDelta(t, 1.6, tire.EffectiveMu(FzReference, 1.6), 1e-9)
}

func TestEffectiveMuDecreasesWithLoad(t *testing.T) {
	tire := NewTireModel(testTireParams())

	low := tire.EffectiveMu(1000, 1.6)
	high := tire.EffectiveMu(8000, 1.6)
	assert.Greater(t, low, high)
	assert.Zero(t, tire.EffectiveMu(0, 1.6))
	assert.Zero(t, tire.EffectiveMu(-100, 1.6))
}

func TestFrictionEllipseConstraint(t *testing.T) {
	tire := NewTireModel(testTireParams())

	for _, fz := range []float64{500, 2000, 5000, 12000, 25000} {
		fMax := tire.MaxTotalForce(fz)
		for frac := 0.0; frac <= 1.5; frac += 0.1 {
			fy := frac * fMax
			fx := tire.AvailableLongitudinalForce(fz, fy)
			if fy >= fMax {
				// lateral demand alone saturates the tire: no longitudinal headroom
				assert.Zero(t, fx, "fz=%f fy=%f", fz, fy)
				continue
			}
			combined := math.Sqrt(fx*fx + fy*fy)
			assert.LessOrEqual(t, combined, fMax+1e-9,
				"fz=%f fy=%f", fz, fy)
		}
	}
}

func TestAvailableForceAtLimit(t *testing.T) {
	tire := NewTireModel(testTireParams())

	fMax := tire.MaxTotalForce(4000)
	assert.Zero(t, tire.AvailableLongitudinalForce(4000, fMax))
	assert.Zero(t, tire.AvailableLongitudinalForce(4000, fMax*1.1))
	assert.InDelta(t, fMax, tire.AvailableLongitudinalForce(4000, 0), 1e-9)
}

func TestAvailableLateralForceSymmetry(t *testing.T) {
	tire := NewTireModel(testTireParams())

	fx := tire.AvailableLongitudinalForce(6000, 3000)
	fy := tire.AvailableLateralForce(6000, 3000)
	assert.InDelta(t, fx, fy, 1e-9)
}

func TestIsWithinFrictionCircle(t *testing.T) {
	tire := NewTireModel(testTireParams())

	fMax := tire.MaxTotalForce(5000)
	assert.True(t, tire.IsWithinFrictionCircle(fMax/2, fMax/2, 5000))
	assert.True(t, tire.IsWithinFrictionCircle(fMax, 0, 5000))
	assert.False(t, tire.IsWithinFrictionCircle(fMax, fMax, 5000))
}

func TestMaxForcesUsePerAxisMu(t *testing.T) {
	tire := NewTireModel(testTireParams())

	// mu_y > mu_x for this parameter set
	assert.Greater(t, tire.MaxLateralForce(4000), tire.MaxLongitudinalForce(4000))
}
