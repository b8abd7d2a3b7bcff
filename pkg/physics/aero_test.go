package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/lapsim-go/pkg/model"
)

func testAeroParams() model.AeroParams {
	return model.AeroParams{Cl: -3.0, Cd: 0.8, FrontalArea: 1.5, AirDensity: 1.225}
}

func TestDragForce(t *testing.T) {
	aero := NewAeroModel(testAeroParams())

	// 0.5 * 1.225 * 1.5 * 0.8 * 50²
	assert.InDelta(t, 1837.5, aero.DragForce(50), 1e-6)
	assert.Zero(t, aero.DragForce(0))
}

func TestDownforceIsPositiveForNegativeCl(t *testing.T) {
	aero := NewAeroModel(testAeroParams())

	// 0.5 * 1.225 * 1.5 * 3.0 * 50²
	assert.InDelta(t, 6890.625, aero.Downforce(50), 1e-6)
	assert.Positive(t, aero.Downforce(10))
}

func TestTotalVerticalLoad(t *testing.T) {
	aero := NewAeroModel(testAeroParams())

	const mass = 800.0
	atRest := aero.TotalVerticalLoad(0, mass)
	assert.InDelta(t, mass*model.Gravity, atRest, 1e-9)

	atSpeed := aero.TotalVerticalLoad(50, mass)
	assert.InDelta(t, mass*model.Gravity+6890.625, atSpeed, 1e-6)
}

func TestDragPower(t *testing.T) {
	aero := NewAeroModel(testAeroParams())
	assert.InDelta(t, aero.DragForce(40)*40, aero.DragPower(40), 1e-9)
}
