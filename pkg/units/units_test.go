package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValid(t *testing.T) {
	for _, u := range ValidUnits {
		assert.True(t, IsValid(u), u)
	}
	assert.False(t, IsValid("knots"))
	assert.False(t, IsValid(""))
}

func TestConvertSpeed(t *testing.T) {
	assert.InDelta(t, 10.0, ConvertSpeed(10, MPS), 1e-9)
	assert.InDelta(t, 36.0, ConvertSpeed(10, KPH), 1e-9)
	assert.InDelta(t, 36.0, ConvertSpeed(10, KMPH), 1e-9)
	assert.InDelta(t, 22.369362920544, ConvertSpeed(10, MPH), 1e-9)
	// unknown units pass through unchanged
	assert.InDelta(t, 10.0, ConvertSpeed(10, "furlongs"), 1e-9)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "km/h", Label(KPH))
	assert.Equal(t, "mph", Label(MPH))
	assert.Equal(t, "m/s", Label(MPS))
}
