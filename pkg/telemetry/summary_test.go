package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatLapTime(t *testing.T) {
	assert.Equal(t, "01:23.457", FormatLapTime(83.4567))
	assert.Equal(t, "00:09.500", FormatLapTime(9.5))
	assert.Equal(t, "02:00.000", FormatLapTime(120))
}

func TestAutoCSVFilename(t *testing.T) {
	name := AutoCSVFilename("Formula Car (2024)", "monza-gp", 83.45)
	assert.Equal(t, "Formula_Car_2024_-monza_gp-1_23-VSIM.csv", name)
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "a_b_c", sanitizeName("a b-c"))
	assert.Equal(t, "x_y_", sanitizeName("x  (y)"))
}
