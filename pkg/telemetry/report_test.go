package telemetry

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/lapsim-go/pkg/solver"
)

func TestWriteHTMLReport(t *testing.T) {
	geo := squareishTrack(t)
	vehicle := testVehicle()
	result := Synthesize(geo, vehicle, constantProfile(geo.NumPoints(), 40), 23.5)

	ggv := solver.NewGGV(vehicle)
	ggv.Generate(0, 60, 5, 30, 5)

	var buf bytes.Buffer
	require.NoError(t, WriteHTMLReport(&buf, result, ggv, geo.Name(), vehicle.Name))

	html := buf.String()
	assert.Contains(t, html, "echarts")
	assert.Contains(t, html, "Speed Trace")
	assert.Contains(t, html, "Track Map")
	assert.Contains(t, html, "GGV Envelope")
}

func TestWriteHTMLReportWithoutGGV(t *testing.T) {
	geo := squareishTrack(t)
	vehicle := testVehicle()
	result := Synthesize(geo, vehicle, constantProfile(geo.NumPoints(), 40), 23.5)

	var buf bytes.Buffer
	require.NoError(t, WriteHTMLReport(&buf, result, nil, geo.Name(), vehicle.Name))
	assert.NotContains(t, buf.String(), "GGV Envelope")
}
