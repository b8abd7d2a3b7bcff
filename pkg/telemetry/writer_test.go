package telemetry

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	geo := squareishTrack(t)
	result := Synthesize(geo, testVehicle(), constantProfile(geo.NumPoints(), 40), 23.5)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, result))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1+geo.NumPoints())

	header := records[0]
	require.Len(t, header, 30)
	assert.Equal(t, "timestamp_s", header[0])
	assert.Equal(t, "speed_ms", header[6])
	assert.Equal(t, "gear", header[18])
	assert.Equal(t, "banking_rad", header[29])

	// every data row has the full column count
	for i, rec := range records[1:] {
		assert.Len(t, rec, 30, "row %d", i)
	}
	// speed column carries the profile value
	assert.Contains(t, records[1][6], "40.000000")
}

func TestWriteJSON(t *testing.T) {
	geo := squareishTrack(t)
	result := Synthesize(geo, testVehicle(), constantProfile(geo.NumPoints(), 40), 23.5)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, result))

	var doc struct {
		LapTimeSeconds float64 `json:"lap_time_seconds"`
		Telemetry      []struct {
			Timestamp float64 `json:"timestamp"`
			Position  struct {
				X float64 `json:"x"`
				S float64 `json:"s"`
			} `json:"position"`
			Velocity struct {
				Ms  float64 `json:"ms"`
				Kmh float64 `json:"kmh"`
			} `json:"velocity"`
			GForces struct {
				Total float64 `json:"total"`
			} `json:"g_forces"`
			Powertrain struct {
				Gear int     `json:"gear"`
				RPM  float64 `json:"rpm"`
			} `json:"powertrain"`
			Track struct {
				Radius float64 `json:"radius"`
			} `json:"track"`
		} `json:"telemetry"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.InDelta(t, 23.5, doc.LapTimeSeconds, 1e-9)
	require.Len(t, doc.Telemetry, geo.NumPoints())
	assert.InDelta(t, 40.0, doc.Telemetry[0].Velocity.Ms, 1e-9)
	assert.InDelta(t, 144.0, doc.Telemetry[0].Velocity.Kmh, 1e-9)
	assert.Positive(t, doc.Telemetry[0].Powertrain.Gear)
	assert.Positive(t, doc.Telemetry[10].GForces.Total)
}
