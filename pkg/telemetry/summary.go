package telemetry

import (
	"fmt"
	"strings"

	"github.com/mpapenbr/lapsim-go/log"
	"github.com/mpapenbr/lapsim-go/pkg/model"
	"github.com/mpapenbr/lapsim-go/pkg/track"
	"github.com/mpapenbr/lapsim-go/pkg/units"
)

// LogSummary emits the post-run statistics through the given logger.
func LogSummary(
	l *log.Logger,
	result *model.LapResult,
	geo *track.Geometry,
	vehicle *model.VehicleParams,
	speedUnit string,
) {
	maxGx, maxGy, maxGTotal := result.MaxGForces()
	unitLabel := units.Label(speedUnit)

	l.Info("track",
		log.String("name", geo.Name()),
		log.Float64("lengthM", geo.TotalLength()),
		log.Int("points", geo.NumPoints()))
	l.Info("vehicle",
		log.String("name", vehicle.Name),
		log.Float64("massKg", vehicle.Mass.Mass),
		log.Float64("powerToWeightHpKg", vehicle.PowerToWeightRatio()),
		log.Float64("dragLimitedTopSpeed", units.ConvertSpeed(vehicle.MaxTheoreticalSpeed(), speedUnit)),
		log.Float64("cd", vehicle.Aero.Cd),
		log.Float64("cl", vehicle.Aero.Cl))
	l.Info("lap time",
		log.String("formatted", FormatLapTime(result.LapTime)),
		log.Float64("seconds", result.LapTime))
	l.Info("performance",
		log.Float64("maxSpeed"+unitSuffix(speedUnit), units.ConvertSpeed(result.MaxSpeed(), speedUnit)),
		log.Float64("avgSpeed"+unitSuffix(speedUnit), units.ConvertSpeed(result.AverageSpeed(), speedUnit)),
		log.String("speedUnit", unitLabel),
		log.Float64("maxLongG", maxGx),
		log.Float64("maxLatG", maxGy),
		log.Float64("maxTotalG", maxGTotal))
}

func unitSuffix(unit string) string {
	switch unit {
	case units.MPH:
		return "Mph"
	case units.KMPH, units.KPH:
		return "Kmh"
	default:
		return "Ms"
	}
}

// FormatLapTime renders seconds as MM:SS.mmm.
func FormatLapTime(seconds float64) string {
	minutes := int(seconds / 60)
	secs := seconds - float64(minutes)*60
	return fmt.Sprintf("%02d:%06.3f", minutes, secs)
}

// AutoCSVFilename derives the default telemetry filename from the vehicle,
// the track, and the lap time: <vehicle>-<track>-<M_SS>-VSIM.csv.
func AutoCSVFilename(vehicleName, trackName string, lapTime float64) string {
	minutes := int(lapTime) / 60
	seconds := int(lapTime) % 60

	return fmt.Sprintf("%s-%s-%d_%02d-VSIM.csv",
		sanitizeName(vehicleName), sanitizeName(trackName), minutes, seconds)
}

func sanitizeName(name string) string {
	replacer := strings.NewReplacer(" ", "_", "-", "_", "(", "_", ")", "_")
	cleaned := replacer.Replace(name)
	for strings.Contains(cleaned, "__") {
		cleaned = strings.ReplaceAll(cleaned, "__", "_")
	}
	return cleaned
}
