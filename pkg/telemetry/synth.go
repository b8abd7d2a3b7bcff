// Package telemetry reconstructs per-point vehicle state from a solved
// velocity profile and writes it to the supported output formats.
package telemetry

import (
	"math"

	"github.com/mpapenbr/lapsim-go/pkg/model"
	"github.com/mpapenbr/lapsim-go/pkg/physics"
	"github.com/mpapenbr/lapsim-go/pkg/track"
)

// control reconstruction heuristics: full throttle is assumed to correspond
// to 20 m/s² and full brake to 30 m/s² of longitudinal acceleration
const (
	throttleFullScale = 20.0 // m/s²
	brakeFullScale    = 30.0 // m/s²
	controlDeadband   = 0.1  // m/s²
	straightRadiusCap = 1e9  // m
)

// Synthesize builds a LapResult from the optimal velocity profile: one
// SimulationState per track point plus the lap time.
func Synthesize(
	geo *track.Geometry,
	vehicle *model.VehicleParams,
	vOptimal []float64,
	lapTime float64,
) *model.LapResult {
	aero := physics.NewAeroModel(vehicle.Aero)
	powertrain := physics.NewPowertrainModel(vehicle.Powertrain, vehicle.Tire.TireRadius)

	result := &model.LapResult{LapTime: lapTime}

	points := geo.Points()
	cumulativeTime := 0.0

	for i := range points {
		state := createState(&points[i], vehicle, aero, powertrain, vOptimal, i, cumulativeTime)
		result.AddState(state)

		if vOptimal[i] > 0 {
			cumulativeTime += points[i].Ds / vOptimal[i]
		}
	}

	return result
}

//nolint:funlen // linear field-by-field state assembly
func createState(
	point *model.TrackPoint,
	vehicle *model.VehicleParams,
	aero *physics.AeroModel,
	powertrain *physics.PowertrainModel,
	vOptimal []float64,
	index int,
	timestamp float64,
) model.SimulationState {
	v := vOptimal[index]

	state := model.SimulationState{
		S: point.S,
		N: 0, // line is the centerline
		X: point.X,
		Y: point.Y,
		Z: point.Z,

		V:    v,
		VKmh: v * 3.6,

		Ay: v * v * point.Kappa,
		Az: model.Gravity,

		Curvature:    point.Kappa,
		Radius:       straightRadiusCap,
		BankingAngle: point.Banking,

		Timestamp: timestamp,
	}

	// longitudinal acceleration from the velocity difference to the next point
	if index < len(vOptimal)-1 && v > 0 {
		dv := vOptimal[index+1] - v
		dt := point.Ds / v
		if dt > 0 {
			state.Ax = dv / dt
		}
	}

	state.UpdateGForces()

	if math.Abs(point.Kappa) > 1e-6 {
		state.Radius = 1 / math.Abs(point.Kappa)
	}

	state.DragForce = aero.DragForce(v)
	state.Downforce = aero.Downforce(v)
	state.VerticalLoad = aero.TotalVerticalLoad(v, vehicle.Mass.Mass)

	// coarse control estimates for display purposes
	switch {
	case state.Ax > controlDeadband:
		state.Throttle = math.Min(1, state.Ax/throttleFullScale)
	case state.Ax < -controlDeadband:
		state.Brake = math.Min(1, -state.Ax/brakeFullScale)
	}

	// kinematic bicycle model steering
	state.SteeringAngle = math.Atan(vehicle.Mass.Wheelbase * point.Kappa)

	state.Gear = powertrain.OptimalGear(v)
	state.RPM = powertrain.RPM(v, state.Gear)

	return state
}
