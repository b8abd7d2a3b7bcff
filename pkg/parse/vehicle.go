package parse

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/mpapenbr/lapsim-go/log"
	"github.com/mpapenbr/lapsim-go/pkg/model"
)

// input mirrors of the vehicle JSON; pointers distinguish "missing" from 0
type vehicleInput struct {
	Name       string           `json:"name"`
	Mass       *massInput       `json:"mass"`
	Aero       *aeroInput       `json:"aerodynamics"`
	Tire       *tireInput       `json:"tire"`
	Powertrain *powertrainInput `json:"powertrain"`
	Brake      *brakeInput      `json:"brake"`
}

type massInput struct {
	Mass               *float64 `json:"mass"`
	CogHeight          *float64 `json:"cog_height"`
	Wheelbase          *float64 `json:"wheelbase"`
	WeightDistribution *float64 `json:"weight_distribution"`
}

type aeroInput struct {
	Cl          *float64 `json:"Cl"`
	Cd          *float64 `json:"Cd"`
	FrontalArea *float64 `json:"frontal_area"`
	AirDensity  *float64 `json:"air_density"`
}

type tireInput struct {
	MuX             *float64 `json:"mu_x"`
	MuY             *float64 `json:"mu_y"`
	LoadSensitivity *float64 `json:"load_sensitivity"`
	TireRadius      *float64 `json:"tire_radius"`
}

type powertrainInput struct {
	TorqueCurve map[string]float64 `json:"engine_torque_curve"`
	GearRatios  []float64          `json:"gear_ratios"`
	FinalDrive  *float64           `json:"final_drive"`
	Efficiency  *float64           `json:"efficiency"`
	MaxRPM      *float64           `json:"max_rpm"`
	MinRPM      *float64           `json:"min_rpm"`
	ShiftTime   *float64           `json:"shift_time"`
}

type brakeInput struct {
	MaxBrakeForce *float64 `json:"max_brake_force"`
	BrakeBias     *float64 `json:"brake_bias"`
}

// VehicleJSON reads and validates a vehicle parameter file. Missing entries
// fall back to the defaults of model.DefaultVehicleParams.
//
//nolint:funlen // straight field mapping
func VehicleJSON(path string) (*model.VehicleParams, error) {
	l := log.Default().Named("parse")
	l.Debug("parsing vehicle JSON", log.String("path", path))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading vehicle file: %w", err)
	}

	var input vehicleInput
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("parsing vehicle JSON: %w", err)
	}

	vehicle := model.DefaultVehicleParams()
	if input.Name != "" {
		vehicle.Name = input.Name
	}

	if m := input.Mass; m != nil {
		applyFloat(&vehicle.Mass.Mass, m.Mass)
		applyFloat(&vehicle.Mass.CogHeight, m.CogHeight)
		applyFloat(&vehicle.Mass.Wheelbase, m.Wheelbase)
		applyFloat(&vehicle.Mass.WeightDistribution, m.WeightDistribution)
	}

	if a := input.Aero; a != nil {
		applyFloat(&vehicle.Aero.Cl, a.Cl)
		applyFloat(&vehicle.Aero.Cd, a.Cd)
		applyFloat(&vehicle.Aero.FrontalArea, a.FrontalArea)
		applyFloat(&vehicle.Aero.AirDensity, a.AirDensity)
	}

	if t := input.Tire; t != nil {
		applyFloat(&vehicle.Tire.MuX, t.MuX)
		applyFloat(&vehicle.Tire.MuY, t.MuY)
		applyFloat(&vehicle.Tire.LoadSensitivity, t.LoadSensitivity)
		applyFloat(&vehicle.Tire.TireRadius, t.TireRadius)
	}

	if p := input.Powertrain; p != nil {
		for key, torque := range p.TorqueCurve {
			rpm, err := strconv.ParseFloat(key, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid torque curve rpm key %q: %w", key, err)
			}
			vehicle.Powertrain.TorqueCurve = append(vehicle.Powertrain.TorqueCurve,
				model.TorquePoint{RPM: rpm, Torque: torque})
		}
		vehicle.Powertrain.SortTorqueCurve()
		vehicle.Powertrain.GearRatios = p.GearRatios
		applyFloat(&vehicle.Powertrain.FinalDrive, p.FinalDrive)
		applyFloat(&vehicle.Powertrain.Efficiency, p.Efficiency)
		applyFloat(&vehicle.Powertrain.MaxRPM, p.MaxRPM)
		applyFloat(&vehicle.Powertrain.MinRPM, p.MinRPM)
		applyFloat(&vehicle.Powertrain.ShiftTime, p.ShiftTime)
	}

	if b := input.Brake; b != nil {
		applyFloat(&vehicle.Brake.MaxBrakeForce, b.MaxBrakeForce)
		applyFloat(&vehicle.Brake.BrakeBias, b.BrakeBias)
	}

	if err := vehicle.Validate(); err != nil {
		return nil, err
	}

	l.Info("vehicle loaded",
		log.String("name", vehicle.Name),
		log.Float64("massKg", vehicle.Mass.Mass),
		log.Float64("powerToWeightHpKg", vehicle.PowerToWeightRatio()))
	return &vehicle, nil
}

func applyFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}
