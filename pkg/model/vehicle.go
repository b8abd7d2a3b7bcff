package model

import (
	"errors"
	"math"
	"sort"

	"github.com/samber/lo"
)

// Gravity is the gravitational acceleration used throughout the simulation.
const Gravity = 9.81 // m/s²

// ErrInvalidVehicle is returned when a vehicle parameter set fails validation.
var ErrInvalidVehicle = errors.New("invalid vehicle parameters")

// AeroParams describes the aerodynamic configuration.
// Cl is negative for net downforce by convention.
type AeroParams struct {
	Cl          float64 `json:"Cl"`
	Cd          float64 `json:"Cd"`
	FrontalArea float64 `json:"frontal_area"` // m²
	AirDensity  float64 `json:"air_density"`  // kg/m³
}

// TireParams describes the isotropic per-axle tire model.
type TireParams struct {
	MuX             float64 `json:"mu_x"`
	MuY             float64 `json:"mu_y"`
	LoadSensitivity float64 `json:"load_sensitivity"` // 0..1
	TireRadius      float64 `json:"tire_radius"`      // effective rolling radius (m)
}

// TorquePoint is one entry of the engine torque curve.
type TorquePoint struct {
	RPM    float64
	Torque float64 // Nm
}

// PowertrainParams describes engine and transmission.
// TorqueCurve entries are kept sorted by RPM; GearRatios are low gear first,
// ratio > 1 multiplies torque.
type PowertrainParams struct {
	TorqueCurve []TorquePoint `json:"engine_torque_curve"`
	GearRatios  []float64     `json:"gear_ratios"`
	FinalDrive  float64       `json:"final_drive"`
	Efficiency  float64       `json:"efficiency"`
	MaxRPM      float64       `json:"max_rpm"`
	MinRPM      float64       `json:"min_rpm"`
	ShiftTime   float64       `json:"shift_time"` // s
}

// SortTorqueCurve establishes the strictly-increasing RPM order the
// interpolation relies on.
func (p *PowertrainParams) SortTorqueCurve() {
	sort.Slice(p.TorqueCurve, func(i, j int) bool {
		return p.TorqueCurve[i].RPM < p.TorqueCurve[j].RPM
	})
}

// MassParams describes mass and geometry.
type MassParams struct {
	Mass               float64 `json:"mass"`                // kg
	CogHeight          float64 `json:"cog_height"`          // m
	Wheelbase          float64 `json:"wheelbase"`           // m
	WeightDistribution float64 `json:"weight_distribution"` // front fraction 0..1
}

// BrakeParams describes the brake system.
type BrakeParams struct {
	MaxBrakeForce float64 `json:"max_brake_force"` // N
	BrakeBias     float64 `json:"brake_bias"`      // front fraction 0..1
}

// VehicleParams is the complete parameter set consumed by the solver.
type VehicleParams struct {
	Name       string           `json:"name"`
	Mass       MassParams       `json:"mass"`
	Aero       AeroParams       `json:"aerodynamics"`
	Tire       TireParams       `json:"tire"`
	Powertrain PowertrainParams `json:"powertrain"`
	Brake      BrakeParams      `json:"brake"`
}

// DefaultVehicleParams returns the documented fallback values used when the
// input file omits individual entries.
func DefaultVehicleParams() VehicleParams {
	return VehicleParams{
		Name: "Unnamed Vehicle",
		Mass: MassParams{
			Mass:               800,
			CogHeight:          0.3,
			Wheelbase:          2.5,
			WeightDistribution: 0.45,
		},
		Aero: AeroParams{
			Cl:          -3.0,
			Cd:          0.8,
			FrontalArea: 1.5,
			AirDensity:  1.225,
		},
		Tire: TireParams{
			MuX:             1.6,
			MuY:             1.8,
			LoadSensitivity: 0.9,
			TireRadius:      0.3,
		},
		Powertrain: PowertrainParams{
			FinalDrive: 3.5,
			Efficiency: 0.95,
			MaxRPM:     15000,
			MinRPM:     4000,
			ShiftTime:  0.05,
		},
		Brake: BrakeParams{
			MaxBrakeForce: 20000,
			BrakeBias:     0.6,
		},
	}
}

// Validate checks the parameter set for physical consistency.
//
//nolint:cyclop // one rule per line reads better than splitting
func (v *VehicleParams) Validate() error {
	switch {
	case v.Mass.Mass <= 0:
		return errors.Join(ErrInvalidVehicle, errors.New("mass must be positive"))
	case v.Mass.CogHeight < 0:
		return errors.Join(ErrInvalidVehicle, errors.New("cog height must not be negative"))
	case v.Mass.Wheelbase <= 0:
		return errors.Join(ErrInvalidVehicle, errors.New("wheelbase must be positive"))
	case v.Mass.WeightDistribution < 0 || v.Mass.WeightDistribution > 1:
		return errors.Join(ErrInvalidVehicle, errors.New("weight distribution must be within [0,1]"))
	case v.Aero.FrontalArea <= 0:
		return errors.Join(ErrInvalidVehicle, errors.New("frontal area must be positive"))
	case v.Aero.AirDensity <= 0:
		return errors.Join(ErrInvalidVehicle, errors.New("air density must be positive"))
	case v.Tire.MuX <= 0 || v.Tire.MuY <= 0:
		return errors.Join(ErrInvalidVehicle, errors.New("friction coefficients must be positive"))
	case v.Tire.TireRadius <= 0:
		return errors.Join(ErrInvalidVehicle, errors.New("tire radius must be positive"))
	case v.Tire.LoadSensitivity < 0 || v.Tire.LoadSensitivity > 1:
		return errors.Join(ErrInvalidVehicle, errors.New("load sensitivity must be within [0,1]"))
	case len(v.Powertrain.TorqueCurve) == 0:
		return errors.Join(ErrInvalidVehicle, errors.New("engine torque curve must not be empty"))
	case len(v.Powertrain.GearRatios) == 0:
		return errors.Join(ErrInvalidVehicle, errors.New("gear ratios must not be empty"))
	case v.Powertrain.FinalDrive <= 0:
		return errors.Join(ErrInvalidVehicle, errors.New("final drive must be positive"))
	case v.Powertrain.Efficiency <= 0 || v.Powertrain.Efficiency > 1:
		return errors.Join(ErrInvalidVehicle, errors.New("efficiency must be within (0,1]"))
	case v.Brake.MaxBrakeForce <= 0:
		return errors.Join(ErrInvalidVehicle, errors.New("max brake force must be positive"))
	case v.Brake.BrakeBias < 0 || v.Brake.BrakeBias > 1:
		return errors.Join(ErrInvalidVehicle, errors.New("brake bias must be within [0,1]"))
	}
	return nil
}

// MaxPower returns the peak engine power at the crank in watts.
func (v *VehicleParams) MaxPower() float64 {
	powers := lo.Map(v.Powertrain.TorqueCurve, func(tp TorquePoint, _ int) float64 {
		return tp.Torque * tp.RPM * 2 * math.Pi / 60
	})
	return lo.Max(powers)
}

// PowerToWeightRatio returns hp/kg based on the peak power over the torque
// curve entries.
func (v *VehicleParams) PowerToWeightRatio() float64 {
	if len(v.Powertrain.TorqueCurve) == 0 {
		return 0
	}
	const wattsPerHp = 745.7
	return v.MaxPower() / wattsPerHp / v.Mass.Mass
}

// MaxTheoreticalSpeed returns the drag-limited top speed: at v_max all
// delivered power is spent against aerodynamic drag.
func (v *VehicleParams) MaxTheoreticalSpeed() float64 {
	if len(v.Powertrain.TorqueCurve) == 0 {
		return 0
	}
	maxPower := v.MaxPower() * v.Powertrain.Efficiency
	vCubed := 2 * maxPower / (v.Aero.AirDensity * v.Aero.Cd * v.Aero.FrontalArea)
	return math.Cbrt(vCubed)
}
