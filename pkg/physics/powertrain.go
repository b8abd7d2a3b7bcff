package physics

import (
	"math"

	"gonum.org/v1/gonum/interp"

	"github.com/mpapenbr/lapsim-go/pkg/model"
)

// PowertrainModel maps velocity and gear selection to engine state and
// tractive force at the wheels.
type PowertrainModel struct {
	params     model.PowertrainParams
	tireRadius float64

	rpms    []float64
	torques []float64
	curve   interp.PiecewiseLinear
	fitted  bool
}

func NewPowertrainModel(params model.PowertrainParams, tireRadius float64) *PowertrainModel {
	p := &PowertrainModel{params: params, tireRadius: tireRadius}
	p.fitTorqueCurve()
	return p
}

func (p *PowertrainModel) fitTorqueCurve() {
	p.rpms = make([]float64, 0, len(p.params.TorqueCurve))
	p.torques = make([]float64, 0, len(p.params.TorqueCurve))
	for _, tp := range p.params.TorqueCurve {
		p.rpms = append(p.rpms, tp.RPM)
		p.torques = append(p.torques, tp.Torque)
	}
	if len(p.rpms) >= 2 {
		if err := p.curve.Fit(p.rpms, p.torques); err == nil {
			p.fitted = true
		}
	}
}

// RPM returns the engine speed at velocity v in the given gear, 0 for
// invalid gears.
func (p *PowertrainModel) RPM(v float64, gear int) float64 {
	if !p.isValidGear(gear) {
		return 0
	}
	wheelOmega := v / p.tireRadius
	engineOmega := wheelOmega * p.totalRatio(gear)
	return engineOmega * 60 / (2 * math.Pi)
}

// EngineTorque interpolates the torque curve at rpm, clamping to the first
// and last entries outside the table.
func (p *PowertrainModel) EngineTorque(rpm float64) float64 {
	if len(p.rpms) == 0 {
		return 0
	}
	rpm = math.Max(rpm, p.rpms[0])
	rpm = math.Min(rpm, p.rpms[len(p.rpms)-1])
	if !p.fitted {
		return p.torques[0]
	}
	return p.curve.Predict(rpm)
}

// WheelForce returns the tractive force at the contact patch for (v, gear).
// Zero outside the engine's operating band.
func (p *PowertrainModel) WheelForce(v float64, gear int) float64 {
	if !p.isValidGear(gear) || v <= 0 {
		return 0
	}

	rpm := p.RPM(v, gear)
	if rpm < p.params.MinRPM || rpm > p.params.MaxRPM {
		return 0
	}

	wheelTorque := p.EngineTorque(rpm) * p.totalRatio(gear) * p.params.Efficiency
	return wheelTorque / p.tireRadius
}

// MaxWheelForce returns the best tractive force over all gears at velocity v.
func (p *PowertrainModel) MaxWheelForce(v float64) float64 {
	if v <= 0 {
		// standing start: first gear just above rest
		return p.WheelForce(0.01, 1)
	}

	maxForce := 0.0
	for gear := 1; gear <= len(p.params.GearRatios); gear++ {
		maxForce = math.Max(maxForce, p.WheelForce(v, gear))
	}
	return maxForce
}

// WheelPower returns delivered power at (v, gear).
func (p *PowertrainModel) WheelPower(v float64, gear int) float64 {
	return p.WheelForce(v, gear) * v
}

// PeakPowerRPM returns the curve entry where T·ω is maximal.
func (p *PowertrainModel) PeakPowerRPM() float64 {
	maxPower := 0.0
	peakRPM := 0.0
	for i, rpm := range p.rpms {
		power := p.torques[i] * rpm * 2 * math.Pi / 60
		if power > maxPower {
			maxPower = power
			peakRPM = rpm
		}
	}
	return peakRPM
}

// MaxPower returns peak delivered power (after drivetrain losses).
func (p *PowertrainModel) MaxPower() float64 {
	maxPower := 0.0
	for i, rpm := range p.rpms {
		power := p.torques[i] * rpm * 2 * math.Pi / 60
		maxPower = math.Max(maxPower, power)
	}
	return maxPower * p.params.Efficiency
}

// OptimalGear picks the gear for velocity v that keeps the engine near peak
// power: the highest gear with rpm in [max(0.7·maxRPM, minRPM), maxRPM].
// Falls back to any gear inside the operating band, then to first gear.
func (p *PowertrainModel) OptimalGear(v float64) int {
	if v <= 0.1 || len(p.params.GearRatios) == 0 {
		return 1
	}

	optimalLow := math.Max(p.params.MaxRPM*0.70, p.params.MinRPM)

	for gear := len(p.params.GearRatios); gear >= 1; gear-- {
		rpm := p.RPM(v, gear)
		if rpm >= optimalLow && rpm <= p.params.MaxRPM {
			return gear
		}
	}

	for gear := 1; gear <= len(p.params.GearRatios); gear++ {
		rpm := p.RPM(v, gear)
		if rpm >= p.params.MinRPM && rpm <= p.params.MaxRPM {
			return gear
		}
	}

	return 1
}

func (p *PowertrainModel) totalRatio(gear int) float64 {
	if !p.isValidGear(gear) {
		return 0
	}
	return p.params.GearRatios[gear-1] * p.params.FinalDrive
}

func (p *PowertrainModel) isValidGear(gear int) bool {
	return gear >= 1 && gear <= len(p.params.GearRatios)
}
