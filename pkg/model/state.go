package model

import (
	"fmt"
	"math"

	"github.com/samber/lo"
)

// SimulationState is the full vehicle state at one track sample.
type SimulationState struct {
	// position
	S float64 `json:"s"` // arc length (m)
	N float64 `json:"n"` // lateral offset from centerline, positive = left (m)
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`

	// velocity
	V    float64 `json:"v"`     // m/s
	VKmh float64 `json:"v_kmh"` // km/h

	// accelerations
	Ax float64 `json:"ax"` // longitudinal (m/s²)
	Ay float64 `json:"ay"` // lateral (m/s²)
	Az float64 `json:"az"` // vertical (m/s²)

	// g-forces
	Gx     float64 `json:"gx"`
	Gy     float64 `json:"gy"`
	Gz     float64 `json:"gz"`
	GTotal float64 `json:"g_total"`

	// control estimates
	Throttle      float64 `json:"throttle"` // 0..1
	Brake         float64 `json:"brake"`    // 0..1
	SteeringAngle float64 `json:"steering_angle"`

	// powertrain
	Gear         int     `json:"gear"`
	RPM          float64 `json:"rpm"`
	EngineTorque float64 `json:"engine_torque"` // Nm
	WheelForce   float64 `json:"wheel_force"`   // N

	// forces
	DragForce    float64 `json:"drag_force"`   // N
	Downforce    float64 `json:"downforce"`    // N
	TireForceX   float64 `json:"tire_force_x"` // N
	TireForceY   float64 `json:"tire_force_y"` // N
	VerticalLoad float64 `json:"vertical_load"`

	// track properties
	Curvature    float64 `json:"curvature"` // 1/m
	Radius       float64 `json:"radius"`    // m
	BankingAngle float64 `json:"banking_angle"`

	Timestamp float64 `json:"timestamp"` // s since lap start
}

// UpdateGForces derives the g-force entries from the current accelerations.
func (s *SimulationState) UpdateGForces() {
	s.Gx = s.Ax / Gravity
	s.Gy = s.Ay / Gravity
	s.Gz = s.Az / Gravity
	s.GTotal = math.Sqrt(s.Gx*s.Gx + s.Gy*s.Gy + s.Gz*s.Gz)
}

func (s *SimulationState) String() string {
	return fmt.Sprintf(
		"Time: %.3fs | Speed: %.3f km/h | Pos: (%.3f, %.3f) | G: (%.3f, %.3f) |"+
			" Throttle: %.1f%% | Brake: %.1f%% | Gear: %d",
		s.Timestamp, s.VKmh, s.X, s.Y, s.Gx, s.Gy,
		s.Throttle*100, s.Brake*100, s.Gear)
}

// LapResult is the complete outcome of a lap simulation: one state per track
// point plus the lap time.
type LapResult struct {
	States  []SimulationState `json:"states"`
	LapTime float64           `json:"lap_time"`
}

func (r *LapResult) AddState(state SimulationState) {
	r.States = append(r.States, state)
}

// MaxSpeed returns the highest speed reached on the lap (m/s).
func (r *LapResult) MaxSpeed() float64 {
	if len(r.States) == 0 {
		return 0
	}
	return lo.MaxBy(r.States, func(a, b SimulationState) bool { return a.V > b.V }).V
}

// AverageSpeed estimates the mean speed from the last state's arc length.
// For a closed lap this slightly understates the geometric length because the
// final wrap segment is not part of s.
func (r *LapResult) AverageSpeed() float64 {
	if len(r.States) == 0 || r.LapTime <= 0 {
		return 0
	}
	return r.States[len(r.States)-1].S / r.LapTime
}

// MaxGForces returns the absolute maxima of longitudinal, lateral, and total g.
func (r *LapResult) MaxGForces() (maxGx, maxGy, maxGTotal float64) {
	for i := range r.States {
		maxGx = math.Max(maxGx, math.Abs(r.States[i].Gx))
		maxGy = math.Max(maxGy, math.Abs(r.States[i].Gy))
		maxGTotal = math.Max(maxGTotal, r.States[i].GTotal)
	}
	return maxGx, maxGy, maxGTotal
}

// Clear resets the result for reuse.
func (r *LapResult) Clear() {
	r.States = r.States[:0]
	r.LapTime = 0
}
