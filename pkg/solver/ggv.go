// Package solver implements the vehicle performance envelope (GGV) and the
// quasi-steady-state lap time solver running on top of it.
package solver

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/mpapenbr/lapsim-go/pkg/model"
	"github.com/mpapenbr/lapsim-go/pkg/physics"
)

// ErrGGVNotGenerated is returned for envelope queries before Generate.
var ErrGGVNotGenerated = errors.New("GGV diagram has not been generated")

// Empirical safety rails. They bound the envelope against degenerate
// parameter sets; values taken over from the reference data set.
const (
	// MaxAccelCap bounds longitudinal acceleration (~5 g).
	MaxAccelCap = 50.0 // m/s²
	// MaxBrakeCap bounds deceleration (~6 g, negative).
	MaxBrakeCap = -60.0 // m/s²
	// minEnvelopeVelocity keeps the force balance away from v=0.
	minEnvelopeVelocity = 0.1 // m/s
)

// GGVPoint stores the acceleration limits at one (v, ay) grid node.
type GGVPoint struct {
	Velocity   float64 // m/s
	AyLateral  float64 // m/s²
	AxMaxAccel float64 // m/s², >= 0
	AxMaxBrake float64 // m/s², <= 0
}

// GGV is the g-g-velocity performance envelope: a regular grid over velocity
// and lateral acceleration holding the achievable longitudinal limits.
// Row-major: index = iv*numAy + iay.
type GGV struct {
	vehicle    *model.VehicleParams
	aero       *physics.AeroModel
	tire       *physics.TireModel
	powertrain *physics.PowertrainModel

	points    []GGVPoint
	generated bool

	vMin, vMax, vStep float64
	ayMax, ayStep     float64
	numV, numAy       int
}

func NewGGV(vehicle *model.VehicleParams) *GGV {
	return &GGV{
		vehicle:    vehicle,
		aero:       physics.NewAeroModel(vehicle.Aero),
		tire:       physics.NewTireModel(vehicle.Tire),
		powertrain: physics.NewPowertrainModel(vehicle.Powertrain, vehicle.Tire.TireRadius),
	}
}

// Generate fills the grid for v in [vMin, vMax] and ay in [0, ayMax].
func (g *GGV) Generate(vMin, vMax, vStep, ayMax, ayStep float64) {
	g.vMin = vMin
	g.vMax = vMax
	g.vStep = vStep
	g.ayMax = ayMax
	g.ayStep = ayStep
	g.numV = int(math.Ceil((vMax-vMin)/vStep)) + 1
	g.numAy = int(math.Ceil(ayMax/ayStep)) + 1

	g.points = make([]GGVPoint, 0, g.numV*g.numAy)

	for iv := 0; iv < g.numV; iv++ {
		v := vMin + float64(iv)*vStep
		for iay := 0; iay < g.numAy; iay++ {
			ay := float64(iay) * ayStep
			g.points = append(g.points, GGVPoint{
				Velocity:   v,
				AyLateral:  ay,
				AxMaxAccel: g.calculateMaxAcceleration(v, ay),
				AxMaxBrake: g.calculateMaxBraking(v, ay),
			})
		}
	}

	g.generated = true
}

// calculateMaxAcceleration solves the grip/engine/drag balance at one node.
func (g *GGV) calculateMaxAcceleration(v, ay float64) float64 {
	m := g.vehicle.Mass.Mass
	v = math.Max(v, minEnvelopeVelocity)

	fzTotal := g.aero.TotalVerticalLoad(v, m)
	fyRequired := m * ay

	fxTire := g.tire.AvailableLongitudinalForce(fzTotal, fyRequired)
	fxEngine := g.powertrain.MaxWheelForce(v)
	fDrag := g.aero.DragForce(v)

	fxNet := math.Min(fxEngine, fxTire) - fDrag

	ax := fxNet / m
	return math.Max(0, math.Min(ax, MaxAccelCap))
}

// calculateMaxBraking: grip plus brake system capacity, drag assists.
func (g *GGV) calculateMaxBraking(v, ay float64) float64 {
	m := g.vehicle.Mass.Mass
	v = math.Max(v, minEnvelopeVelocity)

	fzTotal := g.aero.TotalVerticalLoad(v, m)
	fyRequired := m * ay

	fxTire := g.tire.AvailableLongitudinalForce(fzTotal, fyRequired)
	fxBrake := math.Min(fxTire, g.vehicle.Brake.MaxBrakeForce)
	fDrag := g.aero.DragForce(v)

	fxNet := -(fxBrake + fDrag)

	ax := fxNet / m
	return math.Max(ax, MaxBrakeCap)
}

// IsGenerated reports whether Generate has run.
func (g *GGV) IsGenerated() bool { return g.generated }

// Points returns the raw grid nodes (for export and analysis).
func (g *GGV) Points() []GGVPoint { return g.points }

// MaxAcceleration returns the interpolated acceleration limit at (v, ay).
func (g *GGV) MaxAcceleration(v, ay float64) (float64, error) {
	if !g.generated {
		return 0, ErrGGVNotGenerated
	}
	return g.interpolate(v, math.Abs(ay), func(p *GGVPoint) float64 { return p.AxMaxAccel }), nil
}

// MaxBraking returns the interpolated braking limit at (v, ay). Negative.
func (g *GGV) MaxBraking(v, ay float64) (float64, error) {
	if !g.generated {
		return 0, ErrGGVNotGenerated
	}
	return g.interpolate(v, math.Abs(ay), func(p *GGVPoint) float64 { return p.AxMaxBrake }), nil
}

// interpolate performs bilinear interpolation over the four surrounding grid
// nodes, clamping the query into the grid first.
func (g *GGV) interpolate(v, ay float64, value func(*GGVPoint) float64) float64 {
	v = math.Max(g.vMin, math.Min(g.vMax, v))
	ay = math.Max(0, math.Min(g.ayMax, ay))

	vIdxF := (v - g.vMin) / g.vStep
	ayIdxF := ay / g.ayStep

	vIdx := int(vIdxF)
	ayIdx := int(ayIdxF)

	vT := vIdxF - float64(vIdx)
	ayT := ayIdxF - float64(ayIdx)

	at := func(vi, ayi int) float64 {
		idx := vi*g.numAy + ayi
		if idx >= 0 && idx < len(g.points) {
			return value(&g.points[idx])
		}
		return 0
	}

	v00 := at(vIdx, ayIdx)
	v10 := at(vIdx+1, ayIdx)
	v01 := at(vIdx, ayIdx+1)
	v11 := at(vIdx+1, ayIdx+1)

	v0 := v00*(1-vT) + v10*vT
	v1 := v01*(1-vT) + v11*vT

	return v0*(1-ayT) + v1*ayT
}

// ExportCSV writes the grid as velocity_ms,lateral_accel_ms2,max_accel_ms2,max_brake_ms2.
func (g *GGV) ExportCSV(w io.Writer) error {
	if !g.generated {
		return ErrGGVNotGenerated
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"velocity_ms", "lateral_accel_ms2", "max_accel_ms2", "max_brake_ms2",
	}); err != nil {
		return fmt.Errorf("writing GGV header: %w", err)
	}

	for i := range g.points {
		p := &g.points[i]
		rec := []string{
			strconv.FormatFloat(p.Velocity, 'f', -1, 64),
			strconv.FormatFloat(p.AyLateral, 'f', -1, 64),
			strconv.FormatFloat(p.AxMaxAccel, 'f', -1, 64),
			strconv.FormatFloat(p.AxMaxBrake, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing GGV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
