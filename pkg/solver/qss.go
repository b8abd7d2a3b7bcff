package solver

import (
	"errors"
	"fmt"
	"math"

	"github.com/mpapenbr/lapsim-go/log"
	"github.com/mpapenbr/lapsim-go/pkg/model"
	"github.com/mpapenbr/lapsim-go/pkg/track"
)

// Empirical constants of the quasi-steady-state pass structure. The two
// cornering floors act as pragmatic top-speed caps on straights and in the
// downforce-dominated regime; tune them together with the GGV grid range.
const (
	// StraightCurvatureThreshold separates near-straights from corners
	// (0.002 rad/m is a 500 m radius).
	StraightCurvatureThreshold = 0.002 // rad/m
	// StraightCorneringFloor is the cornering "limit" reported on straights.
	StraightCorneringFloor = 110.0 // m/s
	// DownforceDominatedFloor is used when downforce sustains arbitrary
	// lateral g and the balance has no finite solution.
	DownforceDominatedFloor = 100.0 // m/s
	// MinVelocity keeps the integration away from v=0.
	MinVelocity = 1.0 // m/s
	// InitialSpeed seeds the velocity arrays; the closed loop has no natural
	// standing start.
	InitialSpeed = 50.0 // m/s
)

// GGV grid used by Initialize.
const (
	ggvVMax   = 120.0 // m/s
	ggvVStep  = 0.5   // m/s
	ggvAyMax  = 50.0  // m/s²
	ggvAyStep = 1.0   // m/s²
)

// QSSolver computes the pointwise fastest steady-state velocity profile on a
// preprocessed track: cornering limit, forward acceleration pass, backward
// braking pass, combined by pointwise minimum and iterated to convergence.
//
// The solver borrows track and vehicle (read-only) and owns its GGV envelope,
// force models, and the four velocity arrays.
type QSSolver struct {
	track   *track.Geometry
	vehicle *model.VehicleParams

	ggv        *GGV
	phys       *physicsAccess
	numPoints  int
	vCorner    []float64
	vAccel     []float64
	vBrake     []float64
	vOptimal   []float64
	lapTime    float64
	converged  bool
	iterations int

	l *log.Logger
}

// physicsAccess holds the constants of the cornering force balance.
type physicsAccess struct {
	m, muY, rho, cl, area float64
}

// NewQSSolver validates its inputs and sets up the solver state.
func NewQSSolver(geo *track.Geometry, vehicle *model.VehicleParams) (*QSSolver, error) {
	if !geo.IsPreprocessed() {
		return nil, fmt.Errorf("%w: track must be preprocessed before solving", track.ErrInvalidTrack)
	}
	if err := vehicle.Validate(); err != nil {
		return nil, err
	}

	n := geo.NumPoints()
	return &QSSolver{
		track:     geo,
		vehicle:   vehicle,
		ggv:       NewGGV(vehicle),
		numPoints: n,
		vCorner:   make([]float64, n),
		vAccel:    make([]float64, n),
		vBrake:    make([]float64, n),
		vOptimal:  make([]float64, n),
		phys: &physicsAccess{
			m:    vehicle.Mass.Mass,
			muY:  vehicle.Tire.MuY,
			rho:  vehicle.Aero.AirDensity,
			cl:   vehicle.Aero.Cl,
			area: vehicle.Aero.FrontalArea,
		},
		l: log.Default().Named("solver"),
	}, nil
}

// Initialize generates the GGV envelope.
func (s *QSSolver) Initialize() {
	s.l.Info("generating GGV diagram",
		log.Float64("vMax", ggvVMax),
		log.Float64("vStep", ggvVStep),
		log.Float64("ayMax", ggvAyMax))
	s.ggv.Generate(0, ggvVMax, ggvVStep, ggvAyMax, ggvAyStep)
}

// GGV exposes the generated envelope (read-only), e.g. for export.
func (s *QSSolver) GGV() *GGV { return s.ggv }

// Solve iterates the three passes until the lap time settles within
// tolerance or maxIterations is reached. Returns the final lap time.
func (s *QSSolver) Solve(maxIterations int, tolerance float64) (float64, error) {
	if maxIterations <= 0 {
		return 0, errors.New("maxIterations must be positive")
	}

	s.Initialize()

	s.l.Info("starting quasi-steady-state solver",
		log.Int("points", s.numPoints),
		log.Float64("trackLength", s.track.TotalLength()))

	// fixed across iterations
	s.calculateCorneringLimit()

	for i := 0; i < s.numPoints; i++ {
		s.vAccel[i] = math.Min(InitialSpeed, s.vCorner[i])
		s.vBrake[i] = math.Min(InitialSpeed, s.vCorner[i])
	}

	prevLapTime := math.Inf(1)
	s.converged = false

	for iter := 0; iter < maxIterations; iter++ {
		s.iterations = iter + 1

		s.forwardIntegration()
		s.backwardIntegration()
		s.combineProfiles()
		s.lapTime = s.calculateLapTime()

		s.l.Debug("iteration complete",
			log.Int("iteration", s.iterations),
			log.Float64("lapTime", s.lapTime))

		if math.Abs(s.lapTime-prevLapTime) < tolerance {
			s.converged = true
			break
		}
		prevLapTime = s.lapTime
	}

	if !s.converged {
		s.l.Warn("solver did not converge",
			log.Int("maxIterations", maxIterations),
			log.Float64("lapTime", s.lapTime))
	} else {
		s.l.Info("solver converged",
			log.Int("iterations", s.iterations),
			log.Float64("lapTime", s.lapTime))
	}

	return s.lapTime, nil
}

// calculateCorneringLimit fills vCorner; each point is independent.
func (s *QSSolver) calculateCorneringLimit() {
	straights := 0
	minV, maxV := math.Inf(1), 0.0

	points := s.track.Points()
	for i := 0; i < s.numPoints; i++ {
		s.vCorner[i] = s.corneringVelocity(points[i].Kappa)
		if math.Abs(points[i].Kappa) < StraightCurvatureThreshold {
			straights++
		}
		minV = math.Min(minV, s.vCorner[i])
		maxV = math.Max(maxV, s.vCorner[i])
	}

	s.l.Debug("cornering limits calculated",
		log.Int("straightSections", straights),
		log.Int("points", s.numPoints),
		log.Float64("minKmh", minV*3.6),
		log.Float64("maxKmh", maxV*3.6))
}

// corneringVelocity solves m·v²·|κ| = μ_y·(m·g + ½ρ(−Cl)A·v²) for v.
func (s *QSSolver) corneringVelocity(kappa float64) float64 {
	absKappa := math.Abs(kappa)
	if absKappa < StraightCurvatureThreshold {
		return StraightCorneringFloor
	}

	aeroFactor := 0.5 * s.phys.muY * s.phys.rho * (-s.phys.cl) * s.phys.area
	denominator := s.phys.m*absKappa - aeroFactor

	if denominator <= 0 {
		// downforce grows faster with v² than the centripetal demand;
		// the balance has no finite solution
		return DownforceDominatedFloor
	}

	vSquared := s.phys.muY * s.phys.m * model.Gravity / denominator
	if vSquared < 0 {
		return 0
	}
	return math.Sqrt(vSquared)
}

// forwardIntegration sweeps the acceleration-limited profile along s, then
// applies one wrap-closure step from the last point back to the first. Full
// cyclic consistency emerges across outer iterations.
func (s *QSSolver) forwardIntegration() {
	points := s.track.Points()

	for i := 0; i < s.numPoints-1; i++ {
		vStart := math.Max(s.vAccel[i], MinVelocity)
		ay := vStart * vStart * math.Abs(points[i].Kappa)

		axMax := math.Min(s.ggv.interpolate(vStart, ay, accelValue), MaxAccelCap)

		vSquaredEnd := vStart*vStart + 2*axMax*points[i].Ds
		vEnd := vStart
		if vSquaredEnd > 0 {
			vEnd = math.Sqrt(vSquaredEnd)
		}

		s.vAccel[i+1] = math.Min(vEnd, s.vCorner[i+1])
		s.vAccel[i+1] = math.Max(s.vAccel[i+1], MinVelocity)
	}

	// wrap closure: last point feeds the first
	last := s.numPoints - 1
	vStart := s.vAccel[last]
	ay := vStart * vStart * math.Abs(points[last].Kappa)
	axMax := s.ggv.interpolate(vStart, ay, accelValue)
	vSquaredEnd := vStart*vStart + 2*axMax*points[last].Ds
	vEnd := 0.0
	if vSquaredEnd > 0 {
		vEnd = math.Sqrt(vSquaredEnd)
	}
	s.vAccel[0] = math.Min(s.vAccel[0], math.Min(vEnd, s.vCorner[0]))
}

// backwardIntegration sweeps the braking-limited profile against s, then
// applies the symmetric wrap-closure step from the first point to the last.
func (s *QSSolver) backwardIntegration() {
	points := s.track.Points()

	for i := s.numPoints - 1; i > 0; i-- {
		vStart := math.Max(s.vBrake[i], MinVelocity)
		ay := vStart * vStart * math.Abs(points[i].Kappa)

		axMin := math.Max(s.ggv.interpolate(vStart, ay, brakeValue), MaxBrakeCap)

		// axMin is negative: subtracting raises v² toward the previous point
		vSquaredPrev := vStart*vStart - 2*axMin*points[i-1].Ds
		vPrev := vStart
		if vSquaredPrev > 0 {
			vPrev = math.Sqrt(vSquaredPrev)
		}

		s.vBrake[i-1] = math.Min(vPrev, s.vCorner[i-1])
		s.vBrake[i-1] = math.Max(s.vBrake[i-1], MinVelocity)
	}

	// wrap closure: first point feeds the last
	last := s.numPoints - 1
	vStart := s.vBrake[0]
	ay := vStart * vStart * math.Abs(points[0].Kappa)
	axMin := s.ggv.interpolate(vStart, ay, brakeValue)
	vSquaredPrev := vStart*vStart - 2*axMin*points[last].Ds
	vPrev := 0.0
	if vSquaredPrev > 0 {
		vPrev = math.Sqrt(vSquaredPrev)
	}
	s.vBrake[last] = math.Min(s.vBrake[last], math.Min(vPrev, s.vCorner[last]))
}

func (s *QSSolver) combineProfiles() {
	for i := 0; i < s.numPoints; i++ {
		s.vOptimal[i] = math.Min(s.vCorner[i], math.Min(s.vAccel[i], s.vBrake[i]))
	}
}

func (s *QSSolver) calculateLapTime() float64 {
	points := s.track.Points()
	total := 0.0
	for i := 0; i < s.numPoints; i++ {
		if s.vOptimal[i] > 0 {
			total += points[i].Ds / s.vOptimal[i]
		}
	}
	return total
}

func accelValue(p *GGVPoint) float64 { return p.AxMaxAccel }
func brakeValue(p *GGVPoint) float64 { return p.AxMaxBrake }

// LapTime returns the lap time of the last Solve call.
func (s *QSSolver) LapTime() float64 { return s.lapTime }

// Converged reports whether the last Solve terminated inside tolerance.
func (s *QSSolver) Converged() bool { return s.converged }

// Iterations returns the iteration count of the last Solve call.
func (s *QSSolver) Iterations() int { return s.iterations }

// OptimalVelocities returns the combined velocity profile. The slice is owned
// by the solver; callers must not modify it.
func (s *QSSolver) OptimalVelocities() []float64 { return s.vOptimal }

// CorneringVelocities returns the pure cornering limit profile.
func (s *QSSolver) CorneringVelocities() []float64 { return s.vCorner }
