// Package track holds the preprocessed centerline geometry the solver runs on.
package track

import (
	"errors"
	"fmt"
	"math"

	"github.com/mpapenbr/lapsim-go/pkg/model"
)

var (
	// ErrInvalidTrack is returned for tracks that cannot be preprocessed or
	// for queries against a geometry that has not been preprocessed yet.
	ErrInvalidTrack = errors.New("invalid track")
	// ErrOutOfRange is returned for indexed access beyond the point count.
	ErrOutOfRange = errors.New("track point index out of range")
)

// dsEpsilon guards divisions by degenerate segment lengths.
const dsEpsilon = 1e-6

// Geometry is the ordered, closed sequence of track points. Build it with
// AddPoint calls followed by a single Preprocess; afterwards it is read-only.
type Geometry struct {
	name         string
	points       []model.TrackPoint
	totalLength  float64
	preprocessed bool
}

func NewGeometry() *Geometry {
	return &Geometry{name: "Unnamed Track"}
}

func (g *Geometry) Name() string        { return g.name }
func (g *Geometry) SetName(name string) { g.name = name }

// AddPoint appends a raw centerline sample. Invalidates any prior preprocessing.
func (g *Geometry) AddPoint(x, y, z, wLeft, wRight, banking float64) {
	g.points = append(g.points, model.TrackPoint{
		X: x, Y: y, Z: z,
		WLeft: wLeft, WRight: wRight, Banking: banking,
	})
	g.preprocessed = false
}

// Preprocess computes arc length, heading, and curvature for the closed loop.
func (g *Geometry) Preprocess() error {
	if len(g.points) < 3 {
		return fmt.Errorf("%w: need at least 3 points, got %d", ErrInvalidTrack, len(g.points))
	}

	g.calculateArcLength()
	g.calculateHeading()
	g.calculateCurvature()

	g.preprocessed = true
	return nil
}

func (g *Geometry) calculateArcLength() {
	n := len(g.points)
	g.points[0].S = 0

	for i := 1; i < n; i++ {
		seg := dist3(&g.points[i-1], &g.points[i])
		g.points[i-1].Ds = seg
		g.points[i].S = g.points[i-1].S + seg
	}

	// wrap segment: last point back to the first
	g.points[n-1].Ds = dist3(&g.points[n-1], &g.points[0])
	g.totalLength = g.points[n-1].S + g.points[n-1].Ds
}

func dist3(a, b *model.TrackPoint) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	dz := b.Z - a.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// heading uses planar central differences with cyclic wrap
func (g *Geometry) calculateHeading() {
	n := len(g.points)
	for i := 0; i < n; i++ {
		prev := &g.points[(i-1+n)%n]
		next := &g.points[(i+1)%n]
		g.points[i].Psi = math.Atan2(next.Y-prev.Y, next.X-prev.X)
	}
}

// curvature κ = dψ/ds via central differences, wrap corrected
func (g *Geometry) calculateCurvature() {
	n := len(g.points)
	for i := 0; i < n; i++ {
		prev := &g.points[(i-1+n)%n]
		next := &g.points[(i+1)%n]

		dpsi := normalizeAngle(next.Psi - prev.Psi)
		ds := next.S - prev.S
		if ds < 0 {
			ds += g.totalLength
		}

		if ds > dsEpsilon {
			g.points[i].Kappa = dpsi / ds
		} else {
			g.points[i].Kappa = 0
		}
	}
}

// normalizeAngle maps an angle difference into (−π, π].
func normalizeAngle(angle float64) float64 {
	for angle > math.Pi {
		angle -= 2 * math.Pi
	}
	for angle <= -math.Pi {
		angle += 2 * math.Pi
	}
	return angle
}

// Point returns the point at index i.
func (g *Geometry) Point(i int) (*model.TrackPoint, error) {
	if i < 0 || i >= len(g.points) {
		return nil, fmt.Errorf("%w: %d", ErrOutOfRange, i)
	}
	return &g.points[i], nil
}

// Points exposes the full point slice. Treat as read-only after Preprocess.
func (g *Geometry) Points() []model.TrackPoint { return g.points }

func (g *Geometry) NumPoints() int       { return len(g.points) }
func (g *Geometry) TotalLength() float64 { return g.totalLength }
func (g *Geometry) IsPreprocessed() bool { return g.preprocessed }

// InterpolateAt returns the linearly interpolated track point at arc length s.
// s is reduced modulo the track length, so any real value is acceptable.
func (g *Geometry) InterpolateAt(s float64) (model.TrackPoint, error) {
	if !g.preprocessed {
		return model.TrackPoint{}, fmt.Errorf("%w: not preprocessed", ErrInvalidTrack)
	}

	s = g.normalizeS(s)

	i := g.findIndexAt(s)
	next := (i + 1) % len(g.points)

	p1 := &g.points[i]
	p2 := &g.points[next]

	t := 0.0
	if p1.Ds > dsEpsilon {
		t = (s - p1.S) / p1.Ds
	}
	t = math.Max(0, math.Min(1, t))

	dpsi := normalizeAngle(p2.Psi - p1.Psi)

	return model.TrackPoint{
		X:       lerp(p1.X, p2.X, t),
		Y:       lerp(p1.Y, p2.Y, t),
		Z:       lerp(p1.Z, p2.Z, t),
		WLeft:   lerp(p1.WLeft, p2.WLeft, t),
		WRight:  lerp(p1.WRight, p2.WRight, t),
		Banking: lerp(p1.Banking, p2.Banking, t),
		S:       s,
		Psi:     normalizeAngle(p1.Psi + t*dpsi),
		Kappa:   lerp(p1.Kappa, p2.Kappa, t),
		Ds:      p1.Ds,
	}, nil
}

func lerp(a, b, t float64) float64 { return a + t*(b-a) }

// CurvatureAt returns the interpolated curvature at arc length s.
func (g *Geometry) CurvatureAt(s float64) (float64, error) {
	if !g.preprocessed {
		return 0, fmt.Errorf("%w: not preprocessed", ErrInvalidTrack)
	}

	s = g.normalizeS(s)

	i := g.findIndexAt(s)
	next := (i + 1) % len(g.points)

	p1 := &g.points[i]
	p2 := &g.points[next]

	t := 0.0
	if p1.Ds > dsEpsilon {
		t = (s - p1.S) / p1.Ds
	}
	t = math.Max(0, math.Min(1, t))

	return lerp(p1.Kappa, p2.Kappa, t), nil
}

// IsWithinBounds reports whether lateral offset n (positive = left) stays
// inside the track edges at arc length s.
func (g *Geometry) IsWithinBounds(s, n float64) (bool, error) {
	p, err := g.InterpolateAt(s)
	if err != nil {
		return false, err
	}
	return n >= -p.WRight && n <= p.WLeft, nil
}

func (g *Geometry) normalizeS(s float64) float64 {
	for s < 0 {
		s += g.totalLength
	}
	for s >= g.totalLength {
		s -= g.totalLength
	}
	return s
}

// findIndexAt binary-searches for the largest index with points[i].S <= s.
func (g *Geometry) findIndexAt(s float64) int {
	left, right := 0, len(g.points)-1
	for left < right {
		mid := left + (right-left)/2
		if g.points[mid].S <= s {
			left = mid + 1
		} else {
			right = mid
		}
	}
	if left > 0 && g.points[left].S > s {
		return left - 1
	}
	return left
}
