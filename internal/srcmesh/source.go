package srcmesh

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat/distuv"
)

// Source is an external source definition. Draw must only mutate the stream
// it is given, so one Source can be sampled from many workers at once.
type Source interface {
	Draw(s *Stream) SourceSite
	Strength() float64
}

// isotropic returns a unit direction uniformly distributed on the sphere.
func isotropic(s *Stream) r3.Vec {
	mu := 2*s.Float64() - 1
	phi := 2 * math.Pi * s.Float64()
	st := math.Sqrt(1 - mu*mu)
	return r3.Vec{X: st * math.Cos(phi), Y: st * math.Sin(phi), Z: mu}
}

// PointSource emits every site from a single position.
type PointSource struct {
	Position r3.Vec
	strength Real
	energy   Real
}

func NewPointSource(pos r3.Vec, strength, energy Real) (*PointSource, error) {
	if err := checkStrength(strength); err != nil {
		return nil, err
	}
	return &PointSource{Position: pos, strength: strength, energy: energy}, nil
}

func (p *PointSource) Draw(s *Stream) SourceSite {
	return SourceSite{R: p.Position, U: isotropic(s), E: p.energy}
}

func (p *PointSource) Strength() float64 { return p.strength }

// BoxSource samples positions uniformly inside an axis-aligned box.
type BoxSource struct {
	Lower, Upper r3.Vec
	span         r3.Vec
	strength     Real
	energy       Real
}

func NewBoxSource(lower, upper r3.Vec, strength, energy Real) (*BoxSource, error) {
	if err := checkStrength(strength); err != nil {
		return nil, err
	}
	if upper.X < lower.X || upper.Y < lower.Y || upper.Z < lower.Z {
		return nil, fmt.Errorf("box upper %+v must not be below lower %+v", upper, lower)
	}
	return &BoxSource{
		Lower:    lower,
		Upper:    upper,
		span:     r3.Sub(upper, lower),
		strength: strength,
		energy:   energy,
	}, nil
}

func (b *BoxSource) Draw(s *Stream) SourceSite {
	r := r3.Vec{
		X: b.Lower.X + b.span.X*s.Float64(),
		Y: b.Lower.Y + b.span.Y*s.Float64(),
		Z: b.Lower.Z + b.span.Z*s.Float64(),
	}
	return SourceSite{R: r, U: isotropic(s), E: b.energy}
}

func (b *BoxSource) Strength() float64 { return b.strength }

// SphereSource samples positions uniformly inside a ball.
type SphereSource struct {
	Center   r3.Vec
	Radius   Real
	strength Real
	energy   Real
}

func NewSphereSource(center r3.Vec, radius, strength, energy Real) (*SphereSource, error) {
	if err := checkStrength(strength); err != nil {
		return nil, err
	}
	if radius < 0 || !isFinite(radius) {
		return nil, errors.New("sphere radius must be finite and >= 0")
	}
	return &SphereSource{Center: center, Radius: radius, strength: strength, energy: energy}, nil
}

func (sp *SphereSource) Draw(s *Stream) SourceSite {
	// r ~ R * cbrt(u) gives a uniform density in volume
	r := sp.Radius * math.Cbrt(s.Float64())
	dir := isotropic(s)
	return SourceSite{R: r3.Add(sp.Center, r3.Scale(r, dir)), U: isotropic(s), E: sp.energy}
}

func (sp *SphereSource) Strength() float64 { return sp.strength }

// GaussianSource samples each coordinate from an independent normal
// distribution centered on Center with per-axis deviation Sigma.
type GaussianSource struct {
	Center   r3.Vec
	Sigma    r3.Vec
	strength Real
	energy   Real
}

func NewGaussianSource(center, sigma r3.Vec, strength, energy Real) (*GaussianSource, error) {
	if err := checkStrength(strength); err != nil {
		return nil, err
	}
	if sigma.X < 0 || sigma.Y < 0 || sigma.Z < 0 {
		return nil, fmt.Errorf("gaussian sigma must be >= 0 on all axes, got %+v", sigma)
	}
	return &GaussianSource{Center: center, Sigma: sigma, strength: strength, energy: energy}, nil
}

func (g *GaussianSource) Draw(s *Stream) SourceSite {
	r := r3.Vec{
		X: distuv.Normal{Mu: g.Center.X, Sigma: g.Sigma.X, Src: s}.Rand(),
		Y: distuv.Normal{Mu: g.Center.Y, Sigma: g.Sigma.Y, Src: s}.Rand(),
		Z: distuv.Normal{Mu: g.Center.Z, Sigma: g.Sigma.Z, Src: s}.Rand(),
	}
	return SourceSite{R: r, U: isotropic(s), E: g.energy}
}

func (g *GaussianSource) Strength() float64 { return g.strength }

func checkStrength(strength Real) error {
	if strength < 0 || !isFinite(strength) {
		return fmt.Errorf("source strength must be finite and >= 0, got %.6g", strength)
	}
	return nil
}
