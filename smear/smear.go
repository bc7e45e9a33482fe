// Package smear emulates finite detector resolution by perturbing true
// quantities with Gaussian draws.
package smear

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat/distuv"
)

// Resolution holds the per-axis standard deviations.
type Resolution struct {
	X, Y, Z float64
}

type Smearer struct {
	src rand.Source
}

func New(seed uint64) *Smearer {
	return &Smearer{src: rand.NewSource(seed)}
}

// Gauss draws from a normal distribution centred on mu. A non-positive
// sigma returns mu unchanged.
func (s *Smearer) Gauss(mu, sigma float64) float64 {
	if sigma <= 0 {
		return mu
	}
	return distuv.Normal{Mu: mu, Sigma: sigma, Src: s.src}.Rand()
}

// Vec smears each component independently.
func (s *Smearer) Vec(v r3.Vec, res Resolution) r3.Vec {
	return r3.Vec{
		X: s.Gauss(v.X, res.X),
		Y: s.Gauss(v.Y, res.Y),
		Z: s.Gauss(v.Z, res.Z),
	}
}

func (s *Smearer) Vertex(pos r3.Vec, res Resolution) r3.Vec { return s.Vec(pos, res) }

func (s *Smearer) Momentum(p r3.Vec, res Resolution) r3.Vec { return s.Vec(p, res) }

// Source exposes the underlying random source so that other components
// can share one seeded stream.
func (s *Smearer) Source() rand.Source { return s.src }
