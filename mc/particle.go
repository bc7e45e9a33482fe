// Package mc holds the generator-level (Monte Carlo truth) event record
// as a decay graph of particles joined by vertices.
package mc

import (
	"math"

	"go-hep.org/x/hep/fmom"
	"gonum.org/v1/gonum/spatial/r3"
)

// Vertex is a point where particles are produced or decay. Positions are
// in mm. Vertices are compared by identity.
type Vertex struct {
	ID  int
	Pos r3.Vec
}

type Particle struct {
	ID     int
	PDG    int
	Charge float64
	Mass   float64
	P4     fmom.PxPyPzE

	Start *Vertex
	End   *Vertex

	Parents  []*Particle
	Children []*Particle
}

// P returns the magnitude of the momentum.
func (p *Particle) P() float64 {
	return p.P4.P()
}

func (p *Particle) Mom() r3.Vec {
	return r3.Vec{X: p.P4.Px(), Y: p.P4.Py(), Z: p.P4.Pz()}
}

// Decayed reports whether the particle has a decay vertex distinct from
// its production vertex.
func (p *Particle) Decayed() bool {
	return p.End != nil && p.End != p.Start
}

// Oscillates reports whether the particle turns into its own
// antiparticle, i.e. its only daughter carries the same |PDG|.
func (p *Particle) Oscillates() bool {
	if len(p.Children) != 1 {
		return false
	}
	return AbsPDG(p.Children[0].PDG) == AbsPDG(p.PDG)
}

type Event struct {
	Number    int64
	Particles []*Particle
	Vertices  []*Vertex
}

// ProducedAt returns the particles whose production vertex is v, in
// record order.
func (e *Event) ProducedAt(v *Vertex) []*Particle {
	if v == nil {
		return nil
	}
	var out []*Particle
	for _, p := range e.Particles {
		if p.Start == v {
			out = append(out, p)
		}
	}
	return out
}

// Distance returns the distance between two vertices, or 0 if either is
// missing.
func Distance(a, b *Vertex) float64 {
	if a == nil || b == nil {
		return 0
	}
	return r3.Norm(r3.Sub(a.Pos, b.Pos))
}

func AbsPDG(pdg int) int {
	if pdg < 0 {
		return -pdg
	}
	return pdg
}

func energy(p [3]float64, mass float64) float64 {
	return math.Sqrt(p[0]*p[0] + p[1]*p[1] + p[2]*p[2] + mass*mass)
}
