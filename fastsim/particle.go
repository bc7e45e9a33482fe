package fastsim

import (
	"math"

	"go-hep.org/x/hep/fmom"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/decibelcooper/fccbana/mc"
)

// Particle is a particle being transported through the detector,
// together with the simulated response it left behind.
type Particle struct {
	PDG    int
	Charge float64
	P4     fmom.PxPyPzE
	Vertex r3.Vec

	Path   Path
	Points map[string]r3.Vec  // by cylinder name
	Times  map[string]float64 // time at which each point was reached

	Clusters        map[string]*Cluster // by layer
	SmearedClusters map[string]*Cluster
	Track           *Track
	SmearedTrack    *Track
}

func NewParticle(pdg int, charge float64, p4 fmom.PxPyPzE, vertex r3.Vec) *Particle {
	return &Particle{
		PDG:             pdg,
		Charge:          charge,
		P4:              p4,
		Vertex:          vertex,
		Points:          make(map[string]r3.Vec),
		Times:           make(map[string]float64),
		Clusters:        make(map[string]*Cluster),
		SmearedClusters: make(map[string]*Cluster),
	}
}

// FromMC converts a generator particle. Its production vertex is
// converted from mm to m.
func FromMC(p *mc.Particle) *Particle {
	var vertex r3.Vec
	if p.Start != nil {
		vertex = r3.Scale(1e-3, p.Start.Pos)
	}
	return NewParticle(p.PDG, p.Charge, p.P4, vertex)
}

func (p *Particle) Mom() r3.Vec {
	return r3.Vec{X: p.P4.Px(), Y: p.P4.Py(), Z: p.P4.Pz()}
}

func (p *Particle) E() float64   { return p.P4.E() }
func (p *Particle) Pt() float64  { return p.P4.Pt() }
func (p *Particle) Eta() float64 { return eta(p.Mom()) }

func (p *Particle) IsCharged() bool {
	return math.Abs(p.Charge) >= 0.5
}
