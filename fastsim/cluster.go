package fastsim

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat/distuv"
)

// Cluster is an energy deposit in a calorimeter layer.
type Cluster struct {
	Energy   float64
	Position r3.Vec
	Size     float64
	Layer    string
	Particle *Particle
}

// Pt is the transverse energy seen from the origin.
func (c *Cluster) Pt() float64 {
	return c.Energy * math.Sin(theta(c.Position))
}

func (c *Cluster) Eta() float64 { return eta(c.Position) }

// Smear returns a copy of c with its energy smeared by the calorimeter
// resolution, or nil if the smeared cluster is not accepted.
func (c *Cluster) Smear(calo Calorimeter, src rand.Source) *Cluster {
	sigma := calo.EnergyResolution(c.Energy, c.Eta())
	if math.IsInf(sigma, 0) || math.IsNaN(sigma) {
		return nil
	}
	sm := *c
	sm.Energy = c.Energy * distuv.Normal{Mu: 1, Sigma: sigma, Src: src}.Rand()
	if !calo.Acceptance(&sm) {
		return nil
	}
	return &sm
}

// Track is a charged-particle trajectory reconstructed in the tracker.
type Track struct {
	P3     r3.Vec
	Charge float64
	Path   Path
}

func (t *Track) Pt() float64  { return perp(t.P3) }
func (t *Track) Eta() float64 { return eta(t.P3) }

// Smear scales the momentum by a Gaussian factor of width the tracker pt
// resolution. It returns nil if the track is not accepted.
func (t *Track) Smear(tracker Tracker, src rand.Source) *Track {
	scale := 1.
	if res := tracker.PtResolution(t); res > 0 {
		scale = distuv.Normal{Mu: 1, Sigma: res, Src: src}.Rand()
	}
	sm := &Track{P3: r3.Scale(scale, t.P3), Charge: t.Charge, Path: t.Path}
	if !tracker.Acceptance(sm, src) {
		return nil
	}
	return sm
}
