package fastsim

import (
	"math"

	"go-hep.org/x/hep/fmom"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/decibelcooper/fccbana/mc"
)

// ToyParticles generates n particles of species pdg from vertex, flat in
// polar angle (rad), azimuth and energy. Energies below the particle
// mass give particles at rest.
func ToyParticles(src rand.Source, n, pdg int, thetaMin, thetaMax, eMin, eMax float64, vertex r3.Vec) []*Particle {
	info, _ := mc.Lookup(pdg)
	thetaDist := distuv.Uniform{Min: thetaMin, Max: thetaMax, Src: src}
	phiDist := distuv.Uniform{Min: -math.Pi, Max: math.Pi, Src: src}
	eDist := distuv.Uniform{Min: eMin, Max: eMax, Src: src}

	ptcs := make([]*Particle, 0, n)
	for i := 0; i < n; i++ {
		th, phi := thetaDist.Rand(), phiDist.Rand()
		e := math.Max(eDist.Rand(), info.Mass)
		p := math.Sqrt(e*e - info.Mass*info.Mass)

		sinTh, cosTh := math.Sincos(th)
		sinPhi, cosPhi := math.Sincos(phi)
		p4 := fmom.NewPxPyPzE(p*sinTh*cosPhi, p*sinTh*sinPhi, p*cosTh, e)
		ptcs = append(ptcs, NewParticle(pdg, info.Charge, p4, vertex))
	}
	return ptcs
}
