package fastsim

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/decibelcooper/fccbana/mc"
)

// Material holds the radiation length X0 and nuclear interaction length
// LambdaI, in m. A zero length means the material never interacts.
type Material struct {
	Name    string
	X0      float64
	LambdaI float64
}

var Void = Material{Name: "void"}

// PathLength draws the distance travelled by ptc before it interacts.
// Electrons and photons shower after a radiation length, other particles
// after an interaction length.
func (m Material) PathLength(ptc *Particle, src rand.Source) float64 {
	free := m.LambdaI
	if pdg := mc.AbsPDG(ptc.PDG); pdg == mc.Electron || pdg == mc.Photon {
		free = m.X0
	}
	if free <= 0 {
		return math.Inf(1)
	}
	return distuv.Exponential{Rate: 1 / free, Src: src}.Rand()
}
