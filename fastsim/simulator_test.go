package fastsim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"

	"github.com/decibelcooper/fccbana/mc"
)

func particle(pdg int, px, py, pz float64) *Particle {
	info, _ := mc.Lookup(pdg)
	return NewParticle(pdg, info.Charge, p4(px, py, pz, info.Mass), r3.Vec{})
}

func TestSimulatePhoton(t *testing.T) {
	sim := NewSimulator(CMS(), 1, zap.NewNop())
	ptc := particle(mc.Photon, 50, 0, 0)
	require.NoError(t, sim.SimulateOne(ptc))

	cl := ptc.Clusters["ecal_in"]
	require.NotNil(t, cl)
	assert.InDelta(t, 50, cl.Energy, 1e-9)
	assert.InDelta(t, 1.30, perp(cl.Position), 1e-9)
	assert.Equal(t, 0.04, cl.Size)
	assert.Same(t, ptc, cl.Particle)

	sm := ptc.SmearedClusters["ecal_in"]
	require.NotNil(t, sm)
	assert.InDelta(t, 50, sm.Energy, 5)
	assert.Nil(t, ptc.Track)
}

func TestSimulateElectron(t *testing.T) {
	sim := NewSimulator(CMS(), 2, nil)
	ptc := particle(mc.Electron, 0, 20, 1)
	require.NoError(t, sim.SimulateOne(ptc))

	require.NotNil(t, ptc.Clusters["ecal_in"])
	require.NotNil(t, ptc.Track)
	assert.Equal(t, -1., ptc.Track.Charge)
	assert.IsType(t, &Helix{}, ptc.Track.Path)
	if ptc.SmearedTrack != nil {
		assert.InDelta(t, ptc.Track.Pt(), ptc.SmearedTrack.Pt(), 0.1*ptc.Track.Pt())
	}
}

func TestSimulateNeutrinoAndMuon(t *testing.T) {
	sim := NewSimulator(CMS(), 3, nil)

	nu := particle(mc.NuMu, 10, 0, 1)
	require.NoError(t, sim.SimulateOne(nu))
	assert.Len(t, nu.Points, len(sim.Detector.Cylinders()))
	assert.Empty(t, nu.Clusters)
	assert.Nil(t, nu.Track)

	mu := particle(-mc.Muon, 30, 0, 1)
	require.NoError(t, sim.SimulateOne(mu))
	assert.Contains(t, mu.Points, "field_out")
	assert.Empty(t, mu.Clusters)
	require.NotNil(t, mu.Track)
	assert.Equal(t, 1., mu.Track.Charge)
}

func TestSimulateHadron(t *testing.T) {
	sim := NewSimulator(CMS(), 4, nil)
	for i := 0; i < 50; i++ {
		ptc := particle(mc.PiPlus, 0, -20, 2)
		require.NoError(t, sim.SimulateOne(ptc))

		hcal := ptc.Clusters["hcal_in"]
		require.NotNil(t, hcal)
		total := hcal.Energy
		if ecal, ok := ptc.Clusters["ecal_in"]; ok {
			assert.Contains(t, ptc.Points, "ecal_decay")
			assert.Less(t, ecal.Energy, 0.7*ptc.E())
			total += ecal.Energy
		}
		assert.InDelta(t, ptc.E(), total, 1e-9)
		assert.NotNil(t, ptc.Track)
	}

	k0 := particle(mc.K0L, 5, 5, 0)
	require.NoError(t, sim.SimulateOne(k0))
	assert.NotNil(t, k0.Clusters["hcal_in"])
	assert.Nil(t, k0.Track)
}

func TestHadronicECALClusterAcceptedAsHCAL(t *testing.T) {
	sim := NewSimulator(CMS(), 8, nil)
	det := sim.Detector
	ptc := particle(mc.PiPlus, 1.5, 0, 0)

	cl := &Cluster{Energy: 1.5, Position: r3.Vec{X: 1.3}, Layer: "ecal_in", Particle: ptc}
	assert.False(t, det.ECAL.Acceptance(cl))
	assert.True(t, det.HCAL.Acceptance(cl))

	belowECAL := 0
	for i := 0; i < 200; i++ {
		delete(ptc.SmearedClusters, "ecal_in")
		sim.smearCluster(ptc, cl, det.HCAL)
		sm, ok := ptc.SmearedClusters["ecal_in"]
		if !ok {
			continue
		}
		assert.Greater(t, sm.Energy, 1.)
		if sm.Energy < 2 {
			belowECAL++
		}
	}
	assert.Positive(t, belowECAL, "soft hadronic deposits in the ECAL are kept")
}

func TestSimulateIgnoresUnknown(t *testing.T) {
	sim := NewSimulator(CMS(), 5, nil)
	ptc := NewParticle(3, -1./3, p4(1, 0, 0, 0), r3.Vec{})
	require.NoError(t, sim.Simulate([]*Particle{ptc}))
	assert.Empty(t, ptc.Points)
}

func TestClusterSmearRejected(t *testing.T) {
	det := CMS()
	cl := &Cluster{Energy: 1, Position: r3.Vec{X: 1.3}}
	assert.Nil(t, cl.Smear(det.ECAL, rand.NewSource(1)), "below ECAL threshold")

	cl = &Cluster{Energy: 0, Position: r3.Vec{X: 1.3}}
	assert.Nil(t, cl.Smear(det.HCAL, rand.NewSource(1)))
}

func TestPathLength(t *testing.T) {
	src := rand.NewSource(6)
	mat := Material{Name: "hcal", X0: 0.01, LambdaI: 0.17}
	pion := particle(mc.PiPlus, 1, 0, 0)
	gamma := particle(mc.Photon, 1, 0, 0)

	const n = 20000
	var pis, gammas []float64
	for i := 0; i < n; i++ {
		pis = append(pis, mat.PathLength(pion, src))
		gammas = append(gammas, mat.PathLength(gamma, src))
	}
	assert.InDelta(t, 0.17, stat.Mean(pis, nil), 0.01)
	assert.InDelta(t, 0.01, stat.Mean(gammas, nil), 0.001)
	assert.True(t, math.IsInf(Void.PathLength(pion, src), 1))
}

func TestToyParticles(t *testing.T) {
	ptcs := ToyParticles(rand.NewSource(7), 100, mc.PiMinus, 1, 2, 5, 10, r3.Vec{Z: 0.01})
	require.Len(t, ptcs, 100)
	for _, ptc := range ptcs {
		assert.Equal(t, -1., ptc.Charge)
		assert.GreaterOrEqual(t, ptc.E(), 5.)
		assert.LessOrEqual(t, ptc.E(), 10.)
		th := theta(ptc.Mom())
		assert.GreaterOrEqual(t, th, 1-1e-9)
		assert.LessOrEqual(t, th, 2+1e-9)
		assert.InDelta(t, pionMass, ptc.P4.M(), 1e-5)
		assert.Equal(t, r3.Vec{Z: 0.01}, ptc.Vertex)
	}
}
