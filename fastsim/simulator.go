package fastsim

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/decibelcooper/fccbana/mc"
)

// Simulator transports particles through a Detector and builds their
// clusters and tracks.
type Simulator struct {
	Detector *Detector

	src      rand.Source
	log      *zap.Logger
	helix    HelixPropagator
	straight StraightLinePropagator
}

func NewSimulator(det *Detector, seed uint64, logger *zap.Logger) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulator{Detector: det, src: rand.NewSource(seed), log: logger}
}

func (s *Simulator) propagator(ptc *Particle) Propagator {
	if ptc.IsCharged() {
		return s.helix
	}
	return s.straight
}

func (s *Simulator) field() float64 {
	if s.Detector.Field == nil {
		return 0
	}
	return s.Detector.Field.Magnitude
}

func (s *Simulator) propagateOne(ptc *Particle, cyl Cylinder) error {
	_, err := s.propagator(ptc).PropagateOne(ptc, cyl, s.field())
	return err
}

func (s *Simulator) propagateAll(ptc *Particle) error {
	return Propagate(s.propagator(ptc), ptc, s.Detector.Cylinders(), s.field())
}

// MakeCluster deposits fraction of the particle energy in calo, at the
// point where the particle enters the calorimeter.
func (s *Simulator) MakeCluster(ptc *Particle, calo Calorimeter, fraction float64) (*Cluster, error) {
	layer := calo.Volume().Inner
	pos, ok := ptc.Points[layer.Name]
	if !ok {
		if err := s.propagateOne(ptc, layer); err != nil {
			return nil, err
		}
		pos = ptc.Points[layer.Name]
	}
	cl := &Cluster{
		Energy:   ptc.E() * fraction,
		Position: pos,
		Size:     calo.ClusterSize(ptc),
		Layer:    layer.Name,
		Particle: ptc,
	}
	ptc.Clusters[layer.Name] = cl
	return cl, nil
}

// smearCluster smears cl with calo and keeps it if calo accepts it.
func (s *Simulator) smearCluster(ptc *Particle, cl *Cluster, calo Calorimeter) {
	if sm := cl.Smear(calo, s.src); sm != nil {
		ptc.SmearedClusters[cl.Layer] = sm
	}
}

func (s *Simulator) makeTrack(ptc *Particle) {
	if !ptc.IsCharged() {
		return
	}
	ptc.Track = &Track{P3: ptc.Mom(), Charge: ptc.Charge, Path: ptc.Path}
	ptc.SmearedTrack = ptc.Track.Smear(s.Detector.Tracker, s.src)
}

func (s *Simulator) simulatePhoton(ptc *Particle) error {
	cl, err := s.MakeCluster(ptc, s.Detector.ECAL, 1)
	if err != nil {
		return err
	}
	s.smearCluster(ptc, cl, s.Detector.ECAL)
	return nil
}

func (s *Simulator) simulateElectron(ptc *Particle) error {
	cl, err := s.MakeCluster(ptc, s.Detector.ECAL, 1)
	if err != nil {
		return err
	}
	s.smearCluster(ptc, cl, s.Detector.ECAL)
	s.makeTrack(ptc)
	return nil
}

func (s *Simulator) simulateMuon(ptc *Particle) error {
	if err := s.propagateAll(ptc); err != nil {
		return err
	}
	s.makeTrack(ptc)
	return nil
}

func (s *Simulator) simulateNeutrino(ptc *Particle) error {
	return s.propagateAll(ptc)
}

// simulateHadron draws the point where the hadron starts showering. If
// that point lies in the ECAL, a random fraction of its energy goes
// there, smeared and accepted as an HCAL cluster; the rest goes to the
// HCAL.
func (s *Simulator) simulateHadron(ptc *Particle) error {
	ecal, hcal := s.Detector.ECAL, s.Detector.HCAL
	pathLength := ecal.Material().PathLength(ptc, s.src)

	inner := ecal.Volume().Inner
	if err := s.propagateOne(ptc, inner); err != nil {
		if !errors.Is(err, ErrNoIntersection) {
			return err
		}
		s.makeTrack(ptc)
		return nil
	}

	fracECAL := 0.
	tDecay := ptc.Times[inner.Name] + ptc.Path.DeltaT(pathLength)
	if decay := ptc.Path.PointAtTime(tDecay); ecal.Volume().Contains(decay) {
		ptc.Points["ecal_decay"] = decay
		fracECAL = distuv.Uniform{Min: 0, Max: 0.7, Src: s.src}.Rand()
		cl, err := s.MakeCluster(ptc, ecal, fracECAL)
		if err != nil {
			return err
		}
		s.smearCluster(ptc, cl, hcal)
	}

	cl, err := s.MakeCluster(ptc, hcal, 1-fracECAL)
	switch {
	case err == nil:
		s.smearCluster(ptc, cl, hcal)
	case !errors.Is(err, ErrNoIntersection):
		return err
	}
	s.makeTrack(ptc)
	return nil
}

// SimulateOne dispatches ptc on its species. Particles that miss a
// calorimeter are kept without clusters.
func (s *Simulator) SimulateOne(ptc *Particle) error {
	var err error
	switch pdg := mc.AbsPDG(ptc.PDG); {
	case pdg == mc.Photon:
		err = s.simulatePhoton(ptc)
	case pdg == mc.Electron:
		err = s.simulateElectron(ptc)
	case pdg == mc.Muon:
		err = s.simulateMuon(ptc)
	case pdg == mc.NuE || pdg == mc.NuMu || pdg == mc.NuTau:
		err = s.simulateNeutrino(ptc)
	case pdg > 100:
		err = s.simulateHadron(ptc)
	default:
		s.log.Debug("particle not simulated", zap.Int("pdg", ptc.PDG))
		return nil
	}
	if errors.Is(err, ErrNoIntersection) {
		s.log.Debug("particle left the detector", zap.Int("pdg", ptc.PDG), zap.Float64("eta", ptc.Eta()))
		return nil
	}
	if err != nil {
		return fmt.Errorf("fastsim: simulating pdg %d: %w", ptc.PDG, err)
	}
	return nil
}

func (s *Simulator) Simulate(ptcs []*Particle) error {
	for _, ptc := range ptcs {
		if err := s.SimulateOne(ptc); err != nil {
			return err
		}
	}
	return nil
}
