// Package analysis identifies B-meson decay topologies in MC truth
// events, applies the momentum and flight-distance selection, and fills
// MC truth and smeared tuples.
package analysis

import (
	"errors"
	"fmt"
	"math"
	"time"

	"go-hep.org/x/hep/fmom"
	"go-hep.org/x/hep/hbook"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/decibelcooper/fccbana/config"
	"github.com/decibelcooper/fccbana/mc"
	"github.com/decibelcooper/fccbana/smear"
	"github.com/decibelcooper/fccbana/tuple"
)

var ErrUnknownChannel = errors.New("analysis: unknown channel")

type Analyzer interface {
	Name() string
	Process(evt *mc.Event) error
	Common() *Common
}

// New returns the analyzer for a decay channel: "signal" for
// B0 -> K*0 tau+ tau-, "dsds" for the Bs -> Ds+ Ds- K*0 background.
func New(channel string, cfg config.Config, logger *zap.Logger) (Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch channel {
	case "signal":
		return NewSignal(cfg, logger), nil
	case "dsds":
		return NewDsDs(cfg, logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownChannel, channel)
	}
}

type Counters struct {
	Decays        int // B decays considered, oscillations excluded
	PassMomentum  int
	PassBFlight   int
	PassTauFlight int
	Incomplete    int // passed all cuts but a decay product was missing
	Written       int
}

type Summary struct {
	Counters
	Elapsed      time.Duration
	Rate         float64 // decays per second
	EffMomentum  float64
	EffBFlight   float64
	EffTauFlight float64
}

// Common is the state shared by the channel analyzers: counters, the
// histograms visualising the cuts and the two output tuples.
type Common struct {
	Counters

	cfg    config.Config
	log    *zap.Logger
	smear  *smear.Smearer
	now    func() time.Time
	start  time.Time
	lastTS time.Time

	PB    *hbook.H1D
	FDB   *hbook.H1D
	FDTau *hbook.H1D
	MKpi  *hbook.H1D // smeared K pi invariant mass

	Truth   *tuple.Tuple
	Smeared *tuple.Tuple
}

func newCommon(cfg config.Config, logger *zap.Logger, vars []string, truthVars []string) *Common {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Common{
		cfg:     cfg,
		log:     logger,
		smear:   smear.New(cfg.Seed),
		now:     time.Now,
		PB:      hbook.NewH1D(500, 0, 50),
		FDB:     hbook.NewH1D(500, 0, 10),
		FDTau:   hbook.NewH1D(500, 0, 5),
		MKpi:    hbook.NewH1D(60, 0.6, 1.2),
		Truth:   tuple.New(cfg.MCTruthTreeName, cfg.MCTruthTitle, truthVars...),
		Smeared: tuple.New(cfg.TreeName, cfg.TreeTitle, vars...),
	}
	c.start = c.now()
	c.lastTS = c.start
	return c
}

func (c *Common) Config() config.Config { return c.cfg }

// Attach binds both tuples to f. It must be called before any event is
// processed.
func (c *Common) Attach(f *tuple.File) error {
	if err := f.Attach(c.Truth); err != nil {
		return err
	}
	return f.Attach(c.Smeared)
}

func (c *Common) WriteHistograms(f *tuple.File) error {
	for _, h := range []struct {
		name, title string
		h           *hbook.H1D
	}{
		{"pb_hist", "P_{B}", c.PB},
		{"fdb_hist", "FD_{B}", c.FDB},
		{"fdtau_hist", "Max FD_{#tau}", c.FDTau},
		{"mkpi_hist", "M_{K#pi}", c.MKpi},
	} {
		if err := f.PutH1D(h.name, h.title, h.h); err != nil {
			return err
		}
	}
	return nil
}

// selectB calls fn for every decaying B of the given species that passes
// the momentum and PV-SV flight distance cuts.
func (c *Common) selectB(evt *mc.Event, absPDG int, fn func(b *mc.Particle, pb, fdb float64) error) error {
	for _, b := range evt.Particles {
		if mc.AbsPDG(b.PDG) != absPDG || !b.Decayed() || b.Oscillates() {
			continue
		}
		c.countDecay()

		pb := b.P()
		if pb <= c.cfg.Cuts.MinBMomentum {
			continue
		}
		c.PassMomentum++

		fdb := mc.Distance(b.Start, b.End)
		if fdb <= c.cfg.Cuts.MinBFlight {
			continue
		}
		c.PassBFlight++

		if err := fn(b, pb, fdb); err != nil {
			return fmt.Errorf("analysis: event %d: %w", evt.Number, err)
		}
	}
	return nil
}

func (c *Common) countDecay() {
	c.Decays++
	every := c.cfg.ProgressEvery
	if every <= 0 || c.Decays%every != 0 {
		return
	}
	now := c.now()
	c.log.Info("processing decay",
		zap.Int("decay", c.Decays),
		zap.Float64("decays_per_s", rate(every, now.Sub(c.lastTS))),
	)
	c.lastTS = now
}

// passTauFlight applies the cut on the largest SV-TV distance.
func (c *Common) passTauFlight(fdTau float64) bool {
	if fdTau <= c.cfg.Cuts.MinTauFlight {
		return false
	}
	c.PassTauFlight++
	return true
}

func (c *Common) fillHistograms(pb, fdb, fdTau, mKpi float64) {
	c.PB.Fill(pb, 1)
	c.FDB.Fill(fdb, 1)
	c.FDTau.Fill(fdTau, 1)
	c.MKpi.Fill(mKpi, 1)
}

var (
	kaonMass = mustMass(mc.KPlus)
	pionMass = mustMass(mc.PiPlus)
)

func mustMass(pdg int) float64 {
	info, ok := mc.Lookup(pdg)
	if !ok {
		panic(fmt.Sprintf("analysis: no mass for pdg %d", pdg))
	}
	return info.Mass
}

// kpiMass is the invariant mass of a kaon and a pion with momenta pk and
// ppi.
func kpiMass(pk, ppi r3.Vec) float64 {
	p := r3.Add(pk, ppi)
	e := math.Sqrt(r3.Norm2(pk)+kaonMass*kaonMass) + math.Sqrt(r3.Norm2(ppi)+pionMass*pionMass)
	sum := fmom.NewPxPyPzE(p.X, p.Y, p.Z, e)
	return sum.M()
}

func (c *Common) Summary() Summary {
	elapsed := c.now().Sub(c.start)
	s := Summary{
		Counters: c.Counters,
		Elapsed:  elapsed,
		Rate:     rate(c.Decays, elapsed),
	}
	if c.Decays > 0 {
		n := float64(c.Decays)
		s.EffMomentum = float64(c.PassMomentum) / n
		s.EffBFlight = float64(c.PassBFlight) / n
		s.EffTauFlight = float64(c.PassTauFlight) / n
	}
	return s
}

func (c *Common) LogSummary() {
	s := c.Summary()
	c.log.Info("analysis done",
		zap.Int("decays", s.Decays),
		zap.Int("written", s.Written),
		zap.Int("incomplete", s.Incomplete),
		zap.Duration("elapsed", s.Elapsed),
		zap.Float64("decays_per_s", s.Rate),
		zap.Float64("eff_b_momentum", s.EffMomentum),
		zap.Float64("eff_b_flight", s.EffBFlight),
		zap.Float64("eff_tau_flight", s.EffTauFlight),
	)
}

func rate(n int, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(n) / d.Seconds()
}

// decayDistance is the flight distance of p from v, zero when p is
// missing or stable.
func decayDistance(v *mc.Vertex, p *mc.Particle) float64 {
	if p == nil || p.End == nil {
		return 0
	}
	return mc.Distance(v, p.End)
}

// decayProducts returns the charged pions produced at p's decay vertex
// and the neutrino with the given PDG, if any.
func decayProducts(evt *mc.Event, p *mc.Particle, nuPDG int) (pions []*mc.Particle, nu *mc.Particle) {
	if p == nil {
		return nil, nil
	}
	for _, d := range evt.ProducedAt(p.End) {
		switch {
		case mc.AbsPDG(d.PDG) == mc.PiPlus:
			pions = append(pions, d)
		case d.PDG == nuPDG:
			nu = d
		}
	}
	return pions, nu
}

// kstarProducts returns the kaon and pion from a K*0 decay.
func kstarProducts(evt *mc.Event, kstar *mc.Particle) (k, pi *mc.Particle) {
	if kstar == nil {
		return nil, nil
	}
	for _, d := range evt.ProducedAt(kstar.End) {
		switch mc.AbsPDG(d.PDG) {
		case mc.KPlus:
			k = d
		case mc.PiPlus:
			pi = d
		}
	}
	return k, pi
}
