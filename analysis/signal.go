package analysis

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/decibelcooper/fccbana/config"
	"github.com/decibelcooper/fccbana/mc"
)

// chain is the part of a B -> K*0 tau tau like decay that ends up in the
// smeared tuple: the vertices, the K*0 products and the three pions of
// each tau.
type chain struct {
	pv, sv            *mc.Vertex
	tvPlus, tvMinus   *mc.Vertex
	k, piK            *mc.Particle
	pisPlus, pisMinus []*mc.Particle
}

func (ch *chain) complete() bool {
	return ch.k != nil && ch.piK != nil &&
		ch.tvPlus != nil && ch.tvMinus != nil &&
		len(ch.pisPlus) == 3 && len(ch.pisMinus) == 3
}

func chainVars(piK string) []string {
	return vars(
		eventVars(),
		vertexVars("pv"), vertexVars("sv"),
		vertexVars("tv_tauplus"), vertexVars("tv_tauminus"),
		chargedVars("k"), chargedVars(piK),
		chargedVars("pi1_tauplus"), chargedVars("pi2_tauplus"), chargedVars("pi3_tauplus"),
		chargedVars("pi1_tauminus"), chargedVars("pi2_tauminus"), chargedVars("pi3_tauminus"),
	)
}

// fillTruth fills the chain with generator values.
func (ch *chain) fillTruth(f *filler, evt *mc.Event, piK string) {
	f.event(evt)
	f.vertex("pv", ch.pv.Pos)
	f.vertex("sv", ch.sv.Pos)
	f.vertex("tv_tauplus", ch.tvPlus.Pos)
	f.vertex("tv_tauminus", ch.tvMinus.Pos)
	f.charged("k", ch.k.Mom(), ch.k.Charge)
	f.charged(piK, ch.piK.Mom(), ch.piK.Charge)
	for i, pi := range ch.pisPlus {
		f.charged(fmt.Sprintf("pi%d_tauplus", i+1), pi.Mom(), pi.Charge)
	}
	for i, pi := range ch.pisMinus {
		f.charged(fmt.Sprintf("pi%d_tauminus", i+1), pi.Mom(), pi.Charge)
	}
}

// fillSmeared fills the chain with smeared vertices and momenta and
// returns the K pi invariant mass computed from the smeared momenta.
// Charges are copied as they are.
func (ch *chain) fillSmeared(f *filler, s smearer, evt *mc.Event, piK string) float64 {
	f.event(evt)
	f.vertex("pv", s.pv(ch.pv.Pos))
	f.vertex("sv", s.sv(ch.sv.Pos))
	f.vertex("tv_tauplus", s.tv(ch.tvPlus.Pos))
	f.vertex("tv_tauminus", s.tv(ch.tvMinus.Pos))
	pk, ppi := s.momentum(ch.k.Mom()), s.momentum(ch.piK.Mom())
	f.charged("k", pk, ch.k.Charge)
	f.charged(piK, ppi, ch.piK.Charge)
	for i, pi := range ch.pisPlus {
		f.charged(fmt.Sprintf("pi%d_tauplus", i+1), s.momentum(pi.Mom()), pi.Charge)
	}
	for i, pi := range ch.pisMinus {
		f.charged(fmt.Sprintf("pi%d_tauminus", i+1), s.momentum(pi.Mom()), pi.Charge)
	}
	return kpiMass(pk, ppi)
}

// Signal analyzes B0 -> K*0 tau+ tau- events with K*0 -> K pi and
// tau -> 3 pi nu.
type Signal struct {
	c *Common
}

func NewSignal(cfg config.Config, logger *zap.Logger) *Signal {
	vs := chainVars("pi_k")
	return &Signal{c: newCommon(cfg, logger, vs, vs)}
}

func (s *Signal) Name() string    { return "signal" }
func (s *Signal) Common() *Common { return s.c }

func (s *Signal) Process(evt *mc.Event) error {
	return s.c.selectB(evt, mc.B0, func(b *mc.Particle, pb, fdb float64) error {
		ch := chain{pv: b.Start, sv: b.End}

		var tauPlus, tauMinus, kstar *mc.Particle
		for _, p := range evt.ProducedAt(b.End) {
			switch {
			case p.PDG == mc.TauPlus:
				tauPlus = p
			case p.PDG == mc.TauMinus:
				tauMinus = p
			case mc.AbsPDG(p.PDG) == mc.KStar0:
				kstar = p
			}
		}
		ch.k, ch.piK = kstarProducts(evt, kstar)

		fdTau := math.Max(decayDistance(ch.sv, tauPlus), decayDistance(ch.sv, tauMinus))
		if !s.c.passTauFlight(fdTau) {
			return nil
		}

		if tauPlus != nil {
			ch.tvPlus = tauPlus.End
		}
		if tauMinus != nil {
			ch.tvMinus = tauMinus.End
		}
		ch.pisPlus, _ = decayProducts(evt, tauPlus, mc.AntiNuTau)
		ch.pisMinus, _ = decayProducts(evt, tauMinus, mc.NuTau)
		if !ch.complete() {
			s.c.Incomplete++
			return nil
		}

		truth := &filler{t: s.c.Truth}
		ch.fillTruth(truth, evt, "pi_k")
		if err := truth.commit(); err != nil {
			return err
		}

		smeared := &filler{t: s.c.Smeared}
		mKpi := ch.fillSmeared(smeared, smearer{s.c}, evt, "pi_k")
		if err := smeared.commit(); err != nil {
			return err
		}

		s.c.fillHistograms(pb, fdb, fdTau, mKpi)
		s.c.Written++
		return nil
	})
}
