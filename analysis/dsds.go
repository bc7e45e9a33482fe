package analysis

import (
	"math"

	"go.uber.org/zap"

	"github.com/decibelcooper/fccbana/config"
	"github.com/decibelcooper/fccbana/mc"
)

// DsDs analyzes the Bs -> Ds+ Ds- K*0 background, with Ds+ -> tau+ nu,
// Ds- -> tau- nu~, tau -> 3 pi nu and K*0 -> K pi.
type DsDs struct {
	c *Common
}

func NewDsDs(cfg config.Config, logger *zap.Logger) *DsDs {
	truth := vars(
		chainVars("pi_kstar"),
		momentumVars("b"), momentumVars("kstar"),
		momentumVars("dplus"), momentumVars("tauplus"),
		momentumVars("nu_tauplus"), momentumVars("nu_dplus"),
		momentumVars("dminus"), momentumVars("tauminus"),
		momentumVars("nu_tauminus"), momentumVars("nu_dminus"),
	)
	return &DsDs{c: newCommon(cfg, logger, chainVars("pi_kstar"), truth)}
}

func (d *DsDs) Name() string    { return "dsds" }
func (d *DsDs) Common() *Common { return d.c }

// dsBranch is one Ds -> tau nu, tau -> 3 pi nu leg.
type dsBranch struct {
	ds, tau, nuDs, nuTau *mc.Particle
	pions                []*mc.Particle
}

func (br *dsBranch) complete() bool {
	return br.ds != nil && br.tau != nil && br.nuDs != nil && br.nuTau != nil && len(br.pions) == 3
}

// follow finds the tau and neutrino of the Ds decay.
func (br *dsBranch) follow(evt *mc.Event, tauPDG, nuPDG int) {
	if br.ds == nil {
		return
	}
	for _, p := range evt.ProducedAt(br.ds.End) {
		switch p.PDG {
		case tauPDG:
			br.tau = p
		case nuPDG:
			br.nuDs = p
		}
	}
}

func (d *DsDs) Process(evt *mc.Event) error {
	return d.c.selectB(evt, mc.Bs0, func(b *mc.Particle, pb, fdb float64) error {
		ch := chain{pv: b.Start, sv: b.End}
		var kstar *mc.Particle
		var plus, minus dsBranch
		for _, p := range evt.ProducedAt(b.End) {
			switch {
			case p.PDG == mc.DsPlus:
				plus.ds = p
			case p.PDG == mc.DsMinus:
				minus.ds = p
			case mc.AbsPDG(p.PDG) == mc.KStar0:
				kstar = p
			}
		}
		ch.k, ch.piK = kstarProducts(evt, kstar)
		plus.follow(evt, mc.TauPlus, mc.NuTau)
		minus.follow(evt, mc.TauMinus, mc.AntiNuTau)

		fdTau := math.Max(decayDistance(ch.sv, plus.tau), decayDistance(ch.sv, minus.tau))
		if !d.c.passTauFlight(fdTau) {
			return nil
		}

		plus.pions, plus.nuTau = decayProducts(evt, plus.tau, mc.AntiNuTau)
		minus.pions, minus.nuTau = decayProducts(evt, minus.tau, mc.NuTau)
		if plus.tau != nil {
			ch.tvPlus = plus.tau.End
		}
		if minus.tau != nil {
			ch.tvMinus = minus.tau.End
		}
		ch.pisPlus, ch.pisMinus = plus.pions, minus.pions
		if kstar == nil || !ch.complete() || !plus.complete() || !minus.complete() {
			d.c.Incomplete++
			return nil
		}

		truth := &filler{t: d.c.Truth}
		ch.fillTruth(truth, evt, "pi_kstar")
		truth.momentum("b", b.Mom())
		truth.momentum("kstar", kstar.Mom())
		truth.momentum("dplus", plus.ds.Mom())
		truth.momentum("tauplus", plus.tau.Mom())
		truth.momentum("nu_tauplus", plus.nuTau.Mom())
		truth.momentum("nu_dplus", plus.nuDs.Mom())
		truth.momentum("dminus", minus.ds.Mom())
		truth.momentum("tauminus", minus.tau.Mom())
		truth.momentum("nu_tauminus", minus.nuTau.Mom())
		truth.momentum("nu_dminus", minus.nuDs.Mom())
		if err := truth.commit(); err != nil {
			return err
		}

		smeared := &filler{t: d.c.Smeared}
		mKpi := ch.fillSmeared(smeared, smearer{d.c}, evt, "pi_kstar")
		if err := smeared.commit(); err != nil {
			return err
		}

		d.c.fillHistograms(pb, fdb, fdTau, mKpi)
		d.c.Written++
		return nil
	})
}
