package analysis

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/decibelcooper/fccbana/mc"
	"github.com/decibelcooper/fccbana/tuple"
)

func vertexVars(prefix string) []string {
	return []string{prefix + "_x", prefix + "_y", prefix + "_z"}
}

func momentumVars(prefix string) []string {
	return []string{prefix + "_px", prefix + "_py", prefix + "_pz"}
}

func chargedVars(prefix string) []string {
	return append(momentumVars(prefix), prefix+"_q")
}

func eventVars() []string {
	return []string{"n_particles", "event_number"}
}

func vars(groups ...[]string) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// filler fills a tuple and keeps the first error.
type filler struct {
	t   *tuple.Tuple
	err error
}

func (f *filler) set(name string, v float64) {
	if f.err != nil {
		return
	}
	f.err = f.t.Fill(name, v)
}

func (f *filler) event(evt *mc.Event) {
	f.set("event_number", float64(evt.Number))
	f.set("n_particles", float64(len(evt.Particles)))
}

func (f *filler) vertex(prefix string, pos r3.Vec) {
	f.set(prefix+"_x", pos.X)
	f.set(prefix+"_y", pos.Y)
	f.set(prefix+"_z", pos.Z)
}

func (f *filler) momentum(prefix string, p r3.Vec) {
	f.set(prefix+"_px", p.X)
	f.set(prefix+"_py", p.Y)
	f.set(prefix+"_pz", p.Z)
}

func (f *filler) charged(prefix string, p r3.Vec, q float64) {
	f.momentum(prefix, p)
	f.set(prefix+"_q", q)
}

func (f *filler) commit() error {
	if f.err != nil {
		return f.err
	}
	return f.t.Commit()
}

// smearer applies the configured resolutions, leaving quantities whose
// smearing is switched off untouched.
type smearer struct {
	c *Common
}

func (s smearer) pv(v r3.Vec) r3.Vec {
	if !s.c.cfg.SmearPV {
		return v
	}
	return s.c.smear.Vertex(v, s.c.cfg.PVResolution())
}

func (s smearer) sv(v r3.Vec) r3.Vec {
	if !s.c.cfg.SmearSV {
		return v
	}
	return s.c.smear.Vertex(v, s.c.cfg.SVResolution())
}

func (s smearer) tv(v r3.Vec) r3.Vec {
	if !s.c.cfg.SmearTV {
		return v
	}
	return s.c.smear.Vertex(v, s.c.cfg.TVResolution())
}

func (s smearer) momentum(p r3.Vec) r3.Vec {
	if !s.c.cfg.SmearMomentum {
		return p
	}
	return s.c.smear.Momentum(p, s.c.cfg.MomentumResolution())
}
