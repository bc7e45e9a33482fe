package fastsim

import (
	"math"
	"sort"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/decibelcooper/fccbana/mc"
)

type Element interface {
	Name() string
	Volume() VolumeCylinder
	Material() Material
}

type Calorimeter interface {
	Element
	// EnergyResolution is the relative energy resolution at energy e and
	// pseudorapidity eta.
	EnergyResolution(e, eta float64) float64
	ClusterSize(ptc *Particle) float64
	Acceptance(cl *Cluster) bool
}

type Tracker interface {
	Element
	PtResolution(tr *Track) float64
	Acceptance(tr *Track, src rand.Source) bool
}

// Field is a uniform solenoidal field along z.
type Field struct {
	Vol       VolumeCylinder
	Magnitude float64 // T
}

func (f *Field) Name() string           { return f.Vol.Name }
func (f *Field) Volume() VolumeCylinder { return f.Vol }
func (f *Field) Material() Material     { return Void }

type Detector struct {
	ECAL    Calorimeter
	HCAL    Calorimeter
	Tracker Tracker
	Field   *Field
}

func (d *Detector) Elements() []Element {
	return []Element{d.Tracker, d.ECAL, d.HCAL, d.Field}
}

// Cylinders returns the boundaries of all elements, ordered by radius.
// Empty inner cylinders are left out.
func (d *Detector) Cylinders() []Cylinder {
	var cyls []Cylinder
	for _, el := range d.Elements() {
		v := el.Volume()
		if v.Inner.Rad > 0 {
			cyls = append(cyls, v.Inner)
		}
		cyls = append(cyls, v.Outer)
	}
	sort.SliceStable(cyls, func(i, j int) bool { return cyls[i].Rad < cyls[j].Rad })
	return cyls
}

// CMS returns a detector with the dimensions and resolutions of the CMS
// experiment.
func CMS() *Detector {
	return &Detector{
		ECAL: &ECAL{
			Vol:      mustVolume("ecal", 1.55, 2.1, 1.30, 2.0),
			Mat:      Material{Name: "ecal", X0: 8.9e-3, LambdaI: 0.275},
			EtaCrack: 1.5,
			EtaMax:   2.93,
			EMin:     2,
			PtMin:    0.2,
			ERes:     [3]float64{0.04, 0.1, 0.01},
		},
		HCAL: &HCAL{
			Vol:    mustVolume("hcal", 2.9, 3.6, 1.9, 2.6),
			Mat:    Material{Name: "hcal", LambdaI: 0.17},
			EtaMax: 2.9,
			EMin:   1,
			ERes:   [3]float64{1.1, 0, 0.09},
		},
		Tracker: &SiTracker{
			Vol:       mustVolume("tracker", 1.29, 1.99, 0, 0),
			PtMin:     0.5,
			EtaBarrel: 1.35,
			EtaMax:    2.5,
			EffBarrel: 0.95,
			EffEndcap: 0.9,
			PtRes:     1.1e-2,
		},
		Field: &Field{
			Vol:       mustVolume("field", 2.9, 3.6, 0, 0),
			Magnitude: 3.8,
		},
	}
}

// resolution combines stochastic, noise and constant terms in
// quadrature.
func resolution(terms [3]float64, e float64) float64 {
	if e <= 0 {
		return math.Inf(1)
	}
	stoch := terms[0] / math.Sqrt(e)
	noise := terms[1] / e
	return math.Sqrt(stoch*stoch + noise*noise + terms[2]*terms[2])
}

type ECAL struct {
	Vol      VolumeCylinder
	Mat      Material
	EtaCrack float64 // end of the barrel
	EtaMax   float64
	EMin     float64
	PtMin    float64 // in the endcaps
	ERes     [3]float64
}

func (c *ECAL) Name() string                          { return c.Vol.Name }
func (c *ECAL) Volume() VolumeCylinder                { return c.Vol }
func (c *ECAL) Material() Material                    { return c.Mat }
func (c *ECAL) EnergyResolution(e, _ float64) float64 { return resolution(c.ERes, e) }

func (c *ECAL) ClusterSize(ptc *Particle) float64 {
	if pdg := mc.AbsPDG(ptc.PDG); pdg == mc.Electron || pdg == mc.Photon {
		return 0.04
	}
	return 0.07
}

func (c *ECAL) Acceptance(cl *Cluster) bool {
	absEta := math.Abs(cl.Eta())
	switch {
	case absEta < c.EtaCrack:
		return cl.Energy > c.EMin
	case absEta < c.EtaMax:
		return cl.Energy > c.EMin && cl.Pt() > c.PtMin
	}
	return false
}

type HCAL struct {
	Vol    VolumeCylinder
	Mat    Material
	EtaMax float64
	EMin   float64
	ERes   [3]float64
}

func (c *HCAL) Name() string                          { return c.Vol.Name }
func (c *HCAL) Volume() VolumeCylinder                { return c.Vol }
func (c *HCAL) Material() Material                    { return c.Mat }
func (c *HCAL) EnergyResolution(e, _ float64) float64 { return resolution(c.ERes, e) }
func (c *HCAL) ClusterSize(*Particle) float64         { return 0.25 }

func (c *HCAL) Acceptance(cl *Cluster) bool {
	return cl.Energy > c.EMin && math.Abs(cl.Eta()) < c.EtaMax
}

// SiTracker accepts tracks above PtMin with an efficiency that drops
// outside the barrel.
type SiTracker struct {
	Vol       VolumeCylinder
	PtMin     float64
	EtaBarrel float64
	EtaMax    float64
	EffBarrel float64
	EffEndcap float64
	PtRes     float64 // relative
}

func (t *SiTracker) Name() string                { return t.Vol.Name }
func (t *SiTracker) Volume() VolumeCylinder      { return t.Vol }
func (t *SiTracker) Material() Material          { return Void }
func (t *SiTracker) PtResolution(*Track) float64 { return t.PtRes }

func (t *SiTracker) Acceptance(tr *Track, src rand.Source) bool {
	if tr.Pt() <= t.PtMin {
		return false
	}
	absEta := math.Abs(tr.Eta())
	eff := 0.
	switch {
	case absEta < t.EtaBarrel:
		eff = t.EffBarrel
	case absEta < t.EtaMax:
		eff = t.EffEndcap
	}
	return distuv.Uniform{Min: 0, Max: 1, Src: src}.Rand() < eff
}
