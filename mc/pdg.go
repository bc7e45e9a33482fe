package mc

// PDG Monte Carlo particle numbers. Negative values are antiparticles.
const (
	Electron   = 11
	NuE        = 12
	Muon       = 13
	NuMu       = 14
	Tau        = 15
	NuTau      = 16
	Photon     = 22
	PiPlus     = 211
	KStar0     = 313
	KPlus      = 321
	K0L        = 130
	DsPlus     = 431
	B0         = 511
	Bs0        = 531
	Neutron    = 2112
	Proton     = 2212
	TauPlus    = -Tau
	AntiNuTau  = -NuTau
	DsMinus    = -DsPlus
	TauMinus   = Tau
	PiMinus    = -PiPlus
	AntiKStar0 = -KStar0
)

// Info describes a particle species.
type Info struct {
	Name   string
	Mass   float64 // GeV
	Charge float64 // of the particle (positive PDG)
}

var table = map[int]Info{
	Electron: {"e-", 0.000511, -1},
	NuE:      {"nu_e", 0, 0},
	Muon:     {"mu-", 0.105658, -1},
	NuMu:     {"nu_mu", 0, 0},
	Tau:      {"tau-", 1.77686, -1},
	NuTau:    {"nu_tau", 0, 0},
	Photon:   {"gamma", 0, 0},
	PiPlus:   {"pi+", 0.139570, 1},
	K0L:      {"K0L", 0.497611, 0},
	KStar0:   {"K*0", 0.89555, 0},
	KPlus:    {"K+", 0.493677, 1},
	DsPlus:   {"D_s+", 1.96834, 1},
	B0:       {"B0", 5.27965, 0},
	Bs0:      {"B_s0", 5.36688, 0},
	Neutron:  {"n", 0.939565, 0},
	Proton:   {"p", 0.938272, 1},
}

// Lookup returns the species information for pdg, with the charge sign
// flipped for antiparticles.
func Lookup(pdg int) (Info, bool) {
	info, ok := table[AbsPDG(pdg)]
	if !ok {
		return Info{}, false
	}
	if pdg < 0 {
		info.Charge = -info.Charge
		if info.Name[len(info.Name)-1] == '-' {
			info.Name = info.Name[:len(info.Name)-1] + "+"
		} else if info.Name[len(info.Name)-1] == '+' {
			info.Name = info.Name[:len(info.Name)-1] + "-"
		} else {
			info.Name = "anti-" + info.Name
		}
	}
	return info, true
}
