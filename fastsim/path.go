package fastsim

import (
	"math"

	"go-hep.org/x/hep/fmom"
	"gonum.org/v1/gonum/spatial/r3"
)

// Path is the trajectory of a particle as a function of time since it
// left its production vertex.
type Path interface {
	PointAtTime(t float64) r3.Vec
	TimeAtZ(z float64) float64
	DeltaT(length float64) float64
	Speed() float64
}

func velocity(p4 *fmom.PxPyPzE) float64 {
	if p4.E() <= 0 {
		return 0
	}
	return p4.P() / p4.E() * speedOfLight
}

type StraightLine struct {
	Origin r3.Vec
	UDir   r3.Vec
	speed  float64
}

func NewStraightLine(p4 fmom.PxPyPzE, origin r3.Vec) *StraightLine {
	mom := r3.Vec{X: p4.Px(), Y: p4.Py(), Z: p4.Pz()}
	return &StraightLine{Origin: origin, UDir: unit(mom), speed: velocity(&p4)}
}

func (l *StraightLine) Speed() float64 { return l.speed }

func (l *StraightLine) PointAtTime(t float64) r3.Vec {
	return r3.Add(l.Origin, r3.Scale(l.speed*t, l.UDir))
}

// TimeAtZ returns +Inf when the line never reaches z.
func (l *StraightLine) TimeAtZ(z float64) float64 {
	return timeAtZ(l.Origin.Z, l.speed*l.UDir.Z, z)
}

func (l *StraightLine) DeltaT(length float64) float64 { return deltaT(l.speed, length) }

func timeAtZ(z0, vz, z float64) float64 {
	if vz == 0 {
		return math.Inf(1)
	}
	return (z - z0) / vz
}

func deltaT(speed, length float64) float64 {
	if speed == 0 {
		return math.Inf(1)
	}
	return length / speed
}

// Helix is the trajectory of a charged particle in a uniform field along
// z. In the transverse plane it is a circle of radius Rho around
// CenterXY, travelled at angular frequency Omega, whose sign follows the
// charge.
type Helix struct {
	Charge float64
	Origin r3.Vec
	UDir   r3.Vec

	Rho        float64
	Omega      float64 // rad/s
	VOverOmega r3.Vec

	CenterXY       r3.Vec
	ExtremePointXY r3.Vec // farthest point of the circle from the z axis
	Phi0           float64

	speed float64
}

func NewHelix(field, charge float64, p4 fmom.PxPyPzE, origin r3.Vec) *Helix {
	mom := r3.Vec{X: p4.Px(), Y: p4.Py(), Z: p4.Pz()}
	pt := perp(mom)
	qB := charge * field

	h := &Helix{
		Charge: charge,
		Origin: origin,
		UDir:   unit(mom),
		Rho:    pt / math.Abs(qB) * 1e9 / speedOfLight,
		Omega:  qB * speedOfLight * speedOfLight / (p4.E() * 1e9),
		// v/omega, signed so that the initial velocity is along p
		VOverOmega: r3.Scale(1e9/(qB*speedOfLight), mom),
		speed:      velocity(&p4),
	}

	var momPerp r3.Vec
	if pt > 0 {
		momPerp = r3.Vec{X: -mom.Y / pt, Y: mom.X / pt}
	}
	originXY := r3.Vec{X: origin.X, Y: origin.Y}
	h.CenterXY = r3.Sub(originXY, r3.Scale(math.Copysign(h.Rho, charge), momPerp))

	h.ExtremePointXY = r3.Vec{X: h.Rho}
	if h.CenterXY.X != 0 || h.CenterXY.Y != 0 {
		h.ExtremePointXY = r3.Add(h.CenterXY, r3.Scale(h.Rho, unit(h.CenterXY)))
	}

	centerToOrigin := r3.Sub(originXY, h.CenterXY)
	h.Phi0 = math.Atan2(centerToOrigin.Y, centerToOrigin.X)
	return h
}

func (h *Helix) Speed() float64 { return h.speed }

func (h *Helix) PointAtTime(t float64) r3.Vec {
	wt := h.Omega * t
	sin, cos := math.Sincos(wt)
	return r3.Vec{
		X: h.Origin.X + h.VOverOmega.Y*(1-cos) + h.VOverOmega.X*sin,
		Y: h.Origin.Y - h.VOverOmega.X*(1-cos) + h.VOverOmega.Y*sin,
		Z: h.Origin.Z + h.speed*h.UDir.Z*t,
	}
}

func (h *Helix) TimeAtZ(z float64) float64 {
	return timeAtZ(h.Origin.Z, h.speed*h.UDir.Z, z)
}

func (h *Helix) DeltaT(length float64) float64 { return deltaT(h.speed, length) }

// timeAtRadius returns the first time the transverse projection crosses
// the circle of radius rad around the z axis.
func (h *Helix) timeAtRadius(rad float64) (float64, bool) {
	d := perp(h.CenterXY)
	if d == 0 || h.Omega == 0 {
		return 0, false
	}

	// intersection of the trajectory circle with the cylinder circle
	a := (rad*rad - h.Rho*h.Rho + d*d) / (2 * d)
	h2 := rad*rad - a*a
	if h2 < 0 {
		return 0, false
	}
	hh := math.Sqrt(h2)
	base := r3.Scale(a/d, h.CenterXY)
	normal := r3.Vec{X: -h.CenterXY.Y / d, Y: h.CenterXY.X / d}

	best := math.Inf(1)
	for _, sign := range []float64{1, -1} {
		pt := r3.Add(base, r3.Scale(sign*hh, normal))
		rel := r3.Sub(pt, h.CenterXY)
		phi := math.Atan2(rel.Y, rel.X)
		// the phase decreases as omega*t
		dphi := math.Mod((h.Phi0-phi)*math.Copysign(1, h.Omega), 2*math.Pi)
		if dphi < 0 {
			dphi += 2 * math.Pi
		}
		if t := dphi / math.Abs(h.Omega); t < best {
			best = t
		}
	}
	return best, true
}
