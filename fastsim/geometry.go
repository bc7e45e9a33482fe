// Package fastsim is a simplified detector simulation: particles are
// transported along straight lines or helices through concentric
// cylindrical detector volumes, deposit clusters in the calorimeters and
// leave tracks in the tracker, and the detector response is smeared
// according to each element's resolution.
//
// Lengths are in m, energies and momenta in GeV, times in s and magnetic
// fields in T.
package fastsim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const speedOfLight = 299792458. // m/s

// Cylinder is a closed cylinder centred on the origin, aligned with z,
// with radius Rad and half-length Z.
type Cylinder struct {
	Name string
	Rad  float64
	Z    float64
}

func (c Cylinder) contains(p r3.Vec) bool {
	return perp(p) < c.Rad && math.Abs(p.Z) < c.Z
}

// VolumeCylinder is the space between two cylinders.
type VolumeCylinder struct {
	Name  string
	Outer Cylinder
	Inner Cylinder
}

// NewVolumeCylinder builds the volume named name between an inner
// cylinder (radin, zin) and an outer one (rad, z). A zero inner cylinder
// makes a full cylinder.
func NewVolumeCylinder(name string, rad, z, radin, zin float64) (VolumeCylinder, error) {
	if rad <= 0 || z <= 0 {
		return VolumeCylinder{}, fmt.Errorf("fastsim: volume %s: outer cylinder must have positive size", name)
	}
	if radin < 0 || zin < 0 || radin >= rad || zin >= z {
		return VolumeCylinder{}, fmt.Errorf("fastsim: volume %s: inner cylinder (%v, %v) not inside outer (%v, %v)", name, radin, zin, rad, z)
	}
	return VolumeCylinder{
		Name:  name,
		Outer: Cylinder{Name: name + "_out", Rad: rad, Z: z},
		Inner: Cylinder{Name: name + "_in", Rad: radin, Z: zin},
	}, nil
}

func mustVolume(name string, rad, z, radin, zin float64) VolumeCylinder {
	v, err := NewVolumeCylinder(name, rad, z, radin, zin)
	if err != nil {
		panic(err)
	}
	return v
}

// Contains reports whether p lies inside the outer cylinder and outside
// the inner one.
func (v VolumeCylinder) Contains(p r3.Vec) bool {
	return v.Outer.contains(p) && !v.Inner.contains(p)
}

func perp(v r3.Vec) float64 {
	return math.Hypot(v.X, v.Y)
}

func theta(v r3.Vec) float64 {
	return math.Atan2(perp(v), v.Z)
}

// eta is the pseudorapidity of the direction of v.
func eta(v r3.Vec) float64 {
	pt := perp(v)
	if pt == 0 {
		switch {
		case v.Z > 0:
			return math.Inf(1)
		case v.Z < 0:
			return math.Inf(-1)
		}
		return 0
	}
	return math.Asinh(v.Z / pt)
}

func unit(v r3.Vec) r3.Vec {
	if n := r3.Norm(v); n > 0 {
		return r3.Scale(1/n, v)
	}
	return r3.Vec{}
}
