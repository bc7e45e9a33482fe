package fastsim

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrNoIntersection is returned when a particle never reaches a cylinder.
var ErrNoIntersection = errors.New("fastsim: no intersection with cylinder")

// Info describes how a particle reached a cylinder.
type Info struct {
	IsPositive bool // moving towards positive z
	IsLooper   bool // curls up before reaching the barrel
}

// Propagator moves a particle to a cylinder, recording the
// intersection point in ptc.Points and the trajectory in ptc.Path.
type Propagator interface {
	PropagateOne(ptc *Particle, cyl Cylinder, field float64) (Info, error)
}

// Propagate transports ptc to each of cyls in turn. Cylinders the
// particle never reaches are skipped.
func Propagate(prop Propagator, ptc *Particle, cyls []Cylinder, field float64) error {
	for _, cyl := range cyls {
		if _, err := prop.PropagateOne(ptc, cyl, field); err != nil && !errors.Is(err, ErrNoIntersection) {
			return err
		}
	}
	return nil
}

func record(ptc *Particle, cyl Cylinder, p r3.Vec, t float64) {
	ptc.Points[cyl.Name] = p
	ptc.Times[cyl.Name] = t
}

// StraightLinePropagator is used for neutral particles; the field is
// ignored.
type StraightLinePropagator struct{}

func (StraightLinePropagator) PropagateOne(ptc *Particle, cyl Cylinder, _ float64) (Info, error) {
	mom := ptc.Mom()
	info := Info{IsPositive: mom.Z > 0}
	if r3.Norm(mom) == 0 {
		return info, ErrNoIntersection
	}
	line := NewStraightLine(ptc.P4, ptc.Vertex)
	ptc.Path = line
	udir, origin := line.UDir, line.Origin

	if udir.Z != 0 {
		destZ := math.Copysign(cyl.Z, udir.Z)
		length := (destZ - origin.Z) / udir.Z
		if length < 0 {
			return info, ErrNoIntersection
		}
		dest := r3.Add(origin, r3.Scale(length, udir))
		if perp(dest) <= cyl.Rad {
			record(ptc, cyl, dest, line.DeltaT(length))
			return info, nil
		}
	}

	// barrel: |origin_xy + k udir_xy| = rad
	a := udir.X*udir.X + udir.Y*udir.Y
	if a == 0 {
		return info, ErrNoIntersection
	}
	b := 2 * (udir.X*origin.X + udir.Y*origin.Y)
	c := origin.X*origin.X + origin.Y*origin.Y - cyl.Rad*cyl.Rad
	delta := b*b - 4*a*c
	if delta < 0 {
		return info, ErrNoIntersection
	}
	k := (-b + math.Sqrt(delta)) / (2 * a)
	if k < 0 {
		return info, ErrNoIntersection
	}
	record(ptc, cyl, r3.Add(origin, r3.Scale(k, udir)), line.DeltaT(k))
	return info, nil
}

// HelixPropagator is used for charged particles in a solenoidal field.
type HelixPropagator struct{}

func (HelixPropagator) PropagateOne(ptc *Particle, cyl Cylinder, field float64) (Info, error) {
	mom := ptc.Mom()
	info := Info{IsPositive: mom.Z > 0}
	if r3.Norm(mom) == 0 || field == 0 || !ptc.IsCharged() {
		return StraightLinePropagator{}.PropagateOne(ptc, cyl, field)
	}
	helix := NewHelix(field, ptc.Charge, ptc.P4, ptc.Vertex)
	ptc.Path = helix
	info.IsLooper = perp(helix.ExtremePointXY) < cyl.Rad

	if !info.IsLooper {
		if t, ok := helix.timeAtRadius(cyl.Rad); ok {
			if dest := helix.PointAtTime(t); math.Abs(dest.Z) <= cyl.Z {
				record(ptc, cyl, dest, t)
				return info, nil
			}
		}
	}

	if helix.UDir.Z == 0 {
		return info, ErrNoIntersection
	}
	t := helix.TimeAtZ(math.Copysign(cyl.Z, helix.UDir.Z))
	if t < 0 || math.IsInf(t, 0) {
		return info, ErrNoIntersection
	}
	record(ptc, cyl, helix.PointAtTime(t), t)
	return info, nil
}
