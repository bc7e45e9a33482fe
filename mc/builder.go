package mc

import (
	"errors"
	"fmt"

	"go-hep.org/x/hep/fmom"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	ErrDuplicateKey = errors.New("mc: duplicate particle key")
	ErrUnknownKey   = errors.New("mc: unknown particle key")
)

// Builder assembles an Event from a flat particle record with
// parent/child links, as found in generator output files.
type Builder struct {
	parts []*Particle
	byKey map[uint64]*Particle
	prod  map[*Particle]r3.Vec
	links [][2]uint64
	err   error
}

func NewBuilder() *Builder {
	return &Builder{
		byKey: make(map[uint64]*Particle),
		prod:  make(map[*Particle]r3.Vec),
	}
}

// Add registers a particle with its momentum p (GeV) and production
// point (mm). Keys must be unique within an event.
func (b *Builder) Add(key uint64, pdg int, charge, mass float64, p, vertex [3]float64) *Particle {
	if _, dup := b.byKey[key]; dup {
		if b.err == nil {
			b.err = fmt.Errorf("%w: %d", ErrDuplicateKey, key)
		}
		return nil
	}
	ptc := &Particle{
		ID:     len(b.parts),
		PDG:    pdg,
		Charge: charge,
		Mass:   mass,
		P4:     fmom.NewPxPyPzE(p[0], p[1], p[2], energy(p, mass)),
	}
	b.parts = append(b.parts, ptc)
	b.byKey[key] = ptc
	b.prod[ptc] = r3.Vec{X: vertex[0], Y: vertex[1], Z: vertex[2]}
	return ptc
}

func (b *Builder) Link(parent, child uint64) {
	b.links = append(b.links, [2]uint64{parent, child})
}

// Build resolves links and vertices. Particles without parents start at
// a primary vertex shared by all particles produced at the same point.
// Siblings share their parent's decay vertex, which sits at the
// production point of the first child.
func (b *Builder) Build(number int64) (*Event, error) {
	if b.err != nil {
		return nil, b.err
	}

	seen := make(map[[2]uint64]bool, len(b.links))
	for _, l := range b.links {
		if seen[l] {
			continue
		}
		seen[l] = true
		parent, ok := b.byKey[l[0]]
		if !ok {
			return nil, fmt.Errorf("%w: parent %d", ErrUnknownKey, l[0])
		}
		child, ok := b.byKey[l[1]]
		if !ok {
			return nil, fmt.Errorf("%w: child %d", ErrUnknownKey, l[1])
		}
		parent.Children = append(parent.Children, child)
		child.Parents = append(child.Parents, parent)
	}

	evt := &Event{Number: number, Particles: b.parts}
	newVertex := func(pos r3.Vec) *Vertex {
		v := &Vertex{ID: len(evt.Vertices), Pos: pos}
		evt.Vertices = append(evt.Vertices, v)
		return v
	}

	primaries := make(map[r3.Vec]*Vertex)
	for _, ptc := range b.parts {
		pos := b.prod[ptc]
		if len(ptc.Parents) == 0 {
			v, ok := primaries[pos]
			if !ok {
				v = newVertex(pos)
				primaries[pos] = v
			}
			ptc.Start = v
			continue
		}

		first := ptc.Parents[0]
		if first.End == nil {
			first.End = newVertex(pos)
		}
		ptc.Start = first.End
		for _, other := range ptc.Parents[1:] {
			if other.End == nil {
				other.End = ptc.Start
			}
		}
	}

	return evt, nil
}
