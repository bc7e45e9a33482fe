package input

import (
	"fmt"

	"go-hep.org/x/hep/lcio"

	"github.com/decibelcooper/fccbana/mc"
)

type lcioReader struct {
	r          *lcio.Reader
	collection string
	evt        *mc.Event
	err        error
}

func OpenLCIO(path, collection string) (Reader, error) {
	r, err := lcio.Open(path)
	if err != nil {
		return nil, err
	}
	return &lcioReader{r: r, collection: collection}, nil
}

func (r *lcioReader) Next() bool {
	if r.err != nil {
		return false
	}
	for r.r.Next() {
		event := r.r.Event()
		coll, ok := event.Get(r.collection).(*lcio.McParticleContainer)
		if !ok {
			continue
		}

		r.evt, r.err = FromLCIO(int64(event.EventNumber), coll.Particles)
		return r.err == nil
	}
	return false
}

func (r *lcioReader) Event() *mc.Event { return r.evt }

func (r *lcioReader) Err() error {
	if r.err != nil {
		return r.err
	}
	return r.r.Err()
}

func (r *lcioReader) Close() error { return r.r.Close() }

// FromLCIO converts an LCIO MC particle collection. Particles are keyed
// by their position in the collection.
func FromLCIO(number int64, parts []lcio.McParticle) (*mc.Event, error) {
	index := make(map[*lcio.McParticle]uint64, len(parts))
	for i := range parts {
		index[&parts[i]] = uint64(i)
	}

	b := mc.NewBuilder()
	for i := range parts {
		part := &parts[i]
		b.Add(uint64(i), int(part.PDG), float64(part.Charge), part.Mass, part.P, part.Vertex)
	}
	for i := range parts {
		for _, child := range parts[i].Children {
			j, ok := index[child]
			if !ok {
				return nil, fmt.Errorf("input: event %d: daughter of particle %d outside collection", number, i)
			}
			b.Link(uint64(i), j)
		}
	}

	return b.Build(number)
}
