package input

import (
	"errors"
	"io"

	"github.com/proio-org/go-proio"
	"github.com/proio-org/go-proio-pb/model/eic"

	"github.com/decibelcooper/fccbana/mc"
)

type proioReader struct {
	r      *proio.Reader
	events <-chan *proio.Event
	tag    string
	n      int64
	evt    *mc.Event
	err    error
}

func OpenProio(path, tag string) (Reader, error) {
	r, err := proio.Open(path)
	if err != nil {
		return nil, err
	}
	return &proioReader{r: r, events: r.ScanEvents(), tag: tag}, nil
}

func (r *proioReader) Next() bool {
	if r.err != nil {
		return false
	}
	event, ok := <-r.events
	if !ok {
		r.err = r.scanErr()
		return false
	}

	parts := make(map[uint64]*eic.Particle)
	var order []uint64
	for _, id := range event.TaggedEntries(r.tag) {
		part, ok := event.GetEntry(id).(*eic.Particle)
		if !ok {
			continue
		}
		parts[id] = part
		order = append(order, id)
	}

	r.evt, r.err = FromProio(r.n, order, parts)
	r.n++
	return r.err == nil
}

// scanErr returns the error that ended the scan, if any. The scan
// reports it on the reader's Err channel before closing the events, and
// io.EOF marks a complete file.
func (r *proioReader) scanErr() error {
	select {
	case err := <-r.r.Err:
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
	default:
	}
	return nil
}

func (r *proioReader) Event() *mc.Event { return r.evt }
func (r *proioReader) Err() error       { return r.err }

// Close stops the scan and waits for it to finish before closing the
// file, which also closes the Err channel the scan writes to.
func (r *proioReader) Close() error {
	r.r.StopScan()
	for range r.events {
	}
	r.r.Close()
	return nil
}

// FromProio converts proio particle entries, visited in the given order.
// Daughter links pointing at entries outside the set are dropped.
func FromProio(number int64, order []uint64, parts map[uint64]*eic.Particle) (*mc.Event, error) {
	b := mc.NewBuilder()
	for _, id := range order {
		part := parts[id]
		p := part.GetP()
		v := part.GetVertex()
		b.Add(id,
			int(part.GetPdg()),
			float64(part.GetCharge()),
			float64(part.GetMass()),
			[3]float64{float64(p.GetX()), float64(p.GetY()), float64(p.GetZ())},
			[3]float64{float64(v.GetX()), float64(v.GetY()), float64(v.GetZ())},
		)
	}
	for _, id := range order {
		for _, child := range parts[id].GetChild() {
			if _, ok := parts[child]; ok {
				b.Link(id, child)
			}
		}
	}

	return b.Build(number)
}
