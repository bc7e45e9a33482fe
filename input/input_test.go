package input

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-hep.org/x/hep/lcio"

	"github.com/decibelcooper/fccbana/mc"
)

func TestFromLCIO(t *testing.T) {
	parts := make([]lcio.McParticle, 4)
	parts[0] = lcio.McParticle{PDG: mc.B0, Mass: 5.279, P: [3]float64{0, 0, 40}}
	parts[1] = lcio.McParticle{PDG: mc.TauPlus, Charge: 1, Mass: 1.777, P: [3]float64{0, 1, 20}, Vertex: [3]float64{0, 0, 3}}
	parts[2] = lcio.McParticle{PDG: mc.TauMinus, Charge: -1, Mass: 1.777, P: [3]float64{0, -1, 20}, Vertex: [3]float64{0, 0, 3}}
	parts[3] = lcio.McParticle{PDG: mc.PiPlus, Charge: 1, Mass: 0.1396, P: [3]float64{1, 0, 10}, Vertex: [3]float64{0, 0.5, 4}}
	parts[0].Children = []*lcio.McParticle{&parts[1], &parts[2]}
	parts[1].Parents = []*lcio.McParticle{&parts[0]}
	parts[1].Children = []*lcio.McParticle{&parts[3]}
	parts[2].Parents = []*lcio.McParticle{&parts[0]}
	parts[3].Parents = []*lcio.McParticle{&parts[1]}

	evt, err := FromLCIO(7, parts)
	require.NoError(t, err)
	require.Len(t, evt.Particles, 4)
	assert.Equal(t, int64(7), evt.Number)

	b, tauPlus, tauMinus, pi := evt.Particles[0], evt.Particles[1], evt.Particles[2], evt.Particles[3]
	assert.Equal(t, mc.B0, b.PDG)
	assert.Same(t, b.End, tauPlus.Start)
	assert.Same(t, b.End, tauMinus.Start)
	assert.Same(t, tauPlus.End, pi.Start)
	assert.InDelta(t, 3.0, mc.Distance(b.Start, b.End), 1e-12)
	assert.Equal(t, -1.0, tauMinus.Charge)
	assert.Equal(t, []*mc.Particle{pi}, evt.ProducedAt(tauPlus.End))
}

func TestFromLCIOForeignDaughter(t *testing.T) {
	stray := lcio.McParticle{PDG: mc.Photon}
	parts := []lcio.McParticle{{PDG: mc.B0, Children: []*lcio.McParticle{&stray}}}

	_, err := FromLCIO(0, parts)
	assert.Error(t, err)
}

func TestOpenUnknownFormat(t *testing.T) {
	_, err := Open("events.txt", DefaultOptions())
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestStreamPropagatesErrors(t *testing.T) {
	events, wait := Stream(context.Background(), []string{"a.txt", "b.dat"}, DefaultOptions(), 2, nil)

	n := 0
	for range events {
		n++
	}
	assert.Zero(t, n)
	assert.True(t, errors.Is(wait(), ErrUnknownFormat))
}

func TestStreamNoFiles(t *testing.T) {
	events, wait := Stream(context.Background(), nil, DefaultOptions(), 0, nil)
	for range events {
		t.Fatal("unexpected event")
	}
	assert.NoError(t, wait())
}
