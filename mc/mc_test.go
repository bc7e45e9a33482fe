package mc

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderVertices(t *testing.T) {
	b := NewBuilder()
	b.Add(1, B0, 0, 5.279, [3]float64{0, 0, 30}, [3]float64{0, 0, 0})
	b.Add(2, KStar0, 0, 0.896, [3]float64{0, 1, 10}, [3]float64{0, 0, 2})
	b.Add(3, TauPlus, 1, 1.777, [3]float64{0, -1, 10}, [3]float64{0, 0, 2})
	b.Add(4, PiPlus, 1, 0.1396, [3]float64{1, 0, 5}, [3]float64{0, 0.1, 3})
	b.Add(5, Photon, 0, 0, [3]float64{1, 0, 0}, [3]float64{0, 0, 0})
	b.Link(1, 2)
	b.Link(1, 3)
	b.Link(1, 3)
	b.Link(3, 4)

	evt, err := b.Build(42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), evt.Number)
	require.Len(t, evt.Particles, 5)

	bm, kst, tau, pi, gamma := evt.Particles[0], evt.Particles[1], evt.Particles[2], evt.Particles[3], evt.Particles[4]

	assert.Same(t, bm.Start, gamma.Start, "primaries at the same point share a vertex")
	assert.Same(t, bm.End, kst.Start)
	assert.Same(t, bm.End, tau.Start)
	assert.Same(t, tau.End, pi.Start)
	assert.Nil(t, pi.End)
	assert.Len(t, bm.Children, 2, "duplicate links are ignored")

	assert.True(t, bm.Decayed())
	assert.False(t, pi.Decayed())
	assert.InDelta(t, 2.0, Distance(bm.Start, bm.End), 1e-12)
	assert.InDelta(t, 30.0, bm.P(), 1e-12)
	assert.InDelta(t, math.Sqrt(900+5.279*5.279), bm.P4.E(), 1e-9)

	assert.Equal(t, []*Particle{kst, tau}, evt.ProducedAt(bm.End))
	assert.Nil(t, evt.ProducedAt(nil))
	assert.Len(t, evt.Vertices, 3)
}

func TestBuilderErrors(t *testing.T) {
	b := NewBuilder()
	b.Add(1, B0, 0, 5.279, [3]float64{}, [3]float64{})
	b.Add(1, B0, 0, 5.279, [3]float64{}, [3]float64{})
	_, err := b.Build(0)
	assert.True(t, errors.Is(err, ErrDuplicateKey))

	b = NewBuilder()
	b.Add(1, B0, 0, 5.279, [3]float64{}, [3]float64{})
	b.Link(1, 7)
	_, err = b.Build(0)
	assert.True(t, errors.Is(err, ErrUnknownKey))
}

func TestOscillation(t *testing.T) {
	b := NewBuilder()
	b.Add(1, B0, 0, 5.279, [3]float64{0, 0, 30}, [3]float64{})
	b.Add(2, -B0, 0, 5.279, [3]float64{0, 0, 30}, [3]float64{0, 0, 1})
	b.Add(3, KStar0, 0, 0.896, [3]float64{0, 0, 10}, [3]float64{0, 0, 3})
	b.Link(1, 2)
	b.Link(2, 3)
	evt, err := b.Build(0)
	require.NoError(t, err)

	assert.True(t, evt.Particles[0].Oscillates())
	assert.False(t, evt.Particles[1].Oscillates())
}

func TestLookup(t *testing.T) {
	for _, tc := range []struct {
		pdg    int
		name   string
		charge float64
	}{
		{PiPlus, "pi+", 1},
		{PiMinus, "pi-", -1},
		{TauPlus, "tau+", 1},
		{KStar0, "K*0", 0},
		{AntiKStar0, "anti-K*0", 0},
		{DsMinus, "D_s-", -1},
	} {
		info, ok := Lookup(tc.pdg)
		require.True(t, ok, "pdg %d", tc.pdg)
		assert.Equal(t, tc.name, info.Name)
		assert.Equal(t, tc.charge, info.Charge)
	}

	_, ok := Lookup(999999)
	assert.False(t, ok)
}
