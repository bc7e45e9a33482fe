package input

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/proio-org/go-proio"
	"github.com/proio-org/go-proio-pb/model/eic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/decibelcooper/fccbana/mc"
)

func f32(v float32) *float32 { return &v }
func f64(v float64) *float64 { return &v }
func i32(v int32) *int32     { return &v }

func eicParticle(pdg int32, charge, mass, pz float32, z float64) *eic.Particle {
	return &eic.Particle{
		Pdg:    i32(pdg),
		Charge: f32(charge),
		Mass:   f32(mass),
		P:      &eic.XYZF{X: f32(0), Y: f32(0.5), Z: f32(pz)},
		Vertex: &eic.XYZTD{X: f64(0), Y: f64(0), Z: f64(z), T: f64(0)},
	}
}

// pushDecay writes one B0 -> pi+ pi- event plus a photon under another tag.
func pushDecay(t *testing.T, w *proio.Writer) {
	t.Helper()
	event := proio.NewEvent()
	b := eicParticle(mc.B0, 0, 5.279, 20, 0)
	piPlus := eicParticle(mc.PiPlus, 1, 0.1396, 10, 3)
	piMinus := eicParticle(mc.PiMinus, -1, 0.1396, 10, 3)

	bID := event.AddEntry("Particle", b)
	ids := event.AddEntries("Particle", piPlus, piMinus)
	b.Child = ids
	piPlus.Parent = []uint64{bID}
	piMinus.Parent = []uint64{bID}
	event.AddEntry("Reco", eicParticle(mc.Photon, 0, 0, 5, 0))

	require.NoError(t, w.Push(event))
}

// writeProio writes nEvents decays per bucket.
func writeProio(t *testing.T, path string, buckets ...int) {
	t.Helper()
	w, err := proio.Create(path)
	require.NoError(t, err)
	for _, nEvents := range buckets {
		for i := 0; i < nEvents; i++ {
			pushDecay(t, w)
		}
		require.NoError(t, w.Flush())
	}
	require.NoError(t, w.Close())
}

func TestOpenProio(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decays.proio")
	writeProio(t, path, 5)

	r, err := Open(path, DefaultOptions())
	require.NoError(t, err)
	defer r.Close()

	n := 0
	for r.Next() {
		evt := r.Event()
		assert.Equal(t, int64(n), evt.Number)
		require.Len(t, evt.Particles, 3)

		b := evt.Particles[0]
		assert.Equal(t, mc.B0, b.PDG)
		require.Len(t, b.Children, 2)
		assert.Equal(t, mc.PiPlus, b.Children[0].PDG)
		assert.Equal(t, -1., b.Children[1].Charge)
		assert.Same(t, b.End, b.Children[0].Start)
		assert.InDelta(t, 3, mc.Distance(b.Start, b.End), 1e-9)
		n++
	}
	assert.NoError(t, r.Err())
	assert.Equal(t, 5, n)
	assert.NoError(t, r.Close())
}

func TestOpenProioCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.proio")
	writeProio(t, path, 4, 6)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	magic := data[:16]
	i := bytes.Index(data[len(magic):], magic)
	require.GreaterOrEqual(t, i, 0, "second bucket")
	header := len(magic) + i + len(magic)
	size := int(binary.LittleEndian.Uint32(data[header : header+4]))
	for k := header + 4; k < header+4+size; k++ {
		data[k] = 0xff
	}
	require.NoError(t, os.WriteFile(path, data, 0o644))

	r, err := OpenProio(path, "Particle")
	require.NoError(t, err)
	defer r.Close()

	n := 0
	for r.Next() {
		n++
	}
	assert.Equal(t, 4, n)
	assert.Error(t, r.Err())
}

func TestFromProioDropsForeignChild(t *testing.T) {
	b := eicParticle(mc.B0, 0, 5.279, 20, 0)
	pi := eicParticle(mc.PiPlus, 1, 0.1396, 10, 3)
	b.Child = []uint64{2, 9}
	parts := map[uint64]*eic.Particle{1: b, 2: pi}

	evt, err := FromProio(3, []uint64{1, 2}, parts)
	require.NoError(t, err)
	require.Len(t, evt.Particles, 2)
	assert.Equal(t, int64(3), evt.Number)
	assert.Equal(t, []*mc.Particle{evt.Particles[1]}, evt.Particles[0].Children)
	assert.InDelta(t, 0.1396, evt.Particles[1].Mass, 1e-6)
}

func TestStreamMergesFiles(t *testing.T) {
	dir := t.TempDir()
	a, b := filepath.Join(dir, "a.proio"), filepath.Join(dir, "b.proio")
	writeProio(t, a, 3)
	writeProio(t, b, 4)

	events, wait := Stream(context.Background(), []string{a, b}, DefaultOptions(), 2, zaptest.NewLogger(t))
	n := 0
	for evt := range events {
		assert.Len(t, evt.Particles, 3)
		n++
	}
	require.NoError(t, wait())
	assert.Equal(t, 7, n)
}

func TestStreamCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "many.proio")
	writeProio(t, path, 300)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, wait := Stream(ctx, []string{path}, DefaultOptions(), 1, nil)

	n := 0
	for range events {
		if n++; n == 1 {
			cancel()
		}
	}
	assert.Less(t, n, 300)
	assert.True(t, errors.Is(wait(), context.Canceled))
}
