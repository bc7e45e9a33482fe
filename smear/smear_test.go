package smear

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"
)

func TestZeroResolutionIsIdentity(t *testing.T) {
	s := New(1)
	v := r3.Vec{X: 1, Y: -2, Z: 3}
	assert.Equal(t, v, s.Vec(v, Resolution{}))
	assert.Equal(t, 5.0, s.Gauss(5, -1))
}

func TestSmearingWidth(t *testing.T) {
	s := New(1234)
	res := Resolution{X: 0.0025, Y: 0.007, Z: 0.5}
	const n = 20000

	xs := make([]float64, n)
	ys := make([]float64, n)
	zs := make([]float64, n)
	for i := 0; i < n; i++ {
		v := s.Vertex(r3.Vec{X: 1, Y: 2, Z: 3}, res)
		xs[i], ys[i], zs[i] = v.X, v.Y, v.Z
	}

	for _, tc := range []struct {
		vals        []float64
		mean, sigma float64
	}{
		{xs, 1, res.X},
		{ys, 2, res.Y},
		{zs, 3, res.Z},
	} {
		mean, std := stat.MeanStdDev(tc.vals, nil)
		assert.InDelta(t, tc.mean, mean, 5*tc.sigma/math.Sqrt(n))
		assert.InDelta(t, tc.sigma, std, 0.05*tc.sigma)
	}
}

func TestSeedReproducible(t *testing.T) {
	a, b := New(99), New(99)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Gauss(0, 1), b.Gauss(0, 1))
	}
}
