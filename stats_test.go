package dssim

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomPlane(rng *rand.Rand, w, h int) *Plane {
	p := NewPlane(w, h)
	for i := range p.Pix {
		p.Pix[i] = rng.Float64()
	}
	return p
}

func TestComputeStatsIdenticalPlanes(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	a := randomPlane(rng, 20, 13)
	b := a.Clone()

	st := computeStats(a, b, gaussianKernel(1.5), newArena(a.Width, a.Height))
	assert.Equal(t, st.muA.Pix, st.muB.Pix)
	assert.Equal(t, st.varA.Pix, st.varB.Pix)
	assert.Equal(t, st.varA.Pix, st.covAB.Pix)

	ssim := NewPlane(a.Width, a.Height)
	ssimMap(st, ssim)
	for i, v := range ssim.Pix {
		require.Equal(t, 1.0, v, "sample %d", i)
	}
	assert.Equal(t, 1.0, mapMean(ssim))
}

func TestComputeStatsConstantPlanes(t *testing.T) {
	a := NewPlane(9, 9)
	b := NewPlane(9, 9)
	for i := range a.Pix {
		a.Pix[i] = 0.2
		b.Pix[i] = 0.6
	}

	st := computeStats(a, b, gaussianKernel(1.5), newArena(9, 9))
	for i := range a.Pix {
		require.InDelta(t, 0.2, st.muA.Pix[i], 1e-12)
		require.InDelta(t, 0.6, st.muB.Pix[i], 1e-12)
		require.InDelta(t, 0, st.varA.Pix[i], 1e-12)
		require.InDelta(t, 0, st.covAB.Pix[i], 1e-12)
	}

	// Flat planes only differ in luminance.
	ssim := NewPlane(9, 9)
	ssimMap(st, ssim)
	want := (2*0.2*0.6 + c1) / (0.2*0.2 + 0.6*0.6 + c1)
	for _, v := range ssim.Pix {
		require.InDelta(t, want, v, 1e-9)
	}
}

func TestComputeStatsInvertedPlane(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	a := randomPlane(rng, 24, 24)
	b := NewPlane(24, 24)
	for i, v := range a.Pix {
		b.Pix[i] = 1 - v
	}

	st := computeStats(a, b, gaussianKernel(1.5), newArena(24, 24))
	for i := range a.Pix {
		require.InDelta(t, -st.varA.Pix[i], st.covAB.Pix[i], 1e-12)
	}

	ssim := NewPlane(24, 24)
	ssimMap(st, ssim)
	assert.Less(t, mapMean(ssim), 0.0)
}

func TestComputeStatsPanicsOnSizeMismatch(t *testing.T) {
	a := NewPlane(4, 4)
	b := NewPlane(4, 5)
	assert.Panics(t, func() {
		computeStats(a, b, gaussianKernel(1.5), newArena(4, 4))
	})
}

func TestArenaPlanesDoNotOverlap(t *testing.T) {
	ws := newArena(3, 2)
	bufs := [][]float64{ws.prod, ws.tmp, ws.muA, ws.muB, ws.sumAA, ws.sumBB, ws.sumAB}
	for i, buf := range bufs {
		require.Len(t, buf, 6)
		require.Equal(t, 6, cap(buf), "buffer %d can grow into its neighbour", i)
		for j := range buf {
			buf[j] = float64(i)
		}
	}
	for i, buf := range bufs {
		for _, v := range buf {
			assert.Equal(t, float64(i), v)
		}
	}
}

func TestSSIMMapIsSymmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	a := randomPlane(rng, 15, 11)
	b := randomPlane(rng, 15, 11)
	k := gaussianKernel(1.5)

	ab := NewPlane(15, 11)
	ssimMap(computeStats(a, b, k, newArena(15, 11)), ab)
	ba := NewPlane(15, 11)
	ssimMap(computeStats(b, a, k, newArena(15, 11)), ba)

	for i := range ab.Pix {
		require.InDelta(t, ab.Pix[i], ba.Pix[i], 1e-12)
		require.False(t, math.IsNaN(ab.Pix[i]))
		require.LessOrEqual(t, ab.Pix[i], 1.0+1e-12)
	}
}
