package dssim

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The binary identical shortcut hides the numeric path, so identical
// inputs are converted and compared here directly.
func TestCompareSidesIdentical(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 37, 29))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 7)
	}

	args := DefaultParameters
	args.DiffMap = true
	cfg := testConfig(t, args)

	a, err := convertSide(cfg, img, 2)
	require.NoError(t, err)
	b, err := convertSide(cfg, img, 3)
	require.NoError(t, err)
	require.Equal(t, 3, a.levels)

	res, err := compareSides(cfg, a, b, 4)
	require.NoError(t, err)
	assert.InDelta(t, 0, res.Score, 1e-12)
	for level, sim := range res.Similarity {
		assert.Equal(t, []float64{1, 1, 1}, sim, "level %d", level)
	}
	for _, v := range res.DiffMap.Pix {
		require.InDelta(t, 0, v, 1e-12)
	}
}

func TestConvertSideSkipsZeroWeightChannels(t *testing.T) {
	args := DefaultParameters
	args.ChannelWeights = []float64{1, 0, 1}
	cfg := testConfig(t, args)

	s, err := convertSide(cfg, image.NewGray(image.Rect(0, 0, 16, 16)), 1)
	require.NoError(t, err)
	assert.NotNil(t, s.pyramids[0])
	assert.Nil(t, s.pyramids[1])
	assert.NotNil(t, s.pyramids[2])
	assert.Len(t, s.pyramids[2].levels, s.levels)
}

func TestBinaryIdentical(t *testing.T) {
	a := image.NewNRGBA(image.Rect(0, 0, 3, 3))
	b := image.NewNRGBA(image.Rect(5, 5, 8, 8))
	assert.True(t, binaryIdentical(a, b))

	b.SetNRGBA(7, 7, color.NRGBA{0, 0, 0, 1})
	assert.False(t, binaryIdentical(a, b))
}

func TestIdenticalResult(t *testing.T) {
	args := DefaultParameters
	args.LuminanceOnly = true
	args.DiffMap = true
	cfg := testConfig(t, args)

	res := identicalResult(cfg, image.Pt(64, 8))
	assert.Equal(t, 2, res.Levels)
	assert.Equal(t, 0.0, res.Score)
	assert.Equal(t, 1.0, res.Similarity[1][0])
	assert.NotEqual(t, res.Similarity[1][1], res.Similarity[1][1])
	assert.Equal(t, 64, res.DiffMap.Width)
}
