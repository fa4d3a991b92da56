package dssim_test

import (
	"bytes"
	"errors"
	"image"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xswordsx/dssim"
)

func TestCompareBatchMatchesCompare(t *testing.T) {
	base := texture(64, 48)
	candidates := []image.Image{
		withNoise(base, 4),
		withNoise(base, 24),
		base,
		withNoise(base, 12),
	}

	args := dssim.DefaultParameters
	args.Workers = 3
	results, err := dssim.CompareBatch(base, candidates, args, nil)
	require.NoError(t, err)
	require.Len(t, results, len(candidates))

	for i, candidate := range candidates {
		want := compare(t, base, candidate, args)
		require.NoError(t, results[i].Err, "candidate %d", i)
		assert.Equal(t, want.Score, results[i].Score, "candidate %d", i)
		assert.Equal(t, want.Similarity, results[i].Similarity, "candidate %d", i)
	}
	assert.Equal(t, 0.0, results[2].Score)
	assert.Greater(t, results[1].Score, results[3].Score)
}

func TestBatchIsolatesFailures(t *testing.T) {
	base := texture(32, 32)
	candidates := []image.Image{
		withNoise(base, 8),
		texture(32, 31),
		nil,
		withNoise(base, 16),
	}

	var verbose bytes.Buffer
	b := dssim.Batch{
		Params:  dssim.DefaultParameters,
		Names:   []string{"a.png", "b.png"},
		Verbose: &verbose,
	}
	results, err := b.Run(base, candidates)
	require.NoError(t, err)

	assert.NoError(t, results[0].Err)
	assert.Greater(t, results[0].Score, 0.0)
	assert.NoError(t, results[3].Err)
	assert.Greater(t, results[3].Score, results[0].Score)

	var pairErr *dssim.PairError
	require.True(t, errors.As(results[1].Err, &pairErr))
	assert.Equal(t, 1, pairErr.Index)
	assert.Equal(t, "b.png", pairErr.Name)
	assert.ErrorIs(t, results[1].Err, dssim.ErrDimensionMismatch)
	assert.Equal(t, "DimensionMismatch", dssim.Kind(results[1].Err))
	assert.Equal(t, dssim.Result{}, results[1].Result)

	require.True(t, errors.As(results[2].Err, &pairErr))
	assert.Equal(t, 2, pairErr.Index)
	assert.ErrorIs(t, results[2].Err, dssim.ErrEmptyImage)
	assert.Contains(t, results[2].Err.Error(), "candidate #2")

	assert.Contains(t, verbose.String(), "Pair 1 failed")
	assert.Contains(t, verbose.String(), "Pair 2 failed")
	assert.NotContains(t, verbose.String(), "Pair 0 failed")
}

func TestBatchEmptyBase(t *testing.T) {
	empty := image.NewNRGBA(image.Rect(0, 0, 0, 0))
	results, err := dssim.CompareBatch(empty, []image.Image{texture(8, 8), texture(4, 4)}, dssim.DefaultParameters, nil)
	require.NoError(t, err)
	for _, res := range results {
		assert.ErrorIs(t, res.Err, dssim.ErrEmptyImage)
	}
}

func TestBatchProgress(t *testing.T) {
	base := texture(24, 24)
	candidates := make([]image.Image, 7)
	for i := range candidates {
		candidates[i] = withNoise(base, float64(i+1))
	}

	var (
		mu   sync.Mutex
		seen = map[int]float64{}
	)
	b := dssim.Batch{
		Params: dssim.DefaultParameters,
		Progress: func(i int, res dssim.BatchResult) {
			mu.Lock()
			defer mu.Unlock()
			seen[i] = res.Score
		},
	}
	results, err := b.Run(base, candidates)
	require.NoError(t, err)

	require.Len(t, seen, len(candidates))
	for i, res := range results {
		assert.Equal(t, res.Score, seen[i])
	}
}

func TestBatchInvalidParameters(t *testing.T) {
	args := dssim.DefaultParameters
	args.ColorSpace = "cmyk"
	_, err := dssim.CompareBatch(texture(8, 8), []image.Image{texture(8, 8)}, args, nil)
	assert.ErrorContains(t, err, "unknown color space")

	results, err := dssim.CompareBatch(texture(8, 8), nil, dssim.DefaultParameters, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}
