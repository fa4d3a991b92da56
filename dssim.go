/*
Metric
Copyright (C) 2006-2011 Yangli Hector Yee
Copyright (C) 2011-2016 Steven Myint, Jeff Terrace
Copyright (C) 2023 Ivan Latunov

This program is free software; you can redistribute it and/or modify it under
the terms of the GNU General Public License as published by the Free Software
Foundation; either version 2 of the License, or (at your option) any later
version.

This program is distributed in the hope that it will be useful, but WITHOUT ANY
WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS FOR A
PARTICULAR PURPOSE.  See the GNU General Public License for more details.

You should have received a copy of the GNU General Public License along with
this program; if not, write to the Free Software Foundation, Inc., 59 Temple
Place, Suite 330, Boston, MA 02111-1307 USA
*/

// Package dssim scores how different two images look, using
// multi-scale structural similarity (MS-SSIM) over a luma and two chroma
// channels.
//
// The score is 1/S - 1 for the combined similarity S, so identical
// images score 0 and the score has no upper bound.
package dssim

import (
	"fmt"
	"image"
	"io"
	"math"
)

// Result is the result of a comparison between two images.
type Result struct {
	// Dissimilarity of the two images. 0 means identical.
	Score float64

	// Number of pyramid levels compared.
	Levels int

	// Mean SSIM of every level and channel, indexed [level][channel].
	// Channels left out of the comparison are NaN.
	Similarity [][]float64

	// Full resolution map of where the images differ, when
	// Parameters.DiffMap is set. Values start at 0 and grow with the
	// local difference.
	DiffMap *Plane
}

// Compare computes the dissimilarity between image_a and image_b, which
// must have the same size.
//
// Progress messages are written to output_verbose; passing nil discards
// them.
func Compare(image_a, image_b image.Image, args Parameters, output_verbose io.Writer) (Result, error) {
	cfg, err := newConfig(args)
	if err != nil {
		return Result{}, err
	}
	if output_verbose == nil {
		output_verbose = io.Discard
	}
	return compareImages(cfg, image_a, nil, image_b, cfg.workers, output_verbose)
}

// side is one image of a comparison, converted and split into
// per-channel pyramids. It is read-only once built.
type side struct {
	width, height int
	levels        int
	pyramids      [NUM_CHANNELS]*pyramid
}

func convertSide(cfg *config, img image.Image, workers int) (*side, error) {
	planes, err := cfg.converter.Convert(img)
	if err != nil {
		return nil, fmt.Errorf("convert to %s: %w", cfg.converter.Name(), err)
	}

	s := &side{width: planes[0].Width, height: planes[0].Height}
	s.levels = levelCount(s.width, s.height, cfg.maxLevels, cfg.minLevelSize)

	p := newPool(workers)
	for _, ch := range cfg.channels {
		p.Go(func() error {
			s.pyramids[ch] = newPyramid(planes[ch], s.levels)
			return nil
		})
	}
	return s, p.Wait()
}

// compareImages compares image_a against image_b. base, when not nil,
// is image_a already converted, so a batch converts its base only once.
func compareImages(cfg *config, image_a image.Image, base *side, image_b image.Image, workers int, output_verbose io.Writer) (Result, error) {
	if err := checkPair(image_a, image_b); err != nil {
		return Result{}, err
	}

	if binaryIdentical(image_a, image_b) {
		_, _ = output_verbose.Write([]byte("Images are binary identical\n"))
		return identicalResult(cfg, image_a.Bounds().Size()), nil
	}

	fmt.Fprintf(output_verbose, "Converting to %s and constructing pyramids\n", cfg.converter.Name())

	var (
		candidate *side
		errA      error
		errB      error
	)
	p := newPool(workers)
	if base == nil {
		p.Go(func() error {
			base, errA = convertSide(cfg, image_a, workers)
			return nil
		})
	}
	p.Go(func() error {
		candidate, errB = convertSide(cfg, image_b, workers)
		return nil
	})
	_ = p.Wait()
	if errA != nil {
		return Result{}, errA
	}
	if errB != nil {
		return Result{}, errB
	}

	fmt.Fprintf(output_verbose, "Computing SSIM over %d levels\n", base.levels)
	return compareSides(cfg, base, candidate, workers)
}

// unit is the output of one (level, channel) task.
type unit struct {
	mean float64
	ssim *Plane
}

// compareSides runs statistics and SSIM for every (level, channel) as
// independent tasks, then reduces their results in canonical order.
func compareSides(cfg *config, a, b *side, workers int) (Result, error) {
	units := make([][NUM_CHANNELS]unit, a.levels)

	p := newPool(workers)
	for level := 0; level < a.levels; level++ {
		for _, ch := range cfg.channels {
			p.Go(func() error {
				units[level][ch] = compareUnit(cfg, a.pyramids[ch].levels[level], b.pyramids[ch].levels[level])
				return nil
			})
		}
	}
	_ = p.Wait()

	res := Result{
		Levels:     a.levels,
		Similarity: make([][]float64, a.levels),
	}
	var maps [][]*Plane
	if cfg.diffMap {
		maps = make([][]*Plane, a.levels)
	}
	for level := range units {
		res.Similarity[level] = nanChannels()
		if maps != nil {
			maps[level] = make([]*Plane, NUM_CHANNELS)
		}
		for _, ch := range cfg.channels {
			res.Similarity[level][ch] = units[level][ch].mean
			if maps != nil {
				maps[level][ch] = units[level][ch].ssim
			}
		}
	}

	score, err := aggregate(cfg, res.Similarity)
	if err != nil {
		return Result{}, err
	}
	res.Score = score
	if maps != nil {
		res.DiffMap = renderDiffMap(cfg, maps)
	}
	return res, nil
}

func compareUnit(cfg *config, pa, pb *Plane) unit {
	ws := newArena(pa.Width, pa.Height)
	st := computeStats(pa, pb, cfg.kernel, ws)

	// Without a difference map the SSIM map is only reduced to its mean,
	// so it can live in the arena's product buffer.
	var dst *Plane
	if cfg.diffMap {
		dst = NewPlane(pa.Width, pa.Height)
	} else {
		dst = wrapPlane(ws.prod, pa.Width, pa.Height)
	}
	ssimMap(st, dst)

	u := unit{mean: mapMean(dst)}
	if cfg.diffMap {
		u.ssim = dst
	}
	return u
}

func nanChannels() []float64 {
	s := make([]float64, NUM_CHANNELS)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}

func identicalResult(cfg *config, size image.Point) Result {
	res := Result{
		Levels: levelCount(size.X, size.Y, cfg.maxLevels, cfg.minLevelSize),
	}
	res.Similarity = make([][]float64, res.Levels)
	for level := range res.Similarity {
		res.Similarity[level] = nanChannels()
		for _, ch := range cfg.channels {
			res.Similarity[level][ch] = 1
		}
	}
	if cfg.diffMap {
		res.DiffMap = NewPlane(size.X, size.Y)
	}
	return res
}

// binaryIdentical reports whether every pixel of image_a and image_b
// has the same colour. Both must have the same size.
func binaryIdentical(image_a, image_b image.Image) bool {
	a_bounds := image_a.Bounds()
	b_bounds := image_b.Bounds()
	for y := 0; y < a_bounds.Dy(); y++ {
		for x := 0; x < a_bounds.Dx(); x++ {
			ar, ag, ab, aa := image_a.At(a_bounds.Min.X+x, a_bounds.Min.Y+y).RGBA()
			br, bg, bb, ba := image_b.At(b_bounds.Min.X+x, b_bounds.Min.Y+y).RGBA()
			if !(ar == br && ag == bg && ab == bb && aa == ba) {
				return false
			}
		}
	}
	return true
}
