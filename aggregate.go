/*
Scale aggregation
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

package dssim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Lower bound of the combined similarity. Strongly anti-correlated
// images can push the mean SSIM to zero or below, which would make the
// reported score infinite or negative.
const minSimilarity = 1e-6

// mapMean reduces an SSIM map to its arithmetic mean.
func mapMean(p *Plane) float64 {
	return stat.Mean(p.Pix, nil)
}

// weightsFor returns the channel weights of the computed channels and
// the scale weights of the first levels levels, each summing to 1.
func weightsFor(cfg *config, levels int) (cw, sw []float64) {
	cw = make([]float64, len(cfg.channels))
	for i, ch := range cfg.channels {
		cw[i] = cfg.channelWeights[ch]
	}
	normalize(cw)

	sw = append([]float64(nil), cfg.scaleWeights[:levels]...)
	normalize(sw)
	return cw, sw
}

// normalize scales w to sum to 1. All-zero weights become uniform, which
// happens when only the levels with zero weight could be built.
func normalize(w []float64) {
	sum := floats.Sum(w)
	if sum == 0 {
		for i := range w {
			w[i] = 1
		}
		sum = float64(len(w))
	}
	floats.Scale(1/sum, w)
}

// aggregate combines the mean SSIM of every (level, channel) into the
// dissimilarity score. Levels, then channels, are visited in index order
// whatever order they were computed in.
func aggregate(cfg *config, sim [][]float64) (score float64, err error) {
	cw, sw := weightsFor(cfg, len(sim))

	perLevel := make([]float64, len(sim))
	vals := make([]float64, len(cfg.channels))
	for level := range sim {
		for i, ch := range cfg.channels {
			v := sim[level][ch]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return 0, fmt.Errorf("%w: level %d channel %d", ErrDegenerateComputation, level, ch)
			}
			vals[i] = v
		}
		perLevel[level] = floats.Dot(cw, vals)
	}

	s := floats.Dot(sw, perLevel)
	s = math.Min(math.Max(s, minSimilarity), 1)
	return 1/s - 1, nil
}
