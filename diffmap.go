/*
Difference map
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
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// renderDiffMap projects the SSIM maps of every level back to full
// resolution and combines them with the scoring weights. Each output
// sample is 1 - ssim, floored at 0, so larger means more different.
//
// maps is indexed [level][channel]; channels that were not computed are
// nil.
func renderDiffMap(cfg *config, maps [][]*Plane) *Plane {
	cw, sw := weightsFor(cfg, len(maps))
	full := maps[0][cfg.channels[0]]
	out := NewPlane(full.Width, full.Height)
	up := NewPlane(full.Width, full.Height)

	for level, channels := range maps {
		first := channels[cfg.channels[0]]
		combined := NewPlane(first.Width, first.Height)
		for i, ch := range cfg.channels {
			src := channels[ch].Pix
			for j := range combined.Pix {
				combined.Pix[j] += cw[i] * src[j]
			}
		}

		combined.upsampleInto(up, level)
		for j, v := range up.Pix {
			out.Pix[j] += sw[level] * v
		}
	}

	for j, v := range out.Pix {
		out.Pix[j] = math.Max(0, 1-v)
	}
	return out
}

var heatmapStops = []struct {
	at  float64
	col colorful.Color
}{
	{0.00, colorful.Color{R: 0, G: 0, B: 0}},
	{0.25, colorful.Color{R: 0.12, G: 0.23, B: 0.60}},
	{0.50, colorful.Color{R: 0.75, G: 0.13, B: 0.23}},
	{0.75, colorful.Color{R: 0.96, G: 0.71, B: 0.16}},
	{1.00, colorful.Color{R: 1, G: 1, B: 1}},
}

// Heatmap renders a difference map for viewing: black where the images
// agree, through blue and red to white where they differ most. Values
// of 1 and above saturate.
func (p *Plane) Heatmap() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.Width, p.Height))
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			img.SetRGBA(x, y, heatColor(p.At(x, y)))
		}
	}
	return img
}

func heatColor(v float64) color.RGBA {
	if math.IsNaN(v) {
		v = 1
	}
	// Square root spreads out the small values that dominate real maps.
	t := math.Sqrt(math.Min(math.Max(v, 0), 1))

	for i := 1; i < len(heatmapStops); i++ {
		lo, hi := heatmapStops[i-1], heatmapStops[i]
		if t <= hi.at {
			c := lo.col.BlendLab(hi.col, (t-lo.at)/(hi.at-lo.at)).Clamped()
			r, g, b := c.RGB255()
			return color.RGBA{r, g, b, 255}
		}
	}
	return color.RGBA{255, 255, 255, 255}
}
