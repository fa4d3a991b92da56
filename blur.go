/*
Gaussian blur
Copyright (C) 2006-2011 Yangli Hector Yee
Copyright (C) 2011-2016 Steven Myint, Jeff Terrace
Copyright (C) 2023 Ivan Latunov

This program is free software; you can redistribute it and/or modify it under
the terms of the GNU General Public License as published by the Free Software
Foundation; either version 2 of the License, or (at your option) any later
version.

This program is distributed in the hope that it will be useful, but WITHOUT ANY
WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS FOR A
PARTICULAR PURPOSE. See the GNU General Public License for more details.

You should have received a copy of the GNU General Public License along with
this program; if not, write to the Free Software Foundation, Inc., 59 Temple
Place, Suite 330, Boston, MA 02111-1307 USA
*/

package dssim

import "math"

// kernel is a normalised 1D Gaussian of 2*radius+1 taps.
type kernel struct {
	radius int
	taps   []float64
}

// gaussianKernel covers three standard deviations either side, which
// gives the usual 11 taps for sigma 1.5.
func gaussianKernel(sigma float64) kernel {
	radius := int(math.Ceil(3 * sigma))
	k := kernel{radius: radius, taps: make([]float64, 2*radius+1)}

	var sum float64
	for i := range k.taps {
		d := float64(i - radius)
		k.taps[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += k.taps[i]
	}
	for i := range k.taps {
		k.taps[i] /= sum
	}
	return k
}

// mirror maps any index onto [0, n) by reflecting at the edges, edge
// sample included: -1 -> 0, n -> n-1. It stays valid when the kernel is
// wider than the plane.
func mirror(i, n int) int {
	period := 2 * n
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - 1 - i
	}
	return i
}

// blur convolves the w x h plane src with k along rows into tmp, then
// along columns into dst. src, tmp and dst must not overlap.
func (k kernel) blur(dst, tmp, src []float64, w, h int) {
	r := k.radius
	taps := k.taps

	for y := 0; y < h; y++ {
		in := src[y*w : (y+1)*w]
		out := tmp[y*w : (y+1)*w]
		for x := range out {
			var sum float64
			if x >= r && x+r < w {
				window := in[x-r : x+r+1]
				for t, c := range taps {
					sum += c * window[t]
				}
			} else {
				for t, c := range taps {
					sum += c * in[mirror(x+t-r, w)]
				}
			}
			out[x] = sum
		}
	}

	for y := 0; y < h; y++ {
		out := dst[y*w : (y+1)*w]
		for x := range out {
			out[x] = 0
		}
		for t, c := range taps {
			sy := mirror(y+t-r, h)
			in := tmp[sy*w : (sy+1)*w]
			for x := range out {
				out[x] += c * in[x]
			}
		}
	}
}
