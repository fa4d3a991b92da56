/*
Window statistics
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

// windowStats are the Gaussian-weighted local moments of two
// co-registered planes.
type windowStats struct {
	muA, muB   *Plane
	varA, varB *Plane
	covAB      *Plane
}

// arena is the scratch memory of one (level, channel) task. It is
// carved out of a single allocation sized from the level geometry and
// is never shared between tasks.
type arena struct {
	width, height int

	prod, tmp    []float64
	muA, muB     []float64
	sumAA, sumBB []float64
	sumAB        []float64
}

const arenaPlanes = 7

func newArena(width, height int) *arena {
	n := width * height
	slab := make([]float64, arenaPlanes*n)
	next := func() []float64 {
		s := slab[:n:n]
		slab = slab[n:]
		return s
	}
	return &arena{
		width:  width,
		height: height,
		prod:   next(),
		tmp:    next(),
		muA:    next(),
		muB:    next(),
		sumAA:  next(),
		sumBB:  next(),
		sumAB:  next(),
	}
}

// computeStats blurs A, B, A², B² and A·B with k and derives variances
// and covariance from them. The returned planes live in ws.
func computeStats(a, b *Plane, k kernel, ws *arena) windowStats {
	w, h := a.Width, a.Height
	if b.Width != w || b.Height != h || ws.width != w || ws.height != h {
		panic("dssim: window statistics over planes of different size")
	}

	k.blur(ws.muA, ws.tmp, a.Pix, w, h)
	k.blur(ws.muB, ws.tmp, b.Pix, w, h)

	product(ws.prod, a.Pix, a.Pix)
	k.blur(ws.sumAA, ws.tmp, ws.prod, w, h)
	product(ws.prod, b.Pix, b.Pix)
	k.blur(ws.sumBB, ws.tmp, ws.prod, w, h)
	product(ws.prod, a.Pix, b.Pix)
	k.blur(ws.sumAB, ws.tmp, ws.prod, w, h)

	// E[x²] - E[x]² in place; the blurred second moments are not needed
	// afterwards.
	for i := range ws.sumAA {
		muA, muB := ws.muA[i], ws.muB[i]
		ws.sumAA[i] -= muA * muA
		ws.sumBB[i] -= muB * muB
		ws.sumAB[i] -= muA * muB
	}

	return windowStats{
		muA:   wrapPlane(ws.muA, w, h),
		muB:   wrapPlane(ws.muB, w, h),
		varA:  wrapPlane(ws.sumAA, w, h),
		varB:  wrapPlane(ws.sumBB, w, h),
		covAB: wrapPlane(ws.sumAB, w, h),
	}
}

func product(dst, a, b []float64) {
	for i := range dst {
		dst[i] = a[i] * b[i]
	}
}
