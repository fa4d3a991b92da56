/*
Image plane
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

import "fmt"

// Plane is a dense grid of samples for a single channel at a single
// resolution. Samples are stored row-major in Pix.
//
// Planes handed out by this package are never modified afterwards.
type Plane struct {
	Width  int
	Height int
	Pix    []float64
}

// NewPlane allocates a zeroed width x height plane.
func NewPlane(width, height int) *Plane {
	return &Plane{
		Width:  width,
		Height: height,
		Pix:    make([]float64, width*height),
	}
}

// wrapPlane makes a plane over an existing buffer, which must hold
// exactly width*height samples.
func wrapPlane(pix []float64, width, height int) *Plane {
	if len(pix) != width*height {
		panic(fmt.Sprintf("dssim: buffer of %d samples for %dx%d plane", len(pix), width, height))
	}
	return &Plane{Width: width, Height: height, Pix: pix}
}

func (p *Plane) At(x, y int) float64     { return p.Pix[y*p.Width+x] }
func (p *Plane) Set(x, y int, v float64) { p.Pix[y*p.Width+x] = v }

func (p *Plane) String() string {
	lo, hi := p.bounds()
	return fmt.Sprintf("plane[%dx%d, vals{%f,%f}]", p.Width, p.Height, lo, hi)
}

// Clone returns a deep copy of p.
func (p *Plane) Clone() *Plane {
	q := NewPlane(p.Width, p.Height)
	copy(q.Pix, p.Pix)
	return q
}

// downsample returns a plane of half the width and height, each sample
// the mean of a 2x2 block. An odd trailing row or column is dropped.
func (p *Plane) downsample() *Plane {
	w := p.Width / 2
	h := p.Height / 2
	q := NewPlane(w, h)

	for y := 0; y < h; y++ {
		row0 := p.Pix[(2*y)*p.Width:]
		row1 := p.Pix[(2*y+1)*p.Width:]
		out := q.Pix[y*w : (y+1)*w]
		for x := range out {
			out[x] = (row0[2*x] + row0[2*x+1] + row1[2*x] + row1[2*x+1]) * 0.25
		}
	}
	return q
}

// upsampleInto fills dst, which is expected to be 2^level times the size
// of p, by nearest-neighbour replication. Samples past the end of p (from
// rows and columns dropped while downsampling) repeat the last one.
func (p *Plane) upsampleInto(dst *Plane, level int) {
	for y := 0; y < dst.Height; y++ {
		sy := min(y>>level, p.Height-1)
		src := p.Pix[sy*p.Width : (sy+1)*p.Width]
		out := dst.Pix[y*dst.Width : (y+1)*dst.Width]
		for x := range out {
			out[x] = src[min(x>>level, p.Width-1)]
		}
	}
}

func (p *Plane) bounds() (lo, hi float64) {
	if len(p.Pix) == 0 {
		return 0, 0
	}
	lo, hi = p.Pix[0], p.Pix[0]
	for _, v := range p.Pix[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}
