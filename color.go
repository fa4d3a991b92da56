/*
Color conversion
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

package dssim

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

// Linear-light value that translucent pixels are composited over.
const neutralBackground = 0.5

// A ColorConverter maps a decoded image into NUM_CHANNELS planes of
// luma and two opponent chroma channels, every channel spanning [0, 1].
type ColorConverter interface {
	Name() string
	Convert(img image.Image) ([NUM_CHANNELS]*Plane, error)
}

func newConverter(name string) (ColorConverter, error) {
	switch name {
	case "", "yuv":
		return yuvConverter{}, nil
	case "lab":
		return labConverter{}, nil
	default:
		return nil, fmt.Errorf("unknown color space %q, want yuv or lab", name)
	}
}

// checkPair reports whether image_a and image_b can be compared: both
// non-empty and of the same size.
func checkPair(image_a, image_b image.Image) error {
	a_size := image_a.Bounds().Size()
	b_size := image_b.Bounds().Size()

	if a_size.X <= 0 || a_size.Y <= 0 || b_size.X <= 0 || b_size.Y <= 0 {
		return ErrEmptyImage
	}
	if a_size != b_size {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrDimensionMismatch, a_size.X, a_size.Y, b_size.X, b_size.Y)
	}
	return nil
}

// yuvConverter produces linear-light Rec. 709 luma and two opponent
// chroma channels (red-green, yellow-blue) centred on 0.5.
type yuvConverter struct{}

func (yuvConverter) Name() string { return "yuv" }

func (yuvConverter) Convert(img image.Image) ([NUM_CHANNELS]*Plane, error) {
	planes := newChannelPlanes(img.Bounds())
	y, ca, cb := planes[0].Pix, planes[1].Pix, planes[2].Pix

	eachLinearPixel(img, func(i int, r, g, b float64) {
		y[i] = 0.2126*r + 0.7152*g + 0.0722*b
		ca[i] = (r-g)*0.5 + 0.5
		cb[i] = ((r+g)*0.5-b)*0.5 + 0.5
	})
	return planes, nil
}

// labConverter produces CIE L*a*b* (D65) with a* and b* shifted into
// [0, 1].
type labConverter struct{}

func (labConverter) Name() string { return "lab" }

func (labConverter) Convert(img image.Image) ([NUM_CHANNELS]*Plane, error) {
	planes := newChannelPlanes(img.Bounds())
	pl, pa, pb := planes[0].Pix, planes[1].Pix, planes[2].Pix

	eachLinearPixel(img, func(i int, r, g, b float64) {
		l, a, bb := colorful.XyzToLab(colorful.LinearRgbToXyz(r, g, b))
		pl[i] = l
		pa[i] = (a + 1) * 0.5
		pb[i] = (bb + 1) * 0.5
	})
	return planes, nil
}

func newChannelPlanes(r image.Rectangle) (planes [NUM_CHANNELS]*Plane) {
	for i := range planes {
		planes[i] = NewPlane(r.Dx(), r.Dy())
	}
	return planes
}

var srgbToLinear8 = func() []float64 {
	var table [256]float64
	for i := range table {
		table[i] = srgbToLinear(float64(i) / 255.0)
	}
	return table[:]
}()

var (
	srgbToLinear16     []float64
	srgbToLinear16Once sync.Once
)

func linear16Table() []float64 {
	srgbToLinear16Once.Do(func() {
		table := make([]float64, 0x10000)
		for i := range table {
			table[i] = srgbToLinear(float64(i) / 0xffff)
		}
		srgbToLinear16 = table
	})
	return srgbToLinear16
}

func srgbToLinear(s float64) float64 {
	if s <= 0.04045 {
		return s / 12.92
	}
	return math.Pow((s+0.055)/1.055, 2.4)
}

// composite blends a linear-light value with coverage alpha over the
// neutral background.
func composite(v, alpha float64) float64 {
	if alpha >= 1 {
		return v
	}
	return v*alpha + neutralBackground*(1-alpha)
}

// eachLinearPixel calls fn with the row-major index and linear-light,
// composited R, G, B of every pixel of img.
func eachLinearPixel(img image.Image, fn func(i int, r, g, b float64)) {
	bounds := img.Bounds()
	w := bounds.Dx()

	switch m := img.(type) {
	case *image.NRGBA:
		lut := srgbToLinear8
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			i := (y - bounds.Min.Y) * w
			for x := bounds.Min.X; x < bounds.Max.X; x, i = x+1, i+1 {
				s := m.Pix[m.PixOffset(x, y):]
				a := float64(s[3]) / 255.0
				fn(i, composite(lut[s[0]], a), composite(lut[s[1]], a), composite(lut[s[2]], a))
			}
		}
		return

	case *image.RGBA:
		if m.Opaque() {
			lut := srgbToLinear8
			for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
				i := (y - bounds.Min.Y) * w
				for x := bounds.Min.X; x < bounds.Max.X; x, i = x+1, i+1 {
					s := m.Pix[m.PixOffset(x, y):]
					fn(i, lut[s[0]], lut[s[1]], lut[s[2]])
				}
			}
			return
		}

	case *image.Gray:
		lut := srgbToLinear8
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			i := (y - bounds.Min.Y) * w
			for x := bounds.Min.X; x < bounds.Max.X; x, i = x+1, i+1 {
				v := lut[m.Pix[m.PixOffset(x, y)]]
				fn(i, v, v, v)
			}
		}
		return
	}

	// Everything else goes through 16-bit non-premultiplied colour,
	// which keeps the precision of 16-bit sources.
	lut := linear16Table()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		i := (y - bounds.Min.Y) * w
		for x := bounds.Min.X; x < bounds.Max.X; x, i = x+1, i+1 {
			c := color.NRGBA64Model.Convert(img.At(x, y)).(color.NRGBA64)
			a := float64(c.A) / 0xffff
			fn(i, composite(lut[c.R], a), composite(lut[c.G], a), composite(lut[c.B], a))
		}
	}
}
