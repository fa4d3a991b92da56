/*
Pyramid
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

// pyramid holds successively halved versions of one channel plane.
// levels[0] is full resolution.
type pyramid struct {
	levels []*Plane
}

// levelCount is the number of levels built for a width x height image:
// each level halves both sides, no level may have a side below
// minLevelSize and at most maxLevels are built. Level 0 is always built,
// even for images smaller than minLevelSize.
func levelCount(width, height, maxLevels, minLevelSize int) int {
	side := min(width, height)
	n := 1
	for n < maxLevels && side>>n >= minLevelSize {
		n++
	}
	return n
}

// newPyramid builds n levels on top of image, which becomes level 0 and
// must not be modified afterwards.
func newPyramid(image *Plane, n int) *pyramid {
	p := &pyramid{levels: make([]*Plane, n)}
	p.levels[0] = image
	for i := 1; i < n; i++ {
		p.levels[i] = p.levels[i-1].downsample()
	}
	return p
}
