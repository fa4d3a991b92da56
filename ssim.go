/*
SSIM
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

const (
	k1 = 0.01
	k2 = 0.03

	// Every channel produced by a ColorConverter spans [0, 1].
	dynamicRange = 1.0

	c1 = (k1 * dynamicRange) * (k1 * dynamicRange)
	c2 = (k2 * dynamicRange) * (k2 * dynamicRange)
)

// ssimMap writes the per-pixel structural similarity of st into dst.
// Values are not clamped; identical neighbourhoods give exactly 1.
func ssimMap(st windowStats, dst *Plane) {
	muA, muB := st.muA.Pix, st.muB.Pix
	varA, varB, cov := st.varA.Pix, st.varB.Pix, st.covAB.Pix

	for i := range dst.Pix {
		ma, mb := muA[i], muB[i]
		num := (2*ma*mb + c1) * (2*cov[i] + c2)
		den := (ma*ma + mb*mb + c1) * (varA[i] + varB[i] + c2)
		dst.Pix[i] = num / den
	}
}
