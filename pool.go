/*
Worker pool
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

import "golang.org/x/sync/errgroup"

// pool runs independent tasks on at most n goroutines at a time. Tasks
// report through their own result slots; Wait is the only point where
// the caller synchronises with them.
type pool struct {
	g errgroup.Group
}

func newPool(n int) *pool {
	p := &pool{}
	p.g.SetLimit(max(n, 1))
	return p
}

// Go blocks while the pool is full.
func (p *pool) Go(task func() error) { p.g.Go(task) }

// Wait returns once every task has finished, with the first error any
// of them returned. A failing task does not stop the others.
func (p *pool) Wait() error { return p.g.Wait() }
