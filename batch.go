/*
Batch comparison
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
	"io"
)

// BatchResult is the outcome of one base/candidate pair. Exactly one of
// Err and the Result fields is meaningful.
type BatchResult struct {
	Result
	Err error
}

// Batch compares one base image against several candidates. Every pair
// is scored independently; a failing pair does not affect the others.
type Batch struct {
	Params Parameters

	// Names label candidates in errors. Optional; indexed like the
	// candidates.
	Names []string

	// Progress, if set, is called once per pair as soon as it is done.
	// It is called from worker goroutines.
	Progress func(index int, res BatchResult)

	// Verbose receives progress messages; nil discards them.
	Verbose io.Writer
}

// CompareBatch scores base against each candidate. Results are in the
// order of candidates.
func CompareBatch(base image.Image, candidates []image.Image, args Parameters, output_verbose io.Writer) ([]BatchResult, error) {
	b := Batch{Params: args, Verbose: output_verbose}
	return b.Run(base, candidates)
}

// Run scores base against each candidate. The error is only set when the
// parameters are invalid; per-pair failures are reported in the results
// as *PairError.
func (b *Batch) Run(base image.Image, candidates []image.Image) ([]BatchResult, error) {
	cfg, err := newConfig(b.Params)
	if err != nil {
		return nil, err
	}
	output_verbose := b.Verbose
	if output_verbose == nil {
		output_verbose = io.Discard
	}

	results := make([]BatchResult, len(candidates))
	if len(candidates) == 0 {
		return results, nil
	}

	// The workers are split between pairs so the total stays bounded.
	outer := min(cfg.workers, len(candidates))
	inner := max(cfg.workers/outer, 1)

	baseSize := base.Bounds().Size()
	var (
		baseSide *side
		baseErr  error
	)
	if baseSize.X > 0 && baseSize.Y > 0 {
		_, _ = output_verbose.Write([]byte("Converting base image\n"))
		baseSide, baseErr = convertSide(cfg, base, cfg.workers)
	} else {
		baseErr = ErrEmptyImage
	}

	p := newPool(outer)
	for i, candidate := range candidates {
		p.Go(func() error {
			var res BatchResult
			switch {
			case baseErr != nil:
				res.Err = baseErr
			case candidate == nil:
				res.Err = ErrEmptyImage
			default:
				res.Result, res.Err = compareImages(cfg, base, baseSide, candidate, inner, io.Discard)
			}
			if res.Err != nil {
				res.Result = Result{}
				res.Err = &PairError{Index: i, Name: b.name(i), Err: res.Err}
			}
			results[i] = res
			if b.Progress != nil {
				b.Progress(i, res)
			}
			return nil
		})
	}
	_ = p.Wait()

	for i, res := range results {
		if res.Err != nil {
			fmt.Fprintf(output_verbose, "Pair %d failed: %v\n", i, res.Err)
		}
	}
	return results, nil
}

func (b *Batch) name(i int) string {
	if i < len(b.Names) {
		return b.Names[i]
	}
	return ""
}
