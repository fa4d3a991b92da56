/*
Errors
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
	"errors"
	"fmt"
)

var (
	ErrDimensionMismatch     = errors.New("image dimensions do not match")
	ErrEmptyImage            = errors.New("image is empty")
	ErrDegenerateComputation = errors.New("non-finite value in computation")
)

// DecodeError carries a decoder failure for a named input. The
// underlying error is kept as is.
type DecodeError struct {
	Name string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: could not decode image: %v", e.Name, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// PairError is reported for a single failed pair of a batch. Index is
// the position of the candidate in the batch.
type PairError struct {
	Index int
	Name  string
	Err   error
}

func (e *PairError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("candidate #%d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e *PairError) Unwrap() error { return e.Err }

// Kind names the class of err for user-facing messages.
func Kind(err error) string {
	var decodeErr *DecodeError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &decodeErr):
		return "ImageDecodeError"
	case errors.Is(err, ErrDimensionMismatch):
		return "DimensionMismatch"
	case errors.Is(err, ErrEmptyImage):
		return "EmptyImage"
	case errors.Is(err, ErrDegenerateComputation):
		return "DegenerateComputation"
	default:
		return "Error"
	}
}
