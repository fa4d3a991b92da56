package dssim

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{&DecodeError{Name: "a.png", Err: fs.ErrNotExist}, "ImageDecodeError"},
		{&PairError{Index: 1, Err: &DecodeError{Name: "b.png", Err: errors.New("bad")}}, "ImageDecodeError"},
		{fmt.Errorf("%w: 1x1 vs 2x2", ErrDimensionMismatch), "DimensionMismatch"},
		{&PairError{Index: 0, Err: ErrEmptyImage}, "EmptyImage"},
		{fmt.Errorf("%w: level 0 channel 0", ErrDegenerateComputation), "DegenerateComputation"},
		{errors.New("other"), "Error"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Kind(tc.err), "%v", tc.err)
	}
}

func TestErrorMessages(t *testing.T) {
	decodeErr := &DecodeError{Name: "a.png", Err: fs.ErrNotExist}
	assert.Equal(t, "a.png: could not decode image: file does not exist", decodeErr.Error())
	assert.ErrorIs(t, decodeErr, fs.ErrNotExist)

	named := &PairError{Index: 3, Name: "c.png", Err: ErrEmptyImage}
	assert.Equal(t, "c.png: image is empty", named.Error())
	unnamed := &PairError{Index: 3, Err: ErrEmptyImage}
	assert.Equal(t, "candidate #3: image is empty", unnamed.Error())
	assert.ErrorIs(t, unnamed, ErrEmptyImage)
}
