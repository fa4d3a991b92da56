/*
Parameters
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
	"math"
	"os"
	"runtime"

	"gopkg.in/yaml.v2"
)

// The number of channels every ColorConverter produces.
const NUM_CHANNELS = 3

// Parameters are the available parameters for image comparison.
//
// Parameters are passed by value and never modified by the comparison;
// weight slices are copied before use.
type Parameters struct {
	// Maximum number of pyramid levels, including full resolution.
	MaxLevels int `yaml:"max_levels"`

	// No pyramid level is built with a side shorter than this.
	MinLevelSize int `yaml:"min_level_size"`

	// Standard deviation of the Gaussian window, in pixels.
	Sigma float64 `yaml:"sigma"`

	// Weight of each channel (luma, chroma a, chroma b) within a level.
	ChannelWeights []float64 `yaml:"channel_weights"`

	// Weight of each pyramid level, finest first. Only the first
	// len(levels) entries are used when fewer levels are built.
	ScaleWeights []float64 `yaml:"scale_weights"`

	// Only consider luminance; ignore chroma channels in the comparison.
	LuminanceOnly bool `yaml:"luminance_only"`

	// Channel space the images are converted to: "yuv" or "lab".
	ColorSpace string `yaml:"color_space"`

	// Render a full resolution difference map into the result.
	DiffMap bool `yaml:"diff_map"`

	// Size of the worker pool. Zero means runtime.GOMAXPROCS(0).
	Workers int `yaml:"workers"`
}

// Multi-scale SSIM exponents from Wang, Simoncelli & Bovik, "Multi-scale
// structural similarity for image quality assessment", 2003.
var msssimWeights = []float64{0.0448, 0.2856, 0.3001, 0.2363, 0.1333}

var (
	// DefaultParameters are the default parameters for [Compare].
	DefaultParameters Parameters
)

func init() {
	DefaultParameters = Parameters{
		MaxLevels:      5,
		MinLevelSize:   4,
		Sigma:          1.5,
		ChannelWeights: []float64{1.0, 0.25, 0.25},
		ScaleWeights:   msssimWeights,
		LuminanceOnly:  false,
		ColorSpace:     "yuv",
		DiffMap:        false,
		Workers:        0,
	}
}

// Validate reports the first problem found in args.
func (args Parameters) Validate() error {
	if args.MaxLevels < 1 {
		return fmt.Errorf("max_levels must be at least 1, got %d", args.MaxLevels)
	}
	if args.MaxLevels > len(args.ScaleWeights) {
		return fmt.Errorf("max_levels %d needs as many scale_weights, got %d", args.MaxLevels, len(args.ScaleWeights))
	}
	if args.MinLevelSize < 1 {
		return fmt.Errorf("min_level_size must be at least 1, got %d", args.MinLevelSize)
	}
	if !(args.Sigma > 0) || math.IsInf(args.Sigma, 0) {
		return fmt.Errorf("sigma must be a positive number, got %v", args.Sigma)
	}
	if len(args.ChannelWeights) != NUM_CHANNELS {
		return fmt.Errorf("channel_weights needs %d entries, got %d", NUM_CHANNELS, len(args.ChannelWeights))
	}
	if err := checkWeights("channel_weights", args.ChannelWeights); err != nil {
		return err
	}
	if err := checkWeights("scale_weights", args.ScaleWeights[:args.MaxLevels]); err != nil {
		return err
	}
	if args.ChannelWeights[0] <= 0 && args.LuminanceOnly {
		return errors.New("luminance_only needs a positive luma weight")
	}
	if args.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", args.Workers)
	}
	if _, err := newConverter(args.ColorSpace); err != nil {
		return err
	}
	return nil
}

func checkWeights(name string, w []float64) error {
	var sum float64
	for i, v := range w {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s[%d] must be a finite non-negative number, got %v", name, i, v)
		}
		sum += v
	}
	if sum == 0 {
		return fmt.Errorf("%s must not all be zero", name)
	}
	return nil
}

// ParseParameters reads YAML on top of DefaultParameters, so keys
// missing from b keep their default value.
func ParseParameters(b []byte) (Parameters, error) {
	args := DefaultParameters
	args.ChannelWeights = nil
	args.ScaleWeights = nil
	if err := yaml.UnmarshalStrict(b, &args); err != nil {
		return DefaultParameters, fmt.Errorf("parse parameters: %w", err)
	}
	if args.ChannelWeights == nil {
		args.ChannelWeights = DefaultParameters.ChannelWeights
	}
	if args.ScaleWeights == nil {
		args.ScaleWeights = DefaultParameters.ScaleWeights
	}
	return args, args.Validate()
}

// LoadParameters reads a YAML parameters file.
func LoadParameters(filename string) (Parameters, error) {
	contents, err := os.ReadFile(filename)
	if err != nil {
		return DefaultParameters, fmt.Errorf("read %q: %w", filename, err)
	}
	args, err := ParseParameters(contents)
	if err != nil {
		return args, fmt.Errorf("%s: %w", filename, err)
	}
	return args, nil
}

func (args Parameters) AsYaml() string {
	b, err := yaml.Marshal(args)
	if err != nil {
		return fmt.Sprintf("# cannot marshal parameters: %v\n", err)
	}
	return string(b)
}

// config is the validated, immutable form of Parameters shared by every
// task of a run.
type config struct {
	maxLevels      int
	minLevelSize   int
	channelWeights [NUM_CHANNELS]float64
	scaleWeights   []float64
	channels       []int
	kernel         kernel
	converter      ColorConverter
	diffMap        bool
	workers        int
}

func newConfig(args Parameters) (*config, error) {
	if err := args.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	conv, _ := newConverter(args.ColorSpace)

	c := &config{
		maxLevels:    args.MaxLevels,
		minLevelSize: args.MinLevelSize,
		scaleWeights: append([]float64(nil), args.ScaleWeights[:args.MaxLevels]...),
		kernel:       gaussianKernel(args.Sigma),
		converter:    conv,
		diffMap:      args.DiffMap,
		workers:      args.Workers,
	}
	copy(c.channelWeights[:], args.ChannelWeights)
	if args.LuminanceOnly {
		c.channelWeights = [NUM_CHANNELS]float64{1, 0, 0}
	}
	// Zero-weight channels do not contribute and are never computed.
	for ch, w := range c.channelWeights {
		if w > 0 {
			c.channels = append(c.channels, ch)
		}
	}
	if c.workers == 0 {
		c.workers = runtime.GOMAXPROCS(0)
	}
	return c, nil
}
