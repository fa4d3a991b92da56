/*
Command line interface
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

// Command dssim prints how different each candidate image looks from a
// base image:
//
//	dssim [flags] base.png candidate.png [candidate.png ...]
//
// One line "score<TAB>path" is printed per candidate, in argument order.
// The exit status is 1 if any candidate could not be scored.
package main

import (
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/pflag"

	"github.com/xswordsx/dssim"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

type options struct {
	output     string
	noMap      bool
	configPath string
	levels     int
	sigma      float64
	colorSpace string
	lumaOnly   bool
	weights    []float64
	workers    int
	progress   bool
	verbose    bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	logger := log.New(stderr, "dssim: ", 0)

	fs := pflag.NewFlagSet("dssim", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: dssim [flags] base candidate [candidate ...]\n\n")
		fs.PrintDefaults()
	}

	var opts options
	fs.StringVarP(&opts.output, "output", "o", "", "Write a difference map PNG to this path.")
	fs.BoolVar(&opts.noMap, "no-map", false, "Do not write the difference map, even with --output.")
	fs.StringVarP(&opts.configPath, "config", "c", "", "YAML file with comparison parameters.")
	fs.IntVar(&opts.levels, "levels", dssim.DefaultParameters.MaxLevels, "Maximum number of pyramid levels.")
	fs.Float64Var(&opts.sigma, "sigma", dssim.DefaultParameters.Sigma, "Standard deviation of the SSIM window.")
	fs.StringVar(&opts.colorSpace, "color-space", dssim.DefaultParameters.ColorSpace, "Channel space: yuv or lab.")
	fs.BoolVar(&opts.lumaOnly, "luma-only", false, "Only compare luminance.")
	fs.Float64SliceVar(&opts.weights, "channel-weights", dssim.DefaultParameters.ChannelWeights, "Weights of the luma and two chroma channels.")
	fs.IntVarP(&opts.workers, "workers", "j", 0, "Number of worker goroutines (0 uses every CPU).")
	fs.BoolVar(&opts.progress, "progress", false, "Show a progress bar on stderr.")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "Describe each step on stderr.")

	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() < 2 {
		fs.Usage()
		return exitUsage
	}

	params, err := parameters(fs, opts)
	if err != nil {
		logger.Printf("configuration error: %v", err)
		return exitUsage
	}
	if opts.verbose {
		logger.Printf("parameters:\n%s", params.AsYaml())
	}

	basePath, candidatePaths := fs.Arg(0), fs.Args()[1:]
	base, err := loadImage(basePath)
	if err != nil {
		logger.Printf("%s: %v", dssim.Kind(err), err)
		return exitFailure
	}

	errs := make([]error, len(candidatePaths))
	results := make([]dssim.BatchResult, len(candidatePaths))
	compareAll(base, candidatePaths, params, opts, stderr, results, errs)

	failed := false
	for i, path := range candidatePaths {
		if errs[i] != nil {
			failed = true
			logger.Printf("%s: %v", dssim.Kind(errs[i]), errs[i])
			continue
		}
		fmt.Fprintf(stdout, "%.8f\t%s\n", results[i].Score, path)

		if params.DiffMap {
			out := mapPath(opts.output, i, len(candidatePaths))
			if err := writeHeatmap(results[i].DiffMap, out); err != nil {
				failed = true
				logger.Printf("%s: %v", path, err)
			}
		}
	}

	if failed {
		return exitFailure
	}
	return exitOK
}

// parameters starts from the config file, if any, and applies the flags
// that were set explicitly.
func parameters(fs *pflag.FlagSet, opts options) (dssim.Parameters, error) {
	params := dssim.DefaultParameters
	if opts.configPath != "" {
		var err error
		if params, err = dssim.LoadParameters(opts.configPath); err != nil {
			return params, err
		}
	}

	if fs.Changed("levels") {
		params.MaxLevels = opts.levels
	}
	if fs.Changed("sigma") {
		params.Sigma = opts.sigma
	}
	if fs.Changed("color-space") {
		params.ColorSpace = opts.colorSpace
	}
	if fs.Changed("luma-only") {
		params.LuminanceOnly = opts.lumaOnly
	}
	if fs.Changed("channel-weights") {
		params.ChannelWeights = opts.weights
	}
	if fs.Changed("workers") {
		params.Workers = opts.workers
	}
	params.DiffMap = opts.output != "" && !opts.noMap

	return params, params.Validate()
}

// compareAll decodes the candidates and scores the decodable ones
// against base. Outcomes land in results and errs at the candidate's
// index.
func compareAll(base image.Image, paths []string, params dssim.Parameters, opts options, stderr io.Writer, results []dssim.BatchResult, errs []error) {
	var (
		images []image.Image
		names  []string
		index  []int
	)
	for i, path := range paths {
		img, err := loadImage(path)
		if err != nil {
			errs[i] = err
			continue
		}
		images = append(images, img)
		names = append(names, path)
		index = append(index, i)
	}

	batch := dssim.Batch{Params: params, Names: names}
	if opts.verbose {
		batch.Verbose = stderr
	}
	if opts.progress {
		bar := progressbar.NewOptions(len(images),
			progressbar.OptionSetDescription("Comparing"),
			progressbar.OptionSetWriter(stderr),
			progressbar.OptionSetWidth(15),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionShowCount(),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprint(stderr, "\n")
			}),
		)
		batch.Progress = func(int, dssim.BatchResult) { _ = bar.Add(1) }
	}

	batchResults, err := batch.Run(base, images)
	if err != nil {
		for _, i := range index {
			errs[i] = err
		}
		return
	}
	for j, res := range batchResults {
		results[index[j]] = res
		errs[index[j]] = res.Err
	}
}
