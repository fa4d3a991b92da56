/*
Image loading
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

package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/xswordsx/dssim"
)

// loadImage opens and decodes an image in any registered format.
func loadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &dssim.DecodeError{Name: path, Err: err}
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, &dssim.DecodeError{Name: path, Err: err}
	}
	return img, nil
}

// writeHeatmap renders a difference map and saves it as PNG.
func writeHeatmap(diff *dssim.Plane, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	if err := png.Encode(file, diff.Heatmap()); err != nil {
		file.Close()
		return fmt.Errorf("encode %q: %w", path, err)
	}
	return file.Close()
}

// mapPath is the difference map file for candidate i of n. With more
// than one candidate the 1-based index goes before the extension.
func mapPath(output string, i, n int) string {
	if n == 1 {
		return output
	}
	ext := filepath.Ext(output)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(output, ext), i+1, ext)
}
