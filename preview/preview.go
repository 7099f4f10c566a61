// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package preview renders bitmaps as enlarged images, the way they look on
// a panel, to check layouts without hardware.
package preview

import (
	"image"
	"image/color"
	"io"

	"github.com/GermanBionicSystems/oled/bitmap"
	"github.com/fogleman/gg"
)

// Opts represents the options for Render.
type Opts struct {
	// Scale is the side of a pixel, in image pixels.
	Scale int
	// Gap is the dark space between two pixels.
	Gap int
	// On and Off are the colors of lit and dark pixels.
	On  color.Color
	Off color.Color
}

// DefaultOpts renders a pale blue panel, 4x enlarged.
var DefaultOpts = Opts{
	Scale: 3,
	Gap:   1,
	On:    color.NRGBA{R: 0x9C, G: 0xE0, B: 0xFF, A: 0xFF},
	Off:   color.NRGBA{R: 0x10, G: 0x10, B: 0x18, A: 0xFF},
}

// Size returns the dimensions of the image Render produces for a cols x
// rows bitmap.
func (o *Opts) Size(cols, rows int) image.Point {
	cell := o.Scale + o.Gap
	return image.Point{X: cols*cell + o.Gap, Y: rows*cell + o.Gap}
}

// Render returns bm enlarged. opts may be nil.
func Render(bm *bitmap.Bitmap, opts *Opts) image.Image {
	return newContext(bm, opts).Image()
}

// WritePNG encodes bm, enlarged, as a PNG image.
func WritePNG(w io.Writer, bm *bitmap.Bitmap, opts *Opts) error {
	return newContext(bm, opts).EncodePNG(w)
}

// SavePNG writes bm, enlarged, to the PNG file path.
func SavePNG(path string, bm *bitmap.Bitmap, opts *Opts) error {
	return newContext(bm, opts).SavePNG(path)
}

func newContext(bm *bitmap.Bitmap, opts *Opts) *gg.Context {
	if opts == nil {
		opts = &DefaultOpts
	}
	o := *opts
	if o.Scale < 1 {
		o.Scale = 1
	}
	if o.Gap < 0 {
		o.Gap = 0
	}
	size := o.Size(bm.Cols(), bm.Rows())
	dc := gg.NewContext(size.X, size.Y)
	dc.SetColor(o.Off)
	dc.Clear()
	cell := float64(o.Scale + o.Gap)
	side := float64(o.Scale)
	for y := 0; y < bm.Rows(); y++ {
		for x := 0; x < bm.Cols(); x++ {
			if bm.Pixel(x, y) {
				dc.DrawRectangle(float64(o.Gap)+float64(x)*cell, float64(o.Gap)+float64(y)*cell, side, side)
			}
		}
	}
	dc.SetColor(o.On)
	dc.Fill()
	return dc
}
