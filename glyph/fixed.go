// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package glyph

// Plotter is a surface that can set or clear individual pixels.
//
// *bitmap.Bitmap implements it.
type Plotter interface {
	DrawPixel(x, y int, on bool)
}

// Fixed is a monospace font stored as a flat table indexed by character
// code.
type Fixed struct {
	Name string
	// Cols is the number of byte columns per glyph.
	Cols int
	// Table holds Cols bytes per character code, starting at code 0.
	Table []byte
}

// Glyph returns the columns of r, or nil if r is beyond the table.
func (f *Fixed) Glyph(r rune) []byte {
	p := int(r) * f.Cols
	if r < 0 || p+f.Cols > len(f.Table) {
		return nil
	}
	return f.Table[p : p+f.Cols]
}

// Width returns the advance of text without drawing it.
func (f *Fixed) Width(text string, scale, spacing int) int {
	if scale < 1 {
		scale = 1
	}
	n := 0
	for range text {
		n++
	}
	return n * (f.Cols*scale + spacing)
}

// Draw renders text with its top left corner at (x, y) and returns the x
// coordinate following the last character.
//
// Each source pixel becomes a scale x scale block and spacing blank columns
// follow every character. Both lit and unlit glyph pixels are written, so
// text overwrites what is below it. Characters beyond the table render as
// blank cells.
func (f *Fixed) Draw(dst Plotter, x, y int, text string, scale, spacing int) int {
	if scale < 1 {
		scale = 1
	}
	for _, c := range text {
		g := f.Glyph(c)
		for col := 0; col < f.Cols; col++ {
			var mask byte
			if g != nil {
				mask = g[col]
			}
			py := y
			for row := 0; row < 8; row++ {
				on := mask&1 != 0
				for sy := 0; sy < scale; sy++ {
					for sx := 0; sx < scale; sx++ {
						dst.DrawPixel(x+sx, py, on)
					}
					py++
				}
				mask >>= 1
			}
			x += scale
		}
		x += spacing
	}
	return x
}
