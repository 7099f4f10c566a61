// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package glyph

import (
	"errors"
	"fmt"
)

// Descriptor locates one glyph of a Proportional font.
type Descriptor struct {
	// Width is the glyph width in pixels.
	Width int
	// Offset is the index of the glyph's first row in Proportional.Bitmaps.
	Offset int
}

// Proportional is a variable width font covering the contiguous range
// [Start, End].
//
// Kerning[a][b] is the distance from the left edge of glyph a to the left
// edge of glyph b when b follows a, not counting GapWidth. It therefore
// includes the width of a.
//
// Each glyph bitmap is Height rows of (Width+7)/8 bytes, most significant
// bit first.
type Proportional struct {
	Name        string
	Start       rune
	End         rune
	Height      int
	SpaceWidth  int
	GapWidth    int
	Descriptors []Descriptor
	Kerning     [][]int
	Bitmaps     []byte
}

// Len returns the number of glyphs in the font.
func (f *Proportional) Len() int {
	return int(f.End-f.Start) + 1
}

// Validate checks that the tables are consistent with each other.
func (f *Proportional) Validate() error {
	if f.End < f.Start {
		return fmt.Errorf("glyph: %s: empty range %q-%q", f.Name, f.Start, f.End)
	}
	if f.Height <= 0 {
		return fmt.Errorf("glyph: %s: invalid height %d", f.Name, f.Height)
	}
	n := f.Len()
	if len(f.Descriptors) != n {
		return fmt.Errorf("glyph: %s: %d descriptors for %d characters", f.Name, len(f.Descriptors), n)
	}
	if len(f.Kerning) != n {
		return fmt.Errorf("glyph: %s: %d kerning rows for %d characters", f.Name, len(f.Kerning), n)
	}
	for i, row := range f.Kerning {
		if len(row) != n {
			return fmt.Errorf("glyph: %s: kerning row %d has %d entries, want %d", f.Name, i, len(row), n)
		}
	}
	for i, d := range f.Descriptors {
		if d.Width < 0 || d.Offset < 0 {
			return fmt.Errorf("glyph: %s: invalid descriptor %d: %+v", f.Name, i, d)
		}
		if end := d.Offset + f.Height*((d.Width+7)/8); end > len(f.Bitmaps) {
			return fmt.Errorf("glyph: %s: glyph %q ends at %d past %d bitmap bytes", f.Name, f.Start+rune(i), end, len(f.Bitmaps))
		}
	}
	return nil
}

// Measure returns the rendered width of text.
func (f *Proportional) Measure(text string) int {
	return f.Draw(nil, 0, 0, text)
}

// Draw renders text with its top left corner at (x, y) and returns the x
// coordinate just past the last glyph drawn.
//
// Only lit pixels are written, so the destination should be cleared first.
// dst may be nil to only measure.
//
// A character outside [Start, End] ends a word: the cursor moves past the
// previous glyph plus SpaceWidth and GapWidth. Leading out of range
// characters, and runs of them, do not move the cursor.
func (f *Proportional) Draw(dst Plotter, x, y int, text string) int {
	prev := -1
	prevWidth := 0
	for _, c := range text {
		if c < f.Start || c > f.End {
			if prev >= 0 {
				x += f.SpaceWidth + prevWidth + f.GapWidth
			}
			prev = -1
			continue
		}
		idx := int(c - f.Start)
		d := f.Descriptors[idx]
		if prev >= 0 {
			x += f.Kerning[prev][idx] + f.GapWidth
		}
		if dst != nil {
			f.drawGlyph(dst, x, y, d)
		}
		prev = idx
		prevWidth = d.Width
	}
	if prev >= 0 {
		x += prevWidth
	}
	return x
}

func (f *Proportional) drawGlyph(dst Plotter, x, y int, d Descriptor) {
	bytesPerRow := (d.Width + 7) / 8
	offset := d.Offset
	for row := 0; row < f.Height; row++ {
		p := offset
		mask := byte(0x80)
		for col := 0; col < d.Width; col++ {
			if f.Bitmaps[p]&mask != 0 {
				dst.DrawPixel(x+col, y+row, true)
			}
			mask >>= 1
			if mask == 0 {
				mask = 0x80
				p++
			}
		}
		offset += bytesPerRow
	}
}

// Condense derives a Proportional font covering [first, last] from a Fixed
// table by trimming the blank columns on each side of every glyph. Glyphs
// with no lit pixel keep a width of 1. Kerning is the plain width of the
// previous glyph.
func Condense(f *Fixed, first, last rune, spaceWidth, gapWidth int) (*Proportional, error) {
	if last < first || first < 0 {
		return nil, errors.New("glyph: condense: invalid range")
	}
	if f.Glyph(last) == nil {
		return nil, fmt.Errorf("glyph: condense: %q is beyond the %s table", last, f.Name)
	}
	p := &Proportional{
		Name:       f.Name + " condensed",
		Start:      first,
		End:        last,
		Height:     8,
		SpaceWidth: spaceWidth,
		GapWidth:   gapWidth,
	}
	for c := first; c <= last; c++ {
		cols := f.Glyph(c)
		lo, hi := 0, len(cols)
		for lo < hi && cols[lo] == 0 {
			lo++
		}
		for hi > lo && cols[hi-1] == 0 {
			hi--
		}
		if lo == hi {
			hi = lo + 1
			if hi > len(cols) {
				lo, hi = 0, 1
			}
		}
		w := hi - lo
		d := Descriptor{Width: w, Offset: len(p.Bitmaps)}
		bytesPerRow := (w + 7) / 8
		for row := 0; row < 8; row++ {
			line := make([]byte, bytesPerRow)
			for col := lo; col < hi; col++ {
				if cols[col]&(1<<uint(row)) != 0 {
					i := col - lo
					line[i/8] |= 0x80 >> uint(i%8)
				}
			}
			p.Bitmaps = append(p.Bitmaps, line...)
		}
		p.Descriptors = append(p.Descriptors, d)
	}
	n := p.Len()
	p.Kerning = make([][]int, n)
	for i := range p.Kerning {
		p.Kerning[i] = make([]int, n)
		for j := range p.Kerning[i] {
			p.Kerning[i][j] = p.Descriptors[i].Width
		}
	}
	return p, nil
}

// Proportional5x8 is Font5x8 condensed over '!' to '~'. Space is outside the
// range and acts as a word boundary.
var Proportional5x8 = mustCondense(Font5x8, '!', '~', 3, 1)

func mustCondense(f *Fixed, first, last rune, spaceWidth, gapWidth int) *Proportional {
	p, err := Condense(f, first, last, spaceWidth, gapWidth)
	if err != nil {
		panic(err)
	}
	return p
}
