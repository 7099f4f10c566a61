// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package glyph

import (
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// FromFace rasterizes the runes [first, last] of face into a Proportional
// font.
//
// Glyphs are thresholded at 50% coverage and trimmed to their ink. Kerning
// entries are derived from the face's advances, side bearings and kerning
// pairs so that text laid out by Proportional.Draw lands where the face
// would have put it, give or take rounding. The face is not closed.
func FromFace(face font.Face, name string, first, last rune, gapWidth int) (*Proportional, error) {
	if last < first {
		return nil, fmt.Errorf("glyph: %s: empty range %q-%q", name, first, last)
	}
	m := face.Metrics()
	ascent := m.Ascent.Ceil()
	height := ascent + m.Descent.Ceil()
	if height <= 0 {
		return nil, fmt.Errorf("glyph: %s: face has no height", name)
	}
	p := &Proportional{
		Name:     name,
		Start:    first,
		End:      last,
		Height:   height,
		GapWidth: gapWidth,
	}
	n := p.Len()
	lsb := make([]int, n)
	advances := make([]fixed.Int26_6, n)
	for c := first; c <= last; c++ {
		i := int(c - first)
		g, adv := rasterize(face, c, ascent, height)
		advances[i] = adv
		lsb[i] = g.left
		p.Descriptors = append(p.Descriptors, Descriptor{Width: g.width, Offset: len(p.Bitmaps)})
		p.Bitmaps = append(p.Bitmaps, g.pix...)
	}
	p.Kerning = make([][]int, n)
	for a := range p.Kerning {
		p.Kerning[a] = make([]int, n)
		for b := range p.Kerning[a] {
			origin := (advances[a] + face.Kern(first+rune(a), first+rune(b))).Round()
			p.Kerning[a][b] = origin + lsb[b] - lsb[a] - gapWidth
		}
	}
	if adv, ok := face.GlyphAdvance(' '); ok {
		p.SpaceWidth = adv.Round() - gapWidth
	}
	if p.SpaceWidth < 1 {
		p.SpaceWidth = 1
	}
	return p, nil
}

type rasterized struct {
	left  int
	width int
	pix   []byte
}

// rasterize draws c with its origin at (0, ascent) and returns the packed
// rows of its ink columns.
func rasterize(face font.Face, c rune, ascent, height int) (rasterized, fixed.Int26_6) {
	bounds, adv, ok := face.GlyphBounds(c)
	if !ok {
		return rasterized{}, adv
	}
	canvas := image.NewAlpha(image.Rect(bounds.Min.X.Floor(), 0, bounds.Max.X.Ceil(), height))
	d := font.Drawer{
		Dst:  canvas,
		Src:  image.White,
		Face: face,
		Dot:  fixed.P(0, ascent),
	}
	d.DrawString(string(c))

	r := canvas.Bounds()
	inked := func(x, y int) bool {
		return canvas.AlphaAt(x, y).A >= 0x80
	}
	lo, hi := r.Max.X, r.Min.X
	for x := r.Min.X; x < r.Max.X; x++ {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			if inked(x, y) {
				if x < lo {
					lo = x
				}
				if x+1 > hi {
					hi = x + 1
				}
				break
			}
		}
	}
	if lo >= hi {
		return rasterized{}, adv
	}
	g := rasterized{left: lo, width: hi - lo}
	bytesPerRow := (g.width + 7) / 8
	g.pix = make([]byte, bytesPerRow*height)
	for y := 0; y < height; y++ {
		for x := lo; x < hi; x++ {
			if inked(x, y) {
				i := x - lo
				g.pix[y*bytesPerRow+i/8] |= 0x80 >> uint(i%8)
			}
		}
	}
	return g, adv
}
