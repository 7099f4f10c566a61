// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1306sim

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/GermanBionicSystems/oled/bitmap"
	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
)

// TerminalOpts represents the options available for Terminal.
type TerminalOpts struct {
	// On and Off are the colors of lit and dark pixels.
	On  color.NRGBA
	Off color.NRGBA
	// Palette defaults to ansi256.Default.
	Palette *ansi256.Palette

	_ struct{}
}

// DefaultTerminalOpts mimics a white on black panel.
var DefaultTerminalOpts = TerminalOpts{
	On:  color.NRGBA{R: 0xE0, G: 0xF0, B: 0xFF, A: 0xFF},
	Off: color.NRGBA{A: 0xFF},
}

// Terminal draws bitmaps at the console using ANSI color codes.
//
// Each frame overwrites the previous one in place.
type Terminal struct {
	w       io.Writer
	on      string
	off     string
	lastRow int

	buf bytes.Buffer
}

// NewTerminal returns a Terminal writing to w, or to stdout when w is nil.
func NewTerminal(w io.Writer, opts *TerminalOpts) *Terminal {
	if opts == nil {
		opts = &DefaultTerminalOpts
	}
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	return &Terminal{
		w:   w,
		on:  p.Block(opts.On),
		off: p.Block(opts.Off),
	}
}

func (t *Terminal) String() string {
	return "Terminal"
}

// Render draws bm.
func (t *Terminal) Render(bm *bitmap.Bitmap) error {
	// This code is designed to minimize the amount of memory allocated per call.
	t.buf.Reset()
	if t.lastRow != 0 {
		fmt.Fprintf(&t.buf, "\033[%dA", t.lastRow)
	}
	for y := 0; y < bm.Rows(); y++ {
		_, _ = t.buf.WriteString("\r\033[0m")
		for x := 0; x < bm.Cols(); x++ {
			if bm.Pixel(x, y) {
				_, _ = t.buf.WriteString(t.on)
			} else {
				_, _ = t.buf.WriteString(t.off)
			}
		}
		_, _ = t.buf.WriteString("\033[0m\n")
	}
	t.lastRow = bm.Rows()
	_, err := t.buf.WriteTo(t.w)
	return err
}

// Refresh draws what s currently shows.
func (t *Terminal) Refresh(s *Sim) error {
	return t.Render(s.Visible())
}

// Halt resets the terminal colors.
func (t *Terminal) Halt() error {
	_, err := io.WriteString(t.w, "\033[0m")
	return err
}

var _ fmt.Stringer = &Terminal{}
