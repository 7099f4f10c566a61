// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package scrolllist shows a circular list of text lines, one line per
// screen, with smooth vertical scrolling and horizontal panning of lines
// too long to fit.
//
// The list uses twice the visible height of display RAM as a ring. The
// visible half holds the current line; whenever the list sits exactly on a
// line the next line in the scroll direction is written to the hidden half.
// Each scroll step then only moves the controller's start line by one row,
// so vertical scrolling never resends pixels.
//
// A List is not safe for concurrent use.
package scrolllist

import (
	"errors"
	"fmt"

	"github.com/GermanBionicSystems/oled/bitmap"
	"github.com/GermanBionicSystems/oled/glyph"
)

// Display is the part of *ssd1306.Dev the list needs.
type Display interface {
	DisplayBlock(bm *bitmap.Bitmap, row, col, colCount, colOffset int) error
	SetStartLine(line int) error
	// Cols and Rows are the visible size.
	Cols() int
	Rows() int
	// BufferRows is the display RAM height.
	BufferRows() int
}

// homeSlack is the largest distance HomeOffset reports below a line. It is
// tuned for a 32 rows panel.
const homeSlack = 15

// panSlack is the blank margin appended to lines wider than the display.
const panSlack = 15

// State is the scroll position of a List.
type State struct {
	// Position is the scroll position in rows, in [0, Len()*Rows()).
	Position int
	// Offset is the start line, in [0, 2*Rows()).
	Offset int
	// PanRow is the line being panned, -1 if none.
	PanRow int
	// PanOffset is the first bitmap column shown for PanRow.
	PanOffset int
	// PanDirection is +1 or -1.
	PanDirection int
}

// List is a scrolling list.
type List struct {
	d       Display
	items   []string
	bitmaps []*bitmap.Bitmap
	cols    int
	rows    int
	bufRows int
	state   State
}

// New renders items with f and shows the first one.
//
// The display must have at least 31 visible rows so HomeOffset stays
// symmetric around a boundary, and exactly twice its visible height of
// display RAM, since the start line wraps at the end of the RAM.
func New(d Display, items []string, f *glyph.Proportional) (*List, error) {
	if len(items) == 0 {
		return nil, errors.New("scrolllist: empty list")
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	cols, rows := d.Cols(), d.Rows()
	if rows <= 2*homeSlack {
		return nil, fmt.Errorf("scrolllist: %d rows is too short, need at least %d", rows, 2*homeSlack+1)
	}
	if d.BufferRows() != 2*rows {
		return nil, fmt.Errorf("scrolllist: display RAM has %d rows, need exactly 2x%d rows", d.BufferRows(), rows)
	}
	l := &List{
		d:       d,
		items:   items,
		cols:    cols,
		rows:    rows,
		bufRows: 2 * rows,
		state:   State{PanRow: -1, PanDirection: 1},
	}
	downset := (rows - f.Height) / 2
	for _, text := range items {
		bm, err := render(cols, rows, downset, text, f)
		if err != nil {
			return nil, err
		}
		l.bitmaps = append(l.bitmaps, bm)
	}
	if err := d.DisplayBlock(l.bitmaps[0], 0, 0, cols, 0); err != nil {
		return nil, err
	}
	return l, nil
}

// render draws text at the left edge of a display sized bitmap, or of a
// wider one when it overflows.
func render(cols, rows, downset int, text string, f *glyph.Proportional) (*bitmap.Bitmap, error) {
	bm, err := bitmap.New(cols, rows)
	if err != nil {
		return nil, err
	}
	if width := f.Draw(bm, 0, downset, text); width > cols {
		if bm, err = bitmap.New(width+panSlack, rows); err != nil {
			return nil, err
		}
		f.Draw(bm, 0, downset, text)
	}
	return bm, nil
}

// Len returns the number of lines.
func (l *List) Len() int {
	return len(l.items)
}

// Item returns the text of line i.
func (l *List) Item(i int) string {
	return l.items[i]
}

// Bitmap returns the rendered line i.
func (l *List) Bitmap(i int) *bitmap.Bitmap {
	return l.bitmaps[i]
}

// Current returns the index of the line at the top of the screen.
func (l *List) Current() int {
	return l.state.Position / l.rows
}

// State returns the current scroll state.
func (l *List) State() State {
	return l.state
}

// Scroll moves the list by delta rows; positive values bring the following
// lines into view.
//
// Each row is a separate step since crossing a line boundary writes the
// upcoming line to the hidden half of display RAM. On error the list stops
// at the last completed step.
func (l *List) Scroll(delta int) error {
	step := 1
	if delta < 0 {
		step, delta = -1, -delta
	}
	for ; delta > 0; delta-- {
		if err := l.step(step); err != nil {
			return err
		}
	}
	return nil
}

func (l *List) step(step int) error {
	s := &l.state
	count := len(l.items)
	if s.Position%l.rows == 0 {
		n := s.Position / l.rows
		m := (n + step + count) % count
		row := (s.Offset + l.rows) % l.bufRows
		if err := l.d.DisplayBlock(l.bitmaps[m], row, 0, l.cols, 0); err != nil {
			return err
		}
		if m == s.PanRow {
			s.PanOffset = 0
		}
	}
	offset := (s.Offset + l.bufRows + step) % l.bufRows
	if err := l.d.SetStartLine(offset); err != nil {
		return err
	}
	s.Offset = offset
	period := count * l.rows
	s.Position = (s.Position + period + step) % period
	return nil
}

// HomeOffset returns the signed distance in rows from the nearest line
// boundary, 0 when a line is exactly in view.
//
// Positions up to 15 rows past a boundary are reported as positive and are
// closer to the line above; the others are negative.
func (l *List) HomeOffset() int {
	pos := l.state.Position % l.rows
	return (pos+homeSlack)%l.rows - homeSlack
}

// Settle scrolls one row toward the nearest boundary. It returns true
// without doing anything when the list is already on one.
func (l *List) Settle() (bool, error) {
	h := l.HomeOffset()
	switch {
	case h > 0:
		return false, l.Scroll(-1)
	case h < 0:
		return false, l.Scroll(1)
	}
	return true, nil
}

// AutoPan moves the current line one column toward the end it is panning
// to, reversing at either end.
//
// It does nothing for lines that fit the display. The first call after the
// current line changed rewinds the pan to the start of the line.
//
// It must only be called while HomeOffset is 0; the refreshed window is
// computed from the start line and would land on the wrong rows otherwise.
func (l *List) AutoPan() error {
	s := &l.state
	n := l.Current()
	if n != s.PanRow {
		s.PanRow = n
		s.PanOffset = 0
		return nil
	}
	bm := l.bitmaps[n]
	last := bm.Cols() - l.cols
	if last <= 0 {
		return nil
	}
	if s.PanDirection > 0 {
		if s.PanOffset < last {
			s.PanOffset++
		} else {
			s.PanDirection = -1
		}
	} else {
		if s.PanOffset > 0 {
			s.PanOffset--
		} else {
			s.PanDirection = 1
		}
	}
	return l.d.DisplayBlock(bm, s.Offset, 0, l.cols, s.PanOffset)
}
