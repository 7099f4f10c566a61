// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1306sim

import (
	"fmt"
	"sync"

	"github.com/GermanBionicSystems/oled/bitmap"
)

// Controller opcodes understood by Sim.
const (
	opMemoryMode      = 0x20
	opColumnAddr      = 0x21
	opPageAddr        = 0x22
	opScrollRight     = 0x26
	opScrollLeft      = 0x27
	opScrollUpRight   = 0x29
	opScrollUpLeft    = 0x2A
	opScrollStop      = 0x2E
	opScrollStart     = 0x2F
	opStartLine       = 0x40
	opContrast        = 0x81
	opChargePump      = 0x8D
	opSegRemap        = 0xA0
	opVertScrollArea  = 0xA3
	opDisplayAllOnRAM = 0xA4
	opDisplayAllOn    = 0xA5
	opNormal          = 0xA6
	opInvert          = 0xA7
	opMultiplex       = 0xA8
	opDisplayOff      = 0xAE
	opDisplayOn       = 0xAF
	opPageStart       = 0xB0
	opComScanInc      = 0xC0
	opComScanDec      = 0xC8
	opDisplayOffset   = 0xD3
	opClockDiv        = 0xD5
	opPrecharge       = 0xD9
	opComPins         = 0xDA
	opVcomDetect      = 0xDB
)

// Addressing modes selected by opMemoryMode.
const (
	Horizontal = 0
	Vertical   = 1
	Page       = 2
)

// paramCount returns the number of parameter bytes op takes, or -1 if op
// is not a known opcode.
func paramCount(op byte) int {
	switch {
	case op <= 0x1F, op >= opStartLine && op <= 0x7F, op >= opPageStart && op <= 0xB7:
		return 0
	}
	switch op {
	case opMemoryMode, opContrast, opChargePump, opMultiplex, opDisplayOffset,
		opClockDiv, opPrecharge, opComPins, opVcomDetect:
		return 1
	case opColumnAddr, opPageAddr, opVertScrollArea:
		return 2
	case opScrollUpRight, opScrollUpLeft:
		return 5
	case opScrollRight, opScrollLeft:
		return 6
	case opScrollStop, opScrollStart, opSegRemap, opSegRemap | 1,
		opDisplayAllOnRAM, opDisplayAllOn, opNormal, opInvert,
		opDisplayOff, opDisplayOn, opComScanInc, opComScanDec:
		return 0
	}
	return -1
}

// Sim is an in-memory SSD1306 controller.
//
// It is safe for concurrent use, so a renderer may read it while a driver
// writes to it.
type Sim struct {
	mu sync.Mutex

	cols  int
	pages int
	ram   *bitmap.Bitmap

	mode       byte
	colStart   int
	colEnd     int
	pageStart  int
	pageEnd    int
	col        int
	page       int
	// pageCol is the column start address of page addressing mode.
	pageCol    int
	startLine  int
	offset     int
	mux        int
	segRemap   bool
	comReverse bool
	contrast   byte
	inverted   bool
	allOn      bool
	on         bool
	scrolling  bool
	commands   int
	dataBytes  int
}

// New returns a controller with cols columns and rows rows of display
// RAM, in its power on reset state.
//
// rows must be a multiple of 8, no larger than 64.
func New(cols, rows int) (*Sim, error) {
	if cols < 1 || cols > 128 {
		return nil, fmt.Errorf("ssd1306sim: invalid width %d", cols)
	}
	if rows < 8 || rows > 64 {
		return nil, fmt.Errorf("ssd1306sim: invalid RAM height %d", rows)
	}
	ram, err := bitmap.New(cols, rows)
	if err != nil {
		return nil, fmt.Errorf("ssd1306sim: %w", err)
	}
	pages := rows / 8
	return &Sim{
		cols:     cols,
		pages:    pages,
		ram:      ram,
		mode:     Page,
		colEnd:   cols - 1,
		pageEnd:  pages - 1,
		mux:      rows - 1,
		contrast: 0x7F,
	}, nil
}

func (s *Sim) String() string {
	return fmt.Sprintf("ssd1306sim{%dx%d}", s.cols, s.pages*8)
}

// SendCommand implements ssd1306.Channel.
func (s *Sim) SendCommand(op byte, params []byte) error {
	n := paramCount(op)
	if n < 0 {
		return fmt.Errorf("ssd1306sim: unknown opcode 0x%02X", op)
	}
	if len(params) != n {
		return fmt.Errorf("ssd1306sim: opcode 0x%02X takes %d parameters, got %d", op, n, len(params))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands++
	switch {
	case op <= 0x0F:
		s.pageCol = s.pageCol&0xF0 | int(op)
		s.col = s.pageCol
		return nil
	case op <= 0x1F:
		s.pageCol = s.pageCol&0x0F | int(op&0x0F)<<4
		s.col = s.pageCol
		return nil
	case op >= opStartLine && op <= 0x7F:
		s.startLine = int(op - opStartLine)
		return nil
	case op >= opPageStart && op <= 0xB7:
		p := int(op - opPageStart)
		if p >= s.pages {
			return fmt.Errorf("ssd1306sim: page %d out of range", p)
		}
		s.page = p
		return nil
	}
	switch op {
	case opMemoryMode:
		if params[0] > Page {
			return fmt.Errorf("ssd1306sim: invalid addressing mode %d", params[0])
		}
		s.mode = params[0]
	case opColumnAddr:
		start, end := int(params[0]), int(params[1])
		if start > end || end >= s.cols {
			return fmt.Errorf("ssd1306sim: invalid column range %d-%d", start, end)
		}
		s.colStart, s.colEnd, s.col = start, end, start
	case opPageAddr:
		start, end := int(params[0]), int(params[1])
		if start > end || end >= s.pages {
			return fmt.Errorf("ssd1306sim: invalid page range %d-%d", start, end)
		}
		s.pageStart, s.pageEnd, s.page = start, end, start
	case opScrollRight, opScrollLeft, opScrollUpRight, opScrollUpLeft:
		s.scrolling = false
	case opScrollStart:
		s.scrolling = true
	case opScrollStop:
		s.scrolling = false
	case opContrast:
		s.contrast = params[0]
	case opSegRemap:
		s.segRemap = false
	case opSegRemap | 1:
		s.segRemap = true
	case opDisplayAllOnRAM:
		s.allOn = false
	case opDisplayAllOn:
		s.allOn = true
	case opNormal:
		s.inverted = false
	case opInvert:
		s.inverted = true
	case opMultiplex:
		if params[0] < 7 || int(params[0]) >= s.pages*8 {
			return fmt.Errorf("ssd1306sim: invalid multiplex ratio %d", params[0])
		}
		s.mux = int(params[0])
	case opDisplayOff:
		s.on = false
	case opDisplayOn:
		s.on = true
	case opComScanInc:
		s.comReverse = false
	case opComScanDec:
		s.comReverse = true
	case opDisplayOffset:
		s.offset = int(params[0] & 0x3F)
	}
	return nil
}

// SendData implements ssd1306.Channel.
//
// Each byte is written at the current column and page, then the pointers
// advance according to the addressing mode, wrapping inside the window
// set by the column and page address commands.
func (s *Sim) SendData(p []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range p {
		if s.col < s.cols {
			s.ram.SetByte(s.col, s.page, v)
		}
		s.advance()
	}
	s.dataBytes += len(p)
	return nil
}

func (s *Sim) advance() {
	switch s.mode {
	case Horizontal:
		if s.col++; s.col > s.colEnd {
			s.col = s.colStart
			if s.page++; s.page > s.pageEnd {
				s.page = s.pageStart
			}
		}
	case Vertical:
		if s.page++; s.page > s.pageEnd {
			s.page = s.pageStart
			if s.col++; s.col > s.colEnd {
				s.col = s.colStart
			}
		}
	default:
		// The page pointer does not move.
		if s.col++; s.col >= s.cols {
			s.col = s.pageCol
		}
	}
}

// Rows returns the number of rows the panel shows, as set by the
// multiplex ratio.
func (s *Sim) Rows() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mux + 1
}

// Visible returns the image the panel shows.
//
// Row y of the panel shows RAM row (y+start line+offset) modulo the RAM
// height. Segment remap and COM scan direction as set by a default
// initialization sequence display the image the right way up; clearing
// both rotates it by 180°.
func (s *Sim) Visible() *bitmap.Bitmap {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.mux + 1
	out, _ := bitmap.New(s.cols, (h+7)&^7)
	if !s.on {
		return out
	}
	rows := s.pages * 8
	for y := 0; y < h; y++ {
		line := y
		if !s.comReverse {
			line = h - 1 - y
		}
		ry := (line + s.startLine + s.offset) % rows
		for x := 0; x < s.cols; x++ {
			rx := x
			if !s.segRemap {
				rx = s.cols - 1 - x
			}
			lit := s.allOn || s.ram.Pixel(rx, ry)
			out.DrawPixel(x, y, lit != s.inverted)
		}
	}
	return out
}

// RAM returns a copy of the display RAM.
func (s *Sim) RAM() *bitmap.Bitmap {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, _ := bitmap.New(s.ram.Cols(), s.ram.Rows())
	copy(c.Bytes(), s.ram.Bytes())
	return c
}

// State is a snapshot of the controller registers.
type State struct {
	Mode       byte
	StartLine  int
	Offset     int
	Contrast   byte
	SegRemap   bool
	ComReverse bool
	Inverted   bool
	On         bool
	Scrolling  bool
	Commands   int
	DataBytes  int
}

// State returns the current register values.
func (s *Sim) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Mode:       s.mode,
		StartLine:  s.startLine,
		Offset:     s.offset,
		Contrast:   s.contrast,
		SegRemap:   s.segRemap,
		ComReverse: s.comReverse,
		Inverted:   s.inverted,
		On:         s.on,
		Scrolling:  s.scrolling,
		Commands:   s.commands,
		DataBytes:  s.dataBytes,
	}
}
