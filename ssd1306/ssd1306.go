// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1306

// https://cdn-shop.adafruit.com/datasheets/SSD1306.pdf
//
// https://learn.adafruit.com/ssd1306-oled-displays-with-raspberry-pi-and-beaglebone-black?view=all

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/GermanBionicSystems/oled/bitmap"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Commands. See page 28 of the datasheet.
const (
	_SETLOWCOLUMN        = 0x00
	_SETHIGHCOLUMN       = 0x10
	_MEMORYMODE          = 0x20
	_COLUMNADDR          = 0x21
	_PAGEADDR            = 0x22
	_RIGHT_HORIZ_SCROLL  = 0x26
	_LEFT_HORIZ_SCROLL   = 0x27
	_VERT_RIGHT_SCROLL   = 0x29
	_VERT_LEFT_SCROLL    = 0x2A
	_DEACTIVATE_SCROLL   = 0x2E
	_ACTIVATE_SCROLL     = 0x2F
	_SETSTARTLINE        = 0x40
	_SETCONTRAST         = 0x81
	_CHARGEPUMP          = 0x8D
	_SEGREMAP            = 0xA0
	_SETVERTSCROLLAREA   = 0xA3
	_DISPLAYALLON_RESUME = 0xA4
	_DISPLAYALLON        = 0xA5
	_NORMALDISPLAY       = 0xA6
	_INVERTDISPLAY       = 0xA7
	_SETMULTIPLEX        = 0xA8
	_DISPLAYOFF          = 0xAE
	_DISPLAYON           = 0xAF
	_PAGESTARTADDRESS    = 0xB0
	_COMSCANINC          = 0xC0
	_COMSCANDEC          = 0xC8
	_SETDISPLAYOFFSET    = 0xD3
	_SETDISPLAYCLOCKDIV  = 0xD5
	_SETPRECHARGE        = 0xD9
	_SETCOMPINS          = 0xDA
	_SETVCOMDETECT       = 0xDB
)

// Memory addressing modes, parameter of _MEMORYMODE.
const (
	memoryModeHorizontal = 0x00
	memoryModeVertical   = 0x01
	memoryModePage       = 0x02
)

// FrameRate determines scrolling speed.
type FrameRate byte

// Possible frame rates. The value determines the number of refreshes between
// movement. The lower value, the higher speed.
const (
	FrameRate2   FrameRate = 7
	FrameRate3   FrameRate = 4
	FrameRate4   FrameRate = 5
	FrameRate5   FrameRate = 0
	FrameRate25  FrameRate = 6
	FrameRate64  FrameRate = 1
	FrameRate128 FrameRate = 2
	FrameRate256 FrameRate = 3
)

// Orientation is used for scrolling.
type Orientation byte

// Possible orientations for scrolling.
const (
	Left    Orientation = _LEFT_HORIZ_SCROLL
	Right   Orientation = _RIGHT_HORIZ_SCROLL
	UpRight Orientation = _VERT_RIGHT_SCROLL
	UpLeft  Orientation = _VERT_LEFT_SCROLL
)

// DefaultOpts is the 128x32 SPI module the driver was first written for.
var DefaultOpts = Opts{
	W:          128,
	H:          32,
	BufferRows: 64,
	Sequential: true,
	Contrast:   0x8F,
	Addr:       0x3C,
}

// Opts defines the options for the device.
type Opts struct {
	// W and H are the visible size in pixels.
	W int
	H int
	// BufferRows is the number of rows of display RAM. The SSD1306 has 64
	// rows even when wired to a 32 rows panel; the hidden rows are reachable
	// through SetStartLine.
	BufferRows int
	// ExternalVCC disables the internal charge pump.
	ExternalVCC bool
	// Sequential corresponds to the Sequential/Alternative COM pin configuration
	// in the OLED panel hardware. Try toggling this if half the rows appear to be
	// missing on your display. Particularly on 32 pixel height displays.
	Sequential bool
	// Contrast is the initial contrast level.
	Contrast byte
	// The I2C address of the display.
	Addr uint16
}

func (o *Opts) validate() error {
	if o.W < 8 || o.W > 128 {
		return fmt.Errorf("ssd1306: invalid width %d", o.W)
	}
	if o.BufferRows < 8 || o.BufferRows > 64 || o.BufferRows&7 != 0 {
		return fmt.Errorf("ssd1306: invalid display RAM rows %d", o.BufferRows)
	}
	if o.H < 8 || o.H > o.BufferRows || o.H&7 != 0 {
		return fmt.Errorf("ssd1306: invalid height %d", o.H)
	}
	return nil
}

// NewSPI returns a Dev object that communicates over SPI to a SSD1306 display
// controller and initializes it.
//
// The SSD1306 can operate at up to 3.3Mhz, which is much higher than I²C. This
// permits higher refresh rates.
//
// # Wiring
//
// Connect SDA to SPI_MOSI, SCK to SPI_CLK, CS to SPI_CS and D/C to dc. Only
// 4-wire SPI is supported.
//
// The RES (reset) pin can be used outside of this driver but is not supported
// natively. In case of external reset via the RES pin, this device drive must
// be reinstantiated.
func NewSPI(p spi.Port, dc gpio.PinOut, opts *Opts) (*Dev, error) {
	if dc == nil || dc == gpio.INVALID {
		return nil, fmt.Errorf("ssd1306: a D/C pin is required, 3-wire SPI is not supported")
	}
	if err := dc.Out(gpio.Low); err != nil {
		return nil, err
	}
	c, err := p.Connect(3300*physic.KiloHertz, spi.Mode0, 8)
	if err != nil {
		return nil, err
	}
	return newDev(&spiChannel{c: c, dc: dc}, opts)
}

// NewI2C returns a Dev object that communicates over I²C to a SSD1306 display
// controller and initializes it.
func NewI2C(b i2c.Bus, opts *Opts) (*Dev, error) {
	addr := opts.Addr
	if addr == 0 {
		addr = DefaultOpts.Addr
	}
	// Maximum clock speed is 1/2.5µs = 400KHz.
	return newDev(&i2cChannel{c: &i2c.Dev{Bus: b, Addr: addr}}, opts)
}

func newDev(ch Channel, opts *Opts) (*Dev, error) {
	d, err := New(ch, opts)
	if err != nil {
		return nil, err
	}
	if err := d.Init(); err != nil {
		return nil, err
	}
	return d, nil
}

// New returns a Dev talking through ch. Nothing is sent to the device; call
// Init to run the power up sequence.
func New(ch Channel, opts *Opts) (*Dev, error) {
	o := *opts
	if o.BufferRows == 0 {
		o.BufferRows = 64
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	return &Dev{
		ch:        ch,
		opts:      o,
		rect:      image.Rect(0, 0, o.W, o.H),
		contrast:  o.Contrast,
		mode:      memoryModeHorizontal,
		startLine: 0,
	}, nil
}

// Dev is an open handle to the display controller.
//
// It is not safe for concurrent use.
type Dev struct {
	ch   Channel
	opts Opts
	rect image.Rectangle

	// Mutable
	mode      byte
	flipped   bool
	inverted  bool
	halted    bool
	contrast  byte
	startLine int
	// next is lazy initialized on first Draw().
	next *bitmap.Bitmap
}

func (d *Dev) String() string {
	return fmt.Sprintf("ssd1306.Dev{%s, %s}", d.ch, d.rect.Max)
}

// Cols returns the visible width in pixels.
func (d *Dev) Cols() int {
	return d.opts.W
}

// Rows returns the visible height in pixels.
func (d *Dev) Rows() int {
	return d.opts.H
}

// BufferRows returns the number of rows of display RAM.
func (d *Dev) BufferRows() int {
	return d.opts.BufferRows
}

// Init sends the power up sequence and turns the display on.
//
// Page 64 of the datasheet has the full recommended flow.
func (d *Dev) Init() error {
	chargePump := byte(0x14)
	precharge := byte(0xF1)
	if d.opts.ExternalVCC {
		chargePump = 0x10
		precharge = 0x22
	}
	// See page 40.
	comPins := byte(0x12)
	if d.opts.Sequential {
		comPins = 0x02
	}
	cmds := []struct {
		op     byte
		params []byte
	}{
		{_DISPLAYOFF, nil},
		{_SETDISPLAYCLOCKDIV, []byte{0x80}}, // Power on reset value.
		{_SETMULTIPLEX, []byte{byte(d.opts.H - 1)}},
		{_SETDISPLAYOFFSET, []byte{0x00}},
		{_SETSTARTLINE | 0x00, nil},
		{_CHARGEPUMP, []byte{chargePump}},
		{_MEMORYMODE, []byte{memoryModeHorizontal}},
		{_SEGREMAP | 0x01, nil}, // Column 127 is SEG0.
		{_COMSCANDEC, nil},
		{_SETCOMPINS, []byte{comPins}},
		{_SETCONTRAST, []byte{d.contrast}},
		{_SETPRECHARGE, []byte{precharge}},
		{_SETVCOMDETECT, []byte{0x40}},
		{_DEACTIVATE_SCROLL, nil},
		{_DISPLAYALLON_RESUME, nil}, // Display follows RAM content.
		{_NORMALDISPLAY, nil},
		{_DISPLAYON, nil},
	}
	for _, c := range cmds {
		if err := d.ch.SendCommand(c.op, c.params); err != nil {
			return err
		}
	}
	d.mode = memoryModeHorizontal
	d.startLine = 0
	d.flipped = false
	d.inverted = false
	d.halted = false
	return nil
}

// DisplayBlock transfers colCount columns of bm, starting at column colOffset
// of the bitmap, to the display RAM window whose top left corner is (col,
// row).
//
// Both row and bm.Rows() are divided by 8 to get page addresses, so both
// must be multiples of 8. The window may lie in the hidden part of the
// display RAM.
func (d *Dev) DisplayBlock(bm *bitmap.Bitmap, row, col, colCount, colOffset int) error {
	if row&7 != 0 {
		return &bitmap.AlignmentError{What: "row", Value: row}
	}
	if bm.Rows()&7 != 0 {
		return &bitmap.AlignmentError{What: "bitmap rows", Value: bm.Rows()}
	}
	pageCount := bm.Rows() >> 3
	pageStart := row >> 3
	pageEnd := pageStart + pageCount - 1
	colStart := col
	colEnd := col + colCount - 1
	if row < 0 || pageCount == 0 || pageEnd >= d.opts.BufferRows>>3 {
		return fmt.Errorf("ssd1306: rows [%d, %d) outside display RAM of %d rows", row, row+bm.Rows(), d.opts.BufferRows)
	}
	if colCount <= 0 || colStart < 0 || colEnd >= d.opts.W {
		return fmt.Errorf("ssd1306: columns [%d, %d) outside display of %d columns", colStart, colEnd+1, d.opts.W)
	}
	data, err := bm.Columns(colOffset, colCount)
	if err != nil {
		return err
	}
	if err := d.ch.SendCommand(_MEMORYMODE, []byte{memoryModeVertical}); err != nil {
		return err
	}
	d.mode = memoryModeVertical
	if err := d.ch.SendCommand(_PAGEADDR, []byte{byte(pageStart), byte(pageEnd)}); err != nil {
		return err
	}
	if err := d.ch.SendCommand(_COLUMNADDR, []byte{byte(colStart), byte(colEnd)}); err != nil {
		return err
	}
	return d.ch.SendData(data)
}

// Display refreshes the display RAM from the top left with bm, up to the
// display width.
func (d *Dev) Display(bm *bitmap.Bitmap) error {
	n := bm.Cols()
	if n > d.opts.W {
		n = d.opts.W
	}
	return d.DisplayBlock(bm, 0, 0, n, 0)
}

// DisplayCols refreshes count columns of bm starting at startCol, at the same
// columns on the display.
func (d *Dev) DisplayCols(bm *bitmap.Bitmap, startCol, count int) error {
	return d.DisplayBlock(bm, 0, startCol, count, startCol)
}

// Flip rotates the panel by 180° by reversing both the COM scan direction
// and the segment remap. Coordinates in bitmaps are unaffected.
func (d *Dev) Flip(enabled bool) error {
	scan, remap := byte(_COMSCANDEC), byte(_SEGREMAP|0x01)
	if enabled {
		scan, remap = _COMSCANINC, _SEGREMAP|0x00
	}
	if err := d.ch.SendCommand(scan, nil); err != nil {
		return err
	}
	if err := d.ch.SendCommand(remap, nil); err != nil {
		return err
	}
	d.flipped = enabled
	return nil
}

// Flipped reports whether the display is rotated by 180°.
func (d *Dev) Flipped() bool {
	return d.flipped
}

// SetContrast changes the screen contrast.
func (d *Dev) SetContrast(level byte) error {
	if err := d.ch.SendCommand(_SETCONTRAST, []byte{level}); err != nil {
		return err
	}
	d.contrast = level
	return nil
}

// Contrast returns the last contrast level set.
func (d *Dev) Contrast() byte {
	return d.contrast
}

// SetStartLine selects the display RAM row shown on the top visible line,
// effectively scrolling the screen to that position without resending any
// pixel.
//
// line must be lower than BufferRows().
func (d *Dev) SetStartLine(line int) error {
	if line < 0 || line >= d.opts.BufferRows {
		return fmt.Errorf("ssd1306: invalid start line %d", line)
	}
	if err := d.ch.SendCommand(_SETSTARTLINE|byte(line&0x3F), nil); err != nil {
		return err
	}
	d.startLine = line
	return nil
}

// StartLine returns the last start line set.
func (d *Dev) StartLine() int {
	return d.startLine
}

// Invert the display (black on white vs white on black).
func (d *Dev) Invert(blackOnWhite bool) error {
	op := byte(_NORMALDISPLAY)
	if blackOnWhite {
		op = _INVERTDISPLAY
	}
	if err := d.ch.SendCommand(op, nil); err != nil {
		return err
	}
	d.inverted = blackOnWhite
	return nil
}

// Halt turns off the display. Display RAM is preserved.
func (d *Dev) Halt() error {
	if err := d.ch.SendCommand(_DISPLAYOFF, nil); err != nil {
		return err
	}
	d.halted = true
	return nil
}

// Resume turns the display back on after Halt.
func (d *Dev) Resume() error {
	if err := d.ch.SendCommand(_DISPLAYON, nil); err != nil {
		return err
	}
	d.halted = false
	return nil
}

// Scroll starts the controller's continuous hardware scroll of an
// horizontal band.
//
// Only one scrolling operation can happen at a time. Display RAM must not be
// written while scrolling; call StopScroll first.
//
// Both startLine and endLine must be multiples of 8.
//
// Use -1 for endLine to extend to the bottom of the display.
func (d *Dev) Scroll(o Orientation, rate FrameRate, startLine, endLine int) error {
	h := d.opts.H
	if endLine == -1 {
		endLine = h
	}
	if startLine >= endLine {
		return fmt.Errorf("ssd1306: startLine (%d) must be lower than endLine (%d)", startLine, endLine)
	}
	if startLine&7 != 0 {
		return &bitmap.AlignmentError{What: "startLine", Value: startLine}
	}
	if endLine&7 != 0 {
		return &bitmap.AlignmentError{What: "endLine", Value: endLine}
	}
	if startLine < 0 || endLine > h {
		return fmt.Errorf("ssd1306: invalid scroll band [%d, %d)", startLine, endLine)
	}

	startPage := uint8(startLine / 8)
	endPage := uint8(endLine / 8)
	var params []byte
	if o == Left || o == Right {
		// page 28
		// <op>, dummy, <start page>, <rate>,  <end page>, <dummy>, <dummy>
		params = []byte{0x00, startPage, byte(rate), endPage - 1, 0x00, 0xFF}
	} else {
		// page 29
		// <op>, dummy, <start page>, <rate>,  <end page>, <offset>
		params = []byte{0x00, startPage, byte(rate), endPage - 1, 0x01}
	}
	if err := d.ch.SendCommand(byte(o), params); err != nil {
		return err
	}
	return d.ch.SendCommand(_ACTIVATE_SCROLL, nil)
}

// StopScroll stops any scrolling previously set. Display RAM content must be
// rewritten afterward.
func (d *Dev) StopScroll() error {
	return d.ch.SendCommand(_DEACTIVATE_SCROLL, nil)
}

// ColorModel implements display.Drawer.
//
// It is a one bit color model, as implemented by image1bit.Bit.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements display.Drawer. Min is guaranteed to be {0, 0}.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Draw implements display.Drawer.
//
// It composes src onto an internal framebuffer the size of the visible
// area and sends it in full to the top of the display RAM. It draws
// synchronously, once this function returns, the display is updated.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	if d.next == nil {
		next, err := bitmap.New(d.opts.W, d.opts.H)
		if err != nil {
			return err
		}
		d.next = next
	}
	draw.Src.Draw(d.next, r, src, sp)
	return d.Display(d.next)
}

var _ display.Drawer = &Dev{}
