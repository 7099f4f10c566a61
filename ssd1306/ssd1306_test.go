// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1306

import (
	"errors"
	"fmt"
	"image"
	"testing"

	"github.com/GermanBionicSystems/oled/bitmap"
	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/spi/spitest"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// op is one call on a Channel. Data is nil for commands.
type op struct {
	Cmd    byte
	Params []byte
	Data   []byte
}

type fakeChannel struct {
	ops []op
	err error
}

func (f *fakeChannel) SendCommand(opcode byte, params []byte) error {
	if f.err != nil {
		return f.err
	}
	f.ops = append(f.ops, op{Cmd: opcode, Params: append([]byte(nil), params...)})
	return nil
}

func (f *fakeChannel) SendData(p []byte) error {
	if f.err != nil {
		return f.err
	}
	f.ops = append(f.ops, op{Data: append([]byte{}, p...)})
	return nil
}

func (f *fakeChannel) String() string {
	return "fake"
}

func newFake(t *testing.T, opts *Opts) (*Dev, *fakeChannel) {
	t.Helper()
	ch := &fakeChannel{}
	d, err := New(ch, opts)
	if err != nil {
		t.Fatal(err)
	}
	return d, ch
}

func newBitmap(t *testing.T, cols, rows int) *bitmap.Bitmap {
	t.Helper()
	bm, err := bitmap.New(cols, rows)
	if err != nil {
		t.Fatal(err)
	}
	for i := range bm.Bytes() {
		bm.Bytes()[i] = byte(i)
	}
	return bm
}

func TestNew(t *testing.T) {
	for _, tc := range []struct {
		name    string
		opts    Opts
		wantErr bool
	}{
		{name: "default", opts: DefaultOpts},
		{name: "128x64", opts: Opts{W: 128, H: 64}},
		{name: "narrow", opts: Opts{W: 4, H: 32}, wantErr: true},
		{name: "wide", opts: Opts{W: 132, H: 32}, wantErr: true},
		{name: "short", opts: Opts{W: 128, H: 0}, wantErr: true},
		{name: "misaligned", opts: Opts{W: 128, H: 30}, wantErr: true},
		{name: "taller than RAM", opts: Opts{W: 128, H: 64, BufferRows: 32}, wantErr: true},
		{name: "RAM too large", opts: Opts{W: 128, H: 32, BufferRows: 128}, wantErr: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ch := &fakeChannel{}
			d, err := New(ch, &tc.opts)
			if (err != nil) != tc.wantErr {
				t.Fatalf("New() error = %v, wantErr %t", err, tc.wantErr)
			}
			if len(ch.ops) != 0 {
				t.Errorf("New() sent %d operations", len(ch.ops))
			}
			if err != nil {
				return
			}
			if got := d.Bounds(); got != image.Rect(0, 0, tc.opts.W, tc.opts.H) {
				t.Errorf("Bounds() = %v", got)
			}
			if d.BufferRows() != 64 {
				t.Errorf("BufferRows() = %d, want 64", d.BufferRows())
			}
		})
	}
}

func TestInit(t *testing.T) {
	for _, tc := range []struct {
		name string
		opts Opts
		want []op
	}{
		{
			name: "128x32 internal VCC",
			opts: DefaultOpts,
			want: []op{
				{Cmd: _DISPLAYOFF},
				{Cmd: _SETDISPLAYCLOCKDIV, Params: []byte{0x80}},
				{Cmd: _SETMULTIPLEX, Params: []byte{0x1F}},
				{Cmd: _SETDISPLAYOFFSET, Params: []byte{0x00}},
				{Cmd: 0x40},
				{Cmd: _CHARGEPUMP, Params: []byte{0x14}},
				{Cmd: _MEMORYMODE, Params: []byte{0x00}},
				{Cmd: 0xA1},
				{Cmd: 0xC8},
				{Cmd: _SETCOMPINS, Params: []byte{0x02}},
				{Cmd: _SETCONTRAST, Params: []byte{0x8F}},
				{Cmd: _SETPRECHARGE, Params: []byte{0xF1}},
				{Cmd: _SETVCOMDETECT, Params: []byte{0x40}},
				{Cmd: 0x2E},
				{Cmd: 0xA4},
				{Cmd: 0xA6},
				{Cmd: 0xAF},
			},
		},
		{
			name: "128x64 external VCC",
			opts: Opts{W: 128, H: 64, ExternalVCC: true, Contrast: 0xFF},
			want: []op{
				{Cmd: _DISPLAYOFF},
				{Cmd: _SETDISPLAYCLOCKDIV, Params: []byte{0x80}},
				{Cmd: _SETMULTIPLEX, Params: []byte{0x3F}},
				{Cmd: _SETDISPLAYOFFSET, Params: []byte{0x00}},
				{Cmd: 0x40},
				{Cmd: _CHARGEPUMP, Params: []byte{0x10}},
				{Cmd: _MEMORYMODE, Params: []byte{0x00}},
				{Cmd: 0xA1},
				{Cmd: 0xC8},
				{Cmd: _SETCOMPINS, Params: []byte{0x12}},
				{Cmd: _SETCONTRAST, Params: []byte{0xFF}},
				{Cmd: _SETPRECHARGE, Params: []byte{0x22}},
				{Cmd: _SETVCOMDETECT, Params: []byte{0x40}},
				{Cmd: 0x2E},
				{Cmd: 0xA4},
				{Cmd: 0xA6},
				{Cmd: 0xAF},
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			d, ch := newFake(t, &tc.opts)
			if err := d.Init(); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(ch.ops, tc.want); diff != "" {
				t.Errorf("Init() difference (-got +want):\n%s", diff)
			}
		})
	}
}

func TestDisplayBlock(t *testing.T) {
	d, ch := newFake(t, &DefaultOpts)
	bm := newBitmap(t, 20, 16)
	if err := d.DisplayBlock(bm, 8, 4, 3, 2); err != nil {
		t.Fatal(err)
	}
	want := []op{
		{Cmd: _MEMORYMODE, Params: []byte{memoryModeVertical}},
		{Cmd: _PAGEADDR, Params: []byte{1, 2}},
		{Cmd: _COLUMNADDR, Params: []byte{4, 6}},
		// Columns 2, 3 and 4, two bytes each.
		{Data: []byte{4, 5, 6, 7, 8, 9}},
	}
	if diff := cmp.Diff(ch.ops, want); diff != "" {
		t.Errorf("DisplayBlock() difference (-got +want):\n%s", diff)
	}
}

func TestDisplay(t *testing.T) {
	d, ch := newFake(t, &Opts{W: 16, H: 8})
	bm := newBitmap(t, 24, 8)
	if err := d.Display(bm); err != nil {
		t.Fatal(err)
	}
	want := []op{
		{Cmd: _MEMORYMODE, Params: []byte{memoryModeVertical}},
		{Cmd: _PAGEADDR, Params: []byte{0, 0}},
		{Cmd: _COLUMNADDR, Params: []byte{0, 15}},
		{Data: bm.Bytes()[:16]},
	}
	if diff := cmp.Diff(ch.ops, want); diff != "" {
		t.Errorf("Display() difference (-got +want):\n%s", diff)
	}

	ch.ops = nil
	if err := d.DisplayCols(bm, 3, 2); err != nil {
		t.Fatal(err)
	}
	want = []op{
		{Cmd: _MEMORYMODE, Params: []byte{memoryModeVertical}},
		{Cmd: _PAGEADDR, Params: []byte{0, 0}},
		{Cmd: _COLUMNADDR, Params: []byte{3, 4}},
		{Data: []byte{3, 4}},
	}
	if diff := cmp.Diff(ch.ops, want); diff != "" {
		t.Errorf("DisplayCols() difference (-got +want):\n%s", diff)
	}
}

func TestDisplayBlockAlignment(t *testing.T) {
	d, ch := newFake(t, &DefaultOpts)
	for _, row := range []int{1, 4, 7, 12, 33} {
		err := d.DisplayBlock(newBitmap(t, 128, 32), row, 0, 128, 0)
		var align *bitmap.AlignmentError
		if !errors.As(err, &align) {
			t.Errorf("DisplayBlock(row=%d) error = %v, want AlignmentError", row, err)
		}
	}
	if len(ch.ops) != 0 {
		t.Errorf("misaligned DisplayBlock sent %d operations", len(ch.ops))
	}
}

func TestDisplayBlockOutOfRange(t *testing.T) {
	d, ch := newFake(t, &DefaultOpts)
	bm := newBitmap(t, 140, 32)
	for _, tc := range []struct {
		name      string
		row, col  int
		count     int
		colOffset int
	}{
		{name: "below RAM", row: 40, count: 128},
		{name: "negative row", row: -8, count: 128},
		{name: "right of display", col: 100, count: 29},
		{name: "negative col", col: -1, count: 10},
		{name: "no columns", count: 0},
		{name: "past bitmap", count: 128, colOffset: 13},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if err := d.DisplayBlock(bm, tc.row, tc.col, tc.count, tc.colOffset); err == nil {
				t.Error("DisplayBlock() succeeded")
			}
		})
	}
	if len(ch.ops) != 0 {
		t.Errorf("rejected DisplayBlock sent %d operations", len(ch.ops))
	}
}

func TestChannelErrorPropagates(t *testing.T) {
	errBus := errors.New("bus on fire")
	d, ch := newFake(t, &DefaultOpts)
	ch.err = errBus
	for name, f := range map[string]func() error{
		"Init":         d.Init,
		"DisplayBlock": func() error { return d.DisplayBlock(newBitmap(t, 128, 32), 0, 0, 128, 0) },
		"Flip":         func() error { return d.Flip(true) },
		"SetContrast":  func() error { return d.SetContrast(1) },
		"SetStartLine": func() error { return d.SetStartLine(1) },
		"Invert":       func() error { return d.Invert(true) },
		"Halt":         d.Halt,
		"Resume":       d.Resume,
		"Scroll":       func() error { return d.Scroll(Left, FrameRate2, 0, -1) },
		"StopScroll":   d.StopScroll,
	} {
		if err := f(); err != errBus {
			t.Errorf("%s() = %v, want the channel error unmodified", name, err)
		}
	}
	if d.Contrast() != DefaultOpts.Contrast || d.Flipped() || d.StartLine() != 0 {
		t.Error("state changed despite channel errors")
	}
}

func TestFlip(t *testing.T) {
	d, ch := newFake(t, &DefaultOpts)
	if err := d.Flip(true); err != nil {
		t.Fatal(err)
	}
	if !d.Flipped() {
		t.Error("Flipped() = false")
	}
	if err := d.Flip(false); err != nil {
		t.Fatal(err)
	}
	want := []op{{Cmd: 0xC0}, {Cmd: 0xA0}, {Cmd: 0xC8}, {Cmd: 0xA1}}
	if diff := cmp.Diff(ch.ops, want); diff != "" {
		t.Errorf("Flip() difference (-got +want):\n%s", diff)
	}
}

func TestSimpleCommands(t *testing.T) {
	d, ch := newFake(t, &DefaultOpts)
	if err := d.SetContrast(0x7F); err != nil {
		t.Fatal(err)
	}
	if err := d.SetStartLine(33); err != nil {
		t.Fatal(err)
	}
	if err := d.Invert(true); err != nil {
		t.Fatal(err)
	}
	if err := d.Invert(false); err != nil {
		t.Fatal(err)
	}
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	if err := d.Resume(); err != nil {
		t.Fatal(err)
	}
	want := []op{
		{Cmd: _SETCONTRAST, Params: []byte{0x7F}},
		{Cmd: 0x40 | 33},
		{Cmd: 0xA7},
		{Cmd: 0xA6},
		{Cmd: 0xAE},
		{Cmd: 0xAF},
	}
	if diff := cmp.Diff(ch.ops, want); diff != "" {
		t.Errorf("difference (-got +want):\n%s", diff)
	}
	if d.Contrast() != 0x7F || d.StartLine() != 33 {
		t.Errorf("Contrast() = %#x, StartLine() = %d", d.Contrast(), d.StartLine())
	}
	for _, line := range []int{-1, 64, 100} {
		if err := d.SetStartLine(line); err == nil {
			t.Errorf("SetStartLine(%d) succeeded", line)
		}
	}
}

func TestScroll(t *testing.T) {
	d, ch := newFake(t, &Opts{W: 128, H: 64})
	if err := d.Scroll(Left, FrameRate5, 8, -1); err != nil {
		t.Fatal(err)
	}
	if err := d.Scroll(UpRight, FrameRate25, 0, 16); err != nil {
		t.Fatal(err)
	}
	if err := d.StopScroll(); err != nil {
		t.Fatal(err)
	}
	want := []op{
		{Cmd: 0x27, Params: []byte{0x00, 1, byte(FrameRate5), 7, 0x00, 0xFF}},
		{Cmd: 0x2F},
		{Cmd: 0x29, Params: []byte{0x00, 0, byte(FrameRate25), 1, 0x01}},
		{Cmd: 0x2F},
		{Cmd: 0x2E},
	}
	if diff := cmp.Diff(ch.ops, want); diff != "" {
		t.Errorf("Scroll() difference (-got +want):\n%s", diff)
	}
	for _, tc := range [][2]int{{8, 8}, {4, 16}, {0, 12}, {0, 72}} {
		if err := d.Scroll(Right, FrameRate2, tc[0], tc[1]); err == nil {
			t.Errorf("Scroll(%d, %d) succeeded", tc[0], tc[1])
		}
	}
}

func TestDraw(t *testing.T) {
	d, ch := newFake(t, &Opts{W: 8, H: 16})
	if err := d.Draw(image.Rect(0, 8, 8, 16), &image.Uniform{image1bit.On}, image.Point{}); err != nil {
		t.Fatal(err)
	}
	data := ch.ops[len(ch.ops)-1].Data
	want := []byte{0, 0xFF, 0, 0xFF, 0, 0xFF, 0, 0xFF, 0, 0xFF, 0, 0xFF, 0, 0xFF, 0, 0xFF}
	if diff := cmp.Diff(data, want); diff != "" {
		t.Errorf("Draw() data difference (-got +want):\n%s", diff)
	}
}

// dcPin records each D/C level change along with the number of SPI
// transactions seen so far.
type dcPin struct {
	gpiotest.Pin
	rec    *spitest.Record
	events []string
}

func (p *dcPin) Out(l gpio.Level) error {
	p.events = append(p.events, fmt.Sprintf("%s@%d", l, len(p.rec.Ops)))
	return p.Pin.Out(l)
}

func TestSPI(t *testing.T) {
	rec := &spitest.Record{}
	dc := &dcPin{Pin: gpiotest.Pin{N: "DC"}, rec: rec}
	d, err := NewSPI(rec, dc, &DefaultOpts)
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.Ops) != 17 {
		t.Fatalf("NewSPI() sent %d transactions, want 17", len(rec.Ops))
	}
	if diff := cmp.Diff(rec.Ops[1], conntest.IO{W: []byte{0xD5, 0x80}}); diff != "" {
		t.Errorf("clock divider difference (-got +want):\n%s", diff)
	}

	rec.Ops = nil
	dc.events = nil
	bm := newBitmap(t, 128, 32)
	if err := d.DisplayBlock(bm, 32, 0, 2, 1); err != nil {
		t.Fatal(err)
	}
	want := []conntest.IO{
		{W: []byte{0x20, 0x01}},
		{W: []byte{0x22, 4, 7}},
		{W: []byte{0x21, 0, 1}},
		{W: []byte{4, 5, 6, 7, 8, 9, 10, 11}},
	}
	if diff := cmp.Diff(rec.Ops, want); diff != "" {
		t.Errorf("DisplayBlock() transactions (-got +want):\n%s", diff)
	}
	// D/C stays Low for commands and their parameters, High only for data.
	wantDC := []string{"Low@0", "Low@1", "Low@2", "High@3", "Low@4"}
	if diff := cmp.Diff(dc.events, wantDC); diff != "" {
		t.Errorf("D/C levels (-got +want):\n%s", diff)
	}
}

func TestSPIRequiresDC(t *testing.T) {
	if _, err := NewSPI(&spitest.Record{}, nil, &DefaultOpts); err == nil {
		t.Error("NewSPI() accepted a nil D/C pin")
	}
	if _, err := NewSPI(&spitest.Record{}, gpio.INVALID, &DefaultOpts); err == nil {
		t.Error("NewSPI() accepted gpio.INVALID")
	}
}

func TestI2C(t *testing.T) {
	bus := &i2ctest.Record{}
	d, err := NewI2C(bus, &DefaultOpts)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(bus.Ops[:2], []i2ctest.IO{
		{Addr: 0x3C, W: []byte{0x00, 0xAE}},
		{Addr: 0x3C, W: []byte{0x00, 0xD5, 0x80}},
	}); diff != "" {
		t.Errorf("NewI2C() difference (-got +want):\n%s", diff)
	}

	bus.Ops = nil
	if err := d.DisplayBlock(newBitmap(t, 8, 8), 0, 0, 2, 0); err != nil {
		t.Fatal(err)
	}
	want := []i2ctest.IO{
		{Addr: 0x3C, W: []byte{0x00, 0x20, 0x01}},
		{Addr: 0x3C, W: []byte{0x00, 0x22, 0, 0}},
		{Addr: 0x3C, W: []byte{0x00, 0x21, 0, 1}},
		{Addr: 0x3C, W: []byte{0x40, 0, 1}},
	}
	if diff := cmp.Diff(bus.Ops, want); diff != "" {
		t.Errorf("DisplayBlock() difference (-got +want):\n%s", diff)
	}
}
