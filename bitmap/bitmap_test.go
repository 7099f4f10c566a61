// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bitmap

import (
	"errors"
	"image"
	"image/draw"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

func mustNew(t *testing.T, cols, rows int) *Bitmap {
	t.Helper()
	b, err := New(cols, rows)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestNew(t *testing.T) {
	for _, tc := range []struct {
		name      string
		cols      int
		rows      int
		wantBytes int
		wantAlign bool
		wantErr   bool
	}{
		{name: "128x32", cols: 128, rows: 32, wantBytes: 512},
		{name: "128x64", cols: 128, rows: 64, wantBytes: 1024},
		{name: "empty", cols: 0, rows: 0, wantBytes: 0},
		{name: "misaligned", cols: 128, rows: 30, wantAlign: true, wantErr: true},
		{name: "negative", cols: -1, rows: 8, wantErr: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			b, err := New(tc.cols, tc.rows)
			if (err != nil) != tc.wantErr {
				t.Fatalf("New(%d, %d) error = %v, wantErr %t", tc.cols, tc.rows, err, tc.wantErr)
			}
			var align *AlignmentError
			if got := errors.As(err, &align); got != tc.wantAlign {
				t.Fatalf("New(%d, %d) AlignmentError = %t, want %t", tc.cols, tc.rows, got, tc.wantAlign)
			}
			if err != nil {
				return
			}
			if got := len(b.Bytes()); got != tc.wantBytes {
				t.Errorf("len(Bytes()) = %d, want %d", got, tc.wantBytes)
			}
			if got := b.BytesPerCol(); got != tc.rows/8 {
				t.Errorf("BytesPerCol() = %d, want %d", got, tc.rows/8)
			}
		})
	}
}

func TestDrawPixel(t *testing.T) {
	b := mustNew(t, 20, 16)
	for x := 0; x < b.Cols(); x++ {
		for y := 0; y < b.Rows(); y++ {
			b.Clear()
			b.DrawPixel(x, y, true)
			i := (y >> 3) + b.BytesPerCol()*x
			mask := byte(1) << uint(y&7)
			if b.Bytes()[i]&mask == 0 {
				t.Fatalf("DrawPixel(%d, %d): byte %d = %#02x, bit %#02x not set", x, y, i, b.Bytes()[i], mask)
			}
			for j, v := range b.Bytes() {
				if j != i && v != 0 {
					t.Fatalf("DrawPixel(%d, %d) touched byte %d = %#02x", x, y, j, v)
				}
			}
			b.DrawPixel(x, y, false)
			if b.Bytes()[i] != 0 {
				t.Fatalf("DrawPixel(%d, %d, false) left %#02x", x, y, b.Bytes()[i])
			}
		}
	}
}

func TestDrawPixelOutOfBounds(t *testing.T) {
	b := mustNew(t, 8, 8)
	b.DrawPixel(3, 3, true)
	want := append([]byte(nil), b.Bytes()...)
	for _, p := range []image.Point{{-1, 0}, {0, -1}, {8, 0}, {0, 8}, {100, 100}, {-5, 9}} {
		b.DrawPixel(p.X, p.Y, true)
		b.DrawPixel(p.X, p.Y, false)
		if b.Pixel(p.X, p.Y) {
			t.Errorf("Pixel(%v) = true", p)
		}
	}
	if diff := cmp.Diff(b.Bytes(), want); diff != "" {
		t.Errorf("out of bounds writes changed the buffer (-got +want):\n%s", diff)
	}
}

func TestClear(t *testing.T) {
	b := mustNew(t, 16, 24)
	for i := range b.Bytes() {
		b.Bytes()[i] = 0xA5
	}
	b.Clear()
	for x := 0; x < b.Cols(); x++ {
		for y := 0; y < b.Rows(); y++ {
			if b.Pixel(x, y) {
				t.Fatalf("Pixel(%d, %d) set after Clear()", x, y)
			}
		}
	}
}

func TestClearBlock(t *testing.T) {
	b := mustNew(t, 8, 8)
	for i := range b.Bytes() {
		b.Bytes()[i] = 0xFF
	}
	b.ClearBlock(2, 1, 3, 4)
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			want := !(x >= 2 && x < 5 && y >= 1 && y < 5)
			if got := b.Pixel(x, y); got != want {
				t.Errorf("Pixel(%d, %d) = %t, want %t", x, y, got, want)
			}
		}
	}
	// Partially outside.
	b.ClearBlock(6, 6, 10, 10)
	if b.Pixel(7, 7) {
		t.Error("Pixel(7, 7) still set")
	}
}

func TestColumns(t *testing.T) {
	b := mustNew(t, 4, 16)
	for i := range b.Bytes() {
		b.Bytes()[i] = byte(i)
	}
	got, err := b.Columns(1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(got, []byte{2, 3, 4, 5}); diff != "" {
		t.Errorf("Columns(1, 2) difference (-got +want):\n%s", diff)
	}
	if _, err := b.Columns(3, 2); err == nil {
		t.Error("Columns(3, 2) succeeded past the right edge")
	}
	if _, err := b.Columns(-1, 1); err == nil {
		t.Error("Columns(-1, 1) succeeded")
	}
}

func TestByte(t *testing.T) {
	b := mustNew(t, 3, 16)
	b.SetByte(2, 1, 0x81)
	if !b.Pixel(2, 8) || !b.Pixel(2, 15) || b.Pixel(2, 9) {
		t.Errorf("SetByte(2, 1, 0x81) mapped wrong pixels:\n%s", b)
	}
	if got := b.Byte(2, 1); got != 0x81 {
		t.Errorf("Byte(2, 1) = %#02x", got)
	}
}

func TestByteAddr(t *testing.T) {
	b := mustNew(t, 5, 24)
	for col := 0; col < b.Cols(); col++ {
		for page := 0; page < b.BytesPerCol(); page++ {
			v := byte(col<<4 | page)
			b.SetByte(col, page, v)
			i, mask := b.Addr(col, page*8)
			if mask != 1 {
				t.Fatalf("Addr(%d, %d) mask = %#02x", col, page*8, mask)
			}
			if got := b.Bytes()[i]; got != v {
				t.Fatalf("SetByte(%d, %d) stored %#02x at %d, want %#02x", col, page, got, i, v)
			}
		}
	}
	cols, err := b.Columns(3, 2)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x30, 0x31, 0x32, 0x40, 0x41, 0x42}
	if diff := cmp.Diff(want, cols); diff != "" {
		t.Fatalf("Columns(3, 2) (-want +got):\n%s", diff)
	}
}

func TestDump(t *testing.T) {
	b := mustNew(t, 3, 8)
	b.DrawPixel(0, 0, true)
	b.DrawPixel(2, 7, true)
	want := "|*  |\n" + strings.Repeat("|   |\n", 6) + "|  *|\n"
	if diff := cmp.Diff(b.String(), want); diff != "" {
		t.Errorf("String() difference (-got +want):\n%s", diff)
	}
}

func TestDrawImage(t *testing.T) {
	b := mustNew(t, 16, 16)
	draw.Src.Draw(b, image.Rect(4, 4, 8, 12), &image.Uniform{image1bit.On}, image.Point{})
	for x := 0; x < 16; x++ {
		for y := 0; y < 16; y++ {
			want := x >= 4 && x < 8 && y >= 4 && y < 12
			if got := b.At(x, y).(image1bit.Bit); bool(got) != want {
				t.Fatalf("At(%d, %d) = %v, want %t", x, y, got, want)
			}
		}
	}
	if got := b.Bounds(); got != image.Rect(0, 0, 16, 16) {
		t.Errorf("Bounds() = %v", got)
	}
}
