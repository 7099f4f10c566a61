// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bitmap

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// AlignmentError is returned when a row or a bitmap height does not fall on
// a page boundary (a multiple of 8 pixels).
type AlignmentError struct {
	What  string
	Value int
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("%s %d is not a multiple of 8", e.What, e.Value)
}

// Bitmap is a column-major 1 bit framebuffer.
type Bitmap struct {
	cols        int
	rows        int
	bytesPerCol int
	pix         []byte
}

// New returns a cleared bitmap of cols x rows pixels.
//
// rows must be a multiple of 8.
func New(cols, rows int) (*Bitmap, error) {
	if cols < 0 || rows < 0 {
		return nil, fmt.Errorf("bitmap: invalid size %dx%d", cols, rows)
	}
	if rows&7 != 0 {
		return nil, &AlignmentError{What: "bitmap rows", Value: rows}
	}
	return &Bitmap{
		cols:        cols,
		rows:        rows,
		bytesPerCol: rows / 8,
		pix:         make([]byte, cols*rows/8),
	}, nil
}

// Cols returns the width in pixels.
func (b *Bitmap) Cols() int {
	return b.cols
}

// Rows returns the height in pixels.
func (b *Bitmap) Rows() int {
	return b.rows
}

// BytesPerCol returns the number of bytes (pages) per column.
func (b *Bitmap) BytesPerCol() int {
	return b.bytesPerCol
}

// Bytes returns the underlying storage. It is not a copy.
func (b *Bitmap) Bytes() []byte {
	return b.pix
}

// Addr translates a pixel coordinate into the index of the byte holding it
// and the bit mask within that byte. The coordinate must be in bounds.
func (b *Bitmap) Addr(x, y int) (int, byte) {
	return (y >> 3) + b.bytesPerCol*x, 1 << uint(y&7)
}

func (b *Bitmap) inBounds(x, y int) bool {
	return x >= 0 && x < b.cols && y >= 0 && y < b.rows
}

// Clear turns every pixel off.
func (b *Bitmap) Clear() {
	for i := range b.pix {
		b.pix[i] = 0
	}
}

// DrawPixel sets or clears one pixel. Coordinates outside the bitmap are
// ignored.
func (b *Bitmap) DrawPixel(x, y int, on bool) {
	if !b.inBounds(x, y) {
		return
	}
	i, mask := b.Addr(x, y)
	if on {
		b.pix[i] |= mask
	} else {
		b.pix[i] &^= mask
	}
}

// Pixel reports whether a pixel is on. Out of bounds pixels are off.
func (b *Bitmap) Pixel(x, y int) bool {
	if !b.inBounds(x, y) {
		return false
	}
	i, mask := b.Addr(x, y)
	return b.pix[i]&mask != 0
}

// ClearBlock turns off the dx x dy rectangle whose top left corner is
// (x0, y0). Parts outside the bitmap are ignored.
func (b *Bitmap) ClearBlock(x0, y0, dx, dy int) {
	for x := x0; x < x0+dx; x++ {
		for y := y0; y < y0+dy; y++ {
			b.DrawPixel(x, y, false)
		}
	}
}

// Columns returns the contiguous storage for count columns starting at
// column offset. It is not a copy.
func (b *Bitmap) Columns(offset, count int) ([]byte, error) {
	if offset < 0 || count < 0 || offset+count > b.cols {
		return nil, fmt.Errorf("bitmap: columns [%d, %d) outside width %d", offset, offset+count, b.cols)
	}
	start, _ := b.Addr(offset, 0)
	return b.pix[start : start+count*b.bytesPerCol], nil
}

// Byte returns the byte of page page in column col.
func (b *Bitmap) Byte(col, page int) byte {
	i, _ := b.Addr(col, page*8)
	return b.pix[i]
}

// SetByte overwrites the byte of page page in column col.
func (b *Bitmap) SetByte(col, page int, v byte) {
	i, _ := b.Addr(col, page*8)
	b.pix[i] = v
}

// Dump writes a row-major rendering of the bitmap, one text line per pixel
// row, '*' for lit pixels.
func (b *Bitmap) Dump(w io.Writer) error {
	var buf bytes.Buffer
	line := make([]byte, b.cols+2)
	line[0] = '|'
	line[b.cols+1] = '|'
	for y := 0; y < b.rows; y++ {
		for x := 0; x < b.cols; x++ {
			if b.Pixel(x, y) {
				line[x+1] = '*'
			} else {
				line[x+1] = ' '
			}
		}
		_, _ = buf.Write(line)
		_ = buf.WriteByte('\n')
	}
	_, err := buf.WriteTo(w)
	return err
}

func (b *Bitmap) String() string {
	var buf bytes.Buffer
	_ = b.Dump(&buf)
	return buf.String()
}

// ColorModel implements image.Image.
func (b *Bitmap) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements image.Image.
func (b *Bitmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.cols, b.rows)
}

// At implements image.Image.
func (b *Bitmap) At(x, y int) color.Color {
	return image1bit.Bit(b.Pixel(x, y))
}

// Set implements draw.Image.
func (b *Bitmap) Set(x, y int, c color.Color) {
	b.DrawPixel(x, y, bool(image1bit.BitModel.Convert(c).(image1bit.Bit)))
}

var _ draw.Image = &Bitmap{}
