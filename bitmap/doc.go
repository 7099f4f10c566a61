// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bitmap implements a 1 bit framebuffer laid out the way a
// page-addressed OLED controller consumes it in vertical addressing mode.
//
// Pixels are stored in column-major order. Each column is a run of
// Rows()/8 bytes, each byte covering 8 vertical pixels with bit 0 at the
// top. This makes any vertical slice of the buffer a contiguous byte range,
// which is what partial refreshes and horizontal panning stream to the
// device.
//
// Bitmap implements draw.Image with the periph image1bit color model, so
// the standard image/draw package can compose onto it.
package bitmap
