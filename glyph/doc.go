// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package glyph renders text onto a 1 bit surface with static, pre-baked
// fonts.
//
// Two font formats are supported:
//
// Fixed is a monospace table ordered by character code starting at 0. Each
// glyph is Cols bytes, one byte per column, bit 0 at the top. Font5x8 is the
// classic 5x7 LCD font.
//
// Proportional is a variable width font with a contiguous character range,
// per glyph descriptors, a kerning matrix and row-major, MSB-first glyph
// bitmaps. Characters outside the range act as word boundaries. Such assets
// are produced offline with FromFace and WriteGo, or derived from a Fixed
// table with Condense.
package glyph
