// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ssd1306sim emulates an SSD1306 controller behind the
// ssd1306.Channel interface.
//
// Sim decodes the command stream into controller state and writes data
// bytes into a simulated display RAM using the same column, page and
// addressing mode rules as the chip. Visible returns what the panel would
// show, taking the start line, segment remap and COM scan direction into
// account.
//
// Terminal renders bitmaps to a console with ANSI colors, which permits
// working on the user interface without hardware.
package ssd1306sim
