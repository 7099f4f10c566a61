// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package oled is a container for a page-addressed monochrome OLED driver
// and the text widgets built on top of it.
//
// The pieces, leaf first:
//
//	bitmap              column-major 1 bit framebuffer
//	glyph               fixed width and proportional (kerned) text rendering
//	ssd1306             SSD1306 controller: partial refresh, flip, start line
//	ssd1306/ssd1306sim  software controller and terminal renderer
//	scrolllist          circular scrolling list driven by the start line
//	rotary              quadrature encoder used as the list's input
//	preview             PNG rendering and live HTTP stream of a framebuffer
//
// cmd/oledlist ties them together on a Raspberry Pi or in the terminal.
package oled
