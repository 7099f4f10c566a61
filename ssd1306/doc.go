// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ssd1306 controls a monochrome OLED display via a SSD1306
// controller.
//
// The driver works in terms of column-major bitmaps (package bitmap) and
// partial refreshes: DisplayBlock switches the controller to vertical
// addressing, opens a page/column window and streams the matching run of
// bitmap columns. The window may target the display RAM rows that are not
// currently visible; SetStartLine then brings them into view without
// resending any pixel. This is what package scrolllist builds on.
//
// The device can be driven on either I²C or SPI with 4 wires. Changing
// between protocol is likely done through resistor soldering, for boards that
// support both. Any other transport can be plugged in through Channel;
// package ssd1306sim provides a software one.
//
// Some boards expose a RES / Reset pin. If present, it must be normally be
// High. When set to Low (Ground), it enables the reset circuitry. It can be
// used externally to this driver, if used, the driver must be reinstantiated.
//
// The Dev is not safe for concurrent use: serialize all calls through one
// control loop.
//
// # Datasheets
//
// http://www.solomon-systech.com/en/product/display-ic/oled-driver-controller/ssd1306/
//
// https://cdn-shop.adafruit.com/datasheets/SSD1306.pdf
package ssd1306
