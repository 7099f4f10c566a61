// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/GermanBionicSystems/oled/glyph"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
)

// loadFont returns the named font.
//
// TrueType fonts cover the printable ASCII range; space stays outside of it
// so it separates words.
func loadFont(name string, size float64, gap int) (*glyph.Proportional, error) {
	switch name {
	case "", "5x8":
		return glyph.Proportional5x8, nil
	case "basic":
		return glyph.FromFace(basicfont.Face7x13, "basic 7x13", '!', '~', gap)
	case "go":
		return parseTrueType("Go Regular", goregular.TTF, size, gap)
	}
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("font %q: %w", name, err)
	}
	return parseTrueType(strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)), b, size, gap)
}

func parseTrueType(name string, ttf []byte, size float64, gap int) (*glyph.Proportional, error) {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("font %s: %w", name, err)
	}
	face := truetype.NewFace(f, &truetype.Options{
		Size:    size,
		Hinting: font.HintingFull,
	})
	defer face.Close()
	return glyph.FromFace(face, fmt.Sprintf("%s %gpt", name, size), '!', '~', gap)
}
