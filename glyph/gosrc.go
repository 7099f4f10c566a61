// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package glyph

import (
	"bytes"
	"fmt"
	"go/format"
	"io"
	"strconv"
)

// WriteGo writes f as a Go source file of package pkg declaring a
// *glyph.Proportional variable named varName.
func WriteGo(w io.Writer, pkg, varName string, f *Proportional) error {
	if err := f.Validate(); err != nil {
		return err
	}
	var b bytes.Buffer
	fmt.Fprintf(&b, "// Code generated by oledlist bake; DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", pkg)
	fmt.Fprintf(&b, "import \"github.com/GermanBionicSystems/oled/glyph\"\n\n")
	fmt.Fprintf(&b, "// %s is the %s font, %d pixels high.\n", varName, f.Name, f.Height)
	fmt.Fprintf(&b, "var %s = &glyph.Proportional{\n", varName)
	fmt.Fprintf(&b, "Name: %s,\n", strconv.Quote(f.Name))
	fmt.Fprintf(&b, "Start: %s,\nEnd: %s,\n", strconv.QuoteRune(f.Start), strconv.QuoteRune(f.End))
	fmt.Fprintf(&b, "Height: %d,\nSpaceWidth: %d,\nGapWidth: %d,\n", f.Height, f.SpaceWidth, f.GapWidth)

	b.WriteString("Descriptors: []glyph.Descriptor{\n")
	for i, d := range f.Descriptors {
		fmt.Fprintf(&b, "{Width: %d, Offset: %d}, // %s\n", d.Width, d.Offset, strconv.QuoteRune(f.Start+rune(i)))
	}
	b.WriteString("},\n")

	b.WriteString("Kerning: [][]int{\n")
	for _, row := range f.Kerning {
		b.WriteString("{")
		for j, k := range row {
			if j != 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.Itoa(k))
		}
		b.WriteString("},\n")
	}
	b.WriteString("},\n")

	b.WriteString("Bitmaps: []byte{\n")
	for i, v := range f.Bitmaps {
		fmt.Fprintf(&b, "0x%02X,", v)
		if i%16 == 15 {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}
	b.WriteString("\n},\n}\n")

	src, err := format.Source(b.Bytes())
	if err != nil {
		return fmt.Errorf("glyph: formatting %s: %w", varName, err)
	}
	_, err = w.Write(src)
	return err
}
