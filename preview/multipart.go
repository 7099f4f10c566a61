// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"mime"
)

// frameWriter writes PNG images as the parts of a never ending
// "multipart/x-mixed-replace" body.
//
// mime/multipart.Writer only writes a boundary when the next part starts,
// so a client would always show the frame before the last one.
type frameWriter struct {
	w        io.Writer
	boundary string
	frames   int
}

// newFrameWriter returns a frameWriter with a random boundary compatible
// with RFC 2046 (section 5.1.1).
func newFrameWriter(w io.Writer) *frameWriter {
	var b [30]byte
	if _, err := io.ReadFull(rand.Reader, b[:]); err != nil {
		panic(err)
	}
	return &frameWriter{w: w, boundary: hex.EncodeToString(b[:])}
}

// contentType is the response Content-Type announcing the boundary.
func (f *frameWriter) contentType() string {
	return mime.FormatMediaType("multipart/x-mixed-replace", map[string]string{"boundary": f.boundary})
}

// write sends img as one part followed by its closing boundary line.
//
// The part is assembled in memory and handed to the underlying writer in a
// single Write, so a response never holds a part header without its image.
func (f *frameWriter) write(img []byte) error {
	var buf bytes.Buffer
	buf.Grow(len(img) + 2*len(f.boundary) + 80)
	if f.frames == 0 {
		fmt.Fprintf(&buf, "--%s\r\n", f.boundary)
	}
	fmt.Fprintf(&buf, "Content-Type: image/png\r\nContent-Length: %d\r\n\r\n", len(img))
	buf.Write(img)
	fmt.Fprintf(&buf, "\r\n--%s\r\n", f.boundary)
	if _, err := buf.WriteTo(f.w); err != nil {
		return err
	}
	f.frames++
	return nil
}
