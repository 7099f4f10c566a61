// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package preview

import (
	"bytes"
	"log/slog"
	"net/http"
	"sync"

	"github.com/GermanBionicSystems/oled/bitmap"
)

// Stream is an HTTP handler sending the frames passed to Update as a
// "multipart/x-mixed-replace" stream of PNG images, the way IP cameras
// send MJPEG. Browsers show it as a live image.
//
// Clients get the latest frame when they connect and every following one.
// Frames a slow client could not keep up with are skipped.
type Stream struct {
	opts Opts

	mu      sync.Mutex
	frame   []byte
	clients map[*client]struct{}
}

type client struct {
	refresh   chan struct{}
	terminate chan struct{}
}

var _ http.Handler = (*Stream)(nil)

// NewStream returns a Stream rendering frames with opts, which may be nil.
func NewStream(opts *Opts) *Stream {
	if opts == nil {
		opts = &DefaultOpts
	}
	return &Stream{opts: *opts, clients: map[*client]struct{}{}}
}

func (s *Stream) String() string {
	return "preview.Stream"
}

// Update encodes bm and sends it to every client.
func (s *Stream) Update(bm *bitmap.Bitmap) error {
	var buf bytes.Buffer
	if err := WritePNG(&buf, bm, &s.opts); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame = buf.Bytes()
	for c := range s.clients {
		select {
		case c.refresh <- struct{}{}:
		default:
		}
	}
	return nil
}

// Halt implements conn.Resource and terminates all running client requests
// asynchronously.
func (s *Stream) Halt() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.terminate <- struct{}{}:
		default:
		}
	}
	return nil
}

func (s *Stream) current() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// ServeHTTP handles GET requests.
func (s *Stream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}
	fw := newFrameWriter(w)
	w.Header().Set("Content-Type", fw.contentType())

	c := &client{
		refresh:   make(chan struct{}, 1),
		terminate: make(chan struct{}, 1),
	}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.clients, c)
		s.mu.Unlock()
	}()

	for {
		// Frames are replaced, never modified, so the slice can be used
		// without holding the lock.
		if frame := s.current(); frame != nil {
			if err := fw.write(frame); err != nil {
				// There is no way to report an error within an image stream.
				slog.Debug("preview: client gone", "remote", r.RemoteAddr, "err", err)
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}
		}
		select {
		case <-c.refresh:
		case <-c.terminate:
			return
		case <-r.Context().Done():
			return
		}
	}
}
