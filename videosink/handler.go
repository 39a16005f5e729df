// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package videosink

import (
	"mime"
	"net/http"
	"net/textproto"
	"net/url"
	"time"
)

type imageConfig struct {
	format ImageFormat
}

func (d *Display) configFromQuery(values url.Values) (imageConfig, error) {
	cfg := imageConfig{format: d.defaultFormat}
	if value := values.Get("format"); value != "" {
		format, err := ParseFormat(value)
		if err != nil {
			return imageConfig{}, err
		}
		cfg.format = format
	}
	return cfg, nil
}

type client struct {
	refresh   chan struct{}
	terminate chan struct{}
}

func (d *Display) bufferChangedLocked() {
	for cfg, buffer := range d.snapshot {
		if buffer != nil {
			//lint:ignore SA6002 buffer is []byte and thus pointer-like
			bufferPool.Put(buffer)
		}
		delete(d.snapshot, cfg)
	}
	for c := range d.clients {
		select {
		case c.refresh <- struct{}{}:
		default:
		}
	}
}

func (d *Display) terminateClientsLocked() {
	for c := range d.clients {
		select {
		case c.terminate <- struct{}{}:
		default:
		}
	}
}

// grabSnapshot returns a pooled copy of the encoded current frame.
func (d *Display) grabSnapshot(cfg imageConfig) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	encoded, ok := d.snapshot[cfg]
	if !ok {
		var err error
		if encoded, err = d.enc.encode(cfg.format, d.frameLocked()); err != nil {
			return nil, err
		}
		d.snapshot[cfg] = encoded
	}
	return append(bufferPool.Get().([]byte)[:0], encoded...), nil
}

// ServeHTTP handles HTTP GET requests and sends a stream of images
// representing the panel in response. The display options control the
// default format and clients can explicitly request PNG or JPEG images using
// the "format" parameter ("?format=png", "?format=jpeg").
func (d *Display) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.Body.Close(); err != nil {
		d.log.Warn().Err(err).Msg("closing request body")
	}
	if r.Method != http.MethodGet {
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}
	cfg, err := d.configFromQuery(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	pw := makePartWriter(w)
	w.Header().Set("Content-Type",
		mime.FormatMediaType("multipart/x-mixed-replace", map[string]string{
			"boundary": pw.boundary,
		}))

	c := &client{
		refresh:   make(chan struct{}, 1),
		terminate: make(chan struct{}, 1),
	}
	d.mu.Lock()
	d.clients[c] = struct{}{}
	d.mu.Unlock()
	defer func() {
		d.mu.Lock()
		delete(d.clients, c)
		d.mu.Unlock()
	}()

	log := d.log.With().Str("remote", r.RemoteAddr).Stringer("format", cfg.format).Logger()
	log.Debug().Msg("client connected")

	partHeaders := make(textproto.MIMEHeader)
	partHeaders.Set("Content-Type", mime.FormatMediaType(cfg.format.mimeType(), nil))
	partHeaders.Set("Content-Transfer-Encoding", "binary")

	var keepalive <-chan time.Time
	var t *time.Timer
	if d.keepalive > 0 {
		t = time.NewTimer(d.keepalive)
		defer t.Stop()
		keepalive = t.C
	}

	for {
		payload, err := d.grabSnapshot(cfg)
		if err != nil {
			log.Error().Err(err).Msg("encoding frame")
			return
		}
		err = pw.writeFrame(partHeaders, payload)
		//lint:ignore SA6002 payload is []byte and thus pointer-like
		bufferPool.Put(payload)
		if err != nil {
			// There is no way to deliver an error message to the client
			// within an image stream.
			log.Debug().Err(err).Msg("client gone")
			return
		}
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}
		if t != nil {
			t.Reset(d.keepalive)
		}

		select {
		case <-c.refresh:
		case <-keepalive:
		case <-c.terminate:
			return
		case <-r.Context().Done():
			return
		}
	}
}
