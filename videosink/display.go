// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package videosink provides a display driver implementing an HTTP request
// handler. Client requests get an initial snapshot of the panel and are
// updated on every change.
//
// The protocol used is "MJPEG" (https://en.wikipedia.org/wiki/Motion_JPEG)
// which browsers show inline in an <img> tag. PNG is used by default since it
// keeps flat colors exact; JPEG can be selected via Options.Format or the
// "format" URL parameter.
//
// The panel is small, so frames are scaled up with nearest neighbor sampling
// and an optional caption line is drawn under the picture.
package videosink

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/display"
)

// Options for videosink devices.
type Options struct {
	// Width and height of the panel.
	Width, Height int
	// Scale multiplies both dimensions of the served frames. Zero means 1.
	Scale int

	// Format specifies the image format to send to clients.
	Format ImageFormat
	// PNGLevel is the PNG compression level.
	PNGLevel png.CompressionLevel
	// JPEGQuality ranges from 1 to 100. Zero selects 90.
	JPEGQuality int

	// Caption, when set, is drawn in a strip under the picture each time a
	// frame is encoded.
	Caption func() string
	// Keepalive resends the current frame after this much idle time so that
	// proxies do not drop the stream. Zero disables it.
	Keepalive time.Duration

	Logger zerolog.Logger
}

// Display is a display.Drawer served over HTTP.
type Display struct {
	defaultFormat ImageFormat
	scale         int
	caption       func() string
	keepalive     time.Duration
	enc           encoder
	log           zerolog.Logger

	mu       sync.Mutex
	buffer   *image.RGBA
	clients  map[*client]struct{}
	snapshot map[imageConfig][]byte
}

var _ display.Drawer = (*Display)(nil)
var _ http.Handler = (*Display)(nil)

// New creates a new videosink device instance.
func New(opt *Options) *Display {
	buffer := image.NewRGBA(image.Rect(0, 0, opt.Width, opt.Height))

	// A fresh RGBA is transparent; make it opaque black like a powered off
	// panel.
	draw.Draw(buffer, buffer.Bounds(), image.Black, image.Point{}, draw.Src)

	d := &Display{
		defaultFormat: opt.Format,
		scale:         opt.Scale,
		caption:       opt.Caption,
		keepalive:     opt.Keepalive,
		enc:           newEncoder(opt.PNGLevel, opt.JPEGQuality),
		log:           opt.Logger,
		buffer:        buffer,
		clients:       map[*client]struct{}{},
		snapshot:      map[imageConfig][]byte{},
	}
	if d.scale <= 0 {
		d.scale = 1
	}
	return d
}

// String returns the name of the device.
func (d *Display) String() string {
	return "VideoSink"
}

// Halt implements conn.Resource and terminates all running client requests
// asynchronously.
func (d *Display) Halt() error {
	d.mu.Lock()
	d.terminateClientsLocked()
	d.mu.Unlock()
	return nil
}

// ColorModel implements display.Drawer.
func (d *Display) ColorModel() color.Model {
	return d.buffer.ColorModel()
}

// Bounds implements display.Drawer.
func (d *Display) Bounds() image.Rectangle {
	return d.buffer.Bounds()
}

// Draw implements display.Drawer.
func (d *Display) Draw(dstRect image.Rectangle, src image.Image, srcPts image.Point) error {
	d.mu.Lock()
	draw.Draw(d.buffer, dstRect, src, srcPts, draw.Src)
	d.bufferChangedLocked()
	d.mu.Unlock()
	return nil
}

// Refresh pushes a new frame to the clients without a picture change, so
// that a changed caption is shown.
func (d *Display) Refresh() {
	d.mu.Lock()
	d.bufferChangedLocked()
	d.mu.Unlock()
}

// FrameSize returns the size of the served frames.
func (d *Display) FrameSize() image.Point {
	return d.frameRect().Size()
}
