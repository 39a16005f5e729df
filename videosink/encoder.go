// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package videosink

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"sync"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// captionHeight is the height of the caption strip at scale 1.
const captionHeight = 16

type pngBufferPool sync.Pool

func (p *pngBufferPool) Get() *png.EncoderBuffer {
	buf, _ := (*sync.Pool)(p).Get().(*png.EncoderBuffer)
	return buf
}

func (p *pngBufferPool) Put(buf *png.EncoderBuffer) {
	(*sync.Pool)(p).Put(buf)
}

// pngPool is shared by every Display.
var pngPool pngBufferPool

// bufferPool stores reusable []byte instances.
var bufferPool = sync.Pool{
	New: func() interface{} {
		return []byte(nil)
	},
}

type encoder struct {
	png  png.Encoder
	jpeg jpeg.Options
}

func newEncoder(level png.CompressionLevel, quality int) encoder {
	if quality <= 0 || quality > 100 {
		quality = 90
	}
	return encoder{
		png:  png.Encoder{CompressionLevel: level, BufferPool: &pngPool},
		jpeg: jpeg.Options{Quality: quality},
	}
}

func (e *encoder) encode(format ImageFormat, img image.Image) ([]byte, error) {
	buf := bytes.NewBuffer(bufferPool.Get().([]byte)[:0])
	switch format {
	case PNG:
		if err := e.png.Encode(buf, img); err != nil {
			return nil, err
		}
	case JPEG:
		if err := jpeg.Encode(buf, img, &e.jpeg); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("videosink: unhandled image format %s", format)
	}
	return buf.Bytes(), nil
}

func (d *Display) frameRect() image.Rectangle {
	b := d.buffer.Bounds()
	h := b.Dy() * d.scale
	if d.caption != nil {
		h += captionHeight
	}
	return image.Rect(0, 0, b.Dx()*d.scale, h)
}

// frameLocked returns the image served to clients: the buffer scaled up,
// plus the caption strip.
func (d *Display) frameLocked() image.Image {
	if d.scale == 1 && d.caption == nil {
		return d.buffer
	}
	b := d.buffer.Bounds()
	out := image.NewRGBA(d.frameRect())
	pic := image.Rect(0, 0, b.Dx()*d.scale, b.Dy()*d.scale)
	xdraw.NearestNeighbor.Scale(out, pic, d.buffer, b, xdraw.Src, nil)
	if d.caption != nil {
		strip := image.Rect(0, pic.Max.Y, pic.Max.X, out.Rect.Max.Y)
		draw.Draw(out, strip, image.Black, image.Point{}, draw.Src)
		fd := font.Drawer{
			Dst:  out,
			Src:  image.White,
			Face: basicfont.Face7x13,
			Dot:  fixed.P(4, strip.Max.Y-4),
		}
		fd.DrawString(d.caption())
	}
	return out
}
