// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package oled

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"

	"github.com/GermanBionicSystems/oledrgb/mmio"
)

// Panel geometry.
const (
	Width  = 96
	Height = 64
)

// Mode24Bit is the control register value that turns the panel on in 24 bit
// color mode.
const Mode24Bit = 0x21

// ErrNotSolid is returned by Draw for anything but a full screen solid fill.
var ErrNotSolid = errors.New("oled: only full screen solid fills are supported")

// Opts defines the options for the device.
type Opts struct {
	// Layout of the color word on the panel. Only used to convert
	// image/color values; words given to Fill are written unchanged.
	Layout Layout
}

// DefaultOpts is the reference panel.
var DefaultOpts = Opts{
	Layout: LayoutBRG,
}

// Dev is a handle to the panel.
type Dev struct {
	r      *mmio.Regs
	layout Layout
	rect   image.Rectangle
}

// New returns a Dev driving the panel behind r.
//
// It turns the panel on in 24 bit mode. This is the only control register
// write the driver ever does and it happens before any pixel write.
func New(r *mmio.Regs, opts *Opts) (*Dev, error) {
	if r == nil {
		return nil, errors.New("oled: nil registers")
	}
	if opts == nil {
		opts = &DefaultOpts
	}
	l := opts.Layout
	if l == (Layout{}) {
		l = DefaultOpts.Layout
	}
	if err := l.validate(); err != nil {
		return nil, err
	}
	d := &Dev{
		r:      r,
		layout: l,
		rect:   image.Rect(0, 0, Width, Height),
	}
	r.WriteControl(Mode24Bit)
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("OLED-RGB{%dx%d, %s}", Width, Height, d.layout)
}

// Halt implements conn.Resource.
//
// The panel has no off state the driver can reach, so it is a no-op.
func (d *Dev) Halt() error {
	return nil
}

// Layout returns the color layout in use.
func (d *Dev) Layout() Layout {
	return d.layout
}

// Fill paints the whole panel with w.
//
// Rows are visited in increasing order; within a row each column address is
// followed immediately by the data word. The panel latches the row and column
// from the most recent writes, so the order is part of the contract.
func (d *Dev) Fill(w Word) {
	v := uint32(w & MaxWord)
	for y := uint32(0); y < Height; y++ {
		d.r.WriteRow(y)
		for x := uint32(0); x < Width; x++ {
			d.r.WriteCol(x)
			d.r.WriteData(v)
		}
	}
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return d.layout.Model()
}

// Bounds implements display.Drawer. Min is guaranteed to be {0, 0}.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Draw implements display.Drawer.
//
// Only a *image.Uniform covering the whole panel is accepted; it is converted
// with the device layout and painted with Fill.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	u, ok := src.(*image.Uniform)
	if !ok || !d.rect.In(r) {
		return ErrNotSolid
	}
	d.Fill(d.layout.Encode(u.C))
	return nil
}

var _ conn.Resource = &Dev{}
var _ display.Drawer = &Dev{}
