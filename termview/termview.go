// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package termview implements a 2D display.Drawer that outputs to a terminal
// using ANSI 256 color codes.
//
// Each character cell shows one pixel out of every StepX by StepY block,
// which keeps a 96x64 panel readable in a normal terminal. An optional
// status line is rendered under the picture.
package termview

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"
)

// Opts represents the options available for this display.
type Opts struct {
	// W and H are the size of the emulated panel in pixels.
	W, H int
	// StepX and StepY select one pixel every Step in each direction. Zero
	// means 2 and 4, which roughly keeps the aspect ratio of square pixels.
	StepX, StepY int
	// Palette defaults to ansi256.Default.
	Palette *ansi256.Palette
	// Out defaults to a colorable stdout.
	Out io.Writer
	// Status, when set, is called on every refresh and its result printed
	// under the picture.
	Status func() string
}

// Dev is a panel emulator that outputs to the console.
type Dev struct {
	mu      sync.Mutex
	w       io.Writer
	rect    image.Rectangle
	stepX   int
	stepY   int
	palette ansi256.Palette
	status  func() string
	style   lipgloss.Style

	pixels []color.NRGBA
	buf    bytes.Buffer
}

// New returns a Dev that displays at the console.
func New(opts *Opts) (*Dev, error) {
	if opts.W <= 0 || opts.H <= 0 {
		return nil, fmt.Errorf("termview: invalid size %dx%d", opts.W, opts.H)
	}
	if opts.StepX < 0 || opts.StepY < 0 {
		return nil, errors.New("termview: negative step")
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	d := &Dev{
		w:       opts.Out,
		rect:    image.Rect(0, 0, opts.W, opts.H),
		stepX:   opts.StepX,
		stepY:   opts.StepY,
		palette: *p,
		status:  opts.Status,
		style:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(7)).Background(lipgloss.ANSIColor(4)).Padding(0, 1),
		pixels:  make([]color.NRGBA, opts.W*opts.H),
	}
	if d.w == nil {
		d.w = colorable.NewColorableStdout()
	}
	if d.stepX == 0 {
		d.stepX = 2
	}
	if d.stepY == 0 {
		d.stepY = 4
	}
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("TermView{%dx%d}", d.rect.Dx(), d.rect.Dy())
}

// Halt implements conn.Resource.
//
// It resets the terminal colors so the shell prompt is not corrupted.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := io.WriteString(d.w, "\033[0m\r\n")
	return err
}

// Write accepts a stream of raw RGB pixels, row major, and writes it to the
// console.
func (d *Dev) Write(pixels []byte) (int, error) {
	if len(pixels) != 3*len(d.pixels) {
		return 0, errors.New("termview: invalid RGB stream length")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.pixels {
		d.pixels[i] = color.NRGBA{pixels[3*i], pixels[3*i+1], pixels[3*i+2], 255}
	}
	return len(pixels), d.refresh()
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Draw implements display.Drawer.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	r = r.Intersect(d.rect)
	d.mu.Lock()
	defer d.mu.Unlock()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		sY := y - r.Min.Y + sp.Y
		for x := r.Min.X; x < r.Max.X; x++ {
			sX := x - r.Min.X + sp.X
			d.pixels[y*d.rect.Dx()+x] = color.NRGBAModel.Convert(src.At(sX, sY)).(color.NRGBA)
		}
	}
	return d.refresh()
}

// Refresh redraws the last picture, e.g. after the status changed.
func (d *Dev) Refresh() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.refresh()
}

func (d *Dev) refresh() error {
	d.buf.Reset()
	// Home the cursor so successive frames overwrite each other.
	_, _ = d.buf.WriteString("\033[H")
	w := d.rect.Dx()
	for y := 0; y < d.rect.Dy(); y += d.stepY {
		for x := 0; x < w; x += d.stepX {
			_, _ = io.WriteString(&d.buf, d.palette.Block(d.pixels[y*w+x]))
		}
		_, _ = d.buf.WriteString("\033[0m\r\n")
	}
	if d.status != nil {
		_, _ = d.buf.WriteString(d.style.Render(d.status()))
		_, _ = d.buf.WriteString("\033[K\r\n")
	}
	_, err := d.buf.WriteTo(d.w)
	return err
}

var _ display.Drawer = &Dev{}
var _ io.Writer = &Dev{}
