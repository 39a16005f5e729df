// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package window shows the simulated panel in a desktop window and maps held
// keys to buttons.
//
//	left arrow, A         Left
//	down arrow, S, space  Center
//	right arrow, D        Right
//	Escape                close
package window

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/display"

	"github.com/GermanBionicSystems/oledrgb/buttons"
)

// Input is what the keys drive. *sim.Panel implements it.
type Input interface {
	Press(b buttons.Button)
	Release(b buttons.Button)
}

// Opts are the window options.
type Opts struct {
	W, H int
	// Scale is the initial window scale. Zero means 4.
	Scale int
	Title string
	// Input receives key presses. nil makes the window display only.
	Input  Input
	Logger zerolog.Logger
}

var keys = []struct {
	b    buttons.Button
	keys []ebiten.Key
}{
	{buttons.Left, []ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyA}},
	{buttons.Center, []ebiten.Key{ebiten.KeyArrowDown, ebiten.KeyS, ebiten.KeySpace}},
	{buttons.Right, []ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyD}},
}

// Window is a display.Drawer backed by an ebiten window.
type Window struct {
	w, h  int
	scale int
	title string
	in    Input
	log   zerolog.Logger

	mu    sync.Mutex
	frame *image.RGBA
	dirty bool
	done  chan struct{}
	halt  sync.Once
}

// New returns a Window. Nothing is shown until Run.
func New(opts *Opts) (*Window, error) {
	if opts.W <= 0 || opts.H <= 0 {
		return nil, fmt.Errorf("window: invalid size %dx%d", opts.W, opts.H)
	}
	w := &Window{
		w:     opts.W,
		h:     opts.H,
		scale: opts.Scale,
		title: opts.Title,
		in:    opts.Input,
		log:   opts.Logger,
		frame: image.NewRGBA(image.Rect(0, 0, opts.W, opts.H)),
		dirty: true,
		done:  make(chan struct{}),
	}
	if w.scale <= 0 {
		w.scale = 4
	}
	draw.Draw(w.frame, w.frame.Rect, image.Black, image.Point{}, draw.Src)
	return w, nil
}

func (w *Window) String() string {
	return "Window"
}

// Halt implements conn.Resource. It closes the window.
func (w *Window) Halt() error {
	w.halt.Do(func() { close(w.done) })
	return nil
}

// ColorModel implements display.Drawer.
func (w *Window) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements display.Drawer.
func (w *Window) Bounds() image.Rectangle {
	return w.frame.Rect
}

// Draw implements display.Drawer.
func (w *Window) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	w.mu.Lock()
	draw.Draw(w.frame, r, src, sp, draw.Src)
	w.dirty = true
	w.mu.Unlock()
	return nil
}

// Run opens the window and blocks until it is closed. It must be called
// from the main goroutine.
func (w *Window) Run() error {
	ebiten.SetWindowSize(w.w*w.scale, w.h*w.scale)
	ebiten.SetWindowTitle(w.title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetRunnableOnUnfocused(true)
	g := &game{w: w, img: ebiten.NewImage(w.w, w.h)}
	err := ebiten.RunGame(g)
	g.releaseAll()
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

type game struct {
	w    *Window
	img  *ebiten.Image
	held buttons.Button
}

func (g *game) Update() error {
	select {
	case <-g.w.done:
		return ebiten.Termination
	default:
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if g.w.in == nil {
		return nil
	}
	var now buttons.Button
	for _, k := range keys {
		for _, key := range k.keys {
			if ebiten.IsKeyPressed(key) {
				now |= k.b
			}
		}
	}
	if down := now &^ g.held; down != 0 {
		g.w.log.Debug().Stringer("button", down).Msg("key down")
		g.w.in.Press(down)
	}
	if up := g.held &^ now; up != 0 {
		g.w.in.Release(up)
	}
	g.held = now
	return nil
}

func (g *game) releaseAll() {
	if g.held != 0 && g.w.in != nil {
		g.w.in.Release(g.held)
	}
	g.held = 0
}

func (g *game) Draw(screen *ebiten.Image) {
	g.w.mu.Lock()
	if g.w.dirty {
		g.img.WritePixels(g.w.frame.Pix)
		g.w.dirty = false
	}
	g.w.mu.Unlock()
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	s := min(float64(sw)/float64(g.w.w), float64(sh)/float64(g.w.h))
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(s, s)
	op.GeoM.Translate((float64(sw)-s*float64(g.w.w))/2, (float64(sh)-s*float64(g.w.h))/2)
	screen.DrawImage(g.img, op)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

var _ display.Drawer = &Window{}
var _ ebiten.Game = &game{}
