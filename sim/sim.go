// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sim simulates the OLED RGB board on a host.
//
// Panel implements mmio.Bus and reacts to register accesses the way the
// board does: the control register switches the panel on, row and column
// writes latch coordinates, data writes set the latched pixel, and the button
// register reads whatever input was pressed through Press, Release, a
// keyboard, a script or real GPIO pins.
//
// Completed frames that changed the picture are handed to sinks implementing
// display.Drawer, such as termview or videosink.
package sim

import (
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"

	"github.com/GermanBionicSystems/oledrgb/buttons"
	"github.com/GermanBionicSystems/oledrgb/mmio"
	"github.com/GermanBionicSystems/oledrgb/oled"
)

// Opts are the simulator options.
type Opts struct {
	// Map is the register placement. The zero value selects mmio.DefaultMap.
	Map mmio.Map
	// Layout converts words to colors for Image and sinks. The zero value
	// selects oled.LayoutBRG.
	Layout oled.Layout
	// PollRate, when set, makes every button register load sleep one period
	// so that host busy-waits do not spin a core.
	PollRate physic.Frequency
	// Logger receives stray accesses and sink errors.
	Logger zerolog.Logger
}

// Panel is a simulated board.
type Panel struct {
	m      mmio.Map
	layout oled.Layout
	period time.Duration
	log    zerolog.Logger

	input atomic.Uint32

	tapMu sync.Mutex
	taps  map[buttons.Button]*time.Timer

	mu     sync.Mutex
	mode   uint32
	row    uint32
	col    uint32
	fb     [oled.Height][oled.Width]oled.Word
	dirty  bool
	frames int
	stray  int
	sinks  []display.Drawer
}

// New returns a Panel. nil opts selects the defaults.
func New(opts *Opts) *Panel {
	if opts == nil {
		opts = &Opts{}
	}
	p := &Panel{
		m:      opts.Map,
		layout: opts.Layout,
		log:    opts.Logger,
	}
	if p.m == (mmio.Map{}) {
		p.m = mmio.DefaultMap
	}
	if p.layout == (oled.Layout{}) {
		p.layout = oled.LayoutBRG
	}
	if opts.PollRate > 0 {
		p.period = opts.PollRate.Period()
	}
	return p
}

func (p *Panel) String() string {
	return fmt.Sprintf("sim.Panel{%s, %s}", p.m.Base, p.layout)
}

// Halt implements conn.Resource. It cancels pending taps and releases every
// button.
func (p *Panel) Halt() error {
	p.tapMu.Lock()
	for b, t := range p.taps {
		t.Stop()
		delete(p.taps, b)
	}
	p.tapMu.Unlock()
	p.input.Store(0)
	return nil
}

// Map returns the register map the panel answers to.
func (p *Panel) Map() mmio.Map {
	return p.m
}

// AddSink registers a display fed with every completed frame that changed
// the picture.
func (p *Panel) AddSink(d display.Drawer) {
	p.mu.Lock()
	p.sinks = append(p.sinks, d)
	p.mu.Unlock()
}

// Store32 implements mmio.Bus.
func (p *Panel) Store32(a mmio.Addr, v uint32) {
	p.mu.Lock()
	var done bool
	switch a {
	case p.m.Ctrl():
		p.mode = v
	case p.m.Row():
		p.row = v
	case p.m.Col():
		p.col = v
	case p.m.Data():
		done = p.pixelLocked(v)
	default:
		p.stray++
		p.log.Warn().Stringer("addr", a).Uint32("value", v).Msg("store outside the display block")
	}
	if !done {
		p.mu.Unlock()
		return
	}
	sinks := p.sinks
	img := p.imageLocked()
	p.mu.Unlock()

	for _, s := range sinks {
		if err := s.Draw(s.Bounds(), img, image.Point{}); err != nil {
			p.log.Warn().Err(err).Stringer("sink", sinkName(s)).Msg("sink failed")
		}
	}
}

// pixelLocked stores a data word and reports whether a frame that changed the
// picture was just completed.
func (p *Panel) pixelLocked(v uint32) bool {
	if p.mode != oled.Mode24Bit {
		p.stray++
		return false
	}
	if p.row >= oled.Height || p.col >= oled.Width {
		p.stray++
		p.log.Warn().Uint32("row", p.row).Uint32("col", p.col).Msg("pixel outside the panel")
		return false
	}
	w := oled.Word(v) & oled.MaxWord
	if p.fb[p.row][p.col] != w {
		p.fb[p.row][p.col] = w
		p.dirty = true
	}
	if p.row != oled.Height-1 || p.col != oled.Width-1 {
		return false
	}
	p.frames++
	if !p.dirty || len(p.sinks) == 0 {
		return false
	}
	p.dirty = false
	return true
}

// Load32 implements mmio.Bus.
func (p *Panel) Load32(a mmio.Addr) uint32 {
	if a == p.m.Buttons {
		if p.period > 0 {
			time.Sleep(p.period)
		}
		return p.input.Load()
	}
	p.mu.Lock()
	p.stray++
	p.mu.Unlock()
	p.log.Warn().Stringer("addr", a).Msg("load of a write-only register")
	return 0
}

// Press holds the buttons of b.
func (p *Panel) Press(b buttons.Button) {
	p.Drive(b, b)
}

// Release releases the buttons of b.
func (p *Panel) Release(b buttons.Button) {
	p.Drive(b, buttons.None)
}

// Drive sets the buttons selected by mask to the state in v and leaves the
// others alone.
func (p *Panel) Drive(mask, v buttons.Button) {
	for {
		old := p.input.Load()
		n := old&^uint32(mask) | uint32(v&mask)
		if p.input.CompareAndSwap(old, n) {
			return
		}
	}
}

// SetInput replaces the whole button register.
func (p *Panel) SetInput(b buttons.Button) {
	p.input.Store(uint32(b))
}

// Input returns the buttons currently held.
func (p *Panel) Input() buttons.Button {
	return buttons.Button(p.input.Load())
}

// Tap holds b for the given duration without blocking the caller. A new tap
// of b while the previous one is pending extends the hold.
func (p *Panel) Tap(b buttons.Button, hold time.Duration) {
	p.tapMu.Lock()
	defer p.tapMu.Unlock()
	p.Press(b)
	if old := p.taps[b]; old != nil {
		old.Stop()
	}
	if p.taps == nil {
		p.taps = map[buttons.Button]*time.Timer{}
	}
	var t *time.Timer
	t = time.AfterFunc(hold, func() {
		p.tapMu.Lock()
		defer p.tapMu.Unlock()
		// A later tap or Halt replaced this timer.
		if p.taps[b] != t {
			return
		}
		delete(p.taps, b)
		p.Release(b)
	})
	p.taps[b] = t
}

// Word returns the word last written at (x, y).
func (p *Panel) Word(x, y int) oled.Word {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fb[y][x]
}

// Image returns a copy of the panel as it looks.
func (p *Panel) Image() *image.NRGBA {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.imageLocked()
}

func (p *Panel) imageLocked() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, oled.Width, oled.Height))
	for y := range p.fb {
		for x, w := range p.fb[y] {
			img.SetNRGBA(x, y, p.layout.Decode(w))
		}
	}
	return img
}

// Frames returns the number of frames completed, changed or not.
func (p *Panel) Frames() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frames
}

// Mode returns the last value written to the control register.
func (p *Panel) Mode() uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode
}

// Stray returns the number of accesses the board would not have honored.
func (p *Panel) Stray() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stray
}

type stringer string

func (s stringer) String() string { return string(s) }

func sinkName(d display.Drawer) fmt.Stringer {
	if s, ok := d.(fmt.Stringer); ok {
		return s
	}
	return stringer(fmt.Sprintf("%T", d))
}

var _ mmio.Bus = &Panel{}
var _ conn.Resource = &Panel{}
