// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package policy

import (
	"fmt"

	"github.com/GermanBionicSystems/oledrgb/buttons"
	"github.com/GermanBionicSystems/oledrgb/oled"
)

// Reference panel colors.
const (
	Red   oled.Word = 0x00FF00
	Green oled.Word = 0x0000FF
	Blue  oled.Word = 0xFF0000
)

// PaletteOpts are the options of a Palette.
type PaletteOpts struct {
	// Colors are cycled through in order.
	Colors []oled.Word
	// Start is the index of the color shown at boot.
	Start int
	// Trigger is the button that advances the palette.
	Trigger buttons.Button
}

// DefaultPaletteOpts cycles red, green, blue on the center button.
var DefaultPaletteOpts = PaletteOpts{
	Colors:  []oled.Word{Red, Green, Blue},
	Start:   0,
	Trigger: buttons.Center,
}

// Palette cycles through a fixed list of colors.
type Palette struct {
	colors  []oled.Word
	index   int
	trigger buttons.Button
}

// NewPalette returns a Palette. nil opts selects DefaultPaletteOpts.
func NewPalette(opts *PaletteOpts) (*Palette, error) {
	if opts == nil {
		opts = &DefaultPaletteOpts
	}
	if len(opts.Colors) == 0 {
		return nil, fmt.Errorf("%w: empty palette", ErrInvalidOpts)
	}
	for _, c := range opts.Colors {
		if c > oled.MaxWord {
			return nil, fmt.Errorf("%w: color %s is wider than 24 bits", ErrInvalidOpts, c)
		}
	}
	if opts.Start < 0 || opts.Start >= len(opts.Colors) {
		return nil, fmt.Errorf("%w: start index %d out of range", ErrInvalidOpts, opts.Start)
	}
	trigger := opts.Trigger
	if trigger == buttons.None {
		trigger = buttons.Center
	}
	switch trigger {
	case buttons.Left, buttons.Center, buttons.Right:
	default:
		return nil, fmt.Errorf("%w: trigger %s", ErrInvalidOpts, trigger)
	}
	return &Palette{
		colors:  append([]oled.Word(nil), opts.Colors...),
		index:   opts.Start,
		trigger: trigger,
	}, nil
}

func (p *Palette) String() string {
	return fmt.Sprintf("palette[%d/%d]=%s", p.index, len(p.colors), p.Color())
}

// Color implements Policy.
func (p *Palette) Color() oled.Word {
	return p.colors[p.index]
}

// Index returns the current palette index.
func (p *Palette) Index() int {
	return p.index
}

// Buttons implements Policy.
func (p *Palette) Buttons() buttons.Button {
	return p.trigger
}

// Press implements Policy. The trigger advances to the next color, wrapping
// at the end; other buttons are ignored.
func (p *Palette) Press(b buttons.Button) bool {
	if b != p.trigger {
		return false
	}
	p.index = (p.index + 1) % len(p.colors)
	return true
}

// Repaint implements Policy.
func (p *Palette) Repaint() Repaint {
	return OnChange
}

var _ Policy = &Palette{}
