// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package policy implements the rules that turn button presses into the
// color shown on the panel.
//
// Two policies exist: Palette cycles through a fixed list of words on the
// center button, Channel steps one of three 8 bit channels up and down. A
// policy is chosen once at startup and owned by the control loop.
package policy

import (
	"errors"
	"fmt"

	"github.com/GermanBionicSystems/oledrgb/buttons"
	"github.com/GermanBionicSystems/oledrgb/oled"
)

// Repaint tells the control loop when to repaint.
type Repaint int

const (
	// OnChange repaints once at boot and then only when a press changed the
	// state.
	OnChange Repaint = iota
	// Always repaints on every loop iteration.
	Always
)

func (r Repaint) String() string {
	switch r {
	case OnChange:
		return "on-change"
	case Always:
		return "always"
	}
	return fmt.Sprintf("Repaint(%d)", int(r))
}

// Policy owns the color state.
type Policy interface {
	fmt.Stringer
	// Color returns the word to paint for the current state.
	Color() oled.Word
	// Buttons returns the buttons the policy reacts to.
	Buttons() buttons.Button
	// Press applies a single button press and reports whether the state
	// changed.
	Press(b buttons.Button) bool
	// Repaint returns the repaint discipline of the policy.
	Repaint() Repaint
}

// ErrInvalidOpts is returned by constructors for options out of range.
var ErrInvalidOpts = errors.New("policy: invalid options")

// ErrUnknownPolicy is returned by New.
var ErrUnknownPolicy = errors.New("policy: unknown policy")

// Names of the policies accepted by New.
const (
	NamePalette = "palette"
	NameChannel = "channel"
)

// New builds a policy by name. The options of the other policy are ignored;
// nil options select the defaults.
func New(name string, p *PaletteOpts, c *ChannelOpts) (Policy, error) {
	switch name {
	case NamePalette:
		return NewPalette(p)
	case NameChannel:
		return NewChannel(c)
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownPolicy, name)
}
