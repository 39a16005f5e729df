// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package loop runs the board: it samples the buttons, feeds presses to the
// color policy and repaints the panel.
//
// The loop is single threaded and never returns. There is no shutdown path;
// the board runs until power is removed. A release wait that never completes
// stalls it for good, see package buttons.
package loop

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/GermanBionicSystems/oledrgb/buttons"
	"github.com/GermanBionicSystems/oledrgb/oled"
	"github.com/GermanBionicSystems/oledrgb/policy"
)

// MultiPress selects how buttons held in the same sample are serviced.
type MultiPress int

const (
	// FirstOnly services the first held button in buttons.Priority order.
	// The others are seen again on the next iteration if still held.
	FirstOnly MultiPress = iota
	// Sequential services every held button of the sample in
	// buttons.Priority order, each with its own release wait.
	Sequential
)

func (m MultiPress) String() string {
	switch m {
	case FirstOnly:
		return "first"
	case Sequential:
		return "sequential"
	}
	return fmt.Sprintf("MultiPress(%d)", int(m))
}

// ParseMultiPress parses "first" or "sequential".
func ParseMultiPress(s string) (MultiPress, error) {
	switch s {
	case "first", "":
		return FirstOnly, nil
	case "sequential":
		return Sequential, nil
	}
	return FirstOnly, fmt.Errorf("loop: unknown multi-press mode %q", s)
}

// Opts are the loop options.
type Opts struct {
	Policy     policy.Policy
	MultiPress MultiPress
	// Logger receives a debug event per serviced press. The zero value
	// discards.
	Logger zerolog.Logger
	// OnPress, when set, is called on the loop goroutine after Boot with
	// buttons.None and after every serviced press, before the release wait.
	OnPress func(b buttons.Button, p policy.Policy)
}

// Loop ties the panel, the buttons and a policy together.
type Loop struct {
	disp   *oled.Dev
	btn    *buttons.Dev
	p      policy.Policy
	multi  MultiPress
	log    zerolog.Logger
	notify func(b buttons.Button, p policy.Policy)
	booted bool
	paints int
}

// New returns a Loop. It does not touch the hardware.
func New(d *oled.Dev, b *buttons.Dev, opts *Opts) (*Loop, error) {
	if d == nil || b == nil {
		return nil, errors.New("loop: nil device")
	}
	if opts == nil || opts.Policy == nil {
		return nil, errors.New("loop: no policy")
	}
	switch opts.MultiPress {
	case FirstOnly, Sequential:
	default:
		return nil, fmt.Errorf("loop: invalid multi-press mode %d", opts.MultiPress)
	}
	return &Loop{
		disp:   d,
		btn:    b,
		p:      opts.Policy,
		multi:  opts.MultiPress,
		log:    opts.Logger,
		notify: opts.OnPress,
	}, nil
}

func (l *Loop) String() string {
	return fmt.Sprintf("Loop{%s, %s, %s}", l.disp, l.p, l.multi)
}

// Policy returns the policy driven by the loop.
func (l *Loop) Policy() policy.Policy {
	return l.p
}

// Paints returns the number of full screen repaints issued so far.
func (l *Loop) Paints() int {
	return l.paints
}

// Boot paints the initial color of OnChange policies. Always policies paint
// on every Step, the first one included. Boot is idempotent.
func (l *Loop) Boot() {
	if l.booted {
		return
	}
	l.booted = true
	if l.p.Repaint() == policy.OnChange {
		l.paint()
	}
	l.log.Debug().Stringer("policy", l.p).Stringer("repaint", l.p.Repaint()).Msg("boot")
	if l.notify != nil {
		l.notify(buttons.None, l.p)
	}
}

// Step runs one iteration of the loop.
//
// Always policies repaint first. Then the buttons are sampled once and held
// buttons the policy reacts to are serviced in priority order: the press is
// applied, OnChange policies repaint if it changed the state, and the loop
// busy-waits for that button's release.
func (l *Loop) Step() {
	if !l.booted {
		l.Boot()
	}
	if l.p.Repaint() == policy.Always {
		l.paint()
	}
	held := l.btn.Read() & l.p.Buttons()
	for _, b := range buttons.Priority {
		if held&b == 0 {
			continue
		}
		changed := l.p.Press(b)
		if changed && l.p.Repaint() == policy.OnChange {
			l.paint()
		}
		l.log.Debug().Stringer("button", b).Bool("changed", changed).Stringer("color", l.p.Color()).Stringer("policy", l.p).Msg("press")
		if l.notify != nil {
			l.notify(b, l.p)
		}
		l.btn.WaitRelease(b)
		if l.multi == FirstOnly {
			return
		}
	}
}

// Run boots and steps forever.
func (l *Loop) Run() {
	l.Boot()
	for {
		l.Step()
	}
}

func (l *Loop) paint() {
	l.disp.Fill(l.p.Color())
	l.paints++
}
