// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package buttons reads the three push buttons of the board.
//
// The buttons share one read-only register: bit 0 is the left button, bit 1
// the center button and bit 2 the right button. A bit reads 1 while the
// button is held.
//
// Debouncing is done by release: once a press is seen, the caller waits until
// the line reads released again before accepting another press of the same
// button. Each button is debounced on its own.
//
// The wait is a busy poll with no timeout. A button that is stuck, or a
// simulated register that never releases, hangs the caller forever. This
// matches the board, where nothing else could run anyway.
package buttons

import (
	"errors"
	"fmt"
	"strings"

	"periph.io/x/conn/v3"

	"github.com/GermanBionicSystems/oledrgb/mmio"
)

// Button is a set of buttons, as bits of the button register.
type Button uint32

// The board buttons.
const (
	Left   Button = 0x1
	Center Button = 0x2
	Right  Button = 0x4

	// None is the empty set.
	None Button = 0
	// Mask is every button.
	Mask = Left | Center | Right
)

// Priority is the order in which simultaneous presses are serviced.
var Priority = []Button{Center, Left, Right}

var names = []struct {
	b    Button
	name string
}{
	{Center, "center"},
	{Left, "left"},
	{Right, "right"},
}

func (b Button) String() string {
	if b == None {
		return "none"
	}
	var parts []string
	for _, n := range names {
		if b&n.b != 0 {
			parts = append(parts, n.name)
		}
	}
	if rest := b &^ Mask; rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%X", uint32(rest)))
	}
	return strings.Join(parts, "|")
}

// ErrUnknownButton is returned by ParseButton.
var ErrUnknownButton = errors.New("buttons: unknown button")

// ParseButton parses "left", "center" or "right". Case is ignored, and "l",
// "c" and "r" are accepted too.
func ParseButton(s string) (Button, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "l":
		return Left, nil
	case "center", "centre", "c":
		return Center, nil
	case "right", "r":
		return Right, nil
	}
	return None, fmt.Errorf("%w %q", ErrUnknownButton, s)
}

// Dev is a handle to the button register.
type Dev struct {
	r *mmio.Regs
}

// New returns a Dev reading the button register behind r.
func New(r *mmio.Regs) *Dev {
	return &Dev{r: r}
}

func (d *Dev) String() string {
	return fmt.Sprintf("Buttons{%s}", d.r.Map().Buttons)
}

// Halt implements conn.Resource. It is a no-op.
func (d *Dev) Halt() error {
	return nil
}

// Read samples the register once and returns the buttons held.
func (d *Dev) Read() Button {
	return Button(d.r.ReadButtons())
}

// Poll samples the register once and reports whether any button of b is
// held.
func (d *Dev) Poll(b Button) bool {
	return d.Read()&b != 0
}

// WaitRelease busy-waits until every button of b reads released.
//
// There is no timeout.
func (d *Dev) WaitRelease(b Button) {
	for d.Poll(b) {
	}
}

// Pressed reports a press of b at most once per physical press.
//
// When b is held, Pressed does not return until it is released.
func (d *Dev) Pressed(b Button) bool {
	if !d.Poll(b) {
		return false
	}
	d.WaitRelease(b)
	return true
}

var _ conn.Resource = &Dev{}
