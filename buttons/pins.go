// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package buttons

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// ErrNotSupported is returned for pin features the register cannot provide.
var ErrNotSupported = errors.New("buttons: not supported")

type buttonPin struct {
	dev *Dev
	b   Button
}

// Pin returns a read-only gpio.PinIn view of a single button.
//
// It reads High while the button is held. b must be a single button.
func (d *Dev) Pin(b Button) (gpio.PinIn, error) {
	switch b {
	case Left, Center, Right:
		return &buttonPin{dev: d, b: b}, nil
	}
	return nil, fmt.Errorf("%w %s", ErrUnknownButton, b)
}

func (p *buttonPin) String() string {
	return "BTN_" + p.Name()
}

func (p *buttonPin) Halt() error {
	return nil
}

func (p *buttonPin) Name() string {
	return p.b.String()
}

// Number is the bit position in the register.
func (p *buttonPin) Number() int {
	for i := 0; i < 3; i++ {
		if p.b == 1<<i {
			return i
		}
	}
	return -1
}

func (p *buttonPin) Function() string {
	return "In/" + p.Read().String()
}

// In accepts only the configuration the hardware has: no pull, no edge
// detection.
func (p *buttonPin) In(pull gpio.Pull, edge gpio.Edge) error {
	if pull != gpio.Float && pull != gpio.PullNoChange {
		return fmt.Errorf("%s: pull %s: %w", p, pull, ErrNotSupported)
	}
	if edge != gpio.NoEdge {
		return fmt.Errorf("%s: edge %s: %w", p, edge, ErrNotSupported)
	}
	return nil
}

func (p *buttonPin) Read() gpio.Level {
	return gpio.Level(p.dev.Poll(p.b))
}

// The register has no interrupt line.
func (p *buttonPin) WaitForEdge(timeout time.Duration) bool {
	return false
}

func (p *buttonPin) Pull() gpio.Pull {
	return gpio.Float
}

func (p *buttonPin) DefaultPull() gpio.Pull {
	return gpio.Float
}

var _ gpio.PinIn = &buttonPin{}
