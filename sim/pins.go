// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"

	"github.com/GermanBionicSystems/oledrgb/buttons"
)

// DefaultPinRate is the GPIO sampling rate used when PinInput.Rate is zero.
const DefaultPinRate = 200 * physic.Hertz

// PinInput mirrors real GPIO input pins into the simulated button register,
// so the simulator can be driven by physical buttons wired to a host board.
type PinInput struct {
	// Pins maps each button to its input pin.
	Pins map[buttons.Button]gpio.PinIn
	// ActiveLow is set for buttons that pull the line to ground; the pins
	// are then configured with a pull-up, otherwise with a pull-down.
	ActiveLow bool
	// Rate is the sampling rate.
	Rate physic.Frequency
}

// Run configures the pins and copies their state into p until ctx is done.
//
// Only the bits of the mapped buttons are driven.
func (pi *PinInput) Run(ctx context.Context, p *Panel) error {
	if len(pi.Pins) == 0 {
		return errors.New("sim: no input pins")
	}
	pull := gpio.PullDown
	if pi.ActiveLow {
		pull = gpio.PullUp
	}
	var mask buttons.Button
	for b, pin := range pi.Pins {
		switch b {
		case buttons.Left, buttons.Center, buttons.Right:
		default:
			return fmt.Errorf("sim: pin %s: %w %s", pin, buttons.ErrUnknownButton, b)
		}
		if err := pin.In(pull, gpio.NoEdge); err != nil {
			return fmt.Errorf("sim: pin %s: %w", pin, err)
		}
		mask |= b
	}
	rate := pi.Rate
	if rate <= 0 {
		rate = DefaultPinRate
	}
	t := time.NewTicker(rate.Period())
	defer t.Stop()
	for {
		p.Drive(mask, pi.sample())
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
	}
}

func (pi *PinInput) sample() buttons.Button {
	var v buttons.Button
	for b, pin := range pi.Pins {
		if pin.Read() != gpio.Level(pi.ActiveLow) {
			v |= b
		}
	}
	return v
}
