// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package policy

import (
	"fmt"

	"github.com/GermanBionicSystems/oledrgb/buttons"
	"github.com/GermanBionicSystems/oledrgb/oled"
)

// ChannelOpts are the options of a Channel.
type ChannelOpts struct {
	// R, G and B are the initial channel values.
	R, G, B uint8
	// Selected is the initial channel: 0 for R, 1 for G, 2 for B.
	Selected int
	// Step is added or subtracted per press. It must not be 0.
	Step uint8
}

// DefaultChannelOpts starts at full R with R selected and steps by 0x10.
var DefaultChannelOpts = ChannelOpts{
	R:        0xFF,
	Selected: 0,
	Step:     0x10,
}

var channelNames = [3]string{"R", "G", "B"}

// Channel steps three independent 8 bit channels.
//
// Center selects the next channel, Left raises the selected channel by the
// step and Right lowers it. Values saturate at 0x00 and 0xFF instead of
// wrapping.
type Channel struct {
	ch       [3]uint8
	selected int
	step     uint8
}

// NewChannel returns a Channel. nil opts selects DefaultChannelOpts.
func NewChannel(opts *ChannelOpts) (*Channel, error) {
	if opts == nil {
		opts = &DefaultChannelOpts
	}
	if opts.Selected < 0 || opts.Selected > 2 {
		return nil, fmt.Errorf("%w: selected channel %d", ErrInvalidOpts, opts.Selected)
	}
	if opts.Step == 0 {
		return nil, fmt.Errorf("%w: zero step", ErrInvalidOpts)
	}
	return &Channel{
		ch:       [3]uint8{opts.R, opts.G, opts.B},
		selected: opts.Selected,
		step:     opts.Step,
	}, nil
}

func (c *Channel) String() string {
	return fmt.Sprintf("channel[%s] r=0x%02X g=0x%02X b=0x%02X", channelNames[c.selected], c.ch[0], c.ch[1], c.ch[2])
}

// Color implements Policy. It packs r<<16 | g<<8 | b.
func (c *Channel) Color() oled.Word {
	return oled.Pack(c.ch[0], c.ch[1], c.ch[2])
}

// Selected returns the index of the selected channel.
func (c *Channel) Selected() int {
	return c.selected
}

// Channels returns the channel values.
func (c *Channel) Channels() (r, g, b uint8) {
	return c.ch[0], c.ch[1], c.ch[2]
}

// Buttons implements Policy.
func (c *Channel) Buttons() buttons.Button {
	return buttons.Mask
}

// Press implements Policy.
func (c *Channel) Press(b buttons.Button) bool {
	switch b {
	case buttons.Center:
		c.selected = (c.selected + 1) % 3
		return true
	case buttons.Left:
		return c.set(addSat(c.ch[c.selected], c.step))
	case buttons.Right:
		return c.set(subSat(c.ch[c.selected], c.step))
	}
	return false
}

// Repaint implements Policy.
func (c *Channel) Repaint() Repaint {
	return Always
}

func (c *Channel) set(v uint8) bool {
	if c.ch[c.selected] == v {
		return false
	}
	c.ch[c.selected] = v
	return true
}

func addSat(v, step uint8) uint8 {
	if v > 0xFF-step {
		return 0xFF
	}
	return v + step
}

func subSat(v, step uint8) uint8 {
	if v < step {
		return 0
	}
	return v - step
}

var _ Policy = &Channel{}
