// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package config loads the simulator configuration from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/GermanBionicSystems/oledrgb/buttons"
	"github.com/GermanBionicSystems/oledrgb/loop"
	"github.com/GermanBionicSystems/oledrgb/mmio"
	"github.com/GermanBionicSystems/oledrgb/oled"
	"github.com/GermanBionicSystems/oledrgb/policy"
)

// Hex is an integer written in hexadecimal. Decimal input is accepted too.
type Hex uint32

// MarshalYAML implements yaml.Marshaler.
func (h Hex) MarshalYAML() (interface{}, error) {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprintf("0x%06X", uint32(h))}, nil
}

// Map places the board registers.
type Map struct {
	Base    Hex `yaml:"base"`
	Buttons Hex `yaml:"buttons"`
}

// Palette configures the palette policy. Trigger is a button name.
type Palette struct {
	Colors  []Hex  `yaml:"colors"`
	Start   int    `yaml:"start"`
	Trigger string `yaml:"trigger"`
}

// Channel configures the channel policy.
type Channel struct {
	R        uint8 `yaml:"r"`
	G        uint8 `yaml:"g"`
	B        uint8 `yaml:"b"`
	Selected int   `yaml:"selected"`
	Step     uint8 `yaml:"step"`
}

// Sim configures the simulated board.
type Sim struct {
	PollHz int `yaml:"poll_hz"` // 0 busy-waits at full speed
}

// Preview selects where the panel is shown.
type Preview struct {
	Term     bool   `yaml:"term"`
	HTTP     string `yaml:"http"` // listen address, e.g. :8080; empty disables
	Window   bool   `yaml:"window"`
	Scale    int    `yaml:"scale"`
	Snapshot string `yaml:"snapshot"` // PNG written on exit
}

// GPIO names host pins wired to real buttons. Unset names are not polled.
type GPIO struct {
	Left      string `yaml:"left"` // e.g. GPIO5
	Center    string `yaml:"center"`
	Right     string `yaml:"right"`
	ActiveLow bool   `yaml:"active_low"`
	RateHz    int    `yaml:"rate_hz"`
}

// Config is the simulator configuration.
type Config struct {
	Policy     string `yaml:"policy"`                // "palette" | "channel"
	MultiPress string `yaml:"multi_press,omitempty"` // "first" | "sequential"; empty follows the policy
	Layout     string `yaml:"layout"`                // e.g. BRG

	Map     Map     `yaml:"map"`
	Palette Palette `yaml:"palette"`
	Channel Channel `yaml:"channel"`

	Sim     Sim     `yaml:"sim"`
	Preview Preview `yaml:"preview"`
	GPIO    GPIO    `yaml:"gpio,omitempty"`
	Script  string  `yaml:"script,omitempty"` // Lua file
}

// Resolved holds the typed values of a Config.
type Resolved struct {
	Map        mmio.Map
	Layout     oled.Layout
	Policy     policy.Policy
	MultiPress loop.MultiPress
}

// Default returns the configuration of the reference board.
func Default() *Config {
	c := &Config{
		Policy: policy.NamePalette,
		Layout: oled.LayoutBRG.String(),
		Map: Map{
			Base:    Hex(mmio.DefaultMap.Base),
			Buttons: Hex(mmio.DefaultMap.Buttons),
		},
		Palette: Palette{
			Start:   policy.DefaultPaletteOpts.Start,
			Trigger: "center",
		},
		Channel: Channel{
			R:        policy.DefaultChannelOpts.R,
			G:        policy.DefaultChannelOpts.G,
			B:        policy.DefaultChannelOpts.B,
			Selected: policy.DefaultChannelOpts.Selected,
			Step:     policy.DefaultChannelOpts.Step,
		},
		Sim:     Sim{PollHz: 1000},
		Preview: Preview{Term: true, Scale: 4},
		GPIO:    GPIO{ActiveLow: true, RateHz: 200},
	}
	for _, w := range policy.DefaultPaletteOpts.Colors {
		c.Palette.Colors = append(c.Palette.Colors, Hex(w))
	}
	return c
}

// Load reads path over the defaults. A missing file yields the defaults.
// Unknown keys are rejected.
func Load(path string) (*Config, error) {
	c := Default()
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

// Save writes c to path.
func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// Validate checks every field.
func (c *Config) Validate() error {
	_, err := c.Resolve()
	return err
}

// Resolve converts c into the values the devices take.
func (c *Config) Resolve() (*Resolved, error) {
	r := &Resolved{
		Map: mmio.Map{Base: mmio.Addr(c.Map.Base), Buttons: mmio.Addr(c.Map.Buttons)},
	}
	if err := r.Map.Validate(); err != nil {
		return nil, err
	}
	var err error
	if r.Layout, err = oled.ParseLayout(c.Layout); err != nil {
		return nil, err
	}
	if r.MultiPress, err = c.multiPress(); err != nil {
		return nil, err
	}
	if r.Policy, err = policy.New(c.Policy, c.PaletteOpts(), c.ChannelOpts()); err != nil {
		return nil, err
	}
	// Both policies are checked so that a switch by flag cannot fail later.
	if c.Palette.Trigger != "" {
		if _, err := buttons.ParseButton(c.Palette.Trigger); err != nil {
			return nil, err
		}
	}
	if _, err := policy.NewPalette(c.PaletteOpts()); err != nil {
		return nil, err
	}
	if _, err := policy.NewChannel(c.ChannelOpts()); err != nil {
		return nil, err
	}
	if c.Sim.PollHz < 0 || c.GPIO.RateHz < 0 || c.Preview.Scale < 0 {
		return nil, errors.New("config: negative rate or scale")
	}
	return r, nil
}

// multiPress parses MultiPress. When unset, the channel policy services
// every button of a sample, like the channelstep board build, and the others
// service only the first.
func (c *Config) multiPress() (loop.MultiPress, error) {
	if c.MultiPress == "" {
		if c.Policy == policy.NameChannel {
			return loop.Sequential, nil
		}
		return loop.FirstOnly, nil
	}
	return loop.ParseMultiPress(c.MultiPress)
}

// PaletteOpts returns the palette options. An invalid trigger name maps to
// the default trigger; Validate reports it.
func (c *Config) PaletteOpts() *policy.PaletteOpts {
	o := &policy.PaletteOpts{Start: c.Palette.Start}
	for _, h := range c.Palette.Colors {
		o.Colors = append(o.Colors, oled.Word(h))
	}
	o.Trigger, _ = buttons.ParseButton(c.Palette.Trigger)
	return o
}

// ChannelOpts returns the channel options.
func (c *Config) ChannelOpts() *policy.ChannelOpts {
	return &policy.ChannelOpts{
		R:        c.Channel.R,
		G:        c.Channel.G,
		B:        c.Channel.B,
		Selected: c.Channel.Selected,
		Step:     c.Channel.Step,
	}
}

// Pins returns the GPIO names per button, skipping unset ones.
func (c *Config) Pins() map[buttons.Button]string {
	m := map[buttons.Button]string{}
	for b, n := range map[buttons.Button]string{buttons.Left: c.GPIO.Left, buttons.Center: c.GPIO.Center, buttons.Right: c.GPIO.Right} {
		if n != "" {
			m[b] = n
		}
	}
	return m
}
