// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package buttons

import (
	"errors"
	"testing"

	"periph.io/x/conn/v3/gpio"

	"github.com/GermanBionicSystems/oledrgb/mmio"
	"github.com/GermanBionicSystems/oledrgb/mmio/mmiotest"
)

func newDev(t *testing.T, inputs ...uint32) (*Dev, *mmiotest.Record) {
	t.Helper()
	m := mmio.DefaultMap
	rec := &mmiotest.Record{Input: m.Buttons, Inputs: inputs, SkipLoads: true}
	r, err := mmio.NewRegs(rec, &m)
	if err != nil {
		t.Fatal(err)
	}
	return New(r), rec
}

func TestRead(t *testing.T) {
	d, _ := newDev(t, 0xFFFFFFF8, 0xF5, 0x2)
	for _, want := range []Button{None, Left | Right, Center} {
		if got := d.Read(); got != want {
			t.Errorf("Read() = %s, want %s", got, want)
		}
	}
}

func TestPressed(t *testing.T) {
	for _, tc := range []struct {
		name      string
		inputs    []uint32
		b         Button
		want      bool
		wantLoads int
	}{
		{
			name:      "idle",
			inputs:    []uint32{0},
			b:         Center,
			want:      false,
			wantLoads: 1,
		},
		{
			name:      "held then released",
			inputs:    []uint32{2, 2, 2, 2, 2, 0},
			b:         Center,
			want:      true,
			wantLoads: 6,
		},
		{
			name:      "other button held",
			inputs:    []uint32{1, 1},
			b:         Center,
			want:      false,
			wantLoads: 1,
		},
		{
			// Only the polled button is waited for.
			name:      "independent release",
			inputs:    []uint32{3, 3, 1, 1, 1},
			b:         Center,
			want:      true,
			wantLoads: 3,
		},
		{
			name:      "noise in upper bits",
			inputs:    []uint32{0xFFFFFFF8 | 4, 0xFFFFFFF8},
			b:         Right,
			want:      true,
			wantLoads: 2,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			d, rec := newDev(t, tc.inputs...)
			if got := d.Pressed(tc.b); got != tc.want {
				t.Fatalf("Pressed() = %t, want %t", got, tc.want)
			}
			if got := rec.Loads(); got != tc.wantLoads {
				t.Fatalf("%d loads, want %d", got, tc.wantLoads)
			}
		})
	}
}

// TestPressedOncePerHold checks that a button held across many polls fires a
// single event.
func TestPressedOncePerHold(t *testing.T) {
	const k = 50
	inputs := make([]uint32, k)
	for i := range inputs {
		inputs[i] = uint32(Left)
	}
	d, rec := newDev(t, inputs...)
	events := 0
	for i := 0; i < 10; i++ {
		if d.Pressed(Left) {
			events++
		}
	}
	if events != 1 {
		t.Fatalf("%d events, want 1", events)
	}
	if rec.Pending() != 0 {
		t.Fatalf("returned with %d held samples left", rec.Pending())
	}
}

func TestString(t *testing.T) {
	for _, tc := range []struct {
		b    Button
		want string
	}{
		{None, "none"},
		{Left, "left"},
		{Center, "center"},
		{Right, "right"},
		{Mask, "center|left|right"},
		{Left | 0x10, "left|0x10"},
	} {
		if got := tc.b.String(); got != tc.want {
			t.Errorf("String(%d) = %q, want %q", uint32(tc.b), got, tc.want)
		}
	}
}

func TestParseButton(t *testing.T) {
	for in, want := range map[string]Button{
		"left": Left, "L": Left, " Center ": Center, "c": Center, "RIGHT": Right,
	} {
		got, err := ParseButton(in)
		if err != nil || got != want {
			t.Errorf("ParseButton(%q) = %s, %v", in, got, err)
		}
	}
	if _, err := ParseButton("up"); !errors.Is(err, ErrUnknownButton) {
		t.Errorf("ParseButton(up) = %v", err)
	}
}

func TestPin(t *testing.T) {
	d, _ := newDev(t, 4, 0)
	p, err := d.Pin(Right)
	if err != nil {
		t.Fatal(err)
	}
	if p.Name() != "right" || p.Number() != 2 || p.String() != "BTN_right" {
		t.Fatalf("pin = %s %s %d", p, p.Name(), p.Number())
	}
	if err := p.In(gpio.Float, gpio.NoEdge); err != nil {
		t.Fatal(err)
	}
	if err := p.In(gpio.PullUp, gpio.NoEdge); !errors.Is(err, ErrNotSupported) {
		t.Fatalf("In(PullUp) = %v", err)
	}
	if err := p.In(gpio.Float, gpio.RisingEdge); !errors.Is(err, ErrNotSupported) {
		t.Fatalf("In(RisingEdge) = %v", err)
	}
	if l := p.Read(); l != gpio.High {
		t.Fatalf("Read() = %s, want High", l)
	}
	if l := p.Read(); l != gpio.Low {
		t.Fatalf("Read() = %s, want Low", l)
	}
	if p.WaitForEdge(0) {
		t.Fatal("WaitForEdge() = true")
	}
	if _, err := d.Pin(Left | Right); err == nil {
		t.Fatal("expected error for a set of buttons")
	}
}
