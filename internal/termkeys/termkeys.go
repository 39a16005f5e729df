// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package termkeys turns key presses on a raw terminal into button taps.
//
// A terminal reports key presses, not releases, so every key is a tap of a
// fixed duration.
package termkeys

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/GermanBionicSystems/oledrgb/buttons"
)

// ErrQuit is returned by Run when the quit key was pressed.
var ErrQuit = errors.New("termkeys: quit")

// DefaultHold is the tap duration.
const DefaultHold = 80 * time.Millisecond

// Event is one decoded key.
type Event struct {
	Button buttons.Button
	Quit   bool
}

// Decode decodes keys in b. Unknown keys are dropped. rest is an incomplete
// escape sequence at the end of b, to be prefixed to the next read.
//
//	a, h, left arrow     Left
//	s, j, space, down    Center
//	d, l, right arrow    Right
//	q, Ctrl-C, Ctrl-D    quit
func Decode(b []byte) (events []Event, rest []byte) {
	for i := 0; i < len(b); i++ {
		switch c := b[i]; c {
		case 'a', 'A', 'h':
			events = append(events, Event{Button: buttons.Left})
		case 's', 'S', 'j', ' ', '\r', '\n':
			events = append(events, Event{Button: buttons.Center})
		case 'd', 'D', 'l':
			events = append(events, Event{Button: buttons.Right})
		case 'q', 'Q', 0x03, 0x04:
			events = append(events, Event{Quit: true})
		case 0x1B:
			if i+1 >= len(b) || (b[i+1] == '[' && i+2 >= len(b)) {
				return events, append([]byte(nil), b[i:]...)
			}
			if b[i+1] != '[' {
				continue
			}
			switch b[i+2] {
			case 'D':
				events = append(events, Event{Button: buttons.Left})
			case 'B':
				events = append(events, Event{Button: buttons.Center})
			case 'C':
				events = append(events, Event{Button: buttons.Right})
			}
			i += 2
		}
	}
	return events, nil
}

// Tapper is what the keys drive. *sim.Panel implements it.
type Tapper interface {
	Tap(b buttons.Button, hold time.Duration)
}

// Keyboard reads stdin in raw mode.
type Keyboard struct {
	in   *os.File
	fd   int
	old  *term.State
	hold time.Duration
	log  zerolog.Logger
}

// Open switches in to raw mode. Close restores it.
func Open(in *os.File, hold time.Duration, log zerolog.Logger) (*Keyboard, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("termkeys: %s is not a terminal", in.Name())
	}
	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("termkeys: %w", err)
	}
	if hold <= 0 {
		hold = DefaultHold
	}
	return &Keyboard{in: in, fd: fd, old: old, hold: hold, log: log}, nil
}

// Close restores the terminal state.
func (k *Keyboard) Close() error {
	if k.old == nil {
		return nil
	}
	err := term.Restore(k.fd, k.old)
	k.old = nil
	return err
}

// Run taps t for every key until ctx is done, the input ends or the quit key
// is pressed, in which case ErrQuit is returned.
func (k *Keyboard) Run(ctx context.Context, t Tapper) error {
	type chunk struct {
		b   []byte
		err error
	}
	ch := make(chan chunk)
	go func() {
		// The blocking read outlives Run when ctx ends first; the process is
		// about to exit in that case.
		buf := make([]byte, 64)
		for {
			n, err := k.in.Read(buf)
			select {
			case ch <- chunk{append([]byte(nil), buf[:n]...), err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()
	var pending []byte
	for {
		select {
		case <-ctx.Done():
			return nil
		case c := <-ch:
			var events []Event
			events, pending = Decode(append(pending, c.b...))
			for _, e := range events {
				if e.Quit {
					return ErrQuit
				}
				k.log.Debug().Stringer("button", e.Button).Msg("key")
				t.Tap(e.Button, k.hold)
			}
			if c.err != nil {
				return nil
			}
		}
	}
}
