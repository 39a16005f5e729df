// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package script drives simulated buttons from a Lua script.
//
// The script sees these globals:
//
//	press(name)           hold a button
//	release(name)         release a button
//	tap(name [, ms])      press, wait ms (default 50), release
//	sleep(ms)             wait
//	log(msg)              write an info log line
//
// Button names are the ones accepted by buttons.ParseButton.
package script

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	lua "github.com/yuin/gopher-lua"

	"github.com/GermanBionicSystems/oledrgb/buttons"
)

// DefaultTap is the hold time of tap when the script does not give one.
const DefaultTap = 50 * time.Millisecond

// Input is what a script drives. *sim.Panel implements it.
type Input interface {
	Press(b buttons.Button)
	Release(b buttons.Button)
}

// Opts are the script runner options.
type Opts struct {
	// Sleep waits d or until ctx is done. nil selects a timer based wait.
	Sleep func(ctx context.Context, d time.Duration) error
	// Logger receives log() calls and one debug line per button event.
	Logger zerolog.Logger
}

// Run executes src against in. name is used in error messages.
//
// Run returns when the script ends, fails or ctx is done. Buttons still held
// when it returns stay held.
func Run(ctx context.Context, in Input, name, src string, opts *Opts) error {
	if in == nil {
		return errors.New("script: nil input")
	}
	if opts == nil {
		opts = &Opts{}
	}
	r := &runner{ctx: ctx, in: in, sleep: opts.Sleep, log: opts.Logger}
	if r.sleep == nil {
		r.sleep = sleep
	}
	L := lua.NewState()
	defer L.Close()
	L.SetContext(ctx)
	for fn, f := range map[string]lua.LGFunction{
		"press":   r.press,
		"release": r.release,
		"tap":     r.tap,
		"sleep":   r.sleepMS,
		"log":     r.logMsg,
	} {
		L.SetGlobal(fn, L.NewFunction(f))
	}
	fn, err := L.LoadString(src)
	if err != nil {
		return fmt.Errorf("script: %s: %w", name, err)
	}
	L.Push(fn)
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("script: %s: %w", name, err)
	}
	return nil
}

type runner struct {
	ctx   context.Context
	in    Input
	sleep func(ctx context.Context, d time.Duration) error
	log   zerolog.Logger
}

func (r *runner) button(L *lua.LState) buttons.Button {
	b, err := buttons.ParseButton(L.CheckString(1))
	if err != nil {
		L.ArgError(1, err.Error())
	}
	return b
}

func (r *runner) wait(L *lua.LState, d time.Duration) {
	if err := r.sleep(r.ctx, d); err != nil {
		L.RaiseError("%v", err)
	}
}

func (r *runner) press(L *lua.LState) int {
	b := r.button(L)
	r.log.Debug().Stringer("button", b).Msg("press")
	r.in.Press(b)
	return 0
}

func (r *runner) release(L *lua.LState) int {
	b := r.button(L)
	r.log.Debug().Stringer("button", b).Msg("release")
	r.in.Release(b)
	return 0
}

func (r *runner) tap(L *lua.LState) int {
	b := r.button(L)
	hold := DefaultTap
	if L.GetTop() >= 2 {
		hold = millis(L, 2)
	}
	r.log.Debug().Stringer("button", b).Dur("hold", hold).Msg("tap")
	r.in.Press(b)
	r.wait(L, hold)
	r.in.Release(b)
	return 0
}

func (r *runner) sleepMS(L *lua.LState) int {
	r.wait(L, millis(L, 1))
	return 0
}

func (r *runner) logMsg(L *lua.LState) int {
	r.log.Info().Msg(L.CheckString(1))
	return 0
}

func millis(L *lua.LState, n int) time.Duration {
	ms := L.CheckNumber(n)
	if ms < 0 {
		L.ArgError(n, "negative duration")
	}
	return time.Duration(float64(ms) * float64(time.Millisecond))
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
