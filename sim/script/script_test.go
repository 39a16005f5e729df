// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package script

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/GermanBionicSystems/oledrgb/buttons"
	"github.com/GermanBionicSystems/oledrgb/sim"
)

type event struct {
	Op     string
	Button buttons.Button
	Wait   time.Duration
}

type recorder struct {
	events []event
}

func (r *recorder) Press(b buttons.Button)   { r.events = append(r.events, event{Op: "press", Button: b}) }
func (r *recorder) Release(b buttons.Button) { r.events = append(r.events, event{Op: "release", Button: b}) }

func (r *recorder) opts() *Opts {
	return &Opts{Sleep: func(ctx context.Context, d time.Duration) error {
		r.events = append(r.events, event{Op: "sleep", Wait: d})
		return ctx.Err()
	}}
}

func TestRun(t *testing.T) {
	for _, tc := range []struct {
		name string
		src  string
		want []event
	}{
		{
			name: "press release",
			src:  `press("center") sleep(20) release("c")`,
			want: []event{
				{Op: "press", Button: buttons.Center},
				{Op: "sleep", Wait: 20 * time.Millisecond},
				{Op: "release", Button: buttons.Center},
			},
		},
		{
			name: "tap default",
			src:  `tap("left")`,
			want: []event{
				{Op: "press", Button: buttons.Left},
				{Op: "sleep", Wait: DefaultTap},
				{Op: "release", Button: buttons.Left},
			},
		},
		{
			name: "loop",
			src:  `for i = 1, 2 do tap("R", 1.5) end log("done")`,
			want: []event{
				{Op: "press", Button: buttons.Right},
				{Op: "sleep", Wait: 1500 * time.Microsecond},
				{Op: "release", Button: buttons.Right},
				{Op: "press", Button: buttons.Right},
				{Op: "sleep", Wait: 1500 * time.Microsecond},
				{Op: "release", Button: buttons.Right},
			},
		},
		{
			name: "empty",
			src:  ``,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r := &recorder{}
			if err := Run(context.Background(), r, tc.name, tc.src, r.opts()); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.want, r.events); diff != "" {
				t.Fatalf("events mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRunErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		src  string
		want string
	}{
		{name: "syntax", src: `press(`, want: "syntax"},
		{name: "unknown button", src: `press("up")`, want: "unknown button"},
		{name: "negative sleep", src: `sleep(-1)`, want: "negative duration"},
		{name: "missing arg", src: `tap()`, want: "string expected"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r := &recorder{}
			err := Run(context.Background(), r, "test.lua", tc.src, r.opts())
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("Run() = %v, want %q", err, tc.want)
			}
			if !strings.Contains(err.Error(), "test.lua") {
				t.Fatalf("Run() = %v, want the script name", err)
			}
		})
	}
	if err := Run(context.Background(), nil, "x", "", nil); err == nil {
		t.Fatal("nil input accepted")
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &recorder{}
	if err := Run(ctx, r, "x", `while true do sleep(1) end`, r.opts()); err != context.Canceled {
		t.Fatalf("Run() = %v", err)
	}
}

func TestRunPanel(t *testing.T) {
	p := sim.New(nil)
	src := `press("left") press("right") release("left")`
	if err := Run(context.Background(), p, "panel", src, nil); err != nil {
		t.Fatal(err)
	}
	if got := p.Input(); got != buttons.Right {
		t.Fatalf("Input() = %s", got)
	}
}
