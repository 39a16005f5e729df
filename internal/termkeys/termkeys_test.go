// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package termkeys

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/GermanBionicSystems/oledrgb/buttons"
)

var (
	left   = Event{Button: buttons.Left}
	center = Event{Button: buttons.Center}
	right  = Event{Button: buttons.Right}
	quit   = Event{Quit: true}
)

func TestDecode(t *testing.T) {
	for _, tc := range []struct {
		name     string
		in       string
		want     []Event
		wantRest string
	}{
		{name: "letters", in: "asdx", want: []Event{left, center, right}},
		{name: "vi", in: "hjl", want: []Event{left, center, right}},
		{name: "space and enter", in: " \r", want: []Event{center, center}},
		{name: "arrows", in: "\x1b[D\x1b[B\x1b[C\x1b[A", want: []Event{left, center, right}},
		{name: "quit", in: "a\x03", want: []Event{left, quit}},
		{name: "lone escape", in: "a\x1b", want: []Event{left}, wantRest: "\x1b"},
		{name: "split arrow", in: "\x1b[", wantRest: "\x1b["},
		{name: "alt key", in: "\x1bxd", want: []Event{right}},
		{name: "empty"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, rest := Decode([]byte(tc.in))
			if diff := cmp.Diff(tc.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Fatalf("events mismatch (-want +got):\n%s", diff)
			}
			if string(rest) != tc.wantRest {
				t.Fatalf("rest = %q, want %q", rest, tc.wantRest)
			}
		})
	}
}

func TestDecodeResume(t *testing.T) {
	_, rest := Decode([]byte("\x1b["))
	got, rest := Decode(append(rest, 'C'))
	if diff := cmp.Diff([]Event{right}, got); diff != "" || len(rest) != 0 {
		t.Fatalf("events mismatch (-want +got):\n%s rest=%q", diff, rest)
	}
}
