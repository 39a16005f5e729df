// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package oled

import (
	"image/color"
	"testing"
)

func TestPack(t *testing.T) {
	w := Pack(0x12, 0x34, 0x56)
	if w != 0x123456 {
		t.Fatalf("Pack() = %s", w)
	}
	if hi, mid, lo := w.Bytes(); hi != 0x12 || mid != 0x34 || lo != 0x56 {
		t.Fatalf("Bytes() = %x %x %x", hi, mid, lo)
	}
	if s := Word(0xFF).String(); s != "0x0000FF" {
		t.Fatalf("String() = %q", s)
	}
}

func TestParseLayout(t *testing.T) {
	for _, tc := range []struct {
		in      string
		want    Layout
		wantErr bool
	}{
		{in: "BRG", want: LayoutBRG},
		{in: "rgb", want: LayoutRGB},
		{in: "GBR", want: Layout{'G', 'B', 'R'}},
		{in: "RG", wantErr: true},
		{in: "RGBA", wantErr: true},
		{in: "RRB", wantErr: true},
		{in: "XYZ", wantErr: true},
	} {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseLayout(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %s", got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Fatalf("got %s, want %s", got, tc.want)
			}
		})
	}
}

// TestReferencePalette checks that the reference layout shows the palette
// words as the colors they are named after.
func TestReferencePalette(t *testing.T) {
	for _, tc := range []struct {
		w    Word
		want color.NRGBA
	}{
		{0x00FF00, color.NRGBA{R: 255, A: 255}},
		{0x0000FF, color.NRGBA{G: 255, A: 255}},
		{0xFF0000, color.NRGBA{B: 255, A: 255}},
	} {
		if got := LayoutBRG.Decode(tc.w); got != tc.want {
			t.Errorf("Decode(%s) = %v, want %v", tc.w, got, tc.want)
		}
		if got := LayoutBRG.Encode(tc.want); got != tc.w {
			t.Errorf("Encode(%v) = %s, want %s", tc.want, got, tc.w)
		}
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	for _, l := range []Layout{LayoutBRG, LayoutRGB, {'G', 'R', 'B'}} {
		for _, w := range []Word{0, 0x123456, 0xFFFFFF, 0x0F00F0} {
			if got := l.Encode(l.Decode(w)); got != w {
				t.Errorf("%s: %s -> %s", l, w, got)
			}
		}
	}
}
