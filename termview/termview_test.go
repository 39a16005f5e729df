// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package termview

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/maruel/ansi256"
)

func TestNew(t *testing.T) {
	for _, opts := range []Opts{{W: 0, H: 1}, {W: 1, H: -1}, {W: 1, H: 1, StepX: -1}} {
		if _, err := New(&opts); err == nil {
			t.Errorf("New(%+v) succeeded", opts)
		}
	}
	d, err := New(&Opts{W: 96, H: 64, Out: &bytes.Buffer{}})
	if err != nil {
		t.Fatal(err)
	}
	if s := d.String(); s != "TermView{96x64}" {
		t.Fatal(s)
	}
	if b := d.Bounds(); b != image.Rect(0, 0, 96, 64) {
		t.Fatal(b)
	}
}

func TestDraw(t *testing.T) {
	buf := &bytes.Buffer{}
	d, err := New(&Opts{W: 8, H: 8, StepX: 2, StepY: 4, Out: buf})
	if err != nil {
		t.Fatal(err)
	}
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	green := color.NRGBA{G: 0xFF, A: 0xFF}
	blue := color.NRGBA{B: 0xFF, A: 0xFF}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			c := green
			if y >= 4 {
				c = blue
			}
			img.SetNRGBA(x, y, c)
		}
	}
	if err := d.Draw(d.Bounds(), img, image.Point{}); err != nil {
		t.Fatal(err)
	}
	want := "\033[H" +
		strings.Repeat(ansi256.Default.Block(green), 4) + "\033[0m\r\n" +
		strings.Repeat(ansi256.Default.Block(blue), 4) + "\033[0m\r\n"
	if got := buf.String(); got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
}

func TestDrawOffset(t *testing.T) {
	buf := &bytes.Buffer{}
	d, err := New(&Opts{W: 2, H: 1, StepX: 1, StepY: 1, Out: buf})
	if err != nil {
		t.Fatal(err)
	}
	red := color.NRGBA{R: 0xFF, A: 0xFF}
	src := image.NewNRGBA(image.Rect(0, 0, 4, 1))
	src.SetNRGBA(3, 0, red)
	if err := d.Draw(image.Rect(1, 0, 2, 1), src, image.Pt(3, 0)); err != nil {
		t.Fatal(err)
	}
	want := "\033[H" + ansi256.Default.Block(color.NRGBA{}) + ansi256.Default.Block(red) + "\033[0m\r\n"
	if got := buf.String(); got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
}

func TestWrite(t *testing.T) {
	buf := &bytes.Buffer{}
	d, err := New(&Opts{W: 1, H: 1, Out: buf, Status: func() string { return "palette 0x00FF00" }})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.Write([]byte{1, 2}); err == nil {
		t.Fatal("short stream accepted")
	}
	n, err := d.Write([]byte{0, 0xFF, 0})
	if n != 3 || err != nil {
		t.Fatalf("Write() = %d, %v", n, err)
	}
	got := buf.String()
	if !strings.Contains(got, ansi256.Default.Block(color.NRGBA{G: 0xFF, A: 0xFF})) {
		t.Fatalf("missing pixel in %q", got)
	}
	if !strings.Contains(got, "palette 0x00FF00") {
		t.Fatalf("missing status in %q", got)
	}
	buf.Reset()
	if err := d.Halt(); err != nil || buf.String() != "\033[0m\r\n" {
		t.Fatalf("Halt() = %v, %q", err, buf.String())
	}
}

func TestRefresh(t *testing.T) {
	buf := &bytes.Buffer{}
	status := "one"
	d, err := New(&Opts{W: 2, H: 2, StepX: 1, StepY: 1, Out: buf, Status: func() string { return status }})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.Write(make([]byte, 12)); err != nil {
		t.Fatal(err)
	}
	first := buf.String()
	buf.Reset()
	status = "two"
	if err := d.Refresh(); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); !strings.Contains(got, "two") || got == first {
		t.Fatalf("Refresh() wrote %q", got)
	}
}
