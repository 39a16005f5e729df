// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package oled

import (
	"fmt"
	"image/color"
	"strings"
)

// Word is a packed 24 bit color word as written to the data register.
//
// The three bytes are stored high to low. Which byte drives which LED color
// is a property of the panel, see Layout.
type Word uint32

// MaxWord is the largest valid Word.
const MaxWord Word = 0xFFFFFF

// Pack assembles a Word from its high, middle and low bytes.
func Pack(hi, mid, lo uint8) Word {
	return Word(hi)<<16 | Word(mid)<<8 | Word(lo)
}

// Bytes returns the high, middle and low bytes of w.
func (w Word) Bytes() (hi, mid, lo uint8) {
	return uint8(w >> 16), uint8(w >> 8), uint8(w)
}

func (w Word) String() string {
	return fmt.Sprintf("0x%06X", uint32(w))
}

// Layout names the color driven by each byte of a Word, high byte first.
type Layout [3]byte

// Known layouts.
var (
	// LayoutBRG is the reference panel: 0x00FF00 is red, 0x0000FF is green
	// and 0xFF0000 is blue.
	LayoutBRG = Layout{'B', 'R', 'G'}
	// LayoutRGB is the conventional 0xRRGGBB packing.
	LayoutRGB = Layout{'R', 'G', 'B'}
)

// ParseLayout parses a permutation of "RGB", e.g. "BRG".
func ParseLayout(s string) (Layout, error) {
	var l Layout
	s = strings.ToUpper(s)
	if len(s) != 3 {
		return l, fmt.Errorf("oled: invalid layout %q", s)
	}
	copy(l[:], s)
	if err := l.validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

func (l Layout) String() string {
	return string(l[:])
}

func (l Layout) validate() error {
	seen := map[byte]bool{}
	for _, c := range l {
		if c != 'R' && c != 'G' && c != 'B' || seen[c] {
			return fmt.Errorf("oled: invalid layout %q", l.String())
		}
		seen[c] = true
	}
	return nil
}

// Decode returns the color a panel with this layout shows for w.
func (l Layout) Decode(w Word) color.NRGBA {
	hi, mid, lo := w.Bytes()
	c := color.NRGBA{A: 255}
	for i, v := range [3]uint8{hi, mid, lo} {
		switch l[i] {
		case 'R':
			c.R = v
		case 'G':
			c.G = v
		case 'B':
			c.B = v
		}
	}
	return c
}

// Encode returns the Word showing c on a panel with this layout. Alpha is
// ignored.
func (l Layout) Encode(c color.Color) Word {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	var b [3]uint8
	for i := range l {
		switch l[i] {
		case 'R':
			b[i] = n.R
		case 'G':
			b[i] = n.G
		case 'B':
			b[i] = n.B
		}
	}
	return Pack(b[0], b[1], b[2])
}

// Model returns the color.Model of a panel with this layout: opaque 8 bit
// per channel.
func (l Layout) Model() color.Model {
	return color.ModelFunc(func(c color.Color) color.Color {
		return l.Decode(l.Encode(c))
	})
}
