// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package snapshot renders a picture of the board: the panel contents scaled
// up inside a bezel, a title and the three buttons with their held state.
package snapshot

import (
	"errors"
	"image"
	"image/color"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/GermanBionicSystems/oledrgb/buttons"
)

const (
	margin     = 16
	titleH     = 28
	buttonRowH = 56
	buttonR    = 12
)

// Opts controls the rendering.
type Opts struct {
	// Scale multiplies the panel size. Zero means 4.
	Scale int
	// Title is drawn above the panel.
	Title string
	// Held highlights the held buttons.
	Held buttons.Button
}

var (
	faceOnce sync.Once
	fontErr  error
	ttf      *truetype.Font
)

func face(size float64) (font.Face, error) {
	faceOnce.Do(func() { ttf, fontErr = truetype.Parse(goregular.TTF) })
	if fontErr != nil {
		return nil, fontErr
	}
	return truetype.NewFace(ttf, &truetype.Options{Size: size}), nil
}

// Size returns the size of the picture Render produces for a panel of the
// given size.
func Size(panel image.Point, scale int) image.Point {
	if scale <= 0 {
		scale = 4
	}
	return image.Pt(panel.X*scale+2*margin, titleH+panel.Y*scale+margin+buttonRowH)
}

// PanelOrigin returns where the top left pixel of the panel lands.
func PanelOrigin() image.Point {
	return image.Pt(margin, titleH)
}

// ButtonCenter returns the center of the circle drawn for b, which must be
// one of buttons.Left, buttons.Center or buttons.Right.
func ButtonCenter(panel image.Point, scale int, b buttons.Button) image.Point {
	s := Size(panel, scale)
	y := s.Y - buttonRowH/2
	switch b {
	case buttons.Left:
		return image.Pt(s.X/4, y)
	case buttons.Right:
		return image.Pt(3*s.X/4, y)
	}
	return image.Pt(s.X/2, y)
}

// Render draws the board around img.
func Render(img image.Image, opts *Opts) (image.Image, error) {
	if img == nil {
		return nil, errors.New("snapshot: nil image")
	}
	if opts == nil {
		opts = &Opts{}
	}
	scale := opts.Scale
	if scale <= 0 {
		scale = 4
	}
	b := img.Bounds()
	size := Size(b.Size(), scale)
	dc := gg.NewContext(size.X, size.Y)

	// Board.
	dc.SetRGB255(0x1E, 0x3A, 0x1E)
	dc.Clear()

	// Bezel around the panel.
	o := PanelOrigin()
	pw, ph := float64(b.Dx()*scale), float64(b.Dy()*scale)
	dc.SetRGB255(0x10, 0x10, 0x10)
	dc.DrawRoundedRectangle(float64(o.X)-6, float64(o.Y)-6, pw+12, ph+12, 6)
	dc.Fill()

	scaled := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	xdraw.NearestNeighbor.Scale(scaled, scaled.Rect, img, b, xdraw.Src, nil)
	dc.DrawImage(scaled, o.X, o.Y)

	f, err := face(14)
	if err != nil {
		return nil, err
	}
	dc.SetFontFace(f)
	if opts.Title != "" {
		dc.SetColor(color.White)
		dc.DrawStringAnchored(opts.Title, float64(size.X)/2, float64(titleH)/2-2, 0.5, 0.5)
	}

	for _, btn := range []buttons.Button{buttons.Left, buttons.Center, buttons.Right} {
		c := ButtonCenter(b.Size(), scale, btn)
		dc.DrawCircle(float64(c.X), float64(c.Y), buttonR)
		if opts.Held&btn != 0 {
			dc.SetRGB255(0xFF, 0xC0, 0x00)
		} else {
			dc.SetRGB255(0x50, 0x50, 0x50)
		}
		dc.FillPreserve()
		dc.SetRGB255(0xD0, 0xD0, 0xD0)
		dc.SetLineWidth(2)
		dc.Stroke()
	}
	return dc.Image(), nil
}

// SavePNG renders the board and writes it to path.
func SavePNG(path string, img image.Image, opts *Opts) error {
	out, err := Render(img, opts)
	if err != nil {
		return err
	}
	return gg.SavePNG(path, out)
}
