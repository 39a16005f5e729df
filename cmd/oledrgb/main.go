// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// oledrgb is the board program. It runs bare metal and is built with TinyGo:
//
//	tinygo build -target <board> ./cmd/oledrgb
//	tinygo build -target <board> -tags channelstep ./cmd/oledrgb
//
// The default build cycles red, green and blue on the center button. The
// channelstep build steps the R, G and B channels with the three buttons.
//
// The program switches the panel to 24 bit mode, paints it and then polls the
// buttons forever. There is no exit.
package main

import (
	"github.com/GermanBionicSystems/oledrgb/buttons"
	"github.com/GermanBionicSystems/oledrgb/loop"
	"github.com/GermanBionicSystems/oledrgb/mmio"
	"github.com/GermanBionicSystems/oledrgb/oled"
)

func main() {
	r, err := mmio.NewRegs(mmio.Volatile{}, &mmio.DefaultMap)
	if err != nil {
		panic(err)
	}
	d, err := oled.New(r, &oled.DefaultOpts)
	if err != nil {
		panic(err)
	}
	p, err := newPolicy()
	if err != nil {
		panic(err)
	}
	l, err := loop.New(d, buttons.New(r), &loop.Opts{Policy: p, MultiPress: multiPress})
	if err != nil {
		panic(err)
	}
	l.Run()
}
