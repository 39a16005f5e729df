// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package oled drives the 96x64 24 bit RGB OLED panel of the board through
// its memory-mapped display registers.
//
// The panel has no frame buffer the CPU can address. A pixel is set by
// writing its row, then its column, then the color word; the controller
// latches the coordinates from the most recent writes. The only drawing
// operation is a full screen solid fill, which costs 64*96 column/data write
// pairs.
//
// # Color words
//
// The data register takes a 24 bit Word. On the reference panel the high byte
// drives blue, the middle byte red and the low byte green (LayoutBRG). Words
// are written as given; the Layout is only used to convert image/color values
// and to render previews.
package oled
