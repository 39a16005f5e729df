// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package oledrgb is a container for the OLED RGB board program and its
// host simulator.
//
// The board maps a 96x64 RGB panel and three push buttons into memory.
// Package mmio accesses the registers, oled paints the panel, buttons samples
// the push buttons, policy decides the color and loop ties them together.
// Package sim models the board on a host, and termview, videosink and
// snapshot show what it displays.
//
// cmd/oledrgb is the bare metal program, cmd/oledsim the simulator.
package oledrgb
