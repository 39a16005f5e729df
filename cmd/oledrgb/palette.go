// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build !channelstep

package main

import (
	"github.com/GermanBionicSystems/oledrgb/loop"
	"github.com/GermanBionicSystems/oledrgb/policy"
)

const multiPress = loop.FirstOnly

func newPolicy() (policy.Policy, error) {
	return policy.NewPalette(nil)
}
