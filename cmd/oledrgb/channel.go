// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build channelstep

package main

import (
	"github.com/GermanBionicSystems/oledrgb/loop"
	"github.com/GermanBionicSystems/oledrgb/policy"
)

// Every button held in one sample is serviced, center first.
const multiPress = loop.Sequential

func newPolicy() (policy.Policy, error) {
	return policy.NewChannel(nil)
}
