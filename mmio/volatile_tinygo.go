// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build tinygo

package mmio

import (
	"runtime/volatile"
	"unsafe"
)

// Volatile is the Bus of the real hardware, backed by runtime/volatile.
type Volatile struct{}

// Store32 implements Bus.
func (Volatile) Store32(a Addr, v uint32) {
	(*volatile.Register32)(unsafe.Pointer(uintptr(a))).Set(v)
}

// Load32 implements Bus.
func (Volatile) Load32(a Addr) uint32 {
	return (*volatile.Register32)(unsafe.Pointer(uintptr(a))).Get()
}

var _ Bus = Volatile{}
