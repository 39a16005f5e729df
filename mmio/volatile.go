// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build !tinygo

package mmio

import (
	"sync/atomic"
	"unsafe"
)

// Volatile is the Bus of the real hardware. Addresses are dereferenced
// directly, so it is only usable where the register block is mapped into the
// process.
//
// The host toolchain has no volatile qualifier; atomic loads and stores are
// neither elided nor reordered by the compiler, which is the guarantee the
// board needs.
type Volatile struct{}

// Store32 implements Bus.
func (Volatile) Store32(a Addr, v uint32) {
	atomic.StoreUint32((*uint32)(unsafe.Pointer(uintptr(a))), v)
}

// Load32 implements Bus.
func (Volatile) Load32(a Addr) uint32 {
	return atomic.LoadUint32((*uint32)(unsafe.Pointer(uintptr(a))))
}

var _ Bus = Volatile{}
