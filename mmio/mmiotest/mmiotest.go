// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package mmiotest is meant to be used to test drivers over a fake register
// bus.
package mmiotest

import (
	"fmt"
	"sync"

	"github.com/GermanBionicSystems/oledrgb/mmio"
)

// IO registers a single register access.
type IO struct {
	Addr  mmio.Addr
	Write bool
	Value uint32
}

func (io IO) String() string {
	if io.Write {
		return fmt.Sprintf("W %s <- 0x%X", io.Addr, io.Value)
	}
	return fmt.Sprintf("R %s -> 0x%X", io.Addr, io.Value)
}

// Record implements mmio.Bus and records every access in order.
//
// Loads of the Input address consume Inputs one value per load. Once Inputs
// is exhausted, loads return Idle. Loads of any other address return the last
// value stored there.
type Record struct {
	sync.Mutex
	// Input is the address served from Inputs.
	Input mmio.Addr
	// Inputs are returned by successive loads of Input.
	Inputs []uint32
	// Idle is returned by loads of Input once Inputs is exhausted.
	Idle uint32
	// Ops is the access log.
	Ops []IO
	// SkipLoads keeps loads out of Ops.
	SkipLoads bool

	mem   map[mmio.Addr]uint32
	loads int
}

// Store32 implements mmio.Bus.
func (r *Record) Store32(a mmio.Addr, v uint32) {
	r.Lock()
	defer r.Unlock()
	if r.mem == nil {
		r.mem = map[mmio.Addr]uint32{}
	}
	r.mem[a] = v
	r.Ops = append(r.Ops, IO{Addr: a, Write: true, Value: v})
}

// Load32 implements mmio.Bus.
func (r *Record) Load32(a mmio.Addr) uint32 {
	r.Lock()
	defer r.Unlock()
	var v uint32
	if a == r.Input {
		r.loads++
		if len(r.Inputs) != 0 {
			v = r.Inputs[0]
			r.Inputs = r.Inputs[1:]
		} else {
			v = r.Idle
		}
	} else {
		v = r.mem[a]
	}
	if !r.SkipLoads {
		r.Ops = append(r.Ops, IO{Addr: a, Value: v})
	}
	return v
}

// Loads returns the number of loads of the Input address so far.
func (r *Record) Loads() int {
	r.Lock()
	defer r.Unlock()
	return r.loads
}

// Pending returns the number of Inputs not yet consumed.
func (r *Record) Pending() int {
	r.Lock()
	defer r.Unlock()
	return len(r.Inputs)
}

// Stores returns the values stored at a, in order.
func (r *Record) Stores(a mmio.Addr) []uint32 {
	r.Lock()
	defer r.Unlock()
	var out []uint32
	for _, io := range r.Ops {
		if io.Write && io.Addr == a {
			out = append(out, io.Value)
		}
	}
	return out
}

// Writes returns only the stores of the log.
func (r *Record) Writes() []IO {
	r.Lock()
	defer r.Unlock()
	out := make([]IO, 0, len(r.Ops))
	for _, io := range r.Ops {
		if io.Write {
			out = append(out, io)
		}
	}
	return out
}

// Reset clears the log but keeps the scripted inputs.
func (r *Record) Reset() {
	r.Lock()
	defer r.Unlock()
	r.Ops = nil
}

var _ mmio.Bus = &Record{}
