// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package mmio exposes the memory-mapped registers of the OLED RGB board.
//
// The board has a write-only display block (row select, column select, pixel
// data and control) and a read-only push button register. Every access is a
// single 32 bit load or store that must reach the device exactly once and in
// program order, because the display latches state from the most recent
// write.
//
// The register addresses are not compile time constants: a Map is passed to
// NewRegs so that tests and the host simulator can substitute their own Bus.
package mmio

import (
	"errors"
	"fmt"
)

// Addr is a physical register address.
type Addr uintptr

func (a Addr) String() string {
	return fmt.Sprintf("0x%08X", uintptr(a))
}

// Bus is a 32 bit register bus.
//
// Implementations must perform exactly one device access per call, in the
// order the calls are made. Accesses cannot fail; bus faults are not modeled.
type Bus interface {
	Store32(a Addr, v uint32)
	Load32(a Addr) uint32
}

// Offsets of the display registers relative to Map.Base.
const (
	ColOffset  Addr = 0x20
	RowOffset  Addr = 0x24
	DataOffset Addr = 0x28
	CtrlOffset Addr = 0x2C
)

// InputBits is the meaningful part of the button register.
const InputBits = 0x7

// Map is the placement of the board registers in the address space.
type Map struct {
	// Base of the display block. The four display registers are at
	// Base+ColOffset .. Base+CtrlOffset.
	Base Addr
	// Buttons is the read-only push button register.
	Buttons Addr
}

// DefaultMap is the register map of the reference board.
var DefaultMap = Map{
	Base:    0xFFFF0000,
	Buttons: 0xFFFF0068,
}

// ErrInvalidMap is returned when a Map cannot describe the board.
var ErrInvalidMap = errors.New("mmio: invalid register map")

// Col returns the address of the column select register.
func (m *Map) Col() Addr { return m.Base + ColOffset }

// Row returns the address of the row select register.
func (m *Map) Row() Addr { return m.Base + RowOffset }

// Data returns the address of the pixel data register.
func (m *Map) Data() Addr { return m.Base + DataOffset }

// Ctrl returns the address of the display control register.
func (m *Map) Ctrl() Addr { return m.Base + CtrlOffset }

// Validate checks that the registers are word aligned and that the button
// register does not alias a display register.
func (m *Map) Validate() error {
	if m.Base == 0 || m.Buttons == 0 {
		return fmt.Errorf("%w: zero address", ErrInvalidMap)
	}
	if m.Base&3 != 0 || m.Buttons&3 != 0 {
		return fmt.Errorf("%w: unaligned address (base %s, buttons %s)", ErrInvalidMap, m.Base, m.Buttons)
	}
	if m.Buttons >= m.Col() && m.Buttons <= m.Ctrl() {
		return fmt.Errorf("%w: buttons %s overlaps display block at %s", ErrInvalidMap, m.Buttons, m.Base)
	}
	return nil
}

// Regs gives named access to the board registers over a Bus.
type Regs struct {
	bus Bus
	m   Map
}

// NewRegs binds a Bus to a register map.
func NewRegs(bus Bus, m *Map) (*Regs, error) {
	if bus == nil {
		return nil, errors.New("mmio: nil bus")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &Regs{bus: bus, m: *m}, nil
}

// Map returns the register map in use.
func (r *Regs) Map() Map {
	return r.m
}

// WriteRow selects the display row.
func (r *Regs) WriteRow(y uint32) {
	r.bus.Store32(r.m.Row(), y)
}

// WriteCol selects the display column.
func (r *Regs) WriteCol(x uint32) {
	r.bus.Store32(r.m.Col(), x)
}

// WriteData writes a packed color word at the latched row and column.
func (r *Regs) WriteData(w uint32) {
	r.bus.Store32(r.m.Data(), w)
}

// WriteControl writes the display control register.
func (r *Regs) WriteControl(mode uint32) {
	r.bus.Store32(r.m.Ctrl(), mode)
}

// ReadButtons samples the push button register. Only the low three bits are
// returned.
func (r *Regs) ReadButtons() uint32 {
	return r.bus.Load32(r.m.Buttons) & InputBits
}
