// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mmio_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/GermanBionicSystems/oledrgb/mmio"
	"github.com/GermanBionicSystems/oledrgb/mmio/mmiotest"
)

func TestDefaultMap(t *testing.T) {
	m := mmio.DefaultMap
	for _, tc := range []struct {
		name string
		got  mmio.Addr
		want mmio.Addr
	}{
		{"col", m.Col(), 0xFFFF0020},
		{"row", m.Row(), 0xFFFF0024},
		{"data", m.Data(), 0xFFFF0028},
		{"ctrl", m.Ctrl(), 0xFFFF002C},
		{"buttons", m.Buttons, 0xFFFF0068},
	} {
		if tc.got != tc.want {
			t.Errorf("%s: got %s, want %s", tc.name, tc.got, tc.want)
		}
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestMapValidate(t *testing.T) {
	for _, tc := range []struct {
		name string
		m    mmio.Map
	}{
		{"zero base", mmio.Map{Buttons: 0x100}},
		{"zero buttons", mmio.Map{Base: 0x100}},
		{"unaligned base", mmio.Map{Base: 0x102, Buttons: 0x200}},
		{"unaligned buttons", mmio.Map{Base: 0x100, Buttons: 0x201}},
		{"overlap data", mmio.Map{Base: 0x100, Buttons: 0x128}},
		{"overlap ctrl", mmio.Map{Base: 0x100, Buttons: 0x12C}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.m.Validate(); !errors.Is(err, mmio.ErrInvalidMap) {
				t.Fatalf("Validate() = %v, want ErrInvalidMap", err)
			}
		})
	}
}

func TestNewRegs(t *testing.T) {
	if _, err := mmio.NewRegs(nil, &mmio.DefaultMap); err == nil {
		t.Fatal("expected error on nil bus")
	}
	if _, err := mmio.NewRegs(&mmiotest.Record{}, &mmio.Map{}); err == nil {
		t.Fatal("expected error on empty map")
	}
}

func TestRegsOrder(t *testing.T) {
	m := mmio.DefaultMap
	rec := &mmiotest.Record{Input: m.Buttons, Inputs: []uint32{0xFFFFFFFA}}
	r, err := mmio.NewRegs(rec, &m)
	if err != nil {
		t.Fatal(err)
	}

	r.WriteControl(0x21)
	r.WriteRow(3)
	r.WriteCol(7)
	r.WriteData(0x123456)
	if got := r.ReadButtons(); got != 0x2 {
		t.Errorf("ReadButtons() = %#x, want 0x2", got)
	}

	want := []mmiotest.IO{
		{Addr: m.Ctrl(), Write: true, Value: 0x21},
		{Addr: m.Row(), Write: true, Value: 3},
		{Addr: m.Col(), Write: true, Value: 7},
		{Addr: m.Data(), Write: true, Value: 0x123456},
		{Addr: m.Buttons, Value: 0xFFFFFFFA},
	}
	if diff := cmp.Diff(rec.Ops, want); diff != "" {
		t.Errorf("register log difference (-got +want):\n%s", diff)
	}
}

func TestRecordIdle(t *testing.T) {
	rec := &mmiotest.Record{Input: 0x68, Inputs: []uint32{1}, Idle: 4, SkipLoads: true}
	if v := rec.Load32(0x68); v != 1 {
		t.Fatalf("first load = %d", v)
	}
	for i := 0; i < 3; i++ {
		if v := rec.Load32(0x68); v != 4 {
			t.Fatalf("idle load = %d", v)
		}
	}
	if rec.Loads() != 4 || rec.Pending() != 0 || len(rec.Ops) != 0 {
		t.Fatalf("loads=%d pending=%d ops=%d", rec.Loads(), rec.Pending(), len(rec.Ops))
	}
	rec.Store32(0x20, 9)
	if v := rec.Load32(0x20); v != 9 {
		t.Fatalf("readback = %d", v)
	}
}
