package memmgr

import (
	"testing"

	"github.com/rcornwell/minios62/internal/disk"
	"github.com/rcornwell/minios62/internal/memory"
	"github.com/rcornwell/minios62/internal/pcb"
)

func newTestManager(t *testing.T) (*Manager, *disk.Disk) {
	t.Helper()
	mem := memory.New(64, 2)
	d := disk.New(disk.DefaultTracks, disk.DefaultSectors, disk.DefaultBlocks, disk.DefaultDataLen, nil)
	d.Format()
	return New(mem, d, nil), d
}

func TestAllocateFillsRAMThenSwaps(t *testing.T) {
	m, _ := newTestManager(t)

	p1, err := m.Allocate([]byte{0xA9, 0x01}, pcb.DefaultPriority)
	if err != nil {
		t.Fatalf("Allocate #1: %v", err)
	}
	if p1.Location != pcb.RAM || p1.StartingAddress != 0 {
		t.Fatalf("p1 = %+v, want RAM at base 0", p1)
	}

	p2, err := m.Allocate([]byte{0xA9, 0x02}, pcb.DefaultPriority)
	if err != nil {
		t.Fatalf("Allocate #2: %v", err)
	}
	if p2.Location != pcb.RAM || p2.StartingAddress != 64 {
		t.Fatalf("p2 = %+v, want RAM at base 64", p2)
	}

	p3, err := m.Allocate([]byte{0xA9, 0x03}, pcb.DefaultPriority)
	if err != nil {
		t.Fatalf("Allocate #3: %v", err)
	}
	if p3.Location != pcb.DSK {
		t.Fatalf("p3.Location = %v, want DSK", p3.Location)
	}

	got, err := m.ReadSwapFile(p3.ProcessID)
	if err != nil {
		t.Fatalf("ReadSwapFile: %v", err)
	}
	if len(got) != 2 || got[0] != 0xA9 || got[1] != 0x03 {
		t.Fatalf("ReadSwapFile() = %v, want [A9 03]", got)
	}
}

func TestDeallocateFreesRAMPartition(t *testing.T) {
	m, _ := newTestManager(t)
	p, err := m.Allocate([]byte{0xA9, 0x01}, pcb.DefaultPriority)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	if err := m.Deallocate(p); err != nil {
		t.Fatalf("Deallocate: %v", err)
	}
	if p.State != pcb.Terminated {
		t.Fatalf("State = %v, want Terminated", p.State)
	}
	if !m.partitionFree(0) {
		t.Fatalf("partitionFree(0) = false after deallocate")
	}

	// Idempotent: a second call must not error.
	if err := m.Deallocate(p); err != nil {
		t.Fatalf("second Deallocate: %v", err)
	}
}

func TestWriteSwapFileOverwritesOnRepeatedSwapOut(t *testing.T) {
	m, _ := newTestManager(t)
	p, err := m.Allocate([]byte{0xA9, 0x01}, pcb.DefaultPriority)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	// Simulate a swap-out, then a second swap-out for the same process.
	if err := m.WriteSwapFile(p.ProcessID, []byte{0xA9, 0x09}); err != nil {
		t.Fatalf("first WriteSwapFile: %v", err)
	}
	if err := m.WriteSwapFile(p.ProcessID, []byte{0xA9, 0x0A}); err != nil {
		t.Fatalf("second WriteSwapFile: %v", err)
	}

	got, err := m.ReadSwapFile(p.ProcessID)
	if err != nil {
		t.Fatalf("ReadSwapFile: %v", err)
	}
	if len(got) != 2 || got[1] != 0x0A {
		t.Fatalf("ReadSwapFile() = %v, want [A9 0A]", got)
	}
}

func TestDebugRejectsUnknownOption(t *testing.T) {
	m, _ := newTestManager(t)
	if err := m.Debug("on"); err != nil {
		t.Fatalf("Debug(on) = %v, want nil", err)
	}
	if err := m.Debug("loud"); err == nil {
		t.Fatalf("Debug(loud) = nil, want an error")
	}
	if err := m.Debug("off"); err != nil {
		t.Fatalf("Debug(off) = %v, want nil", err)
	}
}

func TestAllocateProgramTooLarge(t *testing.T) {
	m, _ := newTestManager(t)
	big := make([]byte, 100)
	if _, err := m.Allocate(big, pcb.DefaultPriority); err != memory.ErrProgramTooLarge {
		t.Fatalf("Allocate() error = %v, want ErrProgramTooLarge", err)
	}
}
