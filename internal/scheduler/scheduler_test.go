package scheduler

import (
	"bytes"
	"testing"

	"github.com/rcornwell/minios62/internal/cpu"
	"github.com/rcornwell/minios62/internal/disk"
	"github.com/rcornwell/minios62/internal/interrupt"
	"github.com/rcornwell/minios62/internal/memmgr"
	"github.com/rcornwell/minios62/internal/memory"
	"github.com/rcornwell/minios62/internal/pcb"
)

type fakeStdOut struct {
	out bytes.Buffer
}

func (f *fakeStdOut) PutText(s string) {
	f.out.WriteString(s)
}

func newTestScheduler(t *testing.T, partitionSize, partitionCount int) (*Scheduler, *memmgr.Manager, *fakeStdOut) {
	t.Helper()
	mem := memory.New(partitionSize, partitionCount)
	d := disk.New(disk.DefaultTracks, disk.DefaultSectors, disk.DefaultBlocks, disk.DefaultDataLen, nil)
	d.Format()
	mm := memmgr.New(mem, d, nil)
	acc := memory.NewAccessor(mem)
	out := &fakeStdOut{}
	q := interrupt.New()
	c := cpu.New(acc, out, q)
	s := New(mm, acc, c, q, out, nil)
	return s, mm, out
}

// tenNops is a 10-instruction, then-halt program: ten NOPs followed by HLT.
func tenNops() []byte {
	program := make([]byte, 11)
	for i := 0; i < 10; i++ {
		program[i] = 0xEA
	}
	program[10] = 0x00
	return program
}

func TestRoundRobinFairness(t *testing.T) {
	s, mm, _ := newTestScheduler(t, 16, 2)
	s.SetSchedule(RoundRobin)
	if err := s.SetQuantum(2); err != nil {
		t.Fatalf("SetQuantum: %v", err)
	}

	p1, err := mm.Allocate(tenNops(), pcb.DefaultPriority)
	if err != nil {
		t.Fatalf("Allocate p1: %v", err)
	}
	p2, err := mm.Allocate(tenNops(), pcb.DefaultPriority)
	if err != nil {
		t.Fatalf("Allocate p2: %v", err)
	}
	s.Enqueue(p1)
	s.Enqueue(p2)

	var trace []int
	for i := 0; i < 14; i++ {
		var expect int
		if s.running != nil {
			expect = s.running.ProcessID
		} else if len(s.ready) > 0 {
			expect = s.ready[0].ProcessID
		} else {
			break
		}
		if err := s.Tick(); err != nil {
			t.Fatalf("Tick: %v", err)
		}
		trace = append(trace, expect)
	}

	want := []int{
		p1.ProcessID, p1.ProcessID,
		p2.ProcessID, p2.ProcessID,
		p1.ProcessID, p1.ProcessID,
		p2.ProcessID, p2.ProcessID,
		p1.ProcessID, p1.ProcessID,
		p2.ProcessID, p2.ProcessID,
	}
	if len(trace) < len(want) {
		t.Fatalf("trace too short: %v", trace)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Fatalf("trace[%d] = %d, want %d; full trace = %v", i, trace[i], want[i], trace)
		}
	}
}

func TestFCFSRunsToCompletionWithoutPreemption(t *testing.T) {
	s, mm, _ := newTestScheduler(t, 16, 2)
	s.SetSchedule(FCFS)
	if err := s.SetQuantum(2); err != nil {
		t.Fatalf("SetQuantum: %v", err)
	}

	p1, _ := mm.Allocate(tenNops(), pcb.DefaultPriority)
	p2, _ := mm.Allocate(tenNops(), pcb.DefaultPriority)
	s.Enqueue(p1)
	s.Enqueue(p2)

	for i := 0; i < 11; i++ {
		if err := s.Tick(); err != nil {
			t.Fatalf("Tick: %v", err)
		}
		if s.running != nil && s.running.ProcessID != p1.ProcessID {
			t.Fatalf("tick %d: running = %d, want p1 (%d) to run uninterrupted", i, s.running.ProcessID, p1.ProcessID)
		}
	}
	if p1.State != pcb.Terminated {
		t.Fatalf("p1.State = %v, want Terminated after 11 ticks", p1.State)
	}
}

func TestPriorityOrdersReadyQueueAscending(t *testing.T) {
	s, mm, _ := newTestScheduler(t, 16, 3)
	s.SetSchedule(Priority)

	low, _ := mm.Allocate(tenNops(), 50)
	high, _ := mm.Allocate(tenNops(), 10)
	mid, _ := mm.Allocate(tenNops(), 30)
	s.Enqueue(low)
	s.Enqueue(high)
	s.Enqueue(mid)

	if len(s.ready) != 3 {
		t.Fatalf("ready queue length = %d, want 3", len(s.ready))
	}
	if s.ready[0].ProcessID != high.ProcessID || s.ready[1].ProcessID != mid.ProcessID || s.ready[2].ProcessID != low.ProcessID {
		t.Fatalf("ready order = %v, want [high, mid, low]", s.ready)
	}
}

func TestExtractRemovesFromReadyQueue(t *testing.T) {
	s, mm, _ := newTestScheduler(t, 16, 2)
	p1, _ := mm.Allocate(tenNops(), pcb.DefaultPriority)
	p2, _ := mm.Allocate(tenNops(), pcb.DefaultPriority)
	s.Enqueue(p1)
	s.Enqueue(p2)

	got, ok := s.Extract(p1.ProcessID)
	if !ok || got.ProcessID != p1.ProcessID {
		t.Fatalf("Extract(p1) = %v, %v", got, ok)
	}
	if len(s.ready) != 1 || s.ready[0].ProcessID != p2.ProcessID {
		t.Fatalf("ready queue after extract = %v", s.ready)
	}
}

func TestClearEmptiesReadyQueueOnly(t *testing.T) {
	s, mm, _ := newTestScheduler(t, 16, 2)
	p1, _ := mm.Allocate(tenNops(), pcb.DefaultPriority)
	p2, _ := mm.Allocate(tenNops(), pcb.DefaultPriority)
	s.Enqueue(p1)
	s.Enqueue(p2)

	if err := s.Tick(); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	running := s.Running()
	cleared := s.Clear()
	if len(cleared) != 1 {
		t.Fatalf("Clear() = %v, want 1 cleared PCB", cleared)
	}
	if s.Running() != running {
		t.Fatalf("Clear() disturbed the running process")
	}
}

func TestSwapInEvictsLeastRecentlyDispatchedVictim(t *testing.T) {
	s, mm, _ := newTestScheduler(t, 16, 2)

	p1, _ := mm.Allocate(tenNops(), pcb.DefaultPriority) // base 0
	p2, _ := mm.Allocate(tenNops(), pcb.DefaultPriority) // base 16
	p3, _ := mm.Allocate(tenNops(), pcb.DefaultPriority) // overflows to DSK
	if p3.Location != pcb.DSK {
		t.Fatalf("p3.Location = %v, want DSK", p3.Location)
	}

	p1.LastDispatched = 5
	p2.LastDispatched = 10

	if err := s.swapIn(p3); err != nil {
		t.Fatalf("swapIn: %v", err)
	}

	if p3.Location != pcb.RAM || p3.StartingAddress != 0 {
		t.Fatalf("p3 = %+v, want RAM at base 0 (p1's former partition)", p3)
	}
	if p1.Location != pcb.DSK || p1.StartingAddress != pcb.NoStartingAddress {
		t.Fatalf("p1 = %+v, want evicted to DSK", p1)
	}
	if p2.Location != pcb.RAM || p2.StartingAddress != 16 {
		t.Fatalf("p2 = %+v, want untouched at base 16", p2)
	}
}

func TestKillReadyProcessDeallocatesImmediately(t *testing.T) {
	s, mm, _ := newTestScheduler(t, 16, 2)
	p1, _ := mm.Allocate(tenNops(), pcb.DefaultPriority)
	p2, _ := mm.Allocate(tenNops(), pcb.DefaultPriority)
	s.Enqueue(p1)
	s.Enqueue(p2)

	if err := s.Kill(p2.ProcessID); err != nil {
		t.Fatalf("Kill: %v", err)
	}
	if p2.State != pcb.Terminated {
		t.Fatalf("p2.State = %v, want Terminated", p2.State)
	}
	if len(s.ready) != 1 || s.ready[0].ProcessID != p1.ProcessID {
		t.Fatalf("ready queue after Kill = %v", s.ready)
	}
}

func TestKillRunningProcessDefersToNextPulse(t *testing.T) {
	s, mm, _ := newTestScheduler(t, 16, 1)
	p1, _ := mm.Allocate(tenNops(), pcb.DefaultPriority)
	s.Enqueue(p1)
	if err := s.Tick(); err != nil { // dispatches p1
		t.Fatalf("Tick: %v", err)
	}
	if s.running == nil || s.running.ProcessID != p1.ProcessID {
		t.Fatalf("expected p1 running before Kill")
	}

	if err := s.Kill(p1.ProcessID); err != nil {
		t.Fatalf("Kill: %v", err)
	}
	if p1.State == pcb.Terminated {
		t.Fatalf("p1 terminated before next pulse, want deferred")
	}

	// The first pulse lets the CPU's InterruptCheck stage observe the
	// Halt interrupt and report the process halted, and the Scheduler
	// deallocates it in that same pulse; the second finds nothing to run.
	for i := 0; i < 2; i++ {
		if err := s.Tick(); err != nil {
			t.Fatalf("Tick after Kill: %v", err)
		}
	}
	if p1.State != pcb.Terminated {
		t.Fatalf("p1.State = %v, want Terminated after the deferred pulses", p1.State)
	}
}

func TestSwapInSkipsCurrentlyRunningProcess(t *testing.T) {
	s, mm, _ := newTestScheduler(t, 16, 1)

	running, _ := mm.Allocate(tenNops(), pcb.DefaultPriority)
	swapped, _ := mm.Allocate(tenNops(), pcb.DefaultPriority)
	if swapped.Location != pcb.DSK {
		t.Fatalf("swapped.Location = %v, want DSK", swapped.Location)
	}
	s.running = running

	if err := s.swapIn(swapped); err != ErrNoRAMAvailable {
		t.Fatalf("swapIn() error = %v, want ErrNoRAMAvailable", err)
	}
}
