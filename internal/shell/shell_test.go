package shell

import (
	"strings"
	"testing"

	"github.com/rcornwell/minios62/internal/disk"
	"github.com/rcornwell/minios62/internal/kernel"
	"github.com/rcornwell/minios62/internal/pcb"
	"github.com/rcornwell/minios62/internal/scheduler"
)

// fakeStdOut is a minimal stand-in for *stdout.Terminal: it tracks the
// same column counter so tests can exercise AdvanceLine/ClearScreen/
// ResetXY/CurrentXPosition without pulling in an io.Writer.
type fakeStdOut struct {
	out strings.Builder
	col int
}

func (f *fakeStdOut) PutText(s string) {
	f.out.WriteString(s)
	for _, r := range s {
		if r == '\n' {
			f.col = 0
		} else {
			f.col++
		}
	}
}

func (f *fakeStdOut) AdvanceLine() {
	f.out.WriteByte('\n')
	f.col = 0
}

func (f *fakeStdOut) ClearScreen() {
	f.out.WriteString("\x1b[2J\x1b[H")
	f.col = 0
}

func (f *fakeStdOut) ResetXY() {
	f.col = 0
}

func (f *fakeStdOut) CurrentXPosition() int {
	return f.col
}

func newTestKernel(t *testing.T) (*kernel.Kernel, *fakeStdOut) {
	t.Helper()
	out := &fakeStdOut{}
	k := kernel.New(kernel.Config{
		PartitionSize:  32,
		PartitionCount: 2,
		DiskTracks:     disk.DefaultTracks,
		DiskSectors:    disk.DefaultSectors,
		DiskBlocks:     disk.DefaultBlocks,
		DiskDataLen:    disk.DefaultDataLen,
		Quantum:        scheduler.DefaultQuantum,
		Algorithm:      scheduler.RoundRobin,
	}, out, nil)
	k.Format(false)
	return k, out
}

func TestTokenizeHandlesQuotedStrings(t *testing.T) {
	got := tokenize(`write foo "hello world"`)
	want := []string{"write", "foo", "hello world"}
	if len(got) != len(want) {
		t.Fatalf("tokenize() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tokenize()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDispatchLoadRunPS(t *testing.T) {
	k, out := newTestKernel(t)
	if quit, err := Dispatch(`load "A9 05 8D 10 00 AD 10 00 00"`, k, out); quit || err != nil {
		t.Fatalf("Dispatch(load) = %v, %v", quit, err)
	}
	if !strings.Contains(out.out.String(), "loaded pid 0") {
		t.Fatalf("stdout = %q, want mention of pid 0", out.out.String())
	}
	out.out.Reset()

	if quit, err := Dispatch("run 0", k, out); quit || err != nil {
		t.Fatalf("Dispatch(run) = %v, %v", quit, err)
	}
	for _, p := range k.PS() {
		if p.State == pcb.Resident {
			t.Fatalf("pid %d still RESIDENT after run", p.ProcessID)
		}
	}
}

func TestDispatchExamineDumpsPartition(t *testing.T) {
	k, out := newTestKernel(t)
	mustDispatch(t, k, out, `load "A9 05 00"`)
	out.out.Reset()
	mustDispatch(t, k, out, "examine 0")
	if !strings.HasPrefix(out.out.String(), "A9 05 00") {
		t.Fatalf("examine 0 = %q, want prefix %q", out.out.String(), "A9 05 00")
	}
}

func TestDispatchClsClearsScreenAndColumn(t *testing.T) {
	k, out := newTestKernel(t)
	mustDispatch(t, k, out, "ps")
	out.out.Reset()
	mustDispatch(t, k, out, "cls")
	if out.out.String() != "\x1b[2J\x1b[H" {
		t.Fatalf("cls = %q, want the ANSI clear-and-home sequence", out.out.String())
	}
	if out.CurrentXPosition() != 0 {
		t.Fatalf("CurrentXPosition() after cls = %d, want 0", out.CurrentXPosition())
	}
}

func TestDispatchUnknownCommand(t *testing.T) {
	k, out := newTestKernel(t)
	if _, err := Dispatch("frobnicate", k, out); err == nil {
		t.Fatalf("Dispatch(frobnicate) error = nil, want an error")
	}
}

func TestDispatchFilesystemRoundTrip(t *testing.T) {
	k, out := newTestKernel(t)

	mustDispatch(t, k, out, "create foo")
	mustDispatch(t, k, out, `write foo "hello world"`)

	out.out.Reset()
	mustDispatch(t, k, out, "ls")
	if strings.TrimSpace(out.out.String()) != "foo" {
		t.Fatalf("ls = %q, want %q", out.out.String(), "foo\n")
	}

	out.out.Reset()
	mustDispatch(t, k, out, "read foo")
	if !strings.HasPrefix(out.out.String(), "hello world") {
		t.Fatalf("read foo = %q, want prefix %q", out.out.String(), "hello world")
	}

	mustDispatch(t, k, out, "delete foo")
	out.out.Reset()
	mustDispatch(t, k, out, "ls")
	if strings.TrimSpace(out.out.String()) != "" {
		t.Fatalf("ls after delete = %q, want empty", out.out.String())
	}
}

func TestDispatchLsHidesSwapFilesUnlessDashA(t *testing.T) {
	k, out := newTestKernel(t)
	for i := 0; i < 3; i++ {
		mustDispatch(t, k, out, "load 00")
	}
	out.out.Reset()
	mustDispatch(t, k, out, "ls")
	if strings.Contains(out.out.String(), ".process") {
		t.Fatalf("ls = %q, want swap files hidden", out.out.String())
	}

	out.out.Reset()
	mustDispatch(t, k, out, "ls -a")
	if !strings.Contains(out.out.String(), ".process2.swp") {
		t.Fatalf("ls -a = %q, want .process2.swp visible", out.out.String())
	}
}

func TestDispatchQuit(t *testing.T) {
	k, out := newTestKernel(t)
	quit, err := Dispatch("quit", k, out)
	if err != nil || !quit {
		t.Fatalf("Dispatch(quit) = %v, %v, want true, nil", quit, err)
	}
}

func TestCompleteCmdPrefixMatches(t *testing.T) {
	got := CompleteCmd("ru")
	want := map[string]bool{"run": true, "runall": true}
	if len(got) != len(want) {
		t.Fatalf("CompleteCmd(ru) = %v, want %v", got, want)
	}
	for _, n := range got {
		if !want[n] {
			t.Fatalf("CompleteCmd(ru) = %v, unexpected entry %q", got, n)
		}
	}
}

func mustDispatch(t *testing.T, k *kernel.Kernel, out StdOut, line string) {
	t.Helper()
	if _, err := Dispatch(line, k, out); err != nil {
		t.Fatalf("Dispatch(%q): %v", line, err)
	}
}
