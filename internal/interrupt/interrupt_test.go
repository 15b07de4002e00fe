package interrupt

import "testing"

func TestPostDrainFIFO(t *testing.T) {
	q := New()
	q.Post(Interrupt{Kind: Halt, PID: 1})
	q.Post(Interrupt{Kind: Halt, PID: 2})

	got := q.Drain()
	if len(got) != 2 || got[0].PID != 1 || got[1].PID != 2 {
		t.Fatalf("Drain() = %+v, want FIFO order [1, 2]", got)
	}
	if got := q.Drain(); got != nil {
		t.Fatalf("second Drain() = %+v, want nil", got)
	}
}
