package memory

import "testing"

func TestWriteProgramPadsTail(t *testing.T) {
	mem := New(DefaultPartitionSize, DefaultPartitionCount)
	if err := mem.WriteProgram(0, 256, []byte{0xA9, 0x05}); err != nil {
		t.Fatalf("WriteProgram: %v", err)
	}
	if got := mem.ReadByte(0); got != 0xA9 {
		t.Errorf("byte 0 = %02X, want A9", got)
	}
	if got := mem.ReadByte(2); got != 0x00 {
		t.Errorf("byte 2 = %02X, want 00 (tail padding)", got)
	}
}

func TestWriteProgramTooLarge(t *testing.T) {
	mem := New(DefaultPartitionSize, DefaultPartitionCount)
	big := make([]byte, 257)
	if err := mem.WriteProgram(0, 256, big); err != ErrProgramTooLarge {
		t.Fatalf("WriteProgram large image: got %v, want ErrProgramTooLarge", err)
	}
}

func TestClearProgram(t *testing.T) {
	mem := New(DefaultPartitionSize, DefaultPartitionCount)
	_ = mem.WriteProgram(256, 256, []byte{1, 2, 3})
	mem.ClearProgram(256, 256)
	for i := 256; i < 512; i++ {
		if got := mem.ReadByte(i); got != 0 {
			t.Fatalf("byte %d = %02X after ClearProgram, want 0", i, got)
		}
	}
}

func TestAccessorBoundsViolation(t *testing.T) {
	mem := New(DefaultPartitionSize, DefaultPartitionCount)
	acc := NewAccessor(mem)
	acc.Bind(mem.PartitionBase(0), mem.PartitionSize())

	// Address in the next partition (256) is out of this process's window.
	acc.SetLowOrder(0x00)
	acc.SetHighOrder(0x01)
	if _, err := acc.Read(); err != ErrBoundsViolation {
		t.Fatalf("Read out of bounds: got %v, want ErrBoundsViolation", err)
	}
}

func TestAccessorReadWriteRoundTrip(t *testing.T) {
	mem := New(DefaultPartitionSize, DefaultPartitionCount)
	acc := NewAccessor(mem)
	base := mem.PartitionBase(1)
	acc.Bind(base, mem.PartitionSize())

	// MAR = base + 0x10, assembled the way decode does: high byte already
	// carries the partition offset (base/256).
	acc.SetLowOrder(0x10)
	acc.SetHighOrder(byte(base / 256))

	if err := acc.Write(0x42); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := acc.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != 0x42 {
		t.Errorf("round trip = %02X, want 42", got)
	}
	if mem.ReadByte(base+0x10) != 0x42 {
		t.Errorf("physical byte not updated")
	}
}
