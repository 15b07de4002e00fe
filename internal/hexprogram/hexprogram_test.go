package hexprogram

import (
	"errors"
	"testing"
)

func TestFormatParseRoundTrip(t *testing.T) {
	program := []byte{0xA9, 0x05, 0x8D, 0x10, 0x00}
	text := Format(program)
	if want := "A9 05 8D 10 00"; text != want {
		t.Fatalf("Format() = %q, want %q", text, want)
	}

	got, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(got) != len(program) {
		t.Fatalf("Parse() = %v, want %v", got, program)
	}
	for i := range program {
		if got[i] != program[i] {
			t.Fatalf("Parse()[%d] = %02X, want %02X", i, got[i], program[i])
		}
	}
}

func TestParseCaseInsensitive(t *testing.T) {
	got, err := Parse("a9 FF aB")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := []byte{0xA9, 0xFF, 0xAB}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Parse()[%d] = %02X, want %02X", i, got[i], want[i])
		}
	}
}

func TestParseInvalidToken(t *testing.T) {
	_, err := Parse("A9 ZZ")
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Parse() error = %v, want ErrInvalidToken", err)
	}
}

func TestParseEmpty(t *testing.T) {
	got, err := Parse("   ")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Parse() = %v, want empty", got)
	}
}
