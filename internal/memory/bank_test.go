package memory

import (
	"math"
	"testing"
)

func TestIntBankWrapAround(t *testing.T) {
	bank := NewIntBank(4)
	big := int64(math.MaxInt32) + 5
	if err := bank.Write(0, int32(big)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := bank.Read(0)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := int32(math.MinInt32 + 4) // MaxInt32+5 wraps to MinInt32+4
	if got != want {
		t.Fatalf("Read() = %d, want %d (wrapped)", got, want)
	}
}

func TestIntBankOutOfRange(t *testing.T) {
	bank := NewIntBank(2)
	if _, err := bank.Read(5); err == nil {
		t.Fatal("expected BadIndex error")
	}
	if err := bank.Write(-1, 0); err == nil {
		t.Fatal("expected BadIndex error")
	}
}

func TestBitWidthViewsShareStorage(t *testing.T) {
	bank := NewIntBank(1)
	// Two 16-bit slots share cell 0: slot 0 is the low half, slot 1 the high.
	if err := bank.WriteWidth(16, 0, 0x1234); err != nil {
		t.Fatalf("WriteWidth: %v", err)
	}
	if err := bank.WriteWidth(16, 1, 0x5678); err != nil {
		t.Fatalf("WriteWidth: %v", err)
	}
	full, _ := bank.Read(0)
	if uint32(full) != 0x56781234 {
		t.Fatalf("combined cell = %#x, want 0x56781234", uint32(full))
	}
	lo, _ := bank.ReadWidth(16, 0)
	hi, _ := bank.ReadWidth(16, 1)
	if lo != 0x1234 || hi != 0x5678 {
		t.Fatalf("ReadWidth() = %#x, %#x, want 0x1234, 0x5678", lo, hi)
	}
}

func TestStrBankReadWrite(t *testing.T) {
	bank := NewStrBank(2)
	if err := bank.Write(1, "hello"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := bank.Read(1)
	if err != nil || got != "hello" {
		t.Fatalf("Read() = %q, %v, want hello, nil", got, err)
	}
}
