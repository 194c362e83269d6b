package conv

import (
	"math"
	"testing"
)

func TestIntToUint32(t *testing.T) {
	if got := IntToUint32(42); got != 42 {
		t.Errorf("IntToUint32(42) = %d, want 42", got)
	}
	if got := IntToUint32(math.MaxUint32); got != math.MaxUint32 {
		t.Errorf("IntToUint32(MaxUint32) = %d, want %d", got, uint32(math.MaxUint32))
	}
}

func TestIntToUint32_Overflow(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("IntToUint32(-1) did not panic")
		}
	}()
	IntToUint32(-1)
}

func TestIntToUint16(t *testing.T) {
	if got := IntToUint16(7); got != 7 {
		t.Errorf("IntToUint16(7) = %d, want 7", got)
	}
}

func TestIntToUint16_Overflow(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("IntToUint16(math.MaxUint16+1) did not panic")
		}
	}()
	IntToUint16(math.MaxUint16 + 1)
}

func TestIntToUint64(t *testing.T) {
	if got := IntToUint64(1024); got != 1024 {
		t.Errorf("IntToUint64(1024) = %d, want 1024", got)
	}
}

func TestIntToUint64_Overflow(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("IntToUint64(-1) did not panic")
		}
	}()
	IntToUint64(-1)
}
