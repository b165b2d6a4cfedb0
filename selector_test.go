package veil

import (
	"errors"
	"testing"
)

func TestSelectorFor_Boundaries(t *testing.T) {
	tests := []struct {
		b    byte
		want Selector
	}{
		{0, 0xFE00},
		{15, 0xFE0F},
		{16, 0xE0100},
		{17, 0xE0101},
		{255, 0xE01EF},
	}

	for _, tt := range tests {
		if got := SelectorFor(tt.b); got != tt.want {
			t.Errorf("SelectorFor(%d) = %v, want %v", tt.b, got, tt.want)
		}
	}
}

func TestSelectorFor_Bijection(t *testing.T) {
	seen := make(map[Selector]byte, 256)
	for i := 0; i < 256; i++ {
		s := SelectorFor(byte(i))
		if !s.Valid() {
			t.Fatalf("SelectorFor(%d) = %v is not a selector", i, s)
		}
		if prev, dup := seen[s]; dup {
			t.Fatalf("SelectorFor(%d) and SelectorFor(%d) both map to %v", prev, i, s)
		}
		seen[s] = byte(i)

		b, ok := ByteOf(rune(s))
		if !ok || b != byte(i) {
			t.Errorf("ByteOf(%v) = %d, %v; want %d, true", s, b, ok, i)
		}
	}
}

func TestByteOf_NonSelectors(t *testing.T) {
	for _, r := range []rune{
		0, 'a', 0xFDFF, 0xFE10, 0xFEFF, 0xE00FF, 0xE01F0, 0x10FFFF, '🧁',
	} {
		if b, ok := ByteOf(r); ok {
			t.Errorf("ByteOf(%U) = %d, true; want false", r, b)
		}
		if IsSelector(r) {
			t.Errorf("IsSelector(%U) = true", r)
		}
	}
}

func TestSelector_Byte(t *testing.T) {
	b, ok := Selector(0xE0101).Byte()
	if !ok || b != 17 {
		t.Errorf("Byte() = %d, %v; want 17, true", b, ok)
	}

	if _, ok := Selector('x').Byte(); ok {
		t.Error("Byte() on non-selector should report false")
	}
}

func TestSelector_String(t *testing.T) {
	if got := SelectorFor(0).String(); got != "U+FE00" {
		t.Errorf("String() = %q, want U+FE00", got)
	}
	if got := SelectorFor(255).String(); got != "U+E01EF" {
		t.Errorf("String() = %q, want U+E01EF", got)
	}
}

func TestCheckBase(t *testing.T) {
	for _, r := range []rune{'a', '🧁', 0xFDFF, 0xFE10, 0xE01F0} {
		if err := CheckBase(r); err != nil {
			t.Errorf("CheckBase(%U) error: %v", r, err)
		}
	}
	for _, r := range []rune{0xFE00, 0xFE0F, 0xE0100, 0xE01EF, 0xFFFD, 0xD800, -1, 0x110000} {
		if err := CheckBase(r); !errors.Is(err, ErrInvalidBase) {
			t.Errorf("CheckBase(%U) error = %v, want ErrInvalidBase", r, err)
		}
	}
}

func TestParseBase(t *testing.T) {
	if r, err := ParseBase("🧁"); err != nil || r != '🧁' {
		t.Errorf("ParseBase(cupcake) = %U, %v", r, err)
	}
	for _, s := range []string{"", "ab", "\ufe0f", "\U000E0100", "\xff"} {
		if _, err := ParseBase(s); !errors.Is(err, ErrInvalidBase) {
			t.Errorf("ParseBase(%q) error = %v, want ErrInvalidBase", s, err)
		}
	}
}
