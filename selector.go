package veil

import (
	"fmt"
	"unicode/utf8"
)

// Variation selector ranges. Bytes 0-15 map onto the low range
// (VS1-VS16) and bytes 16-255 onto the high range (VS17-VS256).
const (
	LowFirst  Selector = 0xFE00
	LowLast   Selector = 0xFE0F
	HighFirst Selector = 0xE0100
	HighLast  Selector = 0xE01EF

	// LowSpan is the number of byte values carried by the low range.
	LowSpan = 16
)

// Selector is a variation selector code point carrying exactly one byte.
type Selector rune

// SelectorFor returns the selector that carries b.
// Every byte has exactly one selector and no two bytes share one.
func SelectorFor(b byte) Selector {
	if b < LowSpan {
		return LowFirst + Selector(b)
	}
	return HighFirst + Selector(b-LowSpan)
}

// ByteOf returns the byte carried by r.
// The second result is false when r is not a variation selector.
func ByteOf(r rune) (byte, bool) {
	switch s := Selector(r); {
	case s >= LowFirst && s <= LowLast:
		return byte(s - LowFirst), true
	case s >= HighFirst && s <= HighLast:
		return byte(s-HighFirst) + LowSpan, true
	default:
		return 0, false
	}
}

// IsSelector reports whether r lies in either selector range.
func IsSelector(r rune) bool {
	_, ok := ByteOf(r)
	return ok
}

// Byte returns the byte carried by s.
func (s Selector) Byte() (byte, bool) {
	return ByteOf(rune(s))
}

// Valid reports whether s lies in either selector range.
func (s Selector) Valid() bool {
	return IsSelector(rune(s))
}

// String renders s in U+XXXX notation.
func (s Selector) String() string {
	return fmt.Sprintf("U+%04X", rune(s))
}

// CheckBase reports whether r can carry a payload that decodes back
// unchanged: r must be a valid scalar other than U+FFFD and must not
// itself be a selector. Failures wrap ErrInvalidBase.
func CheckBase(r rune) error {
	if r == utf8.RuneError || !utf8.ValidRune(r) || IsSelector(r) {
		return fmt.Errorf("%w: %U", ErrInvalidBase, r)
	}
	return nil
}

// ParseBase parses s as a single base character and checks it with
// CheckBase.
func ParseBase(s string) (rune, error) {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) {
		return 0, fmt.Errorf("%w: %q is not a single character", ErrInvalidBase, s)
	}
	if err := CheckBase(r); err != nil {
		return 0, err
	}
	return r, nil
}
