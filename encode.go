package veil

import (
	"strings"
	"unicode/utf8"
)

// Encode returns base followed by one selector per payload byte.
//
// The result renders as base alone. base is written as given, including
// a base that is itself a selector; invalid runes are written as
// utf8.RuneError, following Go's string conversion rules.
func Encode(base rune, payload []byte) string {
	var sb strings.Builder
	sb.Grow(utf8.UTFMax * (len(payload) + 1))
	sb.WriteRune(base)
	for _, b := range payload {
		sb.WriteRune(rune(SelectorFor(b)))
	}
	return sb.String()
}

// EncodeRunes is Encode over runes. base is kept verbatim.
func EncodeRunes(base rune, payload []byte) []rune {
	out := make([]rune, 0, len(payload)+1)
	out = append(out, base)
	for _, b := range payload {
		out = append(out, rune(SelectorFor(b)))
	}
	return out
}

// AppendEncoded appends the UTF-8 form of Encode(base, payload) to dst.
func AppendEncoded(dst []byte, base rune, payload []byte) []byte {
	dst = utf8.AppendRune(dst, base)
	for _, b := range payload {
		dst = utf8.AppendRune(dst, rune(SelectorFor(b)))
	}
	return dst
}
