package veil

import "unicode/utf8"

// Decode extracts the payload hidden in s.
//
// Every selector in s contributes its byte, in order of appearance, and
// every other rune is skipped. Decoding is not anchored to a base: text
// with no base, several concatenated encodings, or ordinary emoji
// variation sequences all yield bytes. Invalid UTF-8 is skipped.
// The result is never nil.
func Decode(s string) []byte {
	out := make([]byte, 0, len(s)/4)
	for _, r := range s {
		if b, ok := ByteOf(r); ok {
			out = append(out, b)
		}
	}
	return out
}

// DecodeRunes is Decode over runes.
func DecodeRunes(rs []rune) []byte {
	out := make([]byte, 0, len(rs))
	for _, r := range rs {
		if b, ok := ByteOf(r); ok {
			out = append(out, b)
		}
	}
	return out
}

// DecodeBytes is Decode over raw UTF-8 text.
func DecodeBytes(text []byte) []byte {
	out := make([]byte, 0, len(text)/4)
	for len(text) > 0 {
		r, size := utf8.DecodeRune(text)
		if b, ok := ByteOf(r); ok {
			out = append(out, b)
		}
		text = text[size:]
	}
	return out
}
