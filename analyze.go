package veil

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Stats describes an encoded sequence.
type Stats struct {
	// Scalars is the number of Unicode scalar values.
	Scalars int
	// Selectors is the number of scalars that carry a byte.
	Selectors int
	// Bytes is the UTF-8 storage size. It measures overhead only and
	// cannot be used to recover Scalars.
	Bytes int
	// Glyphs is the number of user-perceived characters
	// (extended grapheme clusters).
	Glyphs int
}

// Overhead returns storage bytes per hidden byte, or 0 when nothing is hidden.
func (s Stats) Overhead() float64 {
	if s.Selectors == 0 {
		return 0
	}
	return float64(s.Bytes) / float64(s.Selectors)
}

// Analyze counts the scalars, selectors, storage bytes and glyphs of s.
// Selectors always equals len(Decode(s)).
func Analyze(s string) Stats {
	st := Stats{
		Bytes:  len(s),
		Glyphs: uniseg.GraphemeClusterCount(s),
	}
	for _, r := range s {
		st.Scalars++
		if IsSelector(r) {
			st.Selectors++
		}
	}
	return st
}

// AnalyzeRunes is Analyze over runes.
// Bytes counts the UTF-8 encoding of rs, with invalid runes as utf8.RuneError.
func AnalyzeRunes(rs []rune) Stats {
	st := Stats{
		Scalars: len(rs),
		Glyphs:  uniseg.GraphemeClusterCount(string(rs)),
	}
	for _, r := range rs {
		if IsSelector(r) {
			st.Selectors++
		}
		n := utf8.RuneLen(r)
		if n < 0 {
			n = utf8.RuneLen(utf8.RuneError)
		}
		st.Bytes += n
	}
	return st
}
