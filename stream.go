package veil

import (
	"bufio"
	"io"
	"unicode/utf8"
)

// Writer hides everything written to it behind a base rune.
//
// The base is emitted once, ahead of the first selector. Close emits the
// base on its own when nothing was written, so an empty payload still
// produces a one-rune sequence. A Writer is not safe for concurrent use.
type Writer struct {
	w       io.Writer
	base    rune
	started bool
	buf     []byte
	err     error
}

// NewWriter returns a Writer that encodes onto w behind base.
func NewWriter(w io.Writer, base rune) *Writer {
	return &Writer{w: w, base: base}
}

// Write encodes p and writes the selectors to the underlying writer.
// It reports the number of payload bytes consumed.
func (w *Writer) Write(p []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	if len(p) == 0 {
		return 0, nil
	}

	w.buf = w.buf[:0]
	if !w.started {
		w.buf = AppendEncoded(w.buf, w.base, p)
	} else {
		for _, b := range p {
			w.buf = utf8.AppendRune(w.buf, rune(SelectorFor(b)))
		}
	}

	if _, err := w.w.Write(w.buf); err != nil {
		w.err = err
		return 0, err
	}
	w.started = true
	return len(p), nil
}

// Close flushes the base if nothing has been written yet.
// It does not close the underlying writer.
func (w *Writer) Close() error {
	if w.err != nil {
		return w.err
	}
	if w.started {
		return nil
	}
	if _, err := w.w.Write(utf8.AppendRune(nil, w.base)); err != nil {
		w.err = err
		return err
	}
	w.started = true
	return nil
}

// Reader yields the payload hidden in an encoded stream.
// Runes that are not selectors, including malformed UTF-8, are skipped.
type Reader struct {
	r   *bufio.Reader
	err error
}

// NewReader returns a Reader decoding from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Read fills p with decoded payload bytes.
// It returns once p is full or no more input is buffered.
func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	n := 0
	for n < len(p) && r.err == nil {
		if n > 0 && r.r.Buffered() == 0 {
			break
		}
		ru, _, err := r.r.ReadRune()
		if err != nil {
			r.err = err
			break
		}
		if b, ok := ByteOf(ru); ok {
			p[n] = b
			n++
		}
	}

	if n > 0 {
		return n, nil
	}
	return 0, r.err
}
