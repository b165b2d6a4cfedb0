package veil

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
)

func TestWriter_MatchesEncode(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, '🧁')

	for _, chunk := range []string{"he", "", "llo", " world"} {
		n, err := w.Write([]byte(chunk))
		if err != nil {
			t.Fatalf("Write(%q) error: %v", chunk, err)
		}
		if n != len(chunk) {
			t.Errorf("Write(%q) = %d, want %d", chunk, n, len(chunk))
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	if want := Encode('🧁', []byte("hello world")); buf.String() != want {
		t.Errorf("Writer output = %q, want %q", buf.String(), want)
	}
}

func TestWriter_CloseEmpty(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, 'x')
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close() error: %v", err)
	}
	if buf.String() != "x" {
		t.Errorf("output = %q, want %q", buf.String(), "x")
	}
}

type failingWriter struct{ err error }

func (f failingWriter) Write([]byte) (int, error) { return 0, f.err }

func TestWriter_StickyError(t *testing.T) {
	boom := errors.New("boom")
	w := NewWriter(failingWriter{err: boom}, 'x')

	if _, err := w.Write([]byte("a")); !errors.Is(err, boom) {
		t.Fatalf("Write() error = %v, want %v", err, boom)
	}
	if _, err := w.Write([]byte("b")); !errors.Is(err, boom) {
		t.Errorf("second Write() error = %v, want %v", err, boom)
	}
	if err := w.Close(); !errors.Is(err, boom) {
		t.Errorf("Close() error = %v, want %v", err, boom)
	}
}

func TestReader_MatchesDecode(t *testing.T) {
	text := "noise " + Encode('🧁', []byte("stream payload")) + " more noise"

	got, err := io.ReadAll(NewReader(strings.NewReader(text)))
	if err != nil {
		t.Fatalf("ReadAll() error: %v", err)
	}
	if !bytes.Equal(got, Decode(text)) {
		t.Errorf("Reader = %q, want %q", got, Decode(text))
	}
}

func TestReader_OneByteReads(t *testing.T) {
	payload := make([]byte, 256)
	for i := range payload {
		payload[i] = byte(i)
	}
	text := Encode('a', payload)

	got, err := io.ReadAll(NewReader(iotest.OneByteReader(strings.NewReader(text))))
	if err != nil {
		t.Fatalf("ReadAll() error: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("Reader = %v, want %v", got, payload)
	}
}

func TestReader_Error(t *testing.T) {
	boom := errors.New("boom")
	r := NewReader(iotest.ErrReader(boom))

	if _, err := r.Read(make([]byte, 4)); !errors.Is(err, boom) {
		t.Errorf("Read() error = %v, want %v", err, boom)
	}
}

func TestReader_NoPayload(t *testing.T) {
	got, err := io.ReadAll(NewReader(strings.NewReader("just text")))
	if err != nil {
		t.Fatalf("ReadAll() error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Reader = %q, want empty", got)
	}
}

func TestWriterReader_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, '📦')
	if _, err := io.Copy(w, strings.NewReader("copied through the stream")); err != nil {
		t.Fatalf("Copy() error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	got, err := io.ReadAll(NewReader(&buf))
	if err != nil {
		t.Fatalf("ReadAll() error: %v", err)
	}
	if string(got) != "copied through the stream" {
		t.Errorf("round trip = %q", got)
	}
}
