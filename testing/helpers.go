// Package testing provides test utilities for veil.
package testing

import (
	"testing"

	"github.com/zoobzio/veil"
)

// TestKey returns a valid 32-byte XChaCha20 key for testing.
func TestKey(tb testing.TB) []byte {
	tb.Helper()
	return []byte("32-byte-key-for-xchacha20-veil!!")
}

// TestEncryptor returns an XChaCha20 encryptor configured for testing.
func TestEncryptor(tb testing.TB) veil.Encryptor {
	tb.Helper()
	enc, err := veil.XChaCha20(TestKey(tb))
	if err != nil {
		tb.Fatalf("XChaCha20() error: %v", err)
	}
	return enc
}

// Payload is a named payload for table-driven round trips.
type Payload struct {
	Name string
	Data []byte
}

// Payloads returns payloads covering both selector ranges and their edges.
func Payloads() []Payload {
	all := make([]byte, 256)
	for i := range all {
		all[i] = byte(i)
	}
	return []Payload{
		{Name: "empty", Data: []byte{}},
		{Name: "hello", Data: []byte("hello")},
		{Name: "low range", Data: []byte{0x00, 0x07, 0x0f}},
		{Name: "range edges", Data: []byte{0x0f, 0x10, 0xfe, 0xff}},
		{Name: "utf8 text", Data: []byte("héllo wörld 🧁")},
		{Name: "all bytes", Data: all},
	}
}

// PlainNote is a test type with no veil tags.
type PlainNote struct {
	ID   string `json:"id" yaml:"id" bson:"id"`
	Body string `json:"body" yaml:"body" bson:"body"`
}

// Clone implements Cloner[PlainNote].
func (n PlainNote) Clone() PlainNote { return n }

// HiddenNote is a test type demonstrating veil tags.
type HiddenNote struct {
	ID     string   `json:"id" yaml:"id" bson:"id"`
	Body   string   `json:"body" yaml:"body" bson:"body" veil.hide:"🧁"`
	Secret string   `json:"secret" yaml:"secret" bson:"secret" veil.hide:"🔒" veil.seal:"xchacha20"`
	Tags   []string `json:"tags" yaml:"tags" bson:"tags" veil.hide:"🔖"`
}

// Clone implements Cloner[HiddenNote].
func (n HiddenNote) Clone() HiddenNote {
	clone := HiddenNote{ID: n.ID, Body: n.Body, Secret: n.Secret}
	if n.Tags != nil {
		clone.Tags = make([]string, len(n.Tags))
		copy(clone.Tags, n.Tags)
	}
	return clone
}
