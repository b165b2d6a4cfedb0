package bson

import (
	"context"
	"errors"
	"testing"

	"github.com/zoobzio/veil"
)

type note struct {
	ID   string `bson:"id"`
	Body string `bson:"body" veil.hide:"🧁" veil.seal:"aes-ctr"`
}

func (n note) Clone() note { return n }

func TestNew(t *testing.T) {
	c := New()
	if c == nil {
		t.Error("New() should return non-nil codec")
	}
}

func TestContentType(t *testing.T) {
	c := New()
	if c.ContentType() != "application/bson" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/bson")
	}
}

func TestMarshalUnmarshal(t *testing.T) {
	c := New()
	hidden := veil.Encode('🧁', []byte("bson"))

	data, err := c.Marshal(note{ID: "1", Body: hidden})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var restored note
	if err := c.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if restored.Body != hidden {
		t.Errorf("Body = %q, want %q", restored.Body, hidden)
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	c := New()

	var v note
	if err := c.Unmarshal([]byte("invalid bson"), &v); err == nil {
		t.Error("Unmarshal(invalid) should return error")
	}
}

func TestProcessor_SealedField(t *testing.T) {
	enc, err := veil.AESCTR([]byte("16-byte-aes-key!"))
	if err != nil {
		t.Fatalf("AESCTR() error: %v", err)
	}

	proc, err := veil.NewProcessor[note](New(), veil.WithEncryptor(veil.EncryptAESCTR, enc))
	if err != nil {
		t.Fatalf("NewProcessor() error: %v", err)
	}

	data, err := proc.Write(context.Background(), &note{ID: "1", Body: "sealed"})
	if err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	restored, err := proc.Read(context.Background(), data)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if restored.Body != "sealed" {
		t.Errorf("Body = %q, want %q", restored.Body, "sealed")
	}
}

func TestProcessor_MissingEncryptor(t *testing.T) {
	proc, err := veil.NewProcessor[note](New())
	if err != nil {
		t.Fatalf("NewProcessor() error: %v", err)
	}

	_, err = proc.Write(context.Background(), &note{ID: "1", Body: "sealed"})
	if !errors.Is(err, veil.ErrMissingEncryptor) {
		t.Errorf("Write() error = %v, want ErrMissingEncryptor", err)
	}
}

func TestMarshal_Nil(t *testing.T) {
	c := New()
	data, err := c.Marshal(nil)
	if err != nil {
		t.Fatalf("Marshal(nil) error: %v", err)
	}

	var restored note
	if err := c.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if restored != (note{}) {
		t.Errorf("Unmarshal(empty document) = %+v, want zero", restored)
	}
}

func TestUnmarshal_Malformed(t *testing.T) {
	var restored note
	if err := New().Unmarshal([]byte{0x05, 0x00}, &restored); err == nil {
		t.Error("Unmarshal() should reject a malformed document")
	}
}
