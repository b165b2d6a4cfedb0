package json

import (
	"bytes"
	"context"
	"testing"

	"github.com/zoobzio/veil"
)

type note struct {
	ID   string `json:"id"`
	Body string `json:"body" veil.hide:"🧁"`
	Link string `json:"link"`
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
	if c.ContentType() != "application/json" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/json")
	}
}

func TestMarshalKeepsSelectorsVerbatim(t *testing.T) {
	c := New()
	hidden := veil.Encode('🧁', []byte("hello"))

	data, err := c.Marshal(map[string]string{"v": hidden, "h": "<a>&"})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if !bytes.Contains(data, []byte(hidden)) {
		t.Errorf("Marshal() escaped hidden text: %q", data)
	}
	if !bytes.Contains(data, []byte("<a>&")) {
		t.Errorf("Marshal() escaped HTML characters: %q", data)
	}
	if bytes.HasSuffix(data, []byte("\n")) {
		t.Error("Marshal() should not end with a newline")
	}
}

func TestMarshalNil(t *testing.T) {
	c := New()

	data, err := c.Marshal(nil)
	if err != nil {
		t.Fatalf("Marshal(nil) error: %v", err)
	}
	if string(data) != "null" {
		t.Errorf("Marshal(nil) = %q, want %q", data, "null")
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	c := New()

	var v struct{}
	if err := c.Unmarshal([]byte("invalid json"), &v); err == nil {
		t.Error("Unmarshal(invalid) should return error")
	}
}

func TestProcessor_WriteRead(t *testing.T) {
	proc, err := veil.NewProcessor[note](New())
	if err != nil {
		t.Fatalf("NewProcessor() error: %v", err)
	}

	original := &note{ID: "1", Body: "meet at noon", Link: "https://example.com/?a=1&b=2"}
	data, err := proc.Write(context.Background(), original)
	if err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if bytes.Contains(data, []byte("meet at noon")) {
		t.Errorf("Write() left body visible: %s", data)
	}

	restored, err := proc.Read(context.Background(), data)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if *restored != *original {
		t.Errorf("round-trip = %+v, want %+v", *restored, *original)
	}
}
