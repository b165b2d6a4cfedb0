package xml

import (
	"bytes"
	"context"
	"encoding/xml"
	"testing"

	"github.com/zoobzio/veil"
)

type note struct {
	XMLName xml.Name `xml:"note"`
	ID      string   `xml:"id,attr"`
	Body    string   `xml:"body" veil.hide:"🧁"`
	Tags    []string `xml:"tag" veil.hide:"🔖"`
}

func (n note) Clone() note {
	tags := make([]string, len(n.Tags))
	copy(tags, n.Tags)
	return note{XMLName: n.XMLName, ID: n.ID, Body: n.Body, Tags: tags}
}

func TestNew(t *testing.T) {
	c := New()
	if c == nil {
		t.Error("New() should return non-nil codec")
	}
}

func TestContentType(t *testing.T) {
	c := New()
	if c.ContentType() != "application/xml" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/xml")
	}
}

func TestMarshalHeader(t *testing.T) {
	c := New()

	data, err := c.Marshal(note{ID: "1", Body: "x"})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte(xml.Header)) {
		t.Errorf("Marshal() missing XML header: %q", data)
	}
}

func TestMarshalNil(t *testing.T) {
	c := New()

	data, err := c.Marshal(nil)
	if err != nil {
		t.Fatalf("Marshal(nil) error: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("Marshal(nil) = %q, want empty", data)
	}
}

func TestSelectorsWrittenUnescaped(t *testing.T) {
	c := New()
	hidden := veil.Encode('🧁', []byte{0x00, 0x0F, 0x10, 0xFF})

	data, err := c.Marshal(note{ID: "1", Body: hidden})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if !bytes.Contains(data, []byte(hidden)) {
		t.Errorf("Marshal() altered hidden text: %q", data)
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
	if err := c.Unmarshal([]byte("not xml at all {{{"), &v); err == nil {
		t.Error("Unmarshal(invalid) should return error")
	}
}

func TestProcessor_ConcealReveal(t *testing.T) {
	proc, err := veil.NewProcessor[note](New())
	if err != nil {
		t.Fatalf("NewProcessor() error: %v", err)
	}

	original := &note{ID: "7", Body: "the body", Tags: []string{"a", "b"}}
	text, err := proc.Conceal(context.Background(), '📄', original)
	if err != nil {
		t.Fatalf("Conceal() error: %v", err)
	}
	if st := veil.Analyze(text); st.Glyphs != 1 {
		t.Errorf("Conceal() renders as %d glyphs, want 1", st.Glyphs)
	}

	restored, err := proc.Reveal(context.Background(), text)
	if err != nil {
		t.Fatalf("Reveal() error: %v", err)
	}
	if restored.ID != "7" || restored.Body != "the body" {
		t.Errorf("Reveal() = %+v", restored)
	}
	if len(restored.Tags) != 2 || restored.Tags[0] != "a" || restored.Tags[1] != "b" {
		t.Errorf("Tags = %v, want [a b]", restored.Tags)
	}
}
