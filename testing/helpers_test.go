package testing

import (
	"bytes"
	"testing"
)

func TestTestKey(t *testing.T) {
	key := TestKey(t)
	if len(key) != 32 {
		t.Errorf("TestKey() length = %d, want 32", len(key))
	}
}

func TestTestEncryptor(t *testing.T) {
	enc := TestEncryptor(t)
	if enc == nil {
		t.Fatal("TestEncryptor() should not return nil")
	}

	plaintext := []byte("test")
	ciphertext, err := enc.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}

	decrypted, err := enc.Decrypt(ciphertext)
	if err != nil {
		t.Fatalf("Decrypt() error: %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Errorf("round-trip failed")
	}
}

func TestPayloads(t *testing.T) {
	seen := make(map[string]bool)
	for _, p := range Payloads() {
		if seen[p.Name] {
			t.Errorf("duplicate payload name %q", p.Name)
		}
		seen[p.Name] = true
		if p.Data == nil {
			t.Errorf("payload %q has nil data", p.Name)
		}
	}
	if !seen["all bytes"] {
		t.Error("Payloads() should include every byte value")
	}
}

func TestHiddenNote_Clone(t *testing.T) {
	original := HiddenNote{ID: "1", Body: "b", Secret: "s", Tags: []string{"x"}}
	cloned := original.Clone()

	cloned.Tags[0] = "modified"
	if original.Tags[0] != "x" {
		t.Error("Clone() should deep copy Tags")
	}
	if cloned.ID != original.ID || cloned.Body != original.Body || cloned.Secret != original.Secret {
		t.Error("Clone() should copy all fields")
	}
}

func TestPlainNote_Clone(t *testing.T) {
	original := PlainNote{ID: "1", Body: "b"}
	if original.Clone() != original {
		t.Error("Clone() should copy all fields")
	}
}
