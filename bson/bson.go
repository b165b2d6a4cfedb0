// Package bson provides a BSON codec for veil processors.
package bson

import (
	"fmt"

	"github.com/zoobzio/veil"
	"go.mongodb.org/mongo-driver/bson"
)

// bsonCodec implements veil.Codec for BSON.
// Hidden []byte fields travel as BSON binary and hidden strings as
// UTF-8 strings, so selectors survive unchanged.
type bsonCodec struct{}

// New returns a BSON codec.
func New() veil.Codec {
	return &bsonCodec{}
}

// ContentType returns the MIME type for BSON.
func (c *bsonCodec) ContentType() string {
	return "application/bson"
}

// Marshal encodes v as a BSON document.
// A nil value encodes as the empty document, since BSON has no
// top-level null.
func (c *bsonCodec) Marshal(v any) ([]byte, error) {
	if v == nil {
		return bson.Marshal(bson.D{})
	}
	return bson.Marshal(v)
}

// Unmarshal decodes a BSON document into v.
// Malformed documents are rejected before decoding starts.
func (c *bsonCodec) Unmarshal(data []byte, v any) error {
	if err := bson.Raw(data).Validate(); err != nil {
		return fmt.Errorf("bson: malformed document: %w", err)
	}
	return bson.Unmarshal(data, v)
}
