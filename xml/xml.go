// Package xml provides an XML codec implementation.
package xml

import (
	"encoding/xml"

	"github.com/zoobzio/veil"
)

// xmlCodec implements veil.Codec for XML.
// Both selector ranges lie inside the XML 1.0 Char production, so
// hidden text is written unescaped.
type xmlCodec struct{}

// New returns an XML codec.
func New() veil.Codec {
	return &xmlCodec{}
}

// ContentType returns the MIME type for XML.
func (c *xmlCodec) ContentType() string {
	return "application/xml"
}

// Marshal encodes v as an XML document with a standard header.
func (c *xmlCodec) Marshal(v any) ([]byte, error) {
	body, err := xml.Marshal(v)
	if err != nil || len(body) == 0 {
		return body, err
	}
	return append([]byte(xml.Header), body...), nil
}

// Unmarshal decodes XML data into v.
func (c *xmlCodec) Unmarshal(data []byte, v any) error {
	return xml.Unmarshal(data, v)
}
