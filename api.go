// Package veil hides arbitrary bytes inside Unicode variation selectors.
//
// Every byte maps onto one invisible variation selector. Appending the
// selectors to a visible base character yields text that renders as that
// single character while carrying the payload.
//
// # Selector Ranges
//
//	bytes 0-15    U+FE00  - U+FE0F   (VS1-VS16)
//	bytes 16-255  U+E0100 - U+E01EF  (VS17-VS256)
//
// # Codec
//
//	text := veil.Encode('🧁', []byte("hello"))  // renders as 🧁
//	data := veil.Decode(text)                     // "hello"
//	st := veil.Analyze(text)                      // 6 scalars, 5 selectors, 24 bytes, 1 glyph
//
// Decode is not anchored to a base character: it extracts every selector
// found anywhere in its input, including legitimate emoji variation
// sequences such as U+2764 U+FE0F.
//
// Streaming variants are available as Writer and Reader.
//
// # Processor
//
// A Processor marshals Go values with a format Codec and hides tagged
// fields behind base glyphs:
//
//	type Note struct {
//	    ID     string `json:"id"`
//	    Body   string `json:"body" veil.hide:"🧁"`
//	    Secret string `json:"secret" veil.hide:"🔒" veil.seal:"xchacha20"`
//	}
//
//	func (n Note) Clone() Note { return n }
//
//	proc, _ := veil.NewProcessor[Note](json.New(),
//	    veil.WithEncryptor(veil.EncryptXChaCha20, enc),
//	)
//
//	data, _ := proc.Write(ctx, &note)       // body and secret render as one glyph each
//	note2, _ := proc.Read(ctx, data)        // fields restored
//
//	text, _ := proc.Conceal(ctx, '🎁', &note) // whole document behind 🎁
//	note3, _ := proc.Reveal(ctx, text)
//
// # Codec Providers
//
// The following codec implementations are available as submodules:
//
//   - json - JSON encoding (application/json)
//   - xml - XML encoding (application/xml)
//   - yaml - YAML encoding (application/yaml)
//   - msgpack - MessagePack encoding (application/msgpack)
//   - bson - BSON encoding (application/bson)
//
// # Sealing
//
// Built-in encryptors are unauthenticated stream ciphers; veil provides
// no integrity check of hidden payloads.
//
//   - XChaCha20(key) - XChaCha20 keystream, random nonce per message
//   - AESCTR(key) - AES-CTR, random IV per message
//   - Passphrase(pass, algo) - Argon2id-derived key, random salt per message
package veil

// Codec provides content-type aware marshaling.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}
