package veil

// Override interfaces allow types to bypass reflection-based processing.
// When a type implements one of these interfaces, the Processor calls the
// interface method instead of walking veil.hide and veil.seal tags.

// Hideable bypasses reflection on Write and Conceal.
type Hideable interface {
	// Hide replaces the receiver's fields with their hidden form.
	// The encryptors map contains all registered encryptors keyed by algorithm.
	// The receiver is a clone, so mutations are safe.
	Hide(encryptors map[EncryptAlgo]Encryptor) error
}

// Revealable bypasses reflection on Read and Reveal.
type Revealable interface {
	// Reveal restores the receiver's hidden fields.
	// Called on freshly unmarshaled data.
	Reveal(encryptors map[EncryptAlgo]Encryptor) error
}
