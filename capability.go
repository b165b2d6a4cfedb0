package veil

// EncryptAlgo represents a supported cipher for sealing hidden payloads.
// Use these constants in struct tags: `veil.seal:"xchacha20"`
type EncryptAlgo string

const (
	// EncryptXChaCha20 uses the XChaCha20 stream cipher.
	EncryptXChaCha20 EncryptAlgo = "xchacha20"

	// EncryptAESCTR uses AES in counter mode.
	EncryptAESCTR EncryptAlgo = "aes-ctr"
)

// validEncryptAlgos contains all valid encryption algorithms for tag validation.
var validEncryptAlgos = map[EncryptAlgo]bool{
	EncryptXChaCha20: true,
	EncryptAESCTR:    true,
}

// IsValidEncryptAlgo returns true if the algorithm is a known encryption algorithm.
func IsValidEncryptAlgo(algo EncryptAlgo) bool {
	return validEncryptAlgos[algo]
}
