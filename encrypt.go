package veil

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20"
)

// Encryption errors.
var (
	ErrInvalidKeySize  = errors.New("invalid key size")
	ErrCiphertextShort = errors.New("ciphertext too short")
)

// Encryptor handles encryption/decryption of hidden payloads.
//
// The built-in encryptors are stream ciphers without authentication:
// a tampered ciphertext decrypts to garbage instead of failing.
type Encryptor interface {
	// Encrypt encrypts plaintext and returns ciphertext.
	Encrypt(plaintext []byte) ([]byte, error)

	// Decrypt decrypts ciphertext and returns plaintext.
	Decrypt(ciphertext []byte) ([]byte, error)
}

// xchachaEncryptor implements XChaCha20 encryption.
type xchachaEncryptor struct {
	key []byte
}

// XChaCha20 returns an XChaCha20 encryptor. Key must be 32 bytes.
// Each message carries a random 24-byte nonce prefix.
func XChaCha20(key []byte) (Encryptor, error) {
	if len(key) != chacha20.KeySize {
		return nil, fmt.Errorf("%w: must be %d bytes, got %d", ErrInvalidKeySize, chacha20.KeySize, len(key))
	}
	return &xchachaEncryptor{key: append([]byte(nil), key...)}, nil
}

func (e *xchachaEncryptor) Encrypt(plaintext []byte) ([]byte, error) {
	out := make([]byte, chacha20.NonceSizeX+len(plaintext))
	nonce := out[:chacha20.NonceSizeX]
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	c, err := chacha20.NewUnauthenticatedCipher(e.key, nonce)
	if err != nil {
		return nil, err
	}
	c.XORKeyStream(out[chacha20.NonceSizeX:], plaintext)
	return out, nil
}

func (e *xchachaEncryptor) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < chacha20.NonceSizeX {
		return nil, ErrCiphertextShort
	}

	nonce, body := ciphertext[:chacha20.NonceSizeX], ciphertext[chacha20.NonceSizeX:]
	c, err := chacha20.NewUnauthenticatedCipher(e.key, nonce)
	if err != nil {
		return nil, err
	}
	plaintext := make([]byte, len(body))
	c.XORKeyStream(plaintext, body)
	return plaintext, nil
}

// aesCTREncryptor implements AES-CTR encryption.
type aesCTREncryptor struct {
	block cipher.Block
}

// AESCTR returns an AES-CTR encryptor.
// Key must be 16, 24, or 32 bytes for AES-128, AES-192, or AES-256.
func AESCTR(key []byte) (Encryptor, error) {
	if len(key) != 16 && len(key) != 24 && len(key) != 32 {
		return nil, fmt.Errorf("%w: must be 16, 24, or 32 bytes, got %d", ErrInvalidKeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return &aesCTREncryptor{block: block}, nil
}

func (e *aesCTREncryptor) Encrypt(plaintext []byte) ([]byte, error) {
	out := make([]byte, aes.BlockSize+len(plaintext))
	iv := out[:aes.BlockSize]
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, err
	}

	// Prepend IV to ciphertext
	cipher.NewCTR(e.block, iv).XORKeyStream(out[aes.BlockSize:], plaintext)
	return out, nil
}

func (e *aesCTREncryptor) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < aes.BlockSize {
		return nil, ErrCiphertextShort
	}

	iv, body := ciphertext[:aes.BlockSize], ciphertext[aes.BlockSize:]
	plaintext := make([]byte, len(body))
	cipher.NewCTR(e.block, iv).XORKeyStream(plaintext, body)
	return plaintext, nil
}

// KeyParams configures Argon2id key derivation for Passphrase.
type KeyParams struct {
	Time    uint32 // Number of iterations
	Memory  uint32 // Memory usage in KiB
	Threads uint8  // Parallelism factor
	SaltLen uint32 // Salt length
}

// DefaultKeyParams returns recommended Argon2id parameters.
func DefaultKeyParams() KeyParams {
	return KeyParams{
		Time:    1,
		Memory:  64 * 1024, // 64 MiB
		Threads: 4,
		SaltLen: 16,
	}
}

// validate rejects parameters Argon2id cannot run with and an empty salt.
func (k KeyParams) validate(algo EncryptAlgo) error {
	switch {
	case k.Time < 1:
		return newConfigError(ErrInvalidKey, string(algo), "Time")
	case k.Threads < 1:
		return newConfigError(ErrInvalidKey, string(algo), "Threads")
	case k.SaltLen == 0:
		return newConfigError(ErrInvalidKey, string(algo), "SaltLen")
	}
	return nil
}

// passphraseEncryptor derives a fresh key per message from a passphrase.
type passphraseEncryptor struct {
	passphrase []byte
	algo       EncryptAlgo
	params     KeyParams
}

// Passphrase returns an encryptor keyed by a passphrase.
// Each message carries a random salt prefix; the key is derived with
// Argon2id and handed to the cipher selected by algo.
func Passphrase(passphrase []byte, algo EncryptAlgo) (Encryptor, error) {
	return PassphraseWithParams(passphrase, algo, DefaultKeyParams())
}

// PassphraseWithParams is Passphrase with custom Argon2id parameters.
func PassphraseWithParams(passphrase []byte, algo EncryptAlgo, params KeyParams) (Encryptor, error) {
	if len(passphrase) == 0 {
		return nil, fmt.Errorf("%w: empty passphrase", ErrInvalidKey)
	}
	if !IsValidEncryptAlgo(algo) {
		return nil, newConfigError(ErrUnknownAlgorithm, string(algo), "")
	}
	if err := params.validate(algo); err != nil {
		return nil, err
	}
	return &passphraseEncryptor{
		passphrase: append([]byte(nil), passphrase...),
		algo:       algo,
		params:     params,
	}, nil
}

func (e *passphraseEncryptor) cipherFor(salt []byte) (Encryptor, error) {
	switch e.algo {
	case EncryptAESCTR:
		return AESCTR(argon2.IDKey(e.passphrase, salt, e.params.Time, e.params.Memory, e.params.Threads, 32))
	default:
		return XChaCha20(argon2.IDKey(e.passphrase, salt, e.params.Time, e.params.Memory, e.params.Threads, chacha20.KeySize))
	}
}

func (e *passphraseEncryptor) Encrypt(plaintext []byte) ([]byte, error) {
	salt := make([]byte, e.params.SaltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	enc, err := e.cipherFor(salt)
	if err != nil {
		return nil, err
	}
	ciphertext, err := enc.Encrypt(plaintext)
	if err != nil {
		return nil, err
	}
	return append(salt, ciphertext...), nil
}

func (e *passphraseEncryptor) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < int(e.params.SaltLen) {
		return nil, ErrCiphertextShort
	}

	salt, body := ciphertext[:e.params.SaltLen], ciphertext[e.params.SaltLen:]
	enc, err := e.cipherFor(salt)
	if err != nil {
		return nil, err
	}
	return enc.Decrypt(body)
}
