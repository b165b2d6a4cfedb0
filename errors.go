package veil

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
//
// The codec itself (Encode, Decode, Analyze) never fails; these errors
// belong to the processor and encryption layers.
var (
	// ErrMissingEncryptor indicates a required encryptor was not registered.
	ErrMissingEncryptor = errors.New("missing encryptor")

	// ErrUnknownAlgorithm indicates an encryption algorithm is not supported.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")

	// ErrInvalidTag indicates a struct tag has an invalid format or value.
	ErrInvalidTag = errors.New("invalid tag")

	// ErrInvalidBase indicates a base rune that cannot carry a payload:
	// not a valid Unicode scalar, or itself a variation selector.
	ErrInvalidBase = errors.New("invalid base")

	// ErrNoPayload indicates the input text carries no hidden bytes.
	ErrNoPayload = errors.New("no hidden payload")

	// ErrUnmarshal indicates the codec failed to unmarshal input data.
	ErrUnmarshal = errors.New("unmarshal failed")

	// ErrMarshal indicates the codec failed to marshal output data.
	ErrMarshal = errors.New("marshal failed")

	// ErrEncrypt indicates sealing a payload failed.
	ErrEncrypt = errors.New("encrypt failed")

	// ErrDecrypt indicates opening a sealed payload failed.
	ErrDecrypt = errors.New("decrypt failed")

	// ErrInvalidKey indicates an encryption key or passphrase is unusable.
	ErrInvalidKey = errors.New("invalid key")
)

// ConfigError represents a processor configuration error.
// It wraps a sentinel error with additional context about the field and algorithm.
type ConfigError struct {
	Err       error  // Underlying sentinel error (ErrMissingEncryptor, etc.)
	Field     string // Field name that triggered the error
	Algorithm string // Algorithm or tag value that was missing/invalid
}

func (e *ConfigError) Error() string {
	if e.Field != "" && e.Algorithm != "" {
		return fmt.Sprintf("%s for algorithm %q (field %s)", e.Err.Error(), e.Algorithm, e.Field)
	}
	if e.Algorithm != "" {
		return fmt.Sprintf("%s for algorithm %q", e.Err.Error(), e.Algorithm)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s (field %s)", e.Err.Error(), e.Field)
	}
	return e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// TransformError represents an error while hiding or revealing a field.
type TransformError struct {
	Err       error  // Underlying sentinel error (ErrEncrypt, ErrDecrypt, etc.)
	Field     string // Field name that failed
	Operation string // Operation that failed (seal, open)
	Cause     error  // Original error from the underlying operation
}

func (e *TransformError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s field %s: %v", e.Operation, e.Field, e.Cause)
	}
	return fmt.Sprintf("%s field %s", e.Operation, e.Field)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// CodecError represents a marshal/unmarshal error.
type CodecError struct {
	Err   error // Underlying sentinel error (ErrMarshal, ErrUnmarshal)
	Cause error // Original error from the codec
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Err.Error(), e.Cause)
	}
	return e.Err.Error()
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

func newConfigError(sentinel error, algorithm, field string) error {
	return &ConfigError{
		Err:       sentinel,
		Algorithm: algorithm,
		Field:     field,
	}
}

func newTransformError(sentinel error, operation, field string, cause error) error {
	return &TransformError{
		Err:       sentinel,
		Field:     field,
		Operation: operation,
		Cause:     cause,
	}
}

func newCodecError(sentinel error, cause error) error {
	return &CodecError{
		Err:   sentinel,
		Cause: cause,
	}
}
