package veil

import (
	"reflect"
	"sync"
)

// registryKey identifies a cached processor. Processors differing only
// in their document seal are cached separately.
type registryKey struct {
	typ          reflect.Type
	contentType  string
	documentSeal EncryptAlgo
}

var (
	registry   = make(map[registryKey]any)
	registryMu sync.RWMutex
)

// Use returns the shared processor for T and codec, building it on
// first use.
//
// Encryptors passed as options only take effect when the processor is
// built; call SetEncryptor on the result to rotate keys afterwards.
func Use[T Cloner[T]](codec Codec, opts ...ProcessorOption) (*Processor[T], error) {
	o := processorOptions{encryptors: make(map[EncryptAlgo]Encryptor)}
	for _, opt := range opts {
		opt(&o)
	}
	key := registryKey{
		typ:          reflect.TypeFor[T](),
		contentType:  codec.ContentType(),
		documentSeal: o.documentSeal,
	}

	registryMu.RLock()
	cached, ok := registry[key]
	registryMu.RUnlock()
	if ok {
		return cached.(*Processor[T]), nil
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	// Another caller may have built it meanwhile
	if cached, ok := registry[key]; ok {
		return cached.(*Processor[T]), nil
	}

	p, err := NewProcessor[T](codec, opts...)
	if err != nil {
		return nil, err
	}
	registry[key] = p
	return p, nil
}

// Reset drops every shared processor. Intended for test isolation.
func Reset() {
	registryMu.Lock()
	defer registryMu.Unlock()
	clear(registry)
}
