package nest

import (
	"sync"
)

var (
	registry   = make(map[string]*Structural)
	registryMu sync.RWMutex
)

// Use returns a cached Structural or builds a new one.
// The Structural is cached by codec content type, so the first codec
// registered for a content type serves every later caller.
func Use(codec Codec) *Structural {
	if codec == nil {
		codec = JSON()
	}
	key := codec.ContentType()

	// Fast path: read-lock cache check
	registryMu.RLock()
	if cached, ok := registry[key]; ok {
		registryMu.RUnlock()
		return cached
	}
	registryMu.RUnlock()

	// Slow path: build and cache with write-lock
	registryMu.Lock()
	defer registryMu.Unlock()

	// Double-check pattern
	if cached, ok := registry[key]; ok {
		return cached
	}

	s := NewStructural(codec)
	registry[key] = s
	return s
}

// Reset clears the Structural registry.
// This is primarily useful for test isolation.
func Reset() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]*Structural)
}
