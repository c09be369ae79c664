// Package cache defines the cache capability used by the user handlers
// and its two stub implementations.
//
// The implementations hold no state. Every key resolves to a message naming
// the cache it came from; there is no miss.
package cache

import (
	"fmt"
	"strconv"

	"minimalapi/internal/registry"
)

// KeyPrefix is prepended to a user id to form its lookup key.
const KeyPrefix = "MyKey"

// BigLabel is the registry label of the big cache.
const BigLabel = "big"

// Cache resolves a value by key. Implementations must be safe for
// concurrent use and must always return a value.
type Cache interface {
	Get(key string) string
}

// Small is the default cache.
type Small struct{}

// Get implements Cache.
func (Small) Get(key string) string { return resolving(key, "small") }

// Big is the cache registered under BigLabel.
type Big struct{}

// Get implements Cache.
func (Big) Get(key string) string { return resolving(key, "big") }

func resolving(key, label string) string {
	return fmt.Sprintf("Resolving %s from %s cache.", key, label)
}

// Key returns the lookup key for a user id.
func Key(id int) string {
	return KeyPrefix + strconv.Itoa(id)
}

// NewRegistry builds the application's cache registry: Small as the
// default binding and Big under BigLabel.
func NewRegistry() (*registry.Registry[Cache], error) {
	b := registry.NewBuilder[Cache]()
	if err := b.Register(registry.Default, func() Cache { return Small{} }); err != nil {
		return nil, fmt.Errorf("register default cache: %w", err)
	}
	if err := b.Register(BigLabel, func() Cache { return Big{} }); err != nil {
		return nil, fmt.Errorf("register %s cache: %w", BigLabel, err)
	}
	return b.Build(), nil
}
