// Package registry maps labels to singleton service instances.
//
// A Builder collects registrations during startup. Build freezes it and
// returns a Registry that is never mutated again, so Resolve is safe for
// concurrent use without locking. The empty label is the default binding.
package registry

import (
	"fmt"
	"sort"

	"minimalapi/internal/errors"
)

// Default is the label of the unnamed binding.
const Default = ""

// Builder accumulates registrations. It is not safe for concurrent use.
type Builder[T any] struct {
	entries map[string]T
	frozen  bool
}

// NewBuilder returns an empty builder.
func NewBuilder[T any]() *Builder[T] {
	return &Builder[T]{entries: make(map[string]T)}
}

// Register calls factory once and stores the result under label.
func (b *Builder[T]) Register(label string, factory func() T) error {
	if b.frozen {
		return errors.New(errors.RegistryFrozen,
			fmt.Sprintf("cannot register %s after build", describe(label)), nil)
	}
	if factory == nil {
		return errors.New(errors.InternalError,
			fmt.Sprintf("nil factory for %s", describe(label)), nil)
	}
	if _, exists := b.entries[label]; exists {
		return errors.New(errors.DuplicateService,
			fmt.Sprintf("%s is already registered", describe(label)), nil)
	}
	b.entries[label] = factory()
	return nil
}

// Build freezes the builder and returns the resulting registry.
func (b *Builder[T]) Build() *Registry[T] {
	b.frozen = true
	entries := make(map[string]T, len(b.entries))
	for k, v := range b.entries {
		entries[k] = v
	}
	return &Registry[T]{entries: entries}
}

// Registry is a read-only label to instance mapping.
type Registry[T any] struct {
	entries map[string]T
}

// Resolve returns the instance registered under label.
func (r *Registry[T]) Resolve(label string) (T, error) {
	if v, ok := r.entries[label]; ok {
		return v, nil
	}
	var zero T
	return zero, errors.New(errors.ServiceNotRegistered,
		fmt.Sprintf("no service registered for %s", describe(label)), nil)
}

// Require returns an error naming the first label with no binding.
func (r *Registry[T]) Require(labels ...string) error {
	for _, label := range labels {
		if _, err := r.Resolve(label); err != nil {
			return err
		}
	}
	return nil
}

// Labels returns the registered labels in sorted order.
func (r *Registry[T]) Labels() []string {
	labels := make([]string, 0, len(r.entries))
	for k := range r.entries {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return labels
}

// Len returns the number of registered bindings.
func (r *Registry[T]) Len() int {
	return len(r.entries)
}

func describe(label string) string {
	if label == Default {
		return "default service"
	}
	return fmt.Sprintf("service %q", label)
}
