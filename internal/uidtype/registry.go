// Copyright (c) 2025 ToeiRei
// uidcolumn - UID column types for bun-backed stores
// This source code is licensed under the MIT license found in the LICENSE file.

package uidtype

import (
	"fmt"
	"sort"
	"sync"

	"github.com/toeirei/uidcolumn/internal/uid"
)

// Names of the built-in column types.
const (
	UUIDTypeName   = "uuid"
	ULIDTypeName   = "ulid"
	UUIDv1TypeName = "uuid_v1"
	UUIDv4TypeName = "uuid_v4"
	UUIDv6TypeName = "uuid_v6"
	UUIDv7TypeName = "uuid_v7"
)

// Registry binds column type names to Columns. The zero value is not
// usable; call NewRegistry.
type Registry struct {
	mu    sync.RWMutex
	types map[string]Column
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]Column)}
}

// NewDefaultRegistry returns a registry holding the built-in types.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, c := range builtins() {
		_ = r.Register(c)
	}
	return r
}

func builtins() []Column {
	return []Column{
		New(UUIDTypeName, UUIDFamily),
		New(ULIDTypeName, ULIDFamily),
		New(UUIDv1TypeName, UUIDVersionFamily(1)),
		New(UUIDv4TypeName, UUIDVersionFamily(4)),
		New(UUIDv6TypeName, UUIDVersionFamily(6)),
		New(UUIDv7TypeName, UUIDVersionFamily(7)),
	}
}

// IsBuiltin reports whether name is one of the built-in column types.
func IsBuiltin(name string) bool {
	switch name {
	case UUIDTypeName, ULIDTypeName, UUIDv1TypeName, UUIDv4TypeName, UUIDv6TypeName, UUIDv7TypeName:
		return true
	}
	return false
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewDefaultRegistry()
	})
	return defaultRegistry
}

// Register adds c under its name. Registering a taken name fails with
// ErrTypeExists.
func (r *Registry) Register(c Column) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.types[c.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrTypeExists, c.Name())
	}
	r.types[c.Name()] = c
	return nil
}

// Override registers c, replacing any type of the same name.
func (r *Registry) Override(c Column) {
	r.mu.Lock()
	r.types[c.Name()] = c
	r.mu.Unlock()
}

// Alias registers name as another binding of the target type.
func (r *Registry) Alias(name, target string) error {
	c, err := r.Lookup(target)
	if err != nil {
		return err
	}
	return r.Register(c.WithName(name))
}

// Lookup returns the type registered under name.
func (r *Registry) Lookup(name string) (Column, error) {
	r.mu.RLock()
	c, ok := r.types[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, name)
	}
	return c, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, err := r.Lookup(name)
	return err == nil
}

// Names returns the registered type names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.types))
	for n := range r.types {
		names = append(names, n)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// TypeFor returns the typed adapter registered under name. It fails if the
// name is bound to a different uid family.
func TypeFor[T uid.UID](r *Registry, name string) (*Type[T], error) {
	c, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	t, ok := c.(*Type[T])
	if !ok {
		var zero T
		return nil, fmt.Errorf("column type %s does not hold %T values", name, zero)
	}
	return t, nil
}
