package domain

import (
	"fmt"
	"maps"
	"slices"
)

// Key is a typed handle into a Store. The type parameter documents (and enforces on
// read) the value type stored under Name.
type Key[T any] struct {
	name string
}

// NewKey declares a typed key.
func NewKey[T any](name string) Key[T] {
	return Key[T]{name: name}
}

// Name returns the key's string identifier.
func (k Key[T]) Name() string {
	return k.name
}

func (k Key[T]) String() string {
	return k.name
}

// Store is the ordered key/value bag shared by wizard steps and pipeline actions.
//
// A Store is not safe for concurrent use. The wizard driver and the pipeline runner
// guarantee a single writer at a time.
type Store struct {
	values map[string]any
	order  []string
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		values: make(map[string]any),
	}
}

// NewStoreFrom creates a Store seeded with the given values.
// Seed keys are inserted in sorted order so the result is deterministic.
func NewStoreFrom(seed map[string]any) *Store {
	s := NewStore()
	for _, k := range slices.Sorted(maps.Keys(seed)) {
		s.SetValue(k, seed[k])
	}
	return s
}

// Set stores v under k.
func Set[T any](s *Store, k Key[T], v T) {
	s.SetValue(k.name, v)
}

// Get returns the value stored under k. ok is false when the key is absent or holds a
// value of another type.
func Get[T any](s *Store, k Key[T]) (T, bool) {
	var zero T
	raw, exists := s.values[k.name]
	if !exists {
		return zero, false
	}
	v, ok := raw.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// GetOr returns the value stored under k, or def.
func GetOr[T any](s *Store, k Key[T], def T) T {
	if v, ok := Get(s, k); ok {
		return v
	}
	return def
}

// Require returns the value stored under k or a configuration error.
func Require[T any](s *Store, k Key[T]) (T, error) {
	var zero T
	raw, exists := s.values[k.name]
	if !exists {
		return zero, fmt.Errorf("%w: %s", ErrMissingContext, k.name)
	}
	v, ok := raw.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s holds %T, want %T", ErrMissingContext, k.name, raw, zero)
	}
	return v, nil
}

// SetValue stores an untyped value by name. Field edits coming from the rendering layer
// use this path.
func (s *Store) SetValue(name string, v any) {
	if _, exists := s.values[name]; !exists {
		s.order = append(s.order, name)
	}
	s.values[name] = v
}

// Value returns the raw value stored under name.
func (s *Store) Value(name string) (any, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Contains reports whether name is present.
func (s *Store) Contains(name string) bool {
	_, ok := s.values[name]
	return ok
}

// Delete removes name from the store.
func (s *Store) Delete(name string) {
	if _, ok := s.values[name]; !ok {
		return
	}
	delete(s.values, name)
	s.order = slices.DeleteFunc(s.order, func(k string) bool { return k == name })
}

// Keys returns the stored names in insertion order.
func (s *Store) Keys() []string {
	return slices.Clone(s.order)
}

// Len returns the number of stored values.
func (s *Store) Len() int {
	return len(s.values)
}

// Clone returns a shallow copy that preserves insertion order.
func (s *Store) Clone() *Store {
	return &Store{
		values: maps.Clone(s.values),
		order:  slices.Clone(s.order),
	}
}

// Snapshot returns a shallow copy of the values.
func (s *Store) Snapshot() map[string]any {
	return maps.Clone(s.values)
}
