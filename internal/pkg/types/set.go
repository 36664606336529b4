// Package types holds small generic containers.
package types

import (
	"iter"
	"maps"
	"slices"
)

// Set is a hash set. The zero value is not usable; build one with NewSet.
type Set[T comparable] map[T]struct{}

// NewSet returns a Set holding data, duplicates collapsed.
func NewSet[T comparable](data ...T) Set[T] {
	set := make(Set[T], len(data))
	set.Add(data...)
	return set
}

// Add inserts values in place.
func (s Set[T]) Add(values ...T) {
	for _, val := range values {
		s[val] = struct{}{}
	}
}

// Has reports whether v is in the set.
func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

// ToIter yields every element in no particular order.
func (s Set[T]) ToIter() iter.Seq[T] {
	return maps.Keys(s)
}

// ToSlice returns every element in no particular order.
func (s Set[T]) ToSlice() []T {
	return slices.Collect(s.ToIter())
}
