package set

import "github.com/maxpoletaev/hax/internal/generic"

type Set[T comparable] map[T]struct{}

func (s Set[T]) Add(val T) {
	s[val] = struct{}{}
}

func (s Set[T]) Remove(val T) {
	delete(s, val)
}

// RemoveAll removes every given value, ignoring the ones not in the set.
func (s Set[T]) RemoveAll(vals []T) {
	for _, val := range vals {
		delete(s, val)
	}
}

func (s Set[T]) Values() []T {
	return generic.MapKeys(s)
}

func (s Set[T]) Has(val T) bool {
	if _, ok := s[val]; ok {
		return true
	}

	return false
}

func (s Set[T]) Len() int {
	return len(s)
}

func FromSlice[T comparable](sl []T) Set[T] {
	set := make(Set[T], len(sl))
	for _, val := range sl {
		set.Add(val)
	}
	return set
}

func New[T comparable](sl ...T) Set[T] {
	return FromSlice(sl)
}
