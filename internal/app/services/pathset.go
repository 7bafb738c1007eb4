package services

import "sort"

// PathSet is a set of string keys: file paths for selections, directory
// paths for collapsed state, commit hashes for commit selections. Reads on
// a nil set are safe.
type PathSet map[string]struct{}

// NewPathSet returns a set holding keys.
func NewPathSet(keys ...string) PathSet {
	s := make(PathSet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s PathSet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Add inserts key.
func (s PathSet) Add(key string) {
	s[key] = struct{}{}
}

// Remove deletes key.
func (s PathSet) Remove(key string) {
	delete(s, key)
}

// Toggle flips membership of key and reports whether it is now present.
func (s PathSet) Toggle(key string) bool {
	if s.Has(key) {
		delete(s, key)
		return false
	}
	s[key] = struct{}{}
	return true
}

// Clear empties the set in place.
func (s PathSet) Clear() {
	for k := range s {
		delete(s, k)
	}
}

// Sorted returns the keys in lexical order.
func (s PathSet) Sorted() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
