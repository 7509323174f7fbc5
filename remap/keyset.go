package remap

import (
	"sort"

	"github.com/altdrag/altdrag/event"
)

type KeySet map[event.Key]struct{}

func NewKeySet(keys ...event.Key) KeySet {
	s := make(KeySet, len(keys))
	for _, k := range keys {
		s.Add(k)
	}
	return s
}

func (s KeySet) Add(k event.Key)    { s[k] = struct{}{} }
func (s KeySet) Remove(k event.Key) { delete(s, k) }

func (s KeySet) Has(k event.Key) bool {
	_, ok := s[k]
	return ok
}

func (s KeySet) HasAll(keys ...event.Key) bool {
	for _, k := range keys {
		if !s.Has(k) {
			return false
		}
	}
	return true
}

// Assign replaces contents of s with other.
func (s KeySet) Assign(other KeySet) {
	for k := range s {
		delete(s, k)
	}
	for k := range other {
		s[k] = struct{}{}
	}
}

func (s KeySet) Clone() KeySet {
	c := make(KeySet, len(s))
	c.Assign(s)
	return c
}

// Minus returns keys in s but not in other, sorted by (tag, code).
func (s KeySet) Minus(other KeySet) []event.Key {
	var result []event.Key
	for k := range s {
		if !other.Has(k) {
			result = append(result, k)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Less(result[j]) })
	return result
}

func (s KeySet) Sorted() []event.Key {
	return s.Minus(nil)
}
