package arena

import (
	"iter"
	"unsafe"
)

// Entry is one key/value pair of a map.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// table is the linear-scan map shared by InlineMap and Map.
// Keys compare with ==, so strings compare by contents and arrays by bytes.
type table[K comparable, V any] struct {
	s seq[Entry[K, V]]
}

func (t table[K, V]) find(k K) int {
	for i := range t.s.len() {
		if t.s.elems[i].Key == k {
			return i
		}
	}
	return -1
}

func (t table[K, V]) get(k K) *V {
	i := t.find(k)
	if i < 0 {
		i = t.s.push(Entry[K, V]{Key: k})
	}
	return &t.s.elems[i].Value
}

func (t table[K, V]) lookup(k K) (*V, bool) {
	i := t.find(k)
	if i < 0 {
		return nil, false
	}
	return &t.s.elems[i].Value, true
}

func (t table[K, V]) remove(k K, ordered bool) bool {
	i := t.find(k)
	if i < 0 {
		return false
	}
	if ordered {
		t.s.removeOrdered(i)
	} else {
		t.s.removeUnordered(i)
	}
	return true
}

func (t table[K, V]) all() iter.Seq2[K, *V] {
	return func(yield func(K, *V) bool) {
		for i := 0; i < t.s.len(); i++ {
			e := &t.s.elems[i]
			if !yield(e.Key, &e.Value) {
				return
			}
		}
	}
}

func (t table[K, V]) keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for i := 0; i < t.s.len(); i++ {
			if !yield(t.s.elems[i].Key) {
				return
			}
		}
	}
}

// InlineMap is a small associative container over an InlineArray of
// entries. S must be [N]Entry[K, V]. Lookups scan linearly, which suits the
// tens of entries it is meant for and nothing larger.
// The zero value is an empty map ready to use.
type InlineMap[K comparable, V any, S any] struct {
	entries InlineArray[Entry[K, V], S]
}

// NewInlineMap allocates an empty InlineMap in a.
func NewInlineMap[K comparable, V any, S any](a *Arena) *InlineMap[K, V, S] {
	mustStorage[Entry[K, V], S](a)
	m := Alloc[InlineMap[K, V, S]](a)
	m.entries.count = 0
	return m
}

func (m *InlineMap[K, V, S]) table() table[K, V] { return table[K, V]{s: m.entries.seq()} }

// Get returns a pointer to the value stored under k, inserting a zero value
// first if k is absent. Inserting into a full map is fatal.
func (m *InlineMap[K, V, S]) Get(k K) *V { return m.table().get(k) }

// Set stores v under k.
func (m *InlineMap[K, V, S]) Set(k K, v V) { *m.table().get(k) = v }

// Lookup returns the value stored under k without inserting.
func (m *InlineMap[K, V, S]) Lookup(k K) (*V, bool) { return m.table().lookup(k) }

// Contains reports whether k is present.
func (m *InlineMap[K, V, S]) Contains(k K) bool { return m.table().find(k) >= 0 }

// Remove deletes k by moving the last entry into its slot. No-op if absent.
func (m *InlineMap[K, V, S]) Remove(k K) bool { return m.table().remove(k, false) }

// RemoveOrdered deletes k keeping the insertion order of the other entries.
func (m *InlineMap[K, V, S]) RemoveOrdered(k K) bool { return m.table().remove(k, true) }

// Clear removes every entry.
func (m *InlineMap[K, V, S]) Clear() { m.entries.Clear() }

// Len returns the number of entries.
func (m *InlineMap[K, V, S]) Len() int { return m.entries.Len() }

// Cap returns N.
func (m *InlineMap[K, V, S]) Cap() int { return m.entries.Cap() }

// IsFull reports whether another key can no longer be inserted.
func (m *InlineMap[K, V, S]) IsFull() bool { return m.entries.IsFull() }

// IsEmpty reports whether the map has no entries.
func (m *InlineMap[K, V, S]) IsEmpty() bool { return m.entries.IsEmpty() }

// All yields keys and value pointers in storage order.
func (m *InlineMap[K, V, S]) All() iter.Seq2[K, *V] { return m.table().all() }

// Keys yields the keys in storage order.
func (m *InlineMap[K, V, S]) Keys() iter.Seq[K] { return m.table().keys() }

// Map is the runtime-capacity counterpart of InlineMap. Its entries live in
// the trailing region of a single arena allocation; create it with NewMap.
type Map[K comparable, V any] struct {
	entries Array[Entry[K, V]]
}

// NewMap allocates an empty Map with room for capacity entries in a.
func NewMap[K comparable, V any](a *Arena, capacity int) *Map[K, V] {
	return (*Map[K, V])(unsafe.Pointer(NewArray[Entry[K, V]](a, capacity)))
}

func (m *Map[K, V]) table() table[K, V] { return table[K, V]{s: m.entries.seq()} }

// Get returns a pointer to the value stored under k, inserting a zero value
// first if k is absent. Inserting into a full map is fatal.
func (m *Map[K, V]) Get(k K) *V { return m.table().get(k) }

// Set stores v under k.
func (m *Map[K, V]) Set(k K, v V) { *m.table().get(k) = v }

// Lookup returns the value stored under k without inserting.
func (m *Map[K, V]) Lookup(k K) (*V, bool) { return m.table().lookup(k) }

// Contains reports whether k is present.
func (m *Map[K, V]) Contains(k K) bool { return m.table().find(k) >= 0 }

// Remove deletes k by moving the last entry into its slot. No-op if absent.
func (m *Map[K, V]) Remove(k K) bool { return m.table().remove(k, false) }

// RemoveOrdered deletes k keeping the insertion order of the other entries.
func (m *Map[K, V]) RemoveOrdered(k K) bool { return m.table().remove(k, true) }

// Clear removes every entry.
func (m *Map[K, V]) Clear() { m.entries.Clear() }

// Len returns the number of entries.
func (m *Map[K, V]) Len() int { return m.entries.Len() }

// Cap returns the capacity given to NewMap.
func (m *Map[K, V]) Cap() int { return m.entries.Cap() }

// IsFull reports whether another key can no longer be inserted.
func (m *Map[K, V]) IsFull() bool { return m.entries.IsFull() }

// IsEmpty reports whether the map has no entries.
func (m *Map[K, V]) IsEmpty() bool { return m.entries.IsEmpty() }

// All yields keys and value pointers in storage order.
func (m *Map[K, V]) All() iter.Seq2[K, *V] { return m.table().all() }

// Keys yields the keys in storage order.
func (m *Map[K, V]) Keys() iter.Seq[K] { return m.table().keys() }
