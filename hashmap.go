package arena

import (
	"iter"
	"log/slog"
	"reflect"
	"unsafe"

	"github.com/cespare/xxhash/v2"
)

type slotState uint8

const (
	slotEmpty slotState = iota
	slotOccupied
	slotDead
)

// HashEntry is one slot of an open-addressing hash map.
type HashEntry[K comparable, V any] struct {
	Key   K
	Value V
	state slotState
}

// hashLimit is the number of keys a table of n slots accepts: a load factor
// of 0.7, rounded up.
func hashLimit(n int) int { return (7*n + 9) / 10 }

// hashKey hashes the bytes of k, or the contents when K is string.
func hashKey[K comparable](k *K) uint64 {
	if s, ok := any(k).(*string); ok {
		return xxhash.Sum64String(*s)
	}
	return xxhash.Sum64(unsafe.Slice((*byte)(unsafe.Pointer(k)), unsafe.Sizeof(*k)))
}

// mustHashKey fails unless equal keys of type K always have equal bytes,
// which is what hashKey relies on.
func mustHashKey[K comparable](log *slog.Logger) {
	t := reflect.TypeFor[K]()
	if t != reflect.TypeFor[string]() && !bytewiseEqual(t) {
		fatalf(log, ErrBadKey, "%s", t)
	}
}

// bytewiseEqual reports whether == on t is the same as comparing bytes:
// no floats, no padding, no blank fields, nothing behind a pointer.
func bytewiseEqual(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	case reflect.Array:
		return t.Len() == 0 || bytewiseEqual(t.Elem())
	case reflect.Struct:
		var off uintptr
		for i := range t.NumField() {
			f := t.Field(i)
			if f.Name == "_" || f.Offset != off || !bytewiseEqual(f.Type) {
				return false
			}
			off += f.Type.Size()
		}
		return off == t.Size()
	default:
		return false
	}
}

// hashTable is the linear-probing table shared by InlineHashMap and HashMap.
// Removed keys leave a dead slot behind so that probe chains stay intact;
// inserts reuse the first slot on the chain that is not occupied.
type hashTable[K comparable, V any] struct {
	s     []HashEntry[K, V]
	count *uint32
}

func (t hashTable[K, V]) home(k *K) int {
	return int(hashKey(k) % uint64(len(t.s)))
}

func (t hashTable[K, V]) next(i int) int {
	if i++; i == len(t.s) {
		return 0
	}
	return i
}

func (t hashTable[K, V]) find(k K) int {
	n := len(t.s)
	if n == 0 {
		return -1
	}
	for i, j := 0, t.home(&k); i < n; i, j = i+1, t.next(j) {
		e := &t.s[j]
		if e.state == slotEmpty {
			return -1
		}
		if e.state == slotOccupied && e.Key == k {
			return j
		}
	}
	return -1
}

func (t hashTable[K, V]) get(k K) *V {
	if *t.count == 0 {
		mustHashKey[K](nil)
	}
	if i := t.find(k); i >= 0 {
		return &t.s[i].Value
	}
	n := len(t.s)
	if int(*t.count) >= hashLimit(n) {
		fatalf(nil, ErrFull, "hash map holds %d keys in %d slots", *t.count, n)
	}
	j := t.home(&k)
	for t.s[j].state == slotOccupied {
		j = t.next(j)
	}
	t.s[j] = HashEntry[K, V]{Key: k, state: slotOccupied}
	*t.count++
	return &t.s[j].Value
}

func (t hashTable[K, V]) lookup(k K) (*V, bool) {
	i := t.find(k)
	if i < 0 {
		return nil, false
	}
	return &t.s[i].Value, true
}

func (t hashTable[K, V]) remove(k K) bool {
	i := t.find(k)
	if i < 0 {
		return false
	}
	t.s[i] = HashEntry[K, V]{state: slotDead}
	*t.count--
	return true
}

func (t hashTable[K, V]) clear() {
	clear(t.s)
	*t.count = 0
}

func (t hashTable[K, V]) all() iter.Seq2[K, *V] {
	return func(yield func(K, *V) bool) {
		for i := range t.s {
			e := &t.s[i]
			if e.state == slotOccupied && !yield(e.Key, &e.Value) {
				return
			}
		}
	}
}

func (t hashTable[K, V]) keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for i := range t.s {
			if e := &t.s[i]; e.state == slotOccupied && !yield(e.Key) {
				return
			}
		}
	}
}

// InlineHashMap is an open-addressing hash map with linear probing and a
// slot count fixed by its type: S must be [N]HashEntry[K, V]. It accepts at
// most 70% of N keys, rounded up; inserting beyond that is fatal.
//
// Keys are hashed with xxhash over their bytes, so K must be a string or a
// type whose == compares bytes (integers, bools, and arrays or unpadded
// structs of those). Other key types are fatal on first insert.
// The zero value is an empty map ready to use.
type InlineHashMap[K comparable, V any, S any] struct {
	count uint32
	slots S
}

// NewInlineHashMap allocates an empty InlineHashMap in a.
func NewInlineHashMap[K comparable, V any, S any](a *Arena) *InlineHashMap[K, V, S] {
	mustStorage[HashEntry[K, V], S](a)
	mustHashKey[K](a.log)
	return AllocZeroed[InlineHashMap[K, V, S]](a)
}

func (m *InlineHashMap[K, V, S]) table() hashTable[K, V] {
	return hashTable[K, V]{s: inlineStorage[HashEntry[K, V]](&m.slots), count: &m.count}
}

// Get returns a pointer to the value stored under k, inserting a zero value
// first if k is absent. Inserting into a map at its load limit is fatal.
func (m *InlineHashMap[K, V, S]) Get(k K) *V { return m.table().get(k) }

// Set stores v under k.
func (m *InlineHashMap[K, V, S]) Set(k K, v V) { *m.table().get(k) = v }

// Lookup returns the value stored under k without inserting.
func (m *InlineHashMap[K, V, S]) Lookup(k K) (*V, bool) { return m.table().lookup(k) }

// Contains reports whether k is present.
func (m *InlineHashMap[K, V, S]) Contains(k K) bool { return m.table().find(k) >= 0 }

// Remove deletes k, leaving a dead slot. It reports whether k was present.
func (m *InlineHashMap[K, V, S]) Remove(k K) bool { return m.table().remove(k) }

// Clear empties every slot, dead ones included.
func (m *InlineHashMap[K, V, S]) Clear() { m.table().clear() }

// Len returns the number of keys.
func (m *InlineHashMap[K, V, S]) Len() int { return int(m.count) }

// Cap returns the number of slots, N.
func (m *InlineHashMap[K, V, S]) Cap() int { return len(m.table().s) }

// IsFull reports whether another key can no longer be inserted.
func (m *InlineHashMap[K, V, S]) IsFull() bool { return m.Len() >= hashLimit(m.Cap()) }

// IsEmpty reports whether the map has no keys.
func (m *InlineHashMap[K, V, S]) IsEmpty() bool { return m.count == 0 }

// All yields keys and value pointers in slot order.
func (m *InlineHashMap[K, V, S]) All() iter.Seq2[K, *V] { return m.table().all() }

// Keys yields the keys in slot order.
func (m *InlineHashMap[K, V, S]) Keys() iter.Seq[K] { return m.table().keys() }

// HashMap is the runtime-capacity counterpart of InlineHashMap. Its slots
// trail an Array-style header in a single arena allocation; create it with
// NewHashMap.
type HashMap[K comparable, V any] struct {
	capacity uint32
	count    uint32
	// slots follow the header
}

// NewHashMap allocates an empty HashMap with capacity slots in a.
func NewHashMap[K comparable, V any](a *Arena, capacity int) *HashMap[K, V] {
	mustDiscard[HashEntry[K, V]](a)
	mustHashKey[K](a.log)
	size := arrayBytes[HashEntry[K, V]](a, capacity)
	m := allocRaw[HashMap[K, V]](a, arrayHeaderSize+size)
	*m = HashMap[K, V]{capacity: uint32(capacity)}
	clear(m.table().s)
	return m
}

func (m *HashMap[K, V]) table() hashTable[K, V] {
	t := hashTable[K, V]{count: &m.count}
	if m.capacity > 0 {
		first := (*HashEntry[K, V])(unsafe.Add(unsafe.Pointer(m), arrayHeaderSize))
		t.s = unsafe.Slice(first, m.capacity)
	}
	return t
}

// Get returns a pointer to the value stored under k, inserting a zero value
// first if k is absent. Inserting into a map at its load limit is fatal.
func (m *HashMap[K, V]) Get(k K) *V { return m.table().get(k) }

// Set stores v under k.
func (m *HashMap[K, V]) Set(k K, v V) { *m.table().get(k) = v }

// Lookup returns the value stored under k without inserting.
func (m *HashMap[K, V]) Lookup(k K) (*V, bool) { return m.table().lookup(k) }

// Contains reports whether k is present.
func (m *HashMap[K, V]) Contains(k K) bool { return m.table().find(k) >= 0 }

// Remove deletes k, leaving a dead slot. It reports whether k was present.
func (m *HashMap[K, V]) Remove(k K) bool { return m.table().remove(k) }

// Clear empties every slot, dead ones included.
func (m *HashMap[K, V]) Clear() { m.table().clear() }

// Len returns the number of keys.
func (m *HashMap[K, V]) Len() int { return int(m.count) }

// Cap returns the number of slots given to NewHashMap.
func (m *HashMap[K, V]) Cap() int { return int(m.capacity) }

// IsFull reports whether another key can no longer be inserted.
func (m *HashMap[K, V]) IsFull() bool { return m.Len() >= hashLimit(m.Cap()) }

// IsEmpty reports whether the map has no keys.
func (m *HashMap[K, V]) IsEmpty() bool { return m.count == 0 }

// All yields keys and value pointers in slot order.
func (m *HashMap[K, V]) All() iter.Seq2[K, *V] { return m.table().all() }

// Keys yields the keys in slot order.
func (m *HashMap[K, V]) Keys() iter.Seq[K] { return m.table().keys() }
