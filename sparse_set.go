package arena

import (
	"iter"
	"unsafe"
)

// ID names a sparse set slot at a given generation: the generation in the
// upper 32 bits, the slot index in the lower 32 bits.
type ID uint64

// NewID packs a slot index and a generation.
func NewID(index, gen uint32) ID {
	return ID(uint64(gen)<<32 | uint64(index))
}

// Index returns the slot index.
func (id ID) Index() uint32 { return uint32(id) }

// Gen returns the generation the slot had when the ID was issued.
func (id ID) Gen() uint32 { return uint32(id >> 32) }

// Slot is one element of a sparse set. A slot moves from free to occupied on
// Add and back to free on Remove or Clear; every transition to free bumps
// the generation.
type Slot[T comparable] struct {
	gen      uint32
	occupied bool
	value    T
}

// slots is the generational slot table shared by InlineSparseSet and SparseSet.
// Invariant: every slot below *free is occupied.
type slots[T comparable] struct {
	s     []Slot[T]
	count *uint32
	free  *uint32
}

func (t slots[T]) add(v T) ID {
	if int(*t.count) >= len(t.s) {
		fatalf(nil, ErrFull, "sparse set capacity %d", len(t.s))
	}
	i := *t.free
	for t.s[i].occupied {
		i++
	}
	slot := &t.s[i]
	slot.occupied = true
	slot.value = v
	*t.count++
	*t.free = i + 1
	return NewID(i, slot.gen)
}

func (t slots[T]) slot(id ID) *Slot[T] {
	i := id.Index()
	if int(i) >= len(t.s) {
		return nil
	}
	slot := &t.s[i]
	if !slot.occupied || slot.gen != id.Gen() {
		return nil
	}
	return slot
}

func (t slots[T]) remove(id ID) bool {
	slot := t.slot(id)
	if slot == nil {
		return false
	}
	var zero T
	slot.occupied = false
	slot.value = zero
	slot.gen++
	*t.count--
	if i := id.Index(); i < *t.free {
		*t.free = i
	}
	return true
}

func (t slots[T]) get(id ID) *T {
	if slot := t.slot(id); slot != nil {
		return &slot.value
	}
	return nil
}

func (t slots[T]) find(v T) (ID, bool) {
	for i := range t.s {
		if slot := &t.s[i]; slot.occupied && slot.value == v {
			return NewID(uint32(i), slot.gen), true
		}
	}
	return 0, false
}

// clear frees every slot and bumps every generation, occupied or not, so no
// ID issued before the call can match again.
func (t slots[T]) clear() {
	var zero T
	for i := range t.s {
		slot := &t.s[i]
		slot.occupied = false
		slot.value = zero
		slot.gen++
	}
	*t.count = 0
	*t.free = 0
}

func (t slots[T]) generation(i int) uint32 {
	if i < 0 || i >= len(t.s) {
		fatalf(nil, ErrOutOfRange, "slot %d of %d", i, len(t.s))
	}
	return t.s[i].gen
}

func (t slots[T]) all() iter.Seq2[ID, *T] {
	return func(yield func(ID, *T) bool) {
		for i := range t.s {
			slot := &t.s[i]
			if !slot.occupied {
				continue
			}
			if !yield(NewID(uint32(i), slot.gen), &slot.value) {
				return
			}
		}
	}
}

func (t slots[T]) values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := range t.s {
			if slot := &t.s[i]; slot.occupied && !yield(slot.value) {
				return
			}
		}
	}
}

// InlineSparseSet is a generational sparse set whose capacity is fixed by
// its type: S must be [N]Slot[T]. The zero value is an empty set with every
// slot at generation 0.
//
// IDs handed out by Add stay valid until their slot is removed or the set is
// cleared; after that they are reported stale even when the slot is reused.
type InlineSparseSet[T comparable, S any] struct {
	count uint32
	free  uint32
	slots S
}

// NewInlineSparseSet allocates an empty InlineSparseSet in a.
func NewInlineSparseSet[T comparable, S any](a *Arena) *InlineSparseSet[T, S] {
	mustStorage[Slot[T], S](a)
	set := AllocZeroed[InlineSparseSet[T, S]](a)
	return set
}

func (set *InlineSparseSet[T, S]) table() slots[T] {
	return slots[T]{s: inlineStorage[Slot[T]](&set.slots), count: &set.count, free: &set.free}
}

// Add stores v in the lowest free slot and returns its ID. Fatal when full.
func (set *InlineSparseSet[T, S]) Add(v T) ID { return set.table().add(v) }

// Remove frees the slot named by id. Stale or unknown IDs are ignored.
// It reports whether a value was removed.
func (set *InlineSparseSet[T, S]) Remove(id ID) bool { return set.table().remove(id) }

// Contains reports whether id names an occupied slot at its current generation.
func (set *InlineSparseSet[T, S]) Contains(id ID) bool { return set.table().slot(id) != nil }

// Get returns the value named by id, or nil if id is stale or unknown.
func (set *InlineSparseSet[T, S]) Get(id ID) *T { return set.table().get(id) }

// Find returns the live ID of the first slot holding v.
func (set *InlineSparseSet[T, S]) Find(v T) (ID, bool) { return set.table().find(v) }

// Clear frees every slot and advances every generation.
func (set *InlineSparseSet[T, S]) Clear() { set.table().clear() }

// Generation returns the current generation of slot i.
func (set *InlineSparseSet[T, S]) Generation(i int) uint32 { return set.table().generation(i) }

// Len returns the number of occupied slots.
func (set *InlineSparseSet[T, S]) Len() int { return int(set.count) }

// Cap returns N.
func (set *InlineSparseSet[T, S]) Cap() int { return len(set.table().s) }

// IsFull reports whether Add would fail.
func (set *InlineSparseSet[T, S]) IsFull() bool { return set.Len() == set.Cap() }

// IsEmpty reports whether no slot is occupied.
func (set *InlineSparseSet[T, S]) IsEmpty() bool { return set.count == 0 }

// All yields the ID and value pointer of every occupied slot in index order.
func (set *InlineSparseSet[T, S]) All() iter.Seq2[ID, *T] { return set.table().all() }

// Values yields the values of occupied slots in index order.
func (set *InlineSparseSet[T, S]) Values() iter.Seq[T] { return set.table().values() }

// SparseSet is the runtime-capacity counterpart of InlineSparseSet. Its
// slots trail the header in a single arena allocation; create it with
// NewSparseSet.
type SparseSet[T comparable] struct {
	capacity uint32
	count    uint32
	free     uint32
	_        uint32
	// slots follow the header
}

const sparseSetHeaderSize = 16

// NewSparseSet allocates an empty SparseSet with capacity slots in a.
func NewSparseSet[T comparable](a *Arena, capacity int) *SparseSet[T] {
	mustDiscard[Slot[T]](a)
	size := arrayBytes[Slot[T]](a, capacity)
	set := allocRaw[SparseSet[T]](a, sparseSetHeaderSize+size)
	*set = SparseSet[T]{capacity: uint32(capacity)}
	clear(set.table().s)
	return set
}

func (set *SparseSet[T]) table() slots[T] {
	t := slots[T]{count: &set.count, free: &set.free}
	if set.capacity > 0 {
		first := (*Slot[T])(unsafe.Add(unsafe.Pointer(set), sparseSetHeaderSize))
		t.s = unsafe.Slice(first, set.capacity)
	}
	return t
}

// Add stores v in the lowest free slot and returns its ID. Fatal when full.
func (set *SparseSet[T]) Add(v T) ID { return set.table().add(v) }

// Remove frees the slot named by id. Stale or unknown IDs are ignored.
// It reports whether a value was removed.
func (set *SparseSet[T]) Remove(id ID) bool { return set.table().remove(id) }

// Contains reports whether id names an occupied slot at its current generation.
func (set *SparseSet[T]) Contains(id ID) bool { return set.table().slot(id) != nil }

// Get returns the value named by id, or nil if id is stale or unknown.
func (set *SparseSet[T]) Get(id ID) *T { return set.table().get(id) }

// Find returns the live ID of the first slot holding v.
func (set *SparseSet[T]) Find(v T) (ID, bool) { return set.table().find(v) }

// Clear frees every slot and advances every generation.
func (set *SparseSet[T]) Clear() { set.table().clear() }

// Generation returns the current generation of slot i.
func (set *SparseSet[T]) Generation(i int) uint32 { return set.table().generation(i) }

// Len returns the number of occupied slots.
func (set *SparseSet[T]) Len() int { return int(set.count) }

// Cap returns the capacity given to NewSparseSet.
func (set *SparseSet[T]) Cap() int { return int(set.capacity) }

// IsFull reports whether Add would fail.
func (set *SparseSet[T]) IsFull() bool { return set.count == set.capacity }

// IsEmpty reports whether no slot is occupied.
func (set *SparseSet[T]) IsEmpty() bool { return set.count == 0 }

// All yields the ID and value pointer of every occupied slot in index order.
func (set *SparseSet[T]) All() iter.Seq2[ID, *T] { return set.table().all() }

// Values yields the values of occupied slots in index order.
func (set *SparseSet[T]) Values() iter.Seq[T] { return set.table().values() }
