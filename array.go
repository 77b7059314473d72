package arena

import (
	"iter"
	"slices"
	"unsafe"
)

// Array is a sequence whose capacity is chosen at creation time. The header
// and the element region form a single arena allocation:
//
//	| capacity uint32 | count uint32 | elem 0 | elem 1 | ... | elem cap-1 |
//
// An Array only exists inside an arena; create it with NewArray. The
// contract is otherwise identical to InlineArray.
type Array[T any] struct {
	capacity uint32
	count    uint32
	// elements follow the header
}

// arrayHeaderSize is the offset of the first element. Go types are at most
// Alignment aligned, so elements placed there are always aligned.
const arrayHeaderSize = 8

// NewArray allocates an empty Array of the given capacity in a.
func NewArray[T any](a *Arena, capacity int) *Array[T] {
	mustDiscard[T](a)
	size := arrayBytes[T](a, capacity)
	arr := allocRaw[Array[T]](a, arrayHeaderSize+size)
	arr.capacity = uint32(capacity)
	arr.count = 0
	return arr
}

// arrayBytes returns capacity*sizeof(T), failing on negative or oversized capacities.
func arrayBytes[T any](a *Arena, capacity int) int {
	var zero T
	elemSize := uint64(unsafe.Sizeof(zero))
	if capacity < 0 || (elemSize > 0 && uint64(capacity) > (MaxSize-arrayHeaderSize)/elemSize) {
		fatalf(a.log, ErrInvalidSize, "capacity %d of %d byte elements", capacity, elemSize)
	}
	return capacity * int(elemSize)
}

func (arr *Array[T]) seq() seq[T] {
	if arr.capacity == 0 {
		return seq[T]{count: &arr.count}
	}
	first := (*T)(unsafe.Add(unsafe.Pointer(arr), arrayHeaderSize))
	return seq[T]{elems: unsafe.Slice(first, arr.capacity), count: &arr.count}
}

// Append stores v after the last element and returns its index.
func (arr *Array[T]) Append(v T) int { return arr.seq().push(v) }

// AppendSlice appends every value of vs in order. It fails before writing
// anything if vs does not fit.
func (arr *Array[T]) AppendSlice(vs ...T) { arr.seq().pushAll(vs) }

// At returns a pointer to element i.
func (arr *Array[T]) At(i int) *T { return arr.seq().at(i) }

// Get returns a copy of element i.
func (arr *Array[T]) Get(i int) T { return *arr.seq().at(i) }

// Set overwrites element i.
func (arr *Array[T]) Set(i int, v T) { *arr.seq().at(i) = v }

// RemoveUnordered moves the last element into slot i. O(1), reorders.
func (arr *Array[T]) RemoveUnordered(i int) { arr.seq().removeUnordered(i) }

// RemoveOrdered shifts the elements after i one slot left. O(n), keeps order.
func (arr *Array[T]) RemoveOrdered(i int) { arr.seq().removeOrdered(i) }

// Front returns a pointer to the first element.
func (arr *Array[T]) Front() *T { return arr.nonEmpty().at(0) }

// Back returns a pointer to the last element.
func (arr *Array[T]) Back() *T {
	s := arr.nonEmpty()
	return s.at(s.len() - 1)
}

// Pop removes and returns the last element.
func (arr *Array[T]) Pop() T { return arr.seq().pop() }

// Reserve appends n zero values.
func (arr *Array[T]) Reserve(n int) { arr.seq().reserve(n) }

// ReserveUntil appends zero values until the array holds n elements.
func (arr *Array[T]) ReserveUntil(n int) { arr.seq().reserveUntil(n) }

// IndexFunc returns the index of the first element satisfying f, or -1.
func (arr *Array[T]) IndexFunc(f func(T) bool) int { return arr.seq().indexFunc(f) }

// Slice returns the live elements, aliasing the arena memory.
func (arr *Array[T]) Slice() []T { return arr.seq().live() }

// SortFunc sorts the live elements with cmp.
func (arr *Array[T]) SortFunc(cmp func(a, b T) int) { slices.SortFunc(arr.Slice(), cmp) }

// Clear drops all elements without touching the storage.
func (arr *Array[T]) Clear() { arr.count = 0 }

// Len returns the number of live elements.
func (arr *Array[T]) Len() int { return int(arr.count) }

// Cap returns the capacity given to NewArray.
func (arr *Array[T]) Cap() int { return int(arr.capacity) }

// IsFull reports whether Len() == Cap().
func (arr *Array[T]) IsFull() bool { return arr.count == arr.capacity }

// IsEmpty reports whether Len() == 0.
func (arr *Array[T]) IsEmpty() bool { return arr.count == 0 }

// All yields index and element pointer for the live elements in order.
func (arr *Array[T]) All() iter.Seq2[int, *T] { return arr.seq().all() }

// Values yields copies of the live elements in order.
func (arr *Array[T]) Values() iter.Seq[T] { return arr.seq().values() }

func (arr *Array[T]) nonEmpty() seq[T] {
	if arr.count == 0 {
		fatal(nil, ErrEmpty)
	}
	return arr.seq()
}
