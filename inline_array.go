package arena

import (
	"iter"
	"reflect"
	"slices"
	"unsafe"
)

// InlineArray is a sequence whose capacity is fixed by its type: S must be an
// array type [N]T, and the N elements are stored inline in the struct. The
// zero value is an empty array ready to use, so an InlineArray can be a local,
// a struct field, or an arena allocation made with NewInlineArray.
//
//	var ids arena.InlineArray[uint32, [64]uint32]
//	ids.Append(7)
//
// Exceeding the capacity is fatal; the array never grows.
type InlineArray[T any, S any] struct {
	count uint32
	elems S
}

// NewInlineArray allocates an empty InlineArray in a.
func NewInlineArray[T any, S any](a *Arena) *InlineArray[T, S] {
	mustStorage[T, S](a)
	arr := Alloc[InlineArray[T, S]](a)
	arr.count = 0
	return arr
}

func (arr *InlineArray[T, S]) seq() seq[T] {
	return seq[T]{elems: inlineStorage[T](&arr.elems), count: &arr.count}
}

// Append stores v after the last element and returns its index.
func (arr *InlineArray[T, S]) Append(v T) int { return arr.seq().push(v) }

// AppendSlice appends every value of vs in order. It fails before writing
// anything if vs does not fit.
func (arr *InlineArray[T, S]) AppendSlice(vs ...T) { arr.seq().pushAll(vs) }

// At returns a pointer to element i.
func (arr *InlineArray[T, S]) At(i int) *T { return arr.seq().at(i) }

// Get returns a copy of element i.
func (arr *InlineArray[T, S]) Get(i int) T { return *arr.seq().at(i) }

// Set overwrites element i.
func (arr *InlineArray[T, S]) Set(i int, v T) { *arr.seq().at(i) = v }

// RemoveUnordered moves the last element into slot i. O(1), reorders.
func (arr *InlineArray[T, S]) RemoveUnordered(i int) { arr.seq().removeUnordered(i) }

// RemoveOrdered shifts the elements after i one slot left. O(n), keeps order.
func (arr *InlineArray[T, S]) RemoveOrdered(i int) { arr.seq().removeOrdered(i) }

// Front returns a pointer to the first element.
func (arr *InlineArray[T, S]) Front() *T { return arr.nonEmpty().at(0) }

// Back returns a pointer to the last element.
func (arr *InlineArray[T, S]) Back() *T {
	s := arr.nonEmpty()
	return s.at(s.len() - 1)
}

// Pop removes and returns the last element.
func (arr *InlineArray[T, S]) Pop() T { return arr.seq().pop() }

// Reserve appends n zero values.
func (arr *InlineArray[T, S]) Reserve(n int) { arr.seq().reserve(n) }

// ReserveUntil appends zero values until the array holds n elements.
func (arr *InlineArray[T, S]) ReserveUntil(n int) { arr.seq().reserveUntil(n) }

// IndexFunc returns the index of the first element satisfying f, or -1.
func (arr *InlineArray[T, S]) IndexFunc(f func(T) bool) int { return arr.seq().indexFunc(f) }

// Slice returns the live elements. The slice aliases the array storage and
// is invalidated by any mutation of the count.
func (arr *InlineArray[T, S]) Slice() []T { return arr.seq().live() }

// SortFunc sorts the live elements with cmp.
func (arr *InlineArray[T, S]) SortFunc(cmp func(a, b T) int) { slices.SortFunc(arr.Slice(), cmp) }

// Clear drops all elements without touching the storage.
func (arr *InlineArray[T, S]) Clear() { arr.count = 0 }

// Len returns the number of live elements.
func (arr *InlineArray[T, S]) Len() int { return int(arr.count) }

// Cap returns N.
func (arr *InlineArray[T, S]) Cap() int { return len(inlineStorage[T](&arr.elems)) }

// IsFull reports whether Len() == Cap().
func (arr *InlineArray[T, S]) IsFull() bool { return arr.Len() == arr.Cap() }

// IsEmpty reports whether Len() == 0.
func (arr *InlineArray[T, S]) IsEmpty() bool { return arr.count == 0 }

// All yields index and element pointer for the live elements in order.
// Mutating the array while iterating is undefined.
func (arr *InlineArray[T, S]) All() iter.Seq2[int, *T] { return arr.seq().all() }

// Values yields copies of the live elements in order.
func (arr *InlineArray[T, S]) Values() iter.Seq[T] { return arr.seq().values() }

func (arr *InlineArray[T, S]) nonEmpty() seq[T] {
	if arr.count == 0 {
		fatal(nil, ErrEmpty)
	}
	return arr.seq()
}

// inlineStorage views the inline storage s as a slice of its N elements.
// Only sizes and alignment are checked here; mustStorage does the full check.
func inlineStorage[T any, S any](s *S) []T {
	var zt T
	var zs S
	ts, ss := unsafe.Sizeof(zt), unsafe.Sizeof(zs)
	if ts == 0 {
		return unsafe.Slice((*T)(unsafe.Pointer(s)), zeroSizedLen[S]())
	}
	if ss%ts != 0 || (ss > 0 && unsafe.Alignof(zs) != unsafe.Alignof(zt)) {
		fatalf(nil, ErrBadStorage, "%T for %T", zs, zt)
	}
	return unsafe.Slice((*T)(unsafe.Pointer(s)), ss/ts)
}

func zeroSizedLen[S any]() int {
	st := reflect.TypeFor[S]()
	if st.Kind() != reflect.Array {
		fatalf(nil, ErrBadStorage, "%s", st)
	}
	return st.Len()
}

// mustStorage fails unless S is exactly [N]T.
func mustStorage[T any, S any](a *Arena) {
	st, et := reflect.TypeFor[S](), reflect.TypeFor[T]()
	if st.Kind() != reflect.Array || st.Elem() != et {
		fatalf(a.log, ErrBadStorage, "%s for %s", st, et)
	}
}
