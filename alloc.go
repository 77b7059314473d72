package arena

import (
	"reflect"
	"unsafe"
)

// Alloc returns a pointer to a T stored inside the arena.
// The memory is not initialized: it is zero only if this region was never
// handed out since the arena was created.
func Alloc[T any](a *Arena) *T {
	var zero T
	return allocRaw[T](a, int(unsafe.Sizeof(zero)))
}

// AllocZeroed returns a pointer to a zeroed T stored inside the arena.
func AllocZeroed[T any](a *Arena) *T {
	p := Alloc[T](a)
	*p = *new(T)
	return p
}

// AllocSlice allocates n contiguous elements of type T inside the arena.
// The elements are not initialized. Returns nil if n <= 0.
func AllocSlice[T any](a *Arena, n int) []T {
	if n <= 0 {
		return nil
	}
	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	if elemSize > 0 && uint64(n) > MaxSize/uint64(elemSize) {
		fatalf(a.log, ErrArenaFull, "%d elements of %d bytes", n, elemSize)
	}
	return unsafe.Slice(allocRaw[T](a, elemSize*n), n)
}

// AllocSliceZeroed allocates n zeroed elements of type T inside the arena.
func AllocSliceZeroed[T any](a *Arena, n int) []T {
	s := AllocSlice[T](a, n)
	clear(s)
	return s
}

// allocRaw reserves size bytes and views them as a T. size may exceed
// sizeof(T) for headers followed by a trailing element region.
func allocRaw[T any](a *Arena, size int) *T {
	mustDiscard[T](a)
	if size == 0 {
		return new(T)
	}
	b := a.AllocBytes(size)
	return (*T)(unsafe.Pointer(unsafe.SliceData(b)))
}

// mustDiscard fails unless T can be dropped by Reset without cleanup and
// without hiding pointers from the garbage collector.
func mustDiscard[T any](a *Arena) {
	t := reflect.TypeFor[T]()
	if a.checked == nil {
		a.checked = make(map[reflect.Type]bool)
	}
	ok, seen := a.checked[t]
	if !seen {
		ok = pointerFree(t)
		a.checked[t] = ok
	}
	if !ok {
		fatalf(a.log, ErrNotDiscardable, "%s", t)
	}
}

// pointerFree reports whether values of t contain no Go pointers.
func pointerFree(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return t.Len() == 0 || pointerFree(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if !pointerFree(t.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
