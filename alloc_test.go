package arena

import (
	"fmt"
	"reflect"
	"testing"
	"unsafe"
)

type testStruct struct {
	a int64
	b int32
	c int16
	d int8
}

func TestAlloc(t *testing.T) {
	a := newTestArena(t, 1024)

	// Fresh arena memory is zero.
	ptr := Alloc[int](a)
	if ptr == nil {
		t.Fatal("Alloc[int] returned nil")
	}
	if *ptr != 0 {
		t.Errorf("Alloc[int] value = %d, want 0 on a fresh arena", *ptr)
	}

	s := Alloc[testStruct](a)
	if s == nil {
		t.Fatal("Alloc[testStruct] returned nil")
	}
	if *s != (testStruct{}) {
		t.Errorf("Alloc[testStruct] on a fresh arena = %+v, want zero", *s)
	}

	*ptr = 42
	s.a = 100
	if *ptr != 42 || s.a != 100 {
		t.Error("Could not write to allocated memory")
	}
	if want := 8 + 16; a.SizeInUse() != want {
		t.Errorf("SizeInUse = %d, want %d", a.SizeInUse(), want)
	}
}

func TestAllocZeroed(t *testing.T) {
	a := newTestArena(t, 1024)
	Alloc[int64](a)
	*Alloc[int64](a) = -1
	a.Reset()
	a.AllocBytes(8)

	ptr := AllocZeroed[int64](a)
	if *ptr != 0 {
		t.Errorf("AllocZeroed[int64] value = %d, want 0", *ptr)
	}
}

func TestAllocZeroSized(t *testing.T) {
	a := newTestArena(t, 64)
	p := Alloc[struct{}](a)
	if p == nil {
		t.Fatal("Alloc[struct{}] returned nil")
	}
	if a.SizeInUse() != 0 {
		t.Errorf("zero sized allocation used %d bytes", a.SizeInUse())
	}
}

func TestAllocSlice(t *testing.T) {
	a := newTestArena(t, 1024)

	slice := AllocSlice[int](a, 10)
	if len(slice) != 10 || cap(slice) != 10 {
		t.Errorf("AllocSlice[int](10) len/cap = %d/%d, want 10/10", len(slice), cap(slice))
	}

	if empty := AllocSlice[int](a, 0); empty != nil {
		t.Errorf("AllocSlice[int](0) = %v, want nil", empty)
	}
	if negative := AllocSlice[int](a, -1); negative != nil {
		t.Errorf("AllocSlice[int](-1) = %v, want nil", negative)
	}

	for i := range slice {
		slice[i] = i * 2
	}
	for i := range slice {
		if slice[i] != i*2 {
			t.Errorf("slice[%d] = %d, want %d", i, slice[i], i*2)
		}
	}
}

func TestAllocSliceContiguous(t *testing.T) {
	a := newTestArena(t, 1024)
	a.AllocBytes(3)

	type vertex struct{ X, Y, Z float32 }
	verts := AllocSlice[vertex](a, 5)
	src := []vertex{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}, {10, 11, 12}, {13, 14, 15}}

	// A byte copy behaves like a copy into a native array.
	raw := unsafe.Slice((*byte)(unsafe.Pointer(&src[0])), len(src)*int(unsafe.Sizeof(vertex{})))
	dst := unsafe.Slice((*byte)(unsafe.Pointer(&verts[0])), len(raw))
	copy(dst, raw)

	for i := range src {
		if verts[i] != src[i] {
			t.Errorf("verts[%d] = %v, want %v", i, verts[i], src[i])
		}
	}
	if off := a.Offset(unsafe.Pointer(&verts[0])); off != 8 {
		t.Errorf("slice offset = %d, want 8", off)
	}
}

func TestAllocSliceTooLarge(t *testing.T) {
	a := newTestArena(t, 1024)
	requireFatal(t, ErrArenaFull, func() { AllocSlice[int64](a, 129) })
	requireFatal(t, ErrArenaFull, func() { AllocSlice[[1 << 20]byte](a, 1<<13) })
	if a.SizeInUse() != 0 {
		t.Errorf("failed AllocSlice used %d bytes", a.SizeInUse())
	}
}

func TestAllocSliceZeroed(t *testing.T) {
	a := newTestArena(t, 1024)
	dirty := AllocSlice[int](a, 5)
	for i := range dirty {
		dirty[i] = -1
	}
	a.Reset()

	slice := AllocSliceZeroed[int](a, 5)
	if len(slice) != 5 {
		t.Errorf("AllocSliceZeroed[int](5) length = %d, want 5", len(slice))
	}
	for i, v := range slice {
		if v != 0 {
			t.Errorf("slice[%d] = %d, want 0 (zeroed)", i, v)
		}
	}
}

func TestAllocRejectsPointers(t *testing.T) {
	type withString struct {
		ID   int
		Name string
	}
	type nested struct {
		Pos  [2]float64
		Tags [4][]byte
	}

	tests := []struct {
		name  string
		alloc func(a *Arena)
	}{
		{"pointer", func(a *Arena) { Alloc[*int](a) }},
		{"string", func(a *Arena) { Alloc[string](a) }},
		{"struct with string", func(a *Arena) { AllocZeroed[withString](a) }},
		{"nested slice", func(a *Arena) { AllocSlice[nested](a, 2) }},
		{"map", func(a *Arena) { Alloc[map[int]int](a) }},
		{"interface", func(a *Arena) { Alloc[any](a) }},
		{"array of sequences", func(a *Arena) { NewArray[[]int](a, 4) }},
		{"map with string keys", func(a *Arena) { NewMap[string, int](a, 4) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestArena(t, 1024)
			requireFatal(t, ErrNotDiscardable, func() { tt.alloc(a) })
			if a.SizeInUse() != 0 {
				t.Errorf("rejected type used %d bytes", a.SizeInUse())
			}
		})
	}
}

func TestPointerFree(t *testing.T) {
	type point struct{ X, Y int32 }
	type record struct {
		ID    uint64
		Flags [4]bool
		Pos   point
		Empty [0]*int
	}

	tests := []struct {
		value any
		want  bool
	}{
		{int64(0), true},
		{complex128(0), true},
		{[16]byte{}, true},
		{record{}, true},
		{struct{}{}, true},
		{"", false},
		{[]int{}, false},
		{&point{}, false},
		{[2]*int{}, false},
		{make(chan int), false},
		{func() {}, false},
		{unsafe.Pointer(nil), false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%T", tt.value), func(t *testing.T) {
			typ := reflect.TypeOf(tt.value)
			if got := pointerFree(typ); got != tt.want {
				t.Errorf("pointerFree(%s) = %v, want %v", typ, got, tt.want)
			}
		})
	}
}

func TestAllocAlignment(t *testing.T) {
	a := newTestArena(t, 1024)
	a.AllocBytes(1)

	ptrs := make([]*int64, 10)
	for i := range ptrs {
		ptrs[i] = Alloc[int64](a)
		addr := uintptr(unsafe.Pointer(ptrs[i]))
		if addr%unsafe.Alignof(int64(0)) != 0 {
			t.Errorf("Pointer %d not properly aligned: %x", i, addr)
		}
		a.AllocBytes(i + 1)
	}
}

func BenchmarkAlloc(b *testing.B) {
	a := newTestArena(b, MiB)

	b.Run("Alloc[int]", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			Alloc[int](a)
			if i%1000 == 999 {
				a.Reset()
			}
		}
		a.Reset()
	})

	b.Run("AllocZeroed[int]", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			AllocZeroed[int](a)
			if i%1000 == 999 {
				a.Reset()
			}
		}
		a.Reset()
	})
}

func BenchmarkAllocSlice(b *testing.B) {
	a := newTestArena(b, MiB)
	sizes := []int{10, 100, 1000}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("AllocSlice-%d", size), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				AllocSlice[int](a, size)
				if i%100 == 99 {
					a.Reset()
				}
			}
			a.Reset()
		})

		b.Run(fmt.Sprintf("AllocSliceZeroed-%d", size), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				AllocSliceZeroed[int](a, size)
				if i%100 == 99 {
					a.Reset()
				}
			}
			a.Reset()
		})
	}
}
