package arena

import (
	"runtime"
	"testing"
)

// BenchmarkRealisticUsage tests scenarios where arena should excel
func BenchmarkRealisticUsage(b *testing.B) {

	// Many small allocations with per-frame cleanup
	b.Run("ManySmallAllocs/Arena", func(b *testing.B) {
		a := newTestArena(b, 64*KiB)
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			for j := 0; j < 100; j++ {
				a.AllocBytes(64)
			}
			a.Reset()
		}
	})

	b.Run("ManySmallAllocs/Builtin", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			objects := make([][]byte, 100)
			for j := 0; j < 100; j++ {
				objects[j] = make([]byte, 64)
			}
			if i%10 == 0 {
				runtime.GC()
			}
		}
	})

	type TestStruct struct {
		ID   int64
		Data [56]byte // Total 64 bytes
	}

	b.Run("StructAllocs/Arena", func(b *testing.B) {
		a := newTestArena(b, 64*KiB)
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			for j := 0; j < 50; j++ {
				s := Alloc[TestStruct](a)
				s.ID = int64(j)
			}
			a.Reset()
		}
	})

	b.Run("StructAllocs/Builtin", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			structs := make([]*TestStruct, 50)
			for j := 0; j < 50; j++ {
				structs[j] = &TestStruct{ID: int64(j)}
			}
			if i%10 == 0 {
				runtime.GC()
			}
		}
	})

	b.Run("BufferReuse/Arena", func(b *testing.B) {
		a := newTestArena(b, MiB)
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			for j := 0; j < 10; j++ {
				buf1 := a.AllocBytes(1024)
				buf2 := a.AllocBytes(2048)
				buf3 := a.AllocBytes(512)

				buf1[0] = byte(j)
				buf2[0] = byte(j)
				buf3[0] = byte(j)
			}
			a.Reset()
		}
	})

	b.Run("BufferReuse/Builtin", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			buffers := make([][]byte, 30)
			for j := 0; j < 10; j++ {
				buffers[j*3] = make([]byte, 1024)
				buffers[j*3+1] = make([]byte, 2048)
				buffers[j*3+2] = make([]byte, 512)

				buffers[j*3][0] = byte(j)
				buffers[j*3+1][0] = byte(j)
				buffers[j*3+2][0] = byte(j)
			}
			if i%5 == 0 {
				runtime.GC()
			}
		}
	})

	// Entity lists rebuilt every frame
	b.Run("FrameEntities/Arena", func(b *testing.B) {
		a := newTestArena(b, 64*KiB)
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			ents := NewArray[TestStruct](a, 256)
			for j := 0; j < 256; j++ {
				ents.Append(TestStruct{ID: int64(j)})
			}
			var sum int64
			for e := range ents.Values() {
				sum += e.ID
			}
			_ = sum
			a.Reset()
		}
	})

	b.Run("FrameEntities/Builtin", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			ents := make([]TestStruct, 0, 256)
			for j := 0; j < 256; j++ {
				ents = append(ents, TestStruct{ID: int64(j)})
			}
			var sum int64
			for _, e := range ents {
				sum += e.ID
			}
			_ = sum
		}
	})

	// Handle churn: generational IDs against a Go map keyed by counter
	b.Run("Handles/SparseSet", func(b *testing.B) {
		a := newTestArena(b, 64*KiB)
		set := NewSparseSet[int64](a, 1024)
		ids := make([]ID, 1024)
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			for j := range ids {
				ids[j] = set.Add(int64(j))
			}
			for _, id := range ids {
				set.Remove(id)
			}
		}
	})

	b.Run("Handles/Map", func(b *testing.B) {
		m := make(map[uint64]int64, 1024)
		var next uint64
		keys := make([]uint64, 1024)

		for i := 0; i < b.N; i++ {
			for j := range keys {
				next++
				keys[j] = next
				m[next] = int64(j)
			}
			for _, k := range keys {
				delete(m, k)
			}
		}
	})

	b.Run("NoGCPressure/Arena", func(b *testing.B) {
		a := newTestArena(b, MiB)
		runtime.GC()

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			a.AllocBytes(128)
			if i%1000 == 999 {
				a.Reset()
			}
		}
	})

	b.Run("NoGCPressure/Builtin", func(b *testing.B) {
		runtime.GC()

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_ = make([]byte, 128)
		}
	})
}
