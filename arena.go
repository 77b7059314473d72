package arena

import (
	"log/slog"
	"math"
	"reflect"
	"unsafe"
)

// Alignment is the granularity every allocation is rounded up to.
const Alignment = 8

// Size helpers for choosing arena budgets.
const (
	KiB = 1 << 10
	MiB = 1 << 20
	GiB = 1 << 30
)

// MaxSize is the largest arena budget. Offsets inside an arena fit in 32 bits.
const MaxSize = math.MaxUint32

// Arena is a bump allocator over one contiguous buffer of fixed size.
// Not goroutine-safe. Use SafeArena or one arena per goroutine.
type Arena struct {
	buf     []byte
	used    int
	release func([]byte) error // unmaps buf; nil for heap backing

	name string
	mmap bool
	log  *slog.Logger

	// types already verified to be pointer free
	checked map[reflect.Type]bool

	stats counters
}

type counters struct {
	allocs    uint64
	resets    uint64
	padding   uint64
	highWater int
}

// NewArena creates an arena owning exactly size bytes, zeroed.
// size must be in (0, MaxSize].
func NewArena(size int, opts ...Option) *Arena {
	a := &Arena{log: slog.Default()}
	for _, opt := range opts {
		opt(a)
	}
	if name := a.name; name != "" {
		a.log = a.log.With("arena", name)
	}
	if size <= 0 || uint64(size) > MaxSize {
		fatalf(a.log, ErrInvalidSize, "arena size %d", size)
	}

	if a.mmap {
		buf, release, err := mapAnon(size)
		if err != nil {
			fatalf(a.log, ErrBacking, "%d bytes: %v", size, err)
		}
		a.buf, a.release = buf, release
	} else {
		a.buf = make([]byte, size)
	}
	return a
}

// AllocBytes returns n bytes from the arena and advances the bump offset by n
// rounded up to Alignment. Running out of capacity is fatal; the offset is
// left untouched in that case.
// Returns nil if n == 0.
func (a *Arena) AllocBytes(n int) []byte {
	a.panicIfReleased()
	if n < 0 {
		fatalf(a.log, ErrInvalidSize, "allocation of %d bytes", n)
	}
	if n == 0 {
		return nil
	}

	// n is checked against capacity first so the rounding cannot overflow.
	if n > len(a.buf)-a.used {
		a.full(n)
	}
	aligned := alignUp(n)
	if aligned > len(a.buf)-a.used {
		a.full(n)
	}

	start := a.used
	a.used += aligned
	a.stats.allocs++
	a.stats.padding += uint64(aligned - n)
	if a.used > a.stats.highWater {
		a.stats.highWater = a.used
	}
	return a.buf[start : start+n : start+n]
}

func (a *Arena) full(requested int) {
	fatal(a.log, ErrArenaFull,
		"op", "alloc",
		"requested", requested,
		"used", a.used,
		"capacity", len(a.buf),
	)
}

// Reset makes the whole capacity available again in O(1).
// Nothing allocated before is zeroed or finalized: callers must drop every
// reference into the arena and treat reused memory as uninitialized.
func (a *Arena) Reset() {
	a.panicIfReleased()
	a.used = 0
	a.stats.resets++
}

// Release frees the backing buffer and makes the arena unusable.
// Calling it again is a no-op; any other operation afterwards is fatal.
func (a *Arena) Release() error {
	if a.buf == nil {
		return nil
	}
	buf, release := a.buf, a.release
	a.buf, a.release = nil, nil
	a.used = 0
	if release != nil {
		return release(buf)
	}
	return nil
}

// Offset returns the distance of p from the start of the arena.
// p must point into the arena.
func (a *Arena) Offset(p unsafe.Pointer) int {
	a.panicIfReleased()
	base := uintptr(a.base())
	addr := uintptr(p)
	if addr < base || addr >= base+uintptr(len(a.buf)) {
		fatalf(a.log, ErrForeignPointer, "%#x", addr)
	}
	return int(addr - base)
}

// contains reports whether p points into the arena.
func (a *Arena) contains(p unsafe.Pointer) bool {
	base := uintptr(a.base())
	addr := uintptr(p)
	return addr >= base && addr < base+uintptr(len(a.buf))
}

func (a *Arena) base() unsafe.Pointer {
	return unsafe.Pointer(unsafe.SliceData(a.buf))
}

// at returns the address off bytes into the arena.
func (a *Arena) at(off int) unsafe.Pointer {
	return unsafe.Add(a.base(), off)
}

func (a *Arena) panicIfReleased() {
	if a.buf == nil {
		fatal(a.log, ErrReleased)
	}
}

// alignUp rounds n up to Alignment.
func alignUp(n int) int {
	const mask = Alignment - 1
	return (n + mask) &^ mask
}
