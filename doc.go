// Package arena implements a fixed-budget bump allocator (memory arena) and a
// family of containers that live inside it.
//
// # Overview
//
// An Arena owns one contiguous buffer sized up front for a usage class
// (per frame, per match, per reload, permanent). Allocations bump an offset,
// rounded to 8 bytes, and are never freed one by one: Reset reclaims the
// whole arena in O(1) at an epoch boundary. Running out of space is a sizing
// bug and halts the program instead of returning an error.
//
// # Basic Usage
//
//	a := arena.NewArena(64*arena.KiB, arena.WithName("frame"))
//	defer a.Release()
//
//	ptr := arena.AllocZeroed[Particle](a)
//	particles := arena.NewArray[Particle](a, 1024)
//	particles.Append(Particle{X: 1})
//
//	a.Reset() // every pointer above is now invalid
//
// # Containers
//
// Every container comes in two flavours. The inline flavour takes its
// capacity from an array type parameter and stores its elements in the
// struct itself; the zero value is ready to use. The runtime flavour takes
// its capacity as an argument and stores its elements after a small header
// in a single arena allocation.
//
//	InlineArray[T, [N]T]                       Array[T]
//	InlineMap[K, V, [N]Entry[K, V]]            Map[K, V]
//	InlineHashMap[K, V, [N]HashEntry[K, V]]    HashMap[K, V]
//	InlineSparseSet[T, [N]Slot[T]]             SparseSet[T]
//
// Sequences support O(1) unordered and O(n) ordered removal. Maps scan
// linearly and are meant for tens of entries; hash maps probe linearly
// from an xxhash of the key and hold up to 70% of their slots. Sparse sets
// hand out generational IDs that turn stale once their slot is removed or
// cleared.
//
// # Publishing Structures
//
// The first allocation of an arena can be a name index. Structures
// published in it can be fetched later by anyone holding the arena:
//
//	idx := arena.NewInlineIndex[[4]arena.IndexEntry](a)
//	units := arena.NewArray[Unit](a, 64)
//	arena.Publish(a, idx, "units", units)
//
//	// elsewhere
//	units := arena.Fetch[arena.Array[Unit], arena.InlineIndex[[4]arena.IndexEntry]](a, "units")
//
// Each entry records a tag of the published type, so fetching with the
// wrong type fails loudly instead of reading garbage.
//
// # Important Notes
//
//   - Types stored in an arena must not contain Go pointers (strings,
//     slices, maps, interfaces, pointers). Use fixed-size arrays, offsets
//     or Names instead. Violations are fatal.
//   - Memory is zero when the arena is created but is not zeroed again by
//     Reset. Alloc and AllocSlice return whatever bytes are there.
//   - Fatal conditions log and then panic with an error wrapping one of the
//     Err* sentinels. Arena operations log through the arena's slog.Logger;
//     container operations log through slog.Default(), because a container
//     stored in an arena cannot point back to it.
//   - Nothing here is goroutine-safe except SafeArena.
//
// # Metrics and Monitoring
//
//	m := a.Metrics()
//	fmt.Printf("Utilization: %.2f%%\n", m.Utilization*100)
//	fmt.Printf("High water: %d of %d bytes\n", m.HighWater, m.Capacity)
package arena
