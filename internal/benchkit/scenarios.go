package benchkit

import (
	"cmp"
	"errors"
	"fmt"
	"iter"
	"time"

	arena "github.com/pavanmanishd/arenakit"
)

// Entity is the record used by the create and fetch scenarios.
type Entity struct {
	ID   int32
	Name [12]byte
}

// Scenario is one measured workload. Run receives an arena that is reset
// before every run.
type Scenario struct {
	Name string
	Run  func(a *arena.Arena) error
}

// Result is the outcome of one scenario under one cache clearing method.
type Result struct {
	Worker     int
	Scenario   string
	Method     Method
	Iterations int
	Avg        time.Duration
}

// Bench measures s n times in a, disturbing caches with c before every run.
func Bench(a *arena.Arena, c *Clearer, m Method, s Scenario, n int) (Result, error) {
	avg, err := Measure(n, func() {
		c.Clear(m)
		a.Reset()
	}, func() error {
		return s.Run(a)
	})
	if err != nil {
		return Result{}, fmt.Errorf("%s (%s): %w", s.Name, m, err)
	}
	return Result{Scenario: s.Name, Method: m, Iterations: n, Avg: avg}, nil
}

const (
	iterateLen = 1024
	entityLen  = 64
	setLen     = 256
	sortLen    = 1024
	hashSlots  = 1024
)

type (
	inlineInts     = arena.InlineArray[int32, [iterateLen]int32]
	inlineEntities = arena.InlineArray[Entity, [entityLen]Entity]
	inlineIndex    = arena.InlineIndex[[4]arena.IndexEntry]
)

var errMismatch = errors.New("benchkit: read back a different value")

// Scenarios returns the built-in workloads. Each fits in a 64 KiB arena.
func Scenarios() []Scenario {
	return []Scenario{
		{"inline-iterate", inlineIterate},
		{"array-iterate", arrayIterate},
		{"inline-create-fetch", inlineCreateFetch},
		{"array-create-fetch", arrayCreateFetch},
		{"arena-reset", arenaReset},
		{"inline-sparse-set", inlineSparseSet},
		{"sparse-set", sparseSet},
		{"inline-hash-map", inlineHashMap},
		{"hash-map", hashMap},
		{"sort", sortArray},
	}
}

// FileScenario loads path into the arena on every run.
func FileScenario(path string) Scenario {
	return Scenario{
		Name: "read-file",
		Run: func(a *arena.Arena) error {
			_, err := arena.ReadFile(a, path)
			return err
		},
	}
}

func inlineIterate(a *arena.Arena) error {
	xs := arena.NewInlineArray[int32, [iterateLen]int32](a)
	return fillAndSum(xs)
}

func arrayIterate(a *arena.Arena) error {
	xs := arena.NewArray[int32](a, iterateLen)
	return fillAndSum(xs)
}

type int32Seq interface {
	Append(int32) int
	IsFull() bool
	Len() int
	Values() iter.Seq[int32]
}

var (
	_ int32Seq = (*inlineInts)(nil)
	_ int32Seq = (*arena.Array[int32])(nil)
)

func fillAndSum(xs int32Seq) error {
	for i := int32(0); !xs.IsFull(); i++ {
		xs.Append(i)
	}
	var sum int64
	for v := range xs.Values() {
		sum += int64(v)
	}
	if n := int64(xs.Len()); sum != n*(n-1)/2 {
		return fmt.Errorf("%w: sum %d of %d values", errMismatch, sum, n)
	}
	return nil
}

func entity(i int) Entity {
	e := Entity{ID: int32(i)}
	copy(e.Name[:], fmt.Sprintf("unit-%d", i))
	return e
}

func inlineCreateFetch(a *arena.Arena) error {
	idx := arena.NewInlineIndex[[4]arena.IndexEntry](a)
	es := arena.NewInlineArray[Entity, [entityLen]Entity](a)
	for i := range entityLen {
		es.Append(entity(i))
	}
	arena.Publish(a, idx, "entities", es)
	return checkInlineEntities(a)
}

func checkInlineEntities(a *arena.Arena) error {
	es := arena.Fetch[inlineEntities, inlineIndex](a, "entities")
	for i, e := range es.All() {
		if *e != entity(i) {
			return fmt.Errorf("%w: entity %d", errMismatch, i)
		}
	}
	return nil
}

func arrayCreateFetch(a *arena.Arena) error {
	idx := arena.NewIndex(a, 4)
	es := arena.NewArray[Entity](a, entityLen)
	for i := range entityLen {
		es.Append(entity(i))
	}
	arena.Publish(a, idx, "entities", es)
	return checkArrayEntities(a)
}

func checkArrayEntities(a *arena.Arena) error {
	es := arena.Fetch[arena.Array[Entity], arena.Index](a, "entities")
	for i, e := range es.All() {
		if *e != entity(i) {
			return fmt.Errorf("%w: entity %d", errMismatch, i)
		}
	}
	return nil
}

func arenaReset(a *arena.Arena) error {
	for i := range 64 {
		arena.AllocSlice[byte](a, 64+i)
	}
	a.Reset()
	if !a.IsEmpty() {
		return fmt.Errorf("%w: %d bytes in use after reset", errMismatch, a.SizeInUse())
	}
	return nil
}

type uint32Set interface {
	Add(uint32) arena.ID
	Remove(arena.ID) bool
	Contains(arena.ID) bool
	Len() int
}

func inlineSparseSet(a *arena.Arena) error {
	return churn(arena.NewInlineSparseSet[uint32, [setLen]arena.Slot[uint32]](a))
}

func sparseSet(a *arena.Arena) error {
	return churn(arena.NewSparseSet[uint32](a, setLen))
}

// churn fills the set, removes every other item and refills the holes.
func churn(set uint32Set) error {
	ids := make([]arena.ID, setLen)
	for i := range ids {
		ids[i] = set.Add(uint32(i))
	}
	for i := 0; i < len(ids); i += 2 {
		set.Remove(ids[i])
	}
	for i := 0; i < len(ids); i += 2 {
		stale := ids[i]
		ids[i] = set.Add(uint32(i))
		if set.Contains(stale) || ids[i].Index() != stale.Index() {
			return fmt.Errorf("%w: slot %d reused as %d", errMismatch, stale.Index(), ids[i].Index())
		}
	}
	if set.Len() != setLen {
		return fmt.Errorf("%w: %d items, want %d", errMismatch, set.Len(), setLen)
	}
	return nil
}

type counters interface {
	Get(uint32) *int64
	Lookup(uint32) (*int64, bool)
	Remove(uint32) bool
	Len() int
	Cap() int
}

func inlineHashMap(a *arena.Arena) error {
	return count(arena.NewInlineHashMap[uint32, int64, [hashSlots / 4]arena.HashEntry[uint32, int64]](a))
}

func hashMap(a *arena.Arena) error {
	return count(arena.NewHashMap[uint32, int64](a, hashSlots))
}

// count fills m to 70% of its slots, drops every even key and checks the
// odd ones survived the dead slots left behind.
func count(m counters) error {
	n := uint32(m.Cap() * 7 / 10)
	for k := range n {
		*m.Get(k*7919) += int64(k)
	}
	for k := uint32(0); k < n; k += 2 {
		m.Remove(k * 7919)
	}
	for k := range n {
		v, ok := m.Lookup(k * 7919)
		if ok != (k%2 == 1) || (ok && *v != int64(k)) {
			return fmt.Errorf("%w: key %d", errMismatch, k*7919)
		}
	}
	if m.Len() != int(n/2) {
		return fmt.Errorf("%w: %d keys, want %d", errMismatch, m.Len(), n/2)
	}
	return nil
}

func sortArray(a *arena.Arena) error {
	xs := arena.NewArray[int32](a, sortLen)
	// xorshift keeps the input identical across runs
	x := uint32(2463534242)
	for range sortLen {
		x ^= x << 13
		x ^= x >> 17
		x ^= x << 5
		xs.Append(int32(x))
	}
	xs.SortFunc(cmp.Compare[int32])
	s := xs.Slice()
	for i := 1; i < len(s); i++ {
		if s[i-1] > s[i] {
			return fmt.Errorf("%w: unsorted at %d", errMismatch, i)
		}
	}
	return nil
}
