package arena

import (
	"sync"
)

// SafeArena is a mutex-protected wrapper around Arena for callers that must
// share one arena between goroutines. Containers created through it are not
// protected: guard them with With, or give each goroutine its own Arena.
type SafeArena struct {
	mu sync.Mutex
	a  *Arena
}

// NewSafeArena creates a new thread-safe arena owning size bytes.
func NewSafeArena(size int, opts ...Option) *SafeArena {
	return &SafeArena{a: NewArena(size, opts...)}
}

// AllocBytes thread-safely allocates n bytes and returns a slice pointing to them.
// Returns nil if n == 0.
func (s *SafeArena) AllocBytes(n int) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.AllocBytes(n)
}

// With runs fn with exclusive access to the underlying arena.
func (s *SafeArena) With(fn func(a *Arena)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.a)
}

// Reset thread-safely makes the whole capacity available again.
func (s *SafeArena) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.a.Reset()
}

// Release thread-safely frees the backing memory.
func (s *SafeArena) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Release()
}

// SafeAlloc thread-safely returns a pointer to a zeroed T stored inside the arena.
func SafeAlloc[T any](s *SafeArena) *T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return AllocZeroed[T](s.a)
}

// SafeAllocSlice thread-safely allocates a zeroed slice of n elements of type T.
func SafeAllocSlice[T any](s *SafeArena, n int) []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return AllocSliceZeroed[T](s.a, n)
}

// SizeInUse thread-safely returns the number of bytes currently allocated.
func (s *SafeArena) SizeInUse() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.SizeInUse()
}

// Capacity thread-safely returns the byte budget.
func (s *SafeArena) Capacity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Capacity()
}

// Utilization thread-safely returns the ratio of bytes in use to capacity.
func (s *SafeArena) Utilization() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Utilization()
}

// Metrics thread-safely returns a snapshot of arena statistics.
func (s *SafeArena) Metrics() ArenaMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Metrics()
}
