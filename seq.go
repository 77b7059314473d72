package arena

import (
	"iter"
	"slices"
)

// seq is the shared implementation behind InlineArray and Array: a storage
// window of cap elements plus a pointer to the live count stored in the
// owning container.
type seq[T any] struct {
	elems []T
	count *uint32
}

func (s seq[T]) len() int { return int(*s.count) }

func (s seq[T]) check(i int) {
	if i < 0 || i >= s.len() {
		fatalf(nil, ErrOutOfRange, "index %d, count %d", i, s.len())
	}
}

func (s seq[T]) at(i int) *T {
	s.check(i)
	return &s.elems[i]
}

func (s seq[T]) push(v T) int {
	n := s.len()
	if n >= len(s.elems) {
		fatalf(nil, ErrFull, "capacity %d", len(s.elems))
	}
	s.elems[n] = v
	*s.count++
	return n
}

// pushAll checks room for every value before writing any of them.
func (s seq[T]) pushAll(vs []T) {
	n := s.len()
	if len(vs) > len(s.elems)-n {
		fatalf(nil, ErrFull, "appending %d to %d of %d", len(vs), n, len(s.elems))
	}
	copy(s.elems[n:], vs)
	*s.count += uint32(len(vs))
}

func (s seq[T]) removeUnordered(i int) {
	s.check(i)
	last := s.len() - 1
	s.elems[i] = s.elems[last]
	*s.count--
}

func (s seq[T]) removeOrdered(i int) {
	s.check(i)
	n := s.len()
	copy(s.elems[i:n-1], s.elems[i+1:n])
	*s.count--
}

func (s seq[T]) pop() T {
	if s.len() == 0 {
		fatal(nil, ErrEmpty)
	}
	*s.count--
	return s.elems[s.len()]
}

// reserve appends n zero values.
func (s seq[T]) reserve(n int) {
	cur := s.len()
	if n < 0 || n > len(s.elems)-cur {
		fatalf(nil, ErrFull, "reserving %d with %d of %d", n, cur, len(s.elems))
	}
	clear(s.elems[cur : cur+n])
	*s.count += uint32(n)
}

// reserveUntil grows the live range to n elements, zeroing the new ones.
// It never shrinks.
func (s seq[T]) reserveUntil(n int) {
	if n > s.len() {
		s.reserve(n - s.len())
	}
}

func (s seq[T]) live() []T {
	return s.elems[:s.len():s.len()]
}

func (s seq[T]) indexFunc(f func(T) bool) int {
	return slices.IndexFunc(s.live(), f)
}

func (s seq[T]) all() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for i := 0; i < s.len(); i++ {
			if !yield(i, &s.elems[i]) {
				return
			}
		}
	}
}

func (s seq[T]) values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < s.len(); i++ {
			if !yield(s.elems[i]) {
				return
			}
		}
	}
}
