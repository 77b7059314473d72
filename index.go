package arena

import (
	"reflect"
	"unsafe"

	"github.com/cespare/xxhash/v2"
)

// Name is the key of an arena index: the 64-bit xxhash of a string name.
// It compares by contents and holds no pointers, so it can live in an arena.
type Name uint64

// NameOf hashes s into a Name.
func NameOf(s string) Name {
	return Name(xxhash.Sum64String(s))
}

// Ref locates a published structure: its offset from the arena start and a
// tag identifying its Go type.
type Ref struct {
	Off uint32
	Tag uint32
}

// IndexEntry is one published name.
type IndexEntry = Entry[Name, Ref]

// InlineIndex is an index with a capacity fixed by S, which must be [N]IndexEntry.
type InlineIndex[S any] = InlineMap[Name, Ref, S]

// Index is an index with a capacity chosen at creation.
type Index = Map[Name, Ref]

// nameIndex is satisfied by pointers to InlineIndex and Index.
type nameIndex interface {
	Get(Name) *Ref
	Lookup(Name) (*Ref, bool)
}

// NewInlineIndex creates the name index of a. It must be the first
// allocation made in a since creation or the last Reset.
func NewInlineIndex[S any](a *Arena) *InlineIndex[S] {
	mustBeFirst(a)
	return NewInlineMap[Name, Ref, S](a)
}

// NewIndex creates a runtime-capacity name index for a. It must be the first
// allocation made in a since creation or the last Reset.
func NewIndex(a *Arena, capacity int) *Index {
	mustBeFirst(a)
	return NewMap[Name, Ref](a, capacity)
}

func mustBeFirst(a *Arena) {
	a.panicIfReleased()
	if !a.IsEmpty() {
		fatalf(a.log, ErrNotEmpty, "%d bytes already in use", a.SizeInUse())
	}
}

// Publish records e under name in index so that it can be fetched later from
// any scope holding only the arena. index must sit at the start of a and e
// must be memory of a.
func Publish[E any, M any, PM interface {
	*M
	nameIndex
}](a *Arena, index PM, name string, e *E) {
	if off := a.Offset(unsafe.Pointer(index)); off != 0 {
		fatalf(a.log, ErrNotEmpty, "index at offset %d", off)
	}
	if !a.contains(unsafe.Pointer(e)) {
		fatalf(a.log, ErrForeignPointer, "publishing %q", name)
	}
	*index.Get(NameOf(name)) = Ref{
		Off: uint32(a.Offset(unsafe.Pointer(e))),
		Tag: typeTag[E](),
	}
}

// Fetch returns the structure published under name. M names the index type
// that was created first in the arena and E the published type. A missing
// name or a different E is fatal. The result is invalid after a.Reset().
func Fetch[E any, M any, PM interface {
	*M
	nameIndex
}](a *Arena, name string) *E {
	e, ok := Lookup[E, M, PM](a, name)
	if !ok {
		fatalf(a.log, ErrNotPublished, "%q", name)
	}
	return e
}

// Lookup is Fetch reporting an unknown name with false instead of failing.
// A type mismatch is still fatal.
func Lookup[E any, M any, PM interface {
	*M
	nameIndex
}](a *Arena, name string) (*E, bool) {
	a.panicIfReleased()
	if a.IsEmpty() {
		return nil, false
	}
	index := PM((*M)(a.at(0)))
	ref, ok := index.Lookup(NameOf(name))
	if !ok {
		return nil, false
	}
	if want := typeTag[E](); ref.Tag != want {
		fatalf(a.log, ErrTypeMismatch, "%q published as tag %#x, fetched as %s", name, ref.Tag, reflect.TypeFor[E]())
	}
	return (*E)(a.at(int(ref.Off))), true
}

// typeTag identifies E by its package path and name.
func typeTag[E any]() uint32 {
	t := reflect.TypeFor[E]()
	return uint32(xxhash.Sum64String(t.PkgPath() + "." + t.String()))
}
