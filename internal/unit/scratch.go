package unit

import (
	"bytes"
	"strconv"

	arena "github.com/pavanmanishd/arenakit"
)

// WordSize is the fixed width of scratch keys and values.
const WordSize = 16

// Word is a short text stored by value so it can live in an arena.
type Word [WordSize]byte

// WordOf copies s into a Word, truncating it to WordSize bytes.
func WordOf(s string) Word {
	var w Word
	copy(w[:], s)
	return w
}

func (w Word) String() string {
	if i := bytes.IndexByte(w[:], 0); i >= 0 {
		return string(w[:i])
	}
	return string(w[:])
}

// ScratchSlots is the number of keys a unit can remember.
const ScratchSlots = 8

// Scratch is the memory one unit keeps across ticks of a match.
type Scratch = arena.InlineMap[Word, Word, [ScratchSlots]arena.Entry[Word, Word]]

var (
	keyTicks = WordOf("ticks")
	keyLast  = WordOf("last")
)

// count increments the decimal counter stored under key and returns its new value.
func count(s *Scratch, key Word) int {
	w := s.Get(key)
	n, _ := strconv.Atoi(w.String())
	n++
	*w = WordOf(strconv.Itoa(n))
	return n
}
