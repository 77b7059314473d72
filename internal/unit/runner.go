package unit

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"unsafe"

	arena "github.com/pavanmanishd/arenakit"
)

type (
	matchIndex = arena.InlineIndex[[1]arena.IndexEntry]
	unitTable  = arena.Map[ID, Scratch]
)

const memoryName = "memory"

// ArenaSize returns the match arena size needed to remember maxUnits units.
func ArenaSize(maxUnits int) int {
	var idx matchIndex
	var e arena.Entry[ID, Scratch]
	header := (int(unsafe.Sizeof(idx)) + arena.Alignment - 1) &^ (arena.Alignment - 1)
	return header + 8 + maxUnits*int(unsafe.Sizeof(e)) + arena.Alignment
}

// Runner answers unit states with actions, remembering per-unit scratch
// memory until EndMatch. Not goroutine-safe.
type Runner struct {
	a        *arena.Arena
	maxUnits int
	log      *slog.Logger
	ticks    uint64
}

// NewRunner builds the match memory in a, which must be empty and at least
// ArenaSize(maxUnits) bytes.
func NewRunner(a *arena.Arena, maxUnits int, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}
	r := &Runner{a: a, maxUnits: maxUnits, log: log}
	r.newMatch()
	return r
}

func (r *Runner) newMatch() {
	idx := arena.NewInlineIndex[[1]arena.IndexEntry](r.a)
	mem := arena.NewMap[ID, Scratch](r.a, r.maxUnits)
	arena.Publish(r.a, idx, memoryName, mem)
}

// memory fetches the unit table from the match arena.
func (r *Runner) memory() *unitTable {
	return arena.Fetch[unitTable, matchIndex](r.a, memoryName)
}

// Scratch returns the memory of unit id, or nil if it has not acted this match.
func (r *Runner) Scratch(id ID) *Scratch {
	s, _ := r.memory().Lookup(id)
	return s
}

// Units returns the number of units remembered this match.
func (r *Runner) Units() int {
	return r.memory().Len()
}

// EndMatch forgets every unit. The arena is reset, so scratch pointers
// obtained before are invalid.
func (r *Runner) EndMatch() {
	r.log.Info("match ended", "units", r.Units(), "ticks", r.ticks)
	r.a.Reset()
	r.ticks = 0
	r.newMatch()
}

// Tick decides the action for one line of input.
func (r *Runner) Tick(line []byte) (ID, Action, error) {
	state, err := ParseState(line)
	if err != nil {
		return 0, Idle, err
	}
	self, err := state.Acting()
	if err != nil {
		return 0, Idle, err
	}
	kind, err := ParseKind(self.Type)
	if err != nil {
		return self.ID, Idle, err
	}

	mem := r.memory()
	if !mem.Contains(self.ID) && mem.IsFull() {
		return self.ID, Idle, fmt.Errorf("%w: unit %d, limit %d", ErrTooManyUnits, self.ID, mem.Cap())
	}
	r.ticks++
	return self.ID, Decide(kind, self, mem.Get(self.ID)), nil
}

// MaxLineSize is the longest unit state line Run accepts. Longer lines are
// logged and skipped.
const MaxLineSize = 1 << 20

// ErrLineTooLong is reported for input lines over MaxLineSize.
var ErrLineTooLong = errors.New("unit: state line too long")

// line is one input line handed from the reading goroutine to Run.
type line struct {
	b   []byte
	err error
}

// Run answers every line of in with one "<id>:<action>" line on out,
// flushing after each. Lines that cannot be answered are logged and
// skipped. Run returns nil at end of input, the error of a failed read or
// write, or ctx.Err() once ctx is done, even while waiting for input. If in
// is an io.Closer, Run closes it when it returns on cancellation so that the
// pending read is released.
func (r *Runner) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	lines := make(chan line)
	done := make(chan struct{})
	defer close(done)
	go readLines(in, lines, done)

	cancelled := func() error {
		if c, ok := in.(io.Closer); ok {
			c.Close()
		}
		return ctx.Err()
	}

	w := bufio.NewWriter(out)
	for {
		if ctx.Err() != nil {
			return cancelled()
		}
		var l line
		select {
		case <-ctx.Done():
			return cancelled()
		case l = <-lines:
		}
		switch {
		case errors.Is(l.err, io.EOF):
			return nil
		case errors.Is(l.err, ErrLineTooLong):
			r.log.Warn("skipping unit state", "err", l.err)
			continue
		case l.err != nil:
			return l.err
		}

		text := bytes.TrimSpace(l.b)
		if len(text) == 0 {
			continue
		}
		id, act, err := r.Tick(text)
		if err != nil {
			r.log.Warn("skipping unit state", "err", err, "line", string(text))
			continue
		}
		r.log.Debug("decided", "unit", id, "action", act)

		if _, err := fmt.Fprintf(w, "%d:%s\n", id, act); err != nil {
			return err
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
}

// readLines sends the lines of in until a read fails or done is closed.
// The last value sent carries the read error, io.EOF at end of input.
func readLines(in io.Reader, lines chan<- line, done <-chan struct{}) {
	send := func(l line) bool {
		select {
		case lines <- l:
			return true
		case <-done:
			return false
		}
	}

	br := bufio.NewReader(in)
	var (
		buf     []byte
		tooLong int
	)
	for {
		chunk, more, err := br.ReadLine()
		if err != nil {
			send(line{err: err})
			return
		}
		switch {
		case tooLong > 0:
			tooLong += len(chunk)
		case len(buf)+len(chunk) > MaxLineSize:
			tooLong = len(buf) + len(chunk)
			buf = buf[:0]
		default:
			buf = append(buf, chunk...)
		}
		if more {
			continue
		}

		l := line{b: bytes.Clone(buf)}
		if tooLong > 0 {
			l = line{err: fmt.Errorf("%w: %d bytes, limit %d", ErrLineTooLong, tooLong, MaxLineSize)}
		}
		if !send(l) {
			return
		}
		buf, tooLong = buf[:0], 0
	}
}
