package arena

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
)

// Fatal errors. They are never returned: the failing operation logs them and
// panics with a value that wraps one of these, so a recovering caller can
// match with errors.Is.
var (
	// ErrArenaFull is raised when an allocation does not fit in the remaining capacity.
	ErrArenaFull = errors.New("arena: arena is full")
	// ErrReleased is raised on any use of an arena after Release.
	ErrReleased = errors.New("arena: use after Release()")
	// ErrInvalidSize is raised for negative allocation sizes and out of range arena sizes.
	ErrInvalidSize = errors.New("arena: invalid size")
	// ErrNotDiscardable is raised when a type holding Go pointers is placed in an arena.
	ErrNotDiscardable = errors.New("arena: type holds pointers")
	// ErrBacking is raised when the backing memory cannot be obtained.
	ErrBacking = errors.New("arena: cannot obtain backing memory")
	// ErrForeignPointer is raised when a pointer that does not live in the arena is published.
	ErrForeignPointer = errors.New("arena: pointer outside arena")

	// ErrFull is raised when appending to a full container.
	ErrFull = errors.New("arena: container is full")
	// ErrOutOfRange is raised for indices outside [0, count).
	ErrOutOfRange = errors.New("arena: index out of range")
	// ErrEmpty is raised by Front, Back and Pop on an empty sequence.
	ErrEmpty = errors.New("arena: container is empty")
	// ErrBadStorage is raised when an inline container's storage parameter is not [N]T.
	ErrBadStorage = errors.New("arena: storage must be an array of the element type")
	// ErrBadKey is raised when a hash map key type does not compare bytewise.
	ErrBadKey = errors.New("arena: key type cannot be hashed")

	// ErrNotEmpty is raised when a name index is not the first allocation of its arena.
	ErrNotEmpty = errors.New("arena: index must be the first allocation")
	// ErrNotPublished is raised by Fetch for unknown names.
	ErrNotPublished = errors.New("arena: name not published")
	// ErrTypeMismatch is raised by Fetch when the requested type differs from the published one.
	ErrTypeMismatch = errors.New("arena: published type mismatch")
)

// fatal logs err and halts the caller by panicking with it.
// Builds tagged arenadebug trap into an attached debugger first.
func fatal(log *slog.Logger, err error, attrs ...any) {
	if log == nil {
		log = slog.Default()
	}
	log.Error(err.Error(), attrs...)
	if debugBreak {
		runtime.Breakpoint()
	}
	panic(err)
}

// fatalf wraps sentinel with a formatted detail and fails through fatal.
func fatalf(log *slog.Logger, sentinel error, format string, args ...any) {
	fatal(log, fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...))
}
