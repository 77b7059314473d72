package arena

import "log/slog"

// Option configures an Arena.
type Option func(*Arena)

// WithLogger sets the logger the arena's own fatal assertions are reported
// to. The default is slog.Default().
//
// Containers hold no pointers, so they cannot reach the arena they live in:
// their assertions (full, out of range, empty, stale storage) are always
// reported to slog.Default(). Install the process logger with
// slog.SetDefault to route both to the same place.
func WithLogger(log *slog.Logger) Option {
	return func(a *Arena) {
		if log != nil {
			a.log = log
		}
	}
}

// WithName labels the arena in log records, typically with its size class
// ("frame", "match", "reload", "permanent").
func WithName(name string) Option {
	return func(a *Arena) {
		a.name = name
	}
}

// WithMmap backs the arena with an anonymous private mapping instead of a
// heap slice. The mapping is unmapped by Release. On platforms without mmap
// the option falls back to the heap.
func WithMmap() Option {
	return func(a *Arena) {
		a.mmap = true
	}
}
