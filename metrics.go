package arena

// SizeInUse returns the number of bytes handed out since creation or the last
// Reset, including alignment padding.
func (a *Arena) SizeInUse() int {
	return a.used
}

// Capacity returns the byte budget of the arena. Zero after Release.
func (a *Arena) Capacity() int {
	return len(a.buf)
}

// Available returns the number of bytes left before the arena is full.
func (a *Arena) Available() int {
	return len(a.buf) - a.used
}

// IsEmpty reports whether nothing has been allocated since the last Reset.
func (a *Arena) IsEmpty() bool {
	return a.used == 0
}

// Utilization returns the ratio of bytes in use to capacity (0.0 to 1.0).
// Returns 0.0 if the arena has no capacity.
func (a *Arena) Utilization() float64 {
	capacity := a.Capacity()
	if capacity == 0 {
		return 0
	}
	return float64(a.SizeInUse()) / float64(capacity)
}

// Name returns the label set with WithName.
func (a *Arena) Name() string {
	return a.name
}

// Metrics returns a snapshot of arena statistics.
func (a *Arena) Metrics() ArenaMetrics {
	return ArenaMetrics{
		Name:        a.name,
		SizeInUse:   a.SizeInUse(),
		Capacity:    a.Capacity(),
		Available:   a.Available(),
		HighWater:   a.stats.highWater,
		Allocations: a.stats.allocs,
		Resets:      a.stats.resets,
		Padding:     a.stats.padding,
		Mmap:        a.mmap,
		Utilization: a.Utilization(),
	}
}

// ArenaMetrics contains statistical information about an arena.
type ArenaMetrics struct {
	Name        string  // Label set with WithName
	SizeInUse   int     // Bytes currently allocated
	Capacity    int     // Total capacity in bytes
	Available   int     // Bytes left
	HighWater   int     // Largest SizeInUse ever observed
	Allocations uint64  // Non-empty allocations since creation
	Resets      uint64  // Reset calls since creation
	Padding     uint64  // Bytes lost to alignment since creation
	Mmap        bool    // Backed by an anonymous mapping
	Utilization float64 // Ratio of used to total capacity (0.0-1.0)
}
