package arena

import (
	"testing"
)

func TestArenaMetrics(t *testing.T) {
	a := newTestArena(t, 1024, WithName("frame"))

	if a.SizeInUse() != 0 {
		t.Errorf("Initial SizeInUse = %d, want 0", a.SizeInUse())
	}
	if a.Capacity() != 1024 {
		t.Errorf("Capacity = %d, want 1024", a.Capacity())
	}
	if a.Available() != 1024 {
		t.Errorf("Initial Available = %d, want 1024", a.Available())
	}
	if !a.IsEmpty() {
		t.Error("new arena is not empty")
	}
	if a.Utilization() != 0 {
		t.Errorf("Initial Utilization = %f, want 0", a.Utilization())
	}
	if a.Name() != "frame" {
		t.Errorf("Name = %q, want frame", a.Name())
	}

	a.AllocBytes(100) // 4 bytes of padding
	a.AllocBytes(200)
	a.AllocBytes(0)

	if a.SizeInUse() != 304 {
		t.Errorf("SizeInUse = %d, want 304", a.SizeInUse())
	}
	if a.Available() != 720 {
		t.Errorf("Available = %d, want 720", a.Available())
	}
	if a.IsEmpty() {
		t.Error("arena reports empty after allocations")
	}

	utilization := a.Utilization()
	if utilization <= 0 || utilization > 1 {
		t.Errorf("Utilization = %f, want 0 < x <= 1", utilization)
	}

	metrics := a.Metrics()
	want := ArenaMetrics{
		Name:        "frame",
		SizeInUse:   304,
		Capacity:    1024,
		Available:   720,
		HighWater:   304,
		Allocations: 2,
		Resets:      0,
		Padding:     4,
		Mmap:        false,
		Utilization: a.Utilization(),
	}
	if metrics != want {
		t.Errorf("Metrics() = %+v, want %+v", metrics, want)
	}
}

func TestArenaMetricsAfterReset(t *testing.T) {
	a := newTestArena(t, 1024)

	a.AllocBytes(500)
	if a.SizeInUse() == 0 {
		t.Error("Expected non-zero SizeInUse before reset")
	}
	if a.Utilization() == 0 {
		t.Error("Expected non-zero Utilization before reset")
	}

	a.Reset()
	a.AllocBytes(16)
	a.Reset()
	if a.SizeInUse() != 0 {
		t.Errorf("SizeInUse after Reset = %d, want 0", a.SizeInUse())
	}
	if a.Utilization() != 0 {
		t.Errorf("Utilization after Reset = %f, want 0", a.Utilization())
	}
	if a.Capacity() != 1024 {
		t.Errorf("Capacity after Reset = %d, want 1024", a.Capacity())
	}

	m := a.Metrics()
	if m.Resets != 2 {
		t.Errorf("Metrics.Resets = %d, want 2", m.Resets)
	}
	if m.HighWater != 504 {
		t.Errorf("Metrics.HighWater = %d, want 504", m.HighWater)
	}
	if m.Allocations != 2 {
		t.Errorf("Metrics.Allocations = %d, want 2", m.Allocations)
	}
}

func TestArenaMetricsAfterRelease(t *testing.T) {
	a := NewArena(1024, WithLogger(quiet))
	a.AllocBytes(100)

	if err := a.Release(); err != nil {
		t.Fatalf("Release() = %v", err)
	}

	if a.SizeInUse() != 0 {
		t.Errorf("SizeInUse after Release = %d, want 0", a.SizeInUse())
	}
	if a.Capacity() != 0 {
		t.Errorf("Capacity after Release = %d, want 0", a.Capacity())
	}
	if a.Utilization() != 0 {
		t.Errorf("Utilization after Release = %f, want 0", a.Utilization())
	}
}

func TestArenaMetricsMmap(t *testing.T) {
	a := newTestArena(t, 64*KiB, WithMmap())
	if !a.Metrics().Mmap {
		t.Error("Metrics.Mmap = false for an mmap backed arena")
	}
}

func TestSafeArenaMetrics(t *testing.T) {
	s := NewSafeArena(2048, WithLogger(quiet))
	defer s.Release()

	s.AllocBytes(300)

	if s.SizeInUse() != 304 {
		t.Errorf("SafeArena SizeInUse = %d, want 304", s.SizeInUse())
	}
	if s.Capacity() != 2048 {
		t.Errorf("SafeArena Capacity = %d, want 2048", s.Capacity())
	}

	utilization := s.Utilization()
	if utilization <= 0 || utilization > 1 {
		t.Errorf("SafeArena Utilization = %f, want 0 < x <= 1", utilization)
	}

	metrics := s.Metrics()
	if metrics.Capacity != 2048 {
		t.Errorf("SafeArena Metrics.Capacity = %d, want 2048", metrics.Capacity)
	}
	if metrics.SizeInUse != 304 {
		t.Errorf("SafeArena Metrics.SizeInUse = %d, want 304", metrics.SizeInUse)
	}
}

func TestUtilizationEdgeCases(t *testing.T) {
	a := NewArena(1024, WithLogger(quiet))
	a.Release()
	if a.Utilization() != 0 {
		t.Errorf("Released arena Utilization = %f, want 0", a.Utilization())
	}

	a2 := newTestArena(t, 1024)
	if a2.Utilization() != 0 {
		t.Errorf("Empty arena Utilization = %f, want 0", a2.Utilization())
	}

	a3 := newTestArena(t, 96)
	a3.AllocBytes(a3.Capacity())
	if util := a3.Utilization(); util != 1 {
		t.Errorf("Full arena Utilization = %f, want 1.0", util)
	}
}

func BenchmarkMetrics(b *testing.B) {
	a := newTestArena(b, MiB)
	for i := 0; i < 100; i++ {
		a.AllocBytes(1000)
	}

	b.Run("SizeInUse", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			a.SizeInUse()
		}
	})

	b.Run("Capacity", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			a.Capacity()
		}
	})

	b.Run("Utilization", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			a.Utilization()
		}
	})

	b.Run("Metrics", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			a.Metrics()
		}
	})
}
