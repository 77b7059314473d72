// Package benchkit measures arena scenarios with the CPU caches optionally
// disturbed before every run.
package benchkit

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Method selects how caches are disturbed before a measured run.
type Method int

const (
	None Method = iota
	Thorough
	Stride
	Random
)

var methodNames = [...]string{
	None:     "none",
	Thorough: "thorough",
	Stride:   "stride",
	Random:   "random",
}

func (m Method) String() string {
	if m < 0 || int(m) >= len(methodNames) {
		return fmt.Sprintf("Method(%d)", int(m))
	}
	return methodNames[m]
}

// ParseMethod accepts the lower case method names, ignoring case.
func ParseMethod(s string) (Method, error) {
	for m, name := range methodNames {
		if strings.EqualFold(s, name) {
			return Method(m), nil
		}
	}
	return None, fmt.Errorf("benchkit: unknown cache clearing method %q", s)
}

// Methods returns every method in declaration order.
func Methods() []Method {
	return []Method{None, Thorough, Stride, Random}
}

const (
	quickBytes    = 1 << 20
	thoroughBytes = 4 << 20
	cacheLine     = 64
	randomTouches = 1000
)

// Clearer owns the buffers and random source used to evict caches. Each
// worker needs its own Clearer.
type Clearer struct {
	full  []int32
	quick []int32
	rng   *rand.Rand

	// sink keeps the eviction loops observable so they are not optimized away.
	sink int64
}

// NewClearer returns a Clearer whose Random method is deterministic for seed.
func NewClearer(seed uint64) *Clearer {
	c := &Clearer{
		full:  make([]int32, thoroughBytes/4),
		quick: make([]int32, quickBytes/4),
		rng:   rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15)),
	}
	for i := range c.quick {
		c.quick[i] = int32(i)
	}
	return c
}

// Clear runs the eviction selected by m.
func (c *Clearer) Clear(m Method) {
	switch m {
	case None:
		c.None()
	case Thorough:
		c.Thorough()
	case Stride:
		c.Stride()
	case Random:
		c.Random()
	}
}

// None leaves the caches alone.
func (c *Clearer) None() {}

// Thorough writes and then reads a buffer larger than a typical last level cache.
func (c *Clearer) Thorough() {
	for i := range c.full {
		c.full[i] = int32(i)
	}
	var sum int64
	for _, v := range c.full {
		sum += int64(v)
	}
	c.sink += sum
}

// Stride touches one int per cache line of the quick buffer.
func (c *Clearer) Stride() {
	var sum int64
	for i := 0; i < len(c.quick); i += cacheLine {
		c.quick[i] = int32(i)
		sum += int64(c.quick[i])
	}
	c.sink += sum
}

// Random touches randomTouches cache-line aligned slots of the quick buffer.
func (c *Clearer) Random() {
	lines := len(c.quick) / cacheLine
	var sum int64
	for i := range randomTouches {
		idx := c.rng.IntN(lines) * cacheLine
		c.quick[idx] = int32(i)
		sum += int64(c.quick[idx])
	}
	c.sink += sum
}

// Sink returns the accumulated checksum of every eviction so far.
func (c *Clearer) Sink() int64 { return c.sink }
