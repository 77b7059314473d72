package benchkit

import "time"

// Measure runs fn n times and returns the average duration of one run.
// prepare runs before every run and is not timed. Measure stops at the first
// error returned by fn.
func Measure(n int, prepare func(), fn func() error) (time.Duration, error) {
	if n <= 0 {
		return 0, nil
	}
	var total time.Duration
	for range n {
		if prepare != nil {
			prepare()
		}
		start := time.Now()
		err := fn()
		total += time.Since(start)
		if err != nil {
			return 0, err
		}
	}
	return total / time.Duration(n), nil
}
