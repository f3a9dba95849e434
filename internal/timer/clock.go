package timer

import "time"

// Clock abstracts wall-clock time so tests can drive elapsed time
// deterministically. Elapsed time is always recomputed from the clock,
// never accumulated tick by tick, so an irregular tick schedule cannot
// introduce drift.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock returns the real wall clock in UTC.
func SystemClock() Clock { return systemClock{} }
