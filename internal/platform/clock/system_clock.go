package clock

import "time"

// SystemClock reads the wall clock. Planning and lifecycle timestamps go
// through the clock port so tests can pin the instant; this is the one real
// implementation.
type SystemClock struct{}

func NewSystemClock() SystemClock { return SystemClock{} }

func (SystemClock) Now() time.Time { return time.Now().UTC() }
