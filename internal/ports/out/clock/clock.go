package clock

import "time"

// Clock provides time to the application. Planning and lifecycle timestamps
// all flow through it so tests can pin the instant.
type Clock interface {
	Now() time.Time
}
