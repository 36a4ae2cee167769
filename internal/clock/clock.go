// Package clock abstracts time.Now so day boundaries and follow-up delays
// can be simulated in tests.
package clock

import "time"

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

// System is the real wall clock
type System struct{}

// Now returns the current local time
func (System) Now() time.Time { return time.Now() }

// Fixed is a clock pinned to a settable instant
type Fixed struct {
	T time.Time
}

// Now returns the pinned instant
func (f *Fixed) Now() time.Time { return f.T }

// Advance moves the pinned instant forward
func (f *Fixed) Advance(d time.Duration) { f.T = f.T.Add(d) }

// StartOfDay truncates t to local midnight
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
