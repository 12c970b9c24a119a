// Package timeutil provides the clock abstraction and calendar helpers used for
// identifier issuance. No external dependencies - uses only standard library.
package timeutil

import "time"

// Clock reports the current time. Production code uses SystemClock; tests pin it.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the local wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock time.Time

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time { return time.Time(c) }

// ISOWeekday returns the ISO-8601 weekday number: Monday = 1 ... Sunday = 7.
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// Date creates a local-time date at midnight.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

// CurrentYear returns the year of the clock's current time.
func CurrentYear(c Clock) int {
	return c.Now().Year()
}
