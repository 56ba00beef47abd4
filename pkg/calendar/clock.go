package calendar

import "time"

// Clock tells the console what "today" is. Callers take Today once per pass so
// every client of a listing is measured against the same day.
type Clock interface {
	Now() time.Time
	Today() Date
}

// SystemClock reads the wall clock in a business timezone
type SystemClock struct {
	Location *time.Location
}

// NewSystemClock returns a clock for loc, or UTC when loc is nil
func NewSystemClock(loc *time.Location) SystemClock {
	if loc == nil {
		loc = time.UTC
	}
	return SystemClock{Location: loc}
}

func (c SystemClock) Now() time.Time {
	return time.Now().In(c.location())
}

func (c SystemClock) Today() Date {
	return DateOf(c.Now())
}

func (c SystemClock) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// FixedClock always reports the same instant
type FixedClock struct {
	At time.Time
}

// FixedAt returns a clock frozen at noon UTC of the given day
func FixedAt(d Date) FixedClock {
	return FixedClock{At: d.Time().Add(12 * time.Hour)}
}

func (c FixedClock) Now() time.Time { return c.At }
func (c FixedClock) Today() Date    { return DateOf(c.At) }
