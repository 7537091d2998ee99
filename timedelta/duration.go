// Package timedelta parses textual time intervals into signed durations.
//
// Two input grammars are understood. The database form is what interval
// serializers of relational databases emit:
//
//	1 day, 3:04:05
//	-1 day, -1:01:01
//	10:00:00.25
//
// The flexible form spells out units in the fixed order weeks, days, hours,
// minutes, seconds, each optional and each with an optional sign:
//
//	1 hour, 5 mins
//	4.2 hours
//	2w 3d 4h
//
// Months and years are not supported; a Duration is not tied to a calendar.
package timedelta

import (
	"math"
	"time"
)

const (
	microsPerSecond = 1_000_000
	secondsPerDay   = 86400
	microsPerDay    = secondsPerDay * microsPerSecond

	// MaxDays bounds the magnitude of any value Parse accepts. An int64
	// count of microseconds holds about 106,751,991 days.
	MaxDays = 100_000_000
)

// Duration is a signed span of time normalized the way database interval
// types are: the sign is carried by Days, while Seconds and Microseconds
// are always non-negative remainders.
//
// For example -90061 seconds is {Days: -2, Seconds: 82739}.
type Duration struct {
	Days         int64
	Seconds      int64 // 0 <= Seconds < 86400
	Microseconds int64 // 0 <= Microseconds < 1000000
}

// FromMicroseconds builds a normalized Duration from a signed microsecond count.
func FromMicroseconds(us int64) Duration {
	days := floorDiv(us, microsPerDay)
	rem := us - days*microsPerDay
	return Duration{
		Days:         days,
		Seconds:      rem / microsPerSecond,
		Microseconds: rem % microsPerSecond,
	}
}

// FromStd converts a time.Duration, truncating below microsecond resolution.
func FromStd(d time.Duration) Duration {
	return FromMicroseconds(d.Microseconds())
}

// TotalMicroseconds returns the whole span as one signed microsecond count.
func (d Duration) TotalMicroseconds() int64 {
	return d.Days*microsPerDay + d.Seconds*microsPerSecond + d.Microseconds
}

// TotalSeconds returns the whole span in seconds.
func (d Duration) TotalSeconds() float64 {
	return float64(d.Days)*secondsPerDay + float64(d.Seconds) + float64(d.Microseconds)/microsPerSecond
}

// Std converts d to a time.Duration. The second result is false when d does
// not fit, in which case the returned value is clamped.
func (d Duration) Std() (time.Duration, bool) {
	us := d.TotalMicroseconds()
	const limit = math.MaxInt64 / int64(time.Microsecond)
	switch {
	case us > limit:
		return math.MaxInt64, false
	case us < -limit:
		return math.MinInt64, false
	}
	return time.Duration(us) * time.Microsecond, true
}

func (d Duration) Neg() Duration {
	return FromMicroseconds(-d.TotalMicroseconds())
}

func (d Duration) Abs() Duration {
	if d.Days < 0 {
		return d.Neg()
	}
	return d
}

func (d Duration) IsZero() bool {
	return d == Duration{}
}

// Compare returns -1, 0 or +1 depending on whether d is shorter than, equal
// to or longer than other.
func (d Duration) Compare(other Duration) int {
	a, b := d.TotalMicroseconds(), other.TotalMicroseconds()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
