package timedelta

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Fields holds the per-unit magnitudes extracted from an interval before
// they are summed. Units missing from the input are zero.
type Fields struct {
	Weeks   float64
	Days    float64
	Hours   float64
	Minutes float64
	Seconds float64
}

var unitSeconds = map[string]float64{
	"weeks":   7 * secondsPerDay,
	"days":    secondsPerDay,
	"hours":   3600,
	"minutes": 60,
	"seconds": 1,
}

// TotalSeconds returns the weighted sum of all fields.
func (f Fields) TotalSeconds() float64 {
	return f.Weeks*unitSeconds["weeks"] +
		f.Days*unitSeconds["days"] +
		f.Hours*unitSeconds["hours"] +
		f.Minutes*unitSeconds["minutes"] +
		f.Seconds
}

// Duration sums the fields into a normalized Duration, rounding to the
// nearest microsecond (ties to even). It fails with ErrOutOfRange when a
// field or the total exceeds MaxDays, or when a field is not finite.
func (f Fields) Duration() (Duration, error) {
	const limit = MaxDays * secondsPerDay

	total := f.TotalSeconds()
	if math.IsNaN(total) || math.Abs(total) > limit {
		return Duration{}, ErrOutOfRange
	}

	// Whole units are summed as integer seconds so large day counts keep
	// their microseconds; only the fractional parts go through float
	// rounding.
	var whole int64
	var frac float64
	for _, p := range []struct {
		value float64
		unit  float64
	}{
		{f.Weeks, unitSeconds["weeks"]},
		{f.Days, unitSeconds["days"]},
		{f.Hours, unitSeconds["hours"]},
		{f.Minutes, unitSeconds["minutes"]},
		{f.Seconds, unitSeconds["seconds"]},
	} {
		if math.IsInf(p.value, 0) || math.IsNaN(p.value) || math.Abs(p.value*p.unit) > limit {
			return Duration{}, ErrOutOfRange
		}
		ip, fp := math.Modf(p.value)
		whole += int64(ip) * int64(p.unit)
		frac += fp * p.unit * microsPerSecond
	}

	// whole differs from total by less than nine days, so the product below
	// stays within int64.
	return FromMicroseconds(whole*microsPerSecond + int64(math.RoundToEven(frac))), nil
}

func (f *Fields) set(name, raw string) error {
	v, err := strconv.ParseFloat(raw, 64)
	if errors.Is(err, strconv.ErrRange) {
		return fmt.Errorf("%s: %w", name, ErrOutOfRange)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	switch name {
	case "weeks":
		f.Weeks = v
	case "days":
		f.Days = v
	case "hours":
		f.Hours = v
	case "minutes":
		f.Minutes = v
	case "seconds":
		f.Seconds = v
	default:
		return fmt.Errorf("unknown field %q", name)
	}
	return nil
}
