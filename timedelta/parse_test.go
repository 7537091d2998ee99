package timedelta

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  Duration
	}{
		{"1 day", Duration{Days: 1}},
		{"2 days", Duration{Days: 2}},
		{"1 d", Duration{Days: 1}},
		{"1 hour", Duration{Seconds: 3600}},
		{"1 hours", Duration{Seconds: 3600}},
		{"1 hr", Duration{Seconds: 3600}},
		{"1 hrs", Duration{Seconds: 3600}},
		{"1h", Duration{Seconds: 3600}},
		{"1wk", Duration{Days: 7}},
		{"1 week", Duration{Days: 7}},
		{"1 weeks", Duration{Days: 7}},
		{"2 wks", Duration{Days: 14}},
		{"1 sec", Duration{Seconds: 1}},
		{"1 secs", Duration{Seconds: 1}},
		{"1 s", Duration{Seconds: 1}},
		{"1 second", Duration{Seconds: 1}},
		{"1 seconds", Duration{Seconds: 1}},
		{"1 minute", Duration{Seconds: 60}},
		{"1 min", Duration{Seconds: 60}},
		{"1 m", Duration{Seconds: 60}},
		{"1 minutes", Duration{Seconds: 60}},
		{"1 mins", Duration{Seconds: 60}},
		{"1.5 days", Duration{Days: 1, Seconds: 43200}},
		{"3 weeks", Duration{Days: 21}},
		{"4.2 hours", Duration{Seconds: 15120}},
		{".5 hours", Duration{Seconds: 1800}},
		{"1 hour, 5 mins", Duration{Seconds: 3900}},
		{"2w 3d 4h", Duration{Days: 17, Seconds: 14400}},
		{"0 days", Duration{}},
		{"1 day, ", Duration{Days: 1}},
		{"-2 days", Duration{Days: -2}},
		{"-1.5 hours", Duration{Days: -1, Seconds: 81000}},
		{"1.5 seconds", Duration{Seconds: 1, Microseconds: 500000}},
		{"-1 day 0:00:01", Duration{Days: -1, Seconds: 1}},
		{"-1 day, -1:01:01", Duration{Days: -2, Seconds: 82739}},
		{"-1 weeks, 2 days, -3 hours, 4 minutes, -5 seconds", Duration{Days: -5, Seconds: 11045}},
		{"3:04:05", Duration{Seconds: 11045}},
		{"1 day, 3:04:05", Duration{Days: 1, Seconds: 11045}},
		{"2 days 1:00:00", Duration{Days: 2, Seconds: 3600}},
		{"+1 days, +0:00:01", Duration{Days: 1, Seconds: 1}},
		{"1:30", Duration{Seconds: 5400}},
		{"10:00:00.25", Duration{Seconds: 36000, Microseconds: 250000}},
		{"-0:00:01", Duration{Days: -1, Seconds: 86399}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTotalSeconds(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"1 day", 86400},
		{"1 hour, 5 mins", 3900},
		{"-1 day, -1:01:01", -90061},
		{"-1 weeks, 2 days, -3 hours, 4 minutes, -5 seconds", -420955},
		{"4.2 hours", 15120},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.TotalSeconds())
		})
	}
}

func TestParseInvalid(t *testing.T) {
	inputs := []string{
		"",
		" hours",
		"2 ws",
		"2 ds",
		"2 hs",
		"2 ms",
		"2 ss",
		" ",
		", ,",
		"1 month",
		"2 years",
		"1 day extra",
		"abc",
		"1:2:3:4",
		"1 days, :00",
		"1 hour 1 week",
	}
	for _, input := range inputs {
		t.Run(fmt.Sprintf("%q", input), func(t *testing.T) {
			_, err := Parse(input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidFormat)

			var ife *InvalidFormatError
			require.True(t, errors.As(err, &ife))
			assert.Equal(t, input, ife.Input)
			assert.Equal(t, fmt.Sprintf("'%s' is not a valid time interval", input), err.Error())
		})
	}
}

func TestParseOutOfRange(t *testing.T) {
	for _, input := range []string{"99999999999 days", "-20000000 weeks", "1 day, 999999999999:00:00", strings.Repeat("9", 400) + " seconds"} {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			assert.ErrorIs(t, err, ErrInvalidFormat)
			assert.ErrorIs(t, err, ErrOutOfRange)
		})
	}
}

func TestParseFieldsDistributesClockSign(t *testing.T) {
	f, err := ParseFields("-1 day, -1:01:01")
	require.NoError(t, err)
	assert.Equal(t, Fields{Days: -1, Hours: -1, Minutes: -1, Seconds: -1}, f)

	f, err = ParseFields("-1 day, 1:01:01")
	require.NoError(t, err)
	assert.Equal(t, Fields{Days: -1, Hours: 1, Minutes: 1, Seconds: 1}, f)

	f, err = ParseFields("-2:30")
	require.NoError(t, err)
	assert.Equal(t, Fields{Hours: -2, Minutes: -30}, f)

	d, err := Parse("-1:01")
	require.NoError(t, err)
	assert.Equal(t, -3660.0, d.TotalSeconds())
}

func TestParseLargeDayCounts(t *testing.T) {
	d, err := Parse("99999999 days, 23:59:59.999999")
	require.NoError(t, err)
	assert.Equal(t, Duration{Days: 99_999_999, Seconds: 86399, Microseconds: 999_999}, d)

	d, err = Parse("-100000000 days")
	require.NoError(t, err)
	assert.Equal(t, Duration{Days: -MaxDays}, d)

	_, err = Parse("100000001 days")
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestParseFieldsSeparatorSwallowsSign(t *testing.T) {
	f, err := ParseFields("-1 weeks, 2 days, -3 hours, 4 minutes, -5 seconds")
	require.NoError(t, err)
	assert.Equal(t, Fields{Weeks: -1, Days: 2, Hours: 3, Minutes: 4, Seconds: 5}, f)
}

func TestParseOmittedUnitIsZero(t *testing.T) {
	pairs := [][2]string{
		{"1 week, 2 hours", "1 week, 0 days, 2 hours, 0 minutes, 0 seconds"},
		{"3 days", "0 weeks 3 days 0 hours"},
		{"5 mins", "0 hours, 5 mins, 0 secs"},
		{"1:02", "0 days, 1:02:00"},
	}
	for _, p := range pairs {
		t.Run(p[0], func(t *testing.T) {
			a, err := Parse(p[0])
			require.NoError(t, err)
			b, err := Parse(p[1])
			require.NoError(t, err)
			assert.Equal(t, a, b)
		})
	}
}

func TestParseDatabaseRoundTrip(t *testing.T) {
	values := []int64{
		0,
		1,
		-1,
		123457,
		86400 * microsPerSecond,
		-90061 * microsPerSecond,
		-420955*microsPerSecond + 250000,
		3*microsPerDay + 11045*microsPerSecond + 999999,
		-MaxDays/2*microsPerDay + 7,
	}
	for _, us := range values {
		d := FromMicroseconds(us)
		text := fmt.Sprintf("%d days, %d:%02d:%02d.%06d",
			d.Days, d.Seconds/3600, d.Seconds%3600/60, d.Seconds%60, d.Microseconds)
		t.Run(text, func(t *testing.T) {
			got, err := Parse(text)
			require.NoError(t, err)
			assert.Equal(t, d.TotalSeconds(), got.TotalSeconds())
			assert.Equal(t, us, got.TotalMicroseconds())
		})
	}
}

func TestParseConcurrent(t *testing.T) {
	inputs := map[string]float64{
		"1 day":            86400,
		"1 hour, 5 mins":   3900,
		"-1 day, -1:01:01": -90061,
		"4.2 hours":        15120,
	}

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				for input, want := range inputs {
					d, err := Parse(input)
					if err != nil {
						errs <- err
						return
					}
					if d.TotalSeconds() != want {
						errs <- fmt.Errorf("%q: got %v, want %v", input, d.TotalSeconds(), want)
						return
					}
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestMustParse(t *testing.T) {
	assert.Equal(t, Duration{Days: 7}, MustParse("1 week"))
	assert.Panics(t, func() { MustParse("2 ws") })
}
