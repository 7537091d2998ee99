package util

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

// ParseByteSize parses a human-readable size such as "64MiB" or "512MB".
// "0" means no limit.
func ParseByteSize(s string) (int64, error) {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if n > math.MaxInt64 {
		return 0, fmt.Errorf("size %q is too large", s)
	}
	return int64(n), nil
}

// HumanReadableBytes formats n using IEC units, e.g. "64 MiB".
func HumanReadableBytes(n int64) string {
	if n < 0 {
		return "-" + humanize.IBytes(uint64(-n))
	}
	return humanize.IBytes(uint64(n))
}

// HumanReadableCount formats n with thousands separators, e.g. "1,234,567".
func HumanReadableCount(n int64) string {
	return humanize.Comma(n)
}
