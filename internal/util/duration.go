package util

import (
	"time"

	str2duration "github.com/xhit/go-str2duration/v2"
)

// ParseDuration parses a Go-style duration string into time.Duration.
// Supports standard Go duration units (h, m, s, ms, us, ns) plus days (d) and weeks (w).
// Used for operational settings such as the progress interval, which are
// not intervals to be parsed and reported.
// Examples: "1h", "1h30m", "2d", "1w2d3h", "300s"
func ParseDuration(s string) (time.Duration, error) {
	return str2duration.ParseDuration(s)
}
