package timedelta

import "regexp"

var (
	// databasePattern matches what database interval serializers emit, e.g.
	// "1 day, 3:04:05" or "-1 day, -1:01:01". A single sign in front of the
	// clock applies to hours, minutes and seconds alike.
	databasePattern = regexp.MustCompile(
		`^((?P<days>[-+]?\d+) days?,? )?(?P<sign>[-+]?)(?P<hours>\d+):(?P<minutes>\d+)(:(?P<seconds>\d+(\.\d+)?))?$`,
	)

	// flexiblePattern matches unit words in the order weeks, days, hours,
	// minutes, seconds. Note that \W* is greedy: a '-' following a separator
	// is eaten as filler rather than taken as the next number's sign.
	flexiblePattern = regexp.MustCompile(
		`^((?P<weeks>-?((\d*\.\d+)|\d+))\W*w((ee)?(k(s)?)?)(,)?\W*)?` +
			`((?P<days>-?((\d*\.\d+)|\d+))\W*d(ay(s)?)?(,)?\W*)?` +
			`((?P<hours>-?((\d*\.\d+)|\d+))\W*h(ou)?(r(s)?)?(,)?\W*)?` +
			`((?P<minutes>-?((\d*\.\d+)|\d+))\W*m(in(ute)?(s)?)?(,)?\W*)?` +
			`((?P<seconds>-?((\d*\.\d+)|\d+))\W*s(ec(ond)?(s)?)?)?\W*$`,
	)
)

var clockFields = []string{"hours", "minutes", "seconds"}

// Parse converts an interval in database or flexible form into a Duration.
// It returns an *InvalidFormatError for empty input and for anything that
// neither grammar accepts in full.
func Parse(s string) (Duration, error) {
	f, err := ParseFields(s)
	if err != nil {
		return Duration{}, err
	}
	d, err := f.Duration()
	if err != nil {
		return Duration{}, &InvalidFormatError{Input: s, Err: err}
	}
	return d, nil
}

// MustParse is like Parse but panics on error. Use it for constants.
func MustParse(s string) Duration {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ParseFields returns the signed per-unit magnitudes of s without summing them.
func ParseFields(s string) (Fields, error) {
	if s == "" {
		return Fields{}, &InvalidFormatError{Input: s}
	}

	groups, ok := matchDatabase(s)
	if !ok {
		groups, ok = matchFlexible(s)
	}
	if !ok {
		return Fields{}, &InvalidFormatError{Input: s}
	}

	var f Fields
	for name, raw := range groups {
		if err := f.set(name, raw); err != nil {
			return Fields{}, &InvalidFormatError{Input: s, Err: err}
		}
	}
	return f, nil
}

func matchDatabase(s string) (map[string]string, bool) {
	groups, ok := match(databasePattern, s)
	if !ok {
		return nil, false
	}
	distributeSign(groups)
	return groups, true
}

// matchFlexible rejects matches where no unit participated, which happens
// for input made only of separators.
func matchFlexible(s string) (map[string]string, bool) {
	groups, ok := match(flexiblePattern, s)
	if !ok || len(groups) == 0 {
		return nil, false
	}
	return groups, true
}

// distributeSign removes the clock sign captured by the database grammar
// and, when it is '-', negates every clock field that is present.
func distributeSign(groups map[string]string) {
	sign := groups["sign"]
	delete(groups, "sign")
	if sign != "-" {
		return
	}
	for _, name := range clockFields {
		if v, ok := groups[name]; ok {
			groups[name] = "-" + v
		}
	}
}

// match returns the named groups of re that took part in a full match of s.
func match(re *regexp.Regexp, s string) (map[string]string, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return nil, false
	}
	groups := make(map[string]string, len(unitSeconds)+1)
	for i, name := range re.SubexpNames() {
		if i == 0 || name == "" || m[i] == "" {
			continue
		}
		groups[name] = m[i]
	}
	return groups, true
}
