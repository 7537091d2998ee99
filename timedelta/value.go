package timedelta

import "github.com/spf13/pflag"

// UnmarshalText implements encoding.TextUnmarshaler using Parse.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Value is a pflag.Value holding an interval. String reports the text last
// accepted by Set; it does not re-format the parsed value.
type Value struct {
	raw string
	d   Duration
	set bool
}

// NewValue returns a Value preset to def. An empty def leaves it unset; any
// other def must parse.
func NewValue(def string) *Value {
	v := &Value{}
	if def != "" {
		v.d = MustParse(def)
		v.raw = def
		v.set = true
	}
	return v
}

func (v *Value) Set(s string) error {
	d, err := Parse(s)
	if err != nil {
		return err
	}
	v.raw, v.d, v.set = s, d, true
	return nil
}

func (v *Value) String() string { return v.raw }

func (v *Value) Type() string { return "interval" }

// Duration returns the parsed interval and whether one has been set.
func (v *Value) Duration() (Duration, bool) {
	return v.d, v.set
}

// IntervalP defines an interval flag on fs, like pflag.DurationP.
func IntervalP(fs *pflag.FlagSet, name, shorthand, value, usage string) *Value {
	v := NewValue(value)
	fs.VarP(v, name, shorthand, usage)
	return v
}
