package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var records = []Record{
	{Source: "args", Line: 1, Input: "1 day", Days: 1, TotalSeconds: 86400, Value: 86400, Unit: "seconds"},
	{Source: "args", Line: 2, Input: "-1 day, -1:01:01", Days: -2, Seconds: 82739, TotalSeconds: -90061, Value: -90061, Unit: "seconds"},
	{Source: "args", Line: 3, Input: "2 ws", Unit: "seconds", Error: "'2 ws' is not a valid time interval"},
}

func write(t *testing.T, format Format) string {
	var buf bytes.Buffer
	w, err := New(format, &buf)
	require.NoError(t, err)
	for _, rec := range records {
		require.NoError(t, w.Write(rec))
	}
	require.NoError(t, w.Close())
	return buf.String()
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", Text, false},
		{"text", Text, false},
		{"JSON", JSON, false},
		{"yaml", YAML, false},
		{"csv", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTextWriter(t *testing.T) {
	want := "1 day\t86400\n" +
		"-1 day, -1:01:01\t-90061\n" +
		"2 ws\terror: '2 ws' is not a valid time interval\n"
	assert.Equal(t, want, write(t, Text))
}

func TestJSONWriter(t *testing.T) {
	out := write(t, JSON)
	require.True(t, strings.HasSuffix(out, "}\n"), "output %q", out)
	assert.NotContains(t, out, "} {")

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 3)

	assert.JSONEq(t, `{"source":"args","line":1,"input":"1 day","days":1,"seconds":0,"microseconds":0,"total_seconds":86400,"value":86400,"unit":"seconds"}`, lines[0])
	assert.JSONEq(t, `{"source":"args","line":2,"input":"-1 day, -1:01:01","days":-2,"seconds":82739,"microseconds":0,"total_seconds":-90061,"value":-90061,"unit":"seconds"}`, lines[1])
	assert.JSONEq(t, `{"source":"args","line":3,"input":"2 ws","days":0,"seconds":0,"microseconds":0,"total_seconds":0,"value":0,"unit":"seconds","error":"'2 ws' is not a valid time interval"}`, lines[2])
}

func TestYAMLWriter(t *testing.T) {
	dec := yaml.NewDecoder(strings.NewReader(write(t, YAML)))
	var got []Record
	for {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			break
		}
		got = append(got, rec)
	}
	assert.Equal(t, records, got)
}

func TestNewUnknownFormat(t *testing.T) {
	_, err := New(Format("csv"), &bytes.Buffer{})
	assert.Error(t, err)
}
