// Package report writes parse results in the formats the CLI offers.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ugorji/go/codec"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	Text Format = "text"
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case Text, JSON, YAML:
		return f, nil
	case "":
		return Text, nil
	default:
		return "", fmt.Errorf("unsupported output format %q: expected text, json or yaml", s)
	}
}

// Record is the outcome of parsing one interval. Error is empty on success.
type Record struct {
	Source       string  `codec:"source" yaml:"source"`
	Line         int     `codec:"line" yaml:"line"`
	Input        string  `codec:"input" yaml:"input"`
	Days         int64   `codec:"days" yaml:"days"`
	Seconds      int64   `codec:"seconds" yaml:"seconds"`
	Microseconds int64   `codec:"microseconds" yaml:"microseconds"`
	TotalSeconds float64 `codec:"total_seconds" yaml:"total_seconds"`
	Value        float64 `codec:"value" yaml:"value"`
	Unit         string  `codec:"unit" yaml:"unit"`
	Error        string  `codec:"error,omitempty" yaml:"error,omitempty"`
}

// Writer emits records in order. Close flushes buffered output but does
// not close the underlying io.Writer.
type Writer interface {
	Write(rec Record) error
	Close() error
}

// New returns a Writer for format on w.
func New(format Format, w io.Writer) (Writer, error) {
	bw := bufio.NewWriter(w)
	switch format {
	case Text, "":
		return &textWriter{w: bw}, nil
	case JSON:
		h := &codec.JsonHandle{}
		h.HTMLCharsAsIs = true
		return &jsonWriter{w: bw, enc: codec.NewEncoder(bw, h)}, nil
	case YAML:
		return &yamlWriter{w: bw, enc: yaml.NewEncoder(bw)}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}

type textWriter struct {
	w *bufio.Writer
}

func (t *textWriter) Write(rec Record) error {
	var err error
	if rec.Error != "" {
		_, err = fmt.Fprintf(t.w, "%s\terror: %s\n", rec.Input, rec.Error)
	} else {
		_, err = fmt.Fprintf(t.w, "%s\t%s\n", rec.Input, strconv.FormatFloat(rec.Value, 'f', -1, 64))
	}
	return err
}

func (t *textWriter) Close() error {
	return t.w.Flush()
}

type jsonWriter struct {
	w   *bufio.Writer
	enc *codec.Encoder
}

// Write emits rec as a single line. The codec separates top-level values
// with nothing, so the newline is written here.
func (j *jsonWriter) Write(rec Record) error {
	if err := j.enc.Encode(rec); err != nil {
		return err
	}
	return j.w.WriteByte('\n')
}

func (j *jsonWriter) Close() error {
	return j.w.Flush()
}

type yamlWriter struct {
	w   *bufio.Writer
	enc *yaml.Encoder
}

func (y *yamlWriter) Write(rec Record) error {
	return y.enc.Encode(rec)
}

func (y *yamlWriter) Close() error {
	if err := y.enc.Close(); err != nil {
		return err
	}
	return y.w.Flush()
}
