package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/sourcegraph/conc/stream"
	"github.com/spf13/afero"

	"github.com/lucrnz/deltaparse/internal/input"
	"github.com/lucrnz/deltaparse/internal/logging"
	"github.com/lucrnz/deltaparse/internal/progress"
	"github.com/lucrnz/deltaparse/internal/report"
	"github.com/lucrnz/deltaparse/timedelta"
)

var errStopped = errors.New("batch stopped")

// source yields intervals with their 1-based position.
type source struct {
	name  string
	lines func(ctx context.Context, fn func(line int, text string) error) error
}

func argsSource(args []string) source {
	return source{
		name: "args",
		lines: func(ctx context.Context, fn func(int, string) error) error {
			for i, arg := range args {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := fn(i+1, arg); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// fileSource reads path, or stdin for "-". With skipBlank, blank lines and
// '#' comments are dropped before parsing.
func fileSource(appFs afero.Fs, stdin io.Reader, path string, maxBytes int64, skipBlank bool) source {
	name := path
	if path == "-" {
		name = "stdin"
	}
	return source{
		name: name,
		lines: func(ctx context.Context, fn func(int, string) error) error {
			var rc io.ReadCloser
			var kind input.Compression
			var err error
			if path == "-" {
				rc, kind, err = input.NewReader(stdin, maxBytes)
			} else {
				rc, kind, err = input.Open(appFs, path, maxBytes)
			}
			if err != nil {
				return err
			}
			defer rc.Close()

			logging.FromContext(ctx).Debug("input_opened", "source", name, "compression", kind.String())

			err = input.Lines(ctx, rc, func(line int, text string) error {
				if skipBlank {
					trimmed := strings.TrimSpace(text)
					if trimmed == "" || strings.HasPrefix(trimmed, "#") {
						return nil
					}
				}
				return fn(line, text)
			})
			if err != nil && !errors.Is(err, errStopped) {
				return fmt.Errorf("%s: %w", name, err)
			}
			return err
		},
	}
}

type batchOptions struct {
	Writer   report.Writer
	Bar      *progress.Bar
	Logger   *slog.Logger
	Jobs     int
	Unit     string
	PerUnit  float64
	Min      *timedelta.Value
	Max      *timedelta.Value
	FailFast bool
}

// batch parses intervals on a pool of workers and writes the results in
// input order. Fields below stopped are only touched from stream
// callbacks, which run one at a time, or after the stream has drained.
type batch struct {
	opts   batchOptions
	stream *stream.Stream

	stopped atomic.Bool

	halted        bool
	rejected      int64
	firstRejected report.Record
	writeErr      error
}

func newBatch(opts batchOptions) *batch {
	if opts.Jobs < 1 {
		opts.Jobs = 1
	}
	if opts.PerUnit == 0 {
		opts.Unit, opts.PerUnit = "seconds", 1
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &batch{
		opts:   opts,
		stream: stream.New().WithMaxGoroutines(opts.Jobs),
	}
}

// run feeds every source through the pool and waits for all results.
func (b *batch) run(ctx context.Context, sources []source) error {
	var err error
	for _, src := range sources {
		name := src.name
		err = src.lines(ctx, func(line int, text string) error {
			return b.feed(name, line, text)
		})
		if err != nil {
			break
		}
	}
	b.stream.Wait()

	if errors.Is(err, errStopped) {
		err = nil
	}
	if err != nil {
		return err
	}
	return b.writeErr
}

func (b *batch) feed(src string, line int, text string) error {
	if b.stopped.Load() {
		return errStopped
	}
	b.stream.Go(func() stream.Callback {
		rec := b.evaluate(src, line, text)
		return func() { b.emit(rec) }
	})
	return nil
}

func (b *batch) evaluate(src string, line int, text string) report.Record {
	rec := report.Record{Source: src, Line: line, Input: text, Unit: b.opts.Unit}

	d, err := timedelta.Parse(text)
	if err == nil {
		err = b.checkBounds(d)
	}
	if err != nil {
		rec.Error = err.Error()
		return rec
	}

	rec.Days = d.Days
	rec.Seconds = d.Seconds
	rec.Microseconds = d.Microseconds
	rec.TotalSeconds = d.TotalSeconds()
	rec.Value = rec.TotalSeconds / b.opts.PerUnit
	return rec
}

func (b *batch) checkBounds(d timedelta.Duration) error {
	if b.opts.Min != nil {
		if lo, ok := b.opts.Min.Duration(); ok && d.Compare(lo) < 0 {
			return fmt.Errorf("interval is shorter than --min '%s'", b.opts.Min)
		}
	}
	if b.opts.Max != nil {
		if hi, ok := b.opts.Max.Duration(); ok && d.Compare(hi) > 0 {
			return fmt.Errorf("interval is longer than --max '%s'", b.opts.Max)
		}
	}
	return nil
}

func (b *batch) emit(rec report.Record) {
	if b.halted {
		return
	}
	ok := rec.Error == ""
	if b.opts.Bar != nil {
		b.opts.Bar.Update(ok)
	}

	if err := b.opts.Writer.Write(rec); err != nil {
		b.writeErr = fmt.Errorf("failed to write result: %w", err)
		b.halt()
		return
	}
	if ok {
		return
	}

	b.rejected++
	if b.rejected == 1 {
		b.firstRejected = rec
	}
	b.opts.Logger.Debug("parse_rejected",
		"source", rec.Source,
		"line", rec.Line,
		"input", rec.Input,
		"error", rec.Error,
	)
	if b.opts.FailFast {
		b.halt()
	}
}

func (b *batch) halt() {
	b.halted = true
	b.stopped.Store(true)
}

// Rejected returns the number of rejected intervals. Call after run.
func (b *batch) Rejected() int64 { return b.rejected }

// FirstRejected returns the earliest rejected record. Call after run.
func (b *batch) FirstRejected() report.Record { return b.firstRejected }
