package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/lucrnz/deltaparse/internal/cleanup"
	"github.com/lucrnz/deltaparse/internal/logging"
	"github.com/lucrnz/deltaparse/internal/progress"
	"github.com/lucrnz/deltaparse/internal/report"
	"github.com/lucrnz/deltaparse/internal/util"
	"github.com/lucrnz/deltaparse/internal/version"
	"github.com/lucrnz/deltaparse/timedelta"
)

// ErrRejected is returned when at least one interval failed to parse or
// fell outside --min/--max. Results for the other intervals were written.
var ErrRejected = errors.New("some intervals were rejected")

// unitSeconds maps --unit values to their length in seconds.
var unitSeconds = map[string]float64{
	"seconds": 1,
	"minutes": 60,
	"hours":   3600,
	"days":    86400,
	"weeks":   7 * 86400,
}

type options struct {
	appFs   afero.Fs
	tracker *cleanup.Tracker

	inputs           []string
	output           string
	format           string
	unit             string
	minInterval      *timedelta.Value
	maxInterval      *timedelta.Value
	maxBytesStr      string
	jobs             int
	failFast         bool
	skipBlank        bool
	quiet            bool
	progressInterval string
	logLevel         string
	logFormat        string
	configFile       string
}

func newRootCmd(appFs afero.Fs, tracker *cleanup.Tracker) *cobra.Command {
	o := &options{appFs: appFs, tracker: tracker}

	cmd := &cobra.Command{
		Use:   "deltaparse [flags] [interval ...]",
		Short: "Parse database and human-written time intervals",
		Long: `deltaparse

Parses time intervals given as arguments or read line by line from files
(plain, gzip, bzip2, xz or zstd) and reports each one as a signed duration.

Accepted forms:
  database   "1 day, 3:04:05", "-1 day, -1:01:01", "10:00:00.25"
  flexible   "1 hour, 5 mins", "4.2 hours", "2w 3d 4h", "-2 days"

Put "--" before intervals that start with a minus sign:
  deltaparse -- "-1 day, -1:01:01"

Flags may also be set in a config file (--config) or through DELTAPARSE_*
environment variables, e.g. DELTAPARSE_MAX_BYTES=1GiB.
`,
		RunE:    o.run,
		Version: version.Print(),
	}

	cmd.SetVersionTemplate(version.Full() + "\n")

	flags := cmd.Flags()
	flags.StringArrayVarP(&o.inputs, "input", "i", []string{}, "File with one interval per line (\"-\" for stdin). Can be specified multiple times.")
	flags.StringVarP(&o.output, "output", "o", "", "Write results to this file instead of stdout")
	flags.StringVarP(&o.format, "format", "f", "text", "Output format: text, json or yaml")
	flags.StringVar(&o.unit, "unit", "seconds", "Unit of the reported value: seconds, minutes, hours, days or weeks")
	o.minInterval = timedelta.IntervalP(flags, "min", "", "", "Reject intervals shorter than this (e.g. \"-1 day\")")
	o.maxInterval = timedelta.IntervalP(flags, "max", "", "", "Reject intervals longer than this (e.g. \"52 weeks\")")
	flags.StringVarP(&o.maxBytesStr, "max-bytes", "M", "64MiB", "Maximum decompressed bytes read per input (e.g. \"64MiB\", \"0\" = unlimited)")
	flags.IntVarP(&o.jobs, "jobs", "j", runtime.NumCPU(), "Number of parallel parse workers")
	flags.BoolVar(&o.failFast, "fail-fast", false, "Stop at the first rejected interval")
	flags.BoolVar(&o.skipBlank, "skip-blank", true, "Ignore blank lines and lines starting with '#' in --input files")
	flags.BoolVarP(&o.quiet, "quiet", "q", false, "Do not log progress")
	flags.StringVar(&o.progressInterval, "progress-interval", "0", "Log progress at this interval (e.g. \"5s\", \"1m\"; 0 = only at the end)")
	flags.StringVar(&o.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	flags.StringVar(&o.logFormat, "log-format", "text", "Log format: text or json")
	flags.StringVar(&o.configFile, "config", "", "Config file (yaml, json or toml) with flag defaults")

	// Silence usage output for runtime errors, but show it for flag errors
	// SilenceErrors is true so we can control error output format in main()
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	// Show usage only when there's a flag parsing error
	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		_ = cmd.Usage()
		return err
	})

	return cmd
}

// ExecuteContext runs the root command. Files registered with tracker are
// partial outputs the caller should remove if the run fails.
func ExecuteContext(ctx context.Context, tracker *cleanup.Tracker) error {
	return newRootCmd(afero.NewOsFs(), tracker).ExecuteContext(ctx)
}

func (o *options) run(cmd *cobra.Command, args []string) error {
	if err := applyConfig(cmd, o.appFs, o.configFile); err != nil {
		return err
	}

	logger, err := logging.NewWriter(cmd.ErrOrStderr(), o.logLevel, o.logFormat)
	if err != nil {
		return fmt.Errorf("invalid logging configuration: %w", err)
	}
	cleanup.SetLogger(logger)
	ctx := logging.WithContext(cmd.Context(), logger)

	format, err := report.ParseFormat(o.format)
	if err != nil {
		return err
	}

	unit := strings.ToLower(o.unit)
	perUnit, ok := unitSeconds[unit]
	if !ok {
		return fmt.Errorf("unsupported unit %q: expected seconds, minutes, hours, days or weeks", o.unit)
	}

	if o.jobs < 1 {
		return fmt.Errorf("--jobs must be at least 1, got %d", o.jobs)
	}

	maxBytes, err := util.ParseByteSize(o.maxBytesStr)
	if err != nil {
		return fmt.Errorf("invalid --max-bytes value: %w", err)
	}

	interval, err := util.ParseDuration(o.progressInterval)
	if err != nil {
		return fmt.Errorf("invalid --progress-interval value: %w", err)
	}

	minD, hasMin := o.minInterval.Duration()
	maxD, hasMax := o.maxInterval.Duration()
	if hasMin && hasMax && minD.Compare(maxD) > 0 {
		return fmt.Errorf("--min %q is longer than --max %q", o.minInterval, o.maxInterval)
	}

	sources := make([]source, 0, len(o.inputs)+1)
	if len(args) > 0 {
		sources = append(sources, argsSource(args))
	}
	for _, path := range o.inputs {
		sources = append(sources, fileSource(o.appFs, cmd.InOrStdin(), path, maxBytes, o.skipBlank))
	}
	if len(sources) == 0 {
		return fmt.Errorf("no intervals given: pass them as arguments or use --input")
	}

	out, finish, err := o.openOutput(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	w, err := report.New(format, out)
	if err != nil {
		finish(false)
		return err
	}

	bar := progress.New(0, interval, logger, o.quiet)
	bar.Start()

	b := newBatch(batchOptions{
		Writer:   w,
		Bar:      bar,
		Logger:   logger,
		Jobs:     o.jobs,
		Unit:     unit,
		PerUnit:  perUnit,
		Min:      o.minInterval,
		Max:      o.maxInterval,
		FailFast: o.failFast,
	})
	runErr := b.run(ctx, sources)
	bar.Stop()

	if closeErr := w.Close(); runErr == nil && closeErr != nil {
		runErr = fmt.Errorf("failed to write results: %w", closeErr)
	}
	if err := finish(runErr == nil); runErr == nil && err != nil {
		runErr = err
	}
	if runErr != nil {
		return runErr
	}

	if rejected := b.Rejected(); rejected > 0 {
		first := b.FirstRejected()
		return fmt.Errorf("%w: %s of %s (first: %s line %d: %s)", ErrRejected,
			util.HumanReadableCount(rejected), util.HumanReadableCount(bar.Processed()),
			first.Source, first.Line, first.Error)
	}
	return nil
}

// openOutput returns the destination for results and a function that
// closes it. A file output stays registered with the tracker, and so is
// removed on exit, unless finish is called with ok set.
func (o *options) openOutput(stdout io.Writer) (io.Writer, func(ok bool) error, error) {
	if o.output == "" || o.output == "-" {
		return stdout, func(bool) error { return nil }, nil
	}

	f, err := o.appFs.Create(o.output)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file %q: %w", o.output, err)
	}
	if o.tracker != nil {
		o.tracker.Register(o.output)
	}

	finish := func(ok bool) error {
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to close output file %q: %w", o.output, err)
		}
		if ok && o.tracker != nil {
			o.tracker.Commit(o.output)
		}
		return nil
	}
	return f, finish, nil
}
