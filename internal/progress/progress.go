package progress

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lucrnz/deltaparse/internal/util"
)

// Bar emits structured progress logs while a batch of intervals is parsed.
type Bar struct {
	Step           int64         // log every Step processed lines
	RenderInterval time.Duration // interval for interval-based logs
	Logger         *slog.Logger
	Quiet          bool

	processed atomic.Int64
	rejected  atomic.Int64
	nextStep  atomic.Int64

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	lastIntervalCount int64
	lastIntervalTime  time.Time
}

// New creates a progress bar instance with sane defaults.
func New(step int64, interval time.Duration, logger *slog.Logger, quiet bool) *Bar {
	if step <= 0 {
		step = 100000
	}
	if interval < 0 {
		interval = 0
	}
	if logger == nil {
		logger = slog.Default()
	}

	b := &Bar{
		Step:           step,
		RenderInterval: interval,
		Logger:         logger,
		Quiet:          quiet,
		done:           make(chan struct{}),
	}
	b.nextStep.Store(step)
	return b
}

// Update records one parsed line; ok is false when it was rejected.
func (b *Bar) Update(ok bool) {
	n := b.processed.Add(1)
	if !ok {
		b.rejected.Add(1)
	}
	if b.Quiet {
		return
	}
	for next := b.nextStep.Load(); n >= next; next = b.nextStep.Load() {
		if b.nextStep.CompareAndSwap(next, next+b.Step) {
			b.log("step", next)
		}
	}
}

// Processed returns the number of lines seen so far.
func (b *Bar) Processed() int64 { return b.processed.Load() }

// Rejected returns the number of lines that failed to parse or were out of bounds.
func (b *Bar) Rejected() int64 { return b.rejected.Load() }

// Start begins interval-based logging in a goroutine
func (b *Bar) Start() {
	if b.Quiet || b.Logger == nil || b.RenderInterval <= 0 {
		return
	}
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		ticker := time.NewTicker(b.RenderInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				b.logCurrentProgress()
			case <-b.done:
				return
			}
		}
	}()
}

// Stop ends interval-based logging and logs the final totals.
func (b *Bar) Stop() {
	b.stopOnce.Do(func() {
		close(b.done)
		b.wg.Wait()
		if !b.Quiet {
			b.log("done", b.processed.Load())
		}
	})
}

func (b *Bar) logCurrentProgress() {
	processed := b.processed.Load()
	// Throttle: only log if lines were processed since last interval
	if processed == b.lastIntervalCount {
		return
	}

	now := time.Now()
	var linesPerSec int64
	if !b.lastIntervalTime.IsZero() {
		elapsed := now.Sub(b.lastIntervalTime).Seconds()
		if elapsed > 0 {
			linesPerSec = int64(float64(processed-b.lastIntervalCount) / elapsed)
		}
	}

	b.Logger.Info("parse_progress",
		"processed", processed,
		"processed_human", util.HumanReadableCount(processed),
		"rejected", b.rejected.Load(),
		"lines_per_sec", linesPerSec,
	)
	b.lastIntervalTime = now
	b.lastIntervalCount = processed
}

func (b *Bar) log(reason string, processed int64) {
	b.Logger.Info("parse_progress",
		"reason", reason,
		"processed", processed,
		"processed_human", util.HumanReadableCount(processed),
		"rejected", b.rejected.Load(),
	)
}
