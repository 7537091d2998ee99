package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"

	"github.com/lucrnz/deltaparse/internal/cleanup"
	"github.com/lucrnz/deltaparse/internal/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Set up signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Partial output files are removed unless the run completes
	tracker := cleanup.NewTracker(afero.NewOsFs())
	defer tracker.Cleanup()

	err := cli.ExecuteContext(ctx, tracker)
	switch {
	case err == nil:
		return 0
	case ctx.Err() == context.Canceled:
		fmt.Fprintln(os.Stderr, "\nInterrupted")
		return 130 // Standard exit code for SIGINT
	case errors.Is(err, cli.ErrRejected):
		fmt.Fprintln(os.Stderr, err)
		return 2
	default:
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
}
