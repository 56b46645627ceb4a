package stats

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/trazzed/uqimage/pkg/logging"
)

// RunReporter blocks, printing a stats snapshot to os.Stderr every time the
// process receives SIGHUP, until ctx is cancelled. It is meant to run in its
// own goroutine for the lifetime of the server and is the sole consumer of
// SIGHUP.
func RunReporter(ctx context.Context, collector *Collector, log logging.Logger) {
	sighup := make(chan os.Signal, 1)
	signal.Notify(sighup, syscall.SIGHUP)
	defer signal.Stop(sighup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-sighup:
			snap := collector.Snapshot()
			report(snap)
			log.WithField("component", "stats-reporter").Debugln("emitted stats snapshot on SIGHUP")
		}
	}
}

func report(s Snapshot) {
	fmt.Fprintf(os.Stderr, "Connected clients: %d\n", s.Connected)
	fmt.Fprintf(os.Stderr, "Serviced clients: %d\n", s.Serviced)
	fmt.Fprintf(os.Stderr, "Successfully processed HTTP requests: %d\n", s.Success)
	fmt.Fprintf(os.Stderr, "Unsuccessful HTTP requests: %d\n", s.Unsuccess)
	fmt.Fprintf(os.Stderr, "Operations on images completed: %d\n", s.Operations)
}
