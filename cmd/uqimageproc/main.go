// Command uqimageproc is the concurrent image-processing HTTP server: it
// binds a listening socket, admits connections up to an optional cap, and
// serves rotate/flip/scale transformations over POST while reporting five
// running counters to stderr on SIGHUP.
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/docker/go-units"
	"github.com/sirupsen/logrus"

	"github.com/trazzed/uqimage/pkg/config"
	"github.com/trazzed/uqimage/pkg/dispatcher"
	"github.com/trazzed/uqimage/pkg/httpapi"
	"github.com/trazzed/uqimage/pkg/middleware"
	"github.com/trazzed/uqimage/pkg/stats"
	"github.com/trazzed/uqimage/pkg/validate"
)

const (
	exitCommandLineError = 15
	exitListenError      = 3
	exitAcceptError      = 1
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.ParseServerArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "Usage: uqimageproc [--port port] [--max connections]")
		os.Exit(exitCommandLineError)
	}

	ln, err := config.Listen(cfg)
	if err != nil {
		log.WithField("component", "main").Errorf("cannot listen: %v", err)
		os.Exit(exitListenError)
	}

	fmt.Fprintln(os.Stderr, config.Port(ln))

	collector := stats.NewCollector()

	admitted := dispatcher.New(ln, cfg.MaxConnections, cfg.MaxConnectionsSet)

	mux := http.NewServeMux()
	handler := httpapi.New(log, collector)
	mux.Handle("/metrics", stats.NewMetricsHandler(log, collector))
	mux.Handle("/", middleware.RequestLogger(log, collapseSlashes(handler)))

	server := &http.Server{
		Handler: mux,
		ConnState: func(_ net.Conn, state http.ConnState) {
			switch state {
			case http.StateNew:
				collector.ConnectionOpened()
			case http.StateClosed, http.StateHijacked:
				collector.ConnectionClosed()
			}
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go stats.RunReporter(ctx, collector, log)

	log.WithField("component", "main").Infof("serving on port %s, accepting bodies up to %s",
		config.Port(ln), units.HumanSize(float64(validate.MaxBodyBytes)))
	if err := server.Serve(admitted); err != nil {
		log.WithField("component", "main").Errorf("accept loop terminated: %v", err)
		os.Exit(exitAcceptError)
	}
}

// collapseSlashes normalizes a doubled path separator ("//rotate,45") before
// it reaches next. A path containing "//" is passed through path.Clean,
// which also resolves "." and ".." elements and drops a trailing slash; any
// other path reaches next unchanged.
func collapseSlashes(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "//") {
			r.URL.Path = path.Clean(r.URL.Path)
		}
		next.ServeHTTP(w, r)
	})
}
