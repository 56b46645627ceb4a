// Package httpapi wires request validation, the operation plan, and the
// image pipeline into one http.Handler, and builds every response body that
// handler emits. The /metrics route is served by pkg/stats instead.
package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/trazzed/uqimage/pkg/logging"
	"github.com/trazzed/uqimage/pkg/pipeline"
	"github.com/trazzed/uqimage/pkg/stats"
	"github.com/trazzed/uqimage/pkg/validate"
)

// HomePagePath is the fixed location of the static home-page asset served
// for "GET /".
const HomePagePath = "/local/courses/csse2310/resources/a4/home.html"

// Handler is the server's entry point for every request, on every accepted
// connection, except those routed to /metrics.
type Handler struct {
	log       logging.Logger
	collector *stats.Collector

	// homePagePath is HomePagePath in production; tests override it to
	// avoid depending on a real filesystem path outside the repository.
	homePagePath string
}

// New returns a Handler reporting through collector and logging through log.
func New(log logging.Logger, collector *stats.Collector) *Handler {
	return &Handler{log: log, collector: collector, homePagePath: HomePagePath}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	bodyLen := r.ContentLength
	if bodyLen < 0 {
		bodyLen = 0
	}

	result := validate.Check(r.Method, r.URL.Path, bodyLen)

	switch result.Outcome {
	case validate.ServeHomePage:
		h.serveHomePage(w)
	case validate.MethodNotAllowed:
		h.collector.RequestFailed()
		writeText(w, http.StatusMethodNotAllowed, "Invalid method on request list\n")
	case validate.GetNotFound:
		h.collector.RequestFailed()
		writeText(w, http.StatusNotFound, "Invalid address in GET request\n")
	case validate.InvalidOperation:
		discard(r)
		h.collector.RequestFailed()
		writeText(w, http.StatusBadRequest, "Invalid image operation\n")
	case validate.TooLarge:
		discard(r)
		h.collector.RequestFailed()
		writeText(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("Image is too large: %d bytes\n", result.BodyLen))
	case validate.Proceed:
		h.serveImage(w, r, result)
	}
}

func (h *Handler) serveHomePage(w http.ResponseWriter) {
	body, err := os.ReadFile(h.homePagePath)
	if err != nil {
		h.log.WithField("component", "httpapi").Errorf("cannot read home page asset: %v", err)
		h.collector.RequestFailed()
		writeText(w, http.StatusInternalServerError, "Internal server error\n")
		return
	}
	h.collector.RequestSucceeded()
	w.Header().Set("Content-Type", "text/html")
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *Handler) serveImage(w http.ResponseWriter, r *http.Request, result validate.Result) {
	body, err := io.ReadAll(io.LimitReader(r.Body, validate.MaxBodyBytes+1))
	if err != nil {
		h.collector.RequestFailed()
		writeText(w, http.StatusUnprocessableEntity, "Invalid image received\n")
		return
	}

	out, err := pipeline.Run(body, result.Plan)
	h.collector.AddOperations(out.StagesCompleted)

	if err != nil {
		h.collector.RequestFailed()

		var stageErr *pipeline.StageError
		if errors.As(err, &stageErr) {
			writeText(w, http.StatusNotImplemented,
				fmt.Sprintf("Operation did not complete: %s\n", stageErr.Op))
			return
		}
		writeText(w, http.StatusUnprocessableEntity, "Invalid image received\n")
		return
	}

	h.collector.RequestSucceeded()
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(out.PNG)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out.PNG)
}

func discard(r *http.Request) {
	_, _ = io.Copy(io.Discard, r.Body)
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain")
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(body)))
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}
