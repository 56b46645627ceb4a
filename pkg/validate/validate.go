// Package validate implements the ordered, terminal request-validation
// gates: method, GET address, operation grammar, and body size. Each gate
// is checked in order and the first failure is final — later gates are
// never reached.
package validate

import (
	"net/http"

	"github.com/trazzed/uqimage/pkg/operations"
)

const (
	// MaxBodyBytes is the inclusive body-size ceiling: 8 MiB.
	MaxBodyBytes = 8 * 1024 * 1024
)

// Outcome names which response the caller must send.
type Outcome int

const (
	// Proceed means every gate passed; the request carries a non-empty Plan
	// and the image pipeline should run.
	Proceed Outcome = iota
	// ServeHomePage means a bare "GET /" was received; the caller should
	// serve the static home page.
	ServeHomePage
	// MethodNotAllowed means the method was neither GET nor POST.
	MethodNotAllowed
	// GetNotFound means a GET request targeted anything but "/".
	GetNotFound
	// InvalidOperation means the POST target failed the operation grammar.
	InvalidOperation
	// TooLarge means the POST body exceeded MaxBodyBytes.
	TooLarge
)

// Result is the outcome of validating one request.
type Result struct {
	Outcome Outcome
	// Plan is populated only when Outcome == Proceed.
	Plan operations.Plan
	// BodyLen is the request body length in bytes; only meaningful for
	// Outcome == TooLarge, where it is reported verbatim in the response.
	BodyLen int64
}

// Check runs the four ordered gates against one request. bodyLen is the
// number of bytes in the request body as the caller knows it; Check reads
// no body itself. pkg/httpapi passes the request's declared Content-Length,
// or 0 when the length is unknown.
func Check(method, target string, bodyLen int64) Result {
	if method != http.MethodGet && method != http.MethodPost {
		return Result{Outcome: MethodNotAllowed}
	}

	if method == http.MethodGet {
		if target != "/" {
			return Result{Outcome: GetNotFound}
		}
		return Result{Outcome: ServeHomePage}
	}

	plan, err := operations.ParsePlan(target)
	if err != nil {
		return Result{Outcome: InvalidOperation}
	}

	if bodyLen > MaxBodyBytes {
		return Result{Outcome: TooLarge, BodyLen: bodyLen}
	}

	return Result{Outcome: Proceed, Plan: plan}
}
