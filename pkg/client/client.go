// Package client implements uqimageclient's half of the wire protocol:
// reading the input image, constructing a single-operation POST, and
// interpreting the server's response.
package client

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"

	"github.com/trazzed/uqimage/pkg/config"
	"github.com/trazzed/uqimage/pkg/operations"
)

// ErrNoData is returned when the input stream (file or stdin) yields zero
// bytes; the client must not contact the server in this case.
var ErrNoData = errors.New("no data in input image")

// ErrConnect is returned when the TCP connection to the server cannot be
// established.
var ErrConnect = errors.New("unable to connect to server")

// ErrWrite is returned when the request could not be written to the
// connection.
var ErrWrite = errors.New("unable to write request")

// ErrConnectionClosed is returned when the server closed the connection
// before a complete response was received.
var ErrConnectionClosed = errors.New("server connection terminated")

// BadResponse describes a server answer with a non-200 status and a
// non-empty body; Body is that response body. Send does not return it:
// Send returns every fully read response, whatever its status, as a
// Response.
type BadResponse struct {
	Body []byte
}

func (e *BadResponse) Error() string {
	return fmt.Sprintf("server returned an error response (%d bytes)", len(e.Body))
}

// ReadInput returns the full contents of cfg's input source: the named
// --input file, or standard input when none was given.
func ReadInput(cfg config.ClientConfig, stdin io.Reader) ([]byte, error) {
	var r io.Reader = stdin
	if cfg.HasInput {
		f, err := os.Open(cfg.InputFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrNoData
	}
	return data, nil
}

// RequestTarget renders op as the request path the server expects, e.g.
// "/rotate,45" or "/scale,200,50".
func RequestTarget(op operations.Operation) string {
	switch o := op.(type) {
	case operations.Rotate:
		return fmt.Sprintf("/rotate,%d", o.Angle)
	case operations.Flip:
		dir := "h"
		if o.Direction == operations.Vertical {
			dir = "v"
		}
		return fmt.Sprintf("/flip,%s", dir)
	case operations.Scale:
		return fmt.Sprintf("/scale,%d,%d", o.Width, o.Height)
	default:
		return "/rotate,0"
	}
}

// Response is the outcome of a successful round trip: a server response
// was fully read, regardless of status.
type Response struct {
	StatusCode int
	Body       []byte
}

// Send connects to localhost:port, issues a single POST carrying body to
// the target implied by op, and returns the full response. A dial failure
// maps to ErrConnect, a request-write failure to ErrWrite, and an
// incomplete response to ErrConnectionClosed.
func Send(port string, op operations.Operation, body []byte) (Response, error) {
	conn, err := net.Dial("tcp", net.JoinHostPort("localhost", port))
	if err != nil {
		return Response{}, ErrConnect
	}
	defer conn.Close()

	req, err := http.NewRequest(http.MethodPost, "http://localhost"+RequestTarget(op), bytes.NewReader(body))
	if err != nil {
		return Response{}, ErrWrite
	}
	req.ContentLength = int64(len(body))
	req.Header.Set("Content-Length", fmt.Sprintf("%d", len(body)))

	if err := req.Write(conn); err != nil {
		return Response{}, ErrWrite
	}

	resp, err := http.ReadResponse(bufio.NewReader(conn), req)
	if err != nil {
		return Response{}, ErrConnectionClosed
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, ErrConnectionClosed
	}

	return Response{StatusCode: resp.StatusCode, Body: respBody}, nil
}

// ErrOutputOpen is returned when the named --output file cannot be created.
var ErrOutputOpen = errors.New("unable to open output file for writing")

// WriteOutput writes data to cfg's output destination: the named --output
// file, or standard output when none was given. A failure to open the
// output file is reported as ErrOutputOpen, distinct from a failure while
// writing to an already-open destination.
func WriteOutput(cfg config.ClientConfig, stdout io.Writer, data []byte) error {
	w := stdout
	if cfg.HasOutput {
		f, err := os.OpenFile(cfg.OutputFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
		if err != nil {
			return ErrOutputOpen
		}
		defer f.Close()
		w = f
	}
	_, err := w.Write(data)
	return err
}
