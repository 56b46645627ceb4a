// Command uqimageclient streams a local image to a uqimageproc server,
// requests a single rotate, flip, or scale transformation, and writes the
// result to a file or standard output.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/trazzed/uqimage/pkg/client"
	"github.com/trazzed/uqimage/pkg/config"
)

const (
	exitCommandLineError = 7
	exitInputOpenFailed  = 8
	exitOutputOpenFailed = 2
	exitConnectFailed    = 19
	exitNoData           = 17
	exitBadResponse      = 4
	exitWriteFailed      = 5
	exitConnectionClosed = 15
	exitSuccess          = 0
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.ParseClientArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "Usage: uqimageclient portno [--input infile] "+
			"[--rotate angle | --scale width height | --flip direction] "+
			"[--output outputfilename]")
		return exitCommandLineError
	}

	body, err := client.ReadInput(cfg, os.Stdin)
	if err != nil {
		return reportInputError(cfg, err)
	}

	resp, err := client.Send(cfg.Port, cfg.Operation, body)
	if err != nil {
		return reportSendError(cfg, err)
	}

	if resp.StatusCode == 200 {
		if err := client.WriteOutput(cfg, os.Stdout, resp.Body); err != nil {
			if errors.Is(err, client.ErrOutputOpen) {
				fmt.Fprintf(os.Stderr, "uqimageclient: unable to open file %q for writing\n", cfg.OutputFile)
				return exitOutputOpenFailed
			}
			fmt.Fprintln(os.Stderr, "uqimageclient: unable to write output")
			return exitWriteFailed
		}
		return exitSuccess
	}

	if len(resp.Body) > 0 {
		fmt.Fprint(os.Stderr, string(resp.Body))
	}
	return exitBadResponse
}

func reportInputError(cfg config.ClientConfig, err error) int {
	if errors.Is(err, client.ErrNoData) {
		fmt.Fprintln(os.Stderr, "uqimageclient: no data in input image")
		return exitNoData
	}
	fmt.Fprintf(os.Stderr, "uqimageclient: unable to open file %q for reading\n", cfg.InputFile)
	return exitInputOpenFailed
}

func reportSendError(cfg config.ClientConfig, err error) int {
	switch {
	case errors.Is(err, client.ErrConnect):
		fmt.Fprintf(os.Stderr, "uqimageclient: unable to connect to port %q\n", cfg.Port)
		return exitConnectFailed
	case errors.Is(err, client.ErrWrite):
		fmt.Fprintln(os.Stderr, "uqimageclient: unable to write output")
		return exitWriteFailed
	case errors.Is(err, client.ErrConnectionClosed):
		fmt.Fprintln(os.Stderr, "uqimageclient: server connection terminated")
		return exitConnectionClosed
	default:
		fmt.Fprintln(os.Stderr, "uqimageclient: server connection terminated")
		return exitConnectionClosed
	}
}
