package config

import (
	"errors"
	"strconv"

	"github.com/trazzed/uqimage/pkg/operations"
)

// ErrClientCommandLine is returned for any malformed uqimageclient
// invocation.
var ErrClientCommandLine = errors.New("invalid command line arguments")

// ClientConfig is the validated result of parsing uqimageclient's command
// line. Exactly one of Rotate, Flip, or Scale is ever requested; when none
// of the three flags was given, Operation defaults to a zero-degree rotate,
// matching the reference client's fallback request.
type ClientConfig struct {
	Port string

	HasInput  bool
	InputFile string

	HasOutput  bool
	OutputFile string

	Operation operations.Operation
}

const (
	clientRotateMin = -359
	clientRotateMax = 359
	clientScaleMin  = 1
	clientScaleMax  = 10000
)

// ParseClientArgs validates uqimageclient's command line: a positional port
// followed by --input, --output, and at most one of --rotate/--flip/--scale,
// in any order. args excludes the program name (i.e. args == os.Args[1:]).
func ParseClientArgs(args []string) (ClientConfig, error) {
	if len(args) == 0 {
		return ClientConfig{}, ErrClientCommandLine
	}

	port := args[0]
	switch port {
	case "", "--input", "--output", "--rotate", "--flip", "--scale":
		return ClientConfig{}, ErrClientCommandLine
	}

	cfg := ClientConfig{Port: port}
	operationGiven := false

	for i := 1; i < len(args); i++ {
		arg := args[i]
		if arg == "" {
			return ClientConfig{}, ErrClientCommandLine
		}

		switch arg {
		case "--input":
			if cfg.HasInput {
				return ClientConfig{}, ErrClientCommandLine
			}
			value, err := clientNextValue(args, &i)
			if err != nil {
				return ClientConfig{}, err
			}
			cfg.InputFile = value
			cfg.HasInput = true

		case "--output":
			if cfg.HasOutput {
				return ClientConfig{}, ErrClientCommandLine
			}
			value, err := clientNextValue(args, &i)
			if err != nil {
				return ClientConfig{}, err
			}
			cfg.OutputFile = value
			cfg.HasOutput = true

		case "--rotate":
			if operationGiven {
				return ClientConfig{}, ErrClientCommandLine
			}
			value, err := clientNextValue(args, &i)
			if err != nil {
				return ClientConfig{}, err
			}
			angle, err := clientIntInRange(value, clientRotateMin, clientRotateMax)
			if err != nil {
				return ClientConfig{}, err
			}
			cfg.Operation = operations.Rotate{Angle: angle}
			operationGiven = true

		case "--flip":
			if operationGiven {
				return ClientConfig{}, ErrClientCommandLine
			}
			value, err := clientNextValue(args, &i)
			if err != nil {
				return ClientConfig{}, err
			}
			var dir operations.Direction
			switch value {
			case "h":
				dir = operations.Horizontal
			case "v":
				dir = operations.Vertical
			default:
				return ClientConfig{}, ErrClientCommandLine
			}
			cfg.Operation = operations.Flip{Direction: dir}
			operationGiven = true

		case "--scale":
			if operationGiven {
				return ClientConfig{}, ErrClientCommandLine
			}
			if i+2 >= len(args) {
				return ClientConfig{}, ErrClientCommandLine
			}
			widthStr, heightStr := args[i+1], args[i+2]
			if widthStr == "" || heightStr == "" {
				return ClientConfig{}, ErrClientCommandLine
			}
			width, err := clientIntInRange(widthStr, clientScaleMin, clientScaleMax)
			if err != nil {
				return ClientConfig{}, err
			}
			height, err := clientIntInRange(heightStr, clientScaleMin, clientScaleMax)
			if err != nil {
				return ClientConfig{}, err
			}
			cfg.Operation = operations.Scale{Width: width, Height: height}
			operationGiven = true
			i += 2

		default:
			return ClientConfig{}, ErrClientCommandLine
		}
	}

	if cfg.Operation == nil {
		cfg.Operation = operations.Rotate{Angle: 0}
	}

	return cfg, nil
}

func clientNextValue(args []string, i *int) (string, error) {
	if *i+1 >= len(args) {
		return "", ErrClientCommandLine
	}
	*i++
	value := args[*i]
	if value == "" {
		return "", ErrClientCommandLine
	}
	return value, nil
}

func clientIntInRange(s string, min, max int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, ErrClientCommandLine
	}
	if n < min || n > max {
		return 0, ErrClientCommandLine
	}
	return n, nil
}
