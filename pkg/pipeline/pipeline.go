// Package pipeline decodes a raster image, applies an ordered
// operations.Plan to it, and re-encodes the result as PNG. Decoding and the
// rotate/flip/resize primitives are supplied by
// github.com/disintegration/imaging; PNG encoding uses the standard
// image/png package.
package pipeline

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/disintegration/imaging"

	"github.com/trazzed/uqimage/pkg/operations"
)

// StageError reports that one operation in a Plan failed to produce a
// usable image. Op is the wire name of the failing operation ("rotate",
// "flip", "scale"), used verbatim in the 501 response body.
type StageError struct {
	Op string
}

func (e *StageError) Error() string {
	return fmt.Sprintf("operation did not complete: %s", e.Op)
}

// ErrInvalidImage indicates the input bytes could not be decoded as a
// raster image.
var ErrInvalidImage = fmt.Errorf("invalid image received")

// Result is the outcome of running a Plan to completion.
type Result struct {
	// PNG is the final encoded image.
	PNG []byte
	// StagesCompleted is the number of operations that produced a usable
	// image, i.e. how much the caller should add to the operations counter
	// even on a StageError exit.
	StagesCompleted int
}

// Run decodes body, applies plan left to right, and encodes the final
// bitmap as PNG. On decode failure it returns ErrInvalidImage. On a stage
// failure partway through the plan it returns a *StageError; the earlier
// successful stages still count toward Result.StagesCompleted — there is no
// rollback of stages already applied.
func Run(body []byte, plan operations.Plan) (Result, error) {
	img, err := imaging.Decode(bytes.NewReader(body), imaging.AutoOrientation(false))
	if err != nil {
		return Result{}, ErrInvalidImage
	}

	var result Result
	for _, op := range plan {
		next, ok := applyStage(img, op)
		if !ok {
			return result, &StageError{Op: op.Name()}
		}
		img = next
		result.StagesCompleted++
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return result, &StageError{Op: "encode"}
	}
	result.PNG = buf.Bytes()
	return result, nil
}

// applyStage applies a single operation, reporting false when the codec
// produced a degenerate (zero-area) or otherwise unusable result — the Go
// equivalent of FreeImage returning a null bitmap.
func applyStage(img image.Image, op operations.Operation) (image.Image, bool) {
	switch o := op.(type) {
	case operations.Rotate:
		out := imaging.Rotate(img, float64(o.Angle), color.Transparent)
		return out, usable(out)
	case operations.Flip:
		var out *image.NRGBA
		if o.Direction == operations.Vertical {
			out = imaging.FlipV(img)
		} else {
			out = imaging.FlipH(img)
		}
		return out, usable(out)
	case operations.Scale:
		out := imaging.Resize(img, o.Width, o.Height, imaging.Linear)
		return out, usable(out)
	default:
		return nil, false
	}
}

func usable(img image.Image) bool {
	if img == nil {
		return false
	}
	bounds := img.Bounds()
	return bounds.Dx() > 0 && bounds.Dy() > 0
}

// Decode is exposed for callers (such as tests) that need to inspect a
// previously-encoded PNG without running a Plan.
func Decode(r io.Reader) (image.Image, error) {
	return png.Decode(r)
}
