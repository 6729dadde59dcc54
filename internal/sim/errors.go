package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig indicates a non-positive timestep or negative frame count.
	ErrInvalidConfig = errors.New("sim: invalid stepping config")

	// ErrUnstable indicates a body position diverged to NaN or Inf.
	ErrUnstable = errors.New("sim: simulation unstable (position diverged)")
)

// FrameError wraps an error with the frame it occurred on.
type FrameError struct {
	Frame   int
	Time    float64
	ShapeID int
	Wrapped error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d (t=%.4f, shape %d): %v", e.Frame, e.Time, e.ShapeID, e.Wrapped)
}

func (e *FrameError) Unwrap() error {
	return e.Wrapped
}
