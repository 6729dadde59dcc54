package sim

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/san-kum/physnodes/internal/world"
	"go.uber.org/zap"
)

// Stepper advances a world frame by frame at a fixed timestep.
type Stepper struct {
	observers []Observer
	log       *zap.Logger
}

func New(log *zap.Logger) *Stepper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Stepper{
		observers: make([]Observer, 0),
		log:       log,
	}
}

func (s *Stepper) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run steps w cfg.Frames times. Observers see the world after every step.
// The context is checked between frames; a cancelled run returns the partial
// result together with ctx.Err().
func (s *Stepper) Run(ctx context.Context, w *world.World, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	start := time.Now()
	result := &Result{}
	dynamic := w.Dynamic()

	s.log.Debug("stepping world",
		zap.Int("frames", cfg.Frames),
		zap.Float64("dt", cfg.Dt),
		zap.Int("dynamic_shapes", len(dynamic)))

	for i := 0; i < cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			result.Elapsed = time.Since(start)
			return result, ctx.Err()
		default:
		}

		if err := w.Step(cfg.Dt); err != nil {
			return result, err
		}
		result.FramesTaken++
		result.Time = w.Time()

		for _, shape := range dynamic {
			if !shape.Position().IsValid() {
				result.Elapsed = time.Since(start)
				return result, &FrameError{Frame: i, Time: w.Time(), ShapeID: shape.ID, Wrapped: ErrUnstable}
			}
		}

		for _, obs := range s.observers {
			obs.OnFrame(i, w.Time(), w)
		}
	}

	result.Elapsed = time.Since(start)
	s.log.Debug("stepping done",
		zap.Int("frames_taken", result.FramesTaken),
		zap.Duration("elapsed", result.Elapsed))
	return result, nil
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 || math.IsNaN(cfg.Dt) || math.IsInf(cfg.Dt, 0) {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, cfg.Dt)
	}
	if cfg.Frames < 0 {
		return fmt.Errorf("%w: frames must be non-negative, got %d", ErrInvalidConfig, cfg.Frames)
	}
	return nil
}
