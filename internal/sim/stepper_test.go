package sim

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/san-kum/physnodes/internal/world"
)

type countingObserver struct {
	frames []int
	times  []float64
}

func (c *countingObserver) OnFrame(frame int, t float64, w *world.World) {
	c.frames = append(c.frames, frame)
	c.times = append(c.times, t)
}

func newDropWorld(t *testing.T) *world.World {
	t.Helper()
	w := world.New(world.Vec{Y: 9.8})
	if _, err := w.AddBox(world.BoxParams{Width: 10, Height: 10, Radius: 1, Mass: 1}); err != nil {
		t.Fatalf("add box: %v", err)
	}
	return w
}

func TestStepperRun(t *testing.T) {
	w := newDropWorld(t)
	obs := &countingObserver{}

	s := New(nil)
	s.AddObserver(obs)

	result, err := s.Run(context.Background(), w, Config{Dt: 0.02, Frames: 14})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.FramesTaken != 14 {
		t.Errorf("expected 14 frames, got %d", result.FramesTaken)
	}
	if len(obs.frames) != 14 {
		t.Errorf("expected 14 observations, got %d", len(obs.frames))
	}
	if obs.frames[0] != 0 || obs.frames[13] != 13 {
		t.Errorf("unexpected frame indices %v", obs.frames)
	}
	if obs.times[0] <= 0 {
		t.Error("observers must see the world after the first step")
	}
	if w.Steps() != 14 {
		t.Errorf("expected world stepped 14 times, got %d", w.Steps())
	}
}

func TestStepperZeroFrames(t *testing.T) {
	w := newDropWorld(t)
	obs := &countingObserver{}
	s := New(nil)
	s.AddObserver(obs)

	result, err := s.Run(context.Background(), w, Config{Dt: 0.02, Frames: 0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.FramesTaken != 0 || len(obs.frames) != 0 {
		t.Errorf("expected no frames, got %d", result.FramesTaken)
	}
}

func TestStepperInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Frames: 10}},
		{"negative dt", Config{Dt: -0.1, Frames: 10}},
		{"negative frames", Config{Dt: 0.1, Frames: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(nil).Run(context.Background(), newDropWorld(t), tt.cfg)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestStepperCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New(nil)
	s.AddObserver(ObserverFunc(func(frame int, _ float64, _ *world.World) {
		if frame == 2 {
			cancel()
		}
	}))

	result, err := s.Run(ctx, newDropWorld(t), Config{Dt: 0.02, Frames: 100})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.FramesTaken != 3 {
		t.Errorf("expected 3 frames before cancellation, got %d", result.FramesTaken)
	}
}

func TestFrameErrorUnwrap(t *testing.T) {
	err := error(&FrameError{Frame: 3, Time: 0.06, ShapeID: 1, Wrapped: ErrUnstable})
	if !errors.Is(err, ErrUnstable) {
		t.Error("FrameError should unwrap to ErrUnstable")
	}
	var fe *FrameError
	if !errors.As(err, &fe) || fe.Frame != 3 {
		t.Error("errors.As should recover the frame")
	}
}

func TestBatchRunsAllJobs(t *testing.T) {
	var ran atomic.Int32
	boom := errors.New("boom")

	b := NewBatch()
	for _, name := range []string{"a", "b", "c"} {
		b.Add(Job{Name: name, Run: func(ctx context.Context) error {
			ran.Add(1)
			w := world.New(world.Vec{Y: 9.8})
			if _, err := w.AddCircle(world.CircleParams{Radius: 5, Mass: 1}); err != nil {
				return err
			}
			_, err := New(nil).Run(ctx, w, Config{Dt: 0.02, Frames: 5})
			return err
		}})
	}
	b.Add(Job{Name: "broken", Run: func(context.Context) error { return boom }})

	err := b.Run(context.Background())
	if ran.Load() != 3 {
		t.Errorf("expected 3 successful jobs to run, got %d", ran.Load())
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected joined error to contain boom, got %v", err)
	}
	if b.Len() != 4 {
		t.Errorf("expected 4 jobs, got %d", b.Len())
	}
}
