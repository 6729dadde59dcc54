package sim

import (
	"time"

	"github.com/san-kum/physnodes/internal/world"
)

// Observer is notified after each frame has been stepped.
type Observer interface {
	OnFrame(frame int, t float64, w *world.World)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(frame int, t float64, w *world.World)

func (f ObserverFunc) OnFrame(frame int, t float64, w *world.World) { f(frame, t, w) }

type Config struct {
	Dt     float64
	Frames int
}

type Result struct {
	FramesTaken int
	Time        float64
	Elapsed     time.Duration
}
