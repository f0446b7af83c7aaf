package system

import (
	"sort"
	"time"
)

// Runner is the frame driver: it executes systems in phase order each frame.
// Systems sharing a phase keep their registration order.
type Runner struct {
	systems []System
	sorted  bool
	frame   uint64
}

func NewRunner() *Runner {
	return &Runner{
		systems: make([]System, 0, 16),
	}
}

// Register adds s to the frame. Phase order is resolved lazily on the next
// Tick, so systems may be registered in any order, including between frames.
// Within a phase they run in the order they were registered.
func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

// Frame returns how many frames have completed.
func (r *Runner) Frame() uint64 { return r.frame }

// Tick advances the simulation one frame: every system runs once, from
// PhaseInput through PhaseDraw, with dt as the frame's elapsed time. Events
// published after PhaseEvents wait for the next frame's drain.
// The frame counter advances only after PhaseDraw has run.
func (r *Runner) Tick(dt time.Duration) {
	r.ensureSorted()
	for _, s := range r.systems {
		s.Update(dt)
	}
	r.frame++
}

// TickPhase runs only the systems of one phase without advancing the frame
// counter. The main loop uses it with PhaseDraw to repaint after a terminal
// resize while the simulation itself is between frames.
func (r *Runner) TickPhase(phase Phase, dt time.Duration) {
	r.ensureSorted()
	for _, s := range r.systems {
		if s.Phase() == phase {
			s.Update(dt)
		}
	}
}

func (r *Runner) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}
