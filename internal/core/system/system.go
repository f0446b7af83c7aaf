package system

import "time"

// Phase defines execution ordering within a single frame.
type Phase int

const (
	PhaseInput      Phase = iota // 0: poll input, key bindings publish events
	PhaseEvents                  // 1: drain the event dispatcher
	PhaseUpdate                  // 2: tick cameras and actors
	PhasePostUpdate              // 3: interaction, picking
	PhasePersist                 // 4: snapshot writes
	PhaseCleanup                 // 5: apply deferred add/remove
	PhaseDraw                    // 6: submit drawable actors to the renderer
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhaseEvents:
		return "events"
	case PhaseUpdate:
		return "update"
	case PhasePostUpdate:
		return "post_update"
	case PhasePersist:
		return "persist"
	case PhaseCleanup:
		return "cleanup"
	case PhaseDraw:
		return "draw"
	}
	return "unknown"
}

// System is the interface every frame system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
