package system

import (
	"time"

	"github.com/gdlib/gdengine/internal/core/event"
	coresys "github.com/gdlib/gdengine/internal/core/system"
	"github.com/gdlib/gdengine/internal/input"
	"go.uber.org/zap"
)

// Poller is an input source that is refreshed once per frame.
type Poller interface {
	input.Source
	Poll()
}

// KeyBindings map application keys to events.
type KeyBindings struct {
	CycleCamera input.Key
	ToggleDebug input.Key
	Pause       []input.Key
	Save        input.Key
	Quit        input.Key
}

var DefaultBindings = KeyBindings{
	CycleCamera: "f1",
	ToggleDebug: "f5",
	Pause:       []input.Key{"esc", "p"},
	Save:        "f9",
	Quit:        "q",
}

// InputSystem polls input and turns first presses of bound keys into
// events for this frame's drain. Phase 0 (Input).
type InputSystem struct {
	source   Poller
	bindings KeyBindings
	events   *event.Dispatcher
	paused   bool
	quit     func()
	log      *zap.Logger
}

func NewInputSystem(source Poller, bindings KeyBindings, d *event.Dispatcher, paused bool, quit func(), log *zap.Logger) *InputSystem {
	if log == nil {
		log = zap.NewNop()
	}
	s := &InputSystem{
		source:   source,
		bindings: bindings,
		events:   d,
		paused:   paused,
		quit:     quit,
		log:      log,
	}
	// keep the toggle in step with pauses published elsewhere
	d.Subscribe(event.CategoryMainMenu, func(e event.Data) {
		switch e.Action {
		case event.OnPause:
			s.paused = true
		case event.OnPlay:
			s.paused = false
		}
	})
	return s
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

// Paused reports the pause state the next toggle starts from.
func (s *InputSystem) Paused() bool { return s.paused }

func (s *InputSystem) Update(_ time.Duration) {
	s.source.Poll()
	in, b := s.source, s.bindings

	if in.FirstPress(b.Quit) && s.quit != nil {
		s.log.Info("quit requested")
		s.quit()
		return
	}
	if in.FirstPress(b.CycleCamera) {
		s.events.Publish(event.New(event.CategoryCamera, event.OnCameraCycle))
	}
	if in.FirstPress(b.ToggleDebug) {
		s.events.Publish(event.New(event.CategoryDebug, event.OnToggleDebug))
	}
	if in.FirstPress(b.Save) {
		s.events.Publish(event.New(event.CategoryDebug, event.OnSave))
	}
	for _, k := range b.Pause {
		if !in.FirstPress(k) {
			continue
		}
		if s.paused {
			s.events.Publish(event.New(event.CategoryMainMenu, event.OnPlay))
		} else {
			s.events.Publish(event.New(event.CategoryMainMenu, event.OnPause))
		}
		s.paused = !s.paused
		break
	}
}
